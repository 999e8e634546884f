/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render paints a scene to a raster image. Elements are drawn in
// slice order (back to front), selected elements get their outline and
// resize grips on top, and deleted elements are skipped. Everything a
// redraw needs lives in the elements and the view; the renderer holds no
// state of its own.
package render

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"sketchpad/internal/element"
	"sketchpad/internal/geometry"
	"sketchpad/internal/transform"
)

// View is the canvas transform and backdrop applied to a frame.
type View struct {
	ScrollX, ScrollY float64
	Zoom             float64
	Background       string
}

const defaultFontSize = 20.0

var (
	fontOnce  sync.Once
	monoFont  *truetype.Font
	fontParse error
)

// Render draws the scene into a new image of the given pixel size.
func Render(els []*element.Element, view View, width, height int) (image.Image, error) {
	dc := gg.NewContext(width, height)

	bg := view.Background
	if bg == "" {
		bg = "#ffffff"
	}
	if r, g, b, ok := parseHexColor(bg); ok {
		dc.SetRGB(r, g, b)
		dc.Clear()
	}

	zoom := view.Zoom
	if zoom == 0 {
		zoom = 1
	}
	dc.Scale(zoom, zoom)
	dc.Translate(view.ScrollX, view.ScrollY)

	for _, el := range els {
		if el.IsDeleted {
			continue
		}
		if err := drawElement(dc, el); err != nil {
			return nil, err
		}
	}
	for _, el := range els {
		if el.IsSelected && el.Type != element.TypeSelection {
			drawSelectionDecor(dc, el)
		}
	}
	return dc.Image(), nil
}

// RenderPNG renders the scene and writes it to path.
func RenderPNG(path string, els []*element.Element, view View, width, height int) error {
	img, err := Render(els, view, width, height)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func drawElement(dc *gg.Context, el *element.Element) error {
	switch el.Type {
	case element.TypeSelection:
		drawSelectionBox(dc, el)
		return nil
	case element.TypeText:
		return drawText(dc, el)
	case element.TypeRectangle, element.TypeDiamond, element.TypeEllipse:
		drawShape(dc, el, true)
		return nil
	case element.TypeArrow, element.TypeLine:
		drawShape(dc, el, false)
		if el.Type == element.TypeArrow {
			drawArrowhead(dc, el)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", element.ErrUnknownType, el.Type)
	}
}

func drawShape(dc *gg.Context, el *element.Element, fillable bool) {
	shape := Sketch(el)
	if shape == nil || len(shape.Curves) == 0 {
		return
	}
	alpha := el.Opacity / 100

	dc.NewSubPath()
	first := shape.Curves[0][0]
	dc.MoveTo(el.X+first.X, el.Y+first.Y)
	for _, c := range shape.Curves {
		dc.CubicTo(
			el.X+c[1].X, el.Y+c[1].Y,
			el.X+c[2].X, el.Y+c[2].Y,
			el.X+c[3].X, el.Y+c[3].Y,
		)
	}

	if fillable && el.BackgroundColor != element.Transparent {
		if r, g, b, ok := parseHexColor(el.BackgroundColor); ok {
			dc.SetRGBA(r, g, b, alpha)
			dc.FillPreserve()
		}
	}
	r, g, b, _ := parseHexColor(el.StrokeColor)
	dc.SetRGBA(r, g, b, alpha)
	dc.SetLineWidth(math.Max(el.StrokeWidth, 1))
	dc.Stroke()
}

func drawArrowhead(dc *gg.Context, el *element.Element) {
	tip, left, right, ok := geometry.ArrowheadPoints(el)
	if !ok {
		return
	}
	r, g, b, _ := parseHexColor(el.StrokeColor)
	dc.SetRGBA(r, g, b, el.Opacity/100)
	dc.SetLineWidth(math.Max(el.StrokeWidth, 1))
	dc.DrawLine(el.X+left.X, el.Y+left.Y, el.X+tip.X, el.Y+tip.Y)
	dc.Stroke()
	dc.DrawLine(el.X+right.X, el.Y+right.Y, el.X+tip.X, el.Y+tip.Y)
	dc.Stroke()
}

func drawText(dc *gg.Context, el *element.Element) error {
	face, err := faceFor(fontSize(el.Font))
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	r, g, b, _ := parseHexColor(el.StrokeColor)
	dc.SetRGBA(r, g, b, el.Opacity/100)
	baseline := el.Baseline
	if baseline == 0 {
		baseline = fontSize(el.Font)
	}
	dc.DrawString(el.Text, el.X, el.Y+baseline)
	return nil
}

func drawSelectionBox(dc *gg.Context, el *element.Element) {
	x, y, w, h := normalizedRect(el)
	dc.SetRGBA(0, 0.4, 1, 0.1)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	dc.SetRGBA(0, 0.4, 1, 0.6)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()
}

func drawSelectionDecor(dc *gg.Context, el *element.Element) {
	x1, y1, x2, y2 := geometry.Bounds(el)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	const margin = 4
	dc.SetRGBA(0, 0, 0, 0.8)
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	dc.DrawRectangle(x1-margin, y1-margin, (x2-x1)+2*margin, (y2-y1)+2*margin)
	dc.Stroke()
	dc.SetDash()

	for _, grip := range transform.Handles(el) {
		dc.SetRGB(1, 1, 1)
		dc.DrawRectangle(grip.X, grip.Y, grip.W, grip.H)
		dc.FillPreserve()
		dc.SetRGB(0, 0, 0)
		dc.Stroke()
	}
}

func normalizedRect(el *element.Element) (x, y, w, h float64) {
	x, y, w, h = el.X, el.Y, el.Width, el.Height
	if w < 0 {
		x += w
		w = -w
	}
	if h < 0 {
		y += h
		h = -h
	}
	return
}

// parseHexColor accepts #rgb and #rrggbb. Anything else, including the
// transparent sentinel, reports ok=false.
func parseHexColor(s string) (r, g, b float64, ok bool) {
	if !strings.HasPrefix(s, "#") {
		return 0, 0, 0, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255, true
}

// fontSize extracts the pixel size from a CSS-style font spec such as
// "20px Virgil".
func fontSize(spec string) float64 {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return defaultFontSize
	}
	num := strings.TrimSuffix(fields[0], "px")
	size, err := strconv.ParseFloat(num, 64)
	if err != nil || size <= 0 {
		return defaultFontSize
	}
	return size
}

// MeasureText returns the pixel extent and baseline offset of a single
// text line in the given font spec.
func MeasureText(text, fontSpec string) (w, h, baseline float64, err error) {
	size := fontSize(fontSpec)
	face, err := faceFor(size)
	if err != nil {
		return 0, 0, 0, err
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	w, h = dc.MeasureString(text)
	return w, h, size, nil
}

func faceFor(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		monoFont, fontParse = truetype.Parse(gomono.TTF)
	})
	if fontParse != nil {
		return nil, fmt.Errorf("parse font: %w", fontParse)
	}
	return truetype.NewFace(monoFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
