/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package element defines the scene element data model: a tagged variant
// over the supported shape kinds plus the shared geometry, style, and
// lifecycle fields. x/y is the top-left anchor; width/height or the relative
// point list describe the extent from there.
package element

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Type discriminates the element variants.
type Type string

const (
	TypeSelection Type = "selection"
	TypeRectangle Type = "rectangle"
	TypeDiamond   Type = "diamond"
	TypeEllipse   Type = "ellipse"
	TypeArrow     Type = "arrow"
	TypeLine      Type = "line"
	TypeText      Type = "text"
)

// Transparent is the background color sentinel meaning "no fill".
const Transparent = "transparent"

// ErrUnknownType reports an element type no dispatch site supports. It
// indicates a corrupted or unsupported scene and is not recoverable.
var ErrUnknownType = fmt.Errorf("unknown element type")

// Known reports whether t is one of the supported variants.
func (t Type) Known() bool {
	switch t {
	case TypeSelection, TypeRectangle, TypeDiamond, TypeEllipse, TypeArrow, TypeLine, TypeText:
		return true
	}
	return false
}

// Linear reports whether the variant expresses its geometry as a point
// sequence rather than width/height.
func (t Type) Linear() bool { return t == TypeArrow || t == TypeLine }

// Element is a single shape or text primitive on the canvas.
//
// The selection flag and the cached shape are runtime-only: both are
// stripped from every serialized form (scene files, clipboard payloads,
// history snapshots) and default to false/empty on load.
type Element struct {
	ID     string  `json:"id"`
	Type   Type    `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	StrokeColor     string  `json:"strokeColor"`
	BackgroundColor string  `json:"backgroundColor"`
	FillStyle       string  `json:"fillStyle"`
	StrokeWidth     float64 `json:"strokeWidth"`
	Roughness       float64 `json:"roughness"`
	Opacity         float64 `json:"opacity"`

	Seed      int64    `json:"seed"`
	Version   int      `json:"version"`
	IsDeleted bool     `json:"isDeleted"`
	GroupIDs  []string `json:"groupIds,omitempty"`

	// Linear elements only. The first point is always {0, 0}.
	Points []Point `json:"points,omitempty"`

	// Text elements only.
	Text      string  `json:"text,omitempty"`
	Font      string  `json:"font,omitempty"`
	Baseline  float64 `json:"baseline,omitempty"`
	TextAlign string  `json:"textAlign,omitempty"`

	IsSelected bool `json:"-"`

	shape        *Shape
	shapeVersion int
}

// Style carries the default attributes applied to new elements.
type Style struct {
	StrokeColor     string
	BackgroundColor string
	FillStyle       string
	StrokeWidth     float64
	Roughness       float64
	Opacity         float64
	Font            string
}

// New creates an element of the given type anchored at x,y with zero extent
// and a fresh id and seed.
func New(t Type, x, y float64, style Style) *Element {
	el := &Element{
		ID:              uuid.NewString(),
		Type:            t,
		X:               x,
		Y:               y,
		StrokeColor:     style.StrokeColor,
		BackgroundColor: style.BackgroundColor,
		FillStyle:       style.FillStyle,
		StrokeWidth:     style.StrokeWidth,
		Roughness:       style.Roughness,
		Opacity:         style.Opacity,
		Seed:            RandomSeed(),
		Version:         1,
	}
	if t.Linear() {
		el.Points = []Point{{0, 0}}
	}
	if t == TypeText {
		el.Font = style.Font
	}
	return el
}

// RandomSeed returns a seed for deterministic pseudo-random rendering.
func RandomSeed() int64 { return rand.Int63n(1 << 31) }

// Regenerate assigns a fresh id and seed, e.g. after paste or duplication.
func (el *Element) Regenerate() {
	el.ID = uuid.NewString()
	el.Seed = RandomSeed()
	el.MarkUpdated()
}

// MarkUpdated bumps the version counter and implicitly invalidates the
// cached shape. Every visible-geometry or style mutation must call it in the
// same logical step as the write, so stale cache and new geometry never
// coexist.
func (el *Element) MarkUpdated() { el.Version++ }

// SetShape installs the memoized render shape for the current version.
func (el *Element) SetShape(s *Shape) {
	el.shape = s
	el.shapeVersion = el.Version
}

// CachedShape returns the memoized shape, or nil when none has been computed
// for the element's current version.
func (el *Element) CachedShape() *Shape {
	if el.shape == nil || el.shapeVersion != el.Version {
		return nil
	}
	return el.shape
}

// LastPoint returns the final relative point of a linear element.
func (el *Element) LastPoint() Point {
	if len(el.Points) == 0 {
		return Point{}
	}
	return el.Points[len(el.Points)-1]
}

// PathLength returns the cumulative polyline length of a linear element.
func (el *Element) PathLength() float64 {
	total := 0.0
	for i := 1; i < len(el.Points); i++ {
		total += el.Points[i].Sub(el.Points[i-1]).Hypot()
	}
	return total
}
