/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package transform implements the direct-manipulation arithmetic: resize
// handle placement and resolution, handle-based resize application, drag
// translation, and dimension normalization.
package transform

import (
	"math"

	"sketchpad/internal/element"
	"sketchpad/internal/geometry"
)

// Handle names one of the eight resize grips.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
	HandleNE Handle = "ne"
	HandleSW Handle = "sw"
	HandleSE Handle = "se"
)

const (
	handleMargin = 4
	handleSize   = 8
	// edge handles only appear when the corresponding dimension is at
	// least this big, so they don't crowd the corners
	minimumSizeForEdgeHandles = 40
)

// Rect is a handle grip area in absolute coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies within the grip.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Handles returns the resize grips for a single selected element, keyed by
// handle name. The grip offsets are sign-adjusted so they stay on the
// outside of the shape while a drag holds negative width/height. Arrows and
// lines with exactly two points expose only the nw/se corner pair; all
// other elements expose corners always and edge grips once the respective
// dimension exceeds the minimum size.
func Handles(el *element.Element) map[Handle]Rect {
	x1, y1, x2, y2 := geometry.Bounds(el)

	marginX := float64(-handleSize)
	if el.Width < 0 {
		marginX = handleSize
	}
	marginY := float64(-handleSize)
	if el.Height < 0 {
		marginY = handleSize
	}

	handles := map[Handle]Rect{
		HandleNW: {x1 - handleMargin + marginX, y1 - handleMargin + marginY, handleSize, handleSize},
		HandleNE: {x2 - handleMargin - marginX, y1 - handleMargin + marginY, handleSize, handleSize},
		HandleSW: {x1 - handleMargin + marginX, y2 - handleMargin - marginY, handleSize, handleSize},
		HandleSE: {x2 - handleMargin - marginX, y2 - handleMargin - marginY, handleSize, handleSize},
	}
	if math.Abs(x2-x1) > minimumSizeForEdgeHandles {
		handles[HandleN] = Rect{x1 + (x2-x1)/2 - handleSize/2, y1 - handleMargin + marginY, handleSize, handleSize}
		handles[HandleS] = Rect{x1 + (x2-x1)/2 - handleSize/2, y2 - handleMargin - marginY, handleSize, handleSize}
	}
	if math.Abs(y2-y1) > minimumSizeForEdgeHandles {
		handles[HandleW] = Rect{x1 - handleMargin + marginX, y1 + (y2-y1)/2 - handleSize/2, handleSize, handleSize}
		handles[HandleE] = Rect{x2 - handleMargin - marginX, y1 + (y2-y1)/2 - handleSize/2, handleSize, handleSize}
	}

	if el.Type.Linear() && len(el.Points) == 2 {
		return map[Handle]Rect{HandleNW: handles[HandleNW], HandleSE: handles[HandleSE]}
	}
	return handles
}

// HandleAt resolves the handle under the pointer, if any.
func HandleAt(el *element.Element, x, y float64) (Handle, bool) {
	for h, r := range Handles(el) {
		if r.Contains(x, y) {
			return h, true
		}
	}
	return "", false
}

func (h Handle) north() bool { return h == HandleN || h == HandleNW || h == HandleNE }
func (h Handle) south() bool { return h == HandleS || h == HandleSW || h == HandleSE }
func (h Handle) west() bool  { return h == HandleW || h == HandleNW || h == HandleSW }
func (h Handle) east() bool  { return h == HandleE || h == HandleNE || h == HandleSE }

func (h Handle) corner() bool {
	switch h {
	case HandleNW, HandleNE, HandleSW, HandleSE:
		return true
	}
	return false
}
