/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package transform

import (
	"math"
	"sort"

	"sketchpad/internal/element"
)

// minVisibleSize is the discard threshold for elements created by a
// (near) zero-displacement drag, in pixels.
const minVisibleSize = 2

// endpointMode records which end of a two-point linear element a resize
// gesture moves. The choice is made once per gesture from the sign of the
// free point relative to the dragged handle and then held fixed, so the
// endpoints don't oscillate while the pointer crosses the origin.
type endpointMode int

const (
	endpointUnresolved endpointMode = iota
	endpointOrigin
	endpointFree
)

// Session is the drag-session state for one resize gesture. It is created
// on pointer-down, threaded through every pointer-move, and discarded on
// pointer-up; nothing survives across gestures.
type Session struct {
	Handle       Handle
	LastX, LastY float64

	mode endpointMode
}

// NewSession starts a resize gesture for the given handle at the pointer
// position.
func NewSession(h Handle, x, y float64) *Session {
	return &Session{Handle: h, LastX: x, LastY: y}
}

// Apply advances the gesture to the new pointer position and mutates the
// element accordingly. proportional forces equal width/height (or a locked
// angle for two-point linear elements).
func (s *Session) Apply(el *element.Element, x, y float64, proportional bool) {
	dx := x - s.LastX
	dy := y - s.LastY
	s.LastX, s.LastY = x, y
	if dx == 0 && dy == 0 {
		return
	}

	switch {
	case el.Type.Linear() && len(el.Points) == 2 && s.Handle.corner():
		s.resizeTwoPointLinear(el, dx, dy, x, y, proportional)
	case el.Type.Linear():
		s.resizeMultiPointLinear(el, dx, dy)
	default:
		s.resizeBox(el, dx, dy, proportional)
	}
	el.MarkUpdated()
}

// resizeBox applies the per-handle delta combination that keeps the
// opposite corner (or edge) fixed.
func (s *Session) resizeBox(el *element.Element, dx, dy float64, proportional bool) {
	if s.Handle.west() {
		el.Width -= dx
		el.X += dx
	}
	if s.Handle.east() {
		el.Width += dx
	}
	if s.Handle.north() {
		el.Height -= dy
		el.Y += dy
	}
	if s.Handle.south() {
		el.Height += dy
	}

	if proportional && s.Handle.corner() {
		w, h := PerfectSize(el.Type, el.Width, el.Height)
		// re-anchor so the opposite corner stays fixed
		if s.Handle.west() {
			el.X += el.Width - w
		}
		if s.Handle.north() {
			el.Y += el.Height - h
		}
		el.Width, el.Height = w, h
	}
}

// resizeTwoPointLinear resizes an arrow or line with exactly two points.
// Dragging nw or se is ambiguous between moving the shared origin and
// moving the free endpoint; the sign of the free point decides once per
// gesture which one this session moves.
func (s *Session) resizeTwoPointLinear(el *element.Element, dx, dy, pointerX, pointerY float64, proportional bool) {
	free := el.Points[1]
	if s.mode == endpointUnresolved {
		negative := free.X < 0 || free.Y < 0
		switch s.Handle {
		case HandleNW:
			if negative {
				s.mode = endpointFree
			} else {
				s.mode = endpointOrigin
			}
		default: // se
			if negative {
				s.mode = endpointOrigin
			} else {
				s.mode = endpointFree
			}
		}
	}

	if s.mode == endpointOrigin {
		if proportional {
			w, h := PerfectSize(el.Type, free.X-dx, free.Y-dy)
			el.X += free.X - w
			el.Y += free.Y - h
			el.Points[1] = element.Point{X: w, Y: h}
		} else {
			el.X += dx
			el.Y += dy
			el.Points[1] = element.Point{X: free.X - dx, Y: free.Y - dy}
		}
		return
	}

	if proportional {
		w, h := PerfectSize(el.Type, pointerX-el.X, pointerY-el.Y)
		el.Points[1] = element.Point{X: w, Y: h}
	} else {
		el.Points[1] = element.Point{X: free.X + dx, Y: free.Y + dy}
	}
}

// resizeMultiPointLinear stretches a linear element with more than two
// points. The delta is distributed over the points on the moving side with
// a descending 1/(n-i) weighting, so the point nearest the fixed edge
// barely moves and the farthest point absorbs the full delta.
func (s *Session) resizeMultiPointLinear(el *element.Element, dx, dy float64) {
	if s.Handle.north() {
		el.Y += dy
		distribute(el.Points, -dy, byY)
	}
	if s.Handle.south() {
		distribute(el.Points, dy, byY)
	}
	if s.Handle.west() {
		el.X += dx
		distribute(el.Points, -dx, byX)
	}
	if s.Handle.east() {
		distribute(el.Points, dx, byX)
	}
}

type axis int

const (
	byX axis = iota
	byY
)

// distribute orders the points along the axis and adds delta/(n-i) to each
// point except the first, mirroring how the element anchor shift already
// moved the near side.
func distribute(points []element.Point, delta float64, ax axis) {
	n := len(points)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if ax == byX {
			return points[order[a]].X < points[order[b]].X
		}
		return points[order[a]].Y < points[order[b]].Y
	})
	for rank := 1; rank < n; rank++ {
		p := &points[order[rank]]
		if ax == byX {
			p.X += delta / float64(n-rank)
		} else {
			p.Y += delta / float64(n-rank)
		}
	}
}

// PerfectSize returns the proportional variant of the given extent. Boxes
// force the larger dimension onto the smaller one sign-preserving; linear
// elements snap the endpoint to the nearest multiple of 15°.
func PerfectSize(t element.Type, width, height float64) (float64, float64) {
	absW := math.Abs(width)
	absH := math.Abs(height)
	if absW == 0 && absH == 0 {
		return width, height
	}
	if t.Linear() {
		// snap to the nearest multiple of 15°
		steps := math.Round(math.Atan(absH/absW) / (math.Pi / 12))
		switch steps {
		case 0:
			height = 0
		case 6:
			width = 0
		default:
			height = absW * math.Tan(steps*math.Pi/12) * sign(height)
		}
	} else if absW > absH {
		height = absW * sign(height)
	} else if absH > absW {
		width = absH * sign(width)
	}
	return width, height
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Normalize converts negative width/height to non-negative by moving the
// anchor to the opposite corner. It reports whether anything changed, which
// callers use to decide whether a redraw is needed. The visual bounding box
// is unchanged; only the representation flips.
func Normalize(el *element.Element) bool {
	if el.Type.Linear() {
		return false
	}
	changed := false
	if el.Width < 0 {
		el.X += el.Width
		el.Width = -el.Width
		changed = true
	}
	if el.Height < 0 {
		el.Y += el.Height
		el.Height = -el.Height
		changed = true
	}
	if changed {
		el.MarkUpdated()
	}
	return changed
}

// IsInvisiblySmall reports whether the element is too small to see and
// should be discarded instead of committed, e.g. after a click that never
// moved. This is a normalization policy, not an error.
func IsInvisiblySmall(el *element.Element) bool {
	if el.Type.Linear() {
		return len(el.Points) < 2 || el.PathLength() < minVisibleSize
	}
	return math.Abs(el.Width) < minVisibleSize && math.Abs(el.Height) < minVisibleSize
}

// Drag moves every given element by the same delta. Points of linear
// elements are anchored relative to x/y, so shifting the anchor moves the
// whole polyline.
func Drag(els []*element.Element, dx, dy float64) {
	for _, el := range els {
		el.X += dx
		el.Y += dy
		el.MarkUpdated()
	}
}
