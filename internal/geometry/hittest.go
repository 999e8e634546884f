/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"fmt"
	"math"

	"sketchpad/internal/element"
)

// LineThreshold is the pick margin around outlines and segments, in pixels.
const LineThreshold = 10

// HitTest reports whether the absolute point (x, y) hits the element.
// Filled shapes use containment semantics expanded by LineThreshold;
// unfilled shapes require the point near the outline. Selection
// pseudo-elements never hit. An unknown type is fatal: it indicates a
// corrupted scene and the error must be propagated, not swallowed.
func HitTest(el *element.Element, x, y float64) (bool, error) {
	switch el.Type {
	case element.TypeEllipse:
		return hitEllipse(el, x, y), nil
	case element.TypeRectangle:
		return hitRectangle(el, x, y), nil
	case element.TypeDiamond:
		return hitDiamond(el, x, y), nil
	case element.TypeArrow, element.TypeLine:
		return hitLinear(el, x, y), nil
	case element.TypeText:
		x1, y1, x2, y2 := Bounds(el)
		return x >= x1 && x <= x2 && y >= y1 && y <= y2, nil
	case element.TypeSelection:
		// A selection box is transient UI, never pickable.
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", element.ErrUnknownType, el.Type)
	}
}

// filled reports whether the element can be dragged from its inside.
func filled(el *element.Element) bool {
	return el.BackgroundColor != element.Transparent
}

func hitEllipse(el *element.Element, x, y float64) bool {
	a := math.Abs(el.Width) / 2
	b := math.Abs(el.Height) / 2
	px := math.Abs(x - el.X - el.Width/2)
	py := math.Abs(y - el.Y - el.Height/2)
	if a == 0 || b == 0 {
		// degenerate ellipse collapses to its axis segment; px/py are
		// already folded into the first quadrant around the center
		return distanceToSegment(px, py, 0, 0, a, b) < LineThreshold
	}

	// Iteratively find the nearest point on the ellipse; four fixed
	// refinement passes converge well enough for picking.
	tx, ty := 0.707, 0.707
	for i := 0; i < 4; i++ {
		xx := a * tx
		yy := b * ty
		ex := (a*a - b*b) * tx * tx * tx / a
		ey := (b*b - a*a) * ty * ty * ty / b
		rx := xx - ex
		ry := yy - ey
		qx := px - ex
		qy := py - ey
		r := math.Hypot(ry, rx)
		q := math.Hypot(qy, qx)
		if q == 0 {
			break
		}
		tx = math.Min(1, math.Max(0, (qx*r/q+ex)/a))
		ty = math.Min(1, math.Max(0, (qy*r/q+ey)/b))
		t := math.Hypot(ty, tx)
		tx /= t
		ty /= t
	}

	outlineDist := math.Hypot(a*tx-px, b*ty-py)
	if filled(el) {
		inside := (px/a)*(px/a)+(py/b)*(py/b) <= 1
		return inside || outlineDist < LineThreshold
	}
	return outlineDist < LineThreshold
}

func hitRectangle(el *element.Element, x, y float64) bool {
	x1, y1, x2, y2 := Bounds(el)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	if filled(el) {
		return x > x1-LineThreshold && x < x2+LineThreshold &&
			y > y1-LineThreshold && y < y2+LineThreshold
	}
	return distanceToSegment(x, y, x1, y1, x2, y1) < LineThreshold ||
		distanceToSegment(x, y, x2, y1, x2, y2) < LineThreshold ||
		distanceToSegment(x, y, x2, y2, x1, y2) < LineThreshold ||
		distanceToSegment(x, y, x1, y2, x1, y1) < LineThreshold
}

func hitDiamond(el *element.Element, x, y float64) bool {
	px := x - el.X
	py := y - el.Y
	topX, topY, rightX, rightY, bottomX, bottomY, leftX, leftY := DiamondPoints(el)

	if filled(el) {
		// normalize while a drag may still hold negative dimensions
		if topY > bottomY {
			topY, bottomY = bottomY, topY
		}
		if rightX < leftX {
			rightX, leftX = leftX, rightX
		}
		topY -= LineThreshold
		bottomY += LineThreshold
		leftX -= LineThreshold
		rightX += LineThreshold

		// the point is inside iff it is on the inner side of all four
		// edges; each cross product must be <= 0
		return (leftX-topX)*(py-leftY)-(leftX-px)*(topY-leftY) <= 0 &&
			(topX-rightX)*(py-rightY)-(px-rightX)*(topY-rightY) <= 0 &&
			(rightX-bottomX)*(py-bottomY)-(px-bottomX)*(rightY-bottomY) <= 0 &&
			(bottomX-leftX)*(py-leftY)-(px-leftX)*(bottomY-leftY) <= 0
	}

	return distanceToSegment(px, py, topX, topY, rightX, rightY) < LineThreshold ||
		distanceToSegment(px, py, rightX, rightY, bottomX, bottomY) < LineThreshold ||
		distanceToSegment(px, py, bottomX, bottomY, leftX, leftY) < LineThreshold ||
		distanceToSegment(px, py, leftX, leftY, topX, topY) < LineThreshold
}

func hitLinear(el *element.Element, x, y float64) bool {
	px := x - el.X
	py := y - el.Y
	for i := 1; i < len(el.Points); i++ {
		a := el.Points[i-1]
		b := el.Points[i]
		if distanceToSegment(px, py, a.X, a.Y, b.X, b.Y) < LineThreshold {
			return true
		}
	}
	if el.Type == element.TypeArrow {
		if tip, left, right, ok := ArrowheadPoints(el); ok {
			if distanceToSegment(px, py, left.X, left.Y, tip.X, tip.Y) < LineThreshold ||
				distanceToSegment(px, py, right.X, right.Y, tip.X, tip.Y) < LineThreshold {
				return true
			}
		}
	}
	return false
}

// distanceToSegment returns the distance from (px, py) to the segment
// (ax, ay)-(bx, by). A zero-length segment degrades to point distance.
func distanceToSegment(px, py, ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// HitElement scans the scene from the top of the paint order down and
// returns the first non-deleted element hit at (x, y), or nil.
func HitElement(els []*element.Element, x, y float64) (*element.Element, error) {
	for i := len(els) - 1; i >= 0; i-- {
		if els[i].IsDeleted {
			continue
		}
		hit, err := HitTest(els[i], x, y)
		if err != nil {
			return nil, err
		}
		if hit {
			return els[i], nil
		}
	}
	return nil, nil
}

// ContainingElement returns the topmost non-deleted element whose bounding
// box strictly contains (x, y). Unlike HitTest this ignores outlines and
// fill styles; it is used to center new text on an existing shape.
func ContainingElement(els []*element.Element, x, y float64) *element.Element {
	for i := len(els) - 1; i >= 0; i-- {
		el := els[i]
		if el.IsDeleted {
			continue
		}
		x1, y1, x2, y2 := Bounds(el)
		if x1 < x && x < x2 && y1 < y && y < y2 {
			return el
		}
	}
	return nil
}

// ElementsWithinRect returns all non-deleted elements whose bounds are
// fully enclosed by the given rectangle. This is axis-aligned containment
// of the whole element, not a geometric hit-test.
func ElementsWithinRect(els []*element.Element, x1, y1, x2, y2 float64) []*element.Element {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	var out []*element.Element
	for _, el := range els {
		if el.IsDeleted || el.Type == element.TypeSelection {
			continue
		}
		ex1, ey1, ex2, ey2 := Bounds(el)
		if ex1 > ex2 {
			ex1, ex2 = ex2, ex1
		}
		if ey1 > ey2 {
			ey1, ey2 = ey2, ey1
		}
		if ex1 >= x1 && ex2 <= x2 && ey1 >= y1 && ey2 <= y2 {
			out = append(out, el)
		}
	}
	return out
}
