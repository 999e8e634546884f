/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"math"
	"math/rand"

	"sketchpad/internal/element"
	"sketchpad/internal/geometry"
)

// ellipseKappa is the control-point factor for approximating a quarter
// circle with one cubic.
const ellipseKappa = 0.5523

// Sketch returns the hand-drawn stroke of the element as cubic curves in
// element-local coordinates, computing and caching it when the cached copy
// is stale. The jitter is seeded from the element, so the same element
// sketches identically on every redraw until its seed changes.
func Sketch(el *element.Element) *element.Shape {
	if s := el.CachedShape(); s != nil {
		return s
	}
	rng := rand.New(rand.NewSource(el.Seed))
	jitter := el.Roughness * 1.5

	var curves []element.Cubic
	switch el.Type {
	case element.TypeEllipse:
		curves = sketchEllipse(el, rng, jitter)
	case element.TypeRectangle:
		w, h := el.Width, el.Height
		curves = sketchPolyline(rng, jitter,
			element.Point{X: 0, Y: 0}, element.Point{X: w, Y: 0}, element.Point{X: w, Y: h}, element.Point{X: 0, Y: h}, element.Point{X: 0, Y: 0})
	case element.TypeDiamond:
		topX, topY, rightX, rightY, bottomX, bottomY, leftX, leftY := geometry.DiamondPoints(el)
		curves = sketchPolyline(rng, jitter,
			element.Point{X: topX, Y: topY}, element.Point{X: rightX, Y: rightY},
			element.Point{X: bottomX, Y: bottomY}, element.Point{X: leftX, Y: leftY}, element.Point{X: topX, Y: topY})
	case element.TypeArrow, element.TypeLine:
		curves = sketchPolyline(rng, jitter, el.Points...)
	default:
		// text and selection have no sketched stroke
		return nil
	}

	shape := &element.Shape{Curves: curves}
	el.SetShape(shape)
	return shape
}

// sketchPolyline turns each segment into a cubic with jittered control
// points. Endpoints stay exact so consecutive segments keep touching.
func sketchPolyline(rng *rand.Rand, jitter float64, pts ...element.Point) []element.Cubic {
	if len(pts) < 2 {
		return nil
	}
	curves := make([]element.Cubic, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		c1 := element.Point{
			X: a.X + (b.X-a.X)/3 + offset(rng, jitter),
			Y: a.Y + (b.Y-a.Y)/3 + offset(rng, jitter),
		}
		c2 := element.Point{
			X: a.X + 2*(b.X-a.X)/3 + offset(rng, jitter),
			Y: a.Y + 2*(b.Y-a.Y)/3 + offset(rng, jitter),
		}
		curves = append(curves, element.Cubic{a, c1, c2, b})
	}
	return curves
}

// sketchEllipse approximates the ellipse with four quarter arcs and
// jitters the arc control points.
func sketchEllipse(el *element.Element, rng *rand.Rand, jitter float64) []element.Cubic {
	cx := el.Width / 2
	cy := el.Height / 2
	rx := math.Abs(el.Width) / 2
	ry := math.Abs(el.Height) / 2
	kx := rx * ellipseKappa
	ky := ry * ellipseKappa

	quarter := func(from, c1, c2, to element.Point) element.Cubic {
		c1.X += offset(rng, jitter)
		c1.Y += offset(rng, jitter)
		c2.X += offset(rng, jitter)
		c2.Y += offset(rng, jitter)
		return element.Cubic{from, c1, c2, to}
	}

	east := element.Point{X: cx + rx, Y: cy}
	south := element.Point{X: cx, Y: cy + ry}
	west := element.Point{X: cx - rx, Y: cy}
	north := element.Point{X: cx, Y: cy - ry}
	return []element.Cubic{
		quarter(east, element.Point{X: cx + rx, Y: cy + ky}, element.Point{X: cx + kx, Y: cy + ry}, south),
		quarter(south, element.Point{X: cx - kx, Y: cy + ry}, element.Point{X: cx - rx, Y: cy + ky}, west),
		quarter(west, element.Point{X: cx - rx, Y: cy - ky}, element.Point{X: cx - kx, Y: cy - ry}, north),
		quarter(north, element.Point{X: cx + kx, Y: cy - ry}, element.Point{X: cx + rx, Y: cy - ky}, east),
	}
}

func offset(rng *rand.Rand, jitter float64) float64 {
	return (rng.Float64()*2 - 1) * jitter
}
