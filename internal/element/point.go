/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package element

import (
	"encoding/json"
	"math"
)

// Point is a 2D coordinate. For linear elements, points are offsets relative
// to the element anchor. Points serialize as a two-element JSON array.
type Point struct{ X, Y float64 }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Hypot() float64    { return math.Hypot(p.X, p.Y) }

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var a [2]float64
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	p.X, p.Y = a[0], a[1]
	return nil
}

// Shape is the memoized rendering primitive derived from an element's
// geometry and style. Its contents are opaque to the store; the renderer
// fills it and the geometry engine reads the curve control points when
// bounding linear elements.
type Shape struct {
	// Curves holds the sketched stroke as cubic Bézier runs in
	// element-local coordinates.
	Curves []Cubic
}

// Cubic is a cubic Bézier segment given by its four control points.
type Cubic [4]Point

// At evaluates the curve at parameter t in [0, 1].
func (c Cubic) At(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*c[0].X + b*c[1].X + d*c[2].X + e*c[3].X,
		Y: a*c[0].Y + b*c[1].Y + d*c[2].Y + e*c[3].Y,
	}
}
