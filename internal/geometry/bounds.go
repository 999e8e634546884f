/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geometry computes element bounds and answers hit-testing and
// containment queries. Hit-testing is a linear scan over the scene; there is
// no spatial index.
package geometry

import (
	"math"

	"sketchpad/internal/element"
)

// curveSteps is the number of parameter steps used to bound a sketched
// cubic, t = 0, 0.1, ..., 1.0.
const curveSteps = 10

// Bounds returns the absolute coordinates [x1, y1, x2, y2] of the element.
// Box-like elements report the anchor plus width/height directly, so the
// coordinates may be inverted mid-gesture while a dimension is negative.
// Linear elements are bounded by the sketched stroke when a cached shape
// exists, otherwise by the raw point list; bounds can therefore tighten
// slightly after the first render.
func Bounds(el *element.Element) (x1, y1, x2, y2 float64) {
	if el.Type.Linear() {
		return linearBounds(el)
	}
	return el.X, el.Y, el.X + el.Width, el.Y + el.Height
}

func linearBounds(el *element.Element) (x1, y1, x2, y2 float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(p element.Point) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	if shape := el.CachedShape(); shape != nil && len(shape.Curves) > 0 {
		for _, c := range shape.Curves {
			for i := 0; i <= curveSteps; i++ {
				grow(c.At(float64(i) / curveSteps))
			}
		}
	} else if len(el.Points) > 0 {
		for _, p := range el.Points {
			grow(p)
		}
	} else {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	return el.X + minX, el.Y + minY, el.X + maxX, el.Y + maxY
}

// DiamondPoints derives the four diamond vertices (top, right, bottom,
// left) from the element's width/height, in element-local coordinates.
// The +1 offset keeps edges from collapsing to zero length, which would
// feed degenerate segments into the sketch generator.
func DiamondPoints(el *element.Element) (topX, topY, rightX, rightY, bottomX, bottomY, leftX, leftY float64) {
	topX = math.Floor(el.Width/2) + 1
	topY = 0
	rightX = el.Width
	rightY = math.Floor(el.Height/2) + 1
	bottomX = topX
	bottomY = el.Height
	leftX = 0
	leftY = rightY
	return
}

// ArrowheadPoints computes the two arrowhead wing endpoints for an arrow in
// element-local coordinates. The wings extend from the tip against the last
// segment's direction, rotated ±20°, capped at 30 px or half the cumulative
// polyline length, whichever is smaller. ok is false when the arrow is
// degenerate (fewer than two points or zero length).
func ArrowheadPoints(el *element.Element) (tip, left, right element.Point, ok bool) {
	if len(el.Points) < 2 {
		return element.Point{}, element.Point{}, element.Point{}, false
	}
	length := el.PathLength()
	if length == 0 {
		return element.Point{}, element.Point{}, element.Point{}, false
	}
	tip = el.Points[len(el.Points)-1]
	prev := el.Points[len(el.Points)-2]
	seg := tip.Sub(prev)
	segLen := seg.Hypot()
	if segLen == 0 {
		return element.Point{}, element.Point{}, element.Point{}, false
	}
	size := math.Min(30, length/2)
	// unit vector pointing back along the last segment
	ux, uy := -seg.X/segLen, -seg.Y/segLen
	const wingAngle = 20 * math.Pi / 180
	sin, cos := math.Sin(wingAngle), math.Cos(wingAngle)
	left = element.Point{
		X: tip.X + size*(ux*cos-uy*sin),
		Y: tip.Y + size*(ux*sin+uy*cos),
	}
	right = element.Point{
		X: tip.X + size*(ux*cos+uy*sin),
		Y: tip.Y + size*(-ux*sin+uy*cos),
	}
	return tip, left, right, true
}

// CommonBounds returns the bounding box enclosing all given elements.
func CommonBounds(els []*element.Element) (x1, y1, x2, y2 float64) {
	x1, y1 = math.Inf(1), math.Inf(1)
	x2, y2 = math.Inf(-1), math.Inf(-1)
	for _, el := range els {
		ex1, ey1, ex2, ey2 := Bounds(el)
		if ex1 > ex2 {
			ex1, ex2 = ex2, ex1
		}
		if ey1 > ey2 {
			ey1, ey2 = ey2, ey1
		}
		x1 = math.Min(x1, ex1)
		y1 = math.Min(y1, ey1)
		x2 = math.Max(x2, ex2)
		y2 = math.Max(y2, ey2)
	}
	return
}
