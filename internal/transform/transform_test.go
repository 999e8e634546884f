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
	"testing"

	"sketchpad/internal/element"
)

func rect(x, y, w, h float64) *element.Element {
	el := element.New(element.TypeRectangle, x, y, element.Style{
		StrokeColor:     "#000",
		BackgroundColor: element.Transparent,
		Opacity:         100,
	})
	el.Width = w
	el.Height = h
	return el
}

func polyline(t element.Type, x, y float64, pts ...element.Point) *element.Element {
	el := element.New(t, x, y, element.Style{
		StrokeColor:     "#000",
		BackgroundColor: element.Transparent,
		Opacity:         100,
	})
	el.Points = pts
	return el
}

func TestHandlesCornersAlways(t *testing.T) {
	el := rect(0, 0, 20, 20)
	hs := Handles(el)
	for _, h := range []Handle{HandleNW, HandleNE, HandleSW, HandleSE} {
		if _, ok := hs[h]; !ok {
			t.Fatalf("missing corner handle %s", h)
		}
	}
	for _, h := range []Handle{HandleN, HandleS, HandleW, HandleE} {
		if _, ok := hs[h]; ok {
			t.Fatalf("edge handle %s must not appear on a 20x20 element", h)
		}
	}
}

func TestHandlesEdgesAboveMinimum(t *testing.T) {
	el := rect(0, 0, 100, 30)
	hs := Handles(el)
	if _, ok := hs[HandleN]; !ok {
		t.Fatalf("wide element must expose the north handle")
	}
	if _, ok := hs[HandleW]; ok {
		t.Fatalf("short element must not expose the west handle")
	}
}

func TestHandlesTwoPointLinear(t *testing.T) {
	el := polyline(element.TypeLine, 0, 0, element.Point{X: 0, Y: 0}, element.Point{X: 100, Y: 100})
	hs := Handles(el)
	if len(hs) != 2 {
		t.Fatalf("two-point line must expose exactly nw and se, got %d", len(hs))
	}
	if _, ok := hs[HandleNW]; !ok {
		t.Fatalf("missing nw")
	}
	if _, ok := hs[HandleSE]; !ok {
		t.Fatalf("missing se")
	}
}

func TestHandleAt(t *testing.T) {
	el := rect(0, 0, 100, 100)
	hs := Handles(el)
	se := hs[HandleSE]
	h, ok := HandleAt(el, se.X+se.W/2, se.Y+se.H/2)
	if !ok || h != HandleSE {
		t.Fatalf("expected se handle, got %q ok=%v", h, ok)
	}
	if _, ok := HandleAt(el, 50, 50); ok {
		t.Fatalf("center must resolve no handle")
	}
}

func TestResizeBoxSEKeepsOrigin(t *testing.T) {
	el := rect(10, 10, 100, 50)
	s := NewSession(HandleSE, 110, 60)
	s.Apply(el, 130, 90, false)
	if el.X != 10 || el.Y != 10 {
		t.Fatalf("se resize must not move the anchor, got %v %v", el.X, el.Y)
	}
	if el.Width != 120 || el.Height != 80 {
		t.Fatalf("size = %v x %v", el.Width, el.Height)
	}
}

func TestResizeBoxNWMovesAnchor(t *testing.T) {
	el := rect(10, 10, 100, 50)
	s := NewSession(HandleNW, 10, 10)
	s.Apply(el, 0, 0, false)
	if el.X != 0 || el.Y != 0 {
		t.Fatalf("nw resize must move the anchor, got %v %v", el.X, el.Y)
	}
	if el.Width != 110 || el.Height != 60 {
		t.Fatalf("size = %v x %v", el.Width, el.Height)
	}
}

func TestResizeBoxThroughZeroThenNormalize(t *testing.T) {
	el := rect(0, 0, 100, 50)
	// drag the se handle from (100, 50) past the nw corner to (-40, -30);
	// dimensions go negative
	s := NewSession(HandleSE, 100, 50)
	s.Apply(el, -40, -30, false)
	if el.Width != -40 || el.Height != -30 {
		t.Fatalf("mid-gesture size = %v x %v", el.Width, el.Height)
	}
	// the visual box before normalization
	wantX1 := math.Min(el.X, el.X+el.Width)
	wantY1 := math.Min(el.Y, el.Y+el.Height)
	wantX2 := math.Max(el.X, el.X+el.Width)
	wantY2 := math.Max(el.Y, el.Y+el.Height)

	if !Normalize(el) {
		t.Fatalf("normalize must report a change")
	}
	if el.Width < 0 || el.Height < 0 {
		t.Fatalf("normalized size = %v x %v", el.Width, el.Height)
	}
	if el.X != wantX1 || el.Y != wantY1 || el.X+el.Width != wantX2 || el.Y+el.Height != wantY2 {
		t.Fatalf("normalization changed the visual box")
	}
	if Normalize(el) {
		t.Fatalf("second normalize must be a no-op")
	}
}

func TestResizeBoxProportional(t *testing.T) {
	el := rect(0, 0, 100, 50)
	s := NewSession(HandleSE, 100, 50)
	s.Apply(el, 120, 60, true)
	if el.Width != el.Height {
		t.Fatalf("proportional corner resize must square the box, got %v x %v", el.Width, el.Height)
	}
	if el.X != 0 || el.Y != 0 {
		t.Fatalf("se proportional resize must not move the anchor")
	}
}

func TestResizeBoxProportionalNWReanchors(t *testing.T) {
	el := rect(0, 0, 100, 40)
	s := NewSession(HandleNW, 0, 0)
	s.Apply(el, -20, 0, true)
	if el.Width != el.Height {
		t.Fatalf("got %v x %v", el.Width, el.Height)
	}
	// the se corner must remain fixed at (100, 40)
	if el.X+el.Width != 100 || el.Y+el.Height != 40 {
		t.Fatalf("opposite corner moved to (%v, %v)", el.X+el.Width, el.Y+el.Height)
	}
}

func TestTwoPointLinearSEMovesFreeEndpoint(t *testing.T) {
	el := polyline(element.TypeLine, 10, 10, element.Point{X: 0, Y: 0}, element.Point{X: 100, Y: 50})
	s := NewSession(HandleSE, 110, 60)
	s.Apply(el, 130, 80, false)
	if el.X != 10 || el.Y != 10 {
		t.Fatalf("anchor must not move, got %v %v", el.X, el.Y)
	}
	if el.Points[1] != (element.Point{X: 120, Y: 70}) {
		t.Fatalf("free endpoint = %v", el.Points[1])
	}
}

func TestTwoPointLinearNWMovesOrigin(t *testing.T) {
	el := polyline(element.TypeLine, 10, 10, element.Point{X: 0, Y: 0}, element.Point{X: 100, Y: 50})
	s := NewSession(HandleNW, 10, 10)
	s.Apply(el, 0, 0, false)
	if el.X != 0 || el.Y != 0 {
		t.Fatalf("anchor = %v %v", el.X, el.Y)
	}
	// the free endpoint stays put in absolute coordinates
	if el.X+el.Points[1].X != 110 || el.Y+el.Points[1].Y != 60 {
		t.Fatalf("free endpoint moved to (%v, %v)", el.X+el.Points[1].X, el.Y+el.Points[1].Y)
	}
}

func TestTwoPointLinearModeHeldAcrossGesture(t *testing.T) {
	// a line pointing up-left: the free endpoint is negative, so nw grabs it
	el := polyline(element.TypeLine, 100, 100, element.Point{X: 0, Y: 0}, element.Point{X: -80, Y: -60})
	s := NewSession(HandleNW, 20, 40)
	s.Apply(el, 10, 30, false)
	if s.mode != endpointFree {
		t.Fatalf("nw on a negative line must move the free endpoint")
	}
	if el.X != 100 || el.Y != 100 {
		t.Fatalf("anchor must not move")
	}
	if el.Points[1] != (element.Point{X: -90, Y: -70}) {
		t.Fatalf("free endpoint = %v", el.Points[1])
	}
	// drag the endpoint across the origin; the mode must not flip
	s.Apply(el, 200, 200, false)
	if s.mode != endpointFree {
		t.Fatalf("mode flipped mid-gesture")
	}
	if el.X != 100 || el.Y != 100 {
		t.Fatalf("anchor moved after crossing the origin")
	}
}

func TestTwoPointLinearProportionalSnapsAngle(t *testing.T) {
	el := polyline(element.TypeLine, 0, 0, element.Point{X: 0, Y: 0}, element.Point{X: 100, Y: 4})
	s := NewSession(HandleSE, 100, 4)
	s.Apply(el, 101, 4, true)
	if el.Points[1].Y != 0 {
		t.Fatalf("near-horizontal line must snap flat, got %v", el.Points[1])
	}
}

func TestMultiPointLinearEastDistribution(t *testing.T) {
	el := polyline(element.TypeLine, 0, 0,
		element.Point{X: 0, Y: 0}, element.Point{X: 30, Y: 10}, element.Point{X: 60, Y: 0})
	s := NewSession(HandleE, 60, 5)
	s.Apply(el, 64, 5, false)
	if el.X != 0 {
		t.Fatalf("east resize must not move the anchor")
	}
	// delta 4 over ranks 1..2 of 3 points: +4/2 and +4/1
	if el.Points[0].X != 0 || el.Points[1].X != 32 || el.Points[2].X != 64 {
		t.Fatalf("points = %v", el.Points)
	}
}

func TestMultiPointLinearWestShiftsAnchor(t *testing.T) {
	el := polyline(element.TypeLine, 0, 0,
		element.Point{X: 0, Y: 0}, element.Point{X: 30, Y: 10}, element.Point{X: 60, Y: 0})
	s := NewSession(HandleW, 0, 5)
	s.Apply(el, -4, 5, false)
	if el.X != -4 {
		t.Fatalf("west resize must shift the anchor, got %v", el.X)
	}
	// the leftmost point absorbs the anchor shift only; the others are
	// pushed back by 4/2 and 4/1 so the right edge stays fixed
	if el.Points[1].X != 32 || el.Points[2].X != 64 {
		t.Fatalf("points = %v", el.Points)
	}
	if el.X+el.Points[2].X != 60 {
		t.Fatalf("right edge moved to %v", el.X+el.Points[2].X)
	}
}

func TestPerfectSizeBox(t *testing.T) {
	if w, h := PerfectSize(element.TypeRectangle, 100, 40); w != 100 || h != 100 {
		t.Fatalf("got %v x %v", w, h)
	}
	if w, h := PerfectSize(element.TypeRectangle, 40, -100); w != 100 || h != -100 {
		t.Fatalf("sign must survive, got %v x %v", w, h)
	}
	if w, h := PerfectSize(element.TypeRectangle, 50, 50); w != 50 || h != 50 {
		t.Fatalf("square input unchanged, got %v x %v", w, h)
	}
}

func TestPerfectSizeLinearAngles(t *testing.T) {
	// 45° within tolerance snaps to equal legs
	w, h := PerfectSize(element.TypeLine, 100, 96)
	if math.Abs(h-100) > 1e-9 || w != 100 {
		t.Fatalf("got %v x %v", w, h)
	}
	// steep line snaps vertical
	w, _ = PerfectSize(element.TypeLine, 3, 100)
	if w != 0 {
		t.Fatalf("steep line must snap vertical, w=%v", w)
	}
}

func TestIsInvisiblySmall(t *testing.T) {
	if !IsInvisiblySmall(rect(0, 0, 1, 1)) {
		t.Fatalf("1x1 box is invisible")
	}
	if IsInvisiblySmall(rect(0, 0, 1, 30)) {
		t.Fatalf("a thin but long box is visible")
	}
	short := polyline(element.TypeLine, 0, 0, element.Point{X: 0, Y: 0}, element.Point{X: 1, Y: 0})
	if !IsInvisiblySmall(short) {
		t.Fatalf("1px line is invisible")
	}
	long := polyline(element.TypeLine, 0, 0, element.Point{X: 0, Y: 0}, element.Point{X: 40, Y: 0})
	if IsInvisiblySmall(long) {
		t.Fatalf("40px line is visible")
	}
}

func TestDrag(t *testing.T) {
	a := rect(0, 0, 10, 10)
	b := polyline(element.TypeLine, 5, 5, element.Point{X: 0, Y: 0}, element.Point{X: 10, Y: 10})
	v := b.Version
	Drag([]*element.Element{a, b}, 7, -3)
	if a.X != 7 || a.Y != -3 || b.X != 12 || b.Y != 2 {
		t.Fatalf("positions = (%v,%v) (%v,%v)", a.X, a.Y, b.X, b.Y)
	}
	if b.Points[1] != (element.Point{X: 10, Y: 10}) {
		t.Fatalf("relative points must not change")
	}
	if b.Version <= v {
		t.Fatalf("drag must bump the version")
	}
}
