/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"strings"
	"testing"

	"sketchpad/internal/element"
)

// named builds a sequence of elements labelled by single characters so
// orderings read like the worked examples.
func named(labels string) []*element.Element {
	els := make([]*element.Element, 0, len(labels))
	for _, r := range labels {
		el := element.New(element.TypeRectangle, 0, 0, element.Style{})
		el.Text = string(r)
		els = append(els, el)
	}
	return els
}

func labels(els []*element.Element) string {
	var b strings.Builder
	for _, el := range els {
		b.WriteString(el.Text)
	}
	return b.String()
}

func TestMoveOneBackward(t *testing.T) {
	els := named("ABCDE")
	MoveOneBackward(els, []int{1, 3})
	if got := labels(els); got != "BADCE" {
		t.Fatalf("MoveOneBackward = %q, want BADCE", got)
	}
}

func TestMoveOneBackwardBlockedAtFront(t *testing.T) {
	els := named("ABCDE")
	MoveOneBackward(els, []int{0, 1})
	if got := labels(els); got != "ABCDE" {
		t.Fatalf("contiguous front run must stay put, got %q", got)
	}
}

func TestMoveOneForward(t *testing.T) {
	els := named("ABCDE")
	MoveOneForward(els, []int{1, 3})
	if got := labels(els); got != "ACBED" {
		t.Fatalf("MoveOneForward = %q, want ACBED", got)
	}
}

func TestMoveOneForwardBlockedAtEnd(t *testing.T) {
	els := named("ABCDE")
	MoveOneForward(els, []int{3, 4})
	if got := labels(els); got != "ABCDE" {
		t.Fatalf("contiguous end run must stay put, got %q", got)
	}
}

func TestMoveOneOperationsAreInverses(t *testing.T) {
	els := named("ABCDEF")
	MoveOneForward(els, []int{1, 3})
	// the moved elements now sit at indices 2 and 4
	MoveOneBackward(els, []int{2, 4})
	if got := labels(els); got != "ABCDEF" {
		t.Fatalf("forward then backward should restore order, got %q", got)
	}
}

func TestMoveToBack(t *testing.T) {
	els := named("abcdefg")
	MoveToBack(els, []int{2, 5})
	if got := labels(els); got != "cfabdeg" {
		t.Fatalf("MoveToBack = %q, want cfabdeg", got)
	}
}

func TestMoveToFront(t *testing.T) {
	els := named("abcdefg")
	MoveToFront(els, []int{2, 5})
	if got := labels(els); got != "abdegcf" {
		t.Fatalf("MoveToFront = %q, want abdegcf", got)
	}
}

func TestMoveAllBoundaryIndices(t *testing.T) {
	els := named("abcd")
	MoveToBack(els, []int{0, 3})
	if got := labels(els); got != "adbc" {
		t.Fatalf("MoveToBack with boundary indices = %q, want adbc", got)
	}
	els = named("abcd")
	MoveToFront(els, []int{0, 3})
	if got := labels(els); got != "bcad" {
		t.Fatalf("MoveToFront with boundary indices = %q, want bcad", got)
	}
}

func TestEmptyIndexSetIsNoOp(t *testing.T) {
	els := named("abc")
	MoveOneBackward(els, nil)
	MoveOneForward(els, nil)
	MoveToBack(els, nil)
	MoveToFront(els, nil)
	if got := labels(els); got != "abc" {
		t.Fatalf("empty index set mutated sequence: %q", got)
	}
}

func TestStoreZOrderUsesSelection(t *testing.T) {
	s := NewStore()
	for _, el := range named("ABC") {
		s.Append(el)
	}
	s.At(2).IsSelected = true
	s.SendToBack()
	if got := labels(s.Elements()); got != "CAB" {
		t.Fatalf("SendToBack via selection = %q, want CAB", got)
	}
}
