/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"slices"

	"sketchpad/internal/element"
)

// Z-order restacking. Each operation is a pure transform of the element
// sequence given a set of indices to move; geometry is untouched. An empty
// index set is a no-op, and indices already occupying the target boundary
// region are not displaced.

// MoveOneBackward moves each indexed element one slot toward index 0.
// Indices forming a contiguous run from the front are already as far back
// as they can go and are left untouched.
func MoveOneBackward(els []*element.Element, indices []int) {
	idx := sortedUnique(indices)
	isSorted := true
	for rank, i := range idx {
		isSorted = isSorted && i == rank
		if isSorted {
			continue
		}
		els[i-1], els[i] = els[i], els[i-1]
	}
}

// MoveOneForward moves each indexed element one slot toward the top,
// processing indices in descending order. Indices forming a contiguous run
// at the end of the sequence stay put.
func MoveOneForward(els []*element.Element, indices []int) {
	idx := sortedUnique(indices)
	slices.Reverse(idx)
	last := len(els) - 1
	isSorted := true
	for rank, i := range idx {
		isSorted = isSorted && i == last-rank
		if isSorted {
			continue
		}
		els[i], els[i+1] = els[i+1], els[i]
	}
}

// MoveToBack moves every indexed element to the front of the sequence
// (bottom of the paint order), preserving the relative order of both the
// moved elements and the remainder.
func MoveToBack(els []*element.Element, indices []int) {
	idx := sortedUnique(indices)
	n := len(idx)
	if n == 0 {
		return
	}
	moved := make([]*element.Element, n)
	for k, i := range idx {
		moved[k] = els[i]
	}
	// Close the gaps right to left: everything between two markers shifts
	// right by the number of markers at or before it.
	for k := n - 1; k >= 0; k-- {
		lo := 0
		if k > 0 {
			lo = idx[k-1] + 1
		}
		for p := idx[k] - 1; p >= lo; p-- {
			els[p+(n-k)] = els[p]
		}
	}
	copy(els[:n], moved)
}

// MoveToFront moves every indexed element to the end of the sequence (top
// of the paint order), preserving the relative order of both groups.
func MoveToFront(els []*element.Element, indices []int) {
	idx := sortedUnique(indices)
	n := len(idx)
	if n == 0 {
		return
	}
	moved := make([]*element.Element, n)
	for k, i := range idx {
		moved[k] = els[i]
	}
	for k := 0; k < n; k++ {
		hi := len(els) - 1
		if k < n-1 {
			hi = idx[k+1] - 1
		}
		for p := idx[k] + 1; p <= hi; p++ {
			els[p-(k+1)] = els[p]
		}
	}
	copy(els[len(els)-n:], moved)
}

// SendBackward applies MoveOneBackward to the current selection.
func (s *Store) SendBackward() { MoveOneBackward(s.elements, s.SelectedIndices()) }

// BringForward applies MoveOneForward to the current selection.
func (s *Store) BringForward() { MoveOneForward(s.elements, s.SelectedIndices()) }

// SendToBack applies MoveToBack to the current selection.
func (s *Store) SendToBack() { MoveToBack(s.elements, s.SelectedIndices()) }

// BringToFront applies MoveToFront to the current selection.
func (s *Store) BringToFront() { MoveToFront(s.elements, s.SelectedIndices()) }

func sortedUnique(indices []int) []int {
	idx := slices.Clone(indices)
	slices.Sort(idx)
	return slices.Compact(idx)
}
