/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene owns the ordered element sequence. Sequence order is the
// paint order: index 0 is painted first, the last index ends up on top.
// All structural mutation of a scene goes through the Store; reordering goes
// through the z-order operations in this package.
package scene

import (
	"sketchpad/internal/element"
)

// Store owns the scene sequence and the selection derived from it.
type Store struct {
	elements []*element.Element
}

// NewStore returns an empty scene.
func NewStore() *Store { return &Store{} }

// Len returns the number of elements, including soft-deleted ones.
func (s *Store) Len() int { return len(s.elements) }

// At returns the element at index i.
func (s *Store) At(i int) *element.Element { return s.elements[i] }

// Elements returns the underlying ordered sequence. Callers must not
// reorder it; use the z-order operations instead.
func (s *Store) Elements() []*element.Element { return s.elements }

// NonDeleted returns the elements that take part in rendering and
// hit-testing, in paint order.
func (s *Store) NonDeleted() []*element.Element {
	out := make([]*element.Element, 0, len(s.elements))
	for _, el := range s.elements {
		if !el.IsDeleted {
			out = append(out, el)
		}
	}
	return out
}

// Append adds an element to the top of the paint order.
func (s *Store) Append(el *element.Element) {
	s.elements = append(s.elements, el)
}

// RemoveIf deletes every element matching pred from the sequence and
// returns how many were removed.
func (s *Store) RemoveIf(pred func(*element.Element) bool) int {
	kept := s.elements[:0]
	removed := 0
	for _, el := range s.elements {
		if pred(el) {
			removed++
			continue
		}
		kept = append(kept, el)
	}
	for i := len(kept); i < len(s.elements); i++ {
		s.elements[i] = nil
	}
	s.elements = kept
	return removed
}

// ReplaceAll swaps in a new element sequence, e.g. when restoring a history
// snapshot or loading a scene file.
func (s *Store) ReplaceAll(els []*element.Element) {
	s.elements = els
}

// SelectedIndices returns the indices of selected elements in ascending
// order.
func (s *Store) SelectedIndices() []int {
	var idx []int
	for i, el := range s.elements {
		if el.IsSelected {
			idx = append(idx, i)
		}
	}
	return idx
}

// IsAnySelected reports whether at least one element is selected.
func (s *Store) IsAnySelected() bool {
	for _, el := range s.elements {
		if el.IsSelected {
			return true
		}
	}
	return false
}

// ClearSelection deselects every element.
func (s *Store) ClearSelection() {
	for _, el := range s.elements {
		el.IsSelected = false
	}
}

// Selected returns the selected elements in paint order.
func (s *Store) Selected() []*element.Element {
	var out []*element.Element
	for _, el := range s.elements {
		if el.IsSelected {
			out = append(out, el)
		}
	}
	return out
}

// SoftDeleteSelected marks every selected element deleted. Deleted elements
// stay in the sequence so undo can bring them back.
func (s *Store) SoftDeleteSelected() int {
	n := 0
	for _, el := range s.elements {
		if el.IsSelected {
			el.IsDeleted = true
			el.IsSelected = false
			el.MarkUpdated()
			n++
		}
	}
	return n
}

// SelectedAttribute projects each selected element through proj and returns
// the common value. ok is false when nothing is selected or the selection
// holds more than one distinct value.
func SelectedAttribute[T comparable](s *Store, proj func(*element.Element) T) (value T, ok bool) {
	first := true
	for _, el := range s.elements {
		if !el.IsSelected {
			continue
		}
		v := proj(el)
		if first {
			value, ok, first = v, true, false
			continue
		}
		if v != value {
			var zero T
			return zero, false
		}
	}
	return value, ok
}
