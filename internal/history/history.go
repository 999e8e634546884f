/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history implements snapshot-based undo/redo. Each entry is a full
// serialized copy of the scene plus the recorded application state; there is
// no operation log or delta encoding. Snapshots are opaque JSON blobs once
// recorded, so the stacks survive any later change to the live scene.
package history

import (
	"bytes"
	"encoding/json"
	"sync"

	"sketchpad/internal/element"
	"sketchpad/internal/log"
)

// AppState is the subset of application state that participates in
// undo/redo. Transient state such as the active tool, pointer position, or
// scroll offset is deliberately absent.
type AppState struct {
	ViewBackgroundColor string `json:"viewBackgroundColor"`
	ItemStrokeColor     string `json:"currentItemStrokeColor"`
	ItemBackgroundColor string `json:"currentItemBackgroundColor"`
	Name                string `json:"name,omitempty"`
}

// Snapshot is one undoable state: the recorded app state and every element,
// deleted ones included so a redo can resurrect them. Selection flags and
// shape caches are not serialized and come back zeroed on restore.
type Snapshot struct {
	AppState AppState           `json:"appState"`
	Elements []*element.Element `json:"elements"`
}

// Config caps the manager's memory use.
type Config struct {
	// MaxBytes is a soft cap on the combined stack size; the oldest undo
	// entries above the baseline are pruned when exceeded. Zero means the
	// default of 16 MiB.
	MaxBytes int
}

// Manager keeps the undo and redo stacks. It is safe for concurrent use.
//
// The bottom undo entry is the baseline the scene started from; Undo never
// removes it, so the stack is exhausted at length one, not zero.
type Manager struct {
	cfg Config

	mu         sync.Mutex
	undoStack  [][]byte
	redoStack  [][]byte
	suspended  bool
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024
	}
	return &Manager{cfg: cfg}
}

// SuspendRecording makes Record a no-op until ResumeRecording. Gestures
// suspend on pointer-down and resume on pointer-up so a drag collapses into
// a single history entry.
func (m *Manager) SuspendRecording() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspended = true
}

func (m *Manager) ResumeRecording() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspended = false
}

// Recording reports whether Record currently captures snapshots.
func (m *Manager) Recording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.suspended
}

// Record captures a snapshot onto the undo stack. A snapshot identical to
// the current top is dropped without touching the redo stack, so a
// selection click after an undo does not destroy the redo chain. Any
// genuinely new snapshot clears the redo stack.
func (m *Manager) Record(s Snapshot) error {
	if !m.Recording() {
		return nil
	}
	blob, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.undoStack); n > 0 && bytes.Equal(m.undoStack[n-1], blob) {
		return nil
	}
	m.undoStack = append(m.undoStack, blob)
	m.totalBytes += len(blob)
	m.dropRedoLocked()
	m.enforceCapLocked()
	return nil
}

// Undo moves the top entry to the redo stack and returns the state to
// restore, which is the new top. Returns nil when only the baseline is
// left. A malformed entry leaves both stacks untouched.
func (m *Manager) Undo() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.undoStack)
	if n <= 1 {
		return nil
	}
	s, ok := decode(m.undoStack[n-2])
	if !ok {
		return nil
	}
	top := m.undoStack[n-1]
	m.undoStack = m.undoStack[:n-1]
	m.redoStack = append(m.redoStack, top)
	return s
}

// Redo moves the most recently undone entry back to the undo stack and
// returns it. Returns nil when there is nothing to redo or the entry is
// malformed; a malformed entry leaves both stacks untouched.
func (m *Manager) Redo() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.redoStack)
	if n == 0 {
		return nil
	}
	s, ok := decode(m.redoStack[n-1])
	if !ok {
		return nil
	}
	m.undoStack = append(m.undoStack, m.redoStack[n-1])
	m.redoStack = m.redoStack[:n-1]
	return s
}

// Current returns the top undo entry without moving either stack, or nil
// when the stack is empty or the entry is malformed. Gesture cancellation
// restores from it.
func (m *Manager) Current() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.undoStack)
	if n == 0 {
		return nil
	}
	s, _ := decode(m.undoStack[n-1])
	return s
}

// Clear drops both stacks, e.g. after loading a different scene.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoStack = nil
	m.redoStack = nil
	m.totalBytes = 0
}

// Depths returns the stack sizes for diagnostics.
func (m *Manager) Depths() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack), len(m.redoStack)
}

func decode(blob []byte) (*Snapshot, bool) {
	var s Snapshot
	if err := json.Unmarshal(blob, &s); err != nil {
		log.WithComponent("history").Warn("skipping malformed snapshot", "error", err)
		return nil, false
	}
	return &s, true
}

func (m *Manager) dropRedoLocked() {
	for _, blob := range m.redoStack {
		m.totalBytes -= len(blob)
	}
	m.redoStack = nil
}

func (m *Manager) enforceCapLocked() {
	// always keep the baseline and the top
	for m.totalBytes > m.cfg.MaxBytes && len(m.undoStack) > 2 {
		m.totalBytes -= len(m.undoStack[1])
		m.undoStack = append(m.undoStack[:1], m.undoStack[2:]...)
	}
}
