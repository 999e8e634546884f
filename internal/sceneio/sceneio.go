/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sceneio reads and writes scene files and clipboard payloads.
// Both carry the persisted element fields only; selection flags and shape
// caches never cross a serialization boundary. Loading is all-or-nothing:
// a file that fails parsing or schema validation changes nothing.
package sceneio

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"sketchpad/internal/element"
	"sketchpad/internal/log"
)

const (
	// FileType tags scene files so foreign JSON is rejected up front.
	FileType = "sketchpad"
	// FormatVersion is bumped on incompatible scene format changes.
	FormatVersion = 1
)

//go:embed schema.json
var schemaBytes []byte

// SceneData is the on-disk scene envelope.
type SceneData struct {
	Type     string             `json:"type"`
	Version  int                `json:"version"`
	Source   string             `json:"source"`
	AppState *ViewState         `json:"appState,omitempty"`
	Elements []*element.Element `json:"elements"`
}

// ViewState is the persisted slice of application state.
type ViewState struct {
	ViewBackgroundColor string `json:"viewBackgroundColor,omitempty"`
	Name                string `json:"name,omitempty"`
}

// Marshal serializes the scene to indented JSON.
func Marshal(els []*element.Element, view *ViewState) ([]byte, error) {
	data := SceneData{
		Type:     FileType,
		Version:  FormatVersion,
		Source:   "sketchpad",
		AppState: view,
		Elements: els,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Parse validates and deserializes a scene blob. The input is checked
// against the embedded JSON Schema first, so structurally broken files are
// reported with field-level messages instead of a zero-valued scene.
func Parse(data []byte) (*SceneData, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		return nil, fmt.Errorf("scene does not conform to schema: %s", errs[0])
	}
	var scene SceneData
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if scene.Type != FileType {
		return nil, fmt.Errorf("not a %s scene: type %q", FileType, scene.Type)
	}
	if scene.Version > FormatVersion {
		return nil, fmt.Errorf("scene format version %d is newer than supported %d", scene.Version, FormatVersion)
	}
	return &scene, nil
}

// Save writes the scene to path.
func Save(path string, els []*element.Element, view *ViewState) error {
	data, err := Marshal(els, view)
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	log.WithComponent("sceneio").Info("scene saved", "path", path, "elements", len(els))
	return nil
}

// Load reads and parses the scene at path.
func Load(path string) (*SceneData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	scene, err := Parse(data)
	if err != nil {
		return nil, err
	}
	log.WithComponent("sceneio").Info("scene loaded", "path", path, "elements", len(scene.Elements))
	return scene, nil
}

// MarshalElements serializes a bare element array, the clipboard payload
// format.
func MarshalElements(els []*element.Element) ([]byte, error) {
	return json.Marshal(els)
}

// ParsePayload deserializes a clipboard payload and prepares the elements
// for insertion: every element gets a fresh id and seed, and the group is
// translated so its top-left corner lands at the pointer. Unusable input
// yields nil rather than an error; pasting arbitrary text is not a fault.
func ParsePayload(data []byte, pointerX, pointerY float64) []*element.Element {
	var els []*element.Element
	if err := json.Unmarshal(data, &els); err != nil {
		return nil
	}
	if len(els) == 0 {
		return nil
	}
	minX := els[0].X
	minY := els[0].Y
	for _, el := range els {
		if el == nil || !el.Type.Known() {
			return nil
		}
		if el.X < minX {
			minX = el.X
		}
		if el.Y < minY {
			minY = el.Y
		}
	}
	dx := pointerX - minX
	dy := pointerY - minY
	for _, el := range els {
		el.Regenerate()
		el.X += dx
		el.Y += dy
	}
	return els
}
