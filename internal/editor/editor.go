/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor wires scene, geometry, transform, and history into the
// direct-manipulation state machine. A drag gesture lives from pointer-down
// to pointer-up: recording is suspended for its duration, every move reads
// the current scene state, and exactly one snapshot is committed at the
// end. Escape unwinds to the last committed state without leaving a
// history entry.
//
// The editor is single-threaded: all mutation happens synchronously inside
// the pointer and keyboard handlers of one UI thread.
package editor

import (
	"fmt"
	"strings"

	"sketchpad/internal/clipboard"
	"sketchpad/internal/config"
	"sketchpad/internal/element"
	"sketchpad/internal/geometry"
	"sketchpad/internal/history"
	"sketchpad/internal/log"
	"sketchpad/internal/render"
	"sketchpad/internal/scene"
	"sketchpad/internal/sceneio"
	"sketchpad/internal/transform"
)

// State is the live application state. Only the background color, the item
// style defaults, and the name participate in undo/redo; tool and scroll
// are transient.
type State struct {
	Tool                element.Type
	ViewBackgroundColor string
	ScrollX, ScrollY    float64
	Name                string
	Item                element.Style
}

type gestureKind int

const (
	gestureCreate gestureKind = iota
	gestureMove
	gestureResize
	gestureSelectBox
)

// gesture is the drag-session state, created on pointer-down and discarded
// on pointer-up or cancel. Nothing in it survives across gestures.
type gesture struct {
	kind         gestureKind
	lastX, lastY float64
	target       *element.Element
	session      *transform.Session
	selBox       *element.Element
}

// Editor owns the scene and the history and exposes the operations a
// front end calls from its event handlers.
type Editor struct {
	Scene   *scene.Store
	History *history.Manager
	State   State

	gesture *gesture
	// in-process fallback when no system clipboard backend exists
	buffer []byte
}

// New creates an editor with an empty scene. The item defaults come from
// the configuration, and the empty scene is recorded as the undo baseline.
func New(cfg config.AppConfig) *Editor {
	ed := &Editor{
		Scene:   scene.NewStore(),
		History: history.NewManager(history.Config{}),
		State: State{
			Tool:                element.TypeSelection,
			ViewBackgroundColor: cfg.Canvas.BackgroundColor,
			Item: element.Style{
				StrokeColor:     cfg.Item.StrokeColor,
				BackgroundColor: cfg.Item.BackgroundColor,
				FillStyle:       cfg.Item.FillStyle,
				StrokeWidth:     cfg.Item.StrokeWidth,
				Roughness:       cfg.Item.Roughness,
				Opacity:         cfg.Item.Opacity,
				Font:            cfg.Item.Font,
			},
		},
	}
	_ = ed.commit()
	return ed
}

// SetTool selects the active tool. Shape tools draw on the next
// pointer-down; the text tool inserts via InsertText.
func (ed *Editor) SetTool(t element.Type) error {
	if !t.Known() {
		return fmt.Errorf("%w: %q", element.ErrUnknownType, t)
	}
	ed.State.Tool = t
	return nil
}

// PointerDown starts a gesture at the given scene position. With the
// selection tool it starts a resize (pointer on a grip of the single
// selected element), a move (pointer on an element), or a selection box
// (pointer on empty canvas). With a shape tool it starts creating a new
// element. The text tool does not drag and is ignored here.
func (ed *Editor) PointerDown(x, y float64) error {
	if ed.gesture != nil {
		return fmt.Errorf("gesture already in progress")
	}
	switch ed.State.Tool {
	case element.TypeSelection:
		return ed.downSelection(x, y)
	case element.TypeText:
		return nil
	case element.TypeRectangle, element.TypeDiamond, element.TypeEllipse,
		element.TypeArrow, element.TypeLine:
		return ed.downCreate(x, y)
	default:
		return fmt.Errorf("%w: %q", element.ErrUnknownType, ed.State.Tool)
	}
}

func (ed *Editor) downSelection(x, y float64) error {
	if sel := ed.Scene.Selected(); len(sel) == 1 {
		if h, ok := transform.HandleAt(sel[0], x, y); ok {
			ed.History.SuspendRecording()
			ed.gesture = &gesture{
				kind:    gestureResize,
				lastX:   x,
				lastY:   y,
				target:  sel[0],
				session: transform.NewSession(h, x, y),
			}
			return nil
		}
	}

	hit, err := geometry.HitElement(ed.Scene.Elements(), x, y)
	if err != nil {
		return err
	}
	if hit != nil {
		if !hit.IsSelected {
			ed.Scene.ClearSelection()
			hit.IsSelected = true
		}
		ed.History.SuspendRecording()
		ed.gesture = &gesture{kind: gestureMove, lastX: x, lastY: y}
		return nil
	}

	ed.Scene.ClearSelection()
	box := element.New(element.TypeSelection, x, y, element.Style{
		BackgroundColor: element.Transparent,
		Opacity:         100,
	})
	ed.Scene.Append(box)
	ed.History.SuspendRecording()
	ed.gesture = &gesture{kind: gestureSelectBox, lastX: x, lastY: y, selBox: box}
	return nil
}

func (ed *Editor) downCreate(x, y float64) error {
	ed.Scene.ClearSelection()
	el := element.New(ed.State.Tool, x, y, ed.State.Item)
	el.IsSelected = true
	ed.Scene.Append(el)
	ed.History.SuspendRecording()
	ed.gesture = &gesture{kind: gestureCreate, lastX: x, lastY: y, target: el}
	return nil
}

// PointerMove advances the active gesture. proportional is the state of
// the aspect-lock modifier. Moves without a gesture are ignored.
func (ed *Editor) PointerMove(x, y float64, proportional bool) {
	g := ed.gesture
	if g == nil {
		return
	}
	dx := x - g.lastX
	dy := y - g.lastY

	switch g.kind {
	case gestureCreate:
		ed.moveCreate(g.target, x, y, proportional)
	case gestureMove:
		transform.Drag(ed.Scene.Selected(), dx, dy)
	case gestureResize:
		g.session.Apply(g.target, x, y, proportional)
	case gestureSelectBox:
		g.selBox.Width = x - g.selBox.X
		g.selBox.Height = y - g.selBox.Y
		g.selBox.MarkUpdated()
		ed.Scene.ClearSelection()
		within := geometry.ElementsWithinRect(ed.Scene.Elements(),
			g.selBox.X, g.selBox.Y, g.selBox.X+g.selBox.Width, g.selBox.Y+g.selBox.Height)
		for _, el := range within {
			el.IsSelected = true
		}
	}
	g.lastX, g.lastY = x, y
}

func (ed *Editor) moveCreate(el *element.Element, x, y float64, proportional bool) {
	if el.Type.Linear() {
		p := element.Point{X: x - el.X, Y: y - el.Y}
		if proportional {
			w, h := transform.PerfectSize(el.Type, p.X, p.Y)
			p = element.Point{X: w, Y: h}
		}
		if len(el.Points) < 2 {
			el.Points = append(el.Points, p)
		} else {
			el.Points[len(el.Points)-1] = p
		}
	} else {
		w := x - el.X
		h := y - el.Y
		if proportional {
			w, h = transform.PerfectSize(el.Type, w, h)
		}
		el.Width = w
		el.Height = h
	}
	el.MarkUpdated()
}

// PointerUp finishes the gesture: dimensions are normalized, an
// invisibly-small creation is discarded, the selection box disappears,
// recording resumes, and the result is committed as one history entry. A
// gesture that changed nothing commits nothing.
func (ed *Editor) PointerUp() error {
	g := ed.gesture
	if g == nil {
		return nil
	}
	ed.gesture = nil

	switch g.kind {
	case gestureCreate:
		transform.Normalize(g.target)
		if transform.IsInvisiblySmall(g.target) {
			ed.Scene.RemoveIf(func(el *element.Element) bool { return el == g.target })
		}
		// drawing reverts to the selection tool
		ed.State.Tool = element.TypeSelection
	case gestureResize:
		transform.Normalize(g.target)
	case gestureSelectBox:
		ed.Scene.RemoveIf(func(el *element.Element) bool { return el == g.selBox })
	}

	ed.History.ResumeRecording()
	return ed.commit()
}

// Cancel aborts the active gesture and restores the last committed state.
// No history entry is produced.
func (ed *Editor) Cancel() {
	g := ed.gesture
	if g == nil {
		return
	}
	ed.gesture = nil
	ed.History.ResumeRecording()
	if top := ed.History.Current(); top != nil {
		ed.restore(top)
	}
}

// Undo restores the previous history entry, if any.
func (ed *Editor) Undo() {
	if s := ed.History.Undo(); s != nil {
		ed.restore(s)
	}
}

// Redo restores the most recently undone entry, if any.
func (ed *Editor) Redo() {
	if s := ed.History.Redo(); s != nil {
		ed.restore(s)
	}
}

// DeleteSelected soft-deletes the selection and commits.
func (ed *Editor) DeleteSelected() error {
	if ed.Scene.SoftDeleteSelected() == 0 {
		return nil
	}
	return ed.commit()
}

// SendBackward moves the selection one slot toward the back.
func (ed *Editor) SendBackward() error {
	ed.Scene.SendBackward()
	return ed.commit()
}

// BringForward moves the selection one slot toward the front.
func (ed *Editor) BringForward() error {
	ed.Scene.BringForward()
	return ed.commit()
}

// SendToBack moves the selection to the very back.
func (ed *Editor) SendToBack() error {
	ed.Scene.SendToBack()
	return ed.commit()
}

// BringToFront moves the selection to the very front.
func (ed *Editor) BringToFront() error {
	ed.Scene.BringToFront()
	return ed.commit()
}

// Copy places the selected elements on the clipboard as a JSON payload.
func (ed *Editor) Copy() error {
	sel := ed.Scene.Selected()
	if len(sel) == 0 {
		return nil
	}
	data, err := sceneio.MarshalElements(sel)
	if err != nil {
		return err
	}
	ed.buffer = data
	if clipboard.Available() {
		if err := clipboard.WriteText(string(data)); err != nil {
			log.WithComponent("editor").Warn("system clipboard write failed", "error", err)
		}
	}
	return nil
}

// Cut copies the selection and soft-deletes it.
func (ed *Editor) Cut() error {
	if err := ed.Copy(); err != nil {
		return err
	}
	return ed.DeleteSelected()
}

// Paste inserts the clipboard payload near the pointer, selecting the new
// elements. Non-payload clipboard content is silently ignored.
func (ed *Editor) Paste(x, y float64) error {
	data := ed.buffer
	if clipboard.Available() {
		if text, err := clipboard.ReadText(); err == nil && text != "" {
			data = []byte(text)
		}
	}
	els := sceneio.ParsePayload(data, x, y)
	if len(els) == 0 {
		return nil
	}
	ed.Scene.ClearSelection()
	for _, el := range els {
		el.IsSelected = true
		ed.Scene.Append(el)
	}
	return ed.commit()
}

// InsertText adds a text element at the given position. A click inside an
// existing shape centers the text on that shape. Empty input inserts
// nothing.
func (ed *Editor) InsertText(x, y float64, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	w, h, baseline, err := render.MeasureText(text, ed.State.Item.Font)
	if err != nil {
		return err
	}
	cx, cy := x, y
	centered := false
	if host := geometry.ContainingElement(ed.Scene.Elements(), x, y); host != nil {
		hx1, hy1, hx2, hy2 := geometry.Bounds(host)
		cx = (hx1 + hx2) / 2
		cy = (hy1 + hy2) / 2
		centered = true
	}
	el := element.New(element.TypeText, cx-w/2, cy-h/2, ed.State.Item)
	el.Text = text
	el.Width = w
	el.Height = h
	el.Baseline = baseline
	if centered {
		el.TextAlign = "center"
	}
	ed.Scene.ClearSelection()
	el.IsSelected = true
	ed.Scene.Append(el)
	return ed.commit()
}

// SelectedStrokeColor returns the stroke color shared by the whole
// selection, or ok=false when it diverges.
func (ed *Editor) SelectedStrokeColor() (string, bool) {
	return scene.SelectedAttribute(ed.Scene, func(el *element.Element) string { return el.StrokeColor })
}

// SelectedBackgroundColor returns the background color shared by the whole
// selection, or ok=false when it diverges.
func (ed *Editor) SelectedBackgroundColor() (string, bool) {
	return scene.SelectedAttribute(ed.Scene, func(el *element.Element) string { return el.BackgroundColor })
}

// ApplyStrokeColor sets the default stroke color and restyles the
// selection.
func (ed *Editor) ApplyStrokeColor(color string) error {
	ed.State.Item.StrokeColor = color
	for _, el := range ed.Scene.Selected() {
		el.StrokeColor = color
		el.MarkUpdated()
	}
	return ed.commit()
}

// ApplyBackgroundColor sets the default background color and restyles the
// selection.
func (ed *Editor) ApplyBackgroundColor(color string) error {
	ed.State.Item.BackgroundColor = color
	for _, el := range ed.Scene.Selected() {
		el.BackgroundColor = color
		el.MarkUpdated()
	}
	return ed.commit()
}

// SetViewBackground changes the canvas backdrop; the change is undoable.
func (ed *Editor) SetViewBackground(color string) error {
	ed.State.ViewBackgroundColor = color
	return ed.commit()
}

// Scroll pans the view. Panning is transient and never recorded.
func (ed *Editor) Scroll(dx, dy float64) {
	ed.State.ScrollX += dx
	ed.State.ScrollY += dy
}

// View returns the render view for the current state.
func (ed *Editor) View() render.View {
	return render.View{
		ScrollX:    ed.State.ScrollX,
		ScrollY:    ed.State.ScrollY,
		Zoom:       1,
		Background: ed.State.ViewBackgroundColor,
	}
}

// SaveScene writes the non-deleted elements to a scene file.
func (ed *Editor) SaveScene(path string) error {
	return sceneio.Save(path, ed.Scene.NonDeleted(), &sceneio.ViewState{
		ViewBackgroundColor: ed.State.ViewBackgroundColor,
		Name:                ed.State.Name,
	})
}

// LoadScene replaces the scene with the contents of a scene file. The
// history is reset with the loaded scene as the new baseline. A load error
// leaves everything unchanged.
func (ed *Editor) LoadScene(path string) error {
	data, err := sceneio.Load(path)
	if err != nil {
		return err
	}
	ed.Scene.ReplaceAll(data.Elements)
	if data.AppState != nil {
		if data.AppState.ViewBackgroundColor != "" {
			ed.State.ViewBackgroundColor = data.AppState.ViewBackgroundColor
		}
		ed.State.Name = data.AppState.Name
	}
	ed.History.Clear()
	return ed.commit()
}

func (ed *Editor) snapshot() history.Snapshot {
	els := ed.Scene.Elements()
	if els == nil {
		// keep the serialized form stable so an empty scene always
		// dedupes against the empty baseline
		els = []*element.Element{}
	}
	return history.Snapshot{
		AppState: history.AppState{
			ViewBackgroundColor: ed.State.ViewBackgroundColor,
			ItemStrokeColor:     ed.State.Item.StrokeColor,
			ItemBackgroundColor: ed.State.Item.BackgroundColor,
			Name:                ed.State.Name,
		},
		Elements: els,
	}
}

func (ed *Editor) commit() error {
	return ed.History.Record(ed.snapshot())
}

func (ed *Editor) restore(s *history.Snapshot) {
	ed.Scene.ReplaceAll(s.Elements)
	ed.State.ViewBackgroundColor = s.AppState.ViewBackgroundColor
	ed.State.Item.StrokeColor = s.AppState.ItemStrokeColor
	ed.State.Item.BackgroundColor = s.AppState.ItemBackgroundColor
	ed.State.Name = s.AppState.Name
}
