/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"log/slog"
	"math"

	"deskcanvas/internal/domain"
	applog "deskcanvas/internal/log"
	"deskcanvas/internal/vector"
)

// Canvas binds a document to the interaction machinery: viewport, edit-mode
// registry, per-item states and the event routing chain.
type Canvas struct {
	Doc      *domain.Document
	Viewport *Viewport
	Registry *Registry

	router *Router
	states map[int64]*ItemState

	// Selected is the id of the currently selected item, 0 for none.
	Selected int64

	// OnLaunch is invoked when a launcher or project item is activated.
	// Nil means activation is a no-op (e.g. in the read-only viewer).
	OnLaunch func(item *domain.Item) error

	// SnapEnabled applies edge snapping on drag moves.
	SnapEnabled bool
}

// NewCanvas builds the interaction stack for a document.
func NewCanvas(doc *domain.Document, viewW, viewH float64) *Canvas {
	c := &Canvas{
		Doc:         doc,
		Viewport:    NewViewport(viewW, viewH),
		Registry:    NewRegistry(),
		states:      make(map[int64]*ItemState),
		SnapEnabled: true,
	}
	c.router = NewRouter(c.Viewport,
		&shellStage{c: c},
		&viewportStage{c: c},
		&itemStage{c: c},
		&innerTextStage{c: c},
	)
	return c
}

// Dispatch routes one input event through the chain and returns the name of
// the consuming stage ("" if none).
func (c *Canvas) Dispatch(ev *Event) string { return c.router.Dispatch(ev) }

// State returns (creating on demand) the interaction state for an item.
func (c *Canvas) State(id int64) *ItemState {
	if s, ok := c.states[id]; ok {
		return s
	}
	it := c.Doc.ItemByID(id)
	if it == nil {
		return nil
	}
	s := NewItemState(it, c.Registry)
	c.states[id] = s
	return s
}

// TopItemAt hit-tests items front-to-back by paint order and returns the
// topmost item whose bounds contain the scene point, or nil.
func (c *Canvas) TopItemAt(p vector.Pt) *domain.Item {
	order := c.Doc.PaintOrder()
	for i := len(order) - 1; i >= 0; i-- {
		it := &c.Doc.Items[order[i]]
		if it.Bounds().Contains(p) {
			return it
		}
	}
	return nil
}

// MoveItemBy moves an item by a scene-space delta, cascading to group
// members when the item is a group anchor, and applying edge snapping.
func (c *Canvas) MoveItemBy(id int64, dx, dy float64) {
	it := c.Doc.ItemByID(id)
	if it == nil {
		return
	}
	if c.SnapEnabled {
		snapped := SnapPosition(c.Doc, id, vector.Pt{X: it.X + dx, Y: it.Y + dy},
			vector.Size{W: it.Bounds().W, H: it.Bounds().H})
		dx, dy = snapped.X-it.X, snapped.Y-it.Y
	}
	MoveWithGroup(c.Doc, id, dx, dy)
}

// JumpToMarker centers the viewport on the marker's jump target. Dangling
// or absent targets are inert.
func (c *Canvas) JumpToMarker(m *domain.Item) {
	if m.JumpID == nil {
		return
	}
	target := c.Doc.ItemByID(*m.JumpID)
	if target == nil {
		applog.WithComponent("scene").Debug("jump target missing",
			slog.Int64("marker", m.ID), slog.Int64("target", *m.JumpID))
		return
	}
	c.Viewport.CenterOn(target.Bounds().Center())
}

// GoToStart centers on the document's start marker, if any.
func (c *Canvas) GoToStart() {
	if m := c.Doc.StartMarker(); m != nil {
		c.Viewport.CenterOn(m.Bounds().Center())
	}
}

// scrollable reports whether an item has internal content that can scroll.
func scrollable(it *domain.Item) bool {
	return it.Type == domain.TypeNote
}

// editable reports whether an item supports the text-edit mode.
func editable(it *domain.Item) bool {
	return it.Type == domain.TypeNote
}

// shellStage is the outermost chain stage. Its sole job is the
// outside-click-exits-edit check; it never consumes, so panning and
// selection are unaffected when nothing is being edited.
type shellStage struct{ c *Canvas }

func (s *shellStage) Name() string { return "shell" }

func (s *shellStage) Handle(ev *Event) bool {
	if !ev.IsPointer() {
		return false
	}
	if s.c.Registry.Current() != nil {
		s.c.Registry.CheckPointerOutside(ev.Scene)
	}
	return false
}

// viewportStage claims drag-to-pan and wheel-to-zoom, but only when no item
// beneath the pointer would claim the event first.
type viewportStage struct{ c *Canvas }

func (s *viewportStage) Name() string { return "viewport" }

func (s *viewportStage) Handle(ev *Event) bool {
	if !ev.IsPointer() {
		return false
	}
	if s.c.TopItemAt(ev.Scene) != nil {
		return false
	}
	switch ev.Kind {
	case EventDrag:
		s.c.Viewport.PanBy(ev.Delta.X, ev.Delta.Y)
		return true
	case EventWheel:
		s.c.Viewport.ZoomAt(ev.Device.X, ev.Device.Y, math.Pow(WheelZoomStep, ev.Delta.Y))
		return true
	case EventClick:
		// Click on empty canvas clears the selection and any scroll mode.
		if st, ok := s.c.states[s.c.Selected]; ok && st.Mode() == ModeScroll {
			st.ToggleScroll()
		}
		s.c.Selected = 0
		return true
	}
	return false
}

// itemStage routes pointer events to the item under the cursor according to
// its interaction mode.
type itemStage struct{ c *Canvas }

func (s *itemStage) Name() string { return "item" }

func (s *itemStage) Handle(ev *Event) bool {
	if !ev.IsPointer() {
		return false
	}
	it := s.c.TopItemAt(ev.Scene)
	if it == nil {
		return false
	}
	st := s.c.State(it.ID)

	// Clicking a different item ends a lingering scroll mode elsewhere.
	if ev.Kind == EventClick && s.c.Selected != 0 && s.c.Selected != it.ID {
		if prev, ok := s.c.states[s.c.Selected]; ok && prev.Mode() == ModeScroll {
			prev.ToggleScroll()
		}
	}

	switch st.Mode() {
	case ModeEdit:
		if ev.Kind == EventClick || ev.Kind == EventDoubleClick || ev.Kind == EventDrag {
			if st.TextBounds().Contains(ev.Scene) {
				// Inner text surface owns it; pass down the chain.
				return false
			}
			// Inside the item but outside the text: leave edit mode.
			st.ExitToWalk()
			return true
		}
		return false

	case ModeScroll:
		switch ev.Kind {
		case EventWheel:
			st.ScrollBy(-ev.Delta.Y * wheelScrollStep)
			return true
		case EventDrag:
			st.ScrollBy(-ev.Delta.Y)
			return true
		case EventClick:
			st.ToggleScroll()
			return true
		case EventDoubleClick:
			st.ToggleScroll()
			s.activate(it, st)
			return true
		}
		return false

	default: // ModeWalk
		switch ev.Kind {
		case EventDoubleClick:
			s.activate(it, st)
			return true
		case EventClick:
			if s.c.Selected == it.ID && scrollable(it) {
				st.ToggleScroll()
			}
			s.c.Selected = it.ID
			return true
		case EventDrag:
			if !st.DragEnabled {
				return false
			}
			s.c.MoveItemBy(it.ID, ev.Delta.X/s.c.Viewport.Zoom, ev.Delta.Y/s.c.Viewport.Zoom)
			return true
		}
		return false
	}
}

// activate performs the double-click action for an item in WALK mode.
func (s *itemStage) activate(it *domain.Item, st *ItemState) {
	switch {
	case editable(it):
		st.EnterEdit()
	case it.Type == domain.TypeMarker:
		s.c.JumpToMarker(it)
	case it.Type == domain.TypeLauncher || it.Type == domain.TypeProject:
		if s.c.OnLaunch != nil {
			if err := s.c.OnLaunch(it); err != nil {
				applog.WithComponent("scene").Warn("launch failed",
					slog.Int64("id", it.ID), slog.Any("err", err))
			}
		}
	}
}

const wheelScrollStep = 24.0

// innerTextStage is the innermost stage: once an edit session exists, it
// owns all keyboard input, and pointer events inside the text bounds
// reposition the caret. It never sees pointer events outside the editing
// item because the item stage consumes those first.
type innerTextStage struct{ c *Canvas }

func (s *innerTextStage) Name() string { return "innertext" }

func (s *innerTextStage) Handle(ev *Event) bool {
	cur := s.c.Registry.Current()
	if cur == nil {
		return false
	}
	if ev.Kind == EventKey {
		return true
	}
	st, ok := cur.(*ItemState)
	if !ok {
		return false
	}
	if ev.IsPointer() && st.TextBounds().Contains(ev.Scene) {
		// Caret reposition; edit mode continues.
		return true
	}
	return false
}
