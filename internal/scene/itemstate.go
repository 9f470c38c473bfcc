/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"deskcanvas/internal/domain"
	"deskcanvas/internal/vector"
)

// Mode is the runtime interaction mode of an item. Never persisted.
type Mode int

const (
	ModeWalk Mode = iota
	ModeEdit
	ModeScroll
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeScroll:
		return "scroll"
	default:
		return "walk"
	}
}

// ItemState is the per-item interaction state machine:
//
//	WALK --double-click--> EDIT --exit--> WALK
//	WALK <--click--> SCROLL
//
// EDIT is exclusive document-wide via the injected Registry. SCROLL only
// redirects wheel/drag into the item's internal content.
type ItemState struct {
	item *domain.Item
	reg  *Registry

	mode Mode

	// DragEnabled is cleared in EDIT so drags route to the inner text
	// surface instead of moving the item.
	DragEnabled bool
	// Highlighted mirrors the visible focus affordance.
	Highlighted bool

	// Internal scroll state for SCROLL mode.
	ScrollOffset  float64
	ContentHeight float64
}

// NewItemState wires an item to the edit-mode registry.
func NewItemState(item *domain.Item, reg *Registry) *ItemState {
	return &ItemState{item: item, reg: reg, DragEnabled: true}
}

func (s *ItemState) Mode() Mode    { return s.mode }
func (s *ItemState) ItemID() int64 { return s.item.ID }

// SceneBounds reports the item's current scene rectangle; the registry uses
// it for the outside-click check.
func (s *ItemState) SceneBounds() vector.Rect { return s.item.Bounds() }

// EnterEdit moves WALK (or SCROLL) into EDIT: register with the registry,
// show the focus frame, hand drag ownership to the inner text surface.
func (s *ItemState) EnterEdit() {
	if s.mode == ModeEdit {
		return
	}
	s.reg.RegisterEdit(s)
	s.mode = ModeEdit
	s.DragEnabled = false
	s.Highlighted = true
}

// ExitToWalk is the single exit path from EDIT or SCROLL, used by both
// internal triggers (click outside text bounds) and the registry's
// outside-pointer check. Idempotent: calling it in WALK does nothing.
func (s *ItemState) ExitToWalk() {
	if s.mode == ModeWalk {
		return
	}
	s.mode = ModeWalk
	s.DragEnabled = true
	s.Highlighted = false
	s.reg.UnregisterEdit(s)
}

// ToggleScroll flips WALK<->SCROLL. In EDIT it is a no-op; the edit session
// must end first.
func (s *ItemState) ToggleScroll() {
	switch s.mode {
	case ModeWalk:
		s.mode = ModeScroll
	case ModeScroll:
		s.mode = ModeWalk
	}
}

// ScrollBy moves the internal content. The offset is clamped to the
// scrollable range given the item's visible height.
func (s *ItemState) ScrollBy(dy float64) {
	if s.mode != ModeScroll {
		return
	}
	max := s.ContentHeight - s.item.Bounds().H
	if max < 0 {
		max = 0
	}
	s.ScrollOffset += dy
	if s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	}
	if s.ScrollOffset > max {
		s.ScrollOffset = max
	}
}

// TextBounds is the inner text surface rectangle: the item bounds inset by
// the frame padding.
func (s *ItemState) TextBounds() vector.Rect {
	return s.item.Bounds().Inset(textPadding, textPadding)
}

// textPadding keeps a click band between the item frame and the text
// surface so EDIT can be left by clicking inside the item but outside the
// text.
const textPadding = 4.0
