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

	applog "deskcanvas/internal/log"
	"deskcanvas/internal/vector"
)

// Editor is what the registry needs from an item in text-edit mode. Items
// receive the registry by injection at construction, never by reaching up
// through their container.
type Editor interface {
	ItemID() int64
	SceneBounds() vector.Rect
	// ExitToWalk ends the edit session. Idempotent; must unregister itself.
	ExitToWalk()
}

// Registry is the single-writer arbiter of which item owns exclusive
// text-edit interaction. At most one item is in edit mode document-wide.
// All calls happen on the UI goroutine; the stale-unregister contract
// substitutes for a lock.
type Registry struct {
	current Editor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// RegisterEdit makes item the current edit session. A previously registered
// item is force-exited first.
func (r *Registry) RegisterEdit(item Editor) {
	if item == nil {
		return
	}
	if prev := r.current; prev != nil && prev.ItemID() != item.ItemID() {
		applog.WithComponent("scene").Debug("force-exiting previous edit session",
			slog.Int64("prev", prev.ItemID()), slog.Int64("next", item.ItemID()))
		prev.ExitToWalk()
	}
	r.current = item
}

// UnregisterEdit clears the registry only if item is still current. A stale
// unregister from an already-replaced session is an expected no-op, not an
// error.
func (r *Registry) UnregisterEdit(item Editor) {
	if item == nil || r.current == nil {
		return
	}
	if r.current.ItemID() == item.ItemID() {
		r.current = nil
	}
}

// CheckPointerOutside ends the current edit session when a pointer event
// lands outside the editing item's scene bounds. This is what lets the
// shell-level listener close an edit session even though the text surface
// swallows events inside its own rectangle.
func (r *Registry) CheckPointerOutside(scenePt vector.Pt) {
	cur := r.current
	if cur == nil {
		return
	}
	if !cur.SceneBounds().Contains(scenePt) {
		cur.ExitToWalk()
	}
}

// Current returns the active edit session, or nil.
func (r *Registry) Current() Editor { return r.current }
