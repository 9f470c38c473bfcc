/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"deskcanvas/internal/vector"
)

// EventKind discriminates routed input events.
type EventKind int

const (
	EventClick EventKind = iota
	EventDoubleClick
	EventDrag
	EventWheel
	EventKey
)

// Event is one input occurrence walked through the routing chain. Scene is
// derived from Device by the router before dispatch; handlers never convert
// coordinates themselves.
type Event struct {
	Kind   EventKind
	Device vector.Pt
	Scene  vector.Pt
	// Delta carries the drag distance (device px) or wheel steps in Y.
	Delta vector.Pt
	Rune  rune
}

// IsPointer reports whether the event has a meaningful position.
func (e *Event) IsPointer() bool { return e.Kind != EventKey }

// Handler is one stage of the routing chain. Handle returns true to consume
// the event and stop propagation.
type Handler interface {
	Name() string
	Handle(ev *Event) bool
}

// Router walks input events through an ordered interception chain,
// outermost stage first: shell, viewport, item, inner text surface. Each
// stage may consume or pass. Dispatch returns the name of the consuming
// stage, or "" when every stage passed.
type Router struct {
	viewport *Viewport
	stages   []Handler
}

// NewRouter builds a router over the given stages in chain order.
func NewRouter(vp *Viewport, stages ...Handler) *Router {
	return &Router{viewport: vp, stages: stages}
}

// Dispatch runs synchronously on the UI goroutine; every transition it
// triggers completes before it returns.
func (r *Router) Dispatch(ev *Event) string {
	if ev.IsPointer() {
		ev.Scene = r.viewport.DeviceToScene(ev.Device)
	}
	for _, s := range r.stages {
		if s.Handle(ev) {
			return s.Name()
		}
	}
	return ""
}
