/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "testing"

func TestEnterExitEditSideEffects(t *testing.T) {
	reg := NewRegistry()
	s := NewItemState(noteItem(1, 0, 0, 100, 50), reg)

	if s.Mode() != ModeWalk || !s.DragEnabled {
		t.Fatalf("fresh state must be WALK with drag enabled")
	}
	s.EnterEdit()
	if s.Mode() != ModeEdit || s.DragEnabled || !s.Highlighted {
		t.Fatalf("EDIT side effects wrong: %+v", s)
	}
	s.ExitToWalk()
	if s.Mode() != ModeWalk || !s.DragEnabled || s.Highlighted {
		t.Fatalf("exit side effects wrong: %+v", s)
	}
	if reg.Current() != nil {
		t.Fatalf("exit must unregister")
	}
}

func TestExitToWalkIdempotent(t *testing.T) {
	reg := NewRegistry()
	s := NewItemState(noteItem(1, 0, 0, 100, 50), reg)
	s.EnterEdit()
	s.ExitToWalk()
	s.ExitToWalk() // second exit must be harmless
	s.ExitToWalk()
	if s.Mode() != ModeWalk || !s.DragEnabled {
		t.Fatalf("repeated exits corrupted state: %+v", s)
	}
}

func TestScrollToggleAndClamp(t *testing.T) {
	reg := NewRegistry()
	s := NewItemState(noteItem(1, 0, 0, 100, 50), reg)
	s.ContentHeight = 200 // 150 scrollable beyond the 50-high view

	s.ScrollBy(30)
	if s.ScrollOffset != 0 {
		t.Fatalf("scrolling in WALK must be ignored")
	}
	s.ToggleScroll()
	if s.Mode() != ModeScroll {
		t.Fatalf("toggle into SCROLL failed")
	}
	s.ScrollBy(1000)
	if s.ScrollOffset != 150 {
		t.Fatalf("scroll not clamped to content: %v", s.ScrollOffset)
	}
	s.ScrollBy(-1000)
	if s.ScrollOffset != 0 {
		t.Fatalf("scroll not clamped to top: %v", s.ScrollOffset)
	}
	s.ToggleScroll()
	if s.Mode() != ModeWalk {
		t.Fatalf("toggle back to WALK failed")
	}
}

func TestScrollClampWhenContentFits(t *testing.T) {
	reg := NewRegistry()
	s := NewItemState(noteItem(1, 0, 0, 100, 50), reg)
	s.ContentHeight = 30 // shorter than the view
	s.ToggleScroll()
	s.ScrollBy(10)
	if s.ScrollOffset != 0 {
		t.Fatalf("fitting content must never scroll: %v", s.ScrollOffset)
	}
}

func TestToggleScrollNoOpInEdit(t *testing.T) {
	reg := NewRegistry()
	s := NewItemState(noteItem(1, 0, 0, 100, 50), reg)
	s.EnterEdit()
	s.ToggleScroll()
	if s.Mode() != ModeEdit {
		t.Fatalf("toggle in EDIT must be a no-op")
	}
}

func TestTextBoundsInsideItem(t *testing.T) {
	reg := NewRegistry()
	s := NewItemState(noteItem(1, 10, 10, 100, 50), reg)
	tb := s.TextBounds()
	ib := s.SceneBounds()
	if tb.X <= ib.X || tb.Y <= ib.Y || tb.X+tb.W >= ib.X+ib.W {
		t.Fatalf("text bounds must be strictly inside item bounds: %+v vs %+v", tb, ib)
	}
}
