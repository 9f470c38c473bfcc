/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package transfer

import (
	"errors"
	"testing"

	"deskcanvas/internal/domain"
)

func TestCopyPastePreservesRelativeOffsets(t *testing.T) {
	sel := []domain.Item{
		{ID: 1, Type: domain.TypeNote, X: 10, Y: 10, Width: 50, Height: 50},
		{ID: 2, Type: domain.TypeNote, X: 30, Y: 10, Width: 50, Height: 50},
	}
	data, err := Encode(sel)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	p, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Base != [2]float64{10, 10} {
		t.Fatalf("base must be the selection min corner: %v", p.Base)
	}

	doc := &domain.Document{Items: []domain.Item{
		{ID: 7, Type: domain.TypeRect, X: 0, Y: 0, Width: 20, Height: 20},
	}}
	ids := PasteAt(doc, p, 500, 700)
	if len(ids) != 2 {
		t.Fatalf("paste ids: %v", ids)
	}
	a, b := doc.ItemByID(ids[0]), doc.ItemByID(ids[1])
	if a.X != 500 || a.Y != 700 {
		t.Fatalf("first item must land at the paste point: %+v", a)
	}
	if b.X-a.X != 20 || b.Y != a.Y {
		t.Fatalf("20-unit horizontal offset not preserved: %+v vs %+v", a, b)
	}
}

func TestPasteIssuesFreshIDs(t *testing.T) {
	sel := []domain.Item{{ID: 3, Type: domain.TypeNote, X: 0, Y: 0, Width: 50, Height: 50}}
	data, _ := Encode(sel)
	p, _ := Decode(data)

	doc := &domain.Document{Items: []domain.Item{
		{ID: 3, Type: domain.TypeNote, X: 9, Y: 9, Width: 50, Height: 50},
		{ID: 10, Type: domain.TypeRect, X: 0, Y: 0, Width: 20, Height: 20},
	}}
	ids := PasteAt(doc, p, 100, 100)
	if ids[0] <= 10 {
		t.Fatalf("pasted id must not collide: %v", ids)
	}
	if doc.ItemByID(3).X != 9 {
		t.Fatalf("existing item must be untouched")
	}
}

func TestPasteRemapsGroupAndJumpWithinSelection(t *testing.T) {
	jump := int64(1)
	sel := []domain.Item{
		{ID: 1, Type: domain.TypeMarker, X: 0, Y: 0, Width: 24, Height: 24},
		{ID: 2, Type: domain.TypeNote, X: 50, Y: 0, Width: 50, Height: 50, GroupID: 1},
		{ID: 3, Type: domain.TypeMarker, X: 100, Y: 0, Width: 24, Height: 24, JumpID: &jump},
		{ID: 4, Type: domain.TypeNote, X: 150, Y: 0, Width: 50, Height: 50, GroupID: 99},
	}
	data, _ := Encode(sel)
	p, _ := Decode(data)

	doc := &domain.Document{}
	ids := PasteAt(doc, p, 0, 0)

	anchor := doc.ItemByID(ids[0])
	member := doc.ItemByID(ids[1])
	jumper := doc.ItemByID(ids[2])
	stray := doc.ItemByID(ids[3])
	if member.GroupID != anchor.ID {
		t.Fatalf("group reference not remapped: %+v", member)
	}
	if jumper.JumpID == nil || *jumper.JumpID != anchor.ID {
		t.Fatalf("jump reference not remapped: %+v", jumper)
	}
	if stray.GroupID != 0 {
		t.Fatalf("reference outside the selection must be cleared: %+v", stray)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	if _, err := Decode([]byte("{broken")); err == nil {
		t.Fatalf("malformed JSON must be rejected")
	}
	if _, err := Decode([]byte(`{"base":[0,0]}`)); err == nil {
		t.Fatalf("payload without items must be rejected")
	}
}

func TestEncodeEmptySelection(t *testing.T) {
	if _, err := Encode(nil); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}
