/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	z := 1.5
	show := false
	jump := int64(4)
	doc := Document{
		FileInfo: NewFileInfo(),
		Items: []Item{
			{ID: 1, Type: TypeNote, X: 10, Y: 20, Width: 200, Height: 120,
				Text: "hello", Format: NoteFormatMarkdown, FontSize: 14,
				Color: "#202020", BgColor: "#ffffe0", FillBackground: true},
			{ID: 2, Type: TypeImage, X: -50, Y: 0, Width: 320, Height: 240,
				Embedded: true, EmbeddedData: "aGVsbG8=", Format: "data:image/png;base64,",
				Z: &z, GroupID: 3},
			{ID: 3, Type: TypeMarker, X: 0, Y: 0, Width: 24, Height: 24,
				IsStart: true, JumpID: &jump, ShowCaption: &show, Caption: "start"},
		},
	}
	raw, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Document
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(doc, back) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", doc, back)
	}
}

func TestWireFieldNames(t *testing.T) {
	it := Item{ID: 9, Type: TypeRect, GroupID: 2, FrameColor: "#f00",
		FillBackground: true, IconIndex: 3}
	raw, _ := json.Marshal(&it)
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"group_id", "frame_color", "fill_background", "icon_index"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("missing wire field %q in %s", key, raw)
		}
	}
}

func TestIsProjectDiscriminator(t *testing.T) {
	var plain Document
	if err := json.Unmarshal([]byte(`{"items":[]}`), &plain); err != nil {
		t.Fatal(err)
	}
	if plain.IsProject() {
		t.Fatalf("document without fileinfo must not count as project")
	}
	var proj Document
	if err := json.Unmarshal([]byte(`{"fileinfo":{"name":"x","version":"2.0"},"items":[]}`), &proj); err != nil {
		t.Fatal(err)
	}
	if !proj.IsProject() {
		t.Fatalf("fileinfo marker must identify a project")
	}
}

func TestBoundsClampsDegenerateSizes(t *testing.T) {
	it := Item{X: 5, Y: 5, Width: 0, Height: -3}
	b := it.Bounds()
	if b.W != MinVisibleSize || b.H != MinVisibleSize {
		t.Fatalf("degenerate sizes not clamped: %+v", b)
	}
	it.ClampSize()
	if it.Width != MinVisibleSize || it.Height != MinVisibleSize {
		t.Fatalf("ClampSize did not persist clamp: %+v", it)
	}
}

func TestNextIDAndEnsureIDs(t *testing.T) {
	doc := Document{Items: []Item{{ID: 3}, {ID: 7}, {ID: 0}, {ID: 7}}}
	doc.EnsureIDs()
	seen := map[int64]bool{}
	for _, it := range doc.Items {
		if it.ID == 0 {
			t.Fatalf("item left without id")
		}
		if seen[it.ID] {
			t.Fatalf("duplicate id %d after EnsureIDs", it.ID)
		}
		seen[it.ID] = true
	}
	if doc.Items[0].ID != 3 || doc.Items[1].ID != 7 {
		t.Fatalf("first occurrences must keep their ids: %+v", doc.Items)
	}
	if got := doc.NextID(); got <= 7 {
		t.Fatalf("NextID must exceed max, got %d", got)
	}
}

func TestStartMarkerFirstWins(t *testing.T) {
	doc := Document{Items: []Item{
		{ID: 1, Type: TypeNote},
		{ID: 2, Type: TypeMarker, IsStart: true},
		{ID: 3, Type: TypeMarker, IsStart: true},
	}}
	if m := doc.StartMarker(); m == nil || m.ID != 2 {
		t.Fatalf("first flagged marker must win, got %+v", m)
	}
}

func TestContentBounds(t *testing.T) {
	doc := Document{}
	if _, ok := doc.ContentBounds(); ok {
		t.Fatalf("empty document has no content bounds")
	}
	doc.Items = []Item{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 300, Y: -50, Width: 40, Height: 40},
	}
	b, ok := doc.ContentBounds()
	if !ok || b.X != 0 || b.Y != -50 || b.W != 340 || b.H != 150 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}
