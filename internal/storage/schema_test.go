/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"deskcanvas/internal/domain"
)

func TestSavedDocumentConformsToSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	h, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	jump := int64(2)
	h.Doc.Items = []domain.Item{
		{ID: 1, Type: domain.TypeNote, X: 10, Y: 20, Width: 120, Height: 80,
			Text: "note body", Format: domain.NoteFormatMarkdown},
		{ID: 2, Type: domain.TypeMarker, X: 0, Y: 0, Width: 24, Height: 24,
			IsStart: true, JumpID: &jump},
	}
	if err := SaveFile(h); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	msgs, err := ValidateSchema(data)
	if err != nil {
		t.Fatalf("ValidateSchema: %v", err)
	}
	for _, m := range msgs {
		t.Logf("schema error: %s", m)
	}
	if len(msgs) > 0 {
		t.Fatalf("saved document does not conform to schema")
	}
}

func TestValidateSchemaFlagsBadDocument(t *testing.T) {
	bad := []byte(`{"fileinfo":{"name":"x","version":"2.0"},"items":[{"id":1,"type":"teleporter","x":0,"y":0}]}`)
	msgs, err := ValidateSchema(bad)
	if err != nil {
		t.Fatalf("ValidateSchema: %v", err)
	}
	if len(msgs) == 0 {
		t.Fatalf("invalid type must produce schema errors")
	}
}
