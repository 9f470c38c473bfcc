/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deskcanvas/internal/domain"
)

func testDoc() *domain.Document {
	return &domain.Document{
		FileInfo: domain.NewFileInfo(),
		Items: []domain.Item{
			{ID: 1, Type: domain.TypeNote, Caption: "shopping", Text: "buy milk and bread"},
			{ID: 2, Type: domain.TypeLauncher, Caption: "editor", Path: "/usr/bin/vim"},
			{ID: 3, Type: domain.TypeMarker, Caption: "start here", IsStart: true},
		},
	}
}

func TestInitOrOpenIndexCreatesDatabase(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "scene.json")
	db, err := InitOrOpenIndex(docPath)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()
	if _, err := os.Stat(IndexPath(docPath)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}
	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read version row: %v", err)
	}
	if schema != indexSchemaVersion {
		t.Fatalf("schema version %d, want %d", schema, indexSchemaVersion)
	}
}

func TestRebuildAndSearch(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "scene.json")
	db, err := InitOrOpenIndex(docPath)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := RebuildIndex(ctx, db, testDoc()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}

	res, err := SearchItems(ctx, db, SearchQuery{Text: "milk"})
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(res) != 1 || res[0].ItemID != 1 {
		t.Fatalf("unexpected results: %+v", res)
	}
	if !strings.Contains(res[0].Snippet, "[milk]") {
		t.Fatalf("FTS match should highlight the term, got %q", res[0].Snippet)
	}
}

func TestSearchSnippetNeverNull(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "scene.json")
	db, err := InitOrOpenIndex(docPath)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := RebuildIndex(ctx, db, testDoc()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	// Every FTS hit must scan cleanly; snippet() requires the index to
	// store the indexed text.
	for _, term := range []string{"milk", "vim", "start"} {
		res, err := SearchItems(ctx, db, SearchQuery{Text: term})
		if err != nil {
			t.Fatalf("SearchItems(%q): %v", term, err)
		}
		if len(res) != 1 || res[0].Snippet == "" {
			t.Fatalf("SearchItems(%q): %+v", term, res)
		}
	}
}

func TestIndexSchemaBumpResetsTables(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "scene.json")
	db, err := InitOrOpenIndex(docPath)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	ctx := context.Background()
	if err := RebuildIndex(ctx, db, testDoc()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	// Simulate an index written by an older release.
	if _, err := db.Exec(`UPDATE version SET schema=? WHERE id=1`, indexSchemaVersion-1); err != nil {
		t.Fatalf("downgrade version row: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err = InitOrOpenIndex(docPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read version row: %v", err)
	}
	if schema != indexSchemaVersion {
		t.Fatalf("schema version %d, want %d", schema, indexSchemaVersion)
	}
	// The derived tables are dropped and recreated empty; a rebuild fills
	// them again.
	res, err := SearchItems(ctx, db, SearchQuery{})
	if err != nil {
		t.Fatalf("SearchItems on reset index: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("reset index should be empty: %+v", res)
	}
	if err := RebuildIndex(ctx, db, testDoc()); err != nil {
		t.Fatalf("RebuildIndex after reset: %v", err)
	}
	if res, err = SearchItems(ctx, db, SearchQuery{Text: "milk"}); err != nil || len(res) != 1 {
		t.Fatalf("search after reset rebuild: %v %+v", err, res)
	}
}

func TestSearchTypeFilterWithoutText(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "scene.json")
	db, err := InitOrOpenIndex(docPath)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := RebuildIndex(ctx, db, testDoc()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	res, err := SearchItems(ctx, db, SearchQuery{Types: []string{"marker", "launcher"}})
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("type filter scan: %+v", res)
	}
}

func TestRebuildReplacesPreviousContent(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "scene.json")
	db, err := InitOrOpenIndex(docPath)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := RebuildIndex(ctx, db, testDoc()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	small := &domain.Document{Items: []domain.Item{
		{ID: 9, Type: domain.TypeNote, Text: "only survivor"},
	}}
	if err := RebuildIndex(ctx, db, small); err != nil {
		t.Fatalf("RebuildIndex second: %v", err)
	}
	res, err := SearchItems(ctx, db, SearchQuery{})
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(res) != 1 || res[0].ItemID != 9 {
		t.Fatalf("rebuild must replace content: %+v", res)
	}
	if old, _ := SearchItems(ctx, db, SearchQuery{Text: "milk"}); len(old) != 0 {
		t.Fatalf("stale FTS rows survived rebuild: %+v", old)
	}
}
