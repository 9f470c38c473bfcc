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
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"deskcanvas/internal/domain"
	applog "deskcanvas/internal/log"
	"deskcanvas/internal/version"
	"log/slog"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	IndexFileName = "index.sqlite"

	// indexSchemaVersion tracks the local SQLite schema for the embedded
	// search index. Bump on breaking changes and add a migration below.
	// v2: fts_items stores its text column (snippet() needs the content).
	indexSchemaVersion = 2
)

// IndexPath returns the search index database path for a scene file.
func IndexPath(docPath string) string {
	return filepath.Join(filepath.Dir(docPath), WorkDirName, IndexFileName)
}

// InitOrOpenIndex ensures the per-document SQLite index exists under
// .dcv/index.sqlite, opens it in WAL mode and brings the schema up to date.
// Callers close the returned *sql.DB when done.
func InitOrOpenIndex(docPath string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("doc", docPath),
	)
	if strings.TrimSpace(docPath) == "" {
		return nil, errors.New("document path is required")
	}
	if err := os.MkdirAll(filepath.Join(filepath.Dir(docPath), WorkDirName), 0o755); err != nil {
		l.Error("create .dcv dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .dcv dir: %w", err)
	}

	path := IndexPath(docPath)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureIndexVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureIndexVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, indexSchemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if curSchema != indexSchemaVersion {
			// The index is derived data; on a schema change the item tables
			// are dropped and rebuilt from the document on the next
			// RebuildIndex.
			for _, q := range []string{
				`DROP TABLE IF EXISTS fts_items`,
				`DROP TABLE IF EXISTS items`,
			} {
				if _, err := db.ExecContext(ctx, q); err != nil {
					return fmt.Errorf("reset index schema: %w", err)
				}
			}
			if _, err := db.ExecContext(ctx, `UPDATE version SET schema=?, app=?, updated_at=? WHERE id=1`, indexSchemaVersion, appv, now); err != nil {
				return fmt.Errorf("update version: %w", err)
			}
			break
		}
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureIndexSchema creates the item tables and FTS structures.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// One row per canvas item; text carries the searchable payload
		// (caption, note text, launcher target).
		`CREATE TABLE IF NOT EXISTS items (
			item_id INTEGER PRIMARY KEY,
			type    TEXT    NOT NULL,
			caption TEXT,
			text    TEXT,
			path    TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_type ON items(type);`,

		// FTS5 index over the searchable payload. The table stores the
		// text column itself so snippet() can highlight matches.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_items USING fts5(
			text,
			tokenize = 'unicode61'
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	return nil
}

// RebuildIndex replaces the index content with the given document's items.
// The rebuild runs in one transaction so a searcher never observes a
// half-indexed document.
func RebuildIndex(ctx context.Context, db *sql.DB, doc *domain.Document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM fts_items`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear fts: %w", err)
	}
	for i := range doc.Items {
		it := &doc.Items[i]
		text := searchableText(it)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items(item_id, type, caption, text, path) VALUES(?, ?, ?, ?, ?)`,
			it.ID, string(it.Type), it.Caption, text, it.Path); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("index item %d: %w", it.ID, err)
		}
		if text != "" {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO fts_items(rowid, text) VALUES(?, ?)`, it.ID, text); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("index item text %d: %w", it.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

func searchableText(it *domain.Item) string {
	parts := make([]string, 0, 3)
	if it.Caption != "" {
		parts = append(parts, it.Caption)
	}
	if it.Type == domain.TypeNote && it.Text != "" {
		parts = append(parts, it.Text)
	}
	if it.Path != "" {
		parts = append(parts, it.Path)
	}
	return strings.Join(parts, "\n")
}

// SearchQuery describes an item search request. Text uses SQLite FTS5
// syntax (simple terms, phrases in quotes, AND/OR/NOT). Types optionally
// restricts the item kinds. Limit defaults to 50.
type SearchQuery struct {
	Text   string
	Types  []string
	Limit  int
	Offset int
}

// SearchResult is a single match.
type SearchResult struct {
	ItemID  int64
	Type    string
	Caption string
	Path    string
	Snippet string
}

// SearchItems runs a full-text query over the document index. An empty
// Text falls back to a plain scan with the type filter applied.
func SearchItems(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var (
		sb   strings.Builder
		args []any
	)
	if strings.TrimSpace(q.Text) != "" {
		sb.WriteString(`SELECT i.item_id, i.type, i.caption, i.path,
			snippet(fts_items, 0, '[', ']', '…', 8)
			FROM fts_items f
			JOIN items i ON i.item_id = f.rowid
			WHERE fts_items MATCH ?`)
		args = append(args, q.Text)
	} else {
		sb.WriteString(`SELECT i.item_id, i.type, i.caption, i.path, ''
			FROM items i WHERE 1=1`)
	}
	if len(q.Types) > 0 {
		sb.WriteString(` AND i.type IN (?` + strings.Repeat(",?", len(q.Types)-1) + `)`)
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	sb.WriteString(` ORDER BY i.item_id LIMIT ? OFFSET ?`)
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var caption, path sql.NullString
		if err := rows.Scan(&r.ItemID, &r.Type, &caption, &path, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Caption = caption.String
		r.Path = path.String
		out = append(out, r)
	}
	return out, rows.Err()
}
