/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists scene documents as JSON files with transactional
// writes, timestamped backups, a format migration chain and a per-document
// SQLite search index.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"deskcanvas/internal/domain"
	applog "deskcanvas/internal/log"
)

const (
	// WorkDirName stores per-document ephemeral data (index, backups)
	// next to the scene file.
	WorkDirName    = ".dcv"
	BackupsDirName = "backups"
)

// ErrNotProject is returned when a JSON file lacks the fileinfo marker.
var ErrNotProject = errors.New("file is not a scene document (missing fileinfo)")

// DocHandle tracks a scene document loaded from or bound to a file.
type DocHandle struct {
	Path string
	Doc  domain.Document
}

// WorkDir returns the .dcv directory for the handle's file.
func (h *DocHandle) WorkDir() string {
	return filepath.Join(filepath.Dir(h.Path), WorkDirName)
}

func backupsDir(path string) string {
	return filepath.Join(filepath.Dir(path), WorkDirName, BackupsDirName)
}

// Decode parses raw JSON into a migrated, normalized document. Foreign JSON
// (no fileinfo block) yields ErrNotProject. Unknown item types are dropped
// with a warning; degenerate sizes are clamped; brightness is converted to
// the centered scale.
func Decode(data []byte) (*domain.Document, error) {
	migrated, err := Migrate(data)
	if err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := json.Unmarshal(migrated, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if !doc.IsProject() {
		return nil, ErrNotProject
	}
	normalize(&doc)
	return &doc, nil
}

func normalize(doc *domain.Document) {
	l := applog.WithComponent("storage")
	kept := doc.Items[:0]
	for _, it := range doc.Items {
		if !domain.KnownTypes[it.Type] {
			l.Warn("skipping item of unknown type",
				slog.Int64("id", it.ID), slog.String("type", string(it.Type)))
			continue
		}
		it.ClampSize()
		kept = append(kept, it)
	}
	doc.Items = kept
	doc.EnsureIDs()
	doc.NormalizeBrightness()
}

// Encode serializes the document for persistence, stamping the current
// schema version.
func Encode(doc *domain.Document) ([]byte, error) {
	if doc.FileInfo == nil {
		doc.FileInfo = domain.NewFileInfo()
	}
	doc.FileInfo.Version = domain.SchemaVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(data, '\n'), nil
}

// Create writes a fresh empty document at path and returns its handle.
func Create(path string) (*DocHandle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("document path is required")
	}
	h := &DocHandle{
		Path: path,
		Doc:  domain.Document{FileInfo: domain.NewFileInfo(), Items: []domain.Item{}},
	}
	if err := SaveFile(h); err != nil {
		return nil, err
	}
	return h, nil
}

// OpenFile loads a scene document. If the file is unreadable or fails to
// parse, the newest backup under .dcv/backups is tried before giving up.
func OpenFile(path string) (*DocHandle, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(
		slog.String("path", path))
	data, err := os.ReadFile(path)
	if err != nil {
		doc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("open document: %w; backup attempt: %v", err, berr)
		}
		l.Warn("document unreadable, restored from backup", slog.Any("err", err))
		return &DocHandle{Path: path, Doc: *doc}, nil
	}
	doc, derr := Decode(data)
	if derr != nil {
		if errors.Is(derr, ErrNotProject) {
			return nil, derr
		}
		bdoc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("parse document: %w; backup attempt: %v", derr, berr)
		}
		l.Warn("document corrupt, restored from backup", slog.Any("err", derr))
		return &DocHandle{Path: path, Doc: *bdoc}, nil
	}
	return &DocHandle{Path: path, Doc: *doc}, nil
}

// SaveFile writes the handle's document with transactional semantics: the
// previous file is copied to a timestamped backup, the new content goes to
// a temp file in the same directory and is renamed over the target.
func SaveFile(h *DocHandle) error {
	if h == nil {
		return errors.New("nil DocHandle")
	}
	if h.Path == "" {
		return errors.New("invalid DocHandle: missing path")
	}
	data, err := Encode(&h.Doc)
	if err != nil {
		return err
	}

	bdir := backupsDir(h.Path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	base := filepath.Base(h.Path)
	if _, statErr := os.Stat(h.Path); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", base, stamp))
		if cerr := copyFile(h.Path, bpath); cerr != nil {
			return fmt.Errorf("backup current document: %w", cerr)
		}
	}

	dir := filepath.Dir(h.Path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", base, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp document: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(h.Path); err == nil {
		_ = os.Remove(h.Path)
	}
	if rerr := os.Rename(temp, h.Path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace document: %w", rerr)
	}
	return nil
}

// SaveFileAs rebinds the handle to a new path and saves there.
func SaveFileAs(h *DocHandle, newPath string) error {
	if h == nil {
		return errors.New("nil DocHandle")
	}
	if newPath == "" {
		return errors.New("new path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("create target dir: %w", err)
	}
	h.Path = newPath
	return SaveFile(h)
}

// CrashSnapshot writes the in-memory document to the backups directory
// without touching the main file. Used by the panic handler, where the
// document may be mid-edit and the main file must stay untouched.
func CrashSnapshot(h *DocHandle) (string, error) {
	if h == nil || h.Path == "" {
		return "", errors.New("no document bound")
	}
	data, err := Encode(&h.Doc)
	if err != nil {
		return "", err
	}
	bdir := backupsDir(h.Path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("%s.crash-%s.json", filepath.Base(h.Path), stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies src to dst, overwriting dst if it exists.
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries the newest timestamped backup for path.
func openFromLatestBackup(path string) (*domain.Document, error) {
	bdir := backupsDir(path)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	base := filepath.Base(path)
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, base+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	doc, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return doc, nil
}
