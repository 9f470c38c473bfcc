/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"deskcanvas/internal/domain"
	applog "deskcanvas/internal/log"
	"deskcanvas/internal/media"
)

// Document format migrations. Migrations operate on the raw JSON object so
// that fields dropped from the typed model (note, noteType, child_item_ids)
// are still reachable. Each step rewrites exactly one version boundary and
// the chain runs until the current version is reached, so loading an
// already-current document is a no-op.

type migration struct {
	from, to string
	apply    func(doc map[string]any)
}

var migrationChain = []migration{
	{from: "1.0", to: "1.1", apply: migrate10to11},
	{from: "1.1", to: "2.0", apply: migrate11to20},
}

// Migrate upgrades raw document JSON to the current schema version. Foreign
// JSON without a fileinfo block passes through untouched. A version newer
// than the application understands is an error rather than a silent
// best-effort parse.
func Migrate(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	fi, ok := doc["fileinfo"].(map[string]any)
	if !ok {
		return data, nil
	}
	ver, _ := fi["version"].(string)
	if ver == "" {
		ver = "1.0"
	}
	if ver == domain.SchemaVersion {
		return data, nil
	}
	if versionNewer(ver, domain.SchemaVersion) {
		return nil, fmt.Errorf("document version %s is newer than supported %s", ver, domain.SchemaVersion)
	}

	l := applog.WithOperation(applog.WithComponent("storage"), "migrate")
	applied := false
	for _, m := range migrationChain {
		if ver != m.from {
			continue
		}
		m.apply(doc)
		l.Info("applied document migration",
			slog.String("from", m.from), slog.String("to", m.to))
		ver = m.to
		applied = true
	}
	if !applied && ver != domain.SchemaVersion {
		return nil, fmt.Errorf("no migration path from document version %s", ver)
	}
	fi["version"] = ver

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal migrated document: %w", err)
	}
	return out, nil
}

// versionNewer reports whether a sorts after b in major.minor order.
func versionNewer(a, b string) bool {
	pa, pb := splitVersion(a), splitVersion(b)
	if pa[0] != pb[0] {
		return pa[0] > pb[0]
	}
	return pa[1] > pb[1]
}

func splitVersion(v string) [2]int {
	var out [2]int
	parts := strings.SplitN(v, ".", 2)
	for i := 0; i < len(parts) && i < 2; i++ {
		n := 0
		for _, r := range parts[i] {
			if r < '0' || r > '9' {
				break
			}
			n = n*10 + int(r-'0')
		}
		out[i] = n
	}
	return out
}

func docItems(doc map[string]any) []map[string]any {
	raw, _ := doc["items"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// migrate10to11 rewrites the 1.0 note encoding and group membership:
//   - note (base64) + noteType become plain text/format fields
//   - a group's child_item_ids list becomes group_id on each member
func migrate10to11(doc map[string]any) {
	items := docItems(doc)

	byID := make(map[float64]map[string]any, len(items))
	for _, it := range items {
		if id, ok := it["id"].(float64); ok {
			byID[id] = it
		}
	}

	for _, it := range items {
		if enc, ok := it["note"].(string); ok {
			if raw, err := base64.StdEncoding.DecodeString(enc); err == nil {
				it["text"] = string(raw)
			} else {
				// Not base64 after all; keep verbatim as text.
				it["text"] = enc
			}
			delete(it, "note")
			format := domain.NoteFormatPlain
			if nt, ok := it["noteType"].(string); ok && strings.EqualFold(nt, "markdown") {
				format = domain.NoteFormatMarkdown
			}
			it["format"] = format
			delete(it, "noteType")
		}

		if children, ok := it["child_item_ids"].([]any); ok {
			gid, _ := it["id"].(float64)
			for _, c := range children {
				cid, ok := c.(float64)
				if !ok {
					continue
				}
				if child, ok := byID[cid]; ok && gid != 0 {
					child["group_id"] = gid
				}
			}
			delete(it, "child_item_ids")
		}
	}
}

// migrate11to20 promotes the legacy inline payload fields (embed,
// icon_embed, data) to the embedded/embedded_data/format triple. Every
// present legacy field is classified by magic number; the first classifiable
// one fills the triple and is consumed. Unclassifiable payloads, and any
// further payload once the triple is filled, are kept verbatim in their
// legacy fields so no data is lost.
func migrate11to20(doc map[string]any) {
	legacyKeys := []string{"embed", "icon_embed", "data"}
	for _, it := range docItems(doc) {
		if _, has := it["embedded_data"]; has {
			continue
		}
		for _, key := range legacyKeys {
			payload, ok := it[key].(string)
			if !ok || payload == "" {
				continue
			}
			format := media.SniffBase64(payload)
			if format == "" {
				continue
			}
			it["embedded"] = true
			it["embedded_data"] = payload
			if _, has := it["format"]; !has {
				it["format"] = format
			}
			delete(it, key)
			break
		}
	}
}
