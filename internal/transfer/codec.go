/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package transfer copies item selections through the system clipboard as a
// portable JSON payload with positions relative to a base point.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"deskcanvas/internal/domain"
)

// Payload is the clipboard wire format: the selection's min corner plus the
// items with absolute coordinates. Paste re-anchors everything relative to
// Base, so pairwise offsets survive exactly.
type Payload struct {
	Base  [2]float64    `json:"base"`
	Items []domain.Item `json:"items"`
}

// ErrEmptySelection is returned when Encode is called with nothing to copy.
var ErrEmptySelection = errors.New("empty selection")

// Encode serializes the selected items. Base is the min corner over the
// selection's positions.
func Encode(items []domain.Item) ([]byte, error) {
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}
	minX, minY := math.Inf(1), math.Inf(1)
	for i := range items {
		if items[i].X < minX {
			minX = items[i].X
		}
		if items[i].Y < minY {
			minY = items[i].Y
		}
	}
	p := Payload{Base: [2]float64{minX, minY}, Items: items}
	data, err := json.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("encode selection: %w", err)
	}
	return data, nil
}

// Decode parses a clipboard payload. Malformed input is an error; the
// caller treats that as a no-op paste.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode clipboard payload: %w", err)
	}
	if p.Items == nil {
		return nil, errors.New("clipboard payload has no items")
	}
	return &p, nil
}

// PasteAt inserts a decoded payload into the document anchored at the given
// scene point: every item keeps its offset from the payload base. Fresh ids
// are issued so pasting never collides with existing items; group anchors
// inside the selection are remapped so pasted groups stay intact, while
// references to anchors outside the selection are cleared.
func PasteAt(doc *domain.Document, p *Payload, atX, atY float64) []int64 {
	next := doc.NextID()
	idMap := make(map[int64]int64, len(p.Items))
	for i := range p.Items {
		idMap[p.Items[i].ID] = next + int64(i)
	}

	pasted := make([]int64, 0, len(p.Items))
	for _, it := range p.Items {
		it.X = atX + (it.X - p.Base[0])
		it.Y = atY + (it.Y - p.Base[1])
		it.ID = idMap[it.ID]
		if it.GroupID != 0 {
			if mapped, ok := idMap[it.GroupID]; ok {
				it.GroupID = mapped
			} else {
				it.GroupID = 0
			}
		}
		if it.JumpID != nil {
			if mapped, ok := idMap[*it.JumpID]; ok {
				jump := mapped
				it.JumpID = &jump
			} else {
				it.JumpID = nil
			}
		}
		it.ClampSize()
		doc.Items = append(doc.Items, it)
		pasted = append(pasted, it.ID)
	}
	return pasted
}
