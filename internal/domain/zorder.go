/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"math"
	"sort"
)

// Paint-order rules. Items without an explicit z paint in list order and
// always sit below any item that carries a z. Explicit z values keep their
// relative order but are normalized into a bounded band so that repeated
// raise/lower operations cannot grow values without limit.

// zBandWidth is the size of the normalized band explicit z values occupy.
const zBandWidth = 1.0

type paintEntry struct {
	index int     // position in Document.Items
	key   float64 // normalized sort key
}

// PaintOrder returns item indices back-to-front. Implicit items receive
// fractional keys in (0,1) by list position; explicit z values are ranked
// and mapped into [1, 1+zBandWidth]. Ties between equal z keep list order
// (the sort is stable on the original index).
func (d *Document) PaintOrder() []int {
	n := len(d.Items)
	entries := make([]paintEntry, 0, n)

	var explicit []int
	for i := range d.Items {
		if d.Items[i].Z != nil {
			explicit = append(explicit, i)
		} else {
			entries = append(entries, paintEntry{index: i, key: float64(i+1) / float64(n+1)})
		}
	}

	if len(explicit) > 0 {
		sort.SliceStable(explicit, func(a, b int) bool {
			return *d.Items[explicit[a]].Z < *d.Items[explicit[b]].Z
		})
		for rank, idx := range explicit {
			key := 1.0
			if len(explicit) > 1 {
				key = 1.0 + zBandWidth*float64(rank)/float64(len(explicit)-1)
			}
			entries = append(entries, paintEntry{index: idx, key: key})
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].key != entries[b].key {
			return entries[a].key < entries[b].key
		}
		return entries[a].index < entries[b].index
	})

	out := make([]int, n)
	for i, e := range entries {
		out[i] = e.index
	}
	return out
}

// NormalizeZ rewrites every explicit z into the bounded band, preserving
// relative order. Implicit items stay implicit. Call after raise/lower
// edits to keep persisted values small and stable.
func (d *Document) NormalizeZ() {
	var explicit []int
	for i := range d.Items {
		if d.Items[i].Z != nil {
			explicit = append(explicit, i)
		}
	}
	if len(explicit) == 0 {
		return
	}
	sort.SliceStable(explicit, func(a, b int) bool {
		return *d.Items[explicit[a]].Z < *d.Items[explicit[b]].Z
	})
	for rank, idx := range explicit {
		key := 1.0
		if len(explicit) > 1 {
			key = 1.0 + zBandWidth*float64(rank)/float64(len(explicit)-1)
		}
		z := math.Round(key*1000) / 1000
		d.Items[idx].Z = &z
	}
}

// Raise gives the item an explicit z above every current maximum.
func (d *Document) Raise(id int64) {
	it := d.ItemByID(id)
	if it == nil {
		return
	}
	max := 1.0
	for i := range d.Items {
		if z := d.Items[i].Z; z != nil && *z > max {
			max = *z
		}
	}
	z := max + 0.001
	it.Z = &z
	d.NormalizeZ()
}

// Lower gives the item an explicit z below every current minimum while
// keeping it above all implicit items.
func (d *Document) Lower(id int64) {
	it := d.ItemByID(id)
	if it == nil {
		return
	}
	min := 1.0 + zBandWidth
	for i := range d.Items {
		if z := d.Items[i].Z; z != nil && *z < min {
			min = *z
		}
	}
	z := min - 0.001
	it.Z = &z
	d.NormalizeZ()
}
