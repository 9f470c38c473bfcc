/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"deskcanvas/internal/domain"
)

// Group editing. A group is an anchor item plus members pointing at it via
// group_id. Membership has no other persisted linkage, so every operation
// here is a per-member single-field or position edit, never a structural
// cascade.

// GroupMembers returns pointers to every item whose group_id references
// anchorID. The anchor itself is not a member.
func GroupMembers(doc *domain.Document, anchorID int64) []*domain.Item {
	var out []*domain.Item
	for i := range doc.Items {
		if doc.Items[i].GroupID == anchorID && doc.Items[i].ID != anchorID {
			out = append(out, &doc.Items[i])
		}
	}
	return out
}

// MoveWithGroup moves the item by (dx,dy); when the item anchors a group,
// every member moves by exactly the same delta.
func MoveWithGroup(doc *domain.Document, id int64, dx, dy float64) {
	it := doc.ItemByID(id)
	if it == nil {
		return
	}
	it.X += dx
	it.Y += dy
	for _, m := range GroupMembers(doc, id) {
		m.X += dx
		m.Y += dy
	}
}

// Dissolve clears group_id on every member, leaving positions and the
// anchor itself untouched.
func Dissolve(doc *domain.Document, anchorID int64) {
	for _, m := range GroupMembers(doc, anchorID) {
		m.GroupID = 0
	}
}

// DeleteItem removes an item from the document. Deleting a group anchor
// dissolves the group first: members keep their positions and merely lose
// the reference.
func DeleteItem(doc *domain.Document, id int64) {
	Dissolve(doc, id)
	for i := range doc.Items {
		if doc.Items[i].ID == id {
			doc.Items = append(doc.Items[:i], doc.Items[i+1:]...)
			return
		}
	}
}

// AssignGroup points every listed item at the anchor. Ids that do not exist
// are skipped; the anchor never references itself.
func AssignGroup(doc *domain.Document, anchorID int64, memberIDs ...int64) {
	if doc.ItemByID(anchorID) == nil {
		return
	}
	for _, id := range memberIDs {
		if id == anchorID {
			continue
		}
		if it := doc.ItemByID(id); it != nil {
			it.GroupID = anchorID
		}
	}
}
