/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"math"

	"deskcanvas/internal/domain"
	"deskcanvas/internal/vector"
)

// SnapThreshold is the scene-space distance within which a dragged item's
// edges lock onto another item's edges.
const SnapThreshold = 10.0

// SnapPosition aligns a proposed position for the moving item against the
// edges of every other item. Left/right edges snap on X, top/bottom on Y,
// independently; the nearest candidate within SnapThreshold wins per axis.
// Group members of the moving item are excluded so a group drag does not
// snap against itself.
func SnapPosition(doc *domain.Document, movingID int64, proposed vector.Pt, size vector.Size) vector.Pt {
	bestDX, bestDY := math.Inf(1), math.Inf(1)

	consider := func(delta float64, best *float64) {
		if math.Abs(delta) < math.Abs(*best) {
			*best = delta
		}
	}

	left, right := proposed.X, proposed.X+size.W
	top, bottom := proposed.Y, proposed.Y+size.H

	for i := range doc.Items {
		other := &doc.Items[i]
		if other.ID == movingID || other.GroupID == movingID {
			continue
		}
		b := other.Bounds()
		for _, edge := range []float64{b.X, b.X + b.W} {
			consider(edge-left, &bestDX)
			consider(edge-right, &bestDX)
		}
		for _, edge := range []float64{b.Y, b.Y + b.H} {
			consider(edge-top, &bestDY)
			consider(edge-bottom, &bestDY)
		}
	}

	out := proposed
	if math.Abs(bestDX) <= SnapThreshold {
		out.X += bestDX
	}
	if math.Abs(bestDY) <= SnapThreshold {
		out.Y += bestDY
	}
	return out
}
