/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// ArrowLength returns the length of an arrow centered in a w×h bounding box
// at the given angle (degrees, measured from the positive x axis): the chord
// of the inscribed ellipse through the box center. At 0°/180° that is the
// full width, at 90°/270° the full height, and it stays inside the box at
// every angle in between.
func ArrowLength(w, h, angleDeg float64) float64 {
	if w <= 0 || h <= 0 {
		return 0.8 * math.Min(w, h)
	}
	rad := angleDeg * math.Pi / 180
	sa, sb := w/2, h/2
	cx := math.Cos(rad) / sa
	sy := math.Sin(rad) / sb
	return 2 / math.Sqrt(cx*cx+sy*sy)
}

// ArrowTip returns the head endpoint of the arrow in box-local coordinates.
// The tail is the mirror image through the box center.
func ArrowTip(w, h, angleDeg float64) Pt {
	length := ArrowLength(w, h, angleDeg)
	rad := angleDeg * math.Pi / 180
	return Pt{
		X: w/2 + math.Cos(rad)*length/2,
		Y: h/2 + math.Sin(rad)*length/2,
	}
}
