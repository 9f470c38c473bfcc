/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders scene documents into standalone artifacts: a
// read-only interactive HTML viewer, raster PNG snapshots and vector PDF.
package export

import (
	"image/color"
	"strconv"
	"strings"
)

func colorRGBA(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

// parseHexColor parses #rgb, #rrggbb and #rrggbbaa. Invalid or empty input
// falls back to the given default.
func parseHexColor(s string, def color.RGBA) color.RGBA {
	s = strings.TrimSpace(strings.TrimPrefix(s, "#"))
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6, 8:
	default:
		return def
	}
	v, err := strconv.ParseUint(s[:6], 16, 32)
	if err != nil {
		return def
	}
	c := color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
	if len(s) == 8 {
		if a, err := strconv.ParseUint(s[6:8], 16, 16); err == nil {
			c.A = uint8(a)
		}
	}
	return c
}
