/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Brightness handling. The canonical scale is "centered": 50 is neutral,
// 0 fully black, 100 fully white. Some older producers wrote a "percent"
// scale where 100 is neutral and 200 fully white; fileinfo.brightness_scale
// declares which one a document uses and the loader converts to centered.

const (
	// BrightnessScaleCentered is the canonical scale (50 = neutral).
	BrightnessScaleCentered = "centered"
	// BrightnessScalePercent marks legacy documents (100 = neutral).
	BrightnessScalePercent = "percent"

	// BrightnessNeutral is the centered-scale neutral value.
	BrightnessNeutral = 50
)

// PercentToCentered converts a percent-scale brightness (0..200, 100 neutral)
// to the centered scale (0..100, 50 neutral).
func PercentToCentered(p int) int {
	return ClampBrightness(p / 2)
}

// ClampBrightness bounds a centered brightness into [0,100].
func ClampBrightness(b int) int {
	if b < 0 {
		return 0
	}
	if b > 100 {
		return 100
	}
	return b
}

// BrightnessOverlay maps a centered brightness onto the alpha and polarity
// of the correction layer drawn over an image: a white overlay for values
// above neutral, black below. Neutral yields alpha 0 (no overlay).
func BrightnessOverlay(b int) (alpha uint8, white bool) {
	b = ClampBrightness(b)
	d := b - BrightnessNeutral
	white = d > 0
	if d < 0 {
		d = -d
	}
	return uint8(float64(d) / float64(BrightnessNeutral) * 255), white
}

// NormalizeBrightness rewrites every brightness field on the document to the
// centered scale according to fileinfo.brightness_scale and clears the
// marker. Documents without the marker are already centered.
func (d *Document) NormalizeBrightness() {
	if d.FileInfo == nil || d.FileInfo.BrightnessScale != BrightnessScalePercent {
		return
	}
	conv := func(p *int) {
		if p != nil {
			*p = PercentToCentered(*p)
		}
	}
	for i := range d.Items {
		conv(d.Items[i].Brightness)
	}
	if d.Background != nil {
		conv(d.Background.Brightness)
	}
	d.FileInfo.BrightnessScale = ""
}
