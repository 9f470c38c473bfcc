/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene implements the canvas interaction core: viewport transform,
// edit-mode arbitration, the per-item mode machine, the event routing chain
// and group/snap editing operations.
package scene

import (
	"deskcanvas/internal/vector"
)

const (
	MinZoom = 0.1
	MaxZoom = 10.0

	// WheelZoomStep is the multiplicative zoom factor per wheel notch.
	WheelZoomStep = 1.1
)

// Viewport owns the pan offset and zoom factor and converts between scene
// space and device space. The mapping is
//
//	device = (scene - pan) * zoom
//
// so pan is the scene point shown at the device origin.
type Viewport struct {
	Pan  vector.Pt
	Zoom float64

	// View extent in device pixels, used for centering.
	ViewW, ViewH float64
}

// NewViewport returns a viewport at origin with neutral zoom.
func NewViewport(viewW, viewH float64) *Viewport {
	return &Viewport{Zoom: 1, ViewW: viewW, ViewH: viewH}
}

// SceneToDevice converts a scene point to device pixels.
func (v *Viewport) SceneToDevice(p vector.Pt) vector.Pt {
	return vector.Pt{X: (p.X - v.Pan.X) * v.Zoom, Y: (p.Y - v.Pan.Y) * v.Zoom}
}

// DeviceToScene converts device pixels to scene space. Exact inverse of
// SceneToDevice.
func (v *Viewport) DeviceToScene(p vector.Pt) vector.Pt {
	return vector.Pt{X: p.X/v.Zoom + v.Pan.X, Y: p.Y/v.Zoom + v.Pan.Y}
}

// PanBy shifts the view by a device-space drag delta: dragging content to
// the right (positive dx) moves the pan origin left. Unbounded, the canvas
// is infinite.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan.X -= dx / v.Zoom
	v.Pan.Y -= dy / v.Zoom
}

// ZoomAt applies a multiplicative zoom factor anchored at a device point:
// the scene point under the cursor stays under the cursor. The resulting
// zoom is clamped to [MinZoom, MaxZoom]; at the clamp boundary the anchor
// still holds for the effective factor.
func (v *Viewport) ZoomAt(deviceX, deviceY float64, factor float64) {
	anchor := v.DeviceToScene(vector.Pt{X: deviceX, Y: deviceY})
	z := v.Zoom * factor
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	v.Zoom = z
	// device = (scene-pan)*zoom  =>  pan = scene - device/zoom
	v.Pan.X = anchor.X - deviceX/z
	v.Pan.Y = anchor.Y - deviceY/z
}

// CenterOn pans so the given scene point sits at the view center. Zoom is
// unchanged.
func (v *Viewport) CenterOn(p vector.Pt) {
	v.Pan.X = p.X - v.ViewW/2/v.Zoom
	v.Pan.Y = p.Y - v.ViewH/2/v.Zoom
}

// VisibleRect returns the scene-space rectangle currently on screen.
func (v *Viewport) VisibleRect() vector.Rect {
	return vector.R(v.Pan.X, v.Pan.Y, v.ViewW/v.Zoom, v.ViewH/v.Zoom)
}

// Minimap maps the document bounding box (plus margin) into a small fixed
// canvas with a single uniform scale.
type Minimap struct {
	W, H   float64
	Margin float64
}

// Scale returns the uniform scene-to-minimap scale for the given content
// bounds. Empty bounds yield scale 1.
func (m Minimap) Scale(bounds vector.Rect) float64 {
	b := bounds.Inset(-m.Margin, -m.Margin)
	if b.W <= 0 || b.H <= 0 {
		return 1
	}
	sx := m.W / b.W
	sy := m.H / b.H
	if sx < sy {
		return sx
	}
	return sy
}

// SceneFromClick converts a click on the minimap canvas back to the scene
// point it represents; the caller recenters the viewport on it.
func (m Minimap) SceneFromClick(click vector.Pt, bounds vector.Rect) vector.Pt {
	b := bounds.Inset(-m.Margin, -m.Margin)
	s := m.Scale(bounds)
	return vector.Pt{X: b.X + click.X/s, Y: b.Y + click.Y/s}
}
