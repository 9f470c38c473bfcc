/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the canonical scene document model. The JSON field names
// are a wire contract shared with the migration engine and the read-only
// HTML viewer and must not change.

import "deskcanvas/internal/vector"

// SchemaVersion is the document format version emitted on save.
const SchemaVersion = "2.0"

// MinVisibleSize is the floor applied to degenerate item sizes. Zero or
// negative extents are clamped here rather than rejected so that old or
// hand-edited documents still load.
const MinVisibleSize = 16.0

// ItemType discriminates the variant payload of an Item.
type ItemType string

const (
	TypeLauncher ItemType = "launcher"
	TypeImage    ItemType = "image"
	TypeGIF      ItemType = "gif"
	TypeVideo    ItemType = "video"
	TypeNote     ItemType = "note"
	TypeMarker   ItemType = "marker"
	TypeGroup    ItemType = "group"
	TypeRect     ItemType = "rect"
	TypeArrow    ItemType = "arrow"
	TypeProject  ItemType = "project"
)

// KnownTypes lists every type the current schema understands; loaders skip
// (with a warning) anything not in this set.
var KnownTypes = map[ItemType]bool{
	TypeLauncher: true, TypeImage: true, TypeGIF: true, TypeVideo: true,
	TypeNote: true, TypeMarker: true, TypeGroup: true, TypeRect: true,
	TypeArrow: true, TypeProject: true,
}

// Note text formats.
const (
	NoteFormatPlain    = "plain"
	NoteFormatMarkdown = "markdown"
)

// FileInfo marks a JSON file as a scene document. Its presence is the
// canonical discriminator between "project" and arbitrary foreign JSON.
type FileInfo struct {
	Name    string `json:"name"`
	Info    string `json:"info,omitempty"`
	Version string `json:"version"`
	// BrightnessScale declares which brightness convention the producer
	// used: "centered" (default, 50 = neutral) or "percent" (100 = neutral).
	// The loader converts percent documents to centered; see brightness.go.
	BrightnessScale string `json:"brightness_scale,omitempty"`
}

// Background is the optional document-level backdrop: either an image with a
// brightness correction or a solid color.
type Background struct {
	Mode       string `json:"mode,omitempty"` // "" = image, "color" = solid
	Path       string `json:"path,omitempty"`
	Color      string `json:"color,omitempty"`
	Brightness *int   `json:"brightness,omitempty"`
}

// Document is the canonical scene: ordered items plus document metadata.
// Item order is the paint order unless explicit z values override it.
type Document struct {
	FileInfo   *FileInfo   `json:"fileinfo,omitempty"`
	Items      []Item      `json:"items"`
	Background *Background `json:"background,omitempty"`
}

// Item is the flat wire representation of every canvas element. The JSON is
// a single object discriminated by Type; which of the optional fields are
// meaningful depends on the variant. Keeping the struct flat keeps the
// format byte-compatible with documents written by older producers.
type Item struct {
	ID   int64    `json:"id"`
	Type ItemType `json:"type"`

	// Geometry (scene space). Width/Height are clamped to MinVisibleSize
	// at load, never rejected.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Z is the optional explicit paint-order key; nil means "paint in list
	// order". See PaintOrder for the normalization rules.
	Z *float64 `json:"z,omitempty"`

	// Caption is a non-interactive label rendered below the item.
	Caption string `json:"caption,omitempty"`

	// GroupID references the anchor marker this item belongs to; 0 = none.
	// Dangling references are inert.
	GroupID int64 `json:"group_id,omitempty"`

	// Media payload (launcher, image, gif, video, project).
	Path      string `json:"path,omitempty"`
	Workdir   string `json:"workdir,omitempty"`
	Icon      string `json:"icon,omitempty"`
	IconIndex int    `json:"icon_index,omitempty"`
	// Embedded payload: when Embedded is true, EmbeddedData must hold the
	// base64 bytes and Path is advisory only.
	Embedded     bool   `json:"embedded,omitempty"`
	EmbeddedData string `json:"embedded_data,omitempty"`
	// Format carries a data-URL prefix (media items) or a note text format
	// ("plain"/"markdown"); the two variants never overlap on one item.
	Format     string `json:"format,omitempty"`
	Brightness *int   `json:"brightness,omitempty"`

	// Legacy media fields. The migration engine promotes these into
	// Embedded/EmbeddedData/Format when it can classify the payload and
	// preserves them verbatim when it cannot, so no data is ever dropped.
	LegacyEmbed     string `json:"embed,omitempty"`
	LegacyIconEmbed string `json:"icon_embed,omitempty"`
	LegacyData      string `json:"data,omitempty"`
	Store           string `json:"store,omitempty"`

	// Note payload.
	Text           string `json:"text,omitempty"`
	Color          string `json:"color,omitempty"`
	BgColor        string `json:"bgcolor,omitempty"`
	FontSize       int    `json:"fontsize,omitempty"`
	FillBackground bool   `json:"fill_background,omitempty"`

	// Marker payload. JumpID is the target marker for double-activation;
	// dangling targets are inert.
	JumpID      *int64 `json:"jump_id,omitempty"`
	IsStart     bool   `json:"is_start,omitempty"`
	ShowCaption *bool  `json:"show_caption,omitempty"`

	// Rect/Arrow decoration payload.
	FrameColor            string  `json:"frame_color,omitempty"`
	FrameWidth            float64 `json:"frame_width,omitempty"`
	BackgroundColor       string  `json:"background_color,omitempty"`
	BackgroundTransparent *bool   `json:"background_transparent,omitempty"`
	CornerRadius          float64 `json:"corner_radius,omitempty"`
	Angle                 float64 `json:"angle,omitempty"`
	IsLine                bool    `json:"is_line,omitempty"`
}

// Bounds returns the item's scene-space rectangle with degenerate sizes
// clamped to MinVisibleSize.
func (it *Item) Bounds() vector.Rect {
	w, h := it.Width, it.Height
	if w < MinVisibleSize {
		w = MinVisibleSize
	}
	if h < MinVisibleSize {
		h = MinVisibleSize
	}
	return vector.R(it.X, it.Y, w, h)
}

// ClampSize raises degenerate persisted extents to the visible minimum.
func (it *Item) ClampSize() {
	if it.Width < MinVisibleSize {
		it.Width = MinVisibleSize
	}
	if it.Height < MinVisibleSize {
		it.Height = MinVisibleSize
	}
}

// HasEmbeddedMedia reports whether the item carries an inline payload.
func (it *Item) HasEmbeddedMedia() bool {
	return it.Embedded && it.EmbeddedData != ""
}

// NewFileInfo returns the fileinfo block for freshly created documents.
func NewFileInfo() *FileInfo {
	return &FileInfo{
		Name:    "deskcanvas",
		Info:    "project data file",
		Version: SchemaVersion,
	}
}

// IsProject reports whether raw JSON previously unmarshalled into doc was a
// scene document rather than foreign JSON: the fileinfo marker is canonical.
func (d *Document) IsProject() bool { return d.FileInfo != nil }

// ItemByID returns the item with the given id, or nil.
func (d *Document) ItemByID(id int64) *Item {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return &d.Items[i]
		}
	}
	return nil
}

// NextID returns an id one past the highest currently in use.
func (d *Document) NextID() int64 {
	var max int64
	for i := range d.Items {
		if d.Items[i].ID > max {
			max = d.Items[i].ID
		}
	}
	return max + 1
}

// EnsureIDs assigns fresh ids to items that lack one and resolves duplicate
// ids left behind by hand-edited documents. First occurrence wins; later
// duplicates are renumbered.
func (d *Document) EnsureIDs() {
	seen := make(map[int64]bool, len(d.Items))
	var next int64 = 1
	for i := range d.Items {
		if d.Items[i].ID > next {
			next = d.Items[i].ID + 1
		}
	}
	for i := range d.Items {
		it := &d.Items[i]
		if it.ID == 0 || seen[it.ID] {
			it.ID = next
			next++
		}
		seen[it.ID] = true
	}
}

// StartMarker returns the first marker flagged is_start, or nil. Multiple
// flagged markers are permitted; first wins.
func (d *Document) StartMarker() *Item {
	for i := range d.Items {
		if d.Items[i].Type == TypeMarker && d.Items[i].IsStart {
			return &d.Items[i]
		}
	}
	return nil
}

// ContentBounds returns the union of all item bounds, or ok=false for an
// empty document.
func (d *Document) ContentBounds() (vector.Rect, bool) {
	if len(d.Items) == 0 {
		return vector.Rect{}, false
	}
	b := d.Items[0].Bounds()
	for i := 1; i < len(d.Items); i++ {
		b = b.Union(d.Items[i].Bounds())
	}
	return b, true
}
