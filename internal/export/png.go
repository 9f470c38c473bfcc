/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/fogleman/gg"

	"deskcanvas/internal/domain"
	"deskcanvas/internal/media"
	"deskcanvas/internal/textlayout"
	"deskcanvas/internal/vector"
)

// PNGOptions controls raster export.
// - Scale: scene units to pixels; defaults to 1.
// - Margin: scene-space border around the content bounds.
// - Background: page color; defaults to white.
type PNGOptions struct {
	Scale      float64
	Margin     float64
	Background color.RGBA
}

// ExportPNG renders the document's content bounds into a PNG file.
func ExportPNG(doc *domain.Document, outPath string, opt PNGOptions) error {
	if opt.Scale <= 0 {
		opt.Scale = 1
	}
	if opt.Margin < 0 {
		opt.Margin = 0
	}
	if opt.Background.A == 0 {
		opt.Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}

	bounds, ok := doc.ContentBounds()
	if !ok {
		bounds = vector.R(0, 0, 100, 100)
	}
	bounds = bounds.Inset(-opt.Margin, -opt.Margin)

	w := int(math.Ceil(bounds.W * opt.Scale))
	h := int(math.Ceil(bounds.H * opt.Scale))
	if w < 1 || h < 1 {
		return fmt.Errorf("degenerate export size %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(opt.Background)
	dc.Clear()
	dc.Scale(opt.Scale, opt.Scale)
	dc.Translate(-bounds.X, -bounds.Y)

	for _, idx := range doc.PaintOrder() {
		it := &doc.Items[idx]
		drawItem(dc, it)
		if it.Caption != "" && it.Type != domain.TypeMarker {
			drawCaption(dc, it)
		}
	}

	if err := dc.SavePNG(outPath); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func drawItem(dc *gg.Context, it *domain.Item) {
	b := it.Bounds()
	switch it.Type {
	case domain.TypeRect:
		drawRect(dc, it, b)
	case domain.TypeArrow:
		drawArrow(dc, it, b)
	case domain.TypeNote:
		drawNote(dc, it, b)
	case domain.TypeMarker:
		drawMarker(dc, it, b)
	default:
		drawMedia(dc, it, b)
	}
}

func drawRect(dc *gg.Context, it *domain.Item, b vector.Rect) {
	transparent := it.BackgroundTransparent != nil && *it.BackgroundTransparent
	if !transparent {
		dc.SetColor(parseHexColor(it.BackgroundColor, color.RGBA{R: 255, G: 255, B: 255, A: 255}))
		dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, it.CornerRadius)
		dc.Fill()
	}
	fw := it.FrameWidth
	if fw <= 0 {
		fw = 1
	}
	dc.SetColor(parseHexColor(it.FrameColor, color.RGBA{A: 255}))
	dc.SetLineWidth(fw)
	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, it.CornerRadius)
	dc.Stroke()
}

func drawArrow(dc *gg.Context, it *domain.Item, b vector.Rect) {
	length := vector.ArrowLength(b.W, b.H, it.Angle)
	rad := it.Angle * math.Pi / 180
	c := b.Center()
	tipX := c.X + math.Cos(rad)*length/2
	tipY := c.Y + math.Sin(rad)*length/2
	tailX := c.X - math.Cos(rad)*length/2
	tailY := c.Y - math.Sin(rad)*length/2

	col := parseHexColor(it.FrameColor, color.RGBA{A: 255})
	fw := it.FrameWidth
	if fw <= 0 {
		fw = 2
	}
	dc.SetColor(col)
	dc.SetLineWidth(fw)
	dc.DrawLine(tailX, tailY, tipX, tipY)
	dc.Stroke()

	if !it.IsLine {
		headLen := math.Min(12, length/3)
		left := rad + math.Pi*7/8
		right := rad - math.Pi*7/8
		dc.MoveTo(tipX, tipY)
		dc.LineTo(tipX+math.Cos(left)*headLen, tipY+math.Sin(left)*headLen)
		dc.LineTo(tipX+math.Cos(right)*headLen, tipY+math.Sin(right)*headLen)
		dc.ClosePath()
		dc.Fill()
	}
}

func drawNote(dc *gg.Context, it *domain.Item, b vector.Rect) {
	if it.FillBackground {
		dc.SetColor(parseHexColor(it.BgColor, color.RGBA{R: 255, G: 255, B: 224, A: 255}))
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Fill()
	}
	dc.SetColor(color.RGBA{R: 160, G: 160, B: 160, A: 255})
	dc.SetLineWidth(1)
	dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	dc.Stroke()

	dc.SetColor(parseHexColor(it.Color, color.RGBA{A: 255}))
	y := b.Y + 14
	for _, line := range textlayout.WrapString(it.Text, float32(b.W-12)) {
		if y > b.Y+b.H-4 {
			break
		}
		dc.DrawString(line, b.X+6, y)
		y += 14
	}
}

func drawMarker(dc *gg.Context, it *domain.Item, b vector.Rect) {
	c := b.Center()
	r := math.Min(b.W, b.H) / 2
	dc.SetColor(color.RGBA{R: 220, G: 60, B: 60, A: 255})
	dc.DrawCircle(c.X, c.Y, r)
	dc.Fill()
	show := it.ShowCaption == nil || *it.ShowCaption
	if show && it.Caption != "" {
		dc.SetColor(color.RGBA{A: 255})
		dc.DrawStringAnchored(it.Caption, c.X, b.Y+b.H+10, 0.5, 0.5)
	}
}

// drawMedia renders image-like items: the embedded payload when decodable,
// otherwise a placeholder glyph. The brightness correction is drawn as a
// translucent overlay.
func drawMedia(dc *gg.Context, it *domain.Item, b vector.Rect) {
	img := decodeItemImage(it)
	if img == nil {
		drawPlaceholder(dc, b)
		return
	}
	ib := img.Bounds()
	dc.Push()
	dc.Translate(b.X, b.Y)
	dc.Scale(b.W/float64(ib.Dx()), b.H/float64(ib.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()

	if it.Brightness != nil {
		alpha, white := domain.BrightnessOverlay(*it.Brightness)
		if alpha > 0 {
			v := uint8(0)
			if white {
				v = 255
			}
			dc.SetColor(color.RGBA{R: v, G: v, B: v, A: alpha})
			dc.DrawRectangle(b.X, b.Y, b.W, b.H)
			dc.Fill()
		}
	}
}

func decodeItemImage(it *domain.Item) image.Image {
	if !it.HasEmbeddedMedia() {
		return nil
	}
	raw, err := media.DecodeEmbedded(it.EmbeddedData)
	if err != nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	return img
}

// drawPlaceholder marks missing or undecodable media without failing the
// export.
func drawPlaceholder(dc *gg.Context, b vector.Rect) {
	dc.SetColor(color.RGBA{R: 238, G: 238, B: 238, A: 255})
	dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	dc.Fill()
	dc.SetColor(color.RGBA{R: 180, G: 60, B: 60, A: 255})
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	dc.Stroke()
	dc.DrawLine(b.X, b.Y, b.X+b.W, b.Y+b.H)
	dc.Stroke()
	dc.DrawLine(b.X+b.W, b.Y, b.X, b.Y+b.H)
	dc.Stroke()
}

func drawCaption(dc *gg.Context, it *domain.Item) {
	b := it.Bounds()
	dc.SetColor(color.RGBA{R: 60, G: 60, B: 60, A: 255})
	dc.DrawStringAnchored(it.Caption, b.X+b.W/2, b.Y+b.H+10, 0.5, 0.5)
}
