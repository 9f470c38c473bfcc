/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"deskcanvas/internal/domain"
	"deskcanvas/internal/textlayout"
	"deskcanvas/internal/vector"
)

// PDFOptions controls PDF export. Units are points (1pt = 1/72").
// Vector output relies on built-in Helvetica for portability; font
// embedding can be added later.
type PDFOptions struct {
	// Margin is the border around the content bounds, in scene units.
	Margin float64
}

// ExportPDF renders the document onto a single PDF page sized to the
// content bounds. Scene units map 1:1 to points.
func ExportPDF(doc *domain.Document, outPath string, opt PDFOptions) error {
	if opt.Margin < 0 {
		opt.Margin = 0
	}
	bounds, ok := doc.ContentBounds()
	if !ok {
		bounds = vector.R(0, 0, 100, 100)
	}
	bounds = bounds.Inset(-opt.Margin, -opt.Margin)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: bounds.W, Ht: bounds.H},
	})
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()

	// Page origin is top-left; shift scene coordinates into it.
	ox, oy := -bounds.X, -bounds.Y

	for _, idx := range doc.PaintOrder() {
		it := &doc.Items[idx]
		b := it.Bounds()
		x, y := b.X+ox, b.Y+oy

		switch it.Type {
		case domain.TypeRect:
			fc := parseHexColor(it.FrameColor, hexBlack)
			pdf.SetDrawColor(int(fc.R), int(fc.G), int(fc.B))
			lw := it.FrameWidth
			if lw <= 0 {
				lw = 1
			}
			pdf.SetLineWidth(lw)
			style := "D"
			if it.BackgroundTransparent == nil || !*it.BackgroundTransparent {
				bg := parseHexColor(it.BackgroundColor, hexWhite)
				pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
				style = "FD"
			}
			if it.CornerRadius > 0 {
				pdf.RoundedRect(x, y, b.W, b.H, it.CornerRadius, "1234", style)
			} else {
				pdf.Rect(x, y, b.W, b.H, style)
			}

		case domain.TypeArrow:
			length := vector.ArrowLength(b.W, b.H, it.Angle)
			rad := it.Angle * math.Pi / 180
			cx, cy := x+b.W/2, y+b.H/2
			fc := parseHexColor(it.FrameColor, hexBlack)
			pdf.SetDrawColor(int(fc.R), int(fc.G), int(fc.B))
			lw := it.FrameWidth
			if lw <= 0 {
				lw = 2
			}
			pdf.SetLineWidth(lw)
			pdf.Line(cx-math.Cos(rad)*length/2, cy-math.Sin(rad)*length/2,
				cx+math.Cos(rad)*length/2, cy+math.Sin(rad)*length/2)

		case domain.TypeNote:
			if it.FillBackground {
				bg := parseHexColor(it.BgColor, hexNote)
				pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
				pdf.Rect(x, y, b.W, b.H, "F")
			}
			pdf.SetDrawColor(160, 160, 160)
			pdf.SetLineWidth(0.5)
			pdf.Rect(x, y, b.W, b.H, "D")
			tc := parseHexColor(it.Color, hexBlack)
			pdf.SetTextColor(int(tc.R), int(tc.G), int(tc.B))
			ty := y + 12
			for _, line := range textlayout.WrapString(it.Text, float32(b.W-8)) {
				if ty > y+b.H-2 {
					break
				}
				pdf.Text(x+4, ty, line)
				ty += 12
			}

		case domain.TypeMarker:
			pdf.SetFillColor(220, 60, 60)
			r := math.Min(b.W, b.H) / 2
			pdf.Circle(x+b.W/2, y+b.H/2, r, "F")

		default:
			// Media items are drawn as framed placeholders; raster
			// embedding belongs to the PNG path.
			pdf.SetDrawColor(120, 120, 120)
			pdf.SetLineWidth(0.5)
			pdf.Rect(x, y, b.W, b.H, "D")
		}

		if it.Caption != "" {
			pdf.SetTextColor(60, 60, 60)
			pdf.Text(x, y+b.H+12, it.Caption)
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

var (
	hexBlack = parseHexColor("#000000", colorRGBA(0, 0, 0))
	hexWhite = parseHexColor("#ffffff", colorRGBA(255, 255, 255))
	hexNote  = parseHexColor("#ffffe0", colorRGBA(255, 255, 224))
)
