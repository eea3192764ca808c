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
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"snapguide/internal/scene"
)

// PDF writes sc as a single page of Figure x Style.Scale millimetres. Labels
// use the built-in Helvetica.
func PDF(w io.Writer, sc *scene.Scene, st Style) error {
	st = st.withDefaults()
	d := collect(sc, st)
	s := st.Scale
	pw, ph := d.w*s, d.h*s

	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "mm", Size: gofpdf.SizeType{Wd: pw, Ht: ph}})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// PDF page origin is top-left
	x := func(v float64) float64 { return v * s }
	y := func(v float64) float64 { return ph - v*s }

	setFillColor(pdf, st.Background)
	pdf.Rect(0, 0, pw, ph, "F")

	setDrawColor(pdf, st.Stroke)
	pdf.SetLineWidth(st.StrokeWidth * 0.1)
	pdf.SetFont("Helvetica", "", st.FontSize)
	pdf.SetTextColor(int(st.Stroke.R), int(st.Stroke.G), int(st.Stroke.B))
	for _, it := range d.items {
		switch it.kind {
		case shapeRect:
			pdf.Rect(x(it.ext[0]), y(it.ext[3]), it.ext.W()*s, it.ext.H()*s, "D")
		case shapeEllipse:
			c := it.ext.Center()
			pdf.Ellipse(x(c.X), y(c.Y), it.ext.W()/2*s, it.ext.H()/2*s, 0, "D")
		case shapeText:
			if it.text != "" {
				pdf.Text(x(it.anchor.X), y(it.anchor.Y), it.text)
			}
		}
	}

	setDrawColor(pdf, st.GuideColor)
	setFillColor(pdf, st.GuideColor)
	pdf.SetLineWidth(st.GuideWidth * 0.1)
	pdf.SetDashPattern(st.GuideDash, 0)
	for _, seg := range d.guides {
		for i := 1; i < len(seg); i++ {
			pdf.Line(x(seg[i-1].X), y(seg[i-1].Y), x(seg[i].X), y(seg[i].Y))
		}
	}
	pdf.SetDashPattern([]float64{}, 0)
	if st.Marker > 0 {
		for _, seg := range d.guides {
			for _, pt := range seg {
				pdf.Circle(x(pt.X), y(pt.Y), st.Marker*0.5, "F")
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) { pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }
func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) { pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
