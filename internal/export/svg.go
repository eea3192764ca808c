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
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/image/font/gofont/goregular"

	"snapguide/internal/scene"
)

var transparent = color.RGBA{}

var (
	fontOnce   sync.Once
	fontFamily *canvas.FontFamily
	fontErr    error
)

func labelFont() (*canvas.FontFamily, error) {
	fontOnce.Do(func() {
		fam := canvas.NewFontFamily("snapguide")
		if err := fam.LoadFont(goregular.TTF, 0, canvas.FontRegular); err != nil {
			fontErr = fmt.Errorf("load label font: %w", err)
			return
		}
		fontFamily = fam
	})
	return fontFamily, fontErr
}

// SVG writes sc as an SVG document sized Figure x Style.Scale millimetres.
func SVG(w io.Writer, sc *scene.Scene, st Style) error {
	st = st.withDefaults()
	d := collect(sc, st)
	width, height := d.w*st.Scale, d.h*st.Scale

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	if err := drawCanvas(ctx, d, st); err != nil {
		return err
	}
	out := svg.New(w, width, height, nil)
	c.RenderTo(out)
	if err := out.Close(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// drawCanvas paints the display list. The canvas y axis points up like
// device space, so only scaling is applied.
func drawCanvas(ctx *canvas.Context, d drawing, st Style) error {
	s := st.Scale
	ctx.SetStrokeColor(transparent)
	ctx.SetFillColor(st.Background)
	ctx.DrawPath(0, 0, canvas.Rectangle(d.w*s, d.h*s))

	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(st.Stroke)
	ctx.SetStrokeWidth(st.StrokeWidth)
	var texts []item
	for _, it := range d.items {
		switch it.kind {
		case shapeRect:
			ctx.DrawPath(it.ext[0]*s, it.ext[1]*s, canvas.Rectangle(it.ext.W()*s, it.ext.H()*s))
		case shapeEllipse:
			c := it.ext.Center()
			ctx.DrawPath(c.X*s, c.Y*s, canvas.Ellipse(it.ext.W()/2*s, it.ext.H()/2*s))
		case shapeText:
			texts = append(texts, it)
		}
	}
	if len(texts) > 0 {
		fam, err := labelFont()
		if err != nil {
			return err
		}
		face := fam.Face(st.FontSize, st.Stroke, canvas.FontRegular, canvas.FontNormal)
		for _, it := range texts {
			ctx.DrawText(it.anchor.X*s, it.anchor.Y*s, canvas.NewTextLine(face, it.text, canvas.Left))
		}
	}

	ctx.SetStrokeColor(st.GuideColor)
	ctx.SetStrokeWidth(st.GuideWidth)
	ctx.SetDashes(0, st.GuideDash...)
	for _, seg := range d.guides {
		p := &canvas.Path{}
		p.MoveTo(seg[0].X*s, seg[0].Y*s)
		for _, pt := range seg[1:] {
			p.LineTo(pt.X*s, pt.Y*s)
		}
		ctx.DrawPath(0, 0, p)
	}
	ctx.SetDashes(0)
	if st.Marker > 0 {
		ctx.SetStrokeColor(transparent)
		ctx.SetFillColor(st.GuideColor)
		for _, seg := range d.guides {
			for _, pt := range seg {
				ctx.DrawPath(pt.X*s, pt.Y*s, canvas.Circle(st.Marker))
			}
		}
	}
	return nil
}
