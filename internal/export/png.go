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
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"snapguide/internal/scene"
)

// PNG rasterises sc at Style.Scale pixels per device unit. Labels use a
// fixed 7x13 bitmap font.
func PNG(w io.Writer, sc *scene.Scene, st Style) error {
	st = st.withDefaults()
	d := collect(sc, st)
	img, err := raster(d, st)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func raster(d drawing, st Style) (*image.RGBA, error) {
	s := st.Scale
	wpx, hpx := pixels(d.w, s), pixels(d.h, s)
	if wpx <= 0 || hpx <= 0 {
		return nil, fmt.Errorf("export: empty figure %gx%g", d.w, d.h)
	}
	dc := gg.NewContext(wpx, hpx)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(st.Background))

	// device space has y up, the raster has y down
	x := func(v float64) float64 { return v * s }
	y := func(v float64) float64 { return float64(hpx) - v*s }

	dc.SetColor(st.Stroke)
	dc.SetLineWidth(st.StrokeWidth)
	for _, it := range d.items {
		switch it.kind {
		case shapeRect:
			dc.DrawRectangle(x(it.ext[0]), y(it.ext[3]), it.ext.W()*s, it.ext.H()*s)
		case shapeEllipse:
			c := it.ext.Center()
			dc.DrawEllipse(x(c.X), y(c.Y), it.ext.W()/2*s, it.ext.H()/2*s)
		}
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("stroke shapes: %w", err)
	}

	if len(d.guides) > 0 {
		dc.SetColor(st.GuideColor)
		dc.SetLineWidth(st.GuideWidth)
		dc.SetDash(st.GuideDash...)
		for _, seg := range d.guides {
			for i := 1; i < len(seg); i++ {
				dc.DrawLine(x(seg[i-1].X), y(seg[i-1].Y), x(seg[i].X), y(seg[i].Y))
			}
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke guides: %w", err)
		}
		dc.ClearDash()
		if st.Marker > 0 {
			for _, seg := range d.guides {
				for _, pt := range seg {
					dc.DrawCircle(x(pt.X), y(pt.Y), st.Marker)
				}
			}
			if err := dc.Fill(); err != nil {
				return nil, fmt.Errorf("fill markers: %w", err)
			}
		}
	}

	src := dc.Image()
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)

	fd := font.Drawer{Dst: img, Src: image.NewUniform(st.Stroke), Face: basicfont.Face7x13}
	for _, it := range d.items {
		if it.kind != shapeText || it.text == "" {
			continue
		}
		fd.Dot = fixed.P(int(x(it.anchor.X)), int(y(it.anchor.Y)))
		fd.DrawString(it.text)
	}
	return img, nil
}
