/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a scene and its visible guides to SVG, PNG and PDF.
// All backends draw the same display list in device space; guides are drawn
// last and never contribute to the drawing bounds.
package export

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"snapguide/internal/geom"
	"snapguide/internal/scene"
)

// Style controls colors and line widths. Zero fields take the defaults of
// DefaultStyle.
type Style struct {
	// Scale multiplies device units into output units (pixels for PNG,
	// millimetres for SVG and PDF).
	Scale       float64
	Background  color.RGBA
	Stroke      color.RGBA
	StrokeWidth float64
	GuideColor  color.RGBA
	GuideWidth  float64
	GuideDash   []float64
	// Marker is the radius of the dots drawn on guide vertices.
	Marker   float64
	FontSize float64
	// Internal also draws elements flagged as internal.
	Internal bool
}

// DefaultStyle matches the interactive overlay: thin dashed red guides with
// small vertex markers.
func DefaultStyle() Style {
	return Style{
		Scale:       1,
		Background:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Stroke:      color.RGBA{R: 40, G: 40, B: 40, A: 255},
		StrokeWidth: 1,
		GuideColor:  color.RGBA{R: 255, A: 255},
		GuideWidth:  1,
		GuideDash:   []float64{4, 2},
		Marker:      1,
		FontSize:    10,
	}
}

func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.Scale <= 0 {
		s.Scale = d.Scale
	}
	if s.Background == (color.RGBA{}) {
		s.Background = d.Background
	}
	if s.Stroke == (color.RGBA{}) {
		s.Stroke = d.Stroke
	}
	if s.StrokeWidth <= 0 {
		s.StrokeWidth = d.StrokeWidth
	}
	if s.GuideColor == (color.RGBA{}) {
		s.GuideColor = d.GuideColor
	}
	if s.GuideWidth <= 0 {
		s.GuideWidth = d.GuideWidth
	}
	if s.GuideDash == nil {
		s.GuideDash = d.GuideDash
	}
	if s.Marker < 0 {
		s.Marker = 0
	}
	if s.FontSize <= 0 {
		s.FontSize = d.FontSize
	}
	return s
}

// ParseColor reads a "#rgb", "#rrggbb" or "#rrggbbaa" hex color.
func ParseColor(hex string) color.RGBA { return canvas.Hex(hex) }

type shapeKind int

const (
	shapeRect shapeKind = iota
	shapeEllipse
	shapeText
)

// item is one element of the display list, in device space with y up.
type item struct {
	kind   shapeKind
	ext    geom.Extent
	anchor geom.Pt
	text   string
}

type drawing struct {
	w, h   float64
	items  []item
	guides [][]geom.Pt
}

// collect flattens sc into a display list.
func collect(sc *scene.Scene, st Style) drawing {
	d := drawing{w: 1, h: 1}
	if sc.Figure != nil {
		d.w, d.h = sc.Figure.Width, sc.Figure.Height
	}
	for _, el := range sc.Elements() {
		if el.Internal() && !st.Internal {
			continue
		}
		switch e := el.(type) {
		case *scene.Panel:
			m := e.FigureTransform()
			d.items = append(d.items, item{kind: shapeRect, ext: geom.ExtentOf(m.Apply(e.Position.Min()), m.Apply(e.Position.Max()))})
		case *scene.Rectangle:
			m := e.Transform()
			d.items = append(d.items, item{kind: shapeRect, ext: geom.ExtentOf(m.Apply(e.Rect.Min()), m.Apply(e.Rect.Max()))})
		case *scene.Ellipse:
			m := e.Transform()
			half := geom.P(e.W/2, e.H/2)
			d.items = append(d.items, item{kind: shapeEllipse, ext: geom.ExtentOf(m.Apply(e.Center.Sub(half)), m.Apply(e.Center.Add(half)))})
		case *scene.Label:
			m := e.Transform()
			p := m.Apply(e.Pos)
			if e.Box != nil {
				d.items = append(d.items, item{kind: shapeRect, ext: geom.ExtentOf(p, m.Apply(e.Pos.Add(geom.P(e.Box.W, e.Box.H))))})
			}
			d.items = append(d.items, item{kind: shapeText, anchor: p, text: e.Text})
		}
	}
	for _, g := range sc.Overlay.Guides() {
		d.guides = append(d.guides, g.Line.Segments()...)
	}
	return d
}

// Bounds returns the device-space extent of every drawn element. Guides are
// not included.
func Bounds(sc *scene.Scene) geom.Extent {
	e := geom.ExtentOf()
	for _, it := range collect(sc, Style{Internal: true}).items {
		if it.kind == shapeText {
			e = e.Union(geom.ExtentOf(it.anchor))
			continue
		}
		e = e.Union(it.ext)
	}
	return e
}

func pixels(v, scale float64) int { return int(math.Ceil(v * scale)) }
