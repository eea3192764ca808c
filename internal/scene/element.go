/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

// The scene is the host side of the snapping engine: it owns elements and
// their coordinate spaces. Device ("scene") space is pixels with the origin at
// the bottom-left of the figure; panels live in figure-normalized space and
// shapes/labels either in a panel's data space or in figure space.

import (
	"fmt"

	"snapguide/internal/geom"
)

// Kind identifies an element variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindRectangle
	KindEllipse
	KindLabel
	KindPanel
)

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	case KindLabel:
		return "label"
	case KindPanel:
		return "panel"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Element is anything placed on the figure.
type Element interface {
	ID() string
	Kind() Kind
	// Internal reports synthetic elements that must not reach the change log.
	Internal() bool
}

// Base carries the identity shared by all element kinds.
type Base struct {
	Name      string
	Synthetic bool
}

func (b *Base) ID() string     { return b.Name }
func (b *Base) Internal() bool { return b.Synthetic }

// Figure is the drawing surface, sized in device pixels.
type Figure struct {
	Width, Height float64
}

// Transform maps figure-normalized coordinates to device space.
func (f *Figure) Transform() geom.Affine2D {
	if f == nil {
		return geom.Identity
	}
	return geom.Scale(f.Width, f.Height)
}

// Adjustable policies for panels with a locked aspect.
const (
	AdjustBox     = "box"
	AdjustDatalim = "datalim"
)

// Panel is a rectangular plotting region positioned in figure-normalized space.
type Panel struct {
	Base
	Position   geom.Rect // x, y, width, height as fractions of the figure
	XLim, YLim [2]float64
	// Aspect is the locked data aspect ratio; 0 means "auto".
	Aspect     float64
	Adjustable string
	fig        *Figure
}

func (p *Panel) Kind() Kind { return KindPanel }

// FixedAspect reports whether the host derives the panel height from its width.
func (p *Panel) FixedAspect() bool {
	return p.Aspect != 0 && p.Adjustable != AdjustDatalim
}

// FigureTransform maps the panel's native (figure-normalized) space to device space.
func (p *Panel) FigureTransform() geom.Affine2D { return p.fig.Transform() }

// DataTransform maps data coordinates inside the panel to device space.
func (p *Panel) DataTransform() geom.Affine2D {
	x0, x1 := p.XLim[0], p.XLim[1]
	if x1 == x0 {
		x0, x1 = 0, 1
	}
	y0, y1 := p.YLim[0], p.YLim[1]
	if y1 == y0 {
		y0, y1 = 0, 1
	}
	box := p.FigureTransform().Mul(geom.Translate(p.Position.X, p.Position.Y)).Mul(geom.Scale(p.Position.W, p.Position.H))
	return box.Mul(geom.Scale(1/(x1-x0), 1/(y1-y0))).Mul(geom.Translate(-x0, -y0))
}

func (p *Panel) attach(f *Figure) { p.fig = f }

// Rectangle is an axis-aligned box in its parent's data space.
type Rectangle struct {
	Base
	Rect   geom.Rect
	Parent *Panel
	fig    *Figure
}

func (r *Rectangle) Kind() Kind                { return KindRectangle }
func (r *Rectangle) Transform() geom.Affine2D { return spaceOf(r.Parent, r.fig) }
func (r *Rectangle) attach(f *Figure)         { r.fig = f }

// Ellipse is described by its center and full width/height.
type Ellipse struct {
	Base
	Center geom.Pt
	W, H   float64
	Parent *Panel
	fig    *Figure
}

func (e *Ellipse) Kind() Kind                { return KindEllipse }
func (e *Ellipse) Transform() geom.Affine2D { return spaceOf(e.Parent, e.fig) }
func (e *Ellipse) attach(f *Figure)         { e.fig = f }

// Label is a text anchored at Pos. Box, when set, is the bounding decoration
// drawn around the text, extending from the anchor.
type Label struct {
	Base
	Pos    geom.Pt
	Text   string
	Box    *geom.Size
	Parent *Panel
	fig    *Figure
}

func (l *Label) Kind() Kind                { return KindLabel }
func (l *Label) Transform() geom.Affine2D { return spaceOf(l.Parent, l.fig) }
func (l *Label) attach(f *Figure)         { l.fig = f }

func spaceOf(parent *Panel, fig *Figure) geom.Affine2D {
	if parent != nil {
		return parent.DataTransform()
	}
	return fig.Transform()
}
