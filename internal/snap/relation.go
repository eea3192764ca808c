/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"math"

	"snapguide/internal/geom"
	"snapguide/internal/scene"
)

// Relation kinds, used as guide kinds on the overlay.
const (
	KindSameEdge      = "same-edge"
	KindSameDimension = "same-dimension"
	KindSamePosition  = "same-position"
	KindBorderChain   = "border-chain"
)

// Relation is one candidate alignment between a manipulated element and the
// rest of the scene. Distance is measured as source minus target: subtracting
// it from the moving coordinate satisfies the relation. Axes or layouts the
// relation does not apply to report +Inf.
type Relation interface {
	Kind() string
	Distance(axis int) float64
	// Render computes guide vertices from the current positions.
	Render() geom.Polyline
	Visible() bool
	Guide() scene.Guide

	show()
	hide()
}

// Active reports whether r is close enough to be drawn: the smaller of its
// two distance magnitudes is below threshold.
func Active(r Relation, threshold float64) bool {
	return math.Min(math.Abs(r.Distance(0)), math.Abs(r.Distance(1))) < threshold
}

// guideState is the transient render state shared by every relation.
type guideState struct {
	line    geom.Polyline
	visible bool
}

func (g *guideState) Visible() bool { return g.visible }

func (g *guideState) setLine(l geom.Polyline) {
	g.line = l
	g.visible = len(l) > 0
}

func (g *guideState) hide() {
	g.line = nil
	g.visible = false
}

// pair holds the two adapters every relation compares.
type pair struct {
	src, dst *Adapter
}

func inf() float64 { return math.Inf(1) }

// SameEdge aligns one edge of the source with the same edge of the target.
type SameEdge struct {
	pair
	guideState
	Edge int
}

func NewSameEdge(src, dst *Adapter, edge int) *SameEdge {
	return &SameEdge{pair: pair{src, dst}, Edge: edge}
}

func (r *SameEdge) Kind() string { return KindSameEdge }

func (r *SameEdge) Distance(axis int) float64 {
	if axis != r.Edge%2 {
		return inf()
	}
	return r.src.Extent()[r.Edge] - r.dst.Extent()[r.Edge]
}

// Render draws the aligned edge of both elements.
func (r *SameEdge) Render() geom.Polyline {
	s, t := r.src.Extent(), r.dst.Extent()
	e := r.Edge
	a, b := (e+3)%4, (e+1)%4
	if e%2 == 0 {
		return geom.Polyline{
			geom.P(s[e], s[a]), geom.P(s[e], s[b]),
			geom.P(t[e], t[a]), geom.P(t[e], t[b]),
		}
	}
	return geom.Polyline{
		geom.P(s[a], s[e]), geom.P(s[b], s[e]),
		geom.P(t[a], t[e]), geom.P(t[b], t[e]),
	}
}

func (r *SameEdge) Guide() scene.Guide { return scene.Guide{Kind: r.Kind(), Line: r.line} }
func (r *SameEdge) show()              { r.setLine(r.Render()) }

// SameDimension matches the width (edge 0 or 2) or height (edge 1 or 3) of
// the source with that of the target.
type SameDimension struct {
	pair
	guideState
	Edge int
}

func NewSameDimension(src, dst *Adapter, edge int) *SameDimension {
	return &SameDimension{pair: pair{src, dst}, Edge: edge}
}

func (r *SameDimension) Kind() string { return KindSameDimension }

func (r *SameDimension) Distance(axis int) float64 {
	if axis != r.Edge%2 {
		return inf()
	}
	s, t := r.src.Extent(), r.dst.Extent()
	e, o := r.Edge, (r.Edge+2)%4
	return (t[o] - t[e]) - (s[o] - s[e])
}

// Render draws each element's span through its centre, separated by a gap.
func (r *SameDimension) Render() geom.Polyline {
	s, t := r.src.Extent(), r.dst.Extent()
	if r.Edge%2 == 0 {
		sy, ty := s.Center().Y, t.Center().Y
		return geom.Polyline{
			geom.P(s[geom.Left], sy), geom.P(s[geom.Right], sy), geom.Gap(),
			geom.P(t[geom.Left], ty), geom.P(t[geom.Right], ty),
		}
	}
	sx, tx := s.Center().X, t.Center().X
	return geom.Polyline{
		geom.P(sx, s[geom.Bottom]), geom.P(sx, s[geom.Top]), geom.Gap(),
		geom.P(tx, t[geom.Bottom]), geom.P(tx, t[geom.Top]),
	}
}

func (r *SameDimension) Guide() scene.Guide { return scene.Guide{Kind: r.Kind(), Line: r.line} }
func (r *SameDimension) show()              { r.setLine(r.Render()) }

// SamePosition aligns the anchor of two labels on one axis
// (edge 0 for x, edge 1 for y).
type SamePosition struct {
	pair
	guideState
	Edge int
}

func NewSamePosition(src, dst *Adapter, edge int) *SamePosition {
	return &SamePosition{pair: pair{src, dst}, Edge: edge}
}

func (r *SamePosition) Kind() string { return KindSamePosition }

func (r *SamePosition) Distance(axis int) float64 {
	if axis != r.Edge {
		return inf()
	}
	s, _ := r.src.Points()
	t, _ := r.dst.Points()
	return s.Coord(axis) - t.Coord(axis)
}

// Render connects the two anchors.
func (r *SamePosition) Render() geom.Polyline {
	s, _ := r.src.Points()
	t, _ := r.dst.Points()
	return geom.Polyline{s, t}
}

func (r *SamePosition) Guide() scene.Guide { return scene.Guide{Kind: r.Kind(), Line: r.line} }
func (r *SamePosition) show()              { r.setLine(r.Render()) }
