/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap proposes alignment targets while elements are dragged or
// resized. Position adapters give every element kind the same two-point view
// in device space. Relations measure how far the layout is from an alignment
// and the aggregator picks the best correction per axis.
// Everything here is tick-scoped and single threaded: the host rebuilds the
// catalog for every drag update.
package snap

import (
	"errors"
	"fmt"
	"time"

	"snapguide/internal/changelog"
	"snapguide/internal/geom"
	"snapguide/internal/scene"
)

// ErrUnsupportedElementKind is returned when no adapter exists for an element.
var ErrUnsupportedElementKind = errors.New("snap: unsupported element kind")

// target is the per-kind half of an Adapter. Points are in the element's
// native space; place stores a proposal without touching the element.
type target interface {
	space() geom.Affine2D
	corners() (geom.Pt, geom.Pt)
	place(p0, p1 geom.Pt)
	pending() bool
	reset()
	commit() []changelog.Change
}

// Adapter wraps one scene element for the duration of an interaction and
// exposes it as two corner points in device space.
type Adapter struct {
	el          scene.Element
	t           target
	sink        changelog.Sink
	scalable    bool
	fixedAspect bool
}

// NewAdapter wraps el. Committed changes go to sink, which may be nil.
func NewAdapter(el scene.Element, sink changelog.Sink) (*Adapter, error) {
	a := &Adapter{el: el, sink: sink, scalable: true}
	switch e := el.(type) {
	case *scene.Rectangle:
		a.t = &rectTarget{el: e}
	case *scene.Ellipse:
		a.t = &ellipseTarget{el: e}
	case *scene.Label:
		a.t = &labelTarget{el: e}
		a.scalable = false
	case *scene.Panel:
		a.t = &panelTarget{el: e}
		a.fixedAspect = e.FixedAspect()
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedElementKind, el)
	}
	return a, nil
}

// MustAdapter is like NewAdapter but panics on unsupported elements.
func MustAdapter(el scene.Element, sink changelog.Sink) *Adapter {
	a, err := NewAdapter(el, sink)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Adapter) Element() scene.Element { return a.el }

// Scalable reports whether setting both points also resizes the element.
func (a *Adapter) Scalable() bool { return a.scalable }

// FixedAspect reports whether the height follows the width on write.
func (a *Adapter) FixedAspect() bool { return a.fixedAspect }

// Points returns the two defining points in device space, including any
// uncommitted proposal.
func (a *Adapter) Points() (geom.Pt, geom.Pt) {
	p0, p1 := a.t.corners()
	m := a.t.space()
	return m.Apply(p0), m.Apply(p1)
}

// Extent returns the device-space bounding box of Points.
func (a *Adapter) Extent() geom.Extent {
	p0, p1 := a.Points()
	return geom.ExtentOf(p0, p1)
}

// Propose stages new device-space points without mutating the element.
func (a *Adapter) Propose(p0, p1 geom.Pt) error {
	inv, err := a.t.space().Inverse()
	if err != nil {
		return fmt.Errorf("propose %s: %w", a.el.ID(), err)
	}
	a.t.place(inv.Apply(p0), inv.Apply(p1))
	return nil
}

// Pending reports whether a proposal is staged.
func (a *Adapter) Pending() bool { return a.t.pending() }

// Discard drops a staged proposal.
func (a *Adapter) Discard() { a.t.reset() }

// Commit writes a staged proposal to the element and reports one change per
// mutated attribute. Internal elements are written but never reported.
func (a *Adapter) Commit() {
	if !a.t.pending() {
		return
	}
	changes := a.t.commit()
	if a.sink == nil || a.el.Internal() {
		return
	}
	now := time.Now()
	for _, c := range changes {
		c.ElementID = a.el.ID()
		c.TS = now
		a.sink.Record(c)
	}
}

// SetPoints proposes and commits in one step.
func (a *Adapter) SetPoints(p0, p1 geom.Pt) error {
	if err := a.Propose(p0, p1); err != nil {
		return err
	}
	a.Commit()
	return nil
}

type rectTarget struct {
	el   *scene.Rectangle
	next *geom.Rect
}

func (t *rectTarget) space() geom.Affine2D { return t.el.Transform() }
func (t *rectTarget) pending() bool        { return t.next != nil }
func (t *rectTarget) reset()               { t.next = nil }

func (t *rectTarget) corners() (geom.Pt, geom.Pt) {
	r := t.el.Rect
	if t.next != nil {
		r = *t.next
	}
	return r.Min(), r.Max()
}

func (t *rectTarget) place(p0, p1 geom.Pt) {
	r := geom.R(p0.X, p0.Y, p1.X-p0.X, p1.Y-p0.Y)
	t.next = &r
}

func (t *rectTarget) commit() []changelog.Change {
	prev, r := t.el.Rect, *t.next
	t.el.Rect, t.next = r, nil
	return []changelog.Change{
		{Attr: changelog.AttrPosition, Values: []float64{r.X, r.Y}, Prev: []float64{prev.X, prev.Y}},
		{Attr: changelog.AttrWidth, Values: []float64{r.W}, Prev: []float64{prev.W}},
		{Attr: changelog.AttrHeight, Values: []float64{r.H}, Prev: []float64{prev.H}},
	}
}

// ellipseTarget treats the two points as the implied bounding box.
type ellipseTarget struct {
	el   *scene.Ellipse
	next *ellipseGeom
}

type ellipseGeom struct {
	c    geom.Pt
	w, h float64
}

func (t *ellipseTarget) space() geom.Affine2D { return t.el.Transform() }
func (t *ellipseTarget) pending() bool        { return t.next != nil }
func (t *ellipseTarget) reset()               { t.next = nil }

func (t *ellipseTarget) current() ellipseGeom {
	if t.next != nil {
		return *t.next
	}
	return ellipseGeom{c: t.el.Center, w: t.el.W, h: t.el.H}
}

func (t *ellipseTarget) corners() (geom.Pt, geom.Pt) {
	g := t.current()
	half := geom.P(g.w/2, g.h/2)
	return g.c.Sub(half), g.c.Add(half)
}

func (t *ellipseTarget) place(p0, p1 geom.Pt) {
	t.next = &ellipseGeom{c: p0.Mid(p1), w: p1.X - p0.X, h: p1.Y - p0.Y}
}

func (t *ellipseTarget) commit() []changelog.Change {
	g := *t.next
	prev := ellipseGeom{c: t.el.Center, w: t.el.W, h: t.el.H}
	t.el.Center, t.el.W, t.el.H = g.c, g.w, g.h
	t.next = nil
	return []changelog.Change{
		{Attr: changelog.AttrPosition, Values: []float64{g.c.X, g.c.Y}, Prev: []float64{prev.c.X, prev.c.Y}},
		{Attr: changelog.AttrWidth, Values: []float64{g.w}, Prev: []float64{prev.w}},
		{Attr: changelog.AttrHeight, Values: []float64{g.h}, Prev: []float64{prev.h}},
	}
}

// labelTarget only ever moves the anchor; the second point follows the box.
type labelTarget struct {
	el   *scene.Label
	next *geom.Pt
}

func (t *labelTarget) space() geom.Affine2D { return t.el.Transform() }
func (t *labelTarget) pending() bool        { return t.next != nil }
func (t *labelTarget) reset()               { t.next = nil }

func (t *labelTarget) corners() (geom.Pt, geom.Pt) {
	p := t.el.Pos
	if t.next != nil {
		p = *t.next
	}
	if t.el.Box == nil {
		return p, p
	}
	return p, p.Add(geom.P(t.el.Box.W, t.el.Box.H))
}

func (t *labelTarget) place(p0, _ geom.Pt) { t.next = &p0 }

func (t *labelTarget) commit() []changelog.Change {
	prev, p := t.el.Pos, *t.next
	t.el.Pos, t.next = p, nil
	return []changelog.Change{
		{Attr: changelog.AttrAnchor, Values: []float64{p.X, p.Y}, Prev: []float64{prev.X, prev.Y}},
	}
}

type panelTarget struct {
	el   *scene.Panel
	next *geom.Rect
}

func (t *panelTarget) space() geom.Affine2D { return t.el.FigureTransform() }
func (t *panelTarget) pending() bool        { return t.next != nil }
func (t *panelTarget) reset()               { t.next = nil }

func (t *panelTarget) corners() (geom.Pt, geom.Pt) {
	r := t.el.Position
	if t.next != nil {
		r = *t.next
	}
	return r.Min(), r.Max()
}

// place keeps the host's aspect lock: with a fixed aspect the height is
// derived from the new width and the current proportions.
func (t *panelTarget) place(p0, p1 geom.Pt) {
	r := geom.R(p0.X, p0.Y, p1.X-p0.X, p1.Y-p0.Y)
	if cur := t.el.Position; t.el.FixedAspect() && cur.W != 0 {
		r.H = r.W * cur.H / cur.W
	}
	t.next = &r
}

func (t *panelTarget) commit() []changelog.Change {
	prev, r := t.el.Position, *t.next
	t.el.Position, t.next = r, nil
	return []changelog.Change{
		{Attr: changelog.AttrPosition, Values: []float64{r.X, r.Y, r.W, r.H}, Prev: []float64{prev.X, prev.Y, prev.W, prev.H}},
	}
}
