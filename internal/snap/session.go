/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"context"
	"log/slog"

	"snapguide/internal/geom"
	applog "snapguide/internal/log"
	"snapguide/internal/scene"
)

// Options tunes a drag session. Zero values select the package defaults.
type Options struct {
	CorrectionThreshold float64
	ActiveThreshold     float64
	// Directions limits the edges that may snap; 0 allows all.
	Directions Direction
}

func (o Options) allowed() Direction {
	if o.Directions == 0 {
		return DirAll
	}
	return o.Directions
}

// Overlay receives the guides to draw after each tick.
type Overlay interface {
	Show(guides []scene.Guide)
	Clear()
}

// TickResult describes one drag update.
type TickResult struct {
	// Correction is the adjustment applied on top of the offset, per axis.
	Correction [2]float64
	Guides     []scene.Guide
	// Active lists the kinds of the relations whose guides are drawn.
	Active     []string
	Catalog    int
	// Snapped is set per axis when a relation qualified, including one that
	// was already exact.
	Snapped    [2]bool
	Extents    map[string]geom.Extent
}

// Session runs the catalog, aggregate, apply and render cycle for one
// gesture. It is not safe for concurrent use.
type Session struct {
	ctx      context.Context
	sc       Scene
	targets  []*Adapter
	start    [][2]geom.Pt
	dir      Direction
	noHeight bool
	opts     Options
	overlay  Overlay
	cat      Catalog
	ticks    int
	l        *slog.Logger
}

// BeginMove starts moving the targets as a whole. Every edge snaps and sizes
// are never matched. ctx scopes the gesture's log records.
func BeginMove(ctx context.Context, sc Scene, targets []*Adapter, opts Options, ov Overlay) *Session {
	return begin(ctx, sc, targets, DirAll, true, opts, ov, "move")
}

// BeginResize starts dragging the edges in dir. Only those edges move and
// snap, and sizes may be matched.
func BeginResize(ctx context.Context, sc Scene, targets []*Adapter, dir Direction, opts Options, ov Overlay) *Session {
	return begin(ctx, sc, targets, dir, false, opts, ov, "resize")
}

func begin(ctx context.Context, sc Scene, targets []*Adapter, dir Direction, noHeight bool, opts Options, ov Overlay, op string) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Session{
		ctx:      ctx,
		sc:       sc,
		targets:  targets,
		dir:      dir,
		noHeight: noHeight,
		opts:     opts,
		overlay:  ov,
		l:        applog.WithOperation(applog.WithComponent("snap"), op),
	}
	s.start = make([][2]geom.Pt, len(targets))
	ids := make([]string, len(targets))
	for i, t := range targets {
		p0, p1 := t.Points()
		s.start[i] = [2]geom.Pt{p0, p1}
		ids[i] = t.Element().ID()
	}
	s.l.InfoContext(s.ctx, "gesture started", slog.Any("targets", ids), slog.String("dir", dir.String()))
	return s
}

// moved returns the start points displaced by off on the moving edges.
func (s *Session) moved(i int, off geom.Pt) (geom.Pt, geom.Pt) {
	p0, p1 := s.start[i][0], s.start[i][1]
	dir := s.dir
	if !s.targets[i].Scalable() {
		dir = DirAll
	}
	if dir.Has(DirX0) {
		p0.X += off.X
	}
	if dir.Has(DirY0) {
		p0.Y += off.Y
	}
	if dir.Has(DirX1) {
		p1.X += off.X
	}
	if dir.Has(DirY1) {
		p1.Y += off.Y
	}
	return p0, p1
}

// Tick applies the total displacement off since the gesture began, snapped
// to the closest alignment in range.
func (s *Session) Tick(off geom.Pt) (TickResult, error) {
	s.ticks++
	for i, t := range s.targets {
		if err := t.Propose(s.moved(i, off)); err != nil {
			s.discard()
			return TickResult{}, err
		}
	}

	s.cat = BuildCatalog(s.targets, s.dir&s.opts.allowed(), s.noHeight, s.sc)
	found := FindCorrection(s.cat, s.opts.CorrectionThreshold)
	corr := found.Delta

	adj := off.Sub(geom.P(corr[0], corr[1]))
	for i, t := range s.targets {
		if err := t.Propose(s.moved(i, adj)); err != nil {
			s.discard()
			return TickResult{}, err
		}
		t.Commit()
	}

	res := TickResult{
		Correction: [2]float64{-corr[0], -corr[1]},
		Snapped:    found.Found,
		Catalog:    len(s.cat),
		Guides:     UpdateActiveVisuals(s.cat, s.opts.ActiveThreshold),
		Extents:    make(map[string]geom.Extent, len(s.targets)),
	}
	for _, r := range s.cat {
		if r.Visible() {
			res.Active = append(res.Active, r.Kind())
		}
	}
	for _, t := range s.targets {
		res.Extents[t.Element().ID()] = t.Extent()
	}
	if s.overlay != nil {
		s.overlay.Show(res.Guides)
	}
	s.l.DebugContext(s.ctx, "tick",
		slog.Int("n", s.ticks),
		slog.Int("catalog", res.Catalog),
		slog.Float64("dx", res.Correction[0]),
		slog.Float64("dy", res.Correction[1]),
		slog.Int("guides", len(res.Guides)),
	)
	return res, nil
}

func (s *Session) discard() {
	for _, t := range s.targets {
		t.Discard()
	}
}

// Catalog returns the relations built by the last tick.
func (s *Session) Catalog() Catalog { return s.cat }

// End hides every guide. The session must not be used afterwards.
func (s *Session) End() {
	HideAll(s.cat)
	if s.overlay != nil {
		s.overlay.Clear()
	}
	s.l.InfoContext(s.ctx, "gesture ended", slog.Int("ticks", s.ticks))
	s.cat = nil
}
