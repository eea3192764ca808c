/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package replay drives snap sessions from a drag script, standing in for an
// interactive host.
package replay

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"snapguide/internal/changelog"
	"snapguide/internal/geom"
	applog "snapguide/internal/log"
	"snapguide/internal/scene"
	"snapguide/internal/script"
	"snapguide/internal/snap"
)

// DefaultTolerance is the slack allowed by expect steps, in device units.
const DefaultTolerance = 1e-6

// ExpectationError reports an expect step whose element is elsewhere.
type ExpectationError struct {
	Line int
	ID   string
	Want geom.Extent
	Got  geom.Extent
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("line %d: %s is at %v, want %v", e.Line, e.ID, fmtExtent(e.Got), fmtExtent(e.Want))
}

func fmtExtent(e geom.Extent) string {
	return fmt.Sprintf("[%g %g %g %g]", geom.FloatRound(e[0], 4), geom.FloatRound(e[1], 4), geom.FloatRound(e[2], 4), geom.FloatRound(e[3], 4))
}

// Row is the outcome of one script step.
type Row struct {
	Line int
	Step string
	// Tick is set for move and resize steps.
	Tick *snap.TickResult
}

// Report collects the rows of a run.
type Report struct {
	Rows []Row
	// Expectations counts the expect steps that passed.
	Expectations int
}

// Runner replays scripts against a scene. Committed changes go to Log when
// it is set.
type Runner struct {
	Scene     *scene.Scene
	Log       *changelog.Log
	Options   snap.Options
	Tolerance float64

	ctx     context.Context
	sel     []*snap.Adapter
	sess    *snap.Session
	gesture script.Op
	dir     snap.Direction
	l       *slog.Logger
}

func New(sc *scene.Scene, log *changelog.Log, opts snap.Options) *Runner {
	return &Runner{Scene: sc, Log: log, Options: opts}
}

// Run executes every step in order and stops at the first failure. The report
// holds the rows executed so far. A gesture left open by the script keeps its
// guides on the overlay until Close. Log records of the run and of its
// gestures are emitted with ctx.
func (r *Runner) Run(ctx context.Context, s *script.Script) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.ctx = ctx
	r.l = applog.WithComponent("replay")
	rep := &Report{}
	for _, st := range s.Steps {
		row := Row{Line: st.Line(), Step: st.String()}
		if err := r.step(st, &row, rep); err != nil {
			r.l.WarnContext(applog.ContextWithStep(ctx, st.Line(), row.Step), "replay stopped", slog.Any("err", err))
			return rep, err
		}
		rep.Rows = append(rep.Rows, row)
	}
	r.l.InfoContext(ctx, "replay finished", slog.Int("steps", len(rep.Rows)), slog.Int("expectations", rep.Expectations))
	return rep, nil
}

func (r *Runner) step(st *script.Step, row *Row, rep *Report) error {
	switch st.Op() {
	case script.OpSelect:
		r.Close()
		sel := make([]*snap.Adapter, 0, len(st.Select.IDs))
		for _, id := range st.Select.IDs {
			a, err := r.adapter(id)
			if err != nil {
				return fmt.Errorf("line %d: %w", st.Line(), err)
			}
			sel = append(sel, a)
		}
		r.sel = sel
	case script.OpMove:
		if err := r.ensure(st, script.OpMove, snap.DirAll); err != nil {
			return err
		}
		return r.tick(st, st.Move.Offset(), row)
	case script.OpResize:
		dir, err := st.Resize.Direction()
		if err != nil {
			return fmt.Errorf("line %d: %w", st.Line(), err)
		}
		if err := r.ensure(st, script.OpResize, dir); err != nil {
			return err
		}
		return r.tick(st, st.Resize.Offset(), row)
	case script.OpRelease:
		r.Close()
	case script.OpExpect:
		if err := r.expect(st); err != nil {
			return err
		}
		rep.Expectations++
	default:
		return fmt.Errorf("line %d: empty step", st.Line())
	}
	return nil
}

func (r *Runner) adapter(id string) (*snap.Adapter, error) {
	el, ok := r.Scene.Find(id)
	if !ok {
		return nil, fmt.Errorf("unknown element %q", id)
	}
	var sink changelog.Sink
	if r.Log != nil {
		sink = r.Log
	}
	return snap.NewAdapter(el, sink)
}

// ensure starts a new gesture unless the running one has the same kind and
// edges.
func (r *Runner) ensure(st *script.Step, op script.Op, dir snap.Direction) error {
	if len(r.sel) == 0 {
		return fmt.Errorf("line %d: %s without a selection", st.Line(), op)
	}
	if r.sess != nil && r.gesture == op && r.dir == dir {
		return nil
	}
	r.Close()
	if op == script.OpMove {
		r.sess = snap.BeginMove(r.ctx, r.Scene, r.sel, r.Options, &r.Scene.Overlay)
	} else {
		r.sess = snap.BeginResize(r.ctx, r.Scene, r.sel, dir, r.Options, &r.Scene.Overlay)
	}
	r.gesture, r.dir = op, dir
	return nil
}

func (r *Runner) tick(st *script.Step, off geom.Pt, row *Row) error {
	res, err := r.sess.Tick(off)
	if err != nil {
		return fmt.Errorf("line %d: %w", st.Line(), err)
	}
	row.Tick = &res
	return nil
}

func (r *Runner) expect(st *script.Step) error {
	a, err := r.adapter(st.Expect.ID)
	if err != nil {
		return fmt.Errorf("line %d: %w", st.Line(), err)
	}
	tol := r.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	got, want := a.Extent(), st.Expect.Extent()
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return &ExpectationError{Line: st.Line(), ID: st.Expect.ID, Want: want, Got: got}
		}
	}
	return nil
}

// Close ends the running gesture, if any. The selection is kept.
func (r *Runner) Close() {
	if r.sess != nil {
		r.sess.End()
		r.sess = nil
	}
	r.gesture, r.dir = script.OpUnknown, 0
}
