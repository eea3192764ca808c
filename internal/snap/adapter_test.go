/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"errors"
	"math"
	"testing"

	"snapguide/internal/changelog"
	"snapguide/internal/geom"
	"snapguide/internal/scene"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func sameExtent(a, b geom.Extent) bool {
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}

// recorder collects committed changes.
type recorder struct{ got []changelog.Change }

func (r *recorder) Record(c changelog.Change) { r.got = append(r.got, c) }

type foreign struct{ scene.Base }

func (foreign) Kind() scene.Kind { return scene.KindUnknown }

func TestAdapter_RoundTripAllKinds(t *testing.T) {
	sc := scene.New(200, 100)
	ax := &scene.Panel{Base: scene.Base{Name: "ax"}, Position: geom.R(0.25, 0.5, 0.5, 0.5), XLim: [2]float64{0, 10}, YLim: [2]float64{-1, 1}}
	r := &scene.Rectangle{Base: scene.Base{Name: "r"}, Rect: geom.R(1, -0.5, 2, 1), Parent: ax}
	e := &scene.Ellipse{Base: scene.Base{Name: "e"}, Center: geom.P(5, 0), W: 3, H: 0.4, Parent: ax}
	l := &scene.Label{Base: scene.Base{Name: "l"}, Pos: geom.P(0.1, 0.9), Text: "A", Box: &geom.Size{W: 0.05, H: 0.05}}
	sc.Add(ax, r, e, l)

	for _, el := range sc.Elements() {
		a := MustAdapter(el, nil)
		before := a.Extent()
		if err := a.SetPoints(a.Points()); err != nil {
			t.Fatalf("%s: SetPoints: %v", el.ID(), err)
		}
		if after := a.Extent(); !sameExtent(before, after) {
			t.Fatalf("%s: extent changed: %v -> %v", el.ID(), before, after)
		}
	}
}

func TestAdapter_RectangleSetPoints(t *testing.T) {
	sc := scene.New(1, 1)
	r := &scene.Rectangle{Base: scene.Base{Name: "r"}, Rect: geom.R(3, 3, 1, 1)}
	sc.Add(r)
	a := MustAdapter(r, nil)
	if err := a.SetPoints(geom.P(0, 0), geom.P(10, 20)); err != nil {
		t.Fatalf("SetPoints: %v", err)
	}
	if got, want := a.Extent(), (geom.Extent{0, 0, 10, 20}); !sameExtent(got, want) {
		t.Fatalf("extent = %v, want %v", got, want)
	}
	if r.Rect != geom.R(0, 0, 10, 20) {
		t.Fatalf("rect = %+v", r.Rect)
	}
}

func TestAdapter_EllipseSetPoints(t *testing.T) {
	sc := scene.New(1, 1)
	e := &scene.Ellipse{Base: scene.Base{Name: "e"}, W: 1, H: 1}
	sc.Add(e)
	if err := MustAdapter(e, nil).SetPoints(geom.P(0, 0), geom.P(10, 20)); err != nil {
		t.Fatalf("SetPoints: %v", err)
	}
	if e.Center != geom.P(5, 10) || e.W != 10 || e.H != 20 {
		t.Fatalf("ellipse = center %v w %v h %v", e.Center, e.W, e.H)
	}
}

func TestAdapter_LabelWritesAnchorOnly(t *testing.T) {
	sc := scene.New(1, 1)
	bare := &scene.Label{Base: scene.Base{Name: "a"}, Pos: geom.P(4, 5)}
	boxed := &scene.Label{Base: scene.Base{Name: "b"}, Pos: geom.P(1, 1), Box: &geom.Size{W: 6, H: 2}}
	sc.Add(bare, boxed)

	p0, p1 := MustAdapter(bare, nil).Points()
	if p0 != p1 || p0 != geom.P(4, 5) {
		t.Fatalf("bare label points = %v %v", p0, p1)
	}
	a := MustAdapter(boxed, nil)
	if a.Scalable() {
		t.Fatalf("labels must not be scalable")
	}
	if _, p1 := a.Points(); p1 != geom.P(7, 3) {
		t.Fatalf("boxed P1 = %v", p1)
	}
	if err := a.SetPoints(geom.P(10, 10), geom.P(99, 99)); err != nil {
		t.Fatalf("SetPoints: %v", err)
	}
	if boxed.Pos != geom.P(10, 10) || *boxed.Box != (geom.Size{W: 6, H: 2}) {
		t.Fatalf("label = pos %v box %v", boxed.Pos, *boxed.Box)
	}
}

func TestAdapter_PanelFixedAspect(t *testing.T) {
	sc := scene.New(1, 1)
	p := &scene.Panel{Base: scene.Base{Name: "ax"}, Position: geom.R(0, 0, 10, 5), Aspect: 1, Adjustable: scene.AdjustBox}
	sc.Add(p)
	rec := &recorder{}
	a := MustAdapter(p, rec)
	if !a.FixedAspect() {
		t.Fatalf("expected fixed aspect")
	}
	if err := a.SetPoints(geom.P(0, 0), geom.P(20, 20)); err != nil {
		t.Fatalf("SetPoints: %v", err)
	}
	if p.Position != geom.R(0, 0, 20, 10) {
		t.Fatalf("position = %+v", p.Position)
	}
	if len(rec.got) != 1 {
		t.Fatalf("changes = %d, want 1", len(rec.got))
	}
	c := rec.got[0]
	if c.ElementID != "ax" || c.Attr != changelog.AttrPosition || len(c.Values) != 4 || c.Values[3] != 10 {
		t.Fatalf("change = %+v", c)
	}
}

func TestAdapter_ChangeNotifications(t *testing.T) {
	sc := scene.New(1, 1)
	r := &scene.Rectangle{Base: scene.Base{Name: "r"}, Rect: geom.R(0, 0, 1, 1)}
	guide := &scene.Rectangle{Base: scene.Base{Name: "tmp", Synthetic: true}, Rect: geom.R(0, 0, 1, 1)}
	sc.Add(r, guide)
	rec := &recorder{}

	if err := MustAdapter(r, rec).SetPoints(geom.P(1, 1), geom.P(3, 4)); err != nil {
		t.Fatalf("SetPoints: %v", err)
	}
	if len(rec.got) != 3 {
		t.Fatalf("changes = %d, want 3", len(rec.got))
	}
	want := []changelog.Attr{changelog.AttrPosition, changelog.AttrWidth, changelog.AttrHeight}
	for i, c := range rec.got {
		if c.Attr != want[i] || c.ElementID != "r" || c.TS.IsZero() {
			t.Fatalf("change %d = %+v", i, c)
		}
	}
	if rec.got[2].Values[0] != 3 || rec.got[2].Prev[0] != 1 {
		t.Fatalf("height change = %+v", rec.got[2])
	}

	rec.got = nil
	if err := MustAdapter(guide, rec).SetPoints(geom.P(1, 1), geom.P(3, 4)); err != nil {
		t.Fatalf("SetPoints: %v", err)
	}
	if len(rec.got) != 0 || guide.Rect != geom.R(1, 1, 2, 3) {
		t.Fatalf("internal element: changes %d rect %+v", len(rec.got), guide.Rect)
	}
}

func TestAdapter_ProposeIsPure(t *testing.T) {
	sc := scene.New(1, 1)
	r := &scene.Rectangle{Base: scene.Base{Name: "r"}, Rect: geom.R(0, 0, 1, 1)}
	sc.Add(r)
	rec := &recorder{}
	a := MustAdapter(r, rec)
	if err := a.Propose(geom.P(5, 5), geom.P(6, 6)); err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if r.Rect != geom.R(0, 0, 1, 1) || len(rec.got) != 0 {
		t.Fatalf("Propose mutated the element")
	}
	if !a.Pending() || a.Extent()[geom.Left] != 5 {
		t.Fatalf("proposal not visible: %v", a.Extent())
	}
	a.Discard()
	if a.Pending() || a.Extent()[geom.Left] != 0 {
		t.Fatalf("Discard kept the proposal")
	}
	a.Commit()
	if len(rec.got) != 0 {
		t.Fatalf("Commit without proposal reported changes")
	}
}

func TestAdapter_SingularSpace(t *testing.T) {
	sc := scene.New(1, 1)
	ax := &scene.Panel{Base: scene.Base{Name: "ax"}, Position: geom.R(0, 0, 0, 1)}
	r := &scene.Rectangle{Base: scene.Base{Name: "r"}, Parent: ax}
	sc.Add(ax, r)
	err := MustAdapter(r, nil).Propose(geom.P(0, 0), geom.P(1, 1))
	if !errors.Is(err, geom.ErrSingular) {
		t.Fatalf("err = %v, want ErrSingular", err)
	}
}

func TestAdapter_UnsupportedKind(t *testing.T) {
	if _, err := NewAdapter(&foreign{}, nil); !errors.Is(err, ErrUnsupportedElementKind) {
		t.Fatalf("err = %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("MustAdapter did not panic")
		}
	}()
	MustAdapter(&foreign{}, nil)
}
