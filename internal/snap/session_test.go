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
	"testing"

	"snapguide/internal/changelog"
	"snapguide/internal/geom"
	"snapguide/internal/scene"
)

func TestSession_MoveSnapsOntoNeighbour(t *testing.T) {
	sc := scene.New(1, 1)
	a := &scene.Panel{Base: scene.Base{Name: "a"}, Position: geom.R(5, 5, 10, 10)}
	b := &scene.Panel{Base: scene.Base{Name: "b"}, Position: geom.R(15, 5, 10, 10)}
	sc.Add(a, b)
	log := changelog.NewLog(changelog.Config{})

	s := BeginMove(context.Background(), sc, []*Adapter{MustAdapter(a, log)}, Options{}, &sc.Overlay)
	res, err := s.Tick(geom.P(8, 0))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if a.Position != geom.R(15, 5, 10, 10) {
		t.Fatalf("position = %+v, want [15 5 10 10]", a.Position)
	}
	if res.Correction != [2]float64{2, 0} || !res.Snapped[0] || res.Snapped[1] {
		t.Fatalf("correction = %v snapped %v", res.Correction, res.Snapped)
	}
	if got := res.Extents["a"]; got != (geom.Extent{15, 5, 25, 15}) {
		t.Fatalf("extent = %v", got)
	}
	if len(res.Guides) == 0 || len(sc.Overlay.Guides()) != len(res.Guides) {
		t.Fatalf("guides = %d overlay = %d", len(res.Guides), len(sc.Overlay.Guides()))
	}
	for _, k := range res.Active {
		if k != KindSameEdge {
			t.Fatalf("unexpected active kind %s", k)
		}
	}

	entries := log.Entries()
	if len(entries) != 1 || entries[0].Values[0] != 15 {
		t.Fatalf("change log = %v", entries)
	}

	s.End()
	if len(sc.Overlay.Guides()) != 0 {
		t.Fatalf("overlay not cleared")
	}
	if s.Catalog() != nil {
		t.Fatalf("catalog kept after End")
	}
}

func TestSession_MoveOutOfRange(t *testing.T) {
	sc := scene.New(1, 1)
	a := &scene.Panel{Base: scene.Base{Name: "a"}, Position: geom.R(0, 0, 10, 10)}
	b := &scene.Panel{Base: scene.Base{Name: "b"}, Position: geom.R(100, 100, 10, 10)}
	sc.Add(a, b)

	s := BeginMove(context.Background(), sc, []*Adapter{MustAdapter(a, nil)}, Options{}, nil)
	defer s.End()
	res, err := s.Tick(geom.P(30, 40))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if res.Snapped != [2]bool{} || a.Position != geom.R(30, 40, 10, 10) || len(res.Guides) != 0 {
		t.Fatalf("unexpected snap: %+v at %+v", res, a.Position)
	}
}

func TestSession_OffsetsAreCumulative(t *testing.T) {
	sc := scene.New(1, 1)
	a := &scene.Panel{Base: scene.Base{Name: "a"}, Position: geom.R(0, 0, 10, 10)}
	sc.Add(a)
	s := BeginMove(context.Background(), sc, []*Adapter{MustAdapter(a, nil)}, Options{}, nil)
	for _, off := range []geom.Pt{geom.P(1, 1), geom.P(2, 2), geom.P(3, 3)} {
		if _, err := s.Tick(off); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	s.End()
	if a.Position != geom.R(3, 3, 10, 10) {
		t.Fatalf("position = %+v", a.Position)
	}
}

func TestSession_ResizeMatchesWidth(t *testing.T) {
	sc := scene.New(1, 1)
	a := &scene.Panel{Base: scene.Base{Name: "a"}, Position: geom.R(0, 0, 10, 10)}
	b := &scene.Panel{Base: scene.Base{Name: "b"}, Position: geom.R(20, 0, 15, 10)}
	sc.Add(a, b)

	s := BeginResize(context.Background(), sc, []*Adapter{MustAdapter(a, nil)}, DirX1, Options{}, &sc.Overlay)
	res, err := s.Tick(geom.P(3, 7))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if a.Position != geom.R(0, 0, 15, 10) {
		t.Fatalf("position = %+v, want width 15 and untouched height", a.Position)
	}
	if res.Correction[0] != 2 {
		t.Fatalf("correction = %v", res.Correction)
	}
	if len(res.Active) != 1 || res.Active[0] != KindSameDimension {
		t.Fatalf("active = %v", res.Active)
	}
	s.End()
}

func TestSession_DirectionsOption(t *testing.T) {
	sc := scene.New(1, 1)
	a := &scene.Panel{Base: scene.Base{Name: "a"}, Position: geom.R(5, 5, 10, 10)}
	b := &scene.Panel{Base: scene.Base{Name: "b"}, Position: geom.R(15, 8, 10, 10)}
	sc.Add(a, b)

	s := BeginMove(context.Background(), sc, []*Adapter{MustAdapter(a, nil)}, Options{Directions: DirY0 | DirY1}, nil)
	res, err := s.Tick(geom.P(8, 0))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	s.End()
	if res.Correction != [2]float64{0, 3} || a.Position != geom.R(13, 8, 10, 10) {
		t.Fatalf("correction %v position %+v", res.Correction, a.Position)
	}
}

func TestSession_LabelMovesAnchor(t *testing.T) {
	sc := scene.New(1, 1)
	a := &scene.Label{Base: scene.Base{Name: "a"}, Pos: geom.P(0, 0), Box: &geom.Size{W: 4, H: 2}}
	b := &scene.Label{Base: scene.Base{Name: "b"}, Pos: geom.P(20, 50)}
	sc.Add(a, b)

	s := BeginResize(context.Background(), sc, []*Adapter{MustAdapter(a, nil)}, DirX1, Options{}, nil)
	if _, err := s.Tick(geom.P(18, 3)); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	s.End()
	if a.Pos != geom.P(20, 3) {
		t.Fatalf("anchor = %v, want (20,3)", a.Pos)
	}
}

func TestSession_ExactAlignmentCountsAsSnapped(t *testing.T) {
	sc := scene.New(1, 1)
	a := &scene.Panel{Base: scene.Base{Name: "a"}, Position: geom.R(15, 5, 10, 10)}
	b := &scene.Panel{Base: scene.Base{Name: "b"}, Position: geom.R(15, 30, 10, 10)}
	sc.Add(a, b)

	s := BeginMove(context.Background(), sc, []*Adapter{MustAdapter(a, nil)}, Options{}, &sc.Overlay)
	res, err := s.Tick(geom.P(0, 0))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if res.Correction != [2]float64{0, 0} {
		t.Fatalf("correction = %v, want none", res.Correction)
	}
	if !res.Snapped[0] || res.Snapped[1] {
		t.Fatalf("snapped = %v, want [true false]", res.Snapped)
	}
	if len(res.Guides) == 0 {
		t.Fatalf("aligned edges should draw guides")
	}
}
