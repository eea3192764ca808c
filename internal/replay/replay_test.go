/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"snapguide/internal/changelog"
	applog "snapguide/internal/log"
	"snapguide/internal/scene"
	"snapguide/internal/scenefile"
	"snapguide/internal/script"
	"snapguide/internal/snap"
)

const layout = `
figure: {width: 100, height: 100}
panels:
  - {id: a, position: [0.05, 0.05, 0.1, 0.1]}
  - {id: b, position: [0.15, 0.05, 0.1, 0.1]}
  - {id: c, position: [0.2, 0.5, 0.15, 0.1]}
`

func load(t *testing.T) *scene.Scene {
	t.Helper()
	sc, err := scenefile.Decode([]byte(layout))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return sc
}

func parse(t *testing.T, src string) *script.Script {
	t.Helper()
	s, errs := script.Parse(src)
	if len(errs) > 0 {
		t.Fatalf("parse: %+v", errs)
	}
	return s
}

func TestRun_MoveSnapsAndExpects(t *testing.T) {
	sc := load(t)
	log := changelog.NewLog(changelog.Config{})
	r := New(sc, log, snap.Options{})
	rep, err := r.Run(context.Background(), parse(t, `
select a
move 4 0
move 8 0
release
expect a 15 5 25 15
move 40 60
release
expect a 55 65 65 75
`))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Rows) != 8 || rep.Expectations != 2 {
		t.Fatalf("rows = %d expectations = %d", len(rep.Rows), rep.Expectations)
	}
	first := rep.Rows[1].Tick
	if first == nil || math.Abs(first.Correction[0]-6) > 1e-9 || !first.Snapped[0] {
		t.Fatalf("first tick = %+v", first)
	}
	if tick := rep.Rows[5].Tick; tick == nil || tick.Snapped[0] || tick.Snapped[1] {
		t.Fatalf("far move should not snap: %+v", tick)
	}
	if len(sc.Overlay.Guides()) != 0 {
		t.Fatalf("guides left after release")
	}

	entries := log.Entries()
	if len(entries) == 0 {
		t.Fatalf("no changes recorded")
	}
	last := entries[len(entries)-1]
	if last.ElementID != "a" || math.Abs(last.Values[0]-0.55) > 1e-9 {
		t.Fatalf("last change = %v", last)
	}
}

func TestRun_ResizeMatchesWidth(t *testing.T) {
	sc := load(t)
	r := New(sc, nil, snap.Options{})
	// c is 15 wide: closer than the right edge of b
	rep, err := r.Run(context.Background(), parse(t, `
select a
resize right 3 0
release
expect a 5 5 20 15
`))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tick := rep.Rows[1].Tick; tick == nil || math.Abs(tick.Correction[0]-2) > 1e-9 {
		t.Fatalf("tick = %+v", tick)
	}
}

func TestRun_ExpectationFailure(t *testing.T) {
	r := New(load(t), nil, snap.Options{})
	_, err := r.Run(context.Background(), parse(t, "select a\nexpect a 0 0 1 1\n"))
	var ee *ExpectationError
	if !errors.As(err, &ee) || ee.Line != 2 || ee.ID != "a" {
		t.Fatalf("err = %v", err)
	}
	if math.Abs(ee.Got[2]-15) > 1e-6 || math.Abs(ee.Got[0]-5) > 1e-6 {
		t.Fatalf("got = %v", ee.Got)
	}
	if !strings.Contains(err.Error(), "line 2: a is at [5 5 15 15], want [0 0 1 1]") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestRun_GestureKeepsGuidesUntilClose(t *testing.T) {
	sc := load(t)
	r := New(sc, nil, snap.Options{})
	if _, err := r.Run(context.Background(), parse(t, "select a\nmove 9 0\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sc.Overlay.Guides()) == 0 {
		t.Fatalf("expected guides for the open gesture")
	}
	r.Close()
	if len(sc.Overlay.Guides()) != 0 {
		t.Fatalf("Close left guides behind")
	}
}

func TestRun_Errors(t *testing.T) {
	cases := map[string]string{
		"move 1 1\n":                "without a selection",
		"select nope\n":             `unknown element "nope"`,
		"select a\nexpect zz 0 0 0 0\n": `unknown element "zz"`,
	}
	for src, want := range cases {
		_, err := New(load(t), nil, snap.Options{}).Run(context.Background(), parse(t, src))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("%q: err = %v, want %q", src, err, want)
		}
	}
}

func TestRun_LogsCarryScene(t *testing.T) {
	t.Cleanup(func() { applog.Init(applog.FromEnv()) })
	var buf bytes.Buffer
	applog.Init(applog.Options{Level: "debug", Format: "json", Console: &buf})

	r := New(load(t), changelog.NewLog(changelog.Config{}), snap.Options{})
	ctx := applog.ContextWithScene(context.Background(), "layout.yaml")
	if _, err := r.Run(ctx, parse(t, "select a\nmove 4 0\nrelease\n")); err != nil {
		t.Fatalf("run: %v", err)
	}

	seen := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		msg, _ := rec["msg"].(string)
		if rec["scene"] != "layout.yaml" {
			t.Fatalf("%q record lacks scene: %v", msg, rec)
		}
		seen[msg] = true
	}
	for _, msg := range []string{"gesture started", "tick", "gesture ended", "replay finished"} {
		if !seen[msg] {
			t.Fatalf("no %q record in %q", msg, buf.String())
		}
	}
}

func TestRun_StoppedLogCarriesStep(t *testing.T) {
	t.Cleanup(func() { applog.Init(applog.FromEnv()) })
	var buf bytes.Buffer
	applog.Init(applog.Options{Level: "info", Format: "json", Console: &buf})

	r := New(load(t), changelog.NewLog(changelog.Config{}), snap.Options{})
	if _, err := r.Run(context.Background(), parse(t, "select zz\n")); err == nil {
		t.Fatalf("expected error for unknown element")
	}
	out := buf.String()
	if !strings.Contains(out, `"msg":"replay stopped"`) || !strings.Contains(out, `"line":1`) {
		t.Fatalf("stopped record missing step info: %q", out)
	}
}
