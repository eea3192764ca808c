/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"
	"testing"

	"snapguide/internal/geom"
	"snapguide/internal/snap"
)

func TestParseGesture(t *testing.T) {
	input := `# drag ax1 next to ax2
select ax1
move 4 -2.5
move +8 0   # total offset
release

select ax2 ax3
resize x1,top 10 5
release
expect ax1 0.1 0.1 4.5e1 45`

	s, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	want := []Op{OpSelect, OpMove, OpMove, OpRelease, OpSelect, OpResize, OpRelease, OpExpect}
	if len(s.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(s.Steps))
	}
	for i, op := range want {
		if s.Steps[i].Op() != op {
			t.Fatalf("step %d: expected %s, got %s", i, op, s.Steps[i].Op())
		}
	}
	if s.Steps[0].Line() != 2 || s.Steps[0].Select.IDs[0] != "ax1" {
		t.Fatalf("unexpected first step: %+v", s.Steps[0])
	}
	if got := s.Steps[1].Move.Offset(); got != geom.P(4, -2.5) {
		t.Fatalf("unexpected move offset: %v", got)
	}
	if got := s.Steps[2].Move.Offset(); got != geom.P(8, 0) {
		t.Fatalf("unexpected second move: %v", got)
	}
	if ids := s.Steps[4].Select.IDs; len(ids) != 2 || ids[1] != "ax3" {
		t.Fatalf("unexpected selection: %v", ids)
	}
	rs := s.Steps[5].Resize
	dir, err := rs.Direction()
	if err != nil || dir != snap.DirX1|snap.DirY1 {
		t.Fatalf("unexpected resize direction %v (%v)", dir, err)
	}
	if rs.Offset() != geom.P(10, 5) {
		t.Fatalf("unexpected resize offset: %v", rs.Offset())
	}
	if ext := s.Steps[7].Expect.Extent(); ext != (geom.Extent{0.1, 0.1, 45, 45}) {
		t.Fatalf("unexpected expectation: %v", ext)
	}
	if got := s.Steps[5].String(); got != "resize x1,top 10 5" {
		t.Fatalf("unexpected String(): %q", got)
	}
}

func TestParseEmptyAndComments(t *testing.T) {
	s, errs := Parse("\n# nothing here\n\n")
	if len(errs) != 0 || len(s.Steps) != 0 {
		t.Fatalf("expected empty script, got %+v %+v", s, errs)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, errs := Parse("select a\nmove 1\n")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %+v", errs)
	}
	if errs[0].Line != 3 && errs[0].Line != 2 {
		t.Fatalf("unexpected error line: %+v", errs[0])
	}

	_, errs = Parse("select a\njump 1 2\n")
	if len(errs) != 1 || errs[0].Line != 2 || errs[0].Column != 1 {
		t.Fatalf("unexpected error for unknown command: %+v", errs)
	}
	if !strings.HasPrefix(errs[0].Error(), "2:1: ") {
		t.Fatalf("unexpected Error(): %q", errs[0].Error())
	}
}

func TestParseSemanticErrors(t *testing.T) {
	_, errs := Parse("select a\nmove 1 2 move 3 4\nresize middle 1 1\n")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %+v", errs)
	}
	if errs[0].Line != 2 || errs[0].Message != "one command per line" {
		t.Fatalf("unexpected first error: %+v", errs[0])
	}
	if errs[1].Line != 3 || !strings.Contains(errs[1].Message, "middle") {
		t.Fatalf("unexpected second error: %+v", errs[1])
	}
}
