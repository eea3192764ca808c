/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import "testing"

func TestParseDirection(t *testing.T) {
	cases := []struct {
		in   string
		want Direction
	}{
		{"all", DirAll},
		{"none", 0},
		{"", 0},
		{"x0", DirX0},
		{"Left, top", DirX0 | DirY1},
		{"2,1", DirX1 | DirY0},
		{"x0,y0,x1,y1", DirAll},
	}
	for _, c := range cases {
		got, err := ParseDirection(c.in)
		if err != nil {
			t.Fatalf("ParseDirection(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseDirection(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseDirection("x0,middle"); err == nil {
		t.Fatalf("expected error for unknown edge")
	}
}

func TestDirectionStringAndEdges(t *testing.T) {
	d := DirX0 | DirY1
	if d.String() != "x0,y1" || DirAll.String() != "all" || Direction(0).String() != "none" {
		t.Fatalf("unexpected strings: %q %q", d.String(), DirAll.String())
	}
	if e := d.Edges(); len(e) != 2 || e[0] != 0 || e[1] != 3 {
		t.Fatalf("Edges() = %v", e)
	}
	if d.Has(DirX1) || !d.Has(DirY1) || d.Has(0) {
		t.Fatalf("Has mismatch for %v", d)
	}
}
