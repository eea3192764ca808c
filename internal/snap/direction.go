/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"fmt"
	"strings"

	"snapguide/internal/geom"
)

// Direction is a bit mask of the edges that move during a gesture.
// Edge e maps to bit 1<<e.
type Direction uint8

const (
	DirX0 Direction = 1 << geom.Left
	DirY0 Direction = 1 << geom.Bottom
	DirX1 Direction = 1 << geom.Right
	DirY1 Direction = 1 << geom.Top

	DirAll = DirX0 | DirY0 | DirX1 | DirY1
)

var edgeNames = [4]string{"x0", "y0", "x1", "y1"}

// EdgeBit returns the mask bit for edge index e.
func EdgeBit(e int) Direction { return Direction(1) << uint(e&3) }

// Has reports whether every bit of o is set in d.
func (d Direction) Has(o Direction) bool { return d&o == o && o != 0 }

// Edges lists the enabled edge indices in ascending order.
func (d Direction) Edges() []int {
	var out []int
	for e := 0; e < 4; e++ {
		if d.Has(EdgeBit(e)) {
			out = append(out, e)
		}
	}
	return out
}

func (d Direction) String() string {
	if d == 0 {
		return "none"
	}
	if d == DirAll {
		return "all"
	}
	var parts []string
	for _, e := range d.Edges() {
		parts = append(parts, edgeNames[e])
	}
	return strings.Join(parts, ",")
}

// ParseDirection accepts "all", "none", or a comma separated list of edge
// names (x0, y0, x1, y1) or their aliases (left, bottom, right, top).
func ParseDirection(s string) (Direction, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none":
		return 0, nil
	case "all":
		return DirAll, nil
	}
	var d Direction
	for _, part := range strings.Split(s, ",") {
		e, ok := edgeIndex(strings.TrimSpace(part))
		if !ok {
			return 0, fmt.Errorf("snap: unknown edge %q", part)
		}
		d |= EdgeBit(e)
	}
	return d, nil
}

func edgeIndex(name string) (int, bool) {
	switch name {
	case "x0", "left", "0":
		return geom.Left, true
	case "y0", "bottom", "1":
		return geom.Bottom, true
	case "x1", "right", "2":
		return geom.Right, true
	case "y1", "top", "3":
		return geom.Top, true
	}
	return 0, false
}
