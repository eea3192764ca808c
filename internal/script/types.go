/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"snapguide/internal/geom"
	"snapguide/internal/snap"
)

// Script is a parsed drag script: a flat list of steps in source order.
//
//	# comment
//	select ax1 ax2
//	move 4 -2
//	resize x1,y1 10 5
//	release
//	expect ax1 0.1 0.1 0.45 0.45
type Script struct {
	Steps []*Step `parser:"Newline* ( @@ Newline* )*"`
}

// Step is one command. Exactly one field is set.
type Step struct {
	Pos     lexer.Position `parser:""`
	Select  *Select        `parser:"  @@"`
	Move    *Move          `parser:"| @@"`
	Resize  *Resize        `parser:"| @@"`
	Release *Release       `parser:"| @@"`
	Expect  *Expect        `parser:"| @@"`
}

// Op identifies the command of a step.
type Op int

const (
	OpUnknown Op = iota
	OpSelect
	OpMove
	OpResize
	OpRelease
	OpExpect
)

func (o Op) String() string {
	switch o {
	case OpSelect:
		return "select"
	case OpMove:
		return "move"
	case OpResize:
		return "resize"
	case OpRelease:
		return "release"
	case OpExpect:
		return "expect"
	default:
		return "unknown"
	}
}

func (s *Step) Op() Op {
	switch {
	case s.Select != nil:
		return OpSelect
	case s.Move != nil:
		return OpMove
	case s.Resize != nil:
		return OpResize
	case s.Release != nil:
		return OpRelease
	case s.Expect != nil:
		return OpExpect
	}
	return OpUnknown
}

// Line is the 1-based source line of the step.
func (s *Step) Line() int { return s.Pos.Line }

func (s *Step) String() string {
	switch s.Op() {
	case OpSelect:
		return "select " + strings.Join(s.Select.IDs, " ")
	case OpMove:
		return fmt.Sprintf("move %g %g", s.Move.DX, s.Move.DY)
	case OpResize:
		return fmt.Sprintf("resize %s %g %g", strings.Join(s.Resize.Edges, ","), s.Resize.DX, s.Resize.DY)
	case OpRelease:
		return "release"
	case OpExpect:
		v := s.Expect.Values
		return fmt.Sprintf("expect %s %g %g %g %g", s.Expect.ID, v[0], v[1], v[2], v[3])
	}
	return "?"
}

// Select picks the elements the following gesture drags.
type Select struct {
	IDs []string `parser:"'select' @Ident+"`
}

// Move drags the selection as a whole. Offsets are the total displacement
// since the gesture began, in device units.
type Move struct {
	DX float64 `parser:"'move' @Number"`
	DY float64 `parser:"@Number"`
}

func (m *Move) Offset() geom.Pt { return geom.P(m.DX, m.DY) }

// Resize drags the listed edges of the selection.
type Resize struct {
	Edges []string `parser:"'resize' ( @Ident | @Number ) ( ',' ( @Ident | @Number ) )*"`
	DX    float64  `parser:"@Number"`
	DY    float64  `parser:"@Number"`
}

func (r *Resize) Offset() geom.Pt { return geom.P(r.DX, r.DY) }

// Direction resolves the edge list to a mask.
func (r *Resize) Direction() (snap.Direction, error) {
	return snap.ParseDirection(strings.Join(r.Edges, ","))
}

// Release ends the current gesture.
type Release struct {
	Keyword bool `parser:"@'release'"`
}

// Expect asserts the device-space extent of an element.
type Expect struct {
	ID     string    `parser:"'expect' @Ident"`
	Values []float64 `parser:"@Number @Number @Number @Number"`
}

func (e *Expect) Extent() geom.Extent {
	return geom.Extent{e.Values[0], e.Values[1], e.Values[2], e.Values[3]}
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message) }
