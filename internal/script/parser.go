/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.\-]*`},
		{Name: "Comma", Pattern: `,`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// Parse parses a drag script. Syntax errors are reported with their line and
// column; a script with errors yields a nil Script.
func Parse(input string) (*Script, []Error) {
	s, err := scriptParser.ParseString("", input)
	if err != nil {
		return nil, []Error{toError(err)}
	}
	if errs := check(s); len(errs) > 0 {
		return nil, errs
	}
	return s, nil
}

// ParseReader is Parse for a stream.
func ParseReader(r io.Reader) (*Script, []Error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, []Error{{Message: err.Error()}}
	}
	return Parse(string(data))
}

func toError(err error) Error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return Error{Line: pos.Line, Column: pos.Column, Message: perr.Message()}
	}
	return Error{Message: err.Error()}
}

// check enforces one step per line and known edge names.
func check(s *Script) []Error {
	var errs []Error
	last := 0
	for _, st := range s.Steps {
		if st.Pos.Line == last {
			errs = append(errs, Error{Line: st.Pos.Line, Column: st.Pos.Column, Message: "one command per line"})
		}
		last = st.Pos.Line
		if st.Resize != nil {
			if _, err := st.Resize.Direction(); err != nil {
				errs = append(errs, Error{Line: st.Pos.Line, Column: st.Pos.Column, Message: err.Error()})
			}
		}
	}
	return errs
}
