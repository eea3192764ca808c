/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package changelog records the semantic mutations committed by position
// adapters. Drag gestures produce one change per attribute per tick, so the
// log coalesces bursts and keeps per-element undo/redo stacks.
package changelog

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Attr names a mutated element attribute.
type Attr string

const (
	AttrPosition Attr = "position"
	AttrWidth    Attr = "width"
	AttrHeight   Attr = "height"
	AttrAnchor   Attr = "anchor"
)

// Change is one committed attribute mutation. Prev holds the value before the
// mutation so the host can revert it.
type Change struct {
	ElementID string
	Attr      Attr
	Values    []float64
	Prev      []float64
	TS        time.Time

	seq uint64
}

// String renders the change as "<id>.<attr> = <values>".
func (c Change) String() string {
	b := &strings.Builder{}
	b.WriteString(c.ElementID)
	b.WriteString(".")
	b.WriteString(string(c.Attr))
	b.WriteString(" = ")
	b.WriteString(formatValues(c.Values))
	return b.String()
}

func formatValues(vs []float64) string {
	if len(vs) == 1 {
		return strconv.FormatFloat(vs[0], 'f', -1, 64)
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Sink receives committed changes.
type Sink interface {
	Record(c Change)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Change)

func (f SinkFunc) Record(c Change) { f(c) }

// Config controls depth caps and coalescing behavior.
type Config struct {
	// MaxEntries is a soft cap across all elements; the oldest entries are pruned.
	MaxEntries int
	// MaxPerElement limits entries kept per element (0 means unlimited).
	MaxPerElement int
	// MinInterval coalesces a change with the previous change of the same element
	// and attribute when both happened within the interval.
	MinInterval time.Duration
}

// Log is an in-memory change log with per-element undo/redo.
// It is safe for concurrent use.
type Log struct {
	cfg  Config
	mu   sync.Mutex
	undo map[string][]Change
	redo map[string][]Change
	seq  uint64
	n    int
}

func NewLog(cfg Config) *Log {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 4096
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Log{cfg: cfg, undo: make(map[string][]Change), redo: make(map[string][]Change)}
}

// Record appends c, or folds it into the latest change of the same element and
// attribute when that change is younger than MinInterval. A folded change keeps
// the older Prev so undo restores the state before the whole burst.
// Any new change invalidates redo for the element.
func (l *Log) Record(c Change) {
	if c.TS.IsZero() {
		c.TS = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.redo[c.ElementID] = nil
	stack := l.undo[c.ElementID]
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Attr != c.Attr {
			continue
		}
		if c.TS.Sub(stack[i].TS) < l.cfg.MinInterval {
			c.Prev = stack[i].Prev
			c.seq = stack[i].seq
			stack[i] = c
			return
		}
		break
	}
	l.seq++
	c.seq = l.seq
	l.undo[c.ElementID] = append(stack, c)
	l.n++
	l.enforceCapsLocked(c.ElementID)
}

// Undo pops the latest change of an element and pushes it to its redo stack.
func (l *Log) Undo(elementID string) (Change, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stack := l.undo[elementID]
	if len(stack) == 0 {
		return Change{}, false
	}
	c := stack[len(stack)-1]
	l.undo[elementID] = stack[:len(stack)-1]
	l.n--
	l.redo[elementID] = append(l.redo[elementID], c)
	return c, true
}

// Redo pops from redo and pushes back to undo.
func (l *Log) Redo(elementID string) (Change, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := l.redo[elementID]
	if len(r) == 0 {
		return Change{}, false
	}
	c := r[len(r)-1]
	l.redo[elementID] = r[:len(r)-1]
	l.undo[elementID] = append(l.undo[elementID], c)
	l.n++
	l.enforceCapsLocked(elementID)
	return c, true
}

// Entries returns every undoable change in recording order.
func (l *Log) Entries() []Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Change, 0, l.n)
	for _, stack := range l.undo {
		out = append(out, stack...)
	}
	slices.SortFunc(out, func(a, b Change) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return out
}

// Stats returns current sizes for diagnostics.
func (l *Log) Stats() (entries int, elements int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, stack := range l.undo {
		if len(stack) > 0 {
			elements++
		}
	}
	return l.n, elements
}

func (l *Log) enforceCapsLocked(elementID string) {
	if l.cfg.MaxPerElement > 0 {
		stack := l.undo[elementID]
		if len(stack) > l.cfg.MaxPerElement {
			toDrop := len(stack) - l.cfg.MaxPerElement
			l.n -= toDrop
			l.undo[elementID] = append([]Change{}, stack[toDrop:]...)
		}
	}
	// Global cap: prune the oldest entry across all elements
	for l.cfg.MaxEntries > 0 && l.n > l.cfg.MaxEntries {
		oldestID := ""
		var oldestSeq uint64
		found := false
		for id, stack := range l.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].seq < oldestSeq {
				oldestID, oldestSeq, found = id, stack[0].seq, true
			}
		}
		if !found {
			break
		}
		l.undo[oldestID] = l.undo[oldestID][1:]
		l.n--
		if len(l.undo[oldestID]) == 0 {
			delete(l.undo, oldestID)
		}
	}
}
