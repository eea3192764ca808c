/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log sets up the process-wide slog logger. Records go to the console
// (one-line text or JSON) and optionally to a rotating JSON file. Records
// logged with a context from ContextWithScene or ContextWithStep carry the
// scene path and script step they belong to.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"snapguide/internal/version"
)

// Options controls logger initialization. FromEnv reads:
//   - SNG_LOG_LEVEL=debug|info|warn|error
//   - SNG_LOG_FORMAT=console|json
//   - SNG_LOG_FILE=<path> (adds a rotating JSON file)
//   - SNG_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
	// Console receives console output; nil means os.Stderr.
	Console io.Writer
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// L returns the process logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Init replaces the process logger and slog.Default.
func Init(opts Options) {
	l := slog.New(newHandler(opts)).With(
		slog.String("app", "snapguide"),
		slog.String("ver", version.Version),
	)
	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
}

func newHandler(opts Options) slog.Handler {
	lvl := parseLevel(opts.Level)
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	var hs []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		hs = append(hs, withContextAttrs(slog.NewJSONHandler(console, hopts)))
	} else {
		hs = append(hs, withContextAttrs(&consoleHandler{level: lvl, source: opts.AddSource, w: console}))
	}
	if f := strings.TrimSpace(opts.File); f != "" {
		w := &lj.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		hs = append(hs, withContextAttrs(slog.NewJSONHandler(w, hopts)))
	}
	if len(hs) == 1 {
		return hs[0]
	}
	return &fanout{hs: hs}
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("SNG_LOG_LEVEL", "info"),
		Format:    getenv("SNG_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("SNG_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("SNG_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

type (
	sceneKey struct{}
	stepKey  struct{}
)

// ContextWithScene tags records logged with the returned context with the
// scene document path.
func ContextWithScene(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, sceneKey{}, path)
}

// ContextWithStep tags records with the script step being executed.
func ContextWithStep(ctx context.Context, line int, step string) context.Context {
	return context.WithValue(ctx, stepKey{}, stepInfo{line, step})
}

type stepInfo struct {
	line int
	text string
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends every record to all handlers.
type fanout struct{ hs []slog.Handler }

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &fanout{hs: mapHandlers(f.hs, func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	return &fanout{hs: mapHandlers(f.hs, func(h slog.Handler) slog.Handler { return h.WithGroup(name) })}
}

func mapHandlers(hs []slog.Handler, fn func(slog.Handler) slog.Handler) []slog.Handler {
	out := make([]slog.Handler, len(hs))
	for i, h := range hs {
		out[i] = fn(h)
	}
	return out
}

// contextAttrs copies the scene and step stored in the context onto the record.
type contextAttrs struct{ next slog.Handler }

func withContextAttrs(h slog.Handler) slog.Handler { return &contextAttrs{next: h} }

func (c *contextAttrs) Enabled(ctx context.Context, level slog.Level) bool {
	return c.next.Enabled(ctx, level)
}

func (c *contextAttrs) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if sc, ok := ctx.Value(sceneKey{}).(string); ok && sc != "" {
			r.AddAttrs(slog.String("scene", sc))
		}
		if st, ok := ctx.Value(stepKey{}).(stepInfo); ok {
			r.AddAttrs(slog.Int("line", st.line), slog.String("step", st.text))
		}
	}
	return c.next.Handle(ctx, r)
}

func (c *contextAttrs) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextAttrs{next: c.next.WithAttrs(attrs)}
}

func (c *contextAttrs) WithGroup(name string) slog.Handler {
	return &contextAttrs{next: c.next.WithGroup(name)}
}

// consoleHandler prints one line per record:
//
//	15:04:05.000 INF [snap] tick op=move n=3 dx=2
//
// The component attribute, when present, becomes the bracketed prefix.
type consoleHandler struct {
	level     slog.Leveler
	source    bool
	w         io.Writer
	component string
	attrs     []slog.Attr
	groups    []string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.level != nil {
		min = h.level.Level()
	}
	return level >= min
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	b := &strings.Builder{}
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(ts.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(levelString(r.Level))
	if h.component != "" {
		b.WriteString(" [")
		b.WriteString(h.component)
		b.WriteByte(']')
	}
	if r.Message != "" {
		b.WriteByte(' ')
		b.WriteString(r.Message)
	}
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, a := range h.attrs {
		writeAttr(b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(b, prefix, a)
		return true
	})
	if h.source {
		if src := r.Source(); src != nil {
			b.WriteString(" src=")
			b.WriteString(src.File)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(src.Line))
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(h.w, b.String())
	return err
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(attrValueString(a.Value))
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append([]slog.Attr(nil), h.attrs...)
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, a := range attrs {
		switch {
		case prefix == "" && a.Key == "component":
			nh.component = a.Value.String()
		case prefix == "" && (a.Key == "app" || a.Key == "ver"):
			// static attrs stay in JSON output only
		default:
			a.Key = prefix + a.Key
			nh.attrs = append(nh.attrs, a)
		}
	}
	return &nh
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	nh := *h
	nh.groups = append(append([]string(nil), h.groups...), name)
	return &nh
}

func levelString(l slog.Level) string {
	switch l {
	case slog.LevelDebug:
		return "DBG"
	case slog.LevelInfo:
		return "INF"
	case slog.LevelWarn:
		return "WRN"
	case slog.LevelError:
		return "ERR"
	default:
		return l.String()
	}
}

func attrValueString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\"=") {
			return strconv.Quote(s)
		}
		return s
	default:
		return v.Resolve().String()
	}
}
