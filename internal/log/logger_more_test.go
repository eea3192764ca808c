/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func TestFromEnvAndGetenv(t *testing.T) {
	t.Setenv("SNG_LOG_LEVEL", "warn")
	t.Setenv("SNG_LOG_FORMAT", "json")
	t.Setenv("SNG_LOG_SOURCE", "true")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" || opts.Console != nil {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if err := os.Unsetenv("SOME_UNSET_VAR"); err != nil {
		t.Fatalf("Unsetenv error: %v", err)
	}
	if v := getenv("SOME_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestConsoleHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	var h slog.Handler = &consoleHandler{level: slog.LevelWarn, source: true, w: &buf}

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}

	h = h.WithAttrs([]slog.Attr{slog.String("component", "snap"), slog.String("app", "snapguide"), slog.String("k", "v")})
	h = h.WithGroup("grp")

	r := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	r.AddAttrs(slog.Int("n", 42), slog.Float64("pi", 3.14), slog.String("path", "a b"))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ERR [snap] boom") {
		t.Fatalf("component prefix missing: %q", out)
	}
	if strings.Contains(out, "component=") || strings.Contains(out, "app=") {
		t.Fatalf("prefix attrs should not repeat: %q", out)
	}
	for _, want := range []string{"k=v", "grp.n=42", "grp.pi=3.14", `grp.path="a b"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(withContextAttrs(slog.NewJSONHandler(&buf, nil)))

	ctx := ContextWithScene(context.Background(), "layouts/grid.yaml")
	ctx = ContextWithStep(ctx, 4, "move 2 0")
	l.InfoContext(ctx, "tick")
	out := buf.String()
	for _, want := range []string{`"scene":"layouts/grid.yaml"`, `"line":4`, `"step":"move 2 0"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %q", want, out)
		}
	}

	buf.Reset()
	l.Info("plain")
	if strings.Contains(buf.String(), `"scene"`) {
		t.Fatalf("scene attr should be absent without context: %q", buf.String())
	}
}

func TestInitConsoleWriter(t *testing.T) {
	t.Cleanup(func() { Init(FromEnv()) })
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Console: &buf})

	WithComponent("cli").InfoContext(ContextWithScene(context.Background(), "s.yaml"), "catalog built")
	WithComponent("cli").Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"component":"cli"`) || !strings.Contains(out, `"scene":"s.yaml"`) {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered: %q", out)
	}
}
