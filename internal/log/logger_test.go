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
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lastJSON(t *testing.T, b []byte) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestInit_FileAndConsoleReceiveRecords(t *testing.T) {
	t.Cleanup(func() { Init(FromEnv()) })
	path := filepath.Join(t.TempDir(), "snapguide.json")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "console", File: path, Console: &console})

	ctx := ContextWithScene(context.Background(), "grid.yaml")
	WithOperation(WithComponent("snap"), "move").DebugContext(ctx, "tick", slog.Float64("dx", -2.5))

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	m := lastJSON(t, b)
	checks := map[string]any{"app": "snapguide", "component": "snap", "op": "move", "msg": "tick", "scene": "grid.yaml", "dx": -2.5}
	for k, want := range checks {
		if m[k] != want {
			t.Fatalf("%s = %v, want %v (record %v)", k, m[k], want, m)
		}
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr: %v", m)
	}

	line := console.String()
	if !strings.Contains(line, "DBG [snap] tick") || !strings.Contains(line, "scene=grid.yaml") || !strings.Contains(line, "dx=-2.5") {
		t.Fatalf("console line: %q", line)
	}
}

func TestFanout_RespectsPerHandlerLevel(t *testing.T) {
	var quiet, loud bytes.Buffer
	h := &fanout{hs: []slog.Handler{
		slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&loud, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("fanout should be enabled when any handler is")
	}
	l := slog.New(h).With(slog.String("component", "replay"))
	l.Debug("step")
	l.Warn("replay stopped")

	if strings.Contains(quiet.String(), `"msg":"step"`) {
		t.Fatalf("warn handler got a debug record: %q", quiet.String())
	}
	if got := strings.Count(loud.String(), `"component":"replay"`); got != 2 {
		t.Fatalf("debug handler records = %d, want 2: %q", got, loud.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, " WARNING ": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
