/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics in the CLI into a report file plus a snapshot of
// the scene being edited.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "snapguide/internal/log"
	"snapguide/internal/scene"
	"snapguide/internal/scenefile"
	"snapguide/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Workspace describes what was being edited when a panic happened. Fields
// may be filled in as the command progresses.
type Workspace struct {
	Dir       string // report directory; os.TempDir() when empty
	ScenePath string
	Scene     *scene.Scene
	Step      string
}

// Recover captures a panic, logs an error with stacktrace,
// writes an error report file, and saves the current scene state next to it
// (if provided).
//
// Usage: defer crash.Recover(ws)
func Recover(ws *Workspace) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(ws, r, stack)
		if ws != nil && ws.Scene != nil {
			if path, err := writeSnapshot(ws, reportPath); err != nil {
				l.Error("crash snapshot failed", slog.Any("err", err))
			} else {
				l.Info("crash snapshot written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

func reportDir(ws *Workspace) string {
	if ws != nil && ws.Dir != "" {
		_ = os.MkdirAll(ws.Dir, 0o755)
		return ws.Dir
	}
	return os.TempDir()
}

func writeReport(ws *Workspace, panicVal any, stack []byte) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(reportDir(ws), fmt.Sprintf("crash-%s.log", stamp))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "SnapGuide Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if ws != nil {
		if ws.ScenePath != "" {
			_, _ = fmt.Fprintf(&buf, "Scene: %s\n", ws.ScenePath)
		}
		if ws.Step != "" {
			_, _ = fmt.Fprintf(&buf, "Step: %s\n", ws.Step)
		}
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}

// writeSnapshot stores the scene beside the report as crash-<stamp>.yaml.
func writeSnapshot(ws *Workspace, reportPath string) (string, error) {
	path := reportPath[:len(reportPath)-len(filepath.Ext(reportPath))] + ".yaml"
	if err := scenefile.Save(path, ws.Scene); err != nil {
		return "", err
	}
	return path, nil
}
