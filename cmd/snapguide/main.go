/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"snapguide/internal/changelog"
	"snapguide/internal/config"
	"snapguide/internal/crash"
	"snapguide/internal/export"
	applog "snapguide/internal/log"
	"snapguide/internal/replay"
	"snapguide/internal/scene"
	"snapguide/internal/scenefile"
	"snapguide/internal/script"
	"snapguide/internal/snap"
	"snapguide/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "SnapGuide - alignment snapping for figure layouts")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  snapguide version|-v|--version                 Show version")
	_, _ = fmt.Fprintln(w, "  snapguide config                               Show the effective configuration")
	_, _ = fmt.Fprintln(w, "  snapguide validate <scene.yaml>                Check a scene document")
	_, _ = fmt.Fprintln(w, "  snapguide catalog <scene.yaml> <id>[,<id>] [edges]")
	_, _ = fmt.Fprintln(w, "                                                 List snap relations for a move, or a resize of edges")
	_, _ = fmt.Fprintln(w, "  snapguide replay <scene.yaml> <drag.script> [-o out.svg|png|pdf] [--save out.yaml] [--bundle out.zip]")
	_, _ = fmt.Fprintln(w, "                                                 Replay a drag script and report every tick")
}

func main() {
	cfg, err := config.Load()
	applog.Init(applog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, AddSource: cfg.Logging.Source, File: cfg.Logging.File})
	l := applog.WithComponent("cli")
	if err != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", err))
	}
	ws := &crash.Workspace{}
	defer crash.Recover(ws)

	os.Exit(run(os.Args[1:], cfg, ws, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, cfg config.AppConfig, ws *crash.Workspace, stdout, stderr io.Writer) int {
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	fail := func(op string, err error) int {
		l.Error(op+" failed", slog.Any("err", err))
		_, _ = fmt.Fprintln(stderr, errStyle.Render("Error:"), err)
		return 1
	}
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, "SnapGuide")
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "config":
		if err := writeConfig(stdout, cfg); err != nil {
			return fail("config", err)
		}
		return 0
	case "validate":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(stderr, "validate requires <scene.yaml>")
			usage(stderr)
			return 2
		}
		sc, err := scenefile.Load(args[1])
		if err != nil {
			return fail("validate", err)
		}
		_, _ = fmt.Fprintf(stdout, "%s: ok (%d panels, %d shapes, %d labels)\n",
			args[1], len(sc.Panels()), len(sc.Shapes()), len(sc.Labels()))
		return 0
	case "catalog":
		if len(args) < 3 {
			_, _ = fmt.Fprintln(stderr, "catalog requires <scene.yaml> and <id>")
			usage(stderr)
			return 2
		}
		edges := ""
		if len(args) > 3 {
			edges = args[3]
		}
		if err := catalogCmd(stdout, cfg, ws, args[1], args[2], edges); err != nil {
			return fail("catalog", err)
		}
		return 0
	case "replay":
		if len(args) < 3 {
			_, _ = fmt.Fprintln(stderr, "replay requires <scene.yaml> and <drag.script>")
			usage(stderr)
			return 2
		}
		ro, err := parseReplayFlags(args[3:])
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			usage(stderr)
			return 2
		}
		ro.scene, ro.script = args[1], args[2]
		if err := replayCmd(stdout, cfg, ws, ro); err != nil {
			return fail("replay", err)
		}
		return 0
	}
	usage(stderr)
	return 2
}

type replayOpts struct {
	scene, script string
	out, save     string
	bundle        string
}

func parseReplayFlags(args []string) (replayOpts, error) {
	var ro replayOpts
	for i := 0; i < len(args); i++ {
		var dst *string
		switch args[i] {
		case "-o", "--out":
			dst = &ro.out
		case "--save":
			dst = &ro.save
		case "--bundle":
			dst = &ro.bundle
		default:
			return ro, fmt.Errorf("unknown flag %q", args[i])
		}
		if i+1 >= len(args) {
			return ro, fmt.Errorf("%s requires a path", args[i])
		}
		i++
		*dst = args[i]
	}
	return ro, nil
}

func selectAdapters(sc *scene.Scene, ids string, sink changelog.Sink) ([]*snap.Adapter, error) {
	var out []*snap.Adapter
	for _, id := range strings.Split(ids, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		el, ok := sc.Find(id)
		if !ok {
			return nil, fmt.Errorf("unknown element %q", id)
		}
		a, err := snap.NewAdapter(el, sink)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, errors.New("no element selected")
	}
	return out, nil
}

func catalogCmd(w io.Writer, cfg config.AppConfig, ws *crash.Workspace, scenePath, ids, edges string) error {
	opts, err := snapOptions(cfg.Snap)
	if err != nil {
		return err
	}
	sc, err := scenefile.Load(scenePath)
	if err != nil {
		return err
	}
	ws.ScenePath, ws.Scene = scenePath, sc
	targets, err := selectAdapters(sc, ids, nil)
	if err != nil {
		return err
	}
	dir, noHeight, title := snap.DirAll, true, "move "+ids
	if edges != "" {
		d, err := snap.ParseDirection(edges)
		if err != nil {
			return err
		}
		dir, noHeight, title = d, false, fmt.Sprintf("resize %s [%s]", ids, d)
	}
	cat := snap.BuildCatalog(targets, dir&opts.Directions, noHeight, sc)
	applog.WithOperation(applog.WithComponent("cli"), "catalog").InfoContext(
		applog.ContextWithScene(context.Background(), scenePath), "catalog built",
		slog.String("targets", ids), slog.String("dir", dir.String()), slog.Int("relations", len(cat)))
	return writeCatalog(w, title, cat, opts.ActiveThreshold)
}

func replayCmd(w io.Writer, cfg config.AppConfig, ws *crash.Workspace, ro replayOpts) error {
	l := applog.WithOperation(applog.WithComponent("cli"), "replay")
	opts, err := snapOptions(cfg.Snap)
	if err != nil {
		return err
	}
	sc, err := scenefile.Load(ro.scene)
	if err != nil {
		return err
	}
	ws.ScenePath, ws.Scene = ro.scene, sc
	ctx := applog.ContextWithScene(context.Background(), ro.scene)

	f, err := os.Open(ro.script)
	if err != nil {
		return err
	}
	s, errs := script.ParseReader(f)
	_ = f.Close()
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = fmt.Sprintf("%s:%s", ro.script, e.Error())
		}
		return errors.New(strings.Join(msgs, "\n"))
	}

	changes := changelog.NewLog(changelog.Config{})
	runner := replay.New(sc, changes, opts)
	rep, runErr := runner.Run(ctx, s)
	if n := len(rep.Rows); n < len(s.Steps) {
		ws.Step = s.Steps[n].String()
	}
	if err := writeReplay(w, fmt.Sprintf("replay %s on %s", filepath.Base(ro.script), filepath.Base(ro.scene)), rep, runErr); err != nil {
		return err
	}
	entries, elements := changes.Stats()
	l.InfoContext(ctx, "changes recorded", slog.Int("entries", entries), slog.Int("elements", elements))

	st := exportStyle(cfg)
	if ro.out != "" {
		if err := export.WriteFile(ro.out, sc, st); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, "Wrote", ro.out)
	}
	if ro.bundle != "" {
		name := strings.TrimSuffix(filepath.Base(ro.scene), filepath.Ext(ro.scene))
		if err := export.Bundle(ro.bundle, name, sc, st); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, "Wrote", ro.bundle)
	}
	runner.Close()
	if ro.save != "" {
		if err := scenefile.Save(ro.save, sc); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, "Saved", ro.save)
	}
	return runErr
}
