/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"snapguide/internal/config"
	"snapguide/internal/geom"
	"snapguide/internal/replay"
	"snapguide/internal/snap"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00d4a0")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ddaa44")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	snapStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6600")).Bold(true).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff3355")).Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...)
}

func num(v float64) string {
	if math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%g", geom.FloatRound(v, 4))
}

func extent(e geom.Extent) string {
	return fmt.Sprintf("%s %s %s %s", num(e[0]), num(e[1]), num(e[2]), num(e[3]))
}

// writeCatalog prints one row per relation with its distances.
func writeCatalog(w io.Writer, title string, cat snap.Catalog, threshold float64) error {
	if threshold <= 0 {
		threshold = snap.ActiveThreshold
	}
	t := newTable("#", "kind", "dx", "dy", "active")
	active := make(map[int]bool)
	for i, r := range cat {
		on := snap.Active(r, threshold)
		active[i] = on
		mark := ""
		if on {
			mark = "yes"
		}
		t.Row(fmt.Sprint(i), r.Kind(), num(r.Distance(0)), num(r.Distance(1)), mark)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case active[row]:
			return snapStyle
		default:
			return cellStyle
		}
	})

	counts := cat.Count()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	best := snap.BestCorrection(cat, 0)

	if _, err := lipgloss.Fprintln(w, titleStyle.Render(title)); err != nil {
		return err
	}
	if _, err := lipgloss.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := lipgloss.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d relations (%s), best correction %s %s",
		len(cat), strings.Join(parts, " "), num(-best[0]), num(-best[1]))))
	return err
}

// writeReplay prints one row per executed step. failure, when set, is shown
// under the table.
func writeReplay(w io.Writer, title string, rep *replay.Report, failure error) error {
	t := newTable("line", "step", "correction", "active", "extents")
	snapped := make(map[int]bool)
	for i, row := range rep.Rows {
		corr, active, ext := "", "", ""
		if tk := row.Tick; tk != nil {
			corr = fmt.Sprintf("%s %s", num(tk.Correction[0]), num(tk.Correction[1]))
			active = strings.Join(tk.Active, ",")
			ids := make([]string, 0, len(tk.Extents))
			for id := range tk.Extents {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			lines := make([]string, 0, len(ids))
			for _, id := range ids {
				lines = append(lines, id+" "+extent(tk.Extents[id]))
			}
			ext = strings.Join(lines, "\n")
			snapped[i] = tk.Snapped[0] || tk.Snapped[1]
		}
		t.Row(fmt.Sprint(row.Line), row.Step, corr, active, ext)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case snapped[row]:
			return snapStyle
		default:
			return cellStyle
		}
	})

	if _, err := lipgloss.Fprintln(w, titleStyle.Render(title)); err != nil {
		return err
	}
	if _, err := lipgloss.Fprintln(w, t.String()); err != nil {
		return err
	}
	summary := dimStyle.Render(fmt.Sprintf("%d steps, %d expectations passed", len(rep.Rows), rep.Expectations))
	if failure != nil {
		summary = errStyle.Render("FAILED: " + failure.Error())
	}
	_, err := lipgloss.Fprintln(w, summary)
	return err
}

// writeConfig lists the effective settings and where each one came from.
func writeConfig(w io.Writer, cfg config.AppConfig) error {
	path, _ := config.ConfigPath()
	rows := []struct {
		key string
		val any
	}{
		{"snap.correction_threshold", cfg.Snap.CorrectionThreshold},
		{"snap.active_threshold", cfg.Snap.ActiveThreshold},
		{"snap.directions", cfg.Snap.Directions},
		{"guides.color", cfg.Guides.Color},
		{"guides.width", cfg.Guides.Width},
		{"guides.dash", cfg.Guides.Dash},
		{"export.scale", cfg.Export.Scale},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
		{"logging.source", cfg.Logging.Source},
		{"logging.file", cfg.Logging.File},
	}
	t := newTable("key", "value", "source")
	for _, r := range rows {
		src := "file/default"
		if env, ok := config.EnvOverrideFor(r.key); ok {
			src = "env " + env
		}
		t.Row(r.key, fmt.Sprint(r.val), src)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	})
	if _, err := lipgloss.Fprintln(w, titleStyle.Render("config "+path)); err != nil {
		return err
	}
	_, err := lipgloss.Fprintln(w, t.String())
	return err
}
