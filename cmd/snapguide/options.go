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
	"strings"

	"snapguide/internal/config"
	"snapguide/internal/export"
	"snapguide/internal/snap"
)

// snapOptions converts the snap section of the config. An empty directions
// value allows every edge.
func snapOptions(c config.SnapConfig) (snap.Options, error) {
	opts := snap.Options{
		CorrectionThreshold: c.CorrectionThreshold,
		ActiveThreshold:     c.ActiveThreshold,
		Directions:          snap.DirAll,
	}
	if strings.TrimSpace(c.Directions) != "" {
		d, err := snap.ParseDirection(c.Directions)
		if err != nil {
			return opts, fmt.Errorf("config snap.directions: %w", err)
		}
		if d == 0 {
			return opts, fmt.Errorf("config snap.directions: no edge selected")
		}
		opts.Directions = d
	}
	return opts, nil
}

func exportStyle(c config.AppConfig) export.Style {
	st := export.DefaultStyle()
	if c.Guides.Color != "" {
		st.GuideColor = export.ParseColor(c.Guides.Color)
	}
	if c.Guides.Width > 0 {
		st.GuideWidth = c.Guides.Width
	}
	if c.Guides.Dash != nil {
		st.GuideDash = append([]float64(nil), c.Guides.Dash...)
	}
	if c.Export.Scale > 0 {
		st.Scale = c.Export.Scale
	}
	return st
}
