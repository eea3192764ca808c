/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type SnapConfig struct {
	CorrectionThreshold float64 `yaml:"correction_threshold"`
	ActiveThreshold     float64 `yaml:"active_threshold"`
	Directions          string  `yaml:"directions"` // comma separated edges: x0,y0,x1,y1
}

type GuidesConfig struct {
	Color string    `yaml:"color"`
	Width float64   `yaml:"width"`
	Dash  []float64 `yaml:"dash,flow"`
}

type ExportConfig struct {
	Scale float64 `yaml:"scale"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Snap          SnapConfig    `yaml:"snap"`
	Guides        GuidesConfig  `yaml:"guides"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Snap:          SnapConfig{CorrectionThreshold: 10, ActiveThreshold: 1, Directions: "x0,y0,x1,y1"},
		Guides:        GuidesConfig{Color: "#ff0000", Width: 1, Dash: []float64{4, 2}},
		Export:        ExportConfig{Scale: 1},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvSnapThreshold       = "SNG_SNAP_THRESHOLD"
	EnvSnapActiveThreshold = "SNG_SNAP_ACTIVE_THRESHOLD"
	EnvSnapDirections      = "SNG_SNAP_DIRECTIONS"
	EnvExportScale         = "SNG_EXPORT_SCALE"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "SNG_LOG_LEVEL"
	EnvLogFormat = "SNG_LOG_FORMAT"
	EnvLogSource = "SNG_LOG_SOURCE"
	EnvLogFile   = "SNG_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "SnapGuide")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "SnapGuide")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "snapguide")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	return cfg, err
}

// LoadFile is Load for an explicit path. A missing file yields the defaults
// with env overrides and an error wrapping os.ErrNotExist.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	mergeInto(&cfg, &fileCfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path.
func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// snap
	if src.Snap.CorrectionThreshold > 0 {
		dst.Snap.CorrectionThreshold = src.Snap.CorrectionThreshold
	}
	if src.Snap.ActiveThreshold > 0 {
		dst.Snap.ActiveThreshold = src.Snap.ActiveThreshold
	}
	if strings.TrimSpace(src.Snap.Directions) != "" {
		dst.Snap.Directions = strings.ToLower(strings.TrimSpace(src.Snap.Directions))
	}
	// guides
	if strings.TrimSpace(src.Guides.Color) != "" {
		dst.Guides.Color = strings.TrimSpace(src.Guides.Color)
	}
	if src.Guides.Width > 0 {
		dst.Guides.Width = src.Guides.Width
	}
	if src.Guides.Dash != nil {
		dst.Guides.Dash = src.Guides.Dash
	}
	if src.Export.Scale > 0 {
		dst.Export.Scale = src.Export.Scale
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func envFloat(key string) (float64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

func applyEnvOverrides(cfg *AppConfig) {
	if f, ok := envFloat(EnvSnapThreshold); ok {
		cfg.Snap.CorrectionThreshold = f
	}
	if f, ok := envFloat(EnvSnapActiveThreshold); ok {
		cfg.Snap.ActiveThreshold = f
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapDirections)); v != "" {
		cfg.Snap.Directions = strings.ToLower(v)
	}
	if f, ok := envFloat(EnvExportScale); ok {
		cfg.Export.Scale = f
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := ""
	switch key {
	case "snap.correction_threshold":
		env = EnvSnapThreshold
	case "snap.active_threshold":
		env = EnvSnapActiveThreshold
	case "snap.directions":
		env = EnvSnapDirections
	case "export.scale":
		env = EnvExportScale
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	}
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
