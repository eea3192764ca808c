/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"snapguide/internal/scene"
)

// Format names an output format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// Formats lists every supported format.
func Formats() []Format { return []Format{FormatSVG, FormatPNG, FormatPDF} }

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")))
	switch f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("export: unsupported format %q", filepath.Ext(path))
}

// Write renders sc in the given format.
func Write(w io.Writer, f Format, sc *scene.Scene, st Style) error {
	switch f {
	case FormatSVG:
		return SVG(w, sc, st)
	case FormatPNG:
		return PNG(w, sc, st)
	case FormatPDF:
		return PDF(w, sc, st)
	}
	return fmt.Errorf("export: unsupported format %q", f)
}

// WriteFile renders sc to path, picking the format from the extension.
func WriteFile(path string, sc *scene.Scene, st Style) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, f, sc, st); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Bundle writes one zip archive holding a render of sc per format, named
// <name>.<format>. No formats means all of them.
func Bundle(outPath, name string, sc *scene.Scene, st Style, formats ...Format) error {
	if len(formats) == 0 {
		formats = Formats()
	}
	zw, f, err := createZip(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, fm := range formats {
		var buf bytes.Buffer
		if err := Write(&buf, fm, sc, st); err != nil {
			_ = zw.Close()
			return err
		}
		if err := addZipFile(zw, name+"."+string(fm), buf.Bytes()); err != nil {
			_ = zw.Close()
			return fmt.Errorf("add %s: %w", fm, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize bundle: %w", err)
	}
	return nil
}

func createZip(outPath string) (*zip.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create bundle: %w", err)
	}
	return zip.NewWriter(f), f, nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
