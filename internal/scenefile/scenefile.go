/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scenefile reads and writes scene documents. A document is YAML and
// is checked against an embedded JSON schema before it is decoded.
package scenefile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"snapguide/internal/geom"
	"snapguide/internal/scene"
)

//go:embed scene.schema.json
var schemaJSON []byte

var schema = gojsonschema.NewBytesLoader(schemaJSON)

// Document mirrors the on-disk layout.
type Document struct {
	Figure FigureDoc  `yaml:"figure"`
	Panels []PanelDoc `yaml:"panels,omitempty"`
	Shapes []ShapeDoc `yaml:"shapes,omitempty"`
	Labels []LabelDoc `yaml:"labels,omitempty"`
}

type FigureDoc struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PanelDoc struct {
	ID         string    `yaml:"id"`
	Position   []float64 `yaml:"position,flow"`
	XLim       []float64 `yaml:"xlim,flow,omitempty"`
	YLim       []float64 `yaml:"ylim,flow,omitempty"`
	Aspect     float64   `yaml:"aspect,omitempty"`
	Adjustable string    `yaml:"adjustable,omitempty"`
	Internal   bool      `yaml:"internal,omitempty"`
}

// ShapeDoc describes a rectangle (x, y is the min corner) or an ellipse
// (x, y is the center).
type ShapeDoc struct {
	ID       string  `yaml:"id"`
	Kind     string  `yaml:"kind"`
	Panel    string  `yaml:"panel,omitempty"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Internal bool    `yaml:"internal,omitempty"`
}

type LabelDoc struct {
	ID       string  `yaml:"id"`
	Panel    string  `yaml:"panel,omitempty"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Text     string  `yaml:"text,omitempty"`
	Box      *BoxDoc `yaml:"box,omitempty"`
	Internal bool    `yaml:"internal,omitempty"`
}

type BoxDoc struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "scene document invalid: " + strings.Join(e.Problems, "; ")
}

// Validate checks raw YAML against the scene schema.
func Validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}
	if raw == nil {
		return &ValidationError{Problems: []string{"empty document"}}
	}
	res, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("validate scene: %w", err)
	}
	if res.Valid() {
		return nil
	}
	ve := &ValidationError{}
	for _, e := range res.Errors() {
		ve.Problems = append(ve.Problems, e.String())
	}
	return ve
}

// Decode validates data and builds the scene it describes.
func Decode(data []byte) (*scene.Scene, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return doc.Build()
}

// Load reads and decodes the scene document at path.
func Load(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

var errDuplicateID = errors.New("duplicate element id")

// Build turns the document into a scene. Panels are added first, then shapes,
// then labels, each in document order.
func (d *Document) Build() (*scene.Scene, error) {
	sc := scene.New(d.Figure.Width, d.Figure.Height)
	seen := map[string]bool{}
	claim := func(id string) error {
		if seen[id] {
			return fmt.Errorf("%w: %q", errDuplicateID, id)
		}
		seen[id] = true
		return nil
	}

	byID := map[string]*scene.Panel{}
	for _, p := range d.Panels {
		if err := claim(p.ID); err != nil {
			return nil, err
		}
		if len(p.Position) != 4 {
			return nil, fmt.Errorf("panel %q: position needs 4 values", p.ID)
		}
		panel := &scene.Panel{
			Base:       scene.Base{Name: p.ID, Synthetic: p.Internal},
			Position:   geom.R(p.Position[0], p.Position[1], p.Position[2], p.Position[3]),
			XLim:       limits(p.XLim),
			YLim:       limits(p.YLim),
			Aspect:     p.Aspect,
			Adjustable: p.Adjustable,
		}
		byID[p.ID] = panel
		sc.Add(panel)
	}
	parent := func(owner, id string) (*scene.Panel, error) {
		if id == "" {
			return nil, nil
		}
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%s: unknown panel %q", owner, id)
		}
		return p, nil
	}

	for _, s := range d.Shapes {
		if err := claim(s.ID); err != nil {
			return nil, err
		}
		p, err := parent("shape "+s.ID, s.Panel)
		if err != nil {
			return nil, err
		}
		base := scene.Base{Name: s.ID, Synthetic: s.Internal}
		switch s.Kind {
		case "rectangle":
			sc.Add(&scene.Rectangle{Base: base, Rect: geom.R(s.X, s.Y, s.Width, s.Height), Parent: p})
		case "ellipse":
			sc.Add(&scene.Ellipse{Base: base, Center: geom.P(s.X, s.Y), W: s.Width, H: s.Height, Parent: p})
		default:
			return nil, fmt.Errorf("shape %q: unknown kind %q", s.ID, s.Kind)
		}
	}

	for _, l := range d.Labels {
		if err := claim(l.ID); err != nil {
			return nil, err
		}
		p, err := parent("label "+l.ID, l.Panel)
		if err != nil {
			return nil, err
		}
		lbl := &scene.Label{Base: scene.Base{Name: l.ID, Synthetic: l.Internal}, Pos: geom.P(l.X, l.Y), Text: l.Text, Parent: p}
		if l.Box != nil {
			lbl.Box = &geom.Size{W: l.Box.Width, H: l.Box.Height}
		}
		sc.Add(lbl)
	}
	return sc, nil
}

func limits(v []float64) [2]float64 {
	if len(v) != 2 {
		return [2]float64{0, 1}
	}
	return [2]float64{v[0], v[1]}
}

// FromScene captures the current state of sc as a document.
func FromScene(sc *scene.Scene) *Document {
	d := &Document{}
	if sc.Figure != nil {
		d.Figure = FigureDoc{Width: sc.Figure.Width, Height: sc.Figure.Height}
	}
	parentID := func(p *scene.Panel) string {
		if p == nil {
			return ""
		}
		return p.ID()
	}
	for _, el := range sc.Elements() {
		switch e := el.(type) {
		case *scene.Panel:
			r := e.Position
			d.Panels = append(d.Panels, PanelDoc{
				ID: e.ID(), Position: []float64{r.X, r.Y, r.W, r.H},
				XLim: e.XLim[:], YLim: e.YLim[:],
				Aspect: e.Aspect, Adjustable: e.Adjustable, Internal: e.Internal(),
			})
		case *scene.Rectangle:
			d.Shapes = append(d.Shapes, ShapeDoc{
				ID: e.ID(), Kind: "rectangle", Panel: parentID(e.Parent),
				X: e.Rect.X, Y: e.Rect.Y, Width: e.Rect.W, Height: e.Rect.H, Internal: e.Internal(),
			})
		case *scene.Ellipse:
			d.Shapes = append(d.Shapes, ShapeDoc{
				ID: e.ID(), Kind: "ellipse", Panel: parentID(e.Parent),
				X: e.Center.X, Y: e.Center.Y, Width: e.W, Height: e.H, Internal: e.Internal(),
			})
		case *scene.Label:
			ld := LabelDoc{ID: e.ID(), Panel: parentID(e.Parent), X: e.Pos.X, Y: e.Pos.Y, Text: e.Text, Internal: e.Internal()}
			if e.Box != nil {
				ld.Box = &BoxDoc{Width: e.Box.W, Height: e.Box.H}
			}
			d.Labels = append(d.Labels, ld)
		}
	}
	return d
}

// Encode writes sc as a YAML document.
func Encode(sc *scene.Scene) ([]byte, error) {
	return yaml.Marshal(FromScene(sc))
}
