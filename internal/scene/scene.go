/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

// Scene is the element list of one figure plus its guide overlay.
type Scene struct {
	Figure  *Figure
	Overlay Overlay
	elems   []Element
	byID    map[string]Element
}

// New creates an empty scene on a figure of w x h device pixels.
func New(w, h float64) *Scene {
	return &Scene{Figure: &Figure{Width: w, Height: h}, byID: map[string]Element{}}
}

type attacher interface{ attach(*Figure) }

// Add appends elements in drawing order and binds them to the scene's figure.
// An element whose ID is already present replaces the lookup entry but keeps
// both in the drawing list.
func (s *Scene) Add(els ...Element) {
	if s.byID == nil {
		s.byID = map[string]Element{}
	}
	for _, el := range els {
		if a, ok := el.(attacher); ok {
			a.attach(s.Figure)
		}
		s.elems = append(s.elems, el)
		if id := el.ID(); id != "" {
			s.byID[id] = el
		}
	}
}

// Elements returns all elements in drawing order.
func (s *Scene) Elements() []Element { return append([]Element(nil), s.elems...) }

// Find looks an element up by ID.
func (s *Scene) Find(id string) (Element, bool) {
	el, ok := s.byID[id]
	return el, ok
}

// Panels returns the panel regions in drawing order.
func (s *Scene) Panels() []*Panel {
	var out []*Panel
	for _, el := range s.elems {
		if p, ok := el.(*Panel); ok {
			out = append(out, p)
		}
	}
	return out
}

// Labels returns the text labels in drawing order.
func (s *Scene) Labels() []*Label {
	var out []*Label
	for _, el := range s.elems {
		if l, ok := el.(*Label); ok {
			out = append(out, l)
		}
	}
	return out
}

// Shapes returns rectangles and ellipses in drawing order.
func (s *Scene) Shapes() []Element {
	var out []Element
	for _, el := range s.elems {
		switch el.(type) {
		case *Rectangle, *Ellipse:
			out = append(out, el)
		}
	}
	return out
}
