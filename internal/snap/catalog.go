/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"snapguide/internal/geom"
	"snapguide/internal/scene"
)

// Scene is the part of the host the catalog builder reads.
type Scene interface {
	Panels() []*scene.Panel
	Labels() []*scene.Label
}

// Catalog is the candidate list for one tick.
type Catalog []Relation

// dimensionOrder is the order SameDimension candidates are listed in.
var dimensionOrder = [4]int{geom.Left, geom.Right, geom.Bottom, geom.Top}

// BuildCatalog lists every relation between the manipulated targets and the
// rest of sc. Labels align with other labels. Every other kind aligns with
// the panels that are not being manipulated. noHeight suppresses dimension
// matching, which is what a whole-element move wants.
func BuildCatalog(targets []*Adapter, dir Direction, noHeight bool, sc Scene) Catalog {
	manipulated := make(map[scene.Element]bool, len(targets))
	for _, t := range targets {
		manipulated[t.Element()] = true
	}

	var others []*Adapter
	for _, p := range sc.Panels() {
		if !manipulated[p] {
			others = append(others, MustAdapter(p, nil))
		}
	}
	var labels []*Adapter

	var cat Catalog
	for _, t := range targets {
		if t.Element().Kind() == scene.KindLabel {
			if labels == nil {
				labels = otherLabels(sc, manipulated)
			}
			for _, l := range labels {
				cat = append(cat, NewSamePosition(t, l, 0), NewSamePosition(t, l, 1))
			}
			continue
		}
		for _, o := range others {
			for _, e := range dir.Edges() {
				cat = append(cat, NewSameEdge(t, o, e))
			}
			if !noHeight {
				for _, e := range dimensionOrder {
					if dir.Has(EdgeBit(e)) {
						cat = append(cat, NewSameDimension(t, o, e))
					}
				}
			}
			for _, o2 := range others {
				if o2 != o {
					cat = append(cat, NewBorderChain(t, o, o2, dir))
				}
			}
		}
	}
	return cat
}

func otherLabels(sc Scene, manipulated map[scene.Element]bool) []*Adapter {
	out := []*Adapter{}
	for _, l := range sc.Labels() {
		if !manipulated[l] {
			out = append(out, MustAdapter(l, nil))
		}
	}
	return out
}

// Guides returns the guides of the currently visible relations.
func (c Catalog) Guides() []scene.Guide {
	var out []scene.Guide
	for _, r := range c {
		if r.Visible() {
			out = append(out, r.Guide())
		}
	}
	return out
}

// Count reports how many relations of each kind the catalog holds.
func (c Catalog) Count() map[string]int {
	out := make(map[string]int, 4)
	for _, r := range c {
		out[r.Kind()]++
	}
	return out
}
