/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"math"

	"snapguide/internal/scene"
)

const (
	// CorrectionThreshold is the largest distance, in device units, that a
	// relation may snap across.
	CorrectionThreshold = 10.0
	// ActiveThreshold is the distance below which a relation's guide is drawn.
	ActiveThreshold = 1.0
)

// Correction is the outcome of the aggregation for one tick. Found reports,
// per axis, whether any relation qualified; a qualifying relation may have
// distance 0 when the layout is already aligned.
type Correction struct {
	Delta [2]float64
	Found [2]bool
}

// FindCorrection returns, per axis, the distance of the closest relation
// under threshold. The first relation wins exact ties. A threshold <= 0
// selects CorrectionThreshold.
//
// Delta uses the source-minus-target convention of Relation.Distance:
// subtract it from the moving coordinates to apply it.
func FindCorrection(cat Catalog, threshold float64) Correction {
	if threshold <= 0 {
		threshold = CorrectionThreshold
	}
	var out Correction
	for axis := 0; axis < 2; axis++ {
		best := math.Inf(1)
		for _, r := range cat {
			d := r.Distance(axis)
			if math.Abs(d) < threshold && math.Abs(d) < math.Abs(best) {
				best = d
			}
		}
		if !math.IsInf(best, 0) {
			out.Delta[axis] = best
			out.Found[axis] = true
		}
	}
	return out
}

// BestCorrection is FindCorrection without the per-axis flags: axes with no
// qualifying relation report 0.
func BestCorrection(cat Catalog, threshold float64) [2]float64 {
	return FindCorrection(cat, threshold).Delta
}

// UpdateActiveVisuals shows the guides of every relation within threshold,
// hides the rest, and returns the visible guides. A threshold <= 0 selects
// ActiveThreshold.
func UpdateActiveVisuals(cat Catalog, threshold float64) []scene.Guide {
	if threshold <= 0 {
		threshold = ActiveThreshold
	}
	for _, r := range cat {
		if Active(r, threshold) {
			r.show()
		} else {
			r.hide()
		}
	}
	return cat.Guides()
}

// HideAll clears the render state of every relation. Call it when a gesture
// ends.
func HideAll(cat Catalog) {
	for _, r := range cat {
		r.hide()
	}
}
