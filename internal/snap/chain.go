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

	"snapguide/internal/geom"
	"snapguide/internal/scene"
)

// BorderChain keeps the source flush against a chain of two adjacent
// elements: the gap between source and target should match a gap between
// the target and its partner.
type BorderChain struct {
	pair
	guideState
	Partner *Adapter
	Mask    Direction
}

func NewBorderChain(src, dst, partner *Adapter, mask Direction) *BorderChain {
	return &BorderChain{pair: pair{src, dst}, Partner: partner, Mask: mask}
}

func (r *BorderChain) Kind() string { return KindBorderChain }

func (r *BorderChain) Distance(axis int) float64 {
	d, _, _ := r.resolve(axis)
	return d
}

// border is one gap between two boxes. dir encodes axis*2+order, where order
// 0 means the first box lies before the second.
type border struct {
	dir int
	gap float64
}

// borders lists every gap between a and b along an axis on which the two
// boxes overlap in the cross direction.
func borders(a, b geom.Extent) []border {
	var out []border
	for axis := 0; axis < 2; axis++ {
		if !a.Overlaps(b, 1-axis) {
			continue
		}
		if a[axis+2] < b[axis] {
			out = append(out, border{dir: axis * 2, gap: b[axis] - a[axis+2]})
		}
		if a[axis] > b[axis+2] {
			out = append(out, border{dir: axis*2 + 1, gap: a[axis] - b[axis+2]})
		}
	}
	return out
}

// resolve measures the chain along axis. It returns the gap mismatch and the
// connector directions for both hops. The closest partner gap wins, the
// first one listed on ties.
func (r *BorderChain) resolve(axis int) (float64, int, int) {
	s, m, p := r.src.Extent(), r.dst.Extent(), r.Partner.Extent()
	before := s[axis+2] < m[axis]
	after := s[axis] > m[axis+2]
	if before && r.Mask&(DirX1|DirY1) == 0 {
		return inf(), 0, 0
	}
	if after && r.Mask&(DirX0|DirY0) == 0 {
		return inf(), 0, 0
	}
	if !(before || after) || !s.Overlaps(m, 1-axis) {
		return inf(), 0, 0
	}
	gaps := [2]float64{m[axis] - s[axis+2], s[axis] - m[axis+2]}
	i1 := 0
	if gaps[1] > gaps[0] {
		i1 = 1
	}
	bs := borders(m, p)
	if len(bs) == 0 {
		return inf(), 0, 0
	}
	best := 0
	for i := range bs {
		if math.Abs(gaps[i1]-bs[i].gap) < math.Abs(gaps[i1]-bs[best].gap) {
			best = i
		}
	}
	sign := float64(-1 + 2*i1)
	return (gaps[i1] - bs[best].gap) * sign, axis*2 + i1, bs[best].dir
}

// connection draws the hop across the gap between a and b, through the middle
// of their shared span, followed by a gap point.
func connection(a, b geom.Extent, dir int) geom.Polyline {
	axis, order := dir/2, dir%2
	if order == 1 {
		a, b = b, a
	}
	if axis == 0 {
		y := (math.Max(a[geom.Bottom], b[geom.Bottom]) + math.Min(a[geom.Top], b[geom.Top])) / 2
		return geom.Polyline{geom.P(a[geom.Right], y), geom.P(b[geom.Left], y), geom.Gap()}
	}
	x := (math.Max(a[geom.Left], b[geom.Left]) + math.Min(a[geom.Right], b[geom.Right])) / 2
	return geom.Polyline{geom.P(x, a[geom.Top]), geom.P(x, b[geom.Bottom]), geom.Gap()}
}

// Render draws both hops on the axis where the chain is closest to exact.
func (r *BorderChain) Render() geom.Polyline {
	d0, a0, b0 := r.resolve(0)
	d1, a1, b1 := r.resolve(1)
	dir1, dir2 := a0, b0
	if math.Abs(d1) < math.Abs(d0) {
		dir1, dir2 = a1, b1
	} else if math.IsInf(d0, 0) {
		return nil
	}
	s, m, p := r.src.Extent(), r.dst.Extent(), r.Partner.Extent()
	return append(connection(s, m, dir1), connection(m, p, dir2)...)
}

func (r *BorderChain) Guide() scene.Guide { return scene.Guide{Kind: r.Kind(), Line: r.line} }
func (r *BorderChain) show()              { r.setLine(r.Render()) }
