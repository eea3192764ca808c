/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom holds the small amount of 2D geometry shared by the scene model,
// the snapping engine and the exporters. Values are float64 so that the
// forward/inverse transform round trip stays well inside editor tolerances.
package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Edge indices into an Extent.
const (
	Left   = 0 // x0
	Bottom = 1 // y0
	Right  = 2 // x1
	Top    = 3 // y1
)

// ErrSingular is returned when a transform has no inverse.
var ErrSingular = errors.New("geom: singular transform")

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// P is shorthand for Pt{x, y}.
func P(x, y float64) Pt { return Pt{X: x, Y: y} }

func (p Pt) Add(q Pt) Pt { return Pt{p.X + q.X, p.Y + q.Y} }
func (p Pt) Sub(q Pt) Pt { return Pt{p.X - q.X, p.Y - q.Y} }
func (p Pt) Mid(q Pt) Pt { return Pt{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }

// Coord returns the x (axis 0) or y (axis 1) coordinate.
func (p Pt) Coord(axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// WithCoord returns p with the given axis (0=x, 1=y) replaced by v.
func (p Pt) WithCoord(axis int, v float64) Pt {
	if axis == 0 {
		p.X = v
	} else {
		p.Y = v
	}
	return p
}

// Gap returns the break marker used inside a Polyline.
func Gap() Pt { return Pt{math.NaN(), math.NaN()} }

// IsGap reports whether p is a poly-line break.
func (p Pt) IsGap() bool { return math.IsNaN(p.X) || math.IsNaN(p.Y) }

// Size is a width/height pair.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

// Extent is an axis-aligned box [xmin, ymin, xmax, ymax], indexed by edge.
type Extent [4]float64

// ExtentOf returns the bounding box of the given points. Gap points are skipped.
func ExtentOf(pts ...Pt) Extent {
	e := Extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		if p.IsGap() {
			continue
		}
		e[Left] = math.Min(e[Left], p.X)
		e[Bottom] = math.Min(e[Bottom], p.Y)
		e[Right] = math.Max(e[Right], p.X)
		e[Top] = math.Max(e[Top], p.Y)
	}
	return e
}

func (e Extent) W() float64 { return e[Right] - e[Left] }
func (e Extent) H() float64 { return e[Top] - e[Bottom] }

// Center returns the middle of the box.
func (e Extent) Center() Pt { return Pt{(e[Left] + e[Right]) / 2, (e[Bottom] + e[Top]) / 2} }

// Overlaps reports whether e and o share any span along axis (0=x, 1=y).
// Touching spans count as overlapping.
func (e Extent) Overlaps(o Extent, axis int) bool {
	return !(e[axis+2] < o[axis] || e[axis] > o[axis+2])
}

// Union returns the minimal extent containing both.
func (e Extent) Union(o Extent) Extent {
	return Extent{
		math.Min(e[Left], o[Left]), math.Min(e[Bottom], o[Bottom]),
		math.Max(e[Right], o[Right]), math.Max(e[Top], o[Top]),
	}
}

// Empty reports whether the extent has never been grown.
func (e Extent) Empty() bool { return e[Left] > e[Right] || e[Bottom] > e[Top] }

// Polyline is a sequence of vertices; Gap points split it into separate runs.
type Polyline []Pt

// Segments splits the poly-line at gaps and drops runs shorter than two points.
func (l Polyline) Segments() [][]Pt {
	var out [][]Pt
	var cur []Pt
	flush := func() {
		if len(cur) >= 2 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, p := range l {
		if p.IsGap() {
			flush()
			continue
		}
		cur = append(cur, p)
	}
	flush()
	return out
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
// stored as [a b c d e f].
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }

// Inverse returns the inverse transform, or ErrSingular.
func (m Affine2D) Inverse() (Affine2D, error) {
	if m.A*m.D-m.B*m.C == 0 {
		return Identity, ErrSingular
	}
	fwd := mat.NewDense(3, 3, []float64{
		m.A, m.C, m.E,
		m.B, m.D, m.F,
		0, 0, 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(fwd); err != nil {
		return Identity, errors.Join(ErrSingular, err)
	}
	return Affine2D{
		A: inv.At(0, 0), C: inv.At(0, 1), E: inv.At(0, 2),
		B: inv.At(1, 0), D: inv.At(1, 1), F: inv.At(1, 2),
	}, nil
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
