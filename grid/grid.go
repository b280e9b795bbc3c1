// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid implements index <-> multi-index conversion for the
// reciprocal-space sampling grid, wavevector construction and minimum-image
// coordinate wrapping. It is the leaf component: no package here depends on
// any other package in this module.
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// SamplingGrid is the K = (K1,K2,K3) reciprocal-space sampling mesh.
type SamplingGrid struct {
	K  [3]int // dimensions
	Nk int    // K1*K2*K3
}

// New validates dimensions and returns a SamplingGrid.
func New(k [3]int) (*SamplingGrid, error) {
	for i, ki := range k {
		if ki < 1 {
			return nil, chk.Err("grid: dimension K[%d]=%d must be >= 1\n", i, ki)
		}
	}
	return &SamplingGrid{K: k, Nk: k[0] * k[1] * k[2]}, nil
}

// Unravel converts a flat index into a Fortran-order multi-index:
// i1 = ik mod K1, i2 = (ik/K1) mod K2, i3 = ik/(K1*K2). The force-constant
// replica ordering and the k'' construction both depend on this convention.
func (g *SamplingGrid) Unravel(ik int) [3]int {
	i1 := ik % g.K[0]
	i2 := (ik / g.K[0]) % g.K[1]
	i3 := ik / (g.K[0] * g.K[1])
	return [3]int{i1, i2, i3}
}

// Ravel is the inverse of Unravel; it wraps each component into [0,Ki)
// before raveling, so it also implements modular multi-index arithmetic.
func (g *SamplingGrid) Ravel(m [3]int) int {
	w := g.Wrap(m)
	return w[0] + g.K[0]*(w[1]+g.K[1]*w[2])
}

// Wrap reduces a multi-index component-wise into [0, Ki).
func (g *SamplingGrid) Wrap(m [3]int) [3]int {
	var w [3]int
	for d := 0; d < 3; d++ {
		w[d] = ((m[d] % g.K[d]) + g.K[d]) % g.K[d]
	}
	return w
}

// Add returns a+b component-wise, wrapped into the grid (used to build k''
// from k and k' under momentum conservation).
func (g *SamplingGrid) Add(a, b [3]int) [3]int {
	return g.Wrap([3]int{a[0] + b[0], a[1] + b[1], a[2] + b[2]})
}

// Sub returns a-b component-wise, wrapped into the grid.
func (g *SamplingGrid) Sub(a, b [3]int) [3]int {
	return g.Wrap([3]int{a[0] - b[0], a[1] - b[1], a[2] - b[2]})
}

// Reduced returns the reduced (crystallographic) wavevector q = unravel(ik)/K.
func (g *SamplingGrid) Reduced(ik int) [3]float64 {
	m := g.Unravel(ik)
	return [3]float64{
		float64(m[0]) / float64(g.K[0]),
		float64(m[1]) / float64(g.K[1]),
		float64(m[2]) / float64(g.K[2]),
	}
}

// WrapCoordinates transforms a Cartesian displacement Δ into crystallographic
// coordinates via cellInv, subtracts the rounded integer part, and
// transforms back -- the minimum-image convention in the replicated cell.
func WrapCoordinates(delta [3]float64, cell, cellInv [3][3]float64) [3]float64 {
	var frac [3]float64
	for i := 0; i < 3; i++ {
		frac[i] = cellInv[0][i]*delta[0] + cellInv[1][i]*delta[1] + cellInv[2][i]*delta[2]
		frac[i] -= math.Round(frac[i])
	}
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = frac[0]*cell[0][i] + frac[1]*cell[1][i] + frac[2]*cell[2][i]
	}
	return out
}
