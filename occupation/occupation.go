// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package occupation computes Bose-Einstein (quantum) or equipartition
// (classical) mode occupations and the adaptive Gaussian broadening derived
// from group-velocity differences.
package occupation

import (
	"math"

	"github.com/cpmech/gophon/phonon"
	"github.com/cpmech/gophon/units"
)

// Shape selects the broadening kernel used downstream by the scattering
// kernel.
type Shape int

const (
	Gauss Shape = iota
	Triangle
	Lorentz
)

// Result holds the mode occupations n ∈ ℝ^{Nk×M}.
type Result struct {
	N [][]float64 // [Nk][M]
}

// Compute returns mode occupations at the given temperature (Kelvin).
// Quantum: n = 1/(exp(ħω/kT)-1), zero where ω=0. Classical: n = kT/(ħω).
func Compute(h *phonon.Result, temperatureK float64, classical bool) *Result {
	out := &Result{N: make([][]float64, h.Nk)}
	kelvinToTHz := units.KelvinToTHz(temperatureK) // kT expressed as a THz-equivalent frequency
	for ik := 0; ik < h.Nk; ik++ {
		row := make([]float64, h.M)
		for n, w := range h.Omega[ik] {
			if w == 0 {
				row[n] = 0
				continue
			}
			if classical {
				row[n] = kelvinToTHz / w
			} else {
				row[n] = 1.0 / (math.Exp(w/kelvinToTHz) - 1.0)
			}
		}
		out.N[ik] = row
	}
	return out
}

// Broadening returns σ derived from the group-velocity difference of the
// two scattering partners, projected onto the reciprocal-lattice basis
// scaled by 1/K. velocityDiff is v_{k',μ'} - v_{k'',μ''} in
// Cartesian THz·nm units; reciprocalBasis holds the reciprocal-lattice
// vectors 2π·(cellInv)ᵀ as rows; kdims is the sampling grid dimensions K.
func Broadening(velocityDiff [3]float64, reciprocalBasis [3][3]float64, kdims [3]int) float64 {
	var sum float64
	for alpha := 0; alpha < 3; alpha++ {
		var proj float64
		for d := 0; d < 3; d++ {
			proj += velocityDiff[d] * reciprocalBasis[alpha][d] / float64(kdims[alpha])
		}
		sum += proj * proj
	}
	return 1.0 / (2 * math.Pi) * math.Sqrt(sum/6.0)
}

// GaussianDelta is the Gaussian broadening kernel, with an optional
// erf(τ/√2) normalization correction (correction=1 disables it).
func GaussianDelta(deltaOmega, sigma, correction float64) float64 {
	if sigma == 0 {
		return 0
	}
	return 1.0 / (sigma * math.Sqrt(2*math.Pi)) * math.Exp(-deltaOmega*deltaOmega/(2*sigma*sigma)) / correction
}

// TriangleDelta is the triangular broadening kernel, zero outside the
// support [-domega,domega].
func TriangleDelta(deltaOmega, domega float64) float64 {
	d := math.Abs(deltaOmega)
	if d >= domega || domega == 0 {
		return 0
	}
	return 1.0 / domega * (1 - d/domega)
}

// LorentzDelta is the Lorentzian broadening kernel used by QHGK:
// (1/π)·σ/(Δω²+σ²). NaN results (σ=Δω=0) are clamped to zero.
func LorentzDelta(deltaOmega, sigma float64) float64 {
	v := 1.0 / math.Pi * sigma / (deltaOmega*deltaOmega + sigma*sigma)
	if math.IsNaN(v) {
		return 0
	}
	return v
}
