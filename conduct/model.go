// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package conduct implements the four conductivity closures (RTA, direct
// inverse, self-consistent iterative, QHGK) and the finite-size corrections
// that adjust bandwidths or rescale the resulting tensor.
package conduct

import (
	"math"
)

// FiniteSize selects the finite-size correction applied to RTA and
// self-consistent solvers.
type FiniteSize int

const (
	// FiniteSizeNone applies no correction.
	FiniteSizeNone FiniteSize = iota
	// FiniteSizeMatthiessen combines channel conductances as Γ_eff = Γ + 2|v_α|/L.
	FiniteSizeMatthiessen
	// FiniteSizeCaltech rescales κ by T(Kn) = Kn·(1 - Kn·(1 - e^{-1/Kn})).
	FiniteSizeCaltech
)

// Inputs is the common contract every solver consumes.
type Inputs struct {
	Omega  [][]float64    // [Nk][M], THz
	Vel    [][][3]float64 // [Nk][M][3], real group velocities
	Gamma  [][]float64    // [Nk][M], total bandwidth Γ = Γ_+ + Γ_-
	Xi     [][]float64    // (Nk*M)x(Nk*M) off-diagonal scattering matrix, nil if not assembled
	Cv     [][]float64    // [Nk][M], per-mode heat capacity
	Volume float64        // cell volume, source units
	Nk     int
	M      int

	// FiniteSize corrections (RTA and self-consistent only).
	FiniteSize     FiniteSize
	Length         float64 // L, characteristic length
	Axis           int     // α, the direction the correction is applied along (0,1,2)
}

// flat maps (ik, mode) -> the combined index used by Xi's rows/columns.
func (in *Inputs) flat(ik, mode int) int { return ik*in.M + mode }

// physical reports whether mode (ik,n) is a physical (nonzero-frequency)
// mode with nonzero bandwidth; every solver masks on it.
func (in *Inputs) physical(ik, n int) bool {
	return in.Omega[ik][n] != 0 && in.Gamma[ik][n] != 0
}

// effectiveGamma applies the Matthiessen finite-size correction to Γ along
// in.Axis, or returns Γ unchanged otherwise.
func (in *Inputs) effectiveGamma(ik, n int) float64 {
	g := in.Gamma[ik][n]
	if in.FiniteSize == FiniteSizeMatthiessen && in.Length > 0 {
		v := in.Vel[ik][n][in.Axis]
		if v < 0 {
			v = -v
		}
		g += 2 * v / in.Length
	}
	return g
}

// caltechFactor returns T(Kn) for the Caltech finite-size correction, or 1
// when the correction is not selected.
func (in *Inputs) caltechFactor(ik, n int) float64 {
	if in.FiniteSize != FiniteSizeCaltech || in.Length <= 0 {
		return 1
	}
	g := in.Gamma[ik][n]
	if g == 0 {
		return 1
	}
	v := in.Vel[ik][n][in.Axis]
	if v < 0 {
		v = -v
	}
	kn := v / (in.Length * g)
	if kn == 0 {
		return 1
	}
	return kn * (1 - kn*(1-math.Exp(-1/kn)))
}

// Result is the mode-resolved conductivity tensor κ[n,α,β], left for the
// caller to sum.
type Result struct {
	Kappa [][][3][3]float64 // [Nk][M][3][3]
}

func newResult(nk, m int) Result {
	r := Result{Kappa: make([][][3][3]float64, nk)}
	for ik := range r.Kappa {
		r.Kappa[ik] = make([][3][3]float64, m)
	}
	return r
}

// Sum reduces the mode-resolved tensor to a single 3x3 conductivity tensor.
func (r Result) Sum() (kappa [3][3]float64) {
	for _, row := range r.Kappa {
		for _, k := range row {
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					kappa[a][b] += k[a][b]
				}
			}
		}
	}
	return kappa
}

// unitPrefactor is the 1e22/(V·Nk) factor converting source units
// (eV, Å, amu) into W/(m·K).
func unitPrefactor(volume float64, nk int) float64 {
	return 1e22 / (volume * float64(nk))
}

// Model is a conductivity closure: a named, factory-allocated strategy
// object.
type Model interface {
	// Solve computes the mode-resolved conductivity tensor.
	Solve(in *Inputs) (Result, error)
}

// GetModel returns a newly allocated conductivity solver by name.
// Returns nil for an unknown name.
func GetModel(name string) Model {
	allocator, ok := allocators[name]
	if !ok {
		return nil
	}
	return allocator()
}

// allocators holds all available solvers.
var allocators = map[string]func() Model{
	"rta":             func() Model { return &RTA{} },
	"inverse":         func() Model { return &Inverse{} },
	"self-consistent": func() Model { return &SelfConsistent{} },
	"qhgk":            func() Model { return &QHGK{} },
}
