// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package phonon implements the harmonic diagonalizer: Fourier assembly of
// the mass-weighted dynamical matrix at arbitrary wavevectors, Hermitian
// diagonalization, group velocities and the mode-pair flux operator.
package phonon

import (
	"math"
	"math/cmplx"

	"github.com/cpmech/gophon/fconst"
	"github.com/cpmech/gophon/grid"
	"github.com/cpmech/gophon/latt"
	"github.com/cpmech/gophon/units"
)

// massWeightScale is the unit-conversion constant that brings the
// mass-weighted second-order tensor (eV/Å², after dividing by amu masses)
// into the internal frequency-squared unit; the frequency sqrt|λ|/(2π) is
// then converted to THz by units.ToTHz.
func massWeightScale() float64 {
	return units.MassFactor * (1.0 / (units.ElectronCharge * units.Avogadro / 10) / units.RydbergOverEV) *
		(units.BohrOverAngstrom * units.BohrOverAngstrom)
}

// Single is the per-wavevector diagonalization result.
type Single struct {
	Omega  []float64        // length M, signed THz frequencies, ascending |λ| order is NOT guaranteed; ascending λ order is
	Lambda []float64        // length M, raw eigenvalues in ascending order
	Eig    [][]complex128   // M×M, columns are eigenvectors
	Vel    [][3]float64     // M×3, real group velocities (THz·nm)
	raw   []float64        // un-rescaled ω used internally by the velocity formula
	dD    [3][][]complex128 // ∂D/∂q_α, kept for lazy flux-operator computation
	flux  [][][3]complex128 // memoized FluxOperator result
}

// Options controls the short-range/folded-dynamical-matrix mode used for
// amorphous or nanostructured systems.
type Options struct {
	DistanceThreshold float64 // <=0 disables folding
}

// PhaseFactors returns χ_l(q) for every replica l, and the Cartesian
// wavevector 2π·cellInv·q used to build it. Exported for reuse by the
// scattering kernel, which needs the same χ(k') / χ(k'') phase tables.
func PhaseFactors(cfg *latt.AtomicConfiguration, repl *latt.ReplicatedConfiguration, q [3]float64) (chi []complex128, kpoint [3]float64) {
	inv := cfg.CellInverse()
	for i := 0; i < 3; i++ {
		kpoint[i] = 2 * math.Pi * (inv[i][0]*q[0] + inv[i][1]*q[1] + inv[i][2]*q[2])
	}
	chi = make([]complex128, repl.Nrep)
	isGamma := q[0] == 0 && q[1] == 0 && q[2] == 0
	for l := 0; l < repl.Nrep; l++ {
		if isGamma {
			chi[l] = 1
			continue
		}
		phase := repl.R[l][0]*kpoint[0] + repl.R[l][1]*kpoint[1] + repl.R[l][2]*kpoint[2]
		chi[l] = cmplx.Exp(complex(0, phase))
	}
	return chi, kpoint
}

// withinThreshold reports whether the minimum-image distance between atom i
// (reference cell) and atom j (replica l) is within distanceThreshold, used
// by the folded/short-range dynamical-matrix mode.
func withinThreshold(cfg *latt.AtomicConfiguration, repl *latt.ReplicatedConfiguration, i, j, l int, threshold float64) bool {
	if threshold <= 0 {
		return true
	}
	cell := cfg.Cell
	cellInv := cfg.CellInverse()
	var d [3]float64
	for c := 0; c < 3; c++ {
		d[c] = cfg.Pos[i][c] - (cfg.Pos[j][c] + repl.R[l][c])
	}
	w := grid.WrapCoordinates(d, cell, cellInv)
	dist := math.Sqrt(w[0]*w[0] + w[1]*w[1] + w[2]*w[2])
	return dist <= threshold
}

// DynamicalMatrix assembles D(q) and ∂D/∂q_α for α=0,1,2 at reduced
// wavevector q: phase-sum over replicas, mass weighting, unit conversion.
// The derivative matrices pre-multiply each term by i·R_l before the sum.
func DynamicalMatrix(fc *fconst.ForceConstants, cfg *latt.AtomicConfiguration, repl *latt.ReplicatedConfiguration, q [3]float64, opts Options) (d [][]complex128, dd [3][][]complex128) {
	nat := cfg.Nat()
	m := 3 * nat
	chi, _ := PhaseFactors(cfg, repl, q)

	d = make([][]complex128, m)
	for i := range d {
		d[i] = make([]complex128, m)
	}
	for a := 0; a < 3; a++ {
		dd[a] = make([][]complex128, m)
		for i := range dd[a] {
			dd[a][i] = make([]complex128, m)
		}
	}

	mass := make([]float64, nat)
	for i := range mass {
		mass[i] = math.Sqrt(cfg.Mass[i])
	}
	scale := massWeightScale()

	for i := 0; i < nat; i++ {
		for j := 0; j < nat; j++ {
			massNorm := scale / (mass[i] * mass[j])
			for l := 0; l < repl.Nrep; l++ {
				if !withinThreshold(cfg, repl, i, j, l, opts.DistanceThreshold) {
					continue
				}
				c := chi[l]
				for a := 0; a < 3; a++ {
					row := 3*i + a
					for b := 0; b < 3; b++ {
						col := 3*j + b
						phi := fc.Second.At(i, a, l, j, b)
						d[row][col] += complex(phi*massNorm, 0) * c
						for alpha := 0; alpha < 3; alpha++ {
							pre := complex(0, repl.R[l][alpha]) * c
							dd[alpha][row][col] += pre * complex(phi*massNorm, 0)
						}
					}
				}
			}
		}
	}
	return d, dd
}

// Diagonalize1 eigendecomposes the matrix assembled by DynamicalMatrix and
// derives signed frequencies ω = sign(λ)·√|λ|/(2π) and group velocities
// v = ⟨e|∂D/∂q|e⟩/(2·2π·ω). At q=0 the matrix is real symmetric (every χ
// is 1) and the cheaper symmetric solver is dispatched; this also covers
// the amorphous Nrep==1 shortcut, which is always evaluated at q=0.
func Diagonalize1(fc *fconst.ForceConstants, cfg *latt.AtomicConfiguration, repl *latt.ReplicatedConfiguration, q [3]float64, opts Options) (*Single, error) {
	d, dd := DynamicalMatrix(fc, cfg, repl, q, opts)
	var vals []float64
	var vecs [][]complex128
	var err error
	if q == [3]float64{} {
		vals, vecs, err = realSymmetricEigen(d)
	} else {
		vals, vecs, err = hermitianEigen(d)
	}
	if err != nil {
		return nil, err
	}
	m := len(vals)
	raw := make([]float64, m)
	omega := make([]float64, m)
	for n := 0; n < m; n++ {
		sign := 1.0
		if vals[n] < 0 {
			sign = -1.0
		}
		raw[n] = sign * math.Sqrt(math.Abs(vals[n])) / (2 * math.Pi)
		omega[n] = raw[n] * units.ToTHz
	}

	vel := make([][3]float64, m)
	for n := 0; n < m; n++ {
		if raw[n] == 0 {
			continue
		}
		for alpha := 0; alpha < 3; alpha++ {
			v := bracket(vecs[n], dd[alpha], vecs[n])
			v /= complex(2*(2*math.Pi)*raw[n], 0)
			// only the real part is kept; the imaginary part vanishes to
			// numerical noise for an exact Hermitian construction and is
			// not stored anywhere.
			vel[n][alpha] = real(v) * units.ToTHz * units.Bohr2nm
		}
	}

	eig := make([][]complex128, m)
	for i := 0; i < m; i++ {
		eig[i] = make([]complex128, m)
	}
	for col := 0; col < m; col++ {
		for row := 0; row < m; row++ {
			eig[row][col] = vecs[col][row]
		}
	}

	return &Single{Omega: omega, Lambda: vals, Eig: eig, Vel: vel, raw: raw, dD: dd}, nil
}

// bracket computes ⟨a|op|b⟩ = Σ_ij conj(a_i)·op_ij·b_j.
func bracket(a []complex128, op [][]complex128, b []complex128) complex128 {
	m := len(a)
	var sum complex128
	for i := 0; i < m; i++ {
		var rowsum complex128
		for j := 0; j < m; j++ {
			rowsum += op[i][j] * b[j]
		}
		sum += cmplx.Conj(a[i]) * rowsum
	}
	return sum
}

// FluxOperator computes S[m,n,α] = Σ conj(e_m)·∂D/∂q_α·e_n for every mode
// pair, used by the QHGK conductivity solver. It is computed on first call
// and memoized.
func (s *Single) FluxOperator() [][][3]complex128 {
	if s.flux != nil {
		return s.flux
	}
	m := len(s.Omega)
	out := make([][][3]complex128, m)
	cols := make([][]complex128, m)
	for n := 0; n < m; n++ {
		cols[n] = make([]complex128, m)
		for row := 0; row < m; row++ {
			cols[n][row] = s.Eig[row][n]
		}
	}
	for mi := 0; mi < m; mi++ {
		out[mi] = make([][3]complex128, m)
		for ni := 0; ni < m; ni++ {
			for alpha := 0; alpha < 3; alpha++ {
				out[mi][ni][alpha] = bracket(cols[mi], s.dD[alpha], cols[ni])
			}
		}
	}
	s.flux = out
	return out
}
