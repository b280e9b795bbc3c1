// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scatter

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cpmech/gophon/fconst"
	"github.com/cpmech/gophon/grid"
	"github.com/cpmech/gophon/latt"
	"github.com/cpmech/gophon/occupation"
	"github.com/cpmech/gophon/phonon"
	"github.com/cpmech/gophon/units"
	"github.com/cpmech/gosl/chk"
)

// anharmonicToy returns a single-atom, single-replica system with an
// on-site spring and a nonzero third-order tensor, small enough that the
// kernel's contraction can be reproduced by hand in the test.
func anharmonicToy(tst *testing.T) (*fconst.ForceConstants, *latt.AtomicConfiguration, *latt.ReplicatedConfiguration, *grid.SamplingGrid, *phonon.Result, *occupation.Result) {
	cell := [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}}
	cfg, err := latt.NewAtomicConfiguration(cell, [][3]float64{{0, 0, 0}}, []float64{28.0855}, []string{"Si"})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	repl, err := latt.NewReplicatedConfiguration(cfg, [3]int{1, 1, 1})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	g, err := grid.New([3]int{1, 1, 1})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	second := fconst.NewSecond(1, 1)
	for a := 0; a < 3; a++ {
		second.Set(0, a, 0, 0, a, 5.0)
	}
	third := fconst.NewThird(1, 1)
	third.Set(0, 0, 0, 0, 0, 0, 0, 0, 0.3)
	third.Set(0, 0, 0, 0, 1, 0, 0, 1, 0.1)
	third.Set(0, 1, 0, 0, 0, 0, 0, 2, -0.2)
	fc, err := fconst.New(second, third, 1, 1, false)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	h, err := phonon.Diagonalize(fc, cfg, repl, g, phonon.Options{})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	occ := occupation.Compute(h, 300, true)
	return fc, cfg, repl, g, h, occ
}

// Test_paths01 checks that assembling the off-diagonal matrix Ξ does not
// perturb the bandwidths or the phase space: Γ and P from the NeedXi run
// must be bit-for-bit the values of the plain run.
func Test_paths01(tst *testing.T) {

	chk.PrintTitle("Test Ξ assembly leaves Γ and P unchanged")

	fc, cfg, repl, g, h, occ := anharmonicToy(tst)
	sigma := h.Omega[0][0] // wide enough that |Δω| = ω0 < τ·σ survives screening

	plain, err := Compute(fc, cfg, repl, g, h, occ, Config{SigmaIn: sigma, Mapping: []int{0}})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	withXi, err := Compute(fc, cfg, repl, g, h, occ, Config{SigmaIn: sigma, Mapping: []int{0}, NeedXi: true})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for ik := range plain.Gamma {
		for mu := range plain.Gamma[ik] {
			chk.Float64(tst, "Γ with and without Ξ", 1e-15, plain.Gamma[ik][mu], withXi.Gamma[ik][mu])
			chk.Float64(tst, "P with and without Ξ", 1e-15, plain.Phase[ik][mu], withXi.Phase[ik][mu])
		}
	}
	if withXi.Xi == nil {
		tst.Fatalf("expected Ξ to be assembled when requested")
	}
}

// Test_paths02 recomputes the kernel's bandwidth for the toy system with an
// independent plain-loop contraction: at a single k-point with one replica
// every phase factor is 1, so the projected matrix element reduces to a
// direct triple contraction of the mass-weighted third-order tensor against
// three eigenvectors. The kernel must agree to within accumulation noise.
func Test_paths02(tst *testing.T) {

	chk.PrintTitle("Test kernel against a direct reference contraction")

	fc, cfg, repl, g, h, occ := anharmonicToy(tst)
	sigma := h.Omega[0][0]
	tau := units.DeltaThreshold
	correction := math.Erf(tau / math.Sqrt2) // scalar-σ path renormalization

	res, err := Compute(fc, cfg, repl, g, h, occ, Config{SigmaIn: sigma, Mapping: []int{0}})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	m := h.M
	invSqrtM := 1.0 / math.Sqrt(cfg.Mass[0])
	col := func(n int) []complex128 {
		out := make([]complex128, m)
		for row := 0; row < m; row++ {
			out[row] = h.Eig[0][row][n]
		}
		return out
	}
	conj := func(v []complex128) []complex128 {
		out := make([]complex128, len(v))
		for i, c := range v {
			out[i] = cmplx.Conj(c)
		}
		return out
	}
	contract := func(e0, e1, e2 []complex128) complex128 {
		var sum complex128
		for w := 0; w < m; w++ {
			for ip := 0; ip < m; ip++ {
				for jp := 0; jp < m; jp++ {
					phi := fc.Third.At(0, w, 0, 0, ip, 0, 0, jp) * invSqrtM * invSqrtM * invSqrtM
					if phi == 0 {
						continue
					}
					sum += complex(phi, 0) * e0[w] * e1[ip] * e2[jp]
				}
			}
		}
		return sum
	}

	for mu := 0; mu < m; mu++ {
		w0 := h.Omega[0][mu]
		if w0 == 0 {
			continue
		}
		var gamma float64
		for mup := 0; mup < m; mup++ {
			wp := h.Omega[0][mup]
			if wp == 0 {
				continue
			}
			for mupp := 0; mupp < m; mupp++ {
				wpp := h.Omega[0][mupp]
				if wpp == 0 {
					continue
				}
				// annihilation channel
				d := math.Abs(w0 + wp - wpp)
				if d < tau*sigma {
					amp := contract(col(mu), col(mup), conj(col(mupp)))
					v2 := real(amp)*real(amp) + imag(amp)*imag(amp)
					dens := occ.N[0][mup] - occ.N[0][mupp]
					gamma += v2 * dens / (w0 * wp * wpp) * occupation.GaussianDelta(d, sigma, correction)
				}
				// creation channel
				d = math.Abs(w0 - wp - wpp)
				if d < tau*sigma {
					amp := contract(col(mu), conj(col(mup)), conj(col(mupp)))
					v2 := real(amp)*real(amp) + imag(amp)*imag(amp)
					dens := 0.5 * (1 + occ.N[0][mup] + occ.N[0][mupp])
					gamma += v2 * dens / (w0 * wp * wpp) * occupation.GaussianDelta(d, sigma, correction)
				}
			}
		}
		gamma = gamma / w0 * units.ScatteringPrefactor / float64(g.Nk)
		chk.Float64(tst, "Γ vs reference contraction", 1e-12*math.Max(1, math.Abs(gamma)), res.Gamma[0][mu], gamma)
	}
}
