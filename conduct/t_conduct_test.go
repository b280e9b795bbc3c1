// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conduct

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func toyInputs() *Inputs {
	return &Inputs{
		Omega: [][]float64{{0, 3.0, 4.0}},
		Vel:   [][][3]float64{{{0, 0, 0}, {1.0, 0, 0}, {0.5, 0.5, 0}}},
		Gamma: [][]float64{{0, 0.1, 0.2}},
		Cv:    [][]float64{{0, 1.0, 1.0}},
		Volume: 160.0,
		Nk:    1,
		M:     3,
	}
}

func Test_conduct01(tst *testing.T) {

	chk.PrintTitle("Test RTA is non-negative on its diagonal")

	in := toyInputs()
	rta := &RTA{}
	res, err := rta.Solve(in)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for _, row := range res.Kappa {
		for _, k := range row {
			for a := 0; a < 3; a++ {
				if k[a][a] < 0 {
					tst.Fatalf("expected a non-negative RTA diagonal entry, got %v", k[a][a])
				}
			}
		}
	}
	// acoustic mode (ω=0) must be masked out entirely.
	chk.Float64(tst, "κ on acoustic mode", 1e-15, res.Kappa[0][0][0][0], 0)
}

func Test_conduct02(tst *testing.T) {

	chk.PrintTitle("Test GetModel factory resolves every known solver name")

	for _, name := range []string{"rta", "inverse", "self-consistent", "qhgk"} {
		if GetModel(name) == nil {
			tst.Fatalf("expected a non-nil model for %q", name)
		}
	}
	if GetModel("does-not-exist") != nil {
		tst.Fatalf("expected a nil model for an unknown solver name")
	}
}

func Test_conduct03(tst *testing.T) {

	chk.PrintTitle("Test Matthiessen and Caltech finite-size correction helpers")

	// reuse occupation/phonon package types indirectly through HeatCapacity
	// would require importing those packages; the zero-ω masking is
	// exercised end-to-end in transport's tests instead. Here we only
	// check the finite-size correction helpers directly.
	in := toyInputs()
	in.FiniteSize = FiniteSizeMatthiessen
	in.Length = 100.0
	in.Axis = 0
	g1 := in.effectiveGamma(0, 1)
	if g1 <= in.Gamma[0][1] {
		tst.Fatalf("expected Matthiessen correction to increase Γ, got %v vs base %v", g1, in.Gamma[0][1])
	}

	in2 := toyInputs()
	in2.FiniteSize = FiniteSizeCaltech
	in2.Length = 100.0
	in2.Axis = 0
	factor := in2.caltechFactor(0, 1)
	if factor <= 0 || factor > 1 {
		tst.Fatalf("expected a Caltech factor in (0,1], got %v", factor)
	}
}

func Test_conduct04(tst *testing.T) {

	chk.PrintTitle("Test self-consistent solver converges and reaches a fixed point")

	in := toyInputs()
	in.Xi = make([][]float64, 3)
	for i := range in.Xi {
		in.Xi[i] = make([]float64, 3)
	}
	in.Xi[1][2] = 0.01
	in.Xi[2][1] = 0.01

	sc := &SelfConsistent{Tolerance: 1e-12}
	res, err := sc.Solve(in)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if sc.State != StateConverged && sc.State != StateHitCap {
		tst.Fatalf("expected the solver to settle into a terminal state, got %v", sc.State)
	}
	_ = res

	// fixpoint property: feeding Λ* back in as the initial
	// guess reproduces it after one more iteration.
	next := sc.Step(in, sc.Lambda)
	for i := range next {
		for a := 0; a < 3; a++ {
			chk.Float64(tst, "Λ*(t+1) == Λ*(t)", 1e-8, next[i][a], sc.Lambda[i][a])
		}
	}
}

func Test_conduct05(tst *testing.T) {

	chk.PrintTitle("Test inverse solver on the reduced physical subspace")

	// mode 0 is a masked acoustic mode (ω=0, Γ=0): its Σ row and column
	// are identically zero, so the solve must succeed on the reduced
	// system rather than hitting a singular full matrix.
	in := toyInputs()
	in.Xi = make([][]float64, 3)
	for i := range in.Xi {
		in.Xi[i] = make([]float64, 3)
	}
	in.Xi[1][2] = 0.01
	in.Xi[2][1] = 0.01

	inv := &Inverse{}
	res, err := inv.Solve(in)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for a := 0; a < 3; a++ {
		chk.Float64(tst, "κ on the masked acoustic mode", 1e-15, res.Kappa[0][0][a][a], 0)
		chk.Float64(tst, "Λ on the masked acoustic mode", 1e-15, inv.Lambda[0][a], 0)
	}

	// residual check on the physical modes: (diag(Γ) - Ξ)·Λ == v.
	for mu := 1; mu < 3; mu++ {
		row := in.flat(0, mu)
		for a := 0; a < 3; a++ {
			lhs := in.Gamma[0][mu] * inv.Lambda[row][a]
			for col := 0; col < 3; col++ {
				lhs -= in.Xi[row][col] * inv.Lambda[col][a]
			}
			chk.Float64(tst, "Σ·Λ == v", 1e-10, lhs, in.Vel[0][mu][a])
		}
	}

	// with Ξ identically zero the inverse solution is Λ = v/Γ, so the
	// conductivity must coincide with RTA.
	in2 := toyInputs()
	in2.Xi = make([][]float64, 3)
	for i := range in2.Xi {
		in2.Xi[i] = make([]float64, 3)
	}
	invRes, err := (&Inverse{}).Solve(in2)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	rtaRes, err := (&RTA{}).Solve(toyInputs())
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for ik := range invRes.Kappa {
		for mu := range invRes.Kappa[ik] {
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					chk.Float64(tst, "inverse == RTA at Ξ=0", 1e-12, invRes.Kappa[ik][mu][a][b], rtaRes.Kappa[ik][mu][a][b])
				}
			}
		}
	}
}
