// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scatter

import (
	"testing"

	"github.com/cpmech/gophon/fconst"
	"github.com/cpmech/gophon/grid"
	"github.com/cpmech/gophon/latt"
	"github.com/cpmech/gophon/occupation"
	"github.com/cpmech/gophon/phonon"
	"github.com/cpmech/gosl/chk"
)

// Test_scatter01 checks momentum conservation: for every k, k' pair on a
// 4x4x4 grid, the k'' = k+k' (mod K) construction used by the annihilation
// channel is invertible, i.e. k'' - k' reproduces k.
func Test_scatter01(tst *testing.T) {

	chk.PrintTitle("Test momentum conservation on a 4x4x4 grid")

	g, err := grid.New([3]int{4, 4, 4})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for ik := 0; ik < g.Nk; ik++ {
		a := g.Unravel(ik)
		for ikp := 0; ikp < g.Nk; ikp++ {
			b := g.Unravel(ikp)
			kpp := g.Add(a, b)
			back := g.Sub(kpp, b)
			if back != a {
				tst.Fatalf("annihilation channel: k''-k' != k for ik=%d, ikp=%d", ik, ikp)
			}
			kppMinus := g.Sub(a, b)
			backMinus := g.Add(kppMinus, b)
			if backMinus != a {
				tst.Fatalf("creation channel: k''+k' != k for ik=%d, ikp=%d", ik, ikp)
			}
		}
	}
}

func toySystem(tst *testing.T) (*fconst.ForceConstants, *latt.AtomicConfiguration, *latt.ReplicatedConfiguration, *grid.SamplingGrid) {
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
	third := fconst.NewThird(1, 1) // identically zero: no anharmonicity
	fc, err := fconst.New(second, third, 1, 1, false)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	return fc, cfg, repl, g
}

// Test_scatter02 checks that an identically-zero third-order tensor yields
// zero bandwidths and zero Ξ everywhere: the projected matrix element is
// zero for every triplet, so nothing can scatter. The phase space does not
// depend on the matrix element; it is zero here because all group
// velocities vanish, so the adaptive σ is zero and every triplet is
// screened out.
func Test_scatter02(tst *testing.T) {

	chk.PrintTitle("Test zero third-order tensor yields zero scattering")

	fc, cfg, repl, g := toySystem(tst)
	h, err := phonon.Diagonalize(fc, cfg, repl, g, phonon.Options{})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	occ := occupation.Compute(h, 300, false)

	res, err := Compute(fc, cfg, repl, g, h, occ, Config{
		Mapping: []int{0},
		NeedXi:  true,
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for ik, row := range res.Gamma {
		for mu, v := range row {
			chk.Float64(tst, "Γ with Φ³=0", 1e-15, v, 0)
			chk.Float64(tst, "P with Φ³=0", 1e-15, res.Phase[ik][mu], 0)
		}
	}
	for _, row := range res.Xi {
		for _, v := range row {
			chk.Float64(tst, "Ξ with Φ³=0", 1e-15, v, 0)
		}
	}
}

func Test_scatter03(tst *testing.T) {

	chk.PrintTitle("Test scaledThird mass weighting")

	third := fconst.NewThird(2, 1)
	third.Set(0, 0, 0, 1, 0, 0, 0, 0, 8.0)
	mass := []float64{4.0, 1.0}
	sc := newScaledThird(third, mass)
	// 8 / (sqrt(4)*sqrt(1)*sqrt(4)) = 8/4 = 2
	chk.Float64(tst, "scaled Φ³", 1e-14, sc.At(0, 0, 0, 1, 0, 0, 0, 0), 2.0)
}

// Test_scatter04 checks the irreducible-wedge unfold under a non-identity
// mapping: Γ, P and the Ξ rows of a non-representative k must all be copies
// of their representative's values.
func Test_scatter04(tst *testing.T) {

	chk.PrintTitle("Test unfold copies Γ, P and Ξ rows onto the full grid")

	cell := [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}}
	cfg, err := latt.NewAtomicConfiguration(cell, [][3]float64{{0, 0, 0}}, []float64{28.0855}, []string{"Si"})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	repl, err := latt.NewReplicatedConfiguration(cfg, [3]int{1, 1, 1})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	g, err := grid.New([3]int{2, 1, 1})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	second := fconst.NewSecond(1, 1)
	for a := 0; a < 3; a++ {
		second.Set(0, a, 0, 0, a, 5.0)
	}
	third := fconst.NewThird(1, 1)
	third.Set(0, 0, 0, 0, 0, 0, 0, 0, 0.3)
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

	// both k-points fold onto the representative at ik=0.
	res, err := Compute(fc, cfg, repl, g, h, occ, Config{
		SigmaIn: h.Omega[0][0],
		Mapping: []int{0, 0},
		NeedXi:  true,
	})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	m := h.M
	for mu := 0; mu < m; mu++ {
		chk.Float64(tst, "unfolded Γ", 1e-15, res.Gamma[1][mu], res.Gamma[0][mu])
		chk.Float64(tst, "unfolded P", 1e-15, res.Phase[1][mu], res.Phase[0][mu])
		srcRow := res.Xi[flatIndex(0, mu, m)]
		dstRow := res.Xi[flatIndex(1, mu, m)]
		for col := range srcRow {
			chk.Float64(tst, "unfolded Ξ row", 1e-15, dstRow[col], srcRow[col])
		}
	}
}
