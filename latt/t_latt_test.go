// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package latt

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func cubicConfig(tst *testing.T, a float64) *AtomicConfiguration {
	cell := [3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
	pos := [][3]float64{{0, 0, 0}}
	cfg, err := NewAtomicConfiguration(cell, pos, []float64{28.0855}, []string{"Si"})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	return cfg
}

func Test_latt01(tst *testing.T) {

	chk.PrintTitle("Test cell volume and inverse")

	cfg := cubicConfig(tst, 2.0)
	chk.Float64(tst, "volume", 1e-14, cfg.CellVolume(), 8.0)

	inv := cfg.CellInverse()
	chk.Float64(tst, "inv[0][0]", 1e-14, inv[0][0], 0.5)
	chk.Float64(tst, "inv[1][1]", 1e-14, inv[1][1], 0.5)
	chk.Float64(tst, "inv[2][2]", 1e-14, inv[2][2], 0.5)
}

func Test_latt02(tst *testing.T) {

	chk.PrintTitle("Test configuration validation")

	cell := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if _, err := NewAtomicConfiguration(cell, nil, nil, nil); err == nil {
		tst.Fatalf("expected an error for an empty atom list")
	}
	if _, err := NewAtomicConfiguration(cell, [][3]float64{{0, 0, 0}}, []float64{-1}, []string{"Si"}); err == nil {
		tst.Fatalf("expected an error for a non-positive mass")
	}
}

func Test_latt03(tst *testing.T) {

	chk.PrintTitle("Test replicated configuration ordering and invariant")

	cfg := cubicConfig(tst, 2.0)
	repl, err := NewReplicatedConfiguration(cfg, [3]int{2, 2, 2})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if repl.Nrep != 8 {
		tst.Fatalf("expected Nrep=8, got %d", repl.Nrep)
	}
	chk.Array(tst, "R[0]", 1e-14, repl.R[0][:], []float64{0, 0, 0})
	// Fortran order: l=1 advances n1 first.
	chk.Array(tst, "R[1]", 1e-14, repl.R[1][:], []float64{2, 0, 0})
	chk.Array(tst, "R[2]", 1e-14, repl.R[2][:], []float64{0, 2, 0})
}

func Test_latt04(tst *testing.T) {

	chk.PrintTitle("Test reciprocal basis orthogonality")

	cfg := cubicConfig(tst, 3.0)
	b := cfg.ReciprocalBasis()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var dot float64
			for k := 0; k < 3; k++ {
				dot += cfg.Cell[i][k] * b[j][k]
			}
			expected := 0.0
			if i == j {
				expected = 2 * 3.141592653589793
			}
			chk.Float64(tst, "a_i . b_j", 1e-10, dot, expected)
		}
	}
}
