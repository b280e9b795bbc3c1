// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package latt holds the immutable atomic-configuration data model: the
// reference unit cell and its periodic replication into a supercell.
package latt

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// AtomicConfiguration is the reference unit cell: lattice vectors, Cartesian
// positions, masses and chemical symbols. It is immutable once constructed;
// parsing it from a DLPOLY/ShengBTE/QE/HiPhive file is an external concern.
type AtomicConfiguration struct {
	Cell     [3][3]float64 // a ∈ ℝ^{3×3}; rows are lattice vectors, Cartesian Å
	Pos      [][3]float64  // r ∈ ℝ^{Nat×3}; unit-cell positions, Cartesian Å
	Mass     []float64     // m ∈ ℝ^{Nat}; atomic-mass units
	Symbol   []string      // chemical symbols, len == Nat
	cellInv  [3][3]float64 // memoized cell⁻¹
	cellDet  float64       // memoized det(cell)
	haveInvD bool
}

// NewAtomicConfiguration validates and returns a new configuration.
func NewAtomicConfiguration(cell [3][3]float64, pos [][3]float64, mass []float64, symbol []string) (*AtomicConfiguration, error) {
	nat := len(pos)
	if nat == 0 {
		return nil, chk.Err("latt: configuration must have at least one atom\n")
	}
	if len(mass) != nat {
		return nil, chk.Err("latt: len(mass)=%d does not match len(pos)=%d\n", len(mass), nat)
	}
	if len(symbol) != nat {
		return nil, chk.Err("latt: len(symbol)=%d does not match len(pos)=%d\n", len(symbol), nat)
	}
	for i, m := range mass {
		if m <= 0 {
			return nil, chk.Err("latt: mass of atom %d is non-positive: %v\n", i, m)
		}
	}
	o := &AtomicConfiguration{Cell: cell, Pos: pos, Mass: mass, Symbol: symbol}
	inv, det, err := invert3x3(cell)
	if err != nil {
		return nil, chk.Err("latt: %v\n", err)
	}
	o.cellInv, o.cellDet, o.haveInvD = inv, det, true
	return o, nil
}

// Nat returns the number of atoms in the reference cell.
func (o *AtomicConfiguration) Nat() int { return len(o.Pos) }

// CellVolume returns |det(a)|, the unit-cell volume in Å³.
func (o *AtomicConfiguration) CellVolume() float64 {
	return math.Abs(o.cellDet)
}

// CellInverse returns the memoized inverse of the cell matrix.
func (o *AtomicConfiguration) CellInverse() [3][3]float64 {
	return o.cellInv
}

// ReciprocalBasis returns 2π·(cell⁻¹)ᵀ, the reciprocal-lattice vectors as rows.
func (o *AtomicConfiguration) ReciprocalBasis() [3][3]float64 {
	var b [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i][j] = 2 * math.Pi * o.cellInv[j][i]
		}
	}
	return b
}

// ReplicatedConfiguration is the periodic replication of an AtomicConfiguration
// into a supercell, used as the second-index range of the force constants.
type ReplicatedConfiguration struct {
	Supercell [3]int       // S = (S1,S2,S3)
	Nrep      int          // Nrep = S1*S2*S3
	R         [][3]float64 // replica translation vectors, Cartesian Å, R[0] == 0
}

// NewReplicatedConfiguration builds the replica translation table in
// Fortran order over (S1,S2,S3). The ordering must match the sampling
// grid's unravel convention, since the force-constant replica index is
// interpreted against it.
func NewReplicatedConfiguration(cfg *AtomicConfiguration, supercell [3]int) (*ReplicatedConfiguration, error) {
	for i, s := range supercell {
		if s < 1 {
			return nil, chk.Err("latt: supercell[%d]=%d must be >= 1\n", i, s)
		}
	}
	nrep := supercell[0] * supercell[1] * supercell[2]
	o := &ReplicatedConfiguration{Supercell: supercell, Nrep: nrep, R: make([][3]float64, nrep)}
	l := 0
	for n3 := 0; n3 < supercell[2]; n3++ {
		for n2 := 0; n2 < supercell[1]; n2++ {
			for n1 := 0; n1 < supercell[0]; n1++ {
				var r [3]float64
				for d := 0; d < 3; d++ {
					r[d] = float64(n1)*cfg.Cell[0][d] + float64(n2)*cfg.Cell[1][d] + float64(n3)*cfg.Cell[2][d]
				}
				o.R[l] = r
				l++
			}
		}
	}
	if o.R[0] != [3]float64{0, 0, 0} {
		return nil, chk.Err("latt: invariant broken: R[0] must be the zero replica\n")
	}
	return o, nil
}

// invert3x3 returns the inverse and determinant of a 3x3 matrix given as
// row vectors, or an error if the matrix is singular.
func invert3x3(a [3][3]float64) (inv [3][3]float64, det float64, err error) {
	det = a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	if math.Abs(det) < 1e-300 {
		return inv, det, chk.Err("latt: cell matrix is singular (det=%v)\n", det)
	}
	inv[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) / det
	inv[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) / det
	inv[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) / det
	inv[1][0] = (a[1][2]*a[2][0] - a[1][0]*a[2][2]) / det
	inv[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) / det
	inv[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) / det
	inv[2][0] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) / det
	inv[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) / det
	inv[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) / det
	return inv, det, nil
}
