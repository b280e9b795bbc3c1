// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fconst holds the second- and third-order interatomic force
// constant tensors and the optional acoustic-sum-rule correction applied
// to the second-order tensor at construction.
package fconst

import (
	"github.com/cpmech/gosl/chk"
)

// Second holds Φ[i,α,l,j,β], shape (Nat,3,Nrep,Nat,3), row-major, eV/Å².
// Entries are stored in a single flat slice so external row-major dumps can
// be adopted without reshuffling.
type Second struct {
	Nat, Nrep int
	Data      []float64 // flat, row-major over (i,α,l,j,β)
}

// NewSecond allocates a zeroed second-order tensor.
func NewSecond(nat, nrep int) *Second {
	return &Second{Nat: nat, Nrep: nrep, Data: make([]float64, nat*3*nrep*nat*3)}
}

func (s *Second) idx(i, a, l, j, b int) int {
	return ((((i*3+a)*s.Nrep+l)*s.Nat+j)*3 + b)
}

// At returns Φ[i,α,l,j,β].
func (s *Second) At(i, a, l, j, b int) float64 { return s.Data[s.idx(i, a, l, j, b)] }

// Set assigns Φ[i,α,l,j,β] = v.
func (s *Second) Set(i, a, l, j, b int, v float64) { s.Data[s.idx(i, a, l, j, b)] = v }

// ApplyAcousticSumRule enforces, for every (i,α,β): Σ_{l,j} Φ[i,α,l,j,β] = 0
// by setting the diagonal (l=0, j=i) entry to minus the off-diagonal sum.
func (s *Second) ApplyAcousticSumRule() {
	for i := 0; i < s.Nat; i++ {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				var offDiagSum float64
				for l := 0; l < s.Nrep; l++ {
					for j := 0; j < s.Nat; j++ {
						if l == 0 && j == i {
							continue
						}
						offDiagSum += s.At(i, a, l, j, b)
					}
				}
				s.Set(i, a, 0, i, b, -offDiagSum)
			}
		}
	}
}

// Third holds Φ³[i,α,l,j,β,l',k,γ], shape (Nat,3,Nrep,Nat,3,Nrep,Nat,3),
// row-major, eV/Å³.
type Third struct {
	Nat, Nrep int
	Data      []float64
}

// NewThird allocates a zeroed third-order tensor.
func NewThird(nat, nrep int) *Third {
	n := nat * 3 * nrep * nat * 3 * nrep * nat * 3
	return &Third{Nat: nat, Nrep: nrep, Data: make([]float64, n)}
}

func (t *Third) idx(i, a, l1, j, b, l2, k, c int) int {
	return (((((((i*3+a)*t.Nrep+l1)*t.Nat+j)*3+b)*t.Nrep+l2)*t.Nat+k)*3 + c)
}

// At returns Φ³[i,α,l1,j,β,l2,k,γ].
func (t *Third) At(i, a, l1, j, b, l2, k, c int) float64 { return t.Data[t.idx(i, a, l1, j, b, l2, k, c)] }

// Set assigns Φ³[i,α,l1,j,β,l2,k,γ] = v.
func (t *Third) Set(i, a, l1, j, b, l2, k, c int, v float64) {
	t.Data[t.idx(i, a, l1, j, b, l2, k, c)] = v
}

// ForceConstants owns the second- and third-order tensors of a single
// reference configuration, shared read-only by every downstream component
// for the lifetime of the computation.
type ForceConstants struct {
	Second *Second
	Third  *Third // may be nil if only harmonic quantities are needed
}

// New validates tensor shapes against Nat/Nrep and optionally applies the
// acoustic sum rule to the second-order tensor.
func New(second *Second, third *Third, nat, nrep int, applyAcousticSum bool) (*ForceConstants, error) {
	if second == nil {
		return nil, chk.Err("fconst: second-order tensor is required\n")
	}
	if second.Nat != nat || second.Nrep != nrep {
		return nil, chk.Err("fconst: second-order tensor shape (Nat=%d,Nrep=%d) does not match (%d,%d)\n",
			second.Nat, second.Nrep, nat, nrep)
	}
	if third != nil && (third.Nat != nat || third.Nrep != nrep) {
		return nil, chk.Err("fconst: third-order tensor shape (Nat=%d,Nrep=%d) does not match (%d,%d)\n",
			third.Nat, third.Nrep, nat, nrep)
	}
	if applyAcousticSum {
		second.ApplyAcousticSumRule()
	}
	return &ForceConstants{Second: second, Third: third}, nil
}
