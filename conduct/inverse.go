// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conduct

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/gosl/chk"
)

// Inverse solves the full linear system Σ·Λ = v with Σ = diag(Γ) - Ξ and
// then contracts Λ with the velocities and heat capacities. Masked
// acoustic modes (ω=0, Γ=0) carry exactly-zero rows and columns in Σ, so
// the system is assembled and solved on the reduced subspace of physical
// modes only and Λ is scattered back into the full mode layout.
type Inverse struct {
	// Lambda is the solution Λ scattered back to the full (Nk·M)x3
	// layout, zero on unphysical modes; exposed for the residual check
	// Σ·Λ = v in the tests.
	Lambda [][3]float64
}

func (s *Inverse) Solve(in *Inputs) (Result, error) {
	if in.Xi == nil {
		return Result{}, chk.Err("conduct: inverse solver requires the off-diagonal scattering matrix Ξ\n")
	}
	idx := make([]int, 0, in.Nk*in.M)
	for ik := 0; ik < in.Nk; ik++ {
		for mu := 0; mu < in.M; mu++ {
			if in.physical(ik, mu) {
				idx = append(idx, in.flat(ik, mu))
			}
		}
	}
	res := newResult(in.Nk, in.M)
	s.Lambda = make([][3]float64, in.Nk*in.M)
	np := len(idx)
	if np == 0 {
		return res, nil
	}

	sigma := mat.NewDense(np, np, nil)
	for r, row := range idx {
		for c, col := range idx {
			entry := -in.Xi[row][col]
			if r == c {
				entry += in.Gamma[row/in.M][row%in.M]
			}
			sigma.Set(r, c, entry)
		}
	}

	v := mat.NewDense(np, 3, nil)
	for r, row := range idx {
		ik, mu := row/in.M, row%in.M
		for a := 0; a < 3; a++ {
			v.Set(r, a, in.Vel[ik][mu][a])
		}
	}

	var lambda mat.Dense
	if err := lambda.Solve(sigma, v); err != nil {
		return Result{}, chk.Err("conduct: inverse solver: %v\n", err)
	}

	pre := unitPrefactor(in.Volume, in.Nk)
	for r, row := range idx {
		ik, mu := row/in.M, row%in.M
		cv := in.Cv[ik][mu]
		velo := in.Vel[ik][mu]
		for a := 0; a < 3; a++ {
			s.Lambda[row][a] = lambda.At(r, a)
		}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				res.Kappa[ik][mu][a][b] = pre * cv * velo[a] * lambda.At(r, b)
			}
		}
	}
	return res, nil
}
