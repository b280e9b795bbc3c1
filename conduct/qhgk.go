// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conduct

import (
	"math"

	"github.com/cpmech/gophon/occupation"
)

// QHGK is the quasi-harmonic Green-Kubo (Lorentzian-overlap) closure for
// amorphous/disordered systems.
type QHGK struct {
	Tau    float64
	Sparse bool
	Flux   func(ik int) [][][3]complex128
}

func (s *QHGK) Solve(in *Inputs) (Result, error) {
	res := newResult(in.Nk, in.M)
	if s.Flux == nil {
		return res, nil
	}
	pre := unitPrefactor(in.Volume, in.Nk)
	tau := s.Tau
	if tau <= 0 {
		tau = 2.0
	}

	for ik := 0; ik < in.Nk; ik++ {
		flux := s.Flux(ik)
		for m := 0; m < in.M; m++ {
			if !in.physical(ik, m) {
				continue
			}
			wm := in.Omega[ik][m]
			gm := in.Gamma[ik][m]
			var diff [3][3]float64
			for n := 0; n < in.M; n++ {
				if in.Omega[ik][n] == 0 {
					continue
				}
				wn := in.Omega[ik][n]
				gn := in.Gamma[ik][n]
				deltaOmega := wm - wn
				broadening := gm + gn
				if s.Sparse && broadening > 0 && math.Abs(deltaOmega) >= tau*broadening {
					continue
				}
				lorentz := occupation.LorentzDelta(deltaOmega, broadening)
				if lorentz == 0 {
					continue
				}
				scale := lorentz / (4 * wm * wn)
				for a := 0; a < 3; a++ {
					sa := flux[m][n][a]
					for b := 0; b < 3; b++ {
						sb := flux[m][n][b]
						term := sa * conjugate(sb)
						diff[a][b] += scale * real(term)
					}
				}
			}
			cv := in.Cv[ik][m]
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					res.Kappa[ik][m][a][b] = pre * cv * diff[a][b]
				}
			}
		}
	}
	return res, nil
}

func conjugate(c complex128) complex128 { return complex(real(c), -imag(c)) }
