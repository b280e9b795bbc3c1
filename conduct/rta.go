// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conduct

// RTA is the single-mode relaxation-time approximation:
// κ[n,α,β] = c_v·v_α·v_β/Γ.
type RTA struct{}

func (s *RTA) Solve(in *Inputs) (Result, error) {
	res := newResult(in.Nk, in.M)
	pre := unitPrefactor(in.Volume, in.Nk)
	for ik := 0; ik < in.Nk; ik++ {
		for n := 0; n < in.M; n++ {
			if !in.physical(ik, n) {
				continue
			}
			g := in.effectiveGamma(ik, n)
			if g == 0 {
				continue
			}
			cv := in.Cv[ik][n]
			v := in.Vel[ik][n]
			factor := in.caltechFactor(ik, n)
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					res.Kappa[ik][n][a][b] = pre * factor * cv * v[a] * v[b] / g
				}
			}
		}
	}
	return res, nil
}
