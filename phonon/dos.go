// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phonon

import "math"

// DensityOfStates computes a Lorentzian-broadened density of states over a
// linearly spaced energy axis spanning [0, max(ω)+5e-3]. This is a
// read-only derived quantity over a cached Result, not part of the hot
// scattering path.
func DensityOfStates(r *Result, npoints int, delta float64) (omegaAxis, dos []float64) {
	if delta <= 0 {
		delta = 1
	}
	maxOmega := 0.0
	for _, row := range r.Omega {
		for _, w := range row {
			if w > maxOmega {
				maxOmega = w
			}
		}
	}
	omegaAxis = make([]float64, npoints)
	step := (maxOmega + 5e-3) / float64(npoints-1)
	for i := range omegaAxis {
		omegaAxis[i] = float64(i) * step
	}
	dos = make([]float64, npoints)
	for ik := 0; ik < r.Nk; ik++ {
		for _, w := range r.Omega[ik] {
			for i, e := range omegaAxis {
				diff := e - w
				dos[i] += 1.0 / (diff*diff + (0.5*delta)*(0.5*delta))
			}
		}
	}
	scale := 1.0 / (float64(r.Nk) * math.Pi) * 0.5 * delta
	for i := range dos {
		dos[i] *= scale
	}
	return omegaAxis, dos
}
