// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conduct

import (
	"github.com/cpmech/gophon/occupation"
	"github.com/cpmech/gophon/phonon"
	"github.com/cpmech/gophon/units"
)

// HeatCapacity computes the per-mode heat capacity c_v = k_B·(ħω/k_BT)²·n(n+1)
// (quantum) or c_v = k_B (classical), zero on modes with ω=0.
func HeatCapacity(h *phonon.Result, occ *occupation.Result, temperatureK float64, classical bool) [][]float64 {
	cv := make([][]float64, h.Nk)
	kelvinToTHz := units.KelvinToTHz(temperatureK)
	for ik := 0; ik < h.Nk; ik++ {
		row := make([]float64, h.M)
		for n, w := range h.Omega[ik] {
			if w == 0 {
				continue
			}
			if classical {
				row[n] = units.KB
				continue
			}
			x := w / kelvinToTHz
			nOcc := occ.N[ik][n]
			row[n] = units.KB * x * x * nOcc * (nOcc + 1)
		}
		cv[ik] = row
	}
	return cv
}
