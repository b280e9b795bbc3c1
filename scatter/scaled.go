// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package scatter implements the anharmonic three-phonon scattering kernel:
// enumeration of momentum-conserving creation/annihilation triplets on the
// sampling grid, adaptive Gaussian/triangle/Lorentz broadening, projection
// through the mass-weighted third-order tensor, and per-mode bandwidth and
// phase-space accumulation.
package scatter

import (
	"math"

	"github.com/cpmech/gophon/fconst"
)

// scaledThird is the third-order tensor with every atomic index divided by
// √m_atom, the mass weighting applied before projection.
type scaledThird struct {
	nat, nrep int
	t         *fconst.Third
	invSqrtM  []float64
}

func newScaledThird(t *fconst.Third, mass []float64) *scaledThird {
	inv := make([]float64, len(mass))
	for i, m := range mass {
		inv[i] = 1.0 / math.Sqrt(m)
	}
	return &scaledThird{nat: t.Nat, nrep: t.Nrep, t: t, invSqrtM: inv}
}

func (s *scaledThird) At(i, a, l1, j, b, l2, k, c int) float64 {
	return s.t.At(i, a, l1, j, b, l2, k, c) * s.invSqrtM[i] * s.invSqrtM[j] * s.invSqrtM[k]
}
