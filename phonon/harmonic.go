// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phonon

import (
	"runtime"
	"sync"

	"github.com/cpmech/gophon/fconst"
	"github.com/cpmech/gophon/grid"
	"github.com/cpmech/gophon/latt"
)

// Result is the per-grid harmonic diagonalization result:
// ω ∈ ℝ^{Nk×M}, e ∈ ℂ^{Nk×M×M}, v ∈ ℝ^{Nk×M×3} (velocities are real up
// to numerical noise, so only the real part is stored).
type Result struct {
	Nk, M  int
	Omega  [][]float64      // [Nk][M]
	Lambda [][]float64      // [Nk][M], raw eigenvalues
	Eig    [][][]complex128 // [Nk][M][M], columns are eigenvectors
	Vel    [][][3]float64   // [Nk][M][3]

	single []*Single // kept to compute FluxOperator lazily, per k
}

// Flux returns the mode-pair flux operator S at wavevector ik, computed on
// first demand and memoized.
func (r *Result) Flux(ik int) [][][3]complex128 {
	return r.single[ik].FluxOperator()
}

// Diagonalize sweeps every wavevector of the sampling grid and returns the
// aggregated Result. The sweep is embarrassingly parallel: each worker owns
// a disjoint contiguous range of k-indices and writes only into that range
// of the output slices, joined by a sync.WaitGroup.
func Diagonalize(fc *fconst.ForceConstants, cfg *latt.AtomicConfiguration, repl *latt.ReplicatedConfiguration, g *grid.SamplingGrid, opts Options) (*Result, error) {
	m := 3 * cfg.Nat()
	res := &Result{
		Nk:     g.Nk,
		M:      m,
		Omega:  make([][]float64, g.Nk),
		Lambda: make([][]float64, g.Nk),
		Eig:    make([][][]complex128, g.Nk),
		Vel:    make([][][3]float64, g.Nk),
		single: make([]*Single, g.Nk),
	}

	amorphous := repl.Nrep == 1
	nw := runtime.GOMAXPROCS(0)
	if nw > g.Nk {
		nw = g.Nk
	}
	if nw < 1 {
		nw = 1
	}
	chunk := (g.Nk + nw - 1) / nw

	var wg sync.WaitGroup
	errs := make([]error, nw)
	for w := 0; w < nw; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > g.Nk {
			hi = g.Nk
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi, worker int) {
			defer wg.Done()
			for ik := lo; ik < hi; ik++ {
				var q [3]float64
				if amorphous {
					q = [3]float64{0, 0, 0}
				} else {
					q = g.Reduced(ik)
				}
				single, err := Diagonalize1(fc, cfg, repl, q, opts)
				if err != nil {
					errs[worker] = err
					return
				}
				res.single[ik] = single
				res.Omega[ik] = single.Omega
				res.Lambda[ik] = single.Lambda
				res.Eig[ik] = single.Eig
				res.Vel[ik] = single.Vel
			}
		}(lo, hi, w)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
