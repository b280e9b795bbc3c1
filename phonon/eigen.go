// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phonon

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// realSymmetricEigen factorizes the M×M matrix h assuming it is real
// symmetric (the case at Γ, where every phase factor is 1), skipping the
// 2M×2M embedding hermitianEigen needs. mat.EigenSym returns eigenvalues
// in ascending order already.
func realSymmetricEigen(h [][]complex128) (vals []float64, vecs [][]complex128, err error) {
	m := len(h)
	if m == 0 {
		return nil, nil, chk.Err("phonon: cannot diagonalize an empty matrix\n")
	}
	sym := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			sym.SetSym(i, j, real(h[i][j]))
		}
	}
	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, nil, chk.Err("phonon: symmetric eigendecomposition failed to converge\n")
	}
	vals = es.Values(nil)
	var evec mat.Dense
	es.VectorsTo(&evec)
	vecs = make([][]complex128, m)
	for n := 0; n < m; n++ {
		vecs[n] = make([]complex128, m)
		for row := 0; row < m; row++ {
			vecs[n][row] = complex(evec.At(row, n), 0)
		}
	}
	return vals, vecs, nil
}

// hermitianEigen returns the ascending eigenvalues and orthonormal
// eigenvectors (as columns) of the M×M complex Hermitian matrix h.
//
// h is embedded as the real symmetric 2M×2M matrix [[A,-B],[B,A]] where
// h = A+iB (A symmetric, B antisymmetric) and factorized with
// mat.EigenSym. Each eigenvalue of h appears twice in the embedding's
// spectrum; the corresponding complex eigenvector is recovered from one
// member of each pair as x+iy, taking (x,y) from the top and bottom
// halves of the matching real eigenvector.
func hermitianEigen(h [][]complex128) (vals []float64, vecs [][]complex128, err error) {
	m := len(h)
	if m == 0 {
		return nil, nil, chk.Err("phonon: cannot diagonalize an empty matrix\n")
	}
	embedded := mat.NewSymDense(2*m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			re, im := real(h[i][j]), imag(h[i][j])
			embedded.SetSym(i, j, re)
			embedded.SetSym(i, m+j, -im)
			embedded.SetSym(m+i, j, im)
			embedded.SetSym(m+i, m+j, re)
		}
	}

	var es mat.EigenSym
	ok := es.Factorize(embedded, true)
	if !ok {
		return nil, nil, chk.Err("phonon: Hermitian eigendecomposition failed to converge\n")
	}
	rawVals := es.Values(nil)
	var evec mat.Dense
	es.VectorsTo(&evec)

	type pair struct {
		val float64
		col int
	}
	order := make([]pair, 2*m)
	for i := range order {
		order[i] = pair{rawVals[i], i}
	}
	sort.SliceStable(order, func(a, b int) bool { return order[a].val < order[b].val })

	vals = make([]float64, 0, m)
	vecs = make([][]complex128, 0, m)
	// every eigenvalue of h appears twice in the embedding's spectrum, and
	// within a degenerate cluster the real eigenvectors (x,y) and (-y,x)
	// both represent the same complex vector x+iy up to a phase. Walk the
	// sorted spectrum and keep a candidate only if, after projecting out
	// the already-accepted vectors of the same eigenvalue, a nonzero
	// residual remains (modified Gram-Schmidt over the complex candidates).
	for i := 0; i < 2*m && len(vals) < m; i++ {
		col := order[i].col
		cand := make([]complex128, m)
		for row := 0; row < m; row++ {
			cand[row] = complex(evec.At(row, col), evec.At(m+row, col))
		}
		for n := range vecs {
			if math.Abs(vals[n]-order[i].val) > degenTol(order[i].val) {
				continue
			}
			var dot complex128
			for row := 0; row < m; row++ {
				dot += complex(real(vecs[n][row]), -imag(vecs[n][row])) * cand[row]
			}
			for row := 0; row < m; row++ {
				cand[row] -= dot * vecs[n][row]
			}
		}
		var norm float64
		for _, c := range cand {
			norm += real(c)*real(c) + imag(c)*imag(c)
		}
		norm = math.Sqrt(norm)
		if norm < 1e-8 {
			continue // same complex vector as an accepted one
		}
		for row := range cand {
			cand[row] = complex(real(cand[row])/norm, imag(cand[row])/norm)
		}
		vals = append(vals, order[i].val)
		vecs = append(vecs, cand)
	}
	if len(vals) < m {
		return nil, nil, chk.Err("phonon: recovered only %d of %d eigenpairs from the real embedding\n", len(vals), m)
	}
	return vals, vecs, nil
}

// degenTol is the eigenvalue-closeness window inside which two embedded
// eigenvectors are treated as members of the same degenerate cluster.
func degenTol(v float64) float64 {
	return 1e-9 * math.Max(1, math.Abs(v))
}
