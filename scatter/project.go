// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scatter

// projT is Σ_w Φ³[w,l1,i',l2,j']·e_μ(k)[w], the third-order tensor with its
// first atom-mode index contracted against the eigenvector at k, mode μ.
// Contracting this index first is what keeps the per-triplet work at
// O(Nrep²·M²) instead of O(Nrep²·M³). Indexed
// [l1][ip][l2][jp] where ip, jp range over the M mode indices of the two
// scattering partners and l1, l2 over their respective replica indices.
type projT [][][][]complex128

func newProjT(nrep, m int) projT {
	p := make(projT, nrep)
	for l1 := range p {
		p[l1] = make([][][]complex128, m)
		for ip := range p[l1] {
			p[l1][ip] = make([][]complex128, nrep)
			for l2 := range p[l1][ip] {
				p[l1][ip][l2] = make([]complex128, m)
			}
		}
	}
	return p
}

// projectFirst builds projT for a given mode μ at wavevector k.
func projectFirst(s *scaledThird, eigK []complex128) projT {
	m := 3 * s.nat
	p := newProjT(s.nrep, m)
	for l1 := 0; l1 < s.nrep; l1++ {
		for ip := 0; ip < m; ip++ {
			j, b := ip/3, ip%3
			for l2 := 0; l2 < s.nrep; l2++ {
				for jp := 0; jp < m; jp++ {
					k, c := jp/3, jp%3
					var sum complex128
					for w := 0; w < m; w++ {
						i, a := w/3, w%3
						phi := s.At(i, a, l1, j, b, l2, k, c)
						if phi == 0 {
							continue
						}
						sum += complex(phi, 0) * eigK[w]
					}
					p[l1][ip][l2][jp] = sum
				}
			}
		}
	}
	return p
}

// contractTriplet finishes the projection: contract the two replica
// indices with χ(k') and χ(k''), then with the eigenvectors of the two
// scattering partners at their respective modes.
func contractTriplet(p projT, nrep, m int, ePrime, ePPrime, chiPrime, chiPPrime []complex128) complex128 {
	var total complex128
	for l1 := 0; l1 < nrep; l1++ {
		cp := chiPrime[l1]
		if cp == 0 {
			continue
		}
		for l2 := 0; l2 < nrep; l2++ {
			cpp := chiPPrime[l2]
			if cpp == 0 {
				continue
			}
			var inner complex128
			for ip := 0; ip < m; ip++ {
				ev := ePrime[ip]
				if ev == 0 {
					continue
				}
				row := p[l1][ip][l2]
				var rowSum complex128
				for jp := 0; jp < m; jp++ {
					rowSum += row[jp] * ePPrime[jp]
				}
				inner += ev * rowSum
			}
			total += cp * cpp * inner
		}
	}
	return total
}
