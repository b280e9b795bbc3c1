// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scatter

import (
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/cpmech/gophon/fconst"
	"github.com/cpmech/gophon/grid"
	"github.com/cpmech/gophon/latt"
	"github.com/cpmech/gophon/occupation"
	"github.com/cpmech/gophon/phonon"
	"github.com/cpmech/gophon/units"
)

// Config controls the three-phonon scattering kernel.
type Config struct {
	SigmaIn        float64          // >0: scalar override (sparse path); <=0: adaptive per-pair σ (dense path)
	Shape          occupation.Shape // broadening_shape
	Tau            float64          // screening multiplier τ, default units.DeltaThreshold
	Mapping        []int            // mapping[ik] -> irreducible representative flat index
	NeedXi         bool             // also assemble the off-diagonal scattering matrix
	AcousticMasked bool             // zero ω[0,:3], v[0,:3,:] before enumeration (only valid after the acoustic sum rule)
}

// Result holds the per-mode bandwidths Γ = Γ_+ + Γ_-, the phase-space
// volumes, and optionally the off-diagonal scattering matrix Ξ.
type Result struct {
	Gamma [][]float64 // [Nk][M]
	Phase [][]float64 // [Nk][M]
	Xi    [][]float64 // (Nk*M)x(Nk*M), nil unless Config.NeedXi
}

func flatIndex(ik, mu, m int) int { return ik*m + mu }

// Compute enumerates the momentum-conserving creation and annihilation
// triplets over the irreducible wedge and unfolds onto the full grid.
func Compute(fc *fconst.ForceConstants, cfg *latt.AtomicConfiguration, repl *latt.ReplicatedConfiguration, g *grid.SamplingGrid, h *phonon.Result, occ *occupation.Result, conf Config) (*Result, error) {
	m := h.M
	tau := conf.Tau
	if tau <= 0 {
		tau = units.DeltaThreshold
	}
	// on the scalar-σ path the Gaussian mass outside the screening window
	// |Δω| < τ·σ is known in closed form, so renormalize by erf(τ/√2).
	correction := 1.0
	if conf.SigmaIn > 0 {
		correction = math.Erf(tau / math.Sqrt2)
	}

	// local, possibly-masked copies of ω and v.
	omega := make([][]float64, h.Nk)
	vel := make([][][3]float64, h.Nk)
	for ik := range omega {
		omega[ik] = append([]float64(nil), h.Omega[ik]...)
		vel[ik] = append([][3]float64(nil), h.Vel[ik]...)
	}
	if conf.AcousticMasked && h.Nk > 0 {
		for mu := 0; mu < 3 && mu < m; mu++ {
			omega[0][mu] = 0
			vel[0][mu] = [3]float64{}
		}
	}

	mass := make([]float64, cfg.Nat())
	for i := range mass {
		mass[i] = cfg.Mass[i]
	}
	scaled := newScaledThird(fc.Third, mass)
	recip := cfg.ReciprocalBasis()

	chiTable := make([][]complex128, g.Nk)
	for ik := 0; ik < g.Nk; ik++ {
		chiTable[ik], _ = phonon.PhaseFactors(cfg, repl, g.Reduced(ik))
	}

	res := &Result{
		Gamma: make([][]float64, g.Nk),
		Phase: make([][]float64, g.Nk),
	}
	for ik := range res.Gamma {
		res.Gamma[ik] = make([]float64, m)
		res.Phase[ik] = make([]float64, m)
	}
	var xi [][]float64
	if conf.NeedXi {
		n := g.Nk * m
		xi = make([][]float64, n)
		for i := range xi {
			xi[i] = make([]float64, n)
		}
	}

	irreducible := uniqueSorted(conf.Mapping)

	// the irreducible-k sweep is embarrassingly parallel: each worker owns
	// a disjoint set of irreducible k-indices and writes only to the Gamma,
	// Phase and Xi rows keyed by them.
	nw := runtime.GOMAXPROCS(0)
	if nw > len(irreducible) {
		nw = len(irreducible)
	}
	if nw < 1 {
		nw = 1
	}
	chunk := (len(irreducible) + nw - 1) / nw
	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(irreducible) {
			hi = len(irreducible)
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for _, ik := range irreducible[lo:hi] {
				computeOne(scaled, g, h, occ, conf, omega, vel, recip, chiTable, res, xi, repl.Nrep, m, tau, correction, ik)
			}
		}(lo, hi)
	}
	wg.Wait()

	// unfold onto the full grid by copying each irreducible result into
	// every k that maps to it; the Ξ rows of non-representative k are
	// copied alongside Γ and P so Ξ-consuming solvers see every row.
	for ik := 0; ik < g.Nk; ik++ {
		src := conf.Mapping[ik]
		if src == ik {
			continue
		}
		res.Gamma[ik] = append([]float64(nil), res.Gamma[src]...)
		res.Phase[ik] = append([]float64(nil), res.Phase[src]...)
		if xi != nil {
			for mu := 0; mu < m; mu++ {
				copy(xi[flatIndex(ik, mu, m)], xi[flatIndex(src, mu, m)])
			}
		}
	}

	// global prefactors.
	nk := float64(g.Nk)
	for ik := range res.Gamma {
		for mu := range res.Gamma[ik] {
			res.Gamma[ik][mu] *= units.ScatteringPrefactor / nk
			res.Phase[ik][mu] /= nk * math.Pow(2*math.Pi, 3)
		}
	}
	if xi != nil {
		for i := range xi {
			for j := range xi[i] {
				xi[i][j] *= units.ScatteringPrefactor / nk
			}
		}
		res.Xi = xi
	}
	return res, nil
}

// computeOne accumulates the bandwidth, phase space and Ξ rows of a single
// irreducible wavevector ik; writes stay within the rows keyed by ik, so
// concurrent calls on distinct ik need no locking.
func computeOne(scaled *scaledThird, g *grid.SamplingGrid, h *phonon.Result, occ *occupation.Result, conf Config, omega [][]float64, vel [][][3]float64, recip [3][3]float64, chiTable [][]complex128, res *Result, xi [][]float64, nrep, m int, tau, correction float64, ik int) {
	ikMulti := g.Unravel(ik)
	for mu := 0; mu < m; mu++ {
		if omega[ik][mu] == 0 {
			continue
		}
		eigK := column(h.Eig[ik], mu, m)
		proj := projectFirst(scaled, eigK)

		for _, plus := range []bool{true, false} { // true: annihilation (k''=k+k'); false: creation (k''=k-k')
			for ikp := 0; ikp < g.Nk; ikp++ {
				ikpMulti := g.Unravel(ikp)
				var ikppMulti [3]int
				if plus {
					ikppMulti = g.Add(ikMulti, ikpMulti)
				} else {
					ikppMulti = g.Sub(ikMulti, ikpMulti)
				}
				ikpp := g.Ravel(ikppMulti)

				chiPrime := chiTable[ikp]
				chiPPrime := chiTable[ikpp]
				eigPrimeAll := h.Eig[ikp]
				eigPPrimeAll := h.Eig[ikpp]
				if !plus {
					chiPrime = conjVec(chiPrime)
				}
				chiPPrimeConj := conjVec(chiPPrime)

				for mup := 0; mup < m; mup++ {
					wp := omega[ikp][mup]
					if wp == 0 {
						continue
					}
					for mupp := 0; mupp < m; mupp++ {
						wpp := omega[ikpp][mupp]
						if wpp == 0 {
							continue
						}

						var deltaOmega float64
						if plus {
							deltaOmega = omega[ik][mu] + wp - wpp
						} else {
							deltaOmega = omega[ik][mu] - wp - wpp
						}
						deltaOmega = math.Abs(deltaOmega)

						var sigma float64
						if conf.SigmaIn > 0 {
							sigma = conf.SigmaIn
						} else {
							diff := [3]float64{
								vel[ikp][mup][0] - vel[ikpp][mupp][0],
								vel[ikp][mup][1] - vel[ikpp][mupp][1],
								vel[ikp][mup][2] - vel[ikpp][mupp][2],
							}
							sigma = occupation.Broadening(diff, recip, g.K)
						}
						if sigma == 0 || deltaOmega >= tau*sigma {
							continue
						}

						var density float64
						if plus {
							density = occ.N[ikp][mup] - occ.N[ikpp][mupp]
						} else {
							density = 0.5 * (1 + occ.N[ikp][mup] + occ.N[ikpp][mupp])
						}

						weight := broadeningWeight(conf.Shape, deltaOmega, sigma, correction)
						freqProduct := omega[ik][mu] * wp * wpp
						dirac := density / freqProduct * weight

						ePrime := column(eigPrimeAll, mup, m)
						ePPrime := column(eigPPrimeAll, mupp, m)
						if !plus {
							ePrime = conjVec(ePrime)
						}
						ePPrime = conjVec(ePPrime) // k'' is always conjugated

						amp := contractTriplet(proj, nrep, m, ePrime, ePPrime, chiPrime, chiPPrimeConj)
						v2 := real(amp)*real(amp) + imag(amp)*imag(amp)

						res.Gamma[ik][mu] += v2 * dirac
						res.Phase[ik][mu] += dirac

						if xi != nil {
							row := flatIndex(ik, mu, m)
							colP := flatIndex(ikp, mup, m)
							colPP := flatIndex(ikpp, mupp, m)
							contrib := v2 * dirac
							if row != colP {
								xi[row][colP] += contrib
							}
							if row != colPP {
								xi[row][colPP] += contrib
							}
						}
					}
				}
			}
		}

		res.Gamma[ik][mu] /= omega[ik][mu]
		res.Phase[ik][mu] /= omega[ik][mu]
	}
}

func broadeningWeight(shape occupation.Shape, deltaOmega, sigma, correction float64) float64 {
	switch shape {
	case occupation.Triangle:
		return occupation.TriangleDelta(deltaOmega, sigma)
	case occupation.Lorentz:
		return occupation.LorentzDelta(deltaOmega, sigma) * math.Pi
	default:
		return occupation.GaussianDelta(deltaOmega, sigma, correction)
	}
}

func column(m [][]complex128, col, size int) []complex128 {
	out := make([]complex128, size)
	for row := 0; row < size; row++ {
		out[row] = m[row][col]
	}
	return out
}

func conjVec(v []complex128) []complex128 {
	out := make([]complex128, len(v))
	for i, x := range v {
		out[i] = cmplx.Conj(x)
	}
	return out
}

func uniqueSorted(mapping []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, v := range mapping {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
