// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gophon/npyio"
	"github.com/cpmech/gosl/chk"
)

// SaveArtifacts writes the numpy-format dumps (frequencies, velocities,
// eigenvalues, eigenvectors and, when scattering has been computed,
// gammas) into dir, one file per artifact. Layouts
// mirror the in-memory shapes. The harmonic stage is evaluated lazily if
// it has not run yet; gammas are only written if EnsureScattering ran.
func (s *System) SaveArtifacts(dir string) error {
	h, err := s.EnsureHarmonic()
	if err != nil {
		return err
	}

	freqs := make([]float64, 0, h.Nk*h.M)
	lambdas := make([]float64, 0, h.Nk*h.M)
	vels := make([]float64, 0, h.Nk*h.M*3)
	eigs := make([]complex128, 0, h.Nk*h.M*h.M)
	for ik := 0; ik < h.Nk; ik++ {
		freqs = append(freqs, h.Omega[ik]...)
		lambdas = append(lambdas, h.Lambda[ik]...)
		for n := 0; n < h.M; n++ {
			vels = append(vels, h.Vel[ik][n][0], h.Vel[ik][n][1], h.Vel[ik][n][2])
		}
		for row := 0; row < h.M; row++ {
			eigs = append(eigs, h.Eig[ik][row]...)
		}
	}

	if err := writeNpy(filepath.Join(dir, "frequencies.npy"), []int{h.Nk, h.M}, freqs, nil); err != nil {
		return err
	}
	if err := writeNpy(filepath.Join(dir, "eigenvalues.npy"), []int{h.Nk, h.M}, lambdas, nil); err != nil {
		return err
	}
	if err := writeNpy(filepath.Join(dir, "velocities.npy"), []int{h.Nk, h.M, 3}, vels, nil); err != nil {
		return err
	}
	if err := writeNpy(filepath.Join(dir, "eigenvectors.npy"), []int{h.Nk, h.M, h.M}, nil, eigs); err != nil {
		return err
	}

	if s.scat != nil {
		gammas := make([]float64, 0, h.Nk*h.M)
		for ik := range s.scat.Gamma {
			gammas = append(gammas, s.scat.Gamma[ik]...)
		}
		if err := writeNpy(filepath.Join(dir, "gammas.npy"), []int{h.Nk, h.M}, gammas, nil); err != nil {
			return err
		}
	}
	return nil
}

func writeNpy(fn string, shape []int, realData []float64, complexData []complex128) error {
	f, err := os.Create(fn)
	if err != nil {
		return chk.Err("transport: cannot create %q: %v\n", fn, err)
	}
	defer f.Close()
	if realData != nil {
		err = npyio.WriteReal(f, shape, realData)
	} else {
		err = npyio.WriteComplex(f, shape, complexData)
	}
	if err != nil {
		return chk.Err("transport: cannot write %q: %v\n", fn, err)
	}
	return nil
}
