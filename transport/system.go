// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"
	"log"

	"github.com/cpmech/gophon/conduct"
	"github.com/cpmech/gophon/fconst"
	"github.com/cpmech/gophon/grid"
	"github.com/cpmech/gophon/latt"
	"github.com/cpmech/gophon/occupation"
	"github.com/cpmech/gophon/phonon"
	"github.com/cpmech/gophon/scatter"
	"github.com/cpmech/gosl/chk"
)

// logger is the process-wide destination for transport's log output.
var logger = log.New(log.Writer(), "gophon: ", log.LstdFlags)

// SetLogOutput redirects transport's log output, used by callers (and
// tests) that want to capture or silence it.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// System is the owning container that wires the harmonic diagonalizer,
// occupation, scattering kernel and conductivity solvers together,
// computing each stage lazily on first demand. Inputs are never watched
// for changes; a new System must be constructed for new inputs.
type System struct {
	Config *Config
	FC     *fconst.ForceConstants
	Atoms  *latt.AtomicConfiguration
	Repl   *latt.ReplicatedConfiguration
	Grid   *grid.SamplingGrid

	// Mapping is supplied by an external symmetry-reduction routine:
	// mapping[ik] is the flat index of ik's irreducible representative.
	// A nil Mapping defaults to the identity (every k is its own
	// representative, i.e. no symmetry reduction).
	Mapping []int

	harmonic *phonon.Result
	occ      *occupation.Result
	cv       [][]float64
	scat     *scatter.Result
}

// NewSystem validates the configuration and constructs the sampling grid.
func NewSystem(conf *Config, fc *fconst.ForceConstants, atoms *latt.AtomicConfiguration, repl *latt.ReplicatedConfiguration, mapping []int) (*System, error) {
	conf.SetDefault()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.New(conf.Kpts)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		mapping = make([]int, g.Nk)
		for ik := range mapping {
			mapping[ik] = ik
		}
	} else if len(mapping) != g.Nk {
		return nil, chk.Err("transport: mapping has length %d, expected Nk=%d\n", len(mapping), g.Nk)
	}
	return &System{Config: conf, FC: fc, Atoms: atoms, Repl: repl, Grid: g, Mapping: mapping}, nil
}

// EnsureHarmonic computes (once) and returns the harmonic diagonalization
// result over the full sampling grid.
func (s *System) EnsureHarmonic() (*phonon.Result, error) {
	if s.harmonic != nil {
		return s.harmonic, nil
	}
	opts := phonon.Options{DistanceThreshold: s.Config.DistanceThreshold}
	h, err := phonon.Diagonalize(s.FC, s.Atoms, s.Repl, s.Grid, opts)
	if err != nil {
		return nil, chk.Err("transport: harmonic diagonalization failed: %v\n", err)
	}
	s.harmonic = h
	return h, nil
}

// EnsureOccupations computes (once) mode occupations and the per-mode heat
// capacity, both of which depend only on the harmonic result and the
// temperature.
func (s *System) EnsureOccupations() (*occupation.Result, [][]float64, error) {
	if s.occ != nil {
		return s.occ, s.cv, nil
	}
	h, err := s.EnsureHarmonic()
	if err != nil {
		return nil, nil, err
	}
	occ := occupation.Compute(h, s.Config.Temperature, s.Config.IsClassic)
	cv := conduct.HeatCapacity(h, occ, s.Config.Temperature, s.Config.IsClassic)
	s.occ, s.cv = occ, cv
	return occ, cv, nil
}

// EnsureScattering computes (once) the anharmonic bandwidths, phase space
// and (when the requested solver needs it) the off-diagonal scattering
// matrix Ξ.
func (s *System) EnsureScattering(needXi bool) (*scatter.Result, error) {
	if s.scat != nil && (!needXi || s.scat.Xi != nil) {
		return s.scat, nil
	}
	if s.FC.Third == nil {
		return nil, chk.Err("transport: third-order force constants are required for scattering\n")
	}
	h, err := s.EnsureHarmonic()
	if err != nil {
		return nil, err
	}
	occ, _, err := s.EnsureOccupations()
	if err != nil {
		return nil, err
	}
	conf := scatter.Config{
		SigmaIn:        s.Config.SigmaIn,
		Shape:          s.Config.shape(),
		Mapping:        s.Mapping,
		NeedXi:         needXi,
		AcousticMasked: s.Config.IsAcousticSum,
	}
	if s.Config.ThirdBandwidth > 0 {
		conf.SigmaIn = s.Config.ThirdBandwidth
	}
	res, err := scatter.Compute(s.FC, s.Atoms, s.Repl, s.Grid, h, occ, conf)
	if err != nil {
		return nil, chk.Err("transport: scattering kernel failed: %v\n", err)
	}
	s.scat = res
	return res, nil
}

// Conductivity runs the named solver ("rta", "inverse", "self-consistent",
// "qhgk") and returns its mode-resolved conductivity tensor, evaluating any
// missing prerequisite lazily.
func (s *System) Conductivity(method string) (conduct.Result, error) {
	model := conduct.GetModel(method)
	if model == nil {
		return conduct.Result{}, chk.Err("transport: unknown conductivity solver %q\n", method)
	}

	h, err := s.EnsureHarmonic()
	if err != nil {
		return conduct.Result{}, err
	}
	_, cv, err := s.EnsureOccupations()
	if err != nil {
		return conduct.Result{}, err
	}

	needXi := method == "inverse" || method == "self-consistent"
	scat, err := s.EnsureScattering(needXi)
	if err != nil {
		return conduct.Result{}, err
	}

	in := &conduct.Inputs{
		Omega:      h.Omega,
		Vel:        h.Vel,
		Gamma:      scat.Gamma,
		Xi:         scat.Xi,
		Cv:         cv,
		Volume:     s.Atoms.CellVolume(),
		Nk:         s.Grid.Nk,
		M:          h.M,
		FiniteSize: s.Config.finiteSize(),
		Length:     s.Config.Length,
		Axis:       s.Config.Axis,
	}

	switch sol := model.(type) {
	case *conduct.SelfConsistent:
		sol.Tolerance = s.Config.Tolerance
		sol.MaxIterations = s.Config.NIterations
	case *conduct.QHGK:
		sol.Flux = h.Flux
		sol.Sparse = s.Config.ThirdBandwidth > 0
	}

	res, err := model.Solve(in)
	if err != nil {
		return conduct.Result{}, err
	}
	if sc, ok := model.(*conduct.SelfConsistent); ok && sc.State == conduct.StateHitCap {
		logger.Printf("self-consistent solver reached the iteration cap without converging")
	}
	return res, nil
}
