// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package transport wires the harmonic diagonalizer, occupation, scattering
// kernel and conductivity solvers into a single lazily-evaluated engine
// behind an owning container with Ensure* accessors.
package transport

import (
	"github.com/cpmech/gophon/conduct"
	"github.com/cpmech/gophon/occupation"
	"github.com/cpmech/gosl/chk"
)

// Config collects every knob of a transport run in one JSON-constructible
// object.
type Config struct {
	Supercell [3]int `json:"supercell"` // required
	Kpts      [3]int `json:"kpts"`      // required, (1,1,1) for amorphous

	IsClassic bool    `json:"is_classic"` // default false
	Temperature float64 `json:"temperature"` // kelvin, positive

	SigmaIn         float64 `json:"sigma_in"`         // THz, optional override; <=0 means adaptive
	BroadeningShape string  `json:"broadening_shape"` // "gauss" | "triangle" | "lorentz"
	IsAcousticSum   bool    `json:"is_acoustic_sum"`
	DistanceThreshold float64 `json:"distance_threshold"` // <=0 disables short-range folding
	ThirdBandwidth    float64 `json:"third_bandwidth"`    // <=0 means dense/adaptive path

	FiniteSizeMethod string  `json:"finite_size_method"` // "" | "matthiesen" | "caltech"
	Tolerance        float64 `json:"tolerance"`
	NIterations      int     `json:"n_iterations"`
	Length           float64 `json:"length"`
	Axis             int     `json:"axis"`
}

// SetDefault fills in defaults for unset fields.
func (o *Config) SetDefault() {
	if o.BroadeningShape == "" {
		o.BroadeningShape = "gauss"
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-3
	}
	if o.NIterations <= 0 {
		o.NIterations = 200
	}
}

// Validate surfaces invalid-configuration errors at construction.
func (o *Config) Validate() error {
	for i, s := range o.Supercell {
		if s < 1 {
			return chk.Err("transport: supercell[%d]=%d must be >= 1\n", i, s)
		}
	}
	for i, k := range o.Kpts {
		if k < 1 {
			return chk.Err("transport: kpts[%d]=%d must be >= 1\n", i, k)
		}
	}
	if o.Temperature <= 0 {
		return chk.Err("transport: temperature=%v must be positive\n", o.Temperature)
	}
	switch o.BroadeningShape {
	case "gauss", "triangle", "lorentz":
	default:
		return chk.Err("transport: broadening_shape=%q is not one of gauss|triangle|lorentz\n", o.BroadeningShape)
	}
	switch o.FiniteSizeMethod {
	case "", "matthiesen", "caltech":
	default:
		return chk.Err("transport: finite_size_method=%q is not one of matthiesen|caltech\n", o.FiniteSizeMethod)
	}
	return nil
}

func (o *Config) shape() occupation.Shape {
	switch o.BroadeningShape {
	case "triangle":
		return occupation.Triangle
	case "lorentz":
		return occupation.Lorentz
	default:
		return occupation.Gauss
	}
}

func (o *Config) finiteSize() conduct.FiniteSize {
	switch o.FiniteSizeMethod {
	case "matthiesen":
		return conduct.FiniteSizeMatthiessen
	case "caltech":
		return conduct.FiniteSizeCaltech
	default:
		return conduct.FiniteSizeNone
	}
}
