// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package units collects the physical constants and unit-conversion factors
// shared by phonon, occupation, scatter and conduct. Source data is in
// eV, Å and amu; the working frequency unit everywhere is THz.
package units

import "math"

const (
	// Planck constant, reduced, J·s.
	HBar = 1.054571817e-34
	// Boltzmann constant, J/K.
	KB = 1.380649e-23
	// elementary charge, C (== J/eV).
	ElectronCharge = 1.602176634e-19
	// Avogadro constant, 1/mol.
	Avogadro = 6.02214076e23
	// electron mass, kg.
	ElectronMass = 9.1093837015e-31
	// Bohr radius over angstrom (bohroverangstrom in the source).
	BohrOverAngstrom = 0.52917721067
	// converts rydberg to eV (rydbergoverev in the source).
	RydbergOverEV = 13.605693009
	// converts the internal frequency sqrt|λ|/(2π) (λ an eigenvalue of the
	// mass-weighted dynamical matrix) into THz; it is a linear frequency
	// factor, applied after the square root.
	ToTHz = 20.670686431989338
	// Bohr radius in nanometres, for velocity unit conversion.
	Bohr2nm = 0.052917721067
	// MassFactor is one factor of the conversion that brings the
	// mass-weighted eV/Å²/amu dynamical matrix into the internal
	// frequency-squared unit (see ToTHz).
	MassFactor = 2 * ElectronMass * Avogadro * 1e3
)

// KelvinToTHz converts a thermal energy k_B*T (K) into a frequency (THz):
// k_B*T/(2π·ħ)·1e-12.
func KelvinToTHz(tempK float64) float64 {
	return KB * tempK / (2 * math.Pi * HBar) * 1e-12
}

// ScatteringPrefactor is the product of physical constants that converts
// the accumulated three-phonon matrix elements (eV, Å, amu source units)
// into an inverse time (THz) for the bandwidth Γ.
var ScatteringPrefactor = 1e-3 / math.Pow(4*math.Pi, 3) * Avogadro * Avogadro * Avogadro * ElectronCharge * ElectronCharge * HBar

// DeltaThreshold is τ, the default screening multiplier for |Δω| < τ·σ.
const DeltaThreshold = 2.0
