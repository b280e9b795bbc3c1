// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gophon is the command-line driver: it reads a scenario file (atomic
// configuration, replication, sampling grid, force constants and solver
// knobs) and prints the requested conductivity tensor.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/cpmech/gophon/fconst"
	"github.com/cpmech/gophon/latt"
	"github.com/cpmech/gophon/npyio"
	"github.com/cpmech/gophon/transport"
	"github.com/cpmech/gosl/io"
)

// scenario is the on-disk JSON description of a single transport run.
type scenario struct {
	Cell   [3][3]float64 `json:"cell"`
	Pos    [][3]float64  `json:"pos"`
	Mass   []float64     `json:"mass"`
	Symbol []string      `json:"symbol"`

	SecondFile string `json:"second_file"` // .npy, shape (Nat,3,Nrep,Nat,3)
	ThirdFile  string `json:"third_file"`  // .npy, optional

	Config transport.Config `json:"config"`
}

func main() {
	scfile := "scenario.json"
	method := "rta"
	saveDir := ""

	flag.StringVar(&method, "method", method, "conductivity solver: rta|inverse|self-consistent|qhgk")
	flag.StringVar(&saveDir, "save", saveDir, "directory for numpy artifact dumps (frequencies, velocities, ...)")
	flag.Parse()
	if len(flag.Args()) > 0 {
		scfile = flag.Arg(0)
	}

	io.Pf("\nInput data\n")
	io.Pf("==========\n")
	io.Pf("  scenario = %30s\n", scfile)
	io.Pf("  method   = %30s\n", method)
	io.Pf("\n")

	sc, err := readScenario(scfile)
	if err != nil {
		io.PfRed("gophon: %v\n", err)
		os.Exit(1)
	}

	cfg, err := latt.NewAtomicConfiguration(sc.Cell, sc.Pos, sc.Mass, sc.Symbol)
	if err != nil {
		io.PfRed("gophon: %v\n", err)
		os.Exit(1)
	}
	repl, err := latt.NewReplicatedConfiguration(cfg, sc.Config.Supercell)
	if err != nil {
		io.PfRed("gophon: %v\n", err)
		os.Exit(1)
	}

	second, err := readSecond(sc.SecondFile, cfg.Nat(), repl.Nrep)
	if err != nil {
		io.PfRed("gophon: %v\n", err)
		os.Exit(1)
	}
	var third *fconst.Third
	if sc.ThirdFile != "" {
		third, err = readThird(sc.ThirdFile, cfg.Nat(), repl.Nrep)
		if err != nil {
			io.PfRed("gophon: %v\n", err)
			os.Exit(1)
		}
	}
	fc, err := fconst.New(second, third, cfg.Nat(), repl.Nrep, sc.Config.IsAcousticSum)
	if err != nil {
		io.PfRed("gophon: %v\n", err)
		os.Exit(1)
	}

	conf := sc.Config
	sys, err := transport.NewSystem(&conf, fc, cfg, repl, nil)
	if err != nil {
		io.PfRed("gophon: %v\n", err)
		os.Exit(1)
	}

	res, err := sys.Conductivity(method)
	if err != nil {
		io.PfRed("gophon: %v\n", err)
		os.Exit(1)
	}

	kappa := res.Sum()
	io.Pf("\nConductivity tensor (W/m.K)\n")
	io.Pf("===========================\n")
	for a := 0; a < 3; a++ {
		io.Pf("  %12.6f %12.6f %12.6f\n", kappa[a][0], kappa[a][1], kappa[a][2])
	}

	if saveDir != "" {
		if err := sys.SaveArtifacts(saveDir); err != nil {
			io.PfRed("gophon: %v\n", err)
			os.Exit(1)
		}
		io.Pf("\nartifacts saved to %s\n", saveDir)
	}
}

func readScenario(fn string) (*scenario, error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var sc scenario
	sc.Config.SetDefault()
	if err := json.Unmarshal(b, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func readSecond(fn string, nat, nrep int) (*fconst.Second, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	arr, err := npyio.Read(f)
	if err != nil {
		return nil, err
	}
	return &fconst.Second{Nat: nat, Nrep: nrep, Data: arr.Real}, nil
}

func readThird(fn string, nat, nrep int) (*fconst.Third, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	arr, err := npyio.Read(f)
	if err != nil {
		return nil, err
	}
	return &fconst.Third{Nat: nat, Nrep: nrep, Data: arr.Real}, nil
}
