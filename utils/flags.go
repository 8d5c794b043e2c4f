// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"github.com/urfave/cli/v2"
)

// Command line flags shared by the srom commands.
var (
	SamplesFlag = cli.PathFlag{
		Name:  "samples",
		Usage: "CSV file of sample points with a header row of variable names (.gz for gzip)",
	}
	TargetsFlag = cli.PathFlag{
		Name:  "targets",
		Usage: "YAML file describing target CDFs, moments and correlation",
	}
	WeightsFlag = cli.PathFlag{
		Name:  "weights",
		Usage: "CSV file of SROM weights, one per sample",
	}
	OutputFlag = cli.PathFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output path",
	}
	SolverFlag = cli.StringFlag{
		Name:  "solver",
		Usage: "weight solver (\"spg\" or \"lbfgs\"); overrides the target file",
	}
	MaxIterationsFlag = cli.IntFlag{
		Name:  "max-iterations",
		Usage: "iteration budget of the solver; overrides the target file",
	}
	ToleranceFlag = cli.Float64Flag{
		Name:  "tolerance",
		Usage: "convergence tolerance of the solver; overrides the target file",
	}
	RandomSeedFlag = cli.Int64Flag{
		Name:  "seed",
		Usage: "seed of the random generator",
		Value: 1,
	}
	StrataFlag = cli.IntSliceFlag{
		Name:  "strata",
		Usage: "number of strata per dimension, e.g. 4,4",
	}
	CriterionFlag = cli.StringFlag{
		Name:  "criterion",
		Usage: "point placement inside a stratum (\"random\" or \"centered\")",
		Value: "random",
	}
	MarginalFlag = cli.StringSliceFlag{
		Name:  "marginal",
		Usage: "marginal distribution of a dimension as name:param:param..., e.g. gamma:2:1:3; repeat per dimension",
	}
	VariableNamesFlag = cli.StringSliceFlag{
		Name:  "names",
		Usage: "variable names, one per dimension",
	}
	NumSamplesFlag = cli.IntFlag{
		Name:    "num-samples",
		Aliases: []string{"n"},
		Usage:   "number of points to draw",
	}
	RegisterRunFlag = cli.PathFlag{
		Name:  "register-run",
		Usage: "sqlite database recording the run and its weights",
	}
	PortFlag = cli.StringFlag{
		Name:  "port",
		Usage: "serve the report on this port instead of writing a file",
	}
	RunIdFlag = cli.StringFlag{
		Name:  "run-id",
		Usage: "identifier of a registered run",
	}
)
