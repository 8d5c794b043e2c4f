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

package commands

import (
	"io"
	"time"

	"github.com/0xsoniclabs/srom/config"
	"github.com/0xsoniclabs/srom/dataset"
	"github.com/0xsoniclabs/srom/logger"
	"github.com/0xsoniclabs/srom/register"
	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/stochastic/statistics/discrete"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/urfave/cli/v2"
)

// OptimizeCommand fits SROM weights to a sample file.
var OptimizeCommand = cli.Command{
	Action: optimizeAction,
	Name:   "optimize",
	Usage:  "compute SROM weights matching the targets of a target file",
	Flags: []cli.Flag{
		&utils.SamplesFlag,
		&utils.TargetsFlag,
		&utils.OutputFlag,
		&utils.SolverFlag,
		&utils.MaxIterationsFlag,
		&utils.ToleranceFlag,
		&utils.RegisterRunFlag,
		&utils.RunIdFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The optimize command reads the samples and the target file, computes the
weights and writes them to --output. With --register-run the run metadata
and weights are also recorded in a sqlite database.`,
}

func optimizeAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Require(utils.SamplesFlag, utils.TargetsFlag, utils.OutputFlag); err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Optimize")

	samples, err := dataset.LoadSamples(cfg.Samples)
	if err != nil {
		return err
	}
	targets, sromCfg, err := config.LoadTargetFile(cfg.Targets)
	if err != nil {
		return err
	}
	if err := cfg.OverrideSolver(&sromCfg.Solver); err != nil {
		return err
	}
	sromCfg.Logger = log

	start := time.Now()
	res, err := srom.Optimize(ctx.Context, samples, targets, sromCfg)
	if err != nil {
		return err
	}
	if err := dataset.SaveWeights(cfg.Output, res.Weights); err != nil {
		return err
	}
	log.Noticef("Weights written to %v", cfg.Output)

	if cfg.RegisterRun != "" {
		id, err := registerRun(cfg, start, res)
		if err != nil {
			return err
		}
		log.Noticef("Run registered as %v in %v", id, cfg.RegisterRun)
	}
	return printSummary(ctx.App.Writer, res)
}

// registerRun records metadata and weights of a run and returns its id.
func registerRun(cfg *config.Config, start time.Time, res *srom.Result) (string, error) {
	id := register.MakeRunIdentity(start.Unix(), cfg)
	meta, err := register.MakeRunMetadata(cfg.RegisterRun, id, register.FetchUnixInfo)
	if err != nil {
		return "", err
	}
	defer meta.Close()
	meta.SetResult(res)
	weights, err := register.NewWeightsPrinter(cfg.RegisterRun, meta.Id, res.Weights)
	if err != nil {
		return "", err
	}
	meta.Ps.AddPrinter(weights)
	return meta.Id, meta.Print()
}

func printSummary(w io.Writer, res *srom.Result) error {
	return utils.NewPrinters().AddPrinterToTable(w, "SROM", []any{"Quantity", "Value"}, func() [][]any {
		return [][]any{
			{"objective", res.Objective},
			{"CDF error", res.Terms.CDF},
			{"moment error", res.Terms.Moments},
			{"correlation error", res.Terms.Correlation},
			{"iterations", res.Iterations},
			{"converged", res.Converged},
			{"reason", res.Reason},
			{"effective sample size", discrete.EffectiveSize(res.Weights)},
		}
	}).Print()
}
