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
	"math/rand"

	"github.com/0xsoniclabs/srom/config"
	"github.com/0xsoniclabs/srom/dataset"
	"github.com/0xsoniclabs/srom/logger"
	"github.com/0xsoniclabs/srom/stochastic/sampling"
	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// SampleCommand generates a sample file from independent marginals.
var SampleCommand = cli.Command{
	Action: sampleAction,
	Name:   "sample",
	Usage:  "draw sample points by stratified or Monte Carlo sampling",
	Flags: []cli.Flag{
		&utils.MarginalFlag,
		&utils.VariableNamesFlag,
		&utils.StrataFlag,
		&utils.CriterionFlag,
		&utils.NumSamplesFlag,
		&utils.RandomSeedFlag,
		&utils.OutputFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The sample command draws one point per stratum if --strata is given,
otherwise --num-samples Monte Carlo points. Each dimension follows the
marginal given by one --marginal flag.`,
}

func sampleAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Require(utils.OutputFlag); err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Sample")

	marginals, err := config.ParseMarginals(cfg.Marginals)
	if err != nil {
		return err
	}
	if len(cfg.Names) > 0 && len(cfg.Names) != len(marginals) {
		return errors.Newf("%d names for %d marginals", len(cfg.Names), len(marginals))
	}
	rg := rand.New(rand.NewSource(cfg.RandomSeed))

	var samples srom.SampleSet
	switch {
	case len(cfg.Strata) > 0:
		criterion, err := sampling.ParseCriterion(cfg.Criterion)
		if err != nil {
			return err
		}
		strata, err := sampling.NewStrata(cfg.Strata)
		if err != nil {
			return err
		}
		log.Infof("Draw %d stratified samples (%v)", strata.Len(), criterion)
		if samples, err = sampling.Stratified(rg, strata, marginals, criterion, cfg.Names); err != nil {
			return err
		}
	case cfg.NumSamples > 0:
		log.Infof("Draw %d Monte Carlo samples", cfg.NumSamples)
		if samples, err = sampling.MonteCarlo(rg, marginals, cfg.NumSamples, cfg.Names); err != nil {
			return err
		}
	default:
		return errors.Newf("either --%v or --%v is required", utils.StrataFlag.Name, utils.NumSamplesFlag.Name)
	}

	log.Noticef("Write %d samples to %v", samples.Len(), cfg.Output)
	return dataset.SaveSamples(cfg.Output, samples)
}
