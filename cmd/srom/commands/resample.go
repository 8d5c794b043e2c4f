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
	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/stochastic/statistics/discrete"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// ResampleCommand draws points from the discrete distribution of an SROM.
var ResampleCommand = cli.Command{
	Action: resampleAction,
	Name:   "resample",
	Usage:  "draw points from an SROM",
	Flags: []cli.Flag{
		&utils.SamplesFlag,
		&utils.WeightsFlag,
		&utils.RegisterRunFlag,
		&utils.RunIdFlag,
		&utils.NumSamplesFlag,
		&utils.RandomSeedFlag,
		&utils.OutputFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The resample command draws --num-samples points, each sample point chosen
with the probability of its weight.`,
}

func resampleAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Require(utils.SamplesFlag, utils.OutputFlag); err != nil {
		return err
	}
	if cfg.NumSamples < 1 {
		return errors.Newf("--%v must be positive", utils.NumSamplesFlag.Name)
	}
	log := logger.NewLogger(cfg.LogLevel, "Resample")

	samples, err := dataset.LoadSamples(cfg.Samples)
	if err != nil {
		return err
	}
	weights, err := loadWeights(cfg, samples)
	if err != nil {
		return err
	}
	drawn, err := resample(rand.New(rand.NewSource(cfg.RandomSeed)), samples, weights, cfg.NumSamples)
	if err != nil {
		return err
	}
	log.Noticef("Write %d points to %v", drawn.Len(), cfg.Output)
	return dataset.SaveSamples(cfg.Output, drawn)
}

// resample draws n sample points with the probabilities given by weights.
func resample(rg *rand.Rand, samples srom.SampleSet, weights []float64, n int) (srom.SampleSet, error) {
	if err := discrete.CheckPMF(weights); err != nil {
		return srom.SampleSet{}, err
	}
	points := make([][]float64, n)
	for i := range points {
		points[i] = samples.Points[discrete.Sample(rg, weights)]
	}
	return srom.SampleSet{Names: samples.Names, Points: points}, nil
}
