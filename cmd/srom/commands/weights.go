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
	"github.com/0xsoniclabs/srom/config"
	"github.com/0xsoniclabs/srom/dataset"
	"github.com/0xsoniclabs/srom/register"
	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/cockroachdb/errors"
)

// loadWeights reads the weights from --weights or from a registered run and
// checks that there is one weight per sample.
func loadWeights(cfg *config.Config, samples srom.SampleSet) ([]float64, error) {
	var (
		weights []float64
		err     error
	)
	switch {
	case cfg.Weights != "":
		weights, err = dataset.LoadWeights(cfg.Weights)
	case cfg.RegisterRun != "" && cfg.RunId != "":
		weights, err = loadRegisteredWeights(cfg.RegisterRun, cfg.RunId)
	default:
		return nil, errors.Newf("either --%v or --%v with --%v is required",
			utils.WeightsFlag.Name, utils.RegisterRunFlag.Name, utils.RunIdFlag.Name)
	}
	if err != nil {
		return nil, err
	}
	if len(weights) != samples.Len() {
		return nil, errors.Newf("%d weights for %d samples", len(weights), samples.Len())
	}
	return weights, nil
}

func loadRegisteredWeights(conn string, runId string) (weights []float64, err error) {
	db, err := register.Open(conn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.CombineErrors(err, db.Close())
	}()
	return register.LoadWeights(db, runId)
}
