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
	"os"

	"github.com/0xsoniclabs/srom/config"
	"github.com/0xsoniclabs/srom/dataset"
	"github.com/0xsoniclabs/srom/logger"
	"github.com/0xsoniclabs/srom/stochastic/visualizer"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// ReportCommand renders weighted samples against their targets.
var ReportCommand = cli.Command{
	Action: reportAction,
	Name:   "report",
	Usage:  "render an HTML report of an SROM",
	Flags: []cli.Flag{
		&utils.SamplesFlag,
		&utils.WeightsFlag,
		&utils.TargetsFlag,
		&utils.RegisterRunFlag,
		&utils.RunIdFlag,
		&utils.OutputFlag,
		&utils.PortFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The report command plots the marginal CDFs, the weights, the moments and the
correlations of an SROM. Targets are optional. The report is written to
--output, or served on --port.`,
}

func reportAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Require(utils.SamplesFlag); err != nil {
		return err
	}
	if cfg.Output == "" && cfg.Port == "" {
		return errors.Newf("either --%v or --%v is required", utils.OutputFlag.Name, utils.PortFlag.Name)
	}
	log := logger.NewLogger(cfg.LogLevel, "Report")

	report := &visualizer.Report{}
	if report.Samples, err = dataset.LoadSamples(cfg.Samples); err != nil {
		return err
	}
	if report.Weights, err = loadWeights(cfg, report.Samples); err != nil {
		return err
	}
	if cfg.Targets != "" {
		if report.Targets, _, err = config.LoadTargetFile(cfg.Targets); err != nil {
			return err
		}
	}

	if cfg.Port != "" {
		log.Noticef("Serve report on port %v", cfg.Port)
		return visualizer.FireUpWeb(report, cfg.Port)
	}
	file, err := os.Create(cfg.Output)
	if err != nil {
		return errors.Wrapf(err, "cannot create %v", cfg.Output)
	}
	err = visualizer.RenderHTML(file, report)
	if err = errors.CombineErrors(err, file.Close()); err != nil {
		return err
	}
	log.Noticef("Report written to %v", cfg.Output)
	return nil
}
