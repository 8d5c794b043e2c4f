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

package config

import (
	"github.com/0xsoniclabs/srom/logger"
	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// Config holds the command line settings of a srom command.
type Config struct {
	AppName     string
	CommandName string

	Criterion     string   // point placement inside a stratum
	LogLevel      string   // level of the logger
	Marginals     []string // marginal distributions as name:param:...
	MaxIterations int      // solver iteration budget, 0 keeps the target file value
	Names         []string // variable names of generated samples
	NumSamples    int      // number of points to draw
	Output        string   // output path
	Port          string   // port of the report server
	RandomSeed    int64    // seed of the random generator
	RegisterRun   string   // sqlite database of registered runs
	RunId         string   // identifier of a registered run
	Samples       string   // sample CSV file
	Solver        string   // solver name, empty keeps the target file value
	Strata        []int    // strata per dimension
	Targets       string   // target YAML file
	Tolerance     float64  // solver tolerance, 0 keeps the target file value
	Weights       string   // weight CSV file
}

// NewConfig creates a Config from the flags of the running command and checks
// the numeric settings.
func NewConfig(ctx *cli.Context) (*Config, error) {
	cfg := createConfigFromFlags(ctx)
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createConfigFromFlags returns Config instance with user specified values or the default ones
func createConfigFromFlags(ctx *cli.Context) *Config {
	cfg := &Config{
		AppName:     ctx.App.HelpName,
		CommandName: ctx.Command.Name,

		Criterion:     getFlagValue(ctx, utils.CriterionFlag).(string),
		LogLevel:      getFlagValue(ctx, logger.LogLevelFlag).(string),
		Marginals:     getFlagValue(ctx, utils.MarginalFlag).([]string),
		MaxIterations: getFlagValue(ctx, utils.MaxIterationsFlag).(int),
		Names:         getFlagValue(ctx, utils.VariableNamesFlag).([]string),
		NumSamples:    getFlagValue(ctx, utils.NumSamplesFlag).(int),
		Output:        getFlagValue(ctx, utils.OutputFlag).(string),
		Port:          getFlagValue(ctx, utils.PortFlag).(string),
		RandomSeed:    getFlagValue(ctx, utils.RandomSeedFlag).(int64),
		RegisterRun:   getFlagValue(ctx, utils.RegisterRunFlag).(string),
		RunId:         getFlagValue(ctx, utils.RunIdFlag).(string),
		Samples:       getFlagValue(ctx, utils.SamplesFlag).(string),
		Solver:        getFlagValue(ctx, utils.SolverFlag).(string),
		Strata:        getFlagValue(ctx, utils.StrataFlag).([]int),
		Targets:       getFlagValue(ctx, utils.TargetsFlag).(string),
		Tolerance:     getFlagValue(ctx, utils.ToleranceFlag).(float64),
		Weights:       getFlagValue(ctx, utils.WeightsFlag).(string),
	}
	return cfg
}

func (cfg *Config) check() error {
	if cfg.MaxIterations < 0 {
		return errors.Newf("--%v must not be negative, got %d", utils.MaxIterationsFlag.Name, cfg.MaxIterations)
	}
	if cfg.Tolerance < 0 {
		return errors.Newf("--%v must not be negative, got %v", utils.ToleranceFlag.Name, cfg.Tolerance)
	}
	if cfg.NumSamples < 0 {
		return errors.Newf("--%v must not be negative, got %d", utils.NumSamplesFlag.Name, cfg.NumSamples)
	}
	for _, s := range cfg.Strata {
		if s < 1 {
			return errors.Newf("--%v needs at least one stratum per dimension, got %v", utils.StrataFlag.Name, cfg.Strata)
		}
	}
	return nil
}

// OverrideSolver applies solver settings given on the command line.
func (cfg *Config) OverrideSolver(s *srom.SolverSettings) error {
	if cfg.Solver != "" {
		method, err := srom.ParseMethod(cfg.Solver)
		if err != nil {
			return err
		}
		s.Method = method
	}
	if cfg.MaxIterations != 0 {
		s.MaxIterations = cfg.MaxIterations
	}
	if cfg.Tolerance != 0 {
		s.Tolerance = cfg.Tolerance
	}
	return nil
}

// Require returns an error naming the first of the given path flags that is empty.
func (cfg *Config) Require(flags ...cli.PathFlag) error {
	for _, f := range flags {
		if cfg.path(f.Name) == "" {
			return errors.Newf("missing --%v", f.Name)
		}
	}
	return nil
}

func (cfg *Config) path(name string) string {
	switch name {
	case utils.SamplesFlag.Name:
		return cfg.Samples
	case utils.TargetsFlag.Name:
		return cfg.Targets
	case utils.WeightsFlag.Name:
		return cfg.Weights
	case utils.OutputFlag.Name:
		return cfg.Output
	case utils.RegisterRunFlag.Name:
		return cfg.RegisterRun
	}
	return ""
}

// getFlagValue returns value specified by user if flag is present in cli context, otherwise return default flag value
func getFlagValue(ctx *cli.Context, flag interface{}) interface{} {
	cmdFlags := ctx.Command.Flags
	for _, cmdFlag := range cmdFlags {
		switch f := flag.(type) {
		case cli.IntFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Int(f.Name)
			}

		case cli.Int64Flag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Int64(f.Name)
			}

		case cli.Float64Flag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Float64(f.Name)
			}

		case cli.StringFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.String(f.Name)
			}

		case cli.PathFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Path(f.Name)
			}

		case cli.BoolFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Bool(f.Name)
			}

		case cli.StringSliceFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.StringSlice(f.Name)
			}

		case cli.IntSliceFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.IntSlice(f.Name)
			}
		}
	}

	// If flag not found, return the default value of the flag
	switch f := flag.(type) {
	case cli.IntFlag:
		return f.Value
	case cli.Int64Flag:
		return f.Value
	case cli.Float64Flag:
		return f.Value
	case cli.StringFlag:
		return f.Value
	case cli.PathFlag:
		return f.Value
	case cli.BoolFlag:
		return f.Value
	case cli.StringSliceFlag:
		if f.Value == nil {
			return []string{}
		}
		return f.Value.Value()
	case cli.IntSliceFlag:
		if f.Value == nil {
			return []int{}
		}
		return f.Value.Value()
	}

	return nil
}
