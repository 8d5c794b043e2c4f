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
	"flag"
	"testing"

	"github.com/0xsoniclabs/srom/logger"
	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestGetFlagValue(t *testing.T) {
	// app for testing
	app := cli.NewApp()
	app.Commands = []*cli.Command{
		{
			Name: "testcmd",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name: "intflag",
				},
				&cli.Int64Flag{
					Name: "int64flag",
				},
				&cli.Float64Flag{
					Name: "float64flag",
				},
				&cli.StringFlag{
					Name: "stringflag",
				},
				&cli.PathFlag{
					Name: "pathflag",
				},
				&cli.BoolFlag{
					Name: "boolflag",
				},
				&cli.StringSliceFlag{
					Name: "stringsliceflag",
				},
				&cli.IntSliceFlag{
					Name: "intsliceflag",
				},
			},
		},
	}

	newContext := func(set *flag.FlagSet) *cli.Context {
		ctx := cli.NewContext(app, set, nil)
		ctx.Command = app.Commands[0]
		return ctx
	}

	testCases := []struct {
		name          string
		setupFlags    func() *cli.Context
		flagToTest    interface{}
		expectedValue interface{}
	}{
		{
			name: "IntFlag value",
			setupFlags: func() *cli.Context {
				set := flag.NewFlagSet("test", 0)
				set.Int("intflag", 42, "")
				return newContext(set)
			},
			flagToTest:    cli.IntFlag{Name: "intflag"},
			expectedValue: 42,
		},
		{
			name: "Int64Flag value",
			setupFlags: func() *cli.Context {
				set := flag.NewFlagSet("test", 0)
				set.Int64("int64flag", 200, "")
				return newContext(set)
			},
			flagToTest:    cli.Int64Flag{Name: "int64flag"},
			expectedValue: int64(200),
		},
		{
			name: "Float64Flag value",
			setupFlags: func() *cli.Context {
				set := flag.NewFlagSet("test", 0)
				set.Float64("float64flag", 0.25, "")
				return newContext(set)
			},
			flagToTest:    cli.Float64Flag{Name: "float64flag"},
			expectedValue: 0.25,
		},
		{
			name: "StringFlag value",
			setupFlags: func() *cli.Context {
				set := flag.NewFlagSet("test", 0)
				set.String("stringflag", "test-string", "")
				return newContext(set)
			},
			flagToTest:    cli.StringFlag{Name: "stringflag"},
			expectedValue: "test-string",
		},
		{
			name: "PathFlag value",
			setupFlags: func() *cli.Context {
				set := flag.NewFlagSet("test", 0)
				set.String("pathflag", "/test/path", "")
				return newContext(set)
			},
			flagToTest:    cli.PathFlag{Name: "pathflag"},
			expectedValue: "/test/path",
		},
		{
			name: "BoolFlag value",
			setupFlags: func() *cli.Context {
				set := flag.NewFlagSet("test", 0)
				set.Bool("boolflag", true, "")
				return newContext(set)
			},
			flagToTest:    cli.BoolFlag{Name: "boolflag"},
			expectedValue: true,
		},
		{
			name: "StringSliceFlag value",
			setupFlags: func() *cli.Context {
				set := flag.NewFlagSet("test", 0)
				set.Var(cli.NewStringSlice("value1", "value2"), "stringsliceflag", "")
				return newContext(set)
			},
			flagToTest:    cli.StringSliceFlag{Name: "stringsliceflag"},
			expectedValue: []string{"value1", "value2"},
		},
		{
			name: "IntSliceFlag value",
			setupFlags: func() *cli.Context {
				set := flag.NewFlagSet("test", 0)
				set.Var(cli.NewIntSlice(4, 3), "intsliceflag", "")
				return newContext(set)
			},
			flagToTest:    cli.IntSliceFlag{Name: "intsliceflag"},
			expectedValue: []int{4, 3},
		},
		{
			name: "missing flag falls back to its default",
			setupFlags: func() *cli.Context {
				return newContext(flag.NewFlagSet("test", 0))
			},
			flagToTest:    cli.Int64Flag{Name: "unknown", Value: 7},
			expectedValue: int64(7),
		},
		{
			name: "missing slice flag without default is empty",
			setupFlags: func() *cli.Context {
				return newContext(flag.NewFlagSet("test", 0))
			},
			flagToTest:    cli.IntSliceFlag{Name: "unknown"},
			expectedValue: []int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			value := getFlagValue(tc.setupFlags(), tc.flagToTest)
			assert.Equal(t, tc.expectedValue, value)
		})
	}
}

func TestNewConfig_ReadsCommandFlags(t *testing.T) {
	// given
	var cfg *Config
	app := cli.NewApp()
	app.Commands = []*cli.Command{{
		Name: "cmd",
		Flags: []cli.Flag{
			&logger.LogLevelFlag,
			&utils.SolverFlag,
			&utils.MaxIterationsFlag,
			&utils.StrataFlag,
			&utils.MarginalFlag,
			&utils.SamplesFlag,
		},
		Action: func(ctx *cli.Context) error {
			var err error
			cfg, err = NewConfig(ctx)
			return err
		},
	}}
	args := utils.NewArgs("test").
		Arg("cmd").
		Flag(logger.LogLevelFlag.Name, "debug").
		Flag(utils.SolverFlag.Name, "lbfgs").
		Flag(utils.MaxIterationsFlag.Name, 10).
		Flag(utils.StrataFlag.Name, "4,4").
		Flag(utils.MarginalFlag.Name, "gamma:2:1:3").
		Flag(utils.MarginalFlag.Name, "normal:0:1").
		Flag(utils.SamplesFlag.Name, "points.csv").
		Build()

	// when
	err := app.Run(args)

	// then
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "cmd", cfg.CommandName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "lbfgs", cfg.Solver)
	assert.Equal(t, 10, cfg.MaxIterations)
	assert.Equal(t, []int{4, 4}, cfg.Strata)
	assert.Equal(t, []string{"gamma:2:1:3", "normal:0:1"}, cfg.Marginals)
	assert.Equal(t, "points.csv", cfg.Samples)
	// flags not attached to the command keep their defaults
	assert.Equal(t, int64(1), cfg.RandomSeed)
	assert.Equal(t, "random", cfg.Criterion)
	assert.Zero(t, cfg.Tolerance)
}

func TestConfig_CheckRejectsNegativeSettings(t *testing.T) {
	tests := map[string]Config{
		"iterations": {MaxIterations: -1},
		"tolerance":  {Tolerance: -1e-3},
		"samples":    {NumSamples: -2},
		"strata":     {Strata: []int{4, 0}},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.check())
		})
	}
	valid := Config{MaxIterations: 3, Tolerance: 1e-8, NumSamples: 4, Strata: []int{2, 2}}
	assert.NoError(t, valid.check())
}

func TestConfig_Require(t *testing.T) {
	cfg := Config{Samples: "s.csv", Targets: "t.yaml"}
	assert.NoError(t, cfg.Require(utils.SamplesFlag, utils.TargetsFlag))

	err := cfg.Require(utils.SamplesFlag, utils.WeightsFlag)
	require.Error(t, err)
	assert.Contains(t, err.Error(), utils.WeightsFlag.Name)
}

func TestConfig_OverrideSolver(t *testing.T) {
	settings := srom.SolverSettings{Method: srom.SpectralProjectedGradient, MaxIterations: 100, Tolerance: 1e-6}

	// zero values keep the given settings
	require.NoError(t, (&Config{}).OverrideSolver(&settings))
	assert.Equal(t, srom.SolverSettings{Method: srom.SpectralProjectedGradient, MaxIterations: 100, Tolerance: 1e-6}, settings)

	cfg := Config{Solver: "lbfgs", MaxIterations: 7, Tolerance: 1e-3}
	require.NoError(t, cfg.OverrideSolver(&settings))
	assert.Equal(t, srom.SolverSettings{Method: srom.SoftmaxLBFGS, MaxIterations: 7, Tolerance: 1e-3}, settings)

	err := (&Config{Solver: "newton"}).OverrideSolver(&settings)
	assert.ErrorIs(t, err, srom.ErrInvalidConfiguration)
}
