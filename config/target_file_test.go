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
	"path/filepath"
	"testing"

	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/stochastic/statistics/continuous"
	"github.com/0xsoniclabs/srom/stochastic/statistics/distribution"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullTargetFile = `
marginals:
  - cdf: {name: gamma, params: [2, 1, 3]}
    moments: [6, 54]
  - cdf:
      kind: table
      points: [[0, 0], [2, 1]]
correlation: [[1, 0.3], [0.3, 1]]
properties: {correlation: true}
error_weights: {moments: 0.5, correlation: 2}
moment_weights: [[1, 0.01]]
solver:
  method: lbfgs
  max_iterations: 250
  tolerance: 1.0e-8
`

func TestParseTargets_FullFile(t *testing.T) {
	targets, cfg, err := ParseTargets([]byte(fullTargetFile))
	require.NoError(t, err)

	require.Len(t, targets.CDFs, 2)
	assert.Equal(t, srom.NamedDistribution{Name: "gamma", Params: []float64{2, 1, 3}}, targets.CDFs[0])
	table, ok := targets.CDFs[1].(srom.UserFunction)
	require.True(t, ok)
	assert.InDelta(t, 0.25, table.Evaluate(0.5), 1e-12)
	assert.Equal(t, 1.0, table.Evaluate(3))

	require.Len(t, targets.Moments, 2)
	assert.Equal(t, []float64{6, 54}, targets.Moments[0])
	// uniform on [0,2]
	assert.InDeltaSlice(t, []float64{1, 4.0 / 3.0}, targets.Moments[1], 1e-12)
	assert.Equal(t, [][]float64{{1, 0.3}, {0.3, 1}}, targets.Correlation)

	assert.Equal(t, srom.Properties{MatchMarginalCDF: true, MatchMoments: true, MatchCorrelation: true}, cfg.Properties)
	assert.Equal(t, srom.ErrorWeights{CDF: 1, Moments: 0.5, Correlation: 2}, cfg.ErrorWeights)
	assert.Equal(t, [][]float64{{1, 0.01}}, cfg.MomentWeights)
	assert.Equal(t, srom.SoftmaxLBFGS, cfg.Solver.Method)
	assert.Equal(t, 250, cfg.Solver.MaxIterations)
	assert.Equal(t, 1e-8, cfg.Solver.Tolerance)
}

func TestParseTargets_DefaultsAndDerivedMoments(t *testing.T) {
	targets, cfg, err := ParseTargets([]byte(`
marginals:
  - cdf: {name: gamma, params: [2, 1, 3]}
`))
	require.NoError(t, err)

	assert.Equal(t, srom.DefaultConfig().Properties, cfg.Properties)
	assert.Equal(t, srom.DefaultConfig().ErrorWeights, cfg.ErrorWeights)
	assert.Equal(t, srom.DefaultConfig().Solver, cfg.Solver)
	require.Len(t, targets.Moments, 1)
	// mean 1 + 3*2, variance 9*2
	assert.InDeltaSlice(t, []float64{7, 67}, targets.Moments[0], 1e-9)
	assert.Nil(t, targets.Correlation)
}

func TestParseTargets_NoMomentsWhenNotMatched(t *testing.T) {
	targets, cfg, err := ParseTargets([]byte(`
marginals:
  - cdf: {name: cauchy, params: [0, 1]}
properties: {moments: false}
`))
	require.NoError(t, err)
	assert.False(t, cfg.Properties.MatchMoments)
	assert.Nil(t, targets.Moments)
}

func TestParseTargets_Errors(t *testing.T) {
	tests := map[string]struct {
		yaml string
		is   error
	}{
		"unknown key": {
			yaml: "marginals:\n  - cdf: {name: normal, params: [0, 1]}\nweights: 1\n",
		},
		"no marginals": {
			yaml: "correlation: [[1]]\n",
		},
		"unknown distribution": {
			yaml: "marginals:\n  - cdf: {name: zipf, params: [1]}\n",
			is:   distribution.ErrUnknownDistribution,
		},
		"wrong parameter count": {
			yaml: "marginals:\n  - cdf: {name: gamma, params: [2]}\n",
			is:   distribution.ErrInvalidParameters,
		},
		"invalid table": {
			yaml: "marginals:\n  - cdf: {kind: table, points: [[0, 0.2], [1, 1]]}\n",
			is:   continuous.ErrInvalidCDF,
		},
		"malformed table point": {
			yaml: "marginals:\n  - cdf: {kind: table, points: [[0, 0, 1], [1, 1]]}\n",
		},
		"unknown kind": {
			yaml: "marginals:\n  - cdf: {kind: spline}\n",
		},
		"undefined moments": {
			yaml: "marginals:\n  - cdf: {name: cauchy, params: [0, 1]}\n",
		},
		"unknown solver": {
			yaml: "marginals:\n  - cdf: {name: normal, params: [0, 1]}\nsolver: {method: newton}\n",
			is:   srom.ErrInvalidConfiguration,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseTargets([]byte(test.yaml))
			require.Error(t, err)
			if test.is != nil {
				assert.ErrorIs(t, err, test.is)
			}
		})
	}
}

func TestLoadTargetFile_ReadsFromDisk(t *testing.T) {
	path := utils.WriteTestFile(t, "targets.yaml", fullTargetFile)

	targets, cfg, err := LoadTargetFile(path)
	require.NoError(t, err)
	assert.Len(t, targets.CDFs, 2)
	assert.Equal(t, 250, cfg.Solver.MaxIterations)

	_, _, err = LoadTargetFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
