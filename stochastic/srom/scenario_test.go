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

package srom_test

import (
	"context"
	"math"
	"testing"

	"github.com/0xsoniclabs/srom/logger"
	"github.com/0xsoniclabs/srom/stochastic/sampling"
	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/stochastic/statistics/distribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// gammaScenario stratifies a 2-D Gamma(shape 2, shift 1, scale 3) with a
// 4×4 design, taking the center of every stratum.
func gammaScenario(t *testing.T) (srom.SampleSet, srom.Targets, srom.Config) {
	t.Helper()
	gamma, err := distribution.New("gamma", []float64{2, 1, 3})
	require.NoError(t, err)
	strata, err := sampling.NewStrata([]int{4, 4})
	require.NoError(t, err)
	samples, err := sampling.Stratified(nil, strata, []distribution.Distribution{gamma, gamma}, sampling.Centered, []string{"X1", "X2"})
	require.NoError(t, err)

	targets := srom.Targets{
		CDFs:    []srom.CDF{srom.NamedDistribution{Name: "gamma", Params: []float64{2, 1, 3}}},
		Moments: [][]float64{{6, 54}, {6, 54}},
	}
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)
	log.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Noticef(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warningf(gomock.Any(), gomock.Any()).AnyTimes()
	cfg := srom.DefaultConfig()
	cfg.Logger = log
	return samples, targets, cfg
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

func TestSROM_GammaStratifiedScenario(t *testing.T) {
	for _, method := range []srom.Method{srom.SpectralProjectedGradient, srom.SoftmaxLBFGS} {
		t.Run(method.String(), func(t *testing.T) {
			samples, targets, cfg := gammaScenario(t)
			cfg.Solver.Method = method

			res, err := srom.Optimize(context.Background(), samples, targets, cfg)
			require.NoError(t, err)
			require.Len(t, res.Weights, 16)
			sum := 0.0
			for _, p := range res.Weights {
				require.GreaterOrEqual(t, p, 0.0)
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-12)
			if method == srom.SpectralProjectedGradient {
				assert.True(t, res.Converged, res.Reason)
			}
			assert.Less(t, res.Objective, 0.2)

			// uniform weights are a feasible point; the optimum must not be worse
			uniformF, uniformTerms, err := srom.Evaluate(samples, targets, cfg, uniformWeights(16))
			require.NoError(t, err)
			assert.LessOrEqual(t, res.Objective, uniformF)
			assert.Less(t, res.Terms.CDF, uniformTerms.CDF)

			// mean and mean-of-squares are pulled towards the targets while
			// the distribution itself has mean 7 and mean-of-squares 67
			moments, err := srom.WeightedMoments(samples, res.Weights, 2)
			require.NoError(t, err)
			for k := range 2 {
				assert.Greater(t, moments[k][0], 4.0)
				assert.Less(t, moments[k][0], 8.1)
				assert.Greater(t, moments[k][1], 40.0)
				assert.Less(t, moments[k][1], 75.6)
			}

			// the weighted ECDF tracks the gamma CDF at every sample
			gamma, err := distribution.New("gamma", []float64{2, 1, 3})
			require.NoError(t, err)
			for k := range 2 {
				ecdf, err := srom.WeightedECDF(samples, res.Weights, k)
				require.NoError(t, err)
				for _, p := range samples.Points {
					f := stepValue(ecdf, p[k])
					assert.LessOrEqual(t, math.Abs(f-gamma.CDF(p[k])), 0.13, "dimension %d at %v", k, p[k])
				}
			}
		})
	}
}

func TestSROM_HigherCDFWeightDoesNotIncreaseCDFError(t *testing.T) {
	samples, targets, cfg := gammaScenario(t)
	base, err := srom.Optimize(context.Background(), samples, targets, cfg)
	require.NoError(t, err)

	cfg.ErrorWeights.CDF = 10
	shifted, err := srom.Optimize(context.Background(), samples, targets, cfg)
	require.NoError(t, err)

	assert.LessOrEqual(t, shifted.Terms.CDF, base.Terms.CDF+1e-6)
	assert.GreaterOrEqual(t, shifted.Terms.Moments, base.Terms.Moments-1e-6)
}

// stepValue evaluates a right-continuous step function given as points.
func stepValue(f [][2]float64, x float64) float64 {
	v := 0.0
	for _, p := range f {
		if p[0] <= x {
			v = p[1]
		}
	}
	return v
}
