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

package srom

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_WeightedMoments(t *testing.T) {
	samples := SampleSet{Points: [][]float64{{1, -1}, {2, 0}, {4, 3}}}
	moments, err := WeightedMoments(samples, []float64{0.5, 0.25, 0.25}, 3)
	require.NoError(t, err)
	require.Len(t, moments, 2)
	assert.InDeltaSlice(t, []float64{2, 5.5, 18.5}, moments[0], 1e-12)
	assert.InDeltaSlice(t, []float64{0.25, 2.75, 6.25}, moments[1], 1e-12)
}

func TestDiagnostics_WeightedCorrelationOfLinearRelation(t *testing.T) {
	samples := SampleSet{Points: [][]float64{{1, 3, 5}, {2, 5, 1}, {3, 7, 2}, {4, 9, 0}}}
	corr, err := WeightedCorrelation(samples, []float64{0.1, 0.2, 0.3, 0.4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, corr[0][1], 1e-12)
	assert.InDelta(t, corr[0][2], corr[2][0], 0)
	assert.Equal(t, 1.0, corr[2][2])
	assert.Less(t, corr[0][2], 0.0)
}

func TestDiagnostics_WeightedCorrelationOfPointMassIsNaN(t *testing.T) {
	samples := SampleSet{Points: [][]float64{{1, 3}, {2, 5}}}
	corr, err := WeightedCorrelation(samples, []float64{1, 0})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(corr[0][1]))
}

func TestDiagnostics_WeightedECDF(t *testing.T) {
	samples := SampleSet{Points: [][]float64{{3, 0}, {1, 0}, {2, 0}}}
	ecdf, err := WeightedECDF(samples, []float64{0.5, 0.2, 0.3}, 0)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{1, 0}, ecdf[0])
	assert.Equal(t, [2]float64{3, 1}, ecdf[len(ecdf)-1])
	assert.Contains(t, ecdf, [2]float64{2, 0.5})

	// a single distinct value is one jump
	ecdf, err = WeightedECDF(samples, []float64{0.5, 0.2, 0.3}, 1)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{0, 0}, {0, 1}}, ecdf)
}

func TestDiagnostics_RejectInvalidInput(t *testing.T) {
	samples := SampleSet{Points: [][]float64{{1}, {2}}}
	_, err := WeightedMoments(samples, []float64{1}, 2)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	_, err = WeightedMoments(samples, []float64{0.5, 0.5}, 0)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	_, err = WeightedECDF(samples, []float64{0.5, 0.5}, 1)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	_, err = WeightedCorrelation(SampleSet{}, nil)
	assert.True(t, errors.Is(err, ErrInvalidTarget))
}

func TestCDF_EvaluateVariants(t *testing.T) {
	named := NamedDistribution{Name: "uniform", Params: []float64{0, 2}}
	assert.InDelta(t, 0.25, named.Evaluate(0.5), 1e-15)
	assert.True(t, math.IsNaN(NamedDistribution{Name: "none"}.Evaluate(1)))

	user := UserFunction{
		Fn:     func(x float64, p []float64) float64 { return math.Min(1, math.Max(0, x/p[0])) },
		Params: []float64{4},
	}
	assert.Equal(t, 0.5, user.Evaluate(2))
	assert.True(t, math.IsNaN(UserFunction{}.Evaluate(1)))
}

func TestCDF_ResolveLooksUpOnce(t *testing.T) {
	f, err := Resolve(NamedDistribution{Name: "uniform", Params: []float64{0, 2}})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, f(0.5), 1e-15)
	assert.InDelta(t, 0.75, f(1.5), 1e-15)

	_, err = Resolve(NamedDistribution{Name: "none"})
	assert.Error(t, err)
	_, err = Resolve(UserFunction{})
	assert.Error(t, err)
	_, err = Resolve(nil)
	assert.Error(t, err)
}
