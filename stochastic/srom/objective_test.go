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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func correlatedSamples() SampleSet {
	return SampleSet{Points: [][]float64{
		{1.0, 2.0, 0.5},
		{2.0, 1.5, 1.0},
		{3.0, 3.5, 0.2},
		{4.0, 3.0, 2.0},
		{5.0, 6.0, 1.5},
		{3.0, 2.5, 3.0},
	}}
}

func allTermsProblem(t *testing.T) *problem {
	t.Helper()
	targets := Targets{
		CDFs: []CDF{
			NamedDistribution{"normal", []float64{3, 1.5}},
			NamedDistribution{"lognormal", []float64{0.5, 0, 3}},
			NamedDistribution{"exponential", []float64{0, 1.2}},
		},
		Moments:     [][]float64{{3, 10}, {3, 11}, {1.2, 2.9}},
		Correlation: [][]float64{{1, 0.8, 0.2}, {0.8, 1, 0.1}, {0.2, 0.1, 1}},
	}
	cfg := Config{
		Properties:          Properties{MatchMarginalCDF: true, MatchMoments: true, MatchCorrelation: true},
		ErrorWeights:        ErrorWeights{CDF: 1, Moments: 0.3, Correlation: 0.7},
		DistributionWeights: [][]float64{{1, 2, 0.5}},
	}
	q, err := newProblem(correlatedSamples(), targets, cfg)
	require.NoError(t, err)
	return q
}

func TestObjective_GradientMatchesFiniteDifferences(t *testing.T) {
	q := allTermsProblem(t)
	p := []float64{0.1, 0.25, 0.15, 0.2, 0.05, 0.25}
	grad := make([]float64, len(p))
	f, _ := q.objective(p, grad)
	require.False(t, math.IsNaN(f))

	const h = 1e-6
	for i := range p {
		plus := append([]float64(nil), p...)
		minus := append([]float64(nil), p...)
		plus[i] += h
		minus[i] -= h
		fp, _ := q.objective(plus, nil)
		fm, _ := q.objective(minus, nil)
		numeric := (fp - fm) / (2 * h)
		assert.InDelta(t, numeric, grad[i], 1e-5*math.Max(1, math.Abs(numeric)), "component %d", i)
	}
}

func TestObjective_TermsAreCombinedWithErrorWeights(t *testing.T) {
	q := allTermsProblem(t)
	p := uniform(q.n)
	f, terms := q.objective(p, nil)
	assert.InDelta(t, terms.CDF+0.3*terms.Moments+0.7*terms.Correlation, f, 1e-12)
	assert.Greater(t, terms.CDF, 0.0)
	assert.Greater(t, terms.Moments, 0.0)
	assert.Greater(t, terms.Correlation, 0.0)
}

func TestObjective_CDFTermCountsTiesTogether(t *testing.T) {
	samples := SampleSet{Points: [][]float64{{1}, {2}, {2}, {3}}}
	targets := Targets{CDFs: []CDF{UserFunction{
		Fn: func(x float64, _ []float64) float64 { return map[float64]float64{1: 0.1, 2: 0.6, 3: 1}[x] },
	}}}
	cfg := Config{Properties: Properties{MatchMarginalCDF: true}, ErrorWeights: ErrorWeights{CDF: 1}}
	q, err := newProblem(samples, targets, cfg)
	require.NoError(t, err)

	// ECDF is 0.1, 0.6, 0.6, 1 which matches the target exactly
	f, terms := q.objective([]float64{0.1, 0.2, 0.3, 0.4}, nil)
	assert.InDelta(t, 0, f, 1e-15)
	assert.InDelta(t, 0, terms.CDF, 1e-15)

	// moving mass inside the tie group leaves the error unchanged
	g, _ := q.objective([]float64{0.1, 0.5, 0.0, 0.4}, nil)
	assert.InDelta(t, f, g, 1e-15)
}

func TestObjective_CDFTermOfKnownWeights(t *testing.T) {
	samples := SampleSet{Points: [][]float64{{1}, {2}, {3}}}
	targets := Targets{CDFs: []CDF{NamedDistribution{"uniform", []float64{0, 4}}}}
	cfg := Config{Properties: Properties{MatchMarginalCDF: true}, ErrorWeights: ErrorWeights{CDF: 2}}
	q, err := newProblem(samples, targets, cfg)
	require.NoError(t, err)
	// ECDF 1/3, 2/3, 1 against 0.25, 0.5, 0.75
	want := math.Pow(1.0/3-0.25, 2) + math.Pow(2.0/3-0.5, 2) + math.Pow(0.25, 2)
	f, terms := q.objective(uniform(3), nil)
	assert.InDelta(t, want, terms.CDF, 1e-12)
	assert.InDelta(t, 2*want, f, 1e-12)
}

func TestObjective_MomentTermUsesMomentWeights(t *testing.T) {
	samples := SampleSet{Points: [][]float64{{1}, {3}}}
	targets := Targets{Moments: [][]float64{{2.5, 7}}}
	cfg := Config{
		Properties:    Properties{MatchMoments: true},
		ErrorWeights:  ErrorWeights{Moments: 1},
		MomentWeights: [][]float64{{1, 2}},
	}
	q, err := newProblem(samples, targets, cfg)
	require.NoError(t, err)
	// uniform weights give mean 2 and mean-of-squares 5
	_, terms := q.objective(uniform(2), nil)
	assert.InDelta(t, 0.25+2*4, terms.Moments, 1e-12)
}

func TestObjective_CorrelationMatchesWeightedCorrelation(t *testing.T) {
	q := allTermsProblem(t)
	p := []float64{0.3, 0.1, 0.2, 0.1, 0.2, 0.1}
	corr, err := WeightedCorrelation(correlatedSamples(), p)
	require.NoError(t, err)
	want := 0.0
	for j := range 3 {
		for k := j + 1; k < 3; k++ {
			r := corr[j][k] - q.corr[j][k]
			want += r * r
		}
	}
	_, terms := q.objective(p, nil)
	assert.InDelta(t, want, terms.Correlation, 1e-12)
}

func TestObjective_DegenerateVarianceIsNaN(t *testing.T) {
	q := allTermsProblem(t)
	// all mass on one sample leaves no variance
	f, _ := q.objective([]float64{0, 0, 1, 0, 0, 0}, nil)
	assert.True(t, math.IsNaN(f))
}
