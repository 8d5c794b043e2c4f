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

	"github.com/0xsoniclabs/srom/stochastic/statistics/continuous"
	"github.com/0xsoniclabs/srom/stochastic/statistics/discrete"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WeightedMoments returns the moments about the origin of orders 1..orders
// of every dimension under the weights, indexed [k][m] like Targets.Moments.
func WeightedMoments(samples SampleSet, weights []float64, orders int) ([][]float64, error) {
	if err := checkWeighted(samples, weights); err != nil {
		return nil, err
	}
	if orders < 1 {
		return nil, invalidConfig("moment order must be positive (%d)", orders)
	}
	d := samples.Dim()
	out := make([][]float64, d)
	pow := make([]float64, samples.Len())
	for k := range d {
		out[k] = make([]float64, orders)
		for m := range orders {
			for i, row := range samples.Points {
				pow[i] = math.Pow(row[k], float64(m+1))
			}
			out[k][m] = floats.Dot(weights, pow)
		}
	}
	return out, nil
}

// WeightedCorrelation returns the correlation matrix of the weighted samples.
// Entries involving a dimension without weighted variance are NaN.
func WeightedCorrelation(samples SampleSet, weights []float64) ([][]float64, error) {
	if err := checkWeighted(samples, weights); err != nil {
		return nil, err
	}
	d := samples.Dim()
	cols := make([][]float64, d)
	for k := range d {
		cols[k] = samples.Column(k)
	}
	out := make([][]float64, d)
	for j := range d {
		out[j] = make([]float64, d)
		out[j][j] = 1
	}
	for j := range d {
		for k := j + 1; k < d; k++ {
			rho := stat.Correlation(cols[j], cols[k], weights)
			out[j][k], out[k][j] = rho, rho
		}
	}
	return out, nil
}

// WeightedECDF returns the weighted empirical CDF of dimension k as a step
// function of (x, F) points.
func WeightedECDF(samples SampleSet, weights []float64, k int) ([][2]float64, error) {
	if err := checkWeighted(samples, weights); err != nil {
		return nil, err
	}
	if k < 0 || k >= samples.Dim() {
		return nil, invalidConfig("dimension %d out of range [0,%d)", k, samples.Dim())
	}
	return continuous.Step(samples.Column(k), weights)
}

func checkWeighted(samples SampleSet, weights []float64) error {
	if _, _, err := checkSamples(samples); err != nil {
		return err
	}
	if len(weights) != samples.Len() {
		return invalidConfig("%d weights for %d samples", len(weights), samples.Len())
	}
	if err := discrete.CheckPMF(weights); err != nil {
		return invalidConfig("weights: %v", err)
	}
	return nil
}
