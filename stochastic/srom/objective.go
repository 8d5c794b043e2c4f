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

	"gonum.org/v1/gonum/floats"
)

// degenerateVariance is the weighted variance, relative to the unweighted
// one, below which a dimension has no usable correlation.
const degenerateVariance = 1e-12

// problem is a validated optimization problem with precomputed data.
type problem struct {
	n, d    int
	props   Properties
	weights ErrorWeights

	// marginal CDFs
	order  [][]int     // [k] sample indices sorted by coordinate k
	groups [][]int     // [k] start of each tie group in order[k], closed by n
	target [][]float64 // [k][i] target CDF at the k-th coordinate of sample i
	wd     [][]float64 // [i][k] distribution weights

	// moments
	moments [][]float64   // [k][m] target of order m+1
	wm      [][]float64   // [k][m] moment weights
	powers  [][][]float64 // [k][m][i] coordinate k of sample i to the power m+1

	// correlation
	corr     [][]float64 // target matrix
	wc       [][]float64 // correlation weights
	centered [][]float64 // [k][i] coordinates minus their unweighted mean
	spread   []float64   // [k] unweighted variance
}

// objective returns the combined objective and its terms at p. If grad is
// not nil it receives the gradient with respect to p. A NaN objective marks
// a point where the objective is undefined.
func (q *problem) objective(p, grad []float64) (float64, Terms) {
	if grad != nil {
		for i := range grad {
			grad[i] = 0
		}
	}
	var t Terms
	f := 0.0
	if q.props.MatchMarginalCDF {
		t.CDF = q.cdfError(p, grad, q.weights.CDF)
		f += q.weights.CDF * t.CDF
	}
	if q.props.MatchMoments {
		t.Moments = q.momentError(p, grad, q.weights.Moments)
		f += q.weights.Moments * t.Moments
	}
	if q.props.MatchCorrelation {
		t.Correlation = q.correlationError(p, grad, q.weights.Correlation)
		f += q.weights.Correlation * t.Correlation
	}
	return f, t
}

// cdfError sums the squared differences between the weighted empirical CDF
// and the target CDF at every sample, adding scale times its gradient.
func (q *problem) cdfError(p, grad []float64, scale float64) float64 {
	total := 0.0
	for k := range q.d {
		order, groups, target := q.order[k], q.groups[k], q.target[k]
		numGroups := len(groups) - 1
		slopes := make([]float64, numGroups)
		cum := 0.0 // Kahan summation of the empirical CDF
		c := 0.0
		for g := range numGroups {
			lo, hi := groups[g], groups[g+1]
			for _, i := range order[lo:hi] {
				y := p[i] - c
				s := cum + y
				c = (s - cum) - y
				cum = s
			}
			slope := 0.0
			for _, i := range order[lo:hi] {
				r := cum - target[i]
				total += q.wd[i][k] * r * r
				slope += 2 * q.wd[i][k] * r
			}
			slopes[g] = slope
		}
		if grad == nil {
			continue
		}
		// p[j] raises the empirical CDF of its own group and all groups above.
		acc := 0.0
		for g := numGroups - 1; g >= 0; g-- {
			acc += slopes[g]
			for _, i := range order[groups[g]:groups[g+1]] {
				grad[i] += scale * acc
			}
		}
	}
	return total
}

// momentError sums the weighted squared moment residuals, adding scale
// times its gradient.
func (q *problem) momentError(p, grad []float64, scale float64) float64 {
	total := 0.0
	for k := range q.d {
		for m, pow := range q.powers[k] {
			r := floats.Dot(p, pow) - q.moments[k][m]
			w := q.wm[k][m]
			total += w * r * r
			if grad != nil {
				floats.AddScaled(grad, scale*2*w*r, pow)
			}
		}
	}
	return total
}

// correlationError sums the weighted squared correlation residuals over all
// pairs j < k, adding scale times its gradient. It returns NaN if a weighted
// variance degenerates.
func (q *problem) correlationError(p, grad []float64, scale float64) float64 {
	mean := make([]float64, q.d)
	variance := make([]float64, q.d)
	for k := range q.d {
		mean[k] = floats.Dot(p, q.centered[k])
		second := 0.0
		for i, x := range q.centered[k] {
			second += p[i] * x * x
		}
		variance[k] = second - mean[k]*mean[k]
		if !(variance[k] > degenerateVariance*q.spread[k]) || variance[k] <= 0 {
			return nan()
		}
	}
	total := 0.0
	for j := range q.d {
		xj := q.centered[j]
		for k := j + 1; k < q.d; k++ {
			xk := q.centered[k]
			cross := 0.0
			for i := range xj {
				cross += p[i] * xj[i] * xk[i]
			}
			cov := cross - mean[j]*mean[k]
			norm := math.Sqrt(variance[j] * variance[k])
			rho := cov / norm
			r := rho - q.corr[j][k]
			w := q.wc[j][k]
			total += w * r * r
			if grad == nil || w == 0 {
				continue
			}
			factor := scale * 2 * w * r
			for i := range xj {
				dCov := xj[i]*xk[i] - xj[i]*mean[k] - mean[j]*xk[i]
				dVj := xj[i]*xj[i] - 2*mean[j]*xj[i]
				dVk := xk[i]*xk[i] - 2*mean[k]*xk[i]
				dRho := dCov/norm - rho/2*(dVj/variance[j]+dVk/variance[k])
				grad[i] += factor * dRho
			}
		}
	}
	return total
}
