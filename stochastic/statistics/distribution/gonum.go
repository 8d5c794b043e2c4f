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

package distribution

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// normal is the standard normal distribution.
type normal struct{}

func (normal) cdf(z float64) float64      { return distuv.UnitNormal.CDF(z) }
func (normal) quantile(p float64) float64 { return distuv.UnitNormal.Quantile(p) }
func (normal) mean() float64              { return 0 }
func (normal) variance() float64          { return 1 }

// uniform is the uniform distribution on [0,1].
type uniform struct{}

func (uniform) cdf(z float64) float64      { return distuv.Uniform{Min: 0, Max: 1}.CDF(z) }
func (uniform) quantile(p float64) float64 { return p }
func (uniform) mean() float64              { return 0.5 }
func (uniform) variance() float64          { return 1.0 / 12 }

// exponential is the exponential distribution with unit rate.
type exponential struct{}

func (exponential) cdf(z float64) float64      { return distuv.Exponential{Rate: 1}.CDF(z) }
func (exponential) quantile(p float64) float64 { return distuv.Exponential{Rate: 1}.Quantile(p) }
func (exponential) mean() float64              { return 1 }
func (exponential) variance() float64          { return 1 }

// laplace is the standard double exponential distribution.
type laplace struct{}

func (laplace) cdf(z float64) float64      { return distuv.Laplace{Mu: 0, Scale: 1}.CDF(z) }
func (laplace) quantile(p float64) float64 { return distuv.Laplace{Mu: 0, Scale: 1}.Quantile(p) }
func (laplace) mean() float64              { return 0 }
func (laplace) variance() float64          { return 2 }

// gamma is the gamma distribution with shape a and unit scale.
type gamma struct{ d distuv.Gamma }

func newGamma(shape []float64) (standard, error) {
	if err := positive("shape", shape[0]); err != nil {
		return nil, err
	}
	return gamma{distuv.Gamma{Alpha: shape[0], Beta: 1}}, nil
}

func (g gamma) cdf(z float64) float64 {
	if z <= 0 {
		return 0
	}
	return g.d.CDF(z)
}
func (g gamma) quantile(p float64) float64 { return g.d.Quantile(p) }
func (g gamma) mean() float64              { return g.d.Alpha }
func (g gamma) variance() float64          { return g.d.Alpha }

// chiSquare is the chi-squared distribution with df degrees of freedom.
type chiSquare struct{ d distuv.ChiSquared }

func newChiSquare(shape []float64) (standard, error) {
	if err := positive("degrees of freedom", shape[0]); err != nil {
		return nil, err
	}
	return chiSquare{distuv.ChiSquared{K: shape[0]}}, nil
}

func (c chiSquare) cdf(z float64) float64 {
	if z <= 0 {
		return 0
	}
	return c.d.CDF(z)
}
func (c chiSquare) quantile(p float64) float64 { return c.d.Quantile(p) }
func (c chiSquare) mean() float64              { return c.d.K }
func (c chiSquare) variance() float64          { return 2 * c.d.K }

// logNormal is exp(s*N(0,1)).
type logNormal struct{ d distuv.LogNormal }

func newLogNormal(shape []float64) (standard, error) {
	if err := positive("s", shape[0]); err != nil {
		return nil, err
	}
	return logNormal{distuv.LogNormal{Mu: 0, Sigma: shape[0]}}, nil
}

func (l logNormal) cdf(z float64) float64 {
	if z <= 0 {
		return 0
	}
	return l.d.CDF(z)
}
func (l logNormal) quantile(p float64) float64 { return l.d.Quantile(p) }
func (l logNormal) mean() float64              { return l.d.Mean() }
func (l logNormal) variance() float64          { return l.d.Variance() }

// beta is the beta distribution on [0,1], it takes no loc and scale.
type beta struct{ d distuv.Beta }

func newBeta(params []float64) (Distribution, error) {
	if err := positive("a", params[0]); err != nil {
		return nil, err
	}
	if err := positive("b", params[1]); err != nil {
		return nil, err
	}
	return beta{distuv.Beta{Alpha: params[0], Beta: params[1]}}, nil
}

func (b beta) CDF(x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	return b.d.CDF(x)
}

func (b beta) Quantile(p float64) float64 {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN()
	}
	return b.d.Quantile(p)
}

func (b beta) Mean() float64     { return b.d.Mean() }
func (b beta) Variance() float64 { return b.d.Variance() }

// binomial is the number of successes of n Bernoulli(p) trials.
type binomial struct{ d distuv.Binomial }

func newBinomial(params []float64) (Distribution, error) {
	n, p := params[0], params[1]
	if n < 0 || n != math.Trunc(n) {
		return nil, errors.Wrapf(ErrInvalidParameters, "n must be a non-negative integer (%v)", n)
	}
	if p < 0 || p > 1 {
		return nil, errors.Wrapf(ErrInvalidParameters, "p must be in [0,1] (%v)", p)
	}
	return binomial{distuv.Binomial{N: n, P: p}}, nil
}

func (b binomial) CDF(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x >= b.d.N:
		return 1
	}
	return clamp01(b.d.CDF(math.Floor(x)))
}

// Quantile returns the smallest k with CDF(k) >= p.
func (b binomial) Quantile(p float64) float64 {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN()
	}
	for k := 0.0; k < b.d.N; k++ {
		if b.CDF(k) >= p {
			return k
		}
	}
	return b.d.N
}

func (b binomial) Mean() float64     { return b.d.N * b.d.P }
func (b binomial) Variance() float64 { return b.d.N * b.d.P * (1 - b.d.P) }
