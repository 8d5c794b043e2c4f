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
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/maps"
)

// ErrUnknownDistribution is returned for names missing from the registry.
var ErrUnknownDistribution = errors.New("unknown distribution")

// ErrInvalidParameters is returned when parameters do not fit a distribution.
var ErrInvalidParameters = errors.New("invalid distribution parameters")

// Distribution is a univariate distribution with closed-form or numerically
// inverted quantiles. Parameters follow the loc/scale convention, i.e. a
// standard distribution shifted by loc and stretched by scale.
type Distribution interface {
	// CDF returns the cumulative probability of x.
	CDF(x float64) float64
	// Quantile returns the inverse of the CDF for p in [0,1].
	Quantile(p float64) float64
	// Mean returns the expectation, NaN or Inf when undefined.
	Mean() float64
	// Variance returns the variance, NaN or Inf when undefined.
	Variance() float64
}

// constructor builds a distribution from exactly arity parameters.
type constructor struct {
	arity int
	build func(params []float64) (Distribution, error)
}

var registry = map[string]constructor{
	"normal":      {2, withLocScale(0, func([]float64) (standard, error) { return normal{}, nil })},
	"gaussian":    {2, withLocScale(0, func([]float64) (standard, error) { return normal{}, nil })},
	"uniform":     {2, withLocScale(0, func([]float64) (standard, error) { return uniform{}, nil })},
	"binomial":    {2, newBinomial},
	"beta":        {2, newBeta},
	"gumbel_r":    {2, withLocScale(0, func([]float64) (standard, error) { return gumbel{}, nil })},
	"chisquare":   {3, withLocScale(1, newChiSquare)},
	"lognormal":   {3, withLocScale(1, newLogNormal)},
	"gamma":       {3, withLocScale(1, newGamma)},
	"exponential": {2, withLocScale(0, func([]float64) (standard, error) { return exponential{}, nil })},
	"cauchy":      {2, withLocScale(0, func([]float64) (standard, error) { return cauchy{}, nil })},
	"inv_gauss":   {3, withLocScale(1, newInverseGaussian)},
	"logistic":    {2, withLocScale(0, func([]float64) (standard, error) { return logistic{}, nil })},
	"pareto":      {3, withLocScale(1, newPareto)},
	"rayleigh":    {2, withLocScale(0, func([]float64) (standard, error) { return rayleigh{}, nil })},
	"levy":        {2, withLocScale(0, func([]float64) (standard, error) { return levy{}, nil })},
	"laplace":     {2, withLocScale(0, func([]float64) (standard, error) { return laplace{}, nil })},
	"maxwell":     {2, withLocScale(0, func([]float64) (standard, error) { return maxwell{}, nil })},
	"truncnorm":   {4, withLocScale(2, newTruncatedNormal)},
	"weibull_min": {3, withLocScale(1, newWeibull)},
}

// New creates the named distribution. Names are case-insensitive.
func New(name string, params []float64) (Distribution, error) {
	c, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDistribution, "%q", name)
	}
	if len(params) != c.arity {
		return nil, errors.Wrapf(ErrInvalidParameters, "%v expects %d parameters, got %d", name, c.arity, len(params))
	}
	for i, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, errors.Wrapf(ErrInvalidParameters, "%v parameter %d is not finite (%v)", name, i, p)
		}
	}
	d, err := c.build(params)
	if err != nil {
		return nil, errors.Wrapf(err, "%v", name)
	}
	return d, nil
}

// Names returns the sorted list of registered distribution names.
func Names() []string {
	names := maps.Keys(registry)
	sort.Strings(names)
	return names
}

// Arity returns the number of parameters the named distribution expects.
func Arity(name string) (int, error) {
	c, ok := registry[strings.ToLower(name)]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownDistribution, "%q", name)
	}
	return c.arity, nil
}

// standard is a distribution before the loc/scale transformation.
type standard interface {
	cdf(z float64) float64
	quantile(p float64) float64
	mean() float64
	variance() float64
}

// locScale shifts and stretches a standard distribution.
type locScale struct {
	std   standard
	loc   float64
	scale float64
}

func (d locScale) CDF(x float64) float64 {
	return clamp01(d.std.cdf((x - d.loc) / d.scale))
}

func (d locScale) Quantile(p float64) float64 {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN()
	}
	return d.loc + d.scale*d.std.quantile(p)
}

func (d locScale) Mean() float64 {
	return d.loc + d.scale*d.std.mean()
}

func (d locScale) Variance() float64 {
	return d.scale * d.scale * d.std.variance()
}

// withLocScale wraps a standard distribution whose shape parameters are the
// first shapes entries of params; the remaining two are loc and scale.
func withLocScale(shapes int, build func(shape []float64) (standard, error)) func([]float64) (Distribution, error) {
	return func(params []float64) (Distribution, error) {
		loc, scale := params[shapes], params[shapes+1]
		if scale <= 0 {
			return nil, errors.Wrapf(ErrInvalidParameters, "scale must be positive (%v)", scale)
		}
		std, err := build(params[:shapes])
		if err != nil {
			return nil, err
		}
		return locScale{std: std, loc: loc, scale: scale}, nil
	}
}

func positive(name string, v float64) error {
	if !(v > 0) {
		return errors.Wrapf(ErrInvalidParameters, "%v must be positive (%v)", name, v)
	}
	return nil
}

func errorsInvalid(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidParameters, format, args...)
}

func clamp01(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return p
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

const (
	bisectionSteps = 200   // upper bound on bisection steps
	bracketLimit   = 1e300 // give up expanding beyond this magnitude
)

// invert numerically inverts a monotone cdf with support starting at lo.
func invert(cdf func(float64) float64, p, lo float64) float64 {
	switch {
	case p <= 0:
		return lo
	case p >= 1:
		return math.Inf(1)
	}
	hi := math.Max(1, lo+1)
	for cdf(hi) < p {
		hi = lo + 2*(hi-lo)
		if hi > bracketLimit {
			return math.Inf(1)
		}
	}
	for range bisectionSteps {
		mid := lo + (hi-lo)/2
		if mid == lo || mid == hi {
			break
		}
		if cdf(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2
}

// String describes the registry for diagnostics.
func String() string {
	parts := make([]string, 0, len(registry))
	for _, name := range Names() {
		parts = append(parts, fmt.Sprintf("%v/%d", name, registry[name].arity))
	}
	return strings.Join(parts, ", ")
}
