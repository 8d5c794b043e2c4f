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

// Package srom computes Stochastic Reduced Order Models: probability weights
// for a fixed set of samples such that the weighted samples match target
// marginal CDFs, moments about the origin and a correlation matrix.
package srom

import (
	"fmt"
	"strings"

	"github.com/0xsoniclabs/srom/stochastic/statistics/distribution"
	"github.com/cockroachdb/errors"
)

// SampleSet is an n × d matrix of sample points. Points[i] is the i-th sample
// and its index associates the sample with its weight.
type SampleSet struct {
	Names  []string    // optional variable names, one per dimension
	Points [][]float64 // sample coordinates
}

// Len returns the number of samples.
func (s SampleSet) Len() int {
	return len(s.Points)
}

// Dim returns the number of dimensions.
func (s SampleSet) Dim() int {
	if len(s.Points) == 0 {
		return 0
	}
	return len(s.Points[0])
}

// Column returns a copy of the k-th coordinate of all samples.
func (s SampleSet) Column(k int) []float64 {
	col := make([]float64, len(s.Points))
	for i, p := range s.Points {
		col[i] = p[k]
	}
	return col
}

// CDF is a target marginal cumulative distribution function. It is either a
// NamedDistribution or a UserFunction.
type CDF interface {
	// Evaluate returns the cumulative probability of x, NaN if the target
	// cannot be evaluated.
	Evaluate(x float64) float64
	// resolve turns the target into a plain function, failing for targets
	// that cannot be evaluated.
	resolve() (func(float64) float64, error)
}

// NamedDistribution is a closed-form CDF looked up in the distribution registry.
type NamedDistribution struct {
	Name   string
	Params []float64
}

// Evaluate returns the CDF of the named distribution at x. The distribution
// is looked up on every call; use Resolve to evaluate many points.
func (d NamedDistribution) Evaluate(x float64) float64 {
	f, err := d.resolve()
	if err != nil {
		return nan()
	}
	return f(x)
}

func (d NamedDistribution) resolve() (func(float64) float64, error) {
	dist, err := distribution.New(d.Name, d.Params)
	if err != nil {
		return nil, err
	}
	return dist.CDF, nil
}

func (d NamedDistribution) String() string {
	return fmt.Sprintf("%v%v", d.Name, d.Params)
}

// UserFunction is a caller supplied CDF taking the value and a parameter vector.
type UserFunction struct {
	Fn     func(x float64, params []float64) float64
	Params []float64
}

// Evaluate calls the user function at x.
func (u UserFunction) Evaluate(x float64) float64 {
	if u.Fn == nil {
		return nan()
	}
	return u.Fn(x, u.Params)
}

func (u UserFunction) resolve() (func(float64) float64, error) {
	if u.Fn == nil {
		return nil, errors.New("user function is nil")
	}
	params := append([]float64(nil), u.Params...)
	return func(x float64) float64 { return u.Fn(x, params) }, nil
}

func (u UserFunction) String() string {
	return fmt.Sprintf("user%v", u.Params)
}

// Resolve turns a target CDF into a plain function, looking up named
// distributions once.
func Resolve(c CDF) (func(float64) float64, error) {
	if c == nil {
		return nil, errors.New("target CDF is nil")
	}
	return c.resolve()
}

// Targets holds the statistics the weighted samples should reproduce.
type Targets struct {
	// CDFs holds one target CDF per dimension, or a single one shared by all.
	CDFs []CDF
	// Moments[k][m] is the target moment of order m+1 of dimension k.
	Moments [][]float64
	// Correlation is the d × d target correlation matrix.
	Correlation [][]float64
}

// Properties selects the error terms of the objective.
type Properties struct {
	MatchMarginalCDF bool
	MatchMoments     bool
	MatchCorrelation bool
}

func (p Properties) String() string {
	var names []string
	if p.MatchMarginalCDF {
		names = append(names, "cdf")
	}
	if p.MatchMoments {
		names = append(names, "moments")
	}
	if p.MatchCorrelation {
		names = append(names, "correlation")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// ErrorWeights scales the error terms in the combined objective.
type ErrorWeights struct {
	CDF         float64
	Moments     float64
	Correlation float64
}

// Terms are the unweighted error terms of an objective evaluation.
// Inactive terms are zero.
type Terms struct {
	CDF         float64
	Moments     float64
	Correlation float64
}

// Result is the outcome of an optimization.
type Result struct {
	Weights    []float64 // one probability per sample, summing to one
	Objective  float64   // combined objective at Weights
	Terms      Terms     // unweighted error terms at Weights
	Iterations int       // solver iterations
	Converged  bool      // false if the iteration budget was exhausted
	Reason     string    // why the solver stopped
	Warning    error     // wraps ErrConvergenceWarning if not converged
}
