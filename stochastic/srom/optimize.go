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
	"context"
	"time"

	"github.com/0xsoniclabs/srom/logger"
	"github.com/0xsoniclabs/srom/stochastic/statistics/discrete"
	"github.com/cockroachdb/errors"
)

// Optimize computes SROM weights for samples such that the weighted samples
// match the selected targets. Validation happens before any iteration. If
// the iteration budget runs out the best iterate is returned together with
// a Result.Warning wrapping ErrConvergenceWarning. Optimize keeps no state
// between calls and may run concurrently.
func Optimize(ctx context.Context, samples SampleSet, targets Targets, cfg Config) (*Result, error) {
	log := cfg.logger()
	q, err := newProblem(samples, targets, cfg)
	if err != nil {
		return nil, err
	}
	if q.n == 1 {
		weights := []float64{1}
		f, terms := q.objective(weights, nil)
		if !finite(f) {
			return nil, errors.Wrapf(ErrNumerical, "objective is not finite for a single sample (%v)", f)
		}
		log.Debugf("single sample, weight is one")
		return &Result{
			Weights:   weights,
			Objective: f,
			Terms:     terms,
			Converged: true,
			Reason:    "single sample",
		}, nil
	}

	x0 := cfg.Solver.InitialWeights
	if x0 == nil {
		x0 = uniform(q.n)
	}
	method := cfg.Solver.Method
	maxIter := cfg.Solver.maxIterations()
	tol := cfg.Solver.tolerance()
	log.Infof("Optimizing %d weights in %d dimensions (%v, solver %v, at most %d iterations)",
		q.n, q.d, q.props, method, maxIter)
	start := time.Now()

	var out outcome
	switch method {
	case SoftmaxLBFGS:
		out, err = softmaxLBFGS(ctx, q, x0, maxIter, tol, log)
	default:
		out, err = spg(ctx, q, x0, maxIter, tol, log)
	}
	if err != nil {
		return nil, err
	}

	weights, err := discrete.Normalize(out.x)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "solver produced invalid weights"), ErrNumerical)
	}
	if err := discrete.CheckPMF(weights); err != nil {
		return nil, errors.Mark(err, ErrNumerical)
	}
	f, terms := q.objective(weights, nil)
	if !finite(f) {
		return nil, errors.Wrapf(ErrNumerical, "objective is not finite at the solution (%v)", f)
	}
	res := &Result{
		Weights:    weights,
		Objective:  f,
		Terms:      terms,
		Iterations: out.iterations,
		Converged:  out.converged,
		Reason:     out.reason,
	}
	h, m, s := logger.ParseTime(time.Since(start))
	if !out.converged {
		res.Warning = errors.Wrapf(ErrConvergenceWarning, "%v after %d iterations, objective %v", out.reason, out.iterations, f)
		log.Warningf("SROM %v", res.Warning)
	}
	log.Noticef("SROM finished after %d iterations in %vh %vm %vs: objective %.6e (cdf %.3e, moments %.3e, correlation %.3e), %v",
		out.iterations, h, m, s, f, terms.CDF, terms.Moments, terms.Correlation, out.reason)
	return res, nil
}

// Evaluate returns the objective and its terms for an arbitrary weight vector.
// The weights must form a probability mass function over the samples.
func Evaluate(samples SampleSet, targets Targets, cfg Config, weights []float64) (float64, Terms, error) {
	q, err := newProblem(samples, targets, cfg)
	if err != nil {
		return 0, Terms{}, err
	}
	if len(weights) != q.n {
		return 0, Terms{}, invalidConfig("%d weights for %d samples", len(weights), q.n)
	}
	if err := discrete.CheckPMF(weights); err != nil {
		return 0, Terms{}, invalidConfig("weights: %v", err)
	}
	f, terms := q.objective(weights, nil)
	return f, terms, nil
}

func uniform(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}
	return x
}
