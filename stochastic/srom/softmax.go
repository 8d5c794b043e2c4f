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
	"math"

	"github.com/0xsoniclabs/srom/logger"
	"github.com/0xsoniclabs/srom/stochastic"
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// minLogit replaces log(0) for start weights with zero mass.
const minLogit = -700

// softmaxLBFGS minimises the objective over logits z with p = softmax(z)
// using gonum's L-BFGS. The simplex constraints hold by construction.
func softmaxLBFGS(ctx context.Context, q *problem, x0 []float64, maxIter int, tol float64, log logger.Logger) (outcome, error) {
	n := q.n
	z0 := make([]float64, n)
	for i, v := range x0 {
		z0[i] = minLogit
		if v > 0 {
			z0[i] = math.Max(math.Log(v), minLogit)
		}
	}

	p := make([]float64, n)
	g := make([]float64, n)
	softmax(p, z0)
	f0, _ := q.objective(p, g)
	if !finite(f0) || !allFinite(g) {
		return outcome{}, errors.Wrapf(ErrNumerical, "objective is not finite at the start point (%v)", f0)
	}
	best := append([]float64(nil), p...)
	bestF := f0
	evaluations := 0

	problem := optimize.Problem{
		Func: func(z []float64) float64 {
			softmax(p, z)
			f, _ := q.objective(p, nil)
			if !finite(f) {
				return math.Inf(1)
			}
			if f < bestF {
				copy(best, p)
				bestF = f
			}
			evaluations++
			if evaluations%stochastic.ProgressInterval == 0 {
				log.Debugf("lbfgs evaluation %d: objective %.6e", evaluations, bestF)
			}
			return f
		},
		Grad: func(grad, z []float64) {
			softmax(p, z)
			q.objective(p, g)
			// chain rule through softmax: p ⊙ (g - <p,g>)
			mean := floats.Dot(p, g)
			for i := range grad {
				grad[i] = p[i] * (g[i] - mean)
				if !finite(grad[i]) {
					grad[i] = 0
				}
			}
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: tol,
		MajorIterations:   maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   tol,
			Relative:   tol,
			Iterations: spgStallLimit,
		},
	}
	res, err := optimize.Minimize(problem, z0, settings, &optimize.LBFGS{})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome{}, ctxErr
	}
	if !finite(bestF) {
		return outcome{}, errors.Wrap(ErrNumerical, "no finite objective found")
	}
	iterations := 0
	status := optimize.Failure
	if res != nil {
		iterations = res.Stats.MajorIterations
		status = res.Status
	}
	switch {
	case err != nil && errors.Is(err, optimize.ErrNoProgress):
		return outcome{best, bestF, iterations, true, "line search cannot improve further"}, nil
	case err != nil:
		return outcome{best, bestF, iterations, false, err.Error()}, nil
	case status == optimize.IterationLimit:
		return outcome{best, bestF, iterations, false, "iteration budget exhausted"}, nil
	}
	return outcome{best, bestF, iterations, true, status.String()}, nil
}

// softmax writes exp(z)/Σexp(z) into p, shifting z by its maximum.
func softmax(p, z []float64) {
	top := floats.Max(z)
	sum := 0.0
	for i, v := range z {
		p[i] = math.Exp(v - top)
		sum += p[i]
	}
	floats.Scale(1/sum, p)
}
