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
)

const (
	spgMemory        = 10    // objective values remembered by the line search
	spgStallLimit    = 10    // iterations of negligible progress before stopping
	spgSufficient    = 1e-4  // Armijo constant
	spgMinStep       = 1e-30 // bounds of the spectral step length
	spgMaxStep       = 1e30
	spgMaxBacktracks = 60
)

// outcome is the raw result of a solver run.
type outcome struct {
	x          []float64
	f          float64
	iterations int
	converged  bool
	reason     string
}

// spg minimises the objective over the simplex with the spectral projected
// gradient method of Birgin, Martinez and Raydan. The returned point is the
// best iterate seen.
func spg(ctx context.Context, q *problem, x0 []float64, maxIter int, tol float64, log logger.Logger) (outcome, error) {
	n := q.n
	pr := newProjector(n)
	x := make([]float64, n)
	pr.project(x, x0)
	g := make([]float64, n)
	f, _ := q.objective(x, g)
	if !finite(f) || !allFinite(g) {
		return outcome{}, errors.Wrapf(ErrNumerical, "objective is not finite at the start point (%v)", f)
	}

	best := append([]float64(nil), x...)
	bestF := f
	history := make([]float64, 0, spgMemory)
	history = append(history, f)

	d := make([]float64, n)
	trial := make([]float64, n)
	trialGrad := make([]float64, n)
	s := make([]float64, n)
	y := make([]float64, n)

	lambda := 1.0
	if pg := projectedGradientNorm(pr, x, g, d); pg > 0 {
		lambda = clampStep(1 / pg)
	}
	stalled := 0
	for iter := 1; iter <= maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return outcome{}, err
		}
		if pg := projectedGradientNorm(pr, x, g, d); pg <= tol {
			return outcome{best, bestF, iter - 1, true, "projected gradient below tolerance"}, nil
		}

		// search direction d = P(x - λg) - x
		for i := range d {
			d[i] = x[i] - lambda*g[i]
		}
		pr.project(d, d)
		floats.Sub(d, x)
		slope := floats.Dot(g, d)
		if !(slope < 0) {
			return outcome{best, bestF, iter - 1, true, "no descent direction"}, nil
		}

		reference := floats.Max(history)
		alpha := 1.0
		var trialF float64
		accepted, sawFinite := false, false
		for range spgMaxBacktracks {
			floats.AddScaledTo(trial, x, alpha, d)
			trialF, _ = q.objective(trial, trialGrad)
			if finite(trialF) && allFinite(trialGrad) {
				sawFinite = true
				if trialF <= reference+spgSufficient*alpha*slope {
					accepted = true
					break
				}
				// safeguarded quadratic interpolation
				next := -0.5 * alpha * alpha * slope / (trialF - f - alpha*slope)
				if next < 0.1*alpha || next > 0.9*alpha || math.IsNaN(next) {
					next = alpha / 2
				}
				alpha = next
			} else {
				alpha /= 2
			}
		}
		if !accepted {
			if !sawFinite {
				return outcome{}, errors.Wrapf(ErrNumerical, "no finite objective along the search direction at iteration %d", iter)
			}
			return outcome{best, bestF, iter, true, "line search cannot improve further"}, nil
		}

		floats.SubTo(s, trial, x)
		floats.SubTo(y, trialGrad, g)
		prevF := f
		copy(x, trial)
		copy(g, trialGrad)
		f = trialF
		if f < bestF {
			copy(best, x)
			bestF = f
		}
		if len(history) == spgMemory {
			history = history[1:]
		}
		history = append(history, f)

		if sy := floats.Dot(s, y); sy > 0 {
			lambda = clampStep(floats.Dot(s, s) / sy)
		} else {
			lambda = spgMaxStep
		}

		if math.Abs(prevF-f) <= tol*math.Max(1, math.Abs(prevF)) {
			stalled++
			if stalled >= spgStallLimit {
				return outcome{best, bestF, iter, true, "relative objective change below tolerance"}, nil
			}
		} else {
			stalled = 0
		}
		if iter%stochastic.ProgressInterval == 0 {
			log.Debugf("spg iteration %d: objective %.6e, step %.3e", iter, f, lambda)
		}
	}
	return outcome{best, bestF, maxIter, false, "iteration budget exhausted"}, nil
}

// projectedGradientNorm returns the infinity norm of P(x - g) - x, using
// buf as scratch space.
func projectedGradientNorm(pr *projector, x, g, buf []float64) float64 {
	floats.SubTo(buf, x, g)
	pr.project(buf, buf)
	floats.Sub(buf, x)
	return floats.Norm(buf, math.Inf(1))
}

func clampStep(v float64) float64 {
	return math.Min(spgMaxStep, math.Max(spgMinStep, v))
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if !finite(x) {
			return false
		}
	}
	return true
}
