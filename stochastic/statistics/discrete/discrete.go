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

package discrete

import (
	"math"
	"math/rand"

	"github.com/cockroachdb/errors"
)

// pmfTolerance bounds the deviation of a pmf total from one.
const pmfTolerance = 1e-9

// ErrInvalidPMF is returned when a weight vector is not a probability mass function.
var ErrInvalidPMF = errors.New("invalid probability mass function")

// CheckPMF checks whether the weights of a finite SROM form a valid
// probability mass function: every entry lies in [0,1] and the entries
// sum to one.
func CheckPMF(f []float64) error {
	if len(f) == 0 {
		return errors.Wrap(ErrInvalidPMF, "empty pmf")
	}
	total := 0.0
	for i, x := range f {
		if x < 0.0 || x > 1.0 || math.IsNaN(x) {
			return errors.Wrapf(ErrInvalidPMF, "invalid probability (%v) at index %d", x, i)
		}
		total += x
	}
	if math.Abs(total-1.0) > pmfTolerance {
		return errors.Wrapf(ErrInvalidPMF, "total is not one (%v)", total)
	}
	return nil
}

// Normalize clips negative entries to zero and rescales the remaining mass so
// that it sums to one. The input is left untouched.
func Normalize(f []float64) ([]float64, error) {
	out := make([]float64, len(f))
	total := 0.0
	for i, x := range f {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.Wrapf(ErrInvalidPMF, "non-finite weight (%v) at index %d", x, i)
		}
		if x > 0 {
			out[i] = x
			total += x
		}
	}
	if !(total > 0) {
		return nil, errors.Wrap(ErrInvalidPMF, "no positive mass")
	}
	for i := range out {
		out[i] /= total
	}
	return out, nil
}

// Quantile returns the smallest index i whose cumulative probability is at
// least u. Past the total mass it returns the last index with a positive
// probability, and 0 if there is none.
func Quantile(f []float64, u float64) int {
	sum := 0.0 // Kahan summation of the cumulative mass
	c := 0.0
	lastPositive := -1
	for i, p := range f {
		y := p - c
		t := sum + y
		c = (t - sum) - y
		sum = t
		if u <= sum {
			return i
		}
		if p > 0.0 {
			lastPositive = i
		}
	}
	if lastPositive != -1 {
		return lastPositive
	}
	return 0
}

// Sample draws an index from the pmf f.
func Sample(rg *rand.Rand, f []float64) int {
	return Quantile(f, rg.Float64())
}

// EffectiveSize returns the effective number of samples 1/Σf², i.e. n for
// uniform weights and 1 for a point mass.
func EffectiveSize(f []float64) float64 {
	s := 0.0
	for _, p := range f {
		s += p * p
	}
	if s == 0 {
		return 0
	}
	return 1 / s
}
