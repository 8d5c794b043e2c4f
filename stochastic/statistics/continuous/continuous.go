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

package continuous

import (
	"math"
	"math/rand"
	"sort"

	"github.com/0xsoniclabs/srom/stochastic"
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// ErrInvalidCDF is returned for point lists that do not describe a CDF.
var ErrInvalidCDF = errors.New("invalid piecewise linear CDF")

// CDF evaluates a piecewise linear cumulative distribution function at x.
// The function is given as points (x_i, F_i) with non-decreasing coordinates
// starting at F=0 and ending at F=1. Left of the first point it is 0, right
// of the last point it is 1. Repeated x coordinates describe jumps; the
// function is right-continuous there.
func CDF(f [][2]float64, x float64) float64 {
	n := len(f)
	if n == 0 || x < f[0][0] {
		return 0.0
	}
	if x >= f[n-1][0] {
		return 1.0
	}
	// first point strictly right of x
	j := sort.Search(n, func(k int) bool { return f[k][0] > x })
	i := j - 1
	scale := (x - f[i][0]) / (f[j][0] - f[i][0])
	return f[i][1] + scale*(f[j][1]-f[i][1])
}

// Quantile computes the inverse of a piecewise linear CDF at probability y.
func Quantile(f [][2]float64, y float64) float64 {
	n := len(f)
	if n == 0 {
		return math.NaN()
	}
	if y <= 0 {
		return f[0][0]
	}
	j := sort.Search(n, func(k int) bool { return f[k][1] >= y })
	switch {
	case j == n:
		return f[n-1][0]
	case j == 0:
		return f[0][0]
	}
	i := j - 1
	scale := (y - f[i][1]) / (f[j][1] - f[i][1])
	return f[i][0] + scale*(f[j][0]-f[i][0])
}

// Sample draws a value from a piecewise linear CDF by inverse transform sampling.
func Sample(rg *rand.Rand, f [][2]float64) float64 {
	return Quantile(f, rg.Float64())
}

// Check whether the points describe a CDF. The function must start at
// probability 0 and end at probability 1, and both coordinates must be
// finite and non-decreasing without repeating a point.
func Check(f [][2]float64) error {
	if len(f) < 2 {
		return errors.Wrap(ErrInvalidCDF, "CDF must have at least start and end point")
	}
	for i, p := range f {
		if math.IsNaN(p[0]) || math.IsInf(p[0], 0) || math.IsNaN(p[1]) {
			return errors.Wrapf(ErrInvalidCDF, "point %d (%v,%v) is not finite", i, p[0], p[1])
		}
		if p[1] < 0 || p[1] > 1 {
			return errors.Wrapf(ErrInvalidCDF, "probability of point %d (%v) is outside [0,1]", i, p[1])
		}
	}
	if f[0][1] != 0.0 {
		return errors.Wrapf(ErrInvalidCDF, "CDF must start at probability 0, but starts at (%v,%v)", f[0][0], f[0][1])
	}
	last := len(f) - 1
	if f[last][1] != 1.0 {
		return errors.Wrapf(ErrInvalidCDF, "CDF must end at probability 1, but ends at (%v,%v)", f[last][0], f[last][1])
	}
	for i := range last {
		a, b := f[i], f[i+1]
		if b[0] < a[0] || b[1] < a[1] || a == b {
			return errors.Wrapf(ErrInvalidCDF, "point %v (%v,%v) does not precede point %v (%v,%v)", i, a[0], a[1], i+1, b[0], b[1])
		}
	}
	return nil
}

// Step builds the step function of a discrete distribution placing mass
// weights[i] on values[i]. Every distinct value contributes a vertical jump.
func Step(values, weights []float64) ([][2]float64, error) {
	if len(values) != len(weights) {
		return nil, errors.Newf("mismatched lengths (%d values, %d weights)", len(values), len(weights))
	}
	if len(values) == 0 {
		return nil, errors.Wrap(ErrInvalidCDF, "no values")
	}
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	f := make([][2]float64, 0, 2*len(values))
	sum := 0.0 // Kahan summation of the cumulative mass
	c := 0.0
	for k := 0; k < len(idx); {
		x := values[idx[k]]
		f = append(f, [2]float64{x, sum})
		for ; k < len(idx) && values[idx[k]] == x; k++ {
			y := weights[idx[k]] - c
			t := sum + y
			c = (t - sum) - y
			sum = t
		}
		if sum > 1 {
			sum = 1
		}
		f = append(f, [2]float64{x, sum})
	}
	// absorb rounding in the last jump
	f[len(f)-1][1] = 1.0
	return dedup(f), nil
}

// Moments returns the moments about the origin of orders 1..orders of the
// distribution described by a piecewise linear CDF. Each segment carries
// uniform mass, a jump carries a point mass.
func Moments(f [][2]float64, orders int) ([]float64, error) {
	if err := Check(f); err != nil {
		return nil, err
	}
	moments := make([]float64, orders)
	for i := range len(f) - 1 {
		a, b := f[i][0], f[i+1][0]
		mass := f[i+1][1] - f[i][1]
		if mass == 0 {
			continue
		}
		for m := range orders {
			order := float64(m + 1)
			if a == b {
				moments[m] += mass * math.Pow(a, order)
				continue
			}
			moments[m] += mass * (math.Pow(b, order+1) - math.Pow(a, order+1)) / ((order + 1) * (b - a))
		}
	}
	return moments, nil
}

// Tabulate samples a CDF on n equidistant points of [lo, hi] and closes the
// table with probability 0 at lo and 1 at hi.
func Tabulate(cdf func(float64) float64, lo, hi float64, n int) ([][2]float64, error) {
	if n < 2 || !(lo < hi) {
		return nil, errors.Newf("cannot tabulate %d points on [%v,%v]", n, lo, hi)
	}
	f := make([][2]float64, 0, n+2)
	f = append(f, [2]float64{lo, 0})
	prev := 0.0
	for i := range n {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		y := math.Min(math.Max(cdf(x), prev), 1)
		f = append(f, [2]float64{x, y})
		prev = y
	}
	f = append(f, [2]float64{hi, 1})
	f = dedup(f)
	if err := Check(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Compress reduces a CDF to at most stochastic.NumECDFPoints points using the
// Visvalingam-Whyatt algorithm; end points are always kept.
func Compress(f [][2]float64) ([][2]float64, error) {
	if err := Check(f); err != nil {
		return nil, err
	}
	ls := make(orb.LineString, len(f))
	for i, p := range f {
		ls[i] = orb.Point(p)
	}
	simplifier := simplify.VisvalingamKeep(stochastic.NumECDFPoints)
	compressed := simplifier.Simplify(ls).(orb.LineString)
	out := make([][2]float64, len(compressed))
	for i := range compressed {
		out[i] = [2]float64(compressed[i])
	}
	if err := Check(out); err != nil {
		return nil, errors.Wrap(err, "compression broke the CDF")
	}
	return out, nil
}

// dedup drops consecutive duplicate points.
func dedup(f [][2]float64) [][2]float64 {
	out := f[:0]
	for i, p := range f {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}
