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

// Package sampling draws sample matrices for SROM construction by Monte
// Carlo and stratified sampling through the quantiles of the marginals.
package sampling

import (
	"math"
	"math/rand"
	"strings"

	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/stochastic/statistics/distribution"
	"github.com/cockroachdb/errors"
)

// Criterion selects the point drawn inside a stratum.
type Criterion int

const (
	// Random draws a uniform point inside each stratum.
	Random Criterion = iota
	// Centered takes the center of each stratum.
	Centered
)

func (c Criterion) String() string {
	switch c {
	case Random:
		return "random"
	case Centered:
		return "centered"
	}
	return "unknown"
}

// ParseCriterion converts a criterion name into a Criterion.
func ParseCriterion(s string) (Criterion, error) {
	switch strings.ToLower(s) {
	case "random", "":
		return Random, nil
	case "centered", "centred":
		return Centered, nil
	}
	return 0, errors.Newf("unknown stratification criterion %q", s)
}

// Strata is a rectilinear full factorial stratification of the unit hypercube.
type Strata struct {
	Origins [][]float64 // lower corner of each stratum
	Widths  [][]float64 // edge lengths of each stratum
	Weights []float64   // volume of each stratum
}

// NewStrata divides the k-th axis of the unit hypercube into nStrata[k]
// equal parts. The first axis varies fastest.
func NewStrata(nStrata []int) (*Strata, error) {
	if len(nStrata) == 0 {
		return nil, errors.New("no dimensions to stratify")
	}
	total := 1
	for k, m := range nStrata {
		if m < 1 {
			return nil, errors.Newf("dimension %d needs at least one stratum (%d)", k, m)
		}
		total *= m
	}
	s := &Strata{
		Origins: make([][]float64, total),
		Widths:  make([][]float64, total),
		Weights: make([]float64, total),
	}
	idx := make([]int, len(nStrata))
	for j := range total {
		origin := make([]float64, len(nStrata))
		width := make([]float64, len(nStrata))
		volume := 1.0
		for k, m := range nStrata {
			origin[k] = float64(idx[k]) / float64(m)
			width[k] = 1 / float64(m)
			volume *= width[k]
		}
		s.Origins[j], s.Widths[j], s.Weights[j] = origin, width, volume
		// advance the mixed radix counter
		for k := range idx {
			idx[k]++
			if idx[k] < nStrata[k] {
				break
			}
			idx[k] = 0
		}
	}
	return s, nil
}

// Len returns the number of strata.
func (s *Strata) Len() int {
	return len(s.Weights)
}

// Stratified draws one sample per stratum and maps it through the quantile
// of each marginal. rg may be nil for the centered criterion. names may be nil.
func Stratified(rg *rand.Rand, strata *Strata, marginals []distribution.Distribution, criterion Criterion, names []string) (srom.SampleSet, error) {
	if strata == nil || strata.Len() == 0 {
		return srom.SampleSet{}, errors.New("no strata")
	}
	if criterion == Random && rg == nil {
		return srom.SampleSet{}, errors.New("random stratified sampling needs a random generator")
	}
	d := len(strata.Origins[0])
	if len(marginals) != d {
		return srom.SampleSet{}, errors.Newf("%d marginals for %d stratified dimensions", len(marginals), d)
	}
	points := make([][]float64, strata.Len())
	for j := range points {
		u := make([]float64, d)
		for k := range d {
			offset := 0.5
			if criterion == Random {
				offset = rg.Float64()
			}
			u[k] = strata.Origins[j][k] + offset*strata.Widths[j][k]
		}
		p, err := inverse(marginals, u)
		if err != nil {
			return srom.SampleSet{}, errors.Wrapf(err, "stratum %d", j)
		}
		points[j] = p
	}
	return srom.SampleSet{Names: names, Points: points}, nil
}

// MonteCarlo draws n independent samples from the product of the marginals.
func MonteCarlo(rg *rand.Rand, marginals []distribution.Distribution, n int, names []string) (srom.SampleSet, error) {
	if n < 1 || len(marginals) == 0 {
		return srom.SampleSet{}, errors.Newf("cannot draw %d samples of %d dimensions", n, len(marginals))
	}
	if rg == nil {
		return srom.SampleSet{}, errors.New("monte carlo sampling needs a random generator")
	}
	points := make([][]float64, n)
	u := make([]float64, len(marginals))
	for i := range points {
		for k := range u {
			u[k] = rg.Float64()
		}
		p, err := inverse(marginals, u)
		if err != nil {
			return srom.SampleSet{}, errors.Wrapf(err, "sample %d", i)
		}
		points[i] = p
	}
	return srom.SampleSet{Names: names, Points: points}, nil
}

// inverse maps a point of the unit hypercube through the marginal quantiles.
func inverse(marginals []distribution.Distribution, u []float64) ([]float64, error) {
	x := make([]float64, len(u))
	for k, m := range marginals {
		x[k] = m.Quantile(u[k])
		if math.IsNaN(x[k]) || math.IsInf(x[k], 0) {
			return nil, errors.Newf("quantile of dimension %d at %v is not finite (%v)", k, u[k], x[k])
		}
	}
	return x, nil
}
