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
	"sort"

	"github.com/0xsoniclabs/srom/stochastic/statistics/discrete"
	"gonum.org/v1/gonum/mat"
)

const (
	// correlationTolerance bounds asymmetry, diagonal deviation and negative
	// eigenvalues of a target correlation matrix.
	correlationTolerance = 1e-9
	// cdfTolerance bounds decreases of a target CDF between sorted samples.
	cdfTolerance = 1e-12
)

// newProblem validates the inputs of an optimization and precomputes
// everything the objective needs. It does not retain the caller's slices.
func newProblem(samples SampleSet, targets Targets, cfg Config) (*problem, error) {
	n, d, err := checkSamples(samples)
	if err != nil {
		return nil, err
	}
	if err := checkErrorWeights(cfg.Properties, cfg.ErrorWeights); err != nil {
		return nil, err
	}
	if err := checkSolver(cfg.Solver, n); err != nil {
		return nil, err
	}
	p := &problem{
		n:       n,
		d:       d,
		props:   cfg.Properties,
		weights: cfg.ErrorWeights,
	}
	if p.props.MatchMarginalCDF {
		if err := p.setupCDF(samples, targets.CDFs, cfg.DistributionWeights); err != nil {
			return nil, err
		}
	}
	if p.props.MatchMoments {
		if err := p.setupMoments(samples, targets.Moments, cfg.MomentWeights); err != nil {
			return nil, err
		}
	}
	if p.props.MatchCorrelation {
		if err := p.setupCorrelation(samples, targets.Correlation, cfg.CorrelationWeights); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func checkSamples(samples SampleSet) (int, int, error) {
	n, d := samples.Len(), samples.Dim()
	if n == 0 || d == 0 {
		return 0, 0, invalidTarget("empty sample matrix (%d × %d)", n, d)
	}
	if samples.Names != nil && len(samples.Names) != d {
		return 0, 0, invalidTarget("%d variable names for %d dimensions", len(samples.Names), d)
	}
	for i, row := range samples.Points {
		if len(row) != d {
			return 0, 0, invalidTarget("sample %d has %d coordinates, expected %d", i, len(row), d)
		}
		for k, x := range row {
			if !finite(x) {
				return 0, 0, invalidTarget("sample %d has non-finite coordinate %d (%v)", i, k, x)
			}
		}
	}
	return n, d, nil
}

func checkErrorWeights(props Properties, w ErrorWeights) error {
	weights := []struct {
		name  string
		value float64
	}{{"cdf", w.CDF}, {"moments", w.Moments}, {"correlation", w.Correlation}}
	for _, v := range weights {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) || v.value < 0 {
			return invalidConfig("error weight of %v must be a non-negative number (%v)", v.name, v.value)
		}
	}
	if !props.MatchMarginalCDF && !props.MatchMoments && !props.MatchCorrelation {
		return invalidConfig("no property selected")
	}
	active := 0.0
	if props.MatchMarginalCDF {
		active += w.CDF
	}
	if props.MatchMoments {
		active += w.Moments
	}
	if props.MatchCorrelation {
		active += w.Correlation
	}
	if active == 0 {
		return invalidConfig("all error weights of selected properties (%v) are zero", props)
	}
	return nil
}

func checkSolver(s SolverSettings, n int) error {
	if s.Method != SpectralProjectedGradient && s.Method != SoftmaxLBFGS {
		return invalidConfig("unknown solver method %d", int(s.Method))
	}
	if s.MaxIterations < 0 {
		return invalidConfig("negative iteration budget (%d)", s.MaxIterations)
	}
	if math.IsNaN(s.Tolerance) || s.Tolerance < 0 {
		return invalidConfig("tolerance must be non-negative (%v)", s.Tolerance)
	}
	if s.InitialWeights != nil {
		if len(s.InitialWeights) != n {
			return invalidConfig("%d initial weights for %d samples", len(s.InitialWeights), n)
		}
		if err := discrete.CheckPMF(s.InitialWeights); err != nil {
			return invalidConfig("initial weights: %v", err)
		}
	}
	return nil
}

// setupCDF sorts every dimension once, groups ties and evaluates the targets.
func (p *problem) setupCDF(samples SampleSet, cdfs []CDF, weights [][]float64) error {
	if len(cdfs) != 1 && len(cdfs) != p.d {
		return invalidTarget("%d target CDFs for %d dimensions", len(cdfs), p.d)
	}
	wd, err := broadcastRows("distribution weights", weights, p.n, p.d, true)
	if err != nil {
		return err
	}
	p.wd = wd
	p.order = make([][]int, p.d)
	p.groups = make([][]int, p.d)
	p.target = make([][]float64, p.d)
	for k := range p.d {
		c := cdfs[0]
		if len(cdfs) > 1 {
			c = cdfs[k]
		}
		if c == nil {
			return invalidTarget("missing target CDF for dimension %d", k)
		}
		f, err := c.resolve()
		if err != nil {
			return invalidTarget("target CDF of dimension %d: %v", k, err)
		}

		order := make([]int, p.n)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return samples.Points[order[a]][k] < samples.Points[order[b]][k]
		})
		groups := []int{0}
		for j := 1; j < p.n; j++ {
			if samples.Points[order[j]][k] != samples.Points[order[j-1]][k] {
				groups = append(groups, j)
			}
		}
		groups = append(groups, p.n)

		target := make([]float64, p.n)
		prev := 0.0
		for _, i := range order {
			x := samples.Points[i][k]
			v := f(x)
			if math.IsNaN(v) || v < 0 || v > 1 {
				return invalidTarget("target CDF of dimension %d evaluates to %v at %v", k, v, x)
			}
			if v < prev-cdfTolerance {
				return invalidTarget("target CDF of dimension %d decreases at %v", k, x)
			}
			target[i] = v
			prev = math.Max(prev, v)
		}
		p.order[k], p.groups[k], p.target[k] = order, groups, target
	}
	return nil
}

// setupMoments precomputes sample powers for every target order.
func (p *problem) setupMoments(samples SampleSet, moments [][]float64, weights [][]float64) error {
	if len(moments) != p.d {
		return invalidTarget("%d moment rows for %d dimensions", len(moments), p.d)
	}
	orders := len(moments[0])
	if orders == 0 {
		return invalidTarget("no moment orders given")
	}
	for k, row := range moments {
		if len(row) != orders {
			return invalidTarget("dimension %d has %d moments, dimension 0 has %d", k, len(row), orders)
		}
		for m, v := range row {
			if !finite(v) {
				return invalidTarget("moment %d of dimension %d is not finite (%v)", m+1, k, v)
			}
		}
	}
	p.moments = make([][]float64, p.d)
	for k := range moments {
		p.moments[k] = append([]float64(nil), moments[k]...)
	}
	if weights == nil {
		p.wm = relativeWeights(p.moments)
	} else {
		wm, err := broadcastRows("moment weights", weights, p.d, orders, true)
		if err != nil {
			return err
		}
		p.wm = wm
	}
	p.powers = make([][][]float64, p.d)
	for k := range p.d {
		p.powers[k] = make([][]float64, orders)
		for m := range orders {
			pow := make([]float64, p.n)
			for i, row := range samples.Points {
				pow[i] = math.Pow(row[k], float64(m+1))
			}
			p.powers[k][m] = pow
		}
	}
	return nil
}

// relativeWeights scales each moment error by its squared target.
func relativeWeights(moments [][]float64) [][]float64 {
	w := make([][]float64, len(moments))
	for k, row := range moments {
		w[k] = make([]float64, len(row))
		for m, t := range row {
			w[k][m] = 1
			if t != 0 {
				w[k][m] = 1 / (t * t)
			}
		}
	}
	return w
}

// setupCorrelation checks the target matrix and centers the samples.
func (p *problem) setupCorrelation(samples SampleSet, corr [][]float64, weights [][]float64) error {
	if p.d < 2 {
		return invalidTarget("correlation matching needs at least two dimensions")
	}
	if err := checkCorrelation(corr, p.d); err != nil {
		return err
	}
	wc, err := broadcastRows("correlation weights", weights, p.d, p.d, false)
	if err != nil {
		return err
	}
	p.corr = make([][]float64, p.d)
	for j := range corr {
		p.corr[j] = append([]float64(nil), corr[j]...)
	}
	p.wc = wc

	// Correlation is shift invariant; centering avoids cancellation.
	p.centered = make([][]float64, p.d)
	p.spread = make([]float64, p.d)
	for k := range p.d {
		col := samples.Column(k)
		mean := 0.0
		for _, x := range col {
			mean += x
		}
		mean /= float64(p.n)
		for i := range col {
			col[i] -= mean
			p.spread[k] += col[i] * col[i]
		}
		p.spread[k] /= float64(p.n)
		p.centered[k] = col
	}
	return nil
}

// checkCorrelation verifies that c is a d × d correlation matrix.
func checkCorrelation(c [][]float64, d int) error {
	if len(c) != d {
		return invalidTarget("correlation target has %d rows, expected %d", len(c), d)
	}
	for j, row := range c {
		if len(row) != d {
			return invalidTarget("correlation row %d has %d entries, expected %d", j, len(row), d)
		}
	}
	sym := mat.NewSymDense(d, nil)
	for j, row := range c {
		for k, v := range row {
			if !finite(v) || v < -1 || v > 1 {
				return invalidTarget("correlation (%d,%d) = %v is outside [-1,1]", j, k, v)
			}
			if math.Abs(v-c[k][j]) > correlationTolerance {
				return invalidTarget("correlation target is not symmetric at (%d,%d)", j, k)
			}
		}
		if math.Abs(row[j]-1) > correlationTolerance {
			return invalidTarget("correlation diagonal (%d,%d) = %v is not one", j, j, row[j])
		}
		for k := j; k < d; k++ {
			sym.SetSym(j, k, row[k])
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return invalidTarget("cannot factorize correlation target")
	}
	for _, v := range eig.Values(nil) {
		if v < -correlationTolerance {
			return invalidTarget("correlation target is not positive semidefinite (eigenvalue %v)", v)
		}
	}
	return nil
}

// broadcastRows returns a rows × cols copy of w. A nil w yields ones and,
// if broadcast is set, a single row is repeated for every row.
func broadcastRows(name string, w [][]float64, rows, cols int, broadcast bool) ([][]float64, error) {
	out := make([][]float64, rows)
	if w == nil {
		for r := range out {
			out[r] = make([]float64, cols)
			for c := range out[r] {
				out[r][c] = 1
			}
		}
		return out, nil
	}
	if len(w) != rows && !(broadcast && len(w) == 1) {
		return nil, invalidConfig("%v have %d rows, expected %d", name, len(w), rows)
	}
	for r := range out {
		src := w[0]
		if len(w) == rows {
			src = w[r]
		}
		if len(src) != cols {
			return nil, invalidConfig("%v row %d has %d entries, expected %d", name, r, len(src), cols)
		}
		for c, v := range src {
			if !finite(v) || v < 0 {
				return nil, invalidConfig("%v (%d,%d) must be a non-negative number (%v)", name, r, c, v)
			}
		}
		out[r] = append([]float64(nil), src...)
	}
	return out, nil
}
