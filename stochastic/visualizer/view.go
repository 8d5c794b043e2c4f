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

package visualizer

import (
	"fmt"
	"math"
	"sync"

	"github.com/0xsoniclabs/srom/stochastic"
	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/stochastic/statistics/continuous"
	"github.com/0xsoniclabs/srom/stochastic/statistics/discrete"
)

// Report is the data shown by the visualizer: samples, their SROM weights
// and the targets the weights were fitted to.
type Report struct {
	Samples srom.SampleSet
	Weights []float64
	Targets srom.Targets
}

type dimensionView struct {
	name    string
	srom    [][2]float64 // weighted ECDF
	uniform [][2]float64 // ECDF with equal weights
	target  [][2]float64 // tabulated target CDF, nil without target
}

type viewState struct {
	dims          []dimensionView
	weights       []float64
	effectiveSize float64

	momentLabels  []string
	momentsSrom   []float64
	momentsTarget []float64

	correlationLabels []string
	correlationSrom   []float64
	correlationTarget []float64
}

var (
	currentMu    sync.RWMutex
	currentState *viewState
)

func setViewState(report *Report) error {
	if report == nil {
		return fmt.Errorf("visualizer: report is nil")
	}
	derived, err := buildViewState(report)
	if err != nil {
		return err
	}
	currentMu.Lock()
	currentState = derived
	currentMu.Unlock()
	return nil
}

func buildViewState(report *Report) (*viewState, error) {
	samples := report.Samples
	if err := discrete.CheckPMF(report.Weights); err != nil {
		return nil, fmt.Errorf("visualizer: weights: %w", err)
	}
	if len(report.Weights) != samples.Len() {
		return nil, fmt.Errorf("visualizer: %d weights for %d samples", len(report.Weights), samples.Len())
	}
	state := &viewState{
		weights:       report.Weights,
		effectiveSize: discrete.EffectiveSize(report.Weights),
	}
	uniform := make([]float64, samples.Len())
	for i := range uniform {
		uniform[i] = 1 / float64(len(uniform))
	}
	for k := range samples.Dim() {
		dim := dimensionView{name: dimensionName(samples, k)}
		var err error
		if dim.srom, err = srom.WeightedECDF(samples, report.Weights, k); err != nil {
			return nil, fmt.Errorf("visualizer: ECDF of %v: %w", dim.name, err)
		}
		if dim.uniform, err = srom.WeightedECDF(samples, uniform, k); err != nil {
			return nil, fmt.Errorf("visualizer: ECDF of %v: %w", dim.name, err)
		}
		if cdf := targetCDF(report.Targets, k); cdf != nil {
			if dim.target, err = tabulateTarget(cdf, samples.Column(k)); err != nil {
				return nil, fmt.Errorf("visualizer: target of %v: %w", dim.name, err)
			}
		}
		state.dims = append(state.dims, dim)
	}
	if err := state.addMoments(report); err != nil {
		return nil, err
	}
	if err := state.addCorrelation(report); err != nil {
		return nil, err
	}
	return state, nil
}

// addMoments compares the weighted moments with the targets; without
// targets the first two orders are shown.
func (s *viewState) addMoments(report *Report) error {
	orders := 2
	if len(report.Targets.Moments) > 0 {
		orders = len(report.Targets.Moments[0])
	}
	moments, err := srom.WeightedMoments(report.Samples, report.Weights, orders)
	if err != nil {
		return fmt.Errorf("visualizer: moments: %w", err)
	}
	for k, row := range moments {
		for m, v := range row {
			s.momentLabels = append(s.momentLabels, fmt.Sprintf("%v m%d", s.dims[k].name, m+1))
			s.momentsSrom = append(s.momentsSrom, v)
			s.momentsTarget = append(s.momentsTarget, lookup(report.Targets.Moments, k, m))
		}
	}
	return nil
}

// addCorrelation compares the off-diagonal weighted correlations with the targets.
func (s *viewState) addCorrelation(report *Report) error {
	if report.Samples.Dim() < 2 {
		return nil
	}
	corr, err := srom.WeightedCorrelation(report.Samples, report.Weights)
	if err != nil {
		return fmt.Errorf("visualizer: correlation: %w", err)
	}
	for j := range corr {
		for k := j + 1; k < len(corr); k++ {
			s.correlationLabels = append(s.correlationLabels, s.dims[j].name+"/"+s.dims[k].name)
			s.correlationSrom = append(s.correlationSrom, corr[j][k])
			s.correlationTarget = append(s.correlationTarget, lookup(report.Targets.Correlation, j, k))
		}
	}
	return nil
}

func dimensionName(samples srom.SampleSet, k int) string {
	if k < len(samples.Names) && samples.Names[k] != "" {
		return samples.Names[k]
	}
	return fmt.Sprintf("x%d", k+1)
}

func targetCDF(targets srom.Targets, k int) srom.CDF {
	switch {
	case len(targets.CDFs) == 1:
		return targets.CDFs[0]
	case k < len(targets.CDFs):
		return targets.CDFs[k]
	}
	return nil
}

// lookup returns m[i][j] or NaN if the entry does not exist.
func lookup(m [][]float64, i, j int) float64 {
	if i < len(m) && j < len(m[i]) {
		return m[i][j]
	}
	return math.NaN()
}

// tabulateTarget samples a target CDF on the sample range widened by half its
// span on each side and compresses the table.
func tabulateTarget(cdf srom.CDF, values []float64) ([][2]float64, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(lo), 1)
	}
	eval, err := srom.Resolve(cdf)
	if err != nil {
		return nil, err
	}
	f, err := continuous.Tabulate(eval, lo-span/2, hi+span/2, 4*stochastic.NumECDFPoints)
	if err != nil {
		return nil, err
	}
	return continuous.Compress(f)
}

func currentView() (*viewState, error) {
	currentMu.RLock()
	defer currentMu.RUnlock()
	if currentState == nil {
		return nil, fmt.Errorf("visualizer: report not initialised")
	}
	return currentState, nil
}
