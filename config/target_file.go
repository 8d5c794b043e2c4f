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

package config

import (
	"bytes"
	"math"
	"os"
	"strings"

	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/stochastic/statistics/continuous"
	"github.com/0xsoniclabs/srom/stochastic/statistics/distribution"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// TargetFile is the YAML layout of a target specification.
//
//	marginals:
//	  - cdf: {name: gamma, params: [2, 1, 3]}
//	    moments: [7, 67]
//	  - cdf: {kind: table, points: [[0, 0], [1, 0.4], [4, 1]]}
//	correlation: [[1, 0.3], [0.3, 1]]
//	properties: {cdf: true, moments: true, correlation: true}
//	error_weights: {cdf: 1, moments: 0.2, correlation: 1}
//	solver: {method: spg, max_iterations: 5000, tolerance: 1e-10}
//
// Omitted moments are derived from the marginal up to the second order.
// Omitted properties and error weights keep srom.DefaultConfig values.
type TargetFile struct {
	Marginals           []Marginal    `yaml:"marginals"`
	Correlation         [][]float64   `yaml:"correlation"`
	Properties          *PropertySpec `yaml:"properties"`
	ErrorWeights        *WeightSpec   `yaml:"error_weights"`
	DistributionWeights [][]float64   `yaml:"distribution_weights"`
	MomentWeights       [][]float64   `yaml:"moment_weights"`
	CorrelationWeights  [][]float64   `yaml:"correlation_weights"`
	Solver              *SolverSpec   `yaml:"solver"`
}

// Marginal describes the target of one dimension.
type Marginal struct {
	CDF     CDFSpec   `yaml:"cdf"`
	Moments []float64 `yaml:"moments"`
}

// CDFSpec is either a named distribution or a tabulated piecewise linear CDF.
type CDFSpec struct {
	Kind   string      `yaml:"kind"` // "distribution" (default) or "table"
	Name   string      `yaml:"name"`
	Params []float64   `yaml:"params"`
	Points [][]float64 `yaml:"points"`
}

type PropertySpec struct {
	CDF         *bool `yaml:"cdf"`
	Moments     *bool `yaml:"moments"`
	Correlation *bool `yaml:"correlation"`
}

type WeightSpec struct {
	CDF         *float64 `yaml:"cdf"`
	Moments     *float64 `yaml:"moments"`
	Correlation *float64 `yaml:"correlation"`
}

type SolverSpec struct {
	Method         string    `yaml:"method"`
	MaxIterations  int       `yaml:"max_iterations"`
	Tolerance      float64   `yaml:"tolerance"`
	InitialWeights []float64 `yaml:"initial_weights"`
}

// defaultOrders is the number of moments derived for marginals without
// explicit moment targets.
const defaultOrders = 2

// LoadTargetFile reads a YAML target specification.
func LoadTargetFile(path string) (srom.Targets, srom.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return srom.Targets{}, srom.Config{}, errors.Wrapf(err, "cannot read target file %v", path)
	}
	targets, cfg, err := ParseTargets(data)
	if err != nil {
		return srom.Targets{}, srom.Config{}, errors.Wrapf(err, "target file %v", path)
	}
	return targets, cfg, nil
}

// ParseTargets decodes a YAML target specification. Unknown keys are rejected.
func ParseTargets(data []byte) (srom.Targets, srom.Config, error) {
	var file TargetFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return srom.Targets{}, srom.Config{}, errors.Wrap(err, "failed to parse target yaml")
	}
	return file.Build()
}

// Build converts the file content into optimizer targets and configuration.
func (f *TargetFile) Build() (srom.Targets, srom.Config, error) {
	if len(f.Marginals) == 0 {
		return srom.Targets{}, srom.Config{}, errors.New("no marginals given")
	}
	cfg := srom.DefaultConfig()
	f.applyProperties(&cfg)
	if err := f.applySolver(&cfg); err != nil {
		return srom.Targets{}, srom.Config{}, err
	}
	cfg.DistributionWeights = f.DistributionWeights
	cfg.MomentWeights = f.MomentWeights
	cfg.CorrelationWeights = f.CorrelationWeights

	targets := srom.Targets{Correlation: f.Correlation}
	explicit := false
	for _, m := range f.Marginals {
		explicit = explicit || len(m.Moments) > 0
	}
	needMoments := explicit || cfg.Properties.MatchMoments
	for k, m := range f.Marginals {
		cdf, moments, err := m.build(needMoments)
		if err != nil {
			return srom.Targets{}, srom.Config{}, errors.Wrapf(err, "marginal %d", k)
		}
		targets.CDFs = append(targets.CDFs, cdf)
		if needMoments {
			targets.Moments = append(targets.Moments, moments)
		}
	}
	return targets, cfg, nil
}

func (f *TargetFile) applyProperties(cfg *srom.Config) {
	if p := f.Properties; p != nil {
		set(&cfg.Properties.MatchMarginalCDF, p.CDF)
		set(&cfg.Properties.MatchMoments, p.Moments)
		set(&cfg.Properties.MatchCorrelation, p.Correlation)
	}
	if w := f.ErrorWeights; w != nil {
		set(&cfg.ErrorWeights.CDF, w.CDF)
		set(&cfg.ErrorWeights.Moments, w.Moments)
		set(&cfg.ErrorWeights.Correlation, w.Correlation)
	}
}

func (f *TargetFile) applySolver(cfg *srom.Config) error {
	s := f.Solver
	if s == nil {
		return nil
	}
	method, err := srom.ParseMethod(s.Method)
	if err != nil {
		return err
	}
	cfg.Solver.Method = method
	if s.MaxIterations != 0 {
		cfg.Solver.MaxIterations = s.MaxIterations
	}
	if s.Tolerance != 0 {
		cfg.Solver.Tolerance = s.Tolerance
	}
	cfg.Solver.InitialWeights = s.InitialWeights
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// build returns the target CDF and, if needed, the moment targets of a marginal.
func (m Marginal) build(needMoments bool) (srom.CDF, []float64, error) {
	switch strings.ToLower(m.CDF.Kind) {
	case "", "distribution":
		d, err := distribution.New(m.CDF.Name, m.CDF.Params)
		if err != nil {
			return nil, nil, err
		}
		cdf := srom.NamedDistribution{Name: m.CDF.Name, Params: m.CDF.Params}
		if !needMoments || len(m.Moments) > 0 {
			return cdf, m.Moments, nil
		}
		mean, variance := d.Mean(), d.Variance()
		moments := []float64{mean, variance + mean*mean}
		for _, v := range moments {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, errors.Newf("moments of %v are undefined, give them explicitly", cdf)
			}
		}
		return cdf, moments, nil

	case "table":
		points, err := tablePoints(m.CDF.Points)
		if err != nil {
			return nil, nil, err
		}
		cdf := srom.UserFunction{
			Fn: func(x float64, _ []float64) float64 {
				return continuous.CDF(points, x)
			},
		}
		if !needMoments || len(m.Moments) > 0 {
			return cdf, m.Moments, nil
		}
		moments, err := continuous.Moments(points, defaultOrders)
		if err != nil {
			return nil, nil, err
		}
		return cdf, moments, nil
	}
	return nil, nil, errors.Newf("unknown cdf kind %q", m.CDF.Kind)
}

func tablePoints(raw [][]float64) ([][2]float64, error) {
	points := make([][2]float64, len(raw))
	for i, p := range raw {
		if len(p) != 2 {
			return nil, errors.Newf("table point %d has %d coordinates, want 2", i, len(p))
		}
		points[i] = [2]float64{p[0], p[1]}
	}
	if err := continuous.Check(points); err != nil {
		return nil, err
	}
	return points, nil
}
