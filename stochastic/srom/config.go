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
	"strings"
	"sync"

	"github.com/0xsoniclabs/srom/logger"
	"github.com/0xsoniclabs/srom/stochastic"
)

// Method selects the solver used for the weight optimization.
type Method int

const (
	// SpectralProjectedGradient minimises over the simplex with Barzilai-Borwein
	// steps, Euclidean projection and a non-monotone line search.
	SpectralProjectedGradient Method = iota
	// SoftmaxLBFGS minimises over unconstrained logits with L-BFGS.
	SoftmaxLBFGS
)

func (m Method) String() string {
	switch m {
	case SpectralProjectedGradient:
		return "spg"
	case SoftmaxLBFGS:
		return "lbfgs"
	}
	return "unknown"
}

// ParseMethod converts a solver name into a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "spg", "":
		return SpectralProjectedGradient, nil
	case "lbfgs", "softmax":
		return SoftmaxLBFGS, nil
	}
	return 0, invalidConfig("unknown solver %q", s)
}

// SolverSettings control the iterative solver. Zero values select defaults.
type SolverSettings struct {
	Method         Method
	MaxIterations  int
	Tolerance      float64
	InitialWeights []float64 // start point on the simplex, uniform if nil
}

// Config is the per-call configuration of an optimization.
type Config struct {
	Properties   Properties
	ErrorWeights ErrorWeights

	// DistributionWeights[i][k] scales the CDF error of sample i in
	// dimension k; a single row is shared by all samples. Nil means ones.
	DistributionWeights [][]float64
	// MomentWeights[k][m] scales the error of moment order m+1 of dimension
	// k; a single row is shared by all dimensions. Nil means 1/target² and
	// 1 where the target is zero.
	MomentWeights [][]float64
	// CorrelationWeights[j][k] scales the error of correlation (j,k). Nil
	// means ones.
	CorrelationWeights [][]float64

	Solver SolverSettings

	// Logger receives progress reports; a shared module logger is used if nil.
	Logger logger.Logger
}

// DefaultConfig matches marginal CDFs and moments with error weights
// (1, 0.2, 0) using the spectral projected gradient solver.
func DefaultConfig() Config {
	return Config{
		Properties: Properties{
			MatchMarginalCDF: true,
			MatchMoments:     true,
		},
		ErrorWeights: ErrorWeights{
			CDF:     1,
			Moments: 0.2,
		},
		Solver: SolverSettings{
			Method:        SpectralProjectedGradient,
			MaxIterations: stochastic.DefaultMaxIterations,
			Tolerance:     stochastic.DefaultTolerance,
		},
	}
}

var defaultLogger = sync.OnceValue(func() logger.Logger {
	return logger.NewLogger("info", "SROM")
})

func (c *Config) logger() logger.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return defaultLogger()
}

func (s SolverSettings) maxIterations() int {
	if s.MaxIterations == 0 {
		return stochastic.DefaultMaxIterations
	}
	return s.MaxIterations
}

func (s SolverSettings) tolerance() float64 {
	if s.Tolerance == 0 {
		return stochastic.DefaultTolerance
	}
	return s.Tolerance
}
