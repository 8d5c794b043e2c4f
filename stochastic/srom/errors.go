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

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidTarget marks a malformed or inconsistent target specification.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidConfiguration marks an invalid combination of properties,
	// error weights or solver settings.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrConvergenceWarning marks a result whose solver ran out of iterations.
	// It is reported through Result.Warning and never returned as an error.
	ErrConvergenceWarning = errors.New("solver did not converge")
	// ErrNumerical marks a problem without a meaningful numerical solution,
	// e.g. a degenerate variance under correlation matching.
	ErrNumerical = errors.New("numerical error")
)

func invalidTarget(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidTarget, format, args...)
}

func invalidConfig(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidConfiguration, format, args...)
}

func nan() float64 {
	return math.NaN()
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
