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

package stochastic

// NumECDFPoints sets the number of points kept when a cumulative distribution
// function is compressed for plotting or storage.
const NumECDFPoints = 300

// ProgressInterval sets the number of solver iterations between progress reports.
const ProgressInterval = 100

// DefaultMaxIterations is the default iteration budget of the SROM solvers.
const DefaultMaxIterations = 5000

// DefaultTolerance is the default stopping tolerance of the SROM solvers.
const DefaultTolerance = 1e-10
