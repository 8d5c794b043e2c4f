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
	"sort"
)

// projector computes Euclidean projections onto the probability simplex.
// It owns its scratch buffer and must not be shared between goroutines.
type projector struct {
	sorted []float64
}

func newProjector(n int) *projector {
	return &projector{sorted: make([]float64, n)}
}

// project writes the point of the simplex closest to v into dst. dst and v
// may alias.
func (pr *projector) project(dst, v []float64) {
	u := pr.sorted[:len(v)]
	copy(u, v)
	sort.Sort(sort.Reverse(sort.Float64Slice(u)))
	// find the largest j with u[j] > (Σ_{i≤j} u[i] - 1)/(j+1)
	cum, theta := 0.0, 0.0
	for j, x := range u {
		cum += x
		t := (cum - 1) / float64(j+1)
		if x > t {
			theta = t
		}
	}
	for i, x := range v {
		if x > theta {
			dst[i] = x - theta
		} else {
			dst[i] = 0
		}
	}
}
