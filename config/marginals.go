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
	"strconv"
	"strings"

	"github.com/0xsoniclabs/srom/stochastic/statistics/distribution"
	"github.com/cockroachdb/errors"
)

// ParseMarginal parses a distribution given as name:param:param..., e.g.
// gamma:2:1:3.
func ParseMarginal(spec string) (distribution.Distribution, error) {
	fields := strings.Split(spec, ":")
	name := strings.TrimSpace(fields[0])
	params := make([]float64, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %q of %v", f, name)
		}
		params = append(params, v)
	}
	return distribution.New(name, params)
}

// ParseMarginals parses one distribution per dimension, see ParseMarginal.
func ParseMarginals(specs []string) ([]distribution.Distribution, error) {
	if len(specs) == 0 {
		return nil, errors.New("no marginal distributions given")
	}
	out := make([]distribution.Distribution, len(specs))
	for k, spec := range specs {
		d, err := ParseMarginal(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "marginal %d", k)
		}
		out[k] = d
	}
	return out, nil
}
