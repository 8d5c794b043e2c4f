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

package register

import (
	"strconv"
	"testing"
	"time"

	"github.com/0xsoniclabs/srom/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_SameIdIfSameRun(t *testing.T) {
	cfg := &config.Config{Samples: "s.csv", Targets: "t.yaml", Solver: "spg", MaxIterations: 50}
	timestamp := time.Now().Unix()

	i := MakeRunIdentity(timestamp, cfg).GetId()
	j := MakeRunIdentity(timestamp, cfg).GetId()

	assert.Equal(t, i, j)
	_, err := uuid.Parse(i)
	assert.NoError(t, err)
}

func TestIdentity_DiffIdIfDiffRun(t *testing.T) {
	cfg := &config.Config{Samples: "s.csv", Solver: "spg"}
	cfg2 := &config.Config{Samples: "s.csv", Solver: "lbfgs"}
	timestamp := time.Now().Unix()

	id1 := MakeRunIdentity(timestamp, cfg).GetId()
	id2 := MakeRunIdentity(timestamp+10_000, cfg).GetId()
	id3 := MakeRunIdentity(timestamp, cfg2).GetId()

	assert.NotEqual(t, id1, id2, "different timestamp")
	assert.NotEqual(t, id1, id3, "different config")
	assert.NotEqual(t, id2, id3, "different everything")
}

func TestIdentity_ConfiguredRunIdWins(t *testing.T) {
	cfg := &config.Config{RunId: "DummyTest"}
	assert.Equal(t, "DummyTest", MakeRunIdentity(0, cfg).GetId())
}

func TestRunIdentity_fetchConfigInfo(t *testing.T) {
	cfg := &config.Config{
		AppName:       "TestApp",
		CommandName:   "optimize",
		Samples:       "samples.csv",
		Targets:       "targets.yaml",
		Solver:        "lbfgs",
		MaxIterations: 77,
		Tolerance:     1e-9,
		RandomSeed:    42,
		RegisterRun:   "register.db",
	}
	id := MakeRunIdentity(1234, cfg)

	info := id.fetchConfigInfo()

	require.Len(t, info, 10)
	assert.Equal(t, cfg.AppName, info["AppName"])
	assert.Equal(t, cfg.CommandName, info["CommandName"])
	assert.Equal(t, cfg.Samples, info["Samples"])
	assert.Equal(t, cfg.Targets, info["Targets"])
	assert.Equal(t, cfg.Solver, info["Solver"])
	assert.Equal(t, strconv.Itoa(cfg.MaxIterations), info["MaxIterations"])
	assert.Equal(t, "1e-09", info["Tolerance"])
	assert.Equal(t, "42", info["RandomSeed"])
	assert.Equal(t, cfg.RegisterRun, info["RegisterRun"])
	assert.Equal(t, "1234", info["Timestamp"])
}
