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
	"sort"
	"strconv"
	"strings"

	"github.com/0xsoniclabs/srom/config"
	"github.com/google/uuid"
)

// RunIdentity identifies a run by its start time and configuration.
type RunIdentity struct {
	Timestamp int64
	Cfg       *config.Config
}

func MakeRunIdentity(t int64, cfg *config.Config) *RunIdentity {
	return &RunIdentity{
		Timestamp: t,
		Cfg:       cfg,
	}
}

// GetId returns the configured run id or a name based UUID derived from the
// timestamp and the configuration, so equal runs share an id.
func (id *RunIdentity) GetId() string {
	if id.Cfg.RunId != "" {
		return id.Cfg.RunId
	}
	info := id.fetchConfigInfo()
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(info[k])
		b.WriteByte('\n')
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.String())).String()
}

func (id *RunIdentity) fetchConfigInfo() map[string]string {
	cfg := id.Cfg
	return map[string]string{
		"AppName":       cfg.AppName,
		"CommandName":   cfg.CommandName,
		"Samples":       cfg.Samples,
		"Targets":       cfg.Targets,
		"Solver":        cfg.Solver,
		"MaxIterations": strconv.Itoa(cfg.MaxIterations),
		"Tolerance":     strconv.FormatFloat(cfg.Tolerance, 'g', -1, 64),
		"RandomSeed":    strconv.FormatInt(cfg.RandomSeed, 10),
		"RegisterRun":   cfg.RegisterRun,
		"Timestamp":     strconv.FormatInt(id.Timestamp, 10),
	}
}
