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
	"os"
	"runtime"
	"strconv"

	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/0xsoniclabs/srom/stochastic/statistics/discrete"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/cockroachdb/errors"
)

const (
	metadataCreate = "CREATE TABLE IF NOT EXISTS metadata (runId TEXT, key TEXT, value TEXT, PRIMARY KEY (runId, key))"
	metadataInsert = "INSERT OR REPLACE INTO metadata (runId, key, value) VALUES (?, ?, ?)"
)

// RunMetadata collects key/value descriptions of a run and prints them
// into the register database.
type RunMetadata struct {
	Id   string
	Meta map[string]string
	Ps   *utils.Printers
}

// MakeRunMetadata gathers configuration and environment information of a
// run. If conn is not empty, printing stores the metadata in that sqlite3
// database.
func MakeRunMetadata(conn string, id *RunIdentity, fetchEnv func() (map[string]string, error)) (*RunMetadata, error) {
	rm := &RunMetadata{
		Id:   id.GetId(),
		Meta: id.fetchConfigInfo(),
		Ps:   utils.NewPrinters(),
	}
	rm.Meta["RunId"] = rm.Id

	env, err := fetchEnv()
	if err != nil {
		return nil, errors.Wrap(err, "cannot fetch environment information")
	}
	for k, v := range env {
		rm.Meta[k] = v
	}

	if _, err := rm.Ps.AddPrinterToSqlite3(rm.sqlite3(conn)); err != nil {
		return nil, err
	}
	return rm, nil
}

// SetResult adds the outcome of an optimization to the metadata.
func (rm *RunMetadata) SetResult(res *srom.Result) {
	rm.Meta["Objective"] = formatFloat(res.Objective)
	rm.Meta["CDFError"] = formatFloat(res.Terms.CDF)
	rm.Meta["MomentError"] = formatFloat(res.Terms.Moments)
	rm.Meta["CorrelationError"] = formatFloat(res.Terms.Correlation)
	rm.Meta["Iterations"] = strconv.Itoa(res.Iterations)
	rm.Meta["Converged"] = strconv.FormatBool(res.Converged)
	rm.Meta["Reason"] = res.Reason
	rm.Meta["NumSamples"] = strconv.Itoa(len(res.Weights))
	rm.Meta["EffectiveSize"] = formatFloat(discrete.EffectiveSize(res.Weights))
}

func (rm *RunMetadata) Print() error {
	return rm.Ps.Print()
}

func (rm *RunMetadata) Close() {
	rm.Ps.Close()
}

func (rm *RunMetadata) sqlite3(conn string) (string, string, string, func() [][]any) {
	return conn, metadataCreate, metadataInsert,
		func() [][]any {
			values := make([][]any, 0, len(rm.Meta))
			for k, v := range rm.Meta {
				values = append(values, []any{rm.Id, k, v})
			}
			return values
		}
}

// FetchUnixInfo describes the machine the run is executed on.
func FetchUnixInfo() (map[string]string, error) {
	return fetchUnixInfo(utils.NewShell())
}

func fetchUnixInfo(sh utils.ShellExecutor) (map[string]string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get hostname")
	}
	return map[string]string{
		"Hostname":  hostname,
		"Os":        runtime.GOOS,
		"Arch":      runtime.GOARCH,
		"GoVersion": runtime.Version(),
		"NumCpu":    strconv.Itoa(runtime.NumCPU()),
		"Kernel":    utils.CommandOutput(sh, "unknown", "uname", "-r"),
		"User":      utils.CommandOutput(sh, "unknown", "whoami"),
		"GitCommit": utils.CommandOutput(sh, "unknown", "git", "rev-parse", "HEAD"),
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
