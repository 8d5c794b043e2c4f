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

// Package register records SROM optimization runs, their metadata and their
// weights in a sqlite3 database.
package register

import (
	"github.com/0xsoniclabs/srom/utils"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
)

const (
	weightsCreate = "CREATE TABLE IF NOT EXISTS weights (runId TEXT, sample INTEGER, weight REAL, PRIMARY KEY (runId, sample))"
	weightsInsert = "INSERT OR REPLACE INTO weights (runId, sample, weight) VALUES (?, ?, ?)"
)

// NewWeightsPrinter returns a printer storing the weights of run id in the
// sqlite3 database conn.
func NewWeightsPrinter(conn string, id string, weights []float64) (*utils.PrinterToDb, error) {
	return utils.NewPrinterToSqlite3(conn, weightsCreate, weightsInsert, func() [][]any {
		values := make([][]any, len(weights))
		for i, w := range weights {
			values[i] = []any{id, i, w}
		}
		return values
	})
}

// Open connects to a register database.
func Open(conn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", conn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open register %v", conn)
	}
	return db, nil
}

type weightRow struct {
	Sample int     `db:"sample"`
	Weight float64 `db:"weight"`
}

// LoadWeights reads the weights recorded for a run, ordered by sample index.
func LoadWeights(db *sqlx.DB, runId string) ([]float64, error) {
	var rows []weightRow
	if err := db.Select(&rows, "SELECT sample, weight FROM weights WHERE runId = ? ORDER BY sample", runId); err != nil {
		return nil, errors.Wrapf(err, "cannot load weights of run %v", runId)
	}
	if len(rows) == 0 {
		return nil, errors.Newf("no weights recorded for run %v", runId)
	}
	weights := make([]float64, len(rows))
	for i, r := range rows {
		if r.Sample != i {
			return nil, errors.Newf("run %v misses the weight of sample %d", runId, i)
		}
		weights[i] = r.Weight
	}
	return weights, nil
}

type metadataRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// LoadMetadata reads the metadata recorded for a run.
func LoadMetadata(db *sqlx.DB, runId string) (map[string]string, error) {
	var rows []metadataRow
	if err := db.Select(&rows, "SELECT key, value FROM metadata WHERE runId = ?", runId); err != nil {
		return nil, errors.Wrapf(err, "cannot load metadata of run %v", runId)
	}
	if len(rows) == 0 {
		return nil, errors.Newf("no metadata recorded for run %v", runId)
	}
	meta := make(map[string]string, len(rows))
	for _, r := range rows {
		meta[r.Key] = r.Value
	}
	return meta, nil
}
