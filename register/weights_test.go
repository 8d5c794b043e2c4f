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
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeights_PrintAndLoad(t *testing.T) {
	conn := filepath.Join(t.TempDir(), "register.db")
	weights := []float64{0.125, 0.25, 0.625}

	for _, id := range []string{"first", "second"} {
		p, err := NewWeightsPrinter(conn, id, weights)
		require.NoError(t, err)
		require.NoError(t, p.Print())
		p.Close()
	}

	db, err := Open(conn)
	require.NoError(t, err)
	defer db.Close()

	got, err := LoadWeights(db, "second")
	require.NoError(t, err)
	assert.Equal(t, weights, got)

	_, err = LoadWeights(db, "unknown")
	assert.Error(t, err)
}

func TestLoadWeights_DetectsMissingSamples(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("SELECT sample, weight FROM weights").
		WithArgs("run").
		WillReturnRows(sqlmock.NewRows([]string{"sample", "weight"}).AddRow(0, 0.5).AddRow(2, 0.5))

	_, err = LoadWeights(sqlx.NewDb(db, "sqlmock"), "run")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadMetadata_UnknownRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("SELECT key, value FROM metadata").
		WithArgs("run").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	_, err = LoadMetadata(sqlx.NewDb(db, "sqlmock"), "run")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
