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

package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSamples_ParsesHeaderAndRows(t *testing.T) {
	input := "x, y\n1,2.5\n-3, 4e-2\n"

	samples, err := ReadSamples(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, samples.Names)
	assert.Equal(t, [][]float64{{1, 2.5}, {-3, 0.04}}, samples.Points)
}

func TestReadSamples_RejectsMalformedInput(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"header only":  "x,y\n",
		"not a number": "x\nabc\n",
		"ragged row":   "x,y\n1,2\n3\n",
		"not finite":   "x\nNaN\n",
		"infinite":     "x\n+Inf\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadSamples(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestWriteSamples_NamesUnnamedVariables(t *testing.T) {
	var buf bytes.Buffer
	samples := srom.SampleSet{Points: [][]float64{{1, 0.5}, {2, 1e-7}}}

	require.NoError(t, WriteSamples(&buf, samples))

	assert.Equal(t, "x1,x2\n1,0.5\n2,1e-07\n", buf.String())
}

func TestWriteSamples_RejectsRaggedPoints(t *testing.T) {
	samples := srom.SampleSet{Names: []string{"a", "b"}, Points: [][]float64{{1, 2}, {3}}}
	assert.Error(t, WriteSamples(&bytes.Buffer{}, samples))
}

func TestWeights_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	weights := []float64{0.125, 0.375, 0.5}

	require.NoError(t, WriteWeights(&buf, weights))
	got, err := ReadWeights(&buf)

	require.NoError(t, err)
	assert.Equal(t, weights, got)
}

func TestReadWeights_RequiresWeightColumn(t *testing.T) {
	_, err := ReadWeights(strings.NewReader("p\n1\n"))
	assert.Error(t, err)
	_, err = ReadWeights(strings.NewReader("weight,x\n1,2\n"))
	assert.Error(t, err)
}

func TestSaveLoadSamples_PlainAndCompressed(t *testing.T) {
	samples := srom.SampleSet{
		Names:  []string{"a", "b"},
		Points: [][]float64{{1.5, -2}, {3, 4.25}, {0, 1}},
	}
	for _, name := range []string{"samples.csv", "samples.csv.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, SaveSamples(path, samples))
			got, err := LoadSamples(path)

			require.NoError(t, err)
			assert.Equal(t, samples, got)

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			isGzip := len(raw) > 2 && raw[0] == 0x1f && raw[1] == 0x8b
			assert.Equal(t, strings.HasSuffix(name, ".gz"), isGzip)
		})
	}
}

func TestSaveLoadWeights_Compressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.csv.gz")
	weights := []float64{0.25, 0.75}

	require.NoError(t, SaveWeights(path, weights))
	got, err := LoadWeights(path)

	require.NoError(t, err)
	assert.Equal(t, weights, got)
}

func TestLoadSamples_FileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSamples(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, err = LoadSamples(dir)
	assert.Error(t, err)

	plain := filepath.Join(dir, "plain.csv.gz")
	require.NoError(t, os.WriteFile(plain, []byte("x\n1\n"), 0644))
	_, err = LoadSamples(plain)
	assert.Error(t, err)
}

func TestSaveSamples_FailsForMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "samples.csv")
	err := SaveSamples(path, srom.SampleSet{Points: [][]float64{{1}}})
	assert.Error(t, err)
}
