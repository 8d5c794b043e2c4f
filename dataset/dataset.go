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

// Package dataset reads and writes sample points and SROM weights as CSV
// files with a header row.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/0xsoniclabs/srom/stochastic/srom"
	"github.com/cockroachdb/errors"
)

// WeightColumn is the header of a weight file.
const WeightColumn = "weight"

// ReadSamples parses a CSV table whose header names the variables and whose
// rows are sample points.
func ReadSamples(r io.Reader) (srom.SampleSet, error) {
	names, rows, err := readTable(r)
	if err != nil {
		return srom.SampleSet{}, err
	}
	if len(rows) == 0 {
		return srom.SampleSet{}, errors.New("no sample points")
	}
	return srom.SampleSet{Names: names, Points: rows}, nil
}

// WriteSamples writes sample points as CSV. Unnamed variables are called x1, x2, ...
func WriteSamples(w io.Writer, samples srom.SampleSet) error {
	names := samples.Names
	if len(names) == 0 {
		names = make([]string, samples.Dim())
		for k := range names {
			names[k] = fmt.Sprintf("x%d", k+1)
		}
	}
	return writeTable(w, names, samples.Points)
}

// ReadWeights parses a single column CSV of weights.
func ReadWeights(r io.Reader) ([]float64, error) {
	names, rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if len(names) != 1 || names[0] != WeightColumn {
		return nil, errors.Newf("expected a single %q column, got %v", WeightColumn, names)
	}
	weights := make([]float64, len(rows))
	for i, row := range rows {
		weights[i] = row[0]
	}
	return weights, nil
}

// WriteWeights writes weights as a single column CSV.
func WriteWeights(w io.Writer, weights []float64) error {
	rows := make([][]float64, len(weights))
	for i, p := range weights {
		rows[i] = []float64{p}
	}
	return writeTable(w, []string{WeightColumn}, rows)
}

// LoadSamples reads a sample file, see ReadSamples.
func LoadSamples(path string) (srom.SampleSet, error) {
	var samples srom.SampleSet
	err := load(path, func(r io.Reader) (err error) {
		samples, err = ReadSamples(r)
		return err
	})
	return samples, err
}

// SaveSamples writes a sample file, see WriteSamples.
func SaveSamples(path string, samples srom.SampleSet) error {
	return save(path, func(w io.Writer) error { return WriteSamples(w, samples) })
}

// LoadWeights reads a weight file, see ReadWeights.
func LoadWeights(path string) ([]float64, error) {
	var weights []float64
	err := load(path, func(r io.Reader) (err error) {
		weights, err = ReadWeights(r)
		return err
	})
	return weights, err
}

// SaveWeights writes a weight file, see WriteWeights.
func SaveWeights(path string, weights []float64) error {
	return save(path, func(w io.Writer) error { return WriteWeights(w, weights) })
}

func load(path string, read func(io.Reader) error) error {
	file, err := openFile(path)
	if err != nil {
		return err
	}
	err = read(file)
	err = errors.CombineErrors(err, file.Close())
	return errors.Wrapf(err, "cannot read %v", path)
}

func save(path string, write func(io.Writer) error) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	err = write(file)
	err = errors.CombineErrors(err, file.Close())
	return errors.Wrapf(err, "cannot write %v", path)
}

func readTable(r io.Reader) ([]string, [][]float64, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot read header")
	}
	names := append([]string(nil), header...)
	var rows [][]float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "line %d", line)
		}
		row := make([]float64, len(record))
		for k, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "line %d, column %v", line, names[k])
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, errors.Newf("line %d, column %v: value %v is not finite", line, names[k], v)
			}
			row[k] = v
		}
		rows = append(rows, row)
	}
	return names, rows, nil
}

func writeTable(w io.Writer, header []string, rows [][]float64) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i, row := range rows {
		if len(row) != len(header) {
			return errors.Newf("row %d has %d values, header has %d", i, len(row), len(header))
		}
		for k, v := range row {
			record[k] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
