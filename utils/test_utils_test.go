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

package utils

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUtils_Must(t *testing.T) {
	// Test with a valid value
	mockFn := func() ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}
	result := Must(mockFn())
	assert.Equal(t, []byte{1, 2, 3}, result)

	// Test with an error
	mockFnWithError := func() ([]byte, error) {
		return nil, errors.New("mock error")
	}
	assert.Panics(t, func() {
		_ = Must(mockFnWithError())
	})
}

func TestUtils_WriteTestFile(t *testing.T) {
	path := WriteTestFile(t, "a.txt", "content")
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestArgsBuilder_NewArgs(t *testing.T) {
	args := NewArgs("test").
		Arg("a").
		Arg(0).
		Arg(false).
		Arg(true).
		Flag("f1", "v1").
		Flag("f2", 0).
		Flag("f3", false).
		Flag("f4", true).
		Flag("f5", 0.25).
		Flag("f6", int64(7)).
		Build()
	assert.Equal(t, []string{
		"test", "a", "0", "false", "true",
		"--f1", "v1", "--f2", "0", "--f4", "--f5", "0.25", "--f6", "7",
	}, args)
}

func TestArgsBuilder_UnsupportedTypePanics(t *testing.T) {
	assert.Panics(t, func() { NewArgs("test").Flag("f", []int{1}) })
	assert.Panics(t, func() { NewArgs("test").Arg(1.5) })
}
