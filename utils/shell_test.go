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
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestShell_Command(t *testing.T) {
	s := NewShell()
	out, err := s.Command("echo", "hello")
	assert.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestCommandOutput_TrimsOrFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := NewMockShellExecutor(ctrl)

	s.EXPECT().Command("uname", "-r").Return([]byte(" 6.1.0\n"), nil)
	assert.Equal(t, "6.1.0", CommandOutput(s, "unknown", "uname", "-r"))

	s.EXPECT().Command("git", "rev-parse", "HEAD").Return(nil, errors.New("not a repository"))
	assert.Equal(t, "unknown", CommandOutput(s, "unknown", "git", "rev-parse", "HEAD"))

	s.EXPECT().Command("whoami").Return([]byte("\n"), nil)
	assert.Equal(t, "unknown", CommandOutput(s, "unknown", "whoami"))
}
