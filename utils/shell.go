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

//go:generate mockgen -source shell.go -destination shell_mock.go -package utils

import (
	"os/exec"
	"strings"
)

// ShellExecutor runs external programs.
type ShellExecutor interface {
	Command(name string, arg ...string) ([]byte, error)
}

type shell struct{}

func (s shell) Command(name string, arg ...string) ([]byte, error) {
	cmd := exec.Command(name, arg...)
	return cmd.CombinedOutput()
}

func NewShell() ShellExecutor {
	return shell{}
}

// CommandOutput runs a program and returns its trimmed output, or fallback
// if the program fails.
func CommandOutput(s ShellExecutor, fallback string, name string, arg ...string) string {
	out, err := s.Command(name, arg...)
	if err != nil {
		return fallback
	}
	text := strings.TrimSpace(string(out))
	if text == "" {
		return fallback
	}
	return text
}
