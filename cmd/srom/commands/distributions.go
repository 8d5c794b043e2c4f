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

package commands

import (
	"github.com/0xsoniclabs/srom/stochastic/statistics/distribution"
	"github.com/0xsoniclabs/srom/utils"
	"github.com/urfave/cli/v2"
)

// DistributionsCommand lists the named target distributions.
var DistributionsCommand = cli.Command{
	Action: distributionsAction,
	Name:   "distributions",
	Usage:  "list the supported named distributions",
}

func distributionsAction(ctx *cli.Context) error {
	return utils.NewPrinters().AddPrinterToTable(ctx.App.Writer, "Distributions", []any{"Name", "Parameters"}, func() [][]any {
		names := distribution.Names()
		rows := make([][]any, 0, len(names))
		for _, name := range names {
			arity, _ := distribution.Arity(name)
			rows = append(rows, []any{name, arity})
		}
		return rows
	}).Print()
}
