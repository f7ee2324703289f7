// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Command evm is a small reference harness around the vm/state packages,
// mirroring Besu's ethereum/evmtool module, with two subcommands: t8n and
// code-validate. It is explicitly non-normative (spec.md §6)
// — a convenience for running the interpreter standalone, not part of the
// library's public contract.
package main

import (
	"fmt"
	"os"

	"github.com/coreevm/evm/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "evm",
		Usage: "run EVM bytecode and transactions outside a full node",
		Commands: []*cli.Command{
			t8nCommand,
			codeValidateCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error("evm: fatal", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
