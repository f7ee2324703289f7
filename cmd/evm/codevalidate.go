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

package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/coreevm/evm/vm"
	"github.com/urfave/cli/v2"
)

var codeValidateCommand = &cli.Command{
	Name:      "code-validate",
	Usage:     "validate bytecode, one verdict per input line",
	ArgsUsage: "[code...]",
	Description: "Reads hex-encoded bytecode either from the command line " +
		"(one argument per code string) or, with no arguments, one per " +
		"line from stdin. For each, prints \"OK <terminator-opcode>\" on " +
		"success or \"err: <reason>\" on failure, matching Besu's " +
		"CodeValidateSubCommand contract.",
	Action: runCodeValidate,
}

func runCodeValidate(c *cli.Context) error {
	w := c.App.Writer
	failed := false

	validateLine := func(line string) {
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}
		if verr := validateCodeLine(w, line); verr {
			failed = true
		}
	}

	if c.NArg() > 0 {
		for _, arg := range c.Args().Slice() {
			validateLine(arg)
		}
	} else {
		scanner := bufio.NewScanner(c.App.Reader)
		for scanner.Scan() {
			validateLine(scanner.Text())
		}
		if err := scanner.Err(); err != nil && err != io.EOF {
			return err
		}
	}
	if failed {
		return cli.Exit("", 1)
	}
	return nil
}

// validateCodeLine decodes and validates one bytecode string, writing its
// verdict to w, and reports whether validation failed.
func validateCodeLine(w io.Writer, line string) bool {
	hexStr := strings.ReplaceAll(line, " ", "")
	hexStr = strings.TrimPrefix(hexStr, "0x")
	hexStr = strings.TrimPrefix(hexStr, "0X")
	code, err := hex.DecodeString(hexStr)
	if err != nil {
		fmt.Fprintf(w, "err: invalid hex: %v\n", err)
		return true
	}
	if len(code) == 0 {
		fmt.Fprintf(w, "err: empty code\n")
		return true
	}

	if vm.HasEOFPrefix(code) {
		container, err := vm.ParseEOF(code)
		if err != nil {
			fmt.Fprintf(w, "err: layout - %v\n", err)
			return true
		}
		if err := vm.ValidateEOFCode(container); err != nil {
			fmt.Fprintf(w, "err: %v\n", err)
			return true
		}
		terminator := container.Codes[0][len(container.Codes[0])-1]
		fmt.Fprintf(w, "OK %02x\n", terminator)
		return false
	}

	fmt.Fprintf(w, "OK %02x\n", code[len(code)-1])
	return false
}
