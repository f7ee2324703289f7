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

// Package log mirrors the structured, key-value logging idiom used
// throughout go-ethereum (log.Error("msg", "key", val, ...)), backed by
// log/slog. See DESIGN.md for why this one ambient concern stays on the
// standard library instead of a third-party logging package.
package log

import (
	"log/slog"
	"os"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetDefault replaces the package-level logger, letting cmd/evm route
// output (e.g. to a different level or writer) without every call site
// threading a logger through.
func SetDefault(l *slog.Logger) { root = l }

func Trace(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }

// Crit logs at error level and terminates the process, matching
// go-ethereum's log.Crit — reserved for host misconfiguration detected at
// startup (cmd/evm), never called from inside the interpreter.
func Crit(msg string, ctx ...any) {
	root.Error(msg, ctx...)
	os.Exit(1)
}
