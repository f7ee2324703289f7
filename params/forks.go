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

package params

import (
	"fmt"
	"math/big"
	"strings"
)

type forkStep struct {
	names []string
	apply func(cfg *ChainConfig, num *big.Int, t *uint64)
}

// forkLadder lists the fourteen glossary forks in activation order. Each
// step's apply func sets only the field(s) that fork introduces; building
// a ChainConfig for a given fork means running every step up to and
// including it, the same cumulative pattern MainnetChainConfig uses for
// "everything since genesis".
var forkLadder = []forkStep{
	{[]string{"frontier"}, func(cfg *ChainConfig, num *big.Int, t *uint64) {}},
	{[]string{"homestead"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.HomesteadBlock = num }},
	{[]string{"tangerinewhistle", "eip150"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.EIP150Block = num }},
	{[]string{"spuriousdragon", "eip158"}, func(cfg *ChainConfig, num *big.Int, t *uint64) {
		cfg.EIP155Block, cfg.EIP158Block = num, num
	}},
	{[]string{"byzantium"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.ByzantiumBlock = num }},
	{[]string{"constantinople"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.ConstantinopleBlock = num }},
	{[]string{"petersburg"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.PetersburgBlock = num }},
	{[]string{"istanbul"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.IstanbulBlock = num }},
	{[]string{"berlin"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.BerlinBlock = num }},
	{[]string{"london"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.LondonBlock = num }},
	{[]string{"paris", "merge"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.MergeBlock = num }},
	{[]string{"shanghai"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.ShanghaiTime = t }},
	{[]string{"cancun"}, func(cfg *ChainConfig, num *big.Int, t *uint64) {
		cfg.CancunTime, cfg.EIP6780Semantics = t, true
	}},
	{[]string{"prague"}, func(cfg *ChainConfig, num *big.Int, t *uint64) { cfg.PragueTime = t }},
}

// ConfigForFork builds a ChainConfig with every fork up to and including
// the named one active from genesis, and every later fork left dormant —
// the host configuration's "fork: <name>" knob (spec.md §6). Matching is
// case-insensitive and ignores spaces, so "Tangerine Whistle", "EIP150"
// and "tangerinewhistle" all resolve to the same step, and "Merge" is
// accepted as an alias for "Paris".
func ConfigForFork(name string) (*ChainConfig, error) {
	zero := big.NewInt(0)
	t0 := uint64(0)
	key := strings.ToLower(strings.ReplaceAll(name, " ", ""))

	idx := -1
	for i, step := range forkLadder {
		for _, n := range step.names {
			if n == key {
				idx = i
			}
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("params: unknown fork %q", name)
	}

	cfg := &ChainConfig{ChainID: big.NewInt(1)}
	for i := 0; i <= idx; i++ {
		forkLadder[i].apply(cfg, zero, &t0)
	}
	return cfg, nil
}
