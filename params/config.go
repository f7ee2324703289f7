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
	"errors"
	"math/big"
)

// ErrUnsupportedEIP is returned by a jump table's EIP-activation hook when
// asked to enable an EIP it has no override for.
var ErrUnsupportedEIP = errors.New("unsupported eip")

// ChainConfig describes fork activation for the fourteen forks named in the
// glossary (Frontier through Prague). Block-based forks use a block number;
// time-based forks (Shanghai onward) use a block timestamp, the same split
// upstream go-ethereum's ChainConfig makes. Paris (the Merge) is block-based
// like its predecessors — upstream keys it off terminal total difficulty,
// but a block number is the same simplification go-ethereum's own test
// chain configs use.
type ChainConfig struct {
	ChainID *big.Int

	HomesteadBlock      *big.Int // Homestead
	EIP150Block         *big.Int // Tangerine Whistle
	EIP155Block         *big.Int
	EIP158Block         *big.Int // Spurious Dragon (empty-account pruning)
	ByzantiumBlock      *big.Int
	ConstantinopleBlock *big.Int
	PetersburgBlock     *big.Int
	IstanbulBlock       *big.Int
	BerlinBlock         *big.Int
	LondonBlock         *big.Int
	MergeBlock          *big.Int // Paris (EIP-3675/EIP-4399)

	ShanghaiTime *uint64
	CancunTime   *uint64
	PragueTime   *uint64

	// EIP6780Semantics, when false, restores the pre-Cancun SELFDESTRUCT
	// behavior (unconditional account deletion) even on a config whose
	// CancunTime has passed. Corresponds to the host configuration knob
	// named in spec.md §6 ("eip6780_semantics").
	EIP6780Semantics bool
}

// MainnetChainConfig is a config with every fork active from genesis,
// suitable as a default for the t8n/code-validate CLI and for tests that
// want the newest ruleset without juggling block numbers.
func MainnetChainConfig() *ChainConfig {
	zero := big.NewInt(0)
	t0 := uint64(0)
	return &ChainConfig{
		ChainID:             big.NewInt(1),
		HomesteadBlock:      zero,
		EIP150Block:         zero,
		EIP155Block:         zero,
		EIP158Block:         zero,
		ByzantiumBlock:      zero,
		ConstantinopleBlock: zero,
		PetersburgBlock:     zero,
		IstanbulBlock:       zero,
		BerlinBlock:         zero,
		LondonBlock:         zero,
		MergeBlock:          zero,
		ShanghaiTime:        &t0,
		CancunTime:          &t0,
		PragueTime:          &t0,
		EIP6780Semantics:    true,
	}
}

func isBlockForked(fork, num *big.Int) bool {
	if fork == nil || num == nil {
		return false
	}
	return fork.Cmp(num) <= 0
}

func isTimeForked(fork *uint64, time uint64) bool {
	if fork == nil {
		return false
	}
	return *fork <= time
}

func (c *ChainConfig) IsHomestead(num *big.Int) bool      { return isBlockForked(c.HomesteadBlock, num) }
func (c *ChainConfig) IsEIP150(num *big.Int) bool         { return isBlockForked(c.EIP150Block, num) }
func (c *ChainConfig) IsEIP155(num *big.Int) bool         { return isBlockForked(c.EIP155Block, num) }
func (c *ChainConfig) IsEIP158(num *big.Int) bool         { return isBlockForked(c.EIP158Block, num) }
func (c *ChainConfig) IsByzantium(num *big.Int) bool      { return isBlockForked(c.ByzantiumBlock, num) }
func (c *ChainConfig) IsConstantinople(num *big.Int) bool { return isBlockForked(c.ConstantinopleBlock, num) }
func (c *ChainConfig) IsPetersburg(num *big.Int) bool     { return isBlockForked(c.PetersburgBlock, num) }
func (c *ChainConfig) IsIstanbul(num *big.Int) bool       { return isBlockForked(c.IstanbulBlock, num) }
func (c *ChainConfig) IsBerlin(num *big.Int) bool         { return isBlockForked(c.BerlinBlock, num) }
func (c *ChainConfig) IsLondon(num *big.Int) bool         { return isBlockForked(c.LondonBlock, num) }
func (c *ChainConfig) IsMerge(num *big.Int) bool          { return isBlockForked(c.MergeBlock, num) }

func (c *ChainConfig) IsShanghai(num *big.Int, time uint64) bool {
	return c.IsLondon(num) && isTimeForked(c.ShanghaiTime, time)
}

func (c *ChainConfig) IsCancun(num *big.Int, time uint64) bool {
	return c.IsLondon(num) && isTimeForked(c.CancunTime, time)
}

func (c *ChainConfig) IsPrague(num *big.Int, time uint64) bool {
	return c.IsLondon(num) && isTimeForked(c.PragueTime, time)
}

// IsEOF reports whether EOF-formatted contract code is accepted/produced —
// gated on Prague, matching the latest EOF activation target referenced in
// spec.md §9's open question about EXTCALL variants.
func (c *ChainConfig) IsEOF(num *big.Int, time uint64) bool { return c.IsPrague(num, time) }

// Rules is a point-in-time snapshot of ChainConfig evaluated at a given
// block/time, the same "syntactic sugar" role it plays upstream: callers
// that only need boolean fork gates carry a Rules value instead of a
// (ChainConfig, num, time) triple.
type Rules struct {
	ChainID *big.Int

	IsHomestead, IsEIP150, IsEIP155, IsEIP158               bool
	IsByzantium, IsConstantinople, IsPetersburg, IsIstanbul bool
	IsBerlin, IsLondon, IsMerge                             bool
	IsEIP2929                                               bool
	IsShanghai, IsCancun, IsPrague                           bool
	IsEOF                                                    bool
	EIP6780Semantics                                         bool
}

func (c *ChainConfig) Rules(num *big.Int, time uint64) Rules {
	chainID := c.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	return Rules{
		ChainID:          new(big.Int).Set(chainID),
		IsHomestead:      c.IsHomestead(num),
		IsEIP150:         c.IsEIP150(num),
		IsEIP155:         c.IsEIP155(num),
		IsEIP158:         c.IsEIP158(num),
		IsByzantium:      c.IsByzantium(num),
		IsConstantinople: c.IsConstantinople(num),
		IsPetersburg:     c.IsPetersburg(num),
		IsIstanbul:       c.IsIstanbul(num),
		IsBerlin:         c.IsBerlin(num),
		IsEIP2929:        c.IsBerlin(num),
		IsLondon:         c.IsLondon(num),
		IsMerge:          c.IsMerge(num),
		IsShanghai:       c.IsShanghai(num, time),
		IsCancun:         c.IsCancun(num, time),
		IsPrague:         c.IsPrague(num, time),
		IsEOF:            c.IsEOF(num, time),
		EIP6780Semantics: c.EIP6780Semantics && c.IsCancun(num, time),
	}
}
