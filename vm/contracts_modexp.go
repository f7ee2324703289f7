// Copyright 2017 The go-ethereum Authors
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

package vm

import (
	"math/big"

	"github.com/coreevm/evm/common"
)

// bigModExp implements the MODEXP precompile at address 0x05 (EIP-198),
// repriced by EIP-2565 from Berlin onward.
type bigModExp struct {
	eip2565 bool
}

var (
	big1      = big.NewInt(1)
	big3      = big.NewInt(3)
	big7      = big.NewInt(7)
	big20     = big.NewInt(20)
	big32     = big.NewInt(32)
	big64     = big.NewInt(64)
	big96     = big.NewInt(96)
	big480    = big.NewInt(480)
	big1024   = big.NewInt(1024)
	big3072   = big.NewInt(3072)
	big199680 = big.NewInt(199680)
	big200    = big.NewInt(200)
)

func (c *bigModExp) RequiredGas(input []byte) uint64 {
	var (
		baseLen = new(big.Int).SetBytes(common.GetData(input, 0, 32))
		expLen  = new(big.Int).SetBytes(common.GetData(input, 32, 32))
		modLen  = new(big.Int).SetBytes(common.GetData(input, 64, 32))
	)
	if len(input) > 96 {
		input = input[96:]
	} else {
		input = input[:0]
	}
	adjExpLen := new(big.Int)
	if expLen.Cmp(big32) > 0 {
		adjExpLen.Sub(expLen, big32)
		adjExpLen.Mul(big8, adjExpLen)
	}
	var expHead *big.Int
	if uint64(len(input)) <= baseLen.Uint64() {
		expHead = new(big.Int)
	} else {
		start := baseLen.Uint64()
		end := start + 32
		if end > uint64(len(input)) {
			end = uint64(len(input))
		}
		if start > end {
			start = end
		}
		expHead = new(big.Int).SetBytes(input[start:end])
	}
	bitlen := calculateBitLen(expHead)
	if bitlen > 0 {
		bitlen--
	}
	adjExpLen.Add(adjExpLen, big.NewInt(int64(bitlen)))

	if c.eip2565 {
		maxLen := baseLen
		if modLen.Cmp(maxLen) > 0 {
			maxLen = modLen
		}
		words := new(big.Int).Add(maxLen, big7)
		words.Div(words, big8)
		gas := new(big.Int).Mul(words, words)
		if adjExpLen.Cmp(big1) > 0 {
			gas.Mul(gas, adjExpLen)
		}
		gas.Div(gas, big3)
		if gas.BitLen() > 64 {
			return 0xFFFFFFFFFFFFFFFF
		}
		if gas.Uint64() < 200 {
			return 200
		}
		return gas.Uint64()
	}

	maxLen := baseLen
	if modLen.Cmp(maxLen) > 0 {
		maxLen = modLen
	}
	gas := new(big.Int).Mul(adjustedExpLenOrOne(adjExpLen), multComplexity(maxLen))
	gas.Div(gas, big20)
	if gas.BitLen() > 64 {
		return 0xFFFFFFFFFFFFFFFF
	}
	return gas.Uint64()
}

func adjustedExpLenOrOne(v *big.Int) *big.Int {
	if v.Sign() <= 0 {
		return big1
	}
	return v
}

// multComplexity implements EIP-198's pre-Berlin multiplication complexity
// formula.
func multComplexity(x *big.Int) *big.Int {
	switch {
	case x.Cmp(big64) <= 0:
		return new(big.Int).Mul(x, x)
	case x.Cmp(big1024) <= 0:
		mid := new(big.Int).Mul(x, x)
		mid.Div(mid, big4)
		add := new(big.Int).Mul(x, big96)
		mid.Add(mid, add)
		return mid.Sub(mid, big3072)
	default:
		mid := new(big.Int).Mul(x, x)
		mid.Div(mid, big16)
		add := new(big.Int).Mul(x, big480)
		mid.Add(mid, add)
		return mid.Sub(mid, big199680)
	}
}

var (
	big4  = big.NewInt(4)
	big8  = big.NewInt(8)
	big16 = big.NewInt(16)
)

func calculateBitLen(v *big.Int) int {
	return v.BitLen()
}

func (c *bigModExp) Run(input []byte) ([]byte, error) {
	var (
		baseLen = new(big.Int).SetBytes(common.GetData(input, 0, 32)).Uint64()
		expLen  = new(big.Int).SetBytes(common.GetData(input, 32, 32)).Uint64()
		modLen  = new(big.Int).SetBytes(common.GetData(input, 64, 32)).Uint64()
	)
	if len(input) > 96 {
		input = input[96:]
	} else {
		input = input[:0]
	}
	if baseLen == 0 && modLen == 0 {
		return []byte{}, nil
	}
	var (
		base = new(big.Int).SetBytes(common.GetData(input, 0, baseLen))
		exp  = new(big.Int).SetBytes(common.GetData(input, baseLen, expLen))
		mod  = new(big.Int).SetBytes(common.GetData(input, baseLen+expLen, modLen))
	)
	if mod.BitLen() == 0 {
		return common.LeftPadBytes([]byte{}, int(modLen)), nil
	}
	return common.LeftPadBytes(base.Exp(base, exp, mod).Bytes(), int(modLen)), nil
}

