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

package vm

import (
	"encoding/hex"
	"testing"

	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/params"
	"github.com/stretchr/testify/require"
)

// blake2FMalformedInputTests mirrors the teacher's blake2FMalformedInputTests
// table (core/vm/contracts_test.go): four EIP-152 inputs that must be
// rejected before the compression function ever runs.
var blake2FMalformedInputTests = []struct {
	Input         string
	ExpectedError error
	Name          string
}{
	{
		Input:         "",
		ExpectedError: errBlake2FInvalidInputLength,
		Name:          "vector 0: empty input",
	},
	{
		Input:         "00000c48c9bdf267e6096a3ba7ca8485ae67bb2bf894fe72f36e3cf1361d5f3af54fa5d182e6ad7f520e511f6c3e2b8c68059b6bbd41fbabd9831f79217e1319cde05b61626300000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000300000000000000000000000000000001",
		ExpectedError: errBlake2FInvalidInputLength,
		Name:          "vector 1: less than 213 bytes input",
	},
	{
		Input:         "000000000c48c9bdf267e6096a3ba7ca8485ae67bb2bf894fe72f36e3cf1361d5f3af54fa5d182e6ad7f520e511f6c3e2b8c68059b6bbd41fbabd9831f79217e1319cde05b61626300000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000300000000000000000000000000000001",
		ExpectedError: errBlake2FInvalidInputLength,
		Name:          "vector 2: more than 213 bytes input",
	},
	{
		Input:         "0000000c48c9bdf267e6096a3ba7ca8485ae67bb2bf894fe72f36e3cf1361d5f3af54fa5d182e6ad7f520e511f6c3e2b8c68059b6bbd41fbabd9831f79217e1319cde05b61626300000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000300000000000000000000000000000002",
		ExpectedError: errBlake2FInvalidFinalFlag,
		Name:          "vector 4: malformed final block indicator flag",
	},
}

func TestBlake2FMalformedInput(t *testing.T) {
	p := &blake2F{}
	for _, tt := range blake2FMalformedInputTests {
		t.Run(tt.Name, func(t *testing.T) {
			input, err := hex.DecodeString(tt.Input)
			require.NoError(t, err)
			_, err = p.Run(input)
			require.ErrorIs(t, err, tt.ExpectedError)
		})
	}
}

func TestBlake2FRequiredGas(t *testing.T) {
	p := &blake2F{}
	// Rounds field occupies the first 4 bytes, big-endian; gas is 1 per
	// round regardless of anything else in the input.
	input := make([]byte, blake2FInputLength)
	input[3] = 12
	require.Equal(t, uint64(12)*params.Blake2FPerRoundGas, p.RequiredGas(input))
}

func TestEcrecover(t *testing.T) {
	p := &ecrecover{}
	// 128-byte input: 32-byte hash, 32-byte v, 32-byte r, 32-byte s. An
	// all-zero input has v outside {27,28} (underflows to neither 0 nor 1)
	// and must fail cleanly — no recovered address, no error — rather
	// than panic.
	out, err := p.Run(make([]byte, 128))
	require.NoError(t, err)
	require.Nil(t, out)
	require.Equal(t, uint64(3000), p.RequiredGas(nil))
}

func TestSha256hash(t *testing.T) {
	p := &sha256hash{}
	out, err := p.Run(nil)
	require.NoError(t, err)
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hex.EncodeToString(out))
	// 60 gas base + 12 per word; an empty input is zero words.
	require.Equal(t, uint64(60), p.RequiredGas(nil))
	require.Equal(t, uint64(72), p.RequiredGas(make([]byte, 1)))
}

func TestRipemd160hash(t *testing.T) {
	p := &ripemd160hash{}
	out, err := p.Run(nil)
	require.NoError(t, err)
	require.Len(t, out, 32)
	// RIPEMD-160 produces a 20-byte digest, left-padded into the 32-byte word.
	require.Equal(t, make([]byte, 12), out[:12])
	require.Equal(t, params.Ripemd160BaseGas, p.RequiredGas(nil))
}

func TestDataCopy(t *testing.T) {
	p := &dataCopy{}
	in := []byte{1, 2, 3, 4}
	out, err := p.Run(in)
	require.NoError(t, err)
	require.Equal(t, in, out)
	require.Equal(t, params.IdentityBaseGas, p.RequiredGas(nil))
	require.Equal(t, params.IdentityBaseGas+params.IdentityPerWordGas, p.RequiredGas(make([]byte, 1)))
}

func TestActivePrecompiledContractsCoverage(t *testing.T) {
	// Every canonical precompile address through Cancun must resolve to a
	// non-nil contract once all the relevant EIPs are active.
	hexAddrs := []string{
		"0000000000000000000000000000000000000001",
		"0000000000000000000000000000000000000002",
		"0000000000000000000000000000000000000003",
		"0000000000000000000000000000000000000004",
		"0000000000000000000000000000000000000005",
		"0000000000000000000000000000000000000006",
		"0000000000000000000000000000000000000007",
		"0000000000000000000000000000000000000008",
		"0000000000000000000000000000000000000009",
		"000000000000000000000000000000000000000a",
	}
	rules := params.Rules{IsByzantium: true, IsIstanbul: true, IsBerlin: true, IsCancun: true}
	active := activePrecompiledContracts(rules)
	for _, h := range hexAddrs {
		addr := common.HexToAddress(h)
		require.Contains(t, active, addr, "missing precompile at 0x%s", h)
	}
}

func TestBigModExpTrivial(t *testing.T) {
	p := &bigModExp{eip2565: true}
	// base=0, exp=0, mod=1 (lengths 0,0,1): math/big's convention is that
	// x**0 mod 1 == 0, encoded as a single zero byte of output.
	input := make([]byte, 97)
	input[95] = 1 // modLen = 1 (bytes 64:96 of the header)
	input[96] = 1 // modulus body itself
	out, err := p.Run(input)
	require.NoError(t, err)
	require.Equal(t, []byte{0}, out)
}
