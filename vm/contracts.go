// Copyright 2015 The go-ethereum Authors
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
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/core/tracing"
	"github.com/coreevm/evm/crypto"
	"github.com/coreevm/evm/params"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for the RIPEMD160 precompile
)

// PrecompiledContract is the interface every precompiled contract (spec.md
// §4.4) implements: how much gas it costs for a given input, and how to run
// it.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

var (
	ErrOutOfGasPrecompile = errors.New("out of gas")
)

// activePrecompiledContracts returns the precompile set active under rules,
// built the way the teacher's NewEVMInterpreter picks a jump table: start
// from the oldest set and layer fork-gated repricings/additions on top.
func activePrecompiledContracts(rules params.Rules) map[common.Address]PrecompiledContract {
	contracts := map[common.Address]PrecompiledContract{
		common.BytesToAddress([]byte{1}): &ecrecover{},
		common.BytesToAddress([]byte{2}): &sha256hash{},
		common.BytesToAddress([]byte{3}): &ripemd160hash{},
		common.BytesToAddress([]byte{4}): &dataCopy{},
		common.BytesToAddress([]byte{5}): &bigModExp{eip2565: false},
	}
	if rules.IsByzantium {
		contracts[common.BytesToAddress([]byte{6})] = &bn256Add{eip1108: false}
		contracts[common.BytesToAddress([]byte{7})] = &bn256ScalarMul{eip1108: false}
		contracts[common.BytesToAddress([]byte{8})] = &bn256Pairing{eip1108: false}
	}
	if rules.IsIstanbul {
		contracts[common.BytesToAddress([]byte{6})] = &bn256Add{eip1108: true}
		contracts[common.BytesToAddress([]byte{7})] = &bn256ScalarMul{eip1108: true}
		contracts[common.BytesToAddress([]byte{8})] = &bn256Pairing{eip1108: true}
		contracts[common.BytesToAddress([]byte{9})] = &blake2F{}
	}
	if rules.IsBerlin {
		contracts[common.BytesToAddress([]byte{5})] = &bigModExp{eip2565: true}
	}
	if rules.IsCancun {
		contracts[common.BytesToAddress([]byte{0x0a})] = &kzgPointEvaluation{}
	}
	if rules.IsPrague {
		g1add := &bls12381G1Add{}
		g1mul := &bls12381G1MultiExp{}
		g2add := &bls12381G2Add{}
		g2mul := &bls12381G2MultiExp{}
		pairing := &bls12381Pairing{}
		mapg1 := &bls12381MapG1{}
		mapg2 := &bls12381MapG2{}
		contracts[common.BytesToAddress([]byte{0x0b})] = g1add
		contracts[common.BytesToAddress([]byte{0x0c})] = g1mul
		contracts[common.BytesToAddress([]byte{0x0d})] = g2add
		contracts[common.BytesToAddress([]byte{0x0e})] = g2mul
		contracts[common.BytesToAddress([]byte{0x0f})] = pairing
		contracts[common.BytesToAddress([]byte{0x10})] = mapg1
		contracts[common.BytesToAddress([]byte{0x11})] = mapg2
	}
	return contracts
}

// RunPrecompiledContract runs p against input under a gas budget of
// suppliedGas, reporting OnGasChange through logger the same way the
// interpreter's opcode loop does (spec.md §4.4).
func RunPrecompiledContract(p PrecompiledContract, input []byte, suppliedGas uint64, logger *tracing.Hooks) (ret []byte, remainingGas uint64, err error) {
	gasCost := p.RequiredGas(input)
	if suppliedGas < gasCost {
		return nil, 0, ErrOutOfGasPrecompile
	}
	if logger != nil && logger.OnGasChange != nil {
		logger.OnGasChange(suppliedGas, suppliedGas-gasCost, tracing.GasChangeCallOpCode)
	}
	suppliedGas -= gasCost
	output, err := p.Run(input)
	return output, suppliedGas, err
}

// ecrecover implements the ECRECOVER precompile at address 0x01.
type ecrecover struct{}

func (c *ecrecover) RequiredGas(input []byte) uint64 { return 3000 }

func (c *ecrecover) Run(input []byte) ([]byte, error) {
	const ecrecoverInputLength = 128
	input = common.RightPadBytes(input, ecrecoverInputLength)
	r := new(big.Int).SetBytes(input[64:96])
	s := new(big.Int).SetBytes(input[96:128])
	v := input[63] - 27

	secp256k1N, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	if v != 0 && v != 1 {
		return nil, nil
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 || r.Sign() == 0 || s.Sign() == 0 {
		return nil, nil
	}
	sig := make([]byte, 65)
	copy(sig[0:32], input[64:96])
	copy(sig[32:64], input[96:128])
	sig[64] = v

	pubKey, err := crypto.Ecrecover(input[:32], sig)
	if err != nil {
		return nil, nil
	}
	return common.LeftPadBytes(crypto.PubkeyToAddress(pubKey), 32), nil
}

// sha256hash implements the SHA256 precompile at address 0x02.
type sha256hash struct{}

func (c *sha256hash) RequiredGas(input []byte) uint64 {
	return uint64(wordCount(len(input)))*params.Sha256PerWordGas + params.Sha256BaseGas
}

func (c *sha256hash) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// ripemd160hash implements the RIPEMD160 precompile at address 0x03.
type ripemd160hash struct{}

func (c *ripemd160hash) RequiredGas(input []byte) uint64 {
	return uint64(wordCount(len(input)))*params.Ripemd160PerWordGas + params.Ripemd160BaseGas
}

func (c *ripemd160hash) Run(input []byte) ([]byte, error) {
	ripemd := ripemd160.New()
	ripemd.Write(input)
	return common.LeftPadBytes(ripemd.Sum(nil), 32), nil
}

// dataCopy implements the IDENTITY precompile at address 0x04.
type dataCopy struct{}

func (c *dataCopy) RequiredGas(input []byte) uint64 {
	return uint64(wordCount(len(input)))*params.IdentityPerWordGas + params.IdentityBaseGas
}

func (c *dataCopy) Run(input []byte) ([]byte, error) {
	return common.CopyBytes(input), nil
}

func wordCount(n int) int { return (n + 31) / 32 }
