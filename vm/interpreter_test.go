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

package vm_test

import (
	"math/big"
	"testing"

	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/core/tracing"
	"github.com/coreevm/evm/params"
	"github.com/coreevm/evm/state"
	"github.com/coreevm/evm/vm"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// newTestEVM wires a fresh StateDB against an all-forks-active chain config,
// the shape spec.md §8's scenarios run against.
func newTestEVM() (*vm.EVM, *state.StateDB) {
	db := state.New()
	blockCtx := vm.BlockContext{
		BlockNumber: big.NewInt(1),
		Time:        1,
		Difficulty:  new(big.Int),
		BaseFee:     new(big.Int),
		GetHash:     func(uint64) common.Hash { return common.Hash{} },
	}
	evm := vm.NewEVM(blockCtx, db, params.MainnetChainConfig(), vm.Config{JumpdestAnalysisEntries: 256})
	return evm, db
}

var (
	testCaller = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testTarget = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testInner  = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

// Scenario 1: add two values and return the 32-byte result.
func TestAddAndReturn(t *testing.T) {
	evm, db := newTestEVM()
	// PUSH1 2 PUSH1 3 ADD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := []byte{0x60, 0x02, 0x60, 0x03, 0x01, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3}
	db.CreateAccount(testTarget)
	db.SetCode(testTarget, code)

	ret, _, err := evm.Call(testCaller, testTarget, nil, 100000, new(uint256.Int))
	require.NoError(t, err)
	require.Equal(t, make([]byte, 31), ret[:31])
	require.Equal(t, byte(5), ret[31])
}

// Scenario 2: SLT is signed, unlike LT.
func TestSignedComparison(t *testing.T) {
	evm, db := newTestEVM()
	// push 1, push -1 (all 0xff), SLT: the handler computes x.Slt(y) where
	// x is the top operand and y the one below it, so push order is (y then
	// x) to get x=-1, y=1 -> -1 < 1 -> true.
	code := []byte{
		0x7f, // PUSH32
	}
	code = append(code, make([]byte, 32)...) // push 1
	code[len(code)-1] = 1
	code = append(code, 0x7f) // PUSH32 -1
	code = append(code, make([]byte, 32)...)
	for i := len(code) - 32; i < len(code); i++ {
		code[i] = 0xff
	}
	code = append(code,
		0x12,                   // SLT
		0x60, 0x00, 0x52,       // MSTORE at 0
		0x60, 0x20, 0x60, 0x00, // 32 0
		0xf3, // RETURN
	)
	db.CreateAccount(testTarget)
	db.SetCode(testTarget, code)

	ret, _, err := evm.Call(testCaller, testTarget, nil, 100000, new(uint256.Int))
	require.NoError(t, err)
	require.Equal(t, byte(1), ret[31])
}

// Scenario 3: DIV by zero yields 0, not a revert.
func TestDivisionByZero(t *testing.T) {
	evm, db := newTestEVM()
	// PUSH1 0 PUSH1 5 DIV PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := []byte{0x60, 0x00, 0x60, 0x05, 0x04, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3}
	db.CreateAccount(testTarget)
	db.SetCode(testTarget, code)

	ret, _, err := evm.Call(testCaller, testTarget, nil, 100000, new(uint256.Int))
	require.NoError(t, err)
	require.Equal(t, make([]byte, 32), ret)
}

// Scenario 4: a static call must reject SSTORE.
func TestStaticCallWriteRejection(t *testing.T) {
	evm, db := newTestEVM()
	// PUSH1 1 PUSH1 0 SSTORE
	code := []byte{0x60, 0x01, 0x60, 0x00, 0x55}
	db.CreateAccount(testTarget)
	db.SetCode(testTarget, code)

	_, _, err := evm.StaticCall(testCaller, testTarget, nil, 100000)
	require.ErrorIs(t, err, vm.ErrWriteProtection)
	require.Equal(t, common.Hash{}, db.GetState(testTarget, common.Hash{}))
}

// Scenario 5: a reverted CALL leaves the callee's storage untouched even
// though the caller's own frame completes successfully.
func TestNestedRevert(t *testing.T) {
	evm, db := newTestEVM()
	// Inner: PUSH1 1 PUSH1 0 SSTORE PUSH1 0 PUSH1 0 REVERT
	innerCode := []byte{0x60, 0x01, 0x60, 0x00, 0x55, 0x60, 0x00, 0x60, 0x00, 0xfd}
	db.CreateAccount(testInner)
	db.SetCode(testInner, innerCode)

	// Outer: CALL(gas, testInner, 0, 0, 0, 0, 0); POP; STOP
	outer := []byte{
		0x60, 0x00, // retLength
		0x60, 0x00, // retOffset
		0x60, 0x00, // argsLength
		0x60, 0x00, // argsOffset
		0x60, 0x00, // value
		0x73, // PUSH20 <addr>
	}
	outer = append(outer, testInner.Bytes()...)
	outer = append(outer,
		0x62, 0x0f, 0x42, 0x40, // PUSH3 1_000_000 gas
		0xf1, // CALL
		0x50, // POP success flag
		0x00, // STOP
	)
	db.CreateAccount(testTarget)
	db.SetCode(testTarget, outer)

	_, _, err := evm.Call(testCaller, testTarget, nil, 2_000_000, new(uint256.Int))
	require.NoError(t, err)
	require.Equal(t, common.Hash{}, db.GetState(testInner, common.Hash{}))
}

// Scenario 6: transient storage (EIP-1153), like access-list warmth, rolls
// back on revert.
func TestTransientStorageRevert(t *testing.T) {
	evm, db := newTestEVM()
	// PUSH1 1 PUSH1 0 TSTORE PUSH1 0 PUSH1 0 REVERT
	code := []byte{0x60, 0x01, 0x60, 0x00, 0x5d, 0x60, 0x00, 0x60, 0x00, 0xfd}
	db.CreateAccount(testTarget)
	db.SetCode(testTarget, code)

	_, _, err := evm.Call(testCaller, testTarget, nil, 100000, new(uint256.Int))
	require.ErrorIs(t, err, vm.ErrExecutionReverted)
	require.Equal(t, common.Hash{}, db.GetTransientState(testTarget, common.Hash{}))
}

// Scenario 7: CREATE2 addresses are a deterministic function of caller,
// salt, and initcode hash.
func TestCreate2Determinism(t *testing.T) {
	evm, db := newTestEVM()
	// Trivial initcode: PUSH1 0 PUSH1 0 RETURN (deploys empty code).
	initcode := []byte{0x60, 0x00, 0x60, 0x00, 0xf3}
	db.CreateAccount(testCaller)
	db.AddBalance(testCaller, uint256.NewInt(1_000_000), tracing.BalanceChangeUnspecified)

	salt := uint256.NewInt(42)
	_, addr1, _, err := evm.Create2(testCaller, initcode, 100000, new(uint256.Int), salt)
	require.NoError(t, err)

	db2 := state.New()
	evm2 := vm.NewEVM(evm.Context, db2, params.MainnetChainConfig(), vm.Config{JumpdestAnalysisEntries: 256})
	db2.CreateAccount(testCaller)
	db2.AddBalance(testCaller, uint256.NewInt(1_000_000), tracing.BalanceChangeUnspecified)
	_, addr2, _, err := evm2.Create2(testCaller, initcode, 100000, new(uint256.Int), salt)
	require.NoError(t, err)

	require.Equal(t, addr1, addr2)
}

// Scenario 8: an absurdly large memory offset makes MSTORE's expansion cost
// exceed any reasonable gas budget.
func TestOutOfGasOnMemoryExpansion(t *testing.T) {
	evm, db := newTestEVM()
	// PUSH1 0 PUSH4 0xFFFFFFFF MSTORE
	code := []byte{0x60, 0x00, 0x63, 0xff, 0xff, 0xff, 0xff, 0x52}
	db.CreateAccount(testTarget)
	db.SetCode(testTarget, code)

	_, _, err := evm.Call(testCaller, testTarget, nil, 100000, new(uint256.Int))
	require.ErrorIs(t, err, vm.ErrOutOfGas)
}
