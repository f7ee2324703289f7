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

// Package tracing defines the optional step-level and transaction-boundary
// observation hooks the host may attach to an execution (spec.md §6's
// "Tracer" capability). Every field is optional; the interpreter checks
// for nil before calling.
package tracing

import (
	"math/big"

	"github.com/coreevm/evm/common"
	"github.com/holiman/uint256"
)

// BalanceChangeReason classifies why an account's balance changed, for
// tracers that want to distinguish value transfers from gas refunds from
// self-destructs without re-deriving it from call context.
type BalanceChangeReason byte

const (
	BalanceChangeUnspecified BalanceChangeReason = iota
	BalanceIncreaseRewardTransactionFee
	BalanceDecreaseGasBuy
	BalanceIncreaseGasReturn
	BalanceIncreaseRewardMineBlock
	BalanceChangeTransfer
	BalanceIncreaseSelfdestruct
	BalanceDecreaseSelfdestruct
	BalanceDecreaseSelfdestructBurn
)

// GasChangeReason classifies a single gas deduction or refund, matching
// the granularity the teacher's instructions.go passes at every
// UseGas/RefundGas call site.
type GasChangeReason byte

const (
	GasChangeUnspecified GasChangeReason = iota
	GasChangeCallInitialBalance
	GasChangeCallLeftOverReturned
	GasChangeCallLeftOverRefunded
	GasChangeCallContractCreation
	GasChangeCallContractCreation2
	GasChangeCallCodeStorage
	GasChangeCallOpCode
	GasChangeCallFailedExecution
	GasChangeCallStorageColdAccess
	GasChangeCallStorageSlotWarm
	GasChangeTxDataFloor
)

// NonceChangeReason classifies why an account's nonce changed.
type NonceChangeReason byte

const (
	NonceChangeUnspecified NonceChangeReason = iota
	NonceChangeEoACall
	NonceChangeContractCreator
	NonceChangeNewContract
)

// VMContext captures the block/transaction context visible at the start of
// execution, passed once to OnTxStart-style hooks. Kept deliberately thin —
// full block/transaction modeling lives outside the interpreter core.
type VMContext struct {
	Coinbase    common.Address
	BlockNumber *big.Int
	Time        uint64
	GasLimit    uint64
	BaseFee     *big.Int
}

// Hooks is a struct of optional callbacks a host can populate to observe
// execution without the interpreter depending on any particular tracer
// implementation — the same "tracer passed as a struct of funcs" shape the
// teacher's core/vm call sites assume even though this retrieval ships no
// definition of the package itself.
type Hooks struct {
	OnOpcode func(pc uint64, op byte, gas, cost uint64, scope OpContext, rData []byte, depth int, err error)
	OnFault  func(pc uint64, op byte, gas, cost uint64, scope OpContext, depth int, err error)

	OnEnter func(depth int, typ byte, from, to common.Address, input []byte, gas uint64, value *big.Int)
	OnExit  func(depth int, output []byte, gasUsed uint64, err error, reverted bool)

	OnGasChange     func(old, new uint64, reason GasChangeReason)
	OnBalanceChange func(addr common.Address, old, new *big.Int, reason BalanceChangeReason)
	OnNonceChange   func(addr common.Address, old, new uint64)
	OnBlockHashRead func(number uint64, hash common.Hash)

	OnTxStart func(vm *VMContext, from common.Address)
	OnTxEnd   func(gasUsed uint64, err error)
}

// OpContext exposes the minimal per-step state a tracer needs without this
// leaf package importing vm — vm.ScopeContext implements this interface
// directly, mirroring go-ethereum's own ScopeContext accessor set.
type OpContext interface {
	MemoryData() []byte
	StackData() []uint256.Int
	Caller() common.Address
	Address() common.Address
	CallValue() *uint256.Int
	CallInput() []byte
}

// ContractRef is the minimal contract identity a tracer needs outside an
// OpContext, e.g. for OnEnter/OnExit's from/to reporting.
type ContractRef interface {
	Address() common.Address
	Caller() common.Address
	Value() *big.Int
}
