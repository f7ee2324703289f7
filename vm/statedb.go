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
	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/core/tracing"
	"github.com/holiman/uint256"
)

// Log is one LOG0..LOG4 record, per spec.md §3's "logs" frame accumulator.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// StateDB is the host's "world view" capability (spec.md §6), the
// narrow interface through which the interpreter reads and mutates
// accounts, storage, transient storage, the access list, and the
// self-destruct/refund accumulators. Its method set is grounded on the
// teacher's core/vm/mock_statedb.go — the only place in the retrieval pack
// the full upstream StateDB surface is enumerated — adapted to this
// package's own call conventions (several accessors return a plain bool
// or value here where upstream returns void/additional bookkeeping).
type StateDB interface {
	CreateAccount(common.Address)

	SubBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason)
	AddBalance(addr common.Address, amount *uint256.Int, reason tracing.BalanceChangeReason)
	GetBalance(common.Address) *uint256.Int

	GetNonce(common.Address) uint64
	SetNonce(common.Address, uint64, tracing.NonceChangeReason)

	GetCodeHash(common.Address) common.Hash
	GetCode(common.Address) []byte
	SetCode(common.Address, []byte)
	GetCodeSize(common.Address) int

	AddRefund(uint64)
	SubRefund(uint64)
	GetRefund() uint64

	GetCommittedState(common.Address, common.Hash) common.Hash
	GetState(common.Address, common.Hash) common.Hash
	SetState(common.Address, common.Hash, common.Hash)

	GetTransientState(addr common.Address, key common.Hash) common.Hash
	SetTransientState(addr common.Address, key, value common.Hash)

	SelfDestruct(common.Address)
	SelfDestruct6780(common.Address)
	HasSelfDestructed(common.Address) bool

	Exist(common.Address) bool
	Empty(common.Address) bool

	AddressInAccessList(addr common.Address) bool
	SlotInAccessList(addr common.Address, slot common.Hash) (addressOk, slotOk bool)
	// AddAddressToAccessList returns whether addr was already warm —
	// the interpreter's gas functions use this single call to both
	// query and mark warmth, matching spec.md §6's "warm_address(addr)
	// -> bool (returns prior warmth)".
	AddAddressToAccessList(addr common.Address) (warm bool)
	AddSlotToAccessList(addr common.Address, slot common.Hash) (addressWarm, slotWarm bool)

	RevertToSnapshot(int)
	Snapshot() int

	AddLog(*Log)

	AddPreimage(common.Hash, []byte)
}
