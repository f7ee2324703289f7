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
	"sync"

	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/core/tracing"
	"github.com/holiman/uint256"
)

// Contract represents one EVM contract's running state: the code it is
// executing plus the identity/value it was invoked with. One Contract
// exists per frame (spec.md §3's "Frame"); CALL/DELEGATECALL/... each
// construct a child Contract before recursing into the interpreter.
type Contract struct {
	caller  common.Address
	address common.Address
	value   *uint256.Int

	jumpdests *AnalysisCache // Cache of validated jumpdests, shared across calls to the same code
	analysis  bitvec         // Locally cached result of JUMPDEST analysis

	Code     []byte
	CodeHash common.Hash
	Input    []byte

	// IsDeployment marks this contract as executing initcode (CREATE/CREATE2/
	// EOFCREATE), which changes CODESIZE/CODECOPY semantics not at all but
	// changes how the interpreter treats a successful RETURN (deploy vs.
	// output).
	IsDeployment bool
	IsSystemCall bool

	Gas uint64

	Eof *EOFContainer // non-nil when Code is an EOF v1 container
}

var contractPool = sync.Pool{
	New: func() any { return &Contract{} },
}

// NewContract allocates (or reuses, via the pool) a Contract ready to run.
func NewContract(caller, address common.Address, value *uint256.Int, gas uint64, jumpdests *AnalysisCache) *Contract {
	c := contractPool.Get().(*Contract)
	c.caller = caller
	c.address = address
	c.value = value
	c.Gas = gas
	c.Code = nil
	c.CodeHash = common.Hash{}
	c.Input = nil
	c.IsDeployment = false
	c.IsSystemCall = false
	c.Eof = nil
	c.jumpdests = jumpdests
	c.analysis = nil
	return c
}

// ReturnContract releases c back to the pool; callers must not use c after
// this call.
func ReturnContract(c *Contract) {
	if c == nil {
		return
	}
	contractPool.Put(c)
}

func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	// Only JUMPDEST opcodes are valid jump destinations (spec.md §4.3.1).
	if OpCode(c.Code[udest]) != JUMPDEST {
		return false
	}
	return c.isCode(udest)
}

// isCode reports whether udest is an actual instruction boundary rather
// than a byte inside a PUSH immediate, consulting (and lazily populating)
// the per-code-hash jumpdest bitmap cache.
func (c *Contract) isCode(udest uint64) bool {
	if c.analysis == nil {
		if analysis, exist := c.jumpdests.get(c.CodeHash); exist {
			c.analysis = analysis
		} else {
			c.analysis = codeBitmap(c.Code)
			c.jumpdests.add(c.CodeHash, c.analysis)
		}
	}
	return c.analysis.codeSegment(udest)
}

// GetOp returns the opcode at n, or STOP if n is past the end of Code —
// spec.md §4.5 step 1: "treat out-of-range as STOP".
func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}

func (c *Contract) Caller() common.Address  { return c.caller }
func (c *Contract) Address() common.Address { return c.address }
func (c *Contract) Value() *uint256.Int     { return c.value }

// AsDelegate configures c to run as if invoked via DELEGATECALL: the
// caller/value stay those of the parent's own caller/value rather than the
// immediate invoker's (spec.md §4.3.5's DELEGATECALL note).
func (c *Contract) AsDelegate(parent *Contract) *Contract {
	c.caller = parent.caller
	c.value = parent.value
	return c
}

func (c *Contract) UseGas(amount uint64, logger *tracing.Hooks, reason tracing.GasChangeReason) bool {
	if c.Gas < amount {
		return false
	}
	if logger != nil && logger.OnGasChange != nil {
		logger.OnGasChange(c.Gas, c.Gas-amount, reason)
	}
	c.Gas -= amount
	return true
}

func (c *Contract) RefundGas(amount uint64, logger *tracing.Hooks, reason tracing.GasChangeReason) {
	if amount == 0 {
		return
	}
	if logger != nil && logger.OnGasChange != nil {
		logger.OnGasChange(c.Gas, c.Gas+amount, reason)
	}
	c.Gas += amount
}
