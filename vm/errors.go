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
	"errors"
	"fmt"
)

// The errors a call or create can end with (spec.md §7). An exceptional
// halt consumes all remaining gas in the frame and rolls back its state
// changes; REVERT (ErrExecutionReverted) also rolls back but returns unused
// gas, and ErrDepth/ErrInsufficientBalance are returned before any code
// runs, with the gas left untouched.
var (
	ErrOutOfGas                 = errors.New("out of gas")
	ErrCodeStoreOutOfGas        = errors.New("contract creation code storage out of gas")
	ErrDepth                    = errors.New("max call depth exceeded")
	ErrInsufficientBalance      = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision = errors.New("contract address collision")
	ErrExecutionReverted        = errors.New("execution reverted")
	ErrMaxInitCodeSizeExceeded  = errors.New("max initcode size exceeded")
	ErrMaxCodeSizeExceeded      = errors.New("max code size exceeded")
	ErrInvalidJump              = errors.New("invalid jump destination")
	ErrWriteProtection           = errors.New("write protection")
	ErrReturnDataOutOfBounds     = errors.New("return data out of bounds")
	ErrGasUintOverflow            = errors.New("gas uint64 overflow")
	ErrInvalidCode               = errors.New("invalid code: must not begin with 0xef")
	ErrNonceUintOverflow         = errors.New("nonce uint64 overflow")
	ErrAddressOutOfRange          = errors.New("address out of range")
	ErrEOFCreateWithoutContainer  = errors.New("eofcreate: subcontainer not found")
	ErrInvalidEOFContainer        = errors.New("invalid eof container")
)

// ErrStackUnderflow means the op required more items than the stack held.
type ErrStackUnderflow struct{ StackLen, Required int }

func (e *ErrStackUnderflow) Error() string {
	return fmt.Sprintf("stack underflow (%d <=> %d)", e.StackLen, e.Required)
}

// ErrStackOverflow means the op would have grown the stack past its limit.
type ErrStackOverflow struct{ StackLen, Limit int }

func (e *ErrStackOverflow) Error() string {
	return fmt.Sprintf("stack limit reached %d (%d)", e.StackLen, e.Limit)
}

// ErrInvalidOpCode means the opcode byte has no defined handler.
type ErrInvalidOpCode struct{ OpCode OpCode }

func (e *ErrInvalidOpCode) Error() string {
	return fmt.Sprintf("invalid opcode: %s", e.OpCode)
}

// errStopToken is a private sentinel that the STOP/RETURN/SELFDESTRUCT handlers
// return to signal "halt the loop without it being a real error" — the
// interpreter recognizes it and never surfaces it to the caller as a fault.
var errStopToken = errors.New("stop token")
