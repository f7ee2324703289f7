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

// EOF v1 opcode handlers (spec.md §4.8), grounded on the legacy handlers in
// instructions.go and wired into the jump table only from Prague onward.
package vm

import (
	"encoding/binary"
	"errors"

	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/core/tracing"
	"github.com/coreevm/evm/params"
	"github.com/holiman/uint256"
)

type eofCallFrame struct {
	section int
	pc      uint64
}

// errEOFReturnContract is RETURNCONTRACT's halt signal: a successful
// container deployment rather than a normal RETURN/STOP, recognized by
// EVMInterpreter.Run the same way errStopToken is.
var errEOFReturnContract = errors.New("eof: returncontract")

func opRJump(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	code := scope.Contract.Code
	offset := int16(binary.BigEndian.Uint16(code[*pc+1:]))
	*pc = uint64(int64(*pc) + 3 + int64(offset) - 1)
	return nil, nil
}

func opRJumpi(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	cond := scope.Stack.pop()
	if cond.IsZero() {
		*pc += 2
		return nil, nil
	}
	return opRJump(pc, interpreter, scope)
}

func opRJumpv(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	code := scope.Contract.Code
	count := int(code[*pc+1])
	selector := scope.Stack.pop()
	immSize := uint64(1 + count*2)
	sel, overflow := selector.Uint64WithOverflow()
	if overflow || int(sel) >= count {
		*pc += immSize
		return nil, nil
	}
	base := *pc + 2 + uint64(sel)*2
	offset := int16(binary.BigEndian.Uint16(code[base:]))
	*pc = uint64(int64(*pc) + int64(immSize) + 1 + int64(offset) - 1)
	return nil, nil
}

func opCallf(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	eof := scope.Contract.Eof
	target := int(binary.BigEndian.Uint16(scope.Contract.Code[*pc+1:]))
	scope.eofReturnStack = append(scope.eofReturnStack, eofCallFrame{section: scope.eofSection, pc: *pc + 2})
	scope.eofSection = target
	scope.Contract.Code = eof.Codes[target]
	*pc = uint64(0) - 1
	return nil, nil
}

func opRetf(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if len(scope.eofReturnStack) == 0 {
		return nil, errStopToken
	}
	frame := scope.eofReturnStack[len(scope.eofReturnStack)-1]
	scope.eofReturnStack = scope.eofReturnStack[:len(scope.eofReturnStack)-1]
	scope.eofSection = frame.section
	scope.Contract.Code = scope.Contract.Eof.Codes[frame.section]
	*pc = frame.pc
	return nil, nil
}

func opJumpf(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	eof := scope.Contract.Eof
	target := int(binary.BigEndian.Uint16(scope.Contract.Code[*pc+1:]))
	scope.eofSection = target
	scope.Contract.Code = eof.Codes[target]
	*pc = uint64(0) - 1
	return nil, nil
}

// opDupn/opSwapn implement EIP-663's DUPN/SWAPN: a one-byte immediate n
// addresses stack depth n+1 (DUPN) or n+2 (SWAPN), reaching deeper than
// DUP16/SWAP16 can.
func opDupn(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	n := int(scope.Contract.Code[*pc+1])
	scope.Stack.dup(n + 1)
	*pc += 1
	return nil, nil
}

func opSwapn(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	n := int(scope.Contract.Code[*pc+1])
	scope.Stack.swap(n + 2)
	*pc += 1
	return nil, nil
}

// opExchange swaps two stack items identified by the two nibbles of its
// one-byte immediate: with high nibble h and low nibble l, it swaps the
// items at depth h+2 and depth h+l+3 (depth 1 is the top).
func opExchange(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	imm := scope.Contract.Code[*pc+1]
	n := int(imm>>4) + 1
	m := int(imm&0x0f) + n + 1
	s := scope.Stack
	l := len(s.data)
	s.data[l-1-n], s.data[l-1-m] = s.data[l-1-m], s.data[l-1-n]
	*pc += 1
	return nil, nil
}

func eofData(scope *ScopeContext) []byte {
	if scope.Contract.Eof == nil {
		return nil
	}
	return scope.Contract.Eof.Data
}

func opDataload(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset := scope.Stack.pop()
	data := eofData(scope)
	off, overflow := offset.Uint64WithOverflow()
	var chunk []byte
	if !overflow && off < uint64(len(data)) {
		chunk = common.RightPadBytes(common.GetData(data, off, 32), 32)
	} else {
		chunk = make([]byte, 32)
	}
	scope.Stack.push(new(uint256.Int).SetBytes(chunk))
	return nil, nil
}

func opDataloadN(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	off := uint64(binary.BigEndian.Uint16(scope.Contract.Code[*pc+1:]))
	data := eofData(scope)
	chunk := common.RightPadBytes(common.GetData(data, off, 32), 32)
	scope.Stack.push(new(uint256.Int).SetBytes(chunk))
	*pc += 2
	return nil, nil
}

func opDatasize(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	size := uint64(0)
	if scope.Contract.Eof != nil {
		size = uint64(scope.Contract.Eof.DataSize)
	}
	scope.Stack.push(new(uint256.Int).SetUint64(size))
	return nil, nil
}

func opDatacopy(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, offset, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	data := eofData(scope)
	off, overflow := offset.Uint64WithOverflow()
	var chunk []byte
	if !overflow {
		chunk = common.GetData(data, off, size.Uint64())
	}
	scope.Memory.Set(memOffset.Uint64(), size.Uint64(), common.RightPadBytes(chunk, int(size.Uint64())))
	return nil, nil
}

// opEofCreate implements EIP-7620's EOFCREATE: deploy one of the current
// container's subcontainers as a new contract, running it as initcode
// (which terminates via RETURNCONTRACT rather than RETURN/STOP).
func opEofCreate(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interpreter.readOnly {
		return nil, ErrWriteProtection
	}
	containerIdx := int(scope.Contract.Code[*pc+1])
	value, salt := scope.Stack.pop(), scope.Stack.pop()
	inOffset, inSize := scope.Stack.pop(), scope.Stack.pop()
	*pc += 1

	if scope.Contract.Eof == nil || containerIdx >= len(scope.Contract.Eof.Containers) {
		scope.Stack.push(new(uint256.Int))
		return nil, nil
	}
	sub := scope.Contract.Eof.Containers[containerIdx]
	input := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	gas := scope.Contract.Gas - scope.Contract.Gas/64
	scope.Contract.UseGas(gas, interpreter.evm.Config.Tracer, tracing.GasChangeCallContractCreation)

	addr, returnGas, err := interpreter.evm.EOFCreate(scope.Contract.Address(), sub, gas, &value, &salt, input)
	scope.Contract.RefundGas(returnGas, interpreter.evm.Config.Tracer, tracing.GasChangeCallLeftOverRefunded)
	if err != nil {
		scope.Stack.push(new(uint256.Int))
	} else {
		scope.Stack.push(new(uint256.Int).SetBytes(addr.Bytes()))
	}
	return nil, nil
}

// opReturnContract halts the current (initcode) frame successfully,
// producing a deployed EOF container: the subcontainer named by the
// immediate, with the aux data region appended to its data section.
func opReturnContract(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	containerIdx := int(scope.Contract.Code[*pc+1])
	auxOffset, auxSize := scope.Stack.pop(), scope.Stack.pop()
	aux := scope.Memory.GetCopy(int64(auxOffset.Uint64()), int64(auxSize.Uint64()))
	interpreter.eofPendingContainerIdx = containerIdx
	interpreter.eofPendingAuxData = aux
	return nil, errEOFReturnContract
}

func memoryEofCreate(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(2), stack.Back(3))
}

func memoryExtCall(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(1), stack.Back(2))
}

// extCallTarget validates EIP-7069's "target address must be a clean 20
// bytes" rule; a non-clean value exceptionally aborts the current frame
// rather than pushing a failure status.
func extCallTarget(v *uint256.Int) (common.Address, bool) {
	b := v.Bytes32()
	for _, x := range b[:12] {
		if x != 0 {
			return common.Address{}, false
		}
	}
	return common.BytesToAddress(b[12:]), true
}

// extCallGas applies EIP-7069's retained/minimum-callee gas rule shared by
// EXTCALL, EXTDELEGATECALL and EXTSTATICCALL: forward all but 1/64th, and
// refuse to attempt the call at all if that leaves the callee under the
// floor.
func extCallGas(contract *Contract) (uint64, bool) {
	gas := contract.Gas - contract.Gas/64
	if gas < params.MinCalleeGasEIP7069 {
		return 0, false
	}
	return gas, true
}

func extCallStatus(err error) *uint256.Int {
	switch err {
	case nil:
		return new(uint256.Int)
	case ErrExecutionReverted:
		return new(uint256.Int).SetUint64(1)
	default:
		return new(uint256.Int).SetUint64(2)
	}
}

func opExtCall(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	addr := stack.pop()
	inOffset, inSize := stack.pop(), stack.pop()
	value := stack.pop()

	toAddr, ok := extCallTarget(&addr)
	if !ok {
		return nil, ErrAddressOutOfRange
	}
	if interpreter.readOnly && !value.IsZero() {
		return nil, ErrWriteProtection
	}
	gas, ok := extCallGas(scope.Contract)
	if !ok {
		stack.push(new(uint256.Int).SetUint64(2))
		return nil, nil
	}
	var bigVal = new(uint256.Int)
	if !value.IsZero() {
		bigVal = &value
	}
	args := scope.Memory.GetPtr(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	ret, returnGas, err := interpreter.evm.Call(scope.Contract.Address(), toAddr, args, gas, bigVal)
	interpreter.returnData = ret
	scope.Contract.RefundGas(returnGas, interpreter.evm.Config.Tracer, tracing.GasChangeCallLeftOverRefunded)
	stack.push(extCallStatus(err))
	return nil, nil
}

func opExtDelegateCall(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	addr := stack.pop()
	inOffset, inSize := stack.pop(), stack.pop()

	toAddr, ok := extCallTarget(&addr)
	if !ok {
		return nil, ErrAddressOutOfRange
	}
	if !HasEOFPrefix(interpreter.evm.StateDB.GetCode(toAddr)) {
		stack.push(new(uint256.Int).SetUint64(2))
		return nil, nil
	}
	gas, ok := extCallGas(scope.Contract)
	if !ok {
		stack.push(new(uint256.Int).SetUint64(2))
		return nil, nil
	}
	args := scope.Memory.GetPtr(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	ret, returnGas, err := interpreter.evm.DelegateCall(scope.Contract, toAddr, args, gas)
	interpreter.returnData = ret
	scope.Contract.RefundGas(returnGas, interpreter.evm.Config.Tracer, tracing.GasChangeCallLeftOverRefunded)
	stack.push(extCallStatus(err))
	return nil, nil
}

func opExtStaticCall(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	addr := stack.pop()
	inOffset, inSize := stack.pop(), stack.pop()

	toAddr, ok := extCallTarget(&addr)
	if !ok {
		return nil, ErrAddressOutOfRange
	}
	gas, ok := extCallGas(scope.Contract)
	if !ok {
		stack.push(new(uint256.Int).SetUint64(2))
		return nil, nil
	}
	args := scope.Memory.GetPtr(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	ret, returnGas, err := interpreter.evm.StaticCall(scope.Contract.Address(), toAddr, args, gas)
	interpreter.returnData = ret
	scope.Contract.RefundGas(returnGas, interpreter.evm.Config.Tracer, tracing.GasChangeCallLeftOverRefunded)
	stack.push(extCallStatus(err))
	return nil, nil
}

func addEOFInstructions(tbl *JumpTable) {
	tbl[RJUMP] = &operation{execute: opRJump, constantGas: 2 /* GasQuickStep */, minStack: minStack(0, 0), maxStack: maxStack(0, 0)}
	tbl[RJUMPI] = &operation{execute: opRJumpi, constantGas: 4, minStack: minStack(1, 0), maxStack: maxStack(1, 0)}
	tbl[RJUMPV] = &operation{execute: opRJumpv, constantGas: 4, minStack: minStack(1, 0), maxStack: maxStack(1, 0)}
	tbl[CALLF] = &operation{execute: opCallf, constantGas: 5, minStack: minStack(0, 0), maxStack: maxStack(0, 0)}
	tbl[RETF] = &operation{execute: opRetf, constantGas: 3, minStack: minStack(0, 0), maxStack: maxStack(0, 0)}
	tbl[JUMPF] = &operation{execute: opJumpf, constantGas: 5, minStack: minStack(0, 0), maxStack: maxStack(0, 0)}
	tbl[DUPN] = &operation{execute: opDupn, constantGas: 3, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[SWAPN] = &operation{execute: opSwapn, constantGas: 3, minStack: minStack(0, 0), maxStack: maxStack(0, 0)}
	tbl[EXCHANGE] = &operation{execute: opExchange, constantGas: 3, minStack: minStack(0, 0), maxStack: maxStack(0, 0)}
	tbl[DATALOAD] = &operation{execute: opDataload, constantGas: 4, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[DATALOADN] = &operation{execute: opDataloadN, constantGas: 3, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[DATASIZE] = &operation{execute: opDatasize, constantGas: 2, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[DATACOPY] = &operation{execute: opDatacopy, constantGas: 3, dynamicGas: gasCallDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryCallDataCopy}
	tbl[EOFCREATE] = &operation{execute: opEofCreate, constantGas: 32000, minStack: minStack(4, 1), maxStack: maxStack(4, 1), memorySize: memoryEofCreate}
	tbl[RETURNCONTRACT] = &operation{execute: opReturnContract, constantGas: 0, dynamicGas: pureMemoryGascost, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryReturn}
	tbl[EXTCALL] = &operation{execute: opExtCall, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: pureMemoryGascost, minStack: minStack(4, 1), maxStack: maxStack(4, 1), memorySize: memoryExtCall}
	tbl[EXTDELEGATECALL] = &operation{execute: opExtDelegateCall, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: pureMemoryGascost, minStack: minStack(3, 1), maxStack: maxStack(3, 1), memorySize: memoryExtCall}
	tbl[EXTSTATICCALL] = &operation{execute: opExtStaticCall, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: pureMemoryGascost, minStack: minStack(3, 1), maxStack: maxStack(3, 1), memorySize: memoryExtCall}
}
