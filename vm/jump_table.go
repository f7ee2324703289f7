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
	"fmt"

	"github.com/holiman/uint256"
)

type (
	executionFunc  func(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error)
	memorySizeFunc func(stack *Stack) (size uint64, overflow bool)
)

// operation is one jump-table entry: everything the dispatch loop needs to
// charge gas, check stack depth, and execute a single opcode (spec.md
// §4.5's per-step description), grounded on the teacher's own operation
// struct shape minus the super-instruction-only fields.
type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  gasFunc
	minStack    int
	maxStack    int
	memorySize  memorySizeFunc
}

// JumpTable maps each of the 256 possible opcode bytes to its operation, or
// nil for undefined opcodes.
type JumpTable [256]*operation

func (jt *JumpTable) validate() {
	for i, op := range jt {
		if op == nil {
			continue
		}
		if op.execute == nil {
			panic(fmt.Sprintf("jump table entry %#x has no execute function", i))
		}
	}
}

func copyJumpTable(src *JumpTable) *JumpTable {
	dst := *src
	for i, op := range src {
		if op != nil {
			opCopy := *op
			dst[i] = &opCopy
		}
	}
	return &dst
}

func minStack(pops, push int) int { return pops }
func maxStack(pops, push int) int { return maxStackLimit + pops - push }

func minDupStack(n int) int  { return minStack(n, n+1) }
func maxDupStack(n int) int  { return maxStack(n, n+1) }
func minSwapStack(n int) int { return minStack(n+1, n+1) }
func maxSwapStack(n int) int { return maxStack(n+1, n+1) }

// calcMemSize64 computes offset+length as a uint64, reporting overflow
// rather than wrapping, so the interpreter fails with ErrGasUintOverflow
// before memoryGasCost runs. Offsets that fit (such as spec.md §8 scenario
// 8's) reach memoryGasCost, whose expansion fee is what runs out of gas.
func calcMemSize64(off, length *uint256.Int) (uint64, bool) {
	if !length.IsUint64() {
		return 0, true
	}
	return calcMemSize64WithUint(off, length.Uint64())
}

func calcMemSize64WithUint(off *uint256.Int, length64 uint64) (uint64, bool) {
	if length64 == 0 {
		return 0, false
	}
	if !off.IsUint64() {
		return 0, true
	}
	offset64 := off.Uint64()
	val := offset64 + length64
	if val < offset64 {
		return 0, true
	}
	return val, false
}

// The memoryXxx functions compute the "highest memory offset touched" in
// bytes for each opcode family that can expand memory, matching the
// teacher's per-opcode memorySize funcs (calcMemSize-style).

func memoryKeccak256(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(1))
}

func memoryCallDataCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(2))
}

func memoryReturnDataCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(2))
}

func memoryCodeCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(2))
}

func memoryExtCodeCopy(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(1), stack.Back(3))
}

func memoryMLoad(stack *Stack) (uint64, bool) {
	return calcMemSize64WithUint(stack.Back(0), 32)
}

func memoryMStore8(stack *Stack) (uint64, bool) {
	return calcMemSize64WithUint(stack.Back(0), 1)
}

func memoryMStore(stack *Stack) (uint64, bool) {
	return calcMemSize64WithUint(stack.Back(0), 32)
}

func memoryMCopy(stack *Stack) (uint64, bool) {
	mdst, msrc, mlen := stack.Back(0), stack.Back(1), stack.Back(2)
	s1, o1 := calcMemSize64(mdst, mlen)
	s2, o2 := calcMemSize64(msrc, mlen)
	if o1 || o2 {
		return 0, true
	}
	if s1 > s2 {
		return s1, false
	}
	return s2, false
}

func memoryCreate(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(1), stack.Back(2))
}

func memoryCreate2(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(1), stack.Back(2))
}

func memoryCall(stack *Stack) (uint64, bool) {
	x, overflow := calcMemSize64(stack.Back(5), stack.Back(6))
	if overflow {
		return 0, true
	}
	y, overflow := calcMemSize64(stack.Back(3), stack.Back(4))
	if overflow {
		return 0, true
	}
	if x > y {
		return x, false
	}
	return y, false
}

func memoryDelegateCallOrStaticCall(stack *Stack) (uint64, bool) {
	x, overflow := calcMemSize64(stack.Back(4), stack.Back(5))
	if overflow {
		return 0, true
	}
	y, overflow := calcMemSize64(stack.Back(2), stack.Back(3))
	if overflow {
		return 0, true
	}
	if x > y {
		return x, false
	}
	return y, false
}

func memoryReturn(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(1))
}

func memoryLog(stack *Stack) (uint64, bool) {
	return calcMemSize64(stack.Back(0), stack.Back(1))
}
