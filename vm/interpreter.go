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
	"hash"

	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/core/tracing"
	"github.com/coreevm/evm/log"
	"github.com/holiman/uint256"
)

// Config tunes optional interpreter behavior; the zero value runs with
// every feature off, matching the teacher's own Config shape.
type Config struct {
	Tracer                  *tracing.Hooks
	NoBaseFee               bool
	EnablePreimageRecording bool
	ExtraEips               []int
	JumpdestAnalysisEntries int
}

// ScopeContext holds the per-call execution state an opcode handler
// operates on: its stack, memory, and the Contract it belongs to. One
// ScopeContext is allocated per frame, matching spec.md §3's Frame.
type ScopeContext struct {
	Memory   *Memory
	Stack    *Stack
	Contract *Contract

	// eofSection/eofReturnStack track which code section of Contract.Eof is
	// currently executing and the CALLF return points, for EOF v1's
	// intra-frame function calls (spec.md §4.8). Both are unused for legacy
	// code.
	eofSection     int
	eofReturnStack []eofCallFrame
}

func (s *ScopeContext) MemoryData() []byte          { return s.Memory.Data() }
func (s *ScopeContext) StackData() []uint256.Int    { return s.Stack.Data() }
func (s *ScopeContext) Caller() common.Address      { return s.Contract.Caller() }
func (s *ScopeContext) Address() common.Address     { return s.Contract.Address() }
func (s *ScopeContext) CallValue() *uint256.Int     { return s.Contract.Value() }
func (s *ScopeContext) CallInput() []byte           { return s.Contract.Input }

// keccakState mirrors crypto.KeccakState to avoid importing crypto from a
// type alias; kept local since only opKeccak256 needs it.
type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// EVMInterpreter is the main dispatch loop (spec.md §4.5). One
// EVMInterpreter is created per EVM and reused across the calls that EVM
// makes, the same lifetime the teacher's NewEVMInterpreter/Run split
// assumes.
type EVMInterpreter struct {
	evm   *EVM
	table *JumpTable

	hasher    keccakState
	hasherBuf common.Hash

	readOnly   bool
	returnData []byte

	// eofPendingContainerIdx/eofPendingAuxData carry RETURNCONTRACT's result
	// out of Run back to EOFCreate, which issued the initcode call; safe to
	// stash here since Run recurses synchronously on this single shared
	// interpreter.
	eofPendingContainerIdx int
	eofPendingAuxData      []byte
}

func NewEVMInterpreter(evm *EVM) *EVMInterpreter {
	var table *JumpTable
	switch {
	case evm.chainRules.IsPrague:
		table = &pragueInstructionSet
	case evm.chainRules.IsCancun:
		table = &cancunInstructionSet
	case evm.chainRules.IsShanghai:
		table = &shanghaiInstructionSet
	case evm.chainRules.IsMerge:
		table = &mergeInstructionSet
	case evm.chainRules.IsLondon:
		table = &londonInstructionSet
	case evm.chainRules.IsBerlin:
		table = &berlinInstructionSet
	case evm.chainRules.IsIstanbul:
		table = &istanbulInstructionSet
	case evm.chainRules.IsPetersburg:
		table = &petersburgInstructionSet
	case evm.chainRules.IsConstantinople:
		table = &constantinopleInstructionSet
	case evm.chainRules.IsByzantium:
		table = &byzantiumInstructionSet
	case evm.chainRules.IsEIP158:
		table = &spuriousDragonInstructionSet
	case evm.chainRules.IsEIP150:
		table = &tangerineWhistleInstructionSet
	case evm.chainRules.IsHomestead:
		table = &homesteadInstructionSet
	default:
		table = &frontierInstructionSet
	}
	var extraEips []int
	if evm.Config.ExtraEips != nil {
		extraEips = evm.Config.ExtraEips
	}
	if len(extraEips) > 0 {
		cpy := *table
		table = &cpy
		for _, eip := range extraEips {
			if err := enableEIP(eip, table); err != nil {
				log.Error("EIP activation failed", "eip", eip, "error", err)
			}
		}
	}
	return &EVMInterpreter{evm: evm, table: table}
}

// Run executes contract's code starting at pc 0, until it returns, reverts,
// or hits an exceptional halt. It implements the per-step state machine of
// spec.md §4.5.
func (in *EVMInterpreter) Run(contract *Contract, input []byte, readOnly bool) (ret []byte, err error) {
	in.evm.depth++
	defer func() { in.evm.depth-- }()

	if readOnly && !in.readOnly {
		in.readOnly = true
		defer func() { in.readOnly = false }()
	}
	in.returnData = nil

	if contract.Eof != nil {
		contract.Code = contract.Eof.Codes[0]
	}
	if len(contract.Code) == 0 {
		return nil, nil
	}

	var (
		op          OpCode
		mem         = NewMemory()
		stack       = newstack()
		callContext = &ScopeContext{Memory: mem, Stack: stack, Contract: contract}
		pc          = uint64(0)
		cost        uint64
		pcCopy      uint64
		gasCopy     uint64
		logged      bool
		res         []byte
	)
	contract.Input = input
	defer func() { returnStack(stack) }()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in interpreter loop: %v", r)
		}
	}()

	hooks := in.evm.Config.Tracer

	for {
		if hooks != nil {
			pcCopy, gasCopy, logged = pc, contract.Gas, false
		}

		op = contract.GetOp(pc)
		operation := in.table[op]
		if operation == nil {
			return nil, &ErrInvalidOpCode{OpCode: op}
		}
		cost = operation.constantGas

		if sLen := stack.len(); sLen < operation.minStack {
			return nil, &ErrStackUnderflow{StackLen: sLen, Required: operation.minStack}
		} else if sLen > operation.maxStack {
			return nil, &ErrStackOverflow{StackLen: sLen, Limit: operation.maxStack}
		}

		if !contract.UseGas(cost, hooks, tracing.GasChangeCallOpCode) {
			return nil, ErrOutOfGas
		}

		if operation.memorySize != nil {
			memSize, overflow := operation.memorySize(stack)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			wordSize, overflow := toWordSizeChecked(memSize)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			memSizeBytes := wordSize * 32
			if operation.dynamicGas != nil {
				var dynamicCost uint64
				dynamicCost, err = operation.dynamicGas(in.evm, contract, stack, mem, memSizeBytes)
				cost += dynamicCost
				if err != nil || !contract.UseGas(dynamicCost, hooks, tracing.GasChangeCallOpCode) {
					return nil, ErrOutOfGas
				}
			}
			if memSizeBytes > 0 {
				mem.Resize(memSizeBytes)
			}
		} else if operation.dynamicGas != nil {
			var dynamicCost uint64
			dynamicCost, err = operation.dynamicGas(in.evm, contract, stack, mem, 0)
			cost += dynamicCost
			if err != nil || !contract.UseGas(dynamicCost, hooks, tracing.GasChangeCallOpCode) {
				return nil, ErrOutOfGas
			}
		}

		if hooks != nil && hooks.OnOpcode != nil {
			logged = true
			hooks.OnOpcode(pcCopy, byte(op), gasCopy, cost, callContext, in.returnData, in.evm.depth, nil)
		}

		res, err = operation.execute(&pc, in, callContext)
		if err != nil {
			break
		}
		pc++
	}

	if err == errStopToken || err == errEOFReturnContract {
		err = nil
	} else if hooks != nil && hooks.OnFault != nil && !logged {
		hooks.OnFault(pc, byte(op), contract.Gas, cost, callContext, in.evm.depth, err)
	}
	return res, err
}

func toWordSizeChecked(size uint64) (uint64, bool) {
	if size > 0xFFFFFFFFFFFFFFFF-31 {
		return 0, true
	}
	return (size + 31) / 32, false
}
