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

import "github.com/coreevm/evm/params"

// One instruction set per fork (spec.md GLOSSARY's fourteen forks), each
// built by copying the previous fork's table and overriding only what
// changed — the same incremental construction the teacher's jump_table.go
// uses, grounded on it for every opcode the retrieval covers and on general
// EVM gas-schedule knowledge for forks the retrieval predates (Berlin
// onward, EOF).
var (
	frontierInstructionSet         = newFrontierInstructionSet()
	homesteadInstructionSet        = newHomesteadInstructionSet()
	tangerineWhistleInstructionSet = newTangerineWhistleInstructionSet()
	spuriousDragonInstructionSet   = newSpuriousDragonInstructionSet()
	byzantiumInstructionSet        = newByzantiumInstructionSet()
	constantinopleInstructionSet   = newConstantinopleInstructionSet()
	petersburgInstructionSet       = newPetersburgInstructionSet()
	istanbulInstructionSet         = newIstanbulInstructionSet()
	berlinInstructionSet           = newBerlinInstructionSet()
	londonInstructionSet           = newLondonInstructionSet()
	mergeInstructionSet            = newMergeInstructionSet()
	shanghaiInstructionSet         = newShanghaiInstructionSet()
	cancunInstructionSet           = newCancunInstructionSet()
	pragueInstructionSet           = newPragueInstructionSet()
)

func newFrontierInstructionSet() JumpTable {
	var tbl JumpTable
	tbl[STOP] = &operation{execute: opStop, constantGas: 0, minStack: minStack(0, 0), maxStack: maxStack(0, 0)}
	tbl[ADD] = &operation{execute: opAdd, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[MUL] = &operation{execute: opMul, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SUB] = &operation{execute: opSub, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[DIV] = &operation{execute: opDiv, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SDIV] = &operation{execute: opSdiv, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[MOD] = &operation{execute: opMod, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SMOD] = &operation{execute: opSmod, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[ADDMOD] = &operation{execute: opAddmod, constantGas: params.GasMidStep, minStack: minStack(3, 1), maxStack: maxStack(3, 1)}
	tbl[MULMOD] = &operation{execute: opMulmod, constantGas: params.GasMidStep, minStack: minStack(3, 1), maxStack: maxStack(3, 1)}
	tbl[EXP] = &operation{execute: opExp, constantGas: params.ExpGas, dynamicGas: gasExp, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SIGNEXTEND] = &operation{execute: opSignExtend, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[LT] = &operation{execute: opLt, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[GT] = &operation{execute: opGt, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SLT] = &operation{execute: opSlt, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SGT] = &operation{execute: opSgt, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[EQ] = &operation{execute: opEq, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[ISZERO] = &operation{execute: opIszero, constantGas: params.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[AND] = &operation{execute: opAnd, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[OR] = &operation{execute: opOr, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[XOR] = &operation{execute: opXor, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[NOT] = &operation{execute: opNot, constantGas: params.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[BYTE] = &operation{execute: opByte, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[KECCAK256] = &operation{execute: opKeccak256, constantGas: params.Keccak256Gas, dynamicGas: gasKeccak256, minStack: minStack(2, 1), maxStack: maxStack(2, 1), memorySize: memoryKeccak256}

	tbl[ADDRESS] = &operation{execute: opAddress, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[BALANCE] = &operation{execute: opBalance, constantGas: params.BalanceGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[ORIGIN] = &operation{execute: opOrigin, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[CALLER] = &operation{execute: opCaller, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[CALLVALUE] = &operation{execute: opCallValue, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[CALLDATALOAD] = &operation{execute: opCallDataLoad, constantGas: params.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[CALLDATASIZE] = &operation{execute: opCallDataSize, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[CALLDATACOPY] = &operation{execute: opCallDataCopy, constantGas: params.GasFastestStep, dynamicGas: gasCallDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryCallDataCopy}
	tbl[CODESIZE] = &operation{execute: opCodeSize, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[CODECOPY] = &operation{execute: opCodeCopy, constantGas: params.GasFastestStep, dynamicGas: gasCodeCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryCodeCopy}
	tbl[GASPRICE] = &operation{execute: opGasprice, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[EXTCODESIZE] = &operation{execute: opExtCodeSize, constantGas: params.ExtcodeSizeGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[EXTCODECOPY] = &operation{execute: opExtCodeCopy, constantGas: params.ExtcodeCopyBaseFrontier, dynamicGas: gasExtCodeCopyLen, minStack: minStack(4, 0), maxStack: maxStack(4, 0), memorySize: memoryExtCodeCopy}

	tbl[BLOCKHASH] = &operation{execute: opBlockhash, constantGas: params.GasExtStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[COINBASE] = &operation{execute: opCoinbase, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[TIMESTAMP] = &operation{execute: opTimestamp, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[NUMBER] = &operation{execute: opNumber, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[DIFFICULTY] = &operation{execute: opDifficulty, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[GASLIMIT] = &operation{execute: opGasLimit, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}

	tbl[POP] = &operation{execute: opPop, constantGas: params.GasQuickStep, minStack: minStack(1, 0), maxStack: maxStack(1, 0)}
	tbl[MLOAD] = &operation{execute: opMload, constantGas: params.GasFastestStep, dynamicGas: pureMemoryGascost, minStack: minStack(1, 1), maxStack: maxStack(1, 1), memorySize: memoryMLoad}
	tbl[MSTORE] = &operation{execute: opMstore, constantGas: params.GasFastestStep, dynamicGas: pureMemoryGascost, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryMStore}
	tbl[MSTORE8] = &operation{execute: opMstore8, constantGas: params.GasFastestStep, dynamicGas: pureMemoryGascost, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryMStore8}
	tbl[SLOAD] = &operation{execute: opSload, constantGas: params.SloadGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[SSTORE] = &operation{execute: opSstore, constantGas: 0, dynamicGas: gasSStoreFrontier, minStack: minStack(2, 0), maxStack: maxStack(2, 0)}
	tbl[JUMP] = &operation{execute: opJump, constantGas: params.GasMidStep, minStack: minStack(1, 0), maxStack: maxStack(1, 0)}
	tbl[JUMPI] = &operation{execute: opJumpi, constantGas: params.GasSlowStep, minStack: minStack(2, 0), maxStack: maxStack(2, 0)}
	tbl[PC] = &operation{execute: opPc, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[MSIZE] = &operation{execute: opMsize, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[GAS] = &operation{execute: opGas, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[JUMPDEST] = &operation{execute: opJumpdest, constantGas: params.JumpdestGas, minStack: minStack(0, 0), maxStack: maxStack(0, 0)}

	for i := 0; i < 32; i++ {
		tbl[PUSH1+OpCode(i)] = &operation{execute: makePush(uint64(i+1), i+1), constantGas: params.GasFastestStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	}
	for i := 1; i <= 16; i++ {
		tbl[DUP1+OpCode(i-1)] = &operation{execute: makeDup(int64(i)), constantGas: params.GasFastestStep, minStack: minDupStack(i), maxStack: maxDupStack(i)}
		tbl[SWAP1+OpCode(i-1)] = &operation{execute: makeSwap(int64(i)), constantGas: params.GasFastestStep, minStack: minSwapStack(i), maxStack: maxSwapStack(i)}
	}
	for i := 0; i < 5; i++ {
		tbl[LOG0+OpCode(i)] = &operation{execute: makeLog(i), constantGas: params.LogGas, dynamicGas: makeGasLog(uint64(i)), minStack: minStack(2+i, 0), maxStack: maxStack(2+i, 0), memorySize: memoryLog}
	}

	tbl[CREATE] = &operation{execute: opCreate, constantGas: params.CreateGas, dynamicGas: gasCreate, minStack: minStack(3, 1), maxStack: maxStack(3, 1), memorySize: memoryCreate}
	tbl[CALL] = &operation{execute: opCall, constantGas: params.CallGasFrontier, dynamicGas: gasCallFrontier, minStack: minStack(7, 1), maxStack: maxStack(7, 1), memorySize: memoryCall}
	tbl[CALLCODE] = &operation{execute: opCallCode, constantGas: params.CallGasFrontier, dynamicGas: gasCallCodeFrontier, minStack: minStack(7, 1), maxStack: maxStack(7, 1), memorySize: memoryCall}
	tbl[RETURN] = &operation{execute: opReturn, constantGas: 0, dynamicGas: pureMemoryGascost, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryReturn}
	tbl[SELFDESTRUCT] = &operation{execute: opSelfdestruct, constantGas: 0, minStack: minStack(1, 0), maxStack: maxStack(1, 0)}

	tbl.fillUndefined()
	return tbl
}

func (jt *JumpTable) fillUndefined() {
	for i, op := range jt {
		if op == nil {
			jt[i] = &operation{execute: opUndefined, maxStack: maxStackLimit}
		}
	}
}

func newHomesteadInstructionSet() JumpTable {
	tbl := newFrontierInstructionSet()
	tbl[DELEGATECALL] = &operation{execute: opDelegateCall, constantGas: params.CallGasFrontier, dynamicGas: gasDelegateCallOrStaticCallFrontier, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryDelegateCallOrStaticCall}
	return tbl
}

func newTangerineWhistleInstructionSet() JumpTable {
	tbl := newHomesteadInstructionSet()
	tbl[BALANCE].constantGas = params.BalanceGasEIP150
	tbl[EXTCODESIZE].constantGas = params.ExtcodeSizeGasEIP150
	tbl[EXTCODECOPY].constantGas = params.ExtcodeCopyBaseEIP150
	tbl[SLOAD].constantGas = params.SloadGasEIP150
	tbl[CALL].constantGas = params.CallGasEIP150
	tbl[CALLCODE].constantGas = params.CallGasEIP150
	tbl[DELEGATECALL].constantGas = params.CallGasEIP150
	tbl[SELFDESTRUCT].constantGas = params.SelfdestructGasEIP150
	tbl[CALL].dynamicGas = gasCallEIP150
	tbl[CALLCODE].dynamicGas = gasCallCodeEIP150
	tbl[DELEGATECALL].dynamicGas = gasDelegateCallOrStaticCallEIP150
	return tbl
}

func newSpuriousDragonInstructionSet() JumpTable {
	tbl := newTangerineWhistleInstructionSet()
	// EIP-158's empty-account pruning is a StateDB/Call-level change, not a
	// per-opcode gas change.
	return tbl
}

func newByzantiumInstructionSet() JumpTable {
	tbl := newSpuriousDragonInstructionSet()
	tbl[REVERT] = &operation{execute: opRevert, constantGas: 0, dynamicGas: pureMemoryGascost, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryReturn}
	tbl[RETURNDATASIZE] = &operation{execute: opReturnDataSize, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[RETURNDATACOPY] = &operation{execute: opReturnDataCopy, constantGas: params.GasFastestStep, dynamicGas: gasReturnDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryReturnDataCopy}
	tbl[STATICCALL] = &operation{execute: opStaticCall, constantGas: params.CallGasEIP150, dynamicGas: gasDelegateCallOrStaticCallEIP150, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryDelegateCallOrStaticCall}
	return tbl
}

func newConstantinopleInstructionSet() JumpTable {
	tbl := newByzantiumInstructionSet()
	tbl[SHL] = &operation{execute: opSHL, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SHR] = &operation{execute: opSHR, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SAR] = &operation{execute: opSAR, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[EXTCODEHASH] = &operation{execute: opExtCodeHash, constantGas: params.ExtcodeHashGasConstantinople, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[CREATE2] = &operation{execute: opCreate2, constantGas: params.Create2Gas, dynamicGas: gasCreate2Frontier, minStack: minStack(4, 1), maxStack: maxStack(4, 1), memorySize: memoryCreate2}
	return tbl
}

func newPetersburgInstructionSet() JumpTable {
	// Petersburg repeals EIP-1283's SSTORE rule, reverting to Constantinople's
	// opcode table with no further change at this layer (the reverted gas
	// function is selected in the Istanbul step below, where net-metered
	// SSTORE is reintroduced for good under EIP-2200).
	return newConstantinopleInstructionSet()
}

func newIstanbulInstructionSet() JumpTable {
	tbl := newPetersburgInstructionSet()
	tbl[BALANCE].constantGas = params.BalanceGasEIP1884
	tbl[SLOAD].constantGas = params.SloadGasEIP1884
	tbl[EXTCODEHASH].constantGas = params.ExtcodeHashGasEIP1884
	tbl[SSTORE].constantGas = 0
	tbl[SSTORE].dynamicGas = gasSStoreEIP2200
	tbl[CHAINID] = &operation{execute: opChainID, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[SELFBALANCE] = &operation{execute: opSelfBalance, constantGas: params.GasFastStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	return tbl
}

func newBerlinInstructionSet() JumpTable {
	tbl := newIstanbulInstructionSet()
	tbl[BALANCE] = &operation{execute: opBalance, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: gasEip2929AccountCheck, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[EXTCODESIZE] = &operation{execute: opExtCodeSize, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: gasEip2929AccountCheck, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[EXTCODEHASH] = &operation{execute: opExtCodeHash, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: gasEip2929AccountCheck, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[EXTCODECOPY] = &operation{execute: opExtCodeCopy, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: gasExtCodeCopyEIP2929, minStack: minStack(4, 0), maxStack: maxStack(4, 0), memorySize: memoryExtCodeCopy}
	tbl[SLOAD] = &operation{execute: opSload, constantGas: 0, dynamicGas: gasSLoad, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[SSTORE] = &operation{execute: opSstore, constantGas: 0, dynamicGas: gasSStore, minStack: minStack(2, 0), maxStack: maxStack(2, 0)}
	tbl[CALL] = &operation{execute: opCall, constantGas: 0, dynamicGas: gasCall, minStack: minStack(7, 1), maxStack: maxStack(7, 1), memorySize: memoryCall}
	tbl[CALLCODE] = &operation{execute: opCallCode, constantGas: 0, dynamicGas: gasCallCode, minStack: minStack(7, 1), maxStack: maxStack(7, 1), memorySize: memoryCall}
	tbl[DELEGATECALL] = &operation{execute: opDelegateCall, constantGas: 0, dynamicGas: gasDelegateCallOrStaticCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryDelegateCallOrStaticCall}
	tbl[STATICCALL] = &operation{execute: opStaticCall, constantGas: 0, dynamicGas: gasDelegateCallOrStaticCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryDelegateCallOrStaticCall}
	tbl[SELFDESTRUCT] = &operation{execute: opSelfdestruct, constantGas: params.SelfdestructGasEIP150, dynamicGas: gasSelfdestructEIP2929, minStack: minStack(1, 0), maxStack: maxStack(1, 0)}
	return tbl
}

func newLondonInstructionSet() JumpTable {
	tbl := newBerlinInstructionSet()
	tbl[BASEFEE] = &operation{execute: opBaseFee, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	// EIP-3529's refund-cap/clear-refund reduction and EIP-3541's 0xEF
	// rejection are enforced in gasSStore/EVM.initNewContract respectively,
	// not as a jump-table change.
	return tbl
}

// newMergeInstructionSet implements EIP-4399 (Paris/the Merge): 0x44 stops
// reporting PoW block difficulty and instead serves the beacon chain's
// most recent RANDAO output, renamed PREVRANDAO at the opcode level.
func newMergeInstructionSet() JumpTable {
	tbl := newLondonInstructionSet()
	tbl[DIFFICULTY] = &operation{execute: opRandom, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	return tbl
}

func newShanghaiInstructionSet() JumpTable {
	tbl := newMergeInstructionSet()
	tbl[PUSH0] = &operation{execute: opPush0, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[CREATE] = &operation{execute: opCreate, constantGas: params.CreateGas, dynamicGas: gasCreateEip3860, minStack: minStack(3, 1), maxStack: maxStack(3, 1), memorySize: memoryCreate}
	tbl[CREATE2] = &operation{execute: opCreate2, constantGas: params.Create2Gas, dynamicGas: gasCreate2Eip3860, minStack: minStack(4, 1), maxStack: maxStack(4, 1), memorySize: memoryCreate2}
	return tbl
}

func newCancunInstructionSet() JumpTable {
	tbl := newShanghaiInstructionSet()
	tbl[TLOAD] = &operation{execute: opTload, constantGas: params.WarmStorageReadCostEIP2929, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[TSTORE] = &operation{execute: opTstore, constantGas: params.WarmStorageReadCostEIP2929, minStack: minStack(2, 0), maxStack: maxStack(2, 0)}
	tbl[MCOPY] = &operation{execute: opMcopy, constantGas: params.GasFastestStep, dynamicGas: gasMCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryMCopy}
	tbl[BLOBHASH] = &operation{execute: opBlobHash, constantGas: params.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[BLOBBASEFEE] = &operation{execute: opBlobBaseFee, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[SELFDESTRUCT] = &operation{execute: opSelfdestruct6780, constantGas: params.SelfdestructGasEIP150, dynamicGas: gasSelfdestructEIP2929, minStack: minStack(1, 0), maxStack: maxStack(1, 0)}
	return tbl
}

func newPragueInstructionSet() JumpTable {
	tbl := newCancunInstructionSet()
	addEOFInstructions(&tbl)
	return tbl
}

func enableEIP(eip int, table *JumpTable) error {
	switch eip {
	default:
		return params.ErrUnsupportedEIP
	}
}
