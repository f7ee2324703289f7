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
	"github.com/coreevm/evm/params"
	"github.com/holiman/uint256"
)

// gasFunc computes an opcode's dynamic gas cost (beyond its constantGas),
// given the already-computed memory size the op will expand to. Grounded
// on the shape of other_examples' gas_table.go, extended with the
// EIP-2929/3529 warm/cold model spec.md §4.3.3/§4.3.5 requires (the
// retrieved file predates Berlin).
type gasFunc func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error)

func addGas(a, b uint64) (uint64, error) {
	c := a + b
	if c < a {
		return 0, ErrGasUintOverflow
	}
	return c, nil
}

func mulGas(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/a != b {
		return 0, ErrGasUintOverflow
	}
	return c, nil
}

// memoryGasCost computes the quadratic memory-expansion fee for growing
// active memory to newMemSize bytes, per spec.md §4.2's formula.
func memoryGasCost(mem *Memory, newMemSize uint64) (uint64, error) {
	if newMemSize == 0 {
		return 0, nil
	}
	if newMemSize > 0x1FFFFFFFE0 {
		return 0, ErrGasUintOverflow
	}
	newMemSizeWords := toWordSize(newMemSize)
	newMemSize = newMemSizeWords * 32

	if newMemSize > uint64(mem.Len()) {
		square := newMemSizeWords * newMemSizeWords
		linCoef := newMemSizeWords * params.MemoryGas
		quadCoef := square / params.QuadCoeffDiv
		newTotalFee := linCoef + quadCoef

		fee := newTotalFee - mem.lastGasCost
		mem.lastGasCost = newTotalFee
		return fee, nil
	}
	return 0, nil
}

func toWordSize(size uint64) uint64 {
	if size > 0xFFFFFFFFFFFFFFFF-31 {
		return 0xFFFFFFFFFFFFFFFF/32 + 1
	}
	return (size + 31) / 32
}

// pureMemoryGascost is shared by opcodes whose only dynamic cost is memory
// expansion (RETURN, REVERT, MLOAD, MSTORE, MSTORE8).
func pureMemoryGascost(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

func memoryCopierGas(stackpos int) gasFunc {
	return func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		gas, err := memoryGasCost(mem, memorySize)
		if err != nil {
			return 0, err
		}
		words, overflow := stack.Back(stackpos).Uint64WithOverflow()
		if overflow {
			return 0, ErrGasUintOverflow
		}
		wordGas, err := mulGas(toWordSize(words), params.Keccak256WordGas)
		if err != nil {
			return 0, err
		}
		return addGas(gas, wordGas)
	}
}

var (
	gasCallDataCopy   = memoryCopierGas(2)
	gasCodeCopy       = memoryCopierGas(2)
	gasExtCodeCopyLen = memoryCopierGas(3)
	gasReturnDataCopy = memoryCopierGas(2)
	gasMCopy          = memoryCopierGas(2)
)

func gasKeccak256(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := stack.Back(1).Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	wordGas, err := mulGas(toWordSize(words), params.Keccak256WordGas)
	if err != nil {
		return 0, err
	}
	return addGas(gas, wordGas)
}

func makeGasLog(n uint64) gasFunc {
	return func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		requestedSize, overflow := stack.Back(1).Uint64WithOverflow()
		if overflow {
			return 0, ErrGasUintOverflow
		}
		gas, err := memoryGasCost(mem, memorySize)
		if err != nil {
			return 0, err
		}
		topicGas, err := mulGas(params.LogTopicGas, n)
		if err != nil {
			return 0, err
		}
		if gas, err = addGas(gas, topicGas); err != nil {
			return 0, err
		}
		byteGas, err := mulGas(requestedSize, params.LogDataGas)
		if err != nil {
			return 0, err
		}
		return addGas(gas, byteGas)
	}
}

// gasSLoad implements spec.md §4.3.3's SLOAD cold/warm split.
func gasSLoad(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	loc := stack.peek()
	slot := common.Hash(loc.Bytes32())
	if _, slotPresent := evm.StateDB.SlotInAccessList(contract.Address(), slot); !slotPresent {
		evm.StateDB.AddSlotToAccessList(contract.Address(), slot)
		return params.ColdSloadCostEIP2929, nil
	}
	return params.WarmStorageReadCostEIP2929, nil
}

// gasSStore implements the net-metered EIP-2200/EIP-2929/EIP-3529 schedule
// from spec.md §4.3.3.
func gasSStore(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	if contract.Gas <= params.SstoreSentryGasEIP2200 {
		return 0, ErrOutOfGas
	}
	var (
		y, x    = stack.Back(1), stack.peek()
		slot    = common.Hash(x.Bytes32())
		current = evm.StateDB.GetState(contract.Address(), slot)
		cost    uint64
	)
	if _, slotPresent := evm.StateDB.SlotInAccessList(contract.Address(), slot); !slotPresent {
		cost = params.ColdSloadCostEIP2929
		evm.StateDB.AddSlotToAccessList(contract.Address(), slot)
	}
	value := common.Hash(y.Bytes32())

	if current == value {
		return cost + params.WarmStorageReadCostEIP2929, nil
	}
	original := evm.StateDB.GetCommittedState(contract.Address(), slot)
	if original == current {
		if original.IsZero() {
			return cost + params.SstoreSetGas, nil
		}
		if value.IsZero() {
			evm.StateDB.AddRefund(params.SstoreClearsScheduleRefundEIP3529)
		}
		return cost + (params.SstoreResetGas - params.ColdSloadCostEIP2929), nil
	}
	if !original.IsZero() {
		if current.IsZero() {
			evm.StateDB.SubRefund(params.SstoreClearsScheduleRefundEIP3529)
		}
		if value.IsZero() {
			evm.StateDB.AddRefund(params.SstoreClearsScheduleRefundEIP3529)
		}
	}
	if original == value {
		if original.IsZero() {
			evm.StateDB.AddRefund(params.SstoreSetGas - params.WarmStorageReadCostEIP2929)
		} else {
			evm.StateDB.AddRefund((params.SstoreResetGas - params.ColdSloadCostEIP2929) - params.WarmStorageReadCostEIP2929)
		}
	}
	return cost + params.WarmStorageReadCostEIP2929, nil
}

func gasExtCodeCopyEIP2929(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := gasExtCodeCopyLen(evm, contract, stack, mem, memorySize)
	if err != nil {
		return 0, err
	}
	addr := common.Address(stack.peek().Bytes20())
	if warm := evm.StateDB.AddAddressToAccessList(addr); !warm {
		return gas + params.ColdAccountAccessCostEIP2929 - params.WarmStorageReadCostEIP2929, nil
	}
	return gas, nil
}

// gasEip2929AccountCheck covers BALANCE/EXTCODESIZE/EXTCODEHASH: the top
// stack item is the address being touched.
func gasEip2929AccountCheck(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := common.Address(stack.peek().Bytes20())
	if warm := evm.StateDB.AddAddressToAccessList(addr); !warm {
		return params.ColdAccountAccessCostEIP2929 - params.WarmStorageReadCostEIP2929, nil
	}
	return 0, nil
}

func gasSelfdestructEIP2929(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	var gas uint64
	addr := common.Address(stack.peek().Bytes20())
	if warm := evm.StateDB.AddAddressToAccessList(addr); !warm {
		gas = params.ColdAccountAccessCostEIP2929
	}
	if !evm.StateDB.HasSelfDestructed(contract.Address()) && evm.StateDB.Empty(addr) && !evm.StateDB.GetBalance(contract.Address()).IsZero() {
		gas += params.CreateBySelfdestructGas
	}
	return gas, nil
}

func gasExp(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	expByteLen := uint64((stack.Back(1).BitLen() + 7) / 8)
	var expByteCost uint64
	if evm.chainRules.IsEIP158 {
		expByteCost = params.ExpByteEIP158
	} else {
		expByteCost = params.ExpByteFrontier
	}
	gas, err := mulGas(expByteLen, expByteCost)
	if err != nil {
		return 0, err
	}
	return addGas(gas, params.ExpGas)
}

func gasCreate(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

func gasCreateEip3860(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	size, overflow := stack.Back(2).Uint64WithOverflow()
	if overflow || size > params.MaxInitCodeSize {
		return 0, ErrGasUintOverflow
	}
	moreGas := params.InitCodeWordGas * toWordSize(size)
	return addGas(gas, moreGas)
}

func gasCreate2Eip3860(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := gasCreateEip3860(evm, contract, stack, mem, memorySize)
	if err != nil {
		return 0, err
	}
	size, overflow := stack.Back(2).Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	hashGas, err := mulGas(toWordSize(size), params.Keccak256WordGas)
	if err != nil {
		return 0, err
	}
	return addGas(gas, hashGas)
}

// gasSStoreFrontier is the pre-Istanbul SSTORE cost: a flat set/reset fee
// plus an unconditional refund when a slot is cleared. Constantinople's
// EIP-1283 net-metering was reverted by Petersburg before it reached
// mainnet, so both forks keep this cost in the fork tables.
func gasSStoreFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	value := stack.Back(1)
	slot := common.Hash(stack.peek().Bytes32())
	current := evm.StateDB.GetState(contract.Address(), slot)

	if current.IsZero() && !value.IsZero() {
		return params.SstoreSetGas, nil
	} else if !current.IsZero() && value.IsZero() {
		evm.StateDB.AddRefund(params.SstoreRefundGas)
		return params.SstoreResetGas, nil
	}
	return params.SstoreResetGas, nil
}

// gasSStoreEIP2200 implements EIP-2200's net-metered SSTORE (Istanbul),
// before EIP-2929 folded in cold/warm access-list accounting.
func gasSStoreEIP2200(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	if contract.Gas <= params.SstoreSentryGasEIP2200 {
		return 0, ErrOutOfGas
	}
	y, x := stack.Back(1), stack.peek()
	slot := common.Hash(x.Bytes32())
	current := evm.StateDB.GetState(contract.Address(), slot)
	value := common.Hash(y.Bytes32())

	if current == value {
		return params.SloadGasEIP2200, nil
	}
	original := evm.StateDB.GetCommittedState(contract.Address(), slot)
	if original == current {
		if original.IsZero() {
			return params.SstoreSetGas, nil
		}
		if value.IsZero() {
			evm.StateDB.AddRefund(params.SstoreRefundGas)
		}
		return params.SstoreResetGas, nil
	}
	if !original.IsZero() {
		if current.IsZero() {
			evm.StateDB.SubRefund(params.SstoreRefundGas)
		}
		if value.IsZero() {
			evm.StateDB.AddRefund(params.SstoreRefundGas)
		}
	}
	if original == value {
		if original.IsZero() {
			evm.StateDB.AddRefund(params.SstoreSetGas - params.SloadGasEIP2200)
		} else {
			evm.StateDB.AddRefund(params.SstoreResetGas - params.SloadGasEIP2200)
		}
	}
	return params.SloadGasEIP2200, nil
}

// gasCreate2Frontier is CREATE2's cost before EIP-3860 added an initcode
// size cap and charge: memory expansion plus the initcode hashing fee.
func gasCreate2Frontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	size, overflow := stack.Back(2).Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	hashGas, err := mulGas(toWordSize(size), params.Keccak256WordGas)
	if err != nil {
		return 0, err
	}
	return addGas(gas, hashGas)
}

// gasCallFrontier/gasCallCodeFrontier/gasDelegateCallOrStaticCallFrontier
// price calls before EIP-150 introduced the 63/64 forwarding cap: every
// unit of remaining gas the caller requests is available to forward.
func gasCallFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	transfersValue := !stack.Back(2).IsZero()
	addr := common.Address(stack.Back(1).Bytes20())

	var gas uint64
	if transfersValue && evm.StateDB.Empty(addr) {
		gas += params.CallNewAccountGas
	}
	if transfersValue {
		gas += params.CallValueTransferGas
	}
	memGas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	gas, err = addGas(gas, memGas)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = stackBackGas(stack.Back(0))
	return addGas(gas, evm.callGasTemp)
}

func gasCallCodeFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	var gas uint64
	if !stack.Back(2).IsZero() {
		gas += params.CallValueTransferGas
	}
	memGas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	gas, err = addGas(gas, memGas)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = stackBackGas(stack.Back(0))
	return addGas(gas, evm.callGasTemp)
}

func gasDelegateCallOrStaticCallFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = stackBackGas(stack.Back(0))
	return addGas(gas, evm.callGasTemp)
}

// gasCallEIP150/gasCallCodeEIP150/gasDelegateCallOrStaticCallEIP150 apply
// the same fee schedule as their Frontier counterparts but cap the gas
// forwarded to a child call via the 63/64 rule.
func gasCallEIP150(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	transfersValue := !stack.Back(2).IsZero()
	addr := common.Address(stack.Back(1).Bytes20())

	var gas uint64
	if transfersValue && evm.StateDB.Empty(addr) {
		gas += params.CallNewAccountGas
	}
	if transfersValue {
		gas += params.CallValueTransferGas
	}
	memGas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	gas, err = addGas(gas, memGas)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = callGasEIP150(contract.Gas, gas, stackBackGas(stack.Back(0)))
	return addGas(gas, evm.callGasTemp)
}

func gasCallCodeEIP150(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	var gas uint64
	if !stack.Back(2).IsZero() {
		gas += params.CallValueTransferGas
	}
	memGas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	gas, err = addGas(gas, memGas)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = callGasEIP150(contract.Gas, gas, stackBackGas(stack.Back(0)))
	return addGas(gas, evm.callGasTemp)
}

func gasDelegateCallOrStaticCallEIP150(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = callGasEIP150(contract.Gas, gas, stackBackGas(stack.Back(0)))
	return addGas(gas, evm.callGasTemp)
}

// callGasEIP150 implements the "all-but-one-64th" rule (spec.md §4.3.5
// step 4): the maximum gas that may be forwarded to a child call.
func callGasEIP150(availableGas, base, callCost uint64) uint64 {
	if availableGas < base {
		return 0
	}
	availableGas -= base
	gas := availableGas - availableGas/64
	if gas < callCost || callCost == 0 {
		return gas
	}
	return callCost
}

func stackBackGas(v *uint256.Int) uint64 {
	g, overflow := v.Uint64WithOverflow()
	if overflow {
		return 0xFFFFFFFFFFFFFFFF
	}
	return g
}

func gasCall(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	transfersValue := !stack.Back(2).IsZero()
	addr := common.Address(stack.Back(1).Bytes20())

	var gas uint64
	if warm := evm.StateDB.AddAddressToAccessList(addr); !warm {
		gas += params.ColdAccountAccessCostEIP2929
	} else {
		gas += params.WarmStorageReadCostEIP2929
	}
	if transfersValue && evm.StateDB.Empty(addr) {
		gas += params.CallNewAccountGas
	}
	if transfersValue {
		gas += params.CallValueTransferGas
	}
	memGas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	gas, err = addGas(gas, memGas)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = callGasEIP150(contract.Gas, gas, stackBackGas(stack.Back(0)))
	return addGas(gas, evm.callGasTemp)
}

func gasCallCode(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := common.Address(stack.Back(1).Bytes20())
	var gas uint64
	if warm := evm.StateDB.AddAddressToAccessList(addr); !warm {
		gas += params.ColdAccountAccessCostEIP2929
	} else {
		gas += params.WarmStorageReadCostEIP2929
	}
	if !stack.Back(2).IsZero() {
		gas += params.CallValueTransferGas
	}
	memGas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	gas, err = addGas(gas, memGas)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = callGasEIP150(contract.Gas, gas, stackBackGas(stack.Back(0)))
	return addGas(gas, evm.callGasTemp)
}

func gasDelegateCallOrStaticCall(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := common.Address(stack.Back(1).Bytes20())
	var gas uint64
	if warm := evm.StateDB.AddAddressToAccessList(addr); !warm {
		gas += params.ColdAccountAccessCostEIP2929
	} else {
		gas += params.WarmStorageReadCostEIP2929
	}
	memGas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	gas, err = addGas(gas, memGas)
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = callGasEIP150(contract.Gas, gas, stackBackGas(stack.Back(0)))
	return addGas(gas, evm.callGasTemp)
}
