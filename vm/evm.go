// Copyright 2014 The go-ethereum Authors
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
	"math/big"
	"sync/atomic"

	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/core/tracing"
	"github.com/coreevm/evm/crypto"
	"github.com/coreevm/evm/params"
	"github.com/holiman/uint256"
)

// emptyCodeHash is the Keccak256 of the empty byte string, the CodeHash an
// account with no code carries.
var emptyCodeHash = crypto.Keccak256Hash(nil)

// CanTransferFunc reports whether addr has at least amount of balance.
type CanTransferFunc func(StateDB, common.Address, *uint256.Int) bool

// TransferFunc moves amount of balance from sender to recipient.
type TransferFunc func(StateDB, common.Address, common.Address, *uint256.Int)

// GetHashFunc returns the block hash of the n'th block, for BLOCKHASH.
type GetHashFunc func(uint64) common.Hash

// CanTransfer is the default CanTransferFunc: sufficient balance, nothing
// more. Hosts with their own account model may supply a different one via
// BlockContext.
func CanTransfer(db StateDB, addr common.Address, amount *uint256.Int) bool {
	return db.GetBalance(addr).Cmp(amount) >= 0
}

// Transfer is the default TransferFunc.
func Transfer(db StateDB, sender, recipient common.Address, amount *uint256.Int) {
	db.SubBalance(sender, amount, tracing.BalanceChangeTransfer)
	db.AddBalance(recipient, amount, tracing.BalanceChangeTransfer)
}

// BlockContext carries the block-scoped values an EVM run reads but never
// mutates, per spec.md §3's World/Frame split.
type BlockContext struct {
	CanTransfer CanTransferFunc
	Transfer    TransferFunc
	GetHash     GetHashFunc

	Coinbase    common.Address
	GasLimit    uint64
	BlockNumber *big.Int
	Time        uint64
	Difficulty  *big.Int
	BaseFee     *big.Int
	BlobBaseFee *big.Int
	Random      *common.Hash
}

// TxContext carries the per-transaction values, reset between transactions
// sharing one EVM via SetTxContext.
type TxContext struct {
	Origin     common.Address
	GasPrice   *big.Int
	BlobHashes []common.Hash
	BlobFeeCap *big.Int
}

// EVM ties together state, chain configuration, and one interpreter to
// execute calls and contract creation (spec.md §4.5/§4.6). An EVM is built
// once per block/transaction-batch and reused across the calls within it via
// SetTxContext; it is not safe for concurrent use.
type EVM struct {
	Context BlockContext
	TxContext

	StateDB StateDB

	depth int

	chainConfig *params.ChainConfig
	chainRules  params.Rules

	Config Config

	interpreter *EVMInterpreter

	abort atomic.Bool

	// callGasTemp holds the gas computed by gasCall*'s 63/64 rule, stashed
	// between the dynamicGas pass and the opCall* handler that consumes it —
	// the same two-step dance the teacher's gas_table.go/instructions.go use.
	callGasTemp uint64

	precompiles map[common.Address]PrecompiledContract

	jumpdestCache *AnalysisCache
}

// NewEVM constructs an EVM ready to execute calls against statedb under
// chainConfig, at the block/time described by blockCtx.
func NewEVM(blockCtx BlockContext, statedb StateDB, chainConfig *params.ChainConfig, config Config) *EVM {
	if blockCtx.CanTransfer == nil {
		blockCtx.CanTransfer = CanTransfer
	}
	if blockCtx.Transfer == nil {
		blockCtx.Transfer = Transfer
	}
	evm := &EVM{
		Context:     blockCtx,
		StateDB:     statedb,
		Config:      config,
		chainConfig: chainConfig,
		chainRules:  chainConfig.Rules(blockCtx.BlockNumber, blockCtx.Time),
	}
	evm.precompiles = activePrecompiledContracts(evm.chainRules)
	evm.jumpdestCache = NewAnalysisCache(config.JumpdestAnalysisEntries)
	evm.interpreter = NewEVMInterpreter(evm)
	return evm
}

// SetTxContext resets the per-transaction values for an EVM that will be
// reused across several transactions in the same block.
func (evm *EVM) SetTxContext(txCtx TxContext) {
	evm.TxContext = txCtx
}

// Cancel aborts any in-flight call; safe to call concurrently and more than
// once, mirroring the teacher's abort flag.
func (evm *EVM) Cancel() {
	evm.abort.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (evm *EVM) Cancelled() bool {
	return evm.abort.Load()
}

// Interpreter returns the EVM's interpreter instance.
func (evm *EVM) Interpreter() *EVMInterpreter {
	return evm.interpreter
}

// ChainConfig returns the chain configuration the EVM was built with.
func (evm *EVM) ChainConfig() *params.ChainConfig {
	return evm.chainConfig
}

func (evm *EVM) precompile(addr common.Address) (PrecompiledContract, bool) {
	p, ok := evm.precompiles[addr]
	return p, ok
}

// Call executes the contract at addr, transferring value from caller first.
// Call itself performs the snapshot/rollback on error. All gas is consumed
// on error except ErrExecutionReverted, ErrDepth and ErrInsufficientBalance,
// for which the unused gas is returned.
func (evm *EVM) Call(caller, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if evm.Config.Tracer != nil && evm.Config.Tracer.OnEnter != nil {
		evm.Config.Tracer.OnEnter(evm.depth, byte(CALL), caller, addr, input, gas, value.ToBig())
	}
	if evm.Config.Tracer != nil && evm.Config.Tracer.OnExit != nil {
		defer func(startGas uint64) {
			evm.Config.Tracer.OnExit(evm.depth, ret, startGas-leftOverGas, err, err != nil)
		}(gas)
	}

	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	if !value.IsZero() && !evm.Context.CanTransfer(evm.StateDB, caller, value) {
		return nil, gas, ErrInsufficientBalance
	}
	snapshot := evm.StateDB.Snapshot()
	p, isPrecompile := evm.precompile(addr)

	if !evm.StateDB.Exist(addr) {
		if !isPrecompile && evm.chainRules.IsEIP158 && value.IsZero() {
			return nil, gas, nil
		}
		evm.StateDB.CreateAccount(addr)
	}
	evm.Context.Transfer(evm.StateDB, caller, addr, value)

	if isPrecompile {
		ret, gas, err = RunPrecompiledContract(p, input, gas, evm.Config.Tracer)
	} else {
		code := evm.StateDB.GetCode(addr)
		if len(code) == 0 {
			ret, err = nil, nil
		} else {
			contract := NewContract(caller, addr, value, gas, evm.jumpdestCache)
			defer ReturnContract(contract)
			contract.Code = code
			contract.CodeHash = evm.StateDB.GetCodeHash(addr)
			if HasEOFPrefix(code) {
				contract.Eof, _ = ParseEOF(code)
			}
			ret, err = evm.interpreter.Run(contract, input, false)
			gas = contract.Gas
		}
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			if evm.Config.Tracer != nil && evm.Config.Tracer.OnGasChange != nil {
				evm.Config.Tracer.OnGasChange(gas, 0, tracing.GasChangeCallFailedExecution)
			}
			gas = 0
		}
	}
	return ret, gas, err
}

// CallCode executes addr's code but in the context (storage, balance) of
// caller, used by the teacher-derived CALLCODE opcode.
func (evm *EVM) CallCode(caller, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	if !evm.Context.CanTransfer(evm.StateDB, caller, value) {
		return nil, gas, ErrInsufficientBalance
	}
	snapshot := evm.StateDB.Snapshot()

	if p, isPrecompile := evm.precompile(addr); isPrecompile {
		ret, gas, err = RunPrecompiledContract(p, input, gas, evm.Config.Tracer)
	} else {
		code := evm.StateDB.GetCode(addr)
		contract := NewContract(caller, caller, value, gas, evm.jumpdestCache)
		defer ReturnContract(contract)
		contract.Code = code
		contract.CodeHash = evm.StateDB.GetCodeHash(addr)
		if HasEOFPrefix(code) {
			contract.Eof, _ = ParseEOF(code)
		}
		ret, err = evm.interpreter.Run(contract, input, false)
		gas = contract.Gas
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// DelegateCall executes addr's code with parent's caller/value preserved, in
// parent's own storage context.
func (evm *EVM) DelegateCall(parent *Contract, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	snapshot := evm.StateDB.Snapshot()

	if p, isPrecompile := evm.precompile(addr); isPrecompile {
		ret, gas, err = RunPrecompiledContract(p, input, gas, evm.Config.Tracer)
	} else {
		code := evm.StateDB.GetCode(addr)
		contract := NewContract(parent.caller, parent.address, parent.value, gas, evm.jumpdestCache).AsDelegate(parent)
		defer ReturnContract(contract)
		contract.Code = code
		contract.CodeHash = evm.StateDB.GetCodeHash(addr)
		if HasEOFPrefix(code) {
			contract.Eof, _ = ParseEOF(code)
		}
		ret, err = evm.interpreter.Run(contract, input, false)
		gas = contract.Gas
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// StaticCall executes addr's code with state mutation disallowed.
func (evm *EVM) StaticCall(caller, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	snapshot := evm.StateDB.Snapshot()
	// Touch the target even though no value moves, matching fork behavior
	// tests rely on (stRevertTest/RevertPrecompiledTouchExactOOG-style cases).
	evm.StateDB.AddBalance(addr, new(uint256.Int), tracing.BalanceChangeTransfer)

	if p, isPrecompile := evm.precompile(addr); isPrecompile {
		ret, gas, err = RunPrecompiledContract(p, input, gas, evm.Config.Tracer)
	} else {
		code := evm.StateDB.GetCode(addr)
		contract := NewContract(caller, addr, new(uint256.Int), gas, evm.jumpdestCache)
		defer ReturnContract(contract)
		contract.Code = code
		contract.CodeHash = evm.StateDB.GetCodeHash(addr)
		if HasEOFPrefix(code) {
			contract.Eof, _ = ParseEOF(code)
		}
		ret, err = evm.interpreter.Run(contract, input, true)
		gas = contract.Gas
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			gas = 0
		}
	}
	return ret, gas, err
}

// codeAndHash lazily computes and memoizes the Keccak256 of deployment code,
// since both the address-collision check and CREATE2 derivation need it.
type codeAndHash struct {
	code []byte
	hash common.Hash
	set  bool
}

func (c *codeAndHash) Hash() common.Hash {
	if !c.set {
		c.hash = crypto.Keccak256Hash(c.code)
		c.set = true
	}
	return c.hash
}

// create is the shared body of Create/Create2/EOFCreate: depth/balance
// checks, address-collision checks, nonce bump, value transfer, then running
// the supplied initcode and committing its return value as the new
// account's code.
func (evm *EVM) create(caller common.Address, ch *codeAndHash, gas uint64, value *uint256.Int, address common.Address, typ OpCode) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, common.Address{}, gas, ErrDepth
	}
	if !evm.Context.CanTransfer(evm.StateDB, caller, value) {
		return nil, common.Address{}, gas, ErrInsufficientBalance
	}
	nonce := evm.StateDB.GetNonce(caller)
	if nonce+1 < nonce {
		return nil, common.Address{}, gas, ErrNonceUintOverflow
	}
	evm.StateDB.SetNonce(caller, nonce+1, tracing.NonceChangeContractCreator)

	if evm.chainRules.IsEIP2929 {
		evm.StateDB.AddAddressToAccessList(address)
	}

	contractHash := evm.StateDB.GetCodeHash(address)
	if evm.StateDB.GetNonce(address) != 0 || (contractHash != common.Hash{} && contractHash != emptyCodeHash) {
		return nil, common.Address{}, 0, ErrContractAddressCollision
	}

	snapshot := evm.StateDB.Snapshot()
	if !evm.StateDB.Exist(address) {
		evm.StateDB.CreateAccount(address)
	}
	if evm.chainRules.IsEIP158 {
		evm.StateDB.SetNonce(address, 1, tracing.NonceChangeNewContract)
	}
	evm.Context.Transfer(evm.StateDB, caller, address, value)

	contract := NewContract(caller, address, value, gas, evm.jumpdestCache)
	defer ReturnContract(contract)
	contract.Code = ch.code
	contract.CodeHash = ch.Hash()
	contract.IsDeployment = true

	ret, err = evm.initNewContract(contract, address)
	if err != nil && (evm.chainRules.IsHomestead || err != ErrCodeStoreOutOfGas) {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.UseGas(contract.Gas, evm.Config.Tracer, tracing.GasChangeCallFailedExecution)
		}
	}
	leftOverGas = contract.Gas
	return ret, address, leftOverGas, err
}

// initNewContract runs initcode, validates the resulting deployed code
// against EIP-170/EIP-3541, and commits it as address's code.
func (evm *EVM) initNewContract(contract *Contract, address common.Address) ([]byte, error) {
	ret, err := evm.interpreter.Run(contract, nil, false)
	if err != nil {
		return ret, err
	}
	if evm.chainRules.IsEIP158 && len(ret) > params.MaxCodeSize {
		return ret, ErrMaxCodeSizeExceeded
	}
	if len(ret) >= 1 && ret[0] == 0xEF && evm.chainRules.IsLondon {
		return ret, ErrInvalidCode
	}
	createDataGas := uint64(len(ret)) * params.CreateDataGas
	if !contract.UseGas(createDataGas, evm.Config.Tracer, tracing.GasChangeCallCodeStorage) {
		return ret, ErrCodeStoreOutOfGas
	}
	evm.StateDB.SetCode(address, ret)
	return ret, nil
}

// Create deploys code as initcode, deriving the new contract's address from
// caller's address and current nonce.
func (evm *EVM) Create(caller common.Address, code []byte, gas uint64, value *uint256.Int) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	if uint64(len(code)) > params.MaxInitCodeSize {
		return nil, common.Address{}, gas, ErrMaxInitCodeSizeExceeded
	}
	contractAddr = crypto.CreateAddress(caller, evm.StateDB.GetNonce(caller))
	return evm.create(caller, &codeAndHash{code: code}, gas, value, contractAddr, CREATE)
}

// EOFCreate deploys one of the calling EOF container's subcontainers,
// running its entry section as initcode; the running code signals which
// subcontainer to deploy, and with what auxiliary data, via RETURNCONTRACT.
// It shares Create2's address-derivation rule (EIP-7620), keyed off the
// subcontainer's bytes rather than a flat initcode blob.
func (evm *EVM) EOFCreate(caller common.Address, container *EOFContainer, gas uint64, value, salt *uint256.Int, input []byte) (contractAddr common.Address, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return common.Address{}, gas, ErrDepth
	}
	if !evm.Context.CanTransfer(evm.StateDB, caller, value) {
		return common.Address{}, gas, ErrInsufficientBalance
	}
	containerHash := crypto.Keccak256Hash(container.raw)
	contractAddr = crypto.CreateAddress2(caller, salt.Bytes32(), containerHash.Bytes())

	nonce := evm.StateDB.GetNonce(caller)
	if nonce+1 < nonce {
		return common.Address{}, gas, ErrNonceUintOverflow
	}
	evm.StateDB.SetNonce(caller, nonce+1, tracing.NonceChangeContractCreator)

	if evm.chainRules.IsEIP2929 {
		evm.StateDB.AddAddressToAccessList(contractAddr)
	}
	contractHash := evm.StateDB.GetCodeHash(contractAddr)
	if evm.StateDB.GetNonce(contractAddr) != 0 || (contractHash != common.Hash{} && contractHash != emptyCodeHash) {
		return common.Address{}, 0, ErrContractAddressCollision
	}

	snapshot := evm.StateDB.Snapshot()
	if !evm.StateDB.Exist(contractAddr) {
		evm.StateDB.CreateAccount(contractAddr)
	}
	evm.StateDB.SetNonce(contractAddr, 1, tracing.NonceChangeNewContract)
	evm.Context.Transfer(evm.StateDB, caller, contractAddr, value)

	contract := NewContract(caller, contractAddr, value, gas, evm.jumpdestCache)
	defer ReturnContract(contract)
	contract.Eof = container
	contract.Code = container.Codes[0]
	contract.CodeHash = containerHash
	contract.IsDeployment = true

	_, err = evm.interpreter.Run(contract, input, false)
	if err == nil {
		deployIdx := evm.interpreter.eofPendingContainerIdx
		if deployIdx >= len(container.Containers) {
			err = ErrEOFCreateWithoutContainer
		} else {
			deployed, derr := container.Containers[deployIdx].deployedWithAux(evm.interpreter.eofPendingAuxData)
			if derr != nil {
				err = derr
			} else if uint64(len(deployed)) > params.MaxCodeSize {
				err = ErrMaxCodeSizeExceeded
			} else {
				createDataGas := uint64(len(deployed)) * params.CreateDataGas
				if !contract.UseGas(createDataGas, evm.Config.Tracer, tracing.GasChangeCallCodeStorage) {
					err = ErrCodeStoreOutOfGas
				} else {
					evm.StateDB.SetCode(contractAddr, deployed)
				}
			}
		}
	}
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.UseGas(contract.Gas, evm.Config.Tracer, tracing.GasChangeCallFailedExecution)
		}
	}
	return contractAddr, contract.Gas, err
}

// Create2 deploys code as initcode, deriving the new contract's address from
// caller, salt, and the initcode hash — spec.md §8 scenario 7's determinism
// requirement.
func (evm *EVM) Create2(caller common.Address, code []byte, gas uint64, endowment, salt *uint256.Int) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	if uint64(len(code)) > params.MaxInitCodeSize {
		return nil, common.Address{}, gas, ErrMaxInitCodeSizeExceeded
	}
	ch := &codeAndHash{code: code}
	contractAddr = crypto.CreateAddress2(caller, salt.Bytes32(), ch.Hash().Bytes())
	return evm.create(caller, ch, gas, endowment, contractAddr, CREATE2)
}
