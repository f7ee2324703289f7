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

package params

// Gas costs, named and grouped the way upstream go-ethereum's
// params/protocol_params.go does, extended with the EIP-2929/3529/3860
// constants spec.md requires that predate the teacher's retrieved (pre-Berlin)
// gas table.
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20

	Keccak256Gas     uint64 = 30
	Keccak256WordGas uint64 = 6

	InitCodeWordGas uint64 = 2

	SstoreSetGas       uint64 = 20000
	SstoreResetGas      uint64 = 5000
	SstoreRefundGas     uint64 = 15000
	SstoreClearsScheduleRefundEIP3529 uint64 = 4800
	SstoreSentryGasEIP2200 uint64 = 2300

	ColdAccountAccessCostEIP2929 uint64 = 2600
	ColdSloadCostEIP2929         uint64 = 2100
	WarmStorageReadCostEIP2929   uint64 = 100

	JumpdestGas uint64 = 1

	LogGas      uint64 = 375
	LogTopicGas uint64 = 375
	LogDataGas  uint64 = 8

	CreateGas          uint64 = 32000
	CreateDataGas       uint64 = 200
	Create2Gas          uint64 = 32000
	CallCreateDepth     uint64 = 1024
	ExpGas              uint64 = 10
	ExpByteFrontier     uint64 = 10
	ExpByteEIP158       uint64 = 50
	SelfdestructRefundGas uint64 = 24000
	MemoryGas           uint64 = 3
	QuadCoeffDiv        uint64 = 512

	CallStipend uint64 = 2300

	CallValueTransferGas uint64 = 9000
	CallNewAccountGas    uint64 = 25000

	CallGasFrontier        uint64 = 40
	CallGasEIP150          uint64 = 700
	BalanceGasFrontier     uint64 = 20
	BalanceGasEIP150       uint64 = 400
	BalanceGasEIP1884      uint64 = 700
	ExtcodeSizeGasFrontier uint64 = 20
	ExtcodeSizeGasEIP150   uint64 = 700
	ExtcodeCopyBaseFrontier uint64 = 20
	ExtcodeCopyBaseEIP150   uint64 = 700
	ExtcodeHashGasConstantinople uint64 = 400
	ExtcodeHashGasEIP1884        uint64 = 700
	SloadGasFrontier    uint64 = 50
	SloadGasEIP150      uint64 = 200
	SloadGasEIP1884     uint64 = 800
	SloadGasEIP2200     uint64 = 800

	SelfdestructGasEIP150 uint64 = 5000
	CreateBySelfdestructGas uint64 = 25000

	MaxCodeSize     = 24576
	MaxInitCodeSize = 2 * MaxCodeSize

	TxGas            uint64 = 21000
	TxGasContractCreation uint64 = 53000

	RefundQuotient        uint64 = 2
	RefundQuotientEIP3529 uint64 = 5

	// EOF limits (spec.md §4.8).
	MaxCodeSections      = 1024
	MaxContainerSections = 256
	MaxStackHeight        = 1023
	MaxInputItems         = 127
	MaxOutputItems        = 127

	// StackLimit is the maximum operand stack depth (spec.md §3).
	StackLimit = 1024

	// Precompile gas schedules (spec.md §4.4), named as upstream
	// go-ethereum's params/protocol_params.go does.
	Sha256BaseGas       uint64 = 60
	Sha256PerWordGas    uint64 = 12
	Ripemd160BaseGas    uint64 = 600
	Ripemd160PerWordGas uint64 = 120
	IdentityBaseGas     uint64 = 15
	IdentityPerWordGas  uint64 = 3

	Bn256AddGas                 uint64 = 150
	Bn256AddGasByzantium        uint64 = 500
	Bn256ScalarMulGas            uint64 = 6000
	Bn256ScalarMulGasByzantium   uint64 = 40000
	Bn256PairingBaseGas          uint64 = 45000
	Bn256PairingBaseGasByzantium uint64 = 100000
	Bn256PairingPerPointGas            uint64 = 34000
	Bn256PairingPerPointGasByzantium   uint64 = 80000

	Blake2FPerRoundGas uint64 = 1

	KzgPointEvaluationGas uint64 = 50000

	Bls12381G1AddGas       uint64 = 375
	Bls12381G1MulGas       uint64 = 12000
	Bls12381G2AddGas       uint64 = 600
	Bls12381G2MulGas       uint64 = 22500
	Bls12381MapG1Gas       uint64 = 5500
	Bls12381MapG2Gas       uint64 = 23800
	Bls12381PairingBaseGas uint64 = 37700
	Bls12381PairingPerPairGas uint64 = 32600

	// MinRetainedGasEIP7069 is the gas EXTCALL/EXTDELEGATECALL/EXTSTATICCALL
	// must keep for the caller after the 63/64 forward; MinCalleeGasEIP7069
	// is the minimum the callee must receive, or the call isn't attempted.
	MinRetainedGasEIP7069 uint64 = 5000
	MinCalleeGasEIP7069   uint64 = 5000
)
