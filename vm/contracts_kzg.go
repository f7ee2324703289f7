// Copyright 2023 The go-ethereum Authors
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
	"bytes"
	"crypto/sha256"
	"errors"

	"github.com/coreevm/evm/crypto/kzg4844"
	"github.com/coreevm/evm/params"
)

// blobCommitmentVersionKZG is EIP-4844's versioned-hash version byte.
const blobCommitmentVersionKZG = 0x01

// kzgCommitmentToVersionedHash derives the blob versioned hash a
// transaction's blob_versioned_hashes field carries, from its KZG
// commitment.
func kzgCommitmentToVersionedHash(commitment kzg4844.Commitment) []byte {
	h := sha256.Sum256(commitment[:])
	h[0] = blobCommitmentVersionKZG
	return h[:]
}

// pointEvaluationReturnValue is FIELD_ELEMENTS_PER_BLOB || BLS_MODULUS,
// the fixed output EIP-4844's point evaluation precompile returns on
// success, letting callers sanity-check the precompile ran at all.
var pointEvaluationReturnValue = func() []byte {
	out := make([]byte, 64)
	out[30], out[31] = 0x10, 0x00 // FIELD_ELEMENTS_PER_BLOB = 4096, big-endian
	copy(out[32:], fromHex("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"))
	return out
}()

func fromHex(s string) []byte {
	b := make([]byte, len(s)/2)
	for i := range b {
		hi := hexNibble(s[i*2])
		lo := hexNibble(s[i*2+1])
		b[i] = hi<<4 | lo
	}
	return b
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

var errKzgInvalidInput = errors.New("kzg: invalid point evaluation input")

// kzgPointEvaluation implements the POINT EVALUATION precompile at address
// 0x0a (EIP-4844): proves a blob's KZG commitment opens to y at z.
type kzgPointEvaluation struct{}

func (c *kzgPointEvaluation) RequiredGas(input []byte) uint64 { return params.KzgPointEvaluationGas }

func (c *kzgPointEvaluation) Run(input []byte) ([]byte, error) {
	if len(input) != 192 {
		return nil, errKzgInvalidInput
	}
	var (
		versionedHash = input[:32]
		point         kzg4844.Point
		claim         kzg4844.Claim
		commitment    kzg4844.Commitment
		proof         kzg4844.Proof
	)
	copy(point[:], input[32:64])
	copy(claim[:], input[64:96])
	copy(commitment[:], input[96:144])
	copy(proof[:], input[144:192])

	if !bytes.Equal(versionedHash, kzgCommitmentToVersionedHash(commitment)) {
		return nil, errKzgInvalidInput
	}
	ok, err := kzg4844.VerifyProof(commitment, point, claim, proof)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errKzgInvalidInput
	}
	return pointEvaluationReturnValue, nil
}
