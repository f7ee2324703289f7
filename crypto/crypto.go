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

// Package crypto provides the Keccak-256 hashing and address-derivation
// primitives the interpreter needs (KECCAK256, CREATE/CREATE2, code-hash
// keys for the jumpdest cache).
package crypto

import (
	"hash"

	"github.com/coreevm/evm/common"
	"golang.org/x/crypto/sha3"
)

// NewKeccakState returns a resettable Keccak-256 hash.Hash, letting callers
// reuse a single hasher across many KECCAK256 opcode invocations the way
// the interpreter's hot loop does.
func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// KeccakState extends hash.Hash with a Read method so callers can pull the
// digest out without allocating, mirroring the upstream go-ethereum
// crypto.KeccakState interface used by the teacher's opKeccak256.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := NewKeccakState()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Keccak256Hash returns the Keccak-256 digest of the concatenation of data
// as a common.Hash.
func Keccak256Hash(data ...[]byte) common.Hash {
	return common.BytesToHash(Keccak256(data...))
}

// CreateAddress derives the address of a contract deployed via CREATE:
// keccak(rlp([sender, nonce]))[12:], per spec.md §4.3.6.
func CreateAddress(sender common.Address, nonce uint64) common.Address {
	data := encodeCreateList(sender, nonce)
	return common.BytesToAddress(Keccak256(data)[12:])
}

// CreateAddress2 derives the address of a contract deployed via CREATE2:
// keccak(0xff || sender || salt || keccak(initcode))[12:].
func CreateAddress2(sender common.Address, salt [32]byte, initCodeHash []byte) common.Address {
	data := make([]byte, 0, 1+common.AddressLength+32+32)
	data = append(data, 0xff)
	data = append(data, sender.Bytes()...)
	data = append(data, salt[:]...)
	data = append(data, initCodeHash...)
	return common.BytesToAddress(Keccak256(data)[12:])
}

// encodeCreateList builds a minimal RLP encoding of [sender, nonce], the
// only RLP this package needs (full RLP is out of scope per spec.md §1 —
// transaction/account encoding lives outside the interpreter core).
func encodeCreateList(sender common.Address, nonce uint64) []byte {
	addrRLP := rlpBytes(sender.Bytes())
	nonceRLP := rlpUint64(nonce)
	payload := append(append([]byte{}, addrRLP...), nonceRLP...)
	return append(rlpListHeader(len(payload)), payload...)
}

func rlpBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(rlpStringHeader(len(b)), b...)
}

func rlpStringHeader(size int) []byte {
	if size < 56 {
		return []byte{byte(0x80 + size)}
	}
	return rlpLongHeader(0xb7, size)
}

func rlpListHeader(size int) []byte {
	if size < 56 {
		return []byte{byte(0xc0 + size)}
	}
	return rlpLongHeader(0xf7, size)
}

func rlpLongHeader(base byte, size int) []byte {
	sb := bigEndianMinimal(uint64(size))
	return append([]byte{base + byte(len(sb))}, sb...)
}

func bigEndianMinimal(v uint64) []byte {
	if v == 0 {
		return []byte{}
	}
	var b [8]byte
	n := 0
	for v > 0 {
		b[7-n] = byte(v)
		v >>= 8
		n++
	}
	return b[8-n:]
}

func rlpUint64(v uint64) []byte {
	if v == 0 {
		return []byte{0x80}
	}
	b := bigEndianMinimal(v)
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return rlpBytes(b)
}
