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

// Package common holds the primitive value types (addresses, hashes) shared
// across the interpreter, state and precompile packages.
package common

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash is a 32 byte word, used for storage keys/values, code hashes and
// block hashes.
type Hash [HashLength]byte

func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

func BigToHash(b *big.Int) Hash { return BytesToHash(b.Bytes()) }

func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-len(h):]
	}
	copy(h[len(h)-len(b):], b)
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Big() *big.Int { return new(big.Int).SetBytes(h[:]) }

func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) IsZero() bool { return h == (Hash{}) }

func (h Hash) Cmp(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Address is a 20 byte Ethereum-style account address.
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func HexToAddress(s string) Address { return BytesToAddress(FromHex(s)) }

func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-len(a):]
	}
	copy(a[len(a)-len(b):], b)
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Big() *big.Int { return new(big.Int).SetBytes(a[:]) }

func (a Address) Hash() Hash { return BytesToHash(a[:]) }

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) IsZero() bool { return a == (Address{}) }

// FromHex decodes a 0x-prefixed (or bare) hex string. An odd-length string
// is left-padded with a "0" nibble, so its first nibble becomes the low
// half of the first byte; invalid hex yields nil.
func FromHex(s string) []byte {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// Hex2Bytes decodes a non-0x-prefixed hex string; panics are avoided by
// returning nil on error since callers already treat nil as "no data".
func Hex2Bytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

func Bytes2Hex(b []byte) string { return hex.EncodeToString(b) }

// StorageKey pairs an address with a storage slot, used as an access-list
// and warm-set map key throughout the vm and state packages.
type StorageKey struct {
	Address Address
	Slot    Hash
}

func (s StorageKey) String() string {
	return fmt.Sprintf("%s/%s", s.Address, s.Slot)
}
