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
	"github.com/holiman/uint256"
)

// Memory is the byte-addressed, word-granular, lazily zero-filled memory
// region described in spec.md §3/§4.2. Its active length only ever grows
// within a frame's lifetime; growth is what the gas calculator's quadratic
// memory-expansion cost is charged against.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

func NewMemory() *Memory { return &Memory{} }

// Set writes value into the memory at offset, growing the backing store if
// necessary. Callers are expected to have already charged for the
// resulting size via the gas calculator.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		panic("invalid memory: store too small")
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes a left-padded 32-byte big-endian encoding of val at offset.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	if offset+32 > uint64(len(m.store)) {
		panic("invalid memory: store too small")
	}
	b32 := val.Bytes32()
	copy(m.store[offset:offset+32], b32[:])
}

// Resize grows the backing store to size bytes, zero-filling the new
// region (Go zero-values new slice elements, so this is the natural
// realization of spec.md's "conceptually infinite and zero-filled" memory).
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) < size {
		m.store = append(m.store, make([]byte, size-uint64(len(m.store)))...)
	}
}

// GetCopy returns an independent copy of size bytes starting at offset.
func (m *Memory) GetCopy(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		cpy := make([]byte, size)
		copy(cpy, m.store[offset:offset+size])
		return cpy
	}
	return nil
}

// GetPtr returns a slice viewing size bytes starting at offset, aliasing
// the backing store — callers must not retain it across further writes.
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		return m.store[offset : offset+size]
	}
	return nil
}

func (m *Memory) Len() int { return len(m.store) }

func (m *Memory) Data() []byte { return m.store }

// MemoryData implements tracing.OpContext.
func (m *Memory) MemoryData() []byte { return m.store }

// Copy implements the MCOPY opcode's overlap-safe byte copy.
func (m *Memory) Copy(dst, src, size uint64) {
	if size == 0 {
		return
	}
	copy(m.store[dst:dst+size], m.store[src:src+size])
}
