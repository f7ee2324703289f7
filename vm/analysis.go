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
	lru "github.com/hashicorp/golang-lru"

	"github.com/coreevm/evm/common"
)

// bitvec is a bit vector marking, for every byte offset in a piece of code,
// whether that byte is a PUSH-immediate data byte (and thus not a valid
// JUMPDEST / instruction boundary). Grounded on the teacher's
// analysis_legacy.go.
type bitvec []byte

const (
	set2BitsMask = uint16(0b11)
	set3BitsMask = uint16(0b111)
	set4BitsMask = uint16(0b1111)
	set5BitsMask = uint16(0b11111)
	set6BitsMask = uint16(0b111111)
	set7BitsMask = uint16(0b1111111)
)

func (bits bitvec) set1(pos uint64) {
	bits[pos/8] |= 1 << (pos % 8)
}

func (bits bitvec) setN(flag uint16, pos uint64) {
	a := flag << (pos % 8)
	bits[pos/8] |= byte(a)
	if b := byte(a >> 8); b != 0 {
		bits[pos/8+1] = b
	}
}

func (bits bitvec) set8(pos uint64) {
	a := byte(0xFF << (pos % 8))
	bits[pos/8] |= a
	bits[pos/8+1] = ^a
}

func (bits bitvec) set16(pos uint64) {
	a := byte(0xFF << (pos % 8))
	bits[pos/8] |= a
	bits[pos/8+1] = 0xFF
	bits[pos/8+2] = ^a
}

// codeSegment reports whether pos is an instruction boundary (not a PUSH
// immediate byte).
func (bits bitvec) codeSegment(pos uint64) bool {
	return ((bits[pos/8] >> (pos % 8)) & 1) == 0
}

// codeBitmap scans legacy (non-EOF) code once, marking PUSH-immediate
// bytes, per spec.md §4.3.1.
func codeBitmap(code []byte) bitvec {
	bits := make(bitvec, len(code)/8+1+4)
	return codeBitmapInternal(code, bits)
}

func codeBitmapInternal(code, bits bitvec) bitvec {
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])
		pc++
		if !op.IsPush() {
			continue
		}
		numbits := op.PushSize()
		if numbits >= 8 {
			for ; numbits >= 16; numbits -= 16 {
				bits.set16(pc)
				pc += 16
			}
			for ; numbits >= 8; numbits -= 8 {
				bits.set8(pc)
				pc += 8
			}
		}
		switch numbits {
		case 1:
			bits.set1(pc)
			pc++
		case 2:
			bits.setN(set2BitsMask, pc)
			pc += 2
		case 3:
			bits.setN(set3BitsMask, pc)
			pc += 3
		case 4:
			bits.setN(set4BitsMask, pc)
			pc += 4
		case 5:
			bits.setN(set5BitsMask, pc)
			pc += 5
		case 6:
			bits.setN(set6BitsMask, pc)
			pc += 6
		case 7:
			bits.setN(set7BitsMask, pc)
			pc += 7
		}
	}
	return bits
}

// AnalysisCache is a content-addressed (by code hash) LRU cache of jumpdest
// bitmaps, shared across transactions. It is bounded by entry count, not by
// the byte weight of the cached bitmaps (see NewAnalysisCache).
// hashicorp/golang-lru already serializes Get/Add internally.
type AnalysisCache struct {
	cache *lru.Cache
}

// NewAnalysisCache builds a cache holding up to maxEntries jumpdest bitmaps.
// spec.md's "jumpdest_cache_weight_bytes" host knob is approximated here by
// an entry count; callers that need a byte-weight bound can size maxEntries
// from an average contract size estimate.
func NewAnalysisCache(maxEntries int) *AnalysisCache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	c, _ := lru.New(maxEntries)
	return &AnalysisCache{cache: c}
}

func (a *AnalysisCache) get(codeHash common.Hash) (bitvec, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.cache.Get(codeHash)
	if !ok {
		return nil, false
	}
	return v.(bitvec), true
}

func (a *AnalysisCache) add(codeHash common.Hash, bits bitvec) {
	if a == nil {
		return
	}
	a.cache.Add(codeHash, bits)
}
