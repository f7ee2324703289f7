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

// eofCodeBitmap marks data-immediate locations in an EOF code section,
// grounded on the teacher's analysis_eof.go (minus the super-instruction
// handling, which has no place in an EOF container — EOF code never
// contains the teacher's fused pseudo-opcodes).
func eofCodeBitmap(code []byte) bitvec {
	bits := make(bitvec, len(code)/8+1+4)
	return eofCodeBitmapInternal(code, bits)
}

func eofCodeBitmapInternal(code, bits bitvec) bitvec {
	for pc := 0; pc < len(code); {
		op := OpCode(code[pc])
		numbits := Immediates(op, code, pc)
		pc++
		if numbits == 0 {
			continue
		}
		p := uint64(pc)
		n := numbits
		if n >= 8 {
			for ; n >= 16; n -= 16 {
				bits.set16(p)
				p += 16
			}
			for ; n >= 8; n -= 8 {
				bits.set8(p)
				p += 8
			}
		}
		switch n {
		case 1:
			bits.set1(p)
		case 2:
			bits.setN(set2BitsMask, p)
		case 3:
			bits.setN(set3BitsMask, p)
		case 4:
			bits.setN(set4BitsMask, p)
		case 5:
			bits.setN(set5BitsMask, p)
		case 6:
			bits.setN(set6BitsMask, p)
		case 7:
			bits.setN(set7BitsMask, p)
		}
		pc += numbits
	}
	return bits
}
