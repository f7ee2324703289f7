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

package common

// LeftPadBytes zero-pads b on the left up to length l.
func LeftPadBytes(b []byte, l int) []byte {
	if len(b) >= l {
		return b
	}
	out := make([]byte, l)
	copy(out[l-len(b):], b)
	return out
}

// RightPadBytes zero-pads b on the right up to length l.
func RightPadBytes(b []byte, l int) []byte {
	if len(b) >= l {
		return b
	}
	out := make([]byte, l)
	copy(out, b)
	return out
}

// TrimLeftZeroes returns a slice with all leading zero bytes removed.
func TrimLeftZeroes(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}

// CopyBytes returns an independent copy of b.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// GetData returns size bytes of data starting at offset, zero-padding the
// tail if the slice is too short. Used by CALLDATACOPY/CODECOPY/RETURNDATACOPY
// style reads where the EVM semantics require silent zero-fill rather than
// an error.
func GetData(data []byte, offset, size uint64) []byte {
	if offset > uint64(len(data)) {
		offset = uint64(len(data))
	}
	end := offset + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	return RightPadBytes(data[offset:end], int(size))
}
