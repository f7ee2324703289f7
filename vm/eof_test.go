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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildEOFContainer assembles a single EOF v1 container's raw bytes from
// its type entries and code bodies, the same header layout ParseEOF reads,
// so validation tests can construct containers without hand-counted hex.
func buildEOFContainer(types []FunctionMetadata, codes [][]byte) []byte {
	var buf []byte
	buf = append(buf, 0xEF, 0x00, eofVersion1)
	buf = append(buf, kindTypes)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(types)*4))
	buf = append(buf, kindCode)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(codes)))
	for _, c := range codes {
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(c)))
	}
	buf = append(buf, kindData)
	buf = binary.BigEndian.AppendUint16(buf, 0)
	buf = append(buf, eofTerminatorByte)
	for _, fm := range types {
		buf = append(buf, fm.Input, fm.Output)
		buf = binary.BigEndian.AppendUint16(buf, fm.MaxStackHeight)
	}
	for _, c := range codes {
		buf = append(buf, c...)
	}
	return buf
}

func TestValidateEOFCodeAcceptsMinimalContainer(t *testing.T) {
	raw := buildEOFContainer(
		[]FunctionMetadata{{Input: 0, Output: 0, MaxStackHeight: 0}},
		[][]byte{{byte(STOP)}},
	)
	c, err := ParseEOF(raw)
	require.NoError(t, err)
	require.NoError(t, ValidateEOFCode(c))
}

// A section that pushes past its declared MaxStackHeight must be rejected
// even though every jump target and opcode in it is individually valid.
func TestValidateEOFCodeRejectsStackOverflow(t *testing.T) {
	code := []byte{byte(PUSH1), 0x01, byte(STOP)}
	raw := buildEOFContainer(
		[]FunctionMetadata{{Input: 0, Output: 0, MaxStackHeight: 0}},
		[][]byte{code},
	)
	c, err := ParseEOF(raw)
	require.NoError(t, err)
	err = ValidateEOFCode(c)
	require.ErrorIs(t, err, ErrEOFStackOverflow)
}

// CALLF into a section whose declared Input exceeds what the caller has
// on its stack must fail before the callee is ever reached.
func TestValidateEOFCodeRejectsCallfArityMismatch(t *testing.T) {
	callerCode := []byte{byte(CALLF), 0x00, 0x01, byte(STOP)}
	calleeCode := []byte{byte(RETF)}
	raw := buildEOFContainer(
		[]FunctionMetadata{
			{Input: 0, Output: 0, MaxStackHeight: 0},
			{Input: 1, Output: 0, MaxStackHeight: 1},
		},
		[][]byte{callerCode, calleeCode},
	)
	c, err := ParseEOF(raw)
	require.NoError(t, err)
	err = ValidateEOFCode(c)
	require.ErrorIs(t, err, ErrEOFStackUnderflow)
}

// A CALLF that supplies exactly the callee's declared Input, and whose
// caller section pre-declares enough MaxStackHeight to receive the
// callee's Output back, must validate cleanly.
func TestValidateEOFCodeAcceptsCallfArityMatch(t *testing.T) {
	callerCode := []byte{byte(PUSH1), 0x01, byte(CALLF), 0x00, 0x01, byte(POP), byte(STOP)}
	calleeCode := []byte{byte(RETF)}
	raw := buildEOFContainer(
		[]FunctionMetadata{
			{Input: 0, Output: 0, MaxStackHeight: 1},
			{Input: 1, Output: 1, MaxStackHeight: 1},
		},
		[][]byte{callerCode, calleeCode},
	)
	c, err := ParseEOF(raw)
	require.NoError(t, err)
	require.NoError(t, ValidateEOFCode(c))
}

// RJUMPV's vector must be validated the same way RJUMP/RJUMPI's single
// target is: a target landing outside the section is rejected.
func TestValidateEOFCodeRejectsRjumpvOutOfBounds(t *testing.T) {
	// RJUMPV with a 1-entry table whose offset jumps past the section end.
	code := []byte{byte(PUSH1), 0x00, byte(RJUMPV), 0x01, 0x7F, 0xFF, byte(STOP)}
	raw := buildEOFContainer(
		[]FunctionMetadata{{Input: 0, Output: 0, MaxStackHeight: 1}},
		[][]byte{code},
	)
	c, err := ParseEOF(raw)
	require.NoError(t, err)
	err = ValidateEOFCode(c)
	require.ErrorIs(t, err, ErrEOFRjumpvTargetOutOfBounds)
}

// A code section that no CALLF/JUMPF chain starting at section 0 reaches
// must be rejected as unreachable, even though its own code is valid.
func TestValidateEOFCodeUnreachableSection(t *testing.T) {
	section0 := []byte{byte(STOP)}
	section1 := []byte{byte(RETF)}
	raw := buildEOFContainer(
		[]FunctionMetadata{
			{Input: 0, Output: 0, MaxStackHeight: 0},
			{Input: 0, Output: 0, MaxStackHeight: 0},
		},
		[][]byte{section0, section1},
	)
	c, err := ParseEOF(raw)
	require.NoError(t, err)
	err = ValidateEOFCode(c)
	require.ErrorIs(t, err, ErrEOFUnreachableCodeSection)
}
