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
	"errors"
	"fmt"

	"github.com/coreevm/evm/params"
)

// EOF v1 section kind markers, per spec.md §4.8.
const (
	eofMagic           = 0xEF00
	eofVersion1        = 0x01
	kindTypes          = 0x01
	kindCode           = 0x02
	kindContainer      = 0x03
	kindData           = 0x04
	eofTerminatorByte  = 0x00
)

var (
	ErrEOFInvalidMagic            = errors.New("eof: invalid magic")
	ErrEOFInvalidVersion          = errors.New("eof: invalid version")
	ErrEOFMissingTypeHeader       = errors.New("eof: missing type section header")
	ErrEOFMissingCodeHeader       = errors.New("eof: missing code section header")
	ErrEOFMissingTerminator       = errors.New("eof: missing header terminator")
	ErrEOFInvalidTypeSize         = errors.New("eof: invalid type section size")
	ErrEOFZeroSection             = errors.New("eof: zero-length section")
	ErrEOFTooManyCodeSections     = errors.New("eof: too many code sections")
	ErrEOFTruncatedSection        = errors.New("eof: truncated section body")
	ErrEOFInvalidSectionCount     = errors.New("eof: invalid section count")
	ErrEOFUnreachableCodeSection  = errors.New("eof: unreachable code section")
	ErrEOFInvalidCallfTarget      = errors.New("eof: callf target out of bounds")
	ErrEOFInvalidJumpfTarget      = errors.New("eof: jumpf target out of bounds")
	ErrEOFRjumpvTargetOutOfBounds = errors.New("eof: rjumpv target out of bounds")
	ErrEOFStackUnderflow          = errors.New("eof: stack underflow")
	ErrEOFStackOverflow           = errors.New("eof: stack exceeds declared max height")
	ErrEOFStackHeightMismatch     = errors.New("eof: inconsistent stack height at control-flow join")
	ErrEOFInvalidRetf             = errors.New("eof: retf with wrong stack height for section outputs")
)

// FunctionMetadata is the type-section entry for one code section:
// argument count, return count, and the maximum stack height that section
// can reach, used both for CALLF/RETF arity checks and as an input to the
// stack-validity proof pass (spec.md §4.8).
type FunctionMetadata struct {
	Input, Output  uint8
	MaxStackHeight uint16
}

// EOFContainer is a parsed (not yet stack-validated) EOF v1 container.
type EOFContainer struct {
	Version uint8

	Types      []FunctionMetadata
	Codes      [][]byte
	Containers []*EOFContainer
	Data       []byte

	// DataSize is the declared size of the data section from the header,
	// which may exceed len(Data) for a deploy-time container whose data
	// section is appended later (DATASIZE must reflect the declared size).
	DataSize int

	raw []byte

	// dataSizeOffset is raw's byte offset of the 2-byte data-size field in
	// the header, so EOFCreate can patch it in place once aux data is known.
	dataSizeOffset int
}

// ErrEOFDataSectionTooLarge is returned when RETURNCONTRACT's aux data would
// push a container's data section past the 16-bit size field that encodes it.
var ErrEOFDataSectionTooLarge = errors.New("eof: data section too large")

// deployedWithAux returns c's raw bytes with aux appended to the data
// section and the header's data-size field patched to match, the deploy-time
// assembly EOFCREATE/RETURNCONTRACT perform (spec.md §4.8).
func (c *EOFContainer) deployedWithAux(aux []byte) ([]byte, error) {
	dataStart := len(c.raw) - len(c.Data)
	totalDataLen := len(c.Data) + len(aux)
	if totalDataLen > 0xFFFF {
		return nil, ErrEOFDataSectionTooLarge
	}
	out := make([]byte, dataStart, dataStart+totalDataLen)
	copy(out, c.raw[:dataStart])
	binary.BigEndian.PutUint16(out[c.dataSizeOffset:], uint16(totalDataLen))
	out = append(out, c.Data...)
	out = append(out, aux...)
	return out, nil
}

// HasEOFPrefix reports whether code begins with the EOF magic.
func HasEOFPrefix(code []byte) bool {
	return len(code) >= 2 && code[0] == 0xEF && code[1] == 0x00
}

// ParseEOF parses (and structurally validates) an EOF v1 container per
// spec.md §4.8. It does not run the stack-height abstract interpretation
// pass; call ValidateEOFCode for that.
func ParseEOF(code []byte) (*EOFContainer, error) {
	if len(code) < 2 || binary.BigEndian.Uint16(code[0:2]) != eofMagic {
		return nil, ErrEOFInvalidMagic
	}
	if len(code) < 3 || code[2] != eofVersion1 {
		return nil, ErrEOFInvalidVersion
	}
	pos := 3
	if pos >= len(code) || code[pos] != kindTypes {
		return nil, ErrEOFMissingTypeHeader
	}
	pos++
	if pos+2 > len(code) {
		return nil, ErrEOFTruncatedSection
	}
	typesSize := int(binary.BigEndian.Uint16(code[pos:]))
	pos += 2
	if typesSize == 0 || typesSize%4 != 0 {
		return nil, ErrEOFInvalidTypeSize
	}

	if pos >= len(code) || code[pos] != kindCode {
		return nil, ErrEOFMissingCodeHeader
	}
	pos++
	if pos+2 > len(code) {
		return nil, ErrEOFTruncatedSection
	}
	numCode := int(binary.BigEndian.Uint16(code[pos:]))
	pos += 2
	if numCode == 0 {
		return nil, ErrEOFInvalidSectionCount
	}
	if numCode > params.MaxCodeSections {
		return nil, ErrEOFTooManyCodeSections
	}
	if numCode*4 != typesSize {
		return nil, ErrEOFInvalidTypeSize
	}
	codeSizes := make([]int, numCode)
	for i := 0; i < numCode; i++ {
		if pos+2 > len(code) {
			return nil, ErrEOFTruncatedSection
		}
		sz := int(binary.BigEndian.Uint16(code[pos:]))
		if sz == 0 {
			return nil, ErrEOFZeroSection
		}
		codeSizes[i] = sz
		pos += 2
	}

	var containerSizes []int
	if pos < len(code) && code[pos] == kindContainer {
		pos++
		if pos+2 > len(code) {
			return nil, ErrEOFTruncatedSection
		}
		numContainers := int(binary.BigEndian.Uint16(code[pos:]))
		pos += 2
		if numContainers == 0 || numContainers > params.MaxContainerSections {
			return nil, ErrEOFInvalidSectionCount
		}
		containerSizes = make([]int, numContainers)
		for i := range containerSizes {
			if pos+2 > len(code) {
				return nil, ErrEOFTruncatedSection
			}
			sz := int(binary.BigEndian.Uint16(code[pos:]))
			if sz == 0 {
				return nil, ErrEOFZeroSection
			}
			containerSizes[i] = sz
			pos += 2
		}
	}

	if pos >= len(code) || code[pos] != kindData {
		return nil, fmt.Errorf("eof: missing data section header")
	}
	pos++
	if pos+2 > len(code) {
		return nil, ErrEOFTruncatedSection
	}
	dataSizeOffset := pos
	dataSize := int(binary.BigEndian.Uint16(code[pos:]))
	pos += 2

	if pos >= len(code) || code[pos] != eofTerminatorByte {
		return nil, ErrEOFMissingTerminator
	}
	pos++

	c := &EOFContainer{Version: eofVersion1, raw: code, DataSize: dataSize, dataSizeOffset: dataSizeOffset}

	// Types section body.
	for i := 0; i < numCode; i++ {
		if pos+4 > len(code) {
			return nil, ErrEOFTruncatedSection
		}
		fm := FunctionMetadata{
			Input:          code[pos],
			Output:         code[pos+1],
			MaxStackHeight: binary.BigEndian.Uint16(code[pos+2:]),
		}
		c.Types = append(c.Types, fm)
		pos += 4
	}
	// First section must take no inputs and return nothing (it is the
	// container's entry point, called implicitly like top-level code).
	if len(c.Types) > 0 && (c.Types[0].Input != 0 || c.Types[0].Output != 0) {
		return nil, fmt.Errorf("eof: section 0 must have 0 inputs and 0 outputs")
	}

	for _, sz := range codeSizes {
		if pos+sz > len(code) {
			return nil, ErrEOFTruncatedSection
		}
		c.Codes = append(c.Codes, code[pos:pos+sz])
		pos += sz
	}
	for _, sz := range containerSizes {
		if pos+sz > len(code) {
			return nil, ErrEOFTruncatedSection
		}
		sub, err := ParseEOF(code[pos : pos+sz])
		if err != nil {
			return nil, err
		}
		c.Containers = append(c.Containers, sub)
		pos += sz
	}
	if pos+dataSize <= len(code) {
		c.Data = code[pos : pos+dataSize]
	} else if pos < len(code) {
		// A deploy-time container may carry a partial/absent data section;
		// DATASIZE still reports dataSize, DATACOPY zero-fills the gap.
		c.Data = code[pos:]
	}
	return c, nil
}

// ValidateEOFCode runs the per-code-section validation spec.md §4.8
// requires: every RJUMP/RJUMPI/RJUMPV target lands inside the same
// section on an instruction boundary, every CALLF/JUMPF target section
// exists, every code section beyond 0 is reachable via CALLF/JUMPF from
// section 0, and the EIP-5450 stack-height pass holds — CALLF/RETF/JUMPF
// arity agrees with each section's declared Input/Output, the stack
// never underflows, and it never exceeds the section's declared
// MaxStackHeight. It does not check that terminating instructions appear
// only where a section actually ends; dead code after a terminator is
// not rejected.
func ValidateEOFCode(c *EOFContainer) error {
	if len(c.Codes) == 0 {
		return ErrEOFMissingCodeHeader
	}
	for i, code := range c.Codes {
		if err := validateEOFSection(c, i, code); err != nil {
			return err
		}
		if err := validateEOFStackHeights(c, i, code); err != nil {
			return err
		}
	}
	reachable := make([]bool, len(c.Codes))
	reachable[0] = true
	for queue := []int{0}; len(queue) > 0; {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		targets := make([]bool, len(c.Codes))
		markReachableTargets(c.Codes[i], targets)
		for j, ok := range targets {
			if ok && !reachable[j] {
				reachable[j] = true
				queue = append(queue, j)
			}
		}
	}
	for i, ok := range reachable {
		if !ok {
			return fmt.Errorf("%w: section %d", ErrEOFUnreachableCodeSection, i)
		}
	}
	return nil
}

func markReachableTargets(code []byte, reachable []bool) {
	for pc := 0; pc < len(code); {
		op := OpCode(code[pc])
		switch op {
		case CALLF, JUMPF:
			if pc+2 < len(code) {
				idx := int(binary.BigEndian.Uint16(code[pc+1:]))
				if idx < len(reachable) {
					reachable[idx] = true
				}
			}
			pc += 3
		default:
			pc += 1 + int(eofImmediateSize(op, code, pc))
		}
	}
}

func validateEOFSection(c *EOFContainer, idx int, code []byte) error {
	bits := eofCodeBitmap(code)
	for pc := 0; pc < len(code); {
		op := OpCode(code[pc])
		if !isDefinedEOFOp(op) {
			return &ErrInvalidOpCode{OpCode: op}
		}
		sz := 1 + eofImmediateSize(op, code, pc)
		switch op {
		case RJUMP, RJUMPI:
			target := pc + 3 + int(int16(binary.BigEndian.Uint16(code[pc+1:])))
			if target < 0 || target >= len(code) || !bits.codeSegment(uint64(target)) {
				return fmt.Errorf("eof: rjump target out of bounds in section %d", idx)
			}
		case RJUMPV:
			count := int(code[pc+1])
			tableEnd := pc + int(sz)
			for i := 0; i < count; i++ {
				offset := int16(binary.BigEndian.Uint16(code[pc+2+i*2:]))
				target := tableEnd + int(offset)
				if target < 0 || target >= len(code) || !bits.codeSegment(uint64(target)) {
					return fmt.Errorf("%w: section %d", ErrEOFRjumpvTargetOutOfBounds, idx)
				}
			}
		case CALLF:
			target := int(binary.BigEndian.Uint16(code[pc+1:]))
			if target >= len(c.Types) {
				return fmt.Errorf("%w: section %d", ErrEOFInvalidCallfTarget, idx)
			}
		case JUMPF:
			target := int(binary.BigEndian.Uint16(code[pc+1:]))
			if target >= len(c.Types) {
				return fmt.Errorf("%w: section %d", ErrEOFInvalidJumpfTarget, idx)
			}
		}
		pc += int(sz)
	}
	return nil
}

func isDefinedEOFOp(op OpCode) bool {
	if _, ok := opCodeToString[op]; ok {
		return true
	}
	return false
}

// eofImmediateSize returns the number of immediate bytes following op,
// used by both the bitmap scan (analysis_eof.go) and section validation.
func eofImmediateSize(op OpCode, code []byte, pc int) uint64 {
	return uint64(Immediates(op, code, pc))
}

// Immediates returns how many immediate bytes follow op. For RJUMPV the
// count depends on the byte immediately following the opcode, hence the
// code/pc parameters.
func Immediates(op OpCode, code []byte, pc int) int {
	switch {
	case op.IsPush():
		return op.PushSize()
	}
	switch op {
	case RJUMP, RJUMPI, CALLF, DATALOADN:
		return 2
	case JUMPF:
		return 2
	case DUPN, SWAPN, EXCHANGE:
		return 1
	case EOFCREATE, RETURNCONTRACT:
		return 1
	case RJUMPV:
		if pc+1 < len(code) {
			return int(code[pc+1])*2 + 1
		}
		return 1
	default:
		return 0
	}
}

// stackDelta reads an operation's pop/push counts back out of its
// minStack/maxStack fields (set by the minStack/maxStack helpers in
// jump_table.go as pops and maxStackLimit+pops-push respectively), so the
// EIP-5450 pass below has a single source of truth for each opcode's
// stack effect instead of a second hand-maintained table.
func stackDelta(op *operation) (pops, push int) {
	pops = op.minStack
	push = maxStackLimit + pops - op.maxStack
	return pops, push
}

func isEOFTerminator(op OpCode) bool {
	switch op {
	case STOP, RETURN, REVERT, INVALID, RETF, JUMPF, RETURNCONTRACT, SELFDESTRUCT:
		return true
	}
	return false
}

// validateEOFStackHeights runs the EIP-5450 stack-height pass over one
// code section: a worklist walk that tracks the exact stack height at
// every reachable instruction, starting from the section's declared
// Input count, and fails if the stack ever underflows, ever exceeds the
// section's declared MaxStackHeight, or if two different control-flow
// paths reach the same instruction with two different heights. CALLF and
// JUMPF are checked against the callee section's own declared
// Input/Output; RETF must leave the stack at exactly this section's
// declared Output. Opcode pop/push counts come from the same jump table
// the interpreter dispatches through (pragueInstructionSet, the one
// table EOF code ever runs under), via stackDelta.
func validateEOFStackHeights(c *EOFContainer, idx int, code []byte) error {
	meta := c.Types[idx]
	heights := make([]int, len(code))
	for i := range heights {
		heights[i] = -1
	}
	heights[0] = int(meta.Input)
	worklist := []int{0}

	visit := func(target, newHeight int) error {
		if target < 0 || target >= len(code) {
			return fmt.Errorf("eof: control flow target out of bounds in section %d", idx)
		}
		switch heights[target] {
		case -1:
			heights[target] = newHeight
			worklist = append(worklist, target)
		case newHeight:
		default:
			return fmt.Errorf("%w: section %d pc %d", ErrEOFStackHeightMismatch, idx, target)
		}
		return nil
	}

	for len(worklist) > 0 {
		pc := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		h := heights[pc]
		if pc >= len(code) {
			return fmt.Errorf("eof: control flow past section end in section %d", idx)
		}
		op := OpCode(code[pc])
		opInfo := pragueInstructionSet[op]
		if opInfo == nil {
			return fmt.Errorf("eof: opcode %s has no execution entry in section %d", op, idx)
		}
		sz := 1 + int(eofImmediateSize(op, code, pc))

		switch op {
		case CALLF:
			target := int(binary.BigEndian.Uint16(code[pc+1:]))
			callee := c.Types[target]
			if h < int(callee.Input) {
				return fmt.Errorf("%w: section %d pc %d", ErrEOFStackUnderflow, idx, pc)
			}
			newHeight := h - int(callee.Input) + int(callee.Output)
			if newHeight > int(meta.MaxStackHeight) {
				return fmt.Errorf("%w: section %d pc %d", ErrEOFStackOverflow, idx, pc)
			}
			if err := visit(pc+sz, newHeight); err != nil {
				return err
			}
		case RETF:
			if h != int(meta.Output) {
				return fmt.Errorf("%w: section %d pc %d", ErrEOFInvalidRetf, idx, pc)
			}
		case JUMPF:
			target := int(binary.BigEndian.Uint16(code[pc+1:]))
			callee := c.Types[target]
			if h != int(callee.Input) {
				return fmt.Errorf("%w: section %d pc %d", ErrEOFInvalidJumpfTarget, idx, pc)
			}
		case RJUMP:
			pops, push := stackDelta(opInfo)
			newHeight := h - pops + push
			offset := int16(binary.BigEndian.Uint16(code[pc+1:]))
			if err := visit(pc+sz+int(offset), newHeight); err != nil {
				return err
			}
		case RJUMPI:
			pops, push := stackDelta(opInfo)
			if h < pops {
				return fmt.Errorf("%w: section %d pc %d", ErrEOFStackUnderflow, idx, pc)
			}
			newHeight := h - pops + push
			offset := int16(binary.BigEndian.Uint16(code[pc+1:]))
			if err := visit(pc+sz, newHeight); err != nil {
				return err
			}
			if err := visit(pc+sz+int(offset), newHeight); err != nil {
				return err
			}
		case RJUMPV:
			pops, push := stackDelta(opInfo)
			if h < pops {
				return fmt.Errorf("%w: section %d pc %d", ErrEOFStackUnderflow, idx, pc)
			}
			newHeight := h - pops + push
			count := int(code[pc+1])
			tableEnd := pc + sz
			if err := visit(tableEnd, newHeight); err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				offset := int16(binary.BigEndian.Uint16(code[pc+2+i*2:]))
				if err := visit(tableEnd+int(offset), newHeight); err != nil {
					return err
				}
			}
		default:
			pops, push := stackDelta(opInfo)
			if h < pops {
				return fmt.Errorf("%w: section %d pc %d", ErrEOFStackUnderflow, idx, pc)
			}
			newHeight := h - pops + push
			if newHeight > int(meta.MaxStackHeight) {
				return fmt.Errorf("%w: section %d pc %d", ErrEOFStackOverflow, idx, pc)
			}
			if !isEOFTerminator(op) {
				if err := visit(pc+sz, newHeight); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
