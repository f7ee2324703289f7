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
	"sync"

	"github.com/coreevm/evm/params"
	"github.com/holiman/uint256"
)

var stackPool = sync.Pool{
	New: func() any { return &Stack{data: make([]uint256.Int, 0, 16)} },
}

// Stack is the fixed-capacity (params.StackLimit) LIFO of 256-bit words
// spec.md §3 describes. Depth checks against each operation's declared
// minStack/maxStack happen in the interpreter dispatch loop, not here —
// Stack itself never refuses a push/pop, matching the "explicit checks at
// dispatch time" design note in spec.md §9.
type Stack struct {
	data []uint256.Int
}

func newstack() *Stack {
	return stackPool.Get().(*Stack)
}

func returnStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

func (st *Stack) Data() []uint256.Int { return st.data }

func (st *Stack) push(d *uint256.Int) {
	st.data = append(st.data, *d)
}

func (st *Stack) pop() (ret uint256.Int) {
	ret = st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return
}

func (st *Stack) len() int { return len(st.data) }

func (st *Stack) swap(n int) {
	st.data[st.len()-n], st.data[st.len()-1] = st.data[st.len()-1], st.data[st.len()-n]
}

func (st *Stack) dup(n int) {
	st.push(&st.data[st.len()-n])
}

func (st *Stack) peek() *uint256.Int { return &st.data[st.len()-1] }

// Back returns the n-th item from the top without removing it (0-indexed).
func (st *Stack) Back(n int) *uint256.Int { return &st.data[st.len()-n-1] }

// maxStackLimit is params.StackLimit, kept local to avoid every call site
// spelling out the package-qualified constant.
const maxStackLimit = params.StackLimit
