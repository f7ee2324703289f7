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

package state

import (
	"github.com/coreevm/evm/common"
	"github.com/holiman/uint256"
)

// journalEntry is one undoable mutation, in the teacher's core/state
// journal idiom: every mutating StateDB call appends an entry capturing
// enough of the prior value to restore it, and revert() replays entries
// backwards to a mark.
type journalEntry interface {
	revert(*StateDB)
	dirtied() (common.Address, bool)
}

type journal struct {
	entries []journalEntry
	dirties map[common.Address]int
}

func newJournal() *journal {
	return &journal{dirties: make(map[common.Address]int)}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
	if addr, ok := entry.dirtied(); ok {
		j.dirties[addr]++
	}
}

func (j *journal) length() int { return len(j.entries) }

// revert undoes every entry recorded after snapshot, in reverse order —
// matching UndoSet.undo's "replay newest-first until the mark" shape.
func (j *journal) revert(s *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
		if addr, ok := j.entries[i].dirtied(); ok {
			if j.dirties[addr]--; j.dirties[addr] == 0 {
				delete(j.dirties, addr)
			}
		}
	}
	j.entries = j.entries[:snapshot]
}

type (
	createObjectChange struct {
		account common.Address
	}
	resetObjectChange struct {
		account common.Address
		prev    *stateObject
	}
	balanceChange struct {
		account common.Address
		prev    *uint256.Int
	}
	nonceChange struct {
		account common.Address
		prev    uint64
	}
	codeChange struct {
		account            common.Address
		prevCode, prevHash []byte
	}
	storageChange struct {
		account      common.Address
		key, prevalue common.Hash
	}
	transientStorageChange struct {
		account       common.Address
		key, prevalue common.Hash
	}
	selfDestructChange struct {
		account     common.Address
		prev        bool
		prevBalance *uint256.Int
	}
	selfDestruct6780Change struct {
		account common.Address
		prev    bool
	}
	refundChange struct {
		prev uint64
	}
	addLogChange struct{}
	addPreimageChange struct {
		hash common.Hash
	}
	accessListAddAccountChange struct {
		account common.Address
	}
	accessListAddSlotChange struct {
		account common.Address
		slot    common.Hash
	}
)

func (ch createObjectChange) revert(s *StateDB) {
	delete(s.objects, ch.account)
}
func (ch createObjectChange) dirtied() (common.Address, bool) { return ch.account, true }

func (ch resetObjectChange) revert(s *StateDB) { s.objects[ch.account] = ch.prev }
func (ch resetObjectChange) dirtied() (common.Address, bool) { return ch.account, true }

func (ch balanceChange) revert(s *StateDB) { s.getObject(ch.account).balance = ch.prev }
func (ch balanceChange) dirtied() (common.Address, bool) { return ch.account, true }

func (ch nonceChange) revert(s *StateDB) { s.getObject(ch.account).nonce = ch.prev }
func (ch nonceChange) dirtied() (common.Address, bool) { return ch.account, true }

func (ch codeChange) revert(s *StateDB) {
	o := s.getObject(ch.account)
	o.code, o.codeHash = ch.prevCode, common.BytesToHash(ch.prevHash)
}
func (ch codeChange) dirtied() (common.Address, bool) { return ch.account, true }

func (ch storageChange) revert(s *StateDB) {
	s.getObject(ch.account).setStorage(ch.key, ch.prevalue)
}
func (ch storageChange) dirtied() (common.Address, bool) { return ch.account, true }

func (ch transientStorageChange) revert(s *StateDB) {
	s.setTransientState(ch.account, ch.key, ch.prevalue)
}
func (ch transientStorageChange) dirtied() (common.Address, bool) { return common.Address{}, false }

func (ch selfDestructChange) revert(s *StateDB) {
	o := s.getObject(ch.account)
	o.selfDestructed = ch.prev
	o.balance = ch.prevBalance
}
func (ch selfDestructChange) dirtied() (common.Address, bool) { return ch.account, true }

func (ch selfDestruct6780Change) revert(s *StateDB) {
	s.getObject(ch.account).selfDestructed6780 = ch.prev
}
func (ch selfDestruct6780Change) dirtied() (common.Address, bool) { return ch.account, true }

func (ch refundChange) revert(s *StateDB) { s.refund = ch.prev }
func (ch refundChange) dirtied() (common.Address, bool) { return common.Address{}, false }

func (ch addLogChange) revert(s *StateDB) { s.logs = s.logs[:len(s.logs)-1] }
func (ch addLogChange) dirtied() (common.Address, bool) { return common.Address{}, false }

func (ch addPreimageChange) revert(s *StateDB) { delete(s.preimages, ch.hash) }
func (ch addPreimageChange) dirtied() (common.Address, bool) { return common.Address{}, false }

func (ch accessListAddAccountChange) revert(s *StateDB) {
	s.accessList.removeAddress(ch.account)
}
func (ch accessListAddAccountChange) dirtied() (common.Address, bool) { return common.Address{}, false }

func (ch accessListAddSlotChange) revert(s *StateDB) {
	s.accessList.removeSlot(ch.account, ch.slot)
}
func (ch accessListAddSlotChange) dirtied() (common.Address, bool) { return common.Address{}, false }
