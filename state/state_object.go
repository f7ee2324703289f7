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

// stateObject is one account's mutable state, kept purely in memory — no
// trie, no backing database, per spec.md §1's exclusion of persistent
// storage. Storage reads fall back from dirty to committed so
// GetCommittedState can answer independently of in-flight writes within
// the same transaction, matching the teacher's StateObject split between
// originStorage and pendingStorage.
type stateObject struct {
	address common.Address

	balance  *uint256.Int
	nonce    uint64
	code     []byte
	codeHash common.Hash

	committedStorage map[common.Hash]common.Hash
	dirtyStorage     map[common.Hash]common.Hash

	selfDestructed     bool
	selfDestructed6780 bool
}

func newStateObject(addr common.Address) *stateObject {
	return &stateObject{
		address:          addr,
		balance:          new(uint256.Int),
		codeHash:         emptyCodeHash,
		committedStorage: make(map[common.Hash]common.Hash),
		dirtyStorage:     make(map[common.Hash]common.Hash),
	}
}

func (o *stateObject) empty() bool {
	return o.nonce == 0 && o.balance.IsZero() && o.codeHash == emptyCodeHash
}

func (o *stateObject) getState(key common.Hash) common.Hash {
	if v, dirty := o.dirtyStorage[key]; dirty {
		return v
	}
	return o.getCommittedState(key)
}

func (o *stateObject) getCommittedState(key common.Hash) common.Hash {
	if v, ok := o.committedStorage[key]; ok {
		return v
	}
	return common.Hash{}
}

// setStorage sets the dirty value directly, used both by SetState and by
// journal reverts (where prevalue may legitimately be the committed
// value, collapsing the dirty entry back to a no-op read).
func (o *stateObject) setStorage(key, value common.Hash) {
	o.dirtyStorage[key] = value
}

// commitStorage folds every dirty entry into the committed map, called at
// end-of-transaction (Finalise) once reverts are no longer possible.
func (o *stateObject) commitStorage() {
	for k, v := range o.dirtyStorage {
		o.committedStorage[k] = v
	}
	o.dirtyStorage = make(map[common.Hash]common.Hash)
}

func (o *stateObject) deepCopy() *stateObject {
	cp := &stateObject{
		address:            o.address,
		balance:            new(uint256.Int).Set(o.balance),
		nonce:              o.nonce,
		code:               o.code,
		codeHash:           o.codeHash,
		committedStorage:   make(map[common.Hash]common.Hash, len(o.committedStorage)),
		dirtyStorage:       make(map[common.Hash]common.Hash, len(o.dirtyStorage)),
		selfDestructed:     o.selfDestructed,
		selfDestructed6780: o.selfDestructed6780,
	}
	for k, v := range o.committedStorage {
		cp.committedStorage[k] = v
	}
	for k, v := range o.dirtyStorage {
		cp.dirtyStorage[k] = v
	}
	return cp
}
