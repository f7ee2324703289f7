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

import "github.com/coreevm/evm/common"

// accessList tracks the EIP-2929 warm set for the lifetime of a single
// transaction. A reverted sub-call un-warms whatever it warmed, same as
// every other piece of visible state (spec.md §4.9) — addAddress/addSlot
// report what they actually changed so StateDB can journal it, and
// removeAddress/removeSlot undo exactly that on revert.
type accessList struct {
	addresses map[common.Address]struct{}
	slots     map[common.Address]map[common.Hash]struct{}
}

func newAccessList() *accessList {
	return &accessList{addresses: make(map[common.Address]struct{})}
}

func (al *accessList) containsAddress(addr common.Address) bool {
	_, ok := al.addresses[addr]
	return ok
}

func (al *accessList) contains(addr common.Address, slot common.Hash) (addressOk, slotOk bool) {
	if _, ok := al.addresses[addr]; !ok {
		return false, false
	}
	if al.slots[addr] == nil {
		return true, false
	}
	_, slotOk = al.slots[addr][slot]
	return true, slotOk
}

func (al *accessList) addAddress(addr common.Address) bool {
	if al.containsAddress(addr) {
		return false
	}
	al.addresses[addr] = struct{}{}
	return true
}

func (al *accessList) addSlot(addr common.Address, slot common.Hash) (addrAdded, slotAdded bool) {
	addrAdded = al.addAddress(addr)
	if al.slots == nil {
		al.slots = make(map[common.Address]map[common.Hash]struct{})
	}
	if al.slots[addr] == nil {
		al.slots[addr] = make(map[common.Hash]struct{})
	}
	if _, ok := al.slots[addr][slot]; !ok {
		al.slots[addr][slot] = struct{}{}
		slotAdded = true
	}
	return addrAdded, slotAdded
}

func (al *accessList) removeAddress(addr common.Address) {
	delete(al.addresses, addr)
}

func (al *accessList) removeSlot(addr common.Address, slot common.Hash) {
	if al.slots[addr] == nil {
		return
	}
	delete(al.slots[addr], slot)
	if len(al.slots[addr]) == 0 {
		delete(al.slots, addr)
	}
}
