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
	"testing"

	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/core/tracing"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var testAddr = common.HexToAddress("0x4444444444444444444444444444444444444444")

func TestSnapshotRevertBalance(t *testing.T) {
	s := New()
	s.CreateAccount(testAddr)
	s.AddBalance(testAddr, uint256.NewInt(100), tracing.BalanceChangeUnspecified)

	snap := s.Snapshot()
	s.AddBalance(testAddr, uint256.NewInt(50), tracing.BalanceChangeUnspecified)
	require.Equal(t, uint256.NewInt(150), s.GetBalance(testAddr))

	s.RevertToSnapshot(snap)
	require.Equal(t, uint256.NewInt(100), s.GetBalance(testAddr))
}

func TestSnapshotRevertStorage(t *testing.T) {
	s := New()
	s.CreateAccount(testAddr)
	key := common.HexToHash("0x01")
	s.SetState(testAddr, key, common.HexToHash("0xaa"))

	snap := s.Snapshot()
	s.SetState(testAddr, key, common.HexToHash("0xbb"))
	require.Equal(t, common.HexToHash("0xbb"), s.GetState(testAddr, key))

	s.RevertToSnapshot(snap)
	require.Equal(t, common.HexToHash("0xaa"), s.GetState(testAddr, key))
}

// A revert to a snapshot taken before several nested snapshots must undo
// every entry recorded since, not just the most recent one.
func TestNestedSnapshotsRevertToOutermost(t *testing.T) {
	s := New()
	s.CreateAccount(testAddr)
	key := common.HexToHash("0x01")
	s.SetState(testAddr, key, common.HexToHash("0x01"))

	outer := s.Snapshot()
	s.SetState(testAddr, key, common.HexToHash("0x02"))
	inner := s.Snapshot()
	s.SetState(testAddr, key, common.HexToHash("0x03"))
	require.Equal(t, common.HexToHash("0x03"), s.GetState(testAddr, key))

	_ = inner
	s.RevertToSnapshot(outer)
	require.Equal(t, common.HexToHash("0x01"), s.GetState(testAddr, key))
}

// EIP-2929 warmth is ordinary journaled state: a sub-call that warms an
// address or slot and then reverts must leave it cold again, the same as
// any other visible-world mutation.
func TestAccessListWarmthRevert(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	warmBefore := s.AddAddressToAccessList(testAddr)
	require.False(t, warmBefore)
	require.True(t, s.AddressInAccessList(testAddr))

	s.RevertToSnapshot(snap)
	require.False(t, s.AddressInAccessList(testAddr))
}

// A slot warmed inside a sub-call that reverts must un-warm too, while an
// address warmed before the snapshot stays warm (only the slot add is
// journaled after that point).
func TestAccessListSlotWarmthRevert(t *testing.T) {
	s := New()
	key := common.HexToHash("0x01")
	s.AddAddressToAccessList(testAddr)

	snap := s.Snapshot()
	s.AddSlotToAccessList(testAddr, key)
	_, slotWarm := s.SlotInAccessList(testAddr, key)
	require.True(t, slotWarm)

	s.RevertToSnapshot(snap)
	require.True(t, s.AddressInAccessList(testAddr))
	_, slotWarm = s.SlotInAccessList(testAddr, key)
	require.False(t, slotWarm)
}

// Transient storage (EIP-1153), like access-list warmth, is ordinary
// journaled state and must roll back on revert.
func TestTransientStorageRevert(t *testing.T) {
	s := New()
	key := common.HexToHash("0x01")
	snap := s.Snapshot()
	s.SetTransientState(testAddr, key, common.HexToHash("0x01"))
	require.Equal(t, common.HexToHash("0x01"), s.GetTransientState(testAddr, key))

	s.RevertToSnapshot(snap)
	require.Equal(t, common.Hash{}, s.GetTransientState(testAddr, key))
}

func TestSelfDestructClearsAccountAtFinalise(t *testing.T) {
	s := New()
	s.CreateAccount(testAddr)
	s.AddBalance(testAddr, uint256.NewInt(10), tracing.BalanceChangeUnspecified)
	require.True(t, s.Exist(testAddr))

	s.SelfDestruct(testAddr)
	require.True(t, s.HasSelfDestructed(testAddr))
	require.Equal(t, new(uint256.Int), s.GetBalance(testAddr))

	s.Finalise()
	require.False(t, s.Exist(testAddr))
}

func TestRevertToInvalidSnapshotPanics(t *testing.T) {
	s := New()
	s.Snapshot()
	require.Panics(t, func() { s.RevertToSnapshot(999) })
}

func TestRefundJournaledAcrossRevert(t *testing.T) {
	s := New()
	s.AddRefund(100)
	snap := s.Snapshot()
	s.AddRefund(50)
	require.Equal(t, uint64(150), s.GetRefund())

	s.RevertToSnapshot(snap)
	require.Equal(t, uint64(100), s.GetRefund())
}
