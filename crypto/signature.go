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

package crypto

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

var (
	ErrInvalidRecoveryID = errors.New("invalid signature recovery id")
	ErrInvalidSignature  = errors.New("invalid signature")
)

// Ecrecover recovers the uncompressed public key (65 bytes, 0x04 prefix)
// that produced sig over hash. sig is laid out r(32) || s(32) || v(1) with
// v in {0,1}, matching the input the ECRECOVER precompile receives after
// stripping its own padding/validity bookkeeping (spec.md §4.4).
func Ecrecover(hash, sig []byte) ([]byte, error) {
	if len(sig) != 65 {
		return nil, ErrInvalidSignature
	}
	if sig[64] >= 4 {
		return nil, ErrInvalidRecoveryID
	}
	// btcec's RecoverCompact expects a 65-byte [recid || r || s] signature.
	compact := make([]byte, 65)
	compact[0] = sig[64] + 27
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	return pub.SerializeUncompressed(), nil
}

// PubkeyToAddress derives the 20-byte account address from an uncompressed
// secp256k1 public key, used by the ECRECOVER precompile to produce its
// output.
func PubkeyToAddress(pub []byte) []byte {
	if len(pub) == 65 {
		pub = pub[1:]
	}
	return Keccak256(pub)[12:]
}
