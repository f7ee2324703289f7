// Copyright 2023 The go-ethereum Authors
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

// Package kzg4844 wraps c-kzg-4844's CGo bindings behind the narrow surface
// the POINT EVALUATION precompile needs (spec.md §4.4): verifying that a
// commitment opens to a claimed value at a claimed point.
package kzg4844

import (
	"errors"
	"sync"
	"sync/atomic"

	ckzg "github.com/ethereum/c-kzg-4844/bindings/go"
)

type (
	Commitment = [48]byte
	Proof      = [48]byte
	Point      = [32]byte
	Claim      = [32]byte
)

var (
	ErrNotInitialized = errors.New("kzg4844: trusted setup not loaded")

	setupOnce  sync.Once
	setupErr   error
	setupReady atomic.Bool
)

// Init loads the KZG ceremony's trusted setup from path; it must be called
// once, before the first VerifyProof, with a trusted setup file in the
// c-kzg-4844 text format (trusted_setup.txt) that ckzg.LoadTrustedSetupFile
// reads — that file is ceremony output, not something this repository can generate, so it is
// supplied by the embedder rather than vendored here.
func Init(path string) error {
	setupOnce.Do(func() {
		setupErr = ckzg.LoadTrustedSetupFile(path)
		setupReady.Store(setupErr == nil)
	})
	return setupErr
}

// VerifyProof reports whether proof attests that the polynomial committed
// to by commitment evaluates to claim at point.
func VerifyProof(commitment Commitment, point Point, claim Claim, proof Proof) (bool, error) {
	if !setupReady.Load() {
		return false, ErrNotInitialized
	}
	return ckzg.VerifyKZGProof(ckzg.Bytes48(commitment), ckzg.Bytes32(point), ckzg.Bytes32(claim), ckzg.Bytes48(proof))
}
