// Copyright 2018 The go-ethereum Authors
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
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/coreevm/evm/common"
	"github.com/coreevm/evm/params"
)

var (
	errBn256InvalidG1 = errors.New("bn256: invalid G1 point")
	errBn256InvalidG2 = errors.New("bn256: invalid G2 point")
)

// bn256G1 decodes a 64-byte [X|Y] big-endian G1 point, the encoding EIP-196
// defines.
func bn256G1(input []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	input = common.RightPadBytes(input, 64)
	if err := p.X.SetBytesCanonical(input[:32]); err != nil {
		return p, errBn256InvalidG1
	}
	if err := p.Y.SetBytesCanonical(input[32:64]); err != nil {
		return p, errBn256InvalidG1
	}
	if !p.X.IsZero() || !p.Y.IsZero() {
		if !p.IsOnCurve() {
			return p, errBn256InvalidG1
		}
	}
	return p, nil
}

func bn256G1Bytes(p *bn254.G1Affine) []byte {
	xb := p.X.Bytes()
	yb := p.Y.Bytes()
	out := make([]byte, 64)
	copy(out[:32], xb[:])
	copy(out[32:], yb[:])
	return out
}

// bn256G2 decodes a 128-byte [Xi|Xr|Yi|Yr] G2 point, EIP-197's ordering
// (imaginary component first).
func bn256G2(input []byte) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	input = common.RightPadBytes(input, 128)
	if err := p.X.A1.SetBytesCanonical(input[0:32]); err != nil {
		return p, errBn256InvalidG2
	}
	if err := p.X.A0.SetBytesCanonical(input[32:64]); err != nil {
		return p, errBn256InvalidG2
	}
	if err := p.Y.A1.SetBytesCanonical(input[64:96]); err != nil {
		return p, errBn256InvalidG2
	}
	if err := p.Y.A0.SetBytesCanonical(input[96:128]); err != nil {
		return p, errBn256InvalidG2
	}
	if !p.X.IsZero() || !p.Y.IsZero() {
		if !p.IsInSubGroup() {
			return p, errBn256InvalidG2
		}
	}
	return p, nil
}

// bn256Add implements the BN256ADD precompile at address 0x06.
type bn256Add struct {
	eip1108 bool
}

func (c *bn256Add) RequiredGas(input []byte) uint64 {
	if c.eip1108 {
		return params.Bn256AddGas
	}
	return params.Bn256AddGasByzantium
}

func (c *bn256Add) Run(input []byte) ([]byte, error) {
	p0, err := bn256G1(common.GetData(input, 0, 64))
	if err != nil {
		return nil, err
	}
	p1, err := bn256G1(common.GetData(input, 64, 64))
	if err != nil {
		return nil, err
	}
	var res bn254.G1Jac
	res.FromAffine(&p0)
	var p1j bn254.G1Jac
	p1j.FromAffine(&p1)
	res.AddAssign(&p1j)
	var out bn254.G1Affine
	out.FromJacobian(&res)
	return bn256G1Bytes(&out), nil
}

// bn256ScalarMul implements the BN256SCALARMUL precompile at address 0x07.
type bn256ScalarMul struct {
	eip1108 bool
}

func (c *bn256ScalarMul) RequiredGas(input []byte) uint64 {
	if c.eip1108 {
		return params.Bn256ScalarMulGas
	}
	return params.Bn256ScalarMulGasByzantium
}

func (c *bn256ScalarMul) Run(input []byte) ([]byte, error) {
	p0, err := bn256G1(common.GetData(input, 0, 64))
	if err != nil {
		return nil, err
	}
	scalar := new(big.Int).SetBytes(common.GetData(input, 64, 32))
	var res bn254.G1Jac
	res.ScalarMultiplicationAffine(&p0, scalar)
	var out bn254.G1Affine
	out.FromJacobian(&res)
	return bn256G1Bytes(&out), nil
}

// bn256Pairing implements the BN256PAIRING precompile at address 0x08.
type bn256Pairing struct {
	eip1108 bool
}

func (c *bn256Pairing) RequiredGas(input []byte) uint64 {
	points := uint64(len(input) / 192)
	if c.eip1108 {
		return params.Bn256PairingBaseGas + points*params.Bn256PairingPerPointGas
	}
	return params.Bn256PairingBaseGasByzantium + points*params.Bn256PairingPerPointGasByzantium
}

func (c *bn256Pairing) Run(input []byte) ([]byte, error) {
	if len(input)%192 != 0 {
		return nil, errors.New("bn256: invalid pairing input length")
	}
	var g1s []bn254.G1Affine
	var g2s []bn254.G2Affine
	for i := 0; i < len(input); i += 192 {
		p1, err := bn256G1(input[i : i+64])
		if err != nil {
			return nil, err
		}
		p2, err := bn256G2(input[i+64 : i+192])
		if err != nil {
			return nil, err
		}
		g1s = append(g1s, p1)
		g2s = append(g2s, p2)
	}
	out := make([]byte, 32)
	if len(g1s) == 0 {
		out[31] = 1
		return out, nil
	}
	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil {
		return nil, err
	}
	if ok {
		out[31] = 1
	}
	return out, nil
}
