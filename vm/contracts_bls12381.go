// Copyright 2022 The go-ethereum Authors
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

// BLS12-381 precompiles (EIP-2537), addresses 0x0b-0x11. Field elements are
// ABI-encoded as 64-byte big-endian values (the 48-byte field element
// left-padded with 16 zero bytes); G2/Fp2 elements concatenate two of those.
package vm

import (
	"errors"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"

	"github.com/coreevm/evm/params"
)

var errBLS12381InvalidInput = errors.New("bls12381: invalid input")

const (
	fpByteLen   = 64
	g1ByteLen   = 2 * fpByteLen
	g2ByteLen   = 4 * fpByteLen
	scalarBytes = 32
)

func decodeBLSFp(in []byte) (fp.Element, error) {
	var z fp.Element
	if len(in) != fpByteLen {
		return z, errBLS12381InvalidInput
	}
	for _, b := range in[:16] {
		if b != 0 {
			return z, errBLS12381InvalidInput
		}
	}
	if err := z.SetBytesCanonical(in[16:]); err != nil {
		return z, errBLS12381InvalidInput
	}
	return z, nil
}

func encodeBLSFp(e *fp.Element) []byte {
	b := e.Bytes()
	out := make([]byte, fpByteLen)
	copy(out[16:], b[:])
	return out
}

func decodeBLSG1(in []byte) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if len(in) != g1ByteLen {
		return p, errBLS12381InvalidInput
	}
	x, err := decodeBLSFp(in[:fpByteLen])
	if err != nil {
		return p, err
	}
	y, err := decodeBLSFp(in[fpByteLen:])
	if err != nil {
		return p, err
	}
	p.X, p.Y = x, y
	if !p.X.IsZero() || !p.Y.IsZero() {
		if !p.IsOnCurve() || !p.IsInSubGroup() {
			return p, errBLS12381InvalidInput
		}
	}
	return p, nil
}

func encodeBLSG1(p *bls12381.G1Affine) []byte {
	out := make([]byte, g1ByteLen)
	copy(out[:fpByteLen], encodeBLSFp(&p.X))
	copy(out[fpByteLen:], encodeBLSFp(&p.Y))
	return out
}

func decodeBLSG2(in []byte) (bls12381.G2Affine, error) {
	var p bls12381.G2Affine
	if len(in) != g2ByteLen {
		return p, errBLS12381InvalidInput
	}
	xa0, err := decodeBLSFp(in[0:fpByteLen])
	if err != nil {
		return p, err
	}
	xa1, err := decodeBLSFp(in[fpByteLen : 2*fpByteLen])
	if err != nil {
		return p, err
	}
	ya0, err := decodeBLSFp(in[2*fpByteLen : 3*fpByteLen])
	if err != nil {
		return p, err
	}
	ya1, err := decodeBLSFp(in[3*fpByteLen : 4*fpByteLen])
	if err != nil {
		return p, err
	}
	p.X.A0, p.X.A1 = xa0, xa1
	p.Y.A0, p.Y.A1 = ya0, ya1
	if !p.X.IsZero() || !p.Y.IsZero() {
		if !p.IsOnCurve() || !p.IsInSubGroup() {
			return p, errBLS12381InvalidInput
		}
	}
	return p, nil
}

func encodeBLSG2(p *bls12381.G2Affine) []byte {
	out := make([]byte, g2ByteLen)
	copy(out[0:fpByteLen], encodeBLSFp(&p.X.A0))
	copy(out[fpByteLen:2*fpByteLen], encodeBLSFp(&p.X.A1))
	copy(out[2*fpByteLen:3*fpByteLen], encodeBLSFp(&p.Y.A0))
	copy(out[3*fpByteLen:4*fpByteLen], encodeBLSFp(&p.Y.A1))
	return out
}

// bls12381G1Add implements G1ADD at address 0x0b.
type bls12381G1Add struct{}

func (c *bls12381G1Add) RequiredGas(input []byte) uint64 { return params.Bls12381G1AddGas }

func (c *bls12381G1Add) Run(input []byte) ([]byte, error) {
	if len(input) != 2*g1ByteLen {
		return nil, errBLS12381InvalidInput
	}
	p0, err := decodeBLSG1(input[:g1ByteLen])
	if err != nil {
		return nil, err
	}
	p1, err := decodeBLSG1(input[g1ByteLen:])
	if err != nil {
		return nil, err
	}
	var j0, j1 bls12381.G1Jac
	j0.FromAffine(&p0)
	j1.FromAffine(&p1)
	j0.AddAssign(&j1)
	var out bls12381.G1Affine
	out.FromJacobian(&j0)
	return encodeBLSG1(&out), nil
}

// bls12381G1MultiExp implements G1MSM at address 0x0c. Each input pair is a
// 128-byte G1 point followed by a 32-byte scalar; the result is their
// weighted sum, computed by accumulation rather than a Pippenger-style MSM.
type bls12381G1MultiExp struct{}

func (c *bls12381G1MultiExp) pairs(input []byte) int { return len(input) / (g1ByteLen + scalarBytes) }

func (c *bls12381G1MultiExp) RequiredGas(input []byte) uint64 {
	return uint64(c.pairs(input)) * params.Bls12381G1MulGas
}

func (c *bls12381G1MultiExp) Run(input []byte) ([]byte, error) {
	const stride = g1ByteLen + scalarBytes
	if len(input) == 0 || len(input)%stride != 0 {
		return nil, errBLS12381InvalidInput
	}
	var acc bls12381.G1Jac
	for off := 0; off < len(input); off += stride {
		p, err := decodeBLSG1(input[off : off+g1ByteLen])
		if err != nil {
			return nil, err
		}
		scalar := new(big.Int).SetBytes(input[off+g1ByteLen : off+stride])
		var term bls12381.G1Jac
		term.ScalarMultiplicationAffine(&p, scalar)
		acc.AddAssign(&term)
	}
	var out bls12381.G1Affine
	out.FromJacobian(&acc)
	return encodeBLSG1(&out), nil
}

// bls12381G2Add implements G2ADD at address 0x0d.
type bls12381G2Add struct{}

func (c *bls12381G2Add) RequiredGas(input []byte) uint64 { return params.Bls12381G2AddGas }

func (c *bls12381G2Add) Run(input []byte) ([]byte, error) {
	if len(input) != 2*g2ByteLen {
		return nil, errBLS12381InvalidInput
	}
	p0, err := decodeBLSG2(input[:g2ByteLen])
	if err != nil {
		return nil, err
	}
	p1, err := decodeBLSG2(input[g2ByteLen:])
	if err != nil {
		return nil, err
	}
	var j0, j1 bls12381.G2Jac
	j0.FromAffine(&p0)
	j1.FromAffine(&p1)
	j0.AddAssign(&j1)
	var out bls12381.G2Affine
	out.FromJacobian(&j0)
	return encodeBLSG2(&out), nil
}

// bls12381G2MultiExp implements G2MSM at address 0x0e.
type bls12381G2MultiExp struct{}

func (c *bls12381G2MultiExp) pairs(input []byte) int { return len(input) / (g2ByteLen + scalarBytes) }

func (c *bls12381G2MultiExp) RequiredGas(input []byte) uint64 {
	return uint64(c.pairs(input)) * params.Bls12381G2MulGas
}

func (c *bls12381G2MultiExp) Run(input []byte) ([]byte, error) {
	const stride = g2ByteLen + scalarBytes
	if len(input) == 0 || len(input)%stride != 0 {
		return nil, errBLS12381InvalidInput
	}
	var acc bls12381.G2Jac
	for off := 0; off < len(input); off += stride {
		p, err := decodeBLSG2(input[off : off+g2ByteLen])
		if err != nil {
			return nil, err
		}
		scalar := new(big.Int).SetBytes(input[off+g2ByteLen : off+stride])
		var pJac, term bls12381.G2Jac
		pJac.FromAffine(&p)
		term.ScalarMultiplication(&pJac, scalar)
		acc.AddAssign(&term)
	}
	var out bls12381.G2Affine
	out.FromJacobian(&acc)
	return encodeBLSG2(&out), nil
}

// bls12381Pairing implements PAIRING_CHECK at address 0x0f.
type bls12381Pairing struct{}

func (c *bls12381Pairing) pairs(input []byte) int { return len(input) / (g1ByteLen + g2ByteLen) }

func (c *bls12381Pairing) RequiredGas(input []byte) uint64 {
	n := uint64(c.pairs(input))
	return params.Bls12381PairingBaseGas + n*params.Bls12381PairingPerPairGas
}

func (c *bls12381Pairing) Run(input []byte) ([]byte, error) {
	const stride = g1ByteLen + g2ByteLen
	if len(input)%stride != 0 {
		return nil, errBLS12381InvalidInput
	}
	var g1s []bls12381.G1Affine
	var g2s []bls12381.G2Affine
	for off := 0; off < len(input); off += stride {
		p1, err := decodeBLSG1(input[off : off+g1ByteLen])
		if err != nil {
			return nil, err
		}
		p2, err := decodeBLSG2(input[off+g1ByteLen : off+stride])
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
	ok, err := bls12381.PairingCheck(g1s, g2s)
	if err != nil {
		return nil, err
	}
	if ok {
		out[31] = 1
	}
	return out, nil
}

// bls12381MapG1 implements MAP_FP_TO_G1 at address 0x10.
type bls12381MapG1 struct{}

func (c *bls12381MapG1) RequiredGas(input []byte) uint64 { return params.Bls12381MapG1Gas }

func (c *bls12381MapG1) Run(input []byte) ([]byte, error) {
	u, err := decodeBLSFp(input)
	if err != nil {
		return nil, err
	}
	p := bls12381.MapToG1(u)
	return encodeBLSG1(&p), nil
}

// bls12381MapG2 implements MAP_FP2_TO_G2 at address 0x11.
type bls12381MapG2 struct{}

func (c *bls12381MapG2) RequiredGas(input []byte) uint64 { return params.Bls12381MapG2Gas }

func (c *bls12381MapG2) Run(input []byte) ([]byte, error) {
	if len(input) != 2*fpByteLen {
		return nil, errBLS12381InvalidInput
	}
	a0, err := decodeBLSFp(input[:fpByteLen])
	if err != nil {
		return nil, err
	}
	a1, err := decodeBLSFp(input[fpByteLen:])
	if err != nil {
		return nil, err
	}
	var u bls12381.E2
	u.A0, u.A1 = a0, a1
	p := bls12381.MapToG2(u)
	return encodeBLSG2(&p), nil
}
