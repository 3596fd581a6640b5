// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package rs implements a systematic Reed-Solomon encoder over GF(2^6)
// with primitive polynomial x^6 + x + 1, the error-correction layer the
// satellite packet builder appends after bit-packing and before LFSR
// whitening. The encoder follows the textbook systematic RS construction:
// build GF(64) log/antilog tables from the primitive polynomial, form the
// generator as prod(x - alpha^i) for i=1..2t, and divide data(x)*x^2t by
// the generator to get the 2t parity symbols.
package rs

// FieldSize is the number of non-zero elements of GF(2^6): 63.
const FieldSize = 63

// symbolBits is the width of one RS symbol in bits (matches the satellite
// bearer's 6-bit symbol alphabet).
const symbolBits = 6

// primitivePoly is x^6 + x + 1 (0b1000011), used to build the GF(64)
// log/antilog tables.
const primitivePoly = 0x43

// GF64 caches the log/antilog tables for GF(2^6). It is generated once and
// is immutable thereafter, so a single package-level instance can be
// shared.
type GF64 struct {
	exp [2 * FieldSize]int // antilog: exp[i] = alpha^i
	log [FieldSize + 1]int // log[alpha^i] = i, log[0] unused
}

var field = newGF64()

func newGF64() *GF64 {
	g := &GF64{}
	x := 1
	for i := 0; i < FieldSize; i++ {
		g.exp[i] = x
		g.log[x] = i
		x <<= 1
		if x&(1<<symbolBits) != 0 {
			x ^= primitivePoly
		}
	}
	for i := FieldSize; i < 2*FieldSize; i++ {
		g.exp[i] = g.exp[i-FieldSize]
	}
	return g
}

func (g *GF64) mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return g.exp[(g.log[a]+g.log[b])%FieldSize]
}

// Generator builds the generator polynomial prod_{i=1..2t}(x - alpha^i) for
// an RS code with 2t parity symbols, represented highest-degree coefficient
// first with a trailing constant term (length 2t+1). Since this is GF(2^k)
// arithmetic, subtraction is identical to addition (XOR).
func Generator(twoT int) []int {
	poly := make([]int, 1, twoT+1)
	poly[0] = 1
	for i := 1; i <= twoT; i++ {
		root := field.exp[i]
		next := make([]int, len(poly)+1)
		for j, coeff := range poly {
			next[j] ^= coeff
			next[j+1] ^= field.mul(coeff, root)
		}
		poly = next
	}
	return poly
}

// Encode appends 2t systematic parity symbols to data: the output's first
// k symbols equal the input unchanged, and len(output) == k + 2t. twoT
// must be even (it is always called with an even parity-symbol count in
// this SDK).
func Encode(data []int, twoT int) []int {
	gen := Generator(twoT)

	remainder := make([]int, twoT)
	for _, coeff := range data {
		feedback := coeff ^ remainder[0]
		copy(remainder, remainder[1:])
		remainder[twoT-1] = 0
		if feedback != 0 {
			for j := 1; j <= twoT; j++ {
				remainder[j-1] ^= field.mul(feedback, gen[j])
			}
		}
	}

	out := make([]int, 0, len(data)+twoT)
	out = append(out, data...)
	out = append(out, remainder...)
	return out
}
