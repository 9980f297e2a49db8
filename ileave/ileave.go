// Package ileave implements bit-interleaving and bit-de-interleaving:
// inserting a fixed number of zero bits between every bit of a value and
// removing them again. It is the computational core behind the morton
// package and the byte-plane interleaving in bytes.go.
//
// Every exported function has a naive counterpart that is kept as the
// reference implementation; the fast paths are defined to be bit-identical
// to it and the tests enforce that equivalence.
package ileave

import (
	"fmt"

	"github.com/voxelio/voxelio/mathhelp"
)

// MaxBits is the largest supported interleaving stride.
// A 32-bit input interleaved with more than 32 zero bits per input bit
// would carry at most two payload bits in the 64-bit result anyway.
const MaxBits = 32

// zeroMasks[bits][step] is the mask applied after the shift-and-OR at the
// given recursion step. The tables are generated from the naive reference
// algorithms at package init, never hand-derived.
var zeroMasks [MaxBits + 1][6]uint64

func init() {
	for bits := uint(1); bits <= MaxBits; bits++ {
		pattern := ZerosNaive(^uint32(0), bits)
		for step, dup := range [6]uint{1, 2, 4, 8, 16, 32} {
			zeroMasks[bits][step] = dupBitsNaive(pattern, dup)
		}
	}
}

// ZerosNaive interleaves the input with <bits> zero bits per input bit,
// one bit at a time. Example: ZerosNaive(0b11, 1) == 0b0101.
// Output bits beyond 63 are dropped. bits == 0 is the identity.
func ZerosNaive(input uint32, bits uint) uint64 {
	lim := min(32, mathhelp.DivCeil(64, bits+1))

	var result uint64
	for i, bOut := uint(0), uint(0); i < lim; i++ {
		result |= uint64(input&1) << bOut
		input >>= 1
		bOut += bits + 1
	}
	return result
}

// dupBitsNaive duplicates each input bit <outBitsPerInBit> times.
// Example: dupBitsNaive(0b101, 2) == 0b110011.
// It generates the masks for the fast interleaving paths.
func dupBitsNaive(input uint64, outBitsPerInBit uint) uint64 {
	if outBitsPerInBit == 0 {
		return 0
	}
	lim := mathhelp.DivCeil(64, outBitsPerInBit)

	var result uint64
	for i, bOut := uint(0), uint(0); i < lim; i++ {
		for j := uint(0); j < outBitsPerInBit; j, bOut = j+1, bOut+1 {
			result |= (input >> i & 1) << bOut
		}
	}
	return result
}

// Zeros interleaves the input with <bits> zero bits per input bit using a
// shift-and-OR doubling recurrence, bit-identical to ZerosNaive for every
// supported stride. bits == 0 is the identity. bits > MaxBits panics.
func Zeros(input uint32, bits uint) uint64 {
	if bits == 0 {
		return uint64(input)
	}
	if bits > MaxBits {
		panic(fmt.Errorf(`cannot interleave %v zero bits, max is %v`, bits, MaxBits))
	}
	masks := &zeroMasks[bits]
	// Log2Floor(0) == 0 so this is safe, even for a 1-bit stride.
	start := 4 - int(mathhelp.Log2Floor(uint64(bits>>1)))

	n := uint64(input)
	for i := start; i >= 0; i-- {
		n |= n << (bits << uint(i))
		n &= masks[i]
	}
	return n
}

// RemoveNaive keeps only the input bits at positions that are multiples of
// bits+1 and packs them contiguously, one bit at a time.
// Example: RemoveNaive(0b010101, 1) == 0b111. bits == 0 is the identity.
func RemoveNaive(input uint64, bits uint) uint64 {
	// increment once so a stride of 0 needs no modulo-by-zero special case
	bits++
	var result uint64
	for i, bOut := uint(0), uint(0); i < 64; i++ {
		if i%bits == 0 {
			result |= (input & 1) << bOut
			bOut++
		}
		input >>= 1
	}
	return result
}

// Remove is the inverse of Zeros: it removes <bits> interleaved bits after
// each kept bit via the reverse shift-and-OR recurrence, bit-identical to
// RemoveNaive. bits == 0 is the identity. bits > MaxBits panics.
func Remove(input uint64, bits uint) uint64 {
	if bits == 0 {
		return input
	}
	if bits > MaxBits {
		panic(fmt.Errorf(`cannot remove %v interleaved bits, max is %v`, bits, MaxBits))
	}
	masks := &zeroMasks[bits]
	iterations := 5 - mathhelp.Log2Floor(uint64(bits>>1))

	input &= masks[0]
	for i := uint(0); i < iterations; i++ {
		input |= input >> (bits << i)
		input &= masks[i+1]
	}
	return input
}
