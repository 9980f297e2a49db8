// Package morton builds Morton codes (Z-order indexes) from 2 or 3
// coordinates and decomposes them again. A Morton code interleaves the
// bits of its coordinates so that numeric locality approximates spatial
// locality, which makes it a good sort key and spatial partitioning key
// for voxel data.
//
// Note the differing bit-order conventions: the 2-axis functions are named
// by significance (hi/lo), the 3-axis functions by axis with x most
// significant. Downstream consumers depend on the exact placements, so
// neither is unified with the other.
package morton

import "github.com/voxelio/voxelio/ileave"

type Z = uint64

// Interleave2 interleaves two values so that output bit 2k comes from lo
// and output bit 2k+1 from hi. Example: Interleave2(0b111, 0b000) == 0b101010.
func Interleave2(hi, lo uint32) Z {
	return ileave.Zeros(lo, 1) | ileave.Zeros(hi, 1)<<1
}

// Deinterleave2 is the exact inverse of Interleave2.
func Deinterleave2(z Z) (hi, lo uint32) {
	hi = uint32(ileave.Remove(z>>1, 1))
	lo = uint32(ileave.Remove(z, 1))
	return hi, lo
}

// Interleave3 interleaves three values so that each output bit triple
// reads (x, y, z) from most to least significant.
// Visualization: (adg, beh, cfi) -> abcdefghi.
//
// Only the lowest 21 bits of each coordinate are representable in the
// 64-bit result; higher bits are silently dropped. That is the documented
// precision ceiling, not an error.
func Interleave3(x, y, z uint32) Z {
	return ileave.Zeros(x, 2)<<2 | ileave.Zeros(y, 2)<<1 | ileave.Zeros(z, 2)
}

// Deinterleave3 is the exact inverse of Interleave3 below the 3×21-bit
// precision ceiling. Visualization: abcdefghi -> (adg, beh, cfi).
func Deinterleave3(n Z) (x, y, z uint32) {
	x = uint32(ileave.Remove(n>>2, 2))
	y = uint32(ileave.Remove(n>>1, 2))
	z = uint32(ileave.Remove(n, 2))
	return x, y, z
}

// naive references, kept for the equivalence tests

func interleave3Naive(x, y, z uint32) Z {
	return ileave.ZerosNaive(x, 2)<<2 | ileave.ZerosNaive(y, 2)<<1 | ileave.ZerosNaive(z, 2)
}

func deinterleave3Naive(n Z) (x, y, z uint32) {
	x = uint32(ileave.RemoveNaive(n>>2, 2))
	y = uint32(ileave.RemoveNaive(n>>1, 2))
	z = uint32(ileave.RemoveNaive(n, 2))
	return x, y, z
}
