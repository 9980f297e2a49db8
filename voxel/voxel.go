// Package voxel holds the voxel buffer types shared by the readers,
// writers and indexes: a 32-bit-coordinate voxel with an ARGB color, and
// the bounds arithmetic needed to derive Morton sort keys from it.
package voxel

import (
	"fmt"

	"github.com/voxelio/voxelio/morton"
)

// KeyBits is the per-axis bit budget of a 3-axis Morton key.
const KeyBits = 21

// Voxel32 is a single voxel: a signed 32-bit lattice position and a color
// packed as 0xAARRGGBB.
type Voxel32 struct {
	Pos  [3]int32
	ARGB uint32
}

func (v Voxel32) Alpha() uint8 { return uint8(v.ARGB >> 24) }
func (v Voxel32) Red() uint8   { return uint8(v.ARGB >> 16) }
func (v Voxel32) Green() uint8 { return uint8(v.ARGB >> 8) }
func (v Voxel32) Blue() uint8  { return uint8(v.ARGB) }

// Bounds is the axis-aligned bounding box of a voxel set, inclusive on
// both ends.
type Bounds struct {
	Min, Max [3]int32
}

// BoundsOf computes the bounds of the given voxels.
// ok is false for an empty slice, for which no bounds exist.
func BoundsOf(voxels []Voxel32) (b Bounds, ok bool) {
	if len(voxels) == 0 {
		return b, false
	}
	b.Min = voxels[0].Pos
	b.Max = voxels[0].Pos
	for _, v := range voxels[1:] {
		for ax := 0; ax < 3; ax++ {
			b.Min[ax] = min(b.Min[ax], v.Pos[ax])
			b.Max[ax] = max(b.Max[ax], v.Pos[ax])
		}
	}
	return b, true
}

// Fits21Bits reports whether every position inside the bounds is within
// the 3×21-bit Morton key budget when taken relative to Min.
func (b Bounds) Fits21Bits() bool {
	for ax := 0; ax < 3; ax++ {
		if uint64(int64(b.Max[ax])-int64(b.Min[ax])) >= 1<<KeyBits {
			return false
		}
	}
	return true
}

// ZKey computes the Morton key of a voxel relative to the given origin
// (normally the Min corner of the model bounds, making all offsets
// non-negative). ok is false if any offset is negative or does not fit
// the per-axis key budget.
func ZKey(v Voxel32, origin [3]int32) (z morton.Z, ok bool) {
	var offsets [3]uint32
	for ax := 0; ax < 3; ax++ {
		offset := int64(v.Pos[ax]) - int64(origin[ax])
		if offset < 0 || offset >= 1<<KeyBits {
			return 0, false
		}
		offsets[ax] = uint32(offset)
	}
	return morton.Interleave3(offsets[0], offsets[1], offsets[2]), true
}

func MustZKey(v Voxel32, origin [3]int32) morton.Z {
	z, ok := ZKey(v, origin)
	if !ok {
		panic(fmt.Errorf(`cannot make Z key out of %v relative to %v`, v.Pos, origin))
	}
	return z
}
