package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxelio/voxelio/morton"
)

func TestVoxel32_channels(t *testing.T) {
	v := Voxel32{ARGB: 0xFF123456}
	require.Equal(t, uint8(0xFF), v.Alpha())
	require.Equal(t, uint8(0x12), v.Red())
	require.Equal(t, uint8(0x34), v.Green())
	require.Equal(t, uint8(0x56), v.Blue())
}

func TestBoundsOf(t *testing.T) {
	tests := []struct {
		name   string
		voxels []Voxel32
		want   Bounds
		notOK  bool
	}{
		{
			name:  "empty",
			notOK: true,
		},
		{
			name:   "single",
			voxels: []Voxel32{{Pos: [3]int32{1, 2, 3}}},
			want:   Bounds{Min: [3]int32{1, 2, 3}, Max: [3]int32{1, 2, 3}},
		},
		{
			name: "mixed signs",
			voxels: []Voxel32{
				{Pos: [3]int32{-5, 0, 10}},
				{Pos: [3]int32{3, -2, 4}},
				{Pos: [3]int32{0, 7, -1}},
			},
			want: Bounds{Min: [3]int32{-5, -2, -1}, Max: [3]int32{3, 7, 10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BoundsOf(tt.voxels)
			if tt.notOK {
				require.False(t, ok)
				return
			}
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBounds_Fits21Bits(t *testing.T) {
	require.True(t, Bounds{Min: [3]int32{0, 0, 0}, Max: [3]int32{1<<21 - 1, 0, 0}}.Fits21Bits())
	require.False(t, Bounds{Min: [3]int32{0, 0, 0}, Max: [3]int32{1 << 21, 0, 0}}.Fits21Bits())
	require.True(t, Bounds{Min: [3]int32{-1 << 20, 0, 0}, Max: [3]int32{1<<20 - 1, 0, 0}}.Fits21Bits())
}

func TestZKey(t *testing.T) {
	origin := [3]int32{-1, -1, -1}
	v := Voxel32{Pos: [3]int32{0, 0, 0}}
	z, ok := ZKey(v, origin)
	require.True(t, ok)
	require.Equal(t, morton.Interleave3(1, 1, 1), z)

	// offset below origin
	_, ok = ZKey(Voxel32{Pos: [3]int32{-2, 0, 0}}, origin)
	require.False(t, ok)

	// offset beyond the key budget
	_, ok = ZKey(Voxel32{Pos: [3]int32{1<<21 - 1, 0, 0}}, origin)
	require.False(t, ok)

	require.Panics(t, func() { MustZKey(Voxel32{Pos: [3]int32{-2, 0, 0}}, origin) })
}

func TestZKey_ordersByZOrder(t *testing.T) {
	origin := [3]int32{0, 0, 0}
	// in 3-axis Morton order x is most significant within each bit triple
	zLow := MustZKey(Voxel32{Pos: [3]int32{0, 1, 1}}, origin)
	zHigh := MustZKey(Voxel32{Pos: [3]int32{1, 0, 0}}, origin)
	require.Less(t, zLow, zHigh)
}
