package morton

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterleave2(t *testing.T) {
	tests := []struct {
		hi, lo uint32
		z      Z
	}{
		{hi: 0b0, lo: 0b0, z: 0b0},
		{hi: 0b1, lo: 0b1, z: 0b11},
		{hi: 0b0, lo: 0b11, z: 0b0101},
		{hi: 0b111, lo: 0b000, z: 0b101010},
		{hi: 0b0, lo: 0b1111111111111111, z: 0b01010101010101010101010101010101},
		{hi: 0b0, lo: 0b11111111111111111111111111111111, z: 0b0101010101010101010101010101010101010101010101010101010101010101},
		{hi: 0b11111111111111111111111111111111, lo: 0b0, z: 0b1010101010101010101010101010101010101010101010101010101010101010},
	}
	for _, tt := range tests {
		name := fmt.Sprintf(`Interleave2(%b, %b)`, tt.hi, tt.lo)
		t.Run(name, func(t *testing.T) {
			got := Interleave2(tt.hi, tt.lo)
			require.Equalf(t, tt.z, got, `%032b and %032b should interleave into: %064b, got: %064b`, tt.hi, tt.lo, tt.z, got)
		})
	}
}

func TestDeinterleave2(t *testing.T) {
	tests := []struct {
		z      Z
		hi, lo uint32
	}{
		{z: 0b0, hi: 0b0, lo: 0b0},
		{z: 0b11, hi: 0b1, lo: 0b1},
		{z: 0b101010, hi: 0b111, lo: 0b000},
		{z: 0b0101, hi: 0b0, lo: 0b11},
	}
	for _, tt := range tests {
		name := fmt.Sprintf(`Deinterleave2(%b)`, tt.z)
		t.Run(name, func(t *testing.T) {
			gotHi, gotLo := Deinterleave2(tt.z)
			require.Equalf(t, [2]uint32{tt.hi, tt.lo}, [2]uint32{gotHi, gotLo},
				`%064b should deinterleave into: [%032b,%032b], got: [%032b,%032b]`, tt.z, tt.hi, tt.lo, gotHi, gotLo)
		})
	}
}

func TestInterleave2_roundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(0x2D))
	for i := 0; i < 500; i++ {
		hi, lo := rng.Uint32(), rng.Uint32()
		gotHi, gotLo := Deinterleave2(Interleave2(hi, lo))
		require.Equal(t, hi, gotHi)
		require.Equal(t, lo, gotLo)
	}
}

func TestInterleave3(t *testing.T) {
	tests := []struct {
		x, y, z uint32
		n       Z
	}{
		{x: 0b0, y: 0b0, z: 0b0, n: 0b0},
		{x: 0b1, y: 0b0, z: 0b0, n: 0b100},
		{x: 0b0, y: 0b1, z: 0b0, n: 0b010},
		{x: 0b0, y: 0b0, z: 0b1, n: 0b001},
		{x: 0b1, y: 0b1, z: 0b1, n: 0b111},
		// (adg, beh, cfi) -> abcdefghi
		{x: 0b111, y: 0b100, z: 0b001, n: 0b110100101},
		{x: 0b111111111111111111111, y: 0b0, z: 0b0,
			n: 0b100100100100100100100100100100100100100100100100100100100100100},
	}
	for _, tt := range tests {
		name := fmt.Sprintf(`Interleave3(%b, %b, %b)`, tt.x, tt.y, tt.z)
		t.Run(name, func(t *testing.T) {
			got := Interleave3(tt.x, tt.y, tt.z)
			require.Equalf(t, tt.n, got, `want: %064b, got: %064b`, tt.n, got)
		})
	}
}

func TestDeinterleave3(t *testing.T) {
	tests := []struct {
		n       Z
		x, y, z uint32
	}{
		{n: 0b0, x: 0b0, y: 0b0, z: 0b0},
		{n: 0b111, x: 0b1, y: 0b1, z: 0b1},
		// abcdefghi -> (adg, beh, cfi)
		{n: 0b110100101, x: 0b111, y: 0b100, z: 0b001},
	}
	for _, tt := range tests {
		name := fmt.Sprintf(`Deinterleave3(%b)`, tt.n)
		t.Run(name, func(t *testing.T) {
			gotX, gotY, gotZ := Deinterleave3(tt.n)
			require.Equalf(t, [3]uint32{tt.x, tt.y, tt.z}, [3]uint32{gotX, gotY, gotZ},
				`%064b should deinterleave into: [%b,%b,%b], got: [%b,%b,%b]`, tt.n, tt.x, tt.y, tt.z, gotX, gotY, gotZ)
		})
	}
}

func TestInterleave3_roundTripBelow21Bits(t *testing.T) {
	rng := rand.New(rand.NewSource(0x3D))
	const mask = 1<<21 - 1
	coords := [][3]uint32{
		{0, 0, 0},
		{mask, mask, mask},
		{mask, 0, 0},
		{0, mask, 0},
		{0, 0, mask},
	}
	for i := 0; i < 500; i++ {
		coords = append(coords, [3]uint32{rng.Uint32() & mask, rng.Uint32() & mask, rng.Uint32() & mask})
	}
	for _, c := range coords {
		gotX, gotY, gotZ := Deinterleave3(Interleave3(c[0], c[1], c[2]))
		require.Equalf(t, c, [3]uint32{gotX, gotY, gotZ},
			`round trip of (%b, %b, %b) gave (%b, %b, %b)`, c[0], c[1], c[2], gotX, gotY, gotZ)
	}
}

func TestInterleave3_equalsNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(0x3E))
	for i := 0; i < 500; i++ {
		x, y, z := rng.Uint32(), rng.Uint32(), rng.Uint32()
		require.Equal(t, interleave3Naive(x, y, z), Interleave3(x, y, z))
	}
	for i := 0; i < 500; i++ {
		n := rng.Uint64()
		wantX, wantY, wantZ := deinterleave3Naive(n)
		gotX, gotY, gotZ := Deinterleave3(n)
		require.Equal(t, [3]uint32{wantX, wantY, wantZ}, [3]uint32{gotX, gotY, gotZ})
	}
}
