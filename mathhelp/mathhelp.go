// Package mathhelp holds small integer math utilities shared by the
// interleaving core and the indexes built on top of it.
package mathhelp

import "math/bits"

func Pow2(n uint) uint {
	return 1 << n
}

// Log2Floor returns the index of the highest set bit.
// Log2Floor(0) == 0 so callers don't need to special-case zero.
func Log2Floor(v uint64) uint {
	if v == 0 {
		return 0
	}
	return uint(bits.Len64(v)) - 1
}

// DivCeil divides a by b, rounding up. b must not be 0.
func DivCeil(a, b uint) uint {
	return (a + b - 1) / b
}

func Bool2int(b bool) int {
	if b {
		return 1
	}
	return 0
}
