package ileave

import "fmt"

// MaxByteCount is the largest number of byte lanes that fit a 64-bit word.
const MaxByteCount = 8

// Bytes interleaves up to 8 byte lanes, packed little-endian in a 64-bit
// word, into bit planes: bit j of lane i lands at output bit j*count+i.
// Lanes at index count and above must be zero. count == 0 returns 0.
// count > MaxByteCount panics.
func Bytes(bytes uint64, count uint) uint64 {
	if count > MaxByteCount {
		panic(fmt.Errorf(`cannot interleave %v byte lanes, max is %v`, count, MaxByteCount))
	}
	return ileaveBytesFuncs[count](bytes)
}

// UnBytes is the exact inverse of Bytes: it unpacks the bit planes back
// into count little-endian byte lanes. count == 0 returns 0.
// count > MaxByteCount panics.
func UnBytes(ileaved uint64, count uint) uint64 {
	if count > MaxByteCount {
		panic(fmt.Errorf(`cannot deinterleave %v byte lanes, max is %v`, count, MaxByteCount))
	}
	return unleaveBytesFuncs[count](ileaved)
}

// The per-lane-count dispatch tables. One entry per lane count keeps the
// stride fixed inside each routine, mirroring how callers select a
// channel count at runtime while the bit math stays per-count.
var (
	ileaveBytesFuncs = [MaxByteCount + 1]func(uint64) uint64{
		func(uint64) uint64 { return 0 },
		func(b uint64) uint64 { return ileaveBytesFixed(b, 1) },
		func(b uint64) uint64 { return ileaveBytesFixed(b, 2) },
		func(b uint64) uint64 { return ileaveBytesFixed(b, 3) },
		func(b uint64) uint64 { return ileaveBytesFixed(b, 4) },
		func(b uint64) uint64 { return ileaveBytesFixed(b, 5) },
		func(b uint64) uint64 { return ileaveBytesFixed(b, 6) },
		func(b uint64) uint64 { return ileaveBytesFixed(b, 7) },
		func(b uint64) uint64 { return ileaveBytesFixed(b, 8) },
	}
	unleaveBytesFuncs = [MaxByteCount + 1]func(uint64) uint64{
		func(uint64) uint64 { return 0 },
		func(v uint64) uint64 { return unleaveBytesFixed(v, 1) },
		func(v uint64) uint64 { return unleaveBytesFixed(v, 2) },
		func(v uint64) uint64 { return unleaveBytesFixed(v, 3) },
		func(v uint64) uint64 { return unleaveBytesFixed(v, 4) },
		func(v uint64) uint64 { return unleaveBytesFixed(v, 5) },
		func(v uint64) uint64 { return unleaveBytesFixed(v, 6) },
		func(v uint64) uint64 { return unleaveBytesFixed(v, 7) },
		func(v uint64) uint64 { return unleaveBytesFixed(v, 8) },
	}
)

func ileaveBytesFixed(bytes uint64, count uint) uint64 {
	var result uint64
	for i := uint(0); i < count; i++ {
		result |= Zeros(uint32(bytes&0xff), count-1) << i
		bytes >>= 8
	}
	return result
}

func unleaveBytesFixed(ileaved uint64, count uint) uint64 {
	var result uint64
	for i := uint(0); i < count; i++ {
		// the 0xff mask makes this safe for inputs polluted above the lane budget
		result |= (Remove(ileaved>>i, count-1) & 0xff) << (8 * i)
	}
	return result
}

// ileaveBytesNaive is the reference implementation for Bytes,
// built on ZerosNaive. Kept for the equivalence tests.
func ileaveBytesNaive(bytes uint64, count uint) uint64 {
	var result uint64
	for i := uint(0); i < count; i++ {
		result |= ZerosNaive(uint32(bytes&0xff), count-1) << i
		bytes >>= 8
	}
	return result
}
