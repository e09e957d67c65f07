// internal/float16/float16.go

// Package float16 converts between float32 and IEEE 754 binary16 bit patterns.
//
// Rounding is round-to-nearest, ties-to-even. Both functions are total,
// allocation-free and deterministic for identical input bits.
package float16

import "math"

const (
	signMask uint16 = 0x8000
	infBits  uint16 = 0x7C00
	qnanBits uint16 = 0x7E00

	f32Bias = 127
	f16Bias = 15
)

// ToHalf encodes f as binary16.
//
// Magnitudes at or above 65520 saturate to infinity; NaN becomes the quiet NaN
// pattern. The sign bit is always carried over, for zero and NaN too.
func ToHalf(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & signMask
	exp := int32(b>>23) & 0xFF
	man := b & 0x7FFFFF

	if exp == 0xFF {
		if man != 0 {
			return sign | qnanBits
		}
		return sign | infBits
	}

	e := exp - f32Bias + f16Bias

	if e >= 0x1F {
		return sign | infBits
	}

	if e <= 0 {
		// Below 2^-25 everything rounds to zero, float32 subnormals included.
		if e < -10 {
			return sign
		}
		m := man | 0x800000
		shift := uint32(14 - e)
		half := m >> shift
		rem := m & (1<<shift - 1)
		mid := uint32(1) << (shift - 1)
		if rem > mid || (rem == mid && half&1 == 1) {
			half++ // may carry into the smallest normal, which is still correct
		}
		return sign | uint16(half)
	}

	half := uint32(e)<<10 | man>>13
	rem := man & 0x1FFF
	if rem > 0x1000 || (rem == 0x1000 && half&1 == 1) {
		half++ // carry past 0x7BFF lands on infinity
	}
	return sign | uint16(half)
}

// FromHalf decodes a binary16 pattern. Every non-NaN value is exact.
func FromHalf(h uint16) float32 {
	sign := uint32(h&signMask) << 16
	exp := uint32(h>>10) & 0x1F
	man := uint32(h & 0x3FF)

	switch exp {
	case 0x1F:
		if man == 0 {
			return math.Float32frombits(sign | 0x7F800000)
		}
		return math.Float32frombits(sign | 0x7FC00000 | man<<13)
	case 0:
		// subnormal: man * 2^-24
		v := float32(math.Ldexp(float64(man), -24))
		if sign != 0 {
			v = -v
		}
		return v
	default:
		return math.Float32frombits(sign | (exp-f16Bias+f32Bias)<<23 | man<<13)
	}
}

// IsNaN reports whether h is a binary16 NaN.
func IsNaN(h uint16) bool {
	return h&infBits == infBits && h&0x3FF != 0
}
