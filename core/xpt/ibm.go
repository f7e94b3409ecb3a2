package xpt

import "math"

// SAS transport numerics use the IBM System/360 double format: a sign bit,
// a 7-bit excess-64 base-16 exponent, and a 56-bit fraction in [1/16, 1).
// IEEE doubles carry 53 significand bits, so the conversion below is exact
// in the IEEE->IBM direction and round-trips without loss.

// missingByte opens the encoding of a SAS missing numeric value.
const missingByte = '.'

// ibmEncode converts an IEEE double to 8 IBM-format bytes. NaN encodes as
// the SAS missing value. Magnitudes beyond the IBM range (about 7.2e75)
// saturate; magnitudes below it flush to zero.
func ibmEncode(v float64) [8]byte {
	var out [8]byte
	if v == 0 {
		return out
	}
	if math.IsNaN(v) {
		out[0] = missingByte
		return out
	}

	neg := math.Signbit(v)
	abs := math.Abs(v)
	if math.IsInf(abs, 0) {
		abs = math.MaxFloat64
	}

	// abs = m2 * 2^e2 with m2 in [0.5, 1). Choose the base-16 exponent
	// e16 = ceil(e2/4) so the fraction lands in [1/16, 1).
	m2, e2 := math.Frexp(abs)
	e16 := (e2 + 3) / 4
	if (e2+3)%4 != 0 && e2+3 < 0 {
		e16--
	}

	switch {
	case e16 > 63:
		// Saturate at the largest representable magnitude.
		e16 = 63
		m2 = 1 - 0x1p-53
		e2 = 4 * e16
	case e16 < -64:
		return out // underflow to zero
	}

	// fraction * 2^56 = mant53 << shift, shift in [0, 3]; exact.
	mant53 := uint64(m2 * (1 << 53))
	shift := uint(3 + e2 - 4*e16)
	frac := mant53 << shift

	out[0] = byte(e16 + 64)
	if neg {
		out[0] |= 0x80
	}
	for i := 1; i < 8; i++ {
		out[i] = byte(frac >> (8 * uint(7-i)))
	}
	return out
}

// ibmDecode converts 8 IBM-format bytes to an IEEE double. SAS missing
// values (leading '.', '_', or 'A'..'Z' over a zero fraction) decode as NaN.
func ibmDecode(b []byte) float64 {
	var frac uint64
	for i := 1; i < 8; i++ {
		frac = frac<<8 | uint64(b[i])
	}
	if frac == 0 {
		switch {
		case b[0] == 0:
			return 0
		case b[0] == missingByte, b[0] == '_', b[0] >= 'A' && b[0] <= 'Z':
			return math.NaN()
		}
		return 0
	}

	exp := int(b[0]&0x7f) - 64
	v := math.Ldexp(float64(frac), 4*exp-56)
	if b[0]&0x80 != 0 {
		return -v
	}
	return v
}
