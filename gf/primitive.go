package gf

import "fmt"

// defaultPolynomials lists one primitive polynomial per supported m, each
// with the fewest non-zero terms available for that degree.
var defaultPolynomials = [MaxM + 1]uint32{
	2:  0x7,     // x^2 + x + 1
	3:  0xB,     // x^3 + x + 1
	4:  0x13,    // x^4 + x + 1
	5:  0x25,    // x^5 + x^2 + 1
	6:  0x43,    // x^6 + x + 1
	7:  0x89,    // x^7 + x^3 + 1
	8:  0x11D,   // x^8 + x^4 + x^3 + x^2 + 1
	9:  0x211,   // x^9 + x^4 + 1
	10: 0x409,   // x^10 + x^3 + 1
	11: 0x805,   // x^11 + x^2 + 1
	12: 0x1053,  // x^12 + x^6 + x^4 + x + 1
	13: 0x201B,  // x^13 + x^4 + x^3 + x + 1
	14: 0x4443,  // x^14 + x^10 + x^6 + x + 1
	15: 0x8003,  // x^15 + x + 1
	16: 0x1100B, // x^16 + x^12 + x^3 + x + 1
}

// DefaultPolynomial returns the default primitive polynomial for GF(2^m).
func DefaultPolynomial(m int) (uint32, error) {
	if m < MinM || m > MaxM {
		return 0, fmt.Errorf("%w: no default polynomial for m=%d", ErrInvalidField, m)
	}
	return defaultPolynomials[m], nil
}

// IsPrimitive reports whether poly is a primitive polynomial of degree m,
// i.e. whether x generates the full multiplicative group of GF(2)[x]/poly.
// Unlike New it allocates no tables.
func IsPrimitive(m int, poly uint32) bool {
	if m < MinM || m > MaxM || poly>>uint(m) != 1 {
		return false
	}
	order := 1<<uint(m) - 1
	x := uint32(1)
	for i := 1; i <= order; i++ {
		x <<= 1
		if x&(1<<uint(m)) != 0 {
			x ^= poly
		}
		if x == 1 {
			return i == order
		}
	}
	return false
}
