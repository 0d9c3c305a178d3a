// Package gf2 implements arithmetic on polynomials over GF(2) packed into a
// single 256-bit word: bit i of the word is the coefficient of x^i. The
// coefficients are taken modulo 2, independent of any extension field.
package gf2

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// MaxDegree is the highest degree representable in one word.
const MaxDegree = 255

var (
	ErrOverflow    = errors.New("gf2: polynomial degree exceeds word size")
	ErrZeroDivisor = errors.New("gf2: division by the zero polynomial")
	ErrSyntax      = errors.New("gf2: invalid binary polynomial")
)

// Degree returns the degree of p, or -1 for the zero polynomial.
func Degree(p *uint256.Int) int {
	return p.BitLen() - 1
}

// Bit returns the coefficient of x^i.
func Bit(p *uint256.Int, i int) uint {
	if i < 0 || i > MaxDegree {
		return 0
	}
	return uint(p[i/64]>>(uint(i)%64)) & 1
}

// SetBit sets the coefficient of x^i to 1.
func SetBit(p *uint256.Int, i int) {
	p[i/64] |= 1 << (uint(i) % 64)
}

// FlipBit toggles the coefficient of x^i.
func FlipBit(p *uint256.Int, i int) {
	p[i/64] ^= 1 << (uint(i) % 64)
}

// FromExponents builds the polynomial with a 1 coefficient at each listed
// exponent, so FromExponents(4, 1, 0) is x^4 + x + 1. Repeated exponents
// cancel.
func FromExponents(exps ...int) (*uint256.Int, error) {
	p := new(uint256.Int)
	for _, e := range exps {
		if e < 0 || e > MaxDegree {
			return nil, fmt.Errorf("%w: exponent %d", ErrOverflow, e)
		}
		FlipBit(p, e)
	}
	return p, nil
}

// Mul returns p * q by shift-and-XOR: for each set bit i of q, p << i is
// accumulated into the product.
func Mul(p, q *uint256.Int) (*uint256.Int, error) {
	prod := new(uint256.Int)
	if p.IsZero() || q.IsZero() {
		return prod, nil
	}
	if Degree(p)+Degree(q) > MaxDegree {
		return nil, fmt.Errorf("%w: deg %d + deg %d", ErrOverflow, Degree(p), Degree(q))
	}
	var shifted uint256.Int
	for i := 0; i <= Degree(q); i++ {
		if Bit(q, i) == 1 {
			shifted.Lsh(p, uint(i))
			prod.Xor(prod, &shifted)
		}
	}
	return prod, nil
}

// Div divides p by g, returning quotient and remainder with
// deg(rem) < deg(g). Whenever the leading bit of the running dividend lines
// up with the leading bit of g, g is shifted into place and XORed out.
func Div(p, g *uint256.Int) (quo, rem *uint256.Int, err error) {
	if g.IsZero() {
		return nil, nil, ErrZeroDivisor
	}
	quo = new(uint256.Int)
	rem = new(uint256.Int).Set(p)

	dg := Degree(g)
	var shifted uint256.Int
	for d := Degree(rem); d >= dg; d = Degree(rem) {
		shift := d - dg
		SetBit(quo, shift)
		shifted.Lsh(g, uint(shift))
		rem.Xor(rem, &shifted)
	}
	return quo, rem, nil
}

// Mod returns p mod g.
func Mod(p, g *uint256.Int) (*uint256.Int, error) {
	_, rem, err := Div(p, g)
	return rem, err
}

// Parse reads a binary string, most significant coefficient first, such as
// "10011" for x^4 + x + 1. An optional "0b" prefix is accepted.
func Parse(s string) (*uint256.Int, error) {
	s = strings.TrimPrefix(s, "0b")
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrSyntax)
	}
	if len(s) > MaxDegree+1 {
		return nil, fmt.Errorf("%w: %d digits", ErrOverflow, len(s))
	}
	p := new(uint256.Int)
	for i, c := range s {
		switch c {
		case '1':
			SetBit(p, len(s)-1-i)
		case '0':
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrSyntax, c, i)
		}
	}
	return p, nil
}

// Format renders p as a binary string, most significant coefficient first,
// zero-padded on the left to width digits. A width smaller than the
// polynomial's length is ignored.
func Format(p *uint256.Int, width int) string {
	n := p.BitLen()
	if width > n {
		n = width
	}
	if n == 0 {
		return "0"
	}
	var b strings.Builder
	b.Grow(n)
	for i := n - 1; i >= 0; i-- {
		if Bit(p, i) == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
