// Package gf implements arithmetic over the binary extension fields GF(2^m)
// for 2 <= m <= 16. A field is defined by a primitive polynomial p(x) of
// degree m; every non-zero element is a power of the primitive element
// alpha = x, which gives O(1) multiplication and inversion through
// pre-computed exponent and logarithm tables.
//
// A Field is immutable once New returns and may be shared freely between
// goroutines.
package gf

import (
	"errors"
	"fmt"
)

// Field errors.
var (
	ErrInvalidField    = errors.New("gf: invalid field definition")
	ErrDivisionByZero  = errors.New("gf: division by zero")
	ErrLogOfZero       = errors.New("gf: logarithm of zero")
	ErrElementOutRange = errors.New("gf: element outside field")
)

// Supported field orders.
const (
	MinM = 2
	MaxM = 16
)

// Element is a member of GF(2^m): a polynomial over GF(2) of degree < m,
// packed into the low m bits.
type Element uint16

// Field holds the exponent and logarithm tables of GF(2^m).
type Field struct {
	m     int
	poly  uint32
	order int // 2^m - 1, size of the multiplicative group

	// exp[i] = alpha^i. Stored twice over so that exp[log a + log b]
	// never needs a modular reduction.
	exp []Element
	// log[a] = i such that alpha^i = a. log[0] is never read.
	log []int
}

// New builds GF(2^m) from the primitive polynomial poly, given as a bit
// pattern where bit i is the coefficient of x^i (x^4 + x + 1 is 0x13).
// It fails with ErrInvalidField when poly is not of degree m or when alpha
// does not generate all 2^m - 1 non-zero elements.
func New(m int, poly uint32) (*Field, error) {
	if m < MinM || m > MaxM {
		return nil, fmt.Errorf("%w: m=%d outside [%d, %d]", ErrInvalidField, m, MinM, MaxM)
	}
	if poly>>uint(m) != 1 {
		return nil, fmt.Errorf("%w: polynomial %#x is not of degree %d", ErrInvalidField, poly, m)
	}

	order := 1<<uint(m) - 1
	f := &Field{
		m:     m,
		poly:  poly,
		order: order,
		exp:   make([]Element, 2*order),
		log:   make([]int, order+1),
	}
	seen := make([]bool, order+1)

	x := uint32(1)
	for i := 0; i < order; i++ {
		if seen[x] {
			return nil, fmt.Errorf("%w: polynomial %#x is not primitive (alpha^%d repeats)",
				ErrInvalidField, poly, i)
		}
		seen[x] = true
		f.exp[i] = Element(x)
		f.log[x] = i

		// Multiply by alpha and reduce once the degree reaches m.
		x <<= 1
		if x&(1<<uint(m)) != 0 {
			x ^= poly
		}
	}
	if x != 1 {
		return nil, fmt.Errorf("%w: polynomial %#x is not primitive", ErrInvalidField, poly)
	}
	copy(f.exp[order:], f.exp[:order])
	return f, nil
}

// NewDefault builds GF(2^m) from the default primitive polynomial for m.
func NewDefault(m int) (*Field, error) {
	poly, err := DefaultPolynomial(m)
	if err != nil {
		return nil, err
	}
	return New(m, poly)
}

// M returns the extension degree.
func (f *Field) M() int { return f.m }

// Poly returns the primitive polynomial defining the field.
func (f *Field) Poly() uint32 { return f.poly }

// Order returns 2^m - 1, the order of the multiplicative group.
func (f *Field) Order() int { return f.order }

// Size returns 2^m, the number of field elements.
func (f *Field) Size() int { return f.order + 1 }

// Contains reports whether a is a valid element of the field.
func (f *Field) Contains(a Element) bool { return int(a) <= f.order }

// String describes the field, e.g. "GF(2^4)/0x13".
func (f *Field) String() string {
	return fmt.Sprintf("GF(2^%d)/%#x", f.m, f.poly)
}

// Add returns a + b. Addition in characteristic 2 is XOR, so Add also
// serves as subtraction.
func (f *Field) Add(a, b Element) Element {
	return a ^ b
}

// outOfRange returns the error for an element outside the field.
func (f *Field) outOfRange(a Element) error {
	return fmt.Errorf("%w: %d in %s", ErrElementOutRange, a, f)
}

// mustContain panics with an ErrElementOutRange error when a is not an
// element of f. Mul and Pow have no error result, so a foreign operand is
// a programming error.
func (f *Field) mustContain(a Element) {
	if !f.Contains(a) {
		panic(f.outOfRange(a))
	}
}

// Mul returns a * b. Both operands must be elements of f.
func (f *Field) Mul(a, b Element) Element {
	f.mustContain(a)
	f.mustContain(b)
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[f.log[a]+f.log[b]]
}

// Inv returns the multiplicative inverse of a.
func (f *Field) Inv(a Element) (Element, error) {
	if a == 0 {
		return 0, ErrDivisionByZero
	}
	if !f.Contains(a) {
		return 0, f.outOfRange(a)
	}
	return f.exp[(f.order-f.log[a])%f.order], nil
}

// Div returns a / b.
func (f *Field) Div(a, b Element) (Element, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	for _, x := range [2]Element{a, b} {
		if !f.Contains(x) {
			return 0, f.outOfRange(x)
		}
	}
	if a == 0 {
		return 0, nil
	}
	return f.exp[f.log[a]+f.order-f.log[b]], nil
}

// Exp returns alpha^i. Negative exponents are reduced modulo the group
// order, so Exp(-i) is the inverse of Exp(i).
func (f *Field) Exp(i int) Element {
	idx := i % f.order
	if idx < 0 {
		idx += f.order
	}
	return f.exp[idx]
}

// Log returns the discrete logarithm of a to base alpha.
func (f *Field) Log(a Element) (int, error) {
	if a == 0 {
		return 0, ErrLogOfZero
	}
	if !f.Contains(a) {
		return 0, f.outOfRange(a)
	}
	return f.log[a], nil
}

// Pow returns a^n. Zero raised to any non-zero power is zero, including
// negative powers, which have no meaning in the field. a must be an
// element of f.
func (f *Field) Pow(a Element, n int) Element {
	f.mustContain(a)
	if n == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	return f.Exp(f.log[a] * (n % f.order))
}
