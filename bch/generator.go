package bch

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf2"
)

// Generator is the generator polynomial g(x) of a narrow-sense binary BCH
// code: the lowest-degree binary polynomial with alpha, alpha^2, ...,
// alpha^2t as roots. It is immutable.
type Generator struct {
	poly  uint256.Int
	t     int
	field *gf.Field
	// cosets holds the cyclotomic cosets whose minimal polynomials were
	// multiplied into poly, in the order they were found.
	cosets [][]int
}

// BuildGenerator computes g(x) for a t-error-correcting code over field as
// the least common multiple of the minimal polynomials of alpha^1..alpha^2t.
// Conjugate roots share a minimal polynomial, so each cyclotomic coset is
// multiplied in only once.
func BuildGenerator(field *gf.Field, t int) (*Generator, error) {
	if t < 1 {
		return nil, fmt.Errorf("%w: t=%d, want t >= 1", ErrConfiguration, t)
	}
	if 2*t >= field.Order() {
		return nil, fmt.Errorf("%w: t=%d needs 2t < %d in %s", ErrConfiguration, t, field.Order(), field)
	}

	gen := &Generator{t: t, field: field}
	gen.poly.SetOne()

	covered := make(map[int]bool)
	for i := 1; i <= 2*t; i++ {
		if covered[i] {
			continue
		}
		coset := cyclotomicCoset(i, field.Order())
		for _, j := range coset {
			covered[j] = true
		}
		minPoly, err := minimalPolynomial(field, coset)
		if err != nil {
			return nil, err
		}
		prod, err := gf2.Mul(&gen.poly, minPoly)
		if err != nil {
			return nil, fmt.Errorf("%w: generator for t=%d: %v", ErrConfiguration, t, err)
		}
		gen.poly.Set(prod)
		gen.cosets = append(gen.cosets, coset)
	}
	return gen, nil
}

// cyclotomicCoset returns {i, 2i, 4i, ...} mod order: the exponents of the
// conjugates of alpha^i.
func cyclotomicCoset(i, order int) []int {
	coset := []int{i % order}
	for j := (2 * i) % order; j != coset[0]; j = (2 * j) % order {
		coset = append(coset, j)
	}
	return coset
}

// minimalPolynomial multiplies out prod (x - alpha^j) over the coset. The
// product of a full conjugacy class has binary coefficients; anything else
// means the tables are inconsistent.
func minimalPolynomial(field *gf.Field, coset []int) (*uint256.Int, error) {
	roots := make([]gf.Element, len(coset))
	for k, j := range coset {
		roots[k] = field.Exp(j)
	}
	coeffs := field.PolyFromRoots(roots)

	p := new(uint256.Int)
	for deg, c := range coeffs {
		switch c {
		case 0:
		case 1:
			gf2.SetBit(p, deg)
		default:
			return nil, fmt.Errorf("%w: minimal polynomial of alpha^%d has non-binary coefficient %d",
				gf.ErrInvalidField, coset[0], c)
		}
	}
	return p, nil
}

// Poly returns a copy of g(x).
func (g *Generator) Poly() *uint256.Int {
	return new(uint256.Int).Set(&g.poly)
}

// Degree returns deg g(x), the number of parity bits the code needs.
func (g *Generator) Degree() int { return gf2.Degree(&g.poly) }

// T returns the designed correction capability.
func (g *Generator) T() int { return g.t }

// Field returns the field whose roots define g(x).
func (g *Generator) Field() *gf.Field { return g.field }

// Cosets returns the cyclotomic cosets that make up g(x).
func (g *Generator) Cosets() [][]int {
	out := make([][]int, len(g.cosets))
	for i, c := range g.cosets {
		out[i] = append([]int(nil), c...)
	}
	return out
}

// String renders g(x) in binary, highest degree first.
func (g *Generator) String() string {
	return gf2.Format(&g.poly, 0)
}

// Fits reports whether g can generate an (n, k) code.
func (g *Generator) Fits(n, k int) bool {
	return CheckGenerator(g, n, k) == nil
}

// CheckGenerator verifies that a generator fits an (n, k) code: n must not
// exceed the field's code length 2^m - 1 or the word size, and deg g(x)
// must not exceed n - k.
func CheckGenerator(g *Generator, n, k int) error {
	if k < 1 || n <= k {
		return fmt.Errorf("%w: n=%d k=%d, want 0 < k < n", ErrConfiguration, n, k)
	}
	if n > MaxWidth {
		return fmt.Errorf("%w: n=%d exceeds %d-bit word", ErrConfiguration, n, MaxWidth)
	}
	if n > g.field.Order() {
		return fmt.Errorf("%w: n=%d exceeds code length %d of %s", ErrConfiguration, n, g.field.Order(), g.field)
	}
	if d := g.Degree(); d > n-k {
		return fmt.Errorf("%w: generator degree %d exceeds n-k=%d", ErrConfiguration, d, n-k)
	}
	return nil
}
