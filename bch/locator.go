package bch

import (
	"fmt"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"
)

// Locator is the error-locator polynomial
//
//	Lambda(x) = 1 + s1*x + s2*x^2 + ... + sv*x^v
//
// whose roots are the inverses alpha^-j of the error locations alpha^j.
// s1..sv are the elementary symmetric functions of the error locations,
// the same coefficients as the monic form x^v + s1*x^(v-1) + ... + sv.
type Locator struct {
	// Coeffs[0] is always 1; Coeffs[i] is s_i.
	Coeffs []gf.Element
}

// Degree returns v, the number of errors the locator describes.
func (l Locator) Degree() int {
	for i := len(l.Coeffs) - 1; i > 0; i-- {
		if l.Coeffs[i] != 0 {
			return i
		}
	}
	return 0
}

// Sigma returns the coefficient s_i, or zero past the degree.
func (l Locator) Sigma(i int) gf.Element {
	if i < 0 || i >= len(l.Coeffs) {
		return 0
	}
	return l.Coeffs[i]
}

// LocatorSolver derives the error-locator polynomial from the 2t syndromes
// of a received word. Implementations must return an error wrapping
// ErrUncorrectable when the syndromes cannot come from t or fewer errors
// and ErrUnsupportedCapability when they cannot handle 2t syndromes.
//
// ClosedForm covers t <= 2. An iterative key-equation solver such as
// Berlekamp-Massey plugs in here for larger t through WithSolver.
type LocatorSolver interface {
	// Capability returns the largest t the solver handles.
	Capability() int
	Solve(field *gf.Field, syndromes []gf.Element) (Locator, error)
}

// ClosedForm solves the Newton identities directly (Peterson's method) for
// codes correcting one or two errors.
type ClosedForm struct{}

// Capability implements LocatorSolver.
func (ClosedForm) Capability() int { return 2 }

// Solve implements LocatorSolver.
func (ClosedForm) Solve(field *gf.Field, syndromes []gf.Element) (Locator, error) {
	switch len(syndromes) {
	case 2:
		return solveSingle(field, syndromes)
	case 4:
		return solveDouble(field, syndromes)
	default:
		return Locator{}, fmt.Errorf("%w: %d syndromes", ErrUnsupportedCapability, len(syndromes))
	}
}

// solveSingle handles t = 1. For a binary code S2 = S1^2 always holds, so
// any non-zero S1 names exactly one error location.
func solveSingle(field *gf.Field, s []gf.Element) (Locator, error) {
	if s[0] == 0 {
		return Locator{}, ErrUncorrectable
	}
	return Locator{Coeffs: []gf.Element{1, s[0]}}, nil
}

// solveDouble handles t = 2. With v = 2 the Newton identities give
//
//	S2*s1 + S1*s2 = S3
//	S3*s1 + S2*s2 = S4
//
// which has determinant D = S1*S3 + S2^2. D = 0 means fewer than two
// errors; the single-error pattern is recognised by S3 = S1^3 and anything
// else is beyond the correction radius.
func solveDouble(field *gf.Field, s []gf.Element) (Locator, error) {
	s1, s2, s3, s4 := s[0], s[1], s[2], s[3]

	d := field.Add(field.Mul(s1, s3), field.Mul(s2, s2))
	if d == 0 {
		if s1 != 0 && s3 == field.Pow(s1, 3) {
			return Locator{Coeffs: []gf.Element{1, s1}}, nil
		}
		return Locator{}, ErrUncorrectable
	}
	inv, err := field.Inv(d)
	if err != nil {
		return Locator{}, err
	}
	sigma1 := field.Mul(field.Add(field.Mul(s2, s3), field.Mul(s1, s4)), inv)
	sigma2 := field.Mul(field.Add(field.Mul(s2, s4), field.Mul(s3, s3)), inv)
	return Locator{Coeffs: []gf.Element{1, sigma1, sigma2}}, nil
}
