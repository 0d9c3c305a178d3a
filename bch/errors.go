package bch

import (
	"errors"
	"fmt"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"
)

// Codec errors.
var (
	ErrConfiguration         = errors.New("bch: inconsistent code configuration")
	ErrInvalidLength         = errors.New("bch: invalid bit length")
	ErrUncorrectable         = errors.New("bch: uncorrectable error pattern")
	ErrMiscorrection         = errors.New("bch: miscorrection detected")
	ErrUnsupportedCapability = errors.New("bch: locator solver does not support this correction capability")
)

// DecodeError describes a decode attempt that detected errors but could not
// correct them. It wraps ErrUncorrectable or ErrMiscorrection.
type DecodeError struct {
	Err       error
	Syndromes []gf.Element
	// Degree is the degree of the error-locator polynomial, 0 if the
	// solver failed before producing one.
	Degree int
	// Roots is the number of error positions found by the Chien search.
	Roots int
}

func (e *DecodeError) Error() string {
	if e.Degree == 0 {
		return fmt.Sprintf("%v (syndromes %v)", e.Err, e.Syndromes)
	}
	return fmt.Sprintf("%v (locator degree %d, %d roots, syndromes %v)", e.Err, e.Degree, e.Roots, e.Syndromes)
}

func (e *DecodeError) Unwrap() error { return e.Err }
