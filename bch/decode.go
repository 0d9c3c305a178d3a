package bch

import (
	"errors"
	"fmt"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/log"
)

// Result is the outcome of a decode attempt. Corrected equals Received when
// the word was clean or when decoding failed.
type Result struct {
	Received  Word
	Corrected Word
	// Positions lists the flipped bits in ascending order.
	Positions []int
	Syndromes []gf.Element
}

// Clean reports whether the received word needed no correction.
func (r Result) Clean() bool { return len(r.Positions) == 0 }

// Decode corrects up to t bit errors in an n-bit codeword using the
// closed-form locator solver. gen must have been built for field and t.
func Decode(cw Word, field *gf.Field, gen *Generator, n, k, t int) (Result, error) {
	return decode(cw, field, gen, n, k, t, ClosedForm{}, log.Default().Module("bch"))
}

func decode(cw Word, field *gf.Field, gen *Generator, n, k, t int, solver LocatorSolver, logger *log.Logger) (Result, error) {
	res := Result{Received: cw, Corrected: cw}
	if cw.Width() != n {
		return res, fmt.Errorf("%w: codeword has %d bits, want %d", ErrInvalidLength, cw.Width(), n)
	}
	if gen.T() != t || gen.Field().M() != field.M() || gen.Field().Poly() != field.Poly() {
		return res, fmt.Errorf("%w: generator built for t=%d over %s, decoding t=%d over %s",
			ErrConfiguration, gen.T(), gen.Field(), t, field)
	}
	if err := CheckGenerator(gen, n, k); err != nil {
		return res, err
	}

	res.Syndromes = Syndromes(field, cw, t)
	if SyndromesZero(res.Syndromes) {
		return res, nil
	}
	logger.Debug("Non-zero syndromes", "syndromes", res.Syndromes)

	loc, err := solver.Solve(field, res.Syndromes)
	if err != nil {
		if errors.Is(err, ErrUncorrectable) {
			return res, &DecodeError{Err: ErrUncorrectable, Syndromes: res.Syndromes}
		}
		return res, err
	}
	logger.Debug("Solved error locator", "degree", loc.Degree(), "coeffs", loc.Coeffs)

	positions, err := Locate(field, loc, n)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Syndromes = res.Syndromes
		}
		return res, err
	}

	corrected := Correct(cw, positions)
	if !IsCodeword(corrected, gen) {
		return res, &DecodeError{
			Err:       ErrMiscorrection,
			Syndromes: res.Syndromes,
			Degree:    loc.Degree(),
			Roots:     len(positions),
		}
	}
	logger.Debug("Corrected codeword", "positions", positions)

	res.Corrected = corrected
	res.Positions = positions
	return res, nil
}
