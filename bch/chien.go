package bch

import "github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"

// Locate runs a Chien search over the n codeword positions: position i is
// in error when Lambda(alpha^-i) = 0. The number of roots must match the
// locator's degree. Fewer roots mean the locator does not split over the
// code positions, which happens when more than t errors occurred, and the
// search fails with ErrMiscorrection rather than apply a partial fix.
func Locate(field *gf.Field, loc Locator, n int) ([]int, error) {
	var positions []int
	for i := 0; i < n; i++ {
		if field.PolyEval(loc.Coeffs, field.Exp(-i)) == 0 {
			positions = append(positions, i)
		}
	}
	if deg := loc.Degree(); len(positions) != deg || deg == 0 {
		return positions, &DecodeError{Err: ErrMiscorrection, Degree: deg, Roots: len(positions)}
	}
	return positions, nil
}
