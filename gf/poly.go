package gf

// Polynomials over GF(2^m) are slices of coefficients with coeffs[0] the
// constant term and coeffs[len-1] the highest degree term.

// PolyEval evaluates a polynomial at x using Horner's method.
func (f *Field) PolyEval(coeffs []Element, x Element) Element {
	if len(coeffs) == 0 {
		return 0
	}
	result := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.Add(f.Mul(result, x), coeffs[i])
	}
	return result
}

// PolyMul multiplies two polynomials over GF(2^m).
func (f *Field) PolyMul(p1, p2 []Element) []Element {
	if len(p1) == 0 || len(p2) == 0 {
		return nil
	}
	result := make([]Element, len(p1)+len(p2)-1)
	for i, a := range p1 {
		for j, b := range p2 {
			result[i+j] ^= f.Mul(a, b)
		}
	}
	return result
}

// PolyFromRoots returns the monic polynomial (x - r0)(x - r1)...(x - rn).
func (f *Field) PolyFromRoots(roots []Element) []Element {
	poly := []Element{1}
	for _, r := range roots {
		// x - r = x + r in characteristic 2.
		poly = f.PolyMul(poly, []Element{r, 1})
	}
	return poly
}
