package bch

import "github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"

// Syndromes evaluates the received word, read as c(x) = sum c_j x^j, at
// alpha^1..alpha^2t. Each evaluation runs Horner's rule from the highest
// bit down so no power of alpha^i is recomputed.
func Syndromes(field *gf.Field, cw Word, t int) []gf.Element {
	if t < 1 {
		return nil
	}
	syndromes := make([]gf.Element, 2*t)
	for i := 1; i <= 2*t; i++ {
		x := field.Exp(i)
		var s gf.Element
		for j := cw.Width() - 1; j >= 0; j-- {
			s = field.Mul(s, x)
			if cw.Bit(j) == 1 {
				s ^= 1
			}
		}
		syndromes[i-1] = s
	}
	return syndromes
}

// SyndromesZero reports whether every syndrome is zero, i.e. whether the
// word is a multiple of the generator polynomial.
func SyndromesZero(syndromes []gf.Element) bool {
	for _, s := range syndromes {
		if s != 0 {
			return false
		}
	}
	return true
}
