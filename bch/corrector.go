package bch

// Correct returns a copy of cw with the bits at positions flipped. The
// received word is left untouched so it stays available for diagnostics.
func Correct(cw Word, positions []int) Word {
	return cw.Flip(positions...)
}
