package bch

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf2"
)

// Encode produces the systematic n-bit codeword for a k-bit message: the
// message is shifted up by n-k bits and the remainder of dividing it by
// g(x) fills the low n-k parity bits. The resulting codeword is divisible
// by g(x) and carries the message unchanged in its high k bits.
func Encode(msg Word, gen *Generator, n, k int) (Word, error) {
	if msg.Width() != k {
		return Word{}, fmt.Errorf("%w: message has %d bits, want %d", ErrInvalidLength, msg.Width(), k)
	}
	if err := CheckGenerator(gen, n, k); err != nil {
		return Word{}, err
	}

	shifted := new(uint256.Int).Lsh(&msg.bits, uint(n-k))
	rem, err := gf2.Mod(shifted, &gen.poly)
	if err != nil {
		return Word{}, err
	}
	cw := Word{width: n}
	cw.bits.Xor(shifted, rem)
	return cw, nil
}

// Message extracts the k message bits from an n-bit systematic codeword.
func Message(cw Word, n, k int) (Word, error) {
	if cw.Width() != n {
		return Word{}, fmt.Errorf("%w: codeword has %d bits, want %d", ErrInvalidLength, cw.Width(), n)
	}
	if k < 1 || k >= n {
		return Word{}, fmt.Errorf("%w: n=%d k=%d", ErrConfiguration, n, k)
	}
	msg := Word{width: k}
	msg.bits.Rsh(&cw.bits, uint(n-k))
	return msg, nil
}

// Parity extracts the n-k parity bits from an n-bit systematic codeword.
func Parity(cw Word, n, k int) (Word, error) {
	if cw.Width() != n {
		return Word{}, fmt.Errorf("%w: codeword has %d bits, want %d", ErrInvalidLength, cw.Width(), n)
	}
	if k < 1 || k >= n {
		return Word{}, fmt.Errorf("%w: n=%d k=%d", ErrConfiguration, n, k)
	}
	var mask uint256.Int
	mask.SetOne()
	mask.Lsh(&mask, uint(n-k))
	mask.SubUint64(&mask, 1)
	p := Word{width: n - k}
	p.bits.And(&cw.bits, &mask)
	return p, nil
}

// IsCodeword reports whether cw is divisible by g(x).
func IsCodeword(cw Word, gen *Generator) bool {
	rem, err := gf2.Mod(&cw.bits, &gen.poly)
	return err == nil && rem.IsZero()
}
