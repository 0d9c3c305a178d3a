package bch

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf2"
)

// MaxWidth is the widest bit string a Word can hold.
const MaxWidth = gf2.MaxDegree + 1

// Word is a fixed-width bit string used for messages and codewords. Bit i
// is the coefficient of x^i when the word is read as a polynomial, so bit 0
// is the rightmost character of String. Words are values; every operation
// returns a new Word.
type Word struct {
	bits  uint256.Int
	width int
}

// NewWord wraps v as a Word of the given width. It fails if v does not fit.
func NewWord(v *uint256.Int, width int) (Word, error) {
	if width < 1 || width > MaxWidth {
		return Word{}, fmt.Errorf("%w: width %d outside [1, %d]", ErrInvalidLength, width, MaxWidth)
	}
	if v.BitLen() > width {
		return Word{}, fmt.Errorf("%w: value needs %d bits, width is %d", ErrInvalidLength, v.BitLen(), width)
	}
	w := Word{width: width}
	w.bits.Set(v)
	return w, nil
}

// ParseWord reads a binary string, most significant bit first. The width of
// the word is the length of the string, leading zeros included. Underscores
// and spaces are ignored so long words can be grouped.
func ParseWord(s string) (Word, error) {
	s = strings.TrimPrefix(s, "0b")
	s = strings.NewReplacer("_", "", " ", "").Replace(s)
	if len(s) < 1 || len(s) > MaxWidth {
		return Word{}, fmt.Errorf("%w: %d bits", ErrInvalidLength, len(s))
	}
	v, err := gf2.Parse(s)
	if err != nil {
		return Word{}, err
	}
	return Word{bits: *v, width: len(s)}, nil
}

// WordFromBytes reads a big-endian buffer of exactly ceil(width/8) bytes.
// The unused high bits of the first byte must be zero.
func WordFromBytes(b []byte, width int) (Word, error) {
	if width < 1 || width > MaxWidth {
		return Word{}, fmt.Errorf("%w: width %d outside [1, %d]", ErrInvalidLength, width, MaxWidth)
	}
	if want := ByteLen(width); len(b) != want {
		return Word{}, fmt.Errorf("%w: %d bytes for a %d-bit word, want %d", ErrInvalidLength, len(b), width, want)
	}
	return NewWord(new(uint256.Int).SetBytes(b), width)
}

// ByteLen returns ceil(width/8).
func ByteLen(width int) int {
	return (width + 7) / 8
}

// Width returns the number of bits in the word.
func (w Word) Width() int { return w.width }

// Bit returns bit i (the coefficient of x^i).
func (w Word) Bit(i int) uint {
	if i < 0 || i >= w.width {
		return 0
	}
	return gf2.Bit(&w.bits, i)
}

// Value returns a copy of the word's bits as an integer.
func (w Word) Value() *uint256.Int {
	return new(uint256.Int).Set(&w.bits)
}

// Flip returns a copy of w with the given positions inverted. Positions
// outside [0, width) are ignored; callers validate them beforehand.
func (w Word) Flip(positions ...int) Word {
	out := w
	for _, p := range positions {
		if p >= 0 && p < w.width {
			gf2.FlipBit(&out.bits, p)
		}
	}
	return out
}

// Equal reports whether two words have the same width and bits.
func (w Word) Equal(o Word) bool {
	return w.width == o.width && w.bits.Eq(&o.bits)
}

// Weight returns the number of set bits.
func (w Word) Weight() int {
	n := 0
	for i := 0; i < w.width; i++ {
		n += int(w.Bit(i))
	}
	return n
}

// Diff returns the ascending positions at which w and o differ. Words of
// different widths are compared over the wider width.
func (w Word) Diff(o Word) []int {
	width := w.width
	if o.width > width {
		width = o.width
	}
	var x uint256.Int
	x.Xor(&w.bits, &o.bits)
	var positions []int
	for i := 0; i < width; i++ {
		if gf2.Bit(&x, i) == 1 {
			positions = append(positions, i)
		}
	}
	return positions
}

// Bytes returns the word as a big-endian buffer of ceil(width/8) bytes.
func (w Word) Bytes() []byte {
	return w.bits.PaddedBytes(ByteLen(w.width))
}

// String renders the word in binary, most significant bit first.
func (w Word) String() string {
	if w.width == 0 {
		return ""
	}
	return gf2.Format(&w.bits, w.width)
}
