// Package inject corrupts codewords with bit errors for testing and
// simulation.
package inject

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/holiman/uint256"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
)

// ErrPosition is returned for positions outside the word, duplicated
// positions, or more errors than the word has bits.
var ErrPosition = errors.New("inject: invalid error position")

// Flip returns a copy of w with the given bit positions inverted. Position
// 0 is the least significant bit. Every position must lie in [0, width)
// and appear once.
func Flip(w bch.Word, positions []int) (bch.Word, error) {
	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= w.Width() {
			return bch.Word{}, fmt.Errorf("%w: %d outside [0, %d)", ErrPosition, p, w.Width())
		}
		if seen[p] {
			return bch.Word{}, fmt.Errorf("%w: %d given twice", ErrPosition, p)
		}
		seen[p] = true
	}
	return w.Flip(positions...), nil
}

// RandomPositions draws count distinct positions from [0, n), uniformly,
// and returns them in ascending order. A nil rng uses the global source.
func RandomPositions(rng *rand.Rand, n, count int) ([]int, error) {
	if count < 0 || count > n {
		return nil, fmt.Errorf("%w: %d errors in %d bits", ErrPosition, count, n)
	}
	var perm []int
	if rng != nil {
		perm = rng.Perm(n)
	} else {
		perm = rand.Perm(n)
	}
	positions := perm[:count]
	sort.Ints(positions)
	return positions, nil
}

// Random flips count distinct random bits of w and returns the corrupted
// word with the positions used.
func Random(rng *rand.Rand, w bch.Word, count int) (bch.Word, []int, error) {
	positions, err := RandomPositions(rng, w.Width(), count)
	if err != nil {
		return bch.Word{}, nil, err
	}
	return w.Flip(positions...), positions, nil
}

// RandomWord returns a uniformly random word of the given width.
func RandomWord(rng *rand.Rand, width int) (bch.Word, error) {
	if width < 1 || width > bch.MaxWidth {
		return bch.Word{}, fmt.Errorf("%w: width %d", bch.ErrInvalidLength, width)
	}
	next := rand.Uint64
	if rng != nil {
		next = rng.Uint64
	}
	var v uint256.Int
	for i := range v {
		v[i] = next()
	}
	if width < bch.MaxWidth {
		var mask uint256.Int
		mask.Lsh(uint256.NewInt(1), uint(width))
		mask.SubUint64(&mask, 1)
		v.And(&v, &mask)
	}
	return bch.NewWord(&v, width)
}

// NewRand returns a generator seeded for reproducible runs.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
