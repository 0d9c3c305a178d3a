package bch

import (
	"errors"
	"reflect"
	"testing"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf2"
)

func mustField(t *testing.T, m int, poly uint32) *gf.Field {
	t.Helper()
	f, err := gf.New(m, poly)
	if err != nil {
		t.Fatalf("gf.New(%d, %#x): %v", m, poly, err)
	}
	return f
}

func mustGenerator(t *testing.T, f *gf.Field, tt int) *Generator {
	t.Helper()
	g, err := BuildGenerator(f, tt)
	if err != nil {
		t.Fatalf("BuildGenerator(%s, %d): %v", f, tt, err)
	}
	return g
}

func TestBuildGeneratorKnown(t *testing.T) {
	tests := []struct {
		m    int
		poly uint32
		t    int
		want uint64
		deg  int
	}{
		{4, 0x13, 1, 0b10011, 4},
		{4, 0x13, 2, 0b111010001, 8},
		{4, 0x13, 3, 0b10100110111, 10},
		{5, 0x25, 2, 0x769, 10},
		{8, 0x11D, 2, 0x16F63, 16},
	}
	for _, tt := range tests {
		g := mustGenerator(t, mustField(t, tt.m, tt.poly), tt.t)
		if got := g.Poly().Uint64(); got != tt.want {
			t.Errorf("m=%d t=%d: g = %#x, want %#x", tt.m, tt.t, got, tt.want)
		}
		if g.Degree() != tt.deg {
			t.Errorf("m=%d t=%d: degree = %d, want %d", tt.m, tt.t, g.Degree(), tt.deg)
		}
		if g.T() != tt.t {
			t.Errorf("T() = %d, want %d", g.T(), tt.t)
		}
	}
}

func TestGeneratorCosets(t *testing.T) {
	g := mustGenerator(t, mustField(t, 4, 0x13), 2)
	want := [][]int{{1, 2, 4, 8}, {3, 6, 12, 9}}
	if got := g.Cosets(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Cosets = %v, want %v", got, want)
	}
	if g.String() != "111010001" {
		t.Fatalf("String = %s, want 111010001", g)
	}
}

func TestGeneratorRootsVanish(t *testing.T) {
	f := mustField(t, 5, 0x25)
	g := mustGenerator(t, f, 3)
	coeffs := make([]gf.Element, g.Degree()+1)
	for i := range coeffs {
		coeffs[i] = gf.Element(gf2.Bit(g.Poly(), i))
	}
	for i := 1; i <= 6; i++ {
		if v := f.PolyEval(coeffs, f.Exp(i)); v != 0 {
			t.Errorf("g(alpha^%d) = %d, want 0", i, v)
		}
	}
}

func TestBuildGeneratorErrors(t *testing.T) {
	f := mustField(t, 4, 0x13)
	for _, tt := range []int{0, -1, 8, 9} {
		if _, err := BuildGenerator(f, tt); !errors.Is(err, ErrConfiguration) {
			t.Errorf("t=%d: err = %v, want ErrConfiguration", tt, err)
		}
	}
	// t=7 is the largest t with 2t < 15: the repetition code.
	if g := mustGenerator(t, f, 7); g.Degree() != 14 {
		t.Errorf("t=7 degree = %d, want 14", g.Degree())
	}

	// Twenty cosets of sixteen conjugates do not fit a 256-bit word.
	big := mustField(t, 16, 0x1100B)
	if _, err := BuildGenerator(big, 20); !errors.Is(err, ErrConfiguration) {
		t.Errorf("m=16 t=20: err = %v, want ErrConfiguration", err)
	}
}

func TestCheckGenerator(t *testing.T) {
	g := mustGenerator(t, mustField(t, 4, 0x13), 2)
	tests := []struct {
		n, k int
		ok   bool
	}{
		{15, 7, true},
		{15, 5, true}, // degree below n-k is allowed
		{12, 4, true}, // shortened
		{15, 9, false},
		{16, 8, false},
		{15, 15, false},
		{15, 0, false},
	}
	for _, tt := range tests {
		err := CheckGenerator(g, tt.n, tt.k)
		if tt.ok && err != nil {
			t.Errorf("(%d,%d): unexpected error %v", tt.n, tt.k, err)
		}
		if !tt.ok && !errors.Is(err, ErrConfiguration) {
			t.Errorf("(%d,%d): err = %v, want ErrConfiguration", tt.n, tt.k, err)
		}
		if g.Fits(tt.n, tt.k) != tt.ok {
			t.Errorf("Fits(%d,%d) = %v, want %v", tt.n, tt.k, !tt.ok, tt.ok)
		}
	}
}
