package gf2

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func mustParse(t *testing.T, s string) *uint256.Int {
	t.Helper()
	p, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", s, err)
	}
	return p
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"10011", 0, "10011"},
		{"0b111010001", 0, "111010001"},
		{"0011", 0, "11"},
		{"11", 6, "000011"},
		{"0", 0, "0"},
		{"0", 3, "000"},
	}
	for _, tc := range cases {
		p := mustParse(t, tc.in)
		if got := Format(p, tc.width); got != tc.want {
			t.Errorf("Format(Parse(%q), %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"", "0b", "10201", "abc"} {
		if _, err := Parse(s); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) error = %v, want ErrSyntax", s, err)
		}
	}
	long := make([]byte, 257)
	for i := range long {
		long[i] = '1'
	}
	if _, err := Parse(string(long)); !errors.Is(err, ErrOverflow) {
		t.Errorf("Parse(257 digits) error = %v, want ErrOverflow", err)
	}
}

func TestDegreeAndBits(t *testing.T) {
	p, err := FromExponents(200, 64, 63, 0)
	if err != nil {
		t.Fatalf("FromExponents error: %v", err)
	}
	if Degree(p) != 200 {
		t.Errorf("Degree = %d, want 200", Degree(p))
	}
	for _, i := range []int{0, 63, 64, 200} {
		if Bit(p, i) != 1 {
			t.Errorf("Bit(%d) = 0, want 1", i)
		}
	}
	for _, i := range []int{1, 62, 65, 199, 255, -1, 300} {
		if Bit(p, i) != 0 {
			t.Errorf("Bit(%d) = 1, want 0", i)
		}
	}
	if Degree(new(uint256.Int)) != -1 {
		t.Error("Degree(0) != -1")
	}
	if _, err := FromExponents(256); !errors.Is(err, ErrOverflow) {
		t.Errorf("FromExponents(256) error = %v, want ErrOverflow", err)
	}
	FlipBit(p, 200)
	if Degree(p) != 64 {
		t.Errorf("after FlipBit Degree = %d, want 64", Degree(p))
	}
}

func TestMulKnown(t *testing.T) {
	// The BCH(15,7) generator is the product of the minimal polynomials
	// of alpha and alpha^3 in GF(16): (x^4+x+1)(x^4+x^3+x^2+x+1).
	m1 := mustParse(t, "10011")
	m3 := mustParse(t, "11111")
	got, err := Mul(m1, m3)
	if err != nil {
		t.Fatalf("Mul error: %v", err)
	}
	if s := Format(got, 0); s != "111010001" {
		t.Errorf("Mul = %s, want 111010001", s)
	}
	zero, _ := Mul(m1, new(uint256.Int))
	if !zero.IsZero() {
		t.Error("Mul by zero is not zero")
	}
}

func TestMulOverflow(t *testing.T) {
	a, _ := FromExponents(200)
	b, _ := FromExponents(56)
	if _, err := Mul(a, b); !errors.Is(err, ErrOverflow) {
		t.Fatalf("Mul(x^200, x^56) error = %v, want ErrOverflow", err)
	}
	c, _ := FromExponents(55)
	p, err := Mul(a, c)
	if err != nil {
		t.Fatalf("Mul(x^200, x^55) error: %v", err)
	}
	if Degree(p) != 255 {
		t.Errorf("Degree = %d, want 255", Degree(p))
	}
}

func TestDivKnown(t *testing.T) {
	// 1010101 shifted by 8 divided by the BCH(15,7) generator.
	p := mustParse(t, "101010100000000")
	g := mustParse(t, "111010001")
	quo, rem, err := Div(p, g)
	if err != nil {
		t.Fatalf("Div error: %v", err)
	}
	if s := Format(rem, Degree(g)); s != "11100101" {
		t.Errorf("remainder = %s, want 11100101", s)
	}
	if s := Format(quo, 0); s != "1110101" {
		t.Errorf("quotient = %s, want 1110101", s)
	}
}

func TestDivReconstructs(t *testing.T) {
	g := mustParse(t, "11101101001")
	for _, s := range []string{"1", "1011", "1111111111111111", "1000000000000000000000000000001"} {
		p := mustParse(t, s)
		quo, rem, err := Div(p, g)
		if err != nil {
			t.Fatalf("Div(%s) error: %v", s, err)
		}
		if Degree(rem) >= Degree(g) {
			t.Errorf("deg rem = %d, want < %d", Degree(rem), Degree(g))
		}
		back, err := Mul(quo, g)
		if err != nil {
			t.Fatalf("Mul error: %v", err)
		}
		back.Xor(back, rem)
		if !back.Eq(p) {
			t.Errorf("quo*g + rem = %s, want %s", Format(back, 0), s)
		}
	}
}

func TestDivByZero(t *testing.T) {
	if _, _, err := Div(uint256.NewInt(5), new(uint256.Int)); !errors.Is(err, ErrZeroDivisor) {
		t.Fatalf("Div by zero error = %v, want ErrZeroDivisor", err)
	}
	if _, err := Mod(uint256.NewInt(5), new(uint256.Int)); !errors.Is(err, ErrZeroDivisor) {
		t.Fatalf("Mod by zero error = %v, want ErrZeroDivisor", err)
	}
}
