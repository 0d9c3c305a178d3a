// Package render formats codewords and decode outcomes for people: binary
// and hex forms, a per-bit coloured diff and a plain-text report.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
)

// ANSI colour escape codes.
const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiBold   = "\033[1m"
)

// Terminal returns a writer for f and whether it supports colour. Colour is
// enabled only for terminals other than TERM=dumb; on Windows the writer
// translates ANSI sequences.
func Terminal(f *os.File) (io.Writer, bool) {
	fd := f.Fd()
	color := (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
	if color {
		return colorable.NewColorable(f), true
	}
	return colorable.NewNonColorable(f), false
}

// Binary renders w most significant bit first.
func Binary(w bch.Word) string { return w.String() }

// Hex renders w as 0x-prefixed big-endian bytes.
func Hex(w bch.Word) string { return hexutil.Encode(w.Bytes()) }

// ParseHex reads a hex string (0x prefix optional) of exactly ceil(width/8)
// bytes into a width-bit word.
func ParseHex(s string, width int) (bch.Word, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return bch.Word{}, fmt.Errorf("%w: %v", bch.ErrInvalidLength, err)
	}
	return bch.WordFromBytes(b, width)
}

// ParseWord reads a word given either in binary or, with a 0x prefix, in
// hex. Binary input fixes the width by its length.
func ParseWord(s string, width int) (bch.Word, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return ParseHex(s, width)
	}
	w, err := bch.ParseWord(s)
	if err != nil {
		return bch.Word{}, err
	}
	if w.Width() != width {
		return bch.Word{}, fmt.Errorf("%w: %d bits, want %d", bch.ErrInvalidLength, w.Width(), width)
	}
	return w, nil
}

// Mark classifies a bit in a diff.
type Mark int

const (
	MarkNone Mark = iota
	// MarkFixed is an injected error the decoder flipped back.
	MarkFixed
	// MarkMissed is an injected error the decoder left in place.
	MarkMissed
	// MarkSpurious is a bit the decoder flipped that was never corrupted.
	MarkSpurious
)

func (m Mark) color() string {
	switch m {
	case MarkFixed:
		return ansiGreen
	case MarkMissed:
		return ansiRed
	case MarkSpurious:
		return ansiYellow
	}
	return ""
}

func (m Mark) symbol() byte {
	switch m {
	case MarkFixed:
		return '^'
	case MarkMissed:
		return 'x'
	case MarkSpurious:
		return '?'
	}
	return ' '
}

// Classify marks every position that was injected, corrected or both.
func Classify(injected, corrected []int) map[int]Mark {
	marks := make(map[int]Mark, len(injected)+len(corrected))
	for _, p := range injected {
		marks[p] = MarkMissed
	}
	for _, p := range corrected {
		if marks[p] == MarkMissed {
			marks[p] = MarkFixed
		} else {
			marks[p] = MarkSpurious
		}
	}
	return marks
}

// Diff renders w with each marked bit highlighted and a second line of
// markers beneath it: ^ fixed, x missed, ? spurious. Colour is applied to
// the first line only when color is set.
func Diff(w bch.Word, injected, corrected []int, color bool) string {
	marks := Classify(injected, corrected)
	bits := w.String()
	width := len(bits)

	var line, under strings.Builder
	for i := 0; i < width; i++ {
		pos := width - 1 - i
		m := marks[pos]
		if color && m != MarkNone {
			line.WriteString(ansiBold + m.color())
			line.WriteByte(bits[i])
			line.WriteString(ansiReset)
		} else {
			line.WriteByte(bits[i])
		}
		under.WriteByte(m.symbol())
	}
	return line.String() + "\n" + strings.TrimRight(under.String(), " ")
}

// Outcome summarises a decode result in a few words.
func Outcome(res bch.Result, err error) string {
	switch {
	case err == nil && res.Clean():
		return "clean"
	case err == nil:
		return fmt.Sprintf("corrected %d bit(s)", len(res.Positions))
	case errors.Is(err, bch.ErrUncorrectable):
		return "uncorrectable"
	case errors.Is(err, bch.ErrMiscorrection):
		return "miscorrection detected"
	default:
		return "error: " + err.Error()
	}
}

// Report writes a plain-text account of one decode. injected may be nil
// when the error pattern is unknown.
func Report(w io.Writer, res bch.Result, err error, injected []int, color bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Received:  %s (%s)\n", Binary(res.Received), Hex(res.Received))
	fmt.Fprintf(&b, "Syndromes: %v\n", res.Syndromes)
	if injected != nil {
		fmt.Fprintf(&b, "Injected:  %v\n", injected)
	}
	if err == nil {
		fmt.Fprintf(&b, "Corrected: %s (%s)\n", Binary(res.Corrected), Hex(res.Corrected))
		fmt.Fprintf(&b, "Positions: %v\n", res.Positions)
	}
	if injected != nil || len(res.Positions) > 0 {
		diff := Diff(res.Received, injected, res.Positions, color)
		fmt.Fprintf(&b, "Diff:\n%s\n", diff)
	}
	status := Outcome(res, err)
	if color {
		c := ansiGreen
		if err != nil {
			c = ansiRed
		}
		status = c + status + ansiReset
	}
	fmt.Fprintf(&b, "Status:    %s\n", status)
	_, werr := io.WriteString(w, b.String())
	return werr
}
