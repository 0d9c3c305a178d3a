// Package frame protects arbitrary byte payloads with a BCH code.
//
// A payload is wrapped as
//
//	[length u32 BE][payload][CRC-16/XMODEM BE]
//
// and the resulting bit stream, most significant bit of each byte first,
// is cut into k-bit messages. The last message is zero padded. Every
// message is encoded into an n-bit codeword and written as ceil(n/8)
// big-endian bytes. The CRC covers the length and the payload and catches
// blocks the code miscorrected without noticing.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/holiman/uint256"
	"github.com/sigurn/crc16"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf2"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/log"
)

// Envelope sizes in bytes.
const (
	HeaderSize  = 4
	TrailerSize = 2
)

// Frame errors.
var (
	ErrChecksum  = errors.New("frame: checksum mismatch")
	ErrTruncated = errors.New("frame: truncated frame")
	ErrTooLarge  = errors.New("frame: payload too large")
)

var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// BlockReport lists the bits corrected in one codeword.
type BlockReport struct {
	Index     int
	Positions []int
}

// Report describes the blocks of a decoded frame.
type Report struct {
	Blocks    int
	Corrected []BlockReport
}

// BitsCorrected returns the number of bits flipped across all blocks.
func (r *Report) BitsCorrected() int {
	n := 0
	for _, b := range r.Corrected {
		n += len(b.Positions)
	}
	return n
}

// Codec frames payloads with one BCH code.
type Codec struct {
	code   *bch.Code
	logger *log.Logger
}

// New returns a Codec using code.
func New(code *bch.Code) *Codec {
	return &Codec{code: code, logger: log.Default().Module("frame")}
}

// BlockSize returns the encoded size of one codeword in bytes.
func (c *Codec) BlockSize() int { return bch.ByteLen(c.code.N()) }

// Blocks returns the number of codewords needed for a payload of size
// bytes.
func (c *Codec) Blocks(size int) int {
	bits := (HeaderSize + size + TrailerSize) * 8
	k := c.code.K()
	return (bits + k - 1) / k
}

// Encode wraps payload in the frame envelope and encodes it.
func (c *Codec) Encode(payload []byte) ([]byte, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(payload))
	}
	raw := make([]byte, HeaderSize+len(payload)+TrailerSize)
	binary.BigEndian.PutUint32(raw, uint32(len(payload)))
	copy(raw[HeaderSize:], payload)
	body := raw[:HeaderSize+len(payload)]
	binary.BigEndian.PutUint16(raw[len(body):], crc16.Checksum(body, crcTable))

	stream := toBits(raw)
	k := c.code.K()
	blocks := c.Blocks(len(payload))
	out := make([]byte, 0, blocks*c.BlockSize())
	for i := 0; i < blocks; i++ {
		msg, err := blockMessage(stream, i*k, k)
		if err != nil {
			return nil, err
		}
		cw, err := c.code.Encode(msg)
		if err != nil {
			return nil, fmt.Errorf("frame: block %d: %w", i, err)
		}
		out = append(out, cw.Bytes()...)
	}
	c.logger.Debug("Encoded frame", "payload", len(payload), "blocks", blocks, "bytes", len(out))
	return out, nil
}

// Decode corrects every codeword, reassembles the envelope and verifies the
// checksum. The report is returned even on failure and covers the blocks
// processed so far.
func (c *Codec) Decode(data []byte) ([]byte, *Report, error) {
	report := new(Report)
	size := c.BlockSize()
	if len(data) == 0 || len(data)%size != 0 {
		return nil, report, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte blocks", ErrTruncated, len(data), size)
	}

	n, k := c.code.N(), c.code.K()
	blocks := len(data) / size
	stream := bitset.New(uint(blocks * k))
	for i := 0; i < blocks; i++ {
		cw, err := bch.WordFromBytes(data[i*size:(i+1)*size], n)
		if err != nil {
			return nil, report, fmt.Errorf("frame: block %d: %w", i, err)
		}
		msg, res, err := c.code.DecodeMessage(cw)
		report.Blocks++
		if err != nil {
			return nil, report, fmt.Errorf("frame: block %d: %w", i, err)
		}
		if !res.Clean() {
			report.Corrected = append(report.Corrected, BlockReport{Index: i, Positions: res.Positions})
		}
		for j := 0; j < k; j++ {
			if msg.Bit(k-1-j) == 1 {
				stream.Set(uint(i*k + j))
			}
		}
	}

	raw := fromBits(stream, blocks*k/8)
	if len(raw) < HeaderSize+TrailerSize {
		return nil, report, fmt.Errorf("%w: %d bytes after decoding", ErrTruncated, len(raw))
	}
	length := binary.BigEndian.Uint32(raw)
	end := uint64(HeaderSize) + uint64(length)
	if end+TrailerSize > uint64(len(raw)) {
		return nil, report, fmt.Errorf("%w: header claims %d payload bytes, frame holds %d",
			ErrTruncated, length, len(raw)-HeaderSize-TrailerSize)
	}
	want := binary.BigEndian.Uint16(raw[end:])
	if got := crc16.Checksum(raw[:end], crcTable); got != want {
		return nil, report, fmt.Errorf("%w: computed %#04x, frame carries %#04x", ErrChecksum, got, want)
	}
	c.logger.Debug("Decoded frame", "payload", length, "blocks", blocks, "corrected", report.BitsCorrected())
	return append([]byte(nil), raw[HeaderSize:end]...), report, nil
}

// toBits expands b into a bit set, most significant bit of each byte first.
func toBits(b []byte) *bitset.BitSet {
	bits := bitset.New(uint(len(b) * 8))
	for i, v := range b {
		for j := 0; j < 8; j++ {
			if v&(0x80>>uint(j)) != 0 {
				bits.Set(uint(i*8 + j))
			}
		}
	}
	return bits
}

// fromBits packs the first size bytes of a bit set, the inverse of toBits.
func fromBits(bits *bitset.BitSet, size int) []byte {
	out := make([]byte, size)
	for i := range out {
		var v byte
		for j := 0; j < 8; j++ {
			if bits.Test(uint(i*8 + j)) {
				v |= 0x80 >> uint(j)
			}
		}
		out[i] = v
	}
	return out
}

// blockMessage reads k stream bits starting at off into a k-bit word. The
// first stream bit becomes the most significant message bit; bits past the
// end of the stream read as zero.
func blockMessage(stream *bitset.BitSet, off, k int) (bch.Word, error) {
	v := new(uint256.Int)
	for j := 0; j < k; j++ {
		if stream.Test(uint(off + j)) {
			gf2.SetBit(v, k-1-j)
		}
	}
	return bch.NewWord(v, k)
}
