package frame

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
)

func newCodec(t *testing.T, cfg bch.Config) *Codec {
	t.Helper()
	code, err := bch.New(cfg)
	require.NoError(t, err)
	return New(code)
}

func payload(size int, seed int64) []byte {
	b := make([]byte, size)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

func TestRoundTrip(t *testing.T) {
	configs := []bch.Config{
		bch.DefaultConfig(),
		{N: 255, K: 239, T: 2, M: 8},
		{N: 64, K: 48, T: 2, M: 8},
	}
	for _, cfg := range configs {
		c := newCodec(t, cfg)
		for _, size := range []int{0, 1, 7, 100, 1000} {
			in := payload(size, int64(size))
			enc, err := c.Encode(in)
			require.NoError(t, err)
			assert.Len(t, enc, c.Blocks(size)*c.BlockSize(), "%v size %d", cfg, size)

			out, report, err := c.Decode(enc)
			require.NoError(t, err, "%v size %d", cfg, size)
			assert.True(t, bytes.Equal(in, out), "%v size %d", cfg, size)
			assert.Empty(t, report.Corrected)
			assert.Equal(t, c.Blocks(size), report.Blocks)
		}
	}
}

func TestBlocks(t *testing.T) {
	c := newCodec(t, bch.DefaultConfig())
	assert.Equal(t, 2, c.BlockSize())
	assert.Equal(t, 30, c.Blocks(20))
	assert.Equal(t, 7, c.Blocks(0))
}

func TestCorrectsBitErrors(t *testing.T) {
	c := newCodec(t, bch.DefaultConfig())
	in := []byte("error correcting codes")
	enc, err := c.Encode(in)
	require.NoError(t, err)

	// Two errors in every block: word bits 0 and 14.
	for i := 0; i < len(enc); i += 2 {
		enc[i] ^= 0x40
		enc[i+1] ^= 0x01
	}
	out, report, err := c.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	require.Len(t, report.Corrected, c.Blocks(len(in)))
	assert.Equal(t, BlockReport{Index: 3, Positions: []int{0, 14}}, report.Corrected[3])
	assert.Equal(t, 2*c.Blocks(len(in)), report.BitsCorrected())
}

func TestUncorrectableBlock(t *testing.T) {
	c := newCodec(t, bch.DefaultConfig())
	enc, err := c.Encode(payload(20, 1))
	require.NoError(t, err)

	enc[5*2+1] ^= 0x13 // bits 0, 1 and 4 of block 5
	_, report, err := c.Decode(enc)
	require.ErrorIs(t, err, bch.ErrUncorrectable)
	assert.Contains(t, err.Error(), "block 5")
	assert.Equal(t, 6, report.Blocks)
}

func TestChecksumCatchesMiscorrection(t *testing.T) {
	c := newCodec(t, bch.DefaultConfig())
	enc, err := c.Encode(payload(20, 2))
	require.NoError(t, err)

	// Bits 0, 1 and 2 of a payload block decode cleanly to the wrong
	// codeword, flipping message bits 9 and 13.
	enc[10*2+1] ^= 0x07
	_, report, err := c.Decode(enc)
	require.ErrorIs(t, err, ErrChecksum)
	require.Len(t, report.Corrected, 1)
	assert.Equal(t, BlockReport{Index: 10, Positions: []int{9, 13}}, report.Corrected[0])
}

func TestTruncated(t *testing.T) {
	c := newCodec(t, bch.DefaultConfig())
	enc, err := c.Encode(payload(20, 3))
	require.NoError(t, err)

	_, _, err = c.Decode(enc[:len(enc)-1])
	assert.ErrorIs(t, err, ErrTruncated)
	_, _, err = c.Decode(nil)
	assert.ErrorIs(t, err, ErrTruncated)
	_, _, err = c.Decode(enc[:len(enc)-4])
	assert.ErrorIs(t, err, ErrTruncated)
	_, _, err = c.Decode(enc[:4])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestInvalidBlockBytes(t *testing.T) {
	c := newCodec(t, bch.DefaultConfig())
	enc, err := c.Encode([]byte{1})
	require.NoError(t, err)
	enc[0] |= 0x80 // the 16th bit does not exist in a 15-bit codeword
	_, _, err = c.Decode(enc)
	assert.ErrorIs(t, err, bch.ErrInvalidLength)
}

func TestBitsRoundTrip(t *testing.T) {
	in := []byte{0x80, 0x01, 0xa5}
	bits := toBits(in)
	assert.True(t, bits.Test(0))
	assert.False(t, bits.Test(1))
	assert.True(t, bits.Test(15))
	assert.Equal(t, in, fromBits(bits, 3))

	msg, err := blockMessage(bits, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, "1000000", msg.String())
	msg, err = blockMessage(bits, 20, 7)
	require.NoError(t, err)
	assert.Equal(t, "0101000", msg.String())
}
