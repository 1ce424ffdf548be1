package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMinimalGrayscaleJPEG assembles a one-block (8x8) grayscale baseline
// JPEG: one quantization table of all-1s, a DC table whose only code
// always decodes to magnitude 0, an AC table whose only code is an
// immediate EOB, and a single entropy-coded block that is therefore flat
// (DC=0, every AC coefficient 0).
func buildMinimalGrayscaleJPEG() []byte {
	var b []byte
	put16 := func(v uint16) { b = append(b, byte(v>>8), byte(v)) }

	b = append(b, 0xFF, 0xD8) // SOI

	// DQT: table 0, all entries 1.
	b = append(b, 0xFF, 0xDB)
	put16(2 + 1 + 64)
	b = append(b, 0x00)
	for i := 0; i < 64; i++ {
		b = append(b, 0x01)
	}

	// DHT: DC table 0, single 1-bit code -> magnitude 0.
	b = append(b, 0xFF, 0xC4)
	put16(2 + 1 + 16 + 1)
	b = append(b, 0x00) // class 0 (DC), index 0
	counts := make([]byte, 16)
	counts[0] = 1
	b = append(b, counts...)
	b = append(b, 0x00) // symbol: magnitude 0

	// DHT: AC table 0, single 1-bit code -> EOB.
	b = append(b, 0xFF, 0xC4)
	put16(2 + 1 + 16 + 1)
	b = append(b, 0x10) // class 1 (AC), index 0
	b = append(b, counts...)
	b = append(b, 0x00) // symbol: EOB

	// SOF0: 8x8, 1 component.
	b = append(b, 0xFF, 0xC0)
	put16(2 + 1 + 2 + 2 + 1 + 3)
	b = append(b, 0x08) // precision
	put16(8)            // height
	put16(8)             // width
	b = append(b, 0x01) // nc
	b = append(b, 0x01, 0x11, 0x00) // id=1, h=1 v=1, quant table 0

	// SOS: 1 component, full spectral band, no successive approximation.
	b = append(b, 0xFF, 0xDA)
	put16(2 + 1 + 2 + 3)
	b = append(b, 0x01)       // ns
	b = append(b, 0x01, 0x00) // cs=1, td=0/ta=0
	b = append(b, 0x00, 0x3F, 0x00) // ss=0, se=63, ah=0/al=0

	b = append(b, 0x00) // entropy data: DC-code "0", AC-code "0", padded

	b = append(b, 0xFF, 0xD9) // EOI
	return b
}

func TestParseAndDecodeMinimalGrayscale(t *testing.T) {
	data := buildMinimalGrayscaleJPEG()

	img, dim, err := Decode(data, DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 8, dim.Width)
	assert.Equal(t, 8, dim.Height)
	assert.False(t, img.IsColor())
	require.Len(t, img.blocks[0], 1)
	for i, v := range img.blocks[0][0] {
		assert.Equalf(t, uint8(128), v, "sample %d", i)
	}
}

func TestParseRejectsNonSOI(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x01}, DecodeOptions{})
	require.Error(t, err)
}

func TestSubsamplingFormat(t *testing.T) {
	jpg := buildTestDesc(2, 2, 1, 1, 1, 1)
	assert.Equal(t, "4:2:0", jpg.subsamplingFormat())

	jpg = buildTestDesc(1, 1, 1, 1, 1, 1)
	assert.Equal(t, "4:4:4", jpg.subsamplingFormat())
}
