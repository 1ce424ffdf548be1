package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBitsMSBFirst(t *testing.T) {
	r := NewBitReader([]byte{0b10110010}, 0)
	v, err := r.ReadBits(3, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b101), v)

	v, err = r.ReadBits(5, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b10010), v)
}

func TestReadBitsAcrossByteBoundary(t *testing.T) {
	r := NewBitReader([]byte{0x00, 0b11110000}, 0)
	// skip first byte fully, then read across into second
	_, err := r.ReadBits(8, true)
	require.NoError(t, err)
	v, err := r.ReadBits(4, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b1111), v)
}

func TestByteStuffingUnescapesFF00(t *testing.T) {
	r := NewBitReader([]byte{0xFF, 0x00, 0xAB}, 0)
	v, err := r.ReadBits(8, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF), v)
	v, err = r.ReadBits(8, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xAB), v)
}

func TestRealMarkerIsFatalAndRewinds(t *testing.T) {
	r := NewBitReader([]byte{0xFF, 0xD9}, 0)
	_, err := r.ReadBits(1, true)
	require.Error(t, err)
	assert.Equal(t, 0, r.Offset())
}

func TestAtEOI(t *testing.T) {
	r := NewBitReader([]byte{0xAB, 0xFF, 0xD9}, 0)
	assert.False(t, r.AtEOI())
	_, _ = r.ReadBits(8, false)
	assert.True(t, r.AtEOI())
}

func TestPeekMarkerSkipsFillBytes(t *testing.T) {
	r := NewBitReader([]byte{0xFF, 0xFF, 0xFF, 0xDA}, 0)
	m, ok := r.PeekMarker()
	require.True(t, ok)
	assert.Equal(t, uint(markerSOS), m)
}
