package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneBitTable(t *testing.T, symbol uint8) *HuffmanTable {
	var counts [16]uint8
	counts[0] = 1
	table, err := BuildHuffmanTable(counts, []uint8{symbol})
	require.NoError(t, err)
	return table
}

func TestExtractBlockSequentialAllZero(t *testing.T) {
	dc := oneBitTable(t, 0)    // magnitude 0 => DC delta 0
	ac := oneBitTable(t, 0x00) // EOB immediately

	var dst block
	var prevDC int16
	r := NewBitReader([]byte{0x00}, 0)
	err := extractBlockSequential(&dst, &prevDC, r, dc, ac)
	require.NoError(t, err)
	assert.Equal(t, int16(0), prevDC)
	for i, v := range dst {
		assert.Equalf(t, int16(0), v, "dst[%d]", i)
	}
}

func TestExtractBlockSequentialDCValue(t *testing.T) {
	var dcCounts [16]uint8
	dcCounts[2] = 1 // single 3-bit code "000" -> symbol 3 (magnitude)
	dc, err := BuildHuffmanTable(dcCounts, []uint8{3})
	require.NoError(t, err)
	ac := oneBitTable(t, 0x00)

	// "000" (code) + "101" (indice=5, magnitude 3 => value 5) + "0" (EOB) + pad
	r := NewBitReader([]byte{0b00010100}, 0)
	var dst block
	var prevDC int16
	err = extractBlockSequential(&dst, &prevDC, r, dc, ac)
	require.NoError(t, err)
	assert.Equal(t, int16(5), prevDC)
	assert.Equal(t, int16(5), dst[0])
	for i := 1; i < 64; i++ {
		assert.Equalf(t, int16(0), dst[i], "dst[%d]", i)
	}
}

func TestComponentIndex(t *testing.T) {
	jpg := buildTestDesc(2, 2, 1, 1, 2, 2)
	assert.Equal(t, 0, componentIndex(jpg, &jpg.frame.components[0]))
	assert.Equal(t, 1, componentIndex(jpg, &jpg.frame.components[1]))
	assert.Equal(t, 2, componentIndex(jpg, &jpg.frame.components[2]))
}
