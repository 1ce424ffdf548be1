package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHuffmanTableSingleCode(t *testing.T) {
	var counts [16]uint8
	counts[1] = 1 // one 2-bit code
	table, err := BuildHuffmanTable(counts, []uint8{0x42})
	require.NoError(t, err)

	// code "00" at depth 2 should resolve to the one symbol.
	data := []byte{0x00}
	r := NewBitReader(data, 0)
	sym, err := table.NextSymbol(r)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), sym)
}

func TestBuildHuffmanTableCanonical(t *testing.T) {
	// 3 one-bit... actually build a standard 2-symbol, 1-bit-each table.
	var counts [16]uint8
	counts[0] = 2 // two 1-bit codes: "0" and "1"
	table, err := BuildHuffmanTable(counts, []uint8{0xAA, 0xBB})
	require.NoError(t, err)

	cases := []struct {
		bit  byte
		want uint8
	}{
		{0x00, 0xAA},
		{0x80, 0xBB},
	}
	for _, c := range cases {
		r := NewBitReader([]byte{c.bit}, 0)
		sym, err := table.NextSymbol(r)
		require.NoError(t, err)
		assert.Equal(t, c.want, sym)
	}
}

func TestBuildHuffmanTableRejectsMismatchedSymbolCount(t *testing.T) {
	var counts [16]uint8
	counts[0] = 2
	_, err := BuildHuffmanTable(counts, []uint8{0x01})
	require.Error(t, err)
}

func TestBuildHuffmanTableRejectsOverflow(t *testing.T) {
	var counts [16]uint8
	for i := range counts {
		counts[i] = 255
	}
	symbols := make([]uint8, 255*16)
	_, err := BuildHuffmanTable(counts, symbols)
	require.Error(t, err)
}

func TestMagnitudeToValue(t *testing.T) {
	cases := []struct {
		magnitude uint8
		indice    uint32
		want      int16
	}{
		{0, 0, 0},
		{1, 0, -1},
		{1, 1, 1},
		{2, 0, -3},
		{2, 1, -2},
		{2, 2, 2},
		{2, 3, 3},
		{4, 0, -15},
		{4, 15, 15},
	}
	for _, c := range cases {
		got := magnitudeToValue(c.magnitude, c.indice)
		assert.Equalf(t, c.want, got, "magnitude=%d indice=%d", c.magnitude, c.indice)
	}
}
