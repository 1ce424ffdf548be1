package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsample420ReplicatesBlocks(t *testing.T) {
	jpg := buildTestDesc(2, 2, 1, 1, 1, 1) // single MCU, 4:2:0
	out := &Image8{
		color:           true,
		blocksPerLine:   2,
		blocksPerColumn: 2,
		blocks: [3][]pixBlock{
			make([]pixBlock, 4), // Y: 2x2 blocks
			make([]pixBlock, 1), // Cb: 1 block
			make([]pixBlock, 1), // Cr: 1 block
		},
	}
	for i := range out.blocks[1][0] {
		out.blocks[1][0][i] = uint8(i)
		out.blocks[2][0][i] = uint8(255 - i)
	}

	src := out.blocks[1][0]
	err := upsample(out, jpg)
	require.NoError(t, err)

	require.Len(t, out.blocks[1], 4)
	// Output blocks are laid out (dv,dh) in {0,1}x{0,1} at indices
	// dv*2+dh. Each output pixel (py,px) in block (dv,dh) must equal
	// src[(dv*8+py)/2*8 + (dh*8+px)/2] (nearest-neighbour replication, §6).
	for dv := 0; dv < 2; dv++ {
		for dh := 0; dh < 2; dh++ {
			got := out.blocks[1][dv*2+dh]
			for py := 0; py < 8; py++ {
				srcY := (dv*8 + py) / 2
				for px := 0; px < 8; px++ {
					srcX := (dh*8 + px) / 2
					want := src[srcY*8+srcX]
					assert.Equalf(t, want, got[py*8+px], "block(%d,%d) pixel(%d,%d)", dv, dh, py, px)
				}
			}
		}
	}
}

func TestUpsampleNoOpAt444(t *testing.T) {
	jpg := buildTestDesc(1, 1, 1, 1, 2, 2)
	out := &Image8{
		color:           true,
		blocksPerLine:   2,
		blocksPerColumn: 2,
		blocks: [3][]pixBlock{
			make([]pixBlock, 4),
			make([]pixBlock, 4),
			make([]pixBlock, 4),
		},
	}
	out.blocks[1][2][0] = 77
	err := upsample(out, jpg)
	require.NoError(t, err)
	assert.Equal(t, uint8(77), out.blocks[1][2][0])
}
