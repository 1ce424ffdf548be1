package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInverseQuantizeScalesAndUnzigzags(t *testing.T) {
	var q qdef
	for i := range q.values {
		q.values[i] = 2
	}
	var src block
	src[0] = 10 // DC, zig-zag index 0 == raster index 0
	src[1] = 3  // zig-zag index 1 == raster index 1
	src[2] = 5  // zig-zag index 2 == raster index 8 (EQUIV_ZZ[2])

	var dst block
	inverseQuantize(&dst, &src, &q)

	assert.Equal(t, int16(20), dst[zigZagToRaster[0]])
	assert.Equal(t, int16(6), dst[zigZagToRaster[1]])
	assert.Equal(t, int16(10), dst[8])
}

func TestZigZagToRasterIsAPermutation(t *testing.T) {
	seen := make(map[int]bool, 64)
	for _, raster := range zigZagToRaster {
		assert.False(t, seen[raster], "raster index %d produced twice", raster)
		seen[raster] = true
	}
	assert.Len(t, seen, 64)
}
