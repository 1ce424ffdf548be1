package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildTestDesc constructs a minimal 3-component Desc with a given
// subsampling layout, bypassing segment parsing entirely.
func buildTestDesc(yh, yv, ch, cv uint8, mcusPerLine, mcusPerColumn int) *Desc {
	frm := &frameHeader{}
	y := component{h: yh, v: yv}
	cb := component{h: ch, v: cv}
	cr := component{h: ch, v: cv}
	y.blocksPerLine = mcusPerLine * int(yh)
	y.blocksPerColumn = mcusPerColumn * int(yv)
	y.numBlocks = y.blocksPerLine * y.blocksPerColumn
	cb.blocksPerLine = mcusPerLine * int(ch)
	cb.blocksPerColumn = mcusPerColumn * int(cv)
	cb.numBlocks = cb.blocksPerLine * cb.blocksPerColumn
	cr.blocksPerLine, cr.blocksPerColumn, cr.numBlocks = cb.blocksPerLine, cb.blocksPerColumn, cb.numBlocks
	frm.components = []component{y, cb, cr}

	jpg := &Desc{frame: frm, maxH: yh, maxV: yv}
	return jpg
}

func TestRemapMCUsIdentityForNonSubsampled(t *testing.T) {
	jpg := buildTestDesc(1, 1, 1, 1, 2, 2)
	mapping := remapMCUs(jpg, 0)
	for i, v := range mapping {
		assert.Equal(t, uint32(i), v, "4:4:4 remap must be the identity permutation")
	}
}

func TestRemapMCUsIsPermutation(t *testing.T) {
	jpg := buildTestDesc(2, 2, 1, 1, 2, 2) // 4:2:0, 2 MCUs x 2 MCUs
	for ci := 0; ci < 3; ci++ {
		mapping := remapMCUs(jpg, ci)
		seen := make(map[uint32]bool, len(mapping))
		for _, v := range mapping {
			assert.False(t, seen[v], "storage index %d repeated", v)
			assert.Less(t, int(v), len(mapping), "storage index %d out of range", v)
			seen[v] = true
		}
	}
}

func TestRemapMCUsChromaBlocksPerMCU(t *testing.T) {
	// 4:2:0, a single MCU: each of the 4 luma blocks maps to one of 4
	// distinct slots, while the lone chroma block maps to slot 0.
	jpg := buildTestDesc(2, 2, 1, 1, 1, 1)
	yMap := remapMCUs(jpg, 0)
	assert.Len(t, yMap, 4)
	cbMap := remapMCUs(jpg, 1)
	assert.Equal(t, []uint32{0}, cbMap)
}
