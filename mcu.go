package jpeg

// remapMCUs computes, for frame component index comp (0=Y,1=Cb,2=Cr), the
// permutation taking a raster-block index within that component's own
// block grid to the index of that block inside the MCU-interleaved
// coefficient storage (§4.8).
//
// Grounded on original_source/src/extract_image.c's remap_mcus, which
// walks the luma-sized grid row by row, jumping by h*v blocks at MCU
// column boundaries and by blocksPerRow*v at MCU row boundaries. This
// implementation resolves an ambiguity in that source (see DESIGN.md):
// the C code denominates its outer loop bounds in luma-grid units for
// every component, which only produces valid indices into the (generally
// smaller) chroma storage array when every component shares the luma
// sampling factors. Denominating the loop in the component's own block
// grid (blocksPerLine/blocksPerColumn, sampling factors h/v) instead keeps
// the same walking rule while staying in range for subsampled chroma.
func remapMCUs(jpg *Desc, comp int) []uint32 {
	c := &jpg.frame.components[comp]
	h, v := int(c.h), int(c.v)
	bpl, bph := c.blocksPerLine, c.blocksPerColumn
	mcusPerLine := bpl / h
	blocksPerMCU := h * v

	indexMap := make([]uint32, bpl*bph)
	for row := 0; row < bph; row++ {
		mcuRow, withinRow := row/v, row%v
		for col := 0; col < bpl; col++ {
			mcuCol, withinCol := col/h, col%h
			storageIndex := mcuRow*mcusPerLine*blocksPerMCU + mcuCol*blocksPerMCU + withinRow*h + withinCol
			indexMap[row*bpl+col] = uint32(storageIndex)
		}
	}
	return indexMap
}
