package jpeg

// inverseQuantize multiplies each zig-zag-ordered coefficient by its
// quantization table entry, saturating the product to the int16 range,
// then permutes the block into raster order via
// zigZagToRaster (§3 CoefficientStage). Grounded on the teacher's
// decode.go:dequantize, which performs the same two steps (scale, then
// unZigZag) but iterating the table in row/col form; this version walks
// zigZagToRaster directly since quantization tables are stored in
// zig-zag order on disk while coefficient blocks are also decoded and
// held in zig-zag order, so only one permutation step is needed here
// rather than the teacher's dual-table round trip.
func inverseQuantize(dst *block, src *block, q *qdef) {
	var raster block
	for zz := 0; zz < 64; zz++ {
		v := int32(src[zz]) * int32(q.values[zz])
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		raster[zigZagToRaster[zz]] = int16(v)
	}
	*dst = raster
}
