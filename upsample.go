package jpeg

// upsample expands the Cb and Cr block grids in place so every component
// shares the luma block grid, replicating each chroma sample hRatio times
// horizontally and vRatio times vertically where hRatio=maxH/h,
// vRatio=maxV/v (§6 Upsampler). Grounded on original_source's
// upsampling.c nearest-neighbour replication scheme (no "fancy"/triangle
// filtering variant, matching §6's Non-goals).
func upsample(out *Image8, jpg *Desc) error {
	y := &jpg.frame.components[0]
	for ci := 1; ci <= 2; ci++ {
		c := &jpg.frame.components[ci]
		if int(y.h)%int(c.h) != 0 || int(y.v)%int(c.v) != 0 {
			return newErrorf(UnsupportedError, "upsample", "chroma sampling factor %d/%d does not divide luma %d/%d evenly", c.h, c.v, y.h, y.v)
		}
		hRatio := int(y.h) / int(c.h)
		vRatio := int(y.v) / int(c.v)
		if hRatio == 1 && vRatio == 1 {
			continue
		}
		switch hRatio * vRatio {
		case 1, 2, 4:
		default:
			return newErrorf(UnsupportedError, "upsample", "sampling ratio %dx%d (product %d) not in {1,2,4}", hRatio, vRatio, hRatio*vRatio)
		}

		srcBlocksPerLine := c.blocksPerLine
		srcBlocksPerColumn := c.blocksPerColumn
		dstBlocksPerLine := out.blocksPerLine
		dstBlocksPerColumn := out.blocksPerColumn

		src := out.blocks[ci]
		dst := make([]pixBlock, dstBlocksPerLine*dstBlocksPerColumn)

		for srcRow := 0; srcRow < srcBlocksPerColumn; srcRow++ {
			for srcCol := 0; srcCol < srcBlocksPerLine; srcCol++ {
				srcBlock := &src[srcRow*srcBlocksPerLine+srcCol]
				for dv := 0; dv < vRatio; dv++ {
					dstRow := srcRow*vRatio + dv
					if dstRow >= dstBlocksPerColumn {
						continue
					}
					for dh := 0; dh < hRatio; dh++ {
						dstCol := srcCol*hRatio + dh
						if dstCol >= dstBlocksPerLine {
							continue
						}
						dstBlock := &dst[dstRow*dstBlocksPerLine+dstCol]
						for py := 0; py < 8; py++ {
							globalY := dv*8 + py
							srcY := globalY / vRatio
							for px := 0; px < 8; px++ {
								globalX := dh*8 + px
								srcX := globalX / hRatio
								dstBlock[py*8+px] = srcBlock[srcY*8+srcX]
							}
						}
					}
				}
			}
		}
		out.blocks[ci] = dst
	}
	return nil
}
