package jpeg

// ycbcrToRGB converts one YCbCr triple to RGB using the fixed ITU-R BT.601
// coefficients, grounded verbatim on the teacher's decode.go:writeYCbCr
// per-pixel formula.
func ycbcrToRGB(y, cb, cr uint8) (r, g, b uint8) {
	Ys := float32(y)
	Cbs := float32(cb)
	Crs := float32(cr)

	rs := int(0.5 + Ys + 1.402*(Crs-128.0))
	gs := int(0.5 + Ys - 0.34414*(Cbs-128.0) - 0.71414*(Crs-128.0))
	bs := int(0.5 + Ys + 1.772*(Cbs-128.0))

	return clamp8(rs), clamp8(gs), clamp8(bs)
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
