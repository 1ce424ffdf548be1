package jpeg

import "math"

// idctScaleTable and idctRotationConstants are the Loeffler 8-point
// factorization constants, grounded verbatim on the teacher's
// decode.go:inverseDCT8 (is0..is7 column/row input scales, ia1/a2/ia3/a4/a5
// the butterfly rotation constants).
const (
	idctS0 = 2.828427124746190097603377448419
	idctS1 = 3.923141121612921796504728944537
	idctS2 = 3.695518130045147024512732757587
	idctS3 = 3.325878449210180948315153510472
	idctS4 = 2.828427124746190097603377448419
	idctS5 = 2.222280932078408898971323255794
	idctS6 = 1.530733729460359086913839936122
	idctS7 = 0.780361288064513071393139473908

	idctA1 = 1.414213562373095048801688724209
	idctA2 = 0.541196100146196984399723205367
	idctA3 = 1.414213562373095048801688724209
	idctA4 = 1.306562964876376527856643173427
	idctA5 = 0.382683432365089771728459984030
)

// idctLoeffler8 runs one 8-point inverse transform (Loeffler's butterfly
// factorization) over 8 values spaced `stride` apart in src starting at
// src[base], writing the 8 results spaced `stride` apart in dst starting
// at dst[base]. Used once per column then once per row by loeffler (§5
// IDCT, "Loeffler" variant).
func idctLoeffler8(dst *[64]float64, src *[64]float64, base, stride int) {
	v15 := src[base] * idctS0
	v26 := src[base+stride] * idctS1
	v21 := src[base+2*stride] * idctS2
	v28 := src[base+3*stride] * idctS3
	v16 := src[base+4*stride] * idctS4
	v25 := src[base+5*stride] * idctS5
	v22 := src[base+6*stride] * idctS6
	v27 := src[base+7*stride] * idctS7

	v19 := (v25 - v28) * 0.5
	v20 := (v26 - v27) * 0.5
	v23 := (v26 + v27) * 0.5
	v24 := (v25 + v28) * 0.5

	v7 := (v23 + v24) * 0.5
	v11 := (v21 + v22) * 0.5
	v13 := (v23 - v24) * 0.5
	v17 := (v21 - v22) * 0.5

	v8 := (v15 + v16) * 0.5
	v9 := (v15 - v16) * 0.5

	term := (v19 - v20) * idctA5
	v12 := term - v19*idctA4
	v14 := v20*idctA2 - term

	v6 := v14 - v7
	v5 := v13*idctA3 - v6
	v4 := -v5 - v12
	v10 := v17*idctA1 - v11

	v0 := (v8 + v11) * 0.5
	v1 := (v9 + v10) * 0.5
	v2 := (v9 - v10) * 0.5
	v3 := (v8 - v11) * 0.5

	dst[base] = (v0 + v7) * 0.5
	dst[base+stride] = (v1 + v6) * 0.5
	dst[base+2*stride] = (v2 + v5) * 0.5
	dst[base+3*stride] = (v3 + v4) * 0.5
	dst[base+4*stride] = (v3 - v4) * 0.5
	dst[base+5*stride] = (v2 - v5) * 0.5
	dst[base+6*stride] = (v1 - v6) * 0.5
	dst[base+7*stride] = (v0 - v7) * 0.5
}

func clampSample(v float64) uint8 {
	i := int(math.Round(v)) + 128
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return uint8(i)
}

// idctLoeffler runs Loeffler's two-pass 8x8 inverse DCT (columns then
// rows), writing level-shifted, clamped 8-bit samples into dst (§5 IDCT).
// This is the default variant: grounded on the teacher's
// decode.go:inverseDCT8.
func idctLoeffler(src *block, dst *pixBlock) {
	var cols [64]float64
	var src64 [64]float64
	for i := range src64 {
		src64[i] = float64(src[i])
	}
	for col := 0; col < 8; col++ {
		idctLoeffler8(&cols, &src64, col, 8)
	}
	var rows [64]float64
	for row := 0; row < 8; row++ {
		idctLoeffler8(&rows, &cols, row*8, 1)
	}
	for i := 0; i < 64; i++ {
		dst[i] = clampSample(rows[i])
	}
}

// idctCosineTable[x][u] = cos(pi*(2x+1)*u/16), precomputed once for
// idctReference (§5 IDCT, "reference" variant: the direct double
// summation, not the Loeffler factorization). Grounded on the commented
// reference implementation in the teacher's decode.go.
var idctCosineTable [8][8]float64
var idctAlpha [8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			idctCosineTable[x][u] = math.Cos(math.Pi * float64((2*x+1)*u) / 16.0)
		}
	}
	idctAlpha[0] = 1.0 / math.Sqrt2
	for u := 1; u < 8; u++ {
		idctAlpha[u] = 1.0
	}
}

// idctReference computes the direct two-dimensional inverse DCT sum,
// O(n^4) over an 8x8 block, as a literal cross-check for idctLoeffler
// (§5: "implementations MUST agree to within rounding").
func idctReference(src *block, dst *pixBlock) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			var sum float64
			for v := 0; v < 8; v++ {
				for u := 0; u < 8; u++ {
					sum += idctAlpha[u] * idctAlpha[v] * float64(src[v*8+u]) *
						idctCosineTable[x][u] * idctCosineTable[y][v]
				}
			}
			dst[y*8+x] = clampSample(sum / 4.0)
		}
	}
}
