package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// A DC-only block should produce a flat output (for DC=64 both transforms
// give 64/8 + 128 = 136 everywhere): every Loeffler and reference sample
// must lie within 1 of the first Loeffler sample.
func TestIDCTDCOnlyIsFlat(t *testing.T) {
	var src block
	src[0] = 64

	var gotLoeffler, gotReference pixBlock
	idctLoeffler(&src, &gotLoeffler)
	idctReference(&src, &gotReference)

	want := gotLoeffler[0]
	for i, v := range gotLoeffler {
		assert.InDeltaf(t, float64(want), float64(v), 1, "loeffler[%d]", i)
	}
	for i, v := range gotReference {
		assert.InDeltaf(t, float64(want), float64(v), 1, "reference[%d]", i)
	}
}

// Both IDCT variants must agree to within rounding on an arbitrary block
// (§5's cross-check requirement).
func TestIDCTVariantsAgree(t *testing.T) {
	var src block
	src[0] = 100
	src[1] = -20
	src[8] = 15
	src[9] = 8
	src[63] = -5

	var loeffler, reference pixBlock
	idctLoeffler(&src, &loeffler)
	idctReference(&src, &reference)

	for i := range loeffler {
		assert.InDeltaf(t, float64(reference[i]), float64(loeffler[i]), 2, "sample %d", i)
	}
}

func TestClampSample(t *testing.T) {
	assert.Equal(t, uint8(0), clampSample(-500))
	assert.Equal(t, uint8(255), clampSample(500))
	assert.Equal(t, uint8(128), clampSample(0))
}
