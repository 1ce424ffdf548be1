package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYCbCrToRGBGray(t *testing.T) {
	r, g, b := ycbcrToRGB(128, 128, 128)
	assert.Equal(t, uint8(128), r)
	assert.Equal(t, uint8(128), g)
	assert.Equal(t, uint8(128), b)
}

func TestYCbCrToRGBClampsOutOfRange(t *testing.T) {
	r, _, _ := ycbcrToRGB(255, 128, 255)
	assert.Equal(t, uint8(255), r)
	_, _, b := ycbcrToRGB(0, 0, 128)
	assert.Equal(t, uint8(0), b)
}
