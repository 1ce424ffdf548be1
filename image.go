package jpeg

// block is a 64-coefficient 8x8 unit, used both in zig-zag scan order
// (as stored by the entropy decoder) and in raster order (after
// inverseZigZag). Named dataUnit in the teacher's jpeg.go.
type block [64]int16

// Image16 is the compressed-domain image between the BlockExtractor and the
// IDCT (§3). Chroma block counts reflect the pre-upsampling MCU layout.
type Image16 struct {
	color                 bool
	blocksPerLine         int // luma grid width in blocks
	blocksPerColumn       int // luma grid height in blocks
	blocks                [3][]block // index 0=Y,1=Cb,2=Cr
}

func newImage16(frm *frameHeader) *Image16 {
	img := &Image16{color: len(frm.components) > 1}
	y := frm.components[0]
	img.blocksPerLine = y.blocksPerLine
	img.blocksPerColumn = y.blocksPerColumn
	for i := range frm.components {
		img.blocks[i] = make([]block, frm.components[i].numBlocks)
	}
	return img
}

// Image8 is the decompressed output image: same block-grid structure with
// 8-bit unsigned spatial samples. After upsampling, chroma arrays hold one
// block per luma block, addressed in the same raster order (§4.7).
type Image8 struct {
	color           bool
	blocksPerLine   int
	blocksPerColumn int
	blocks          [3][]pixBlock
}

type pixBlock [64]uint8

// IsColor reports whether img has 3 planar components (YCbCr) rather than 1
// (grayscale), used by callers deciding between WritePGM and WritePPM.
func (img *Image8) IsColor() bool {
	return img.color
}

// Dimensions holds the frame's pixel width and height; the writer crops
// the decoded block grid to this size.
type Dimensions struct {
	Width, Height int
}

// Decode is the top-level entry point: it parses the segment stream,
// extracts every scan's coefficients (sequential or progressive), runs the
// post-entropy pipeline (dequantize, inverse zig-zag and IDCT, serially or
// via the worker pool per opts.Multithread, then a serial upsample), and
// returns the decompressed image. This plays the role of original_source's
// extract_image() orchestrator.
func Decode(data []byte, opts DecodeOptions) (*Image8, Dimensions, error) {
	jpg, err := Parse(data, opts)
	if err != nil {
		return nil, Dimensions{}, err
	}

	if jpg.frame.progressive {
		scanIdx := 0
		for {
			if err := extractProgressiveScan(jpg); err != nil {
				return nil, Dimensions{}, err
			}
			if opts.DumpProgressive {
				if err := dumpIntermediate(jpg, scanIdx); err != nil {
					return nil, Dimensions{}, err
				}
			}
			scanIdx++
			more, err := jpg.nextProgressiveScan()
			if err != nil {
				return nil, Dimensions{}, err
			}
			if !more {
				break
			}
		}
	} else {
		if err := extractSequentialScan(jpg); err != nil {
			return nil, Dimensions{}, err
		}
		if !jpg.br.AtEOI() {
			jpg.log.Warn().Msg("trailing data after single scan, expected EOI")
		}
	}

	if opts.Blabla {
		blabla(jpg)
		return nil, Dimensions{}, nil
	}

	out, err := unzipImage(jpg, opts)
	if err != nil {
		return nil, Dimensions{}, err
	}
	if out.color {
		if err := upsample(out, jpg); err != nil {
			return nil, Dimensions{}, err
		}
	}
	return out, Dimensions{Width: int(jpg.frame.width), Height: int(jpg.frame.height)}, nil
}
