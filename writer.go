package jpeg

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// cumulativeWriter latches the first error across a sequence of
// fmt.Fprintf/Write calls, so callers can write a whole image without
// checking every individual call. Trimmed from the teacher's
// jpeg.go:cumulativeWriter to what WritePGM/WritePPM actually need (they
// never consult the byte count).
type cumulativeWriter struct {
	w   io.Writer
	err error
}

func newCumulativeWriter(w io.Writer) *cumulativeWriter {
	return &cumulativeWriter{w: w}
}

func (cw *cumulativeWriter) Write(v []byte) (n int, err error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err = cw.w.Write(v)
	cw.err = err
	return
}

const writeBufferSize = 1 << 20

// WritePGM writes a single-component image as a binary PGM (§7 Output:
// grayscale path), grounded on the teacher's decode.go:writeBW, replacing
// its output-orientation fan-out (dropped with EXIF per the Non-goals
// list) with a single top-left raster walk.
func WritePGM(path string, img *Image8, dim Dimensions) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return newErrorf(IoError, "writer", "cannot create %s: %v", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, writeBufferSize)
	cbw := newCumulativeWriter(bw)
	fmt.Fprintf(cbw, "P5\n%d %d\n255\n", dim.Width, dim.Height)

	y := img.blocks[0]
	for row := 0; row < dim.Height; row++ {
		blockRow := row / 8
		within := row % 8
		for col := 0; col < dim.Width; col++ {
			blockCol := col / 8
			b := &y[blockRow*img.blocksPerLine+blockCol]
			cbw.Write([]byte{b[within*8+col%8]})
		}
	}
	if cbw.err != nil {
		return newErrorf(IoError, "writer", "writing %s: %v", path, cbw.err)
	}
	return bw.Flush()
}

// WritePPM writes a 3-component image as a binary PPM, converting YCbCr to
// RGB per pixel (§7 Output: colour path), grounded on the teacher's
// decode.go:writeYCbCr.
func WritePPM(path string, img *Image8, dim Dimensions) error {
	if !img.color {
		return newErrorf(LogicError, "writer", "WritePPM called on a grayscale image")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return newErrorf(IoError, "writer", "cannot create %s: %v", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, writeBufferSize)
	cbw := newCumulativeWriter(bw)
	fmt.Fprintf(cbw, "P6\n%d %d\n255\n", dim.Width, dim.Height)

	y, cb, cr := img.blocks[0], img.blocks[1], img.blocks[2]
	for row := 0; row < dim.Height; row++ {
		blockRow := row / 8
		within := row % 8
		for col := 0; col < dim.Width; col++ {
			blockCol := col / 8
			idx := blockRow*img.blocksPerLine + blockCol
			ys := y[idx][within*8+col%8]
			cbs := cb[idx][within*8+col%8]
			crs := cr[idx][within*8+col%8]
			r, g, b := ycbcrToRGB(ys, cbs, crs)
			cbw.Write([]byte{r, g, b})
		}
	}
	if cbw.err != nil {
		return newErrorf(IoError, "writer", "writing %s: %v", path, cbw.err)
	}
	return bw.Flush()
}

// Write picks WritePGM or WritePPM by component count (§7).
func Write(path string, img *Image8, dim Dimensions) error {
	if img.color {
		return WritePPM(path, img, dim)
	}
	return WritePGM(path, img, dim)
}

// dumpIntermediate writes the compressed-domain coefficient state after
// scan scanIdx to prog_out_<scanIdx>.ppm/.pgm, by running the same
// post-entropy pipeline as the final output (§11 "-p: write
// prog_out_<n> after every progressive scan"). Grounded on
// original_source/src/extract_image.c's per-scan export_copy call.
func dumpIntermediate(jpg *Desc, scanIdx int) error {
	out, err := unzipImage(jpg, jpg.opts)
	if err != nil {
		return err
	}
	if out.color {
		if err := upsample(out, jpg); err != nil {
			return err
		}
	}
	dim := Dimensions{Width: int(jpg.frame.width), Height: int(jpg.frame.height)}
	path := fmt.Sprintf("prog_out_%d.ppm", scanIdx)
	if !out.color {
		path = fmt.Sprintf("prog_out_%d.pgm", scanIdx)
	}
	return Write(path, out, dim)
}

// blabla dumps, for every block of every component, the raw entropy-coded
// coefficients, the dequantized coefficients, and the IDCT output, to
// stderr through a debug-level tracer (whether or not -v is set), then stops (§11 "-b: per-block pipeline dump,
// inhibits image writing"). Grounded on original_source/src/process.c's
// jpeg_blabla.
func blabla(jpg *Desc) {
	trace := newTracer(true, nil)
	for ci := range jpg.frame.components {
		c := &jpg.frame.components[ci]
		q := jpg.qtabs[c.quantIndex]
		mapping := jpg.mcuMaps[ci]
		for pos := 0; pos < c.numBlocks; pos++ {
			storageIdx := pos
			if jpg.isColor() {
				storageIdx = int(mapping[pos])
			}
			raw := jpg.image.blocks[ci][storageIdx]
			var dequant block
			if q != nil {
				inverseQuantize(&dequant, &raw, q)
			}
			var spatial pixBlock
			idctLoeffler(&dequant, &spatial)
			trace.Debug().
				Int("component", ci).
				Int("block", pos).
				Interface("raw", raw).
				Interface("dequantized", dequant).
				Interface("spatial", spatial).
				Msg("block pipeline dump")
		}
	}
}
