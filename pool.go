package jpeg

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// unzipImage runs the post-entropy pipeline (inverse quantization, inverse
// zig-zag, IDCT) over every block of every component, producing the
// spatial-domain Image8 in raster order per component (§6). Blocks stored
// MCU-interleaved (colour frames, via jpg.mcuMaps) are read back out in
// raster order so downstream stages (upsample, write) never need to know
// about MCU interleaving.
//
// Grounded on original_source/src/process.c's unzip_image/unzip_parallel:
// each component's block range is split into disjoint contiguous chunks,
// one per worker, with a serial fallback below 2*workers blocks per
// component. Reimplemented with golang.org/x/sync/errgroup in place of
// process.c's pthread_create/pthread_join pool (§9 "idiomatic worker
// pool, not a hand-rolled thread pool").
func unzipImage(jpg *Desc, opts DecodeOptions) (*Image8, error) {
	frm := jpg.frame
	out := &Image8{
		color:           jpg.isColor(),
		blocksPerLine:   frm.components[0].blocksPerLine,
		blocksPerColumn: frm.components[0].blocksPerColumn,
	}
	for i := range frm.components {
		out.blocks[i] = make([]pixBlock, frm.components[i].numBlocks)
	}

	workers := opts.WorkerCount
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	process := func(ci, from, to int) error {
		c := &frm.components[ci]
		q := jpg.qtabs[c.quantIndex]
		if q == nil {
			return newErrorf(StructuralError, "coefficient", "component %d references undefined quantization table", ci)
		}
		storage := jpg.image.blocks[ci]
		mapping := jpg.mcuMaps[ci]
		var dequant block
		for pos := from; pos < to; pos++ {
			storageIdx := pos
			if out.color {
				storageIdx = int(mapping[pos])
			}
			inverseQuantize(&dequant, &storage[storageIdx], q)
			idctLoeffler(&dequant, &out.blocks[ci][pos])
		}
		return nil
	}

	if !opts.Multithread || workers < 2 {
		for ci := range frm.components {
			if err := process(ci, 0, frm.components[ci].numBlocks); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	g, _ := errgroup.WithContext(context.Background())
	for ci := range frm.components {
		ci := ci
		n := frm.components[ci].numBlocks
		if n < 2*workers {
			g.Go(func() error { return process(ci, 0, n) })
			continue
		}
		chunk := (n + workers - 1) / workers
		for from := 0; from < n; from += chunk {
			from := from
			to := from + chunk
			if to > n {
				to = n
			}
			g.Go(func() error { return process(ci, from, to) })
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
