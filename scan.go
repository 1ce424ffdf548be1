package jpeg

// magnitudeToValue converts a JPEG sign-magnitude (magnitude, indice) pair
// to its signed integer value (§Glossary), grounded on
// original_source/src/extract_bloc.c:magnitude_to_value.
func magnitudeToValue(magnitude uint8, indice uint32) int16 {
	if magnitude == 0 {
		return 0
	}
	refIndice := uint32(1)<<(magnitude-1) - 1
	minVal := -(int32(1)<<magnitude - 1)
	if indice <= refIndice {
		return int16(minVal + int32(indice))
	}
	return int16(indice)
}

func componentIndex(jpg *Desc, c *component) int {
	for i := range jpg.frame.components {
		if &jpg.frame.components[i] == c {
			return i
		}
	}
	return -1
}

// readCoeff reads a Huffman-signalled magnitude's raw bits and decodes them.
func readCoeff(br *BitReader, magnitude uint8) (int16, error) {
	if magnitude > 15 {
		return 0, newErrorf(EntropyError, "scan", "impossible magnitude %d", magnitude)
	}
	bits, err := br.ReadBits(uint(magnitude), true)
	if err != nil {
		return 0, err
	}
	return magnitudeToValue(magnitude, bits), nil
}

// extractBlockSequential decodes one full 64-coefficient block (§4.4
// Sequential), grounded on original_source/src/extract_bloc.c:extract_bloc.
func extractBlockSequential(dst *block, prevDC *int16, br *BitReader, dcTable, acTable *HuffmanTable) error {
	magnitude, err := dcTable.NextSymbol(br)
	if err != nil {
		return err
	}
	delta, err := readCoeff(br, magnitude)
	if err != nil {
		return err
	}
	*prevDC += delta
	dst[0] = *prevDC

	k := 1
	for k < 64 {
		sym, err := acTable.NextSymbol(br)
		if err != nil {
			return err
		}
		if sym == 0x00 { // EOB
			break
		}
		if sym == 0xF0 { // ZRL
			k += 16
			continue
		}
		runLength := sym >> 4
		mag := sym & 0x0F
		k += int(runLength)
		if k >= 64 {
			return newErrorf(EntropyError, "scan", "coefficient index overflow past 63")
		}
		v, err := readCoeff(br, mag)
		if err != nil {
			return err
		}
		dst[k] = v
		k++
	}
	return nil
}

// extractSequentialScan decodes the single scan of a baseline image (§4.4
// Sequential), grounded on original_source/src/extract_bloc.c's
// extract_blocs_grey/extract_blocs_color, generalized to an arbitrary scan
// component order and count (1 or 3) rather than the C source's
// grey/2-table-shared-Cb-Cr restriction.
func extractSequentialScan(jpg *Desc) error {
	img := jpg.image
	if len(jpg.scanComponents) == 1 {
		ref := jpg.scanComponents[0]
		ci := componentIndex(jpg, ref.comp)
		dc := jpg.htabs[0][ref.dcIndex]
		ac := jpg.htabs[1][ref.acIndex]
		if dc == nil || ac == nil {
			return newErrorf(StructuralError, "scan", "scan references undefined huffman table")
		}
		var prevDC int16
		for i := range img.blocks[ci] {
			if err := extractBlockSequential(&img.blocks[ci][i], &prevDC, jpg.br, dc, ac); err != nil {
				return err
			}
		}
		return nil
	}

	y := &jpg.frame.components[0]
	mcusPerLine := y.blocksPerLine / int(y.h)
	mcusPerColumn := y.blocksPerColumn / int(y.v)

	type runner struct {
		ci           int
		dc, ac       *HuffmanTable
		blocksPerMcu int
		prevDC       int16
		offset       int
	}
	runners := make([]*runner, len(jpg.scanComponents))
	for i, ref := range jpg.scanComponents {
		ci := componentIndex(jpg, ref.comp)
		dc := jpg.htabs[0][ref.dcIndex]
		ac := jpg.htabs[1][ref.acIndex]
		if dc == nil || ac == nil {
			return newErrorf(StructuralError, "scan", "scan references undefined huffman table")
		}
		runners[i] = &runner{ci: ci, dc: dc, ac: ac, blocksPerMcu: int(ref.comp.h) * int(ref.comp.v)}
	}

	for m := 0; m < mcusPerLine*mcusPerColumn; m++ {
		for _, r := range runners {
			for j := 0; j < r.blocksPerMcu; j++ {
				if err := extractBlockSequential(&jpg.image.blocks[r.ci][r.offset], &r.prevDC, jpg.br, r.dc, r.ac); err != nil {
					return err
				}
				r.offset++
			}
		}
	}
	return nil
}

// extractProgressiveScan dispatches the current scan to one of the four
// kinds named in §4.4, by (ss, ah), mirroring §9's "single dispatch at scan
// start, not scattered conditionals" design note.
func extractProgressiveScan(jpg *Desc) error {
	switch {
	case jpg.ss == 0 && jpg.ah == 0:
		return extractFirstDC(jpg)
	case jpg.ss == 0 && jpg.ah != 0:
		return extractRefineDC(jpg)
	case jpg.ss != 0 && jpg.ah == 0:
		return extractFirstAC(jpg)
	default:
		return extractRefineAC(jpg)
	}
}

// extractFirstDC decodes a First DC scan: identical to sequential DC
// decoding, then scaled by << al (§4.4).
func extractFirstDC(jpg *Desc) error {
	y := &jpg.frame.components[0]
	mcusPerLine := y.blocksPerLine / int(y.h)
	mcusPerColumn := y.blocksPerColumn / int(y.v)

	type runner struct {
		ci           int
		dc           *HuffmanTable
		blocksPerMcu int
		prevDC       int16
		offset       int
	}
	runners := make([]*runner, len(jpg.scanComponents))
	for i, ref := range jpg.scanComponents {
		ci := componentIndex(jpg, ref.comp)
		dc := jpg.htabs[0][ref.dcIndex]
		if dc == nil {
			return newErrorf(StructuralError, "scan", "scan references undefined DC huffman table")
		}
		runners[i] = &runner{ci: ci, dc: dc, blocksPerMcu: int(ref.comp.h) * int(ref.comp.v)}
	}

	for m := 0; m < mcusPerLine*mcusPerColumn; m++ {
		for _, r := range runners {
			for j := 0; j < r.blocksPerMcu; j++ {
				magnitude, err := r.dc.NextSymbol(jpg.br)
				if err != nil {
					return err
				}
				delta, err := readCoeff(jpg.br, magnitude)
				if err != nil {
					return err
				}
				r.prevDC += delta
				jpg.image.blocks[r.ci][r.offset][0] = r.prevDC << jpg.al
				r.offset++
			}
		}
	}
	return nil
}

// extractRefineDC decodes a Refinement DC scan: one bit OR'd into block[0]
// (§4.4).
func extractRefineDC(jpg *Desc) error {
	y := &jpg.frame.components[0]
	mcusPerLine := y.blocksPerLine / int(y.h)
	mcusPerColumn := y.blocksPerColumn / int(y.v)

	type runner struct {
		ci           int
		blocksPerMcu int
		offset       int
	}
	runners := make([]*runner, len(jpg.scanComponents))
	for i, ref := range jpg.scanComponents {
		runners[i] = &runner{ci: componentIndex(jpg, ref.comp), blocksPerMcu: int(ref.comp.h) * int(ref.comp.v)}
	}

	bit := int16(1) << jpg.al
	for m := 0; m < mcusPerLine*mcusPerColumn; m++ {
		for _, r := range runners {
			for j := 0; j < r.blocksPerMcu; j++ {
				b, err := jpg.br.ReadBit(true)
				if err != nil {
					return err
				}
				if b != 0 {
					jpg.image.blocks[r.ci][r.offset][0] |= bit
				}
				r.offset++
			}
		}
	}
	return nil
}

// extractFirstAC decodes a First AC scan: non-interleaved, single
// component, within band [ss..se], with EOBn band-skip across blocks
// (§4.4). Storage is addressed through jpg.mcuMaps since the scan walks
// the component's own raster grid while storage is MCU-interleaved
// (§4.8).
func extractFirstAC(jpg *Desc) error {
	ref := jpg.scanComponents[0]
	ci := componentIndex(jpg, ref.comp)
	ac := jpg.htabs[1][ref.acIndex]
	if ac == nil {
		return newErrorf(StructuralError, "scan", "scan references undefined AC huffman table")
	}
	mapping := jpg.mcuMaps[ci]
	storage := jpg.image.blocks[ci]

	eobRun := 0
	for pos := 0; pos < len(mapping); pos++ {
		dst := &storage[mapping[pos]]
		if eobRun > 0 {
			eobRun--
			continue
		}
		k := int(jpg.ss)
		for k <= int(jpg.se) {
			sym, err := ac.NextSymbol(jpg.br)
			if err != nil {
				return err
			}
			runLength := sym >> 4
			magnitude := sym & 0x0F
			if magnitude == 0 && runLength < 15 {
				if runLength > 0 {
					extra, err := jpg.br.ReadBits(uint(runLength), true)
					if err != nil {
						return err
					}
					eobRun = (1 << runLength) + int(extra) - 1
				}
				break
			}
			if sym == 0xF0 {
				k += 16
				continue
			}
			k += int(runLength)
			if k > int(jpg.se) {
				return newErrorf(EntropyError, "scan", "coefficient index overflow past band end")
			}
			v, err := readCoeff(jpg.br, magnitude)
			if err != nil {
				return err
			}
			dst[k] = v << jpg.al
			k++
		}
	}
	return nil
}

// extractRefineAC decodes a Refinement AC scan — §4.4's hardest case. A
// single continuous correction-bit stream is read for every already
// non-zero (NZH) coefficient encountered while walking the band, whether
// that walk is driven by an ordinary run, a ZRL, or an EOBn skip.
//
// Grounded on _examples/dlecorfec-progjpeg/scan.go's refine/
// refineNonZeroes (itself derived from the Go standard library's
// image/jpeg scan.go), adapted from that decoder's interleaved zigzag
// addressing to this decoder's MCU-remapped raster addressing.
func extractRefineAC(jpg *Desc) error {
	ref := jpg.scanComponents[0]
	ci := componentIndex(jpg, ref.comp)
	ac := jpg.htabs[1][ref.acIndex]
	if ac == nil {
		return newErrorf(StructuralError, "scan", "scan references undefined AC huffman table")
	}
	mapping := jpg.mcuMaps[ci]
	storage := jpg.image.blocks[ci]

	bit := int16(1) << jpg.al
	eobRun := 0

	// refineNonZeroes applies one correction bit to every non-zero
	// coefficient in dst[from..se], in order. With runLength >= 0 it skips
	// runLength zero positions and stops at the next one, returning its
	// index (used by the ZH insertion and ZRL walks); pass runLength=-1 to
	// mean "no early stop" (used by EOBn walks). It returns se+1 when the
	// band end is reached first.
	refineNonZeroes := func(dst *block, from int, runLength int) (int, error) {
		for k := from; k <= int(jpg.se); k++ {
			if dst[k] != 0 {
				b, err := jpg.br.ReadBit(true)
				if err != nil {
					return k, err
				}
				if b != 0 && dst[k]&bit == 0 {
					if dst[k] > 0 {
						dst[k] += bit
					} else {
						dst[k] -= bit
					}
				}
			} else {
				if runLength == 0 {
					return k, nil
				}
				if runLength > 0 {
					runLength--
				}
			}
		}
		return int(jpg.se) + 1, nil
	}

	for pos := 0; pos < len(mapping); pos++ {
		dst := &storage[mapping[pos]]
		if eobRun > 0 {
			if _, err := refineNonZeroes(dst, int(jpg.ss), -1); err != nil {
				return err
			}
			eobRun--
			continue
		}

		k := int(jpg.ss)
		for k <= int(jpg.se) {
			sym, err := ac.NextSymbol(jpg.br)
			if err != nil {
				return err
			}
			runLength := int(sym >> 4)
			magnitude := sym & 0x0F

			switch {
			case magnitude == 1: // ZH: a new non-zero coefficient appears
				signBit, err := jpg.br.ReadBit(true)
				if err != nil {
					return err
				}
				value := magnitudeToValue(1, signBit) << jpg.al
				stop, err := refineNonZeroes(dst, k, runLength)
				if err != nil {
					return err
				}
				if stop > int(jpg.se) {
					return newErrorf(EntropyError, "scan", "ZH insertion ran past band end without a free slot")
				}
				dst[stop] = value
				k = stop + 1

			case runLength == 15: // ZRL: skip 16 zero-history positions
				stop, err := refineNonZeroes(dst, k, 15)
				if err != nil {
					return err
				}
				k = stop + 1
				if k > int(jpg.se)+1 {
					return newErrorf(EntropyError, "scan", "ZRL ran past band end")
				}

			default: // EOBn
				if runLength > 0 {
					extra, err := jpg.br.ReadBits(uint(runLength), true)
					if err != nil {
						return err
					}
					eobRun = (1 << uint(runLength)) + int(extra) - 1
				}
				if _, err := refineNonZeroes(dst, k, -1); err != nil {
					return err
				}
				k = int(jpg.se) + 1
			}
		}
	}
	return nil
}
