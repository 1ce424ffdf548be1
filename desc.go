package jpeg

import (
	"github.com/rs/zerolog"
)

// qdef is a quantization table definition: 64 values in the zig-zag order
// in which the DQT segment lists them (inverseQuantize indexes them by
// zig-zag position). precision16 is reserved for 16-bit tables, which
// readDQT rejects, so it is never set; every value actually produced by
// this decoder fits uint8.
type qdef struct {
	precision16 bool
	values      [64]uint16
}

// component describes one SOF component entry (§3 JpegDesc per-component
// fields).
type component struct {
	id         uint8
	h, v       uint8
	quantIndex uint8

	blocksPerLine, blocksPerColumn int
	numBlocks                      int
}

// frameHeader holds the SOF0/SOF2 body.
type frameHeader struct {
	progressive bool
	precision   uint8
	height      uint16
	width       uint16
	components  []component
}

// scanComponentRef names, for the current scan, which component and which
// Huffman table pair it uses — the teacher's scanComp, trimmed to the
// fields this decoder needs.
type scanComponentRef struct {
	comp             *component
	dcIndex, acIndex uint8
}

// Desc is the JPEG descriptor threaded through every stage: the segment
// parser, the block extractor, and the CLI's -v/-b trace output. It plays
// the role of the teacher's Desc struct and original_source's
// struct jpeg_desc, merged into one Go type as SPEC_FULL.md's JpegDesc.
type Desc struct {
	data []byte
	br   *BitReader
	log  zerolog.Logger
	opts DecodeOptions

	state int

	qtabs [4]*qdef
	// htabs[0] = DC tables, htabs[1] = AC tables, each indexed 0..3
	htabs [2][4]*HuffmanTable

	frame *frameHeader

	maxH, maxV uint8

	scanComponents []*scanComponentRef
	ss, se, ah, al uint8

	image *Image16

	// mcuMaps[c]: raster-block index -> MCU-interleaved storage index, for
	// c in {0:Y,1:Cb,2:Cr}. Populated for every component; for a single
	// grayscale component it reduces to the identity permutation (§4.8).
	mcuMaps [3][]uint32
}

func (jpg *Desc) isColor() bool {
	return len(jpg.frame.components) > 1
}

// Parse reads JPEG marker segments starting at SOI, populating qtabs,
// htabs, the frame header, and the first scan's header, stopping with the
// BitReader positioned at the start of that scan's entropy-coded segment
// (§4.3: "Control is returned to the caller at this point"). This mirrors
// the teacher's Parse entry point and original_source's jpeg_reader.c
// top-level walk, restricted to the marker set SPEC_FULL.md §6 names.
func Parse(data []byte, opts DecodeOptions) (*Desc, error) {
	jpg := &Desc{
		data: data,
		br:   NewBitReader(data, 0),
		log:  newTracer(opts.Verbose, nil),
		opts: opts,
	}

	marker, err := jpg.readMarker()
	if err != nil {
		return nil, err
	}
	if marker != markerSOI {
		return nil, newErrorf(StructuralError, "segment", "expected SOI, got marker 0x%x", marker)
	}
	jpg.state = stateApplication
	jpg.log.Debug().Str("marker", "SOI").Msg("start of image")

	for {
		marker, err := jpg.readMarker()
		if err != nil {
			return nil, err
		}
		done, err := jpg.dispatchSegment(marker)
		if err != nil {
			return nil, err
		}
		if done {
			return jpg, nil
		}
	}
}

// readMarker consumes a 0xFF xx marker pair, skipping any 0xFF fill bytes
// that precede it (legal padding between segments), and is always called
// byte-aligned.
func (jpg *Desc) readMarker() (uint, error) {
	b, err := jpg.br.ReadByte(false)
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return 0, newErrorf(StructuralError, "segment", "expected marker, found byte 0x%02x at offset %d", b, jpg.br.Offset()-1)
	}
	for {
		b, err = jpg.br.ReadByte(false)
		if err != nil {
			return 0, err
		}
		if b != 0xFF {
			break
		}
	}
	return 0xff00 | uint(b), nil
}

// segmentLength reads the 16-bit big-endian length field that follows a
// marker, which includes its own two bytes (§4.3).
func (jpg *Desc) segmentLength() (int, error) {
	hi, err := jpg.br.ReadByte(false)
	if err != nil {
		return 0, err
	}
	lo, err := jpg.br.ReadByte(false)
	if err != nil {
		return 0, err
	}
	l := int(hi)<<8 | int(lo)
	if l < 2 {
		return 0, newErrorf(StructuralError, "segment", "invalid segment length %d", l)
	}
	return l, nil
}

// dispatchSegment handles exactly one marker per §4.3's table. It returns
// done=true once the scan header for the current scan has been fully
// parsed (BitReader positioned at the entropy-coded segment).
func (jpg *Desc) dispatchSegment(marker uint) (bool, error) {
	switch marker {
	case markerAPP0:
		return false, jpg.readAPP0()
	case markerDQT:
		return false, jpg.readDQT()
	case markerDHT:
		return false, jpg.readDHT()
	case markerSOF0:
		return false, jpg.readSOF(false)
	case markerSOF2:
		return false, jpg.readSOF(true)
	case markerCOM:
		return false, jpg.skipSegment()
	case markerSOS:
		return true, jpg.readSOS()
	case markerEOI:
		jpg.state = stateFinal
		return false, newErrorf(StructuralError, "segment", "unexpected EOI before any scan")
	default:
		return false, newErrorf(StructuralError, "segment", "unsupported marker 0x%x", marker)
	}
}

func (jpg *Desc) skipSegment() error {
	l, err := jpg.segmentLength()
	if err != nil {
		return err
	}
	return jpg.br.SkipBytes(l - 2)
}

func (jpg *Desc) readAPP0() error {
	l, err := jpg.segmentLength()
	if err != nil {
		return err
	}
	remaining := l - 2
	if remaining >= 5 {
		tag := make([]byte, 5)
		for i := range tag {
			b, err := jpg.br.ReadByte(false)
			if err != nil {
				return err
			}
			tag[i] = b
		}
		remaining -= 5
		if string(tag) != "JFIF\x00" {
			jpg.log.Debug().Msg("APP0 without JFIF identifier, ignoring")
		}
	}
	return jpg.br.SkipBytes(remaining)
}

func (jpg *Desc) readDQT() error {
	l, err := jpg.segmentLength()
	if err != nil {
		return err
	}
	remaining := l - 2
	for remaining > 0 {
		pq, err := jpg.br.ReadByte(false)
		if err != nil {
			return err
		}
		remaining--
		precision := pq >> 4
		index := pq & 0x0F
		if precision != 0 {
			return newErrorf(UnsupportedError, "segment", "16-bit quantization tables are not supported")
		}
		if index > 3 {
			return newErrorf(StructuralError, "segment", "invalid quantization table index %d", index)
		}
		q := &qdef{}
		for i := 0; i < 64; i++ {
			b, err := jpg.br.ReadByte(false)
			if err != nil {
				return err
			}
			q.values[i] = uint16(b)
			remaining--
		}
		// Redefinition replaces the prior table in place (§9 decided open
		// question (a): replace, not append).
		jpg.qtabs[index] = q
		jpg.log.Debug().Uint8("index", index).Msg("DQT table defined")
	}
	return nil
}

func (jpg *Desc) readDHT() error {
	l, err := jpg.segmentLength()
	if err != nil {
		return err
	}
	remaining := l - 2
	for remaining > 0 {
		tc, err := jpg.br.ReadByte(false)
		if err != nil {
			return err
		}
		remaining--
		class := tc >> 4
		index := tc & 0x0F
		if class > 1 || index > 3 {
			return newErrorf(StructuralError, "segment", "invalid Huffman table class/index %d/%d", class, index)
		}
		table, consumed, err := loadHuffmanTable(jpg.br)
		if err != nil {
			return err
		}
		remaining -= consumed
		jpg.htabs[class][index] = table
		jpg.log.Debug().Uint8("class", class).Uint8("index", index).Msg("DHT table defined")
	}
	return nil
}

func (jpg *Desc) readSOF(progressive bool) error {
	if jpg.frame != nil {
		return newErrorf(UnsupportedError, "segment", "hierarchical/multi-frame JPEG is not supported")
	}
	_, err := jpg.segmentLength()
	if err != nil {
		return err
	}
	precision, err := jpg.br.ReadByte(false)
	if err != nil {
		return err
	}
	if precision != 8 {
		return newErrorf(UnsupportedError, "segment", "sample precision %d is not supported", precision)
	}
	heightHi, _ := jpg.br.ReadByte(false)
	heightLo, _ := jpg.br.ReadByte(false)
	widthHi, _ := jpg.br.ReadByte(false)
	widthLo, _ := jpg.br.ReadByte(false)
	height := uint16(heightHi)<<8 | uint16(heightLo)
	width := uint16(widthHi)<<8 | uint16(widthLo)

	nc, err := jpg.br.ReadByte(false)
	if err != nil {
		return err
	}
	if nc != 1 && nc != 3 {
		return newErrorf(UnsupportedError, "segment", "component count %d is not supported (only 1 or 3)", nc)
	}

	frm := &frameHeader{progressive: progressive, precision: precision, height: height, width: width}
	var maxH, maxV uint8
	for i := 0; i < int(nc); i++ {
		id, err := jpg.br.ReadByte(false)
		if err != nil {
			return err
		}
		hv, err := jpg.br.ReadByte(false)
		if err != nil {
			return err
		}
		q, err := jpg.br.ReadByte(false)
		if err != nil {
			return err
		}
		h, v := hv>>4, hv&0x0F
		if h < 1 || h > 4 || v < 1 || v > 4 {
			return newErrorf(UnsupportedError, "segment", "sampling factor %d/%d out of [1,4]", h, v)
		}
		if q > 3 {
			return newErrorf(StructuralError, "segment", "invalid quantization table index %d", q)
		}
		frm.components = append(frm.components, component{id: id, h: h, v: v, quantIndex: q})
		if h > maxH {
			maxH = h
		}
		if v > maxV {
			maxV = v
		}
	}
	sum := 0
	for i := range frm.components {
		c := &frm.components[i]
		if int(maxH)%int(c.h) != 0 || int(maxV)%int(c.v) != 0 {
			return newErrorf(UnsupportedError, "segment", "component %d sampling factor %d/%d does not divide evenly into %d/%d", i, c.h, c.v, maxH, maxV)
		}
		sum += int(c.h) * int(c.v)
	}
	if sum > 10 {
		return newErrorf(UnsupportedError, "segment", "sum of h*v sampling factors %d exceeds 10", sum)
	}
	jpg.frame = frm
	jpg.maxH, jpg.maxV = maxH, maxV
	jpg.computeBlockGeometry()
	jpg.state = stateFrame
	jpg.log.Debug().Bool("progressive", progressive).Uint16("w", width).Uint16("h", height).Int("ncomp", int(nc)).Msg("SOF parsed")
	return nil
}

// computeBlockGeometry fills per-component block counts from the frame
// dimensions and sampling factors, and allocates the compressed-domain
// image storage (Image16, §3).
func (jpg *Desc) computeBlockGeometry() {
	frm := jpg.frame
	mcuWidth := int(jpg.maxH) * 8
	mcuHeight := int(jpg.maxV) * 8
	mcusPerLine := (int(frm.width) + mcuWidth - 1) / mcuWidth
	mcusPerColumn := (int(frm.height) + mcuHeight - 1) / mcuHeight

	for i := range frm.components {
		c := &frm.components[i]
		c.blocksPerLine = mcusPerLine * int(c.h)
		c.blocksPerColumn = mcusPerColumn * int(c.v)
		c.numBlocks = c.blocksPerLine * c.blocksPerColumn
	}
	jpg.image = newImage16(frm)
	for i := range frm.components {
		jpg.mcuMaps[i] = remapMCUs(jpg, i)
	}
}

func (jpg *Desc) readSOS() error {
	_, err := jpg.segmentLength()
	if err != nil {
		return err
	}
	ns, err := jpg.br.ReadByte(false)
	if err != nil {
		return err
	}
	jpg.scanComponents = jpg.scanComponents[:0]
	for i := 0; i < int(ns); i++ {
		cs, err := jpg.br.ReadByte(false)
		if err != nil {
			return err
		}
		td, err := jpg.br.ReadByte(false)
		if err != nil {
			return err
		}
		var comp *component
		for ci := range jpg.frame.components {
			if jpg.frame.components[ci].id == cs {
				comp = &jpg.frame.components[ci]
				break
			}
		}
		if comp == nil {
			return newErrorf(StructuralError, "segment", "scan references unknown component id %d", cs)
		}
		ref := &scanComponentRef{comp: comp, dcIndex: td >> 4, acIndex: td & 0x0F}
		jpg.scanComponents = append(jpg.scanComponents, ref)
	}
	ss, err := jpg.br.ReadByte(false)
	if err != nil {
		return err
	}
	se, err := jpg.br.ReadByte(false)
	if err != nil {
		return err
	}
	ahal, err := jpg.br.ReadByte(false)
	if err != nil {
		return err
	}
	jpg.ss, jpg.se = ss, se
	jpg.ah, jpg.al = ahal>>4, ahal&0x0F
	jpg.state = stateScanECS
	jpg.log.Debug().Int("ncomp", len(jpg.scanComponents)).Uint8("ss", ss).Uint8("se", se).Uint8("ah", jpg.ah).Uint8("al", jpg.al).Msg("SOS parsed")
	return nil
}

// nextProgressiveScan flushes the BitReader, scans markers, applies any
// number of DHT/DQT redefinitions, and stops at the next SOS (returns
// true, scan header already parsed) or EOI (returns false). Mirrors
// original_source's next_progressive_scan.
func (jpg *Desc) nextProgressiveScan() (bool, error) {
	jpg.br.Flush()
	for {
		marker, err := jpg.readMarker()
		if err != nil {
			return false, err
		}
		switch marker {
		case markerDHT:
			if err := jpg.readDHT(); err != nil {
				return false, err
			}
		case markerDQT:
			if err := jpg.readDQT(); err != nil {
				return false, err
			}
		case markerCOM:
			if err := jpg.skipSegment(); err != nil {
				return false, err
			}
		case markerSOS:
			if err := jpg.readSOS(); err != nil {
				return false, err
			}
			return true, nil
		case markerEOI:
			jpg.state = stateFinal
			return false, nil
		default:
			return false, newErrorf(StructuralError, "segment", "unexpected marker 0x%x between progressive scans", marker)
		}
	}
}

// subsamplingFormat renders a "4:2:0"-style string from the frame's
// sampling factors, surfaced for -v trace output and tests. Grounded on the
// teacher's segment.go:subsamplingFormat.
func (jpg *Desc) subsamplingFormat() string {
	if !jpg.isColor() {
		return "4:0:0"
	}
	y := &jpg.frame.components[0]
	switch {
	case y.h == jpg.maxH && y.v == jpg.maxV:
		cb := &jpg.frame.components[1]
		if cb.h*2 == y.h {
			if cb.v*2 == y.v {
				return "4:2:0"
			}
			return "4:2:2"
		}
		if cb.v*2 == y.v {
			return "4:4:0"
		}
		return "4:4:4"
	}
	return "unknown"
}
