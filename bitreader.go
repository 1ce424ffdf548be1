package jpeg

// BitReader is a byte-buffered, MSB-first bit reader over an in-memory JPEG
// file. It owns all buffering and byte addressing for the decoder: no other
// component reads raw bytes (§9 "owning the bit buffer").
//
// Grounded on original_source/src/bitstream.c (read_bitstream_rec's
// recursive fetch-and-unstuff and end_of_bitstream's peek-and-rewind) and
// generalized with the buffering style of
// leijurv-lepton_jpeg_go/lepton/bit_reader.go (register-based fill, explicit
// 0xFF-escape handling), adapted to operate over a []byte slice instead of
// an io.Reader since the whole file is already resident (as in the
// teacher's Desc.data).
type BitReader struct {
	data   []byte
	pos    int  // next unread byte
	cur    byte // current partially-consumed byte
	nbits  uint // unconsumed MSB bits remaining in cur, in [0,8]
}

// NewBitReader wraps data starting at offset.
func NewBitReader(data []byte, offset int) *BitReader {
	return &BitReader{data: data, pos: offset}
}

// Offset returns the byte offset of the next unread byte (ignoring any
// partially consumed bits still held in cur).
func (r *BitReader) Offset() int {
	return r.pos
}

// nextRawByte fetches the next byte from the underlying slice with no
// unstuffing, failing fatally on EOF per §4.1 "unexpected end-of-file on any
// byte read is fatal".
func (r *BitReader) nextRawByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, newErrorf(IoError, "bitreader", "unexpected end of file at offset %d", r.pos)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// fill ensures at least one more bit is available in cur/nbits, applying
// 0xFF 0x00 unstuffing when unstuff is true. When a real marker (0xFF
// followed by a non-zero byte) is encountered, the reader rewinds both
// bytes so the caller observes the marker on its next byte-oriented read.
func (r *BitReader) fill(unstuff bool) error {
	b, err := r.nextRawByte()
	if err != nil {
		return err
	}
	if unstuff && b == 0xFF {
		next, err := r.nextRawByte()
		if err != nil {
			return err
		}
		if next != 0x00 {
			// Real marker: rewind both bytes so the caller (segment parser)
			// sees 0xFF xx next, exactly as original_source's
			// end_of_bitstream/read_bitstream_rec rewind with fseek(-1).
			r.pos -= 2
			return newErrorf(EntropyError, "bitreader", "marker 0xff%02x encountered in entropy segment", next)
		}
		// escaped 0xFF 0x00 -> single stuffed 0xFF byte
	}
	r.cur = b
	r.nbits = 8
	return nil
}

// ReadBits returns the next n bits (n in [0,32]) MSB-first. See §4.1.
func (r *BitReader) ReadBits(n uint, unstuff bool) (uint32, error) {
	if n > 32 {
		return 0, newErrorf(LogicError, "bitreader", "cannot read %d bits in one call", n)
	}
	var v uint32
	for n > 0 {
		if r.nbits == 0 {
			if err := r.fill(unstuff); err != nil {
				return 0, err
			}
		}
		take := n
		if take > r.nbits {
			take = r.nbits
		}
		shift := r.nbits - take
		bits := (uint32(r.cur) >> shift) & ((1 << take) - 1)
		v = (v << take) | bits
		r.nbits -= take
		n -= take
	}
	return v, nil
}

// ReadBit is shorthand for ReadBits(1, unstuff).
func (r *BitReader) ReadBit(unstuff bool) (uint32, error) {
	return r.ReadBits(1, unstuff)
}

// ReadByte reads one byte-aligned octet. It only makes sense when the
// reader is currently byte-aligned (nbits == 0); segment headers always
// call it in that state.
func (r *BitReader) ReadByte(unstuff bool) (byte, error) {
	v, err := r.ReadBits(8, unstuff)
	return byte(v), err
}

// SkipBytes advances n bytes and forces the bit buffer to empty, matching
// original_source's skip_bytes.
func (r *BitReader) SkipBytes(n int) error {
	if r.pos+n > len(r.data) {
		return newErrorf(IoError, "bitreader", "skip past end of file")
	}
	r.pos += n
	r.nbits = 0
	return nil
}

// Flush discards any partially consumed byte so the next read is
// byte-aligned, matching original_source's flush_stream. Used at the end of
// an entropy-coded segment before the segment parser resumes marker
// scanning.
func (r *BitReader) Flush() {
	r.nbits = 0
}

// AtEOI peeks one byte; if it is the EOI marker second byte (0xD9) following
// a 0xFF, it consumes both and returns true. Otherwise it rewinds. Mirrors
// original_source's end_of_bitstream.
func (r *BitReader) AtEOI() bool {
	save := r.pos
	if r.pos+1 >= len(r.data) {
		return false
	}
	if r.data[r.pos] == 0xFF && r.data[r.pos+1] == 0xD9 {
		r.pos += 2
		r.nbits = 0
		return true
	}
	r.pos = save
	return false
}

// PeekMarker reports whether the reader is positioned (byte-aligned) at a
// 0xFF xx marker without consuming it, returning the marker value
// (0xff00 | xx) when found.
func (r *BitReader) PeekMarker() (uint, bool) {
	if r.nbits != 0 {
		return 0, false
	}
	if r.pos+1 >= len(r.data) {
		return 0, false
	}
	if r.data[r.pos] != 0xFF {
		return 0, false
	}
	// skip fill bytes (0xFF padding before a real marker is legal between
	// segments)
	p := r.pos
	for p < len(r.data) && r.data[p] == 0xFF {
		p++
	}
	if p >= len(r.data) {
		return 0, false
	}
	if r.data[p] == 0x00 {
		return 0, false
	}
	return 0xff00 | uint(r.data[p]), true
}
