package jpeg

// JPEG marker definitions, restricted to the markers §6 lists as supported
// (all others are fatal per §4.3 "unknown markers are fatal"). Naming and
// values follow the teacher's jpeg.go marker table.
const (
	markerSOI  = 0xffd8 // Start Of Image
	markerEOI  = 0xffd9 // End Of Image
	markerSOS  = 0xffda // Start Of Scan
	markerDQT  = 0xffdb // Define Quantization Table
	markerDHT  = 0xffc4 // Define Huffman Table
	markerSOF0 = 0xffc0 // Baseline DCT
	markerSOF2 = 0xffc2 // Progressive DCT
	markerAPP0 = 0xffe0 // JFIF application segment
	markerCOM  = 0xfffe // Comment
)

func markerName(m uint) string {
	switch m {
	case markerSOI:
		return "SOI"
	case markerEOI:
		return "EOI"
	case markerSOS:
		return "SOS"
	case markerDQT:
		return "DQT"
	case markerDHT:
		return "DHT"
	case markerSOF0:
		return "SOF0"
	case markerSOF2:
		return "SOF2"
	case markerAPP0:
		return "APP0"
	case markerCOM:
		return "COM"
	}
	return "unknown"
}

// zigZagRowCol[row][col] is the zig-zag index of raster position (row,col),
// identical to the teacher's jpeg.go table (itself the standard JPEG Annex A ordering).
var zigZagRowCol = [8][8]int{
	{0, 1, 5, 6, 14, 15, 27, 28},
	{2, 4, 7, 13, 16, 26, 29, 42},
	{3, 8, 12, 17, 25, 30, 41, 43},
	{9, 11, 18, 24, 31, 40, 44, 53},
	{10, 19, 23, 32, 39, 45, 52, 54},
	{20, 22, 33, 38, 46, 51, 55, 60},
	{21, 34, 37, 47, 50, 56, 59, 61},
	{35, 36, 48, 49, 57, 58, 62, 63},
}

// zigZagToRaster flattens zigZagRowCol into a 64-entry lookup, zigzag index
// -> raster index, used directly by inverseQuantize. zigZagRowCol[r][c] is
// raster position (r,c)'s zig-zag source index (the teacher indexes it that
// way in dequantize), so this is built as its inverse permutation.
var zigZagToRaster [64]int

func init() {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			zigZagToRaster[zigZagRowCol[row][col]] = row*8 + col
		}
	}
}

// parsing state, following the teacher's _INIT.._FINAL machine, trimmed to
// the markers this decoder supports (no DNL/RSTn/hierarchical states).
const (
	stateInit = iota
	stateApplication
	stateFrame
	stateScan
	stateScanECS
	stateFinal
)

var stateNames = [...]string{
	"initial", "application", "frame", "scan", "scan entropy segment", "final",
}

// DecodeOptions generalizes the teacher's Control struct (verbosity toggles)
// with the ambient-stack additions named in SPEC_FULL.md §10.5: worker-pool
// enablement and the two CLI dump modes.
type DecodeOptions struct {
	Verbose         bool // -v: structured trace of markers/scans via zerolog
	Blabla          bool // -b: per-block pipeline dump, inhibits image writing
	DumpProgressive bool // -p: write prog_out_<n> after every progressive scan
	Multithread     bool // -m: enable the worker pool for post-entropy stages
	WorkerCount     int  // 0 => runtime.GOMAXPROCS(0)
}
