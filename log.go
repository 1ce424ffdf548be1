package jpeg

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// newTracer builds the zerolog.Logger threaded through a Desc for the
// lifetime of a Parse/Decode call. It replaces the teacher's
// fmt.Printf-gated INFO_MSG-style tracing with structured debug events,
// which desc.go emits at SOI, at each DQT/DHT table definition, at the
// frame header and at each scan header.
func newTracer(verbose bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.Disabled
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
