// Command jpegdec decodes a baseline or progressive JPEG file to a PGM
// or PPM image on disk.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	jpeg "github.com/tholman/jpegdec"
)

var opts jpeg.DecodeOptions
var outPath string

func main() {
	root := &cobra.Command{
		Use:   "jpegdec <file.jpg> [output]",
		Short: "Decode a baseline or progressive JPEG file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  run,
	}
	flags := root.Flags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "trace markers and scans as they are parsed")
	flags.BoolVarP(&opts.Blabla, "blabla", "b", false, "dump the full per-block pipeline instead of writing an image")
	flags.BoolVarP(&opts.DumpProgressive, "progressive-dump", "p", false, "write an intermediate image after every progressive scan")
	flags.BoolVarP(&opts.Multithread, "multithread", "m", false, "decode using a worker pool instead of a single goroutine")
	flags.IntVarP(&opts.WorkerCount, "workers", "w", 0, "worker count for -m (0 = GOMAXPROCS)")
	flags.StringVarP(&outPath, "output", "o", "", "output path (default: input name with .pgm/.ppm extension)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if opts.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	path := args[0]
	if len(args) > 1 {
		outPath = args[1]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("decoding "+filepath.Base(path)),
		progressbar.OptionSpinnerType(11),
		progressbar.OptionSetVisibility(!opts.Verbose && !opts.Blabla),
	)
	defer bar.Finish()
	bar.Add(1)

	img, dim, err := jpeg.Decode(data, opts)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("decode failed")
		return err
	}
	if opts.Blabla {
		return nil
	}
	bar.Add(1)

	if outPath == "" {
		outPath = defaultOutputPath(path, img)
	}
	if err := jpeg.Write(outPath, img, dim); err != nil {
		log.Error().Err(err).Str("file", outPath).Msg("write failed")
		return err
	}
	log.Info().Str("output", outPath).Int("width", dim.Width).Int("height", dim.Height).Msg("decoded")
	return nil
}

func defaultOutputPath(inPath string, img *jpeg.Image8) string {
	base := strings.TrimSuffix(inPath, filepath.Ext(inPath))
	if img.IsColor() {
		return base + ".ppm"
	}
	return base + ".pgm"
}
