// Command grib2csv decodes a GRIB2 precipitation analysis file and writes
// every non-missing grid point as a CSV row of longitude, latitude, and
// physical value. Coordinates are decimal degrees; bounding box options are
// integers in degrees times 1e6, matching the grid's internal fixed-point
// convention.
//
// Usage:
//
//	grib2csv [options] <input.bin> <output.csv>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/couchcryptid/precip-grid-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/precip-grid-etl/internal/domain"
	"github.com/couchcryptid/precip-grid-etl/internal/grib"
	"github.com/couchcryptid/precip-grid-etl/internal/observability"
)

const version = "1.0.0"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "grib2csv:", err)
		os.Exit(1)
	}
}

// boundFlag is an optional micro-degree bound; unset means that side of the
// box stays open.
type boundFlag struct {
	value int64
	isSet bool
}

func (b *boundFlag) String() string {
	if !b.isSet {
		return ""
	}
	return strconv.FormatInt(b.value, 10)
}

func (b *boundFlag) Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%q is not an integer of degrees times 1e6", s)
	}
	b.value, b.isSet = v, true
	return nil
}

func (b *boundFlag) ptr() *int64 {
	if !b.isSet {
		return nil
	}
	return &b.value
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("grib2csv", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: grib2csv [options] <input.bin> <output.csv>")
		fs.PrintDefaults()
	}

	var north, south, west, east boundFlag
	fs.Var(&north, "n", "northernmost latitude, degrees times 1e6")
	fs.Var(&north, "northernmost", "northernmost latitude, degrees times 1e6")
	fs.Var(&south, "s", "southernmost latitude, degrees times 1e6")
	fs.Var(&south, "southernmost", "southernmost latitude, degrees times 1e6")
	fs.Var(&west, "w", "westernmost longitude, degrees times 1e6")
	fs.Var(&west, "westernmost", "westernmost longitude, degrees times 1e6")
	fs.Var(&east, "e", "easternmost longitude, degrees times 1e6")
	fs.Var(&east, "easternmost", "easternmost longitude, degrees times 1e6")
	noHeader := fs.Bool("no-header", false, "suppress the CSV header row")
	showVersion := fs.Bool("v", false, "print version and exit")
	fs.BoolVar(showVersion, "version", false, "print version and exit")
	verbose := fs.Bool("verbose", false, "log decode details")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Fprintln(stdout, "grib2csv", version)
		return nil
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("expected <input.bin> and <output.csv>, got %d arguments", fs.NArg())
	}
	input, output := fs.Arg(0), fs.Arg(1)

	box := domain.BoundingBox{
		North: north.ptr(),
		South: south.ptr(),
		West:  west.ptr(),
		East:  east.ptr(),
	}
	if err := box.Validate(); err != nil {
		return err
	}

	logger := observability.NewCLILogger(*verbose)

	buf, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	msg, err := grib.Decode(buf)
	if err != nil {
		return fmt.Errorf("decode %s: %w", input, err)
	}
	logger.Debug("message decoded",
		"reference_time", msg.Identification.RefTime,
		"fields", len(msg.Fields),
	)

	// The output file is only created once the whole message has decoded,
	// so a malformed input never leaves a partial CSV behind.
	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}

	w := csvfile.NewWriter(out, !*noHeader)
	var points int
	for i := range msg.Fields {
		for p := range box.Filter(domain.Assemble(&msg.Fields[i])) {
			if err := w.WritePoint(p); err != nil {
				out.Close()
				return err
			}
			points++
		}
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}

	logger.Info("wrote csv", "output", output, "points", points)
	return nil
}
