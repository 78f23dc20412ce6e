// Package csvfile writes decoded grid points as CSV rows, one non-missing
// point per row as longitude, latitude, value. Coordinates arrive in
// micro-degrees and are printed as decimal degrees with six fractional
// digits, which preserves them exactly.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/couchcryptid/precip-grid-etl/internal/domain"
)

var header = []string{"longitude", "latitude", "value"}

// Writer streams grid points to an underlying writer in CSV form.
type Writer struct {
	csv        *csv.Writer
	withHeader bool
	wroteAny   bool
}

// NewWriter wraps w. When withHeader is set, a header row precedes the
// first point.
func NewWriter(w io.Writer, withHeader bool) *Writer {
	return &Writer{csv: csv.NewWriter(w), withHeader: withHeader}
}

// WritePoints drains the sequence into the output. It is single-pass and
// returns the first write error.
func (w *Writer) WritePoints(points iter.Seq[domain.GridPoint]) error {
	for p := range points {
		if err := w.WritePoint(p); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WritePoint appends one row, emitting the header first when configured.
func (w *Writer) WritePoint(p domain.GridPoint) error {
	if err := w.writeHeaderOnce(); err != nil {
		return err
	}

	row := []string{
		FormatMicroDegrees(p.Lon),
		FormatMicroDegrees(p.Lat),
		strconv.FormatFloat(p.Value, 'f', -1, 64),
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

// Flush forces buffered rows out and reports any deferred write error. The
// header is still emitted when no points were written, so an empty result
// is a valid CSV file rather than an empty one.
func (w *Writer) Flush() error {
	if err := w.writeHeaderOnce(); err != nil {
		return err
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (w *Writer) writeHeaderOnce() error {
	if w.wroteAny {
		return nil
	}
	w.wroteAny = true
	if !w.withHeader {
		return nil
	}
	if err := w.csv.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	return nil
}

// FormatMicroDegrees renders a micro-degree coordinate as decimal degrees
// with a fixed six-digit fraction.
func FormatMicroDegrees(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%06d", sign, v/1000000, v%1000000)
}
