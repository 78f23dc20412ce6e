// Command validate performs integrity checks on a GRIB2 precipitation file:
// section framing, grid geometry consistency, packing table sanity, and a
// full decode of the run-length coded data. It is meant for vetting fixture
// files and incoming feed samples before they reach the pipeline.
//
// Usage:
//
//	go run ./cmd/validate -file data/mock/precip_60x60.bin
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/precip-grid-etl/internal/domain"
	"github.com/couchcryptid/precip-grid-etl/internal/grib"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "path to the GRIB2 file to validate")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*file); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== GRIB2 Precipitation File Validation ===")
	fmt.Println()

	buf, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read file: %v\n", err)
		return 1
	}
	fmt.Printf("File: %s (%d bytes)\n", path, len(buf))

	msg, err := grib.Decode(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: decode: %v\n", err)
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateIdentification(msg),
		validateGeometry(msg),
		validatePacking(msg),
		validateData(msg),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	total, missing := countPoints(msg)
	fmt.Println()
	fmt.Printf("Fields: %d, grid points: %d, missing: %d, reference time: %s\n",
		len(msg.Fields), total, missing, msg.Identification.RefTime.Format("2006-01-02 15:04:05 UTC"))

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Validation phases ──

func validateIdentification(msg *grib.Message) *phase {
	p := &phase{name: "Identification section"}
	id := msg.Identification
	if id.RefTime.IsZero() {
		p.errorf("reference time is zero")
	}
	if y := id.RefTime.Year(); y < 2000 || y > 2100 {
		p.errorf("reference time year %d is implausible", y)
	}
	return p
}

func validateGeometry(msg *grib.Message) *phase {
	p := &phase{name: "Grid geometry consistency"}
	for i, f := range msg.Fields {
		g := f.Grid
		if uint64(g.Ni)*uint64(g.Nj) != uint64(g.Points) {
			p.errorf("field %d: %dx%d grid declares %d points", i, g.Ni, g.Nj, g.Points)
		}
		wantLat := g.LatFirst + int64(g.Nj-1)*g.StepLat()
		if g.LatLast != wantLat {
			p.errorf("field %d: last latitude %d, expected %d from first + (nj-1) increments",
				i, g.LatLast, wantLat)
		}
		wantLon := g.LonFirst + int64(g.Ni-1)*g.StepLon()
		if g.LonLast != wantLon {
			p.errorf("field %d: last longitude %d, expected %d from first + (ni-1) increments",
				i, g.LonLast, wantLon)
		}
		if g.LatFirst < -90000000 || g.LatFirst > 90000000 {
			p.errorf("field %d: first latitude %d outside [-90e6, 90e6]", i, g.LatFirst)
		}
	}
	return p
}

func validatePacking(msg *grib.Message) *phase {
	p := &phase{name: "Packing table sanity"}
	for i, f := range msg.Fields {
		t := f.Packing
		if t.Points != f.Grid.Points {
			p.errorf("field %d: packing declares %d points, grid %d", i, t.Points, f.Grid.Points)
		}
		for level := 1; level < t.LevelCount(); level++ {
			v, ok := t.Value(level)
			if !ok {
				p.errorf("field %d: level %d below the largest used has no value", i, level)
				continue
			}
			if v < 0 {
				p.errorf("field %d: level %d maps to negative precipitation %g", i, level, v)
			}
		}
	}
	return p
}

func validateData(msg *grib.Message) *phase {
	p := &phase{name: "Run-length data decode"}
	for i, f := range msg.Fields {
		if len(f.Levels) != int(f.Grid.Points) {
			p.errorf("field %d: decoded %d level indices, grid has %d points",
				i, len(f.Levels), f.Grid.Points)
		}
		for _, lvl := range f.Levels {
			if int(lvl) > int(f.Packing.MaxUsed) {
				p.errorf("field %d: level index %d exceeds largest used level %d", i, lvl, f.Packing.MaxUsed)
				break
			}
		}
		var emitted int
		for range domain.Assemble(&msg.Fields[i]) {
			emitted++
		}
		var missing int
		for _, lvl := range f.Levels {
			if lvl == 0 {
				missing++
			}
		}
		if emitted != int(f.Grid.Points)-missing {
			p.errorf("field %d: assembled %d points, expected %d non-missing",
				i, emitted, int(f.Grid.Points)-missing)
		}
	}
	return p
}

func countPoints(msg *grib.Message) (total, missing int) {
	for _, f := range msg.Fields {
		total += len(f.Levels)
		for _, lvl := range f.Levels {
			if lvl == 0 {
				missing++
			}
		}
	}
	return total, missing
}
