// Package domain turns decoded precipitation grids into geographic
// point/value records.
//
// # Coordinate conventions
//
// All coordinates inside the pipeline are micro-degrees: degrees × 1,000,000
// as signed integers, matching both the source format and the bounding-box
// options of the CLIs. 36.5°N is 36500000; 98.44°W is -98440000. Converting
// to decimal degrees is a presentation concern and happens only at the CSV
// boundary.
//
// # Grid walk order
//
// A decoded field is a dense row-major sequence of level indices. Row 0
// starts at the grid's first point; within a row, longitude advances by the
// signed column increment per point, and each new row moves latitude by the
// signed row increment. For the JMA analysis grids this means west→east,
// north→south, but both directions follow the grid's scanning flags rather
// than being assumed.
//
// # Missing values
//
// Level index 0 is the reserved "missing" level. Missing points are never
// emitted as zero or null; the walk simply advances past them.
package domain
