// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"protfa/internal/fasta"
)

// RecordWriterFunc serializes one record; wrap is the sequence line
// width (0 = single line) and only matters to line-oriented formats.
type RecordWriterFunc func(w io.Writer, rec fasta.Record, wrap int) error

var recordWriters = map[string]RecordWriterFunc{}

// Register adds a format handler (last registration wins).
func Register(format string, fn RecordWriterFunc) { recordWriters[format] = fn }

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(recordWriters))
	for f := range recordWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Known reports whether format has a registered writer.
func Known(format string) bool {
	_, ok := recordWriters[format]
	return ok
}

// WriteRecord dispatches one record to the format's writer.
func WriteRecord(format string, w io.Writer, rec fasta.Record, wrap int) error {
	fn, ok := recordWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, rec, wrap)
}

// WriteAll serializes records in order.
func WriteAll(format string, w io.Writer, recs []fasta.Record, wrap int) error {
	for _, rec := range recs {
		if err := WriteRecord(format, w, rec, wrap); err != nil {
			return err
		}
	}
	return nil
}
