// internal/fasta/writer.go
package fasta

import (
	"fmt"
	"io"
)

// DefaultWrap is the default output line width for sequences.
const DefaultWrap = 60

// minWrap is the smallest usable wrap width; shorter requests clamp up.
const minWrap = 5

// EffectiveWrap normalizes a requested wrap width: <= 0 means one line
// per sequence, 1..4 clamp to minWrap.
func EffectiveWrap(wrap int) int {
	if wrap <= 0 {
		return 0
	}
	if wrap < minWrap {
		return minWrap
	}
	return wrap
}

// WriteRecord serializes one record: a marker-prefixed header line, then
// the sequence wrapped at wrap columns (0 = single line). A record with
// an empty sequence serializes as a bare header line, which round-trips.
func WriteRecord(w io.Writer, rec Record, wrap int) error {
	if _, err := fmt.Fprintf(w, "%c%s\n", Marker, rec.Header); err != nil {
		return err
	}
	if rec.Seq == "" {
		return nil
	}
	wrap = EffectiveWrap(wrap)
	if wrap == 0 {
		_, err := fmt.Fprintf(w, "%s\n", rec.Seq)
		return err
	}
	for start := 0; start < len(rec.Seq); start += wrap {
		end := start + wrap
		if end > len(rec.Seq) {
			end = len(rec.Seq)
		}
		if _, err := fmt.Fprintf(w, "%s\n", rec.Seq[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// Write serializes records in order.
func Write(w io.Writer, recs []Record, wrap int) error {
	for _, rec := range recs {
		if err := WriteRecord(w, rec, wrap); err != nil {
			return err
		}
	}
	return nil
}
