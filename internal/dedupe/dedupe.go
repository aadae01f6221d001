// internal/dedupe/dedupe.go

// Package dedupe detects duplicate headers and duplicate sequence
// content with first-seen index maps. The maps are local to one call,
// so pipeline runs never leak state between invocations.
package dedupe

import (
	"fmt"

	"protfa/internal/fasta"
	"protfa/internal/policy"
)

// Dimension names which duplicate check fired.
type Dimension uint8

const (
	Header Dimension = iota
	Sequence
)

func (d Dimension) String() string {
	if d == Header {
		return "header"
	}
	return "sequence"
}

// DuplicateError is raised under the Fail policy on the first duplicate
// found in its dimension.
type DuplicateError struct {
	Dimension  Dimension
	Key        string
	FirstIndex int
	DupIndex   int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s %q (records %d and %d)", e.Dimension, e.Key, e.FirstIndex, e.DupIndex)
}

// Options holds the per-dimension policies.
type Options struct {
	Header   policy.Policy
	Sequence policy.Policy
}

// Counts reports duplicates detected and records removed. Detection is
// per dimension and independent; removal is exclusive: a record that is
// a duplicate on both dimensions is removed (and counted) once, under
// the header dimension.
type Counts struct {
	HeaderDups      int
	SequenceDups    int
	HeaderRemoved   int
	SequenceRemoved int
}

// Apply runs both duplicate checks in one ordered pass. The first-seen
// maps cover every incoming record regardless of removal, so the two
// dimensions behave as independent passes; removals are cumulative.
// Ties are always broken by lowest index, so the result is
// deterministic for a given input and policy set.
func Apply(recs []fasta.Record, o Options) ([]fasta.Record, Counts, error) {
	var counts Counts
	firstHdr := make(map[string]int, len(recs))
	firstSeq := make(map[string]int, len(recs))
	kept := make([]fasta.Record, 0, len(recs))

	for _, rec := range recs {
		hdrFirst, hdrDup := firstHdr[rec.Header]
		seqFirst, seqDup := firstSeq[rec.Seq]

		if hdrDup {
			counts.HeaderDups++
			if o.Header == policy.Fail {
				return nil, counts, &DuplicateError{Dimension: Header, Key: rec.Header, FirstIndex: hdrFirst, DupIndex: rec.Index}
			}
		} else {
			firstHdr[rec.Header] = rec.Index
		}
		if seqDup {
			counts.SequenceDups++
			if o.Sequence == policy.Fail {
				return nil, counts, &DuplicateError{Dimension: Sequence, Key: rec.Seq, FirstIndex: seqFirst, DupIndex: rec.Index}
			}
		} else {
			firstSeq[rec.Seq] = rec.Index
		}

		switch {
		case hdrDup && o.Header == policy.Remove:
			counts.HeaderRemoved++
		case seqDup && o.Sequence == policy.Remove:
			counts.SequenceRemoved++
		default:
			kept = append(kept, rec)
		}
	}
	return kept, counts, nil
}
