// internal/validate/validate.go

// Package validate classifies record sequences against an alphabet and
// applies the invalid-sequence policy.
package validate

import (
	"context"
	"fmt"
	"sync"

	"protfa/internal/alphabet"
	"protfa/internal/fasta"
	"protfa/internal/policy"
)

// InvalidSequenceError is raised under the Fail policy on the first
// invalid record, in input order.
type InvalidSequenceError struct {
	Header string
	Index  int
	Char   rune
}

func (e *InvalidSequenceError) Error() string {
	return fmt.Sprintf("invalid character %q in sequence %q (record %d)", e.Char, e.Header, e.Index)
}

// Options controls validation.
type Options struct {
	Alphabet alphabet.Alphabet
	Policy   policy.Policy
	// Threads sizes the classification worker pool; <=1 runs inline.
	// Classification is independent per record, so parallel and serial
	// runs produce identical results.
	Threads int
}

// verdict is the classification of one record.
type verdict struct {
	bad rune
	ok  bool
}

// Apply classifies every record and applies the policy. The returned
// slice preserves input order; removed reports how many records were
// dropped (always 0 under Ignore and Fail).
func Apply(ctx context.Context, recs []fasta.Record, o Options) (kept []fasta.Record, removed int, err error) {
	verdicts := classify(ctx, recs, o)
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	kept = make([]fasta.Record, 0, len(recs))
	for i, rec := range recs {
		v := verdicts[i]
		if v.ok {
			kept = append(kept, rec)
			continue
		}
		switch o.Policy {
		case policy.Fail:
			return nil, 0, &InvalidSequenceError{Header: rec.Header, Index: rec.Index, Char: v.bad}
		case policy.Remove:
			removed++
		default:
			kept = append(kept, rec)
		}
	}
	return kept, removed, nil
}

// Count returns how many records fail classification, without applying
// any policy.
func Count(recs []fasta.Record, ab alphabet.Alphabet) int {
	n := 0
	for _, rec := range recs {
		if _, ok := ab.Check(rec.Seq); !ok {
			n++
		}
	}
	return n
}

// classify is the parallel map phase: verdicts are computed per record
// by a worker pool, indexed by position so the reduce phase stays
// strictly ordered.
func classify(ctx context.Context, recs []fasta.Record, o Options) []verdict {
	verdicts := make([]verdict, len(recs))
	threads := o.Threads
	if threads <= 1 || len(recs) < 2*threads {
		for i, rec := range recs {
			bad, ok := o.Alphabet.Check(rec.Seq)
			verdicts[i] = verdict{bad: bad, ok: ok}
		}
		return verdicts
	}

	jobs := make(chan int, threads*2)
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				bad, ok := o.Alphabet.Check(recs[i].Seq)
				verdicts[i] = verdict{bad: bad, ok: ok}
			}
		}()
	}
feed:
	for i := range recs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return verdicts
}

// Convert rewrites each record's sequence through table, returning a
// new slice (records are never edited in place) and the number of
// sequences that changed. Indexes are preserved.
func Convert(recs []fasta.Record, table map[rune]string) ([]fasta.Record, int) {
	out := make([]fasta.Record, len(recs))
	changed := 0
	for i, rec := range recs {
		seq, hit := alphabet.Convert(rec.Seq, table)
		if hit {
			changed++
			rec.Seq = seq
		}
		out[i] = rec
	}
	return out, changed
}
