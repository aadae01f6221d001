// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"io"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zoobzio/pipz"

	"protfa/internal/alphabet"
	"protfa/internal/dedupe"
	"protfa/internal/fasta"
	"protfa/internal/policy"
	"protfa/internal/stats"
	"protfa/internal/validate"
)

// Options controls one Clean run.
type Options struct {
	Alphabet alphabet.Alphabet

	// Invalid-sequence handling. When Convert is set, sequences are
	// rewritten through ConvertTable before classification.
	Invalid      policy.Policy
	Convert      bool
	ConvertTable map[rune]string

	// Duplicate handling, per dimension.
	Header   policy.Policy
	Sequence policy.Policy

	// Length filter; 0 means unbounded on that side.
	MinLen int
	MaxLen int

	// Subsample keeps at most N records chosen uniformly; 0 keeps all.
	// Seed 0 draws from the clock.
	Subsample int
	Seed      int64

	// StripHeaderCommas replaces "," with ";" in headers.
	StripHeaderCommas bool

	// Threads sizes the validation worker pool.
	Threads int

	Logger *log.Logger
	Stats  *stats.Recorder
}

// Summary is the accounting for one completed run. Every record read is
// either in the final set or counted under exactly one removal reason.
type Summary struct {
	RecordsRead              int
	Converted                int
	InvalidRemoved           int
	DuplicateHeaderRemoved   int
	DuplicateSequenceRemoved int
	LengthRemoved            int
	Subsampled               int
	Final                    int
}

// state is the value threaded through the stage sequence.
type state struct {
	recs []fasta.Record
	sum  Summary
	opts Options
}

// Clean parses every source in order (record indexes run continuously
// across files), runs the stage sequence, and returns the cleaned
// ordered record set with its summary. On error no records and no
// summary are returned.
func Clean(ctx context.Context, sources []io.Reader, o Options) ([]fasta.Record, Summary, error) {
	st := &state{opts: o}
	for _, src := range sources {
		err := fasta.Each(ctx, src, func(rec fasta.Record) error {
			rec.Index = len(st.recs)
			st.recs = append(st.recs, rec)
			return nil
		})
		if err != nil {
			return nil, Summary{}, err
		}
	}
	st.sum.RecordsRead = len(st.recs)
	logInfo(o.Logger, "parsed records", "count", st.sum.RecordsRead)

	seq := pipz.NewSequence(pipz.Name("clean"), stages(o)...)
	out, err := seq.Process(ctx, st)
	if err != nil {
		return nil, Summary{}, err
	}
	out.sum.Final = len(out.recs)
	if o.Stats != nil {
		observe(o.Stats, out.sum)
	}
	return out.recs, out.sum, nil
}

func stages(o Options) []pipz.Chainable[*state] {
	var chain []pipz.Chainable[*state]
	if o.Convert {
		chain = append(chain, convertStage())
	}
	chain = append(chain, validateStage(), dedupeStage())
	if o.MinLen > 0 || o.MaxLen > 0 {
		chain = append(chain, lengthStage())
	}
	if o.Subsample > 0 {
		chain = append(chain, subsampleStage())
	}
	if o.StripHeaderCommas {
		chain = append(chain, headerStage())
	}
	return chain
}

func convertStage() pipz.Chainable[*state] {
	return pipz.Transform(pipz.Name("convert"), func(_ context.Context, st *state) *state {
		recs, changed := validate.Convert(st.recs, st.opts.ConvertTable)
		st.recs = recs
		st.sum.Converted = changed
		if changed > 0 {
			logInfo(st.opts.Logger, "converted sequences", "count", changed)
		}
		return st
	})
}

func validateStage() pipz.Chainable[*state] {
	return pipz.Apply(pipz.Name("validate"), func(ctx context.Context, st *state) (*state, error) {
		kept, removed, err := validate.Apply(ctx, st.recs, validate.Options{
			Alphabet: st.opts.Alphabet,
			Policy:   st.opts.Invalid,
			Threads:  st.opts.Threads,
		})
		if err != nil {
			return st, err
		}
		if removed > 0 {
			logInfo(st.opts.Logger, "removed invalid sequences", "removed", removed, "of", len(st.recs))
		}
		st.recs = kept
		st.sum.InvalidRemoved = removed
		return st, nil
	})
}

func dedupeStage() pipz.Chainable[*state] {
	return pipz.Apply(pipz.Name("dedupe"), func(_ context.Context, st *state) (*state, error) {
		kept, counts, err := dedupe.Apply(st.recs, dedupe.Options{
			Header:   st.opts.Header,
			Sequence: st.opts.Sequence,
		})
		if err != nil {
			return st, err
		}
		if counts.HeaderDups > 0 || counts.SequenceDups > 0 {
			logInfo(st.opts.Logger, "duplicates detected",
				"header", counts.HeaderDups, "sequence", counts.SequenceDups,
				"removed", counts.HeaderRemoved+counts.SequenceRemoved)
		}
		st.recs = kept
		st.sum.DuplicateHeaderRemoved = counts.HeaderRemoved
		st.sum.DuplicateSequenceRemoved = counts.SequenceRemoved
		return st, nil
	})
}

func lengthStage() pipz.Chainable[*state] {
	return pipz.Transform(pipz.Name("length-filter"), func(_ context.Context, st *state) *state {
		kept := st.recs[:0:0]
		for _, rec := range st.recs {
			if len(rec.Seq) < st.opts.MinLen {
				continue
			}
			if st.opts.MaxLen > 0 && len(rec.Seq) > st.opts.MaxLen {
				continue
			}
			kept = append(kept, rec)
		}
		st.sum.LengthRemoved = len(st.recs) - len(kept)
		if st.sum.LengthRemoved > 0 {
			logInfo(st.opts.Logger, "removed by length filter", "removed", st.sum.LengthRemoved)
		}
		st.recs = kept
		return st
	})
}

func subsampleStage() pipz.Chainable[*state] {
	return pipz.Transform(pipz.Name("subsample"), func(_ context.Context, st *state) *state {
		n := st.opts.Subsample
		if n >= len(st.recs) {
			return st
		}
		seed := st.opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		pick := rng.Perm(len(st.recs))[:n]
		sort.Ints(pick) // keep relative input order
		kept := make([]fasta.Record, 0, n)
		for _, i := range pick {
			kept = append(kept, st.recs[i])
		}
		st.sum.Subsampled = len(st.recs) - n
		logInfo(st.opts.Logger, "subsampled records", "kept", n, "dropped", st.sum.Subsampled)
		st.recs = kept
		return st
	})
}

func headerStage() pipz.Chainable[*state] {
	return pipz.Transform(pipz.Name("strip-header-commas"), func(_ context.Context, st *state) *state {
		out := make([]fasta.Record, len(st.recs))
		for i, rec := range st.recs {
			rec.Header = strings.ReplaceAll(rec.Header, ",", ";")
			out[i] = rec
		}
		st.recs = out
		return st
	})
}

func observe(r *stats.Recorder, s Summary) {
	r.AddRead(s.RecordsRead)
	r.AddConverted(s.Converted)
	r.AddRemoved(stats.ReasonInvalid, s.InvalidRemoved)
	r.AddRemoved(stats.ReasonDuplicateHeader, s.DuplicateHeaderRemoved)
	r.AddRemoved(stats.ReasonDuplicateSequence, s.DuplicateSequenceRemoved)
	r.AddRemoved(stats.ReasonLength, s.LengthRemoved)
	r.AddRemoved(stats.ReasonSubsample, s.Subsampled)
	r.SetFinal(s.Final)
}

func logInfo(l *log.Logger, msg string, kv ...any) {
	if l != nil {
		l.Info(msg, kv...)
	}
}
