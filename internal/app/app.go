// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"protfa/internal/alphabet"
	"protfa/internal/cli"
	"protfa/internal/fasta"
	"protfa/internal/pipeline"
	"protfa/internal/policy"
	"protfa/internal/stats"
	"protfa/internal/version"
	"protfa/internal/writers"
	"protfa/pkg/api"
)

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 64<<10)

	fs := cli.NewFlagSet("protfa")
	fs.SetOutput(io.Discard) // silence default flag pkg

	usage := func(code int) int {
		fs.SetOutput(outw)
		fs.Usage()
		flushErr := outw.Flush()
		if writers.IsBrokenPipe(flushErr) {
			return 0
		} else if flushErr != nil {
			fmt.Fprintln(stderr, flushErr)
			return 3
		}
		return code
	}

	// No args => register flags then print usage
	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		return usage(0)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return usage(0)
		}
		fmt.Fprintln(stderr, err)
		return usage(2)
	}
	if opts.Version {
		fmt.Fprintf(outw, "protfa version %s\n", version.Version)
		flushErr := outw.Flush()
		if writers.IsBrokenPipe(flushErr) {
			return 0
		} else if flushErr != nil {
			fmt.Fprintln(stderr, flushErr)
			return 3
		}
		return 0
	}

	logger := log.New(stderr)
	switch {
	case opts.Quiet:
		logger.SetLevel(log.WarnLevel)
	case opts.Verbose:
		logger.SetLevel(log.DebugLevel)
	}

	// Alphabet and invalid-residue handling. ParseArgs already vetted
	// the strings, so the second parses cannot fail.
	ab := alphabet.Canonical()
	table := alphabet.StandardConversion()
	if opts.Alignment {
		ab = alphabet.Alignment()
		table = alphabet.AlignmentConversion()
	}
	if opts.ExtraChars != "" {
		ab = ab.With(opts.ExtraChars)
	}
	invalidPol, convert, _ := policy.ParseInvalidAction(opts.Invalid)
	hdrPol, _ := policy.Parse(opts.DupHeader)
	seqPol, _ := policy.Parse(opts.DupSequence)

	recorder := stats.NewRecorder()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Inputs
	var sources []io.Reader
	var closers []io.Closer
	for _, path := range opts.Inputs {
		rc, err := fasta.Open(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			for _, c := range closers {
				_ = c.Close()
			}
			return 2
		}
		sources = append(sources, rc)
		closers = append(closers, rc)
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	recs, sum, err := pipeline.Clean(ctx, sources, pipeline.Options{
		Alphabet:          ab,
		Invalid:           invalidPol,
		Convert:           convert,
		ConvertTable:      table,
		Header:            hdrPol,
		Sequence:          seqPol,
		MinLen:            opts.MinLen,
		MaxLen:            opts.MaxLen,
		Subsample:         opts.Subsample,
		Seed:              opts.Seed,
		StripHeaderCommas: opts.StripCommas,
		Threads:           opts.Threads,
		Logger:            logger,
		Stats:             recorder,
	})
	if err != nil {
		if ctx.Err() != nil {
			return 130
		}
		logger.Error("clean failed", "err", err)
		return 1
	}

	// Output sink
	var out io.Writer = outw
	var outFile *os.File
	if opts.Output != "-" && opts.Output != "" {
		outFile, err = os.Create(opts.Output)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
		out = bufio.NewWriterSize(outFile, 64<<10)
	}

	ch, errCh := writers.StartRecordWriter(out, opts.Format, fasta.EffectiveWrap(opts.Wrap), 0)
	for _, rec := range recs {
		ch <- rec
	}
	close(ch)
	werr := <-errCh
	if werr == nil {
		if bw, ok := out.(*bufio.Writer); ok {
			werr = bw.Flush()
		}
	}
	if outFile != nil {
		if cerr := outFile.Close(); werr == nil {
			werr = cerr
		}
	}
	if writers.IsBrokenPipe(werr) {
		return 0
	}
	if werr != nil {
		fmt.Fprintln(stderr, werr)
		return 3
	}

	if opts.PrintStats {
		logStatistics(logger, recs, sum)
	}
	if opts.Summary != "" {
		if err := writeSummary(opts.Summary, sum); err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
	}
	if opts.Metrics != "" {
		if err := writeMetrics(opts.Metrics, recorder); err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
	}

	if ctx.Err() != nil {
		return 130
	}
	return 0
}

func logStatistics(logger *log.Logger, recs []fasta.Record, sum pipeline.Summary) {
	shortest, longest, total := 0, 0, 0
	for i, rec := range recs {
		n := len(rec.Seq)
		total += n
		if i == 0 || n < shortest {
			shortest = n
		}
		if n > longest {
			longest = n
		}
	}
	mean := 0.0
	if len(recs) > 0 {
		mean = float64(total) / float64(len(recs))
	}
	logger.Info("statistics",
		"read", sum.RecordsRead,
		"final", sum.Final,
		"shortest", shortest,
		"longest", longest,
		"mean_length", fmt.Sprintf("%.1f", mean))
}

func writeSummary(path string, sum pipeline.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	v := api.SummaryV1{
		RecordsRead:              sum.RecordsRead,
		Converted:                sum.Converted,
		InvalidRemoved:           sum.InvalidRemoved,
		DuplicateHeaderRemoved:   sum.DuplicateHeaderRemoved,
		DuplicateSequenceRemoved: sum.DuplicateSequenceRemoved,
		LengthRemoved:            sum.LengthRemoved,
		Subsampled:               sum.Subsampled,
		RecordsFinal:             sum.Final,
	}
	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeMetrics(path string, r *stats.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteText(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
