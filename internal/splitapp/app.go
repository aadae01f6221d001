// internal/splitapp/app.go
package splitapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"protfa/internal/fasta"
	"protfa/internal/shard"
	"protfa/internal/splitcli"
	"protfa/internal/stats"
	"protfa/internal/version"
	"protfa/internal/writers"
)

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 64<<10)

	fs := splitcli.NewFlagSet("protfa-split")
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

	if len(argv) == 0 {
		_, _ = splitcli.ParseArgs(fs, []string{"-h"})
		return usage(0)
	}

	opts, err := splitcli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return usage(0)
		}
		fmt.Fprintln(stderr, err)
		return usage(2)
	}
	if opts.Version {
		fmt.Fprintf(outw, "protfa-split version %s\n", version.Version)
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

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Parse all inputs; indexes run continuously across files.
	var recs []fasta.Record
	for _, path := range opts.Inputs {
		rc, err := fasta.Open(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		err = fasta.Each(ctx, rc, func(rec fasta.Record) error {
			rec.Index = len(recs)
			recs = append(recs, rec)
			return nil
		})
		if cerr := rc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			if ctx.Err() != nil {
				return 130
			}
			logger.Error("parse failed", "file", path, "err", err)
			return 1
		}
	}
	logger.Info("parsed records", "count", len(recs), "files", len(opts.Inputs))

	shards, err := shard.Split(recs, opts.Chunks, opts.AllowEmpty)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	stem := shardStem(opts.Inputs[0])
	if opts.DryRun {
		for i, s := range shards {
			logger.Info("planned shard",
				"file", filepath.Join(opts.OutputDir, shard.Filename(stem, i)),
				"records", len(s))
		}
		_ = outw.Flush()
		return 0
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		fmt.Fprintln(stderr, err)
		return 3
	}

	recorder := stats.NewRecorder()
	wrap := fasta.EffectiveWrap(opts.Wrap)

	// One writer per shard; first error wins.
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for i, s := range shards {
		wg.Add(1)
		go func(i int, s []fasta.Record) {
			defer wg.Done()
			path := filepath.Join(opts.OutputDir, shard.Filename(stem, i))
			if err := writeShard(path, s, wrap); err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			logger.Debug("wrote shard", "file", path, "records", len(s))
		}(i, s)
	}
	wg.Wait()
	if firstErr != nil {
		fmt.Fprintln(stderr, firstErr)
		return 3
	}
	recorder.AddShards(len(shards))
	recorder.AddRead(len(recs))
	logger.Info("split complete", "records", len(recs), "shards", len(shards), "dir", opts.OutputDir)

	if opts.Metrics != "" {
		if err := writeMetrics(opts.Metrics, recorder); err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
	}

	if err := outw.Flush(); err != nil && !writers.IsBrokenPipe(err) {
		fmt.Fprintln(stderr, err)
		return 3
	}
	if ctx.Err() != nil {
		return 130
	}
	return 0
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

func writeShard(path string, recs []fasta.Record, wrap int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(f, 64<<10)
	if err := fasta.Write(bw, recs, wrap); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// shardStem derives the output filename stem from the first input path:
// basename with .gz and FASTA extensions stripped, "stdin" for '-'.
func shardStem(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	for _, ext := range []string{".fasta", ".fa", ".faa"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return base
}
