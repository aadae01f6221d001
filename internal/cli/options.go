// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"protfa/internal/clibase"
	"protfa/internal/cliutil"
	"protfa/internal/policy"
	"protfa/internal/version"
	"protfa/internal/writers"
)

// Options holds all CLI flags and arguments for the clean tool.
type Options struct {
	clibase.Common

	// Output
	Output  string
	Format  string
	Metrics string
	Summary string

	// Policies
	DupHeader   string
	DupSequence string
	Invalid     string

	// Alphabet
	Alignment  bool
	ExtraChars string

	// Filters
	MinLen    int
	MaxLen    int
	Subsample int
	Seed      int64

	// Header rewriting
	StripCommas bool

	// Reporting
	PrintStats bool

	// Performance
	Threads int
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: parse, validate, deduplicate and rewrite protein FASTA

Version: %s

Usage: %s [options] <input.fasta ...>
Inputs may be plain or gzip-compressed; '-' reads stdin.

`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	clibase.Register(fs, &opt.Common)

	// Output
	fs.StringVar(&opt.Output, "output", "-", "output file ('-' writes stdout) [-]")
	fs.StringVar(&opt.Output, "o", "-", "alias of --output")
	fs.StringVar(&opt.Format, "format", writers.FormatFASTA, "output format: fasta | jsonl [fasta]")
	fs.StringVar(&opt.Metrics, "metrics", "", "write Prometheus text metrics to FILE [off]")
	fs.StringVar(&opt.Summary, "summary-json", "", "write a JSON run summary to FILE [off]")

	// Policies
	fs.StringVar(&opt.DupHeader, "duplicate-header", "fail", "duplicate header policy: ignore | remove | fail [fail]")
	fs.StringVar(&opt.DupSequence, "duplicate-sequence", "ignore", "duplicate sequence policy: ignore | remove | fail [ignore]")
	fs.StringVar(&opt.Invalid, "invalid-sequence", "fail", "invalid residue action: ignore | remove | fail | convert | convert-ignore | convert-remove [fail]")

	// Alphabet
	fs.BoolVar(&opt.Alignment, "alignment", false, "treat input as an alignment (keep '-' gaps) [false]")
	fs.StringVar(&opt.ExtraChars, "extra-chars", "", "extra residue characters to accept as valid [none]")

	// Filters
	fs.IntVar(&opt.MinLen, "shortest-seq", 0, "drop sequences shorter than N residues (0 = off) [0]")
	fs.IntVar(&opt.MaxLen, "longest-seq", 0, "drop sequences longer than N residues (0 = off) [0]")
	fs.IntVar(&opt.Subsample, "random-subsample", 0, "keep a random sample of N records (0 = off) [0]")
	fs.Int64Var(&opt.Seed, "seed", 0, "RNG seed for --random-subsample (0 = nondeterministic) [0]")

	// Header rewriting
	fs.BoolVar(&opt.StripCommas, "remove-comma-from-header", false, "replace commas in headers with semicolons [false]")

	// Reporting
	fs.BoolVar(&opt.PrintStats, "print-statistics", false, "log record count and length statistics [false]")

	// Performance
	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")

	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if err := clibase.AfterParse(&opt.Common, append(posArgs, fs.Args()...)); err != nil {
		return opt, err
	}

	// Validation
	if _, err := policy.Parse(opt.DupHeader); err != nil {
		return opt, fmt.Errorf("--duplicate-header: %w", err)
	}
	if _, err := policy.Parse(opt.DupSequence); err != nil {
		return opt, fmt.Errorf("--duplicate-sequence: %w", err)
	}
	if _, _, err := policy.ParseInvalidAction(opt.Invalid); err != nil {
		return opt, fmt.Errorf("--invalid-sequence: %w", err)
	}
	if !writers.Known(opt.Format) {
		return opt, fmt.Errorf("invalid --format %q (expected one of %v)", opt.Format, writers.Formats())
	}
	if opt.MinLen < 0 || opt.MaxLen < 0 {
		return opt, errors.New("--shortest-seq and --longest-seq must be ≥ 0")
	}
	if opt.MinLen > 0 && opt.MaxLen > 0 && opt.MinLen > opt.MaxLen {
		return opt, errors.New("--shortest-seq must not exceed --longest-seq")
	}
	if opt.Subsample < 0 {
		return opt, errors.New("--random-subsample must be ≥ 0")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	return opt, nil
}
