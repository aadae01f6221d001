// internal/splitcli/options.go
package splitcli

import (
	"errors"
	"flag"
	"fmt"

	"protfa/internal/clibase"
	"protfa/internal/cliutil"
	"protfa/internal/version"
)

// Options holds all CLI flags and arguments for the split tool.
type Options struct {
	clibase.Common

	OutputDir  string
	Chunks     int
	AllowEmpty bool
	DryRun     bool
	Metrics    string
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: split protein FASTA into balanced shards

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

	fs.StringVar(&opt.OutputDir, "output-dir", ".", "directory to write shard files into [.]")
	fs.StringVar(&opt.OutputDir, "o", ".", "alias of --output-dir")
	fs.IntVar(&opt.Chunks, "chunks", 0, "number of shards to produce [*]")
	fs.IntVar(&opt.Chunks, "n", 0, "alias of --chunks")
	fs.BoolVar(&opt.AllowEmpty, "allow-empty", false, "permit more shards than records (writes empty shards) [false]")
	fs.BoolVar(&opt.DryRun, "dry-run", false, "report planned shard sizes without writing files [false]")
	fs.StringVar(&opt.Metrics, "metrics", "", "write Prometheus text metrics to FILE [off]")

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

	if opt.Chunks < 1 {
		return opt, errors.New("--chunks must be ≥ 1")
	}
	return opt, nil
}
