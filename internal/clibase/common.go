// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"

	"protfa/internal/cliutil"
	"protfa/internal/fasta"
)

// Common holds CLI fields shared by protfa and protfa-split.
type Common struct {
	// Inputs are FASTA paths (or '-' for stdin), possibly gzipped.
	Inputs []string

	// Wrap is the output sequence line width (0 = single line).
	Wrap int

	Quiet   bool
	Verbose bool
	Version bool
}

// Register wires the shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	fs.IntVar(&c.Wrap, "wrap", fasta.DefaultWrap, "output sequence line width (0 = single line) [60]")
	fs.BoolVar(&c.Quiet, "quiet", false, "log warnings and errors only [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Verbose, "verbose", false, "debug logging (no short form; -v prints the version) [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "v", false, "print version and exit, NOT verbose (shorthand) [false]")
}

// AfterParse expands positional globs into Inputs and runs the shared
// validation.
func AfterParse(c *Common, posArgs []string) error {
	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return err
		}
		c.Inputs = append(c.Inputs, exp...)
	}
	return Validate(c)
}

// Validate applies the CLI invariants shared by both tools.
func Validate(c *Common) error {
	if len(c.Inputs) == 0 {
		return errors.New("at least one input FASTA file (or '-') is required")
	}
	if c.Wrap < 0 {
		return errors.New("--wrap must be ≥ 0")
	}
	return nil
}
