// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"protfa/internal/alphabet"
	"protfa/internal/dedupe"
	"protfa/internal/fasta"
	"protfa/internal/policy"
	"protfa/internal/validate"
)

func srcs(in ...string) []io.Reader {
	out := make([]io.Reader, len(in))
	for i, s := range in {
		out[i] = strings.NewReader(s)
	}
	return out
}

func baseOpts() Options {
	return Options{
		Alphabet: alphabet.Canonical(),
		Invalid:  policy.Ignore,
		Header:   policy.Ignore,
		Sequence: policy.Ignore,
	}
}

func TestAllIgnoreIsIdentity(t *testing.T) {
	recs, sum, err := Clean(context.Background(), srcs(">A\nMKV\n>B\nMKV\n>A\nMKT\n"), baseOpts())
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if sum.RecordsRead != 3 || sum.Final != 3 {
		t.Fatalf("bad summary %+v", sum)
	}
	want := []fasta.Record{
		{Header: "A", Seq: "MKV", Index: 0},
		{Header: "B", Seq: "MKV", Index: 1},
		{Header: "A", Seq: "MKT", Index: 2},
	}
	if !reflect.DeepEqual(recs, want) {
		t.Fatalf("output differs from input:\n%+v", recs)
	}
}

func TestDuplicateScenario(t *testing.T) {
	// (A,MKV), (B,MKV), (A,MKT): with both duplicate policies Remove,
	// only record 0 survives and two removals are reported.
	o := baseOpts()
	o.Header = policy.Remove
	o.Sequence = policy.Remove
	recs, sum, err := Clean(context.Background(), srcs(">A\nMKV\n>B\nMKV\n>A\nMKT\n"), o)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(recs) != 1 || recs[0].Header != "A" || recs[0].Seq != "MKV" || recs[0].Index != 0 {
		t.Fatalf("want only record 0, got %+v", recs)
	}
	if sum.DuplicateHeaderRemoved+sum.DuplicateSequenceRemoved != 2 {
		t.Fatalf("want 2 duplicate removals, got %+v", sum)
	}
}

func TestInvalidRemoveScenario(t *testing.T) {
	o := baseOpts()
	o.Invalid = policy.Remove
	recs, sum, err := Clean(context.Background(), srcs(">A\nMKV\n>B\nMKZ\n>C\nACD\n"), o)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if sum.InvalidRemoved != 1 || len(recs) != 2 {
		t.Fatalf("bad summary %+v recs %+v", sum, recs)
	}
	if recs[0].Header != "A" || recs[1].Header != "C" {
		t.Fatalf("relative order broken: %+v", recs)
	}
}

func TestInvalidPurgedBeforeDuplicateComparison(t *testing.T) {
	// The invalid MKZ record is removed first, so the valid copy of the
	// duplicate pair is kept even though it has the higher index.
	o := baseOpts()
	o.Invalid = policy.Remove
	o.Header = policy.Remove
	recs, sum, err := Clean(context.Background(), srcs(">A\nMKZ\n>A\nMKV\n"), o)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(recs) != 1 || recs[0].Seq != "MKV" {
		t.Fatalf("want the valid record kept, got %+v", recs)
	}
	if sum.InvalidRemoved != 1 || sum.DuplicateHeaderRemoved != 0 {
		t.Fatalf("bad summary %+v", sum)
	}
}

func TestSummaryIdentity(t *testing.T) {
	o := baseOpts()
	o.Invalid = policy.Remove
	o.Header = policy.Remove
	o.Sequence = policy.Remove
	o.MinLen = 2
	_, sum, err := Clean(context.Background(), srcs(
		">A\nMKV\n>B\nMKV\n>A\nMKT\n>D\nMKZ\n>E\nM\n>F\nACDEF\n",
	), o)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	total := sum.Final + sum.InvalidRemoved + sum.DuplicateHeaderRemoved +
		sum.DuplicateSequenceRemoved + sum.LengthRemoved + sum.Subsampled
	if sum.RecordsRead != total {
		t.Fatalf("summary identity broken: %+v", sum)
	}
}

func TestFailPolicyAborts(t *testing.T) {
	o := baseOpts()
	o.Invalid = policy.Fail
	recs, _, err := Clean(context.Background(), srcs(">A\nMKZ\n"), o)
	var verr *validate.InvalidSequenceError
	if !errors.As(err, &verr) {
		t.Fatalf("want *InvalidSequenceError through the sequence, got %v", err)
	}
	if recs != nil {
		t.Fatal("no partial output on abort")
	}
}

func TestDuplicateFailAborts(t *testing.T) {
	o := baseOpts()
	o.Header = policy.Fail
	_, _, err := Clean(context.Background(), srcs(">A\nMKV\n>A\nMKT\n"), o)
	var derr *dedupe.DuplicateError
	if !errors.As(err, &derr) {
		t.Fatalf("want *DuplicateError, got %v", err)
	}
}

func TestMalformedInputAborts(t *testing.T) {
	_, _, err := Clean(context.Background(), srcs("MKV\n>A\nACD\n"), baseOpts())
	var merr *fasta.MalformedError
	if !errors.As(err, &merr) {
		t.Fatalf("want *MalformedError, got %v", err)
	}
}

func TestConvertStage(t *testing.T) {
	o := baseOpts()
	o.Invalid = policy.Fail
	o.Convert = true
	o.ConvertTable = alphabet.StandardConversion()
	recs, sum, err := Clean(context.Background(), srcs(">A\nMBV\n"), o)
	if err != nil {
		t.Fatalf("convert should fix the sequence: %v", err)
	}
	if sum.Converted != 1 || recs[0].Seq != "MNV" {
		t.Fatalf("bad conversion: %+v %+v", sum, recs)
	}
}

func TestMultipleSourcesContinuousIndexes(t *testing.T) {
	recs, sum, err := Clean(context.Background(), srcs(">A\nMKV\n", ">B\nACD\n"), baseOpts())
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if sum.RecordsRead != 2 || recs[0].Index != 0 || recs[1].Index != 1 {
		t.Fatalf("indexes not continuous across sources: %+v", recs)
	}
}

func TestSubsampleDeterministicWithSeed(t *testing.T) {
	const in = ">A\nMKV\n>B\nACD\n>C\nWYE\n>D\nLMN\n"
	o := baseOpts()
	o.Subsample = 2
	o.Seed = 7
	run := func() []fasta.Record {
		recs, _, err := Clean(context.Background(), srcs(in), o)
		if err != nil {
			t.Fatalf("clean: %v", err)
		}
		return recs
	}
	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("seeded subsample not reproducible:\n%+v\n%+v", a, b)
	}
	if len(a) != 2 || a[0].Index >= a[1].Index {
		t.Fatalf("subsample must keep relative order: %+v", a)
	}
}

func TestStripHeaderCommas(t *testing.T) {
	o := baseOpts()
	o.StripHeaderCommas = true
	recs, _, err := Clean(context.Background(), srcs(">sp|P1|A, fragment\nMKV\n"), o)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if recs[0].Header != "sp|P1|A; fragment" {
		t.Fatalf("commas not replaced: %q", recs[0].Header)
	}
}

func TestLengthFilter(t *testing.T) {
	o := baseOpts()
	o.MinLen = 3
	o.MaxLen = 4
	recs, sum, err := Clean(context.Background(), srcs(">A\nMK\n>B\nMKV\n>C\nMKVLW\n>D\nACDE\n"), o)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if sum.LengthRemoved != 2 || len(recs) != 2 {
		t.Fatalf("bad filter: %+v %+v", sum, recs)
	}
	if recs[0].Header != "B" || recs[1].Header != "D" {
		t.Fatalf("order broken: %+v", recs)
	}
}
