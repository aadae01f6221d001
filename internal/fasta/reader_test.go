// internal/fasta/reader_test.go
package fasta

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func readAll(t *testing.T, in string) []Record {
	t.Helper()
	recs, err := ReadAll(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return recs
}

func TestParseBasic(t *testing.T) {
	recs := readAll(t, ">A desc\nMKV\nLWY\n>B\nACD\n")
	if len(recs) != 2 {
		t.Fatalf("want 2 records, got %d", len(recs))
	}
	if recs[0].Header != "A desc" || recs[0].Seq != "MKVLWY" || recs[0].Index != 0 {
		t.Errorf("bad first record %+v", recs[0])
	}
	if recs[1].Header != "B" || recs[1].Seq != "ACD" || recs[1].Index != 1 {
		t.Errorf("bad second record %+v", recs[1])
	}
}

func TestParseFinalRecordWithoutTrailingNewline(t *testing.T) {
	recs := readAll(t, ">A\nMKV")
	if len(recs) != 1 || recs[0].Seq != "MKV" {
		t.Fatalf("final record not flushed: %+v", recs)
	}
}

func TestParseCRLFAndBlankLines(t *testing.T) {
	recs := readAll(t, ">A\r\nMKV\r\n\r\n\n>B\r\nACD\r\n")
	if len(recs) != 2 || recs[0].Seq != "MKV" || recs[1].Seq != "ACD" {
		t.Fatalf("CRLF parse failed: %+v", recs)
	}
}

func TestParseUppercasesAndStripsWhitespace(t *testing.T) {
	recs := readAll(t, ">A\nmkv lw\ty\n")
	if recs[0].Seq != "MKVLWY" {
		t.Fatalf("want MKVLWY, got %q", recs[0].Seq)
	}
}

func TestParseEmptyHeader(t *testing.T) {
	recs := readAll(t, ">\nMKV\n")
	if len(recs) != 1 || recs[0].Header != "" || recs[0].Seq != "MKV" {
		t.Fatalf("empty header not preserved: %+v", recs)
	}
}

func TestParseHeaderOnlyRecord(t *testing.T) {
	recs := readAll(t, ">A\n>B\nMKV\n")
	if len(recs) != 2 || recs[0].Seq != "" || recs[1].Seq != "MKV" {
		t.Fatalf("header-only record mishandled: %+v", recs)
	}
}

func TestSequenceBeforeHeaderIsFatal(t *testing.T) {
	_, err := ReadAll(strings.NewReader("MKV\n>A\nACD\n"))
	var merr *MalformedError
	if !errors.As(err, &merr) {
		t.Fatalf("want *MalformedError, got %v", err)
	}
	if merr.Line != 1 {
		t.Errorf("want line 1, got %d", merr.Line)
	}
}

func TestEmptyInput(t *testing.T) {
	recs := readAll(t, "")
	if len(recs) != 0 {
		t.Fatalf("want no records, got %+v", recs)
	}
}

func TestNextReturnsEOFAfterFinal(t *testing.T) {
	rd := NewReader(strings.NewReader(">A\nMKV\n"))
	if _, err := rd.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if _, err := rd.Next(); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
	// sticky
	if _, err := rd.Next(); err != io.EOF {
		t.Fatalf("want io.EOF again, got %v", err)
	}
}

func TestRestartableOnFreshStream(t *testing.T) {
	const in = ">A\nMKV\n>B\nACD\n"
	first := readAll(t, in)
	second := readAll(t, in)
	if len(first) != len(second) {
		t.Fatalf("rescan differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("record %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestEachCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Each(ctx, strings.NewReader(">A\nMKV\n"), func(Record) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	recs := readAll(t, ">A desc\nMKVLWY\n>B\nACD\n>\nMKT\n")
	var buf bytes.Buffer
	if err := Write(&buf, recs, 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	again, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(again) != len(recs) {
		t.Fatalf("round trip lost records: %d vs %d", len(again), len(recs))
	}
	for i := range recs {
		if again[i].Header != recs[i].Header || again[i].Seq != recs[i].Seq {
			t.Errorf("record %d differs after round trip", i)
		}
	}
}

func TestOpenGzip(t *testing.T) {
	fh, err := os.CreateTemp(t.TempDir(), "*.fa.gz")
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(">A\nMKV\n")); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	gw.Close()
	fh.Close()

	rc, err := Open(fh.Name())
	if err != nil {
		t.Fatalf("open gz: %v", err)
	}
	defer rc.Close()
	recs, err := ReadAll(rc)
	if err != nil || len(recs) != 1 || recs[0].Seq != "MKV" {
		t.Fatalf("gzip parse failed: %v %+v", err, recs)
	}
}

func TestOpenPlain(t *testing.T) {
	path := t.TempDir() + "/plain.fa"
	if err := os.WriteFile(path, []byte(">A\nMKV\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rc, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	recs, err := ReadAll(rc)
	if err != nil || len(recs) != 1 {
		t.Fatalf("plain parse failed: %v %+v", err, recs)
	}
}
