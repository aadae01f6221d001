// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// MalformedError reports sequence content before any header line.
type MalformedError struct {
	Line int
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("fasta: sequence data before any header (line %d)", e.Line)
}

// parseState is the reader's position in the line state machine.
type parseState uint8

const (
	// stateStart: no header seen yet; sequence data here is fatal.
	stateStart parseState = iota
	// stateInSequence: inside a record; sequence lines accumulate until
	// the next header or EOF flushes the record.
	stateInSequence
)

// Reader yields records one at a time from an input stream. Create a
// fresh Reader on a fresh stream to rescan from the start.
type Reader struct {
	br     *bufio.Reader
	state  parseState
	header string
	seq    bytes.Buffer
	index  int
	line   int
	eof    bool
	err    error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64<<10)}
}

// Next returns the next record in input order. It returns io.EOF after
// the final record has been flushed, and a *MalformedError if sequence
// data precedes the first header.
func (r *Reader) Next() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}
	for !r.eof {
		raw, err := r.br.ReadBytes('\n')
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			r.err = err
			return Record{}, r.err
		}
		r.line++
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}
		if line[0] == Marker {
			hdr := string(line[1:])
			if r.state == stateInSequence {
				rec := r.flush()
				r.header = hdr
				return rec, nil
			}
			r.state = stateInSequence
			r.header = hdr
			continue
		}
		if r.state == stateStart {
			r.err = &MalformedError{Line: r.line}
			return Record{}, r.err
		}
		r.seq.Write(normalizeSeqLine(line))
	}
	if r.state == stateInSequence {
		rec := r.flush()
		r.state = stateStart
		return rec, nil
	}
	r.err = io.EOF
	return Record{}, r.err
}

// flush emits the current record and resets the sequence buffer. The
// caller owns state transitions.
func (r *Reader) flush() Record {
	rec := Record{Header: r.header, Seq: r.seq.String(), Index: r.index}
	r.index++
	r.seq.Reset()
	return rec
}

// normalizeSeqLine strips internal whitespace and uppercases ASCII
// letters in place.
func normalizeSeqLine(line []byte) []byte {
	out := line[:0]
	for _, c := range line {
		switch {
		case c == ' ' || c == '\t':
			continue
		case 'a' <= c && c <= 'z':
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return out
}

// ReadAll parses every record from r.
func ReadAll(r io.Reader) ([]Record, error) {
	var recs []Record
	rd := NewReader(r)
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
}

// Each streams records to emit in input order. It is cancelable,
// returning promptly when ctx is Done, even mid-file.
func Each(ctx context.Context, r io.Reader, emit func(Record) error) error {
	rd := NewReader(r)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		rec, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
}
