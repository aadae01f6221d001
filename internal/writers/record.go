// internal/writers/record.go
package writers

import (
	"io"

	"protfa/internal/fasta"
)

// StartRecordWriter spins up a writer goroutine that streams records
// from the returned channel to out in the given format. Close the
// channel, then receive exactly once from the error channel.
func StartRecordWriter(out io.Writer, format string, wrap, bufSize int) (chan<- fasta.Record, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan fasta.Record, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		for rec := range in {
			if err != nil {
				continue // drain after first failure
			}
			err = WriteRecord(format, out, rec, wrap)
		}
		errCh <- err
	}()

	return in, errCh
}
