// internal/fasta/open.go
package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for path. "-" means stdin. Gzip input is
// detected by its magic bytes (1F 8B), so .gz files and compressed
// stdin both work.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return wrap(bufio.NewReader(os.Stdin), nil)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := wrap(bufio.NewReader(fh), fh)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return rc, nil
}

func wrap(br *bufio.Reader, closer io.Closer) (io.ReadCloser, error) {
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		closers := []io.Closer{gz}
		if closer != nil {
			closers = append(closers, closer)
		}
		return &multiReadCloser{Reader: gz, closers: closers}, nil
	}
	if closer != nil {
		return &multiReadCloser{Reader: br, closers: []io.Closer{closer}}, nil
	}
	return io.NopCloser(br), nil
}
