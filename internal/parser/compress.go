package parser

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// readCloser pairs a decompressing reader with the closers it depends on.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var first error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if err := rc.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens a dataset file, decompressing it by suffix: .zst, .gz or .bz2.
// Any other suffix is read as-is.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc := &readCloser{Reader: f, closers: []func() error{f.Close}}

	switch {
	case strings.HasSuffix(path, ".bz2"):
		rc.Reader = bzip2.NewReader(f)
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		rc.Reader = dec
		rc.closers = append(rc.closers, func() error { dec.Close(); return nil })
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		rc.Reader = gz
		rc.closers = append(rc.closers, gz.Close)
	}
	return rc, nil
}
