package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ralt/repology/internal/scanner"
	"github.com/ulikunitz/xz"
)

// Decompress wraps r with a decompressor for the given dump type
func Decompress(r io.Reader, dumpType scanner.DumpType) (io.ReadCloser, error) {
	switch dumpType {
	case scanner.TypePlain:
		return io.NopCloser(r), nil
	case scanner.TypeGzip:
		return gzip.NewReader(r)
	case scanner.TypeXz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	case scanner.TypeZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported dump type: %s", dumpType)
	}
}

// CompressionForPath returns the dump type implied by the file name suffix
func CompressionForPath(path string) scanner.DumpType {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return scanner.TypeGzip
	case strings.HasSuffix(path, ".xz"):
		return scanner.TypeXz
	case strings.HasSuffix(path, ".zst"):
		return scanner.TypeZstd
	default:
		return scanner.TypePlain
	}
}

// Compress wraps w with a compressor for the given dump type. Closing the
// returned writer flushes the compressor but does not close w.
func Compress(w io.Writer, dumpType scanner.DumpType) (io.WriteCloser, error) {
	switch dumpType {
	case scanner.TypePlain:
		return nopWriteCloser{w}, nil
	case scanner.TypeGzip:
		return gzip.NewWriter(w), nil
	case scanner.TypeXz:
		return xz.NewWriter(w)
	case scanner.TypeZstd:
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("unsupported dump type: %s", dumpType)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
