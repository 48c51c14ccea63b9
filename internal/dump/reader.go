// Package dump reads and writes record dumps: JSON objects, one per line or
// as a single array, optionally gzip, xz or zstd compressed.
package dump

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ralt/repology/internal/models"
	"github.com/ralt/repology/internal/scanner"
	"github.com/ralt/repology/internal/utils"
)

// Reader streams undecoded records from a dump
type Reader struct {
	name    string
	src     *bufio.Reader
	dec     *json.Decoder
	closers []io.Closer
	inArray bool
	count   int
}

// Open opens a dump file, detecting its compression
func Open(path string) (*Reader, error) {
	dumpType, err := scanner.DetectDumpType(path)
	if err != nil {
		return nil, &models.ProcessError{Type: models.ErrFileOp, Source: path, Err: err}
	}
	if dumpType == scanner.TypeUnknown {
		return nil, &models.ProcessError{Type: models.ErrPackageParse, Source: path, Err: errors.New("not a record dump")}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &models.ProcessError{Type: models.ErrFileOp, Source: path, Err: err}
	}

	rc, err := utils.Decompress(bufio.NewReader(f), dumpType)
	if err != nil {
		f.Close()
		return nil, &models.ProcessError{Type: models.ErrPackageParse, Source: path, Err: err}
	}

	r := NewReader(rc, path)
	r.closers = []io.Closer{rc, f}
	return r, nil
}

// NewReader reads an uncompressed dump from r. name is used in errors.
func NewReader(r io.Reader, name string) *Reader {
	return &Reader{name: name, src: bufio.NewReader(r)}
}

// Next returns the next undecoded record, or io.EOF. The first record is
// probed with models.CheckFormat; an incomplete record yields an
// ErrStateFormat error.
func (r *Reader) Next() (map[string]any, error) {
	if r.dec == nil {
		if err := r.start(); err != nil {
			return nil, err
		}
	}

	if r.inArray && !r.dec.More() {
		return nil, io.EOF
	}

	var raw map[string]any
	if err := r.dec.Decode(&raw); err != nil {
		if err == io.EOF && !r.inArray {
			return nil, io.EOF
		}
		return nil, r.parseError(fmt.Errorf("record %d: %w", r.count+1, err))
	}

	r.count++
	if r.count == 1 && !models.CheckFormat(raw) {
		return nil, &models.ProcessError{
			Type:   models.ErrStateFormat,
			Source: r.name,
			Err:    errors.New("illegal package format, please regenerate the dump"),
		}
	}

	return raw, nil
}

// start sets up the decoder, consuming the opening bracket of an array dump
func (r *Reader) start() error {
	for {
		b, err := r.src.Peek(1)
		if err != nil {
			// empty input, let the decoder report EOF
			break
		}
		if b[0] == ' ' || b[0] == '\t' || b[0] == '\r' || b[0] == '\n' {
			r.src.ReadByte()
			continue
		}
		r.inArray = b[0] == '['
		break
	}

	r.dec = json.NewDecoder(r.src)
	r.dec.UseNumber()

	if r.inArray {
		if _, err := r.dec.Token(); err != nil {
			return r.parseError(err)
		}
	}
	return nil
}

func (r *Reader) parseError(err error) error {
	return &models.ProcessError{Type: models.ErrPackageParse, Source: r.name, Err: err}
}

// Count returns the number of records read so far
func (r *Reader) Count() int {
	return r.count
}

// Close closes the underlying file
func (r *Reader) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
