// Package linesource reads text line by line from plain or compressed files.
//
// Errors leaving this package carry a stack trace and the path or line that
// failed; the in-memory packages above it wrap with fmt.Errorf and %w only.
package linesource

import (
	"bufio"
	"compress/bzip2"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// MaxLineSize is the longest line the reader accepts.
const MaxLineSize = 16 << 20

// Reader yields lines from an underlying stream.
type Reader struct {
	scanner *bufio.Scanner
	closers []io.Closer
	line    int
	err     error
}

// NewReader wraps an already decompressed stream.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{scanner: scanner}
}

// Open opens path for reading. Files ending in .gz, .bz2, .xz or .zst are
// decompressed on the fly; anything else is read as plain text.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r, closer, err := decompress(f, path)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}

	lr := NewReader(r)
	if closer != nil {
		lr.closers = append(lr.closers, closer)
	}
	lr.closers = append(lr.closers, f)
	return lr, nil
}

func decompress(r io.Reader, path string) (io.Reader, io.Closer, error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, gz, nil
	case strings.HasSuffix(path, ".bz2"):
		return bzip2.NewReader(r), nil, nil
	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, nil, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zstdCloser{zr}, nil
	}
	return r, nil, nil
}

// zstd.Decoder.Close has no error result.
type zstdCloser struct {
	d *zstd.Decoder
}

func (c zstdCloser) Close() error {
	c.d.Close()
	return nil
}

// Next returns the next line without its line terminator. It returns false
// at end of input or on a read error; check Err afterwards.
func (r *Reader) Next() (string, bool) {
	if r.err != nil {
		return "", false
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			r.err = errors.Wrapf(err, "read line %d", r.line+1)
		}
		return "", false
	}
	r.line++
	return strings.TrimSuffix(r.scanner.Text(), "\r"), true
}

// Line is the 1-based number of the last line returned by Next.
func (r *Reader) Line() int {
	return r.line
}

// Err returns the first read error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the decompressor and file opened by Open.
func (r *Reader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}
