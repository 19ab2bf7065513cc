package core

// streaming.go wraps a partner source before it reaches the CSV reader.
//
// The wrappers apply, in order:
//  1. A byte limit, so an oversized file fails instead of exhausting memory
//  2. BOM removal (UTF-8 and UTF-16 byte order marks)
//  3. Charset decoding to UTF-8; invalid sequences become U+FFFD
//
// Use WrapSource to apply all of them.

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var errFileTooLarge = errors.New("file too large")

// LookupEncoding resolves a charset label such as "windows-1252" or "latin1".
// An empty label means UTF-8.
func LookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q", label)
	}
	return enc, nil
}

// CountingReader tracks bytes read and fails once Limit is exceeded.
// A zero Limit disables the check.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64
}

// NewCountingReader creates a counting reader with an optional byte limit.
func NewCountingReader(r io.Reader, limit int64) *CountingReader {
	return &CountingReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", errFileTooLarge, r.Limit)
	}
	return n, err
}

// WrapSource returns a UTF-8 reader over r. label names the source charset
// (empty for UTF-8) and limit caps the raw bytes read (0 for no cap).
func WrapSource(r io.Reader, label string, limit int64) (io.Reader, error) {
	enc, err := LookupEncoding(label)
	if err != nil {
		return nil, err
	}
	counted := NewCountingReader(r, limit)
	return transform.NewReader(counted, unicode.BOMOverride(enc.NewDecoder())), nil
}
