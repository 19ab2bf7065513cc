package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ContextCheckInterval is how often (in rows) reading checks for cancellation.
var ContextCheckInterval = 1000

// sourceTable is a partner file split into header and text records.
type sourceTable struct {
	header  []string
	records [][]string
}

// readSource loads a partner file as text. Records shorter than the header
// are kept (missing cells read as empty); longer records are malformed.
func readSource(ctx context.Context, p PartnerConfig, maxSize int64) (*sourceTable, error) {
	if !ValidDelimiter(p.Delimiter) {
		return nil, sourceErr(p, ErrMalformedSource, fmt.Errorf("invalid delimiter %q", p.Delimiter))
	}

	f, err := os.Open(p.FilePath)
	if err != nil {
		return nil, sourceErr(p, ErrSourceUnavailable, err)
	}
	defer f.Close()

	r, err := WrapSource(f, p.Encoding, maxSize)
	if err != nil {
		return nil, sourceErr(p, ErrMalformedSource, err)
	}

	quotes := &quoteCounter{r: r}
	cr := csv.NewReader(quotes)
	cr.Comma = p.Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, sourceErr(p, ErrMalformedSource, errors.New("empty file: no header row"))
	}
	if err != nil {
		return nil, classifyReadErr(p, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &sourceTable{header: header}
	lastLine, _ := cr.FieldPos(len(header) - 1)
	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("reading partner %q cancelled: %w", p.Name, err)
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			// encoding/csv accepts a quoted field left open at end of input.
			if quotes.n%2 != 0 {
				return nil, sourceErr(p, ErrMalformedSource,
					fmt.Errorf("line %d: quoted field not closed before end of file", lastLine))
			}
			break
		}
		if err != nil {
			return nil, classifyReadErr(p, err)
		}

		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, sourceErr(p, ErrMalformedSource,
				fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(rec)))
		}
		table.records = append(table.records, rec)
		lastLine, _ = cr.FieldPos(len(rec) - 1)
	}

	return table, nil
}

// quoteCounter counts double quotes in the decoded text. Strict parsing
// admits quotes only in pairs, so an odd total means an unclosed field.
type quoteCounter struct {
	r io.Reader
	n int
}

func (q *quoteCounter) Read(p []byte) (int, error) {
	n, err := q.r.Read(p)
	q.n += bytes.Count(p[:n], []byte{'"'})
	return n, err
}

// classifyReadErr separates parse failures from I/O failures.
func classifyReadErr(p PartnerConfig, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return sourceErr(p, ErrMalformedSource, err)
	}
	return sourceErr(p, ErrSourceUnavailable, err)
}

// ValidDelimiter reports whether r can separate fields of a delimited file.
func ValidDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' &&
		utf8.ValidRune(r) && r != utf8.RuneError
}
