package core

import (
	"errors"
	"fmt"
)

// Error kinds signalled by the pipeline. Any of them aborts a unification run.
var (
	// ErrSourceUnavailable: a partner source cannot be opened or read.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedSource: a partner source cannot be parsed into rows.
	ErrMalformedSource = errors.New("malformed source")

	// ErrSchemaMismatch: a row lacks one of the canonical columns.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// SourceError reports a failed partner ingest.
// It matches both its Kind and its cause with errors.Is.
type SourceError struct {
	Partner string
	Path    string
	Kind    error
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("partner %q: %v: %s: %v", e.Partner, e.Kind, e.Path, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func sourceErr(p PartnerConfig, kind, err error) *SourceError {
	return &SourceError{Partner: p.Name, Path: p.FilePath, Kind: kind, Err: err}
}

// KindOf returns a short label for the error kind, used in logs and metrics.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrMalformedSource):
		return "malformed_source"
	case errors.Is(err, ErrSchemaMismatch):
		return "schema_mismatch"
	default:
		return "other"
	}
}

// PartnerOf returns the partner named by a SourceError in err's chain.
func PartnerOf(err error) string {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Partner
	}
	return ""
}
