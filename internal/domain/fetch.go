package domain

import "fmt"

// FetchErrKind classifies why a source fetch failed.
type FetchErrKind string

const (
	FetchErrRequest FetchErrKind = "request"
	FetchErrStatus  FetchErrKind = "status"
	FetchErrParse   FetchErrKind = "parse"
)

// FetchError reports a failed fetch from one source: the source name, the
// failure kind, and the wrapped cause.
type FetchError struct {
	Source string
	Kind   FetchErrKind
	Err    error
}

// NewFetchError wraps err as a FetchError for the named source.
func NewFetchError(source string, kind FetchErrKind, err error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: err}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.Kind, e.Err)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// SourceResult is the per-source outcome of a scrape cycle: either the
// fetched articles or the error that prevented them.
type SourceResult struct {
	Source   string
	Articles []Article
	Err      *FetchError
}

// OK reports whether the source fetched successfully.
func (r SourceResult) OK() bool {
	return r.Err == nil
}
