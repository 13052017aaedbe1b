package fsdiag

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFiles is returned by scan when the walk found nothing to record
	ErrNoFiles = errors.New("no files found matching specified criteria")

	// ErrNoMatchingEntries is returned by compare when no manifest record
	// contains the root path
	ErrNoMatchingEntries = errors.New("no files found with the specified path")

	// ErrBadDays is returned when the --new argument is not an integer
	ErrBadDays = errors.New("bad input argument for --new")

	// ErrDelimiterInPath is returned when a path cannot be stored in a plain manifest
	ErrDelimiterInPath = errors.New("path contains the manifest delimiter " + RecordDelimiter)
)

// ParseError reports a manifest line that could not be decoded
type ParseError struct {
	File   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: malformed manifest line: %s", e.File, e.Line, e.Reason)
}

// ManifestOpenError reports a manifest that could not be opened for reading
type ManifestOpenError struct {
	Path string
	Err  error
}

func (e *ManifestOpenError) Error() string {
	return fmt.Sprintf("failed to open manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestOpenError) Unwrap() error {
	return e.Err
}
