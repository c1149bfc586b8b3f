package strata

import (
	"fmt"
	"strings"
)

// FileError reports a configuration file that exists but could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("strata: read %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ParseError reports a configuration file whose content no attempted format
// parser accepted. Absent files are skipped silently; present-but-malformed
// files always surface this error.
type ParseError struct {
	Path   string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("strata: parse %s as %s: %v", e.Path, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SecretError reports a provider failure other than a missing key.
type SecretError struct {
	Provider string
	Key      string
	Err      error
}

func (e *SecretError) Error() string {
	return fmt.Sprintf("strata: provider %s: fetch %s: %v", e.Provider, e.Key, e.Err)
}

func (e *SecretError) Unwrap() error { return e.Err }

// ValidationError reports that the user validation callback rejected the
// fully merged tree.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("strata: validation: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DecodeError reports that the merged tree does not satisfy the target
// type's shape. Type carries the target type's name for diagnostics.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("strata: decode into %s: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingFieldsError lists required fields that no source supplied. It is
// returned when the command line is disabled or cannot demand them.
type MissingFieldsError struct {
	Paths []string
}

func (e *MissingFieldsError) Error() string {
	return "strata: missing required configuration fields: " + strings.Join(e.Paths, ", ")
}

// UsageError reports a command-line usage problem: an unknown flag, a
// missing mandatory flag, or a malformed value. Usage carries the rendered
// flag summary so callers can print it to standard error before exiting.
type UsageError struct {
	Msg   string
	Usage string
}

func (e *UsageError) Error() string { return "strata: " + e.Msg }

// ExitRequest is returned when the command line asked for --help or
// --version. It is not a failure: the caller decides whether to print Output
// and exit, rather than the loader terminating the process itself.
type ExitRequest struct {
	Output string
}

func (e *ExitRequest) Error() string { return "strata: exit requested" }
