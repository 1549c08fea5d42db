package config

import "fmt"

// ErrorKind classifies configuration failures.
type ErrorKind string

const (
	// KindIOFailure means a config file could not be read.
	KindIOFailure ErrorKind = "io_failure"

	// KindParseFailure means a config file is syntactically malformed.
	KindParseFailure ErrorKind = "parse_failure"

	// KindInvalidSchema means the document parsed but violates the
	// required shape (closed enums, required fields).
	KindInvalidSchema ErrorKind = "invalid_schema"
)

// Error is a configuration load failure. At startup it is fatal; during a
// hot reload it is logged and the previous snapshot stays authoritative.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ioErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindIOFailure, Err: fmt.Errorf(format, args...)}
}

func parseErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindParseFailure, Err: fmt.Errorf(format, args...)}
}

func schemaErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidSchema, Err: fmt.Errorf(format, args...)}
}
