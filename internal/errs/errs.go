package errs

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures. Every kind is fatal to the
// current run; callers surface the error as-is instead of retrying.
type Kind string

const (
	// KindIO means the transactions export could not be read.
	KindIO Kind = "io"
	// KindFormat means a row or value in the export failed to decode.
	// A single wrong row usually signals an export schema change, so
	// the whole parse aborts rather than skipping the row.
	KindFormat Kind = "format"
	// KindConfig means the category or filter specification (or a
	// credential file) is malformed.
	KindConfig Kind = "config"
	// KindBackend means the spreadsheet backend rejected a call or was
	// unreachable.
	KindBackend Kind = "backend"
	// KindNotAuthenticated means a backend operation was attempted
	// without a valid credential.
	KindNotAuthenticated Kind = "not_authenticated"
)

// Error carries the failure kind, the operation that failed, and the
// underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with a kind and operation name.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf is E with a formatted cause.
func Errorf(kind Kind, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) is an Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
