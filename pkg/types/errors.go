// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrorKind classifies a failure by how the pipeline reacts to it.
type ErrorKind string

const (
	// KindNetwork is a transport failure reaching the remote service.
	KindNetwork ErrorKind = "network"
	// KindService is a non-success response from the remote service.
	KindService ErrorKind = "service"
	// KindParse is a malformed or incomplete record; the record is dropped.
	KindParse ErrorKind = "parse"
	// KindOutput is a report destination that cannot be written.
	KindOutput ErrorKind = "output"
)

// Sentinels for errors.Is. A *Error matches the sentinel of its kind.
var (
	ErrNetwork = &Error{Kind: KindNetwork}
	ErrService = &Error{Kind: KindService}
	ErrParse   = &Error{Kind: KindParse}
	ErrOutput  = &Error{Kind: KindOutput}
)

// Error wraps an underlying error with its kind and the operation that failed.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op + ": " + string(e.Kind) + " error"
	default:
		return string(e.Kind) + " error"
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so that
// errors.Is(err, types.ErrService) holds for every service failure.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// NewError builds a typed error. It returns nil when err is nil.
func NewError(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
