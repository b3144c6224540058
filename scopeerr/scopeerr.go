// Package scopeerr classifies errors raised by capability primitives and
// the script host into the kind taxonomy scripts and the scheduler need
// to reason about, without leaning on type assertions everywhere.
package scopeerr

import (
	"fmt"

	"github.com/juju/errors"
)

// Kind is one of the error categories a capability primitive or the
// script host can fail with.
type Kind string

const (
	BadArg   Kind = "BadArg"
	Io       Kind = "Io"
	Protocol Kind = "Protocol"
	Parse    Kind = "Parse"
	Script   Kind = "Script"
	Security Kind = "Security"
	Process  Kind = "Process"
	NotFound Kind = "NotFound"
	Config   Kind = "Config"
)

// Error is a classified, annotated error. It satisfies the standard
// error interface and unwraps to the underlying cause.
type Error struct {
	kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return string(e.kind)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.cause.Error())
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New classifies msg (optionally wrapping cause) under kind.
func New(kind Kind, cause error, msg string) *Error {
	var wrapped error
	if cause != nil {
		wrapped = errors.Annotate(cause, msg)
	} else {
		wrapped = errors.New(msg)
	}
	return &Error{kind: kind, cause: wrapped}
}

// Annotatef classifies an existing error under kind, adding context in
// the style of juju/errors.Annotatef.
func Annotatef(cause error, kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		kind:  kind,
		cause: errors.Annotatef(cause, format, args...),
	}
}

// KindOf extracts the classification of err, defaulting to Io when err
// was never classified by this package (e.g. a raw os/net error that
// escaped without going through Annotatef).
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if se, ok := err.(*Error); ok {
		return se.kind
	}
	return Io
}

// Is reports whether err was classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
