// File path: internal/fault/fault.go

// Package fault defines the stable machine-readable error kinds shared by
// ingestion, statistics, charting, and plan execution. Handlers report the
// kind alongside a human-readable message; internal wrapped causes are not
// part of the contract.
package fault

import (
	"errors"
	"fmt"
)

// Kind identifies a failure category.
type Kind string

const (
	UnsupportedFileType   Kind = "unsupported_file_type"
	CorruptFile           Kind = "corrupt_file"
	ColumnNotFound        Kind = "column_not_found"
	TypeMismatch          Kind = "type_mismatch"
	EmptyResult           Kind = "empty_result"
	UpstreamPlanMalformed Kind = "upstream_plan_malformed"
	ComputationFailure    Kind = "computation_failure"
)

// Error carries a Kind plus a message and optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a fault error of the given kind.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a fault error wrapping an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err, or empty string when err is not a fault.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
