package statetree

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied indicates a traversed node forbids the requested
	// access on a field.
	ErrPermissionDenied = errors.New("statetree: permission denied")
	// ErrInvalidTarget indicates a write resolved its parent path to a
	// value that cannot hold fields.
	ErrInvalidTarget = errors.New("statetree: invalid write target")
	// ErrEmptyPath indicates an operation received an empty path.
	ErrEmptyPath = errors.New("statetree: path must not be empty")
)

// AccessError captures the operation and location of a failed access
// alongside the sentinel it wraps.
type AccessError struct {
	Op    string // "read" or "write"
	Path  string // full path the operation received
	Field string // offending segment
	Err   error
}

func (e *AccessError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v: %s %q field %q", e.Err, e.Op, e.Path, e.Field)
}

func (e *AccessError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func permissionDenied(op, path, field string) error {
	return &AccessError{Op: op, Path: path, Field: field, Err: ErrPermissionDenied}
}

func invalidTarget(path, field string) error {
	return &AccessError{Op: "write", Path: path, Field: field, Err: ErrInvalidTarget}
}
