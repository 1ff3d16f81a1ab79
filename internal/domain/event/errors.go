package event

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound            = errors.New("event not found")
	ErrConstraintViolation = errors.New("constraint violation")
)

// ValidationError carries every failed field check, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// StorageError is any failure that is neither a missing row nor a constraint violation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "An error occured while " + e.Op
	}
	return "An error occured while " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConstraintError is a write the database rejected. Err wraps ErrConstraintViolation.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return e.Message() + ": " + e.Detail()
}

// Message is the client-facing summary, e.g. "An error occured while inserting an event".
func (e *ConstraintError) Message() string {
	return "An error occured while " + e.Op
}

// Detail is the database's reason without the sentinel prefix.
func (e *ConstraintError) Detail() string {
	if e.Err == nil {
		return ErrConstraintViolation.Error()
	}

	msg := e.Err.Error()
	if detail, ok := strings.CutPrefix(msg, ErrConstraintViolation.Error()+": "); ok {
		return detail
	}
	return msg
}

func (e *ConstraintError) Unwrap() error {
	if e.Err == nil {
		return ErrConstraintViolation
	}
	return e.Err
}
