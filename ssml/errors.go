package ssml

import (
	"errors"
	"fmt"
)

// Error kinds reported by builders.
var (
	// ErrTypeMismatch indicates an argument of the wrong kind, or one that
	// failed the membership or pattern test of its value set.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidValue indicates an argument of the right kind that is
	// semantically disallowed.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupported indicates a capability the dialect does not offer at
	// all. Errors matching it also match ErrInvalidValue.
	ErrUnsupported = errors.New("unsupported by dialect")
)

// ErrorCode identifies the kind of a MarkupError.
type ErrorCode string

const (
	CodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	CodeInvalidValue ErrorCode = "INVALID_VALUE"
	CodeUnsupported  ErrorCode = "UNSUPPORTED"
)

// MarkupError is a validation failure raised by a builder operation.
type MarkupError struct {
	Code    ErrorCode
	Op      string
	Message string
}

// Error implements the error interface
func (e *MarkupError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("ssml: %s", e.Message)
	}
	return fmt.Sprintf("ssml: %s: %s", e.Op, e.Message)
}

// Unwrap returns the sentinel matching the error code.
func (e *MarkupError) Unwrap() error {
	switch e.Code {
	case CodeTypeMismatch:
		return ErrTypeMismatch
	case CodeUnsupported:
		return ErrUnsupported
	default:
		return ErrInvalidValue
	}
}

// Is makes unsupported-feature errors match ErrInvalidValue as well.
func (e *MarkupError) Is(target error) bool {
	return target == ErrInvalidValue && e.Code == CodeUnsupported
}

// TypeError creates a type-mismatch error for op.
func TypeError(op, format string, args ...any) *MarkupError {
	return &MarkupError{Code: CodeTypeMismatch, Op: op, Message: fmt.Sprintf(format, args...)}
}

// ValueError creates an invalid-value error for op.
func ValueError(op, format string, args ...any) *MarkupError {
	return &MarkupError{Code: CodeInvalidValue, Op: op, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedError creates an unsupported-feature error for op.
func UnsupportedError(op, format string, args ...any) *MarkupError {
	return &MarkupError{Code: CodeUnsupported, Op: op, Message: fmt.Sprintf(format, args...)}
}

// withOp fills in the operation name of a MarkupError produced by a rule
// check that did not know which operation called it.
func withOp(op string, err error) error {
	var me *MarkupError
	if errors.As(err, &me) && me.Op == "" {
		cp := *me
		cp.Op = op
		return &cp
	}
	return err
}
