package hooks

import (
	"errors"
	"fmt"
)

// Error represents a misuse of the registry.
//
// Errors returned by callbacks are never wrapped in Error; Run and Filter
// hand them back unchanged.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Hook is the hook name involved, if any.
	Hook string

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes registry errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a malformed Bind call (empty hook
	// name or nil callback).
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeArity indicates a callback received fewer arguments than it
	// needs. Raised from inside callbacks via ArgCount.
	ErrCodeArity ErrorCode = "ARITY"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Hook != "" {
		return fmt.Sprintf("%s: %s (hook=%s)", e.Code, e.Message, e.Hook)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidArgument reports whether err is an invalid argument error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var he *Error
	if errors.As(err, &he) {
		return he.Code == ErrCodeInvalidArgument
	}
	return false
}

// IsArity reports whether err is an arity error.
func IsArity(err error) bool {
	var he *Error
	if errors.As(err, &he) {
		return he.Code == ErrCodeArity
	}
	return false
}

func invalidArgument(hook, msg string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Hook: hook, Message: msg}
}

// ArgCount returns an arity error when args holds fewer than n values.
// Callbacks use it to destructure their argument slice:
//
//	func(args []hooks.Value) (hooks.Value, error) {
//		if err := hooks.ArgCount(args, 2); err != nil {
//			return nil, err
//		}
//		...
//	}
func ArgCount(args []Value, n int) error {
	if len(args) >= n {
		return nil
	}
	return &Error{
		Code:    ErrCodeArity,
		Message: fmt.Sprintf("callback needs %d argument(s), got %d", n, len(args)),
	}
}
