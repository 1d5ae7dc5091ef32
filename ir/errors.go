package ir

import (
	"fmt"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// CodeInvalidArgument marks a missing (nil) argument.
	CodeInvalidArgument ErrorCode = "invalid_argument"

	// CodeNotSupported marks an argument whose shape does not satisfy the
	// structural precondition of the operation.
	CodeNotSupported ErrorCode = "not_supported"
)

// Error is returned by every classifier and renderer operation.
type Error struct {
	Code ErrorCode `json:"code"`

	// Param names the offending parameter, if any.
	Param string `json:"param,omitempty"`

	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (parameter %q)", e.Code, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches errors by code, so errors.Is(err, ErrNotSupported) works for
// every not-supported error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Param == "" && t.Message == ""
}

var (
	// ErrInvalidArgument matches any CodeInvalidArgument error.
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument}

	// ErrNotSupported matches any CodeNotSupported error.
	ErrNotSupported = &Error{Code: CodeNotSupported}
)

// ArgumentNil creates the error reported for a nil parameter.
func ArgumentNil(param string) *Error {
	return &Error{
		Code:    CodeInvalidArgument,
		Param:   param,
		Message: "Value cannot be null. Parameter name: " + param,
	}
}

// NotSupported creates a not-supported error with a formatted message.
func NotSupported(format string, args ...any) *Error {
	return &Error{
		Code:    CodeNotSupported,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotSupportedParam creates a not-supported error attributed to a parameter.
func NotSupportedParam(param, format string, args ...any) *Error {
	return &Error{
		Code:    CodeNotSupported,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}
