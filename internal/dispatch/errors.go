package dispatch

import (
	"errors"
	"fmt"
)

// Code classifies dispatch failures. Values match JSON-RPC 2.0 error codes.
type Code int

const (
	CodeInvalidArgument Code = -32602
	CodeMethodNotFound  Code = -32601
	CodeInternal        Code = -32603
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "invalid_argument"
	case CodeMethodNotFound:
		return "method_not_found"
	case CodeInternal:
		return "internal_error"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error is returned by every failed dispatch
type Error struct {
	Code    Code
	Message string
	Cause   error // Set for internal errors
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// InvalidArgument reports missing or malformed tool arguments
func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

// MethodNotFound reports an unknown operation name
func MethodNotFound(name string) *Error {
	return &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("Unknown tool: %s", name)}
}

// Internal wraps an unexpected failure, keeping the cause message
func Internal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: fmt.Sprintf("Error analyzing text: %v", cause),
		Cause:   cause,
	}
}

// CodeOf returns the dispatch code carried by err, or CodeInternal for foreign errors
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsInvalidArgument reports whether err is an argument validation failure
func IsInvalidArgument(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == CodeInvalidArgument
}

// IsMethodNotFound reports whether err is an unknown operation failure
func IsMethodNotFound(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == CodeMethodNotFound
}
