// Package errors defines the stable error codes used across dockside.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ResourceNotFound indicates a named static resource or record does not exist
	ResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	// InvalidRequest indicates the raw request bytes could not be parsed
	InvalidRequest ErrorCode = "INVALID_REQUEST"
	// DataSourceUnavailable indicates the backing data source could not be read
	DataSourceUnavailable ErrorCode = "DATA_SOURCE_UNAVAILABLE"
	// DataSourceMalformed indicates the backing data source could not be decoded
	DataSourceMalformed ErrorCode = "DATA_SOURCE_MALFORMED"
	// WriteFailed indicates the serialized response could not be written to the sink
	WriteFailed ErrorCode = "WRITE_FAILED"
	// ConfigInvalid indicates a configuration value is unusable
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// DocksideError represents an error with a stable code, message and optional cause.
type DocksideError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new DocksideError
func New(code ErrorCode, message string, cause error) *DocksideError {
	return &DocksideError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *DocksideError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DocksideError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *DocksideError) WithDetails(details interface{}) *DocksideError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first DocksideError in err's chain,
// or InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var de *DocksideError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// StatusFor maps an error code to the response status code answered for it.
func StatusFor(code ErrorCode) string {
	switch code {
	case ResourceNotFound:
		return "404"
	case InvalidRequest:
		return "400"
	default:
		return "500"
	}
}
