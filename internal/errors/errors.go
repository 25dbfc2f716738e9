package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeScan        ErrorType = "scan"
	ErrorTypeDecode      ErrorType = "decode"
	ErrorTypeAggregation ErrorType = "aggregation"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeInternal    ErrorType = "internal"
)

// ErrNoImages is the cause of the aggregation error raised for an empty dataset
var ErrNoImages = errors.New("no images to aggregate")

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewScanError creates an error for a directory that could not be traversed
func NewScanError(path string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeScan,
		Message: "cannot read directory entry",
		Path:    path,
		Cause:   cause,
	}
}

// NewDecodeError creates an error for an image that could not be decoded
func NewDecodeError(path string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDecode,
		Message: "cannot decode image",
		Path:    path,
		Cause:   cause,
	}
}

// NewAggregationError creates an error for statistics that cannot be computed
func NewAggregationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeAggregation,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if err, or any error it wraps, is an AppError of the given type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// PathOf returns the path carried by the first AppError in err's chain
func PathOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Path
	}
	return ""
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
