package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeInputRejected           ErrorType = "input_rejected"
	ErrorTypeDocumentOpenFailed      ErrorType = "document_open_failed"
	ErrorTypePageRenderFailed        ErrorType = "page_render_failed"
	ErrorTypeValidationFailed        ErrorType = "validation_failed"
	ErrorTypeAdapterPermissionDenied ErrorType = "adapter_permission_denied"
	ErrorTypeAdapterTransient        ErrorType = "adapter_transient"
	ErrorTypeResolutionUnavailable   ErrorType = "resolution_unavailable"
	ErrorTypeAPI                     ErrorType = "api"
	ErrorTypeConfig                  ErrorType = "config"
	ErrorTypeIO                      ErrorType = "io"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func InputRejectedError(message string, err error) *DomainError {
	return NewError(ErrorTypeInputRejected, message, err)
}

func DocumentOpenError(message string, err error) *DomainError {
	return NewError(ErrorTypeDocumentOpenFailed, message, err)
}

func PageRenderError(message string, err error) *DomainError {
	return NewError(ErrorTypePageRenderFailed, message, err)
}

func ValidationFailedError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidationFailed, message, err)
}

func PermissionDeniedError(message string, err error) *DomainError {
	return NewError(ErrorTypeAdapterPermissionDenied, message, err)
}

func AdapterTransientError(message string, err error) *DomainError {
	return NewError(ErrorTypeAdapterTransient, message, err)
}

func ResolutionUnavailableError(message string, err error) *DomainError {
	return NewError(ErrorTypeResolutionUnavailable, message, err)
}

func APIError(message string, err error) *DomainError {
	return NewError(ErrorTypeAPI, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

// TypeOf returns the type of the first DomainError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}

// IsType reports whether err wraps a DomainError of the given type.
func IsType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// SeverityFor maps an error to the severity it is surfaced with.
func SeverityFor(err error) Severity {
	switch TypeOf(err) {
	case ErrorTypeAdapterTransient:
		return SeverityWarning
	case ErrorTypeResolutionUnavailable:
		return SeverityInfo
	default:
		return SeverityError
	}
}
