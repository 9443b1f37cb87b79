package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInvalidParameter indicates a rejected creation request or command argument
	ErrorTypeInvalidParameter ErrorType = "invalid_parameter"
	// ErrorTypeNotFound indicates a body or resource was not found
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConflict indicates a clash with existing state, e.g. a duplicate body name
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeUnauthorized indicates authentication failure
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeNumericInstability indicates a body whose state became non-finite
	ErrorTypeNumericInstability ErrorType = "numeric_instability"
	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeExternal indicates an external service error
	ErrorTypeExternal ErrorType = "external"
)

// AppError is the base error type for application errors
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidParameterf creates an invalid parameter error with formatting
func InvalidParameterf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeInvalidParameter,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapInvalidParameter wraps an error as an invalid parameter error
func WrapInvalidParameter(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInvalidParameter,
		Message: message,
		Err:     err,
	}
}

// NotFoundf creates a not found error with formatting
func NotFoundf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Conflictf creates a conflict error with formatting
func Conflictf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) error {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NumericInstabilityf creates a numeric instability error with formatting
func NumericInstabilityf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeNumericInstability,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// WrapExternal wraps an error as an external service error
func WrapExternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// GetType returns the error type of an error
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Is reports whether err carries the given error type
func Is(err error, t ErrorType) bool {
	return err != nil && GetType(err) == t
}
