package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrHomeDir     ErrorCode = "HOME_DIR"

	// Unit errors
	ErrUnitInvalid ErrorCode = "UNIT_INVALID"
	ErrDeclaration ErrorCode = "DECLARATION_INVALID"
	ErrTemplate    ErrorCode = "TEMPLATE"
	ErrDestination ErrorCode = "DESTINATION_INVALID"

	// Ledger errors
	ErrLedgerRead            ErrorCode = "LEDGER_READ"
	ErrLedgerWrite           ErrorCode = "LEDGER_WRITE"
	ErrLedgerLock            ErrorCode = "LEDGER_LOCK"
	ErrLedgerCorrupt         ErrorCode = "LEDGER_CORRUPT"
	ErrLedgerBackupExhausted ErrorCode = "LEDGER_BACKUP_EXHAUSTED"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileCopy   ErrorCode = "FILE_COPY"
	ErrFileRemove ErrorCode = "FILE_REMOVE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// OutsiderError represents a structured error with code and details
type OutsiderError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OutsiderError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OutsiderError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *OutsiderError) Is(target error) bool {
	var targetErr *OutsiderError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OutsiderError with the given code and message
func New(code ErrorCode, message string) *OutsiderError {
	return &OutsiderError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OutsiderError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OutsiderError {
	return &OutsiderError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OutsiderError
func Wrap(err error, code ErrorCode, message string) *OutsiderError {
	if err == nil {
		return nil
	}
	return &OutsiderError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OutsiderError {
	if err == nil {
		return nil
	}
	return &OutsiderError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OutsiderError) WithDetail(key string, value interface{}) *OutsiderError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var outsiderErr *OutsiderError
	if errors.As(err, &outsiderErr) {
		return outsiderErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an OutsiderError
func GetErrorCode(err error) ErrorCode {
	var outsiderErr *OutsiderError
	if errors.As(err, &outsiderErr) {
		return outsiderErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an OutsiderError
func GetErrorDetails(err error) map[string]interface{} {
	var outsiderErr *OutsiderError
	if errors.As(err, &outsiderErr) {
		return outsiderErr.Details
	}
	return nil
}

// Is reports whether any error in err's chain matches target. It forwards to
// the standard library so callers only need to import this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
