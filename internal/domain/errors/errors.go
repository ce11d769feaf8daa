// Package errors defines the application error taxonomy shared by the
// usecase and delivery layers.
package errors

import (
	"net/http"

	"multimusic/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// SSO-related errors. Authorization codes are single-use, so an exchange
	// failure is never retried internally; the user restarts the login.
	ErrProviderExchange = NewBaseError(
		http.StatusUnauthorized,
		"PROVIDER_EXCHANGE_FAILED",
		"Sign-in with the identity provider failed, please try again",
		"",
	)

	ErrUnsupportedProvider = NewBaseError(
		http.StatusNotFound,
		"UNSUPPORTED_PROVIDER",
		"Unknown identity provider",
		"",
	)

	ErrIdentityConflict = NewBaseError(
		http.StatusConflict,
		"IDENTITY_CONFLICT",
		"This identity is already linked to an account",
		"",
	)

	ErrIdentityNotFound = NewBaseError(
		http.StatusNotFound,
		"IDENTITY_NOT_FOUND",
		"Identity provider is not linked to this account",
		"",
	)

	ErrLastIdentity = NewBaseError(
		http.StatusBadRequest,
		"LAST_IDENTITY",
		"Cannot unlink the last sign-in method of an account",
		"",
	)

	// Platform-related errors. A failed refresh is user-visible and requires
	// the user to re-connect the platform; there is no automatic recovery.
	ErrTokenRefresh = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_REFRESH_FAILED",
		"The platform rejected the stored refresh token, please reconnect",
		"",
	)

	ErrTokenDecrypt = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_DECRYPT_FAILED",
		"Stored platform tokens are unreadable, please reconnect",
		"",
	)

	ErrUnsupportedPlatform = NewBaseError(
		http.StatusNotFound,
		"UNSUPPORTED_PLATFORM",
		"Unknown streaming platform",
		"",
	)

	ErrPlatformNotConnected = NewBaseError(
		http.StatusNotFound,
		"PLATFORM_NOT_CONNECTED",
		"This platform is not connected to the account",
		"",
	)

	// Session-related errors.
	ErrInvalidSession = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_SESSION",
		"Invalid or expired session, please sign in again",
		"",
	)

	ErrInvalidState = NewBaseError(
		http.StatusBadRequest,
		"INVALID_STATE",
		"OAuth state is missing, expired or already used",
		"",
	)

	// Account-related errors.
	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"Account does not exist",
		"",
	)

	ErrAccountCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"ACCOUNT_CREATION_FAILED",
		"Failed to create the account",
		"",
	)

	// Validation-related errors.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// General errors.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
