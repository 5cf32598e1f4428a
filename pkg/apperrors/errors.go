package apperrors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"userhub_backend/internal/validation"
)

// AppError is the application-level error every service failure is mapped
// to before it reaches a handler. Raw collaborator errors (DB, mail, hash,
// disk) never cross the service boundary unwrapped.
type AppError struct {
	Code             ErrorCode
	Message          string
	HTTPCode         int
	Err              error
	ValidationErrors *validation.FieldErrors
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New is the base constructor.
func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// Wrap attaches an underlying cause to a new AppError.
func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// Is wraps the standard errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As wraps the standard errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// AsAppError converts err to *AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// --- Factories for the error kinds this API produces ---

// InternalError wraps an unexpected system error.
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

// ValidationError carries the per-field message map produced by the
// validation pipeline.
func ValidationError(fieldErrors *validation.FieldErrors) *AppError {
	e := New(CodeValidationFailed, "Validation Failure", http.StatusBadRequest)
	e.ValidationErrors = fieldErrors
	return e
}

// AuthenticationFailure is returned for unknown e-mail, wrong password and
// missing credentials alike; callers must not be able to tell them apart.
// The message wording is a wire contract, typo included.
func AuthenticationFailure() *AppError {
	return New(CodeAuthenticationFailure, "Incorrect credentionals", http.StatusUnauthorized)
}

// InactiveAccount is returned when credentials are correct but the account
// was never activated.
func InactiveAccount() *AppError {
	return New(CodeInactiveAccount, "Account is inactive", http.StatusForbidden)
}

// Forbidden builds a 403 with the given message.
func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

// NotFound builds a 404 with the given message.
func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

// InvalidToken builds a 400 for activation-token style failures.
func InvalidToken(message string) *AppError {
	return New(CodeInvalidToken, message, http.StatusBadRequest)
}

// EmailFailure is raised when the mail transport collaborator fails.
func EmailFailure(err error) *AppError {
	return Wrap(err, CodeEmailFailure, "E-mail Failure", http.StatusBadGateway)
}

// ErrAuthenticationFailure is the sentinel used by the token verification
// path. Absent and expired tokens both collapse to this value.
var ErrAuthenticationFailure = AuthenticationFailure()
