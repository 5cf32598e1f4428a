package apperrors

// ErrorCode classifies an AppError.
type ErrorCode string

const (
	// System and unknown failures
	CodeInternalError ErrorCode = "INTERNAL_ERROR"

	// Request-level failures
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeInvalidToken     ErrorCode = "INVALID_TOKEN"

	// Authentication and authorization
	CodeAuthenticationFailure ErrorCode = "AUTHENTICATION_FAILURE"
	CodeInactiveAccount       ErrorCode = "INACTIVE_ACCOUNT"
	CodeForbidden             ErrorCode = "FORBIDDEN"

	// External collaborators
	CodeEmailFailure ErrorCode = "EMAIL_FAILURE"
)
