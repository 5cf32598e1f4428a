package apperrors

import (
	"time"

	"github.com/gin-gonic/gin"

	"userhub_backend/internal/validation"
)

// ErrorBody is the JSON body of every failed request. Field order is part
// of the API contract: path, timestamp, message, then validationErrors only
// for validation failures.
type ErrorBody struct {
	Path             string                  `json:"path"`
	Timestamp        int64                   `json:"timestamp"`
	Message          string                  `json:"message"`
	ValidationErrors *validation.FieldErrors `json:"validationErrors,omitempty"`
}

// HandleError maps any error to the structured error response. Errors that
// are not AppError collapse to a 500 without leaking their message.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	c.JSON(appErr.HTTPCode, ErrorBody{
		Path:             c.Request.URL.Path,
		Timestamp:        time.Now().UnixMilli(),
		Message:          appErr.Message,
		ValidationErrors: appErr.ValidationErrors,
	})
}
