package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"userhub_backend/internal/logger"
	"userhub_backend/pkg/apperrors"
	"userhub_backend/pkg/contextkeys"
)

type BaseHandler struct{}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// GetDB extracts the *gorm.DB (pool or transaction) placed into the gin
// context by DBMiddleware. Every handler that reaches a service goes
// through here.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "db key not found in context", "key", dbKey)
		panic("DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "db in context is not *gorm.DB", "type", fmt.Sprintf("%T", val))
		panic("db in context has incorrect type")
	}

	return db
}

// BindJSON fills obj from the request body. Malformed or missing bodies are
// not an error here: the zero struct flows into the service layer, whose
// validation produces the contractual per-field messages.
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWarn(c.Request.Context(), "request body did not bind", "error", err.Error(), "path", c.Request.URL.Path)
	}
}

// HandleServiceError renders any service failure through the structured
// error responder.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	if appErr, ok := apperrors.AsAppError(err); ok {
		if appErr.HTTPCode >= 500 {
			logger.CtxWithError(ctx, "service error", appErr, "path", c.Request.URL.Path)
		} else {
			logger.CtxWarn(ctx, "request failed", "error", appErr.Message, "status", appErr.HTTPCode, "path", c.Request.URL.Path)
		}
	} else {
		logger.CtxWithError(ctx, "internal server error", err, "path", c.Request.URL.Path)
	}

	apperrors.HandleError(c, err)
}

// ParseParamUint parses a numeric path parameter.
func ParseParamUint(c *gin.Context, key string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}
