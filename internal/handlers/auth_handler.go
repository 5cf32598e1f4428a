package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userhub_backend/internal/middleware"
	"userhub_backend/internal/services"
	"userhub_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth", h.Login)
	rg.POST("/logout", h.Logout)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	h.BindJSON(c, &req)

	db := h.GetDB(c)

	response, err := h.authService.Authenticate(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout always answers 200. When a valid bearer token was presented its
// row is removed; anything else is silently ignored.
func (h *AuthHandler) Logout(c *gin.Context) {
	db := h.GetDB(c)

	if err := h.authService.Logout(db, middleware.BearerToken(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
