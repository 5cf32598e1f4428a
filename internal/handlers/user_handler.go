package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userhub_backend/internal/middleware"
	"userhub_backend/internal/services"
	"userhub_backend/internal/services/dto"
	"userhub_backend/pkg/apperrors"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// RegisterRoutes registers the user account routes.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", h.Register)
		users.POST("/token/:token", h.Activate)
		users.GET("", middleware.PaginationMiddleware(), h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	rg.POST("/password-reset", h.RequestPasswordReset)
	rg.PUT("/user/password", h.UpdatePassword)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	h.BindJSON(c, &req)

	db := h.GetDB(c)

	if err := h.userService.Save(c.Request.Context(), db, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User created"})
}

func (h *UserHandler) Activate(c *gin.Context) {
	db := h.GetDB(c)

	if err := h.userService.Activate(db, c.Param("token")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account is activated"})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	db := h.GetDB(c)
	page, size := middleware.Pagination(c)

	// The requesting user, when authenticated, never shows up in their own
	// listing. Anonymous requests pass 0 which matches no row.
	authenticatedID, _ := middleware.AuthenticatedUserID(c)

	pageResult, err := h.userService.GetUsers(db, page, size, authenticatedID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageResult)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, apperrors.NotFound("User not found"))
		return
	}

	db := h.GetDB(c)

	user, err := h.userService.GetUser(db, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, apperrors.Forbidden("You are not authorized to update user"))
		return
	}

	authenticatedID, ok := middleware.AuthenticatedUserID(c)
	if !ok || authenticatedID != id {
		h.HandleServiceError(c, apperrors.Forbidden("You are not authorized to update user"))
		return
	}

	var req dto.UpdateUserRequest
	h.BindJSON(c, &req)

	db := h.GetDB(c)

	user, err := h.userService.UpdateUser(c.Request.Context(), db, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, apperrors.Forbidden("You are not authorized to delete user"))
		return
	}

	authenticatedID, ok := middleware.AuthenticatedUserID(c)
	if !ok || authenticatedID != id {
		h.HandleServiceError(c, apperrors.Forbidden("You are not authorized to delete user"))
		return
	}

	db := h.GetDB(c)

	if err := h.userService.DeleteUser(db, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	h.BindJSON(c, &req)

	db := h.GetDB(c)

	if err := h.userService.RequestPasswordReset(c.Request.Context(), db, req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Check your e-mail for resetting your password"})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req dto.PasswordUpdateRequest
	h.BindJSON(c, &req)

	db := h.GetDB(c)

	err := h.userService.UpdatePassword(c.Request.Context(), db, req.PasswordResetToken, req.Password)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
