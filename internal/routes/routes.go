package routes

import (
	"github.com/gin-gonic/gin"

	"userhub_backend/internal/handlers"
)

// RegisterRoutes registers every HTTP route of the application.
func RegisterRoutes(router *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := router.Group("/api/1.0")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
	}

	// Static profile images, outside the API prefix
	appHandlers.FileHandler.RegisterRoutes(router)
}
