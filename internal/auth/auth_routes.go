package auth

import (
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", middleware.RateLimitByIP(1, 5), handler.Register)
		authGroup.POST("/login", middleware.RateLimitByIP(1, 5), handler.Login)

		authGroup.GET("/me", middleware.AuthMiddleware(), handler.Me)
		authGroup.PUT("/profile", middleware.AuthMiddleware(), handler.UpdateProfile)
	}
}
