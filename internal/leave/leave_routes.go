package leave

import (
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("/my", middleware.RBACAuthorize(rbacService, "leave", "read_own"), handler.GetMy)
		leaves.GET("/stats", middleware.RBACAuthorize(rbacService, "leave", "stats"), handler.GetStats)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetAll)

		apply := []gin.HandlerFunc{
			middleware.RBACAuthorize(rbacService, "leave", "create"),
		}
		if rdb != nil {
			apply = append(apply, middleware.Idempotency(rdb))
		}
		leaves.POST("", append(apply, handler.Apply)...)

		leaves.PUT("/:id/review", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Review)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Cancel)
	}
}
