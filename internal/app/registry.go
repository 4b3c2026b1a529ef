package app

import (
	"database/sql"
	"net/http"

	"leavedesk/internal/auth"
	"leavedesk/internal/leave"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/rbac"
	"leavedesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(router *gin.Engine, db *sql.DB, gormDB *gorm.DB, rdb *redis.Client) error {
	logger := zap.L()

	// Repositories
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// Services
	authService := auth.NewService(authRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo, logger)
	userService := user.NewService(userRepo, leaveRepo)

	// Handlers
	authHandler := auth.NewHandler(authService, logger)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb, logger)
	userHandler := user.NewHandler(userService, leaveService, logger)

	api := router.Group("/api")

	auth.RegisterRoutes(api, authHandler)
	leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
	user.RegisterRoutes(api, userHandler, rbacService, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return nil
}
