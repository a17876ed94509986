package attendanceimport

import (
	"go-attendpay/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client, logger *zap.Logger) {
	imports := r.Group("/attendance-imports")
	imports.Use(middleware.ContextLogger(logger))
	{
		imports.POST("",
			middleware.RateLimitByEmployee(0.1, 1),
			middleware.Idempotency(rdb),
			handler.Upload,
		)
		imports.GET("", middleware.RateLimitByEmployee(3, 10), handler.GetAll)
		imports.GET("/:id", middleware.RateLimitByEmployee(3, 10), handler.GetByID)
	}
}
