package employee

import (
	"go-attendpay/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	employees := r.Group("/employees")
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("", middleware.RateLimitByEmployee(3, 10), handler.GetAll)
		employees.GET("/options", middleware.RateLimitByEmployee(5, 20), handler.GetOptions)
		employees.GET("/:id", middleware.RateLimitByEmployee(3, 10), handler.GetById)
		employees.POST("", middleware.RateLimitByEmployee(0.1, 1), handler.Create)
		employees.PUT("/:id", middleware.RateLimitByEmployee(0.5, 2), handler.Update)
		employees.DELETE("/:id", middleware.RateLimitByEmployee(0.05, 1), handler.Delete)
	}
}
