package compensation

import (
	"go-attendpay/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	compensations := r.Group("/compensations")
	compensations.Use(middleware.ContextLogger(logger))
	{
		compensations.GET("", middleware.RateLimitByEmployee(3, 10), handler.GetAll)
		compensations.GET("/:id", middleware.RateLimitByEmployee(3, 10), handler.GetById)
		compensations.GET("/employees/:employee_id", middleware.RateLimitByEmployee(3, 10), handler.GetByEmployee)
		compensations.POST("", middleware.RateLimitByEmployee(0.5, 2), handler.Create)
		compensations.PUT("/:id", middleware.RateLimitByEmployee(0.5, 2), handler.Update)
		compensations.DELETE("/:id", middleware.RateLimitByEmployee(0.05, 1), handler.Delete)
	}
}
