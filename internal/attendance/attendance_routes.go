package attendance

import (
	"go-attendpay/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.ContextLogger(logger))
	{
		attendances.POST("/check-in", middleware.RateLimitByEmployee(0.5, 3), handler.CheckIn)
		attendances.POST("/check-out", middleware.RateLimitByEmployee(0.5, 3), handler.CheckOut)
		attendances.POST("/leave-signal", middleware.RateLimitByEmployee(1, 5), handler.LeaveSignal)
		attendances.POST("/auto-close", middleware.RateLimitByEmployee(0.1, 1), handler.AutoCloseTick)
		attendances.GET("", middleware.RateLimitByEmployee(3, 10), handler.GetAll)
		attendances.GET("/employees/:employee_id", middleware.RateLimitByEmployee(3, 10), handler.GetByEmployee)
	}
}
