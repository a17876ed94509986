package payroll

import (
	"go-attendpay/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client, logger *zap.Logger) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.ContextLogger(logger))
	{
		payrolls.POST("/calculate", middleware.RateLimitByEmployee(0.5, 2), middleware.Idempotency(rdb), handler.Calculate)
		payrolls.POST("/calculate-company", middleware.RateLimitByEmployee(0.1, 1), middleware.Idempotency(rdb), handler.CalculateCompany)
		payrolls.GET("", middleware.RateLimitByEmployee(3, 10), handler.GetAll)
		payrolls.GET("/:id", middleware.RateLimitByEmployee(3, 10), handler.GetById)
		payrolls.GET("/:id/payslip", middleware.RateLimitByEmployee(1, 5), handler.DownloadPayslip)
		payrolls.POST("/:id/mark-paid", middleware.RateLimitByEmployee(0.5, 2), handler.MarkAsPaid)
		payrolls.DELETE("/:id", middleware.RateLimitByEmployee(0.05, 1), handler.Delete)
	}
}
