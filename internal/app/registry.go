package app

import (
	"database/sql"
	"time"

	"go-attendpay/internal/attendance"
	"go-attendpay/internal/attendanceimport"
	"go-attendpay/internal/compensation"
	"go-attendpay/internal/employee"
	"go-attendpay/internal/messaging/kafka"
	"go-attendpay/internal/middleware"
	"go-attendpay/internal/payroll"
	"go-attendpay/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	loc *time.Location,
) error {
	logger := zap.L()

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	compensationRepo := compensation.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	importRepo := attendanceimport.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- Services ---
	engine := attendance.NewEngine(attendance.DefaultPolicy())
	attendanceService := attendance.NewService(attendanceRepo, employeeRepo, engine, outboxRepo, loc)
	compensationService := compensation.NewService(compensationRepo, employeeRepo)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	importService := attendanceimport.NewService(importRepo, attendanceService, attendanceRepo, employeeRepo, counterRepo)
	payrollPolicy := payroll.DefaultPolicy()
	payrollPolicy.Location = loc
	payrollService := payroll.NewService(payrollRepo, compensationRepo, attendanceRepo, employeeRepo, payrollPolicy)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	compensationHandler := compensation.NewHandler(compensationService)
	employeeHandler := employee.NewHandler(employeeService)
	importHandler := attendanceimport.NewHandler(importService, rdb)
	payrollHandler := payroll.NewHandler(payrollService, rdb)

	// --- Routes ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID(), middleware.TenantIdentity())
	{
		attendance.RegisterRoutes(api, attendanceHandler, logger)
		attendanceimport.RegisterRoutes(api, importHandler, rdb, logger)
		compensation.RegisterRoutes(api, compensationHandler, logger)
		employee.RegisterRoutes(api, employeeHandler, logger)
		payroll.RegisterRoutes(api, payrollHandler, rdb, logger)
	}

	return nil
}
