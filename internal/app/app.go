package app

import (
	"fmt"
	"os"
	"time"

	"go-attendpay/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module on the
// router. PostgreSQL and Redis are required; Kafka publishing goes through
// the database outbox, so the API itself never talks to the broker.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	loc := attendanceLocation()

	return registerModules(router, sqlDB, gormDB, rdb, loc)
}

// attendanceLocation resolves the company time zone used to bucket
// check-ins into attendance dates. Falls back to UTC.
func attendanceLocation() *time.Location {
	name := os.Getenv("ATTENDANCE_TZ")
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		zap.L().Warn("invalid ATTENDANCE_TZ, falling back to UTC", zap.String("tz", name), zap.Error(err))
		return time.UTC
	}
	return loc
}
