package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-attendpay/internal/compensation"
	"go-attendpay/internal/employee"
	"go-attendpay/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer subscribes to employee lifecycle events and seeds
// compensation configs for newly created employees.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	compensationRepo := compensation.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	compensationService := compensation.NewService(compensationRepo, employeeRepo)

	consumer := compensation.NewEmployeeCreatedConsumer(
		kafkaBroker,
		"go-attendpay-compensation",
		compensationService,
	)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
