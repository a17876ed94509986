package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-attendpay/internal/attendance"
	"go-attendpay/internal/employee"
	"go-attendpay/internal/messaging/kafka"
	"go-attendpay/internal/messaging/kafka/producer"
	"go-attendpay/internal/shared/connection"

	"go.uber.org/zap"
)

const autoCloseInterval = 15 * time.Minute

// RunWorker runs the background side of the system: the outbox relay that
// ships pending events to Kafka, and the auto-close sweep that finishes
// attendance days whose check-out never arrived.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

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

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	attendanceRepo := attendance.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	engine := attendance.NewEngine(attendance.DefaultPolicy())
	attendanceService := attendance.NewService(attendanceRepo, employeeRepo, engine, outboxRepo, attendanceLocation())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runAutoClose(ctx, attendanceService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func runAutoClose(ctx context.Context, svc attendance.Service, logger *zap.Logger) {
	ticker := time.NewTicker(autoCloseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			closed, err := svc.AutoCloseTick(ctx, now.UTC())
			if err != nil {
				logger.Error("auto-close sweep failed", zap.Error(err))
				continue
			}
			if closed > 0 {
				logger.Info("auto-closed stale attendance records", zap.Int("closed", closed))
			}
		}
	}
}
