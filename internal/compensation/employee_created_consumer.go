package compensation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-attendpay/internal/events"

	compensationerrors "go-attendpay/internal/compensation/errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmployeeCreatedConsumer seeds a compensation config from employee
// lifecycle events so payroll can run without a manual setup step. The
// base salary comes from the event payload; an event without one is
// skipped, never defaulted.
type EmployeeCreatedConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewEmployeeCreatedConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *EmployeeCreatedConsumer {
	l := zap.L().Named("compensation.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compensation.consumer")
	}

	return &EmployeeCreatedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.EmployeeCreatedTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *EmployeeCreatedConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("consume employee_created failed", zap.Error(err))
				continue
			}

			var event events.EmployeeCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("decode employee_created event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid employee_created event failed", zap.Error(commitErr))
				}
				continue
			}

			if err := c.handle(ctx, event); err != nil {
				c.logger.Error("seed compensation config failed",
					zap.String("employee_id", event.EmployeeID),
					zap.String("company_id", event.CompanyID),
					zap.Error(err),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit employee_created event failed", zap.Error(err))
			}
		}
	}()
}

func (c *EmployeeCreatedConsumer) handle(ctx context.Context, event events.EmployeeCreatedEvent) error {
	if event.BaseSalary <= 0 {
		c.logger.Warn("employee_created event carries no base salary, skipping seed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
		)
		return nil
	}

	_, err := c.service.Create(ctx, event.CompanyID, CreateCompensationRequest{
		EmployeeID:    event.EmployeeID,
		BaseSalary:    event.BaseSalary,
		EffectiveDate: event.OccurredAt.UTC().Format("2006-01-02"),
	})
	if err != nil {
		// Redelivered event: the config is already there.
		if errors.Is(err, compensationerrors.ErrCompensationExists) {
			c.logger.Warn("compensation config already exists for event, skipping",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
			)
			return nil
		}
		return err
	}

	c.logger.Info("compensation config seeded from employee_created event",
		zap.String("employee_id", event.EmployeeID),
		zap.String("company_id", event.CompanyID),
	)
	return nil
}

func (c *EmployeeCreatedConsumer) Close() error {
	return c.reader.Close()
}
