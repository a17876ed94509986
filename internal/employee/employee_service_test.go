package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-attendpay/internal/employee"
	employeeerrors "go-attendpay/internal/employee/errors"
	"go-attendpay/internal/events"
	"go-attendpay/internal/messaging/kafka"
	"go-attendpay/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	byID        map[string]*employee.Employee
	created     []*employee.Employee
	createErr   error
	options     []employee.Employee
	optionsErr  error
	optionCalls int
	updated     []*employee.Employee
	updateErr   error
	deleted     []string
	deleteErr   error
	withTxCalls int
}

func (f *fakeRepo) WithTx(tx *sql.Tx) employee.Repository {
	f.withTxCalls++
	return f
}

func (f *fakeRepo) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, empl)
	return nil
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.byID))
	for _, empl := range f.byID {
		out = append(out, *empl)
	}
	return out, nil
}

func (f *fakeRepo) FindOptionsByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	f.optionCalls++
	if f.optionsErr != nil {
		return nil, f.optionsErr
	}
	return f.options, nil
}

func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	empl, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *empl
	return &copied, nil
}

func (f *fakeRepo) FindByNumber(ctx context.Context, companyID, number string) (*employee.Employee, error) {
	for _, empl := range f.byID {
		if empl.EmployeeNumber == number {
			return empl, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEmail(ctx context.Context, companyID, email string) (*employee.Employee, error) {
	for _, empl := range f.byID {
		if empl.Email == email {
			return empl, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByFullName(ctx context.Context, companyID, fullName string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, empl := range f.byID {
		if empl.FullName == fullName {
			out = append(out, *empl)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, empl *employee.Employee) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, empl)
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCounterRepo struct {
	next  int64
	calls int
	err   error
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.next, nil
}

type fakeOutboxRepo struct {
	events      []kafka.OutboxEvent
	createErr   error
	withTxCalls int
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	f.withTxCalls++
	return f
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	redis   redismock.ClientMock
	repo    *fakeRepo
	counter *fakeCounterRepo
	outbox  *fakeOutboxRepo
	service employee.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()

	repo := &fakeRepo{byID: map[string]*employee.Employee{}}
	counterRepo := &fakeCounterRepo{next: 7}
	outboxRepo := &fakeOutboxRepo{}

	svc := employee.NewServiceWithOutbox(db, repo, counterRepo, outboxRepo, rdb, zap.NewNop())

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		redis:   redisMock,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		service: svc,
	}
}

func TestEmployeeService_Create(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("auto-generates employee number and publishes through the outbox", func(t *testing.T) {
		deps := setupServiceTest(t)

		rid := "REQ-123-ABC"
		ctx := contextutil.WithRequestID(context.Background(), rid)

		req := employee.CreateEmployeeRequest{
			FullName:   "Budi Santoso",
			Email:      "budi@example.com",
			HireDate:   "2025-01-06",
			BaseSalary: 26000,
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redis.ExpectDel(employee.GetEmployeeOptionsKey(companyID)).SetVal(1)

		resp, err := deps.service.Create(ctx, companyID, req)

		require.NoError(t, err)
		assert.Equal(t, "EMP-000007", resp.EmployeeNumber)
		assert.Equal(t, employee.StatusActive, resp.Status)
		assert.Equal(t, 1, deps.counter.calls)
		assert.Equal(t, 1, deps.repo.withTxCalls)
		assert.Equal(t, 1, deps.outbox.withTxCalls)

		require.Len(t, deps.outbox.events, 1)
		outboxed := deps.outbox.events[0]
		assert.Equal(t, events.EmployeeCreatedTopic, outboxed.Topic)
		assert.Equal(t, kafka.OutboxStatusPending, outboxed.Status)
		assert.Equal(t, rid, outboxed.RequestID)

		var event events.EmployeeCreatedEvent
		require.NoError(t, json.Unmarshal(outboxed.Payload, &event))
		assert.Equal(t, resp.ID, event.EmployeeID)
		assert.Equal(t, 26000.0, event.BaseSalary)
		assert.Equal(t, rid, event.RequestID)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redis.ExpectationsWereMet())
	})

	t.Run("keeps a caller-supplied employee number", func(t *testing.T) {
		deps := setupServiceTest(t)

		req := employee.CreateEmployeeRequest{
			FullName:       "Siti Rahma",
			Email:          "siti@example.com",
			EmployeeNumber: "EMP-900001",
			HireDate:       "2025-02-03",
			BaseSalary:     18000,
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redis.ExpectDel(employee.GetEmployeeOptionsKey(companyID)).SetVal(1)

		resp, err := deps.service.Create(context.Background(), companyID, req)

		require.NoError(t, err)
		assert.Equal(t, "EMP-900001", resp.EmployeeNumber)
		assert.Equal(t, 0, deps.counter.calls)
	})

	t.Run("repo error rolls the transaction back", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.createErr = errors.New("insert failed")

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName:       "Budi Santoso",
			Email:          "budi@example.com",
			EmployeeNumber: "EMP-000001",
			HireDate:       "2025-01-06",
		})

		assert.Error(t, err)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redis.ExpectationsWereMet())
	})

	t.Run("duplicate employee number maps to a conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_number"}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName:       "Budi Santoso",
			Email:          "budi@example.com",
			EmployeeNumber: "EMP-000001",
			HireDate:       "2025-01-06",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNumberAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure aborts the create", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.outbox.createErr = errors.New("outbox insert failed")

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName:       "Budi Santoso",
			Email:          "budi@example.com",
			EmployeeNumber: "EMP-000001",
			HireDate:       "2025-01-06",
		})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects a malformed hire date before touching the database", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName: "Budi Santoso",
			Email:    "budi@example.com",
			HireDate: "06/01/2025",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	t.Run("cache hit skips the database", func(t *testing.T) {
		deps := setupServiceTest(t)

		companyID := uuid.New().String()
		cacheKey := employee.GetEmployeeOptionsKey(companyID)

		cached := []employee.EmployeeResponse{
			{ID: uuid.New().String(), FullName: "Caca Handika", EmployeeNumber: "EMP-000001"},
		}
		raw, err := json.Marshal(cached)
		require.NoError(t, err)

		deps.redis.ExpectGet(cacheKey).SetVal(string(raw))

		resp, err := deps.service.GetOptions(context.Background(), companyID)

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "Caca Handika", resp[0].FullName)
		assert.Equal(t, 0, deps.repo.optionCalls)
		assert.NoError(t, deps.redis.ExpectationsWereMet())
	})

	t.Run("cache miss loads from the database and repopulates redis", func(t *testing.T) {
		deps := setupServiceTest(t)

		companyID := uuid.New().String()
		cacheKey := employee.GetEmployeeOptionsKey(companyID)

		empl := employee.Employee{
			ID:             uuid.New(),
			CompanyID:      uuid.MustParse(companyID),
			EmployeeNumber: "EMP-000002",
			FullName:       "Deni Wirawan",
			Email:          "deni@example.com",
			HireDate:       time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
			Status:         employee.StatusActive,
		}
		deps.repo.options = []employee.Employee{empl}

		expected, err := json.Marshal([]employee.EmployeeResponse{{
			ID:             empl.ID.String(),
			CompanyID:      companyID,
			EmployeeNumber: "EMP-000002",
			FullName:       "Deni Wirawan",
			Email:          "deni@example.com",
			HireDate:       "2024-06-03",
			Status:         employee.StatusActive,
		}})
		require.NoError(t, err)

		deps.redis.ExpectGet(cacheKey).RedisNil()
		deps.redis.ExpectSet(cacheKey, expected, time.Hour).SetVal("OK")

		resp, err := deps.service.GetOptions(context.Background(), companyID)

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "Deni Wirawan", resp[0].FullName)
		assert.Equal(t, 1, deps.repo.optionCalls)
		assert.NoError(t, deps.redis.ExpectationsWereMet())
	})

	t.Run("database error surfaces to the caller", func(t *testing.T) {
		deps := setupServiceTest(t)

		companyID := uuid.New().String()
		deps.repo.optionsErr = errors.New("database connection lost")

		deps.redis.ExpectGet(employee.GetEmployeeOptionsKey(companyID)).RedisNil()

		resp, err := deps.service.GetOptions(context.Background(), companyID)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	deps := setupServiceTest(t)

	companyID := uuid.New()
	targetID := uuid.New()
	deps.repo.byID[targetID.String()] = &employee.Employee{
		ID:        targetID,
		CompanyID: companyID,
		FullName:  "Budi Santoso",
		Email:     "budi@example.com",
		Status:    employee.StatusActive,
		HireDate:  time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
	}

	deps.redis.ExpectDel(employee.GetEmployeeOptionsKey(companyID.String())).SetVal(1)

	resp, err := deps.service.Update(context.Background(), companyID.String(), targetID.String(), employee.UpdateEmployeeRequest{
		FullName: "Budi S. Santoso",
		Email:    "budi@example.com",
		Status:   employee.StatusOnLeave,
	})

	require.NoError(t, err)
	assert.Equal(t, "Budi S. Santoso", resp.FullName)
	assert.Equal(t, employee.StatusOnLeave, resp.Status)
	require.Len(t, deps.repo.updated, 1)
	assert.NoError(t, deps.redis.ExpectationsWereMet())
}

func TestEmployeeService_Delete(t *testing.T) {
	t.Run("invalidates the options cache", func(t *testing.T) {
		deps := setupServiceTest(t)

		companyID := uuid.New().String()
		targetID := uuid.New().String()

		deps.redis.ExpectDel(employee.GetEmployeeOptionsKey(companyID)).SetVal(1)

		err := deps.service.Delete(context.Background(), companyID, targetID)

		require.NoError(t, err)
		assert.Equal(t, []string{targetID}, deps.repo.deleted)
		assert.NoError(t, deps.redis.ExpectationsWereMet())
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		deps := setupServiceTest(t)

		err := deps.service.Delete(context.Background(), uuid.New().String(), "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
		assert.Empty(t, deps.repo.deleted)
	})
}
