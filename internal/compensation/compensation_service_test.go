package compensation

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-attendpay/internal/employee"
	"go-attendpay/internal/events"

	compensationerrors "go-attendpay/internal/compensation/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	byEmployee map[string]*CompensationConfig
	created    []*CompensationConfig
	replaced   []*CompensationConfig
	createErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmployee: map[string]*CompensationConfig{}}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, config *CompensationConfig) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, config)
	f.byEmployee[config.EmployeeID.String()] = config
	return nil
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]CompensationConfig, error) {
	var out []CompensationConfig
	for _, c := range f.byEmployee {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*CompensationConfig, error) {
	for _, c := range f.byEmployee {
		if c.ID.String() == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEmployeeAndCompany(ctx context.Context, companyID, employeeID string) (*CompensationConfig, error) {
	if c, ok := f.byEmployee[employeeID]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Replace(ctx context.Context, config *CompensationConfig) error {
	f.replaced = append(f.replaced, config)
	f.byEmployee[config.EmployeeID.String()] = config
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

type fakeEmployeeRepo struct {
	known map[string]*employee.Employee
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository                 { return f }
func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) FindOptionsByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if e, ok := f.known[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) FindByNumber(ctx context.Context, companyID, number string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) FindByEmail(ctx context.Context, companyID, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) FindByFullName(ctx context.Context, companyID, fullName string) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) Delete(ctx context.Context, companyID, id string) error { return nil }

func floatPtr(v float64) *float64 { return &v }

func newCompensationFixture() (Service, *fakeRepo, string, string) {
	companyID := uuid.New().String()
	emplID := uuid.New()
	repo := newFakeRepo()
	emplRepo := &fakeEmployeeRepo{known: map[string]*employee.Employee{
		emplID.String(): {ID: emplID, FullName: "Budi Santoso"},
	}}
	return NewService(repo, emplRepo, zap.NewNop()), repo, companyID, emplID.String()
}

func TestCompensationCreate(t *testing.T) {
	svc, repo, companyID, emplID := newCompensationFixture()

	resp, err := svc.Create(context.Background(), companyID, CreateCompensationRequest{
		EmployeeID:    emplID,
		BaseSalary:    26000,
		EffectiveDate: "2025-01-01",
		Allowances: []ComponentInput{
			{Name: "transport", Amount: 500},
			{Name: "meal", Amount: 300},
		},
		Deductions: []ComponentInput{
			{Name: "tax", Amount: 1200},
		},
		Adjustments: []AdjustmentInput{
			{Kind: AdjustmentBonus, Name: "signing bonus", Amount: floatPtr(1000)},
			{Kind: AdjustmentIncrement, Name: "annual raise", Percentage: floatPtr(4)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, emplID, resp.EmployeeID)
	assert.Equal(t, "26000.00", resp.BaseSalary)
	assert.Len(t, resp.Allowances, 2)
	assert.Len(t, resp.Deductions, 1)
	assert.Len(t, resp.Adjustments, 2)

	require.Len(t, repo.created, 1)
	config := repo.created[0]
	assert.True(t, config.TotalAllowances().Equal(decimal.NewFromInt(800)))
	assert.True(t, config.TotalDeductions().Equal(decimal.NewFromInt(1200)))
}

func TestCompensationCreateUnknownEmployee(t *testing.T) {
	svc, _, companyID, _ := newCompensationFixture()

	_, err := svc.Create(context.Background(), companyID, CreateCompensationRequest{
		EmployeeID:    uuid.New().String(),
		BaseSalary:    26000,
		EffectiveDate: "2025-01-01",
	})
	assert.ErrorIs(t, err, compensationerrors.ErrInvalidEmployeeID)
}

func TestCompensationCreateRejectsAmbiguousAdjustment(t *testing.T) {
	svc, _, companyID, emplID := newCompensationFixture()

	tests := []struct {
		name string
		in   AdjustmentInput
	}{
		{"both amount and percentage", AdjustmentInput{
			Kind: AdjustmentBonus, Name: "x", Amount: floatPtr(100), Percentage: floatPtr(5),
		}},
		{"neither amount nor percentage", AdjustmentInput{
			Kind: AdjustmentBonus, Name: "x",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), companyID, CreateCompensationRequest{
				EmployeeID:    emplID,
				BaseSalary:    26000,
				EffectiveDate: "2025-01-01",
				Adjustments:   []AdjustmentInput{tt.in},
			})
			assert.ErrorIs(t, err, compensationerrors.ErrInvalidAdjustment)
		})
	}
}

func TestCompensationCreateRejectsInvertedWindow(t *testing.T) {
	svc, _, companyID, emplID := newCompensationFixture()

	_, err := svc.Create(context.Background(), companyID, CreateCompensationRequest{
		EmployeeID:    emplID,
		BaseSalary:    26000,
		EffectiveDate: "2025-01-01",
		Adjustments: []AdjustmentInput{{
			Kind:          AdjustmentDeduction,
			Name:          "loan repayment",
			Amount:        floatPtr(200),
			EffectiveFrom: "2025-06-01",
			EffectiveTo:   "2025-03-01",
		}},
	})
	assert.ErrorIs(t, err, compensationerrors.ErrInvalidAdjustmentWindow)
}

func TestCompensationUpdateReplacesLines(t *testing.T) {
	svc, repo, companyID, emplID := newCompensationFixture()

	created, err := svc.Create(context.Background(), companyID, CreateCompensationRequest{
		EmployeeID:    emplID,
		BaseSalary:    26000,
		EffectiveDate: "2025-01-01",
		Allowances:    []ComponentInput{{Name: "transport", Amount: 500}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), companyID, created.ID, UpdateCompensationRequest{
		BaseSalary:    28000,
		EffectiveDate: "2025-07-01",
		Deductions:    []ComponentInput{{Name: "insurance", Amount: 400}},
	})
	require.NoError(t, err)

	assert.Equal(t, "28000.00", updated.BaseSalary)
	assert.Empty(t, updated.Allowances)
	assert.Len(t, updated.Deductions, 1)
	require.Len(t, repo.replaced, 1)
}

func TestCompensationGetByEmployeeNotConfigured(t *testing.T) {
	svc, _, companyID, _ := newCompensationFixture()

	_, err := svc.GetByEmployee(context.Background(), companyID, uuid.New().String())
	assert.ErrorIs(t, err, compensationerrors.ErrCompensationNotFound)
}

func TestAdjustmentRuleAppliesTo(t *testing.T) {
	periodStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule AdjustmentRule
		want bool
	}{
		{"no window, active", AdjustmentRule{IsActive: true}, true},
		{"inactive", AdjustmentRule{IsActive: false}, false},
		{"starts after period", AdjustmentRule{IsActive: true, EffectiveFrom: &apr}, false},
		{"ended before period", AdjustmentRule{IsActive: true, EffectiveTo: &feb}, false},
		{"window covers period", AdjustmentRule{IsActive: true, EffectiveFrom: &feb, EffectiveTo: &apr}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.AppliesTo(periodStart, periodEnd))
		})
	}
}

func TestAdjustmentRuleResolve(t *testing.T) {
	base := decimal.NewFromInt(26000)

	flat := decimal.NewFromInt(1000)
	rule := AdjustmentRule{Amount: &flat}
	assert.True(t, rule.Resolve(base).Equal(flat))

	pct := decimal.NewFromInt(5)
	rule = AdjustmentRule{Percentage: &pct}
	assert.True(t, rule.Resolve(base).Equal(decimal.NewFromInt(1300)))

	assert.True(t, AdjustmentRule{}.Resolve(base).IsZero())
}

func TestEmployeeCreatedConsumerSeedsConfig(t *testing.T) {
	svc, repo, companyID, emplID := newCompensationFixture()
	consumer := &EmployeeCreatedConsumer{service: svc, logger: zap.NewNop()}

	err := consumer.handle(context.Background(), events.EmployeeCreatedEvent{
		EventType:  "employee_created",
		EmployeeID: emplID,
		CompanyID:  companyID,
		BaseSalary: 26000,
		OccurredAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].BaseSalary.Equal(decimal.NewFromInt(26000)))
	assert.Equal(t, "2025-03-10", repo.created[0].EffectiveDate.Format("2006-01-02"))
}

func TestEmployeeCreatedConsumerSkipsZeroSalary(t *testing.T) {
	svc, repo, companyID, emplID := newCompensationFixture()
	consumer := &EmployeeCreatedConsumer{service: svc, logger: zap.NewNop()}

	err := consumer.handle(context.Background(), events.EmployeeCreatedEvent{
		EmployeeID: emplID,
		CompanyID:  companyID,
		BaseSalary: 0,
	})
	require.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestEmployeeCreatedConsumerIgnoresDuplicate(t *testing.T) {
	svc, repo, companyID, emplID := newCompensationFixture()
	consumer := &EmployeeCreatedConsumer{service: svc, logger: zap.NewNop()}

	event := events.EmployeeCreatedEvent{
		EmployeeID: emplID,
		CompanyID:  companyID,
		BaseSalary: 26000,
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, consumer.handle(context.Background(), event))

	repo.createErr = compensationerrors.ErrCompensationExists
	assert.NoError(t, consumer.handle(context.Background(), event))
}
