package payroll

import (
	"context"
	"database/sql"

	"go-attendpay/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, result *PayrollResult) error
	FindAllByCompany(ctx context.Context, companyID string) ([]PayrollResult, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollResult, error)
	FindByPeriod(ctx context.Context, companyID, employeeID string, year, month int) (*PayrollResult, error)
	Update(ctx context.Context, result *PayrollResult) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// Upsert writes a calculation result, replacing a previous run for the
// same employee and period. Paid results are never overwritten here; the
// service refuses before calling.
func (r *repository) Upsert(ctx context.Context, result *PayrollResult) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"base_salary", "base_pay", "overtime_pay", "allowances", "gross_pay",
			"total_bonuses", "total_deductions", "net_pay", "breakdown", "status", "updated_at",
		}),
	}).Create(result).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]PayrollResult, error) {
	var results []PayrollResult
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("year DESC, month DESC, created_at DESC").
		Find(&results).Error
	return results, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollResult, error) {
	var result PayrollResult
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&result, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *repository) FindByPeriod(ctx context.Context, companyID, employeeID string, year, month int) (*PayrollResult, error) {
	var result PayrollResult
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND year = ? AND month = ?", employeeID, year, month).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *repository) Update(ctx context.Context, result *PayrollResult) error {
	return r.db.WithContext(ctx).Save(result).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&PayrollResult{}, "id = ?", id).Error
}
