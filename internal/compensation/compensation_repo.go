package compensation

import (
	"context"
	"database/sql"

	"go-attendpay/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_repo.go -destination=mock/compensation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, config *CompensationConfig) error
	FindAllByCompany(ctx context.Context, companyID string) ([]CompensationConfig, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*CompensationConfig, error)
	FindByEmployeeAndCompany(ctx context.Context, companyID, employeeID string) (*CompensationConfig, error)
	Replace(ctx context.Context, config *CompensationConfig) error
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

func (r *repository) Create(ctx context.Context, config *CompensationConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]CompensationConfig, error) {
	var configs []CompensationConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Components").
		Preload("Adjustments").
		Order("created_at DESC").
		Find(&configs).Error
	return configs, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*CompensationConfig, error) {
	var config CompensationConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Components").
		Preload("Adjustments").
		First(&config, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *repository) FindByEmployeeAndCompany(ctx context.Context, companyID, employeeID string) (*CompensationConfig, error) {
	var config CompensationConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Components").
		Preload("Adjustments").
		First(&config, "employee_id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Replace saves the config head and swaps its component and adjustment
// rows wholesale. Partial edits of line items are not supported; callers
// send the full desired state.
func (r *repository) Replace(ctx context.Context, config *CompensationConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("config_id = ?", config.ID).Delete(&PayComponent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("config_id = ?", config.ID).Delete(&AdjustmentRule{}).Error; err != nil {
			return err
		}
		return tx.Save(config).Error
	})
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&CompensationConfig{}).Error
}
