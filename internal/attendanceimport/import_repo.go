package attendanceimport

import (
	"context"

	"go-attendpay/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=import_repo.go -destination=mock/import_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, batch *ImportBatch) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*ImportBatch, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]ImportBatch, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, batch *ImportBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*ImportBatch, error) {
	var batch ImportBatch
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&batch, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]ImportBatch, error) {
	var batches []ImportBatch
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&batches).Error
	return batches, err
}
