package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-attendpay/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	// Reconcile runs mutate against the locked record for (company,
	// employee, date), creating it first if absent, inside one database
	// transaction. Concurrent reconciliations for the same key serialize
	// on the row lock, so neither can overwrite the other's merge. The
	// transaction handle is passed through so callers can pair outbox
	// writes with the record in the same commit.
	Reconcile(ctx context.Context, companyID, employeeID string, date time.Time, mutate func(tx *sql.Tx, rec *AttendanceRecord) error) (*AttendanceRecord, bool, error)

	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]AttendanceRecord, error)
	FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]AttendanceRecord, error)
	FindStaleOpen(ctx context.Context, cutoff time.Time) ([]AttendanceRecord, error)
	ListOffices(ctx context.Context, companyID string) ([]Office, error)
	FindLatestSelfFix(ctx context.Context, companyID, employeeID string, before time.Time) (*AttendanceRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Reconcile(
	ctx context.Context,
	companyID, employeeID string,
	date time.Time,
	mutate func(tx *sql.Tx, rec *AttendanceRecord) error,
) (*AttendanceRecord, bool, error) {
	var (
		rec     AttendanceRecord
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("company_id = ?", companyID).
			Where("employee_id = ?", employeeID).
			Where("date = ?", date.Format("2006-01-02")).
			First(&rec).Error

		switch {
		case err == gorm.ErrRecordNotFound:
			rec = AttendanceRecord{
				ID:             uuid.New(),
				CompanyID:      uuid.MustParse(companyID),
				EmployeeID:     uuid.MustParse(employeeID),
				Date:           date,
				Source:         SourceManual,
				ApprovalStatus: ApprovalPending,
			}
			created = true
		case err != nil:
			return err
		}

		sqlTx, _ := tx.Statement.ConnPool.(*sql.Tx)
		if err := mutate(sqlTx, &rec); err != nil {
			return err
		}

		if created {
			return tx.Create(&rec).Error
		}
		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &rec, created, nil
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]AttendanceRecord, error) {
	var recs []AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("date DESC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	var recs []AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("date >= ? AND date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date ASC").
		Find(&recs).Error
	return recs, err
}

// FindStaleOpen returns records with a check-in on either side, no check-out
// on that side, and the check-in older than cutoff.
func (r *repository) FindStaleOpen(ctx context.Context, cutoff time.Time) ([]AttendanceRecord, error) {
	var recs []AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("is_leave = false").
		Where(
			r.db.Where("self_reported_in IS NOT NULL AND self_reported_out IS NULL AND self_reported_in < ?", cutoff).
				Or("biometric_in IS NOT NULL AND biometric_out IS NULL AND biometric_in < ?", cutoff),
		).
		Find(&recs).Error
	return recs, err
}

func (r *repository) ListOffices(ctx context.Context, companyID string) ([]Office, error) {
	var offices []Office
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&offices).Error
	return offices, err
}

// FindLatestSelfFix returns the most recent record before the given moment
// that carries a self-reported coordinate, for the velocity heuristic.
func (r *repository) FindLatestSelfFix(ctx context.Context, companyID, employeeID string, before time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("self_reported_in IS NOT NULL AND self_in_latitude IS NOT NULL").
		Where("self_reported_in < ?", before).
		Order("self_reported_in DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
