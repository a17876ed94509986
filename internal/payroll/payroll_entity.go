package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "DRAFT"
	StatusProcessed = "PROCESSED"
	StatusPaid      = "PAID"
)

// PayrollResult is one employee-month of calculated pay. Headline figures
// are stored as columns for querying; the full itemized breakdown is kept
// as JSON alongside so the payslip can be rebuilt without recalculating.
type PayrollResult struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_period"`
	Year       int       `gorm:"not null;uniqueIndex:uq_payroll_period"`
	Month      int       `gorm:"not null;uniqueIndex:uq_payroll_period"`

	BaseSalary      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BasePay         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	OvertimePay     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Allowances      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	GrossPay        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalBonuses    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	NetPay          decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	Breakdown []byte `gorm:"type:jsonb"`

	Status string     `gorm:"type:varchar(20);not null;default:'PROCESSED'"`
	PaidAt *time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PayrollResult) TableName() string { return "payroll_results" }
