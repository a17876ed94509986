package compensation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompensationConfig is the per-employee pay setup the monthly calculator
// reads: base salary plus itemized components and typed adjustment rules.
// One active config per employee, enforced by uq_compensation_employee.
type CompensationConfig struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;index"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:uq_compensation_employee"`
	BaseSalary    decimal.Decimal `gorm:"type:numeric(14,2)"`
	EffectiveDate time.Time

	Components  []PayComponent   `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE"`
	Adjustments []AdjustmentRule `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (CompensationConfig) TableName() string { return "compensation_configs" }

const (
	ComponentAllowance = "ALLOWANCE"
	ComponentDeduction = "DEDUCTION"
)

// PayComponent is a fixed monthly line item: a named allowance added to
// gross pay or a named deduction (tax, insurance, provident fund)
// subtracted from it.
type PayComponent struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ConfigID uuid.UUID       `gorm:"type:uuid;index"`
	Kind     string          `gorm:"type:varchar(16)"`
	Name     string          `gorm:"type:varchar(100)"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayComponent) TableName() string { return "compensation_components" }

const (
	AdjustmentBonus     = "BONUS"
	AdjustmentIncrement = "INCREMENT"
	AdjustmentDeduction = "DEDUCTION"
	AdjustmentAllowance = "ALLOWANCE"
	AdjustmentOvertime  = "OVERTIME"
)

// AdjustmentRule is an ad-hoc pay adjustment: a flat amount or a
// percentage of base pay, active inside an optional effective window.
// Exactly one of Amount and Percentage is set.
type AdjustmentRule struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ConfigID      uuid.UUID        `gorm:"type:uuid;index"`
	Kind          string           `gorm:"type:varchar(16)"`
	Name          string           `gorm:"type:varchar(100)"`
	Amount        *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Percentage    *decimal.Decimal `gorm:"type:numeric(7,4)"`
	IsRecurring   bool
	IsActive      bool `gorm:"default:true"`
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AdjustmentRule) TableName() string { return "compensation_adjustments" }

// AppliesTo reports whether the rule is live for any part of the period.
func (a AdjustmentRule) AppliesTo(periodStart, periodEnd time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.EffectiveFrom != nil && a.EffectiveFrom.After(periodEnd) {
		return false
	}
	if a.EffectiveTo != nil && a.EffectiveTo.Before(periodStart) {
		return false
	}
	return true
}

// Resolve turns the rule into a concrete amount: the flat amount when set,
// otherwise the percentage applied to base.
func (a AdjustmentRule) Resolve(base decimal.Decimal) decimal.Decimal {
	if a.Amount != nil {
		return *a.Amount
	}
	if a.Percentage != nil {
		return base.Mul(*a.Percentage).Div(decimal.NewFromInt(100))
	}
	return decimal.Zero
}

// TotalAllowances sums the fixed allowance components.
func (c CompensationConfig) TotalAllowances() decimal.Decimal {
	return c.sumComponents(ComponentAllowance)
}

// TotalDeductions sums the fixed deduction components.
func (c CompensationConfig) TotalDeductions() decimal.Decimal {
	return c.sumComponents(ComponentDeduction)
}

func (c CompensationConfig) sumComponents(kind string) decimal.Decimal {
	total := decimal.Zero
	for _, comp := range c.Components {
		if comp.Kind == kind {
			total = total.Add(comp.Amount)
		}
	}
	return total
}
