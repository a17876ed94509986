package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive     = "ACTIVE"
	StatusOnLeave    = "ON_LEAVE"
	StatusTerminated = "TERMINATED"
)

type Employee struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID      uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeNumber string    `gorm:"column:employee_number;type:varchar(30);not null;uniqueIndex:uq_employee_number"`
	FullName       string    `gorm:"column:full_name;type:varchar(150);not null"`
	Email          string    `gorm:"column:email;type:varchar(150);not null;uniqueIndex:uq_employee_email"`
	Phone          *string   `gorm:"column:phone;type:varchar(30)"`
	Department     *string   `gorm:"column:department;type:varchar(100)"`
	Position       *string   `gorm:"column:position;type:varchar(100)"`
	HireDate       time.Time `gorm:"column:hire_date;type:date;not null"`
	Status         string    `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE'"`

	// Monthly base used to seed the compensation config when the
	// employee-created event is consumed.
	BaseSalary float64 `gorm:"column:base_salary;not null;default:0"`

	// Location policy consulted on every self-reported check-in.
	AllowRemote         bool `gorm:"column:allow_remote;not null;default:false"`
	StrictLocationCheck bool `gorm:"column:strict_location_check;not null;default:false"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Employee) TableName() string {
	return "employees"
}
