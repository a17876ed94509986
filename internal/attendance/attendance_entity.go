package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Source of the observations backing a day's record.
const (
	SourceBiometric    = "BIOMETRIC"
	SourceSelfReported = "SELF_REPORTED"
	SourceBoth         = "BOTH"
	SourceManual       = "MANUAL"
	SourceLeave        = "LEAVE"
	SourceHoliday      = "HOLIDAY"
)

const (
	VerificationBiometric    = "BIOMETRIC"
	VerificationSelfReported = "SELF_REPORTED"
	VerificationBoth         = "BOTH"
	VerificationManual       = "MANUAL"
	VerificationLeave        = "LEAVE"
)

const (
	DiscrepancyTimeMismatch     = "TIME_MISMATCH"
	DiscrepancyLocationMismatch = "LOCATION_MISMATCH"
	DiscrepancyMissingSource    = "MISSING_SOURCE"
)

const (
	ApprovalPending      = "PENDING"
	ApprovalApproved     = "APPROVED"
	ApprovalRejected     = "REJECTED"
	ApprovalAutoApproved = "AUTO_APPROVED"
)

// AttendanceRecord is the single authoritative record for one employee-day.
// One row per (company, employee, date); both observation sides merge into it
// and the derived columns are recomputed on every merge, never written by
// callers directly.
type AttendanceRecord struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"column:company_id;type:uuid;not null;index:idx_attendance_key,unique"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index:idx_attendance_key,unique"`
	Date       time.Time `gorm:"column:date;type:date;not null;index:idx_attendance_key,unique"`

	// Biometric observation (device log, imported from spreadsheets).
	BiometricIn    *time.Time `gorm:"column:biometric_in;type:timestamptz"`
	BiometricOut   *time.Time `gorm:"column:biometric_out;type:timestamptz"`
	DeviceID       *string    `gorm:"column:device_id;type:varchar(100)"`
	DeviceLocation *string    `gorm:"column:device_location;type:varchar(120)"`

	// Self-reported observation (app check-in with geolocation).
	SelfReportedIn   *time.Time `gorm:"column:self_reported_in;type:timestamptz"`
	SelfReportedOut  *time.Time `gorm:"column:self_reported_out;type:timestamptz"`
	SelfInLatitude   *float64   `gorm:"column:self_in_latitude"`
	SelfInLongitude  *float64   `gorm:"column:self_in_longitude"`
	SelfInAccuracy   *float64   `gorm:"column:self_in_accuracy"`
	SelfInAddress    *string    `gorm:"column:self_in_address;type:text"`
	SelfOutLatitude  *float64   `gorm:"column:self_out_latitude"`
	SelfOutLongitude *float64   `gorm:"column:self_out_longitude"`
	WorkLocation     *string    `gorm:"column:work_location;type:varchar(20)"`

	// Derived. Recomputed by the reconciliation engine only.
	HoursWorked        float64 `gorm:"column:hours_worked;not null;default:0"`
	RegularHours       float64 `gorm:"column:regular_hours;not null;default:0"`
	OvertimeHours      float64 `gorm:"column:overtime_hours;not null;default:0"`
	Source             string  `gorm:"column:source;type:varchar(20);not null;default:'MANUAL'"`
	IsPresent          bool    `gorm:"column:is_present;not null;default:false"`
	IsVerified         bool    `gorm:"column:is_verified;not null;default:false"`
	VerificationMethod *string `gorm:"column:verification_method;type:varchar(20)"`

	// Discrepancy is a data state, not an error: both sides disagreeing
	// still yields a verified record, flagged for manual review.
	HasDiscrepancy     bool     `gorm:"column:has_discrepancy;not null;default:false"`
	DiscrepancyKind    *string  `gorm:"column:discrepancy_kind;type:varchar(30)"`
	DiscrepancyMinutes *float64 `gorm:"column:discrepancy_minutes"`

	// Leave linkage, written by the external leave workflow.
	IsLeave          bool       `gorm:"column:is_leave;not null;default:false"`
	LeaveKind        *string    `gorm:"column:leave_kind;type:varchar(30)"`
	LeaveReferenceID *uuid.UUID `gorm:"column:leave_reference_id;type:uuid"`

	ApprovalStatus string  `gorm:"column:approval_status;type:varchar(20);not null;default:'PENDING'"`
	Notes          *string `gorm:"column:notes;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// Office is a registered check-in location for a company.
type Office struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;type:varchar(120);not null"`
	Address      string    `gorm:"column:address;type:text"`
	Latitude     float64   `gorm:"column:latitude;not null"`
	Longitude    float64   `gorm:"column:longitude;not null"`
	RadiusMeters float64   `gorm:"column:radius_meters;not null;default:100"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Office) TableName() string {
	return "offices"
}
