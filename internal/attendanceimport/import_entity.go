package attendanceimport

import (
	"time"

	"github.com/google/uuid"
)

const (
	BatchStatusCompleted = "COMPLETED"
	BatchStatusPartial   = "PARTIAL"
	BatchStatusCancelled = "CANCELLED"
)

// Row outcomes.
const (
	RowCreated = "CREATED"
	RowUpdated = "UPDATED"
	RowSkipped = "SKIPPED"
	RowError   = "ERROR"
)

// Recommendations for the administrative review queue.
const (
	RecommendAcceptBiometric = "ACCEPT_BIOMETRIC"
	RecommendManualReview    = "MANUAL_REVIEW"
)

// ImportBatch is the persisted summary of one spreadsheet upload. The
// per-row report is stored as JSON alongside the aggregate counts.
type ImportBatch struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID   uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	BatchNumber string    `gorm:"column:batch_number;type:varchar(30);not null"`
	FileName    string    `gorm:"column:file_name;type:varchar(255);not null"`
	Status      string    `gorm:"column:status;type:varchar(20);not null"`

	TotalRows    int `gorm:"column:total_rows;not null;default:0"`
	CreatedCount int `gorm:"column:created_count;not null;default:0"`
	UpdatedCount int `gorm:"column:updated_count;not null;default:0"`
	SkippedCount int `gorm:"column:skipped_count;not null;default:0"`
	ErrorCount   int `gorm:"column:error_count;not null;default:0"`
	WarningCount int `gorm:"column:warning_count;not null;default:0"`

	Report []byte `gorm:"column:report;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ImportBatch) TableName() string {
	return "attendance_import_batches"
}
