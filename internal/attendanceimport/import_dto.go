package attendanceimport

// RowReport is one row's outcome in the batch report.
type RowReport struct {
	RowNumber  int    `json:"row_number"`
	EmployeeID string `json:"employee_id,omitempty"`
	Date       string `json:"date,omitempty"`
	Outcome    string `json:"outcome"`
	Reason     string `json:"reason,omitempty"`
	RawValue   string `json:"raw_value,omitempty"`
	Warning    bool   `json:"warning,omitempty"`

	Recommendation     string   `json:"recommendation,omitempty"`
	Confidence         float64  `json:"confidence,omitempty"`
	TimeInDiffMinutes  *float64 `json:"time_in_diff_minutes,omitempty"`
	TimeOutDiffMinutes *float64 `json:"time_out_diff_minutes,omitempty"`
}

type ImportBatchResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	BatchNumber string `json:"batch_number"`
	FileName    string `json:"file_name"`
	Status      string `json:"status"`

	TotalRows    int `json:"total_rows"`
	CreatedCount int `json:"created_count"`
	UpdatedCount int `json:"updated_count"`
	SkippedCount int `json:"skipped_count"`
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`

	Rows []RowReport `json:"rows,omitempty"`
}
