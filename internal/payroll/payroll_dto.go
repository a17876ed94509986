package payroll

type CalculateRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Year       int    `json:"year" binding:"required,min=2000,max=2100"`
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	// Force recalculates even when a result already exists for the period.
	Force bool `json:"force"`
}

type CalculateCompanyRequest struct {
	Year  int  `json:"year" binding:"required,min=2000,max=2100"`
	Month int  `json:"month" binding:"required,min=1,max=12"`
	Force bool `json:"force"`
}

type PayrollResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	Year            int        `json:"year"`
	Month           int        `json:"month"`
	BaseSalary      string     `json:"base_salary"`
	BasePay         string     `json:"base_pay"`
	OvertimePay     string     `json:"overtime_pay"`
	Allowances      string     `json:"allowances"`
	GrossPay        string     `json:"gross_pay"`
	TotalBonuses    string     `json:"total_bonuses"`
	TotalDeductions string     `json:"total_deductions"`
	NetPay          string     `json:"net_pay"`
	Status          string     `json:"status"`
	PaidAt          *string    `json:"paid_at,omitempty"`
	Breakdown       *Breakdown `json:"breakdown,omitempty"`
}

// CompanyRunResponse reports a whole-company payroll run. Employees whose
// calculation failed are listed with the reason; the run itself succeeds.
type CompanyRunResponse struct {
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	Calculated []PayrollResponse `json:"calculated"`
	Failed     []RunFailure      `json:"failed"`
}

type RunFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}
