package compensation

type ComponentInput struct {
	Name   string  `json:"name" binding:"required,max=100"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type AdjustmentInput struct {
	Kind          string   `json:"kind" binding:"required,oneof=BONUS INCREMENT DEDUCTION ALLOWANCE OVERTIME"`
	Name          string   `json:"name" binding:"required,max=100"`
	Amount        *float64 `json:"amount,omitempty"`
	Percentage    *float64 `json:"percentage,omitempty"`
	IsRecurring   bool     `json:"is_recurring"`
	EffectiveFrom string   `json:"effective_from,omitempty"`
	EffectiveTo   string   `json:"effective_to,omitempty"`
}

type CreateCompensationRequest struct {
	EmployeeID    string            `json:"employee_id" binding:"required,uuid"`
	BaseSalary    float64           `json:"base_salary" binding:"required,gt=0"`
	EffectiveDate string            `json:"effective_date" binding:"required"`
	Allowances    []ComponentInput  `json:"allowances,omitempty" binding:"omitempty,dive"`
	Deductions    []ComponentInput  `json:"deductions,omitempty" binding:"omitempty,dive"`
	Adjustments   []AdjustmentInput `json:"adjustments,omitempty" binding:"omitempty,dive"`
}

type UpdateCompensationRequest struct {
	BaseSalary    float64           `json:"base_salary" binding:"required,gt=0"`
	EffectiveDate string            `json:"effective_date" binding:"required"`
	Allowances    []ComponentInput  `json:"allowances,omitempty" binding:"omitempty,dive"`
	Deductions    []ComponentInput  `json:"deductions,omitempty" binding:"omitempty,dive"`
	Adjustments   []AdjustmentInput `json:"adjustments,omitempty" binding:"omitempty,dive"`
}

type ComponentResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type AdjustmentResponse struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	Name          string  `json:"name"`
	Amount        *string `json:"amount,omitempty"`
	Percentage    *string `json:"percentage,omitempty"`
	IsRecurring   bool    `json:"is_recurring"`
	IsActive      bool    `json:"is_active"`
	EffectiveFrom *string `json:"effective_from,omitempty"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
}

type CompensationResponse struct {
	ID            string               `json:"id"`
	EmployeeID    string               `json:"employee_id"`
	BaseSalary    string               `json:"base_salary"`
	EffectiveDate string               `json:"effective_date"`
	Allowances    []ComponentResponse  `json:"allowances"`
	Deductions    []ComponentResponse  `json:"deductions"`
	Adjustments   []AdjustmentResponse `json:"adjustments"`
}
