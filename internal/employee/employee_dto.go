package employee

type CreateEmployeeRequest struct {
	FullName       string  `json:"full_name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	EmployeeNumber string  `json:"employee_number"`
	Phone          *string `json:"phone"`
	Department     *string `json:"department"`
	Position       *string `json:"position"`
	HireDate       string  `json:"hire_date" binding:"required"`
	BaseSalary     float64 `json:"base_salary" binding:"gte=0"`

	AllowRemote         bool `json:"allow_remote"`
	StrictLocationCheck bool `json:"strict_location_check"`
}

type UpdateEmployeeRequest struct {
	FullName   string  `json:"full_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Status     string  `json:"status" binding:"omitempty,oneof=ACTIVE ON_LEAVE TERMINATED"`

	AllowRemote         *bool `json:"allow_remote"`
	StrictLocationCheck *bool `json:"strict_location_check"`
}

type EmployeeResponse struct {
	ID                  string  `json:"id"`
	CompanyID           string  `json:"company_id"`
	EmployeeNumber      string  `json:"employee_number"`
	FullName            string  `json:"full_name"`
	Email               string  `json:"email"`
	Phone               *string `json:"phone,omitempty"`
	Department          *string `json:"department,omitempty"`
	Position            *string `json:"position,omitempty"`
	HireDate            string  `json:"hire_date"`
	Status              string  `json:"status"`
	BaseSalary          float64 `json:"base_salary"`
	AllowRemote         bool    `json:"allow_remote"`
	StrictLocationCheck bool    `json:"strict_location_check"`
}
