package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-attendpay/internal/attendance"
	"go-attendpay/internal/compensation"
	"go-attendpay/internal/employee"

	compensationerrors "go-attendpay/internal/compensation/errors"
	payrollerrors "go-attendpay/internal/payroll/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// CalculateMonthly runs the pay formula for one employee-month and
	// persists the result. It refuses when no compensation config exists
	// and never overwrites a paid result.
	CalculateMonthly(ctx context.Context, companyID string, req CalculateRequest) (PayrollResponse, error)
	// CalculateForCompany runs every active employee independently; one
	// employee failing does not stop the run.
	CalculateForCompany(ctx context.Context, companyID string, req CalculateCompanyRequest) (CompanyRunResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	MarkAsPaid(ctx context.Context, companyID, id string) (PayrollResponse, error)
	Payslip(ctx context.Context, companyID, id string) ([]byte, string, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo           Repository
	compRepo       compensation.Repository
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	policy         Policy
	logger         *zap.Logger
}

func NewService(
	repo Repository,
	compRepo compensation.Repository,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	policy Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		repo:           repo,
		compRepo:       compRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		policy:         policy,
		logger:         l,
	}
}

func (s *service) CalculateMonthly(ctx context.Context, companyID string, req CalculateRequest) (PayrollResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	if req.Month < 1 || req.Month > 12 || req.Year < 2000 {
		return PayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}

	config, err := s.compRepo.FindByEmployeeAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, compensationerrors.ErrCompensationNotFound) {
			return PayrollResponse{}, payrollerrors.ErrNoCompensationConfig
		}
		return PayrollResponse{}, err
	}

	existing, err := s.repo.FindByPeriod(ctx, companyID, req.EmployeeID, req.Year, req.Month)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return PayrollResponse{}, err
	}
	if existing != nil {
		if existing.Status == StatusPaid {
			return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyPaid
		}
		if !req.Force {
			return PayrollResponse{}, payrollerrors.ErrPayrollExists
		}
	}

	month := time.Month(req.Month)
	periodStart := time.Date(req.Year, month, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)

	records, err := s.attendanceRepo.FindByEmployeeAndRange(ctx, companyID, req.EmployeeID, periodStart, periodEnd)
	if err != nil {
		return PayrollResponse{}, err
	}

	breakdown, err := Calculate(req.Year, month, *config, records, s.policy)
	if err != nil {
		return PayrollResponse{}, err
	}

	result := existing
	if result == nil {
		result = &PayrollResult{
			ID:         uuid.New(),
			CompanyID:  companyUUID,
			EmployeeID: employeeUUID,
			Year:       req.Year,
			Month:      req.Month,
		}
	}

	result.BaseSalary = config.BaseSalary
	result.BasePay = breakdown.BasePay
	result.OvertimePay = breakdown.OvertimePay
	result.Allowances = breakdown.Allowances
	result.GrossPay = breakdown.GrossPay
	result.TotalBonuses = breakdown.TotalBonuses
	result.TotalDeductions = breakdown.TotalDeductions
	result.NetPay = breakdown.NetPay
	result.Status = StatusProcessed

	if raw, marshalErr := json.Marshal(breakdown); marshalErr == nil {
		result.Breakdown = raw
	}

	if existing != nil {
		err = s.repo.Update(ctx, result)
	} else {
		err = s.repo.Upsert(ctx, result)
	}
	if err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll calculated",
		zap.String("employee_id", req.EmployeeID),
		zap.String("company_id", companyID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.String("net_pay", breakdown.NetPay.StringFixed(2)),
	)

	resp := mapToResponse(*result)
	resp.Breakdown = &breakdown
	return resp, nil
}

func (s *service) CalculateForCompany(ctx context.Context, companyID string, req CalculateCompanyRequest) (CompanyRunResponse, error) {
	employees, err := s.employeeRepo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return CompanyRunResponse{}, err
	}

	run := CompanyRunResponse{
		Year:       req.Year,
		Month:      req.Month,
		Calculated: []PayrollResponse{},
		Failed:     []RunFailure{},
	}

	for _, empl := range employees {
		if empl.Status != employee.StatusActive {
			continue
		}

		resp, calcErr := s.CalculateMonthly(ctx, companyID, CalculateRequest{
			EmployeeID: empl.ID.String(),
			Year:       req.Year,
			Month:      req.Month,
			Force:      req.Force,
		})
		if calcErr != nil {
			run.Failed = append(run.Failed, RunFailure{
				EmployeeID: empl.ID.String(),
				Reason:     calcErr.Error(),
			})
			continue
		}
		run.Calculated = append(run.Calculated, resp)
	}

	s.logger.Info("company payroll run finished",
		zap.String("company_id", companyID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("calculated", len(run.Calculated)),
		zap.Int("failed", len(run.Failed)),
	)

	return run, nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]PayrollResponse, error) {
	results, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]PayrollResponse, len(results))
	for i, result := range results {
		resp[i] = mapToResponse(result)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	result, err := s.findResult(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, err
	}

	resp := mapToResponse(*result)
	if len(result.Breakdown) > 0 {
		var breakdown Breakdown
		if json.Unmarshal(result.Breakdown, &breakdown) == nil {
			resp.Breakdown = &breakdown
		}
	}
	return resp, nil
}

func (s *service) MarkAsPaid(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	result, err := s.findResult(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	if result.Status == StatusPaid {
		return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyPaid
	}

	now := time.Now().UTC()
	result.Status = StatusPaid
	result.PaidAt = &now

	if err := s.repo.Update(ctx, result); err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*result), nil
}

func (s *service) Payslip(ctx context.Context, companyID, id string) ([]byte, string, error) {
	result, err := s.findResult(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}

	var breakdown Breakdown
	if len(result.Breakdown) > 0 {
		if err := json.Unmarshal(result.Breakdown, &breakdown); err != nil {
			return nil, "", err
		}
	}

	employeeName := result.EmployeeID.String()
	if empl, emplErr := s.employeeRepo.FindByIDAndCompany(ctx, companyID, result.EmployeeID.String()); emplErr == nil {
		employeeName = empl.FullName
	}

	pdf, err := buildPayslipPDF(employeeName, *result, breakdown)
	if err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("payslip-%s-%04d-%02d.pdf", result.EmployeeID.String()[:8], result.Year, result.Month)
	return pdf, fileName, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	result, err := s.findResult(ctx, companyID, id)
	if err != nil {
		return err
	}
	if result.Status == StatusPaid {
		return payrollerrors.ErrPayrollAlreadyPaid
	}
	return s.repo.Delete(ctx, companyID, id)
}

func (s *service) findResult(ctx context.Context, companyID, id string) (*PayrollResult, error) {
	result, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayrollNotFound
		}
		return nil, err
	}
	return result, nil
}

func mapToResponse(result PayrollResult) PayrollResponse {
	resp := PayrollResponse{
		ID:              result.ID.String(),
		EmployeeID:      result.EmployeeID.String(),
		Year:            result.Year,
		Month:           result.Month,
		BaseSalary:      result.BaseSalary.StringFixed(2),
		BasePay:         result.BasePay.StringFixed(2),
		OvertimePay:     result.OvertimePay.StringFixed(2),
		Allowances:      result.Allowances.StringFixed(2),
		GrossPay:        result.GrossPay.StringFixed(2),
		TotalBonuses:    result.TotalBonuses.StringFixed(2),
		TotalDeductions: result.TotalDeductions.StringFixed(2),
		NetPay:          result.NetPay.StringFixed(2),
		Status:          result.Status,
	}

	if result.PaidAt != nil {
		v := result.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}
