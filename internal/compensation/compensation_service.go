package compensation

import (
	"context"
	"errors"
	"time"

	"go-attendpay/internal/employee"

	compensationerrors "go-attendpay/internal/compensation/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_service.go -destination=mock/compensation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateCompensationRequest) (CompensationResponse, error)
	GetAll(ctx context.Context, companyID string) ([]CompensationResponse, error)
	GetByID(ctx context.Context, companyID, id string) (CompensationResponse, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string) (CompensationResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateCompensationRequest) (CompensationResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo         Repository
	employeeRepo employee.Repository
	logger       *zap.Logger
}

func NewService(repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("compensation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compensation.service")
	}
	return &service{
		repo:         repo,
		employeeRepo: employeeRepo,
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateCompensationRequest) (CompensationResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return CompensationResponse{}, compensationerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return CompensationResponse{}, compensationerrors.ErrInvalidEmployeeID
	}
	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return CompensationResponse{}, compensationerrors.ErrInvalidEffectiveDate
	}

	if _, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompensationResponse{}, compensationerrors.ErrInvalidEmployeeID
		}
		return CompensationResponse{}, err
	}

	config := &CompensationConfig{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		BaseSalary:    decimal.NewFromFloat(req.BaseSalary),
		EffectiveDate: effectiveDate,
	}

	if err := s.attachLines(config, req.Allowances, req.Deductions, req.Adjustments); err != nil {
		return CompensationResponse{}, err
	}

	if err := s.repo.Create(ctx, config); err != nil {
		return CompensationResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("compensation config created",
		zap.String("employee_id", req.EmployeeID),
		zap.String("company_id", companyID),
	)

	return mapToResponse(*config), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]CompensationResponse, error) {
	configs, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]CompensationResponse, len(configs))
	for i, config := range configs {
		res[i] = mapToResponse(config)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (CompensationResponse, error) {
	config, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return CompensationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*config), nil
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string) (CompensationResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return CompensationResponse{}, compensationerrors.ErrInvalidEmployeeID
	}

	config, err := s.repo.FindByEmployeeAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return CompensationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*config), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateCompensationRequest) (CompensationResponse, error) {
	config, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return CompensationResponse{}, mapRepositoryError(err)
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return CompensationResponse{}, compensationerrors.ErrInvalidEffectiveDate
	}

	config.BaseSalary = decimal.NewFromFloat(req.BaseSalary)
	config.EffectiveDate = effectiveDate
	config.Components = nil
	config.Adjustments = nil

	if err := s.attachLines(config, req.Allowances, req.Deductions, req.Adjustments); err != nil {
		return CompensationResponse{}, err
	}

	if err := s.repo.Replace(ctx, config); err != nil {
		return CompensationResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*config), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func (s *service) attachLines(
	config *CompensationConfig,
	allowances, deductions []ComponentInput,
	adjustments []AdjustmentInput,
) error {
	for _, in := range allowances {
		config.Components = append(config.Components, PayComponent{
			ID:       uuid.New(),
			ConfigID: config.ID,
			Kind:     ComponentAllowance,
			Name:     in.Name,
			Amount:   decimal.NewFromFloat(in.Amount),
		})
	}
	for _, in := range deductions {
		config.Components = append(config.Components, PayComponent{
			ID:       uuid.New(),
			ConfigID: config.ID,
			Kind:     ComponentDeduction,
			Name:     in.Name,
			Amount:   decimal.NewFromFloat(in.Amount),
		})
	}

	for _, in := range adjustments {
		rule, err := buildAdjustment(config.ID, in)
		if err != nil {
			return err
		}
		config.Adjustments = append(config.Adjustments, rule)
	}
	return nil
}

func buildAdjustment(configID uuid.UUID, in AdjustmentInput) (AdjustmentRule, error) {
	if (in.Amount == nil) == (in.Percentage == nil) {
		return AdjustmentRule{}, compensationerrors.ErrInvalidAdjustment
	}

	rule := AdjustmentRule{
		ID:          uuid.New(),
		ConfigID:    configID,
		Kind:        in.Kind,
		Name:        in.Name,
		IsRecurring: in.IsRecurring,
		IsActive:    true,
	}

	if in.Amount != nil {
		amount := decimal.NewFromFloat(*in.Amount)
		rule.Amount = &amount
	}
	if in.Percentage != nil {
		pct := decimal.NewFromFloat(*in.Percentage)
		rule.Percentage = &pct
	}

	if in.EffectiveFrom != "" {
		from, err := time.Parse("2006-01-02", in.EffectiveFrom)
		if err != nil {
			return AdjustmentRule{}, compensationerrors.ErrInvalidEffectiveDate
		}
		rule.EffectiveFrom = &from
	}
	if in.EffectiveTo != "" {
		to, err := time.Parse("2006-01-02", in.EffectiveTo)
		if err != nil {
			return AdjustmentRule{}, compensationerrors.ErrInvalidEffectiveDate
		}
		rule.EffectiveTo = &to
	}
	if rule.EffectiveFrom != nil && rule.EffectiveTo != nil && rule.EffectiveFrom.After(*rule.EffectiveTo) {
		return AdjustmentRule{}, compensationerrors.ErrInvalidAdjustmentWindow
	}

	return rule, nil
}

func mapToResponse(config CompensationConfig) CompensationResponse {
	res := CompensationResponse{
		ID:            config.ID.String(),
		EmployeeID:    config.EmployeeID.String(),
		BaseSalary:    config.BaseSalary.StringFixed(2),
		EffectiveDate: config.EffectiveDate.Format("2006-01-02"),
		Allowances:    []ComponentResponse{},
		Deductions:    []ComponentResponse{},
		Adjustments:   []AdjustmentResponse{},
	}

	for _, comp := range config.Components {
		out := ComponentResponse{
			ID:     comp.ID.String(),
			Name:   comp.Name,
			Amount: comp.Amount.StringFixed(2),
		}
		if comp.Kind == ComponentDeduction {
			res.Deductions = append(res.Deductions, out)
		} else {
			res.Allowances = append(res.Allowances, out)
		}
	}

	for _, rule := range config.Adjustments {
		out := AdjustmentResponse{
			ID:          rule.ID.String(),
			Kind:        rule.Kind,
			Name:        rule.Name,
			IsRecurring: rule.IsRecurring,
			IsActive:    rule.IsActive,
		}
		if rule.Amount != nil {
			amount := rule.Amount.StringFixed(2)
			out.Amount = &amount
		}
		if rule.Percentage != nil {
			pct := rule.Percentage.String()
			out.Percentage = &pct
		}
		if rule.EffectiveFrom != nil {
			from := rule.EffectiveFrom.Format("2006-01-02")
			out.EffectiveFrom = &from
		}
		if rule.EffectiveTo != nil {
			to := rule.EffectiveTo.Format("2006-01-02")
			out.EffectiveTo = &to
		}
		res.Adjustments = append(res.Adjustments, out)
	}

	return res
}
