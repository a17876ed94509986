package payrollerrors

import (
	"net/http"

	"go-attendpay/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period, expected year and month 1-12",
		http.StatusBadRequest,
	)
	ErrNoCompensationConfig = apperror.New(
		apperror.CodeNotFound,
		"no compensation record configured for this employee",
		http.StatusNotFound,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll result not found",
		http.StatusNotFound,
	)
	ErrPayrollExists = apperror.New(
		apperror.CodeConflict,
		"payroll already calculated for this employee and period",
		http.StatusConflict,
	)
	ErrPayrollAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payroll is already marked as paid",
		http.StatusConflict,
	)
)
