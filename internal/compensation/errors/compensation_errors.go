package compensationerrors

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
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid effective date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidAdjustment = apperror.New(
		apperror.CodeInvalidInput,
		"adjustment must carry exactly one of amount or percentage",
		http.StatusBadRequest,
	)
	ErrInvalidAdjustmentWindow = apperror.New(
		apperror.CodeInvalidInput,
		"adjustment effective_from must be before effective_to",
		http.StatusBadRequest,
	)
	ErrCompensationNotFound = apperror.New(
		apperror.CodeNotFound,
		"no compensation record configured for this employee",
		http.StatusNotFound,
	)
	ErrCompensationExists = apperror.New(
		apperror.CodeConflict,
		"compensation already configured for this employee",
		http.StatusConflict,
	)
)
