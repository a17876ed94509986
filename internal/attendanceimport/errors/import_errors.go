package importerrors

import (
	"net/http"

	"go-attendpay/internal/shared/apperror"
)

var (
	ErrNoFileUploaded = apperror.New(
		apperror.CodeInvalidInput,
		"no spreadsheet file in the request",
		http.StatusBadRequest,
	)
	ErrFileTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"spreadsheet exceeds the maximum upload size",
		http.StatusRequestEntityTooLarge,
	)
	ErrTooManyRows = apperror.New(
		apperror.CodeInvalidInput,
		"spreadsheet exceeds the maximum row count",
		http.StatusRequestEntityTooLarge,
	)
	ErrUnreadableFile = apperror.New(
		apperror.CodeInvalidInput,
		"file could not be read as a spreadsheet",
		http.StatusBadRequest,
	)
	ErrEmptySheet = apperror.New(
		apperror.CodeInvalidInput,
		"spreadsheet has no data rows",
		http.StatusBadRequest,
	)
	ErrBatchNotFound = apperror.New(
		apperror.CodeNotFound,
		"import batch not found",
		http.StatusNotFound,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
)
