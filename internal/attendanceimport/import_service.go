package attendanceimport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go-attendpay/internal/attendance"
	"go-attendpay/internal/employee"
	"go-attendpay/internal/shared/counter"

	importerrors "go-attendpay/internal/attendanceimport/errors"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// MaxUploadBytes caps the spreadsheet size accepted for import.
	MaxUploadBytes = 10 << 20
	// MaxRows caps the number of data rows per file.
	MaxRows = 10000

	acceptCloseMinutes = 15.0
	acceptDriftMinutes = 30.0

	confidenceUncontested = 0.95
	confidenceClose       = 0.9
	confidenceDrift       = 0.7
	confidenceReview      = 0.3
)

//go:generate mockgen -source=import_service.go -destination=mock/import_service_mock.go -package=mock
type Service interface {
	// ImportSpreadsheet parses the uploaded device log and merges every
	// resolvable row into the attendance store. One bad row costs one
	// error entry, never the batch. Cancellation keeps the rows already
	// committed and marks the batch CANCELLED.
	ImportSpreadsheet(ctx context.Context, companyID, fileName string, data []byte) (ImportBatchResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ImportBatchResponse, error)
	GetAll(ctx context.Context, companyID string) ([]ImportBatchResponse, error)
}

type service struct {
	repo           Repository
	attendanceSvc  attendance.Service
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	counter        counter.Repository
	logger         *zap.Logger
}

func NewService(
	repo Repository,
	attendanceSvc attendance.Service,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	counterRepo counter.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendanceimport.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendanceimport.service")
	}
	return &service{
		repo:           repo,
		attendanceSvc:  attendanceSvc,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		counter:        counterRepo,
		logger:         l,
	}
}

func (s *service) ImportSpreadsheet(ctx context.Context, companyID, fileName string, data []byte) (ImportBatchResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ImportBatchResponse{}, importerrors.ErrInvalidCompanyID
	}
	if len(data) > MaxUploadBytes {
		return ImportBatchResponse{}, importerrors.ErrFileTooLarge
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ImportBatchResponse{}, importerrors.ErrUnreadableFile
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportBatchResponse{}, importerrors.ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportBatchResponse{}, importerrors.ErrUnreadableFile
	}
	if len(rows) < 2 {
		return ImportBatchResponse{}, importerrors.ErrEmptySheet
	}
	if len(rows)-1 > MaxRows {
		return ImportBatchResponse{}, importerrors.ErrTooManyRows
	}

	cols := detectColumns(rows[0])

	batch := &ImportBatch{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		FileName:  fileName,
		Status:    BatchStatusCompleted,
		TotalRows: len(rows) - 1,
	}

	if nextVal, err := s.counter.GetNextValue(ctx, companyID, "import_batch"); err == nil {
		batch.BatchNumber = fmt.Sprintf("IMP-%06d", nextVal)
	} else {
		s.logger.Warn("import batch number generation failed", zap.Error(err))
		batch.BatchNumber = "IMP-" + batch.ID.String()[:8]
	}

	reports := make([]RowReport, 0, batch.TotalRows)
	cancelled := false

	for i, raw := range rows[1:] {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		rowNum := i + 2 // 1-based, after the header row
		report := s.processRow(ctx, companyID, cols, raw, rowNum)
		reports = append(reports, report)

		switch report.Outcome {
		case RowCreated:
			batch.CreatedCount++
		case RowUpdated:
			batch.UpdatedCount++
		case RowSkipped:
			batch.SkippedCount++
		case RowError:
			batch.ErrorCount++
		}
		if report.Warning {
			batch.WarningCount++
		}
	}

	switch {
	case cancelled:
		batch.Status = BatchStatusCancelled
	case batch.ErrorCount > 0 || batch.SkippedCount > 0:
		batch.Status = BatchStatusPartial
	}

	if raw, err := json.Marshal(reports); err == nil {
		batch.Report = raw
	}

	// Persist with a fresh context: a cancelled import must still keep the
	// partial results it committed.
	saveCtx := ctx
	if cancelled {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := s.repo.Create(saveCtx, batch); err != nil {
		s.logger.Error("persist import batch failed", zap.Error(err))
		return ImportBatchResponse{}, err
	}

	s.logger.Info("spreadsheet import finished",
		zap.String("batch_number", batch.BatchNumber),
		zap.String("status", batch.Status),
		zap.Int("total_rows", batch.TotalRows),
		zap.Int("created", batch.CreatedCount),
		zap.Int("updated", batch.UpdatedCount),
		zap.Int("skipped", batch.SkippedCount),
		zap.Int("errors", batch.ErrorCount),
	)

	resp := mapBatchToResponse(*batch)
	resp.Rows = reports
	return resp, nil
}

// processRow parses, resolves and reconciles a single data row. All failure
// modes collapse into the returned report; nothing escapes to the batch.
func (s *service) processRow(ctx context.Context, companyID string, cols columnMap, raw []string, rowNum int) RowReport {
	report := RowReport{RowNumber: rowNum, Outcome: RowError}

	if !cols.has(fieldDate) {
		report.Outcome = RowSkipped
		report.Reason = "no date column detected"
		report.Warning = true
		return report
	}
	if !cols.has(fieldEmployeeID) && !cols.has(fieldName) {
		report.Outcome = RowSkipped
		report.Reason = "no employee column detected"
		report.Warning = true
		return report
	}

	rawDate := cols.cell(raw, fieldDate)
	day, err := parseSheetDate(rawDate)
	if err != nil {
		report.Reason = "unparseable date"
		report.RawValue = rawDate
		return report
	}
	report.Date = day.Format("2006-01-02")

	timeIn, err := parseSheetClock(cols.cell(raw, fieldTimeIn), day)
	if err != nil {
		report.Reason = "unparseable time-in"
		report.RawValue = cols.cell(raw, fieldTimeIn)
		return report
	}
	timeOut, err := parseSheetClock(cols.cell(raw, fieldTimeOut), day)
	if err != nil {
		report.Reason = "unparseable time-out"
		report.RawValue = cols.cell(raw, fieldTimeOut)
		return report
	}
	if timeIn == nil && timeOut == nil {
		report.Outcome = RowSkipped
		report.Reason = "row has no time values"
		report.Warning = true
		return report
	}

	empl, reason := s.resolveEmployee(ctx, companyID, cols.cell(raw, fieldEmployeeID), cols.cell(raw, fieldName))
	if empl == nil {
		report.Outcome = RowSkipped
		report.Reason = reason
		report.RawValue = cols.cell(raw, fieldEmployeeID)
		return report
	}
	report.EmployeeID = empl.ID.String()

	// Pre-merge state decides created-vs-updated and feeds the
	// recommendation; the merge itself never deletes self-reported fields.
	existing, err := s.attendanceRepo.FindByEmployeeAndDate(ctx, companyID, empl.ID.String(), day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		report.Reason = "attendance lookup failed"
		return report
	}

	obs := attendance.Observation{In: timeIn, Out: timeOut}
	if device := cols.cell(raw, fieldDeviceID); device != "" {
		obs.DeviceID = &device
	}
	if location := cols.cell(raw, fieldLocation); location != "" {
		obs.DeviceLocation = &location
	}

	if _, err := s.attendanceSvc.RecordBiometric(ctx, companyID, empl.ID.String(), day, obs); err != nil {
		report.Reason = "reconciliation failed"
		return report
	}

	if existing != nil {
		report.Outcome = RowUpdated
	} else {
		report.Outcome = RowCreated
	}

	recommend(&report, existing, timeIn, timeOut)
	return report
}

// resolveEmployee tries, in order: exact employee-number match, UUID lookup,
// case-insensitive full-name match, and an email lookup when the identifier
// looks like an address.
func (s *service) resolveEmployee(ctx context.Context, companyID, key, name string) (*employee.Employee, string) {
	if key != "" {
		if empl, err := s.employeeRepo.FindByNumber(ctx, companyID, key); err == nil {
			return empl, ""
		}
		if _, err := uuid.Parse(key); err == nil {
			if empl, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, key); err == nil {
				return empl, ""
			}
		}
	}

	if name != "" {
		matches, err := s.employeeRepo.FindByFullName(ctx, companyID, name)
		if err == nil {
			if len(matches) == 1 {
				return &matches[0], ""
			}
			if len(matches) > 1 {
				return nil, "ambiguous employee name"
			}
		}
	}

	if strings.Contains(key, "@") {
		if empl, err := s.employeeRepo.FindByEmail(ctx, companyID, key); err == nil {
			return empl, ""
		}
	}

	return nil, "employee not found"
}

// recommend scores the biometric row against the self-reported side already
// on record. The recommendation is advisory; the merge has already happened.
func recommend(report *RowReport, existing *attendance.AttendanceRecord, timeIn, timeOut *time.Time) {
	if existing == nil || existing.SelfReportedIn == nil {
		report.Recommendation = RecommendAcceptBiometric
		report.Confidence = confidenceUncontested
		return
	}

	inDiff := diffMinutes(existing.SelfReportedIn, timeIn)
	outDiff := diffMinutes(existing.SelfReportedOut, timeOut)
	report.TimeInDiffMinutes = inDiff
	report.TimeOutDiffMinutes = outDiff

	switch {
	case within(inDiff, acceptCloseMinutes) && within(outDiff, acceptCloseMinutes):
		report.Recommendation = RecommendAcceptBiometric
		report.Confidence = confidenceClose
	case within(inDiff, acceptDriftMinutes) && within(outDiff, acceptDriftMinutes):
		// Minor drift: the device clock is presumed more reliable.
		report.Recommendation = RecommendAcceptBiometric
		report.Confidence = confidenceDrift
	default:
		report.Recommendation = RecommendManualReview
		report.Confidence = confidenceReview
	}
}

func diffMinutes(a, b *time.Time) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := math.Abs(a.Sub(*b).Minutes())
	return &d
}

// within treats a missing diff (one side absent) as not disqualifying.
func within(diff *float64, limit float64) bool {
	return diff == nil || *diff <= limit
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ImportBatchResponse, error) {
	batch, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ImportBatchResponse{}, importerrors.ErrBatchNotFound
		}
		return ImportBatchResponse{}, err
	}

	resp := mapBatchToResponse(*batch)
	if len(batch.Report) > 0 {
		var rows []RowReport
		if json.Unmarshal(batch.Report, &rows) == nil {
			resp.Rows = rows
		}
	}
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]ImportBatchResponse, error) {
	batches, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]ImportBatchResponse, len(batches))
	for i, b := range batches {
		resp[i] = mapBatchToResponse(b)
	}
	return resp, nil
}

func mapBatchToResponse(b ImportBatch) ImportBatchResponse {
	return ImportBatchResponse{
		ID:           b.ID.String(),
		CompanyID:    b.CompanyID.String(),
		BatchNumber:  b.BatchNumber,
		FileName:     b.FileName,
		Status:       b.Status,
		TotalRows:    b.TotalRows,
		CreatedCount: b.CreatedCount,
		UpdatedCount: b.UpdatedCount,
		SkippedCount: b.SkippedCount,
		ErrorCount:   b.ErrorCount,
		WarningCount: b.WarningCount,
	}
}
