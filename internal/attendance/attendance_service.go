package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-attendpay/internal/employee"
	"go-attendpay/internal/events"
	"go-attendpay/internal/geofence"
	"go-attendpay/internal/messaging/kafka"
	"go-attendpay/internal/shared/contextutil"

	attendanceerrors "go-attendpay/internal/attendance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, companyID, employeeID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, companyID, employeeID string, req CheckOutRequest) (AttendanceResponse, error)
	ApplyLeave(ctx context.Context, companyID string, req LeaveSignalRequest) ([]AttendanceResponse, error)
	// RecordBiometric merges a device observation into the day record. The
	// bulk importer is its only caller today.
	RecordBiometric(ctx context.Context, companyID, employeeID string, date time.Time, obs Observation) (AttendanceResponse, error)
	AutoCloseTick(ctx context.Context, now time.Time) (int, error)
	GetAll(ctx context.Context, companyID string) ([]AttendanceResponse, error)
	GetByEmployeeAndRange(ctx context.Context, companyID, employeeID, from, to string) ([]AttendanceResponse, error)
}

type service struct {
	repo         Repository
	employeeRepo employee.Repository
	engine       *Engine
	outbox       kafka.OutboxRepository
	loc          *time.Location
	logger       *zap.Logger
}

func NewService(
	repo Repository,
	employeeRepo employee.Repository,
	engine *Engine,
	outbox kafka.OutboxRepository,
	loc *time.Location,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:         repo,
		employeeRepo: employeeRepo,
		engine:       engine,
		outbox:       outbox,
		loc:          loc,
		logger:       l,
	}
}

// dayOf maps an instant to its attendance date in the company time zone.
// Timestamps themselves stay UTC; only the day bucket is local.
func (s *service) dayOf(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) CheckIn(ctx context.Context, companyID, employeeID string, req CheckInRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(companyID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	at, err := resolveTimestamp(req.Timestamp)
	if err != nil {
		return AttendanceResponse{}, err
	}

	empl, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
		}
		return AttendanceResponse{}, err
	}

	gate, err := s.validateLocation(ctx, companyID, employeeID, empl, req, at)
	if err != nil {
		return AttendanceResponse{}, err
	}

	date := s.dayOf(at)
	obs := Observation{
		Kind:         ObservationSelfReported,
		In:           &at,
		InLatitude:   req.Latitude,
		InLongitude:  req.Longitude,
		InAddress:    req.Address,
		WorkLocation: &gate.WorkLocation,
	}
	if req.Accuracy > 0 {
		acc := req.Accuracy
		obs.InAccuracy = &acc
	}

	rec, err := s.mergeObservation(ctx, rid, companyID, employeeID, date, obs, func(rec *AttendanceRecord) error {
		if rec.SelfReportedIn != nil {
			return attendanceerrors.ErrAlreadyCheckedIn
		}
		return nil
	}, func(rec *AttendanceRecord) {
		if req.Notes != nil {
			rec.Notes = req.Notes
		}
		if gate.RiskLevel == geofence.RiskLow && !rec.HasDiscrepancy {
			rec.ApprovalStatus = ApprovalAutoApproved
		} else {
			rec.ApprovalStatus = ApprovalPending
		}
	})
	if err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-in recorded",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("date", date.Format("2006-01-02")),
		zap.String("risk_level", string(gate.RiskLevel)),
		zap.Strings("flags", gate.Flags),
	)

	resp := mapToResponse(*rec)
	risk := string(gate.RiskLevel)
	resp.RiskLevel = &risk
	return resp, nil
}

func (s *service) CheckOut(ctx context.Context, companyID, employeeID string, req CheckOutRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(companyID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	at, err := resolveTimestamp(req.Timestamp)
	if err != nil {
		return AttendanceResponse{}, err
	}

	date := s.dayOf(at)
	obs := Observation{
		Kind:         ObservationSelfReported,
		Out:          &at,
		OutLatitude:  req.Latitude,
		OutLongitude: req.Longitude,
	}

	rec, err := s.mergeObservation(ctx, rid, companyID, employeeID, date, obs, func(rec *AttendanceRecord) error {
		if rec.SelfReportedIn == nil {
			return attendanceerrors.ErrNotCheckedIn
		}
		if rec.SelfReportedOut != nil {
			return attendanceerrors.ErrAlreadyCheckedOut
		}
		return nil
	}, func(rec *AttendanceRecord) {
		if req.Notes != nil {
			rec.Notes = req.Notes
		}
	})
	if err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-out recorded",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("date", date.Format("2006-01-02")),
		zap.Float64("hours_worked", rec.HoursWorked),
	)

	return mapToResponse(*rec), nil
}

// ApplyLeave writes an approved leave interval from the leave workflow onto
// the day records it covers. Each day becomes a verified LEAVE record worth a
// standard day, regardless of what either observation side says.
func (s *service) ApplyLeave(ctx context.Context, companyID string, req LeaveSignalRequest) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, attendanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}

	var refID *uuid.UUID
	if req.LeaveReferenceID != nil {
		parsed, err := uuid.Parse(*req.LeaveReferenceID)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidEmployeeID
		}
		refID = &parsed
	}

	var out []AttendanceResponse
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		rec, _, err := s.repo.Reconcile(ctx, companyID, req.EmployeeID, day, func(_ *sql.Tx, rec *AttendanceRecord) error {
			if rec.IsLeave && rec.LeaveReferenceID != nil && refID != nil && *rec.LeaveReferenceID != *refID {
				return attendanceerrors.ErrLeaveOverlap
			}
			rec.IsLeave = true
			kind := req.LeaveKind
			rec.LeaveKind = &kind
			rec.LeaveReferenceID = refID
			rec.ApprovalStatus = ApprovalApproved
			s.engine.Recompute(rec)
			return nil
		})
		if err != nil {
			return nil, err
		}
		out = append(out, mapToResponse(*rec))
	}

	s.logger.Info("leave applied",
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.String("leave_kind", req.LeaveKind),
	)

	return out, nil
}

func (s *service) RecordBiometric(ctx context.Context, companyID, employeeID string, date time.Time, obs Observation) (AttendanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	obs.Kind = ObservationBiometric

	rid := contextutil.GetRequestID(ctx)
	rec, err := s.mergeObservation(ctx, rid, companyID, employeeID, date, obs, nil, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*rec), nil
}

// AutoCloseTick force-closes every day that has been open longer than the
// policy's maximum. The closed side gets check-in plus a standard day, the
// record is flagged MISSING_SOURCE and queued for review. Returns how many
// records were closed.
func (s *service) AutoCloseTick(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-time.Duration(s.engine.Policy().MaxWorkingHours * float64(time.Hour)))

	stale, err := s.repo.FindStaleOpen(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for i := range stale {
		key := stale[i]
		_, _, err := s.repo.Reconcile(ctx, key.CompanyID.String(), key.EmployeeID.String(), key.Date, func(tx *sql.Tx, rec *AttendanceRecord) error {
			changed := s.closeOpenSides(rec, cutoff)
			if !changed {
				return nil
			}

			s.engine.Recompute(rec)

			kind := DiscrepancyMissingSource
			rec.HasDiscrepancy = true
			rec.DiscrepancyKind = &kind
			rec.ApprovalStatus = ApprovalPending
			note := "auto-closed: no check-out recorded"
			rec.Notes = &note

			return s.enqueueEvent(ctx, tx, rec, "attendance_auto_closed", events.AttendanceAutoClosedTopic, events.AttendanceAutoClosedEvent{
				EventType:   "attendance_auto_closed",
				CompanyID:   rec.CompanyID.String(),
				EmployeeID:  rec.EmployeeID.String(),
				Date:        rec.Date.Format("2006-01-02"),
				HoursWorked: rec.HoursWorked,
				Reason:      note,
				ClosedAt:    now,
				OccurredAt:  time.Now().UTC(),
			})
		})
		if err != nil {
			s.logger.Error("auto-close failed",
				zap.String("employee_id", key.EmployeeID.String()),
				zap.String("date", key.Date.Format("2006-01-02")),
				zap.Error(err),
			)
			continue
		}
		closed++
	}

	if closed > 0 {
		s.logger.Info("auto-close sweep finished",
			zap.Int("candidates", len(stale)),
			zap.Int("closed", closed),
		)
	}
	return closed, nil
}

// closeOpenSides fills the missing check-out on any side older than cutoff.
func (s *service) closeOpenSides(rec *AttendanceRecord, cutoff time.Time) bool {
	span := time.Duration(s.engine.Policy().StandardDayHours * float64(time.Hour))
	changed := false

	if rec.SelfReportedIn != nil && rec.SelfReportedOut == nil && rec.SelfReportedIn.Before(cutoff) {
		out := rec.SelfReportedIn.Add(span)
		rec.SelfReportedOut = &out
		changed = true
	}
	if rec.BiometricIn != nil && rec.BiometricOut == nil && rec.BiometricIn.Before(cutoff) {
		out := rec.BiometricIn.Add(span)
		rec.BiometricOut = &out
		changed = true
	}
	return changed
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, attendanceerrors.ErrInvalidCompanyID
	}
	recs, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(recs), nil
}

func (s *service) GetByEmployeeAndRange(ctx context.Context, companyID, employeeID, from, to string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, attendanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}

	recs, err := s.repo.FindByEmployeeAndRange(ctx, companyID, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(recs), nil
}

// mergeObservation is the shared write path: lock the day record, let guard
// veto, merge through the engine, let finish adjust, and emit a day-started
// event when the row is new.
func (s *service) mergeObservation(
	ctx context.Context,
	rid, companyID, employeeID string,
	date time.Time,
	obs Observation,
	guard func(rec *AttendanceRecord) error,
	finish func(rec *AttendanceRecord),
) (*AttendanceRecord, error) {
	rec, _, err := s.repo.Reconcile(ctx, companyID, employeeID, date, func(tx *sql.Tx, rec *AttendanceRecord) error {
		if guard != nil {
			if err := guard(rec); err != nil {
				return err
			}
		}

		wasNew := rec.CreatedAt.IsZero()
		s.engine.Apply(rec, obs)
		if finish != nil {
			finish(rec)
		}

		if wasNew {
			return s.enqueueEvent(ctx, tx, rec, "attendance_day_started", events.AttendanceDayStartedTopic, events.AttendanceDayStartedEvent{
				EventType:  "attendance_day_started",
				RequestID:  rid,
				CompanyID:  companyID,
				EmployeeID: employeeID,
				Date:       date.Format("2006-01-02"),
				Source:     obs.Kind,
				OccurredAt: time.Now().UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, rec *AttendanceRecord, eventType, topic string, event any) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxRepo := s.outbox
	if tx != nil {
		outboxRepo = s.outbox.WithTx(tx)
	}
	return outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance_record",
		AggregateID:   rec.ID.String(),
		EventType:     eventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) validateLocation(
	ctx context.Context,
	companyID, employeeID string,
	empl *employee.Employee,
	req CheckInRequest,
	at time.Time,
) (geofence.Result, error) {
	offices, err := s.repo.ListOffices(ctx, companyID)
	if err != nil {
		return geofence.Result{}, err
	}

	geoOffices := make([]geofence.Office, len(offices))
	for i, o := range offices {
		geoOffices[i] = geofence.Office{
			ID:           o.ID.String(),
			Name:         o.Name,
			Address:      o.Address,
			Latitude:     o.Latitude,
			Longitude:    o.Longitude,
			RadiusMeters: o.RadiusMeters,
		}
	}

	greq := geofence.Request{
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		AccuracyMeters: req.Accuracy,
		At:             at.In(s.loc),
		WorkFromHome:   req.WorkFromHome,
	}

	// Previous known fix feeds the velocity heuristic; missing history is
	// not an error.
	if prior, err := s.repo.FindLatestSelfFix(ctx, companyID, employeeID, at); err == nil &&
		prior.SelfInLatitude != nil && prior.SelfInLongitude != nil {
		greq.Prior = &geofence.PriorFix{
			Latitude:  *prior.SelfInLatitude,
			Longitude: *prior.SelfInLongitude,
			At:        *prior.SelfReportedIn,
		}
	}

	policy := geofence.Policy{
		AllowRemote:         empl.AllowRemote,
		StrictLocationCheck: empl.StrictLocationCheck,
		HardBlockSuspicious: empl.StrictLocationCheck,
	}

	res := geofence.Validate(greq, geoOffices, policy)
	if res.Admitted {
		return res, nil
	}

	if res.RiskLevel == geofence.RiskHigh {
		return res, attendanceerrors.ErrSuspiciousLocation.WithDetails(map[string]any{
			"flags": res.Flags,
		})
	}

	details := map[string]any{
		"distance_meters":        res.DistanceMeters,
		"required_radius_meters": res.RequiredRadiusMeters,
		"reason":                 res.Reason,
	}
	if res.MatchedOffice != nil {
		details["nearest_office"] = res.MatchedOffice.Name
		details["nearest_office_address"] = res.MatchedOffice.Address
	}
	return res, attendanceerrors.ErrOutsideOfficeRadius.WithDetails(details)
}

func resolveTimestamp(raw *string) (time.Time, error) {
	if raw == nil || *raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidTimestamp
	}
	return t.UTC(), nil
}
