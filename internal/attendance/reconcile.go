package attendance

import (
	"math"
	"strings"
	"time"
)

const (
	ObservationBiometric    = "BIOMETRIC"
	ObservationSelfReported = "SELF_REPORTED"
)

// Observation is one side's check-in/out pair for a single employee-day. The
// biometric side comes from the bulk import, the self-reported side from the
// app check-in.
type Observation struct {
	Kind string

	In  *time.Time
	Out *time.Time

	// Biometric extras.
	DeviceID       *string
	DeviceLocation *string

	// Self-reported extras.
	InLatitude   *float64
	InLongitude  *float64
	InAccuracy   *float64
	InAddress    *string
	OutLatitude  *float64
	OutLongitude *float64
	WorkLocation *string
}

// Policy carries the fixed reconciliation constants plus the knobs that vary
// between deployments. Variant business rules become parameters here, not
// forked code paths.
type Policy struct {
	// DiscrepancyThresholdMinutes is the fixed tolerance between the two
	// sides' check-in times before a record is flagged for review.
	DiscrepancyThresholdMinutes float64
	BreakMinutes                float64
	StandardDayHours            float64
	// MaxWorkingHours bounds an open day before the auto-close sweep
	// force-closes it.
	MaxWorkingHours float64
}

func DefaultPolicy() Policy {
	return Policy{
		DiscrepancyThresholdMinutes: 15,
		BreakMinutes:                0,
		StandardDayHours:            8,
		MaxWorkingHours:             16,
	}
}

// Engine merges biometric and self-reported observations into one verified
// AttendanceRecord. It is pure state transformation: persistence and locking
// stay in the repository.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Apply merges obs into the record and recomputes every derived field.
// Merging is additive: a populated field is never overwritten with an empty
// one. Applying the same observation twice leaves the derived fields
// byte-identical.
func (e *Engine) Apply(rec *AttendanceRecord, obs Observation) {
	switch obs.Kind {
	case ObservationBiometric:
		mergeTime(&rec.BiometricIn, obs.In)
		mergeTime(&rec.BiometricOut, obs.Out)
		mergeString(&rec.DeviceID, obs.DeviceID)
		mergeString(&rec.DeviceLocation, obs.DeviceLocation)
	case ObservationSelfReported:
		mergeTime(&rec.SelfReportedIn, obs.In)
		mergeTime(&rec.SelfReportedOut, obs.Out)
		mergeFloat(&rec.SelfInLatitude, obs.InLatitude)
		mergeFloat(&rec.SelfInLongitude, obs.InLongitude)
		mergeFloat(&rec.SelfInAccuracy, obs.InAccuracy)
		mergeString(&rec.SelfInAddress, obs.InAddress)
		mergeFloat(&rec.SelfOutLatitude, obs.OutLatitude)
		mergeFloat(&rec.SelfOutLongitude, obs.OutLongitude)
		mergeString(&rec.WorkLocation, obs.WorkLocation)
	}

	e.Recompute(rec)
}

// Recompute rederives source, discrepancy, verification, hours and presence
// from the merged observations. Safe to call any number of times.
func (e *Engine) Recompute(rec *AttendanceRecord) {
	if rec.IsLeave {
		// Leave days need no observation pair at all.
		rec.Source = SourceLeave
		method := VerificationLeave
		rec.VerificationMethod = &method
		rec.IsVerified = true
		rec.IsPresent = true
		rec.HoursWorked = e.policy.StandardDayHours
		rec.RegularHours = e.policy.StandardDayHours
		rec.OvertimeHours = 0
		return
	}

	hasBiometric := rec.BiometricIn != nil
	hasSelf := rec.SelfReportedIn != nil

	switch {
	case hasBiometric && hasSelf:
		rec.Source = SourceBoth
	case hasBiometric:
		rec.Source = SourceBiometric
	case hasSelf:
		rec.Source = SourceSelfReported
	default:
		rec.Source = SourceManual
	}

	e.detectDiscrepancy(rec, hasBiometric, hasSelf)
	e.assignVerification(rec, hasBiometric, hasSelf)
	e.computeHours(rec)

	rec.IsPresent = hasBiometric || hasSelf
}

func (e *Engine) detectDiscrepancy(rec *AttendanceRecord, hasBiometric, hasSelf bool) {
	rec.HasDiscrepancy = false
	rec.DiscrepancyKind = nil
	rec.DiscrepancyMinutes = nil

	// Only comparable once both sides have a check-in.
	if !hasBiometric || !hasSelf {
		return
	}

	diff := math.Abs(rec.BiometricIn.Sub(*rec.SelfReportedIn).Minutes())
	if diff > e.policy.DiscrepancyThresholdMinutes {
		kind := DiscrepancyTimeMismatch
		rec.HasDiscrepancy = true
		rec.DiscrepancyKind = &kind
		rec.DiscrepancyMinutes = &diff
		return
	}

	// Times agree: compare location tags when both sides carry one.
	if rec.DeviceLocation != nil && rec.WorkLocation != nil &&
		!strings.EqualFold(*rec.DeviceLocation, *rec.WorkLocation) {
		kind := DiscrepancyLocationMismatch
		rec.HasDiscrepancy = true
		rec.DiscrepancyKind = &kind
	}
}

func (e *Engine) assignVerification(rec *AttendanceRecord, hasBiometric, hasSelf bool) {
	var method string
	switch {
	case hasBiometric && hasSelf:
		method = VerificationBoth
	case hasBiometric:
		method = VerificationBiometric
	case hasSelf:
		method = VerificationSelfReported
	default:
		rec.VerificationMethod = nil
		rec.IsVerified = false
		return
	}

	// Presence is not in doubt even when the sides disagree: verification
	// and discrepancy are orthogonal. Single-source attendance is accepted
	// by design.
	rec.VerificationMethod = &method
	rec.IsVerified = true
}

func (e *Engine) computeHours(rec *AttendanceRecord) {
	in, out := e.authoritativePair(rec)
	if in == nil || out == nil {
		rec.HoursWorked = 0
		rec.RegularHours = 0
		rec.OvertimeHours = 0
		return
	}

	if out.Before(*in) {
		// Clamp instead of failing: the record stays usable and the
		// inversion surfaces as a time-mismatch discrepancy.
		rec.HoursWorked = 0
		rec.RegularHours = 0
		rec.OvertimeHours = 0
		kind := DiscrepancyTimeMismatch
		rec.HasDiscrepancy = true
		rec.DiscrepancyKind = &kind
		return
	}

	hours := out.Sub(*in).Hours() - e.policy.BreakMinutes/60
	if hours < 0 {
		hours = 0
	}
	if hours > 24 {
		hours = 24
	}

	rec.HoursWorked = hours
	rec.RegularHours = math.Min(hours, e.policy.StandardDayHours)
	rec.OvertimeHours = math.Max(0, hours-e.policy.StandardDayHours)
}

// authoritativePair picks the pair hours are computed from: a complete
// biometric pair beats a complete self-reported pair.
func (e *Engine) authoritativePair(rec *AttendanceRecord) (*time.Time, *time.Time) {
	if rec.BiometricIn != nil && rec.BiometricOut != nil {
		return rec.BiometricIn, rec.BiometricOut
	}
	if rec.SelfReportedIn != nil && rec.SelfReportedOut != nil {
		return rec.SelfReportedIn, rec.SelfReportedOut
	}
	return nil, nil
}

func mergeTime(dst **time.Time, src *time.Time) {
	if src != nil {
		*dst = src
	}
}

func mergeString(dst **string, src *string) {
	if src != nil && *src != "" {
		*dst = src
	}
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = src
	}
}
