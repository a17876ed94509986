package attendance

import "time"

type CheckInRequest struct {
	Timestamp *string `json:"timestamp"` // RFC3339; defaults to now

	// Pointers so a 0.0 coordinate (equator, prime meridian) still passes
	// the required check.
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`

	Accuracy     float64 `json:"accuracy"`
	Address      *string `json:"address"`
	WorkFromHome bool    `json:"work_from_home"`
	Notes        *string `json:"notes"`
}

type CheckOutRequest struct {
	Timestamp *string  `json:"timestamp"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`
}

// LeaveSignalRequest is the inbound write from the external leave workflow.
// It bypasses the check-in/out merge path entirely.
type LeaveSignalRequest struct {
	EmployeeID       string  `json:"employee_id" binding:"required"`
	StartDate        string  `json:"start_date" binding:"required"`
	EndDate          string  `json:"end_date" binding:"required"`
	LeaveKind        string  `json:"leave_kind" binding:"required"`
	LeaveReferenceID *string `json:"leave_reference_id"`
}

type AttendanceResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`

	BiometricIn     *string `json:"biometric_in,omitempty"`
	BiometricOut    *string `json:"biometric_out,omitempty"`
	DeviceID        *string `json:"device_id,omitempty"`
	SelfReportedIn  *string `json:"self_reported_in,omitempty"`
	SelfReportedOut *string `json:"self_reported_out,omitempty"`
	WorkLocation    *string `json:"work_location,omitempty"`

	HoursWorked        float64 `json:"hours_worked"`
	RegularHours       float64 `json:"regular_hours"`
	OvertimeHours      float64 `json:"overtime_hours"`
	Source             string  `json:"source"`
	IsPresent          bool    `json:"is_present"`
	IsVerified         bool    `json:"is_verified"`
	VerificationMethod *string `json:"verification_method,omitempty"`

	HasDiscrepancy     bool     `json:"has_discrepancy"`
	DiscrepancyKind    *string  `json:"discrepancy_kind,omitempty"`
	DiscrepancyMinutes *float64 `json:"discrepancy_minutes,omitempty"`

	IsLeave          bool    `json:"is_leave"`
	LeaveKind        *string `json:"leave_kind,omitempty"`
	LeaveReferenceID *string `json:"leave_reference_id,omitempty"`

	ApprovalStatus string  `json:"approval_status"`
	RiskLevel      *string `json:"risk_level,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

func mapToResponse(rec AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                 rec.ID.String(),
		CompanyID:          rec.CompanyID.String(),
		EmployeeID:         rec.EmployeeID.String(),
		Date:               rec.Date.Format("2006-01-02"),
		DeviceID:           rec.DeviceID,
		WorkLocation:       rec.WorkLocation,
		HoursWorked:        rec.HoursWorked,
		RegularHours:       rec.RegularHours,
		OvertimeHours:      rec.OvertimeHours,
		Source:             rec.Source,
		IsPresent:          rec.IsPresent,
		IsVerified:         rec.IsVerified,
		VerificationMethod: rec.VerificationMethod,
		HasDiscrepancy:     rec.HasDiscrepancy,
		DiscrepancyKind:    rec.DiscrepancyKind,
		DiscrepancyMinutes: rec.DiscrepancyMinutes,
		IsLeave:            rec.IsLeave,
		LeaveKind:          rec.LeaveKind,
		ApprovalStatus:     rec.ApprovalStatus,
		Notes:              rec.Notes,
	}

	resp.BiometricIn = formatTimePtr(rec.BiometricIn)
	resp.BiometricOut = formatTimePtr(rec.BiometricOut)
	resp.SelfReportedIn = formatTimePtr(rec.SelfReportedIn)
	resp.SelfReportedOut = formatTimePtr(rec.SelfReportedOut)

	if rec.LeaveReferenceID != nil {
		v := rec.LeaveReferenceID.String()
		resp.LeaveReferenceID = &v
	}

	return resp
}

func mapToListResponse(recs []AttendanceRecord) []AttendanceResponse {
	res := make([]AttendanceResponse, len(recs))
	for i, rec := range recs {
		res[i] = mapToResponse(rec)
	}
	return res
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
