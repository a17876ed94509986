package events

import "time"

const AttendanceDayStartedTopic = "attendance.day.lifecycle.v1"

// AttendanceDayStartedEvent is emitted the first time a day record is
// created for an employee, whichever source arrived first.
type AttendanceDayStartedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}
