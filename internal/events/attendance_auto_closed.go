package events

import "time"

const AttendanceAutoClosedTopic = "attendance.day.autoclose.v1"

// AttendanceAutoClosedEvent is emitted when the sweep closes a day the
// employee never checked out of.
type AttendanceAutoClosedEvent struct {
	EventType   string    `json:"event_type"`
	CompanyID   string    `json:"company_id"`
	EmployeeID  string    `json:"employee_id"`
	Date        string    `json:"date"`
	HoursWorked float64   `json:"hours_worked"`
	Reason      string    `json:"reason"`
	ClosedAt    time.Time `json:"closed_at"`
	OccurredAt  time.Time `json:"occurred_at"`
}
