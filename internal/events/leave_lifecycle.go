package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveRequestedEventType = "leave.requested"
	LeaveReviewedEventType  = "leave.reviewed"
	LeaveCancelledEventType = "leave.cancelled"
)

type LeaveRequestedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Days       int       `json:"days"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LeaveReviewedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	Status     string    `json:"status"`
	ReviewedBy string    `json:"reviewed_by"`
	Days       int       `json:"days"`
	OccurredAt time.Time `json:"occurred_at"`
}
