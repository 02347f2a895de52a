package models

import "time"

// SessionStatus represents the state of one scheduled tutoring session.
type SessionStatus string

// Possible session statuses.
const (
	SessionStatusScheduled   SessionStatus = "scheduled"
	SessionStatusCompleted   SessionStatus = "completed"
	SessionStatusCancelled   SessionStatus = "cancelled"
	SessionStatusRescheduled SessionStatus = "rescheduled"
)

// Session is one concrete calendar occurrence generated from a contract's
// recurrence pattern. The generator creates sessions in a batch and never
// mutates them afterwards; status changes happen through SessionService.
type Session struct {
	ID              string        `db:"id" json:"id"`
	ContractID      string        `db:"contract_id" json:"contract_id"`
	Date            time.Time     `db:"session_date" json:"date"`
	StartTime       string        `db:"start_time" json:"start_time"`
	EndTime         string        `db:"end_time" json:"end_time"`
	IsOnline        bool          `db:"is_online" json:"is_online"`
	Status          SessionStatus `db:"status" json:"status"`
	RescheduleCount int           `db:"reschedule_count" json:"reschedule_count"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}
