package models

import "time"

// PaymentPackage is an immutable purchased bundle: how many sessions it
// buys, how many reschedules it tolerates and, optionally, how many
// calendar days the package is meant to span (used by the forecaster).
type PaymentPackage struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	CurriculumID   *string   `db:"curriculum_id" json:"curriculum_id,omitempty"`
	SessionCount   int       `db:"session_count" json:"session_count"`
	MaxReschedules int       `db:"max_reschedules" json:"max_reschedules"`
	DurationDays   *int      `db:"duration_days" json:"duration_days,omitempty"`
	Price          int64     `db:"price" json:"price"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
