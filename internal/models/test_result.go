package models

import "time"

// TestResult records a child's score on a placement or unit test.
type TestResult struct {
	ID        string    `db:"id" json:"id"`
	ChildID   string    `db:"child_id" json:"child_id"`
	UnitID    *string   `db:"unit_id" json:"unit_id,omitempty"`
	Subject   string    `db:"subject" json:"subject"`
	Score     float64   `db:"score" json:"score"`
	MaxScore  float64   `db:"max_score" json:"max_score"`
	TakenAt   time.Time `db:"taken_at" json:"taken_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
