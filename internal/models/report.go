package models

import "time"

// DailyReport is a tutor's record of one completed session: what unit was
// covered and how the child is doing. Reports are the sole evidence source
// for progress aggregation and forecasting.
type DailyReport struct {
	ID          string    `db:"id" json:"id"`
	ChildID     string    `db:"child_id" json:"child_id"`
	TutorID     string    `db:"tutor_id" json:"tutor_id"`
	BookingID   string    `db:"booking_id" json:"booking_id"`
	UnitID      string    `db:"unit_id" json:"unit_id"`
	OnTrack     bool      `db:"on_track" json:"on_track"`
	HasHomework bool      `db:"has_homework" json:"has_homework"`
	Notes       string    `db:"notes" json:"notes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DailyReportDetail enriches a report with unit and tutor display names.
type DailyReportDetail struct {
	DailyReport
	UnitName  string `db:"unit_name" json:"unit_name"`
	TutorName string `db:"tutor_name" json:"tutor_name"`
}
