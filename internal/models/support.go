package models

import "time"

// SupportStatus tracks a ticket through triage.
type SupportStatus string

// Possible support ticket statuses.
const (
	SupportStatusOpen     SupportStatus = "open"
	SupportStatusInReview SupportStatus = "in_review"
	SupportStatusResolved SupportStatus = "resolved"
	SupportStatusClosed   SupportStatus = "closed"
)

var supportTransitions = map[SupportStatus][]SupportStatus{
	SupportStatusOpen:     {SupportStatusInReview, SupportStatusClosed},
	SupportStatusInReview: {SupportStatusResolved, SupportStatusClosed},
	SupportStatusResolved: {SupportStatusClosed},
}

// CanTransitionTo reports whether a ticket may move to the next status.
func (s SupportStatus) CanTransitionTo(next SupportStatus) bool {
	for _, allowed := range supportTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SupportRequest is a user-raised ticket with an optional staff response.
type SupportRequest struct {
	ID         string        `db:"id" json:"id"`
	UserID     string        `db:"user_id" json:"user_id"`
	Subject    string        `db:"subject" json:"subject"`
	Body       string        `db:"body" json:"body"`
	Status     SupportStatus `db:"status" json:"status"`
	Response   *string       `db:"response" json:"response,omitempty"`
	ResolvedBy *string       `db:"resolved_by" json:"resolved_by,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}
