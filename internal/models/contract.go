package models

import "time"

// ContractStatus represents the lifecycle of a tutoring contract.
type ContractStatus string

// Possible contract statuses.
const (
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// contractTransitions is the static adjacency set of legal status moves.
var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractStatusPending: {ContractStatusActive, ContractStatusCancelled},
	ContractStatusActive:  {ContractStatusCompleted, ContractStatusCancelled},
}

// ParseContractStatus validates a raw status literal. Literals are
// case-sensitive; anything outside the four known values is rejected.
func ParseContractStatus(raw string) (ContractStatus, bool) {
	switch ContractStatus(raw) {
	case ContractStatusPending, ContractStatusActive, ContractStatusCompleted, ContractStatusCancelled:
		return ContractStatus(raw), true
	default:
		return "", false
	}
}

// CanTransitionTo reports whether moving from the current status to next
// is legal.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	for _, allowed := range contractTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Contract captures a parent's tutoring agreement for one child over a date
// range with a weekly recurrence pattern. Contracts are never physically
// deleted; lifecycle is tracked through Status.
type Contract struct {
	ID          string         `db:"id" json:"id"`
	ParentID    string         `db:"parent_id" json:"parent_id"`
	ChildID     string         `db:"child_id" json:"child_id"`
	PackageID   string         `db:"package_id" json:"package_id"`
	MainTutorID *string        `db:"main_tutor_id" json:"main_tutor_id,omitempty"`
	StartDate   time.Time      `db:"start_date" json:"start_date"`
	EndDate     time.Time      `db:"end_date" json:"end_date"`
	DayMask     WeekdayMask    `db:"day_mask" json:"day_mask"`
	StartTime   string         `db:"start_time" json:"start_time"`
	EndTime     string         `db:"end_time" json:"end_time"`
	IsOnline    bool           `db:"is_online" json:"is_online"`
	Status      ContractStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// ContractWithPackage joins the contract with its purchased package.
type ContractWithPackage struct {
	Contract
	SessionCount   int  `db:"session_count" json:"session_count"`
	MaxReschedules int  `db:"max_reschedules" json:"max_reschedules"`
	DurationDays   *int `db:"duration_days" json:"duration_days,omitempty"`
}

// ContractDetail enriches Contract with display names for list projections.
type ContractDetail struct {
	Contract
	ChildName     string  `db:"child_name" json:"child_name"`
	PackageName   string  `db:"package_name" json:"package_name"`
	MainTutorName *string `db:"main_tutor_name" json:"main_tutor_name,omitempty"`
	CenterName    *string `db:"center_name" json:"center_name,omitempty"`
}

// ContractFilter provides filters for listing contracts.
type ContractFilter struct {
	ParentID string
	TutorID  string
	Status   ContractStatus
	Page     int
	PageSize int
}
