package dto

// PlatformStats is the staff dashboard snapshot.
type PlatformStats struct {
	ContractsByStatus map[string]int `json:"contracts_by_status"`
	SessionsThisWeek  int            `json:"sessions_this_week"`
	ReportsTotal      int            `json:"reports_total"`
	ActiveTutors      int            `json:"active_tutors"`
}

// ChildTestAverage aggregates a child's test results per subject.
type ChildTestAverage struct {
	Subject      string  `json:"subject"`
	TestCount    int     `json:"test_count"`
	AverageScore float64 `json:"average_score"`
}
