package dto

// ContractSummary is the list projection returned to parents and staff.
// ScheduleDays renders the recurrence mask Monday-first ("Mon, Wed, Fri").
type ContractSummary struct {
	ID            string  `json:"id"`
	ChildName     string  `json:"child_name"`
	PackageName   string  `json:"package_name"`
	MainTutorName *string `json:"main_tutor_name,omitempty"`
	CenterName    *string `json:"center_name,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	ScheduleDays  string  `json:"schedule_days"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	IsOnline      bool    `json:"is_online"`
	Status        string  `json:"status"`
}
