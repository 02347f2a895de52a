package dto

// UnitProgressEntry summarises a child's work on one curriculum unit.
type UnitProgressEntry struct {
	UnitID       string  `json:"unit_id"`
	UnitName     string  `json:"unit_name"`
	OrderIndex   int     `json:"order_index"`
	TimesLearned int     `json:"times_learned"`
	HasHomework  bool    `json:"has_homework"`
	OnTrackRatio float64 `json:"on_track_ratio"`
}

// ChildUnitProgressResponse is the aggregated progress view for a contract.
type ChildUnitProgressResponse struct {
	ContractID             string              `json:"contract_id"`
	ChildID                string              `json:"child_id"`
	TotalUnitsLearned      int                 `json:"total_units_learned"`
	UniqueLessonsCompleted int                 `json:"unique_lessons_completed"`
	UnitsProgress          []UnitProgressEntry `json:"units_progress"`
}

// CompletionForecastResponse projects when a child finishes the curriculum
// window implied by their package.
type CompletionForecastResponse struct {
	ChildID              string  `json:"child_id"`
	CurriculumID         string  `json:"curriculum_id"`
	StartingUnitOrder    int     `json:"starting_unit_order"`
	TotalUnitsToComplete int     `json:"total_units_to_complete"`
	WeeksToCompletion    float64 `json:"weeks_to_completion"`
	ProjectedEndDate     string  `json:"projected_end_date"`
	Message              string  `json:"message"`
}
