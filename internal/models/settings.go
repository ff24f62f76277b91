package models

// Settings represents application-wide settings
type Settings struct {
	Timezone          string  `json:"timezone"`            // IANA timezone name, or "Local"
	YearlyGoalKm      float64 `json:"yearly_goal_km"`      // 0 means no goal set
	YearlyCompletedKm float64 `json:"yearly_completed_km"` // distance logged toward the goal
	GoalYear          int     `json:"goal_year"`
	GoalReached       bool    `json:"goal_reached"`
	SelectedShoeID    int     `json:"selected_shoe_id"`
	WeekStart         string  `json:"week_start"` // YYYY-MM-DD of the Monday the stored week begins on
}
