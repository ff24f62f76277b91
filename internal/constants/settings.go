package constants

const (
	// General Settings
	SettingTimezone       = "timezone"
	SettingYearlyGoalKm   = "yearly_goal_km"
	SettingYearlyDoneKm   = "yearly_completed_km"
	SettingYearlyGoalYear = "yearly_goal_year"
	SettingGoalReached    = "yearly_goal_reached"
	SettingSelectedShoe   = "selected_shoe_id"
	SettingWeekStart      = "week_start"

	// Default Settings Values
	DefaultTimezone = "Local" // Use system local timezone by default
)
