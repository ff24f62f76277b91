package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/stridelog/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingYearlyGoalKm:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing yearly_goal_km: %w", err)
			}
			settings.YearlyGoalKm = v
		case constants.SettingYearlyDoneKm:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing yearly_completed_km: %w", err)
			}
			settings.YearlyCompletedKm = v
		case constants.SettingYearlyGoalYear:
			v, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing yearly_goal_year: %w", err)
			}
			settings.GoalYear = v
		case constants.SettingGoalReached:
			settings.GoalReached = value == "true"
		case constants.SettingSelectedShoe:
			v, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing selected_shoe_id: %w", err)
			}
			settings.SelectedShoeID = v
		case constants.SettingWeekStart:
			settings.WeekStart = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:       settings.Timezone,
		constants.SettingYearlyGoalKm:   strconv.FormatFloat(settings.YearlyGoalKm, 'f', -1, 64),
		constants.SettingYearlyDoneKm:   strconv.FormatFloat(settings.YearlyCompletedKm, 'f', -1, 64),
		constants.SettingYearlyGoalYear: strconv.Itoa(settings.GoalYear),
		constants.SettingGoalReached:    strconv.FormatBool(settings.GoalReached),
		constants.SettingSelectedShoe:   strconv.Itoa(settings.SelectedShoeID),
		constants.SettingWeekStart:      settings.WeekStart,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
