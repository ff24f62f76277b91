package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/schedule"
	"github.com/julianstephens/stridelog/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictAdjacentIntensive ConflictType = "adjacent_intensive"
	ConflictInvalidSlot       ConflictType = "invalid_slot"
	ConflictWeekLength        ConflictType = "week_length"
	ConflictDuplicateRaceID   ConflictType = "duplicate_race_id"
)

// Conflict represents a detected problem in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Day names or race titles involved
	Indices     []int    // Positions involved (for schedules)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks form input and stored data
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator with the race-specific rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match what users type
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		return models.IsValidTier(constants.Tier(fl.Field().String()))
	})
	_ = v.RegisterValidation("racedate", func(fl validator.FieldLevel) bool {
		return utils.ValidateRaceDate(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates a form model against its `validate` tags.
// The returned error is a validator.ValidationErrors when fields fail.
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// ValidateWeek checks a schedule for malformed slots and for intensive
// workouts on consecutive days.
func (v *Validator) ValidateWeek(week []models.Slot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if len(week) != constants.DaysPerWeek {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictWeekLength,
			Description: fmt.Sprintf("Week has %d slots, expected %d", len(week), constants.DaysPerWeek),
		})
	}

	for i := range week {
		if err := week[i].Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidSlot,
				Description: err.Error(),
				Items:       []string{week[i].Day},
				Indices:     []int{i},
			})
		}
	}

	for i := 1; i < len(week); i++ {
		prev, cur := week[i-1], week[i]
		if schedule.IsIntensive(prev.Intensity) && schedule.IsIntensive(cur.Intensity) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictAdjacentIntensive,
				Description: fmt.Sprintf("Consecutive intensive workouts: %s (%s, %s) and %s (%s, %s)",
					prev.Day, prev.Activity, prev.Intensity, cur.Day, cur.Activity, cur.Intensity),
				Items:   []string{prev.Day, cur.Day},
				Indices: []int{i - 1, i},
			})
		}
	}

	return result
}

// ValidateRaces checks the race collection for duplicate identifiers
func (v *Validator) ValidateRaces(races []models.Race) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[int][]string)
	for _, r := range races {
		byID[r.ID] = append(byID[r.ID], r.Title)
	}
	for id, titles := range byID {
		if len(titles) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateRaceID,
				Description: fmt.Sprintf("Race ID %d is used by %d races: %s", id, len(titles), strings.Join(titles, ", ")),
				Items:       titles,
			})
		}
	}

	return result
}
