package models

import (
	"fmt"

	"github.com/julianstephens/stridelog/internal/constants"
)

// Slot is one day of the training week. Day and Date are fixed to the
// position; Activity, Status and Intensity are the payload moved by a swap.
type Slot struct {
	Day       string               `json:"day"`
	Date      string               `json:"date"`
	Activity  string               `json:"activity"`
	Status    constants.SlotStatus `json:"status"`
	Intensity constants.Intensity  `json:"intensity,omitempty"`
	Completed bool                 `json:"completed"`
}

func (s *Slot) Validate() error {
	switch s.Status {
	case constants.SlotRest:
		if s.Intensity != "" {
			return fmt.Errorf("rest slot on %s cannot carry an intensity", s.Day)
		}
	case constants.SlotWorkout:
		switch s.Intensity {
		case constants.IntensityEasy, constants.IntensityMedium, constants.IntensityHard:
		default:
			return fmt.Errorf("invalid intensity %q on %s", s.Intensity, s.Day)
		}
	default:
		return fmt.Errorf("invalid slot status %q on %s", s.Status, s.Day)
	}
	return nil
}

// ValidateWeek checks that a week has exactly seven valid slots
func ValidateWeek(week []Slot) error {
	if len(week) != constants.DaysPerWeek {
		return fmt.Errorf("week must have %d slots, got %d", constants.DaysPerWeek, len(week))
	}
	for i := range week {
		if err := week[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
