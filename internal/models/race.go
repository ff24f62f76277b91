package models

import (
	"fmt"

	"github.com/julianstephens/stridelog/internal/constants"
)

// Participant is a runner signed up for a race
type Participant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Race is an entry of the public race database.
type Race struct {
	ID           int            `json:"id"`
	Title        string         `json:"title" validate:"required"`
	Location     string         `json:"location" validate:"required"`
	StartDate    string         `json:"start_date" validate:"required,racedate"` // DD/MM/YYYY
	EndDate      string         `json:"end_date,omitempty" validate:"omitempty,racedate"`
	Website      string         `json:"website,omitempty" validate:"omitempty,url"`
	Type         string         `json:"type" validate:"required"`
	Distance     string         `json:"distance" validate:"required"`  // e.g. "10km"
	Elevation    string         `json:"elevation,omitempty"`           // e.g. "100m"
	Tier         constants.Tier `json:"tier" validate:"required,tier"` // A, B or C
	Favorite     bool           `json:"favorite"`
	Country      string         `json:"country,omitempty" validate:"omitempty,alpha,min=2,max=3"`
	Participants []Participant  `json:"participants,omitempty"`
}

// PersonalRace is a race the runner has taken part in.
type PersonalRace struct {
	ID           int            `json:"id"`
	Title        string         `json:"title" validate:"required"`
	Location     string         `json:"location" validate:"required"`
	Date         string         `json:"date" validate:"required,racedate"` // DD/MM/YYYY
	Type         string         `json:"type" validate:"required"`
	Distance     string         `json:"distance" validate:"required"`
	Elevation    string         `json:"elevation,omitempty"`
	FinishTime   string         `json:"finish_time,omitempty"` // HH:MM:SS
	Pace         string         `json:"pace,omitempty"`        // min/km
	PersonalBest bool           `json:"personal_best"`
	Review       string         `json:"review,omitempty"`
	Rating       int            `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Category     constants.Tier `json:"category" validate:"required,tier"`
	Favorite     bool           `json:"favorite"`
	Country      string         `json:"country,omitempty" validate:"omitempty,alpha,min=2,max=3"`
}

// IsValidTier reports whether t is one of A, B or C
func IsValidTier(t constants.Tier) bool {
	switch t {
	case constants.TierA, constants.TierB, constants.TierC:
		return true
	}
	return false
}

// ParseTier parses a tier letter, case-insensitively.
func ParseTier(s string) (constants.Tier, error) {
	switch s {
	case "A", "a":
		return constants.TierA, nil
	case "B", "b":
		return constants.TierB, nil
	case "C", "c":
		return constants.TierC, nil
	}
	return "", fmt.Errorf("invalid tier %q (expected A, B or C)", s)
}
