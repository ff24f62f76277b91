package models

import "github.com/julianstephens/stridelog/internal/constants"

// WeightSample is a single weigh-in
type WeightSample struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"` // YYYY-MM-DD
	Weight float64 `json:"weight"`
	Day    int     `json:"day"` // days elapsed since the first sample
}

// WeightGoal is the state of the weight tracker
type WeightGoal struct {
	Step       constants.WeightStep `json:"step"`
	Initial    float64              `json:"initial" validate:"gte=0"`
	Current    float64              `json:"current" validate:"gte=0"`
	Target     float64              `json:"target" validate:"gte=0"`
	LastChange float64              `json:"last_change"`
	History    []WeightSample       `json:"history"`
}

// Latest returns the most recent sample, if any
func (g *WeightGoal) Latest() (WeightSample, bool) {
	if len(g.History) == 0 {
		return WeightSample{}, false
	}
	return g.History[len(g.History)-1], true
}
