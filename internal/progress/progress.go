// Package progress holds the percentage and pacing math shared by the
// shoe, weight and yearly distance trackers.
package progress

import (
	"errors"
	"math"
	"time"
)

// ErrUndefined is returned when a percentage has no meaningful value,
// such as wear against a zero limit.
var ErrUndefined = errors.New("percentage is undefined")

// Tier is a three-level traffic-light classification
type Tier string

const (
	TierGood     Tier = "good"
	TierCaution  Tier = "caution"
	TierCritical Tier = "critical"
)

// Wear thresholds: higher is worse.
const (
	WearCautionAt  = 60.0
	WearCriticalAt = 85.0
)

// Goal progress thresholds: higher is better.
const (
	ProgressGoodAbove    = 75.0
	ProgressCautionAbove = 25.0
)

// Clamp limits p to [0, 100]
func Clamp(p float64) float64 {
	return math.Max(0, math.Min(100, p))
}

// WearPercent returns min(100, current/max*100).
// A zero or negative limit has no wear percentage and returns ErrUndefined.
func WearPercent(current, max float64) (float64, error) {
	if max <= 0 || math.IsNaN(max) || math.IsNaN(current) {
		return 0, ErrUndefined
	}
	return Clamp(current / max * 100), nil
}

// ClassifyWear maps a wear percentage to a tier: below 60 good, below 85
// caution, otherwise critical.
func ClassifyWear(wear float64) Tier {
	switch {
	case wear < WearCautionAt:
		return TierGood
	case wear < WearCriticalAt:
		return TierCaution
	default:
		return TierCritical
	}
}

// ClassifyProgress maps goal progress to a tier: above 75 good, above 25
// caution, otherwise critical.
func ClassifyProgress(p float64) Tier {
	switch {
	case p > ProgressGoodAbove:
		return TierGood
	case p > ProgressCautionAbove:
		return TierCaution
	default:
		return TierCritical
	}
}

// WeightProgress returns how far current has moved from initial toward
// target, clamped to [0, 100]. The direction follows the goal: a loss goal
// counts weight lost, a gain goal counts weight gained. An initial weight
// equal to the target is already complete.
func WeightProgress(initial, current, target float64) float64 {
	if initial == target {
		return 100
	}
	var p float64
	if target < initial {
		p = (initial - current) / (initial - target) * 100
	} else {
		p = (current - initial) / (target - initial) * 100
	}
	return Clamp(p)
}

// WeightDirection describes what is left to do for a weight goal
type WeightDirection string

const (
	DirectionLose    WeightDirection = "lose"
	DirectionGain    WeightDirection = "gain"
	DirectionReached WeightDirection = "reached"
)

// WeightRemaining returns |current-target| and the direction still to go.
func WeightRemaining(current, target float64) (float64, WeightDirection) {
	diff := current - target
	switch {
	case diff > 0:
		return diff, DirectionLose
	case diff < 0:
		return -diff, DirectionGain
	default:
		return 0, DirectionReached
	}
}

// DistanceProgress returns completed/goal*100 capped at 100, or 0 when
// no goal is set.
func DistanceProgress(completed, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return Clamp(completed / goal * 100)
}

// DistanceRemaining returns max(0, goal-completed)
func DistanceRemaining(completed, goal float64) float64 {
	return math.Max(0, goal-completed)
}

func startOfYear(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

func daysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}

// YearElapsedPercent returns the share of the calendar year that has passed at now.
func YearElapsedPercent(now time.Time) float64 {
	days := now.Sub(startOfYear(now)).Hours() / 24
	return Clamp(days / float64(daysInYear(now.Year())) * 100)
}

// BehindSchedule reports whether distance progress trails the calendar.
// Without a goal nobody is behind.
func BehindSchedule(progressPct, goal float64, now time.Time) bool {
	return goal > 0 && progressPct < YearElapsedPercent(now)
}

// WeeksRemaining returns the weeks from now until December 31 of now's year.
func WeeksRemaining(now time.Time) float64 {
	end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
	return end.Sub(now).Hours() / 24 / 7
}

// RequiredWeeklyAverage is the distance per week needed to reach the goal
// by year end. It is 0 when there is no goal, nothing left to run, or no
// time left; it is never negative or NaN.
func RequiredWeeklyAverage(completed, goal float64, now time.Time) float64 {
	remaining := DistanceRemaining(completed, goal)
	weeks := WeeksRemaining(now)
	if goal <= 0 || remaining <= 0 || weeks <= 0 {
		return 0
	}
	return remaining / weeks
}

// CurrentWeeklyAverage is the distance per elapsed week so far this year.
func CurrentWeeklyAverage(completed float64, now time.Time) float64 {
	weeks := now.Sub(startOfYear(now)).Hours() / 24 / 7
	if weeks <= 0 {
		return 0
	}
	return completed / weeks
}

// Motivation returns the encouragement line for the yearly distance widget.
func Motivation(progressPct, goal float64) string {
	switch {
	case goal <= 0:
		return "Set a yearly goal to start tracking your kilometres."
	case progressPct == 0:
		return "Every journey starts with a first step. Log your first run!"
	case progressPct < 25:
		return "Good start! Keep building consistency."
	case progressPct < 50:
		return "You're making solid progress. Keep it up!"
	case progressPct < 75:
		return "Past halfway. The goal is getting closer!"
	case progressPct < 100:
		return "Almost there! The finish line is in sight."
	default:
		return "Goal reached! What a year of running."
	}
}
