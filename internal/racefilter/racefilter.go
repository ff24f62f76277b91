// Package racefilter narrows race collections by search text, favorites,
// type, distance range, period, location, elevation band and tier. Every
// active predicate must hold; unset criteria are skipped. Output keeps the
// input order.
package racefilter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/utils"
)

// Period is a named date window relative to today
type Period string

const (
	PeriodAny         Period = ""
	PeriodToday       Period = "today"
	PeriodNextWeek    Period = "next-week"
	PeriodNextMonth   Period = "next-month"
	PeriodPast        Period = "past"
	PeriodLastMonth   Period = "last-month"
	PeriodLast3Months Period = "last-3-months"
	PeriodLastYear    Period = "last-year"
	PeriodAll         Period = "all"
)

// ElevationBand classifies total climb
type ElevationBand string

const (
	ElevationAny      ElevationBand = ""
	ElevationFlat     ElevationBand = "flat"     // <= 100 m
	ElevationHilly    ElevationBand = "hilly"    // > 100 m and <= 500 m
	ElevationMountain ElevationBand = "mountain" // > 500 m
)

var periodAliases = map[string]Period{
	"oggi":               PeriodToday,
	"prossima-settimana": PeriodNextWeek,
	"prossimo-mese":      PeriodNextMonth,
	"passate":            PeriodPast,
}

var elevationAliases = map[string]ElevationBand{
	"piano":     ElevationFlat,
	"collinare": ElevationHilly,
	"montagna":  ElevationMountain,
}

// ParsePeriod normalises a period name. Unknown names are kept as-is and
// later treated as no filter.
func ParsePeriod(s string) Period {
	s = strings.ToLower(strings.TrimSpace(s))
	if p, ok := periodAliases[s]; ok {
		return p
	}
	return Period(s)
}

// ParseElevationBand normalises an elevation band name.
func ParseElevationBand(s string) (ElevationBand, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if b, ok := elevationAliases[s]; ok {
		return b, nil
	}
	switch b := ElevationBand(s); b {
	case ElevationAny, ElevationFlat, ElevationHilly, ElevationMountain:
		return b, nil
	}
	return "", fmt.Errorf("invalid elevation band %q (expected flat, hilly or mountain)", s)
}

// Criteria is a filter specification. Zero values disable a predicate.
type Criteria struct {
	Search        string // matches title or location
	FavoritesOnly bool
	Type          string
	DistanceMin   *float64
	DistanceMax   *float64
	Period        Period
	Location      string
	Elevation     ElevationBand
	Tier          string
}

// Fields tells the engine how to read a record. Accessors left nil make
// the matching predicate pass for every record.
type Fields[T any] struct {
	Title     func(T) string
	Location  func(T) string
	Type      func(T) string
	Distance  func(T) string
	Elevation func(T) string
	Tier      func(T) string
	Favorite  func(T) bool
	Date      func(T) string // DD/MM/YYYY
}

// RaceFields reads models.Race
var RaceFields = Fields[models.Race]{
	Title:     func(r models.Race) string { return r.Title },
	Location:  func(r models.Race) string { return r.Location },
	Type:      func(r models.Race) string { return r.Type },
	Distance:  func(r models.Race) string { return r.Distance },
	Elevation: func(r models.Race) string { return r.Elevation },
	Tier:      func(r models.Race) string { return string(r.Tier) },
	Favorite:  func(r models.Race) bool { return r.Favorite },
	Date:      func(r models.Race) string { return r.StartDate },
}

// PersonalRaceFields reads models.PersonalRace
var PersonalRaceFields = Fields[models.PersonalRace]{
	Title:     func(r models.PersonalRace) string { return r.Title },
	Location:  func(r models.PersonalRace) string { return r.Location },
	Type:      func(r models.PersonalRace) string { return r.Type },
	Distance:  func(r models.PersonalRace) string { return r.Distance },
	Elevation: func(r models.PersonalRace) string { return r.Elevation },
	Tier:      func(r models.PersonalRace) string { return string(r.Category) },
	Favorite:  func(r models.PersonalRace) bool { return r.Favorite },
	Date:      func(r models.PersonalRace) string { return r.Date },
}

type predicate[T any] func(T) bool

// Apply returns the records matching every active predicate of c, in input
// order. now sets "today" (midnight in now's location) for period filters.
func Apply[T any](items []T, f Fields[T], c Criteria, now time.Time) []T {
	preds := build(f, c, now)
	return lo.Filter(items, func(item T, _ int) bool {
		for _, p := range preds {
			if !p(item) {
				return false
			}
		}
		return true
	})
}

// Races is Apply for the public race database.
func Races(races []models.Race, c Criteria, now time.Time) []models.Race {
	return Apply(races, RaceFields, c, now)
}

// PersonalRaces is Apply for the personal race log.
func PersonalRaces(races []models.PersonalRace, c Criteria, now time.Time) []models.PersonalRace {
	return Apply(races, PersonalRaceFields, c, now)
}

func build[T any](f Fields[T], c Criteria, now time.Time) []predicate[T] {
	var preds []predicate[T]

	if c.Search != "" && (f.Title != nil || f.Location != nil) {
		needle := strings.ToLower(c.Search)
		preds = append(preds, func(item T) bool {
			return containsFold(f.Title, item, needle) || containsFold(f.Location, item, needle)
		})
	}

	if c.FavoritesOnly && f.Favorite != nil {
		preds = append(preds, f.Favorite)
	}

	if c.Type != "" && f.Type != nil {
		preds = append(preds, func(item T) bool {
			return strings.EqualFold(f.Type(item), c.Type)
		})
	}

	if c.DistanceMin != nil && f.Distance != nil {
		minKm := *c.DistanceMin
		preds = append(preds, func(item T) bool {
			// NaN >= x is false, so malformed distances drop out
			return utils.ParseLeadingNumber(f.Distance(item)) >= minKm
		})
	}

	if c.DistanceMax != nil && f.Distance != nil {
		maxKm := *c.DistanceMax
		preds = append(preds, func(item T) bool {
			return utils.ParseLeadingNumber(f.Distance(item)) <= maxKm
		})
	}

	if c.Period != PeriodAny && f.Date != nil {
		if in := periodWindow(ParsePeriod(string(c.Period)), now); in != nil {
			loc := now.Location()
			preds = append(preds, func(item T) bool {
				d, err := utils.ParseRaceDate(f.Date(item), loc)
				if err != nil {
					return false
				}
				return in(d)
			})
		}
	}

	if c.Location != "" && f.Location != nil {
		needle := strings.ToLower(c.Location)
		preds = append(preds, func(item T) bool {
			return containsFold(f.Location, item, needle)
		})
	}

	if c.Elevation != ElevationAny && f.Elevation != nil {
		if in := elevationRange(c.Elevation); in != nil {
			preds = append(preds, func(item T) bool {
				return in(utils.ParseLeadingNumber(f.Elevation(item)))
			})
		}
	}

	if c.Tier != "" && f.Tier != nil {
		preds = append(preds, func(item T) bool {
			return f.Tier(item) == c.Tier
		})
	}

	return preds
}

func containsFold[T any](get func(T) string, item T, lowerNeedle string) bool {
	if get == nil {
		return false
	}
	return strings.Contains(strings.ToLower(get(item)), lowerNeedle)
}

// periodWindow returns the membership test for p, or nil for periods that
// do not filter.
func periodWindow(p Period, now time.Time) func(time.Time) bool {
	today := utils.StartOfDay(now)
	between := func(from, to time.Time) func(time.Time) bool {
		return func(d time.Time) bool { return !d.Before(from) && !d.After(to) }
	}

	switch p {
	case PeriodToday:
		return func(d time.Time) bool { return d.Equal(today) }
	case PeriodNextWeek:
		return between(today, today.AddDate(0, 0, 7))
	case PeriodNextMonth:
		return between(today, today.AddDate(0, 1, 0))
	case PeriodPast:
		return func(d time.Time) bool { return d.Before(today) }
	case PeriodLastMonth:
		return between(today.AddDate(0, -1, 0), today)
	case PeriodLast3Months:
		return between(today.AddDate(0, -3, 0), today)
	case PeriodLastYear:
		return between(today.AddDate(-1, 0, 0), today)
	default:
		return nil
	}
}

func elevationRange(b ElevationBand) func(float64) bool {
	switch b {
	case ElevationFlat:
		return func(v float64) bool { return v <= 100 }
	case ElevationHilly:
		return func(v float64) bool { return v > 100 && v <= 500 }
	case ElevationMountain:
		return func(v float64) bool { return v > 500 }
	default:
		return nil
	}
}

// IsMalformedDistance reports whether a distance field has no usable number.
func IsMalformedDistance(distance string) bool {
	return math.IsNaN(utils.ParseLeadingNumber(distance))
}
