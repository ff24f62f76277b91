// Package races manages the public race database and the personal race log.
package races

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/utils"
	"github.com/julianstephens/stridelog/internal/validation"
)

var ErrNotFound = errors.New("race not found")

// DefaultCountry is used when a race is added without a country code
const DefaultCountry = "IT"

// RaceStatus is the position of a race date relative to today
type RaceStatus string

const (
	StatusCompleted RaceStatus = "completed"
	StatusToday     RaceStatus = "today"
	StatusUpcoming  RaceStatus = "upcoming"
	StatusFuture    RaceStatus = "future"
)

// TrainingDays is the preparation window before a race
const TrainingDays = 180

// NextID returns one past the highest id in ids, or 1 when empty
func NextID(ids []int) int {
	if len(ids) == 0 {
		return 1
	}
	return lo.Max(ids) + 1
}

// RaceIDs returns the ids of races
func RaceIDs(races []models.Race) []int {
	return lo.Map(races, func(r models.Race, _ int) int { return r.ID })
}

// PersonalIDs returns the ids of personal races
func PersonalIDs(races []models.PersonalRace) []int {
	return lo.Map(races, func(r models.PersonalRace, _ int) int { return r.ID })
}

// PrepareRace fills defaults and validates a race before it is stored.
// The id is assigned from existing.
func PrepareRace(v *validation.Validator, existing []models.Race, r models.Race) (models.Race, error) {
	r.ID = NextID(RaceIDs(existing))
	return normalizeRace(v, r)
}

func normalizeRace(v *validation.Validator, r models.Race) (models.Race, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	if r.EndDate == "" {
		r.EndDate = r.StartDate
	}
	if r.Tier == "" {
		r.Tier = constants.TierC
	}
	if r.Country == "" {
		r.Country = DefaultCountry
	}
	r.Country = strings.ToUpper(r.Country)

	if err := v.Struct(r); err != nil {
		return models.Race{}, err
	}
	return r, nil
}

// PreparePersonal fills defaults and validates a personal race entry.
func PreparePersonal(v *validation.Validator, existing []models.PersonalRace, r models.PersonalRace) (models.PersonalRace, error) {
	r.ID = NextID(PersonalIDs(existing))
	return normalizePersonal(v, r)
}

func normalizePersonal(v *validation.Validator, r models.PersonalRace) (models.PersonalRace, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	if r.Elevation == "" {
		r.Elevation = "0m"
	}
	if r.Category == "" {
		r.Category = constants.TierB
	}
	if r.Country == "" {
		r.Country = DefaultCountry
	}
	r.Country = strings.ToUpper(r.Country)

	if err := v.Struct(r); err != nil {
		return models.PersonalRace{}, err
	}
	return r, nil
}

// UpdateRace validates an edited race, keeping its id.
func UpdateRace(v *validation.Validator, r models.Race) (models.Race, error) {
	return normalizeRace(v, r)
}

// UpdatePersonal validates an edited personal race, keeping its id.
func UpdatePersonal(v *validation.Validator, r models.PersonalRace) (models.PersonalRace, error) {
	return normalizePersonal(v, r)
}

// Find returns the race with id
func Find(races []models.Race, id int) (models.Race, error) {
	r, ok := lo.Find(races, func(r models.Race) bool { return r.ID == id })
	if !ok {
		return models.Race{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, nil
}

// FindPersonal returns the personal race with id
func FindPersonal(races []models.PersonalRace, id int) (models.PersonalRace, error) {
	r, ok := lo.Find(races, func(r models.PersonalRace) bool { return r.ID == id })
	if !ok {
		return models.PersonalRace{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, nil
}

// ToggleFavorite flips the favourite flag
func ToggleFavorite(r *models.Race) {
	r.Favorite = !r.Favorite
}

// AssignTier sets the tier when the race is added to the calendar.
// "later" keeps the current tier.
func AssignTier(r *models.Race, choice string) error {
	if strings.EqualFold(strings.TrimSpace(choice), "later") {
		return nil
	}
	tier, err := models.ParseTier(strings.TrimSpace(choice))
	if err != nil {
		return err
	}
	r.Tier = tier
	return nil
}

// StatusOf classifies a race date against now. Days are counted between
// local midnights and rounded up.
func StatusOf(date time.Time, now time.Time) RaceStatus {
	days := utils.DaysUntil(utils.StartOfDay(now), utils.StartOfDay(date.In(now.Location())))
	switch {
	case days < 0:
		return StatusCompleted
	case days == 0:
		return StatusToday
	case days <= constants.UpcomingRaceDays:
		return StatusUpcoming
	default:
		return StatusFuture
	}
}

// Status parses a DD/MM/YYYY date and classifies it
func Status(date string, now time.Time) (RaceStatus, error) {
	d, err := utils.ParseRaceDate(date, now.Location())
	if err != nil {
		return "", err
	}
	return StatusOf(d, now), nil
}

// FlagURL returns the flag image for a country code, empty when none is set
func FlagURL(country string) string {
	country = strings.TrimSpace(country)
	if country == "" {
		return ""
	}
	return fmt.Sprintf(constants.FlagURLTemplate, strings.ToLower(country))
}

// Countdown renders the time left until start. Started races read "in corso".
func Countdown(start, now time.Time) string {
	d := start.Sub(now)
	if d <= 0 {
		return "in corso"
	}
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dg %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// TrainingCompletion is the share of the preparation window already
// elapsed: 0 before it opens, 100 on race day or after.
func TrainingCompletion(start, now time.Time) float64 {
	days := utils.DaysUntil(now, start)
	switch {
	case days >= TrainingDays:
		return 0
	case days <= 0:
		return 100
	}
	return float64(TrainingDays-days) / TrainingDays * 100
}

// Scheduled is a race on the calendar with its parsed start
type Scheduled struct {
	Race  models.Race
	Start time.Time
}

// Upcoming lists tier A and B races that have not started yet, soonest
// first. Races with unreadable dates are skipped.
func Upcoming(races []models.Race, now time.Time) []Scheduled {
	out := []Scheduled{}
	for _, r := range races {
		if r.Tier != constants.TierA && r.Tier != constants.TierB {
			continue
		}
		start, err := utils.ParseRaceDate(r.StartDate, now.Location())
		if err != nil || !start.After(now) {
			continue
		}
		out = append(out, Scheduled{Race: r, Start: start})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Pace derives "M:SS /km" from an H:MM:SS (or MM:SS) finish time and a
// distance such as "10km".
func Pace(finishTime, distance string) (string, error) {
	parts := strings.Split(strings.TrimSpace(finishTime), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("invalid finish time %q (expected HH:MM:SS)", finishTime)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return "", fmt.Errorf("invalid finish time %q (expected HH:MM:SS)", finishTime)
		}
		total = total*60 + n
	}
	km := utils.ParseLeadingNumber(distance)
	if math.IsNaN(km) || km <= 0 || total == 0 {
		return "", fmt.Errorf("cannot derive pace from %q over %q", finishTime, distance)
	}
	perKm := int(math.Round(float64(total) / km))
	return fmt.Sprintf("%d:%02d /km", perKm/60, perKm%60), nil
}
