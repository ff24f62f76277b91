package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/stridelog/internal/constants"
)

// raceDateLayout accepts both padded and unpadded day/month values.
const raceDateLayout = "2/1/2006"

// LoadLocation resolves an IANA zone name. Empty and "Local" mean the
// machine's zone.
func LoadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// ValidateTimezone reports whether LoadLocation accepts name.
func ValidateTimezone(name string) bool {
	_, err := LoadLocation(name)
	return err == nil
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseRaceDate parses a day-first race date (DD/MM/YYYY) at midnight in loc.
func ParseRaceDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(raceDateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid race date %q (expected DD/MM/YYYY): %w", s, err)
	}
	return t, nil
}

// FormatRaceDate formats t as DD/MM/YYYY.
func FormatRaceDate(t time.Time) string {
	return t.Format(constants.RaceDateFormat)
}

// ValidateRaceDate checks if the string is a valid DD/MM/YYYY date.
func ValidateRaceDate(s string) bool {
	_, err := ParseRaceDate(s, time.UTC)
	return err == nil
}

// DaysUntil counts the days from "from" to "to". A partial day counts as a
// whole one, so a race later today is one day away.
func DaysUntil(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}
