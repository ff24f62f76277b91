// Package catalog holds the race database and personal race log commands.
package catalog

import (
	"fmt"
	"strings"

	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/racefilter"
	"github.com/julianstephens/stridelog/internal/utils"
)

// FilterFlags are the filter options shared by race list and log list
type FilterFlags struct {
	Search    string `short:"s" help:"Match title or location."`
	Favorites bool   `short:"f" help:"Only favourite races."`
	Type      string `short:"t" help:"Race type (strada, trail, maratona, ...)."`
	MinKm     string `name:"min-km" help:"Minimum distance in km."`
	MaxKm     string `name:"max-km" help:"Maximum distance in km."`
	Period    string `short:"p" help:"today|next-week|next-month|past|last-month|last-3-months|last-year|all (Italian aliases accepted)."`
	Location  string `short:"l" help:"Match location."`
	Elevation string `short:"e" help:"flat|hilly|mountain (piano|collinare|montagna)."`
	Tier      string `help:"Tier A, B or C."`
}

// Criteria converts the flags into a filter specification
func (f *FilterFlags) Criteria() (racefilter.Criteria, error) {
	minKm, err := utils.ParseOptionalFloat(f.MinKm)
	if err != nil {
		return racefilter.Criteria{}, fmt.Errorf("invalid --min-km %q: %w", f.MinKm, err)
	}
	maxKm, err := utils.ParseOptionalFloat(f.MaxKm)
	if err != nil {
		return racefilter.Criteria{}, fmt.Errorf("invalid --max-km %q: %w", f.MaxKm, err)
	}
	band, err := racefilter.ParseElevationBand(f.Elevation)
	if err != nil {
		return racefilter.Criteria{}, err
	}
	tier := strings.TrimSpace(f.Tier)
	if tier != "" {
		t, err := models.ParseTier(tier)
		if err != nil {
			return racefilter.Criteria{}, err
		}
		tier = string(t)
	}

	return racefilter.Criteria{
		Search:        f.Search,
		FavoritesOnly: f.Favorites,
		Type:          f.Type,
		DistanceMin:   minKm,
		DistanceMax:   maxKm,
		Period:        racefilter.ParsePeriod(f.Period),
		Location:      f.Location,
		Elevation:     band,
		Tier:          tier,
	}, nil
}

func (f *FilterFlags) Validate() error {
	_, err := f.Criteria()
	return err
}

func star(favorite bool) string {
	if favorite {
		return "★"
	}
	return " "
}
