package tracker

import (
	"fmt"
	"time"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/progress"
	"github.com/julianstephens/stridelog/internal/shoes"
)

// rollover starts a fresh count when the stored goal belongs to another
// year. The goal distance carries over.
func rollover(s *models.Settings, now time.Time) bool {
	if s.GoalYear == now.Year() {
		return false
	}
	s.GoalYear = now.Year()
	s.YearlyCompletedKm = 0
	s.GoalReached = false
	return true
}

type GoalSetCmd struct {
	Km float64 `arg:"" help:"Yearly distance goal in km."`
}

func (c *GoalSetCmd) Validate() error {
	if !(c.Km > 0) {
		return fmt.Errorf("goal must be greater than zero")
	}
	return nil
}

func (c *GoalSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	rollover(&settings, ctx.Today())
	settings.YearlyGoalKm = c.Km
	settings.GoalReached = settings.YearlyCompletedKm >= c.Km
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("✓ %d goal set to %.0f km\n", settings.GoalYear, c.Km)
	return nil
}

type GoalAddCmd struct {
	Km   float64 `arg:"" help:"Distance run, in km."`
	Shoe bool    `short:"s" help:"Also log the distance on the selected shoe."`
}

func (c *GoalAddCmd) Validate() error {
	if !(c.Km > 0) {
		return fmt.Errorf("distance must be greater than zero")
	}
	return nil
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.YearlyGoalKm <= 0 {
		return fmt.Errorf("no yearly goal set, use 'goal set KM' first")
	}

	rollover(&settings, ctx.Today())
	wasReached := settings.GoalReached
	settings.YearlyCompletedKm += c.Km
	settings.GoalReached = settings.YearlyCompletedKm >= settings.YearlyGoalKm
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	pct := progress.DistanceProgress(settings.YearlyCompletedKm, settings.YearlyGoalKm)
	fmt.Printf("✓ +%g km (%.0f/%.0f km, %.0f%%)\n", c.Km, settings.YearlyCompletedKm, settings.YearlyGoalKm, pct)
	if settings.GoalReached && !wasReached {
		fmt.Println("★ Yearly goal reached!")
	}

	if c.Shoe {
		all, err := ctx.Store.GetAllShoes()
		if err != nil {
			return fmt.Errorf("failed to get shoes: %w", err)
		}
		shoe, ok := shoes.NewRack(all, settings.SelectedShoeID).Selected()
		if !ok {
			fmt.Println("⚠ No active shoe selected, distance not logged on a shoe")
			return nil
		}
		if err := shoes.AddKm(&shoe, c.Km); err != nil {
			return fmt.Errorf("failed to log distance on %s: %w", shoe.Name, err)
		}
		if err := ctx.Store.UpdateShoe(shoe); err != nil {
			return fmt.Errorf("failed to update shoe: %w", err)
		}
		fmt.Printf("  also logged on %s (%.0f km)\n", shoe.Name, shoe.CurrentKm)
	}
	return nil
}

type GoalStatusCmd struct{}

func (c *GoalStatusCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	now := ctx.Today()
	rollover(&settings, now)

	goal, done := settings.YearlyGoalKm, settings.YearlyCompletedKm
	pct := progress.DistanceProgress(done, goal)
	if goal <= 0 {
		fmt.Println(progress.Motivation(pct, goal))
		return nil
	}

	tier := progress.ClassifyProgress(pct)
	fmt.Printf("%d goal:   %.0f km\n", now.Year(), goal)
	fmt.Printf("Completed:   %.1f km\n", done)
	fmt.Printf("Progress:    %s\n", cli.RenderLevel(tier, fmt.Sprintf("%s %.1f%%", cli.Bar(pct, 20), pct)))
	fmt.Printf("Remaining:   %.1f km\n", progress.DistanceRemaining(done, goal))
	fmt.Printf("Weekly avg:  %.1f km (need %.1f km/week)\n",
		progress.CurrentWeeklyAverage(done, now), progress.RequiredWeeklyAverage(done, goal, now))
	if progress.BehindSchedule(pct, goal, now) {
		behind := progress.YearElapsedPercent(now) - pct
		fmt.Println(cli.RenderLevel(progress.TierCaution, fmt.Sprintf("⚠ %.0f%% behind the calendar", behind)))
	}
	fmt.Println(progress.Motivation(pct, goal))
	return nil
}
