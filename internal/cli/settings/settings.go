package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/shoes"
	"github.com/julianstephens/stridelog/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone *string `help:"IANA timezone, or Local."`
	Shoe     *int    `help:"ID of the active shoe to select."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:        %s\n", settings.Timezone)
		fmt.Printf("  Selected Shoe:   %d\n", settings.SelectedShoeID)
		fmt.Printf("  Week Start:      %s\n", settings.WeekStart)
		fmt.Println("\nYearly Goal:")
		fmt.Printf("  Goal:            %.1f km\n", settings.YearlyGoalKm)
		fmt.Printf("  Completed:       %.1f km\n", settings.YearlyCompletedKm)
		fmt.Printf("  Year:            %d\n", settings.GoalYear)
		fmt.Printf("  Reached:         %v\n", settings.GoalReached)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		tz := strings.TrimSpace(*c.Timezone)
		if _, err := utils.LoadLocation(tz); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		settings.Timezone = tz
		updated = true
	}
	if c.Shoe != nil {
		all, err := ctx.Store.GetAllShoes()
		if err != nil {
			return fmt.Errorf("failed to get shoes: %w", err)
		}
		shoe, ok := shoes.Find(all, *c.Shoe)
		if !ok {
			return fmt.Errorf("shoe %d not found", *c.Shoe)
		}
		if !shoe.Active {
			return fmt.Errorf("shoe %d is archived", *c.Shoe)
		}
		settings.SelectedShoeID = shoe.ID
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
