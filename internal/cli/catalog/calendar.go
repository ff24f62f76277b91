package catalog

import (
	"fmt"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/races"
	"github.com/julianstephens/stridelog/internal/utils"
)

// RaceCalendarCmd saves a race to the calendar, or lists the calendar when
// no id is given.
type RaceCalendarCmd struct {
	ID   int    `arg:"" optional:"" help:"Race ID to add to the calendar."`
	Tier string `help:"Tier A, B or C, or 'later' to keep the current one." default:"later"`
}

func (c *RaceCalendarCmd) Validate() error {
	return tierOrLater(c.Tier)
}

func (c *RaceCalendarCmd) Run(ctx *cli.Context) error {
	if c.ID == 0 {
		return listCalendar(ctx)
	}

	race, err := ctx.Store.GetRace(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find race: %w", err)
	}
	if err := races.AssignTier(&race, c.Tier); err != nil {
		return err
	}
	if err := ctx.Store.UpdateRace(race); err != nil {
		return fmt.Errorf("failed to update race: %w", err)
	}

	fmt.Printf("✓ %s saved to the calendar as %s\n", race.Title, cli.RenderTier(race.Tier))
	return nil
}

func listCalendar(ctx *cli.Context) error {
	all, err := ctx.Store.GetAllRaces()
	if err != nil {
		return fmt.Errorf("failed to get races: %w", err)
	}
	now := ctx.Today()
	upcoming := races.Upcoming(all, now)
	if len(upcoming) == 0 {
		fmt.Println("No tier A or B races on the calendar.")
		return nil
	}

	fmt.Println("Race calendar:")
	for _, s := range upcoming {
		fmt.Printf("  %s %s  %-36s %s\n",
			cli.RenderTier(s.Race.Tier), utils.FormatRaceDate(s.Start),
			truncate(s.Race.Title, 36), cli.MutedStyle.Render(races.Countdown(s.Start, now)))
	}
	return nil
}

// RaceCountdownCmd shows the time left until a race and how much of the
// preparation window has gone by. Without an id it picks the next race on
// the calendar.
type RaceCountdownCmd struct {
	ID int `arg:"" optional:"" help:"Race ID."`
}

func (c *RaceCountdownCmd) Run(ctx *cli.Context) error {
	now := ctx.Today()
	all, err := ctx.Store.GetAllRaces()
	if err != nil {
		return fmt.Errorf("failed to get races: %w", err)
	}

	var next races.Scheduled
	if c.ID == 0 {
		upcoming := races.Upcoming(all, now)
		if len(upcoming) == 0 {
			fmt.Println("No upcoming tier A or B races. Use 'race calendar ID --tier A' to add one.")
			return nil
		}
		next = upcoming[0]
	} else {
		race, err := races.Find(all, c.ID)
		if err != nil {
			return err
		}
		start, err := utils.ParseRaceDate(race.StartDate, now.Location())
		if err != nil {
			return fmt.Errorf("race %d has an invalid date: %w", race.ID, err)
		}
		next = races.Scheduled{Race: race, Start: start}
	}

	completion := races.TrainingCompletion(next.Start, now)
	fmt.Printf("%s %s\n", cli.RenderTier(next.Race.Tier), next.Race.Title)
	fmt.Printf("  Where:     %s\n", next.Race.Location)
	if flag := races.FlagURL(next.Race.Country); flag != "" {
		fmt.Printf("  Flag:      %s\n", cli.MutedStyle.Render(flag))
	}
	fmt.Printf("  When:      %s (%s)\n", utils.FormatRaceDate(next.Start), races.StatusOf(next.Start, now))
	fmt.Printf("  Countdown: %s\n", races.Countdown(next.Start, now))
	fmt.Printf("  Training:  %s %.0f%%\n", cli.Bar(completion, 20), completion)
	return nil
}
