// Package tracker holds the weight goal and yearly distance goal commands.
package tracker

import (
	"errors"
	"fmt"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/progress"
	"github.com/julianstephens/stridelog/internal/weight"
)

func loadTracker(ctx *cli.Context) (*weight.Tracker, error) {
	goal, err := ctx.Store.GetWeightGoal()
	if err != nil {
		return nil, fmt.Errorf("failed to get weight goal: %w", err)
	}
	t := weight.New(goal)
	// the CLI always settles on display, but an import may carry another step
	if t.Step() == constants.WeightStepUpdate || t.Step() == constants.WeightStepHistory {
		_ = t.Back()
	}
	return t, nil
}

func saveTracker(ctx *cli.Context, t *weight.Tracker) error {
	if err := ctx.Store.SaveWeightGoal(t.Goal()); err != nil {
		return fmt.Errorf("failed to save weight goal: %w", err)
	}
	return nil
}

var errNotStarted = errors.New("no weight goal yet, start one with 'weight start INITIAL TARGET'")

type WeightStartCmd struct {
	Initial float64 `arg:"" help:"Starting weight in kg."`
	Target  float64 `arg:"" help:"Target weight in kg."`
}

func (c *WeightStartCmd) Run(ctx *cli.Context) error {
	t, err := loadTracker(ctx)
	if err != nil {
		return err
	}
	if t.Step() != constants.WeightStepEmpty {
		return fmt.Errorf("a weight goal is already running, use 'weight restart' first")
	}
	if err := t.Begin(); err != nil {
		return err
	}
	if err := t.Confirm(c.Initial, c.Target, ctx.Today()); err != nil {
		return err
	}
	if err := saveTracker(ctx, t); err != nil {
		return err
	}

	s := t.Summary()
	fmt.Printf("✓ Weight goal set: %.1f kg → %.1f kg (%s %.1f kg)\n", c.Initial, c.Target, s.Direction, s.Remaining)
	return nil
}

type WeightUpdateCmd struct {
	Weight float64 `arg:"" help:"New weight in kg, recorded one week after the previous weigh-in."`
}

func (c *WeightUpdateCmd) Run(ctx *cli.Context) error {
	t, err := loadTracker(ctx)
	if err != nil {
		return err
	}
	if t.Step() == constants.WeightStepEmpty {
		return errNotStarted
	}
	if err := t.BeginUpdate(); err != nil {
		return err
	}
	sample, err := t.Record(c.Weight)
	if err != nil {
		return err
	}
	if err := saveTracker(ctx, t); err != nil {
		return err
	}

	s := t.Summary()
	fmt.Printf("✓ Day %d (%s): %.1f kg (%+.1f kg)\n", sample.Day, sample.Date, sample.Weight, s.LastChange)
	fmt.Printf("  %s\n", cli.RenderLevel(s.Tier, fmt.Sprintf("%s %.0f%%", cli.Bar(s.Progress, 20), s.Progress)))
	return nil
}

type WeightHistoryCmd struct{}

func (c *WeightHistoryCmd) Run(ctx *cli.Context) error {
	t, err := loadTracker(ctx)
	if err != nil {
		return err
	}
	if err := t.ShowHistory(); err != nil {
		return errNotStarted
	}

	goal := t.Goal()
	fmt.Printf("%-5s %-10s %8s %8s\n", "Day", "Date", "Weight", "Change")
	prev := goal.Initial
	for _, s := range goal.History {
		fmt.Printf("%-5d %-10s %8.1f %+8.1f\n", s.Day, s.Date, s.Weight, s.Weight-prev)
		prev = s.Weight
	}
	fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("target %.1f kg", goal.Target)))
	return nil
}

type WeightStatusCmd struct{}

func (c *WeightStatusCmd) Run(ctx *cli.Context) error {
	t, err := loadTracker(ctx)
	if err != nil {
		return err
	}
	if t.Step() == constants.WeightStepEmpty {
		fmt.Println("No weight goal yet. Start one with 'weight start INITIAL TARGET'.")
		return nil
	}

	goal := t.Goal()
	s := t.Summary()
	fmt.Printf("Start:    %.1f kg\n", goal.Initial)
	fmt.Printf("Current:  %.1f kg (last change %+.1f kg)\n", goal.Current, s.LastChange)
	fmt.Printf("Target:   %.1f kg\n", goal.Target)
	fmt.Printf("Progress: %s\n", cli.RenderLevel(s.Tier, fmt.Sprintf("%s %.0f%%", cli.Bar(s.Progress, 20), s.Progress)))
	switch s.Direction {
	case progress.DirectionReached:
		fmt.Println("✓ Target reached!")
	default:
		fmt.Printf("Left:     %.1f kg to %s\n", s.Remaining, s.Direction)
	}
	return nil
}

type WeightRestartCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *WeightRestartCmd) Run(ctx *cli.Context) error {
	t, err := loadTracker(ctx)
	if err != nil {
		return err
	}
	if t.Step() == constants.WeightStepEmpty {
		fmt.Println("Nothing to restart.")
		return nil
	}
	if !c.Yes {
		ok, err := ctx.Confirm("Discard the weight goal and its history?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Restart cancelled.")
			return nil
		}
	}

	t.Restart()
	if err := saveTracker(ctx, t); err != nil {
		return err
	}
	fmt.Println("✓ Weight goal cleared")
	return nil
}
