// Package week holds the training week commands.
package week

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/progress"
	"github.com/julianstephens/stridelog/internal/schedule"
	"github.com/julianstephens/stridelog/internal/tui"
)

var intensityLevels = map[constants.Intensity]progress.Tier{
	constants.IntensityEasy:   progress.TierGood,
	constants.IntensityMedium: progress.TierCaution,
	constants.IntensityHard:   progress.TierCritical,
}

// ParseDay accepts a 1-7 position (Monday first) or a day name prefix
func ParseDay(week []models.Slot, s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(week) {
			return 0, fmt.Errorf("day %d out of range 1-%d", n, len(week))
		}
		return n - 1, nil
	}
	if len(s) >= 2 {
		for i, slot := range week {
			if strings.HasPrefix(strings.ToLower(slot.Day), strings.ToLower(s)) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day %q (use 1-7 or a day name)", s)
}

func loadWeek(ctx *cli.Context) ([]models.Slot, models.Settings, error) {
	week, err := ctx.Store.GetWeek()
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("failed to get week: %w", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return week, settings, nil
}

func printWeek(week []models.Slot) {
	for i, s := range week {
		check := "○"
		if s.Completed {
			check = "✓"
		}
		line := fmt.Sprintf("%d %-9s %-10s %s %-18s", i+1, s.Day, s.Date, check, s.Activity)
		if s.Status == constants.SlotRest {
			fmt.Println(cli.MutedStyle.Render(line))
			continue
		}
		fmt.Printf("%s %s\n", line, cli.RenderLevel(intensityLevels[s.Intensity], string(s.Intensity)))
	}
}

func printConflicts(ctx *cli.Context, week []models.Slot) bool {
	result := ctx.Validator.ValidateWeek(week)
	if !result.HasConflicts() {
		return false
	}
	for _, c := range result.Conflicts {
		fmt.Printf("⚠ %s\n", c.Description)
	}
	return true
}

type ScheduleShowCmd struct{}

func (c *ScheduleShowCmd) Run(ctx *cli.Context) error {
	week, settings, err := loadWeek(ctx)
	if err != nil {
		return err
	}

	title := "Training week"
	if settings.WeekStart != "" {
		title += " from " + settings.WeekStart
	}
	fmt.Println(title)
	printWeek(week)
	if current := schedule.WeekStart(ctx.Today()).Format(constants.DateFormat); settings.WeekStart != "" && settings.WeekStart != current {
		fmt.Println(cli.MutedStyle.Render("This plan is for another week. Run 'schedule reset' to start the current one."))
	}
	printConflicts(ctx, week)
	return nil
}

type ScheduleMoveCmd struct {
	From string `arg:"" help:"Day to move (1-7 or name)."`
	To   string `arg:"" help:"Day to swap with (1-7 or name)."`
	Yes  bool   `short:"y" help:"Accept back-to-back intensive days without asking."`
}

func (c *ScheduleMoveCmd) Run(ctx *cli.Context) error {
	week, _, err := loadWeek(ctx)
	if err != nil {
		return err
	}
	from, err := ParseDay(week, c.From)
	if err != nil {
		return err
	}
	to, err := ParseDay(week, c.To)
	if err != nil {
		return err
	}

	var promptErr error
	confirm := func(m schedule.Move) bool {
		if c.Yes {
			return true
		}
		ok, err := ctx.Confirm(fmt.Sprintf("%s would sit next to another intensive workout on %s. Move anyway?",
			week[m.From].Activity, week[m.To].Day))
		if err != nil {
			promptErr = err
			return false
		}
		return ok
	}

	updated, changed, err := schedule.Apply(week, from, to, confirm)
	if err != nil {
		return err
	}
	if promptErr != nil {
		return promptErr
	}
	if !changed {
		if from == to {
			fmt.Println("Nothing to move.")
		} else {
			fmt.Println("⊘ Move cancelled, week unchanged.")
		}
		return nil
	}

	if err := ctx.Store.SaveWeek(updated); err != nil {
		return fmt.Errorf("failed to save week: %w", err)
	}
	fmt.Printf("✓ Swapped %s and %s\n", updated[from].Day, updated[to].Day)
	printWeek(updated)
	return nil
}

type ScheduleCheckCmd struct{}

func (c *ScheduleCheckCmd) Run(ctx *cli.Context) error {
	week, _, err := loadWeek(ctx)
	if err != nil {
		return err
	}
	if !printConflicts(ctx, week) {
		fmt.Println("✓ No back-to-back intensive days.")
	}
	return nil
}

// ScheduleDoneCmd toggles the completion mark of a day
type ScheduleDoneCmd struct {
	Day string `arg:"" help:"Day (1-7 or name)."`
}

func (c *ScheduleDoneCmd) Run(ctx *cli.Context) error {
	week, _, err := loadWeek(ctx)
	if err != nil {
		return err
	}
	i, err := ParseDay(week, c.Day)
	if err != nil {
		return err
	}
	week[i].Completed = !week[i].Completed
	if err := ctx.Store.SaveWeek(week); err != nil {
		return fmt.Errorf("failed to save week: %w", err)
	}
	if week[i].Completed {
		fmt.Printf("✓ %s done\n", week[i].Day)
	} else {
		fmt.Printf("○ %s open again\n", week[i].Day)
	}
	return nil
}

type ScheduleResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ScheduleResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm("Replace the training week with the default plan?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	today := ctx.Today()
	week := schedule.DefaultWeek(today)
	if err := ctx.Store.SaveWeek(week); err != nil {
		return fmt.Errorf("failed to save week: %w", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.WeekStart = schedule.WeekStart(today).Format(constants.DateFormat)
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("✓ Week from %s reset to the default plan\n", settings.WeekStart)
	printWeek(week)
	return nil
}

type ScheduleTuiCmd struct{}

func (c *ScheduleTuiCmd) Run(ctx *cli.Context) error {
	week, settings, err := loadWeek(ctx)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(tui.New(week, settings.WeekStart), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("failed to run week editor: %w", err)
	}
	m, ok := final.(tui.Model)
	if !ok || !m.Saved() || !m.Changed() {
		fmt.Println("Week unchanged.")
		return nil
	}

	if err := ctx.Store.SaveWeek(m.Week()); err != nil {
		return fmt.Errorf("failed to save week: %w", err)
	}
	fmt.Println("✓ Week saved")
	printWeek(m.Week())
	printConflicts(ctx, m.Week())
	return nil
}
