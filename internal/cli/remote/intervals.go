// Package remote holds the intervals.icu and n8n webhook commands.
package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/intervals"
	"github.com/julianstephens/stridelog/internal/notifier"
)

// requestContext is cancelled on interrupt
func requestContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// reportDelivery prints the outcome of a webhook. A missing URL is a skip.
func reportDelivery(event constants.WebhookEvent, delivery string, err error) {
	switch {
	case errors.Is(err, notifier.ErrNoWebhook):
		fmt.Printf("⊘ %s webhook skipped (no URL configured)\n", event)
	case err != nil:
		fmt.Printf("⚠ %s webhook failed: %v\n", event, err)
	default:
		fmt.Printf("✓ %s webhook sent (%s)\n", event, delivery)
	}
}

// RangeFlags select the days a list command covers. Without flags the last
// 30 days are used.
type RangeFlags struct {
	Oldest string `help:"First day (YYYY-MM-DD)."`
	Newest string `help:"Last day (YYYY-MM-DD)."`
	Week   bool   `short:"w" help:"Current Sunday to Saturday week."`
}

func (f *RangeFlags) Validate() error {
	for _, d := range []string{f.Oldest, f.Newest} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(constants.DateFormat, d); err != nil {
			return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", d)
		}
	}
	if f.Week && (f.Oldest != "" || f.Newest != "") {
		return errors.New("--week cannot be combined with --oldest or --newest")
	}
	return nil
}

func (f *RangeFlags) Range(now time.Time) intervals.DateRange {
	switch {
	case f.Week:
		return intervals.CurrentWeek(now)
	case f.Oldest == "" && f.Newest == "":
		return intervals.HistoryRange(now)
	}
	return intervals.DateRange{Oldest: f.Oldest, Newest: f.Newest}
}

func printAthlete(a *intervals.Athlete) {
	fmt.Printf("%d  %s\n", a.ID, a.Name)
	if a.Email != "" {
		fmt.Printf("  Email:   %s\n", a.Email)
	}
	if a.Sport != "" {
		fmt.Printf("  Sport:   %s\n", a.Sport)
	}
	if a.Weight != nil {
		fmt.Printf("  Weight:  %.1f kg\n", *a.Weight)
	}
	if a.RestingHR != nil && a.MaxHR != nil {
		fmt.Printf("  HR:      %d rest / %d max\n", *a.RestingHR, *a.MaxHR)
	}
	if a.Premium {
		fmt.Println("  Premium ★")
	}
}

func printWorkout(w intervals.Workout) {
	line := fmt.Sprintf("%-10s %s  %-22s %-8s %-9s", w.ID, w.Date, w.Name, w.Type, w.Status)
	if w.Duration > 0 {
		line += " " + (time.Duration(w.Duration) * time.Second).String()
	}
	if w.Distance != nil {
		line += fmt.Sprintf(" %.1f km", *w.Distance/1000)
	}
	if w.Status == constants.WorkoutCompleted {
		line = "✓ " + line
	} else {
		line = "  " + line
	}
	fmt.Println(line)
}

func printWorkouts(ws []intervals.Workout, r intervals.DateRange) {
	if len(ws) == 0 {
		fmt.Printf("No workouts between %s and %s.\n", r.Oldest, r.Newest)
		return
	}
	for _, w := range ws {
		printWorkout(w)
	}
}

type AthleteCmd struct {
	ID string `arg:"" optional:"" help:"Athlete ID (defaults to the key owner)."`
}

func (c *AthleteCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	var a *intervals.Athlete
	if c.ID == "" {
		a, err = client.GetCurrentAthlete(rc)
	} else {
		a, err = client.GetAthlete(rc, c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get athlete: %w", err)
	}
	printAthlete(a)
	return nil
}

type AthletesCmd struct{}

func (c *AthletesCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	athletes, err := client.GetAthletes(rc)
	if err != nil {
		return fmt.Errorf("failed to list athletes: %w", err)
	}
	if len(athletes) == 0 {
		fmt.Println("No athletes.")
		return nil
	}
	for _, a := range athletes {
		fmt.Printf("%-8d %s\n", a.ID, a.Name)
	}
	return nil
}

type WorkoutsCmd struct {
	RangeFlags `embed:""`
}

func (c *WorkoutsCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	r := c.Range(ctx.Today())
	ws, err := client.GetWorkouts(rc, r)
	if err != nil {
		return fmt.Errorf("failed to get workouts: %w", err)
	}
	printWorkouts(ws, r)
	return nil
}

type HistoryCmd struct{}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	now := ctx.Today()
	ws, err := client.GetWorkoutHistory(rc, now)
	if err != nil {
		return fmt.Errorf("failed to get workout history: %w", err)
	}

	printWorkouts(ws, intervals.HistoryRange(now))
	done := lo.CountBy(ws, func(w intervals.Workout) bool { return w.Status == constants.WorkoutCompleted })
	if len(ws) > 0 {
		fmt.Printf("\n%d of %d workouts completed\n", done, len(ws))
	}
	return nil
}

type WorkoutCreateCmd struct {
	Name        string  `arg:"" help:"Workout name."`
	Type        string  `short:"t" default:"Run" help:"Sport type."`
	Date        string  `short:"d" help:"Day (YYYY-MM-DD, defaults to today)."`
	Duration    string  `help:"Planned duration, e.g. 45m or 1h30m."`
	Km          float64 `help:"Planned distance in km."`
	Intensity   string  `short:"i" help:"Intensity label."`
	Description string  `help:"Notes."`
}

func (c *WorkoutCreateCmd) workout(now time.Time) (intervals.Workout, error) {
	w := intervals.Workout{
		Name:        strings.TrimSpace(c.Name),
		Description: c.Description,
		Type:        c.Type,
		Date:        c.Date,
		Intensity:   c.Intensity,
		Status:      constants.WorkoutPlanned,
	}
	if w.Date == "" {
		w.Date = now.Format(constants.DateFormat)
	}
	if c.Duration != "" {
		d, err := time.ParseDuration(c.Duration)
		if err != nil || d < 0 {
			return w, fmt.Errorf("invalid duration %q", c.Duration)
		}
		w.Duration = int(d.Seconds())
	}
	if c.Km < 0 {
		return w, errors.New("distance cannot be negative")
	}
	if c.Km > 0 {
		w.Distance = lo.ToPtr(c.Km * 1000)
	}
	return w, nil
}

func (c *WorkoutCreateCmd) Run(ctx *cli.Context) error {
	w, err := c.workout(ctx.Today())
	if err != nil {
		return err
	}
	if err := ctx.Validator.Struct(w); err != nil {
		return err
	}

	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	created, err := client.CreateWorkout(rc, w)
	if err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	fmt.Printf("✓ Workout %s created\n", created.ID)
	printWorkout(*created)

	delivery, err := ctx.Notifier.WorkoutCreated(rc, client.AthleteID(), created)
	reportDelivery(constants.EventWorkoutCreated, delivery, err)
	return nil
}

type WorkoutUpdateCmd struct {
	ID          string   `arg:"" help:"Workout ID."`
	Name        *string  `help:"New name."`
	Type        *string  `short:"t" help:"New sport type."`
	Date        *string  `short:"d" help:"New day (YYYY-MM-DD)."`
	Duration    *string  `help:"New duration, e.g. 45m."`
	Km          *float64 `help:"New distance in km."`
	Intensity   *string  `short:"i" help:"New intensity label."`
	Description *string  `help:"New notes."`
	Status      *string  `help:"PLANNED, COMPLETED or CANCELLED."`
}

func (c *WorkoutUpdateCmd) update() (intervals.WorkoutUpdate, error) {
	u := intervals.WorkoutUpdate{
		Name:        c.Name,
		Type:        c.Type,
		Intensity:   c.Intensity,
		Description: c.Description,
	}
	if c.Date != nil {
		if _, err := time.Parse(constants.DateFormat, *c.Date); err != nil {
			return u, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", *c.Date)
		}
		u.Date = c.Date
	}
	if c.Duration != nil {
		d, err := time.ParseDuration(*c.Duration)
		if err != nil || d < 0 {
			return u, fmt.Errorf("invalid duration %q", *c.Duration)
		}
		u.Duration = lo.ToPtr(int(d.Seconds()))
	}
	if c.Km != nil {
		if *c.Km < 0 {
			return u, errors.New("distance cannot be negative")
		}
		u.Distance = lo.ToPtr(*c.Km * 1000)
	}
	if c.Status != nil {
		s := constants.WorkoutStatus(strings.ToUpper(*c.Status))
		if !lo.Contains([]constants.WorkoutStatus{constants.WorkoutPlanned, constants.WorkoutCompleted, constants.WorkoutCancelled}, s) {
			return u, fmt.Errorf("invalid status %q", *c.Status)
		}
		u.Status = &s
	}
	if u == (intervals.WorkoutUpdate{}) {
		return u, errors.New("nothing to update")
	}
	return u, nil
}

func (c *WorkoutUpdateCmd) Run(ctx *cli.Context) error {
	u, err := c.update()
	if err != nil {
		return err
	}
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	w, err := client.UpdateWorkout(rc, c.ID, u)
	if err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}
	fmt.Printf("✓ Workout %s updated\n", w.ID)
	printWorkout(*w)
	return nil
}

type WorkoutDeleteCmd struct {
	ID  string `arg:"" help:"Workout ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *WorkoutDeleteCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete workout %s on intervals.icu?", c.ID))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	if err := client.DeleteWorkout(rc, c.ID); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	fmt.Printf("✓ Workout %s deleted\n", c.ID)
	return nil
}

// WorkoutCompleteCmd marks a workout completed and publishes it together
// with the matching activity when one is named
type WorkoutCompleteCmd struct {
	ID       string `arg:"" help:"Workout ID."`
	Activity string `short:"a" help:"ID of the recorded activity."`
}

func (c *WorkoutCompleteCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	status := constants.WorkoutCompleted
	w, err := client.UpdateWorkout(rc, c.ID, intervals.WorkoutUpdate{Status: &status})
	if err != nil {
		return fmt.Errorf("failed to complete workout: %w", err)
	}
	fmt.Printf("✓ Workout %s completed\n", w.ID)

	var activity *intervals.Activity
	if c.Activity != "" {
		activities, err := client.GetActivities(rc, intervals.HistoryRange(ctx.Today()))
		if err != nil {
			return fmt.Errorf("failed to get activities: %w", err)
		}
		found, ok := lo.Find(activities, func(a intervals.Activity) bool { return a.ID == c.Activity })
		if !ok {
			fmt.Printf("⚠ Activity %s not found in the last %d days\n", c.Activity, constants.IntervalsHistoryDays)
		} else {
			activity = &found
		}
	}

	delivery, err := ctx.Notifier.WorkoutCompleted(rc, client.AthleteID(), w, activity)
	reportDelivery(constants.EventWorkoutCompleted, delivery, err)
	return nil
}

type ActivitiesCmd struct {
	RangeFlags `embed:""`
}

func (c *ActivitiesCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	r := c.Range(ctx.Today())
	activities, err := client.GetActivities(rc, r)
	if err != nil {
		return fmt.Errorf("failed to get activities: %w", err)
	}
	if len(activities) == 0 {
		fmt.Printf("No activities between %s and %s.\n", r.Oldest, r.Newest)
		return nil
	}

	var km float64
	for _, a := range activities {
		line := fmt.Sprintf("%-10s %-19s %-8s %s", a.ID, a.StartDateLocal, a.Type, a.Name)
		if a.Distance != nil {
			km += *a.Distance / 1000
			line += fmt.Sprintf("  %.1f km", *a.Distance/1000)
		}
		if a.MovingTime != nil {
			line += "  " + (time.Duration(*a.MovingTime) * time.Second).String()
		}
		fmt.Println(line)
	}
	fmt.Printf("\n%d activities, %.1f km\n", len(activities), km)
	return nil
}

type WellnessCmd struct {
	RangeFlags `embed:""`
}

func (c *WellnessCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	r := c.Range(ctx.Today())
	entries, err := client.GetWellness(rc, r)
	if err != nil {
		return fmt.Errorf("failed to get wellness: %w", err)
	}
	if len(entries) == 0 {
		fmt.Printf("No wellness entries between %s and %s.\n", r.Oldest, r.Newest)
		return nil
	}
	for _, e := range entries {
		parts := []string{e.Date}
		if e.Weight != nil {
			parts = append(parts, fmt.Sprintf("%.1f kg", *e.Weight))
		}
		if e.RestingHR != nil {
			parts = append(parts, fmt.Sprintf("rest HR %d", *e.RestingHR))
		}
		if e.HRV != nil {
			parts = append(parts, fmt.Sprintf("HRV %.0f", *e.HRV))
		}
		if e.SleepSecs != nil {
			parts = append(parts, "sleep "+(time.Duration(*e.SleepSecs)*time.Second).String())
		}
		fmt.Println(strings.Join(parts, "  "))
	}
	return nil
}

type StatsCmd struct {
	Notify bool `short:"n" help:"Publish stats.updated to n8n."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	client, err := ctx.Intervals()
	if err != nil {
		return err
	}
	rc, cancel := requestContext()
	defer cancel()

	stats, err := client.GetStats(rc)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	show := func(label string, v *float64) {
		if v != nil {
			fmt.Printf("  %-9s %.1f\n", label, *v)
		}
	}
	fmt.Println("Training load")
	show("Fitness", stats.Fitness)
	show("Fatigue", stats.Fatigue)
	show("Form", stats.Form)
	show("Ramp", stats.RampRate)
	if stats.LoadRating != "" {
		fmt.Printf("  %-9s %s\n", "Rating", stats.LoadRating)
	}

	if c.Notify {
		delivery, err := ctx.Notifier.StatsUpdated(rc, client.AthleteID(), stats)
		reportDelivery(constants.EventStatsUpdated, delivery, err)
	}
	return nil
}
