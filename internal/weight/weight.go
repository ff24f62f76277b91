// Package weight runs the weight goal flow: capture a start and target,
// record a new weigh-in one simulated week at a time, and review history.
package weight

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/progress"
)

var (
	ErrWrongStep     = errors.New("action not allowed in the current step")
	ErrInvalidWeight = errors.New("weight must be a positive number")
)

// Tracker wraps a WeightGoal with the step transitions
type Tracker struct {
	goal models.WeightGoal
}

// New resumes a tracker from a stored goal. A zero goal starts empty.
func New(goal models.WeightGoal) *Tracker {
	if goal.Step == "" {
		goal.Step = constants.WeightStepEmpty
	}
	return &Tracker{goal: goal}
}

// Goal returns a copy of the tracker state
func (t *Tracker) Goal() models.WeightGoal {
	g := t.goal
	g.History = append([]models.WeightSample(nil), t.goal.History...)
	return g
}

// Step returns the current step
func (t *Tracker) Step() constants.WeightStep {
	return t.goal.Step
}

func (t *Tracker) expect(steps ...constants.WeightStep) error {
	for _, s := range steps {
		if t.goal.Step == s {
			return nil
		}
	}
	return fmt.Errorf("%w: step is %s", ErrWrongStep, t.goal.Step)
}

func validWeight(w float64) bool {
	return w > 0 && !math.IsNaN(w) && !math.IsInf(w, 0)
}

// Begin moves from empty to input
func (t *Tracker) Begin() error {
	if err := t.expect(constants.WeightStepEmpty); err != nil {
		return err
	}
	t.goal.Step = constants.WeightStepInput
	return nil
}

// Confirm stores the starting and target weight and records day 0.
func (t *Tracker) Confirm(initial, target float64, today time.Time) error {
	if err := t.expect(constants.WeightStepInput); err != nil {
		return err
	}
	if !validWeight(initial) || !validWeight(target) {
		return ErrInvalidWeight
	}

	t.goal.Initial = initial
	t.goal.Current = initial
	t.goal.Target = target
	t.goal.LastChange = 0
	t.goal.History = []models.WeightSample{{
		ID:     uuid.New().String(),
		Date:   today.Format(constants.DateFormat),
		Weight: initial,
		Day:    0,
	}}
	t.goal.Step = constants.WeightStepDisplay
	return nil
}

// BeginUpdate opens the update step from the display step
func (t *Tracker) BeginUpdate() error {
	if err := t.expect(constants.WeightStepDisplay); err != nil {
		return err
	}
	t.goal.Step = constants.WeightStepUpdate
	return nil
}

// Record logs a weigh-in one simulated week after the previous sample.
// Time only advances through this call; nothing runs in the background.
func (t *Tracker) Record(newWeight float64) (models.WeightSample, error) {
	if err := t.expect(constants.WeightStepUpdate); err != nil {
		return models.WeightSample{}, err
	}
	if !validWeight(newWeight) {
		return models.WeightSample{}, ErrInvalidWeight
	}

	last, ok := t.goal.Latest()
	if !ok {
		return models.WeightSample{}, fmt.Errorf("%w: no starting sample", ErrWrongStep)
	}
	lastDate, err := time.Parse(constants.DateFormat, last.Date)
	if err != nil {
		return models.WeightSample{}, fmt.Errorf("failed to parse last sample date: %w", err)
	}

	sample := models.WeightSample{
		ID:     uuid.New().String(),
		Date:   lastDate.AddDate(0, 0, constants.WeightUpdateDays).Format(constants.DateFormat),
		Weight: newWeight,
		Day:    last.Day + constants.WeightUpdateDays,
	}

	t.goal.LastChange = newWeight - t.goal.Current
	t.goal.Current = newWeight
	t.goal.History = append(t.goal.History, sample)
	t.goal.Step = constants.WeightStepDisplay
	return sample, nil
}

// ShowHistory moves from display to history
func (t *Tracker) ShowHistory() error {
	if err := t.expect(constants.WeightStepDisplay); err != nil {
		return err
	}
	t.goal.Step = constants.WeightStepHistory
	return nil
}

// Back returns to the display step from update or history
func (t *Tracker) Back() error {
	if err := t.expect(constants.WeightStepUpdate, constants.WeightStepHistory); err != nil {
		return err
	}
	t.goal.Step = constants.WeightStepDisplay
	return nil
}

// Restart clears everything and returns to empty
func (t *Tracker) Restart() {
	t.goal = models.WeightGoal{Step: constants.WeightStepEmpty}
}

// Summary is the derived view of a goal
type Summary struct {
	Progress   float64
	Tier       progress.Tier
	Remaining  float64
	Direction  progress.WeightDirection
	LastChange float64
}

// Summary computes progress, tier and what is left to go
func (t *Tracker) Summary() Summary {
	p := progress.WeightProgress(t.goal.Initial, t.goal.Current, t.goal.Target)
	remaining, dir := progress.WeightRemaining(t.goal.Current, t.goal.Target)
	return Summary{
		Progress:   p,
		Tier:       progress.ClassifyProgress(p),
		Remaining:  remaining,
		Direction:  dir,
		LastChange: t.goal.LastChange,
	}
}
