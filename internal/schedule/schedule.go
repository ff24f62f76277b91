// Package schedule reorders a training week by swapping the workouts of
// two days, holding back swaps that would put intensive sessions on
// consecutive days until the runner confirms them.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
)

var (
	ErrNoDrag              = errors.New("no slot is being moved")
	ErrNoPendingMove       = errors.New("no move is waiting for confirmation")
	ErrPendingConfirmation = errors.New("a move is waiting for confirmation")
	ErrIndexOutOfRange     = errors.New("slot index out of range")
)

// State of the reorder flow
type State string

const (
	StateIdle                State = "idle"
	StateDragging            State = "dragging"
	StatePendingConfirmation State = "pending_confirmation"
)

// Outcome of a drop
type Outcome int

const (
	// OutcomeNoop means nothing changed (dropped on the source slot)
	OutcomeNoop Outcome = iota
	// OutcomeApplied means the swap was applied
	OutcomeApplied
	// OutcomeNeedsConfirmation means the swap is held until Confirm or Cancel
	OutcomeNeedsConfirmation
)

// Move is a swap between two slot positions
type Move struct {
	From int
	To   int
}

// IsIntensive reports whether an intensity counts as a hard training day.
func IsIntensive(i constants.Intensity) bool {
	return i == constants.IntensityMedium || i == constants.IntensityHard
}

// NeedsConfirmation reports whether the workout at from is intensive and a
// day adjacent to to already carries an intensive workout. Neighbours are
// read before the swap, so a source next to the destination counts too.
func NeedsConfirmation(week []models.Slot, from, to int) bool {
	if from == to || !inRange(week, from) || !inRange(week, to) {
		return false
	}
	if !IsIntensive(week[from].Intensity) {
		return false
	}
	for _, n := range []int{to - 1, to + 1} {
		if !inRange(week, n) {
			continue
		}
		if IsIntensive(week[n].Intensity) {
			return true
		}
	}
	return false
}

// Swap exchanges the activity, status and intensity of two slots in place.
// Day, date and completion stay with the position.
func Swap(week []models.Slot, i, j int) {
	week[i].Activity, week[j].Activity = week[j].Activity, week[i].Activity
	week[i].Status, week[j].Status = week[j].Status, week[i].Status
	week[i].Intensity, week[j].Intensity = week[j].Intensity, week[i].Intensity
}

func inRange(week []models.Slot, i int) bool {
	return i >= 0 && i < len(week)
}

func clone(week []models.Slot) []models.Slot {
	out := make([]models.Slot, len(week))
	copy(out, week)
	return out
}

// Reorderer drives the drag, drop, confirm and cancel flow over a week.
// It works on its own copy; read the result with Week.
type Reorderer struct {
	week    []models.Slot
	state   State
	source  int
	pending *Move
}

// New creates a Reorderer over a copy of week
func New(week []models.Slot) *Reorderer {
	return &Reorderer{
		week:  clone(week),
		state: StateIdle,
	}
}

// Week returns a copy of the current schedule
func (r *Reorderer) Week() []models.Slot {
	return clone(r.week)
}

// State returns the current flow state
func (r *Reorderer) State() State {
	return r.state
}

// Source returns the index being dragged, if any
func (r *Reorderer) Source() (int, bool) {
	if r.state != StateDragging {
		return 0, false
	}
	return r.source, true
}

// Pending returns the move waiting for confirmation, if any
func (r *Reorderer) Pending() (Move, bool) {
	if r.pending == nil {
		return Move{}, false
	}
	return *r.pending, true
}

// StartDrag picks up the slot at index. Picking up again while dragging
// replaces the source.
func (r *Reorderer) StartDrag(index int) error {
	if r.state == StatePendingConfirmation {
		return ErrPendingConfirmation
	}
	if !inRange(r.week, index) {
		return fmt.Errorf("%w: %d (week has %d slots)", ErrIndexOutOfRange, index, len(r.week))
	}
	r.source = index
	r.state = StateDragging
	return nil
}

// Drop releases the dragged slot on index. The swap is applied straight
// away unless it needs confirmation, in which case nothing changes until
// Confirm.
func (r *Reorderer) Drop(index int) (Outcome, error) {
	if r.state != StateDragging {
		if r.state == StatePendingConfirmation {
			return OutcomeNoop, ErrPendingConfirmation
		}
		return OutcomeNoop, ErrNoDrag
	}
	if !inRange(r.week, index) {
		return OutcomeNoop, fmt.Errorf("%w: %d (week has %d slots)", ErrIndexOutOfRange, index, len(r.week))
	}

	from := r.source
	if from == index {
		r.state = StateIdle
		return OutcomeNoop, nil
	}

	if NeedsConfirmation(r.week, from, index) {
		r.pending = &Move{From: from, To: index}
		r.state = StatePendingConfirmation
		return OutcomeNeedsConfirmation, nil
	}

	Swap(r.week, from, index)
	r.state = StateIdle
	return OutcomeApplied, nil
}

// Confirm applies the pending move
func (r *Reorderer) Confirm() error {
	if r.pending == nil {
		return ErrNoPendingMove
	}
	Swap(r.week, r.pending.From, r.pending.To)
	r.pending = nil
	r.state = StateIdle
	return nil
}

// Cancel drops an in-progress drag or pending move without touching the week
func (r *Reorderer) Cancel() {
	r.pending = nil
	r.state = StateIdle
}

// Apply runs a full drag and drop of from onto to. When the move needs
// confirmation, confirm decides whether it is applied. The returned bool
// reports whether the week changed.
func Apply(week []models.Slot, from, to int, confirm func(Move) bool) ([]models.Slot, bool, error) {
	r := New(week)
	if err := r.StartDrag(from); err != nil {
		return week, false, err
	}
	outcome, err := r.Drop(to)
	if err != nil {
		return week, false, err
	}

	switch outcome {
	case OutcomeApplied:
		return r.Week(), true, nil
	case OutcomeNeedsConfirmation:
		move, _ := r.Pending()
		if confirm != nil && confirm(move) {
			if err := r.Confirm(); err != nil {
				return week, false, err
			}
			return r.Week(), true, nil
		}
		r.Cancel()
	}
	return week, false, nil
}

var dayNames = [constants.DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DefaultWeek seeds a Monday-first training week starting on the Monday
// of the week containing day.
func DefaultWeek(day time.Time) []models.Slot {
	monday := WeekStart(day)
	plan := []struct {
		activity  string
		status    constants.SlotStatus
		intensity constants.Intensity
	}{
		{"Rest", constants.SlotRest, ""},
		{"Base run", constants.SlotWorkout, constants.IntensityEasy},
		{"Rest", constants.SlotRest, ""},
		{"Fartlek", constants.SlotWorkout, constants.IntensityMedium},
		{"Rest", constants.SlotRest, ""},
		{"Long run 30 km", constants.SlotWorkout, constants.IntensityHard},
		{"Base run", constants.SlotWorkout, constants.IntensityEasy},
	}

	week := make([]models.Slot, 0, constants.DaysPerWeek)
	for i, p := range plan {
		week = append(week, models.Slot{
			Day:       dayNames[i],
			Date:      monday.AddDate(0, 0, i).Format("02 January"),
			Activity:  p.activity,
			Status:    p.status,
			Intensity: p.intensity,
		})
	}
	return week
}

// WeekStart returns midnight of the Monday on or before day
func WeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	d := day.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
