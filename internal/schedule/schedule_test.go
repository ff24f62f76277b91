package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
)

func slot(day string, intensity constants.Intensity) models.Slot {
	if intensity == "" {
		return models.Slot{Day: day, Date: day + " date", Activity: "Rest", Status: constants.SlotRest}
	}
	return models.Slot{Day: day, Date: day + " date", Activity: string(intensity) + " run", Status: constants.SlotWorkout, Intensity: intensity}
}

// [rest, medium, rest, hard, rest, easy, rest]
func testWeek() []models.Slot {
	return []models.Slot{
		slot("Mon", ""),
		slot("Tue", constants.IntensityMedium),
		slot("Wed", ""),
		slot("Thu", constants.IntensityHard),
		slot("Fri", ""),
		slot("Sat", constants.IntensityEasy),
		slot("Sun", ""),
	}
}

func TestDrop_AppliesWhenNeighboursAreCalm(t *testing.T) {
	r := New(testWeek())

	if err := r.StartDrag(1); err != nil {
		t.Fatalf("StartDrag() failed: %v", err)
	}
	outcome, err := r.Drop(5)
	if err != nil {
		t.Fatalf("Drop() failed: %v", err)
	}
	if outcome != OutcomeApplied {
		t.Fatalf("Drop() = %v, want OutcomeApplied", outcome)
	}
	if r.State() != StateIdle {
		t.Errorf("State() = %q, want %q", r.State(), StateIdle)
	}

	week := r.Week()
	if week[1].Intensity != constants.IntensityEasy {
		t.Errorf("week[1].Intensity = %q, want easy", week[1].Intensity)
	}
	if week[5].Intensity != constants.IntensityMedium {
		t.Errorf("week[5].Intensity = %q, want medium", week[5].Intensity)
	}
	// position attributes stay put
	if week[1].Day != "Tue" || week[5].Date != "Sat date" {
		t.Errorf("day/date moved with the payload: %+v / %+v", week[1], week[5])
	}
}

func TestDrop_DefersWhenNeighbourIsIntensive(t *testing.T) {
	original := testWeek()

	t.Run("cancel leaves the week unchanged", func(t *testing.T) {
		r := New(original)
		_ = r.StartDrag(1)
		outcome, err := r.Drop(2)
		if err != nil {
			t.Fatalf("Drop() failed: %v", err)
		}
		if outcome != OutcomeNeedsConfirmation {
			t.Fatalf("Drop() = %v, want OutcomeNeedsConfirmation", outcome)
		}
		if r.State() != StatePendingConfirmation {
			t.Errorf("State() = %q, want %q", r.State(), StatePendingConfirmation)
		}
		if diff := cmp.Diff(original, r.Week()); diff != "" {
			t.Errorf("week changed before confirmation (-want +got):\n%s", diff)
		}

		r.Cancel()
		if r.State() != StateIdle {
			t.Errorf("State() after Cancel = %q, want idle", r.State())
		}
		if diff := cmp.Diff(original, r.Week()); diff != "" {
			t.Errorf("week changed after cancel (-want +got):\n%s", diff)
		}
		if _, ok := r.Pending(); ok {
			t.Error("Pending() still set after Cancel")
		}
	})

	t.Run("confirm swaps the payloads", func(t *testing.T) {
		r := New(original)
		_ = r.StartDrag(1)
		_, _ = r.Drop(2)
		move, ok := r.Pending()
		if !ok || move != (Move{From: 1, To: 2}) {
			t.Fatalf("Pending() = %+v, %v", move, ok)
		}
		if err := r.Confirm(); err != nil {
			t.Fatalf("Confirm() failed: %v", err)
		}

		week := r.Week()
		if week[1].Status != constants.SlotRest || week[1].Intensity != "" {
			t.Errorf("week[1] = %+v, want rest", week[1])
		}
		if week[2].Intensity != constants.IntensityMedium || week[2].Day != "Wed" {
			t.Errorf("week[2] = %+v, want medium on Wed", week[2])
		}
	})
}

func TestDrop_OntoAdjacentDayAsksFirst(t *testing.T) {
	r := New(testWeek())
	if err := r.StartDrag(3); err != nil {
		t.Fatalf("StartDrag() failed: %v", err)
	}

	outcome, err := r.Drop(4)
	if err != nil {
		t.Fatalf("Drop() failed: %v", err)
	}
	if outcome != OutcomeNeedsConfirmation {
		t.Fatalf("Drop() = %v, want OutcomeNeedsConfirmation", outcome)
	}
	if move, ok := r.Pending(); !ok || move != (Move{From: 3, To: 4}) {
		t.Errorf("Pending() = %+v, %v", move, ok)
	}
	if diff := cmp.Diff(testWeek(), r.Week()); diff != "" {
		t.Errorf("week changed before confirmation (-want +got):\n%s", diff)
	}
}

func TestDrop_SameIndexIsNoop(t *testing.T) {
	r := New(testWeek())
	_ = r.StartDrag(3)
	outcome, err := r.Drop(3)
	if err != nil || outcome != OutcomeNoop {
		t.Fatalf("Drop() = %v, %v, want OutcomeNoop", outcome, err)
	}
	if diff := cmp.Diff(testWeek(), r.Week()); diff != "" {
		t.Errorf("week changed (-want +got):\n%s", diff)
	}
}

func TestEmptyWeekIsNoop(t *testing.T) {
	r := New(nil)
	if err := r.StartDrag(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("StartDrag() error = %v, want ErrIndexOutOfRange", err)
	}
	if len(r.Week()) != 0 {
		t.Errorf("Week() = %v, want empty", r.Week())
	}

	week, changed, err := Apply(nil, 0, 1, nil)
	if err == nil || changed || len(week) != 0 {
		t.Errorf("Apply(nil) = %v, %v, %v", week, changed, err)
	}
}

func TestStateErrors(t *testing.T) {
	r := New(testWeek())

	if _, err := r.Drop(2); !errors.Is(err, ErrNoDrag) {
		t.Errorf("Drop() without drag error = %v, want ErrNoDrag", err)
	}
	if err := r.Confirm(); !errors.Is(err, ErrNoPendingMove) {
		t.Errorf("Confirm() without pending error = %v, want ErrNoPendingMove", err)
	}

	_ = r.StartDrag(1)
	_, _ = r.Drop(2)
	if err := r.StartDrag(4); !errors.Is(err, ErrPendingConfirmation) {
		t.Errorf("StartDrag() while pending error = %v, want ErrPendingConfirmation", err)
	}
	if _, err := r.Drop(4); !errors.Is(err, ErrPendingConfirmation) {
		t.Errorf("Drop() while pending error = %v, want ErrPendingConfirmation", err)
	}

	r.Cancel()
	if err := r.StartDrag(7); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("StartDrag(7) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestNeedsConfirmation(t *testing.T) {
	week := testWeek()
	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{name: "medium next to rest days", from: 1, to: 5, want: false},
		{name: "medium next to hard", from: 1, to: 2, want: true},
		{name: "hard onto easy between rests", from: 3, to: 5, want: false},
		{name: "hard onto monday next to medium", from: 3, to: 0, want: true},
		{name: "rest source never triggers", from: 0, to: 2, want: false},
		{name: "easy source never triggers", from: 5, to: 2, want: false},
		{name: "adjacent source counts as a neighbour", from: 3, to: 4, want: true},
		{name: "same index", from: 1, to: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsConfirmation(week, tt.from, tt.to); got != tt.want {
				t.Errorf("NeedsConfirmation(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	week := testWeek()

	got, changed, err := Apply(week, 1, 2, func(Move) bool { return false })
	if err != nil || changed {
		t.Fatalf("Apply() declined = %v, %v", changed, err)
	}
	if diff := cmp.Diff(week, got); diff != "" {
		t.Errorf("declined Apply() changed the week (-want +got):\n%s", diff)
	}

	got, changed, err = Apply(week, 1, 2, func(Move) bool { return true })
	if err != nil || !changed {
		t.Fatalf("Apply() confirmed = %v, %v", changed, err)
	}
	if got[2].Intensity != constants.IntensityMedium {
		t.Errorf("Apply() confirmed week[2] = %+v", got[2])
	}
	// input untouched
	if week[2].Intensity != "" {
		t.Errorf("Apply() mutated its input: %+v", week[2])
	}
}

func TestDefaultWeek(t *testing.T) {
	thursday := time.Date(2025, 4, 3, 9, 0, 0, 0, time.UTC)
	week := DefaultWeek(thursday)

	if err := models.ValidateWeek(week); err != nil {
		t.Fatalf("DefaultWeek() is invalid: %v", err)
	}
	if week[0].Day != "Monday" || week[0].Date != "31 March" {
		t.Errorf("week[0] = %+v, want Monday 31 March", week[0])
	}
	if week[6].Date != "06 April" {
		t.Errorf("week[6].Date = %q, want 06 April", week[6].Date)
	}
}
