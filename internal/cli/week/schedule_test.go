package week

import (
	"errors"
	"testing"

	"github.com/julianstephens/stridelog/internal/cli/clitest"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/schedule"
)

func TestParseDay(t *testing.T) {
	week := schedule.DefaultWeek(clitest.Now)

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"7", 6, false},
		{"thu", 3, false},
		{"Saturday", 5, false},
		{" su ", 6, false},
		{"0", 0, true},
		{"8", 0, true},
		{"t", 0, true},
		{"xyz", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(week, tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDay(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestScheduleMove(t *testing.T) {
	ctx := clitest.Seeded(t)
	asked := 0
	ctx.Confirm = func(string) (bool, error) {
		asked++
		return false, nil
	}

	// easy run onto a rest day goes through without a question
	if err := (&ScheduleMoveCmd{From: "2", To: "1"}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	week, _ := ctx.Store.GetWeek()
	if week[0].Activity != "Base run" || week[1].Status != constants.SlotRest {
		t.Errorf("Monday=%q Tuesday=%q after move", week[0].Activity, week[1].Activity)
	}
	if asked != 0 {
		t.Errorf("asked %d times for a plain swap", asked)
	}

	// fartlek onto Friday would touch Saturday; declined
	if err := (&ScheduleMoveCmd{From: "thu", To: "fri"}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	week, _ = ctx.Store.GetWeek()
	if asked != 1 || week[3].Activity != "Fartlek" {
		t.Errorf("declined move: asked=%d Thursday=%q", asked, week[3].Activity)
	}

	// --yes skips the prompt and applies
	if err := (&ScheduleMoveCmd{From: "thu", To: "fri", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	week, _ = ctx.Store.GetWeek()
	if asked != 1 || week[4].Activity != "Fartlek" {
		t.Errorf("forced move: asked=%d Friday=%q", asked, week[4].Activity)
	}
}

func TestScheduleMovePromptError(t *testing.T) {
	ctx := clitest.Seeded(t)
	boom := errors.New("no terminal")
	ctx.Confirm = func(string) (bool, error) { return false, boom }

	err := (&ScheduleMoveCmd{From: "4", To: "5"}).Run(ctx)
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestScheduleMoveBadDay(t *testing.T) {
	ctx := clitest.Seeded(t)
	if err := (&ScheduleMoveCmd{From: "9", To: "1"}).Run(ctx); err == nil {
		t.Error("Run() with day 9 should fail")
	}
}

func TestScheduleDone(t *testing.T) {
	ctx := clitest.Seeded(t)
	cmd := &ScheduleDoneCmd{Day: "tue"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	week, _ := ctx.Store.GetWeek()
	if !week[1].Completed {
		t.Fatal("Tuesday not marked done")
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	week, _ = ctx.Store.GetWeek()
	if week[1].Completed {
		t.Error("second run should reopen Tuesday")
	}
}

func TestScheduleReset(t *testing.T) {
	ctx := clitest.Seeded(t)
	if err := (&ScheduleMoveCmd{From: "2", To: "1"}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if err := (&ScheduleResetCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	week, _ := ctx.Store.GetWeek()
	if week[0].Status != constants.SlotRest || week[1].Activity != "Base run" {
		t.Errorf("week not reset: %+v", week[:2])
	}
	settings, _ := ctx.Store.GetSettings()
	if settings.WeekStart != "2025-03-10" {
		t.Errorf("WeekStart = %q, want 2025-03-10", settings.WeekStart)
	}
}

func TestScheduleResetDeclined(t *testing.T) {
	ctx := clitest.Seeded(t)
	if err := (&ScheduleMoveCmd{From: "2", To: "1"}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	ctx.Confirm = func(string) (bool, error) { return false, nil }
	if err := (&ScheduleResetCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	week, _ := ctx.Store.GetWeek()
	if week[0].Activity != "Base run" {
		t.Error("declined reset still replaced the week")
	}
}

func TestScheduleShowAndCheck(t *testing.T) {
	ctx := clitest.Seeded(t)
	if err := (&ScheduleShowCmd{}).Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}
	if err := (&ScheduleCheckCmd{}).Run(ctx); err != nil {
		t.Errorf("check failed: %v", err)
	}
}
