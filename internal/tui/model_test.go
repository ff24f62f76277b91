package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/schedule"
)

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestSwapWithoutWarning(t *testing.T) {
	// Tuesday base run onto Monday rest
	m := New(schedule.DefaultWeek(monday), "10 March")
	m = press(t, m, "j", "enter", "k", "enter")

	week := m.Week()
	if week[0].Activity != "Base run" || week[1].Activity != "Rest" {
		t.Errorf("after swap Monday=%q Tuesday=%q", week[0].Activity, week[1].Activity)
	}
	if week[0].Day != "Monday" {
		t.Errorf("day labels moved: slot 0 is %q", week[0].Day)
	}
	if !m.Changed() {
		t.Error("Changed() = false after a swap")
	}
	if m.State() != schedule.StateIdle {
		t.Errorf("State() = %q, want idle", m.State())
	}
}

func TestIntensiveMoveAsksFirst(t *testing.T) {
	// Thursday fartlek onto Friday would sit next to Saturday's long run
	m := New(schedule.DefaultWeek(monday), "10 March")
	m = press(t, m, "j", "j", "j", "enter", "j", "enter")

	if m.State() != schedule.StatePendingConfirmation {
		t.Fatalf("State() = %q, want pending_confirmation", m.State())
	}
	if !strings.Contains(m.View(), "Move anyway?") {
		t.Error("View() does not show the warning")
	}

	// other keys are ignored while the question is open
	m = press(t, m, "j", "x")
	if m.Cursor() != 4 || m.Changed() {
		t.Fatalf("keys leaked through the pending question: cursor %d changed %v", m.Cursor(), m.Changed())
	}

	m = press(t, m, "n")
	if m.Changed() || m.State() != schedule.StateIdle {
		t.Fatal("cancel applied the move")
	}

	m = press(t, m, "k", "enter", "j", "enter", "y")
	week := m.Week()
	if week[4].Activity != "Fartlek" || week[3].Activity != "Rest" {
		t.Errorf("after confirm Thursday=%q Friday=%q", week[3].Activity, week[4].Activity)
	}
}

func TestToggleDoneAndSave(t *testing.T) {
	m := New(schedule.DefaultWeek(monday), "10 March")
	m = press(t, m, "j", "x")
	if !m.Week()[1].Completed {
		t.Fatal("x did not mark Tuesday done")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(Model)
	if !m.Saved() || cmd == nil {
		t.Errorf("s should save and quit: Saved()=%v cmd=%v", m.Saved(), cmd)
	}
	if m.View() != "" {
		t.Error("View() after quitting should be empty")
	}
}

func TestQuitDiscards(t *testing.T) {
	m := New(schedule.DefaultWeek(monday), "10 March")
	m = press(t, m, "enter", "j", "enter", "q")
	if m.Saved() {
		t.Error("q should not save")
	}
}

func TestEscPutsBack(t *testing.T) {
	m := New(schedule.DefaultWeek(monday), "10 March")
	m = press(t, m, "enter", "esc", "down", "enter", "enter")
	if m.Changed() {
		t.Error("dropping on the source after esc changed the week")
	}
	if m.State() != schedule.StateIdle {
		t.Errorf("State() = %q, want idle", m.State())
	}
	if m.Week()[5].Intensity != constants.IntensityHard {
		t.Error("Saturday lost its long run")
	}
}
