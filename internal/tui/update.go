package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/stridelog/internal/schedule"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// a held move blocks everything except the answer
	if m.reorderer.State() == schedule.StatePendingConfirmation {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			move, _ := m.reorderer.Pending()
			if err := m.reorderer.Confirm(); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.status = m.describeSwap(move.From, move.To)
			m.cursor = move.To
		case key.Matches(msg, m.keys.Cancel):
			m.reorderer.Cancel()
			m.status = "Move cancelled."
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.completed)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Pick):
		m.pickOrDrop()
	case key.Matches(msg, m.keys.Cancel):
		if m.reorderer.State() == schedule.StateDragging {
			m.reorderer.Cancel()
			m.status = "Put back."
		}
	case key.Matches(msg, m.keys.Done):
		if m.reorderer.State() == schedule.StateIdle && m.cursor < len(m.completed) {
			m.completed[m.cursor] = !m.completed[m.cursor]
		}
	case key.Matches(msg, m.keys.Save):
		if m.reorderer.State() == schedule.StateDragging {
			m.reorderer.Cancel()
		}
		m.saved = true
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) pickOrDrop() {
	from, dragging := m.reorderer.Source()
	if !dragging {
		if err := m.reorderer.StartDrag(m.cursor); err != nil {
			m.status = err.Error()
			return
		}
		m.status = fmt.Sprintf("Moving %s. Pick a day and press enter.", m.reorderer.Week()[m.cursor].Day)
		return
	}

	outcome, err := m.reorderer.Drop(m.cursor)
	if err != nil {
		m.status = err.Error()
		return
	}
	switch outcome {
	case schedule.OutcomeApplied:
		m.status = m.describeSwap(from, m.cursor)
	case schedule.OutcomeNeedsConfirmation:
		week := m.reorderer.Week()
		m.status = fmt.Sprintf("⚠ %s next to another intensive day on %s. Move anyway? (y/n)",
			week[from].Activity, week[m.cursor].Day)
	default:
		m.status = ""
	}
}

func (m Model) describeSwap(from, to int) string {
	week := m.reorderer.Week()
	return fmt.Sprintf("✓ Swapped %s and %s.", week[from].Day, week[to].Day)
}
