// Package tui is the interactive training week editor: move the cursor,
// pick a day up, drop it on another and answer the warning when two hard
// sessions would end up back to back.
package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/schedule"
)

type Model struct {
	reorderer *schedule.Reorderer
	original  []models.Slot
	completed []bool
	weekOf    string
	cursor    int
	keys      KeyMap
	help      help.Model
	status    string
	saved     bool
	quitting  bool
	width     int
	height    int
}

// New opens the editor on a copy of week. weekOf labels the header.
func New(week []models.Slot, weekOf string) Model {
	completed := make([]bool, len(week))
	for i, s := range week {
		completed[i] = s.Completed
	}
	return Model{
		reorderer: schedule.New(week),
		original:  append([]models.Slot(nil), week...),
		completed: completed,
		weekOf:    weekOf,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Week returns the edited week, completion flags included
func (m Model) Week() []models.Slot {
	week := m.reorderer.Week()
	for i := range week {
		week[i].Completed = m.completed[i]
	}
	return week
}

// Changed reports whether the edited week differs from the one passed to New
func (m Model) Changed() bool {
	return !slices.Equal(m.original, m.Week())
}

// Saved reports whether the user left with the save key
func (m Model) Saved() bool {
	return m.saved
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) State() schedule.State {
	return m.reorderer.State()
}
