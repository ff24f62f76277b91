package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/schedule"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	week := m.reorderer.Week()
	source, dragging := m.reorderer.Source()
	pending, hasPending := m.reorderer.Pending()

	for i, slot := range week {
		slot.Completed = m.completed[i]
		line := m.viewSlot(slot)

		switch {
		case dragging && i == source:
			line = pickedStyle.Render("» " + line)
		case hasPending && (i == pending.From || i == pending.To):
			line = warningStyle.Render("! " + line)
		default:
			line = "  " + line
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	status := m.status
	if hasPending {
		status = dangerStyle.Render(status)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Training week "+m.weekOf),
		b.String(),
		status,
		"",
		m.help.View(m.keys),
	))
}

func (m Model) viewSlot(s models.Slot) string {
	check := "○"
	if s.Completed {
		check = "✓"
	}
	label := fmt.Sprintf("%-9s %-10s %s %-18s", s.Day, s.Date, check, s.Activity)
	if s.Status == constants.SlotRest {
		return restStyle.Render(label)
	}

	intensity := string(s.Intensity)
	if style, ok := intensityStyles[s.Intensity]; ok {
		intensity = style.Render(intensity)
	}
	if schedule.IsIntensive(s.Intensity) {
		intensity += " ▲"
	}
	return label + " " + intensity
}
