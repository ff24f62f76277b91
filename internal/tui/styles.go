package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/stridelog/internal/constants"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Bold(true)

	pickedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	restStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	intensityStyles = map[constants.Intensity]lipgloss.Style{
		constants.IntensityEasy:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		constants.IntensityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		constants.IntensityHard:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
