package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	completedStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Faint(true)

	fallingStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("9"))

	filterActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Underline(true)

	faintStyle = lipgloss.NewStyle().Faint(true)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
)
