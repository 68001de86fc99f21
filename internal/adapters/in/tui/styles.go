package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	stepDoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stepActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	stepTodoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
