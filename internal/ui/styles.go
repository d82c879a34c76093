package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	movingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	matchStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	focusStyle    = lipgloss.NewStyle().Reverse(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)

	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)
