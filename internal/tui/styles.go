package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#7D56F4")
	colorSuccess = lipgloss.Color("#3FB950")
	colorError   = lipgloss.Color("#F85149")
	colorDim     = lipgloss.Color("#8B949E")

	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	stepActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Underline(true)
	stepStyle       = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle      = lipgloss.NewStyle().Foreground(colorDim)
	valueStyle      = lipgloss.NewStyle().Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(colorError)
	successStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	helpStyle       = lipgloss.NewStyle().Foreground(colorDim).MarginTop(1)
	cursorStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	choiceStyle     = lipgloss.NewStyle().Foreground(colorDim)
	chosenStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	sectionStyle    = lipgloss.NewStyle().MarginTop(1)
	panelStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)
