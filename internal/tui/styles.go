package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cursorStyle     = lipgloss.NewStyle().Bold(true)
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	statusStyles = map[string]lipgloss.Style{
		"NEW":     lipgloss.NewStyle().Faint(true),
		"RUNNING": lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		"DONE":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"FAILED":  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)
