package viz

import "github.com/charmbracelet/lipgloss"

// Warm sand on a dark plum background.
const (
	colorSand   = lipgloss.Color("#EDC893")
	colorAccent = lipgloss.Color("#BF675A")
	colorMuted  = lipgloss.Color("#8a7a7c")
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(colorSand).Bold(true).MarginBottom(1)
	canvasStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted)
	bodyStyle      = lipgloss.NewStyle().Foreground(colorSand)
	highlightStyle = lipgloss.NewStyle().Foreground(colorAccent)
	statsStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(colorMuted).Padding(0, 2).Width(40)
	labelStyle     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	valueStyle     = lipgloss.NewStyle().Foreground(colorSand)
	graphStyle     = lipgloss.NewStyle().Foreground(colorAccent).PaddingTop(1)
	helpStyle      = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9fd38a"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)
