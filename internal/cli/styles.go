package cli

import "github.com/charmbracelet/lipgloss"

// Terminal palette for command output.
const (
	Green  = lipgloss.Color("#A6A75D")
	Red    = lipgloss.Color("#AC3835")
	Amber  = lipgloss.Color("#CC8B3F")
	Cyan   = lipgloss.Color("#3097C6")
	Dimmed = lipgloss.Color("#5C4F4B")
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(Green)
	failStyle   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(Cyan).Width(22)
	dimStyle    = lipgloss.NewStyle().Foreground(Dimmed)
)

func okMark() string {
	return okStyle.Render("✓")
}

func failMark() string {
	return failStyle.Render("✗")
}
