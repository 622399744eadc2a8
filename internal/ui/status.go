package ui

import (
	"os"

	"github.com/amonks/tasking/task"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Badge colors per status.
var statusStyles = map[task.Status]lipgloss.Style{
	task.StatusNew:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#17A2B8")),
	task.StatusProgress: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#28A745")),
	task.StatusStop:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6C757D")),
	task.StatusDone:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
}

// ColorEnabled reports whether stdout should receive ANSI styling.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// StatusBadge renders a status label, colored when color is true.
func StatusBadge(status task.Status, labels task.Labels, color bool) string {
	label := labels.Name(status)
	if !color {
		return label
	}
	style, ok := statusStyles[status]
	if !ok {
		return label
	}
	return style.Render(label)
}
