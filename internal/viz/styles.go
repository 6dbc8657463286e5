package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleSet is the set of lipgloss styles derived from a Theme.
type styleSet struct {
	canvas  lipgloss.Style
	stats   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	alert   lipgloss.Style
}

func newStyles(t Theme) styleSet {
	return styleSet{
		canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(t.Bodies),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		header:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		graph:   lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Good),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warn),
		alert:   lipgloss.NewStyle().Bold(true).Foreground(t.Bad),
	}
}

// ProgressBar renders a bar filled to percent (0..1).
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	t := ThemeDeepSpace
	switch {
	case percent >= 1:
		return lipgloss.NewStyle().Foreground(t.Good).Render(bar)
	case percent > 0.5:
		return lipgloss.NewStyle().Foreground(t.Accent).Render(bar)
	default:
		return lipgloss.NewStyle().Foreground(t.Warn).Render(bar)
	}
}
