package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header      lipgloss.Style
	metricLabel lipgloss.Style
	metricValue lipgloss.Style
	subtle      lipgloss.Style
	box         lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, t Theme) styles {
	return styles{
		header: r.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		metricLabel: r.NewStyle().Foreground(t.Muted),
		metricValue: r.NewStyle().Foreground(t.Secondary).Bold(true),
		subtle:      r.NewStyle().Foreground(t.Muted),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

func (s styles) metric(label, value string) string {
	return s.metricLabel.Render(label+": ") + s.metricValue.Render(value)
}

// separator draws a centered diamond rule.
func (s styles) separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.subtle.Render(left + " ◆ " + right)
}
