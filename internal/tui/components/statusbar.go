package components

import (
	"strings"

	"github.com/theirongolddev/wander/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders a full-width bar with left and right segments.
// A non-empty message replaces the right segment and is styled as a warning
// when isErr is set.
func RenderStatusBar(width int, left, right string, isErr bool) string {
	t := theme.Active

	rightStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	if isErr {
		rightStyle = rightStyle.Foreground(t.Error)
	}
	l := lipgloss.NewStyle().Foreground(t.TextDim).Render(left)
	r := rightStyle.Render(right)

	gap := width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}
	return l + strings.Repeat(" ", gap) + r
}
