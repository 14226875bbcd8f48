// Package components provides reusable TUI widgets for the itinerary browser.
package components

import (
	"github.com/theirongolddev/wander/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Metric is one labelled figure shown on a card.
type Metric struct {
	Label, Value, Note string
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// MetricCard renders a bordered card with a label, a bold value and an
// optional note. outerWidth includes the border.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	content := lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label) + "\n" +
		lipgloss.NewStyle().Foreground(t.Money).Bold(true).Render(m.Value)
	if m.Note != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render(m.Note)
	}
	return cardStyle(outerWidth).Render(content)
}

// MetricRow renders metric cards side by side, filling totalWidth.
func MetricRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	rendered := make([]string, len(metrics))
	for i, m := range metrics {
		rendered[i] = MetricCard(m, widths[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// ContentCard renders a bordered card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active

	content := ""
	if title != "" {
		content = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(title) + "\n"
	}
	return cardStyle(outerWidth).Render(content + body)
}

// CardInnerWidth returns the usable text width inside a card of outerWidth.
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4 // 2 border + 2 padding
	if w < 10 {
		w = 10
	}
	return w
}

func cardStyle(outerWidth int) lipgloss.Style {
	w := outerWidth - 2
	if w < 10 {
		w = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(w).
		Padding(0, 1)
}
