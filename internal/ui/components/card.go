package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// ContentWidth is the inner width of cards: the frame minus margins,
// kept between 20 and 70 columns.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 70)
}

// Card wraps content in a rounded-border box at the given content width.
func Card(content string, cw int, border lipgloss.Style) string {
	return border.
		Border(lipgloss.RoundedBorder()).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// PlainCard is a Card with the default border color.
func PlainCard(content string, cw int) string {
	return Card(content, cw, lipgloss.NewStyle().BorderForeground(theme.Border))
}
