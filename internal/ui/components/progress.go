package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// ProgressBar draws done/total as a block bar, optionally followed by
// "done/total".
type ProgressBar struct {
	Done, Total int
	Width       int
	ShowCount   bool
	// Fill colors the done part. Defaults to theme.Secondary.
	Fill color.Color
}

// NewProgressBar returns a bar Width cells wide.
func NewProgressBar(done, total, width int) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width}
}

// Fraction returns done/total clamped to [0, 1]. A zero total is 0.
func Fraction(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(float64(done)/float64(total), 0), 1)
}

func (p ProgressBar) View() string {
	var count string
	if p.ShowCount {
		count = fmt.Sprintf("  %d/%d", p.Done, p.Total)
	}
	cells := max(p.Width-len(count), 4)
	filled := int(float64(cells) * Fraction(p.Done, p.Total))

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	return lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", cells-filled)) +
		theme.Hint.Render(count)
}
