package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#7C3AED") // violet
	Secondary = lipgloss.Color("#0EA5E9") // sky
	Accent    = lipgloss.Color("#F97316") // orange
	Success   = lipgloss.Color("#10B981") // emerald
	Error     = lipgloss.Color("#EF4444") // red
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#8B93A7")
	Panel     = lipgloss.Color("#1B1F2A")
	Border    = lipgloss.Color("#3A4152")
)

// Focus timer phases. Work is violet, breaks cool down to sky and orange.
var (
	FocusColor      = Primary
	ShortBreakColor = Secondary
	LongBreakColor  = Accent
)

var (
	Title     = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle  = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body      = lipgloss.NewStyle().Foreground(Text)
	Hint      = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	ErrorText = lipgloss.NewStyle().Foreground(Error)

	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)

	// Bar frames the header and footer.
	Bar = lipgloss.NewStyle().
		Background(Panel).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
)
