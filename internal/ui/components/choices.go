package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// Choices is a lettered option selector for one quiz question. Options are
// picked with the arrow keys and Enter, or directly with their letter.
type Choices struct {
	Question session.QuizQuestion
	Selected int
	Chosen   session.Letter
}

// NewChoices creates a selector for q.
func NewChoices(q session.QuizQuestion) Choices {
	return Choices{Question: q}
}

// Update handles navigation. It returns the chosen letter once a choice is
// made.
func (c Choices) Update(msg tea.Msg) (Choices, session.Letter) {
	if c.Chosen != "" {
		return c, ""
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, ""
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(session.Letters)-1 {
			c.Selected++
		}
	case "enter":
		c.Chosen = session.Letters[c.Selected]
	default:
		if l, err := session.ParseLetter(key); err == nil {
			c.Chosen = l
		}
	}
	return c, c.Chosen
}

// View renders the question and its options.
func (c Choices) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Question.Prompt) + "\n\n"

	for i, l := range session.Letters {
		prefix := "  "
		if i == c.Selected && c.Chosen == "" {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, l, c.Question.Options[l])

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Chosen == l:
			style = style.Foreground(theme.Accent).Bold(true)
		case c.Chosen != "":
			style = style.Foreground(theme.TextDim)
		case i == c.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		s += style.Render(line) + "\n"
	}
	return s
}
