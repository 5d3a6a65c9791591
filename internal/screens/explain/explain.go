// Package explain shows a generated plain-text explanation of a topic.
package explain

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/study"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

type explainedMsg struct {
	Text string
	Err  error
}

// Screen displays one explanation, scrollable line by line.
type Screen struct {
	svc    *study.Service
	topic  string
	text   string
	errMsg string
	loaded bool
	offset int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates an explanation screen for topic.
func New(svc *study.Service, topic string) *Screen {
	return &Screen{svc: svc, topic: topic}
}

func (s *Screen) Init() tea.Cmd {
	svc, topic := s.svc, s.topic
	return func() tea.Msg {
		text, err := svc.Explain(context.Background(), topic)
		return explainedMsg{Text: text, Err: err}
	}
}

func (s *Screen) Title() string {
	return "Explain: " + s.topic
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.text = msg.Text
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch {
	case s.errMsg != "":
		body = theme.ErrorText.Render(s.errMsg)
	case !s.loaded:
		body = theme.Hint.Render(fmt.Sprintf("Explaining %s...", s.topic))
	default:
		wrapped := lipgloss.NewStyle().Width(cw - 4).Render(s.text)
		lines := strings.Split(wrapped, "\n")
		visible := height - 6
		if visible < 1 {
			visible = 1
		}
		maxOffset := len(lines) - visible
		if maxOffset < 0 {
			maxOffset = 0
		}
		if s.offset > maxOffset {
			s.offset = maxOffset
		}
		end := s.offset + visible
		if end > len(lines) {
			end = len(lines)
		}
		body = theme.Body.Render(strings.Join(lines[s.offset:end], "\n"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.PlainCard(body, cw))
}
