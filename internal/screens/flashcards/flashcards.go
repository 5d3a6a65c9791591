// Package flashcards implements the flash card review screen.
package flashcards

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/study"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

type startedMsg struct {
	ID  string
	Err error
}

// inputDoneMsg reports the result of a flip or assessment.
type inputDoneMsg struct {
	Err error
}

// Screen reviews a generated deck one card at a time.
type Screen struct {
	svc   *study.Service
	owner session.OwnerID
	topic string
	count int

	sessionID string
	loading   bool
	index     int
	total     int
	front     string
	back      *session.ReviewItem
	progress  session.ReviewProgress
	summary   *session.ReviewSummary
	reason    string
	errMsg    string
	notice    string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a review screen that generates count cards about topic.
func New(svc *study.Service, owner session.OwnerID, topic string, count int) *Screen {
	return &Screen{svc: svc, owner: owner, topic: topic, count: count, loading: true}
}

func (s *Screen) Init() tea.Cmd {
	return func() tea.Msg {
		deck, err := s.svc.StartReview(context.Background(), s.owner, s.topic, s.count)
		if err != nil {
			return startedMsg{Err: err}
		}
		return startedMsg{ID: deck.Handle().ID}
	}
}

func (s *Screen) Title() string {
	return "Flash cards: " + s.topic
}

func (s *Screen) done() bool {
	return s.summary != nil || s.reason != "" || s.errMsg != ""
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.done():
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
	case s.back == nil:
		return []layout.KeyHint{
			{Key: "Space", Description: "Flip"},
			{Key: "Esc", Description: "Quit review"},
		}
	default:
		return []layout.KeyHint{
			{Key: "y", Description: "Got it"},
			{Key: "n", Description: "Missed it"},
			{Key: "u", Description: "Not sure"},
			{Key: "Esc", Description: "Quit review"},
		}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		if s.sessionID == "" {
			s.sessionID = msg.ID
		}
		return s, nil

	case inputDoneMsg:
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
		return s, nil

	case screen.SessionEventMsg:
		s.handleEvent(msg)
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *Screen) handleEvent(msg screen.SessionEventMsg) {
	if !msg.For(s.owner, session.KindReviewDeck) {
		return
	}
	id := msg.Event.EventRef().SessionID
	if s.sessionID == "" {
		s.sessionID = id
	}
	if id != s.sessionID {
		return
	}

	switch ev := msg.Event.(type) {
	case session.CardShown:
		s.loading = false
		s.index, s.total, s.front = ev.Index, ev.Total, ev.Front
		s.back = nil
		s.progress = ev.Progress
		s.notice = ""
	case session.CardFlipped:
		item := ev.Item
		s.back = &item
		s.progress = ev.Progress
	case session.CardAssessed:
		s.progress = ev.Progress
	case session.ReviewCompleted:
		summary := ev.Summary
		s.summary = &summary
	case session.SessionCancelled:
		s.reason = ev.Reason
	}
}

func (s *Screen) handleKey(key string) tea.Cmd {
	pop := func() tea.Msg { return router.PopScreenMsg{} }

	if s.done() {
		switch key {
		case "enter", "esc", "space":
			return pop
		}
		return nil
	}

	switch key {
	case "esc":
		return tea.Sequence(s.input(func() error {
			return s.svc.Cancel(s.owner, session.KindReviewDeck)
		}), pop)
	case "space", "enter":
		if s.back == nil {
			return s.input(func() error { return s.svc.Flip(s.owner) })
		}
	case "y", "1":
		return s.assess(session.OutcomeCorrect)
	case "n", "2":
		return s.assess(session.OutcomeIncorrect)
	case "u", "3":
		return s.assess(session.OutcomeUnknown)
	}
	return nil
}

func (s *Screen) assess(o session.Outcome) tea.Cmd {
	if s.back == nil {
		return nil
	}
	return s.input(func() error { return s.svc.Assess(s.owner, o) })
}

// input runs fn off the update loop; the session notifies the program
// synchronously while it holds its lock.
func (s *Screen) input(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return inputDoneMsg{Err: fn()}
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	switch {
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	case s.summary != nil:
		b.WriteString(renderSummary(*s.summary, cw))
	case s.reason != "":
		b.WriteString(theme.Subtitle.Width(cw).Render("Review ended (" + s.reason + ")."))
	case s.loading:
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Generating %d cards about %s...", s.count, s.topic)))
	default:
		b.WriteString(theme.Subtitle.Width(cw).Render(fmt.Sprintf("Card %d of %d", s.index+1, s.total)))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 4).Render(s.front))
		if s.back != nil {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Width(cw - 4).Render(s.back.Back))
		}
		b.WriteString("\n\n")
		bar := components.NewProgressBar(s.progress.Cursor, s.total, cw-4)
		bar.ShowCount = true
		b.WriteString(bar.View())
		if s.notice != "" {
			b.WriteString("\n\n")
			b.WriteString(theme.ErrorText.Render(s.notice))
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.PlainCard(b.String(), cw))
}

func renderSummary(sum session.ReviewSummary, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Review complete"))
	b.WriteString("\n\n")
	b.WriteString(theme.Correct.Render(fmt.Sprintf("%d correct", sum.Correct)))
	b.WriteString("   ")
	b.WriteString(theme.Incorrect.Render(fmt.Sprintf("%d incorrect", sum.Incorrect)))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Accuracy: %.0f%%", sum.Accuracy)))
	if len(sum.TopicsToReview) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Render("Review next:"))
		for _, t := range sum.TopicsToReview {
			b.WriteString("\n  • " + t)
		}
	}
	return b.String()
}
