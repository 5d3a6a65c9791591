// Package quiz implements the multiple-choice quiz screen and its answer
// review.
package quiz

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

type answeredMsg struct {
	Index int
	Err   error
}

// Screen runs a generated quiz, then pages through the graded answers.
type Screen struct {
	svc   *study.Service
	owner session.OwnerID
	topic string
	count int

	sessionID string
	loading   bool
	index     int
	total     int
	choices   components.Choices
	asked     bool
	reason    string
	errMsg    string
	notice    string

	score   int
	results bool
	page    session.ResultPage
	pager   session.PagerState
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a quiz screen that generates count questions about topic.
func New(svc *study.Service, owner session.OwnerID, topic string, count int) *Screen {
	return &Screen{svc: svc, owner: owner, topic: topic, count: count, loading: true}
}

func (s *Screen) Init() tea.Cmd {
	return func() tea.Msg {
		q, err := s.svc.StartQuiz(context.Background(), s.owner, s.topic, s.count)
		if err != nil {
			return startedMsg{Err: err}
		}
		return startedMsg{ID: q.Handle().ID}
	}
}

func (s *Screen) Title() string {
	return "Quiz: " + s.topic
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.results:
		return []layout.KeyHint{
			{Key: "←→", Description: "Page"},
			{Key: "Enter", Description: "Done"},
		}
	case s.reason != "" || s.errMsg != "":
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
	default:
		return []layout.KeyHint{
			{Key: "A-D", Description: "Answer"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Esc", Description: "Quit quiz"},
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

	case answeredMsg:
		if msg.Err != nil && msg.Index == s.index && !s.results {
			s.notice = msg.Err.Error()
			s.choices.Chosen = ""
		}
		return s, nil

	case screen.SessionEventMsg:
		s.handleEvent(msg)
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleEvent(msg screen.SessionEventMsg) {
	if !msg.For(s.owner, session.KindQuiz) {
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
	case session.QuestionShown:
		s.loading = false
		s.index, s.total = ev.Index, ev.Total
		s.choices = components.NewChoices(ev.Question)
		s.asked = true
		s.notice = ""
	case session.QuizCompleted:
		s.score, s.total = ev.Score, ev.Total
		s.results = true
		if ev.Results != nil {
			s.page, _ = ev.Results.Current()
			s.pager = ev.Results.State()
		}
	case session.SessionCancelled:
		s.reason = ev.Reason
	}
}

func (s *Screen) handleKey(msg tea.KeyMsg) tea.Cmd {
	pop := func() tea.Msg { return router.PopScreenMsg{} }
	key := msg.String()

	switch {
	case s.results:
		return s.handleResultsKey(key, pop)
	case s.reason != "" || s.errMsg != "":
		if key == "enter" || key == "esc" {
			return pop
		}
		return nil
	case key == "esc":
		svc, owner := s.svc, s.owner
		return tea.Sequence(func() tea.Msg {
			_ = svc.Cancel(owner, session.KindQuiz)
			return nil
		}, pop)
	case !s.asked:
		return nil
	}

	var letter session.Letter
	s.choices, letter = s.choices.Update(msg)
	if letter == "" {
		return nil
	}
	svc, owner, index := s.svc, s.owner, s.index
	return func() tea.Msg {
		return answeredMsg{Index: index, Err: svc.AnswerAt(owner, index, letter)}
	}
}

func (s *Screen) handleResultsKey(key string, pop tea.Cmd) tea.Cmd {
	switch key {
	case "right", "l", "n":
		if page, err := s.svc.NextPage(s.owner); err == nil {
			s.page = page
		}
	case "left", "h", "p":
		if page, err := s.svc.PreviousPage(s.owner); err == nil {
			s.page = page
		}
	case "enter", "esc", "q":
		_ = s.svc.CloseResults(s.owner)
		return pop
	}
	if v, err := s.svc.Results(s.owner); err == nil {
		s.pager = v.State()
	}
	return nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	switch {
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	case s.results:
		b.WriteString(s.renderResults(cw))
	case s.reason != "":
		b.WriteString(theme.Subtitle.Width(cw).Render("Quiz ended (" + s.reason + ")."))
	case s.loading || !s.asked:
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Generating %d questions about %s...", s.count, s.topic)))
	default:
		b.WriteString(theme.Subtitle.Width(cw).Render(fmt.Sprintf("Question %d of %d", s.index+1, s.total)))
		b.WriteString("\n\n")
		b.WriteString(s.choices.View())
		if s.notice != "" {
			b.WriteString("\n")
			b.WriteString(theme.ErrorText.Render(s.notice))
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.PlainCard(b.String(), cw))
}

func (s *Screen) renderResults(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render(fmt.Sprintf("Score: %d / %d", s.score, s.total)))
	b.WriteString("\n\n")

	if s.pager.Total == 0 {
		return b.String()
	}

	p := s.page
	b.WriteString(theme.Subtitle.Width(cw).Render(fmt.Sprintf("Answer %d of %d", p.Number, s.pager.Total)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 4).Render(p.Question.Prompt))
	b.WriteString("\n\n")

	given := "no answer"
	if p.Given != "" {
		given = fmt.Sprintf("%s) %s", p.Given, p.Question.Options[p.Given])
	}
	if p.Correct {
		b.WriteString(theme.Correct.Render("✓ " + given))
	} else {
		b.WriteString(theme.Incorrect.Render("✗ " + given))
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render(fmt.Sprintf("  %s) %s", p.Question.Correct, p.Question.Options[p.Question.Correct])))
	}
	if p.Question.Rationale != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(cw - 4).Render(p.Question.Rationale))
	}

	var nav []string
	if !s.pager.First {
		nav = append(nav, "← previous")
	}
	if !s.pager.Last {
		nav = append(nav, "next →")
	}
	if len(nav) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(strings.Join(nav, "   ")))
	}
	return b.String()
}
