// Package focus implements the focus timer screen.
package focus

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

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

type tickMsg time.Time

// Screen runs one timed focus cycle and shows a countdown for the current
// phase.
type Screen struct {
	svc   *study.Service
	owner session.OwnerID
	cfg   session.CycleConfig

	sessionID string
	phase     session.PhaseChanged
	hasPhase  bool
	now       time.Time

	completed int
	finished  bool
	reason    string
	errMsg    string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a focus screen for owner.
func New(svc *study.Service, owner session.OwnerID, cfg session.CycleConfig) *Screen {
	return &Screen{svc: svc, owner: owner, cfg: cfg, now: time.Now()}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (s *Screen) Init() tea.Cmd {
	start := func() tea.Msg {
		tc, err := s.svc.StartFocus(context.Background(), s.owner, s.cfg)
		if err != nil {
			return startedMsg{Err: err}
		}
		return startedMsg{ID: tc.Handle().ID}
	}
	return tea.Batch(start, tick())
}

func (s *Screen) Title() string {
	return "Focus"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.finished || s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Stop timer"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.finished = true
			return s, nil
		}
		if s.sessionID == "" {
			s.sessionID = msg.ID
		}
		return s, nil

	case tickMsg:
		s.now = time.Time(msg)
		if s.finished {
			return s, nil
		}
		return s, tick()

	case screen.SessionEventMsg:
		s.handleEvent(msg)
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, s.leave()
		}
	}
	return s, nil
}

func (s *Screen) handleEvent(msg screen.SessionEventMsg) {
	if !msg.For(s.owner, session.KindTimedCycle) {
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
	case session.PhaseChanged:
		s.phase = ev
		s.hasPhase = true
		s.now = ev.StartedAt
	case session.CycleCompleted:
		s.completed = ev.FocusPhases
		s.finished = true
	case session.SessionCancelled:
		s.reason = ev.Reason
		s.finished = true
	}
}

func (s *Screen) leave() tea.Cmd {
	pop := func() tea.Msg { return router.PopScreenMsg{} }
	if s.finished {
		return pop
	}
	owner := s.owner
	svc := s.svc
	return tea.Sequence(func() tea.Msg {
		_ = svc.Cancel(owner, session.KindTimedCycle)
		return nil
	}, pop)
}

// Remaining returns the time left in the current phase.
func (s *Screen) Remaining() time.Duration {
	if !s.hasPhase {
		return 0
	}
	left := s.phase.Duration - s.now.Sub(s.phase.StartedAt)
	if left < 0 {
		return 0
	}
	return left.Round(time.Second)
}

func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func phaseColor(p session.Phase) color.Color {
	switch p {
	case session.PhaseShortBreak:
		return theme.ShortBreakColor
	case session.PhaseLongBreak:
		return theme.LongBreakColor
	default:
		return theme.FocusColor
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	switch {
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	case s.finished && s.reason != "":
		b.WriteString(theme.Subtitle.Width(cw).Render("Timer stopped (" + s.reason + ")."))
	case s.finished:
		b.WriteString(theme.Title.Width(cw).Render("All cycles done!"))
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Width(cw).Render(fmt.Sprintf("%d focus sessions completed.", s.completed)))
	case !s.hasPhase:
		b.WriteString(theme.Hint.Render("Starting timer..."))
	default:
		ph := s.phase
		style := lipgloss.NewStyle().Foreground(phaseColor(ph.State.Phase)).Bold(true)
		b.WriteString(style.Width(cw).Align(lipgloss.Center).Render(strings.ToUpper(ph.State.Phase.String())))
		b.WriteString("\n\n")
		b.WriteString(theme.Title.Width(cw).Render(formatClock(s.Remaining())))
		b.WriteString("\n\n")
		elapsed := ph.Duration - s.Remaining()
		bar := components.NewProgressBar(int(elapsed/time.Second), int(ph.Duration/time.Second), cw-4)
		bar.Fill = phaseColor(ph.State.Phase)
		b.WriteString(bar.View())
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Width(cw).Render(
			fmt.Sprintf("Cycle %d of %d · %d remaining", ph.State.Index+1, ph.TotalCycles, ph.RemainingCycles)))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.PlainCard(b.String(), cw))
}
