// Package history shows the owner's recent session lifecycle events.
package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const pageSize = 50

type loadedMsg struct {
	events []store.SessionEventRecord
	err    error
}

// HistoryScreen lists events newest first. f cycles a kind filter and
// enter toggles the session id and detail under a row.
type HistoryScreen struct {
	repo   store.EventRepo
	owner  string
	all    []store.SessionEventRecord
	err    error
	loaded bool

	kind   int // 0 is every kind, else session.Kinds[kind-1]
	cursor int
	open   map[int64]bool // by sequence
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(repo store.EventRepo, owner string) *HistoryScreen {
	return &HistoryScreen{repo: repo, owner: owner, open: map[int64]bool{}}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, owner := s.repo, s.owner
	return func() tea.Msg {
		events, err := repo.QuerySessionEvents(context.Background(), store.QueryOpts{Owner: owner, Limit: pageSize})
		return loadedMsg{events: events, err: err}
	}
}

func (s *HistoryScreen) Title() string {
	if s.kind == 0 {
		return "History"
	}
	return "History · " + session.Kinds[s.kind-1].String()
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "f", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

// visible applies the kind filter.
func (s *HistoryScreen) visible() []store.SessionEventRecord {
	if s.kind == 0 {
		return s.all
	}
	want := session.Kinds[s.kind-1].String()
	var out []store.SessionEventRecord
	for _, e := range s.all {
		if e.Kind == want {
			out = append(out, e)
		}
	}
	return out
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.all, s.err, s.loaded = msg.events, msg.err, true
	case screen.SessionEventMsg:
		switch msg.Event.(type) {
		case session.CycleCompleted, session.ReviewCompleted, session.QuizCompleted, session.SessionCancelled:
			// A session behind this screen just ended.
			if msg.Event.EventRef().Owner == session.OwnerID(s.owner) {
				return s, s.Init()
			}
		}
	case tea.KeyPressMsg:
		rows := s.visible()
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.cursor = max(s.cursor-1, 0)
		case "down", "j":
			s.cursor = max(min(s.cursor+1, len(rows)-1), 0)
		case "enter":
			if s.cursor < len(rows) {
				seq := rows[s.cursor].Sequence
				s.open[seq] = !s.open[seq]
			}
		case "f":
			s.kind = (s.kind + 1) % (len(session.Kinds) + 1)
			s.cursor = 0
		}
	}
	return s, nil
}

// Line formats one event as a single history row.
func Line(e store.SessionEventRecord) string {
	topic := e.Topic
	if topic == "" {
		topic = "-"
	}

	var result string
	switch e.Action {
	case store.ActionCompleted:
		if e.Kind == session.KindTimedCycle.String() {
			result = fmt.Sprintf("%d focus phases", e.Total)
		} else {
			result = fmt.Sprintf("%d/%d correct", e.Correct, e.Total)
		}
	case store.ActionStart:
		if e.Total > 0 {
			result = fmt.Sprintf("%d items", e.Total)
		}
	case store.ActionCancelled:
		result = e.Detail
	}

	line := fmt.Sprintf("%s  %-10s %-9s %-24s %s",
		e.Timestamp.Local().Format("Jan 02 15:04"), e.Kind, e.Action, topic, result)
	return strings.TrimRight(line, " ")
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(st lipgloss.Style, text string) string {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, st.Render(text))
	}
	rows := s.visible()
	switch {
	case s.err != nil:
		return center(theme.ErrorText, "Error: "+s.err.Error())
	case !s.loaded:
		return center(theme.Hint, "Loading history...")
	case len(rows) == 0 && s.kind == 0:
		return center(theme.Hint, "No sessions yet. Start studying!")
	case len(rows) == 0:
		return center(theme.Hint, "No "+session.Kinds[s.kind-1].String()+" sessions. Press f to change the filter.")
	}

	// Keep the cursor on screen; each row takes one line plus one when open.
	first := max(s.cursor-(height-2), 0)

	lines := []string{""}
	for i := first; i < len(rows) && len(lines) < height; i++ {
		e := rows[i]
		prefix, st := "  ", lipgloss.NewStyle().Foreground(actionColor(e.Action))
		if i == s.cursor {
			prefix, st = "▸ ", st.Bold(true)
		}
		lines = append(lines, st.Render(prefix+Line(e)))
		if s.open[e.Sequence] {
			detail := e.Detail
			if detail == "" {
				detail = "no details"
			}
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("    session %s · %s", e.SessionID, detail)))
		}
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func actionColor(action string) color.Color {
	switch action {
	case store.ActionCompleted:
		return theme.Success
	case store.ActionCancelled:
		return theme.Accent
	}
	return theme.Text
}
