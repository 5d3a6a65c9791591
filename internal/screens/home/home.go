package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/screens/explain"
	"github.com/abhisek/studybuddy/internal/screens/flashcards"
	"github.com/abhisek/studybuddy/internal/screens/focus"
	"github.com/abhisek/studybuddy/internal/screens/history"
	"github.com/abhisek/studybuddy/internal/screens/quiz"
	"github.com/abhisek/studybuddy/internal/screens/topic"
	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/study"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const banner = "s t u d y b u d d y"

// Deps are the services the home menu hands to the screens it opens.
type Deps struct {
	Service *study.Service
	Events  store.EventRepo
	Owner   session.OwnerID
	Focus   session.CycleConfig
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	svc, owner := deps.Service, deps.Owner
	limits := svc.Limits()

	items := []components.MenuItem{
		{
			Label: "Focus timer",
			Hint:  fmt.Sprintf("%s focus, %d cycles", deps.Focus.Focus, deps.Focus.Cycles),
			Action: func() tea.Cmd {
				return push(focus.New(svc, owner, deps.Focus))
			},
		},
		{
			Label: "Flash cards",
			Action: func() tea.Cmd {
				rng := topic.Range{Min: limits.MinCards, Max: limits.MaxCards, Default: limits.MinCards}
				return push(topic.New("Flash cards", rng, func(t string, n int) screen.Screen {
					return flashcards.New(svc, owner, t, n)
				}))
			},
		},
		{
			Label: "Quiz",
			Action: func() tea.Cmd {
				rng := topic.Range{Min: limits.MinQuestions, Max: limits.MaxQuestions, Default: limits.MinQuestions}
				return push(topic.New("Quiz", rng, func(t string, n int) screen.Screen {
					return quiz.New(svc, owner, t, n)
				}))
			},
		},
		{
			Label: "Explain a topic",
			Action: func() tea.Cmd {
				return push(topic.New("Explain a topic", topic.Range{}, func(t string, _ int) screen.Screen {
					return explain.New(svc, t)
				}))
			},
		},
		{
			Label:    "History",
			Disabled: deps.Events == nil,
			Action: func() tea.Cmd {
				return push(history.New(deps.Events, string(owner)))
			},
		},
		{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render(banner))
	sections = append(sections, theme.Subtitle.Width(cw).Render("Focus, review and quiz yourself on anything."))
	sections = append(sections, h.menu.View())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.PlainCard(strings.Join(sections, "\n\n"), cw))
}
