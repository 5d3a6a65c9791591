package app

import (
	"fmt"
	"strings"
	"sync"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/screens/home"
	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/study"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Service *study.Service
	Events  store.EventRepo
	Owner   session.OwnerID
	Focus   session.CycleConfig
	Bridge  *Bridge
}

// Bridge forwards session events into the running program. It must be
// passed as the service presenter before any session starts.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var _ session.Observer = (*Bridge)(nil)

// NewBridge creates a detached bridge. Events are dropped until Attach.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes future events to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	b.send = p.Send
	b.mu.Unlock()
}

func (b *Bridge) Notify(ev session.Event) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(screen.SessionEventMsg{Event: ev})
	}
}

// AppModel is the root Bubble Tea model. It owns the window size and the
// frame; everything inside the frame belongs to the active screen.
type AppModel struct {
	router *router.Router
	svc    *study.Service
	owner  session.OwnerID
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	root := home.New(home.Deps{
		Service: opts.Service,
		Events:  opts.Events,
		Owner:   opts.Owner,
		Focus:   opts.Focus,
	})
	return AppModel{router: router.New(root), svc: opts.Service, owner: opts.Owner}
}

func (m AppModel) Init() tea.Cmd { return nil }

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, m.router.Update(msg)
}

// activeStatus lists the owner's running sessions for the header.
func (m AppModel) activeStatus() string {
	if m.svc == nil {
		return ""
	}
	var active []string
	for _, k := range session.Kinds {
		if m.svc.Active(m.owner, k) {
			active = append(active, "● "+k.String())
		}
	}
	return strings.Join(active, "  ")
}

// keyHints prefers the screen's own hints. Screens without any get Back
// once something is open on top of home.
func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); hints != nil {
			return hints
		}
	}
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	if m.router.Depth() == 1 {
		return []layout.KeyHint{quit}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}, quit}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	switch {
	case m.width == 0 || m.height == 0:
		return v
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.activeStatus(), m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)
	body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	v.SetContent(layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height))
	return v
}

// Run starts the program and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if opts.Bridge != nil {
		opts.Bridge.Attach(p)
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
