// Package screen defines what the router stacks and the messages every
// screen may receive.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// Screen is one page of the TUI. View renders only the area between the
// app header and footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// SessionEventMsg carries a session event into the program. The router
// hands it to every stacked screen, not only the active one.
type SessionEventMsg struct {
	Event session.Event
}

// For reports whether the event belongs to owner's session of kind.
func (m SessionEventMsg) For(owner session.OwnerID, kind session.Kind) bool {
	if m.Event == nil {
		return false
	}
	ref := m.Event.EventRef()
	return ref.Owner == owner && ref.Kind == kind
}
