// Package router keeps the stack of screens the TUI navigates through.
// Screens never hold a reference to the router; they navigate by returning
// one of the *ScreenMsg messages from a command.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg goes back one screen. The root screen is never popped.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen, e.g. a topic form for the
// session it starts, so that going back skips the form.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Pop() tea.Cmd {
	if r.top() > 0 {
		r.stack[r.top()] = nil
		r.stack = r.stack[:r.top()]
	}
	return nil
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[r.top()] = s
	return s.Init()
}

// Active is the screen receiving input.
func (r *Router) Active() screen.Screen {
	return r.stack[r.top()]
}

// Depth is 1 while only the root screen is open.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages. Session events go to every screen
// on the stack so covered screens stay current; anything else goes to the
// active screen only.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case screen.SessionEventMsg:
		var cmds []tea.Cmd
		for i := range r.stack {
			cmds = append(cmds, r.deliver(i, msg))
		}
		return tea.Batch(cmds...)
	default:
		return r.deliver(r.top(), msg)
	}
}

func (r *Router) deliver(i int, msg tea.Msg) tea.Cmd {
	next, cmd := r.stack[i].Update(msg)
	r.stack[i] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
