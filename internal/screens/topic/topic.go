// Package topic implements the form that collects a study topic and, for
// generated sessions, an item count.
package topic

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// Range bounds the item count field. A zero Range hides the field.
type Range struct {
	Min, Max, Default int
}

// SubmitFunc builds the screen that replaces the form.
type SubmitFunc func(topic string, count int) screen.Screen

// FormScreen collects a topic and an optional count.
type FormScreen struct {
	title    string
	topic    components.TextInput
	count    components.TextInput
	rng      Range
	onCount  bool
	errMsg   string
	onSubmit SubmitFunc
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)

// New creates a form. When rng.Max is zero only the topic is asked for.
func New(title string, rng Range, onSubmit SubmitFunc) *FormScreen {
	f := &FormScreen{
		title:    title,
		topic:    components.NewTextInput("e.g. photosynthesis", false, 120),
		count:    components.NewTextInput("", true, 3),
		rng:      rng,
		onSubmit: onSubmit,
	}
	if rng.Default > 0 {
		f.count.SetValue(strconv.Itoa(rng.Default))
	}
	return f
}

func (f *FormScreen) withCount() bool { return f.rng.Max > 0 }

func (f *FormScreen) Init() tea.Cmd {
	return f.topic.Focus()
}

func (f *FormScreen) Title() string {
	return f.title
}

func (f *FormScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Start"}}
	if f.withCount() {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Next field"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (f *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return f, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "shift+tab":
			if f.withCount() {
				return f, f.toggleField()
			}
			return f, nil
		case "enter":
			return f, f.submit()
		}
	}

	var cmd tea.Cmd
	if f.onCount {
		f.count, cmd = f.count.Update(msg)
	} else {
		f.topic, cmd = f.topic.Update(msg)
	}
	return f, cmd
}

func (f *FormScreen) toggleField() tea.Cmd {
	f.onCount = !f.onCount
	if f.onCount {
		f.topic.Blur()
		return f.count.Focus()
	}
	f.count.Blur()
	return f.topic.Focus()
}

func (f *FormScreen) submit() tea.Cmd {
	topic := f.topic.Value()
	if topic == "" {
		f.errMsg = "Please enter a topic."
		return nil
	}

	count := 0
	if f.withCount() {
		n, err := f.count.NumericValue()
		if err != nil || n < f.rng.Min || n > f.rng.Max {
			f.errMsg = fmt.Sprintf("Pick a number between %d and %d.", f.rng.Min, f.rng.Max)
			return nil
		}
		count = n
	}

	next := f.onSubmit(topic, count)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (f *FormScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render(f.title))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("Topic"))
	b.WriteString("\n")
	b.WriteString(f.topic.View())
	b.WriteString("\n\n")

	if f.withCount() {
		b.WriteString(theme.Body.Render(fmt.Sprintf("How many? (%d-%d)", f.rng.Min, f.rng.Max)))
		b.WriteString("\n")
		b.WriteString(f.count.View())
		b.WriteString("\n\n")
	}
	if f.errMsg != "" {
		b.WriteString(theme.ErrorText.Render(f.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.PlainCard(b.String(), cw))
}
