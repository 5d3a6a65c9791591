package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type picked string

func studyMenu() Menu {
	pick := func(name string) func() tea.Cmd {
		return func() tea.Cmd { return func() tea.Msg { return picked(name) } }
	}
	return NewMenu([]MenuItem{
		{Label: "History", Disabled: true},
		{Label: "Focus timer", Action: pick("focus")},
		{Label: "Flash cards", Action: pick("cards")},
		{Label: "Explain", Disabled: true},
		{Label: "Quiz", Action: pick("quiz")},
	})
}

func press(m Menu, keys ...tea.KeyPressMsg) (Menu, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

func TestMenuNavigation(t *testing.T) {
	down := tea.KeyPressMsg{Code: tea.KeyDown}
	up := tea.KeyPressMsg{Code: tea.KeyUp}

	tests := []struct {
		name string
		keys []tea.KeyPressMsg
		want int
	}{
		{"starts on first enabled", nil, 1},
		{"skips disabled", []tea.KeyPressMsg{down, down}, 4},
		{"stops at bottom", []tea.KeyPressMsg{down, down, down}, 4},
		{"does not land on disabled top", []tea.KeyPressMsg{up}, 1},
		{"j and k", []tea.KeyPressMsg{{Code: 'j', Text: "j"}, {Code: 'k', Text: "k"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(studyMenu(), tt.keys...)
			if m.Selected != tt.want {
				t.Fatalf("selected = %d, want %d", m.Selected, tt.want)
			}
		})
	}
}

func TestMenuActivation(t *testing.T) {
	_, cmd := press(studyMenu(), tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil || cmd() != picked("focus") {
		t.Fatal("enter did not open the selected item")
	}

	m, cmd := press(studyMenu(), tea.KeyPressMsg{Code: '5', Text: "5"})
	if cmd == nil || cmd() != picked("quiz") || m.Selected != 4 {
		t.Fatal("number key did not open item 5")
	}

	m, cmd = press(studyMenu(), tea.KeyPressMsg{Code: '4', Text: "4"})
	if cmd != nil || m.Selected != 1 {
		t.Fatal("number key opened a disabled item")
	}
}

func TestMenuView(t *testing.T) {
	view := studyMenu().View()
	if !strings.Contains(view, "▸ 2. Focus timer") {
		t.Fatalf("cursor not on focus timer:\n%s", view)
	}
	if strings.Count(view, "\n") != 5 {
		t.Fatalf("want one line per item:\n%s", view)
	}
}

func TestProgressBar(t *testing.T) {
	bar := NewProgressBar(2, 4, 10)
	if got := strings.Count(bar.View(), "█"); got != 5 {
		t.Fatalf("filled cells = %d, want 5", got)
	}

	bar.ShowCount = true
	if !strings.Contains(bar.View(), "2/4") {
		t.Fatal("count missing")
	}

	if Fraction(7, 4) != 1 || Fraction(1, 0) != 0 || Fraction(-1, 4) != 0 {
		t.Fatal("Fraction not clamped")
	}
}
