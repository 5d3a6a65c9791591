package components

import (
	"strconv"
	"strings"
	"unicode"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput is a single-line form field. A digits-only field ignores any
// typed text that is not a decimal number.
type TextInput struct {
	input  textinput.Model
	digits bool
}

// NewTextInput returns an unfocused field. limit caps the number of
// characters; 0 leaves it unbounded.
func NewTextInput(placeholder string, digits bool, limit int) TextInput {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = max(limit, 0)
	return TextInput{input: in, digits: digits}
}

func (t *TextInput) Focus() tea.Cmd { return t.input.Focus() }
func (t *TextInput) Blur() { t.input.Blur() }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok && t.digits && key.Text != "" {
		if strings.IndexFunc(key.Text, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

func (t TextInput) View() string { return t.input.View() }

// Value is the text with surrounding whitespace removed.
func (t TextInput) Value() string { return strings.TrimSpace(t.input.Value()) }

func (t *TextInput) SetValue(s string) { t.input.SetValue(s) }

// NumericValue parses Value as a base-10 integer.
func (t TextInput) NumericValue() (int, error) { return strconv.Atoi(t.Value()) }
