package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizkit/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Once a choice is submitted the
// correct option is highlighted and a wrong pick is marked.
type MultiChoice struct {
	Options []string
	// CorrectIndex is -1 when the answer is unknown; any pick is then
	// neither right nor wrong.
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Label returns the choice letter for index i (A, B, C, ...).
func Label(i int) string {
	return string(rune('A' + i))
}

// Update handles arrow navigation, enter, and direct picks by letter or
// number.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		m.choose(m.Selected)
		return m, nil
	}

	if len(key) == 1 {
		c := key[0]
		switch {
		case c >= 'a' && c <= 'z':
			m.choose(int(c - 'a'))
		case c >= 'A' && c <= 'Z':
			m.choose(int(c - 'A'))
		case c >= '1' && c <= '9':
			m.choose(int(c - '1'))
		}
	}
	return m, nil
}

func (m *MultiChoice) choose(i int) {
	if i < 0 || i >= len(m.Options) {
		return
	}
	m.Selected = i
	m.ChosenIndex = i
	m.Submitted = true
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt)

		switch {
		case m.Submitted && i == m.CorrectIndex:
			line = theme.Correct.Render(line + "  ✓")
		case m.Submitted && i == m.ChosenIndex && m.CorrectIndex >= 0:
			line = theme.Incorrect.Render(line + "  ✗")
		case m.Submitted && i == m.ChosenIndex:
			line = theme.Selected.Render(line)
		case m.Submitted:
			line = theme.Dimmed.Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// IsCorrect returns true if the user chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.CorrectIndex >= 0 && m.ChosenIndex == m.CorrectIndex
}

// HasAnswer reports whether the question carries a known correct index.
func (m MultiChoice) HasAnswer() bool {
	return m.CorrectIndex >= 0 && m.CorrectIndex < len(m.Options)
}
