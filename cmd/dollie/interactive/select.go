package interactive

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// selectModel is a fuzzy-filterable single-choice list, in the shape of
// the teacher's search command (cmd/fst/commands/search.go): a
// textinput.Model feeding fuzzy.Find, a cursor over the filtered results,
// quit on enter/esc.
type selectModel struct {
	prompt   string
	input    textinput.Model
	options  []string
	filtered []string
	cursor   int
	chosen   string
	canceled bool
	height   int
}

func newSelectModel(prompt string, options []string) selectModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50

	return selectModel{
		prompt:   prompt,
		input:    ti,
		options:  options,
		filtered: options,
	}
}

func (m selectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.filtered) > 0 {
				m.chosen = m.filtered[m.cursor]
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filterOptions()
	return m, cmd
}

func (m *selectModel) filterOptions() {
	query := m.input.Value()
	if query == "" {
		m.filtered = m.options
	} else {
		matches := fuzzy.Find(query, m.options)
		filtered := make([]string, len(matches))
		for i, match := range matches {
			filtered[i] = m.options[match.Index]
		}
		m.filtered = filtered
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = maxInt(0, len(m.filtered)-1)
	}
}

func (m selectModel) View() string {
	var b strings.Builder
	b.WriteString(Header(m.prompt))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if len(m.filtered) == 0 {
		b.WriteString(Muted("  no matches\n"))
	}
	for i, opt := range m.filtered {
		if i == m.cursor {
			b.WriteString(Header("> " + opt))
		} else {
			b.WriteString("  " + opt)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Muted("↑↓ navigate  enter select  esc cancel"))
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// SelectOne runs a fuzzy-filterable single-choice prompt over options and
// returns the chosen value. An empty options list or a canceled prompt
// returns an error.
func SelectOne(prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("interactive: no options to choose from")
	}
	m := newSelectModel(prompt, options)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("interactive: select: %w", err)
	}
	fm := final.(selectModel)
	if fm.canceled || fm.chosen == "" {
		return "", fmt.Errorf("interactive: selection canceled")
	}
	return fm.chosen, nil
}
