package chat

import (
	"strings"

	"github.com/adamavenir/dispatch/internal/autocomplete"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// refreshSuggestions feeds the caret position to the lookup engine whenever
// the input text or caret moved.
func (m *Model) refreshSuggestions() {
	value := m.input.Value()
	pos := m.inputCursorPos()
	if value == m.lastInputValue && pos == m.lastInputPos {
		return
	}
	m.lastInputValue = value
	m.lastInputPos = pos
	m.dismissHelpOnInput(value)

	if _, ok := m.engine.Update(value, pos); !ok && len(m.suggestions) > 0 {
		m.clearSuggestions()
		m.resize()
	}
}

// handleSuggestions shows rows from a finished lookup if it is still the
// latest one for the live mention.
func (m *Model) handleSuggestions(res autocomplete.Result) {
	if !m.engine.Accept(res) {
		return
	}
	if !res.Visible() {
		m.clearSuggestions()
		m.resize()
		return
	}
	m.suggestions = res.Suggestions
	m.suggestionIndex = -1
	m.resize()
}

func (m *Model) handleSuggestionKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	if len(m.suggestions) == 0 {
		return false, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.clearSuggestions()
		m.engine.Reset()
		m.resize()
		return true, nil
	case tea.KeyUp:
		if m.suggestionIndex < 0 {
			m.suggestionIndex = len(m.suggestions) - 1
		} else {
			m.suggestionIndex--
			if m.suggestionIndex < 0 {
				m.suggestionIndex = len(m.suggestions) - 1
			}
		}
		return true, nil
	case tea.KeyDown:
		if m.suggestionIndex < 0 {
			m.suggestionIndex = 0
		} else {
			m.suggestionIndex++
			if m.suggestionIndex >= len(m.suggestions) {
				m.suggestionIndex = 0
			}
		}
		return true, nil
	case tea.KeyTab:
		if m.suggestionIndex < 0 {
			m.suggestionIndex = 0
		}
		m.applySuggestion(m.suggestionIndex)
		return true, nil
	case tea.KeyEnter:
		// A highlighted row takes Enter; otherwise Enter still submits.
		if msg.Alt || m.suggestionIndex < 0 {
			return false, nil
		}
		m.applySuggestion(m.suggestionIndex)
		return true, nil
	}
	return false, nil
}

// applySuggestion replaces the live mention with the token for row i.
func (m *Model) applySuggestion(i int) {
	if i < 0 || i >= len(m.suggestions) {
		return
	}
	choice := m.suggestions[i]
	mention, ok := m.engine.Current()
	m.clearSuggestions()
	if !ok {
		m.resize()
		return
	}
	updated, caret, ok := m.engine.Select(m.input.Value(), mention, choice)
	if !ok {
		m.logger.Debug().Str("id", choice.ID).Msg("mention moved before selection; ignoring")
		m.resize()
		return
	}
	m.setInputValue(updated, caret)
	m.composer.SetText(updated)
	m.lastInputValue = m.input.Value()
	m.lastInputPos = m.inputCursorPos()
	m.resize()
}

func (m *Model) clearSuggestions() {
	m.suggestions = nil
	m.suggestionIndex = -1
}

func (m *Model) suggestionHeight() int {
	if len(m.suggestions) == 0 {
		return 0
	}
	return lipgloss.Height(m.renderSuggestions())
}

func (m *Model) renderSuggestions() string {
	if len(m.suggestions) == 0 {
		return ""
	}
	trigger := ""
	if mention, ok := m.engine.Current(); ok {
		trigger = string(mention.Trigger())
	}

	lines := make([]string, 0, len(m.suggestions))
	for i, suggestion := range m.suggestions {
		prefix := "  "
		style := suggestionStyle
		if i == m.suggestionIndex {
			prefix = "> "
			style = suggestionSelectedStyle
		}
		line := prefix + trigger + suggestion.Name
		if width := m.mainWidth(); width > 0 {
			line = runewidth.Truncate(line, width, "…")
		}
		lines = append(lines, m.zoneManager.Mark(suggestionZoneID(i), style.Render(line)))
	}
	return strings.Join(lines, "\n")
}
