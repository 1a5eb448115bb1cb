package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.handleSuggestionKeys(msg); handled {
		return m, cmd
	}
	if isNewlineKey(msg) {
		m.insertInputText("\n")
		return m, nil
	}
	if msg.Type == tea.KeyRunes && msg.Paste {
		return m, m.handlePaste(string(msg.Runes))
	}
	if msg.Type == tea.KeyRunes && strings.ContainsRune(string(msg.Runes), '\n') {
		m.insertInputText(normalizeNewlines(string(msg.Runes)))
		return m, nil
	}
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() != "" {
			m.input.Reset()
			m.clearSuggestions()
			m.syncInput()
			return m, nil
		}
		return m, tea.Quit
	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			return m, tea.Quit
		}
	case tea.KeyCtrlO:
		m.toggleHistory()
		return m, nil
	case tea.KeyCtrlV:
		return m, readClipboardCmd
	case tea.KeyEsc:
		if m.helpOpen {
			m.helpOpen = false
			m.refreshPanel()
			return m, nil
		}
		if m.historyOpen {
			m.toggleHistory()
			return m, nil
		}
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd
	case tea.KeyEnter:
		return m, m.handleSubmit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncInput()
	return m, cmd
}

// isNewlineKey reports whether msg should insert a line break instead of
// submitting. Most terminals cannot tell Shift+Enter from Enter, so Ctrl+J
// and Alt+Enter stand in for it.
func isNewlineKey(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyCtrlJ {
		return true
	}
	if msg.Type == tea.KeyEnter && msg.Alt {
		return true
	}
	return msg.String() == "shift+enter"
}

// syncInput mirrors the textarea into the composer and refreshes
// everything derived from the caret.
func (m *Model) syncInput() {
	m.composer.SetText(m.input.Value())
	m.refreshSuggestions()
	m.resize()
}
