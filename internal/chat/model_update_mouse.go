package chat

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Shift {
		return m, nil
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if handled, cmd := m.handleMouseClick(msg); handled {
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.historyView, cmd = m.historyView.Update(msg)
	return m, cmd
}

func (m *Model) handleMouseClick(msg tea.MouseMsg) (bool, tea.Cmd) {
	for i := range m.suggestions {
		if m.zoneManager.Get(suggestionZoneID(i)).InBounds(msg) {
			m.applySuggestion(i)
			return true, nil
		}
	}
	for i := range m.composer.Attachments() {
		if m.zoneManager.Get(detachZoneID(i)).InBounds(msg) {
			return true, m.removeAttachment(i)
		}
	}
	if m.zoneManager.Get(historyZoneID).InBounds(msg) {
		m.toggleHistory()
		return true, nil
	}
	return false, nil
}

const historyZoneID = "history-toggle"

func suggestionZoneID(i int) string {
	return fmt.Sprintf("suggest-%d", i)
}

func detachZoneID(i int) string {
	return fmt.Sprintf("detach-%d", i)
}
