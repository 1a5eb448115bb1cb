package chat

import (
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	lines := []string{m.renderTitle(), m.historyView.View()}
	if suggestions := m.renderSuggestions(); suggestions != "" {
		lines = append(lines, suggestions)
	}
	lines = append(lines, "", m.renderInput(), m.renderStatus())
	output := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.zoneManager.Scan(output)
}
