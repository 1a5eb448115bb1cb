package chat

import (
	"fmt"
	"strings"

	"github.com/adamavenir/dispatch/internal/core"
	"github.com/adamavenir/dispatch/internal/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

func (m *Model) toggleHistory() {
	m.historyOpen = !m.historyOpen
	m.helpOpen = false
	m.historyView.GotoTop()
	m.refreshPanel()
}

func (m *Model) showHelp() {
	m.helpOpen = true
	m.historyView.GotoTop()
	m.refreshPanel()
}

// refreshPanel redraws the area above the input: help, sent history, or
// nothing.
func (m *Model) refreshPanel() {
	width := m.mainWidth()
	switch {
	case m.helpOpen:
		m.historyView.SetContent(renderHelp(width))
	case m.historyOpen:
		m.historyView.SetContent(renderHistory(m.composer.History(), width))
	default:
		m.historyView.SetContent("")
	}
}

func (m *Model) renderTitle() string {
	title := "dispatch"
	switch {
	case m.helpOpen:
		title += " · help"
	case m.historyOpen:
		title += fmt.Sprintf(" · sent (%d)", len(m.composer.History()))
	}
	return panelTitleStyle.Render(title)
}

// renderHistory lists sent entries newest first.
func renderHistory(entries []types.HistoryEntry, width int) string {
	if len(entries) == 0 {
		return lipgloss.NewStyle().Foreground(metaColor).Italic(true).Render("Nothing sent yet.")
	}
	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(timestampStyle.Render(humanize.Time(entry.SentAt)))
		b.WriteString("\n")
		if entry.Message != "" {
			body := highlightBody(entry.Message)
			if width > 0 {
				body = lipgloss.NewStyle().Width(width).Render(body)
			}
			b.WriteString(body)
			b.WriteString("\n")
		}
		for _, file := range entry.Files {
			line := fmt.Sprintf("📎 %s (%s)", file.Name, core.FormatSize(file))
			if width > 0 {
				line = runewidth.Truncate(line, width, "…")
			}
			b.WriteString(attachmentStyle.Render(line))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
