package chat

import (
	"fmt"
	"strings"

	"github.com/adamavenir/dispatch/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func (m *Model) renderInput() string {
	var parts []string
	if previews := m.renderAttachments(); previews != "" {
		parts = append(parts, previews)
	}

	content := m.input.View()
	style := lipgloss.NewStyle().Background(inputBg).Padding(0, inputPadding, 0, 0)
	if width := m.mainWidth(); width > 0 {
		style = style.Width(width)
	}
	blank := style.Render("")
	parts = append(parts, blank, style.Render(content), blank)
	return strings.Join(parts, "\n")
}

// renderAttachments lists pending images, one per line, each with a
// clickable ✖ that removes it.
func (m *Model) renderAttachments() string {
	attachments := m.composer.Attachments()
	if len(attachments) == 0 {
		return ""
	}
	width := m.mainWidth()
	lines := make([]string, 0, len(attachments))
	for i, att := range attachments {
		label := fmt.Sprintf("📎 %d. %s (%s, %s)", i+1, att.Name, att.MIMEType, core.FormatSize(att))
		remove := m.zoneManager.Mark(detachZoneID(i), detachStyle.Render(" ✖"))
		if width > 0 {
			label = runewidth.Truncate(label, width-lipgloss.Width(remove), "…")
		}
		lines = append(lines, attachmentStyle.Render(label)+remove)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) attachmentsHeight() int {
	return len(m.composer.Attachments())
}
