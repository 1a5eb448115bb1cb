package chat

import (
	"github.com/adamavenir/dispatch/internal/composer"
	"github.com/charmbracelet/lipgloss"
)

var (
	textColor   = lipgloss.Color("252")
	blurText    = lipgloss.Color("244")
	caretColor  = lipgloss.Color("111")
	inputBg     = lipgloss.Color("236")
	metaColor   = lipgloss.Color("245")
	accentColor = lipgloss.Color("111")
	statusColor = lipgloss.Color("242")
)

var (
	suggestionStyle         = lipgloss.NewStyle().Foreground(metaColor)
	suggestionSelectedStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	attachmentStyle         = lipgloss.NewStyle().Foreground(metaColor)
	detachStyle             = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	panelTitleStyle         = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	timestampStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// noticeStyle colors a toast by outcome: green for success, red for relay
// and transport errors, yellow for local validation.
func noticeStyle(kind composer.NoticeKind) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Padding(0, 1)
	switch kind {
	case composer.NoticeSuccess:
		return style.Background(lipgloss.Color("28"))
	case composer.NoticeValidation:
		return style.Foreground(lipgloss.Color("16")).Background(lipgloss.Color("220"))
	default:
		return style.Background(lipgloss.Color("160"))
	}
}
