package chat

import (
	"strings"
	"time"

	"github.com/adamavenir/dispatch/internal/composer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const defaultHint = "enter send · ctrl+j newline · ctrl+v paste image · /help"

// showNotice displays n as a toast and schedules its dismissal. Only the
// newest toast is shown; older expiry ticks are ignored.
func (m *Model) showNotice(n composer.Notice) tea.Cmd {
	m.toast = &n
	m.toastSeq++
	seq := m.toastSeq

	event := m.logger.Info()
	if !n.OK() {
		event = m.logger.Warn()
	}
	event.Int("kind", int(n.Kind)).Str("text", n.Text).Msg("notice")

	cmds := []tea.Cmd{tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})}
	if m.notifyDesktop && n.Kind != composer.NoticeValidation {
		cmds = append(cmds, m.desktopNotifyCmd(n))
	}
	return tea.Batch(cmds...)
}

func (m *Model) renderStatus() string {
	width := m.mainWidth()
	if m.toast != nil {
		// Toasts are one line; the second line of a failure carries the detail.
		text := strings.ReplaceAll(m.toast.Text, "\n", ": ")
		if width > 2 {
			text = runewidth.Truncate(text, width-2, "…")
		}
		return noticeStyle(m.toast.Kind).Render(text)
	}

	hint := m.hint
	if m.inFlight > 0 {
		hint = "sending… · " + hint
	}
	history := m.zoneManager.Mark(historyZoneID, " · ctrl+o history")
	if width > 0 {
		hint = runewidth.Truncate(hint, width-lipgloss.Width(history), "…")
	}
	style := lipgloss.NewStyle().Foreground(statusColor)
	return style.Render(hint) + style.Render(history)
}
