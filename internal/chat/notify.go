package chat

import (
	"strings"

	"github.com/adamavenir/dispatch/internal/composer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
)

const notificationTitle = "dispatch"

// SendNotification raises an OS notification for a send outcome.
func SendNotification(n composer.Notice) error {
	return beeep.Notify(notificationTitle, truncateNotification(n.Text, 100), "")
}

func (m *Model) desktopNotifyCmd(n composer.Notice) tea.Cmd {
	logger := m.logger
	return func() tea.Msg {
		if err := SendNotification(n); err != nil {
			logger.Debug().Err(err).Msg("desktop notification failed")
		}
		return nil
	}
}

func truncateNotification(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
