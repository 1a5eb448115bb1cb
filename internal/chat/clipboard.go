package chat

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// readClipboardCmd reads the system clipboard off the update loop.
func readClipboardCmd() tea.Msg {
	text, err := clipboard.ReadAll()
	return clipboardMsg{text: text, err: err}
}
