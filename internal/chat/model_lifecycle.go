package chat

import (
	"github.com/adamavenir/dispatch/internal/autocomplete"
	"github.com/adamavenir/dispatch/internal/composer"
	"github.com/adamavenir/dispatch/internal/types"
	tea "github.com/charmbracelet/bubbletea"
)

type sendResultMsg struct {
	draft composer.Draft
	resp  types.SendResponse
	err   error
}

type suggestionsMsg struct {
	res autocomplete.Result
}

type droppedFileMsg struct {
	path string
}

type clipboardMsg struct {
	text string
	err  error
}

type toastExpiredMsg struct {
	seq int
}

func (m *Model) Init() tea.Cmd {
	return m.input.Focus()
}

// Close stops background lookups.
func (m *Model) Close() {
	m.engine.Close()
}
