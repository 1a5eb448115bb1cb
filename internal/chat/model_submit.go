package chat

import (
	"context"

	"github.com/adamavenir/dispatch/internal/composer"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleSubmit() tea.Cmd {
	value := m.input.Value()
	if handled, cmd := m.runCommand(value); handled {
		return cmd
	}

	m.composer.SetText(value)
	draft, err := m.composer.Prepare()
	if err != nil {
		return m.showNotice(composer.ValidationNotice(err))
	}

	m.clearSuggestions()
	m.engine.Reset()
	m.inFlight++
	m.resize()
	m.logger.Debug().
		Int("chars", len([]rune(draft.Message))).
		Int("files", len(draft.Files)).
		Msg("sending draft")
	return m.sendCmd(draft)
}

func (m *Model) sendCmd(draft composer.Draft) tea.Cmd {
	relay := m.relay
	timeout := m.sendTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := relay.Send(ctx, draft.Message, draft.Files)
		return sendResultMsg{draft: draft, resp: resp, err: err}
	}
}

func (m *Model) handleSendResult(msg sendResultMsg) tea.Cmd {
	if m.inFlight > 0 {
		m.inFlight--
	}
	notice := m.composer.Complete(msg.draft, msg.resp, msg.err)
	if notice.OK() {
		m.input.Reset()
		m.clearSuggestions()
		m.engine.Reset()
		m.lastInputValue = ""
		m.lastInputPos = 0
		m.refreshPanel()
		m.resize()
	}
	return m.showNotice(notice)
}
