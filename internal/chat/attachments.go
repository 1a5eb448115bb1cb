package chat

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/adamavenir/dispatch/internal/composer"
	"github.com/adamavenir/dispatch/internal/core"
	"github.com/adamavenir/dispatch/internal/types"
	tea "github.com/charmbracelet/bubbletea"
)

// handlePaste attaches pasted text that names an image file and inserts
// anything else as text.
func (m *Model) handlePaste(text string) tea.Cmd {
	if path, ok := core.PastedPath(text); ok {
		att, err := core.LoadAttachment(path)
		switch {
		case err == nil:
			m.addAttachment(att)
			return nil
		case !errors.Is(err, core.ErrNotImage):
			return m.showNotice(composer.Notice{Kind: composer.NoticeError, Text: "Attach failed\n" + err.Error()})
		}
	}
	m.insertInputText(normalizeNewlines(text))
	return nil
}

func (m *Model) handleClipboard(msg clipboardMsg) tea.Cmd {
	if msg.err != nil {
		return m.showNotice(composer.Notice{Kind: composer.NoticeError, Text: "Clipboard unavailable\n" + msg.err.Error()})
	}
	if msg.text == "" {
		return nil
	}
	return m.handlePaste(msg.text)
}

// attachPath loads an image the user named explicitly.
func (m *Model) attachPath(path string) tea.Cmd {
	if expanded, ok := core.PastedPath(path); ok {
		path = expanded
	} else if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	att, err := core.LoadAttachment(path)
	if err != nil {
		return m.showNotice(composer.Notice{Kind: composer.NoticeError, Text: "Attach failed\n" + err.Error()})
	}
	m.addAttachment(att)
	return nil
}

// handleDroppedFile attaches an image that appeared in the watched folder.
// Anything that is not an image is skipped quietly.
func (m *Model) handleDroppedFile(path string) tea.Cmd {
	att, err := core.LoadAttachment(path)
	if err != nil {
		m.logger.Debug().Err(err).Str("path", path).Msg("skipping dropped file")
		return nil
	}
	m.addAttachment(att)
	return m.showNotice(composer.Notice{Kind: composer.NoticeSuccess, Text: "Attached " + att.Name})
}

func (m *Model) addAttachment(att types.Attachment) {
	m.composer.AddAttachment(att)
	m.logger.Debug().Str("name", att.Name).Str("mime", att.MIMEType).Int("bytes", att.Size()).Msg("attached")
	m.resize()
}

func (m *Model) removeAttachment(index int) tea.Cmd {
	if err := m.composer.RemoveAttachment(index); err != nil {
		return m.showNotice(composer.Notice{Kind: composer.NoticeValidation, Text: err.Error()})
	}
	m.resize()
	return nil
}

func (m *Model) clearAttachments() int {
	n := m.composer.ClearAttachments()
	m.resize()
	return n
}

func attachmentCountText(n int) string {
	if n == 1 {
		return "1 attachment"
	}
	return fmt.Sprintf("%d attachments", n)
}
