package chat

import (
	"strconv"
	"strings"

	"github.com/adamavenir/dispatch/internal/composer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type slashCommand struct {
	name  string
	usage string
	help  string
}

var slashCommands = []slashCommand{
	{"/attach", "/attach <path>", "attach an image file"},
	{"/detach", "/detach <n>", "remove pending attachment n"},
	{"/clear", "/clear", "drop all pending attachments"},
	{"/history", "/history", "show or hide sent messages"},
	{"/help", "/help", "show this help"},
	{"/quit", "/quit", "exit"},
}

// runCommand handles a slash command typed into the input. Unknown slash
// text is not a command and is sent as a message.
func (m *Model) runCommand(value string) (bool, tea.Cmd) {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "/") {
		return false, nil
	}
	name, rest, _ := strings.Cut(trimmed, " ")
	rest = strings.TrimSpace(rest)

	var cmd tea.Cmd
	switch name {
	case "/quit", "/exit":
		return true, tea.Quit
	case "/help":
		m.showHelp()
	case "/history":
		m.toggleHistory()
	case "/attach":
		if rest == "" {
			return true, m.usageNotice("/attach <path>")
		}
		before := len(m.composer.Attachments())
		cmd = m.attachPath(rest)
		if len(m.composer.Attachments()) == before {
			return true, cmd
		}
	case "/detach":
		index, err := strconv.Atoi(rest)
		if err != nil {
			return true, m.usageNotice("/detach <n>")
		}
		before := len(m.composer.Attachments())
		cmd = m.removeAttachment(index - 1)
		if len(m.composer.Attachments()) == before {
			return true, cmd
		}
	case "/clear":
		count := m.clearAttachments()
		cmd = m.showNotice(composer.Notice{Kind: composer.NoticeSuccess, Text: "Removed " + attachmentCountText(count)})
	default:
		return false, nil
	}

	m.input.Reset()
	m.clearSuggestions()
	m.syncInput()
	return true, cmd
}

func (m *Model) usageNotice(usage string) tea.Cmd {
	return m.showNotice(composer.Notice{Kind: composer.NoticeValidation, Text: "Usage: " + usage})
}

func renderHelp(width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(accentColor)
	descStyle := lipgloss.NewStyle().Foreground(metaColor)

	rows := [][2]string{
		{"enter", "send (or pick the highlighted suggestion)"},
		{"ctrl+j / alt+enter", "new line"},
		{"@name #name", "mention a user or channel"},
		{"tab ↑ ↓ esc", "pick or dismiss suggestions"},
		{"ctrl+v", "attach the image path on the clipboard"},
		{"ctrl+o", "sent history"},
		{"ctrl+c", "clear input, again to quit"},
	}
	for _, c := range slashCommands {
		rows = append(rows, [2]string{c.usage, c.help})
	}

	keyWidth := 0
	for _, row := range rows {
		if w := lipgloss.Width(row[0]); w > keyWidth {
			keyWidth = w
		}
	}
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, "Paste or drop an image file path to attach it.", "")
	for _, row := range rows {
		key := keyStyle.Width(keyWidth + 2).Render(row[0])
		lines = append(lines, key+descStyle.Render(row[1]))
	}
	help := strings.Join(lines, "\n")
	if width > 0 {
		help = lipgloss.NewStyle().MaxWidth(width).Render(help)
	}
	return help
}
