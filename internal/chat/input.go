package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const inputPlaceholder = "Message · @user · #channel"

func newInputModel() textarea.Model {
	input := textarea.New()
	input.Placeholder = inputPlaceholder
	input.Prompt = ""
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(1)
	// Enter submits; newlines come from isNewlineKey.
	input.KeyMap.InsertNewline.SetEnabled(false)
	applyInputStyles(&input, textColor, blurText)
	input.Focus()
	return input
}

func (m *Model) insertInputText(text string) {
	if text == "" {
		return
	}
	m.input.InsertString(text)
	m.syncInput()
}

// inputCursorPos returns the caret as a rune offset into the input value.
func (m *Model) inputCursorPos() int {
	value := m.input.Value()
	if value == "" {
		return 0
	}
	lines := strings.Split(value, "\n")
	row := m.input.Line()
	if row < 0 {
		row = 0
	}
	if row >= len(lines) {
		row = len(lines) - 1
	}
	info := m.input.LineInfo()
	col := info.StartColumn + info.ColumnOffset
	if col < 0 {
		col = 0
	}
	lineRunes := []rune(lines[row])
	if col > len(lineRunes) {
		col = len(lineRunes)
	}

	pos := 0
	for i := 0; i < row; i++ {
		pos += len([]rune(lines[i])) + 1
	}
	pos += col

	total := len([]rune(value))
	if pos > total {
		pos = total
	}
	return pos
}

// setInputValue replaces the input text and puts the caret at the given
// rune offset.
func (m *Model) setInputValue(value string, caret int) {
	m.input.SetValue(value)
	total := len([]rune(value))
	if caret < 0 {
		caret = 0
	}
	left := tea.KeyMsg{Type: tea.KeyLeft}
	for i := caret; i < total; i++ {
		m.input, _ = m.input.Update(left)
	}
}

func (m *Model) dismissHelpOnInput(value string) {
	if !m.helpOpen || value == "" {
		return
	}
	m.helpOpen = false
	m.refreshPanel()
}

func normalizeNewlines(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")
	return value
}

func applyInputStyles(input *textarea.Model, textColor, blurColor lipgloss.Color) {
	input.FocusedStyle.Base = lipgloss.NewStyle().Foreground(textColor).Background(inputBg)
	input.FocusedStyle.Text = lipgloss.NewStyle().Foreground(textColor).Background(inputBg)
	input.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(caretColor).Background(inputBg)
	input.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(inputBg)
	input.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(blurColor).Background(inputBg)
	input.BlurredStyle.Base = lipgloss.NewStyle().Foreground(blurColor).Background(inputBg)
	input.BlurredStyle.Text = lipgloss.NewStyle().Foreground(blurColor).Background(inputBg)
	input.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(caretColor).Background(inputBg)
	input.BlurredStyle.CursorLine = lipgloss.NewStyle().Background(inputBg)
}
