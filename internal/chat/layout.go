package chat

const inputMaxHeight = 8
const inputPadding = 1

func (m *Model) mainWidth() int {
	if m.width == 0 {
		return 0
	}
	return m.width
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	width := m.mainWidth()
	inputWidth := width - inputPadding
	if inputWidth < 1 {
		inputWidth = 1
	}
	m.input.SetWidth(inputWidth)
	lineCount := m.input.LineCount()
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > inputMaxHeight {
		lineCount = inputMaxHeight
	}
	m.input.SetHeight(lineCount)
	inputHeight := m.input.Height() + 2

	statusHeight := 1
	titleHeight := 1
	marginHeight := 1
	m.historyView.Width = width
	m.historyView.Height = m.height - titleHeight - inputHeight - statusHeight - marginHeight -
		m.suggestionHeight() - m.attachmentsHeight()
	if m.historyView.Height < 1 {
		m.historyView.Height = 1
	}
	m.refreshPanel()
}
