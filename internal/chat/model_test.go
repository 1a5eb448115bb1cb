package chat

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/adamavenir/dispatch/internal/composer"
	"github.com/adamavenir/dispatch/internal/types"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type sentDraft struct {
	message string
	files   []types.Attachment
}

type fakeRelay struct {
	mu       sync.Mutex
	sent     []sentDraft
	queries  []string
	sendResp types.SendResponse
	sendErr  error
	results  []types.Suggestion
}

func (f *fakeRelay) Send(_ context.Context, message string, files []types.Attachment) (types.SendResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentDraft{message: message, files: files})
	return f.sendResp, f.sendErr
}

func (f *fakeRelay) Autocomplete(_ context.Context, _ types.MentionKind, query string) (types.AutocompleteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return types.AutocompleteResponse{Success: true, Results: f.results}, nil
}

func (f *fakeRelay) sends() []sentDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentDraft(nil), f.sent...)
}

func newTestModel(t *testing.T, relay *fakeRelay) *Model {
	t.Helper()
	m := NewModel(Options{
		Relay:    relay,
		Debounce: 5 * time.Millisecond,
		Toast:    time.Second,
		Logger:   zerolog.Nop(),
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// withInbox routes messages posted from background work into a channel.
func withInbox(m *Model) chan tea.Msg {
	inbox := make(chan tea.Msg, 8)
	m.post = func(msg tea.Msg) { inbox <- msg }
	return inbox
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(m *Model, key tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: key})
	return cmd
}

func waitSuggestions(t *testing.T, m *Model, inbox chan tea.Msg) {
	t.Helper()
	select {
	case msg := <-inbox:
		res, ok := msg.(suggestionsMsg)
		require.True(t, ok, "unexpected message %T", msg)
		m.Update(res)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for suggestions")
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSubmitEmptyShowsValidation(t *testing.T) {
	relay := &fakeRelay{}
	m := newTestModel(t, relay)

	press(m, tea.KeyEnter)

	require.NotNil(t, m.toast)
	assert.Equal(t, composer.NoticeValidation, m.toast.Kind)
	assert.Equal(t, composer.ErrEmptyDraft.Error(), m.toast.Text)
	assert.Empty(t, relay.sends())
	assert.Zero(t, m.inFlight)
}

func TestSubmitSuccessClearsInput(t *testing.T) {
	relay := &fakeRelay{sendResp: types.SendResponse{Success: true, Message: "Delivered"}}
	m := newTestModel(t, relay)

	typeText(m, "hello")
	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.inFlight)

	m.Update(cmd())

	assert.Equal(t, []sentDraft{{message: "hello"}}, relay.sends())
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, "", m.composer.Text())
	assert.Zero(t, m.inFlight)
	require.Len(t, m.composer.History(), 1)
	assert.Equal(t, "hello", m.composer.History()[0].Message)
	require.NotNil(t, m.toast)
	assert.Equal(t, composer.Notice{Kind: composer.NoticeSuccess, Text: "Delivered"}, *m.toast)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	relay := &fakeRelay{sendResp: types.SendResponse{Success: false, Error: json.RawMessage(`"channel not found"`)}}
	m := newTestModel(t, relay)

	typeText(m, "hello")
	m.Update(press(m, tea.KeyEnter)())

	assert.Equal(t, "hello", m.input.Value())
	assert.Equal(t, "hello", m.composer.Text())
	assert.Empty(t, m.composer.History())
	require.NotNil(t, m.toast)
	assert.Equal(t, composer.NoticeFailure, m.toast.Kind)
	assert.Equal(t, "Send failed\n\"channel not found\"", m.toast.Text)
}

func TestSubmitTransportErrorKeepsDraft(t *testing.T) {
	relay := &fakeRelay{sendErr: errors.New("connection refused")}
	m := newTestModel(t, relay)

	typeText(m, "hi")
	m.Update(press(m, tea.KeyEnter)())

	assert.Equal(t, "hi", m.input.Value())
	require.NotNil(t, m.toast)
	assert.Equal(t, composer.NoticeError, m.toast.Kind)
	assert.Equal(t, "Error\nconnection refused", m.toast.Text)
}

func TestNewlineKeysDoNotSubmit(t *testing.T) {
	relay := &fakeRelay{}
	m := newTestModel(t, relay)

	typeText(m, "a")
	assert.Nil(t, press(m, tea.KeyCtrlJ))
	typeText(m, "b")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	assert.Nil(t, cmd)
	typeText(m, "c")

	assert.Equal(t, "a\nb\nc", m.input.Value())
	assert.Equal(t, "a\nb\nc", m.composer.Text())
	assert.Empty(t, relay.sends())
}

func TestMentionSuggestionTabInsertsToken(t *testing.T) {
	relay := &fakeRelay{results: []types.Suggestion{{ID: "u1", Name: "alice"}}}
	m := newTestModel(t, relay)
	inbox := withInbox(m)

	typeText(m, "hi @al")
	waitSuggestions(t, m, inbox)
	require.Len(t, m.suggestions, 1)
	assert.Contains(t, m.renderSuggestions(), "@alice")

	press(m, tea.KeyTab)

	assert.Equal(t, "hi <@u1> ", m.input.Value())
	assert.Equal(t, "hi <@u1> ", m.composer.Text())
	assert.Empty(t, m.suggestions)
}

func TestEnterPicksHighlightedSuggestion(t *testing.T) {
	relay := &fakeRelay{results: []types.Suggestion{{ID: "c9", Name: "general"}}}
	m := newTestModel(t, relay)
	inbox := withInbox(m)

	typeText(m, "#gen")
	waitSuggestions(t, m, inbox)
	press(m, tea.KeyDown)
	cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, "<#c9> ", m.input.Value())
	assert.Empty(t, relay.sends())
}

func TestSuggestionKeepsTextAfterCaret(t *testing.T) {
	relay := &fakeRelay{results: []types.Suggestion{{ID: "u1", Name: "alice"}}}
	m := newTestModel(t, relay)
	inbox := withInbox(m)

	typeText(m, "@al tail")
	for i := 0; i < 5; i++ {
		press(m, tea.KeyLeft)
	}
	require.Equal(t, 3, m.inputCursorPos())
	waitSuggestions(t, m, inbox)

	press(m, tea.KeyTab)

	assert.Equal(t, "<@u1>  tail", m.input.Value())
	assert.Equal(t, 6, m.inputCursorPos())
}

func TestEscDismissesSuggestions(t *testing.T) {
	relay := &fakeRelay{results: []types.Suggestion{{ID: "u1", Name: "alice"}}}
	m := newTestModel(t, relay)
	inbox := withInbox(m)

	typeText(m, "@a")
	waitSuggestions(t, m, inbox)
	press(m, tea.KeyEsc)

	assert.Empty(t, m.suggestions)
	assert.Equal(t, "@a", m.input.Value())
}

func TestSuggestionsForStaleMentionIgnored(t *testing.T) {
	relay := &fakeRelay{results: []types.Suggestion{{ID: "u1", Name: "alice"}}}
	m := newTestModel(t, relay)
	inbox := withInbox(m)

	typeText(m, "@a")
	var stale suggestionsMsg
	select {
	case msg := <-inbox:
		stale = msg.(suggestionsMsg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for suggestions")
	}
	typeText(m, " done")
	m.Update(stale)

	assert.Empty(t, m.suggestions)
}

func TestSuccessfulSendDropsPendingMention(t *testing.T) {
	relay := &fakeRelay{
		sendResp: types.SendResponse{Success: true},
		results:  []types.Suggestion{{ID: "u1", Name: "alice"}},
	}
	m := newTestModel(t, relay)
	inbox := withInbox(m)

	typeText(m, "hi")
	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	typeText(m, " @al")
	var pending tea.Msg
	select {
	case pending = <-inbox:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for suggestions")
	}

	m.Update(cmd())
	m.Update(pending)

	assert.Equal(t, "", m.input.Value())
	assert.Empty(t, m.suggestions)
	_, active := m.engine.Current()
	assert.False(t, active)
}

func TestPastedImagePathAttaches(t *testing.T) {
	m := newTestModel(t, &fakeRelay{})
	path := writeFile(t, "shot.png", pngHeader)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(path), Paste: true})

	require.Len(t, m.composer.Attachments(), 1)
	assert.Equal(t, "shot.png", m.composer.Attachments()[0].Name)
	assert.Equal(t, "", m.input.Value())
	assert.Contains(t, m.renderAttachments(), "shot.png")
}

func TestPastedTextIsInserted(t *testing.T) {
	m := newTestModel(t, &fakeRelay{})
	path := writeFile(t, "notes.txt", []byte("plain text"))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(path), Paste: true})

	assert.Empty(t, m.composer.Attachments())
	assert.Equal(t, path, m.input.Value())
}

func TestClipboardError(t *testing.T) {
	m := newTestModel(t, &fakeRelay{})

	m.Update(clipboardMsg{err: errors.New("no clipboard")})

	require.NotNil(t, m.toast)
	assert.Equal(t, composer.NoticeError, m.toast.Kind)
}

func TestDroppedFiles(t *testing.T) {
	m := newTestModel(t, &fakeRelay{})

	m.Update(droppedFileMsg{path: writeFile(t, "notes.txt", []byte("hi"))})
	assert.Empty(t, m.composer.Attachments())

	m.Update(droppedFileMsg{path: writeFile(t, "drop.png", pngHeader)})
	require.Len(t, m.composer.Attachments(), 1)
	require.NotNil(t, m.toast)
	assert.Equal(t, "Attached drop.png", m.toast.Text)
}

func TestSendIncludesAttachments(t *testing.T) {
	relay := &fakeRelay{sendResp: types.SendResponse{Success: true}}
	m := newTestModel(t, relay)
	m.Update(droppedFileMsg{path: writeFile(t, "a.png", pngHeader)})

	m.Update(press(m, tea.KeyEnter)())

	sent := relay.sends()
	require.Len(t, sent, 1)
	assert.Equal(t, "", sent[0].message)
	require.Len(t, sent[0].files, 1)
	assert.Equal(t, "a.png", sent[0].files[0].Name)
	assert.Empty(t, m.composer.Attachments())
	assert.Equal(t, "Message sent", m.toast.Text)
}

func TestToastExpiry(t *testing.T) {
	m := newTestModel(t, &fakeRelay{})

	m.showNotice(composer.Notice{Kind: composer.NoticeSuccess, Text: "one"})
	m.showNotice(composer.Notice{Kind: composer.NoticeSuccess, Text: "two"})

	m.Update(toastExpiredMsg{seq: m.toastSeq - 1})
	require.NotNil(t, m.toast)
	assert.Equal(t, "two", m.toast.Text)

	m.Update(toastExpiredMsg{seq: m.toastSeq})
	assert.Nil(t, m.toast)
}

func TestCtrlCClearsThenQuits(t *testing.T) {
	m := newTestModel(t, &fakeRelay{})

	typeText(m, "draft")
	assert.Nil(t, press(m, tea.KeyCtrlC))
	assert.Equal(t, "", m.input.Value())

	cmd := press(m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHistoryToggle(t *testing.T) {
	relay := &fakeRelay{sendResp: types.SendResponse{Success: true}}
	m := newTestModel(t, relay)

	typeText(m, "first")
	m.Update(press(m, tea.KeyEnter)())
	press(m, tea.KeyCtrlO)

	assert.True(t, m.historyOpen)
	assert.Contains(t, m.historyView.View(), "first")
	assert.Contains(t, m.View(), "sent (1)")

	press(m, tea.KeyCtrlO)
	assert.False(t, m.historyOpen)
}

func TestTruncateNotification(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"Send failed\n\"bad\"", 40, "Send failed \"bad\""},
		{"abcdefghij", 5, "abcd…"},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateNotification(tt.in, tt.max))
		})
	}
}
