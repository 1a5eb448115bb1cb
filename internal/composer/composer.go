package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adamavenir/dispatch/internal/types"
)

// ErrEmptyDraft is returned by Prepare when there is nothing to send.
var ErrEmptyDraft = errors.New("message or image required")

const defaultSuccessMessage = "Message sent"

// Sender delivers one draft to the relay.
type Sender interface {
	Send(ctx context.Context, message string, files []types.Attachment) (types.SendResponse, error)
}

// NoticeKind classifies a user-visible notification.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeValidation
	NoticeFailure
	NoticeError
)

// Notice is the transient notification produced by a composer action.
type Notice struct {
	Kind NoticeKind
	Text string
}

// OK reports whether the notice describes a success.
func (n Notice) OK() bool {
	return n.Kind == NoticeSuccess
}

// Draft is the text and attachments captured when a send starts.
type Draft struct {
	Message string
	Files   []types.Attachment
}

// Composer owns pending text, pending attachments and sent history for one
// session. It is not safe for concurrent use; the view's update loop owns it.
type Composer struct {
	text        string
	attachments []types.Attachment
	history     []types.HistoryEntry
	now         func() time.Time
}

// New returns an empty composer.
func New() *Composer {
	return &Composer{now: time.Now}
}

// Text returns the pending message text.
func (c *Composer) Text() string {
	return c.text
}

// SetText replaces the pending message text.
func (c *Composer) SetText(text string) {
	c.text = text
}

// AddAttachment appends att to the pending list.
func (c *Composer) AddAttachment(att types.Attachment) {
	c.attachments = append(c.attachments, att)
}

// RemoveAttachment drops the attachment at index; later ones shift down.
func (c *Composer) RemoveAttachment(index int) error {
	if index < 0 || index >= len(c.attachments) {
		return fmt.Errorf("no attachment at position %d", index+1)
	}
	c.attachments = append(c.attachments[:index:index], c.attachments[index+1:]...)
	return nil
}

// ClearAttachments drops every pending attachment and returns how many
// there were.
func (c *Composer) ClearAttachments() int {
	n := len(c.attachments)
	c.attachments = nil
	return n
}

// Attachments returns a copy of the pending attachments in order.
func (c *Composer) Attachments() []types.Attachment {
	return append([]types.Attachment(nil), c.attachments...)
}

// History returns sent entries, most recent first.
func (c *Composer) History() []types.HistoryEntry {
	return append([]types.HistoryEntry(nil), c.history...)
}

// Prepare snapshots the pending state for sending. It returns ErrEmptyDraft
// when the text is empty and there are no attachments.
func (c *Composer) Prepare() (Draft, error) {
	if c.text == "" && len(c.attachments) == 0 {
		return Draft{}, ErrEmptyDraft
	}
	return Draft{
		Message: c.text,
		Files:   c.Attachments(),
	}, nil
}

// Complete applies the outcome of sending draft and returns the notice to
// show. Only a successful response changes composer state.
func (c *Composer) Complete(draft Draft, resp types.SendResponse, err error) Notice {
	if err != nil {
		return Notice{Kind: NoticeError, Text: "Error\n" + err.Error()}
	}
	if !resp.Success {
		return Notice{Kind: NoticeFailure, Text: "Send failed\n" + formatPayload(resp.Error)}
	}

	c.text = ""
	c.attachments = nil
	entry := types.HistoryEntry{
		Message: draft.Message,
		Files:   draft.Files,
		SentAt:  c.now(),
	}
	c.history = append([]types.HistoryEntry{entry}, c.history...)

	text := resp.Message
	if text == "" {
		text = defaultSuccessMessage
	}
	return Notice{Kind: NoticeSuccess, Text: text}
}

// Send validates, issues exactly one request through sender and applies the
// result. Validation failures never reach the sender.
func (c *Composer) Send(ctx context.Context, sender Sender) Notice {
	draft, err := c.Prepare()
	if err != nil {
		return ValidationNotice(err)
	}
	resp, err := sender.Send(ctx, draft.Message, draft.Files)
	return c.Complete(draft, resp, err)
}

// ValidationNotice wraps a Prepare error for display.
func ValidationNotice(err error) Notice {
	return Notice{Kind: NoticeValidation, Text: err.Error()}
}

// formatPayload renders the relay's error value compactly ("null" when the
// relay sent nothing).
func formatPayload(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
