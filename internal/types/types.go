package types

import (
	"encoding/json"
	"time"
)

// MentionKind identifies what a mention trigger looks up.
type MentionKind string

const (
	MentionNone    MentionKind = ""
	MentionUser    MentionKind = "user"
	MentionChannel MentionKind = "channel"
)

// Trigger returns the character that starts a mention of this kind.
func (k MentionKind) Trigger() string {
	switch k {
	case MentionUser:
		return "@"
	case MentionChannel:
		return "#"
	}
	return ""
}

// Attachment is an image blob pending send. Attachments are unique only by
// their position in the pending list.
type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Size returns the blob length in bytes.
func (a Attachment) Size() int {
	return len(a.Data)
}

// HistoryEntry is a snapshot of a successfully sent message.
type HistoryEntry struct {
	Message string       `json:"message"`
	Files   []Attachment `json:"files"`
	SentAt  time.Time    `json:"sent_at"`
}

// Suggestion is one autocomplete row returned by the relay.
type Suggestion struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SendResponse is the relay's reply to POST /send.
type SendResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// AutocompleteResponse is the relay's reply to GET /autocomplete.
type AutocompleteResponse struct {
	Success bool         `json:"success"`
	Results []Suggestion `json:"results"`
	Error   string       `json:"error,omitempty"`
}
