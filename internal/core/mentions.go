package core

import (
	"unicode"

	"github.com/adamavenir/dispatch/internal/types"
)

// Mention is a trigger token found immediately before the caret.
// Start and Caret are rune offsets into the input value.
type Mention struct {
	Kind  types.MentionKind
	Start int
	Caret int
	Query string
}

// Trigger returns the trigger rune for the mention's kind.
func (m Mention) Trigger() rune {
	for _, r := range m.Kind.Trigger() {
		return r
	}
	return 0
}

// FindMention looks for a trigger followed by non-whitespace that runs up to
// the caret. When the trailing run holds several triggers the leftmost one
// wins, so "a#b@c" is a channel query for "b@c".
func FindMention(value string, caret int) (Mention, bool) {
	runes := []rune(value)
	if caret < 0 {
		caret = 0
	}
	if caret > len(runes) {
		caret = len(runes)
	}

	runStart := caret
	for runStart > 0 && !unicode.IsSpace(runes[runStart-1]) {
		runStart--
	}

	for i := runStart; i < caret; i++ {
		kind := triggerKind(runes[i])
		if kind == types.MentionNone {
			continue
		}
		return Mention{
			Kind:  kind,
			Start: i,
			Caret: caret,
			Query: string(runes[i+1 : caret]),
		}, true
	}
	return Mention{}, false
}

func triggerKind(r rune) types.MentionKind {
	for _, kind := range []types.MentionKind{types.MentionUser, types.MentionChannel} {
		if kind.Trigger() == string(r) {
			return kind
		}
	}
	return types.MentionNone
}

// MentionToken renders the canonical relay token for a mention target.
func MentionToken(kind types.MentionKind, id string) string {
	trigger := kind.Trigger()
	if trigger == "" {
		return ""
	}
	return "<" + trigger + id + ">"
}

// SpliceMention replaces the trigger..caret span recorded in m with the
// canonical token for id plus one space. It returns the new value and the
// caret position just after the inserted space. It reports false when the
// value no longer holds the recorded trigger at m.Start.
func SpliceMention(value string, m Mention, id string) (string, int, bool) {
	runes := []rune(value)
	if m.Start < 0 || m.Start >= len(runes) || m.Caret < m.Start || m.Caret > len(runes) {
		return value, 0, false
	}
	if runes[m.Start] != m.Trigger() {
		return value, 0, false
	}

	insert := []rune(MentionToken(m.Kind, id) + " ")
	updated := make([]rune, 0, len(runes)-(m.Caret-m.Start)+len(insert))
	updated = append(updated, runes[:m.Start]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[m.Caret:]...)
	return string(updated), m.Start + len(insert), true
}
