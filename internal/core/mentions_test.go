package core

import (
	"testing"

	"github.com/adamavenir/dispatch/internal/types"
)

func TestFindMention(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		cursor int
		ok     bool
		kind   types.MentionKind
		start  int
		query  string
	}{
		{
			name:   "user at end",
			value:  "hello @al",
			cursor: len("hello @al"),
			ok:     true,
			kind:   types.MentionUser,
			start:  len("hello "),
			query:  "al",
		},
		{
			name:   "channel at start",
			value:  "#gen",
			cursor: len("#gen"),
			ok:     true,
			kind:   types.MentionChannel,
			start:  0,
			query:  "gen",
		},
		{
			name:   "bare trigger",
			value:  "ping @",
			cursor: len("ping @"),
			ok:     true,
			kind:   types.MentionUser,
			start:  len("ping "),
			query:  "",
		},
		{
			name:   "no trigger",
			value:  "hello ",
			cursor: len("hello "),
			ok:     false,
		},
		{
			name:   "trigger before whitespace",
			value:  "@bob hi",
			cursor: len("@bob hi"),
			ok:     false,
		},
		{
			name:   "caret mid text",
			value:  "hi @bob there",
			cursor: len("hi @bo"),
			ok:     true,
			kind:   types.MentionUser,
			start:  len("hi "),
			query:  "bo",
		},
		{
			name:   "leftmost trigger in run",
			value:  "a#b@c",
			cursor: len("a#b@c"),
			ok:     true,
			kind:   types.MentionChannel,
			start:  1,
			query:  "b@c",
		},
		{
			name:   "embedded at",
			value:  "mail foo@bar",
			cursor: len("mail foo@bar"),
			ok:     true,
			kind:   types.MentionUser,
			start:  len("mail foo"),
			query:  "bar",
		},
		{
			name:   "multibyte prefix",
			value:  "안녕 @김",
			cursor: 5,
			ok:     true,
			kind:   types.MentionUser,
			start:  3,
			query:  "김",
		},
		{
			name:   "cursor past end is clamped",
			value:  "#ops",
			cursor: 99,
			ok:     true,
			kind:   types.MentionChannel,
			start:  0,
			query:  "ops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindMention(tt.value, tt.cursor)
			if ok != tt.ok {
				t.Fatalf("ok: got %v want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if got.Kind != tt.kind {
				t.Fatalf("kind: got %q want %q", got.Kind, tt.kind)
			}
			if got.Start != tt.start {
				t.Fatalf("start: got %d want %d", got.Start, tt.start)
			}
			if got.Query != tt.query {
				t.Fatalf("query: got %q want %q", got.Query, tt.query)
			}
		})
	}
}

func TestSpliceMention(t *testing.T) {
	value := "hello @al"
	m, ok := FindMention(value, len(value))
	if !ok {
		t.Fatal("expected mention")
	}
	got, caret, ok := SpliceMention(value, m, "123")
	if !ok {
		t.Fatal("expected splice")
	}
	if got != "hello <@123> " {
		t.Fatalf("got %q", got)
	}
	if caret != len([]rune("hello <@123> ")) {
		t.Fatalf("caret: got %d", caret)
	}
}

func TestSpliceMentionKeepsTail(t *testing.T) {
	value := "see #ge today"
	m, ok := FindMention(value, len("see #ge"))
	if !ok {
		t.Fatal("expected mention")
	}
	got, caret, ok := SpliceMention(value, m, "42")
	if !ok {
		t.Fatal("expected splice")
	}
	if got != "see <#42>  today" {
		t.Fatalf("got %q", got)
	}
	if caret != len("see <#42> ") {
		t.Fatalf("caret: got %d", caret)
	}
}

func TestSpliceMentionUsesRecordedTrigger(t *testing.T) {
	// A later '@' in the run must not move the splice start.
	value := "a#b@c"
	m, _ := FindMention(value, len(value))
	got, _, ok := SpliceMention(value, m, "9")
	if !ok {
		t.Fatal("expected splice")
	}
	if got != "a<#9> " {
		t.Fatalf("got %q", got)
	}
}

func TestSpliceMentionRejectsChangedValue(t *testing.T) {
	m := Mention{Kind: types.MentionUser, Start: 0, Caret: 3, Query: "al"}
	if _, _, ok := SpliceMention("xal", m, "1"); ok {
		t.Fatal("expected rejection when trigger is gone")
	}
	if _, _, ok := SpliceMention("", m, "1"); ok {
		t.Fatal("expected rejection for empty value")
	}
}

func TestMentionToken(t *testing.T) {
	if got := MentionToken(types.MentionUser, "123"); got != "<@123>" {
		t.Fatalf("user token: %q", got)
	}
	if got := MentionToken(types.MentionChannel, "77"); got != "<#77>" {
		t.Fatalf("channel token: %q", got)
	}
	if got := MentionToken(types.MentionNone, "1"); got != "" {
		t.Fatalf("none token: %q", got)
	}
}

func TestMentionTriggerMatchesKind(t *testing.T) {
	for _, kind := range []types.MentionKind{types.MentionUser, types.MentionChannel} {
		m := Mention{Kind: kind}
		if got := string(m.Trigger()); got != kind.Trigger() {
			t.Fatalf("kind %v: trigger %q, want %q", kind, got, kind.Trigger())
		}
		if back := triggerKind(m.Trigger()); back != kind {
			t.Fatalf("kind %v: round trip gave %v", kind, back)
		}
	}
	if got := (Mention{Kind: types.MentionNone}).Trigger(); got != 0 {
		t.Fatalf("none trigger: %q", got)
	}
	if got := triggerKind('!'); got != types.MentionNone {
		t.Fatalf("unexpected kind for '!': %v", got)
	}
}
