package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFence(t *testing.T) {
	tests := []struct {
		line  string
		fence string
		lang  string
		ok    bool
	}{
		{"```go", "```", "go", true},
		{"~~~  python extra", "~~~", "python", true},
		{"  ````", "````", "", true},
		{"``", "", "", false},
		{"plain", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			fence, lang, ok := parseFence(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.fence, fence)
			assert.Equal(t, tt.lang, lang)
		})
	}
}

func TestSplitFences(t *testing.T) {
	segments := splitFences("look:\n```go\nx := 1\n```\nthanks")
	require.Len(t, segments, 3)
	assert.False(t, segments[0].fenced)
	assert.True(t, segments[1].fenced)
	assert.Equal(t, "go", segments[1].lang)
	assert.Equal(t, []string{"x := 1"}, segments[1].lines)
	assert.Equal(t, []string{"thanks"}, segments[2].lines)
}

func TestHighlightBodyNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	input := "start\n```go\nfmt.Println(\"hi\")\n```\nend"
	assert.Equal(t, input, highlightBody(input))
}

func TestHighlightBodyUnclosedFenceIsPlain(t *testing.T) {
	input := "start\n```go\ncode\nend"
	segments := splitFences(input)
	require.Len(t, segments, 1)
	assert.False(t, segments[0].fenced)
	assert.Equal(t, input, highlightBody(input))
}

func TestHighlightBodyKeepsFences(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	out := highlightBody("```go\nx := 1\n```")
	assert.Contains(t, out, "```go")
	assert.Contains(t, out, "\x1b[")
}
