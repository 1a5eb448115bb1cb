package chat

import (
	"bytes"
	"os"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
)

const chromaStyleName = "dracula"

// bodySegment is a run of message lines; fenced segments keep their
// opening and closing fence lines around the code.
type bodySegment struct {
	fenced bool
	lang   string
	open   string
	close  string
	lines  []string
}

// splitFences breaks body into plain and fenced segments. An opening fence
// without a matching close is treated as plain text.
func splitFences(body string) []bodySegment {
	lines := strings.Split(body, "\n")
	var segments []bodySegment
	plain := bodySegment{}
	flush := func() {
		if len(plain.lines) > 0 {
			segments = append(segments, plain)
			plain = bodySegment{}
		}
	}

	for i := 0; i < len(lines); i++ {
		fence, lang, ok := parseFence(lines[i])
		end := -1
		if ok {
			end = closingFence(lines, i+1, fence)
		}
		if end == -1 {
			plain.lines = append(plain.lines, lines[i])
			continue
		}
		flush()
		segments = append(segments, bodySegment{
			fenced: true,
			lang:   lang,
			open:   lines[i],
			close:  lines[end],
			lines:  lines[i+1 : end],
		})
		i = end
	}
	flush()
	return segments
}

// highlightBody colors fenced code in a sent message. NO_COLOR disables it.
func highlightBody(body string) string {
	if body == "" || os.Getenv("NO_COLOR") != "" {
		return body
	}
	segments := splitFences(body)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if !seg.fenced {
			out = append(out, strings.Join(seg.lines, "\n"))
			continue
		}
		code := highlightCode(strings.Join(seg.lines, "\n"), seg.lang)
		if code == "" {
			out = append(out, seg.open, seg.close)
			continue
		}
		out = append(out, seg.open, code, seg.close)
	}
	return strings.Join(out, "\n")
}

func parseFence(line string) (string, string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 3 || (trimmed[0] != '`' && trimmed[0] != '~') {
		return "", "", false
	}
	count := 0
	for count < len(trimmed) && trimmed[count] == trimmed[0] {
		count++
	}
	if count < 3 {
		return "", "", false
	}
	lang := ""
	if fields := strings.Fields(trimmed[count:]); len(fields) > 0 {
		lang = fields[0]
	}
	return trimmed[:count], lang, true
}

func closingFence(lines []string, start int, fence string) int {
	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if len(trimmed) >= len(fence) && strings.Trim(trimmed, fence[:1]) == "" {
			return i
		}
	}
	return -1
}

func highlightCode(code, lang string) string {
	if code == "" {
		return ""
	}
	iterator, err := resolveLexer(code, lang).Tokenise(nil, code)
	if err != nil {
		return code
	}
	style := styles.Get(chromaStyleName)
	if style == nil {
		style = styles.Fallback
	}
	var buf bytes.Buffer
	if err := formatters.TTY256.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func resolveLexer(code, lang string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang = strings.ToLower(strings.TrimSpace(lang)); lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
