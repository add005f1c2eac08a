package render

import (
	"strings"
	"time"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlEscaper covers the five characters that can break out of text or
// attribute context.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML returns s safe for insertion into markup, both as element text and
// as a quoted attribute value. Empty input yields an empty string.
func EscapeHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlEscaper.Replace(s)
}

// dateLayouts are the shapes the backend is known to emit: RFC 2822 headers
// straight from Gmail and ISO timestamps from its own storage.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ParseDate tries every known layout and reports whether one matched.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date string as "Jan 2, 2006 15:04". Unparseable or empty
// input yields an empty string.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}

// DisplayDate is FormatDate with a fallback to the raw value, for places where
// showing something beats showing nothing.
func DisplayDate(s string) string {
	if f := FormatDate(s); f != "" {
		return f
	}
	return strings.TrimSpace(s)
}

// TextContent returns the concatenated text nodes of an HTML fragment, the way a
// browser's textContent does: no separators are added between elements.
func TextContent(fragment string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, n := range nodes {
		collectText(&b, n)
	}
	return b.String(), nil
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

// SanitizeForTerminal drops control and zero-width characters and normalizes
// typographic glyphs that tend to render as tofu.
func SanitizeForTerminal(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\u00a0', '\u202f':
			b.WriteRune(' ')
		case '\u200b', '\u200c', '\u200d', '\ufeff', '\u00ad', '\u2060':
		case '\u2013', '\u2014':
			b.WriteRune('-')
		case '\u2018', '\u2019':
			b.WriteRune('\'')
		case '\u201c', '\u201d':
			b.WriteRune('"')
		case '\u2026':
			b.WriteString("...")
		default:
			if unicode.IsControl(r) && r != '\n' && r != '\t' {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeNewlines converts CRLF/CR to LF and collapses runs of blank lines.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}

// WrapText soft-wraps body text to width display columns, keeping quote
// prefixes ("> ") on continuation lines. Tokens wider than the line are left
// intact rather than split.
func WrapText(input string, width int) string {
	input = normalizeNewlines(input)
	if width <= 0 {
		return input
	}
	lines := strings.Split(input, "\n")
	var out strings.Builder
	for i, line := range lines {
		prefix := ""
		rest := line
		for strings.HasPrefix(rest, "> ") {
			prefix += "> "
			rest = strings.TrimPrefix(rest, "> ")
		}
		tokens := strings.Fields(rest)
		cur := prefix
		curWidth := runewidth.StringWidth(cur)
		started := false
		for _, tok := range tokens {
			w := runewidth.StringWidth(tok)
			switch {
			case !started:
				cur += tok
				curWidth += w
				started = true
			case curWidth+1+w <= width:
				cur += " " + tok
				curWidth += 1 + w
			default:
				out.WriteString(cur)
				out.WriteByte('\n')
				cur = prefix + tok
				curWidth = runewidth.StringWidth(prefix) + w
			}
		}
		out.WriteString(strings.TrimRight(cur, " "))
		if i < len(lines)-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}
