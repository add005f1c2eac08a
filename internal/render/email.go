package render

import (
	"fmt"
	"strings"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/mattn/go-runewidth"
)

// NoContent is shown in place of an empty snippet.
const NoContent = "No content"

// EmptyStateText is shown when the backend returns no emails.
const EmptyStateText = "No emails found"

// EmailRenderer handles email rendering and formatting for both the markup
// fragment and the terminal list.
type EmailRenderer struct {
	senderWidth int
	dateWidth   int
}

// NewEmailRenderer creates a new email renderer
func NewEmailRenderer() *EmailRenderer {
	return &EmailRenderer{
		senderWidth: 22,
		dateWidth:   18,
	}
}

// ItemHTML builds the markup for one list item. Every field is escaped; the
// reply button carries the id as a data attribute exactly like the item does.
func (er *EmailRenderer) ItemHTML(e backend.Email) string {
	snippet := e.Snippet
	if snippet == "" {
		snippet = NoContent
	}
	id := EscapeHTML(e.ID)

	var b strings.Builder
	b.WriteString(`<div class="email-item" data-id="` + id + `">`)
	b.WriteString(`<div class="email-header">`)
	b.WriteString(`<span class="email-sender">` + EscapeHTML(e.From) + `</span>`)
	b.WriteString(`<span class="email-date">` + EscapeHTML(e.Date) + `</span>`)
	b.WriteString(`</div>`)
	b.WriteString(`<div class="email-subject">` + EscapeHTML(e.Subject) + `</div>`)
	b.WriteString(`<div class="email-body">` + EscapeHTML(snippet) + `</div>`)
	b.WriteString(`<div class="email-actions">`)
	b.WriteString(`<button class="reply-btn" data-id="` + id + `">Reply</button>`)
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)
	return b.String()
}

// EmptyStateHTML is the markup rendered for an empty collection.
func (er *EmailRenderer) EmptyStateHTML() string {
	return `<div class="empty-state">` + EmptyStateText + `</div>`
}

// ListHTML renders a whole collection, falling back to the empty state.
func (er *EmailRenderer) ListHTML(emails []backend.Email) string {
	if len(emails) == 0 {
		return er.EmptyStateHTML()
	}
	var b strings.Builder
	for _, e := range emails {
		b.WriteString(er.ItemHTML(e))
		b.WriteByte('\n')
	}
	return b.String()
}

// ItemText is the searchable text of an item: the text content of its markup.
func (er *EmailRenderer) ItemText(e backend.Email) string {
	text, err := TextContent(er.ItemHTML(e))
	if err != nil {
		// The fragment is generated here and always parses; keep the raw fields
		// searchable regardless.
		return strings.Join([]string{e.From, e.Date, e.Subject, e.Snippet}, " ")
	}
	return text
}

// FormatEmailRow formats an email for terminal list display with fixed columns:
// Sender | Subject | Date. The result is plain text; callers escape it for
// their own markup.
func (er *EmailRenderer) FormatEmailRow(e backend.Email, maxWidth int) string {
	sender := SenderName(e.From)
	if sender == "" {
		sender = "(No sender)"
	}
	subject := e.Subject
	if subject == "" {
		subject = "(No subject)"
	}
	date := DisplayDate(e.Date)

	if maxWidth < 40 {
		maxWidth = 40
	}
	// account for separators (" | ", " | ") = 6
	subjectWidth := maxWidth - er.senderWidth - er.dateWidth - 6
	if subjectWidth < 10 {
		subjectWidth = 10
	}

	return fmt.Sprintf("%s | %s | %s",
		fitWidth(SanitizeForTerminal(sender), er.senderWidth),
		fitWidth(SanitizeForTerminal(subject), subjectWidth),
		fitWidth(date, er.dateWidth))
}

// FormatSnippet returns the one-line preview shown under a row.
func (er *EmailRenderer) FormatSnippet(e backend.Email, maxWidth int) string {
	snippet := strings.Join(strings.Fields(SanitizeForTerminal(e.Snippet)), " ")
	if snippet == "" {
		snippet = NoContent
	}
	return runewidth.Truncate(snippet, maxWidth, "...")
}

// SenderName extracts the display name from "Name <addr>" forms.
func SenderName(from string) string {
	from = strings.TrimSpace(from)
	if from == "" {
		return ""
	}
	if i := strings.Index(from, "<"); i > 0 && strings.Contains(from[i:], ">") {
		name := strings.Trim(strings.TrimSpace(from[:i]), `"`)
		if name != "" {
			return name
		}
	}
	return from
}

// fitWidth truncates and pads on the right to fit a fixed width
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "...")
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
