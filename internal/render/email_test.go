package render

import (
	"strings"
	"testing"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemHTML_EscapesEveryField(t *testing.T) {
	er := NewEmailRenderer()
	html := er.ItemHTML(backend.Email{
		ID:      `a"b`,
		From:    "<script>",
		Subject: "Q&A",
		Date:    "'today'",
		Snippet: "1 < 2",
	})

	assert.Contains(t, html, `data-id="a&quot;b"`)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Q&amp;A")
	assert.Contains(t, html, "&#039;today&#039;")
	assert.Contains(t, html, "1 &lt; 2")
	assert.NotContains(t, html, "<script>")
	assert.Equal(t, 2, strings.Count(html, `data-id="a&quot;b"`), "item and reply button carry the id")
}

func TestItemHTML_EmptySnippetShowsNoContent(t *testing.T) {
	er := NewEmailRenderer()
	html := er.ItemHTML(backend.Email{ID: "1", From: "a", Subject: "s"})
	assert.Contains(t, html, NoContent)
}

func TestListHTML_EmptyState(t *testing.T) {
	er := NewEmailRenderer()
	assert.Equal(t, `<div class="empty-state">No emails found</div>`, er.ListHTML(nil))

	out := er.ListHTML([]backend.Email{{ID: "1"}, {ID: "2"}})
	assert.Equal(t, 2, strings.Count(out, `class="email-item"`))
}

func TestItemText_IsSearchableTextContent(t *testing.T) {
	er := NewEmailRenderer()
	text := er.ItemText(backend.Email{ID: "1", From: "Alice", Subject: "Invoice & receipt", Snippet: "see attached"})

	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "Invoice & receipt")
	assert.Contains(t, text, "see attached")
	assert.Contains(t, text, "Reply")
	assert.NotContains(t, text, "email-item")
}

func TestFormatEmailRow_FixedColumns(t *testing.T) {
	er := NewEmailRenderer()
	row := er.FormatEmailRow(backend.Email{
		From:    `"Alice Example" <alice@example.com>`,
		Subject: strings.Repeat("long subject ", 20),
		Date:    "Mon, 02 Jan 2006 15:04:05 -0700",
	}, 100)

	require.True(t, strings.HasPrefix(row, "Alice Example"))
	assert.Contains(t, row, "...")
	assert.Contains(t, row, "Jan 2, 2006 15:04")
	assert.Equal(t, 100, runewidth.StringWidth(row))
}

func TestFormatEmailRow_Placeholders(t *testing.T) {
	er := NewEmailRenderer()
	row := er.FormatEmailRow(backend.Email{}, 80)
	assert.Contains(t, row, "(No sender)")
	assert.Contains(t, row, "(No subject)")
}

func TestSenderName(t *testing.T) {
	assert.Equal(t, "Bob", SenderName("Bob <bob@example.com>"))
	assert.Equal(t, "Bob Smith", SenderName(`"Bob Smith" <bob@example.com>`))
	assert.Equal(t, "bob@example.com", SenderName("bob@example.com"))
	assert.Equal(t, "<bob@example.com>", SenderName("<bob@example.com>"))
	assert.Equal(t, "", SenderName("  "))
}

func TestFormatSnippet(t *testing.T) {
	er := NewEmailRenderer()
	assert.Equal(t, NoContent, er.FormatSnippet(backend.Email{}, 40))
	assert.Equal(t, "a b c", er.FormatSnippet(backend.Email{Snippet: "a\n b\t c"}, 40))
	assert.LessOrEqual(t, runewidth.StringWidth(er.FormatSnippet(backend.Email{Snippet: strings.Repeat("x", 100)}, 20)), 20)
}
