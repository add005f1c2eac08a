package tui

import (
	"fmt"
	"strings"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/ajramos/gizassist/internal/render"
	"github.com/derailed/tview"
)

const detailWrapWidth = 96

// DetailPanel shows the full email or its action history
type DetailPanel struct {
	*tview.TextView

	queue  func(func())
	onShow func()
}

// NewDetailPanel creates a hidden detail panel
func NewDetailPanel(queue func(func())) *DetailPanel {
	dp := &DetailPanel{
		TextView: tview.NewTextView().
			SetDynamicColors(true).
			SetWrap(true).
			SetScrollable(true),
		queue: queue,
	}
	dp.SetBorder(true)
	return dp
}

// ShowDetail displays one email in full
func (dp *DetailPanel) ShowDetail(d *backend.EmailDetail) {
	if d == nil {
		return
	}
	text := formatDetail(d)
	dp.show(" Email ", text)
}

// ShowHistory displays the actions the backend recorded for an email
func (dp *DetailPanel) ShowHistory(emailID string, actions []backend.Action) {
	text := formatHistory(actions)
	dp.show(fmt.Sprintf(" History: %s ", tview.Escape(emailID)), text)
}

func (dp *DetailPanel) show(title, text string) {
	dp.queue(func() {
		dp.SetTitle(title)
		dp.TextView.SetText(text)
		dp.ScrollToBeginning()
		if dp.onShow != nil {
			dp.onShow()
		}
	})
}

func formatDetail(d *backend.EmailDetail) string {
	var b strings.Builder
	field := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "[::b]%s:[::-] %s\n", name, tview.Escape(render.SanitizeForTerminal(value)))
	}
	field("From", d.From)
	field("Subject", d.Subject)
	field("Date", render.DisplayDate(d.Date))
	field("Thread", d.ThreadID)
	b.WriteString("\n")

	body := d.Body
	if strings.TrimSpace(body) == "" {
		body = d.Snippet
	}
	if strings.TrimSpace(body) == "" {
		body = render.NoContent
	}
	b.WriteString(tview.Escape(render.WrapText(render.SanitizeForTerminal(body), detailWrapWidth)))
	return b.String()
}

func formatHistory(actions []backend.Action) string {
	if len(actions) == 0 {
		return "No actions recorded"
	}
	var b strings.Builder
	for _, a := range actions {
		line := fmt.Sprintf("%s  %s", render.DisplayDate(a.CreatedAt), a.ActionType)
		if d := strings.TrimSpace(a.Details); d != "" {
			line += "  " + d
		}
		b.WriteString(tview.Escape(render.SanitizeForTerminal(line)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
