package tui

import (
	"sync"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/ajramos/gizassist/internal/config"
	"github.com/ajramos/gizassist/internal/render"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	noMatchesText    = "No emails match the search"
	defaultRowWidth  = 100
	previewMaxLength = 160
)

// EmailList renders the email collection as table rows. Hidden items keep
// their place in the collection; only visible ones get a row.
type EmailList struct {
	*tview.Table

	queue    func(func())
	renderer *render.EmailRenderer
	colors   config.ListColors

	mu      sync.Mutex
	emails  []backend.Email
	visible []bool
	rows    []int // table row -> index into emails
	onMove  func(backend.Email, bool)
}

// NewEmailList creates an empty list
func NewEmailList(queue func(func()), renderer *render.EmailRenderer, colors config.ListColors) *EmailList {
	l := &EmailList{
		Table: tview.NewTable().
			SetSelectable(true, false).
			SetFixed(0, 0),
		queue:    queue,
		renderer: renderer,
		colors:   colors,
	}
	l.SetSelectedStyle(tcell.StyleDefault.Background(colors.SelectedColor.Color()))
	l.SetSelectionChangedFunc(func(row, _ int) {
		l.mu.Lock()
		cb := l.onMove
		e, ok := l.emailAtRowLocked(row)
		l.mu.Unlock()
		if cb != nil {
			cb(e, ok)
		}
	})
	return l
}

// SetSelectionFunc registers a callback for cursor movement
func (l *EmailList) SetSelectionFunc(fn func(e backend.Email, ok bool)) {
	l.mu.Lock()
	l.onMove = fn
	l.mu.Unlock()
}

// RenderList replaces every row
func (l *EmailList) RenderList(emails []backend.Email) {
	l.mu.Lock()
	l.emails = append([]backend.Email(nil), emails...)
	l.visible = make([]bool, len(emails))
	for i := range l.visible {
		l.visible[i] = true
	}
	l.mu.Unlock()
	l.redraw()
}

// SetVisibility shows or hides rows by collection index
func (l *EmailList) SetVisibility(visible []bool) {
	l.mu.Lock()
	if len(visible) != len(l.emails) {
		l.mu.Unlock()
		return
	}
	l.visible = append([]bool(nil), visible...)
	l.mu.Unlock()
	l.redraw()
}

// Selected returns the email under the cursor
func (l *EmailList) Selected() (backend.Email, bool) {
	row, _ := l.GetSelection()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.emailAtRowLocked(row)
}

// VisibleCount returns the number of rows showing an email
func (l *EmailList) VisibleCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

func (l *EmailList) emailAtRowLocked(row int) (backend.Email, bool) {
	if row < 0 || row >= len(l.rows) {
		return backend.Email{}, false
	}
	return l.emails[l.rows[row]], true
}

type listRow struct {
	text  string
	index int
}

// redraw rebuilds the rows on the UI goroutine, where the widget geometry
// is owned
func (l *EmailList) redraw() {
	l.queue(func() {
		width := defaultRowWidth
		if _, _, w, _ := l.GetInnerRect(); w > 0 {
			width = w
		}

		l.mu.Lock()
		var rows []listRow
		for i, e := range l.emails {
			if l.visible[i] {
				rows = append(rows, listRow{text: l.renderer.FormatEmailRow(e, width), index: i})
			}
		}
		l.rows = l.rows[:0]
		for _, r := range rows {
			l.rows = append(l.rows, r.index)
		}
		empty := render.EmptyStateText
		if len(l.emails) > 0 {
			empty = noMatchesText
		}
		l.mu.Unlock()

		l.Clear()
		if len(rows) == 0 {
			l.SetCell(0, 0, tview.NewTableCell(empty).
				SetTextColor(l.colors.DateColor.Color()).
				SetSelectable(false).
				SetExpansion(1))
			return
		}
		for r, row := range rows {
			l.SetCell(r, 0, tview.NewTableCell(tview.Escape(row.text)).
				SetTextColor(l.colors.SubjectColor.Color()).
				SetExpansion(1))
		}
		// Select notifies onMove so the preview follows the new rows
		sel, _ := l.GetSelection()
		if sel >= len(rows) || sel < 0 {
			sel = 0
		}
		l.Select(sel, 0)
	})
}

// previewText is the one-line snippet shown under the list
func (l *EmailList) previewText(e backend.Email) string {
	return l.renderer.FormatSnippet(e, previewMaxLength)
}
