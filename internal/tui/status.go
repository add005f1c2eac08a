package tui

import (
	"fmt"
	"sync"

	"github.com/derailed/tview"
)

// StatusBar shows the backend status, the auto-reply control and key hints
type StatusBar struct {
	*tview.TextView

	queue func(func())
	hints string

	mu          sync.Mutex
	backend     string
	autoChecked bool
	autoStatus  string
}

// NewStatusBar creates a status bar with the given key hints
func NewStatusBar(queue func(func()), hints string) *StatusBar {
	sb := &StatusBar{
		TextView: tview.NewTextView().
			SetDynamicColors(true).
			SetWrap(false),
		queue:      queue,
		hints:      hints,
		backend:    "backend: connecting...",
		autoStatus: "...",
	}
	sb.TextView.SetText(sb.Text())
	return sb
}

// SetStatus replaces the backend status text
func (sb *StatusBar) SetStatus(text string) {
	sb.mu.Lock()
	sb.backend = text
	sb.mu.Unlock()
	sb.redraw()
}

// SetAutoReply reflects the auto-reply control
func (sb *StatusBar) SetAutoReply(checked bool, status string) {
	sb.mu.Lock()
	sb.autoChecked, sb.autoStatus = checked, status
	sb.mu.Unlock()
	sb.redraw()
}

// Text returns the status line without color tags
func (sb *StatusBar) Text() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	box := "[ ]"
	if sb.autoChecked {
		box = "[x]"
	}
	return fmt.Sprintf("%s • %s Auto-reply: %s • %s", sb.backend, box, sb.autoStatus, sb.hints)
}

func (sb *StatusBar) redraw() {
	text := tview.Escape(sb.Text())
	sb.queue(func() {
		sb.TextView.SetText(text)
	})
}
