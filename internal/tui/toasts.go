package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ajramos/gizassist/internal/config"
	"github.com/ajramos/gizassist/internal/services"
	"github.com/derailed/tview"
)

// maxVisibleToasts bounds the panel; older visible toasts scroll off
const maxVisibleToasts = 4

type toastEntry struct {
	toast   services.Toast
	visible bool
}

// ToastPanel renders stacked toasts and the busy indicator. The notifier's
// timers call it from their own goroutines; every change is queued onto the
// UI thread.
type ToastPanel struct {
	*tview.TextView

	queue  func(func())
	colors config.ToastColors

	mu      sync.Mutex
	entries []*toastEntry
	busy    bool
}

// NewToastPanel creates an empty panel
func NewToastPanel(queue func(func()), colors config.ToastColors) *ToastPanel {
	tp := &ToastPanel{
		TextView: tview.NewTextView().
			SetDynamicColors(true).
			SetWrap(false),
		queue:  queue,
		colors: colors,
	}
	return tp
}

// AddToast registers a toast; it stays hidden until ShowToast
func (tp *ToastPanel) AddToast(t services.Toast) {
	tp.mu.Lock()
	tp.entries = append(tp.entries, &toastEntry{toast: t})
	tp.mu.Unlock()
	tp.redraw()
}

// ShowToast makes a registered toast visible
func (tp *ToastPanel) ShowToast(id string) {
	tp.setVisible(id, true)
}

// HideToast starts the exit of a toast; it is no longer drawn
func (tp *ToastPanel) HideToast(id string) {
	tp.setVisible(id, false)
}

// RemoveToast forgets a toast
func (tp *ToastPanel) RemoveToast(id string) {
	tp.mu.Lock()
	for i, e := range tp.entries {
		if e.toast.ID == id {
			tp.entries = append(tp.entries[:i], tp.entries[i+1:]...)
			break
		}
	}
	tp.mu.Unlock()
	tp.redraw()
}

// SetBusy toggles the global busy indicator
func (tp *ToastPanel) SetBusy(visible bool) {
	tp.mu.Lock()
	tp.busy = visible
	tp.mu.Unlock()
	tp.redraw()
}

func (tp *ToastPanel) setVisible(id string, visible bool) {
	tp.mu.Lock()
	for _, e := range tp.entries {
		if e.toast.ID == id {
			e.visible = visible
			break
		}
	}
	tp.mu.Unlock()
	tp.redraw()
}

// Lines returns the rendered toast lines, oldest first, without color tags
func (tp *ToastPanel) Lines() []string {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	var out []string
	for _, e := range tp.visibleLocked() {
		out = append(out, fmt.Sprintf("%s %s", severityIcon(e.toast.Severity), e.toast.Message))
	}
	return out
}

// Busy reports whether the busy indicator is shown
func (tp *ToastPanel) Busy() bool {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.busy
}

func (tp *ToastPanel) visibleLocked() []*toastEntry {
	var vis []*toastEntry
	for _, e := range tp.entries {
		if e.visible {
			vis = append(vis, e)
		}
	}
	if len(vis) > maxVisibleToasts {
		vis = vis[len(vis)-maxVisibleToasts:]
	}
	return vis
}

func (tp *ToastPanel) redraw() {
	tp.mu.Lock()
	var b strings.Builder
	if tp.busy {
		b.WriteString(fmt.Sprintf("[%s]⟳ Working...[-]\n", tp.colors.InfoColor))
	}
	for _, e := range tp.visibleLocked() {
		b.WriteString(fmt.Sprintf("[%s]%s %s[-]\n",
			tp.severityColor(e.toast.Severity),
			severityIcon(e.toast.Severity),
			tview.Escape(e.toast.Message)))
	}
	text := strings.TrimRight(b.String(), "\n")
	tp.mu.Unlock()

	tp.queue(func() {
		tp.TextView.SetText(text)
	})
}

func (tp *ToastPanel) severityColor(s services.Severity) config.Color {
	switch s {
	case services.SeveritySuccess:
		return tp.colors.SuccessColor
	case services.SeverityError:
		return tp.colors.ErrorColor
	default:
		return tp.colors.InfoColor
	}
}

func severityIcon(s services.Severity) string {
	switch s {
	case services.SeveritySuccess:
		return "✓"
	case services.SeverityError:
		return "✗"
	default:
		return "ℹ"
	}
}
