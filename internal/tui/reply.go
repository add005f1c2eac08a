package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ajramos/gizassist/internal/config"
	"github.com/ajramos/gizassist/internal/services"
	"github.com/derailed/tview"
)

// ReplyPanel shows the reply session: recipient and subject for display and
// the body in a draft editor that is locked until the user unlocks it.
type ReplyPanel struct {
	*tview.Flex

	queue  func(func())
	colors config.ReplyColors
	keys   config.KeyBindings

	header *tview.TextView
	editor *DraftEditor
	footer *tview.TextView

	// onOpen and onClose switch pages and focus; set by the App
	onOpen  func()
	onClose func()

	mu       sync.Mutex
	snapshot services.ReplySnapshot
	open     bool
}

// NewReplyPanel builds the panel. changed receives the draft text after
// every user edit.
func NewReplyPanel(queue func(func()), colors config.ReplyColors, keys config.KeyBindings, changed func(string)) *ReplyPanel {
	rp := &ReplyPanel{
		Flex:   tview.NewFlex().SetDirection(tview.FlexRow),
		queue:  queue,
		colors: colors,
		keys:   keys,
		header: tview.NewTextView().SetDynamicColors(true).SetWrap(false),
		editor: NewDraftEditor(),
		footer: tview.NewTextView().SetDynamicColors(true).SetWrap(false),
	}
	rp.editor.SetChangedFunc(changed)
	rp.editor.SetBorder(true)
	rp.AddItem(rp.header, 4, 0, false).
		AddItem(rp.editor, 0, 1, true).
		AddItem(rp.footer, 1, 0, false)
	rp.SetBorder(true).SetTitle(" Reply ")
	return rp
}

// Editor returns the body editor
func (rp *ReplyPanel) Editor() *DraftEditor {
	return rp.editor
}

// OpenReply shows a freshly generated draft
func (rp *ReplyPanel) OpenReply(s services.ReplySnapshot) {
	rp.mu.Lock()
	rp.snapshot, rp.open = s, true
	rp.mu.Unlock()
	rp.queue(func() {
		rp.editor.SetEditable(!s.Locked)
		rp.editor.SetText(s.Body)
		rp.draw(s)
		if rp.onOpen != nil {
			rp.onOpen()
		}
	})
}

// UpdateReply reflects a state change of the open draft. The editor text is
// only replaced when it differs, so the cursor survives the user's own edits.
func (rp *ReplyPanel) UpdateReply(s services.ReplySnapshot) {
	rp.mu.Lock()
	rp.snapshot = s
	rp.mu.Unlock()
	rp.queue(func() {
		rp.editor.SetEditable(!s.Locked)
		if rp.editor.GetText() != s.Body {
			rp.editor.SetText(s.Body)
		}
		rp.draw(s)
	})
}

// CloseReply hides the panel
func (rp *ReplyPanel) CloseReply() {
	rp.mu.Lock()
	rp.snapshot, rp.open = services.ReplySnapshot{}, false
	rp.mu.Unlock()
	rp.queue(func() {
		rp.editor.SetEditable(false)
		rp.editor.SetText("")
		if rp.onClose != nil {
			rp.onClose()
		}
	})
}

// IsOpen reports whether a draft is displayed
func (rp *ReplyPanel) IsOpen() bool {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return rp.open
}

// Snapshot returns the last state shown
func (rp *ReplyPanel) Snapshot() services.ReplySnapshot {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return rp.snapshot
}

// HeaderText returns the header without color tags
func (rp *ReplyPanel) HeaderText() string {
	return rp.header.GetText(true)
}

func (rp *ReplyPanel) draw(s services.ReplySnapshot) {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]To:[::-] %s\n", tview.Escape(s.To))
	fmt.Fprintf(&b, "[::b]Subject:[::-] %s\n", tview.Escape(s.Subject))
	var meta []string
	if s.Priority != "" {
		meta = append(meta, "Priority: "+tview.Escape(s.Priority))
	}
	if s.ThreadCount > 1 {
		meta = append(meta, fmt.Sprintf("Thread: %d messages", s.ThreadCount))
	}
	b.WriteString(strings.Join(meta, " • "))
	rp.header.SetText(b.String())

	color, label := rp.colors.LockedColor, "locked"
	switch s.State {
	case services.ReplyReadyEditable:
		color, label = rp.colors.EditableColor, "editing"
	case services.ReplySending:
		color, label = rp.colors.SendingColor, "sending..."
	case services.ReplyGenerating:
		color, label = rp.colors.SendingColor, "generating..."
	}
	rp.editor.SetBorderColor(color.Color())
	rp.editor.SetTitle(fmt.Sprintf(" Body (%s) ", label))

	edit := rp.keys.ToggleEdit
	if s.State == services.ReplyReadyEditable {
		edit = "ctrl+e"
	}
	rp.footer.SetText(tview.Escape(fmt.Sprintf("%s edit/lock • %s send • %s close", edit, rp.keys.Send, rp.keys.Close)))
}
