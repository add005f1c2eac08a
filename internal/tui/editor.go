package tui

import (
	"strings"
	"unicode"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// cursorGlyph marks the insertion point while the draft is editable
const cursorGlyph = "█"

// DraftEditor is a multiline text editor for the reply body. Lines are kept
// as runes so cursor movement never splits a multibyte character. A locked
// editor displays the text and ignores edits.
type DraftEditor struct {
	*tview.TextView

	lines    [][]rune
	row, col int
	editable bool
	changed  func(string)
}

// NewDraftEditor creates a locked, empty editor
func NewDraftEditor() *DraftEditor {
	tv := tview.NewTextView().
		SetDynamicColors(false).
		SetRegions(false).
		SetWrap(true).
		SetScrollable(true)
	e := &DraftEditor{
		TextView: tv,
		lines:    [][]rune{{}},
	}
	e.refresh()
	return e
}

// SetText replaces the content and moves the cursor to the end. The change
// callback is not invoked.
func (e *DraftEditor) SetText(text string) {
	parts := strings.Split(text, "\n")
	e.lines = make([][]rune, len(parts))
	for i, p := range parts {
		e.lines[i] = []rune(p)
	}
	e.row = len(e.lines) - 1
	e.col = len(e.lines[e.row])
	e.refresh()
}

// GetText returns the current content
func (e *DraftEditor) GetText() string {
	parts := make([]string, len(e.lines))
	for i, l := range e.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// SetChangedFunc sets the callback invoked after every user edit
func (e *DraftEditor) SetChangedFunc(changed func(string)) *DraftEditor {
	e.changed = changed
	return e
}

// SetEditable locks or unlocks the editor
func (e *DraftEditor) SetEditable(editable bool) {
	if e.editable == editable {
		return
	}
	e.editable = editable
	e.refresh()
}

// IsEditable reports whether edits are accepted
func (e *DraftEditor) IsEditable() bool {
	return e.editable
}

// CursorPosition returns the cursor line and column, in runes
func (e *DraftEditor) CursorPosition() (int, int) {
	return e.row, e.col
}

// InputHandler edits the text when unlocked and falls back to the text
// view's scrolling otherwise.
func (e *DraftEditor) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	scroll := e.TextView.InputHandler()
	return e.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		if e.HandleKey(event) {
			return
		}
		if scroll != nil {
			scroll(event, setFocus)
		}
	})
}

// HandleKey applies an editing key and reports whether it was consumed.
// Keys with other meanings (Esc, Tab, control shortcuts) are never consumed.
func (e *DraftEditor) HandleKey(event *tcell.EventKey) bool {
	if !e.editable {
		return false
	}
	switch event.Key() {
	case tcell.KeyEnter:
		e.insertNewline()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.backspace()
	case tcell.KeyDelete:
		e.deleteForward()
	case tcell.KeyUp:
		e.moveVertical(-1)
	case tcell.KeyDown:
		e.moveVertical(1)
	case tcell.KeyLeft:
		e.moveLeft()
	case tcell.KeyRight:
		e.moveRight()
	case tcell.KeyHome:
		e.col = 0
		e.refresh()
	case tcell.KeyEnd:
		e.col = len(e.lines[e.row])
		e.refresh()
	case tcell.KeyRune:
		r := event.Rune()
		if event.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 || !unicode.IsPrint(r) {
			return false
		}
		e.insertRune(r)
	default:
		return false
	}
	return true
}

func (e *DraftEditor) insertRune(r rune) {
	line := e.lines[e.row]
	next := make([]rune, 0, len(line)+1)
	next = append(next, line[:e.col]...)
	next = append(next, r)
	next = append(next, line[e.col:]...)
	e.lines[e.row] = next
	e.col++
	e.textChanged()
}

func (e *DraftEditor) insertNewline() {
	line := e.lines[e.row]
	left := append([]rune(nil), line[:e.col]...)
	right := append([]rune(nil), line[e.col:]...)

	lines := make([][]rune, 0, len(e.lines)+1)
	lines = append(lines, e.lines[:e.row]...)
	lines = append(lines, left, right)
	lines = append(lines, e.lines[e.row+1:]...)
	e.lines = lines

	e.row++
	e.col = 0
	e.textChanged()
}

func (e *DraftEditor) backspace() {
	switch {
	case e.col > 0:
		line := e.lines[e.row]
		e.lines[e.row] = append(line[:e.col-1:e.col-1], line[e.col:]...)
		e.col--
	case e.row > 0:
		prev := e.lines[e.row-1]
		e.col = len(prev)
		e.lines[e.row-1] = append(append([]rune(nil), prev...), e.lines[e.row]...)
		e.lines = append(e.lines[:e.row], e.lines[e.row+1:]...)
		e.row--
	default:
		return
	}
	e.textChanged()
}

func (e *DraftEditor) deleteForward() {
	line := e.lines[e.row]
	switch {
	case e.col < len(line):
		e.lines[e.row] = append(line[:e.col:e.col], line[e.col+1:]...)
	case e.row < len(e.lines)-1:
		e.lines[e.row] = append(append([]rune(nil), line...), e.lines[e.row+1]...)
		e.lines = append(e.lines[:e.row+1], e.lines[e.row+2:]...)
	default:
		return
	}
	e.textChanged()
}

func (e *DraftEditor) moveVertical(delta int) {
	row := e.row + delta
	if row < 0 || row >= len(e.lines) {
		return
	}
	e.row = row
	if e.col > len(e.lines[row]) {
		e.col = len(e.lines[row])
	}
	e.refresh()
}

func (e *DraftEditor) moveLeft() {
	switch {
	case e.col > 0:
		e.col--
	case e.row > 0:
		e.row--
		e.col = len(e.lines[e.row])
	default:
		return
	}
	e.refresh()
}

func (e *DraftEditor) moveRight() {
	switch {
	case e.col < len(e.lines[e.row]):
		e.col++
	case e.row < len(e.lines)-1:
		e.row++
		e.col = 0
	default:
		return
	}
	e.refresh()
}

func (e *DraftEditor) textChanged() {
	e.refresh()
	if e.changed != nil {
		e.changed(e.GetText())
	}
}

// refresh redraws the text, with the cursor glyph when editable
func (e *DraftEditor) refresh() {
	if !e.editable {
		e.TextView.SetText(e.GetText())
		return
	}
	parts := make([]string, len(e.lines))
	for i, l := range e.lines {
		if i == e.row {
			parts[i] = string(l[:e.col]) + cursorGlyph + string(l[e.col:])
			continue
		}
		parts[i] = string(l)
	}
	e.TextView.SetText(strings.Join(parts, "\n"))
}
