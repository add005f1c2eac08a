package tui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// keyMatches reports whether event is the configured binding. Bindings are
// single characters ("R", "/"), named keys ("esc", "enter", "tab") or
// control chords ("ctrl+s").
func keyMatches(event *tcell.EventKey, binding string) bool {
	if event == nil || binding == "" {
		return false
	}
	if len([]rune(binding)) == 1 {
		return event.Key() == tcell.KeyRune && event.Rune() == []rune(binding)[0] &&
			event.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0
	}

	name := strings.ToLower(strings.TrimSpace(binding))
	switch name {
	case "esc", "escape":
		return event.Key() == tcell.KeyEscape
	case "enter", "return":
		return event.Key() == tcell.KeyEnter
	case "tab":
		return event.Key() == tcell.KeyTab
	case "space":
		return event.Key() == tcell.KeyRune && event.Rune() == ' '
	}
	if letter, ok := strings.CutPrefix(name, "ctrl+"); ok && len(letter) == 1 && letter[0] >= 'a' && letter[0] <= 'z' {
		return event.Key() == tcell.KeyCtrlA+tcell.Key(letter[0]-'a')
	}
	return false
}

// bindKeys installs the global key router
func (a *App) bindKeys() {
	a.SetInputCapture(a.handleKey)
}

// handleKey routes one key press. It returns nil when the key was handled.
func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch a.mode() {
	case modeSearch:
		return a.handleSearchKey(event)
	case modeReply:
		return a.handleReplyKey(event)
	case modeOverlay:
		if keyMatches(event, a.keys.Close) || keyMatches(event, a.keys.Quit) {
			a.closeOverlay()
			return nil
		}
		return event
	}
	return a.handleListKey(event)
}

func (a *App) handleSearchKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyEnter, tcell.KeyTab:
		a.focusList()
		return nil
	}
	return event
}

func (a *App) handleReplyKey(event *tcell.EventKey) *tcell.EventKey {
	editing := a.reply.Editor().IsEditable()
	switch {
	case keyMatches(event, a.keys.Send):
		a.send()
		return nil
	case keyMatches(event, a.keys.Close):
		a.closeReply()
		return nil
	case event.Key() == tcell.KeyCtrlE:
		a.toggleEdit()
		return nil
	case !editing && keyMatches(event, a.keys.ToggleEdit):
		a.toggleEdit()
		return nil
	}
	// The editor consumes text input itself; while locked only scrolling
	// reaches it.
	return event
}

func (a *App) handleListKey(event *tcell.EventKey) *tcell.EventKey {
	k := a.keys
	switch {
	case keyMatches(event, k.Quit):
		a.quit()
	case keyMatches(event, k.Refresh):
		a.refresh()
	case keyMatches(event, k.Search):
		a.focusSearch()
	case keyMatches(event, k.Reply), event.Key() == tcell.KeyEnter:
		a.replyToSelected()
	case keyMatches(event, k.AutoReply):
		a.toggleAutoReply()
	case keyMatches(event, k.Details):
		a.showDetails()
	case keyMatches(event, k.History):
		a.showHistory()
	case keyMatches(event, k.Help):
		a.showHelp()
	case keyMatches(event, k.Close):
		a.clearSearch()
	default:
		return event
	}
	return nil
}

// shortcutHints is the compact hint shown in the status bar
func (a *App) shortcutHints() string {
	k := a.keys
	return fmt.Sprintf("%s refresh • %s search • %s reply • %s auto-reply • %s help • %s quit",
		k.Refresh, k.Search, k.Reply, k.AutoReply, k.Help, k.Quit)
}

// helpText lists every binding
func (a *App) helpText() string {
	k := a.keys
	rows := [][2]string{
		{k.Refresh, "Reload the email list"},
		{k.Search, "Search the list (Esc/Enter returns to the list)"},
		{k.Reply + " / enter", "Generate a reply for the selected email"},
		{k.ToggleEdit + " / ctrl+e", "Unlock or lock the reply body"},
		{k.Send, "Send the reply"},
		{k.Close, "Close the reply or panel; clear the search"},
		{k.AutoReply, "Toggle backend auto-reply"},
		{k.Details, "Show the full email"},
		{k.History, "Show the action history"},
		{k.Help, "Toggle this help"},
		{k.Quit, "Quit"},
	}
	var b strings.Builder
	b.WriteString("[::b]Shortcuts[::-]\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-18s %s\n", tview.Escape(r[0]), r[1])
	}
	return b.String()
}
