package tui

import (
	"fmt"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/ajramos/gizassist/internal/version"
	"github.com/derailed/tview"
)

const (
	toastRows   = maxVisibleToasts + 1
	previewRows = 3
)

func (a *App) initComponents() {
	a.search = tview.NewInputField().
		SetLabel(" Search: ").
		SetFieldBackgroundColor(a.theme.Body.BgColor.Color()).
		SetFieldTextColor(a.theme.Body.FgColor.Color())
	a.search.SetChangedFunc(a.searchChanged)

	a.list = NewEmailList(a.queue, a.renderer, a.theme.List)
	a.list.SetBorder(true).SetTitle(fmt.Sprintf(" %s ", version.GetVersionString()))

	a.preview = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	a.preview.SetTextColor(a.theme.List.SnippetColor.Color())
	a.list.SetSelectionFunc(func(e backend.Email, ok bool) {
		text := ""
		if ok {
			text = tview.Escape(a.list.previewText(e))
		}
		a.preview.SetText(text)
	})

	a.reply = NewReplyPanel(a.queue, a.theme.Reply, a.keys, a.draftChanged)
	a.reply.onOpen = func() {
		a.pages.ShowPage(pageReply)
		a.SetFocus(a.reply.Editor())
	}
	a.reply.onClose = func() {
		a.pages.HidePage(pageReply)
		if a.overlay == "" {
			a.focusList()
		}
	}

	a.detail = NewDetailPanel(a.queue)
	a.detail.onShow = func() { a.showOverlay(pageDetail) }

	a.help = tview.NewTextView().SetDynamicColors(true)
	a.help.SetBorder(true).SetTitle(" Help ")
	a.help.SetText(a.helpText())

	a.toasts = NewToastPanel(a.queue, a.theme.Toast)
	a.status = NewStatusBar(a.queue, a.shortcutHints())
}

func (a *App) initLayout() {
	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.search, 1, 0, false).
		AddItem(a.list, 0, 1, true).
		AddItem(a.preview, previewRows, 0, false).
		AddItem(a.toasts, toastRows, 0, false).
		AddItem(a.status, 1, 0, false)

	a.pages = tview.NewPages().
		AddPage(pageMain, main, true, true).
		AddPage(pageReply, centered(a.reply, 100, 30), true, false).
		AddPage(pageDetail, centered(a.detail, 110, 36), true, false).
		AddPage(pageHelp, centered(a.help, 70, 20), true, false)
	a.SetRoot(a.pages, true)
	a.SetFocus(a.list)
}

// centered wraps p in a box of the given size in the middle of the screen
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

func (a *App) focusList() {
	a.SetFocus(a.list)
}

func (a *App) focusSearch() {
	a.SetFocus(a.search)
}

func (a *App) showOverlay(page string) {
	if a.overlay != "" && a.overlay != page {
		a.pages.HidePage(a.overlay)
	}
	a.overlay = page
	a.pages.ShowPage(page)
	a.SetFocus(a.pages)
}

func (a *App) closeOverlay() {
	if a.overlay == "" {
		return
	}
	a.pages.HidePage(a.overlay)
	a.overlay = ""
	if a.reply.IsOpen() {
		a.SetFocus(a.reply.Editor())
		return
	}
	a.focusList()
}

func (a *App) showHelp() {
	a.showOverlay(pageHelp)
}
