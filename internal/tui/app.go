package tui

import (
	"context"
	"io"
	"log"
	"strings"
	"sync/atomic"

	"github.com/ajramos/gizassist/internal/config"
	"github.com/ajramos/gizassist/internal/render"
	"github.com/ajramos/gizassist/internal/services"
	"github.com/derailed/tview"
)

// Page names
const (
	pageMain   = "main"
	pageReply  = "reply"
	pageDetail = "detail"
	pageHelp   = "help"
)

type inputMode int

const (
	modeList inputMode = iota
	modeSearch
	modeReply
	modeOverlay
)

// App is the interactive adapter: it owns the widgets, implements every view
// the orchestrator drives and turns key presses into orchestrator commands.
type App struct {
	*tview.Application

	keys     config.KeyBindings
	theme    *config.ColorsConfig
	logger   *log.Logger
	renderer *render.EmailRenderer
	orch     *services.Orchestrator

	ctx    context.Context
	cancel context.CancelFunc

	// queue runs a widget update on the UI goroutine; spawn runs a blocking
	// command off it. Tests replace both with synchronous calls.
	queue   func(func())
	spawn   func(func())
	stopped atomic.Bool

	pages   *tview.Pages
	search  *tview.InputField
	list    *EmailList
	preview *tview.TextView
	reply   *ReplyPanel
	detail  *DetailPanel
	help    *tview.TextView
	toasts  *ToastPanel
	status  *StatusBar

	debounce *Debouncer
	overlay  string
}

// NewApp creates the TUI. theme and logger may be nil.
func NewApp(cfg *config.Config, theme *config.ColorsConfig, logger *log.Logger) *App {
	a := newApp(cfg, theme, logger, nil)
	a.spawn = func(fn func()) { go fn() }
	return a
}

func newApp(cfg *config.Config, theme *config.ColorsConfig, logger *log.Logger, queue func(func())) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if theme == nil {
		theme = config.DefaultColors()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Application: tview.NewApplication(),
		keys:        cfg.Keys,
		theme:       theme,
		logger:      logger,
		renderer:    render.NewEmailRenderer(),
		ctx:         ctx,
		cancel:      cancel,
		debounce:    NewDebouncer(cfg.GetSearchDebounce()),
	}
	if queue == nil {
		queue = func(fn func()) {
			if a.stopped.Load() {
				return
			}
			a.QueueUpdateDraw(fn)
		}
	}
	a.queue = queue
	a.spawn = func(fn func()) { fn() }

	a.applyTheme()
	a.initComponents()
	a.initLayout()
	a.bindKeys()
	return a
}

// SetOrchestrator connects the command handlers. It must be called before
// Run.
func (a *App) SetOrchestrator(o *services.Orchestrator) {
	a.orch = o
}

// Views returns the surfaces the orchestrator renders into
func (a *App) Views() services.Views {
	return services.Views{
		List:      a.list,
		Reply:     a.reply,
		AutoReply: a.status,
		Detail:    a.detail,
		Status:    a.status,
	}
}

// Toasts returns the toast panel, which is both the toast and busy view
func (a *App) Toasts() *ToastPanel {
	return a.toasts
}

// Run starts the first load in the background and blocks in the UI loop
func (a *App) Run() error {
	defer a.shutdown()
	if a.orch != nil {
		a.spawn(func() {
			if err := a.orch.Start(a.ctx); err != nil {
				a.logger.Printf("ERROR: initial load failed: %v", err)
			}
		})
	}
	return a.Application.Run()
}

func (a *App) shutdown() {
	a.stopped.Store(true)
	a.cancel()
	a.debounce.Stop()
}

func (a *App) quit() {
	a.shutdown()
	a.Stop()
}

// applyTheme sets the global tview styles from the theme
func (a *App) applyTheme() {
	t := a.theme
	tview.Styles.PrimitiveBackgroundColor = t.Body.BgColor.Color()
	tview.Styles.PrimaryTextColor = t.Body.FgColor.Color()
	tview.Styles.BorderColor = t.Frame.Border.FgColor.Color()
	tview.Styles.FocusColor = t.Frame.Border.FocusColor.Color()
	tview.Styles.TitleColor = t.Frame.Title.FgColor.Color()
}

func (a *App) mode() inputMode {
	switch {
	case a.search.HasFocus():
		return modeSearch
	case a.overlay != "":
		return modeOverlay
	case a.reply.IsOpen():
		return modeReply
	}
	return modeList
}

// Command handlers. Network-bound commands run through spawn so the UI
// goroutine never blocks on the backend.

func (a *App) refresh() {
	a.run("refresh", func(ctx context.Context) error {
		_, err := a.orch.Refresh(ctx)
		return err
	})
}

func (a *App) replyToSelected() {
	e, ok := a.list.Selected()
	if !ok {
		return
	}
	a.run("reply", func(ctx context.Context) error {
		_, err := a.orch.Reply(ctx, e.ID)
		return err
	})
}

func (a *App) send() {
	a.run("send", func(ctx context.Context) error {
		_, err := a.orch.Send(ctx)
		return err
	})
}

func (a *App) toggleEdit() {
	if a.orch == nil {
		return
	}
	a.orch.ToggleEdit()
}

func (a *App) closeReply() {
	if a.orch == nil {
		return
	}
	a.orch.CloseReply()
}

func (a *App) draftChanged(text string) {
	if a.orch == nil {
		return
	}
	_ = a.orch.UpdateDraft(text)
}

func (a *App) toggleAutoReply() {
	a.run("auto-reply", func(ctx context.Context) error {
		_, err := a.orch.ToggleAutoReply(ctx, !a.orch.AutoReply().Enabled())
		return err
	})
}

func (a *App) showDetails() {
	e, ok := a.list.Selected()
	if !ok {
		return
	}
	a.run("details", func(ctx context.Context) error {
		_, err := a.orch.ShowDetails(ctx, e.ID)
		return err
	})
}

func (a *App) showHistory() {
	e, ok := a.list.Selected()
	if !ok {
		return
	}
	a.run("history", func(ctx context.Context) error {
		_, err := a.orch.ShowHistory(ctx, e.ID)
		return err
	})
}

func (a *App) searchChanged(text string) {
	query := strings.TrimSpace(text)
	a.debounce.Trigger(func() {
		if a.orch != nil {
			a.orch.Search(a.ctx, query)
		}
	})
}

func (a *App) clearSearch() {
	if a.search.GetText() == "" {
		return
	}
	// SetText fires the changed func, which debounces the clear
	a.search.SetText("")
}

// run executes a command. Failures were already shown to the user; they
// are only logged here.
func (a *App) run(name string, cmd func(ctx context.Context) error) {
	if a.orch == nil {
		return
	}
	a.spawn(func() {
		if err := cmd(a.ctx); err != nil {
			a.logger.Printf("TUI: %s: %v", name, err)
		}
	})
}
