package services

import (
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a toast
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Toast lifecycle defaults
const (
	DefaultToastEnterDelay = 10 * time.Millisecond
	DefaultToastDuration   = 3 * time.Second
	DefaultToastExitDelay  = 300 * time.Millisecond
)

// Toast is one transient notification
type Toast struct {
	ID        string
	Severity  Severity
	Message   string
	CreatedAt time.Time
}

// NotifierOptions tunes the toast lifecycle. Zero fields take the defaults.
type NotifierOptions struct {
	EnterDelay time.Duration
	Duration   time.Duration
	ExitDelay  time.Duration
}

// Notifier is the notification channel: stacked toasts with their own timers,
// and a busy indicator that stays visible while any key is present.
type Notifier struct {
	mu       sync.Mutex
	view     ToastView
	busyView BusyView
	logger   *log.Logger
	opts     NotifierOptions

	timers map[string]*time.Timer
	busy   map[string]struct{}
	closed bool
}

// NewNotifier creates a notifier. Nil views and logger are accepted.
func NewNotifier(view ToastView, busyView BusyView, logger *log.Logger, opts NotifierOptions) *Notifier {
	if view == nil {
		view = nopViews{}
	}
	if busyView == nil {
		busyView = nopViews{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if opts.EnterDelay <= 0 {
		opts.EnterDelay = DefaultToastEnterDelay
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultToastDuration
	}
	if opts.ExitDelay <= 0 {
		opts.ExitDelay = DefaultToastExitDelay
	}
	return &Notifier{
		view:     view,
		busyView: busyView,
		logger:   logger,
		opts:     opts,
		timers:   make(map[string]*time.Timer),
		busy:     make(map[string]struct{}),
	}
}

// Success shows a success toast
func (n *Notifier) Success(msg string) { n.Notify(SeveritySuccess, msg) }

// Error shows an error toast
func (n *Notifier) Error(msg string) { n.Notify(SeverityError, msg) }

// Info shows an info toast
func (n *Notifier) Info(msg string) { n.Notify(SeverityInfo, msg) }

// Notify adds a toast and starts its lifecycle: enter, stay, hide, remove.
// It returns the toast id, empty after Close.
func (n *Notifier) Notify(severity Severity, msg string) string {
	n.logger.Printf("%s: %s", severityToString(severity), msg)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ""
	}

	t := Toast{
		ID:        uuid.New().String(),
		Severity:  severity,
		Message:   msg,
		CreatedAt: time.Now(),
	}
	n.view.AddToast(t)
	n.schedule(t.ID, n.opts.EnterDelay, func() {
		n.view.ShowToast(t.ID)
		n.schedule(t.ID, n.opts.Duration, func() {
			n.view.HideToast(t.ID)
			n.schedule(t.ID, n.opts.ExitDelay, func() {
				n.view.RemoveToast(t.ID)
				delete(n.timers, t.ID)
			})
		})
	})
	return t.ID
}

// schedule replaces the pending timer of a toast. step runs with n.mu held.
// Callers hold n.mu.
func (n *Notifier) schedule(id string, d time.Duration, step func()) {
	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// Close stopped us, or a later step replaced us
		if n.closed || n.timers[id] != timer {
			return
		}
		step()
	})
	n.timers[id] = timer
}

// Pending returns the number of toasts that have not been removed yet
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.timers)
}

// Show marks key as busy. Idempotent.
func (n *Notifier) Show(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.busy[key]; ok {
		return
	}
	n.busy[key] = struct{}{}
	if len(n.busy) == 1 {
		n.busyView.SetBusy(true)
	}
}

// Hide clears key. Idempotent; the indicator hides when no key remains.
func (n *Notifier) Hide(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.busy[key]; !ok {
		return
	}
	delete(n.busy, key)
	if len(n.busy) == 0 {
		n.busyView.SetBusy(false)
	}
}

// Busy reports whether any key is present
func (n *Notifier) Busy() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.busy) > 0
}

// BusyKeys returns the present keys, sorted
func (n *Notifier) BusyKeys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	keys := make([]string, 0, len(n.busy))
	for k := range n.busy {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close stops every pending toast timer. Later toasts are logged only.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
}

func severityToString(s Severity) string {
	switch s {
	case SeveritySuccess:
		return "SUCCESS"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}
