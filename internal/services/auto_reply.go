package services

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
)

// Auto-reply status texts
const (
	AutoReplyOn          = "ON"
	AutoReplyOff         = "OFF"
	AutoReplyUnavailable = "Unavailable"
)

// AutoReply mirrors the backend's auto-reply switch
type AutoReply struct {
	mu      sync.Mutex
	client  AutoReplyBackend
	guard   *Guard
	view    AutoReplyView
	toaster Toaster
	logger  *log.Logger

	enabled   bool
	available bool
}

// NewAutoReply creates the toggle in the unavailable state
func NewAutoReply(client AutoReplyBackend, guard *Guard, view AutoReplyView, toaster Toaster, logger *log.Logger) *AutoReply {
	if view == nil {
		view = nopViews{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &AutoReply{
		client:  client,
		guard:   guard,
		view:    view,
		toaster: toaster,
		logger:  logger,
	}
}

// Init reads the backend state. Failure marks the control unavailable and
// unchecked without notifying the user.
func (a *AutoReply) Init(ctx context.Context) (bool, error) {
	var enabled bool
	dispatched, err := a.guard.Do(ctx, KeyAutoReplyStatus, 0, func(ctx context.Context) error {
		var err error
		enabled, err = a.client.AutoReplyStatus(ctx)
		return err
	})
	if !dispatched {
		return false, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.logger.Printf("AutoReply: status unavailable: %v", err)
		a.enabled, a.available = false, false
		a.syncLocked()
		return true, err
	}
	a.enabled, a.available = enabled, true
	a.syncLocked()
	return true, nil
}

// Toggle sets the switch optimistically and reverts on failure. A toggle while
// another is in flight is ignored and the view re-synced.
func (a *AutoReply) Toggle(ctx context.Context, enabled bool) (bool, error) {
	var (
		prevEnabled   bool
		prevAvailable bool
		message       string
	)
	dispatched, err := a.guard.Do(ctx, KeyAutoReplyToggle, 0, func(ctx context.Context) error {
		a.mu.Lock()
		prevEnabled, prevAvailable = a.enabled, a.available
		a.enabled, a.available = enabled, true
		a.syncLocked()
		a.mu.Unlock()

		var err error
		message, err = a.client.SetAutoReply(ctx, enabled)
		return err
	})
	if !dispatched {
		a.mu.Lock()
		a.syncLocked()
		a.mu.Unlock()
		return false, nil
	}

	if err != nil {
		a.mu.Lock()
		a.enabled, a.available = prevEnabled, prevAvailable
		a.syncLocked()
		a.mu.Unlock()
		a.logger.Printf("AutoReply: toggle to %t failed: %v", enabled, err)
		a.toaster.Error(MsgAutoReplyFailed)
		return true, err
	}

	if strings.TrimSpace(message) == "" {
		message = MsgAutoReplyUpdated
	}
	a.toaster.Success(message)
	return true, nil
}

// Enabled reports the mirrored switch value
func (a *AutoReply) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Available reports whether the backend state is known
func (a *AutoReply) Available() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.available
}

// Status returns the status text shown next to the control
func (a *AutoReply) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked()
}

func (a *AutoReply) statusLocked() string {
	switch {
	case !a.available:
		return AutoReplyUnavailable
	case a.enabled:
		return AutoReplyOn
	default:
		return AutoReplyOff
	}
}

func (a *AutoReply) syncLocked() {
	a.view.SetAutoReply(a.enabled && a.available, a.statusLocked())
}
