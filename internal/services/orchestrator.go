package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/ajramos/gizassist/internal/backend"
)

// Health status texts
const (
	StatusBackendHealthy     = "backend: healthy"
	StatusBackendDegraded    = "backend: %s"
	StatusBackendUnreachable = "backend: unreachable"
)

// OrchestratorOptions configures the orchestrator's components
type OrchestratorOptions struct {
	ListCooldown time.Duration
	ClearReloads bool
}

// Orchestrator turns user intents into guarded backend calls and routes the
// outcome to the views. Every command is safe to call from any goroutine.
type Orchestrator struct {
	client   Backend
	guard    *Guard
	notifier Toaster
	views    Views
	logger   *log.Logger

	store   *EmailStore
	session *ReplySession
	auto    *AutoReply
}

// NewOrchestrator wires the core components. busy receives the guard's
// in-flight keys; it is usually the same *Notifier as toaster.
func NewOrchestrator(client Backend, toaster Toaster, busy BusyIndicator, views Views, logger *log.Logger, opts OrchestratorOptions) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	views = views.withDefaults()
	guard := NewGuard(busy)
	store := NewEmailStore(client, guard, views.List, toaster, logger, EmailStoreOptions{
		Cooldown:     opts.ListCooldown,
		ClearReloads: opts.ClearReloads,
	})
	return &Orchestrator{
		client:   client,
		guard:    guard,
		notifier: toaster,
		views:    views,
		logger:   logger,
		store:    store,
		session:  NewReplySession(client, guard, views.Reply, toaster, store, logger),
		auto:     NewAutoReply(client, guard, views.AutoReply, toaster, logger),
	}
}

// Guard exposes the fetch guard, mainly for tests that need a fake clock
func (o *Orchestrator) Guard() *Guard { return o.guard }

// Store exposes the email collection
func (o *Orchestrator) Store() *EmailStore { return o.store }

// Session exposes the reply session
func (o *Orchestrator) Session() *ReplySession { return o.session }

// AutoReply exposes the auto-reply toggle
func (o *Orchestrator) AutoReply() *AutoReply { return o.auto }

// Start probes the backend, loads the emails and reads the auto-reply state.
// Load failures are already reported to the user; the returned error is the
// load error, if any.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.CheckHealth(ctx)
	_, loadErr := o.store.Load(ctx)
	_, _ = o.auto.Init(ctx)
	return loadErr
}

// CheckHealth puts the backend state in the status line. Failures are logged,
// never toasted.
func (o *Orchestrator) CheckHealth(ctx context.Context) {
	var health *backend.Health
	dispatched, err := o.guard.Do(ctx, KeyBackendHealth, 0, func(ctx context.Context) error {
		var err error
		health, err = o.client.Health(ctx)
		return err
	})
	if !dispatched {
		return
	}
	switch {
	case err != nil:
		o.logger.Printf("Orchestrator: health probe failed: %v", err)
		o.views.Status.SetStatus(StatusBackendUnreachable)
	case health.Healthy():
		o.views.Status.SetStatus(StatusBackendHealthy)
	default:
		status := strings.TrimSpace(health.Status)
		if status == "" {
			status = "unknown"
		}
		o.views.Status.SetStatus(fmt.Sprintf(StatusBackendDegraded, status))
	}
}

// Refresh reloads the email list, subject to the cooldown
func (o *Orchestrator) Refresh(ctx context.Context) (bool, error) {
	return o.store.Load(ctx)
}

// Search filters the list; an empty query clears the filter
func (o *Orchestrator) Search(ctx context.Context, query string) {
	o.store.Search(ctx, query)
}

// Reply starts a reply session for the email with id
func (o *Orchestrator) Reply(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		o.notifier.Error(MsgReplyNoID)
		return false, fmt.Errorf("reply: %w", ErrMissingEmailID)
	}
	return o.session.Generate(ctx, id)
}

// ToggleEdit flips the draft's edit lock
func (o *Orchestrator) ToggleEdit() bool {
	return o.session.ToggleEdit()
}

// UpdateDraft stores the user's draft text. Writes to a locked or closed
// draft are ignored and logged.
func (o *Orchestrator) UpdateDraft(body string) error {
	err := o.session.SetBody(body)
	if err != nil && !errors.Is(err, ErrDraftLocked) {
		o.logger.Printf("Orchestrator: draft update ignored: %v", err)
	}
	return err
}

// Send delivers the open draft
func (o *Orchestrator) Send(ctx context.Context) (bool, error) {
	return o.session.Send(ctx)
}

// CloseReply discards the open draft
func (o *Orchestrator) CloseReply() {
	o.session.Close()
}

// ToggleAutoReply sets the backend's auto-reply switch
func (o *Orchestrator) ToggleAutoReply(ctx context.Context, enabled bool) (bool, error) {
	return o.auto.Toggle(ctx, enabled)
}

// ShowDetails loads the full email and hands it to the detail view
func (o *Orchestrator) ShowDetails(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		o.notifier.Error(MsgDetailFailed + ": Email ID missing")
		return false, fmt.Errorf("show details: %w", ErrMissingEmailID)
	}
	var detail *backend.EmailDetail
	dispatched, err := o.guard.Do(ctx, KeyEmailDetail, 0, func(ctx context.Context) error {
		var err error
		detail, err = o.client.GetEmail(ctx, id)
		return err
	})
	if !dispatched {
		return false, nil
	}
	if err != nil {
		o.logger.Printf("Orchestrator: detail for %s failed: %v", id, err)
		o.notifier.Error(UserMessage(err, MsgDetailFailed))
		return true, err
	}
	o.views.Detail.ShowDetail(detail)
	return true, nil
}

// ShowHistory loads the backend's action history for an email
func (o *Orchestrator) ShowHistory(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		o.notifier.Error(MsgHistoryFailed + ": Email ID missing")
		return false, fmt.Errorf("show history: %w", ErrMissingEmailID)
	}
	var actions []backend.Action
	dispatched, err := o.guard.Do(ctx, KeyEmailActions, 0, func(ctx context.Context) error {
		var err error
		actions, err = o.client.ListActions(ctx, id)
		return err
	})
	if !dispatched {
		return false, nil
	}
	if err != nil {
		o.logger.Printf("Orchestrator: history for %s failed: %v", id, err)
		o.notifier.Error(UserMessage(err, MsgHistoryFailed))
		return true, err
	}
	o.views.Detail.ShowHistory(id, actions)
	return true, nil
}
