package services

import (
	"context"

	"github.com/ajramos/gizassist/internal/backend"
)

// EmailBackend handles the email list and per-email reads
type EmailBackend interface {
	ListEmails(ctx context.Context) ([]backend.EmailRecord, error)
	GetEmail(ctx context.Context, id string) (*backend.EmailDetail, error)
	ListActions(ctx context.Context, emailID string) ([]backend.Action, error)
}

// ReplyBackend handles reply generation and delivery
type ReplyBackend interface {
	GenerateReply(ctx context.Context, emailID string) (*backend.GeneratedReply, error)
	SendReply(ctx context.Context, req backend.SendReplyRequest) error
}

// AutoReplyBackend handles the backend's auto-reply switch
type AutoReplyBackend interface {
	AutoReplyStatus(ctx context.Context) (bool, error)
	SetAutoReply(ctx context.Context, enabled bool) (string, error)
}

// HealthBackend probes the backend
type HealthBackend interface {
	Health(ctx context.Context) (*backend.Health, error)
}

// Backend is everything the orchestrator needs from the server.
// *backend.Client satisfies it.
type Backend interface {
	EmailBackend
	ReplyBackend
	AutoReplyBackend
	HealthBackend
}

// Toaster shows transient notifications
type Toaster interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// BusyIndicator tracks in-flight work by key
type BusyIndicator interface {
	Show(key string)
	Hide(key string)
}

// Views are called with the owning component's lock held and must not call
// back into it; adapters that need their own thread marshal the update.

// ListView renders the email collection
type ListView interface {
	// RenderList replaces every item. An empty slice means the empty state.
	RenderList(emails []backend.Email)
	// SetVisibility toggles items by index; len(visible) equals the last render.
	SetVisibility(visible []bool)
}

// ReplyView displays the reply session
type ReplyView interface {
	OpenReply(s ReplySnapshot)
	UpdateReply(s ReplySnapshot)
	CloseReply()
}

// AutoReplyView displays the auto-reply control and its status text
type AutoReplyView interface {
	SetAutoReply(checked bool, status string)
}

// DetailView displays per-email reads
type DetailView interface {
	ShowDetail(detail *backend.EmailDetail)
	ShowHistory(emailID string, actions []backend.Action)
}

// StatusView displays the persistent status line
type StatusView interface {
	SetStatus(text string)
}

// ToastView displays notifications driven by the Notifier's timers
type ToastView interface {
	AddToast(t Toast)
	ShowToast(id string)
	HideToast(id string)
	RemoveToast(id string)
}

// BusyView displays the global busy indicator
type BusyView interface {
	SetBusy(visible bool)
}

// Views bundles every surface the orchestrator drives. Nil members are
// replaced with no-op implementations.
type Views struct {
	List      ListView
	Reply     ReplyView
	AutoReply AutoReplyView
	Detail    DetailView
	Status    StatusView
}

type nopViews struct{}

func (nopViews) RenderList([]backend.Email)           {}
func (nopViews) SetVisibility([]bool)                 {}
func (nopViews) OpenReply(ReplySnapshot)              {}
func (nopViews) UpdateReply(ReplySnapshot)            {}
func (nopViews) CloseReply()                          {}
func (nopViews) SetAutoReply(bool, string)            {}
func (nopViews) ShowDetail(*backend.EmailDetail)      {}
func (nopViews) ShowHistory(string, []backend.Action) {}
func (nopViews) SetStatus(string)                     {}
func (nopViews) AddToast(Toast)                       {}
func (nopViews) ShowToast(string)                     {}
func (nopViews) HideToast(string)                     {}
func (nopViews) RemoveToast(string)                   {}
func (nopViews) SetBusy(bool)                         {}

func (v Views) withDefaults() Views {
	if v.List == nil {
		v.List = nopViews{}
	}
	if v.Reply == nil {
		v.Reply = nopViews{}
	}
	if v.AutoReply == nil {
		v.AutoReply = nopViews{}
	}
	if v.Detail == nil {
		v.Detail = nopViews{}
	}
	if v.Status == nil {
		v.Status = nopViews{}
	}
	return v
}
