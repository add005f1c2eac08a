package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/google/uuid"
)

// ReplyState is the lifecycle state of the reply session
type ReplyState int

const (
	ReplyIdle ReplyState = iota
	ReplyGenerating
	ReplyReadyLocked
	ReplyReadyEditable
	ReplySending
)

func (s ReplyState) String() string {
	switch s {
	case ReplyIdle:
		return "idle"
	case ReplyGenerating:
		return "generating"
	case ReplyReadyLocked:
		return "ready-locked"
	case ReplyReadyEditable:
		return "ready-editable"
	case ReplySending:
		return "sending"
	default:
		return fmt.Sprintf("ReplyState(%d)", int(s))
	}
}

// Ready reports whether a draft is open for review
func (s ReplyState) Ready() bool {
	return s == ReplyReadyLocked || s == ReplyReadyEditable
}

// ReplySnapshot is a read-only copy of the session for views
type ReplySnapshot struct {
	Tag         string
	State       ReplyState
	EmailID     string
	To          string
	Subject     string
	Body        string
	Locked      bool
	Priority    string
	ThreadCount int
}

// Loader reloads the email collection after a send
type Loader interface {
	Load(ctx context.Context) (bool, error)
}

// draft is the data of one open session
type draft struct {
	emailID     string
	to          string
	subject     string
	body        string
	priority    string
	threadCount int
}

// ReplySession owns the single reply draft and its state machine.
//
// Every dispatch is tagged with the session tag current at dispatch time. A
// settlement whose tag no longer matches (the session was closed or replaced
// meanwhile) does not touch the session.
type ReplySession struct {
	mu      sync.Mutex
	client  ReplyBackend
	guard   *Guard
	view    ReplyView
	toaster Toaster
	loader  Loader
	logger  *log.Logger

	state ReplyState
	tag   string
	draft *draft
}

// NewReplySession creates an idle session. view, loader and logger may be nil.
func NewReplySession(client ReplyBackend, guard *Guard, view ReplyView, toaster Toaster, loader Loader, logger *log.Logger) *ReplySession {
	if view == nil {
		view = nopViews{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ReplySession{
		client:  client,
		guard:   guard,
		view:    view,
		toaster: toaster,
		loader:  loader,
		logger:  logger,
	}
}

// Generate requests a draft for emailID. While a generate or a send is in
// flight a second call is a silent no-op. An open draft stays in place until
// the new one arrives.
func (rs *ReplySession) Generate(ctx context.Context, emailID string) (bool, error) {
	if strings.TrimSpace(emailID) == "" {
		rs.toaster.Error(MsgGenerateNoID)
		return false, fmt.Errorf("generate reply: %w", ErrMissingEmailID)
	}

	var (
		tag       string
		prevTag   string
		prevState ReplyState
		reply     *backend.GeneratedReply
		skipped   bool
	)
	dispatched, err := rs.guard.Do(ctx, KeyReplyGenerate, 0, func(ctx context.Context) error {
		rs.mu.Lock()
		if rs.state == ReplySending {
			rs.mu.Unlock()
			skipped = true
			return nil
		}
		prevState, prevTag = rs.state, rs.tag
		tag = uuid.New().String()
		rs.tag = tag
		rs.state = ReplyGenerating
		// an open draft stays visible but locked until the new one settles
		if rs.draft != nil {
			rs.view.UpdateReply(rs.snapshotLocked())
		}
		rs.mu.Unlock()

		var err error
		reply, err = rs.client.GenerateReply(ctx, emailID)
		return err
	})
	if !dispatched || skipped {
		return false, nil
	}

	rs.mu.Lock()
	current := rs.tag == tag
	if err != nil {
		if current {
			rs.state, rs.tag = prevState, prevTag
			if rs.draft != nil {
				rs.view.UpdateReply(rs.snapshotLocked())
			}
		}
		rs.mu.Unlock()
		rs.logger.Printf("ReplySession: generate for %s failed: %v", emailID, err)
		rs.toaster.Error(UserMessage(err, MsgGenerateFailed))
		return true, err
	}
	if !current {
		rs.mu.Unlock()
		rs.logger.Printf("ReplySession: dropping stale draft for %s (session %s closed)", emailID, tag)
		return true, nil
	}

	rs.draft = &draft{
		emailID:     emailID,
		to:          reply.Sender,
		subject:     "Re: " + reply.Subject,
		body:        reply.Reply,
		priority:    reply.Analysis.PriorityLabel(),
		threadCount: reply.ThreadCount,
	}
	rs.state = ReplyReadyLocked
	rs.view.OpenReply(rs.snapshotLocked())
	rs.mu.Unlock()

	if reply.Analysis != nil {
		priority := reply.Analysis.PriorityLabel()
		if priority == "" {
			priority = DefaultPriorityLabel
		}
		rs.toaster.Info(fmt.Sprintf(MsgPriorityTemplate, priority))
	}
	return true, nil
}

// ToggleEdit flips the edit lock of an open draft and reports whether it did.
func (rs *ReplySession) ToggleEdit() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	switch rs.state {
	case ReplyReadyLocked:
		rs.state = ReplyReadyEditable
	case ReplyReadyEditable:
		rs.state = ReplyReadyLocked
	default:
		return false
	}
	rs.view.UpdateReply(rs.snapshotLocked())
	return true
}

// SetBody replaces the draft text. Only an editable draft accepts writes.
func (rs *ReplySession) SetBody(body string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	switch {
	case rs.draft == nil || !rs.state.Ready():
		return ErrNoActiveSession
	case rs.state != ReplyReadyEditable:
		return ErrDraftLocked
	}
	rs.draft.body = body
	return nil
}

// Send delivers the open draft. With no open draft it is a silent no-op.
// On success the session closes and the collection is reloaded, best effort.
func (rs *ReplySession) Send(ctx context.Context) (bool, error) {
	rs.mu.Lock()
	if rs.draft == nil || !rs.state.Ready() {
		rs.mu.Unlock()
		return false, nil
	}
	if strings.TrimSpace(rs.draft.body) == "" {
		rs.mu.Unlock()
		rs.toaster.Error(MsgEmptyDraft)
		return false, fmt.Errorf("send reply: %w", ErrEmptyDraft)
	}
	rs.mu.Unlock()

	var (
		tag       string
		prevState ReplyState
		req       backend.SendReplyRequest
		skipped   bool
	)
	dispatched, err := rs.guard.Do(ctx, KeyReplySend, 0, func(ctx context.Context) error {
		rs.mu.Lock()
		// Re-check under the lock: the session may have closed meanwhile
		if rs.draft == nil || !rs.state.Ready() {
			rs.mu.Unlock()
			skipped = true
			return nil
		}
		tag = rs.tag
		prevState = rs.state
		req = backend.SendReplyRequest{
			EmailID: rs.draft.emailID,
			To:      rs.draft.to,
			Subject: rs.draft.subject,
			Body:    rs.draft.body,
		}
		rs.state = ReplySending
		rs.view.UpdateReply(rs.snapshotLocked())
		rs.mu.Unlock()

		return rs.client.SendReply(ctx, req)
	})
	if !dispatched || skipped {
		return false, nil
	}

	rs.mu.Lock()
	current := rs.tag == tag && rs.state == ReplySending
	if err != nil {
		if current {
			rs.state = prevState
			rs.view.UpdateReply(rs.snapshotLocked())
		}
		rs.mu.Unlock()
		rs.logger.Printf("ReplySession: send to %s failed: %v", req.To, err)
		rs.toaster.Error(UserMessage(err, MsgSendFailed))
		return true, err
	}
	if current {
		rs.resetLocked()
		rs.view.CloseReply()
	} else {
		rs.logger.Printf("ReplySession: send for session %s settled after close", tag)
	}
	rs.mu.Unlock()

	rs.toaster.Success(MsgReplySent)
	if rs.loader != nil {
		if _, err := rs.loader.Load(ctx); err != nil {
			rs.logger.Printf("ReplySession: reload after send failed: %v", err)
		}
	}
	return true, nil
}

// Close discards the session. Settlements still in flight become stale.
func (rs *ReplySession) Close() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	wasOpen := rs.state != ReplyIdle
	rs.resetLocked()
	if wasOpen {
		rs.view.CloseReply()
	}
}

func (rs *ReplySession) resetLocked() {
	rs.state = ReplyIdle
	rs.tag = ""
	rs.draft = nil
}

// State returns the current lifecycle state
func (rs *ReplySession) State() ReplyState {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.state
}

// Snapshot returns a copy of the session
func (rs *ReplySession) Snapshot() ReplySnapshot {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.snapshotLocked()
}

func (rs *ReplySession) snapshotLocked() ReplySnapshot {
	s := ReplySnapshot{
		Tag:    rs.tag,
		State:  rs.state,
		Locked: rs.state != ReplyReadyEditable,
	}
	if rs.draft != nil {
		s.EmailID = rs.draft.emailID
		s.To = rs.draft.to
		s.Subject = rs.draft.subject
		s.Body = rs.draft.body
		s.Priority = rs.draft.priority
		s.ThreadCount = rs.draft.threadCount
	}
	return s
}
