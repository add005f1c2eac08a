package services

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/ajramos/gizassist/internal/render"
)

// EmailStoreOptions configures the collection store
type EmailStoreOptions struct {
	// Cooldown is the minimum spacing between list fetches; zero disables it
	Cooldown time.Duration
	// ClearReloads issues a Load after a search is cleared
	ClearReloads bool
}

// EmailStore holds the last fetched email collection and the search filter
// applied to it.
type EmailStore struct {
	mu       sync.Mutex
	client   EmailBackend
	guard    *Guard
	view     ListView
	toaster  Toaster
	renderer *render.EmailRenderer
	logger   *log.Logger
	opts     EmailStoreOptions

	emails  []backend.Email
	texts   []string // lowercased text content per item
	visible []bool
	query   string
}

// NewEmailStore creates a store. view and logger may be nil.
func NewEmailStore(client EmailBackend, guard *Guard, view ListView, toaster Toaster, logger *log.Logger, opts EmailStoreOptions) *EmailStore {
	if view == nil {
		view = nopViews{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &EmailStore{
		client:   client,
		guard:    guard,
		view:     view,
		toaster:  toaster,
		renderer: render.NewEmailRenderer(),
		logger:   logger,
		opts:     opts,
	}
}

// normalizeEmail is the one place the backend's two record shapes are
// reconciled. Gmail-style records carry `id`; stored rows carry `message_id`
// (the Gmail id) next to a local integer `id`, so `message_id` wins.
func normalizeEmail(rec backend.EmailRecord) backend.Email {
	return backend.Email{
		ID:      firstNonEmpty(rec.MessageID.String(), rec.ID.String()),
		From:    firstNonEmpty(rec.From, rec.Sender),
		Subject: rec.Subject,
		Date:    firstNonEmpty(rec.Date, rec.Timestamp),
		Snippet: rec.Snippet,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Load fetches the collection. Success replaces it and re-applies the active
// search; failure leaves it untouched and shows one error toast. A rejected
// dispatch (in flight or cooling down) returns (false, nil).
func (s *EmailStore) Load(ctx context.Context) (bool, error) {
	dispatched, err := s.guard.Do(ctx, KeyEmailsList, s.opts.Cooldown, func(ctx context.Context) error {
		records, err := s.client.ListEmails(ctx)
		if err != nil {
			return err
		}
		s.replace(records)
		return nil
	})
	if !dispatched {
		s.logger.Printf("EmailStore: load skipped (in flight or cooling down)")
		return false, nil
	}
	if err != nil {
		s.logger.Printf("EmailStore: load failed: %v", err)
		s.toaster.Error(UserMessage(err, MsgLoadFailed))
		return true, err
	}
	return true, nil
}

func (s *EmailStore) replace(records []backend.EmailRecord) {
	emails := make([]backend.Email, 0, len(records))
	texts := make([]string, 0, len(records))
	for _, rec := range records {
		e := normalizeEmail(rec)
		emails = append(emails, e)
		texts = append(texts, strings.ToLower(s.renderer.ItemText(e)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = emails
	s.texts = texts
	s.visible = make([]bool, len(emails))
	for i := range s.visible {
		s.visible[i] = true
	}
	s.logger.Printf("EmailStore: loaded %d emails", len(emails))
	s.view.RenderList(copyEmails(emails))
	if s.query != "" {
		s.applyLocked()
	}
}

// Search filters the rendered items by a case-insensitive substring of their
// text content. An empty or whitespace query clears the filter locally and,
// when configured, also reloads (subject to the cooldown).
func (s *EmailStore) Search(ctx context.Context, query string) {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	s.query = q
	s.applyLocked()
	s.mu.Unlock()

	if q == "" && s.opts.ClearReloads {
		_, _ = s.Load(ctx)
	}
}

func (s *EmailStore) applyLocked() {
	for i, text := range s.texts {
		s.visible[i] = s.query == "" || strings.Contains(text, s.query)
	}
	s.view.SetVisibility(append([]bool(nil), s.visible...))
}

// Query returns the active, normalized search query
func (s *EmailStore) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Lookup finds an email by id
func (s *EmailStore) Lookup(id string) (backend.Email, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		return backend.Email{}, false
	}
	for _, e := range s.emails {
		if e.ID == id {
			return e, true
		}
	}
	return backend.Email{}, false
}

// At returns the email at index i of the last render
func (s *EmailStore) At(i int) (backend.Email, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.emails) {
		return backend.Email{}, false
	}
	return s.emails[i], true
}

// Emails returns a copy of the whole collection
func (s *EmailStore) Emails() []backend.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEmails(s.emails)
}

// Visible returns a copy of the emails that pass the active search
func (s *EmailStore) Visible() []backend.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.Email, 0, len(s.emails))
	for i, e := range s.emails {
		if s.visible[i] {
			out = append(out, e)
		}
	}
	return out
}

func copyEmails(in []backend.Email) []backend.Email {
	out := make([]backend.Email, len(in))
	copy(out, in)
	return out
}
