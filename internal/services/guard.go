package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Guard keys
const (
	KeyEmailsList      = "emails.list"
	KeyReplyGenerate   = "reply.generate"
	KeyReplySend       = "reply.send"
	KeyAutoReplyStatus = "autoreply.status"
	KeyAutoReplyToggle = "autoreply.toggle"
	KeyEmailDetail     = "emails.detail"
	KeyEmailActions    = "emails.actions"
	KeyBackendHealth   = "backend.health"
)

// DefaultListCooldown is the minimum spacing between list fetches
const DefaultListCooldown = 60 * time.Second

// Guard de-duplicates and throttles network operations per key. A key that is
// busy, or still cooling down since its last dispatch, silently rejects.
type Guard struct {
	mu    sync.Mutex
	busy  BusyIndicator
	now   func() time.Time
	slots map[string]*guardSlot
}

type guardSlot struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewGuard creates a guard that reports in-flight keys to busy (may be nil)
func NewGuard(busy BusyIndicator) *Guard {
	if busy == nil {
		busy = nopBusy{}
	}
	return &Guard{
		busy:  busy,
		now:   time.Now,
		slots: make(map[string]*guardSlot),
	}
}

// SetClock replaces the time source used for cooldowns
func (g *Guard) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

func (g *Guard) slot(key string) *guardSlot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.slots[key]
	if !ok {
		s = &guardSlot{sem: semaphore.NewWeighted(1)}
		g.slots[key] = s
	}
	return s
}

// allow consumes the cooldown token for key. Callers hold the key's semaphore.
func (g *Guard) allow(s *guardSlot, minInterval time.Duration) bool {
	if minInterval <= 0 {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if s.limiter == nil {
		s.limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	} else if s.limiter.Limit() != rate.Every(minInterval) {
		s.limiter.SetLimitAt(g.now(), rate.Every(minInterval))
	}
	return s.limiter.AllowN(g.now(), 1)
}

// Do runs op unless key is busy or minInterval has not elapsed since the last
// dispatch of key. dispatched is false, with a nil error, when op was not
// called. The busy flag and indicator are released on every exit path,
// including a panic in op.
func (g *Guard) Do(ctx context.Context, key string, minInterval time.Duration, op func(ctx context.Context) error) (dispatched bool, err error) {
	s := g.slot(key)
	if !s.sem.TryAcquire(1) {
		return false, nil
	}
	defer s.sem.Release(1)

	if !g.allow(s, minInterval) {
		return false, nil
	}

	g.busy.Show(key)
	defer g.busy.Hide(key)

	return true, op(ctx)
}

// Busy reports whether key is currently in flight
func (g *Guard) Busy(key string) bool {
	s := g.slot(key)
	if !s.sem.TryAcquire(1) {
		return true
	}
	s.sem.Release(1)
	return false
}

type nopBusy struct{}

func (nopBusy) Show(string) {}
func (nopBusy) Hide(string) {}
