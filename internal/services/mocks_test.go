package services

import (
	"context"
	"sync"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/stretchr/testify/mock"
)

// MockBackend implements Backend for testing
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListEmails(ctx context.Context) ([]backend.EmailRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backend.EmailRecord), args.Error(1)
}

func (m *MockBackend) GetEmail(ctx context.Context, id string) (*backend.EmailDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.EmailDetail), args.Error(1)
}

func (m *MockBackend) ListActions(ctx context.Context, emailID string) ([]backend.Action, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backend.Action), args.Error(1)
}

func (m *MockBackend) GenerateReply(ctx context.Context, emailID string) (*backend.GeneratedReply, error) {
	args := m.Called(ctx, emailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.GeneratedReply), args.Error(1)
}

func (m *MockBackend) SendReply(ctx context.Context, req backend.SendReplyRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBackend) AutoReplyStatus(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) SetAutoReply(ctx context.Context, enabled bool) (string, error) {
	args := m.Called(ctx, enabled)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Health(ctx context.Context) (*backend.Health, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Health), args.Error(1)
}

type toastRecord struct {
	Severity Severity
	Message  string
}

// recordingToaster captures every toast
type recordingToaster struct {
	mu     sync.Mutex
	toasts []toastRecord
}

func (r *recordingToaster) add(s Severity, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toastRecord{Severity: s, Message: msg})
}

func (r *recordingToaster) Success(msg string) { r.add(SeveritySuccess, msg) }
func (r *recordingToaster) Error(msg string)   { r.add(SeverityError, msg) }
func (r *recordingToaster) Info(msg string)    { r.add(SeverityInfo, msg) }

func (r *recordingToaster) all() []toastRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]toastRecord(nil), r.toasts...)
}

func (r *recordingToaster) bySeverity(s Severity) []string {
	var out []string
	for _, t := range r.all() {
		if t.Severity == s {
			out = append(out, t.Message)
		}
	}
	return out
}

// recordingViews implements every view interface and records calls
type recordingViews struct {
	mu sync.Mutex

	renders     [][]backend.Email
	visibility  [][]bool
	opened      []ReplySnapshot
	updated     []ReplySnapshot
	closed      int
	autoChecked bool
	autoStatus  string
	autoSyncs   int
	details     []*backend.EmailDetail
	histories   map[string][]backend.Action
	statuses    []string
}

func newRecordingViews() *recordingViews {
	return &recordingViews{histories: make(map[string][]backend.Action)}
}

func (v *recordingViews) RenderList(emails []backend.Email) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders = append(v.renders, emails)
}

func (v *recordingViews) SetVisibility(visible []bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visibility = append(v.visibility, visible)
}

func (v *recordingViews) OpenReply(s ReplySnapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.opened = append(v.opened, s)
}

func (v *recordingViews) UpdateReply(s ReplySnapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.updated = append(v.updated, s)
}

func (v *recordingViews) CloseReply() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed++
}

func (v *recordingViews) SetAutoReply(checked bool, status string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.autoChecked, v.autoStatus = checked, status
	v.autoSyncs++
}

func (v *recordingViews) ShowDetail(d *backend.EmailDetail) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.details = append(v.details, d)
}

func (v *recordingViews) ShowHistory(id string, actions []backend.Action) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.histories[id] = actions
}

func (v *recordingViews) SetStatus(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, text)
}

func (v *recordingViews) lastVisibility() []bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.visibility) == 0 {
		return nil
	}
	return v.visibility[len(v.visibility)-1]
}

func (v *recordingViews) renderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.renders)
}

func (v *recordingViews) closedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *recordingViews) openedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.opened)
}

func (v *recordingViews) lastUpdate() (ReplySnapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.updated) == 0 {
		return ReplySnapshot{}, false
	}
	return v.updated[len(v.updated)-1], true
}

func (v *recordingViews) auto() (bool, string, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.autoChecked, v.autoStatus, v.autoSyncs
}

// recordingBusy records busy keys as a set, like Notifier
type recordingBusy struct {
	mu    sync.Mutex
	keys  map[string]int
	shows int
	hides int
}

func newRecordingBusy() *recordingBusy {
	return &recordingBusy{keys: make(map[string]int)}
}

func (b *recordingBusy) Show(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys[key]++
	b.shows++
}

func (b *recordingBusy) Hide(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys[key]--
	if b.keys[key] <= 0 {
		delete(b.keys, key)
	}
	b.hides++
}

func (b *recordingBusy) active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.keys)
}

func (b *recordingBusy) counts() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows, b.hides
}

// gate blocks a mocked call until released
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gate) run(mock.Arguments) {
	g.started <- struct{}{}
	<-g.release
}
