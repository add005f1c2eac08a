package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []backend.EmailRecord {
	return []backend.EmailRecord{
		{ID: "g-1", From: "Alice <alice@example.com>", Subject: "Quarterly Invoice", Date: "Mon, 02 Jan 2006 15:04:05 -0700", Snippet: "Please find attached"},
		{ID: "7", MessageID: "m-7", Sender: "bob@example.com", Subject: "Lunch?", Timestamp: "2024-01-01 12:00:00", Body: "Tacos at noon"},
		{From: "nobody@example.com", Subject: "Q&A session", Snippet: ""},
	}
}

func newTestStore(client EmailBackend, opts EmailStoreOptions) (*EmailStore, *recordingViews, *recordingToaster) {
	views := newRecordingViews()
	toaster := &recordingToaster{}
	store := NewEmailStore(client, NewGuard(nil), views, toaster, nil, opts)
	return store, views, toaster
}

func TestNormalizeEmail_PrefersMessageID(t *testing.T) {
	e := normalizeEmail(backend.EmailRecord{ID: "7", MessageID: "m-7", Sender: "bob", Timestamp: "ts", Body: "b"})
	assert.Equal(t, "m-7", e.ID)
	assert.Equal(t, "bob", e.From)
	assert.Equal(t, "ts", e.Date)
	assert.Empty(t, e.Snippet, "body text is not a snippet")

	e = normalizeEmail(backend.EmailRecord{ID: "g-1", From: "a", Sender: "ignored"})
	assert.Equal(t, "g-1", e.ID)
	assert.Equal(t, "a", e.From)

	e = normalizeEmail(backend.EmailRecord{MessageID: "  "})
	assert.Equal(t, "", e.ID)
}

func TestEmailStore_Load_Success(t *testing.T) {
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Return(sampleRecords(), nil).Once()
	store, views, toaster := newTestStore(client, EmailStoreOptions{})

	dispatched, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, dispatched)
	require.Equal(t, 1, views.renderCount())
	emails := store.Emails()
	require.Len(t, emails, 3)
	assert.Equal(t, "g-1", emails[0].ID)
	assert.Equal(t, "m-7", emails[1].ID)
	assert.Equal(t, "", emails[2].ID)
	assert.Len(t, store.Visible(), 3)
	assert.Empty(t, toaster.all())

	e, ok := store.Lookup("m-7")
	require.True(t, ok)
	assert.Equal(t, "Lunch?", e.Subject)
	_, ok = store.Lookup("")
	assert.False(t, ok)
	client.AssertExpectations(t)
}

func TestEmailStore_Load_EmptyIsNotAnError(t *testing.T) {
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Return([]backend.EmailRecord{}, nil)
	store, views, toaster := newTestStore(client, EmailStoreOptions{})

	dispatched, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, dispatched)
	require.Equal(t, 1, views.renderCount())
	views.mu.Lock()
	assert.Empty(t, views.renders[0], "empty render is the empty state")
	views.mu.Unlock()
	assert.Empty(t, toaster.all())
}

func TestEmailStore_Load_FailureKeepsCollection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &backend.APIError{StatusCode: 404, Message: "No emails found"}, "No emails found"},
		{"status only", &backend.APIError{StatusCode: 502}, "HTTP error! status: 502"},
		{"success false", &backend.APIError{StatusCode: 200}, MsgLoadFailed},
		{"transport", errors.New("connection refused"), MsgLoadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockBackend)
			client.On("ListEmails", mock.Anything).Return(sampleRecords(), nil).Once()
			client.On("ListEmails", mock.Anything).Return(nil, tt.err).Once()
			store, views, toaster := newTestStore(client, EmailStoreOptions{})

			_, err := store.Load(context.Background())
			require.NoError(t, err)

			dispatched, err := store.Load(context.Background())
			assert.True(t, dispatched)
			assert.ErrorIs(t, err, tt.err)
			assert.Len(t, store.Emails(), 3, "collection unchanged")
			assert.Equal(t, 1, views.renderCount(), "no re-render on failure")
			assert.Equal(t, []string{tt.want}, toaster.bySeverity(SeverityError))
		})
	}
}

func TestEmailStore_Load_RapidRefreshDispatchesOnce(t *testing.T) {
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Return(sampleRecords(), nil)
	store, _, toaster := newTestStore(client, EmailStoreOptions{Cooldown: time.Minute})
	clock := newFakeClock()
	store.guard.SetClock(clock.Now)

	for i := 0; i < 10; i++ {
		_, err := store.Load(context.Background())
		assert.NoError(t, err)
		clock.Advance(time.Second)
	}

	client.AssertNumberOfCalls(t, "ListEmails", 1)
	assert.Empty(t, toaster.all(), "rejected refreshes are silent")
}

func TestEmailStore_Load_InFlightIsNoOp(t *testing.T) {
	g := newGate()
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Run(g.run).Return(sampleRecords(), nil).Once()
	store, _, _ := newTestStore(client, EmailStoreOptions{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Load(context.Background())
	}()
	<-g.started

	dispatched, err := store.Load(context.Background())
	assert.False(t, dispatched)
	assert.NoError(t, err)

	close(g.release)
	<-done
	client.AssertNumberOfCalls(t, "ListEmails", 1)
}

func TestEmailStore_Search(t *testing.T) {
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Return(sampleRecords(), nil)
	store, views, _ := newTestStore(client, EmailStoreOptions{ClearReloads: false})
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	store.Search(context.Background(), "  INVOICE ")
	assert.Equal(t, "invoice", store.Query())
	assert.Equal(t, []bool{true, false, false}, views.lastVisibility())

	// Text content is unescaped, so entities do not leak into matches
	store.Search(context.Background(), "q&a")
	assert.Equal(t, []bool{false, false, true}, views.lastVisibility())
	store.Search(context.Background(), "amp;")
	assert.Equal(t, []bool{false, false, false}, views.lastVisibility())

	// Fields that arrived under storage names are searchable too
	store.Search(context.Background(), "bob@")
	require.Len(t, store.Visible(), 1)
	assert.Equal(t, "m-7", store.Visible()[0].ID)

	// Snippet placeholder is part of the rendered text; a body alone never
	// stands in for the snippet
	store.Search(context.Background(), "no content")
	assert.Equal(t, []bool{false, true, true}, views.lastVisibility())
	store.Search(context.Background(), "tacos")
	assert.Empty(t, store.Visible())
}

func TestEmailStore_Search_ClearWithoutReload(t *testing.T) {
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Return(sampleRecords(), nil)
	store, views, _ := newTestStore(client, EmailStoreOptions{ClearReloads: false})
	_, _ = store.Load(context.Background())

	store.Search(context.Background(), "lunch")
	store.Search(context.Background(), "   ")

	assert.Equal(t, "", store.Query())
	assert.Equal(t, []bool{true, true, true}, views.lastVisibility())
	client.AssertNumberOfCalls(t, "ListEmails", 1)
}

func TestEmailStore_Search_ClearReloads(t *testing.T) {
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Return(sampleRecords(), nil)
	store, views, _ := newTestStore(client, EmailStoreOptions{ClearReloads: true})
	_, _ = store.Load(context.Background())

	store.Search(context.Background(), "lunch")
	store.Search(context.Background(), "")

	assert.Equal(t, []bool{true, true, true}, views.lastVisibility())
	client.AssertNumberOfCalls(t, "ListEmails", 2)
}

func TestEmailStore_Search_ClearReloadRespectsCooldown(t *testing.T) {
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Return(sampleRecords(), nil)
	store, views, _ := newTestStore(client, EmailStoreOptions{ClearReloads: true, Cooldown: time.Minute})
	_, _ = store.Load(context.Background())

	store.Search(context.Background(), "lunch")
	store.Search(context.Background(), "")

	assert.Equal(t, []bool{true, true, true}, views.lastVisibility(), "visibility restored locally")
	client.AssertNumberOfCalls(t, "ListEmails", 1)
}

func TestEmailStore_ReloadReappliesQuery(t *testing.T) {
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Return(sampleRecords(), nil)
	store, views, _ := newTestStore(client, EmailStoreOptions{})

	store.Search(context.Background(), "lunch")
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true, false}, views.lastVisibility())
	assert.Len(t, store.Visible(), 1)
}

func TestEmailStore_At(t *testing.T) {
	client := new(MockBackend)
	client.On("ListEmails", mock.Anything).Return(sampleRecords(), nil)
	store, _, _ := newTestStore(client, EmailStoreOptions{})
	_, _ = store.Load(context.Background())

	e, ok := store.At(1)
	require.True(t, ok)
	assert.Equal(t, "m-7", e.ID)
	_, ok = store.At(3)
	assert.False(t, ok)
	_, ok = store.At(-1)
	assert.False(t, ok)
}
