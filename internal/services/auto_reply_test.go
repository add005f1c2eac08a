package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ajramos/gizassist/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAutoReply() (*AutoReply, *MockBackend, *recordingViews, *recordingToaster) {
	client := new(MockBackend)
	views := newRecordingViews()
	toaster := &recordingToaster{}
	return NewAutoReply(client, NewGuard(nil), views, toaster, nil), client, views, toaster
}

func TestAutoReply_Init_Success(t *testing.T) {
	a, client, views, toaster := newTestAutoReply()
	client.On("AutoReplyStatus", mock.Anything).Return(true, nil)

	dispatched, err := a.Init(context.Background())

	require.NoError(t, err)
	assert.True(t, dispatched)
	checked, status, _ := views.auto()
	assert.True(t, checked)
	assert.Equal(t, AutoReplyOn, status)
	assert.True(t, a.Available())
	assert.Empty(t, toaster.all())
}

func TestAutoReply_Init_FailureIsUnavailable(t *testing.T) {
	for name, err := range map[string]error{
		"transport": errors.New("connection refused"),
		"http":      &backend.APIError{StatusCode: 503},
	} {
		t.Run(name, func(t *testing.T) {
			a, client, views, toaster := newTestAutoReply()
			client.On("AutoReplyStatus", mock.Anything).Return(false, err)

			_, initErr := a.Init(context.Background())

			assert.Error(t, initErr)
			checked, status, _ := views.auto()
			assert.False(t, checked)
			assert.Equal(t, AutoReplyUnavailable, status)
			assert.Equal(t, AutoReplyUnavailable, a.Status())
			assert.Empty(t, toaster.all(), "no toast for an unavailable status")
		})
	}
}

func TestAutoReply_Toggle_Success(t *testing.T) {
	a, client, views, toaster := newTestAutoReply()
	client.On("AutoReplyStatus", mock.Anything).Return(false, nil)
	client.On("SetAutoReply", mock.Anything, true).Return("Auto-reply enabled", nil).Once()
	client.On("SetAutoReply", mock.Anything, false).Return("", nil).Once()
	_, _ = a.Init(context.Background())

	dispatched, err := a.Toggle(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, dispatched)
	checked, status, _ := views.auto()
	assert.True(t, checked)
	assert.Equal(t, AutoReplyOn, status)

	_, err = a.Toggle(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, a.Enabled())
	assert.Equal(t, AutoReplyOff, a.Status())

	assert.Equal(t, []string{"Auto-reply enabled", MsgAutoReplyUpdated}, toaster.bySeverity(SeveritySuccess))
}

func TestAutoReply_Toggle_FailureReverts(t *testing.T) {
	a, client, views, toaster := newTestAutoReply()
	client.On("AutoReplyStatus", mock.Anything).Return(false, nil)
	client.On("SetAutoReply", mock.Anything, true).Return("", &backend.APIError{StatusCode: 500, Message: "db locked"})
	_, _ = a.Init(context.Background())

	dispatched, err := a.Toggle(context.Background(), true)

	assert.True(t, dispatched)
	assert.Error(t, err)
	assert.False(t, a.Enabled())
	checked, status, _ := views.auto()
	assert.False(t, checked)
	assert.Equal(t, AutoReplyOff, status)
	assert.Equal(t, []string{MsgAutoReplyFailed}, toaster.bySeverity(SeverityError))
}

func TestAutoReply_Toggle_OptimisticDuringFlight(t *testing.T) {
	a, client, views, _ := newTestAutoReply()
	g := newGate()
	client.On("SetAutoReply", mock.Anything, true).Run(g.run).Return("", nil).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = a.Toggle(context.Background(), true)
	}()
	<-g.started

	checked, status, _ := views.auto()
	assert.True(t, checked, "control updated before the server answers")
	assert.Equal(t, AutoReplyOn, status)

	// A second toggle is ignored and the view re-synced to the current state
	_, _, syncsBefore := views.auto()
	dispatched, err := a.Toggle(context.Background(), false)
	assert.False(t, dispatched)
	assert.NoError(t, err)
	checked, _, syncsAfter := views.auto()
	assert.True(t, checked)
	assert.Equal(t, syncsBefore+1, syncsAfter)

	close(g.release)
	<-done
	client.AssertNumberOfCalls(t, "SetAutoReply", 1)
}

func TestAutoReply_Toggle_FromUnavailableRevertsToUnavailable(t *testing.T) {
	a, client, _, _ := newTestAutoReply()
	client.On("AutoReplyStatus", mock.Anything).Return(false, errors.New("down"))
	client.On("SetAutoReply", mock.Anything, true).Return("", errors.New("still down"))
	_, _ = a.Init(context.Background())

	_, err := a.Toggle(context.Background(), true)

	assert.Error(t, err)
	assert.False(t, a.Available())
	assert.Equal(t, AutoReplyUnavailable, a.Status())
}
