package services

import (
	"errors"

	"github.com/ajramos/gizassist/internal/backend"
)

// Standard service errors
var (
	// Validation errors; reported to the user, never sent to the backend
	ErrMissingEmailID = errors.New("missing email ID")
	ErrEmptyDraft     = errors.New("reply content cannot be empty")

	// Session errors
	ErrNoActiveSession = errors.New("no active reply session")
	ErrDraftLocked     = errors.New("draft is locked")
)

// User-facing messages
const (
	MsgReplyNoID         = "Failed to generate reply: Email ID missing"
	MsgGenerateNoID      = "Cannot generate reply: Missing email ID"
	MsgEmptyDraft        = "Reply content cannot be empty"
	MsgReplySent         = "Reply sent successfully!"
	MsgLoadFailed        = "Failed to load emails"
	MsgGenerateFailed    = "Failed to generate reply"
	MsgSendFailed        = "Failed to send reply"
	MsgAutoReplyUpdated  = "Auto-reply mode updated"
	MsgAutoReplyFailed   = "Failed to update auto-reply mode"
	MsgDetailFailed      = "Failed to load email details"
	MsgHistoryFailed     = "Failed to load action history"
	MsgPriorityTemplate  = "Email priority: %s"
	DefaultPriorityLabel = "normal"
)

// UserMessage picks the text shown for a failed call: the server's error
// text, then "HTTP error! status: N" for a non-2xx answer, then fallback.
// Transport and decode failures always use fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if apiErr, ok := backend.AsAPIError(err); ok {
		if text := apiErr.UserText(); text != "" {
			return text
		}
	}
	return fallback
}

// IsValidationError reports whether err was rejected before any request.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingEmailID) ||
		errors.Is(err, ErrEmptyDraft)
}

// IsBackendError reports whether the backend answered but refused the call.
func IsBackendError(err error) bool {
	_, ok := backend.AsAPIError(err)
	return ok
}
