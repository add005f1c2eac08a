package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Email is the normalized summary of one message as the client uses it.
type Email struct {
	ID      string
	From    string
	Subject string
	Date    string
	Snippet string
}

// EmailRecord is a list entry as the backend serializes it. The backend has
// shipped two shapes over time (Gmail-style `id/from/date/snippet` and
// storage rows `message_id/sender/timestamp/body`), so every field is kept and
// the caller picks. Body is never shown in the list.
type EmailRecord struct {
	ID        FlexString `json:"id"`
	MessageID FlexString `json:"message_id"`
	From      string     `json:"from"`
	Sender    string     `json:"sender"`
	Subject   string     `json:"subject"`
	Date      string     `json:"date"`
	Timestamp string     `json:"timestamp"`
	Snippet   string     `json:"snippet"`
	Body      string     `json:"body"`
	ThreadID  string     `json:"thread_id"`
}

// FlexString accepts a JSON string or number. Storage rows carry integer ids.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the underlying value
func (f FlexString) String() string { return string(f) }

// Analysis is the backend's classification of the email being replied to.
// The backend forwards it from the model unvalidated, so only priority and
// category are read and a field of the wrong shape is left empty instead of
// failing the whole reply.
type Analysis struct {
	Category string
	Priority FlexString

	// Raw holds every field as received
	Raw map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Analysis) UnmarshalJSON(data []byte) error {
	*a = Analysis{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// not an object: the draft is still usable without it
		return nil
	}
	a.Raw = fields
	if raw, ok := fields["priority"]; ok {
		var p FlexString
		if err := p.UnmarshalJSON(raw); err == nil {
			a.Priority = p
		}
	}
	if raw, ok := fields["category"]; ok {
		var c string
		if err := json.Unmarshal(raw, &c); err == nil {
			a.Category = c
		}
	}
	return nil
}

// GeneratedReply is the payload of a successful generate call.
type GeneratedReply struct {
	Sender      string    `json:"sender"`
	Subject     string    `json:"subject"`
	Reply       string    `json:"reply"`
	Analysis    *Analysis `json:"analysis,omitempty"`
	ThreadCount int       `json:"thread_count"`
}

// SendReplyRequest is the body of POST /api/reply/send.
type SendReplyRequest struct {
	EmailID string `json:"email_id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Health is the backend's self-report.
type Health struct {
	Status         string `json:"status"`
	Database       bool   `json:"database"`
	GmailConnected bool   `json:"gmail_connected"`
	Timestamp      string `json:"timestamp"`
}

// Healthy reports whether the backend considers itself up.
func (h Health) Healthy() bool { return h.Status == "healthy" }

// EmailDetail is the full view of one message.
type EmailDetail struct {
	ID       FlexString `json:"id"`
	ThreadID string     `json:"threadId"`
	From     string     `json:"from"`
	Subject  string     `json:"subject"`
	Date     string     `json:"date"`
	Snippet  string     `json:"snippet"`
	Body     string     `json:"body"`
}

// Action is one row of the backend's action history for an email.
type Action struct {
	ID         FlexString `json:"id"`
	EmailID    FlexString `json:"email_id"`
	ActionType string     `json:"action_type"`
	Details    string     `json:"details"`
	CreatedAt  string     `json:"created_at"`
}

// envelope carries the fields every JSON API response may include.
type envelope struct {
	Success    *bool   `json:"success"`
	Error      string  `json:"error"`
	RetryAfter float64 `json:"retry_after"`
}

func (e envelope) ok() bool { return e.Success != nil && *e.Success }

type listEmailsResponse struct {
	envelope
	Count  int           `json:"count"`
	Emails []EmailRecord `json:"emails"`
}

type generateResponse struct {
	envelope
	GeneratedReply
}

type emailDetailResponse struct {
	envelope
	Email EmailDetail `json:"email"`
}

type actionsResponse struct {
	envelope
	Actions []Action `json:"actions"`
}

type autoReplyStatus struct {
	Enabled bool `json:"auto_reply_enabled"`
}

type autoReplyToggleRequest struct {
	Enabled bool `json:"enabled"`
}

type autoReplyToggleResponse struct {
	Message string `json:"message"`
}

// priorityString renders an analysis priority, which the backend sends as an
// integer or a word.
func priorityString(p FlexString) string {
	if p == "" {
		return ""
	}
	if n, err := strconv.Atoi(string(p)); err == nil && n == 0 {
		return ""
	}
	return string(p)
}

// PriorityLabel returns the display priority, empty when unset.
func (a *Analysis) PriorityLabel() string {
	if a == nil {
		return ""
	}
	return priorityString(a.Priority)
}
