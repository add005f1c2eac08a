package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ajramos/gizassist/internal/version"
)

// Endpoint paths
const (
	PathEmails          = "/api/emails"
	PathReplyGenerate   = "/api/reply/generate"
	PathReplySend       = "/api/reply/send"
	PathAutoReplyStatus = "/auto-reply/status"
	PathAutoReplyToggle = "/auto-reply/toggle"
	PathHealth          = "/api/health"
	PathActions         = "/api/actions"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// Client is a thin JSON client for the email-assistant backend. It does not
// retry; callers decide what a failure means.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *log.Logger
}

// NewClient creates a backend client. A nil httpClient gets a default one with
// a 20s timeout; authentication is the httpClient's concern.
func NewClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		userAgent:  "gizassist/" + version.GetShortVersion(),
		logger:     logger,
	}
}

// BaseURL returns the backend root this client talks to
func (c *Client) BaseURL() string { return c.baseURL }

// ListEmails fetches the current email summaries.
func (c *Client) ListEmails(ctx context.Context) ([]EmailRecord, error) {
	var resp listEmailsResponse
	if err := c.do(ctx, http.MethodGet, PathEmails, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Emails, nil
}

// GenerateReply asks the backend for a reply draft to emailID.
func (c *Client) GenerateReply(ctx context.Context, emailID string) (*GeneratedReply, error) {
	var resp generateResponse
	body := map[string]string{"email_id": emailID}
	if err := c.do(ctx, http.MethodPost, PathReplyGenerate, body, &resp, true); err != nil {
		return nil, err
	}
	reply := resp.GeneratedReply
	return &reply, nil
}

// SendReply sends a reply through the backend.
func (c *Client) SendReply(ctx context.Context, req SendReplyRequest) error {
	var resp envelope
	return c.do(ctx, http.MethodPost, PathReplySend, req, &resp, true)
}

// AutoReplyStatus reads the backend's auto-reply switch.
func (c *Client) AutoReplyStatus(ctx context.Context) (bool, error) {
	var resp autoReplyStatus
	if err := c.do(ctx, http.MethodGet, PathAutoReplyStatus, nil, &resp, false); err != nil {
		return false, err
	}
	return resp.Enabled, nil
}

// SetAutoReply flips the backend's auto-reply switch and returns the server's
// confirmation message, which may be empty.
func (c *Client) SetAutoReply(ctx context.Context, enabled bool) (string, error) {
	var resp autoReplyToggleResponse
	if err := c.do(ctx, http.MethodPost, PathAutoReplyToggle, autoReplyToggleRequest{Enabled: enabled}, &resp, false); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Health probes the backend.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, PathHealth, nil, &h, false); err != nil {
		return nil, err
	}
	return &h, nil
}

// GetEmail fetches the full detail of one email.
func (c *Client) GetEmail(ctx context.Context, id string) (*EmailDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("email id cannot be empty")
	}
	var resp emailDetailResponse
	if err := c.do(ctx, http.MethodGet, PathEmails+"/"+url.PathEscape(id), nil, &resp, true); err != nil {
		return nil, err
	}
	detail := resp.Email
	return &detail, nil
}

// ListActions fetches the action history for one email, newest first.
func (c *Client) ListActions(ctx context.Context, emailID string) ([]Action, error) {
	if strings.TrimSpace(emailID) == "" {
		return nil, fmt.Errorf("email id cannot be empty")
	}
	var resp actionsResponse
	if err := c.do(ctx, http.MethodGet, PathActions+"/"+url.PathEscape(emailID), nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Actions, nil
}

// successChecker is implemented by responses that carry the JSON envelope.
type successChecker interface {
	env() envelope
}

func (e envelope) env() envelope { return e }

// do builds the request, sends it and decodes the body into result. With
// enveloped set, a 2xx body must also carry `success: true`.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}, enveloped bool) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("Backend: %s %s failed: %v", method, path, err)
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	c.logger.Printf("Backend: %s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
		var env envelope
		if json.Unmarshal(respBody, &env) == nil {
			apiErr.Message = env.Error
			if env.RetryAfter > 0 {
				apiErr.RetryAfter = time.Duration(env.RetryAfter * float64(time.Second))
			}
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
	}

	if enveloped {
		if sc, ok := result.(successChecker); ok {
			if env := sc.env(); !env.ok() {
				return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: env.Error}
			}
		}
	}
	return nil
}
