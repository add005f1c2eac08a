package auth

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// NewBearerClient returns an HTTP client that sends token as a bearer
// credential on every request. base supplies the transport and timeout; nil
// means http.DefaultClient. An empty token returns base unchanged.
func NewBearerClient(ctx context.Context, base *http.Client, token string) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return base
	}

	// oauth2 picks the underlying transport from the context
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
	client := oauth2.NewClient(ctx, src)
	client.Timeout = base.Timeout
	return client
}
