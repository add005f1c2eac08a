package auth

import (
	"os"
	"strings"
)

// EnvToken names the environment variable holding the API token
const EnvToken = "GIZASSIST_TOKEN"

// Source tells where a token came from
type Source string

const (
	SourceNone    Source = "none"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceKeyring Source = "keyring"
)

// TokenResolver finds the API token. Lookup order: environment, config
// file, keyring.
type TokenResolver struct {
	ConfigToken string
	Store       TokenStore
	Getenv      func(string) string
}

// Resolve returns the first non-empty token. A keyring failure is returned
// with an empty token so callers can continue unauthenticated.
func (r TokenResolver) Resolve() (string, Source, error) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if t := strings.TrimSpace(getenv(EnvToken)); t != "" {
		return t, SourceEnv, nil
	}
	if t := strings.TrimSpace(r.ConfigToken); t != "" {
		return t, SourceConfig, nil
	}
	if r.Store == nil {
		return "", SourceNone, nil
	}
	t, err := r.Store.Get()
	if err != nil {
		return "", SourceNone, err
	}
	if t = strings.TrimSpace(t); t != "" {
		return t, SourceKeyring, nil
	}
	return "", SourceNone, nil
}
