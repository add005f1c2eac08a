package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const (
	serviceName = "gizassist"
	tokenKey    = "api_token"
)

// EnvKeyringPassword names the environment variable holding the password of
// the file backend, used when no OS keyring is available
const EnvKeyringPassword = "GIZASSIST_KEYRING_PASSWORD"

// TokenStore persists the backend API token
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// KeyringStore keeps the token in the OS keyring
type KeyringStore struct {
	open func() (keyring.Keyring, error)
}

// NewKeyringStore opens the system keyring lazily on first use. fileDir is
// the fallback directory for the encrypted file backend.
func NewKeyringStore(fileDir string) *KeyringStore {
	return &KeyringStore{open: func() (keyring.Keyring, error) {
		return openKeyring(fileDir)
	}}
}

// NewKeyringStoreWith wraps an already opened keyring
func NewKeyringStoreWith(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{open: func() (keyring.Keyring, error) { return ring, nil }}
}

func openKeyring(fileDir string) (keyring.Keyring, error) {
	if fileDir == "" {
		fileDir = "~/.config/gizassist/credentials"
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         filePasswordFunc(os.Getenv),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// filePasswordFunc reads the file backend password from the environment,
// else asks on the terminal.
func filePasswordFunc(getenv func(string) string) keyring.PromptFunc {
	if pw := getenv(EnvKeyringPassword); pw != "" {
		return keyring.FixedStringPrompt(pw)
	}
	return keyring.TerminalPrompt
}

// Get returns the stored token, or "" when none is stored
func (s *KeyringStore) Get() (string, error) {
	ring, err := s.open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", tokenKey, err)
	}
	return string(item.Data), nil
}

// Set stores the token
func (s *KeyringStore) Set(token string) error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:         tokenKey,
		Data:        []byte(token),
		Label:       "GizAssist API token",
		Description: "Bearer token for the email assistant backend",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", tokenKey, err)
	}
	return nil
}

// Delete removes the token. Removing a missing token is not an error.
func (s *KeyringStore) Delete() error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", tokenKey, err)
	}
	return nil
}
