package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestManager_LoadFromFile(t *testing.T) {
	path := writeConfig(t, `{"base_url": "http://assist.local:8080/", "keys": {}, "layout": {"current_theme": ""}}`)
	m := NewManager()

	require.NoError(t, m.LoadFromFile(path))

	cfg := m.GetConfig()
	assert.Equal(t, "http://assist.local:8080", cfg.BaseURL, "trailing slash trimmed")
	assert.Equal(t, DefaultKeyBindings(), cfg.Keys)
	assert.Equal(t, DefaultThemeName, cfg.Layout.CurrentTheme)
	assert.Equal(t, path, m.ConfigPath())
}

func TestManager_LoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad_scheme", `{"base_url": "ftp://assist.local"}`},
		{"no_host", `{"base_url": "http://"}`},
		{"bad_cooldown", `{"refresh": {"cooldown": "often"}}`},
		{"bad_debounce", `{"search": {"debounce": "quick"}}`},
		{"malformed", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			err := m.LoadFromFile(writeConfig(t, tt.content))

			assert.Error(t, err)
			assert.Equal(t, DefaultConfig(), m.GetConfig(), "previous config kept")
		})
	}
}

func TestManager_GetConfigIsACopy(t *testing.T) {
	m := NewManager()

	cfg := m.GetConfig()
	cfg.BaseURL = "http://changed"

	assert.Equal(t, "http://localhost:5000", m.GetConfig().BaseURL)
}

func TestManager_Override(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.Override(func(c *Config) { c.BaseURL = "https://other.example.com/" }))
	assert.Equal(t, "https://other.example.com", m.GetConfig().BaseURL)

	err := m.Override(func(c *Config) { c.BaseURL = "not a url" })
	assert.Error(t, err)
	assert.Equal(t, "https://other.example.com", m.GetConfig().BaseURL)
}

func TestManager_SaveToFile(t *testing.T) {
	m := NewManager()
	path := filepath.Join(t.TempDir(), "out", "config.json")

	require.NoError(t, m.SaveToFile(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, m.GetConfig(), loaded)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	assert.Equal(t, filepath.Join(home, "logs", "a.log"), expandPath("~/logs/a.log"))
	assert.Equal(t, home, expandPath("~"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
	assert.Equal(t, "~user/x", expandPath("~user/x"))
}
