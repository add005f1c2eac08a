package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:5000", cfg.BaseURL)
	assert.Empty(t, cfg.APIToken)
	assert.Equal(t, "20s", cfg.Timeout)
	assert.Equal(t, "60s", cfg.Refresh.Cooldown)
	assert.Equal(t, "300ms", cfg.Search.Debounce)
	assert.True(t, cfg.Search.ClearReloads)
	assert.Equal(t, "3s", cfg.Notifications.ToastDuration)
	assert.Equal(t, DefaultThemeName, cfg.Layout.CurrentTheme)
	assert.True(t, cfg.Layout.ShowBorders)
}

func TestDefaultKeyBindings(t *testing.T) {
	keys := DefaultKeyBindings()

	assert.Equal(t, "R", keys.Refresh)
	assert.Equal(t, "/", keys.Search)
	assert.Equal(t, "r", keys.Reply)
	assert.Equal(t, "e", keys.ToggleEdit)
	assert.Equal(t, "ctrl+s", keys.Send)
	assert.Equal(t, "esc", keys.Close)
	assert.Equal(t, "a", keys.AutoReply)
	assert.Equal(t, "d", keys.Details)
	assert.Equal(t, "h", keys.History)
	assert.Equal(t, "q", keys.Quit)
}

func TestDurationGetters(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		get      func(*Config) time.Duration
		expected time.Duration
	}{
		{"timeout_valid", Config{Timeout: "5s"}, (*Config).GetTimeout, 5 * time.Second},
		{"timeout_invalid", Config{Timeout: "soon"}, (*Config).GetTimeout, 20 * time.Second},
		{"timeout_zero", Config{Timeout: "0s"}, (*Config).GetTimeout, 20 * time.Second},
		{"cooldown_valid", Config{Refresh: RefreshConfig{Cooldown: "2m"}}, (*Config).GetRefreshCooldown, 2 * time.Minute},
		{"cooldown_zero_disables", Config{Refresh: RefreshConfig{Cooldown: "0"}}, (*Config).GetRefreshCooldown, 0},
		{"cooldown_empty", Config{}, (*Config).GetRefreshCooldown, 60 * time.Second},
		{"cooldown_negative", Config{Refresh: RefreshConfig{Cooldown: "-1s"}}, (*Config).GetRefreshCooldown, 60 * time.Second},
		{"debounce_valid", Config{Search: SearchConfig{Debounce: "150ms"}}, (*Config).GetSearchDebounce, 150 * time.Millisecond},
		{"debounce_invalid", Config{Search: SearchConfig{Debounce: "fast"}}, (*Config).GetSearchDebounce, 300 * time.Millisecond},
		{"toast_valid", Config{Notifications: NotificationConfig{ToastDuration: "1s"}}, (*Config).GetToastDuration, time.Second},
		{"toast_empty", Config{}, (*Config).GetToastDuration, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Equal(t, tt.expected, tt.get(&cfg))
		})
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"base_url": "https://assist.example.com", "search": {"clear_reloads": false}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "https://assist.example.com", cfg.BaseURL)
	assert.False(t, cfg.Search.ClearReloads)
	assert.Equal(t, "300ms", cfg.Search.Debounce, "sibling default kept")
	assert.Equal(t, "60s", cfg.Refresh.Cooldown)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"base_url": `), 0600))

	cfg, err := LoadConfig(path)

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.APIToken = "secret"
	cfg.Refresh.Cooldown = "10s"

	require.NoError(t, cfg.SaveConfig(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "secret", raw["api_token"])

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/from/env.json")

	assert.Equal(t, "/from/flag.json", ResolveConfigPath("/from/flag.json"))
	assert.Equal(t, "/from/env.json", ResolveConfigPath(""))

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultConfigPath(), ResolveConfigPath("  "))
}

func TestDefaultPaths(t *testing.T) {
	path := DefaultConfigPath()

	// Should not be empty (unless no home directory)
	if path != "" {
		assert.Contains(t, path, ".config")
		assert.Contains(t, path, "gizassist")
		assert.Contains(t, path, "config.json")
		assert.Equal(t, filepath.Join(filepath.Dir(path), "gizassist.log"), DefaultLogPath())
		assert.Equal(t, filepath.Join(filepath.Dir(path), "themes"), DefaultThemeDir())
	}
}

func TestThemeDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultThemeDir(), cfg.ThemeDir())

	cfg.Layout.CustomThemeDir = "/opt/themes"
	assert.Equal(t, "/opt/themes", cfg.ThemeDir())
}
