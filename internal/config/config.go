package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnvConfigPath overrides the default configuration file location
const EnvConfigPath = "GIZASSIST_CONFIG"

// Fallbacks used when a duration is missing or malformed
const (
	defaultTimeout       = 20 * time.Second
	defaultCooldown      = 60 * time.Second
	defaultDebounce      = 300 * time.Millisecond
	defaultToastDuration = 3 * time.Second
)

// Config holds all configuration for GizAssist
type Config struct {
	// Backend connection
	BaseURL  string `json:"base_url"`
	APIToken string `json:"api_token,omitempty"`
	Timeout  string `json:"timeout"`

	Refresh       RefreshConfig      `json:"refresh"`
	Search        SearchConfig       `json:"search"`
	Notifications NotificationConfig `json:"notifications"`

	// Layout configuration
	Layout LayoutConfig `json:"layout"`

	// Keyboard shortcuts
	Keys KeyBindings `json:"keys"`

	// Logging
	LogFile string `json:"log_file"`
}

// RefreshConfig controls email list reloads
type RefreshConfig struct {
	// Cooldown is the minimum interval between two list fetches
	Cooldown string `json:"cooldown"`
}

// SearchConfig controls the search box
type SearchConfig struct {
	Debounce string `json:"debounce"`
	// ClearReloads refetches the list when the query is cleared
	ClearReloads bool `json:"clear_reloads"`
}

// NotificationConfig controls toasts
type NotificationConfig struct {
	ToastDuration string `json:"toast_duration"`
}

// LayoutConfig defines layout-specific configuration
type LayoutConfig struct {
	ShowBorders    bool   `json:"show_borders"`
	CurrentTheme   string `json:"current_theme"`    // Active theme name (e.g., "gizassist-dark")
	CustomThemeDir string `json:"custom_theme_dir"` // Custom themes directory (empty = default)
}

// KeyBindings defines keyboard shortcuts for the TUI
type KeyBindings struct {
	Refresh    string `json:"refresh"`
	Search     string `json:"search"`
	Reply      string `json:"reply"`
	ToggleEdit string `json:"toggle_edit"`
	Send       string `json:"send"`
	Close      string `json:"close"`
	AutoReply  string `json:"auto_reply"`
	Details    string `json:"details"`
	History    string `json:"history"`
	Help       string `json:"help"`
	Quit       string `json:"quit"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:5000",
		Timeout: "20s",
		Refresh: RefreshConfig{Cooldown: "60s"},
		Search: SearchConfig{
			Debounce:     "300ms",
			ClearReloads: true,
		},
		Notifications: NotificationConfig{ToastDuration: "3s"},
		Layout:        DefaultLayoutConfig(),
		Keys:          DefaultKeyBindings(),
		LogFile:       "",
	}
}

// DefaultKeyBindings returns default keyboard shortcuts
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Refresh:    "R",
		Search:     "/",
		Reply:      "r",
		ToggleEdit: "e",
		Send:       "ctrl+s",
		Close:      "esc",
		AutoReply:  "a",
		Details:    "d",
		History:    "h",
		Help:       "?",
		Quit:       "q",
	}
}

// DefaultLayoutConfig returns default layout configuration
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		ShowBorders:    true,
		CurrentTheme:   DefaultThemeName,
		CustomThemeDir: "",
	}
}

// LoadConfig loads configuration from path. A missing file yields the
// defaults; a file that cannot be parsed is an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", configPath, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", configPath, err)
	}
	return cfg, nil
}

// ResolveConfigPath picks the config file: explicit flag first, then the
// GIZASSIST_CONFIG environment variable, then the default location.
func ResolveConfigPath(flagPath string) string {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return DefaultConfigPath()
}

// DefaultConfigDir returns the configuration directory path
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gizassist")
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// DefaultLogPath returns the default log file path
func DefaultLogPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "gizassist.log")
}

// DefaultThemeDir returns the default themes directory path
func DefaultThemeDir() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

// ThemeDir returns the configured themes directory, or the default
func (c *Config) ThemeDir() string {
	if d := strings.TrimSpace(c.Layout.CustomThemeDir); d != "" {
		return d
	}
	return DefaultThemeDir()
}

// SaveConfig saves the configuration to a file. The file may hold the API
// token, so it is written owner-only.
func (c *Config) SaveConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// GetTimeout returns the HTTP timeout for backend calls
func (c *Config) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, defaultTimeout, false)
}

// GetRefreshCooldown returns the list cooldown. Zero disables it.
func (c *Config) GetRefreshCooldown() time.Duration {
	return parseDuration(c.Refresh.Cooldown, defaultCooldown, true)
}

// GetSearchDebounce returns the search input debounce. Zero searches on
// every keystroke.
func (c *Config) GetSearchDebounce() time.Duration {
	return parseDuration(c.Search.Debounce, defaultDebounce, true)
}

// GetToastDuration returns how long a toast stays visible
func (c *Config) GetToastDuration() time.Duration {
	return parseDuration(c.Notifications.ToastDuration, defaultToastDuration, false)
}

func parseDuration(value string, fallback time.Duration, allowZero bool) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return fallback
	}
	return d
}
