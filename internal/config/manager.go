package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Manager loads, validates and hands out the configuration
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
}

// NewManager creates a new configuration manager holding the defaults
func NewManager() *Manager {
	return &Manager{config: DefaultConfig()}
}

// LoadFromFile loads configuration from a file with validation
func (m *Manager) LoadFromFile(configPath string) error {
	configPath = expandPath(configPath)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m.applyDefaults(cfg)
	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
	m.configPath = configPath
	return nil
}

// GetConfig returns a copy of the current configuration
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyConfig(m.config)
}

// ConfigPath returns the path the configuration was loaded from
func (m *Manager) ConfigPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// Override applies fn to the configuration and re-validates it. Used for
// command line flags that take precedence over the file.
func (m *Manager) Override(fn func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := copyConfig(m.config)
	fn(cfg)
	m.applyDefaults(cfg)
	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	m.config = cfg
	return nil
}

// SaveToFile saves the current configuration to a file
func (m *Manager) SaveToFile(filePath string) error {
	cfg := m.GetConfig()
	if err := cfg.SaveConfig(expandPath(filePath)); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// validateConfig validates the configuration
func (m *Manager) validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: want http(s)://host[:port]", cfg.BaseURL)
	}

	durations := []struct {
		name  string
		value string
	}{
		{"timeout", cfg.Timeout},
		{"refresh.cooldown", cfg.Refresh.Cooldown},
		{"search.debounce", cfg.Search.Debounce},
		{"notifications.toast_duration", cfg.Notifications.ToastDuration},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}

	return nil
}

// applyDefaults fills empty values left by a partial config file
func (m *Manager) applyDefaults(cfg *Config) {
	def := DefaultConfig()
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Keys == (KeyBindings{}) {
		cfg.Keys = def.Keys
	}
	if cfg.Layout.CurrentTheme == "" {
		cfg.Layout.CurrentTheme = def.Layout.CurrentTheme
	}
	cfg.Layout.CustomThemeDir = expandPath(cfg.Layout.CustomThemeDir)
	cfg.LogFile = expandPath(cfg.LogFile)
}

func copyConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	c := *cfg
	return &c
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
