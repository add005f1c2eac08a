package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultThemeName is the built-in theme written on first use
const DefaultThemeName = "gizassist-dark"

// themeFile is the on-disk layout of a theme
type themeFile struct {
	GizAssist *ColorsConfig `yaml:"gizassist"`
}

// ThemeLoader handles loading and saving themes
type ThemeLoader struct {
	themesDir string
}

// NewThemeLoader creates a new theme loader
func NewThemeLoader(themesDir string) *ThemeLoader {
	return &ThemeLoader{
		themesDir: themesDir,
	}
}

// LoadTheme loads a theme by name, with or without the .yaml extension
func (tl *ThemeLoader) LoadTheme(name string) (*ColorsConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("theme name is empty")
	}
	if filepath.Ext(name) != ".yaml" {
		name += ".yaml"
	}
	return tl.LoadThemeFromFile(name)
}

// LoadThemeFromFile loads a theme from a YAML file
func (tl *ThemeLoader) LoadThemeFromFile(filename string) (*ColorsConfig, error) {
	// Try to load from themes directory first
	path := filepath.Join(tl.themesDir, filename)
	if !fileExists(path) {
		// Try absolute path
		path = filename
		if !fileExists(path) {
			return nil, fmt.Errorf("theme file not found: %s", filename)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme themeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	if theme.GizAssist == nil {
		return nil, fmt.Errorf("invalid theme file: missing gizassist section")
	}

	if err := tl.ValidateTheme(theme.GizAssist); err != nil {
		return nil, err
	}
	return theme.GizAssist, nil
}

// ListAvailableThemes returns a list of available theme files
func (tl *ThemeLoader) ListAvailableThemes() ([]string, error) {
	var themes []string

	entries, err := os.ReadDir(tl.themesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yaml" {
			themes = append(themes, strings.TrimSuffix(entry.Name(), ".yaml"))
		}
	}

	return themes, nil
}

// SaveThemeToFile saves a theme configuration to a YAML file
func (tl *ThemeLoader) SaveThemeToFile(theme *ColorsConfig, filename string) error {
	if err := os.MkdirAll(tl.themesDir, 0755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	data, err := yaml.Marshal(themeFile{GizAssist: theme})
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}

	if err := os.WriteFile(filepath.Join(tl.themesDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}

	return nil
}

// ValidateTheme checks that the colors every view depends on are set
func (tl *ThemeLoader) ValidateTheme(theme *ColorsConfig) error {
	if theme == nil {
		return fmt.Errorf("theme is nil")
	}

	requiredColors := []struct {
		name  string
		color Color
	}{
		{"body.fgColor", theme.Body.FgColor},
		{"body.bgColor", theme.Body.BgColor},
		{"toast.successColor", theme.Toast.SuccessColor},
		{"toast.errorColor", theme.Toast.ErrorColor},
		{"toast.infoColor", theme.Toast.InfoColor},
	}

	for _, req := range requiredColors {
		if req.color == "" {
			return fmt.Errorf("missing required color: %s", req.name)
		}
	}

	return nil
}

// CreateDefaultTheme creates the default theme file if none exists
func (tl *ThemeLoader) CreateDefaultTheme() error {
	filename := DefaultThemeName + ".yaml"
	if fileExists(filepath.Join(tl.themesDir, filename)) {
		return nil
	}
	return tl.SaveThemeToFile(DefaultColors(), filename)
}

// ResolveTheme returns the named theme, or the built-in colors together with
// the reason the theme could not be used.
func (tl *ThemeLoader) ResolveTheme(name string) (*ColorsConfig, error) {
	if strings.TrimSpace(name) == "" || name == DefaultThemeName {
		if theme, err := tl.LoadTheme(DefaultThemeName); err == nil {
			return theme, nil
		}
		return DefaultColors(), nil
	}
	theme, err := tl.LoadTheme(name)
	if err != nil {
		return DefaultColors(), err
	}
	return theme, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
