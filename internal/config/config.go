// Package config loads jekyllctl configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig defines the global jekyllctl configuration options.
type AppConfig struct {
	BlogRoot            string   // Root of the blog working tree (default: cwd)
	PostsDir            string   // Published posts dir, relative to BlogRoot
	DraftsDir           string   // Drafts dir, relative to BlogRoot
	AssetsDir           string   // Assets dir, relative to BlogRoot
	ListenAddr          string   // Admin server bind address
	AdminURL            string   // Base URL the dashboard/client talks to
	Remote              string   // Git remote pushed to
	PollIntervalSeconds int      // Status poll interval for the dashboard
	AutoRefresh         bool     // Watch the content tree for out-of-band refreshes
	SiteCommand         string   // Command the supervisor runs for the site generator
	Theme               string   // Theme name, see internal/theme
	ShowIcons           bool     // Render Nerd Font icons in file lists
	MaxUploadMB         int      // Upload size cap for the assets endpoint
	UploadExtensions    []string // Allowed upload extensions (no dot, lowercase)
	DebugLog            string   // Debug log file path
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		PostsDir:            "_posts",
		DraftsDir:           "_drafts",
		AssetsDir:           "assets",
		ListenAddr:          "127.0.0.1:5001",
		AdminURL:            "http://127.0.0.1:5001",
		Remote:              "origin",
		PollIntervalSeconds: 5,
		AutoRefresh:         true,
		SiteCommand:         "bundle exec jekyll serve",
		ShowIcons:           true,
		MaxUploadMB:         50,
		UploadExtensions: []string{
			"png", "jpg", "jpeg", "gif", "webp", "svg",
			"pdf", "csv", "xlsx", "json", "geojson", "md", "txt",
			"zip", "hwp", "hwpx", "pptx", "docx",
		},
	}
}

// imageExtensions routes uploads into the img/ subdirectory.
var imageExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true, "svg": true,
}

// IsImageExtension reports whether ext (lowercase, no dot) is an image type.
func IsImageExtension(ext string) bool {
	return imageExtensions[ext]
}

// UploadAllowed reports whether ext is in the configured allow-list.
func (c *AppConfig) UploadAllowed(ext string) bool {
	for _, e := range c.UploadExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func normalizeStringList(value any) []string {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		return strings.Fields(text)
	case []any:
		items := []string{}
		for _, item := range v {
			if item == nil {
				continue
			}
			text := strings.TrimSpace(fmt.Sprintf("%v", item))
			if text != "" {
				items = append(items, text)
			}
		}
		return items
	}
	return nil
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()

	setString := func(key string, dst *string) {
		if raw, ok := data[key].(string); ok {
			raw = strings.TrimSpace(raw)
			if raw != "" {
				*dst = raw
			}
		}
	}

	setString("blog_root", &cfg.BlogRoot)
	setString("posts_dir", &cfg.PostsDir)
	setString("drafts_dir", &cfg.DraftsDir)
	setString("assets_dir", &cfg.AssetsDir)
	setString("listen_addr", &cfg.ListenAddr)
	setString("admin_url", &cfg.AdminURL)
	setString("remote", &cfg.Remote)
	setString("site_command", &cfg.SiteCommand)
	setString("theme", &cfg.Theme)
	setString("debug_log", &cfg.DebugLog)

	cfg.PollIntervalSeconds = coerceInt(data["poll_interval_seconds"], cfg.PollIntervalSeconds)
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.MaxUploadMB = coerceInt(data["max_upload_mb"], cfg.MaxUploadMB)

	if exts := normalizeStringList(data["upload_extensions"]); len(exts) > 0 {
		lowered := make([]string, 0, len(exts))
		for _, e := range exts {
			lowered = append(lowered, strings.ToLower(strings.TrimPrefix(e, ".")))
		}
		cfg.UploadExtensions = lowered
	}

	return cfg
}

// ExpandPath expands a leading ~ to the user home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the configuration from configPath, or from the default
// locations when configPath is empty. Missing files yield the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string

	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{absPath}
	} else {
		configBase := filepath.Join(getConfigDir(), "jekyllctl")
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path comes from the user's own flag or config dir
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(raw, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
		}

		cfg := parseConfig(yamlData)
		if err := cfg.finalize(); err != nil {
			return DefaultConfig(), err
		}
		return cfg, nil
	}

	cfg := DefaultConfig()
	if err := cfg.finalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// finalize resolves BlogRoot to an absolute path, defaulting to the cwd.
func (c *AppConfig) finalize() error {
	if c.BlogRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve blog root: %w", err)
		}
		c.BlogRoot = cwd
		return nil
	}

	expanded, err := ExpandPath(c.BlogRoot)
	if err != nil {
		return fmt.Errorf("expand blog root: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return fmt.Errorf("resolve blog root: %w", err)
	}
	c.BlogRoot = abs
	return nil
}

// PostsPath returns the absolute published-posts directory.
func (c *AppConfig) PostsPath() string { return filepath.Join(c.BlogRoot, c.PostsDir) }

// DraftsPath returns the absolute drafts directory.
func (c *AppConfig) DraftsPath() string { return filepath.Join(c.BlogRoot, c.DraftsDir) }

// AssetsPath returns the absolute assets directory.
func (c *AppConfig) AssetsPath() string { return filepath.Join(c.BlogRoot, c.AssetsDir) }
