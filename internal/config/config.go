// Package config provides configuration types, defaults and persistence
// for dialkit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/tracing"
	"github.com/yakschuss/dialkit-rails/internal/ui/overlay"
)

const (
	// LocalConfigPath is checked before the user config.
	LocalConfigPath = ".dialkit/config.yaml"

	DefaultWatchDebounce = 150 * time.Millisecond
)

// Config holds the CLI configuration. Position, ZIndex and
// KeyboardShortcut override the page's boot options only when set.
type Config struct {
	Enabled          bool           `mapstructure:"enabled"`
	Position         string         `mapstructure:"position"`
	ZIndex           int            `mapstructure:"z_index"`
	KeyboardShortcut string         `mapstructure:"keyboard_shortcut"`
	Debug            bool           `mapstructure:"debug"`
	LogPath          string         `mapstructure:"log_path"`
	Watch            bool           `mapstructure:"watch"`
	WatchDebounce    time.Duration  `mapstructure:"watch_debounce"`
	Tracing          tracing.Config `mapstructure:"tracing"`
	Theme            Theme          `mapstructure:"theme"`
}

// Theme overrides panel colors. Empty values keep the built-in palette.
type Theme struct {
	Accent        string `mapstructure:"accent"`
	Muted         string `mapstructure:"muted"`
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		Enabled:       true,
		LogPath:       "debug.log",
		Watch:         true,
		WatchDebounce: DefaultWatchDebounce,
		Tracing:       tc,
		Theme:         Theme{MarkdownStyle: "dark"},
	}
}

// UserConfigDir returns ~/.config/dialkit, or "" when the home directory
// is unknown.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dialkit")
}

// DefaultTracesFilePath returns ~/.config/dialkit/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Validate checks c for values that cannot be applied. Empty overrides
// are valid.
func Validate(c Config) error {
	if c.Position != "" {
		if _, ok := overlay.ParsePosition(c.Position); !ok {
			return fmt.Errorf("position must be one of %s, got %q",
				strings.Join(overlay.PositionNames(), ", "), c.Position)
		}
	}
	if c.ZIndex < 0 {
		return fmt.Errorf("z_index must not be negative, got %d", c.ZIndex)
	}
	if c.KeyboardShortcut != "" {
		if _, err := keys.ParseShortcut(c.KeyboardShortcut); err != nil {
			return fmt.Errorf("keyboard_shortcut: %w", err)
		}
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative, got %s", c.WatchDebounce)
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateTheme checks color overrides and the preview style name.
func ValidateTheme(t Theme) error {
	for name, v := range map[string]string{"theme.accent": t.Accent, "theme.muted": t.Muted} {
		if v != "" && !hexColor.MatchString(v) {
			return fmt.Errorf("%s must be a #rgb or #rrggbb color, got %q", name, v)
		}
	}
	switch t.MarkdownStyle {
	case "", "dark", "light", "notty":
	default:
		return fmt.Errorf("theme.markdown_style must be \"dark\", \"light\", or \"notty\", got %q", t.MarkdownStyle)
	}
	return nil
}

// ValidateTracing checks tracing configuration. Empty values use defaults.
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}
	switch tc.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
	}
	if tc.Enabled {
		if tc.Exporter == "file" && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config file with comments.
func DefaultConfigTemplate() string {
	return `# DialKit Configuration

# Set to false to load pages without the panel
enabled: true

# Panel placement, z-index and toggle shortcut. When unset, the page's
# data-dial-kit-config boot options apply (bottom-right, 99999, ctrl+shift+d).
# position: middle-right   # top-left, top-right, bottom-left, bottom-right, middle-left, middle-right
# z_index: 99999
# keyboard_shortcut: ctrl+shift+d

# Re-read the page when it changes on disk
watch: true
watch_debounce: 150ms

# Debug logging (also enabled by DIALKIT_DEBUG=1)
debug: false
log_path: debug.log

# Panel colors and report preview style
# theme:
#   accent: "#54A0FF"
#   muted: "#696969"
#   markdown_style: dark   # dark, light, notty

# Tracing of registry batches
# tracing:
#   enabled: true
#   exporter: file           # none, file, stdout, otlp
#   file_path: ~/.config/dialkit/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at configPath from the default
// template, creating the parent directory when needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
