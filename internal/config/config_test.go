package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yakschuss/dialkit-rails/internal/tracing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()

	require.True(t, d.Enabled)
	require.True(t, d.Watch)
	require.Equal(t, DefaultWatchDebounce, d.WatchDebounce)
	require.Empty(t, d.Position, "position is taken from the page unless overridden")
	require.Zero(t, d.ZIndex)
	require.False(t, d.Tracing.Enabled)
	require.NoError(t, Validate(d))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid position", func(c *Config) { c.Position = "Top-Left" }, ""},
		{"bad position", func(c *Config) { c.Position = "center" }, "position must be one of"},
		{"negative z", func(c *Config) { c.ZIndex = -1 }, "z_index"},
		{"bad shortcut", func(c *Config) { c.KeyboardShortcut = "ctrl+" }, "keyboard_shortcut"},
		{"negative debounce", func(c *Config) { c.WatchDebounce = -time.Second }, "watch_debounce"},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 2 }, "sample_rate"},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }, "tracing.exporter"},
		{"file path", func(c *Config) {
			c.Tracing = tracing.Config{Enabled: true, Exporter: "file"}
		}, "file_path is required"},
		{"accent", func(c *Config) { c.Theme.Accent = "#5af" }, ""},
		{"bad accent", func(c *Config) { c.Theme.Accent = "blue" }, "theme.accent"},
		{"bad muted", func(c *Config) { c.Theme.Muted = "#12345" }, "theme.muted"},
		{"markdown style", func(c *Config) { c.Theme.MarkdownStyle = "dracula" }, "markdown_style"},
		{"otlp endpoint", func(c *Config) {
			c.Tracing = tracing.Config{Enabled: true, Exporter: "otlp"}
		}, "otlp_endpoint is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			err := Validate(c)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDefaultConfigTemplate_LoadsWithViper(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var c Config
	require.NoError(t, v.Unmarshal(&c))
	require.True(t, c.Enabled)
	require.True(t, c.Watch)
	require.Equal(t, 150*time.Millisecond, c.WatchDebounce)
	require.Equal(t, "debug.log", c.LogPath)
	require.Empty(t, c.Position)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestSetValue_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SetValue(path, "position", "top-left"))
	require.NoError(t, SetValue(path, "tracing.enabled", "true"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "top-left", got["position"])
	assert.Equal(t, map[string]any{"enabled": true}, got["tracing"])
}

func TestSetValue_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "watch", "false"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "# DialKit Configuration")
	assert.Contains(t, s, "watch: false")
	assert.NotContains(t, s, "watch: true")
	assert.Contains(t, s, "watch_debounce: 150ms")
}

func TestSetValue_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watch: true\n"), 0o600))

	require.ErrorContains(t, SetValue(path, "tracing..enabled", "x"), "invalid config key")
	require.ErrorContains(t, SetValue(path, "watch.inner", "x"), "not a mapping")

	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))
	require.ErrorContains(t, SetValue(path, "watch", "x"), "not a mapping")
}
