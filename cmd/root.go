package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yakschuss/dialkit-rails/internal/config"
	"github.com/yakschuss/dialkit-rails/internal/log"
)

func init() {
	// Query the terminal background before Bubble Tea starts reading
	// input, so the OSC 11 reply cannot end up in a text control.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dialkit <page.html>",
	Short: "Live tuning panel for dial_kit annotated pages",
	Long: `Load an HTML page, mount a control section for every element carrying a
data-dial-kit marker and tune the bound --dk-* custom properties live.

Running dialkit with a page is the same as "dialkit tune <page.html>".`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runTune(cmd, args)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .dialkit/config.yaml, then ~/.config/dialkit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug logging (also DIALKIT_DEBUG=1)")
	addTuneFlags(rootCmd)
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("enabled", defaults.Enabled)
	viper.SetDefault("log_path", defaults.LogPath)
	viper.SetDefault("watch", defaults.Watch)
	viper.SetDefault("watch_debounce", defaults.WatchDebounce)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("theme.markdown_style", defaults.Theme.MarkdownStyle)

	viper.SetEnvPrefix("DIALKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .dialkit/config.yaml (current directory)
		// 2. ~/.config/dialkit/config.yaml (user config)
		if _, err := os.Stat(config.LocalConfigPath); err == nil {
			viper.SetConfigFile(config.LocalConfigPath)
		} else if dir := config.UserConfigDir(); dir != "" {
			viper.AddConfigPath(dir)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if dir := config.UserConfigDir(); dir != "" {
				path := filepath.Join(dir, "config.yaml")
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					viper.SetConfigFile(path)
					_ = viper.ReadInConfig()
				}
			}
			// Without a config file the defaults apply.
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configPath is the file config:set edits: the loaded file, or the user
// config when none was loaded.
func configPath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	if dir := config.UserConfigDir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return config.LocalConfigPath
}

// startLogging opens the debug log when requested by flag, config or
// environment. The returned cleanup is never nil.
func startLogging(command string) (func(), error) {
	if !debugFlag && !cfg.Debug && !log.EnabledFromEnv() {
		return func() {}, nil
	}
	path := cfg.LogPath
	if path == "" {
		path = config.Defaults().LogPath
	}
	cleanup, err := log.Init(path)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "dialkit starting", "command", command, "version", version, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
