package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yakschuss/dialkit-rails/internal/config"
	"github.com/yakschuss/dialkit-rails/internal/dom"
	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/panel"
	"github.com/yakschuss/dialkit-rails/internal/report"
	"github.com/yakschuss/dialkit-rails/internal/tracing"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
	"github.com/yakschuss/dialkit-rails/internal/watcher"
)

var tuneCmd = &cobra.Command{
	Use:   "tune <page.html>",
	Short: "Open the tuning panel for a page",
	Long: `Open the tuning panel for a page.

The page is re-read whenever it changes on disk; sections follow the
elements that appear and disappear while tuned values are kept.

Examples:
  # Tune a page and print the values report on exit
  dialkit tune index.html --print-report

  # Save the tuned page next to the original
  dialkit tune index.html --out index.tuned.html

  # Print a patch of the exported values instead of the summary
  dialkit tune index.html --print-report --format patch`,
	Args: cobra.ExactArgs(1),
	RunE: runTune,
}

func init() {
	addTuneFlags(tuneCmd)
	rootCmd.AddCommand(tuneCmd)
}

func addTuneFlags(c *cobra.Command) {
	c.Flags().Bool("no-watch", false, "do not re-read the page when it changes")
	c.Flags().StringP("out", "o", "", "write the tuned page to this file on exit")
	c.Flags().Bool("print-report", false, "print the values report on exit")
	c.Flags().String("format", "text", "report format for --print-report: text, json or patch")
}

func runTune(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	format, _ := cmd.Flags().GetString("format")
	if !validFormat(format) {
		return fmt.Errorf("unknown report format %q: want text, json or patch", format)
	}

	cleanup, err := startLogging("tune")
	if err != nil {
		return err
	}
	defer cleanup()

	pagePath := args[0]
	doc, err := loadPage(pagePath)
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		log.Info(log.CatConfig, "panel disabled by configuration")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "dialkit is disabled (enabled: false)")
		return nil
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	styles.ApplyTheme(cfg.Theme.Accent, cfg.Theme.Muted)

	opts := panel.Options{
		Document:      doc,
		PagePath:      pagePath,
		Boot:          config.BootFromDocument(doc).Apply(cfg),
		MarkdownStyle: cfg.Theme.MarkdownStyle,
		Copier:        report.NewCopier(os.Stdout),
		Tracer:        provider.Tracer(),
		Debug:         debugFlag || cfg.Debug || log.EnabledFromEnv(),
	}

	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if cfg.Watch && !noWatch {
		w, err := watcher.New(watcher.Config{Path: pagePath, Debounce: cfg.WatchDebounce})
		if err == nil {
			changes, startErr := w.Start()
			if startErr == nil {
				opts.Changes = changes
				defer func() { _ = w.Stop() }()
			} else {
				log.WarnErr(log.CatWatcher, "watcher start failed, reload disabled", startErr)
				_ = w.Stop()
			}
		} else {
			log.WarnErr(log.CatWatcher, "watcher init failed, reload disabled", err)
		}
	}

	model, err := panel.New(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	final, err := p.Run()
	if err != nil {
		_ = model.Close()
		return fmt.Errorf("running program: %w", err)
	}
	if m, ok := final.(panel.Model); ok {
		model = m
	}

	rep := model.Report()
	closeErr := model.Close()

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := writePage(doc, out); err != nil {
			return err
		}
	}
	if printReport, _ := cmd.Flags().GetBool("print-report"); printReport {
		if err := printReportAs(cmd.OutOrStdout(), rep, format); err != nil {
			return err
		}
	}
	return closeErr
}

func loadPage(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return doc, nil
}

func writePage(doc *dom.Document, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := doc.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing tuned page: %w", err)
	}
	return f.Close()
}

func validFormat(format string) bool {
	switch format {
	case "text", "json", "patch":
		return true
	}
	return false
}

func printReportAs(w io.Writer, rep *report.Report, format string) error {
	var (
		out string
		err error
	)
	switch format {
	case "json":
		out, err = rep.JSON()
	case "patch":
		out, err = rep.Patch()
	default:
		out = rep.Text()
	}
	if err != nil {
		return fmt.Errorf("building %s report: %w", format, err)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
