// Package log provides structured logging for dialkit.
// Entries carry a level, a category and key=value fields. Logging is off
// until Init is called (via --debug or DIALKIT_DEBUG), so the panel never
// writes to the terminal it is drawing on.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yakschuss/dialkit-rails/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Category groups related log messages.
type Category string

const (
	CatConfig    Category = "config"    // Boot options and config file handling
	CatNormalize Category = "normalize" // Shorthand normalization
	CatRegistry  Category = "registry"  // Target registration and mutation batches
	CatControl   Category = "control"   // Control interactions and style writes
	CatDOM       Category = "dom"       // Document parsing and reconcile
	CatWatcher   Category = "watcher"   // Page file watcher events
	CatUI        Category = "ui"        // Panel updates
	CatClipboard Category = "clipboard" // Report copy paths
	CatCache     Category = "cache"     // Normalization cache
)

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	closer   io.Closer
	writer   io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var defaultLogger *Logger

// Init opens path through tea.LogToFile and installs the global logger.
// Returns a cleanup function to close the log file.
func Init(path string) (func(), error) {
	f, err := tea.LogToFile(path, "dialkit")
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defaultLogger = newLogger(f, f)
	return func() { _ = f.Close() }, nil
}

// InitWriter installs a logger writing to w. Used by tests and by the
// inspect command, which logs to stderr.
func InitWriter(w io.Writer) {
	defaultLogger = newLogger(w, nil)
}

// Reset removes the global logger. Subsequent calls are no-ops.
func Reset() {
	if defaultLogger != nil && defaultLogger.broker != nil {
		defaultLogger.broker.Close()
	}
	defaultLogger = nil
}

// EnabledFromEnv reports whether DIALKIT_DEBUG requests logging.
func EnabledFromEnv() bool {
	v := strings.ToLower(os.Getenv("DIALKIT_DEBUG"))
	return v == "1" || v == "true" || v == "yes"
}

func newLogger(w io.Writer, c io.Closer) *Logger {
	return &Logger{
		closer:   c,
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	}
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.minLevel = level
		defaultLogger.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// WarnErr logs a warning with the error value appended as a field.
func WarnErr(cat Category, msg string, err error, fields ...any) {
	write(LevelWarn, cat, msg, withErr(fields, err)...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	write(LevelError, cat, msg, withErr(fields, err)...)
}

func withErr(fields []any, err error) []any {
	if err != nil {
		return append(fields, "error", err.Error())
	}
	return append(fields, "error", "<nil>")
}

// Format renders one entry without the trailing newline.
// Format: 2025-12-06T10:45:00 [WARN] [registry] message key=value key2=value2
func Format(ts time.Time, level Level, cat Category, msg string, fields ...any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	return b.String()
}

func write(level Level, cat Category, msg string, fields ...any) {
	l := defaultLogger
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel {
		return
	}

	entry := Format(time.Now(), level, cat, msg, fields...)
	if l.writer != nil {
		_, _ = io.WriteString(l.writer, entry+"\n")
	}
	if l.broker != nil {
		l.broker.Publish(pubsub.CreatedEvent, entry)
	}
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a new log event listener.
// The listener is cleaned up when the context is cancelled.
func NewListener(ctx context.Context) *LogListener {
	if defaultLogger == nil || defaultLogger.broker == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, defaultLogger.broker)
}
