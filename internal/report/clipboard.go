package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"

	"github.com/yakschuss/dialkit-rails/internal/log"
)

// ErrClipboard is wrapped by every ClipboardWriteError.
var ErrClipboard = errors.New("clipboard write failed")

// ClipboardWriteError reports that a copy path failed.
type ClipboardWriteError struct {
	Method Method
	Err    error
}

func (e *ClipboardWriteError) Error() string {
	return fmt.Sprintf("%s via %s: %v", ErrClipboard, e.Method, e.Err)
}

func (e *ClipboardWriteError) Unwrap() []error { return []error{ErrClipboard, e.Err} }

// Method names the path a copy went through.
type Method string

const (
	MethodNone      Method = "none"
	MethodClipboard Method = "clipboard"
	MethodOSC52     Method = "osc52"
)

// Clipboard writes text somewhere the user can paste it from.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard uses the OS clipboard.
type SystemClipboard struct{}

// Copy implements Clipboard.
func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// TerminalClipboard asks the terminal to set its selection with an OSC 52
// sequence. Delivery can't be confirmed; only write errors are reported.
type TerminalClipboard struct {
	w io.Writer
}

// NewTerminalClipboard writes sequences to w, usually os.Stdout.
func NewTerminalClipboard(w io.Writer) TerminalClipboard {
	return TerminalClipboard{w: w}
}

// Copy implements Clipboard.
func (t TerminalClipboard) Copy(text string) error {
	if t.w == nil {
		return errors.New("no terminal output")
	}
	termenv.NewOutput(t.w).Copy(text)
	return nil
}

// Copier tries the primary clipboard and falls back to the terminal.
type Copier struct {
	Primary  Clipboard
	Fallback Clipboard
}

// NewCopier uses the system clipboard with an OSC 52 fallback on out.
func NewCopier(out io.Writer) *Copier {
	return &Copier{Primary: SystemClipboard{}, Fallback: NewTerminalClipboard(out)}
}

// Copy writes text and reports which path succeeded. Failures are logged;
// the returned error is non-nil only when every path failed.
func (c *Copier) Copy(text string) (Method, error) {
	var errs []error
	if c.Primary != nil {
		err := c.Primary.Copy(text)
		if err == nil {
			return MethodClipboard, nil
		}
		werr := &ClipboardWriteError{Method: MethodClipboard, Err: err}
		log.WarnErr(log.CatClipboard, "primary copy failed", werr)
		errs = append(errs, werr)
	}
	if c.Fallback != nil {
		err := c.Fallback.Copy(text)
		if err == nil {
			log.Debug(log.CatClipboard, "copied through fallback", "bytes", len(text))
			return MethodOSC52, nil
		}
		werr := &ClipboardWriteError{Method: MethodOSC52, Err: err}
		log.WarnErr(log.CatClipboard, "fallback copy failed", werr)
		errs = append(errs, werr)
	}
	if len(errs) == 0 {
		return MethodNone, &ClipboardWriteError{Method: MethodNone, Err: errors.New("no clipboard configured")}
	}
	return MethodNone, errors.Join(errs...)
}
