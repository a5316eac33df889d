package config

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/yakschuss/dialkit-rails/internal/dom"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/ui/overlay"
)

// Boot option defaults.
const (
	DefaultPosition         = "bottom-right"
	DefaultZIndex           = 99999
	DefaultKeyboardShortcut = "ctrl+shift+d"

	// BootAttr holds the boot JSON on the runtime's script element.
	BootAttr = "data-dial-kit-config"
	// BootSelector finds the runtime's script element.
	BootSelector = "script[data-dial-kit-asset]"
)

// Boot is the panel's static options record.
type Boot struct {
	PositionName string
	Position     overlay.Position
	ZIndex       int
	ShortcutText string
	Shortcut     keys.Shortcut
}

// DefaultBoot returns the options used when the page provides none.
func DefaultBoot() Boot {
	sc, _ := keys.ParseShortcut(DefaultKeyboardShortcut)
	return Boot{
		PositionName: DefaultPosition,
		Position:     overlay.BottomRight,
		ZIndex:       DefaultZIndex,
		ShortcutText: DefaultKeyboardShortcut,
		Shortcut:     sc,
	}
}

// ParseBoot reads boot JSON ({"position", "zIndex", "keyboardShortcut"}).
// Absent, empty or unusable fields keep their defaults; unusable ones are
// logged. Invalid JSON yields the defaults.
func ParseBoot(payload string) Boot {
	b := DefaultBoot()
	if strings.TrimSpace(payload) == "" {
		return b
	}
	if !gjson.Valid(payload) {
		log.Warn(log.CatConfig, "ignoring invalid boot config", "payload", payload)
		return b
	}
	res := gjson.Parse(payload)
	b.setPosition(res.Get("position").String())
	if z := res.Get("zIndex"); z.Type == gjson.Number && z.Int() != 0 {
		b.ZIndex = int(z.Int())
	}
	b.setShortcut(res.Get("keyboardShortcut").String())
	return b
}

// BootFromDocument reads the boot JSON of the first runtime script
// element in doc. Pages without one get the defaults.
func BootFromDocument(doc *dom.Document) Boot {
	els, err := doc.QueryAll(BootSelector)
	if err != nil || len(els) == 0 {
		return DefaultBoot()
	}
	payload, _ := els[0].Attr(BootAttr)
	return ParseBoot(payload)
}

// Apply overrides b with the options set in c.
func (b Boot) Apply(c Config) Boot {
	b.setPosition(c.Position)
	if c.ZIndex > 0 {
		b.ZIndex = c.ZIndex
	}
	b.setShortcut(c.KeyboardShortcut)
	return b
}

func (b *Boot) setPosition(name string) {
	if name == "" {
		return
	}
	p, ok := overlay.ParsePosition(name)
	if !ok {
		log.Warn(log.CatConfig, "unknown position, keeping "+b.PositionName, "position", name)
		return
	}
	b.PositionName = strings.ToLower(strings.TrimSpace(name))
	b.Position = p
}

func (b *Boot) setShortcut(text string) {
	if text == "" {
		return
	}
	sc, err := keys.ParseShortcut(text)
	if err != nil {
		log.WarnErr(log.CatConfig, "ignoring keyboard shortcut", err)
		return
	}
	b.ShortcutText = text
	b.Shortcut = sc
}
