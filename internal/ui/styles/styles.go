// Package styles contains Lip Gloss style definitions for the panel.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"} // Labels, values
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#BBBBBB"} // Section names
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, bounds, empty state

	// Semantic color names - Border
	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#B2BEC3", Dark: "#696969"}
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Slider track
	TrackFillColor  = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"}
	TrackEmptyColor = lipgloss.AdaptiveColor{Light: "#DFE6E9", Dark: "#3B3B3B"}

	// Button colors
	ButtonTextColor             = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor        = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusBgColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonSecondaryBgColor      = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#2D3436"}
	ButtonSecondaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#636E72"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}

	// Selection indicator style (the ">" before the focused control)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(BorderHighlightFocusColor)

	LabelStyle        = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	LabelFocusedStyle = lipgloss.NewStyle().Foreground(BorderHighlightFocusColor).Bold(true)
	ValueStyle        = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	MutedStyle        = lipgloss.NewStyle().Foreground(TextMutedColor)
	TitleStyle        = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)

	baseButtonStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	PrimaryButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonPrimaryBgColor)

	PrimaryButtonFocusedStyle = baseButtonStyle.
					Foreground(ButtonTextColor).
					Background(ButtonPrimaryFocusBgColor).
					Underline(true).
					UnderlineSpaces(true)

	SecondaryButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonSecondaryBgColor)

	SecondaryButtonFocusedStyle = baseButtonStyle.
					Foreground(ButtonTextColor).
					Background(ButtonSecondaryFocusBgColor).
					Underline(true).
					UnderlineSpaces(true)

	// Panel frame
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)
)

// Button renders label as a primary or secondary button.
func Button(label string, primary, focused bool) string {
	switch {
	case primary && focused:
		return PrimaryButtonFocusedStyle.Render(label)
	case primary:
		return PrimaryButtonStyle.Render(label)
	case focused:
		return SecondaryButtonFocusedStyle.Render(label)
	default:
		return SecondaryButtonStyle.Render(label)
	}
}

// ApplyTheme overrides the accent and muted colors. Empty strings keep
// the defaults.
func ApplyTheme(accent, muted string) {
	if accent != "" {
		BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: accent, Dark: accent}
		TrackFillColor = BorderHighlightFocusColor
		SelectionIndicatorStyle = SelectionIndicatorStyle.Foreground(BorderHighlightFocusColor)
		LabelFocusedStyle = LabelFocusedStyle.Foreground(BorderHighlightFocusColor)
	}
	if muted != "" {
		TextMutedColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
		BorderDefaultColor = TextMutedColor
		MutedStyle = MutedStyle.Foreground(TextMutedColor)
	}
}
