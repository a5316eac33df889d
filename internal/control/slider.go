package control

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
	"github.com/yakschuss/dialkit-rails/internal/keys"
	"github.com/yakschuss/dialkit-rails/internal/ui/styles"
)

// Slider is a numeric range control with range-input semantics: values
// snap to min + k*step and are clamped to [min, max].
type Slider struct {
	base
	spec     controlspec.Slider
	value    float64
	dragging bool
}

// NewSlider creates a slider at its default and binds it.
func NewSlider(key string, spec controlspec.Slider, target Target) *Slider {
	s := &Slider{base: newBase(key, target), spec: spec, value: spec.Default}
	s.bind(s.value)
	return s
}

func (s *Slider) Spec() controlspec.Spec { return s.spec }
func (s *Slider) Value() (any, bool)     { return s.value, true }

// Current returns the value as a number.
func (s *Slider) Current() float64 { return s.value }

// SetValue snaps and clamps v, then binds it if it changed.
func (s *Slider) SetValue(v float64) {
	v = s.snap(v)
	if v == s.value {
		return
	}
	s.value = v
	s.bind(v)
}

func (s *Slider) snap(v float64) float64 {
	lo, hi, step := s.spec.Min, s.spec.Max, s.spec.Step
	if math.IsNaN(v) {
		return s.value
	}
	if step > 0 {
		v = lo + math.Round((v-lo)/step)*step
		v = roundTo(v, max(decimals(step), decimals(lo)))
	}
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// Nudge moves the value by n steps.
func (s *Slider) Nudge(n int) {
	step := s.spec.Step
	if step <= 0 {
		step = (s.spec.Max - s.spec.Min) / 100
	}
	s.SetValue(s.value + float64(n)*step)
}

// Fraction is the fill position (v-min)/(max-min), 0 when the range is
// empty.
func (s *Slider) Fraction() float64 {
	span := s.spec.Max - s.spec.Min
	if span == 0 {
		return 0
	}
	return (s.value - s.spec.Min) / span
}

// SetFraction moves the value to the given fill position.
func (s *Slider) SetFraction(f float64) {
	f = math.Min(math.Max(f, 0), 1)
	s.SetValue(s.spec.Min + f*(s.spec.Max-s.spec.Min))
}

// Display renders the value for the panel. A step below 1 fixes the
// number of decimals to the step's own fractional digits; any other step
// shows the value rounded to two decimals.
func (s *Slider) Display() string {
	return DisplayValue(s.value, s.spec.Step)
}

// DisplayValue formats v the way a slider with the given step shows it.
func DisplayValue(v, step float64) string {
	if step != 0 && step < 1 {
		d := decimals(step)
		if d == 0 {
			d = 2
		}
		return strconv.FormatFloat(v, 'f', d, 64)
	}
	return controlspec.FormatNumber(math.Floor(v*100+0.5) / 100)
}

// decimals counts the fractional digits of n's shortest form.
func decimals(n float64) int {
	_, frac, ok := strings.Cut(controlspec.FormatNumber(n), ".")
	if !ok {
		return 0
	}
	return len(frac)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func (s *Slider) trackZone() string { return s.subZone("track") }

func (s *Slider) InBounds(msg tea.MouseMsg) bool {
	return hit(s.zoneID, msg) || hit(s.trackZone(), msg)
}

func (s *Slider) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Panel.Decrease):
			s.Nudge(-1)
		case key.Matches(msg, keys.Panel.Increase):
			s.Nudge(1)
		case key.Matches(msg, keys.Panel.DecreaseBig):
			s.Nudge(-10)
		case key.Matches(msg, keys.Panel.IncreaseBig):
			s.Nudge(10)
		case key.Matches(msg, keys.Panel.Home):
			s.SetValue(s.spec.Min)
		case key.Matches(msg, keys.Panel.End):
			s.SetValue(s.spec.Max)
		}
	case tea.MouseMsg:
		s.handleMouse(msg)
	}
	return nil
}

func (s *Slider) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && hit(s.trackZone(), msg) {
			s.dragging = true
			s.seek(msg)
		}
	case tea.MouseActionMotion:
		if s.dragging {
			s.seek(msg)
		}
	case tea.MouseActionRelease:
		if s.dragging {
			s.seek(msg)
			s.dragging = false
		}
	}
}

// seek sets the value from the pointer's column on the track. While
// dragging, positions beyond either end clamp.
func (s *Slider) seek(msg tea.MouseMsg) {
	z := zone.Get(s.trackZone())
	if z == nil || z.IsZero() {
		return
	}
	span := z.EndX - z.StartX
	if span <= 0 {
		s.SetFraction(0)
		return
	}
	s.SetFraction(float64(msg.X-z.StartX) / float64(span))
}

func (s *Slider) View(focused bool, width int) string {
	label := zone.Mark(s.zoneID, row(FormatLabel(s.key), styles.ValueStyle.Render(s.Display()), width, focused))
	return label + "\n  " + zone.Mark(s.trackZone(), s.track(inner(width)))
}

func (s *Slider) track(width int) string {
	f := math.Min(math.Max(s.Fraction(), 0), 1)
	pos := int(math.Round(f * float64(width-1)))
	fill := lipgloss.NewStyle().Foreground(styles.TrackFillColor)
	empty := lipgloss.NewStyle().Foreground(styles.TrackEmptyColor)
	handle := "●"
	if s.dragging {
		handle = "◉"
	}
	return fill.Render(strings.Repeat("━", pos)) + fill.Render(handle) + empty.Render(strings.Repeat("─", width-1-pos))
}
