package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(w, h int) string {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat("A", w)
	}
	return strings.Join(rows, "\n")
}

func TestPlace_Center(t *testing.T) {
	cfg := Config{Width: 5, Height: 3, Position: Center}

	lines := strings.Split(Place(cfg, "XX\nXX", grid(5, 3)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "AXXAA", lines[0])
	assert.Equal(t, "AXXAA", lines[1])
	assert.Equal(t, "AAAAA", lines[2])
}

func TestPlace_LargeForegroundClampsToOrigin(t *testing.T) {
	cfg := Config{Width: 3, Height: 3, Position: Center}

	lines := strings.Split(Place(cfg, "XXXXX\nXXXXX", grid(3, 3)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "XXXXX", lines[0])
}

func TestOrigin_Corners(t *testing.T) {
	tests := []struct {
		pos  Position
		x, y int
	}{
		{TopLeft, 1, 1},
		{TopRight, 7, 1},
		{BottomLeft, 1, 7},
		{BottomRight, 7, 7},
		{MiddleLeft, 1, 4},
		{MiddleRight, 7, 4},
		{Top, 4, 1},
		{Bottom, 4, 7},
		{Center, 4, 4},
	}
	for _, tt := range tests {
		x, y := Origin(Config{Width: 10, Height: 10, Position: tt.pos, PadX: 1, PadY: 1}, 2, 2)
		assert.Equal(t, tt.x, x, "x for %d", tt.pos)
		assert.Equal(t, tt.y, y, "y for %d", tt.pos)
	}
}

func TestOrigin_AbsoluteClamped(t *testing.T) {
	x, y := Origin(Config{Width: 10, Height: 5, Position: Absolute, X: 3, Y: 1}, 4, 2)
	assert.Equal(t, 3, x)
	assert.Equal(t, 1, y)

	x, y = Origin(Config{Width: 10, Height: 5, Position: Absolute, X: 20, Y: 20}, 4, 2)
	assert.Equal(t, 6, x)
	assert.Equal(t, 3, y)
}

func TestPlace_PadsShortBackground(t *testing.T) {
	cfg := Config{Width: 4, Height: 3, Position: BottomRight}

	lines := strings.Split(Place(cfg, "X", "AA"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "   X", lines[2])
}

func TestCompose_HigherZOnTop(t *testing.T) {
	cfg := Config{Width: 3, Height: 1, Position: TopLeft}

	out := Compose(grid(3, 1),
		Layer{Config: cfg, Content: "T", Z: 10},
		Layer{Config: cfg, Content: "PP", Z: 5},
		Layer{Config: cfg, Content: "", Z: 99},
	)
	assert.Equal(t, "TPA", out)
}

func TestParsePosition(t *testing.T) {
	p, ok := ParsePosition("Top-Right")
	require.True(t, ok)
	assert.Equal(t, TopRight, p)

	_, ok = ParsePosition("center")
	assert.False(t, ok)
	assert.Len(t, PositionNames(), 6)
}
