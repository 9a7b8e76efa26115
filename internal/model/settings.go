package model

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidSettings is returned when watermark settings cannot be used for drawing.
var ErrInvalidSettings = errors.New("invalid watermark settings")

// Position is the anchor of the watermark text on the image.
type Position int

const (
	TopLeft Position = iota
	Center
	BottomRight
)

// String returns the config name of the position.
func (p Position) String() string {
	switch p {
	case TopLeft:
		return "top_left"
	case Center:
		return "center"
	case BottomRight:
		return "bottom_right"
	default:
		return "Position(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePosition parses names like "top_left", "Top-Left" or "bottom_right".
func ParsePosition(s string) (Position, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")

	switch name {
	case "top_left":
		return TopLeft, nil
	case "center":
		return Center, nil
	case "bottom_right":
		return BottomRight, nil
	default:
		return TopLeft, fmt.Errorf("unknown position %q", s)
	}
}

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

var namedColors = map[string]Color{
	"white":  {255, 255, 255},
	"black":  {0, 0, 0},
	"red":    {255, 0, 0},
	"green":  {0, 255, 0},
	"blue":   {0, 0, 255},
	"yellow": {255, 255, 0},
}

// ParseColor accepts "#RRGGBB", "RRGGBB", "#RGB" or a basic color name.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}

	v = strings.TrimPrefix(v, "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}

	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// Hex formats the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBA returns the color at full opacity.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// WatermarkSettings holds the style of the watermark text.
type WatermarkSettings struct {
	FontSize int      // font size in pixels, must be positive
	Color    Color    // text color, drawn fully opaque
	Position Position // anchor of the text
	Margin   int      // distance from the image edges in pixels
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() WatermarkSettings {
	return WatermarkSettings{
		FontSize: 24,
		Color:    Color{R: 255, G: 255, B: 255},
		Position: BottomRight,
		Margin:   16,
	}
}

// Validate reports whether the settings can be used for drawing.
func (s WatermarkSettings) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive, got %d", ErrInvalidSettings, s.FontSize)
	}
	if s.Margin < 0 {
		return fmt.Errorf("%w: margin must not be negative, got %d", ErrInvalidSettings, s.Margin)
	}

	return nil
}
