package stylepipe

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// StyleKind selects the shape painted for each dark module.
type StyleKind string

const (
	StyleClassic     StyleKind = "classic"
	StyleRounded     StyleKind = "rounded"
	StyleDots        StyleKind = "dots"
	StyleThickBorder StyleKind = "thickBorder"
)

// ParseStyleKind maps user input to a StyleKind. Unknown names are kept
// verbatim and paint as plain squares.
func ParseStyleKind(s string) StyleKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "classic":
		return StyleClassic
	case "rounded":
		return StyleRounded
	case "dots":
		return StyleDots
	case "thickborder", "thick-border", "brutal":
		return StyleThickBorder
	default:
		return StyleKind(strings.TrimSpace(s))
	}
}

// StyleSpec is the immutable per-request style.
type StyleSpec struct {
	Kind            StyleKind
	Foreground      color.RGBA
	Background      color.RGBA
	GradientEnabled bool
	GradientTo      color.RGBA
}

// Passthrough reports whether the style leaves the rendered symbol as is.
func (s StyleSpec) Passthrough() bool {
	return s.Kind == StyleClassic && !s.GradientEnabled
}

// ParseHexColor parses #rgb, #rrggbb or "transparent".
func ParseHexColor(s string) (color.RGBA, error) {
	v := strings.TrimSpace(s)
	if strings.EqualFold(v, "transparent") {
		return color.RGBA{}, nil
	}
	v = strings.TrimPrefix(v, "#")

	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}

	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
}

// FormatHexColor renders c as #rrggbb, or "transparent" for a zero alpha.
func FormatHexColor(c color.RGBA) string {
	if c.A == 0 {
		return "transparent"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
