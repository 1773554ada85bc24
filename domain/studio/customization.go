package studio

import (
	"strings"

	"github.com/prasetyowira/qrstudio/domain/payload"
	"github.com/prasetyowira/qrstudio/domain/stylepipe"
)

// ErrorLevel is a QR error correction level: L, M, Q or H.
type ErrorLevel string

const (
	LevelLow      ErrorLevel = "L"
	LevelMedium   ErrorLevel = "M"
	LevelQuartile ErrorLevel = "Q"
	LevelHigh     ErrorLevel = "H"
)

const (
	DefaultForeground    = "#1a1a2e"
	DefaultBackground    = "#ffffff"
	DefaultGradientColor = "#667eea"
	DefaultLogoPercent   = 20
	MinLogoPercent       = 5
	MaxLogoPercent       = 28
)

// Customization is the user-facing style of a generation.
type Customization struct {
	Size            int        `json:"size"`
	Foreground      string     `json:"fgColor"`
	Background      string     `json:"bgColor"`
	ErrorLevel      ErrorLevel `json:"errorLevel"`
	Pattern         string     `json:"pattern"`
	Gradient        bool       `json:"gradientEnabled"`
	GradientColor   string     `json:"gradientColor"`
	LogoSizePercent int        `json:"logoSize"`
}

// Normalize fills defaults and clamps numeric fields to opts.
func (c Customization) Normalize(opts Options) Customization {
	if c.Size == 0 {
		c.Size = opts.DefaultSize
	}
	c.Size = clamp(c.Size, opts.MinSize, opts.MaxSize)

	c.Foreground = orDefault(c.Foreground, DefaultForeground)
	c.Background = orDefault(c.Background, DefaultBackground)
	c.GradientColor = orDefault(c.GradientColor, DefaultGradientColor)

	switch lvl := ErrorLevel(strings.ToUpper(strings.TrimSpace(string(c.ErrorLevel)))); lvl {
	case LevelLow, LevelMedium, LevelQuartile, LevelHigh:
		c.ErrorLevel = lvl
	default:
		c.ErrorLevel = LevelHigh
	}

	c.Pattern = string(stylepipe.ParseStyleKind(c.Pattern))

	if c.LogoSizePercent == 0 {
		c.LogoSizePercent = DefaultLogoPercent
	}
	c.LogoSizePercent = clamp(c.LogoSizePercent, MinLogoPercent, MaxLogoPercent)

	return c
}

// Style converts c into a pipeline style. Colours that do not parse are
// reported as a validation error on the offending field.
func (c Customization) Style() (stylepipe.StyleSpec, error) {
	fg, err := stylepipe.ParseHexColor(c.Foreground)
	if err != nil {
		return stylepipe.StyleSpec{}, &payload.ValidationError{Field: "fgColor", Message: err.Error()}
	}
	bg, err := stylepipe.ParseHexColor(c.Background)
	if err != nil {
		return stylepipe.StyleSpec{}, &payload.ValidationError{Field: "bgColor", Message: err.Error()}
	}

	style := stylepipe.StyleSpec{
		Kind:            stylepipe.ParseStyleKind(c.Pattern),
		Foreground:      fg,
		Background:      bg,
		GradientEnabled: c.Gradient,
	}
	if c.Gradient {
		to, err := stylepipe.ParseHexColor(c.GradientColor)
		if err != nil {
			return stylepipe.StyleSpec{}, &payload.ValidationError{Field: "gradientColor", Message: err.Error()}
		}
		style.GradientTo = to
	}
	return style, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
