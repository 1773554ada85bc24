package stylepipe

import (
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite_DotsShape(t *testing.T) {
	// Arrange
	sym := blankSymbol(t, 330)
	cells := slices.Values([]ModuleCell{{X: 0, Y: 0, Size: 10, Dark: true}})
	style := StyleSpec{Kind: StyleDots, Foreground: black, Background: white}

	// Act
	out, err := Composite(sym, cells, style)
	require.NoError(t, err)

	// Assert
	for _, p := range [][2]int{{0, 0}, {9, 0}, {0, 9}, {9, 9}} {
		assert.False(t, isDark(out, p[0], p[1]), "corner %v must stay light", p)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			d := math.Hypot(float64(x)+0.5-5, float64(y)+0.5-5)
			if d <= 4 {
				assert.True(t, isDark(out, x, y), "pixel (%d,%d) inside the dot", x, y)
			}
		}
	}
	assert.True(t, isDark(out, 5, 5))
	assert.False(t, isDark(out, 15, 5), "neighbouring cell untouched")
}

func TestComposite_RoundedCorners(t *testing.T) {
	sym := blankSymbol(t, 660)
	cells := slices.Values([]ModuleCell{{X: 0, Y: 0, Size: 20, Dark: true}})
	style := StyleSpec{Kind: StyleRounded, Foreground: black, Background: white}

	out, err := Composite(sym, cells, style)
	require.NoError(t, err)

	assert.False(t, isDark(out, 0, 0), "corner is cut by the 6px radius")
	assert.True(t, isDark(out, 10, 0), "top edge midpoint is filled")
	assert.True(t, isDark(out, 10, 10))
}

func TestComposite_ThickBorderSeam(t *testing.T) {
	// Arrange
	sym := blankSymbol(t, 330)
	cells := slices.Values([]ModuleCell{
		{X: 0, Y: 0, Size: 10, Dark: true},
		{X: 10, Y: 0, Size: 10, Dark: true},
	})
	style := StyleSpec{Kind: StyleThickBorder, Foreground: black, Background: white}

	// Act
	out, err := Composite(sym, cells, style)
	require.NoError(t, err)

	// Assert
	assert.True(t, isDark(out, 5, 5))
	assert.True(t, isDark(out, 15, 5))
	assert.False(t, isDark(out, 9, 5), "seam left of the shared edge")
	assert.False(t, isDark(out, 10, 5), "seam right of the shared edge")
}

func TestComposite_UnknownKindPaintsSquares(t *testing.T) {
	sym := blankSymbol(t, 330)
	cells := slices.Values([]ModuleCell{{X: 10, Y: 10, Size: 10, Dark: true}})
	style := StyleSpec{Kind: ParseStyleKind("hexagon"), Foreground: black, Background: white}

	out, err := Composite(sym, cells, style)
	require.NoError(t, err)

	for _, p := range [][2]int{{10, 10}, {19, 10}, {10, 19}, {19, 19}} {
		assert.True(t, isDark(out, p[0], p[1]), "square corner %v", p)
	}
	assert.False(t, isDark(out, 20, 20))
}

func TestComposite_EmptySequenceIsBackgroundOnly(t *testing.T) {
	bg := color.RGBA{R: 200, G: 220, B: 240, A: 255}
	sym := paintedSymbol(t, 264, 8, checker)
	style := StyleSpec{Kind: StyleRounded, Foreground: black, Background: bg}

	out, err := Composite(sym, slices.Values([]ModuleCell{}), style)
	require.NoError(t, err)

	for _, p := range [][2]int{{0, 0}, {100, 37}, {263, 263}} {
		assert.Equal(t, bg, rgbaAt(out, p[0], p[1]))
	}
}

func TestComposite_GradientFill(t *testing.T) {
	// Arrange
	from := color.RGBA{R: 255, A: 255}
	to := color.RGBA{B: 255, A: 255}
	sym := paintedSymbol(t, 264, 8, checker)
	grid, err := ExtractGrid(sym)
	require.NoError(t, err)
	style := StyleSpec{Kind: StyleRounded, Foreground: from, Background: white, GradientEnabled: true, GradientTo: to}

	// Act
	out, err := Composite(sym, grid.Modules(), style)
	require.NoError(t, err)

	// Assert
	start := rgbaAt(out, 0, 0)
	end := rgbaAt(out, 263, 263)
	assert.InDelta(t, 255, int(start.R), 8)
	assert.InDelta(t, 0, int(start.B), 8)
	assert.InDelta(t, 0, int(end.R), 8)
	assert.InDelta(t, 255, int(end.B), 8)
}

func TestComposite_Passthrough(t *testing.T) {
	sym := paintedSymbol(t, 20, 4, checker)

	out, err := Composite(sym, nil, classicStyle())

	require.NoError(t, err)
	assert.Equal(t, sym.Image().Pix, out.Pix)
}

func TestComposite_Failures(t *testing.T) {
	rounded := StyleSpec{Kind: StyleRounded, Foreground: black, Background: white}

	_, err := Composite(&RenderedSymbol{}, nil, rounded)
	assert.ErrorIs(t, err, ErrSourceNotReady)

	_, err = Composite(blankSymbol(t, 32), nil, rounded)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	zero := slices.Values([]ModuleCell{{X: 0, Y: 0, Size: 0, Dark: true}})
	_, err = Composite(blankSymbol(t, 66), zero, rounded)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestParseStyleKind(t *testing.T) {
	tests := map[string]StyleKind{
		"":            StyleClassic,
		"classic":     StyleClassic,
		"Rounded":     StyleRounded,
		"dots":        StyleDots,
		"brutal":      StyleThickBorder,
		"thickBorder": StyleThickBorder,
		"stars":       StyleKind("stars"),
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseStyleKind(in), in)
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1a1a2e")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 255}, c)

	c, err = ParseHexColor("fff")
	require.NoError(t, err)
	assert.Equal(t, white, c)

	c, err = ParseHexColor("transparent")
	require.NoError(t, err)
	assert.Equal(t, uint8(0), c.A)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, err = ParseHexColor("#zzzzzz")
	assert.Error(t, err)

	assert.Equal(t, "#1a1a2e", FormatHexColor(color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 255}))
	assert.Equal(t, "transparent", FormatHexColor(color.RGBA{}))
}
