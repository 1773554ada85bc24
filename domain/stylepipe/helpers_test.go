package stylepipe

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// checker is a deterministic, irregular module pattern.
func checker(col, row int) bool {
	return (col*7+row*3)%5 < 2
}

// paintedImage draws a white square with dark blocks wherever dark(col,row).
func paintedImage(side, cell int, dark func(col, row int) bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: white}, image.Point{}, draw.Src)

	for row := 0; row*cell < side; row++ {
		for col := 0; col*cell < side; col++ {
			if !dark(col, row) {
				continue
			}
			r := image.Rect(col*cell, row*cell, (col+1)*cell, (row+1)*cell)
			draw.Draw(img, r, &image.Uniform{C: black}, image.Point{}, draw.Src)
		}
	}
	return img
}

func paintedSymbol(t *testing.T, side, cell int, dark func(col, row int) bool) *RenderedSymbol {
	t.Helper()
	sym, err := NewRenderedSymbol(paintedImage(side, cell, dark))
	require.NoError(t, err)
	return sym
}

func blankSymbol(t *testing.T, side int) *RenderedSymbol {
	t.Helper()
	return paintedSymbol(t, side, 1, func(int, int) bool { return false })
}

func isDark(img *image.RGBA, x, y int) bool {
	return img.Pix[img.PixOffset(x, y)] < darkThreshold
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func assertNear(t *testing.T, want, got color.RGBA, msg string) {
	t.Helper()
	assert.InDelta(t, int(want.R), int(got.R), 2, msg)
	assert.InDelta(t, int(want.G), int(got.G), 2, msg)
	assert.InDelta(t, int(want.B), int(got.B), 2, msg)
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func classicStyle() StyleSpec {
	return StyleSpec{Kind: StyleClassic, Foreground: black, Background: white}
}
