// Package stylepipe restyles rendered QR symbols. It samples the module
// grid back out of a rendered bitmap, repaints the dark modules with an
// alternate shape and fill, and optionally composites a centred logo on
// top of a background-coloured occlusion patch.
package stylepipe

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ApproxModuleCount is the fixed module count the grid sampler assumes for
// every symbol, whatever its real QR version.
const ApproxModuleCount = 33

// darkThreshold is compared against the red channel only.
const darkThreshold = 128

// RenderedSymbol is an immutable square bitmap produced by a QR render
// source. The zero value has no pixel buffer and is not ready.
type RenderedSymbol struct {
	pix *image.RGBA
}

// ModuleCell is one sampled grid cell of a RenderedSymbol.
type ModuleCell struct {
	X    int
	Y    int
	Size int
	Dark bool
}

// NewRenderedSymbol copies img into a symbol anchored at the origin.
func NewRenderedSymbol(img image.Image) (*RenderedSymbol, error) {
	if img == nil {
		return nil, ErrSourceNotReady
	}

	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("%w: symbol is %dx%d, want a square", ErrInvalidDimension, b.Dx(), b.Dy())
	}

	pix := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(pix, pix.Bounds(), img, b.Min, xdraw.Src)
	return &RenderedSymbol{pix: pix}, nil
}

// Ready reports whether the symbol has a backing pixel buffer.
func (s *RenderedSymbol) Ready() bool {
	return s != nil && s.pix != nil
}

// Side returns the side length in pixels, or 0 when the symbol is not ready.
func (s *RenderedSymbol) Side() int {
	if !s.Ready() {
		return 0
	}
	return s.pix.Bounds().Dx()
}

// Image returns a copy of the symbol's pixels.
func (s *RenderedSymbol) Image() *image.RGBA {
	if !s.Ready() {
		return nil
	}
	return cloneRGBA(s.pix)
}

// red returns the red channel of the pixel at (x, y).
func (s *RenderedSymbol) red(x, y int) uint8 {
	return s.pix.Pix[s.pix.PixOffset(x, y)]
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := &image.RGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	return dst
}
