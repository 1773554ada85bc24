package stylepipe

import (
	"fmt"
	"image"
	"iter"

	"github.com/fogleman/gg"
)

const (
	roundedRadiusRatio = 0.3
	thickBorderWidth   = 2
)

// Composite repaints cells onto a fresh surface the size of sym.
//
// A passthrough style returns a pixel-identical copy of sym and ignores
// cells. With a gradient, the background and the modules share the same
// top-left to bottom-right gradient.
func Composite(sym *RenderedSymbol, cells iter.Seq[ModuleCell], style StyleSpec) (*image.RGBA, error) {
	if !sym.Ready() {
		return nil, ErrSourceNotReady
	}
	if style.Passthrough() {
		return sym.Image(), nil
	}

	side := sym.Side()
	if side < ApproxModuleCount {
		return nil, fmt.Errorf("%w: side %dpx is below %dpx", ErrInvalidDimension, side, ApproxModuleCount)
	}

	dc := gg.NewContext(side, side)

	var moduleFill gg.Pattern
	if style.GradientEnabled {
		grad := gg.NewLinearGradient(0, 0, float64(side), float64(side))
		grad.AddColorStop(0, style.Foreground)
		grad.AddColorStop(1, style.GradientTo)
		dc.SetFillStyle(grad)
		moduleFill = grad
	} else {
		dc.SetFillStyle(gg.NewSolidPattern(style.Background))
		moduleFill = gg.NewSolidPattern(style.Foreground)
	}
	dc.DrawRectangle(0, 0, float64(side), float64(side))
	dc.Fill()

	dc.SetFillStyle(moduleFill)
	dc.SetStrokeStyle(gg.NewSolidPattern(style.Background))
	dc.SetLineWidth(thickBorderWidth)

	if cells != nil {
		for c := range cells {
			if c.Size <= 0 {
				return nil, fmt.Errorf("%w: module size %d", ErrInvalidDimension, c.Size)
			}
			paintModule(dc, style.Kind, c)
		}
	}

	return surfaceOf(dc), nil
}

func paintModule(dc *gg.Context, kind StyleKind, c ModuleCell) {
	x, y, s := float64(c.X), float64(c.Y), float64(c.Size)

	switch kind {
	case StyleRounded:
		dc.DrawRoundedRectangle(x, y, s, s, s*roundedRadiusRatio)
		dc.Fill()
	case StyleDots:
		dc.DrawCircle(x+s/2, y+s/2, s/2)
		dc.Fill()
	case StyleThickBorder:
		dc.DrawRectangle(x, y, s, s)
		dc.Fill()
		// seam between neighbouring modules; must be the last op per cell
		dc.DrawRectangle(x, y, s, s)
		dc.Stroke()
	default:
		dc.DrawRectangle(x, y, s, s)
		dc.Fill()
	}
}

func surfaceOf(dc *gg.Context) *image.RGBA {
	if rgba, ok := dc.Image().(*image.RGBA); ok {
		return rgba
	}
	img := dc.Image()
	out := image.NewRGBA(img.Bounds())
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
