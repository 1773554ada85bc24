package stylepipe

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// Fixed occlusion patch geometry, in pixels regardless of symbol size.
const (
	DefaultLogoPadding      = 8
	DefaultLogoCornerRadius = 10
)

// DecodedImage is the completion signal of an asynchronous image decode.
type DecodedImage struct {
	Image image.Image
	Err   error
}

// LogoSpec describes a logo to composite at the centre of a surface.
// Image delivers the decoded bitmap once its decode completes.
type LogoSpec struct {
	Image        <-chan DecodedImage
	SizeRatio    float64
	Padding      int
	CornerRadius int
}

// Decoded wraps an already decoded image as a completed decode.
func Decoded(img image.Image) <-chan DecodedImage {
	ch := make(chan DecodedImage, 1)
	ch <- DecodedImage{Image: img}
	close(ch)
	return ch
}

// OverlayLogo waits for the logo decode, then paints the occlusion patch and
// the scaled logo onto surface. Either both are drawn or surface is left
// untouched.
func OverlayLogo(ctx context.Context, surface *image.RGBA, logo LogoSpec, background color.RGBA) error {
	if surface == nil {
		return ErrSourceNotReady
	}
	if logo.SizeRatio <= 0 || logo.SizeRatio > 1 {
		return fmt.Errorf("%w: logo size ratio %v outside (0, 1]", ErrInvalidDimension, logo.SizeRatio)
	}

	img, err := awaitLogo(ctx, logo.Image)
	if err != nil {
		return err
	}

	side := surface.Bounds().Dx()
	logoSide := int(math.Floor(float64(side) * logo.SizeRatio))
	if logoSide <= 0 {
		return fmt.Errorf("%w: logo side is zero for a %dpx surface", ErrInvalidDimension, side)
	}
	offset := (side - logoSide) / 2
	pad := logo.Padding

	scratch := cloneRGBA(surface)
	dc := gg.NewContextForRGBA(scratch)
	dc.SetFillStyle(gg.NewSolidPattern(background))
	occlusionPatch(dc,
		float64(offset-pad), float64(offset-pad),
		float64(logoSide+2*pad), float64(logoSide+2*pad),
		float64(logo.CornerRadius),
	)
	dc.Fill()

	scaled := image.NewRGBA(image.Rect(0, 0, logoSide, logoSide))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	dc.DrawImage(scaled, offset, offset)

	copy(surface.Pix, scratch.Pix)
	return nil
}

func awaitLogo(ctx context.Context, pending <-chan DecodedImage) (image.Image, error) {
	if pending == nil {
		return nil, fmt.Errorf("%w: no logo source", ErrLogoDecode)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res, ok := <-pending:
		switch {
		case !ok:
			return nil, fmt.Errorf("%w: decode ended without a result", ErrLogoDecode)
		case res.Err != nil:
			return nil, fmt.Errorf("%w: %v", ErrLogoDecode, res.Err)
		case res.Image == nil || res.Image.Bounds().Empty():
			return nil, fmt.Errorf("%w: empty image", ErrLogoDecode)
		}
		return res.Image, nil
	}
}

// occlusionPatch traces a rounded rectangle with quadratic corners.
func occlusionPatch(dc *gg.Context, x, y, w, h, r float64) {
	dc.NewSubPath()
	dc.MoveTo(x+r, y)
	dc.LineTo(x+w-r, y)
	dc.QuadraticTo(x+w, y, x+w, y+r)
	dc.LineTo(x+w, y+h-r)
	dc.QuadraticTo(x+w, y+h, x+w-r, y+h)
	dc.LineTo(x+r, y+h)
	dc.QuadraticTo(x, y+h, x, y+h-r)
	dc.LineTo(x, y+r)
	dc.QuadraticTo(x, y, x+r, y)
	dc.ClosePath()
}
