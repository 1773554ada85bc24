// Package scan reads QR symbols back out of finished images.
package scan

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/liyue201/goqr"
)

// quietZone is the margin added before decoding, since styled surfaces
// may be rendered without one.
const quietZone = 32

var ErrNoSymbol = errors.New("no QR symbol found")

// Verifier decodes QR symbols with goqr.
type Verifier struct {
	margin color.Color
}

// NewVerifier creates a verifier that pads images with a white margin.
func NewVerifier() *Verifier {
	return &Verifier{margin: color.White}
}

// Verify returns the payload of every symbol found in img.
func (v *Verifier) Verify(img image.Image) ([]string, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoSymbol
	}

	b := img.Bounds()
	padded := imaging.New(b.Dx()+2*quietZone, b.Dy()+2*quietZone, v.margin)
	padded = imaging.Paste(padded, img, image.Pt(quietZone, quietZone))

	codes, err := goqr.Recognize(padded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSymbol, err)
	}
	if len(codes) == 0 {
		return nil, ErrNoSymbol
	}

	payloads := make([]string, 0, len(codes))
	for _, c := range codes {
		payloads = append(payloads, string(c.Payload))
	}
	return payloads, nil
}
