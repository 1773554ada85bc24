package stylepipe

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedDecode(err error) <-chan DecodedImage {
	ch := make(chan DecodedImage, 1)
	ch <- DecodedImage{Err: err}
	close(ch)
	return ch
}

func TestOverlayLogo_DrawsPatchAndLogo(t *testing.T) {
	// Arrange
	red := color.RGBA{R: 255, A: 255}
	surface := solidImage(264, 264, black)
	logo := LogoSpec{
		Image:        Decoded(solidImage(10, 10, red)),
		SizeRatio:    0.2,
		Padding:      DefaultLogoPadding,
		CornerRadius: DefaultLogoCornerRadius,
	}

	// Act
	err := OverlayLogo(context.Background(), surface, logo, white)

	// Assert
	require.NoError(t, err)
	// logoSide = 52, offset = 106, patch spans [98, 166)
	assertNear(t, red, rgbaAt(surface, 132, 132), "logo centre")
	assertNear(t, red, rgbaAt(surface, 107, 107), "logo corner")
	assert.Equal(t, white, rgbaAt(surface, 100, 132), "padding ring")
	assert.Equal(t, white, rgbaAt(surface, 132, 164), "padding ring")
	assert.Equal(t, black, rgbaAt(surface, 50, 50), "outside the patch")
	assert.Equal(t, black, rgbaAt(surface, 96, 132), "left of the patch")
}

func TestOverlayLogo_AtomicOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		pending <-chan DecodedImage
	}{
		{name: "decode error", pending: failedDecode(errors.New("corrupt"))},
		{name: "nil source", pending: nil},
		{name: "empty image", pending: Decoded(image.NewRGBA(image.Rectangle{}))},
		{name: "closed without result", pending: func() <-chan DecodedImage {
			ch := make(chan DecodedImage)
			close(ch)
			return ch
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			surface := paintedImage(264, 8, checker)
			before := cloneRGBA(surface)

			// Act
			err := OverlayLogo(context.Background(), surface, LogoSpec{
				Image:        tt.pending,
				SizeRatio:    0.2,
				Padding:      DefaultLogoPadding,
				CornerRadius: DefaultLogoCornerRadius,
			}, white)

			// Assert
			assert.ErrorIs(t, err, ErrLogoDecode)
			assert.Equal(t, before.Pix, surface.Pix)
		})
	}
}

func TestOverlayLogo_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	surface := solidImage(264, 264, black)
	before := cloneRGBA(surface)

	err := OverlayLogo(ctx, surface, LogoSpec{
		Image:     make(chan DecodedImage),
		SizeRatio: 0.2,
	}, white)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before.Pix, surface.Pix)
}

func TestOverlayLogo_InvalidRatio(t *testing.T) {
	surface := solidImage(264, 264, black)

	for _, ratio := range []float64{0, -0.1, 1.5} {
		err := OverlayLogo(context.Background(), surface, LogoSpec{
			Image:     Decoded(solidImage(4, 4, white)),
			SizeRatio: ratio,
		}, white)
		assert.ErrorIs(t, err, ErrInvalidDimension, "ratio %v", ratio)
	}
}

func TestOverlayLogo_NilSurface(t *testing.T) {
	err := OverlayLogo(context.Background(), nil, LogoSpec{SizeRatio: 0.2}, white)
	assert.ErrorIs(t, err, ErrSourceNotReady)
}
