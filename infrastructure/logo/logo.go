// Package logo decodes uploaded logo images off the request goroutine.
package logo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/stylepipe"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// ErrTooLarge is returned for logos over the byte or dimension limit.
var ErrTooLarge = errors.New("logo exceeds size limit")

// Decoder decodes PNG, JPEG, GIF, BMP and WebP logos.
type Decoder struct {
	maxBytes int
	maxSide  int
}

// NewDecoder creates a decoder rejecting inputs larger than maxBytes, or
// whose header declares a width or height above maxSide. A limit of zero
// or less is disabled.
func NewDecoder(maxBytes, maxSide int) *Decoder {
	return &Decoder{maxBytes: maxBytes, maxSide: maxSide}
}

// Decode starts decoding data. The returned channel receives one result
// and is closed.
func (d *Decoder) Decode(ctx context.Context, data []byte) <-chan stylepipe.DecodedImage {
	out := make(chan stylepipe.DecodedImage, 1)

	go func() {
		defer close(out)

		img, format, err := d.decode(ctx, data)
		if err != nil {
			logger.CtxWarn(ctx, "Logo decode failed", logger.LoggerInfo{
				ContextFunction: constant.CtxDecodeLogo,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeLogoDecode,
					Message: err.Error(),
					Type:    constant.ErrTypePipeline,
				},
				Data: map[string]interface{}{
					constant.DataBytes: len(data),
				},
			})
			out <- stylepipe.DecodedImage{Err: err}
			return
		}

		logger.CtxDebug(ctx, "Logo decoded", logger.LoggerInfo{
			ContextFunction: constant.CtxDecodeLogo,
			Data: map[string]interface{}{
				constant.DataFormat: format,
				constant.DataBytes:  len(data),
			},
		})
		out <- stylepipe.DecodedImage{Image: img}
	}()

	return out
}

func (d *Decoder) decode(ctx context.Context, data []byte) (image.Image, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty logo")
	}
	if d.maxBytes > 0 && len(data) > d.maxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, len(data), d.maxBytes)
	}

	// the header is checked before any pixel buffer is allocated
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if d.maxSide > 0 && (cfg.Width > d.maxSide || cfg.Height > d.maxSide) {
		return nil, "", fmt.Errorf("%w: %dx%d, limit is %dx%d", ErrTooLarge, cfg.Width, cfg.Height, d.maxSide, d.maxSide)
	}

	return image.Decode(bytes.NewReader(data))
}
