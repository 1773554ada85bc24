package studio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/payload"
	"github.com/prasetyowira/qrstudio/domain/stylepipe"
	"github.com/prasetyowira/qrstudio/infrastructure/export"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// Generate renders req, runs it through the style pipeline, publishes the
// surface as current and records it in the history.
//
// A call superseded by a newer Generate before it publishes returns
// ErrStaleRequest and leaves the current surface alone.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	logger.CtxDebug(ctx, "Generating QR code", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataKind:  string(req.Kind),
			constant.DataBytes: len(req.Logo),
		},
	})

	p, err := s.resolvePayload(ctx, req)
	if err != nil {
		return nil, err
	}

	custom := req.Customization.Normalize(s.opts)
	style, err := custom.Style()
	if err != nil {
		logger.CtxWarn(ctx, "Invalid colour in customization", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidColor,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
		})
		return nil, err
	}

	runCtx, token, done := s.begin(ctx)
	defer done()

	key := cacheKey(p, custom, req.Logo)
	r, hit := s.cache.Get(constant.RenderNamespace, key)
	if !hit {
		r, err = s.render(runCtx, p, custom, style, req.Logo)
		if err != nil {
			if s.stale(token) {
				return nil, s.discard(ctx, token)
			}
			return nil, err
		}
		// a cancelled run or a dropped logo must not answer later requests
		if runCtx.Err() == nil && !r.LogoFailed {
			s.cache.Set(constant.RenderNamespace, key, r)
		}
	}

	snap := &Snapshot{
		Token:         token,
		Payload:       p,
		Customization: custom,
		Surface:       r.Surface,
		PNG:           r.PNG,
		PublishedAt:   s.now(),
	}
	if !s.publish(token, snap) {
		return nil, s.discard(ctx, token)
	}

	result := &Result{
		Token:         token,
		Payload:       p,
		Customization: custom,
		PNG:           r.PNG,
		Surface:       r.Surface,
		Scannable:     r.Scannable,
		Cached:        hit,
		LogoFailed:    r.LogoFailed,
	}
	result.HistoryID = s.recordHistory(ctx, p, custom, r.PNG)

	logger.CtxInfo(ctx, "QR code generated", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataToken:     token,
			constant.DataKind:      string(p.Kind),
			constant.DataDisplay:   p.Display,
			constant.DataStyle:     custom.Pattern,
			constant.DataSize:      custom.Size,
			constant.DataCacheHit:  hit,
			constant.DataScannable: r.Scannable,
			constant.DataElapsed:   time.Since(start).String(),
		},
	})

	return result, nil
}

func (s *Service) resolvePayload(ctx context.Context, req Request) (payload.Payload, error) {
	if req.Data != "" {
		return payload.Restore(ctx, req.Kind, req.Data)
	}
	return payload.Build(ctx, req.Kind, req.Input)
}

func (s *Service) discard(ctx context.Context, token uint64) error {
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()

	logger.CtxInfo(ctx, "Discarding superseded generation", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Error: &logger.CustomError{
			Code:    constant.ErrCodeStaleRequest,
			Message: constant.ErrStaleRequest,
			Type:    constant.ErrTypeRender,
		},
		Data: map[string]interface{}{
			constant.DataToken:  token,
			constant.DataLatest: latest,
		},
	})
	return ErrStaleRequest
}

// render starts the symbol render and the logo decode together, then
// styles, verifies and encodes the result.
func (s *Service) render(ctx context.Context, p payload.Payload, custom Customization, style stylepipe.StyleSpec, logo []byte) (*Rendering, error) {
	pending := s.source.Render(ctx, RenderRequest{
		Content:    p.Data,
		Size:       custom.Size,
		Level:      custom.ErrorLevel,
		Foreground: style.Foreground,
		Background: style.Background,
	})

	var logoSpec *stylepipe.LogoSpec
	if len(logo) > 0 {
		logoSpec = &stylepipe.LogoSpec{
			SizeRatio:    float64(custom.LogoSizePercent) / 100,
			Padding:      s.opts.LogoPadding,
			CornerRadius: s.opts.LogoCornerRadius,
		}
		if s.logos != nil {
			logoSpec.Image = s.logos.Decode(ctx, logo)
		}
	}

	var rendered RenderResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res, ok := <-pending:
		if !ok {
			res.Err = errors.New("render source closed without a result")
		}
		rendered = res
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rendered.Err != nil {
		logger.CtxError(ctx, "Failed to render QR symbol", logger.LoggerInfo{
			ContextFunction: constant.CtxRender,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeRenderFailure,
				Message: rendered.Err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataSize:       custom.Size,
				constant.DataErrorLevel: string(custom.ErrorLevel),
			},
		})
		return nil, fmt.Errorf("render symbol: %w", rendered.Err)
	}

	out := &Rendering{}
	surface, err := stylepipe.New().Run(ctx, rendered.Symbol, style, logoSpec)
	switch {
	case err == nil:
	case errors.Is(err, stylepipe.ErrLogoDecode) && surface != nil:
		out.LogoFailed = true
	default:
		return nil, err
	}
	out.Surface = surface
	out.Scannable = s.verify(ctx, surface, p.Data)

	var buf bytes.Buffer
	if err := export.PNG(&buf, surface); err != nil {
		logger.CtxError(ctx, "Failed to encode PNG", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEncodeFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
		})
		return nil, fmt.Errorf("encode png: %w", err)
	}
	out.PNG = buf.Bytes()

	return out, nil
}

// verify reports whether surface still decodes to want.
func (s *Service) verify(ctx context.Context, surface *image.RGBA, want string) bool {
	if s.verifier == nil {
		return false
	}

	decoded, err := s.verifier.Verify(surface)
	if err == nil && slices.Contains(decoded, want) {
		return true
	}

	msg := "decoded payload does not match"
	if err != nil {
		msg = err.Error()
	}
	logger.CtxWarn(ctx, "Styled QR code did not scan back", logger.LoggerInfo{
		ContextFunction: constant.CtxVerify,
		Error: &logger.CustomError{
			Code:    constant.ErrCodeNotScannable,
			Message: msg,
			Type:    constant.ErrTypeRender,
		},
		Data: map[string]interface{}{
			constant.DataModules: len(decoded),
		},
	})
	return false
}

func cacheKey(p payload.Payload, c Customization, logo []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%+v\x00", p.Kind, p.Data, c)
	h.Write(logo)
	return hex.EncodeToString(h.Sum(nil))
}
