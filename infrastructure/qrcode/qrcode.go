package qrcode

import (
	"context"
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/studio"
	"github.com/prasetyowira/qrstudio/domain/stylepipe"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// Generator renders plain QR symbols in the background.
type Generator struct {
	border bool
}

// NewGenerator creates a generator. With border set, symbols keep the
// standard four-module quiet zone.
func NewGenerator(border bool) *Generator {
	return &Generator{border: border}
}

// Render draws req on a separate goroutine. The returned channel receives
// one result and is closed.
func (g *Generator) Render(ctx context.Context, req studio.RenderRequest) <-chan studio.RenderResult {
	out := make(chan studio.RenderResult, 1)

	go func() {
		defer close(out)

		if err := ctx.Err(); err != nil {
			out <- studio.RenderResult{Err: err}
			return
		}

		sym, err := g.render(req)
		if err != nil {
			logger.CtxWarn(ctx, "QR symbol render failed", logger.LoggerInfo{
				ContextFunction: constant.CtxRender,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeRenderFailure,
					Message: err.Error(),
					Type:    constant.ErrTypeRender,
				},
				Data: map[string]interface{}{
					constant.DataSize:       req.Size,
					constant.DataErrorLevel: string(req.Level),
				},
			})
		}
		out <- studio.RenderResult{Symbol: sym, Err: err}
	}()

	return out
}

func (g *Generator) render(req studio.RenderRequest) (*stylepipe.RenderedSymbol, error) {
	if req.Size <= 0 {
		return nil, fmt.Errorf("invalid size %d", req.Size)
	}

	q, err := qrcode.New(req.Content, recoveryLevel(req.Level))
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	q.ForegroundColor = req.Foreground
	q.BackgroundColor = req.Background
	q.DisableBorder = !g.border

	return stylepipe.NewRenderedSymbol(q.Image(req.Size))
}

func recoveryLevel(l studio.ErrorLevel) qrcode.RecoveryLevel {
	switch l {
	case studio.LevelLow:
		return qrcode.Low
	case studio.LevelMedium:
		return qrcode.Medium
	case studio.LevelQuartile:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}
