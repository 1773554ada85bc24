package stylepipe

import (
	"context"
	"errors"
	"image"
	"iter"
	"sync/atomic"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// State is a pipeline stage.
type State int32

const (
	StateIdle State = iota
	StateExtracting
	StateCompositing
	StateOverlayingLogo
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StateCompositing:
		return "compositing"
	case StateOverlayingLogo:
		return "overlaying_logo"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pipeline runs extract, composite and overlay once for a single
// generation request. Create a fresh Pipeline per request.
type Pipeline struct {
	state atomic.Int32
	used  atomic.Bool
}

// New returns an idle pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// State returns the current stage.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Run styles sym and, when logo is non-nil, overlays the logo.
//
// Each stage starts only after the previous one finished. A logo failure
// leaves the run Failed but still returns the style-composited surface
// together with the error.
func (p *Pipeline) Run(ctx context.Context, sym *RenderedSymbol, style StyleSpec, logo *LogoSpec) (*image.RGBA, error) {
	if !p.used.CompareAndSwap(false, true) {
		return nil, ErrPipelineUsed
	}

	logger.CtxDebug(ctx, "Starting style pipeline", logger.LoggerInfo{
		ContextFunction: constant.CtxPipeline,
		Data: map[string]interface{}{
			constant.DataSide:     sym.Side(),
			constant.DataStyle:    string(style.Kind),
			constant.DataGradient: style.GradientEnabled,
		},
	})

	p.enter(StateExtracting)
	if !sym.Ready() {
		return nil, p.fail(ctx, constant.CtxExtractGrid, ErrSourceNotReady)
	}

	var cells iter.Seq[ModuleCell]
	if !style.Passthrough() {
		grid, err := ExtractGrid(sym)
		if err != nil {
			return nil, p.fail(ctx, constant.CtxExtractGrid, err)
		}
		cells = grid.Modules()

		logger.CtxDebug(ctx, "Module grid extracted", logger.LoggerInfo{
			ContextFunction: constant.CtxExtractGrid,
			Data: map[string]interface{}{
				constant.DataCellSize: grid.CellSize(),
			},
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(ctx, constant.CtxExtractGrid, err)
	}

	p.enter(StateCompositing)
	surface, err := Composite(sym, cells, style)
	if err != nil {
		return nil, p.fail(ctx, constant.CtxComposite, err)
	}

	if logo == nil {
		p.enter(StateDone)
		return surface, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(ctx, constant.CtxComposite, err)
	}

	p.enter(StateOverlayingLogo)
	if err := OverlayLogo(ctx, surface, *logo, style.Background); err != nil {
		err = p.fail(ctx, constant.CtxOverlayLogo, err)
		if errors.Is(err, ErrLogoDecode) {
			return surface, err
		}
		return nil, err
	}

	p.enter(StateDone)
	logger.CtxDebug(ctx, "Style pipeline finished", logger.LoggerInfo{
		ContextFunction: constant.CtxPipeline,
		Data: map[string]interface{}{
			constant.DataState: p.State().String(),
		},
	})
	return surface, nil
}

func (p *Pipeline) enter(s State) {
	p.state.Store(int32(s))
}

func (p *Pipeline) fail(ctx context.Context, fn string, err error) error {
	from := p.State()
	p.enter(StateFailed)

	logger.CtxWarn(ctx, "Style pipeline failed", logger.LoggerInfo{
		ContextFunction: fn,
		Error: &logger.CustomError{
			Code:    errorCode(err),
			Message: err.Error(),
			Type:    constant.ErrTypePipeline,
		},
		Data: map[string]interface{}{
			constant.DataState: from.String(),
		},
	})
	return err
}
