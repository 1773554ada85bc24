package stylepipe

import (
	"errors"

	"github.com/prasetyowira/qrstudio/constant"
)

var (
	// ErrInvalidDimension means the symbol is too small to derive a module grid.
	ErrInvalidDimension = errors.New(constant.ErrInvalidDimension)
	// ErrSourceNotReady means extraction was attempted before rendering completed.
	ErrSourceNotReady = errors.New(constant.ErrSourceNotReady)
	// ErrLogoDecode means the logo image failed to decode or load.
	ErrLogoDecode = errors.New(constant.ErrLogoDecode)
	// ErrPipelineUsed is returned by a second Run on the same Pipeline.
	ErrPipelineUsed = errors.New(constant.ErrPipelineUsed)
)

// errorCode maps a pipeline failure to its log code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDimension):
		return constant.ErrCodeInvalidDimension
	case errors.Is(err, ErrSourceNotReady):
		return constant.ErrCodeSourceNotReady
	case errors.Is(err, ErrLogoDecode):
		return constant.ErrCodeLogoDecode
	case errors.Is(err, ErrPipelineUsed):
		return constant.ErrCodePipelineUsed
	default:
		return constant.ErrCodeRenderFailure
	}
}
