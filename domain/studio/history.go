package studio

import (
	"context"
	"errors"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/payload"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// recordHistory stores a generation and returns its id, or "" when the
// store failed. A history failure never fails the generation.
func (s *Service) recordHistory(ctx context.Context, p payload.Payload, custom Customization, png []byte) string {
	entry := &HistoryEntry{
		ID:            s.newID(),
		Kind:          p.Kind,
		Data:          p.Data,
		Display:       p.Display,
		Preview:       png,
		Customization: custom,
		CreatedAt:     s.now(),
	}

	if err := s.repo.AddHistory(ctx, entry, s.opts.MaxHistory); err != nil {
		logger.CtxError(ctx, "Failed to record history entry", logger.LoggerInfo{
			ContextFunction: constant.CtxAddHistory,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistoryStore,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataKind: string(p.Kind),
			},
		})
		return ""
	}

	s.cache.Set(constant.PreviewNamespace, entry.ID, &Rendering{PNG: png})
	return entry.ID
}

// History lists past generations newest first.
func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	entries, err := s.repo.ListHistory(ctx)
	if err != nil {
		logger.CtxError(ctx, "Failed to list history", logger.LoggerInfo{
			ContextFunction: constant.CtxListHistory,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistoryStore,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
		})
		return nil, err
	}
	return entries, nil
}

// HistoryEntry returns a single past generation.
func (s *Service) HistoryEntry(ctx context.Context, id string) (*HistoryEntry, error) {
	entry, err := s.repo.GetHistory(ctx, id)
	if err != nil {
		code := constant.ErrCodeHistoryStore
		if errors.Is(err, ErrHistoryNotFound) {
			code = constant.ErrCodeHistoryNotFound
		}
		logger.CtxWarn(ctx, "Failed to get history entry", logger.LoggerInfo{
			ContextFunction: constant.CtxGetHistory,
			Error: &logger.CustomError{
				Code:    code,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataHistoryID: id,
			},
		})
		return nil, err
	}
	return entry, nil
}

// HistoryPreview returns the PNG recorded with a history entry.
func (s *Service) HistoryPreview(ctx context.Context, id string) ([]byte, error) {
	if r, ok := s.cache.Get(constant.PreviewNamespace, id); ok {
		return r.PNG, nil
	}

	entry, err := s.HistoryEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(constant.PreviewNamespace, id, &Rendering{PNG: entry.Preview})
	return entry.Preview, nil
}

// RestoreHistory regenerates a past entry with its saved customization.
func (s *Service) RestoreHistory(ctx context.Context, id string, logo []byte) (*Result, error) {
	entry, err := s.HistoryEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.CtxDebug(ctx, "Restoring history entry", logger.LoggerInfo{
		ContextFunction: constant.CtxRestore,
		Data: map[string]interface{}{
			constant.DataHistoryID: id,
			constant.DataKind:      string(entry.Kind),
		},
	})

	return s.Generate(ctx, Request{
		Kind:          entry.Kind,
		Data:          entry.Data,
		Customization: entry.Customization,
		Logo:          logo,
	})
}

// ClearHistory removes every history entry.
func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.repo.ClearHistory(ctx); err != nil {
		logger.CtxError(ctx, "Failed to clear history", logger.LoggerInfo{
			ContextFunction: constant.CtxClearHistory,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeHistoryStore,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
		})
		return err
	}

	s.cache.InvalidateNamespace(constant.PreviewNamespace)

	logger.CtxInfo(ctx, "History cleared", logger.LoggerInfo{
		ContextFunction: constant.CtxClearHistory,
	})
	return nil
}
