package studio

import (
	"context"
	"errors"
	"strings"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// SaveTemplate stores custom under name.
func (s *Service) SaveTemplate(ctx context.Context, name string, custom Customization) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		logger.CtxWarn(ctx, "Template name cannot be empty", logger.LoggerInfo{
			ContextFunction: constant.CtxSaveTemplate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeTemplateStore,
				Message: constant.ErrTemplateName,
				Type:    constant.ErrTypeValidation,
			},
		})
		return nil, ErrTemplateName
	}

	custom = custom.Normalize(s.opts)
	if _, err := custom.Style(); err != nil {
		return nil, err
	}

	tpl := &Template{
		ID:            s.newID(),
		Name:          name,
		Customization: custom,
		CreatedAt:     s.now(),
	}
	if err := s.repo.SaveTemplate(ctx, tpl); err != nil {
		logger.CtxError(ctx, "Failed to save template", logger.LoggerInfo{
			ContextFunction: constant.CtxSaveTemplate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeTemplateStore,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataName: name,
			},
		})
		return nil, err
	}

	logger.CtxInfo(ctx, "Template saved", logger.LoggerInfo{
		ContextFunction: constant.CtxSaveTemplate,
		Data: map[string]interface{}{
			constant.DataTemplateID: tpl.ID,
			constant.DataName:       name,
		},
	})
	return tpl, nil
}

// Templates lists saved templates oldest first.
func (s *Service) Templates(ctx context.Context) ([]Template, error) {
	tpls, err := s.repo.ListTemplates(ctx)
	if err != nil {
		logger.CtxError(ctx, "Failed to list templates", logger.LoggerInfo{
			ContextFunction: constant.CtxListTemplates,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeTemplateStore,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
		})
		return nil, err
	}
	return tpls, nil
}

// Template returns one saved template.
func (s *Service) Template(ctx context.Context, id string) (*Template, error) {
	tpl, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		s.logTemplateMiss(ctx, constant.CtxGetTemplate, id, err)
		return nil, err
	}
	return tpl, nil
}

// DeleteTemplate removes a saved template.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		s.logTemplateMiss(ctx, constant.CtxDelTemplate, id, err)
		return err
	}

	logger.CtxInfo(ctx, "Template deleted", logger.LoggerInfo{
		ContextFunction: constant.CtxDelTemplate,
		Data: map[string]interface{}{
			constant.DataTemplateID: id,
		},
	})
	return nil
}

func (s *Service) logTemplateMiss(ctx context.Context, fn, id string, err error) {
	code := constant.ErrCodeTemplateStore
	if errors.Is(err, ErrTemplateNotFound) {
		code = constant.ErrCodeTemplateMissing
	}
	logger.CtxWarn(ctx, "Template lookup failed", logger.LoggerInfo{
		ContextFunction: fn,
		Error: &logger.CustomError{
			Code:    code,
			Message: err.Error(),
			Type:    constant.ErrTypeRetrieval,
		},
		Data: map[string]interface{}{
			constant.DataTemplateID: id,
		},
	})
}
