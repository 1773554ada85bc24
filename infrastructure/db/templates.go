package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/studio"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// SaveTemplate inserts tpl
func (r *SQLiteRepository) SaveTemplate(ctx context.Context, tpl *studio.Template) error {
	model := TemplateModel{
		ID:            tpl.ID,
		Name:          tpl.Name,
		Customization: tpl.Customization,
		CreatedAt:     tpl.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		appLogger.CtxError(ctx, "Failed to insert template", appLogger.LoggerInfo{
			ContextFunction: constant.CtxSaveTemplate,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBTemplateInsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataTemplateID: tpl.ID,
				constant.DataName:       tpl.Name,
			},
		})
		return err
	}
	return nil
}

// ListTemplates returns every template oldest first
func (r *SQLiteRepository) ListTemplates(ctx context.Context) ([]studio.Template, error) {
	var models []TemplateModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, rowid ASC").Find(&models).Error; err != nil {
		appLogger.CtxError(ctx, "Failed to list templates", appLogger.LoggerInfo{
			ContextFunction: constant.CtxListTemplates,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBTemplateLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	tpls := make([]studio.Template, 0, len(models))
	for _, m := range models {
		tpls = append(tpls, m.toTemplate())
	}
	return tpls, nil
}

// GetTemplate returns one template, or studio.ErrTemplateNotFound
func (r *SQLiteRepository) GetTemplate(ctx context.Context, id string) (*studio.Template, error) {
	var model TemplateModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, studio.ErrTemplateNotFound
	}
	if err != nil {
		appLogger.CtxError(ctx, "Database error while looking up template", appLogger.LoggerInfo{
			ContextFunction: constant.CtxGetTemplate,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBTemplateLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataTemplateID: id,
			},
		})
		return nil, err
	}

	tpl := model.toTemplate()
	return &tpl, nil
}

// DeleteTemplate removes one template, or returns studio.ErrTemplateNotFound
func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM templates WHERE id = ?`, id)
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to delete template", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDelTemplate,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBTemplateDelete,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataTemplateID: id,
			},
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return studio.ErrTemplateNotFound
	}
	return nil
}

func (m TemplateModel) toTemplate() studio.Template {
	return studio.Template{
		ID:            m.ID,
		Name:          m.Name,
		Customization: m.Customization,
		CreatedAt:     m.CreatedAt,
	}
}
