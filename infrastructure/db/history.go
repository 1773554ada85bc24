package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/payload"
	"github.com/prasetyowira/qrstudio/domain/studio"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// AddHistory inserts entry, dropping any older entry with the same kind
// and data, then trims the table to the newest limit rows.
func (r *SQLiteRepository) AddHistory(ctx context.Context, entry *studio.HistoryEntry, limit int) error {
	model := HistoryModel{
		ID:            entry.ID,
		Kind:          string(entry.Kind),
		Data:          entry.Data,
		Display:       entry.Display,
		Preview:       entry.Preview,
		Customization: entry.Customization,
		CreatedAt:     entry.CreatedAt,
	}

	var trimmed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM history_entries WHERE kind = ? AND data = ?`, model.Kind, model.Data).Error; err != nil {
			return err
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if limit <= 0 {
			return nil
		}

		res := tx.Exec(`DELETE FROM history_entries WHERE id NOT IN (
			SELECT id FROM history_entries ORDER BY created_at DESC, rowid DESC LIMIT ?)`, limit)
		trimmed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to insert history entry", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAddHistory,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBHistoryInsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataHistoryID: entry.ID,
				constant.DataKind:      model.Kind,
			},
		})
		return err
	}

	appLogger.CtxDebug(ctx, "History entry stored", appLogger.LoggerInfo{
		ContextFunction: constant.CtxAddHistory,
		Data: map[string]interface{}{
			constant.DataHistoryID:    entry.ID,
			constant.DataLimit:        limit,
			constant.DataRowsAffected: trimmed,
		},
	})
	return nil
}

// ListHistory returns every entry newest first
func (r *SQLiteRepository) ListHistory(ctx context.Context) ([]studio.HistoryEntry, error) {
	var models []HistoryModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, rowid DESC").Find(&models).Error; err != nil {
		appLogger.CtxError(ctx, "Failed to list history", appLogger.LoggerInfo{
			ContextFunction: constant.CtxListHistory,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBHistoryLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	entries := make([]studio.HistoryEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, m.toEntry())
	}
	return entries, nil
}

// GetHistory returns a single entry, or studio.ErrHistoryNotFound
func (r *SQLiteRepository) GetHistory(ctx context.Context, id string) (*studio.HistoryEntry, error) {
	var model HistoryModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		appLogger.CtxInfo(ctx, "History entry not found", appLogger.LoggerInfo{
			ContextFunction: constant.CtxGetHistory,
			Data: map[string]interface{}{
				constant.DataHistoryID: id,
			},
		})
		return nil, studio.ErrHistoryNotFound
	}
	if err != nil {
		appLogger.CtxError(ctx, "Database error while looking up history entry", appLogger.LoggerInfo{
			ContextFunction: constant.CtxGetHistory,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBHistoryLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataHistoryID: id,
			},
		})
		return nil, err
	}

	entry := model.toEntry()
	return &entry, nil
}

// ClearHistory deletes every entry
func (r *SQLiteRepository) ClearHistory(ctx context.Context) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM history_entries`)
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to clear history", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClearHistory,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBHistoryClear,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return result.Error
	}

	appLogger.CtxInfo(ctx, "History table cleared", appLogger.LoggerInfo{
		ContextFunction: constant.CtxClearHistory,
		Data: map[string]interface{}{
			constant.DataRowsAffected: result.RowsAffected,
		},
	})
	return nil
}

func (m HistoryModel) toEntry() studio.HistoryEntry {
	return studio.HistoryEntry{
		ID:            m.ID,
		Kind:          payload.Kind(m.Kind),
		Data:          m.Data,
		Display:       m.Display,
		Preview:       m.Preview,
		Customization: m.Customization,
		CreatedAt:     m.CreatedAt,
	}
}
