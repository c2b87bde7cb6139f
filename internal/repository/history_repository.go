package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"recon-tracker/internal/model"
)

// HistoryRepository appends and reads completion history. Entries are
// immutable; there is deliberately no update or delete here.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry *model.CompletionHistoryEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListByTask(ctx context.Context, taskID uint) ([]model.CompletionHistoryEntry, error) {
	var entries []model.CompletionHistoryEntry
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("completed_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]model.CompletionHistoryEntry, error) {
	var entries []model.CompletionHistoryEntry
	if err := r.db.WithContext(ctx).
		Order("completed_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
