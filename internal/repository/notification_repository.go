package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"recon-tracker/internal/model"
)

// NotificationRepository handles persistence for notification records.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// RaiseIfAbsent inserts rec only when the task has no unread danger-severity
// record yet. The existence check is part of the insert statement itself, so
// two concurrent sweeps cannot both raise; the loser matches zero rows.
// Returns true when the record was inserted, and fills in its ID.
func (r *NotificationRepository) RaiseIfAbsent(ctx context.Context, rec *model.NotificationRecord) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO notification_records (task_id, severity, message, audience, member_id, "read", created_at)
		SELECT ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM notification_records
			WHERE task_id = ? AND severity = ? AND "read" = ?
		)`,
		rec.TaskID, rec.Severity, rec.Message, rec.Audience, rec.MemberID, false, rec.CreatedAt,
		rec.TaskID, model.SeverityDanger, false,
	)
	if res.Error != nil {
		return false, fmt.Errorf("raise notification for task %d: %w", rec.TaskID, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	var inserted model.NotificationRecord
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND audience = ? AND \"read\" = ?", rec.TaskID, rec.Audience, false).
		Order("id DESC").First(&inserted).Error; err == nil {
		rec.ID = inserted.ID
	}
	return true, nil
}

func (r *NotificationRepository) Create(ctx context.Context, rec *model.NotificationRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uint) (*model.NotificationRecord, error) {
	var rec model.NotificationRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListFeed returns records for one audience, unread first, newest first.
// memberID narrows the assignee feed to one member; nil means no narrowing.
func (r *NotificationRepository) ListFeed(ctx context.Context, audience string, memberID *uint) ([]model.NotificationRecord, error) {
	q := r.db.WithContext(ctx).Where("audience = ?", audience)
	if memberID != nil {
		q = q.Where("member_id = ?", *memberID)
	}
	var recs []model.NotificationRecord
	if err := q.Order("\"read\", created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// UnreadDangerExists reports whether the task currently has an open danger
// record.
func (r *NotificationRepository) UnreadDangerExists(ctx context.Context, taskID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.NotificationRecord{}).
		Where("task_id = ? AND severity = ? AND \"read\" = ?", taskID, model.SeverityDanger, false).
		Count(&n).Error
	return n > 0, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.NotificationRecord{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("mark notification %d read: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead flips every unread record in one audience feed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, audience string, memberID *uint) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.NotificationRecord{}).
		Where("audience = ? AND \"read\" = ?", audience, false)
	if memberID != nil {
		q = q.Where("member_id = ?", *memberID)
	}
	res := q.Update("read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Dismiss permanently removes a record.
func (r *NotificationRepository) Dismiss(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.NotificationRecord{}, id).Error; err != nil {
		return fmt.Errorf("dismiss notification %d: %w", id, err)
	}
	return nil
}
