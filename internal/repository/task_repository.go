package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"recon-tracker/internal/model"
)

// TaskFilter narrows task listings. Zero values mean "any".
type TaskFilter struct {
	Status    string
	Frequency string
	Priority  string
	MemberID  *uint
}

// TaskRepository handles persistence for reconciliation tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Assignee").First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Preload("Assignee")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Frequency != "" {
		q = q.Where("frequency = ?", filter.Frequency)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.MemberID != nil {
		q = q.Where("assigned_to = ?", *filter.MemberID)
	}
	var tasks []model.Task
	if err := q.Order("due_date").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, id).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ListDueForReset returns completed tasks whose next cycle has arrived.
func (r *TaskRepository) ListDueForReset(ctx context.Context, today time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("status = ? AND next_due IS NOT NULL AND next_due <= ?", model.StatusCompleted, today).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListOverdueCandidates returns open tasks that have a due date and no
// overdue notification for the current cycle. Whether they are actually
// overdue is decided by the evaluator with the current instant.
func (r *TaskRepository) ListOverdueCandidates(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("status <> ? AND due_date IS NOT NULL AND overdue_notified = ?", model.StatusCompleted, false).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListOpenDueOnOrBefore returns non-completed tasks due today or earlier,
// the working set for dashboard overdue/due-today partitioning.
func (r *TaskRepository) ListOpenDueOnOrBefore(ctx context.Context, today time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Assignee").
		Where("status <> ? AND due_date IS NOT NULL AND due_date <= ?", model.StatusCompleted, today).
		Order("due_date").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func resetUpdates(dueDate, nextDue time.Time) map[string]interface{} {
	return map[string]interface{}{
		"status":           model.StatusPending,
		"due_date":         dueDate,
		"next_due":         nextDue,
		"items_reconciled": 0,
		"exceptions_found": 0,
		"completion_notes": "",
		"completed_by":     "",
		"overdue_notified": false,
	}
}

// ResetIfCompleted moves a task into its next cycle only if it is still
// Completed. The status guard makes concurrent sweeps idempotent: the
// second one matches zero rows.
func (r *TaskRepository) ResetIfCompleted(ctx context.Context, id uint, dueDate, nextDue time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND status = ?", id, model.StatusCompleted).
		Updates(resetUpdates(dueDate, nextDue))
	if res.Error != nil {
		return false, fmt.Errorf("reset task %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ResetFields applies the same per-cycle field clearing without the status
// guard; used by the admin-driven manual reset.
func (r *TaskRepository) ResetFields(ctx context.Context, id uint, dueDate, nextDue time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Updates(resetUpdates(dueDate, nextDue))
	if res.Error != nil {
		return fmt.Errorf("manual reset task %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Complete persists the completed task together with its history entry in
// one transaction, so a failure leaves neither half behind.
func (r *TaskRepository) Complete(ctx context.Context, task *model.Task, entry *model.CompletionHistoryEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return fmt.Errorf("complete task %d: %w", task.ID, err)
	}
	return nil
}

// MarkOverdueNotified flags the current cycle as notified.
func (r *TaskRepository) MarkOverdueNotified(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Update("overdue_notified", true).Error; err != nil {
		return fmt.Errorf("mark overdue notified %d: %w", id, err)
	}
	return nil
}

// UnassignMember clears the assignee from every task pointing at the member.
func (r *TaskRepository) UnassignMember(ctx context.Context, memberID uint) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("assigned_to = ?", memberID).
		Update("assigned_to", nil).Error; err != nil {
		return fmt.Errorf("unassign member %d: %w", memberID, err)
	}
	return nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Count(&n).Error
	return n, err
}

func (r *TaskRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *TaskRepository) CountByFrequency(ctx context.Context, frequency string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("frequency = ?", frequency).Count(&n).Error
	return n, err
}

// ActiveCountForMember counts a member's Pending and In Progress tasks.
func (r *TaskRepository) ActiveCountForMember(ctx context.Context, memberID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("assigned_to = ? AND status IN ?", memberID, []string{model.StatusPending, model.StatusInProgress}).
		Count(&n).Error
	return n, err
}
