package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/model"
	"recon-tracker/internal/recurrence"
	"recon-tracker/internal/repository"
)

// Actor carries the facts lifecycle decisions need about the caller.
type Actor struct {
	Name  string
	Admin bool
}

// CompletionInput is what a completer reports.
type CompletionInput struct {
	ItemsReconciled int
	ExceptionsFound int
	Notes           string
}

// LifecycleService drives tasks through
// Pending -> In Progress -> Completed -> Pending (auto-reset).
type LifecycleService struct {
	tasks   *repository.TaskRepository
	history *repository.HistoryRepository
	clk     clock.Clock
	log     *zap.SugaredLogger
}

func NewLifecycleService(tasks *repository.TaskRepository, history *repository.HistoryRepository, clk clock.Clock, log *zap.SugaredLogger) *LifecycleService {
	return &LifecycleService{tasks: tasks, history: history, clk: clk, log: log}
}

// Start moves a task into In Progress. There is no state guard; starting is
// always allowed.
func (s *LifecycleService) Start(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.Status = model.StatusInProgress
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Complete records a completion: history entry, completion facts, next due
// date, cleared notification flag — all in one transaction. Completing an
// overdue task requires an admin actor; anyone else is rejected with the
// task untouched.
func (s *LifecycleService) Complete(ctx context.Context, taskID uint, input CompletionInput, actor Actor) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.StatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	now := s.clk.Now()
	wasOverdue := recurrence.IsOverdue(task, now)
	if wasOverdue && !actor.Admin {
		return nil, fmt.Errorf("%w: only an administrator may complete an overdue task", ErrPermissionDenied)
	}

	today := clock.Today(now)
	next, known := recurrence.NextDue(task.Frequency, today)
	if !known {
		s.log.Warnw("unknown frequency at completion, keeping today as next due",
			"task", task.ID, "frequency", task.Frequency)
	}

	assigneeName := ""
	if task.Assignee != nil {
		assigneeName = task.Assignee.Name
	}
	entry := &model.CompletionHistoryEntry{
		TaskID:          task.ID,
		Frequency:       task.Frequency,
		AssigneeName:    assigneeName,
		DueDate:         task.DueDate,
		CompletedAt:     now,
		CompletedBy:     actor.Name,
		ItemsReconciled: input.ItemsReconciled,
		ExceptionsFound: input.ExceptionsFound,
		Notes:           input.Notes,
		WasOverdue:      wasOverdue,
		DaysOverdue:     recurrence.DaysOverdue(task, now),
	}

	task.Status = model.StatusCompleted
	task.LastCompletedAt = &now
	task.ItemsReconciled = input.ItemsReconciled
	task.ExceptionsFound = input.ExceptionsFound
	task.CompletionNotes = input.Notes
	task.CompletedBy = actor.Name
	task.NextDue = &next
	task.OverdueNotified = false

	if err := s.tasks.Complete(ctx, task, entry); err != nil {
		return nil, err
	}
	return task, nil
}

// AutoResetSweep moves every completed task whose next cycle has arrived
// back to Pending: due date becomes the stored next due, and a fresh next
// due is computed from it. The conditional update in the repository makes
// repeated or concurrent sweeps reset each task once. Returns the number of
// tasks actually reset; a failure on one task is logged and skipped.
func (s *LifecycleService) AutoResetSweep(ctx context.Context, now time.Time) (int, error) {
	today := clock.Today(now)
	due, err := s.tasks.ListDueForReset(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list tasks due for reset: %w", err)
	}

	count := 0
	for i := range due {
		task := &due[i]
		if task.NextDue == nil {
			// Completed without a next due date: invariant breach, skip.
			s.log.Warnw("completed task has no next due date", "task", task.ID)
			continue
		}
		newDue := clock.Date(*task.NextDue)
		next, known := recurrence.NextDue(task.Frequency, newDue)
		if !known {
			s.log.Warnw("unknown frequency during reset", "task", task.ID, "frequency", task.Frequency)
		}
		reset, err := s.tasks.ResetIfCompleted(ctx, task.ID, newDue, next)
		if err != nil {
			s.log.Errorw("auto-reset failed", "task", task.ID, "err", err)
			continue
		}
		if reset {
			count++
		}
	}
	return count, nil
}

// ManualReset is the admin-driven variant of the auto-reset: same field
// clearing, with the stored next due (or a freshly computed one when
// absent) as the new due date.
func (s *LifecycleService) ManualReset(ctx context.Context, taskID uint, actor Actor) (*model.Task, error) {
	if !actor.Admin {
		return nil, fmt.Errorf("%w: only an administrator may reset a task", ErrPermissionDenied)
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	today := clock.Today(s.clk.Now())
	var newDue time.Time
	if task.NextDue != nil {
		newDue = clock.Date(*task.NextDue)
	} else {
		newDue, _ = recurrence.NextDue(task.Frequency, today)
	}
	next, known := recurrence.NextDue(task.Frequency, newDue)
	if !known {
		s.log.Warnw("unknown frequency during manual reset", "task", task.ID, "frequency", task.Frequency)
	}

	if err := s.tasks.ResetFields(ctx, task.ID, newDue, next); err != nil {
		return nil, err
	}
	return s.tasks.FindByID(ctx, taskID)
}

// History returns the append-only completion log of a task.
func (s *LifecycleService) History(ctx context.Context, taskID uint) ([]model.CompletionHistoryEntry, error) {
	return s.history.ListByTask(ctx, taskID)
}
