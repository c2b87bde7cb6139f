package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/model"
	"recon-tracker/internal/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "recon-test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		// One connection keeps concurrent test writers off SQLite's lock.
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, clock.Location)
}

func testAt(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, clock.Location)
}

func newLifecycle(db *gorm.DB, now time.Time) (*LifecycleService, *repository.TaskRepository, *repository.HistoryRepository) {
	tasks := repository.NewTaskRepository(db)
	history := repository.NewHistoryRepository(db)
	svc := NewLifecycleService(tasks, history, clock.Fixed(now), zap.NewNop().Sugar())
	return svc, tasks, history
}

func mustCreateTask(t *testing.T, tasks *repository.TaskRepository, task *model.Task) *model.Task {
	t.Helper()
	if err := tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestStartSetsInProgress(t *testing.T) {
	db := setupDB(t)
	svc, tasks, _ := newLifecycle(db, testAt(2026, time.January, 7, 9, 0))
	due := testDate(2026, time.January, 7)
	task := mustCreateTask(t, tasks, &model.Task{
		Name: "Nostro vs ledger", Frequency: model.FrequencyDaily,
		Status: model.StatusPending, DueDate: &due, DueTime: "17:00",
	})

	got, err := svc.Start(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if got.Status != model.StatusInProgress {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestCompleteRecordsHistoryAndNextDue(t *testing.T) {
	db := setupDB(t)
	// Friday morning, task due at 17:00: not yet overdue, a regular user
	// may complete it.
	svc, tasks, history := newLifecycle(db, testAt(2026, time.January, 9, 10, 0))
	due := testDate(2026, time.January, 9)
	task := mustCreateTask(t, tasks, &model.Task{
		Name: "Cash position", Frequency: model.FrequencyDaily,
		Status: model.StatusPending, DueDate: &due, DueTime: "17:00",
	})

	got, err := svc.Complete(context.Background(), task.ID,
		CompletionInput{ItemsReconciled: 120, ExceptionsFound: 2, Notes: "two breaks escalated"},
		Actor{Name: "Priya", Admin: false})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if got.Status != model.StatusCompleted {
		t.Fatalf("status = %q", got.Status)
	}
	if got.NextDue == nil || !got.NextDue.Equal(testDate(2026, time.January, 12)) {
		t.Fatalf("next due = %v, want following Monday", got.NextDue)
	}
	if got.LastCompletedAt == nil || got.CompletedBy != "Priya" || got.OverdueNotified {
		t.Fatalf("completion fields wrong: %+v", got)
	}

	entries, err := history.ListByTask(context.Background(), task.ID)
	if err != nil || len(entries) != 1 {
		t.Fatalf("history entries = %d, err %v", len(entries), err)
	}
	entry := entries[0]
	if entry.WasOverdue || entry.DaysOverdue != 0 || entry.ItemsReconciled != 120 || entry.CompletedBy != "Priya" {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
}

func TestCompleteOverdueRejectsNonAdmin(t *testing.T) {
	db := setupDB(t)
	// Friday 23:59: a weekly task due today has just tipped into overdue.
	svc, tasks, history := newLifecycle(db, testAt(2026, time.January, 9, 23, 59))
	due := testDate(2026, time.January, 9)
	task := mustCreateTask(t, tasks, &model.Task{
		Name: "Weekly suspense", Frequency: model.FrequencyWeekly,
		Status: model.StatusPending, DueDate: &due,
	})

	_, err := svc.Complete(context.Background(), task.ID, CompletionInput{}, Actor{Name: "Priya", Admin: false})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-admin completion of overdue task: err = %v", err)
	}

	// Rejected completion leaves the task untouched.
	reloaded, err := tasks.FindByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != model.StatusPending || reloaded.NextDue != nil {
		t.Fatalf("task mutated by rejected completion: %+v", reloaded)
	}

	got, err := svc.Complete(context.Background(), task.ID, CompletionInput{}, Actor{Name: "Admin", Admin: true})
	if err != nil {
		t.Fatalf("admin complete: %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Fatalf("status = %q", got.Status)
	}

	entries, _ := history.ListByTask(context.Background(), task.ID)
	if len(entries) != 1 || !entries[0].WasOverdue || entries[0].DaysOverdue != 0 {
		t.Fatalf("history should record was_overdue=true days_overdue=0: %+v", entries)
	}
}

func TestCompleteTwiceRejected(t *testing.T) {
	db := setupDB(t)
	svc, tasks, _ := newLifecycle(db, testAt(2026, time.January, 7, 9, 0))
	due := testDate(2026, time.January, 7)
	task := mustCreateTask(t, tasks, &model.Task{
		Name: "GL vs subledger", Frequency: model.FrequencyDaily,
		Status: model.StatusPending, DueDate: &due, DueTime: "17:00",
	})

	if _, err := svc.Complete(context.Background(), task.ID, CompletionInput{}, Actor{Name: "A", Admin: true}); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := svc.Complete(context.Background(), task.ID, CompletionInput{}, Actor{Name: "A", Admin: true}); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second complete: err = %v", err)
	}
}

func TestAutoResetSweepIsIdempotent(t *testing.T) {
	db := setupDB(t)
	now := testAt(2026, time.January, 12, 8, 0) // Monday
	svc, tasks, _ := newLifecycle(db, now)

	due := testDate(2026, time.January, 9)
	next := testDate(2026, time.January, 12)
	completedAt := testAt(2026, time.January, 9, 15, 0)
	task := mustCreateTask(t, tasks, &model.Task{
		Name: "Cash position", Frequency: model.FrequencyDaily,
		Status: model.StatusCompleted, DueDate: &due, DueTime: "17:00",
		NextDue: &next, LastCompletedAt: &completedAt,
		ItemsReconciled: 120, ExceptionsFound: 2,
		CompletionNotes: "done", CompletedBy: "Priya",
	})

	count, err := svc.AutoResetSweep(context.Background(), now)
	if err != nil || count != 1 {
		t.Fatalf("first sweep reset %d, err %v", count, err)
	}

	reloaded, _ := tasks.FindByID(context.Background(), task.ID)
	if reloaded.Status != model.StatusPending {
		t.Fatalf("status after reset = %q", reloaded.Status)
	}
	if reloaded.DueDate == nil || !reloaded.DueDate.Equal(next) {
		t.Fatalf("due date after reset = %v, want stored next due", reloaded.DueDate)
	}
	// Fresh next due computed from the new due date (Mon Jan 12 -> Tue Jan 13).
	if reloaded.NextDue == nil || !reloaded.NextDue.Equal(testDate(2026, time.January, 13)) {
		t.Fatalf("next due after reset = %v", reloaded.NextDue)
	}
	if reloaded.ItemsReconciled != 0 || reloaded.ExceptionsFound != 0 ||
		reloaded.CompletionNotes != "" || reloaded.CompletedBy != "" || reloaded.OverdueNotified {
		t.Fatalf("completion fields not cleared: %+v", reloaded)
	}

	count, err = svc.AutoResetSweep(context.Background(), now)
	if err != nil || count != 0 {
		t.Fatalf("second sweep reset %d, err %v", count, err)
	}
}

func TestAutoResetSweepLeavesFutureCyclesAlone(t *testing.T) {
	db := setupDB(t)
	now := testAt(2026, time.January, 9, 8, 0)
	svc, tasks, _ := newLifecycle(db, now)

	due := testDate(2026, time.January, 9)
	next := testDate(2026, time.January, 16)
	mustCreateTask(t, tasks, &model.Task{
		Name: "Weekly suspense", Frequency: model.FrequencyWeekly,
		Status: model.StatusCompleted, DueDate: &due, NextDue: &next,
	})

	count, err := svc.AutoResetSweep(context.Background(), now)
	if err != nil || count != 0 {
		t.Fatalf("sweep reset %d tasks before next due arrived, err %v", count, err)
	}
}

func TestManualResetRequiresAdmin(t *testing.T) {
	db := setupDB(t)
	svc, tasks, _ := newLifecycle(db, testAt(2026, time.January, 7, 9, 0))
	due := testDate(2026, time.January, 7)
	task := mustCreateTask(t, tasks, &model.Task{
		Name: "Cash position", Frequency: model.FrequencyDaily,
		Status: model.StatusPending, DueDate: &due, DueTime: "17:00",
	})

	if _, err := svc.ManualReset(context.Background(), task.ID, Actor{Name: "Priya", Admin: false}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-admin manual reset: err = %v", err)
	}
}

func TestManualResetCompleteSweepRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	admin := Actor{Name: "Admin", Admin: true}

	// Wednesday Jan 7.
	svc, tasks, _ := newLifecycle(db, testAt(2026, time.January, 7, 9, 0))
	due := testDate(2026, time.January, 2)
	task := mustCreateTask(t, tasks, &model.Task{
		Name: "Weekly suspense", Frequency: model.FrequencyWeekly,
		Status: model.StatusInProgress, DueDate: &due,
		ItemsReconciled: 7, CompletedBy: "stale", OverdueNotified: true,
	})

	// Manual reset: no stored next due, so it is computed fresh (Weekly
	// from Wed Jan 7 -> Fri Jan 16).
	reset, err := svc.ManualReset(ctx, task.ID, admin)
	if err != nil {
		t.Fatalf("manual reset: %v", err)
	}
	if reset.Status != model.StatusPending || reset.OverdueNotified {
		t.Fatalf("after manual reset: %+v", reset)
	}
	if reset.DueDate == nil || !reset.DueDate.Equal(testDate(2026, time.January, 16)) {
		t.Fatalf("due date after manual reset = %v", reset.DueDate)
	}
	if reset.ItemsReconciled != 0 || reset.CompletedBy != "" {
		t.Fatalf("completion fields survived manual reset: %+v", reset)
	}

	// Complete during the new cycle.
	if _, err := svc.Complete(ctx, task.ID, CompletionInput{ItemsReconciled: 9}, admin); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Advance to the next due date and sweep.
	completed, _ := tasks.FindByID(ctx, task.ID)
	if completed.NextDue == nil {
		t.Fatal("completed task has no next due")
	}
	later := completed.NextDue.Add(8 * time.Hour)
	sweepSvc, _, _ := newLifecycle(db, later)
	count, err := sweepSvc.AutoResetSweep(ctx, later)
	if err != nil || count != 1 {
		t.Fatalf("sweep after next due reset %d, err %v", count, err)
	}

	final, _ := tasks.FindByID(ctx, task.ID)
	if final.Status != model.StatusPending || final.OverdueNotified ||
		final.ItemsReconciled != 0 || final.CompletedBy != "" || final.CompletionNotes != "" {
		t.Fatalf("round-tripped task differs from a freshly reset one: %+v", final)
	}
}
