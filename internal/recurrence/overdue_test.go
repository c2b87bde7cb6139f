package recurrence

import (
	"testing"
	"time"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/model"
)

func at(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, clock.Location)
}

func dailyTask(due time.Time, dueTime string) *model.Task {
	return &model.Task{Frequency: model.FrequencyDaily, Status: model.StatusPending, DueDate: &due, DueTime: dueTime}
}

func TestDailyOverdueMinuteBoundary(t *testing.T) {
	due := date(2026, time.January, 7)
	task := dailyTask(due, "17:00")

	if IsOverdue(task, at(2026, time.January, 7, 16, 59)) {
		t.Error("overdue at 16:59")
	}
	if IsOverdue(task, at(2026, time.January, 7, 17, 0)) {
		t.Error("overdue at exactly 17:00")
	}
	if !IsOverdue(task, at(2026, time.January, 7, 17, 1)) {
		t.Error("not overdue at 17:01")
	}
}

func TestDailyWithoutDueTimeNotOverdueOnDueDay(t *testing.T) {
	due := date(2026, time.January, 7)
	task := dailyTask(due, "")
	if IsOverdue(task, at(2026, time.January, 7, 23, 59)) {
		t.Error("daily task without due time went overdue on its due day")
	}
}

func TestWeeklyOverdueOnlyInFinalMinute(t *testing.T) {
	due := date(2026, time.January, 9)
	task := &model.Task{Frequency: model.FrequencyWeekly, Status: model.StatusPending, DueDate: &due}

	if IsOverdue(task, at(2026, time.January, 9, 22, 0)) {
		t.Error("weekly task overdue at 22:00 on its due day")
	}
	if !IsOverdue(task, at(2026, time.January, 9, 23, 59)) {
		t.Error("weekly task not overdue at 23:59 on its due day")
	}
	if !IsOverdue(task, at(2026, time.January, 10, 8, 0)) {
		t.Error("weekly task not overdue the day after")
	}
}

func TestMonthlyOverdueOnlyInFinalMinute(t *testing.T) {
	due := date(2026, time.February, 2)
	task := &model.Task{Frequency: model.FrequencyMonthly, Status: model.StatusPending, DueDate: &due}

	if IsOverdue(task, at(2026, time.February, 2, 12, 0)) {
		t.Error("monthly task overdue at noon on its due day")
	}
	if !IsOverdue(task, at(2026, time.February, 2, 23, 59)) {
		t.Error("monthly task not overdue at 23:59")
	}
}

func TestPastDueDateIsOverdueRegardlessOfTime(t *testing.T) {
	due := date(2026, time.January, 5)
	task := dailyTask(due, "17:00")
	if !IsOverdue(task, at(2026, time.January, 6, 0, 1)) {
		t.Error("task with yesterday's due date not overdue")
	}
}

func TestCompletedAndUndatedNeverOverdue(t *testing.T) {
	due := date(2026, time.January, 5)
	task := dailyTask(due, "17:00")
	task.Status = model.StatusCompleted
	if IsOverdue(task, at(2026, time.January, 20, 12, 0)) {
		t.Error("completed task reported overdue")
	}

	undated := &model.Task{Frequency: model.FrequencyWeekly, Status: model.StatusPending}
	if IsOverdue(undated, at(2026, time.January, 20, 12, 0)) {
		t.Error("task without due date reported overdue")
	}
}

func TestIsDueTodayNotOverdue(t *testing.T) {
	due := date(2026, time.January, 7)
	task := dailyTask(due, "17:00")

	if !IsDueTodayNotOverdue(task, at(2026, time.January, 7, 10, 0)) {
		t.Error("task due today at 10:00 not reported due-today")
	}
	if IsDueTodayNotOverdue(task, at(2026, time.January, 7, 17, 1)) {
		t.Error("overdue task reported due-today")
	}
	if IsDueTodayNotOverdue(task, at(2026, time.January, 8, 10, 0)) {
		t.Error("yesterday's task reported due-today")
	}
}

func TestDaysOverdue(t *testing.T) {
	due := date(2026, time.January, 9)
	task := &model.Task{Frequency: model.FrequencyWeekly, Status: model.StatusPending, DueDate: &due}

	// Still the due day: zero whole days even at 23:59.
	if got := DaysOverdue(task, at(2026, time.January, 9, 23, 59)); got != 0 {
		t.Errorf("DaysOverdue on due day = %d", got)
	}
	if got := DaysOverdue(task, at(2026, time.January, 12, 9, 0)); got != 3 {
		t.Errorf("DaysOverdue three days on = %d", got)
	}
	if got := DaysOverdue(task, at(2026, time.January, 5, 9, 0)); got != 0 {
		t.Errorf("DaysOverdue before due date = %d", got)
	}
}
