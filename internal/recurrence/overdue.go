package recurrence

import (
	"time"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/model"
)

// endOfDayMinute is the minute-of-day at which Weekly and Monthly tasks tip
// into overdue on their due day: the final minute of the civil day. The
// threshold is intentionally this coarse and must not be "fixed" silently.
const endOfDayMinute = 23*60 + 59

// IsOverdue reports whether the task has passed its due moment as of now.
// Completed tasks and tasks without a due date are never overdue.
func IsOverdue(task *model.Task, now time.Time) bool {
	if task.Status == model.StatusCompleted || task.DueDate == nil {
		return false
	}
	due := clock.Date(*task.DueDate)
	today := clock.Today(now)
	if due.Before(today) {
		return true
	}
	if !due.Equal(today) {
		return false
	}
	local := now.In(clock.Location)
	if task.Frequency == model.FrequencyDaily && task.DueTime != "" {
		hour, minute, err := ParseDueTime(task.DueTime)
		if err != nil {
			return false
		}
		// Strictly past the due minute; exactly HH:MM is still on time.
		return local.Hour() > hour || (local.Hour() == hour && local.Minute() > minute)
	}
	if task.Frequency == model.FrequencyWeekly || task.Frequency == model.FrequencyMonthly {
		return local.Hour()*60+local.Minute() >= endOfDayMinute
	}
	return false
}

// IsDueTodayNotOverdue reports a task due today that has not yet tipped
// into overdue.
func IsDueTodayNotOverdue(task *model.Task, now time.Time) bool {
	if task.Status == model.StatusCompleted || task.DueDate == nil {
		return false
	}
	if !clock.Date(*task.DueDate).Equal(clock.Today(now)) {
		return false
	}
	return !IsOverdue(task, now)
}

// DaysOverdue counts whole civil days between the due date and now's date,
// floored at zero. On the due day itself this is 0 even once the task is
// already overdue by time-of-day.
func DaysOverdue(task *model.Task, now time.Time) int {
	if task.DueDate == nil {
		return 0
	}
	days := int(clock.Today(now).Sub(clock.Date(*task.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
