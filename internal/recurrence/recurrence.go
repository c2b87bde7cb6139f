package recurrence

import (
	"fmt"
	"time"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/model"
)

// DefaultDueTime applies to Daily tasks created without an explicit time.
const DefaultDueTime = "17:00"

// InitialDue computes the first due date for a newly created task. Monthly
// tasks keep whatever date the caller supplied, so the second return value
// is false for them (and for unknown frequencies).
func InitialDue(frequency string, today time.Time) (time.Time, bool) {
	switch frequency {
	case model.FrequencyDaily:
		d := clock.Date(today)
		if clock.IsWeekend(d) {
			// Jump to the coming Monday via the week-remainder delta.
			// Deliberately not NextBusinessDay: the two formulas differ on
			// edge cases and are kept separate.
			d = d.AddDate(0, 0, 7-clock.WeekdayIndex(d))
		}
		return d, true
	case model.FrequencyWeekly:
		return clock.LastWorkingDayOfWeek(today), true
	}
	return clock.Date(today), false
}

// NextDue computes the due date of the next cycle. Called exactly once per
// completion, and again during reset with the new due date as "today". For
// unknown frequencies it falls back to today and returns false; the caller
// logs the anomaly rather than failing.
func NextDue(frequency string, today time.Time) (time.Time, bool) {
	switch frequency {
	case model.FrequencyDaily:
		return clock.NextBusinessDay(today), true
	case model.FrequencyWeekly:
		return clock.NextLastWorkingDayOfWeek(today), true
	case model.FrequencyMonthly:
		d := clock.Date(today)
		monthStart := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, clock.Location).AddDate(0, 1, 0)
		return clock.FirstWorkingDayOfMonth(monthStart), true
	}
	return clock.Date(today), false
}

// ParseDueTime validates an HH:MM due-time string.
func ParseDueTime(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid due time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
