package clock

import "time"

// Date truncates t to midnight in Location, giving the civil date.
func Date(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// Today is the civil date of the given instant.
func Today(now time.Time) time.Time { return Date(now) }

// WeekdayIndex maps Monday to 0 through Sunday to 6.
func WeekdayIndex(d time.Time) int {
	return (int(d.In(Location).Weekday()) + 6) % 7
}

// IsWeekend reports whether d falls on Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.In(Location).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextBusinessDay returns the first Mon-Fri day strictly after d.
func NextBusinessDay(d time.Time) time.Time {
	next := Date(d).AddDate(0, 0, 1)
	for IsWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// LastWorkingDayOfWeek returns the Friday of d's Monday-based week. For d on
// or after Friday this is that same week's Friday, possibly already in the
// past; it is never pushed forward into the next week.
func LastWorkingDayOfWeek(d time.Time) time.Time {
	return Date(d).AddDate(0, 0, 4-WeekdayIndex(d))
}

// NextLastWorkingDayOfWeek returns the Friday of the week after ref. When
// ref already sits on Friday or the weekend, one more full week is skipped.
// Used only to compute the next cycle after a completion.
func NextLastWorkingDayOfWeek(ref time.Time) time.Time {
	next := LastWorkingDayOfWeek(ref).AddDate(0, 0, 7)
	if WeekdayIndex(ref) >= 4 {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// FirstWorkingDayOfMonth advances monthStart forward past a weekend. It
// never moves backward.
func FirstWorkingDayOfMonth(monthStart time.Time) time.Time {
	d := Date(monthStart)
	for IsWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
