package recurrence

import (
	"testing"
	"time"

	"recon-tracker/internal/clock"
	"recon-tracker/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, clock.Location)
}

func TestInitialDueDaily(t *testing.T) {
	cases := []struct {
		today, want time.Time
	}{
		{date(2026, time.January, 7), date(2026, time.January, 7)},   // Wed -> same day
		{date(2026, time.January, 9), date(2026, time.January, 9)},   // Fri -> same day
		{date(2026, time.January, 10), date(2026, time.January, 12)}, // Sat -> coming Mon
		{date(2026, time.January, 11), date(2026, time.January, 12)}, // Sun -> coming Mon
	}
	for _, c := range cases {
		got, computed := InitialDue(model.FrequencyDaily, c.today)
		if !computed {
			t.Fatalf("InitialDue(Daily, %s) not computed", c.today.Format("2006-01-02"))
		}
		if !got.Equal(c.want) {
			t.Errorf("InitialDue(Daily, %s) = %s, want %s",
				c.today.Format("2006-01-02"), got.Format("2006-01-02"), c.want.Format("2006-01-02"))
		}
	}
}

func TestInitialDueWeekly(t *testing.T) {
	got, computed := InitialDue(model.FrequencyWeekly, date(2026, time.January, 7)) // Wed
	if !computed || !got.Equal(date(2026, time.January, 9)) {
		t.Fatalf("InitialDue(Weekly) = %s computed=%v", got.Format("2006-01-02"), computed)
	}

	// Saturday keeps the Friday just behind it; the current week is never
	// forced forward.
	got, _ = InitialDue(model.FrequencyWeekly, date(2026, time.January, 10))
	if !got.Equal(date(2026, time.January, 9)) {
		t.Fatalf("InitialDue(Weekly, Sat) = %s", got.Format("2006-01-02"))
	}
}

func TestInitialDueMonthlyIsCallerSupplied(t *testing.T) {
	if _, computed := InitialDue(model.FrequencyMonthly, date(2026, time.January, 7)); computed {
		t.Fatal("Monthly initial due must not be auto-computed")
	}
}

func TestNextDueDaily(t *testing.T) {
	// Completed on a Friday: next business day is the following Monday.
	got, known := NextDue(model.FrequencyDaily, date(2026, time.January, 9))
	if !known || !got.Equal(date(2026, time.January, 12)) {
		t.Fatalf("NextDue(Daily, Fri) = %s known=%v", got.Format("2006-01-02"), known)
	}
}

func TestNextDueWeekly(t *testing.T) {
	cases := []struct {
		today, want time.Time
	}{
		{date(2026, time.January, 7), date(2026, time.January, 16)}, // Wed -> next week's Fri
		{date(2026, time.January, 9), date(2026, time.January, 23)}, // Fri -> one more week out
	}
	for _, c := range cases {
		got, known := NextDue(model.FrequencyWeekly, c.today)
		if !known || !got.Equal(c.want) {
			t.Errorf("NextDue(Weekly, %s) = %s, want %s",
				c.today.Format("2006-01-02"), got.Format("2006-01-02"), c.want.Format("2006-01-02"))
		}
	}
}

func TestNextDueMonthlySkipsWeekendMonthStart(t *testing.T) {
	// Completed Jan 15; Feb 1 2026 is a Sunday, so the next cycle starts
	// Monday Feb 2.
	got, known := NextDue(model.FrequencyMonthly, date(2026, time.January, 15))
	if !known || !got.Equal(date(2026, time.February, 2)) {
		t.Fatalf("NextDue(Monthly, Jan 15) = %s known=%v", got.Format("2006-01-02"), known)
	}

	// December rolls over the year boundary.
	got, _ = NextDue(model.FrequencyMonthly, date(2026, time.December, 10))
	if got.Year() != 2027 || got.Month() != time.January {
		t.Fatalf("NextDue(Monthly, Dec 10) = %s", got.Format("2006-01-02"))
	}
}

func TestNextDueUnknownFrequencyFallsBack(t *testing.T) {
	today := date(2026, time.January, 7)
	got, known := NextDue("Fortnightly", today)
	if known {
		t.Fatal("unknown frequency reported as known")
	}
	if !got.Equal(today) {
		t.Fatalf("unknown frequency fallback = %s, want today", got.Format("2006-01-02"))
	}
}

func TestParseDueTime(t *testing.T) {
	h, m, err := ParseDueTime("17:00")
	if err != nil || h != 17 || m != 0 {
		t.Fatalf("ParseDueTime(17:00) = %d:%d, %v", h, m, err)
	}
	if _, _, err := ParseDueTime("25:00"); err == nil {
		t.Fatal("ParseDueTime accepted 25:00")
	}
	if _, _, err := ParseDueTime("teatime"); err == nil {
		t.Fatal("ParseDueTime accepted garbage")
	}
}
