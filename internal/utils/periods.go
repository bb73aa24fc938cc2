package utils

import (
	"fmt"
	"time"

	"cheque-ledger-backend/internal/domain"
)

// PeriodStart returns the first day of the calendar bucket containing t.
// Weeks start on Monday, matching ISO-8601 week numbering.
func PeriodStart(t time.Time, period domain.Period) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case domain.PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.PeriodMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return day
}

// PeriodKey labels the bucket containing t: 2025-03-14, 2025-W11 or 2025-03.
func PeriodKey(t time.Time, period domain.Period) string {
	switch period {
	case domain.PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case domain.PeriodMonthly:
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// ParseDate parses a yyyy-mm-dd string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid date %q, expected yyyy-mm-dd", s)
	}
	return t, nil
}
