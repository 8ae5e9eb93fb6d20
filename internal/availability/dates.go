package availability

import (
	"strings"
	"time"

	"hotel-backend/internal/domain"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date to UTC midnight. A full RFC 3339 timestamp is
// accepted and its calendar part, as written, is used.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.NewValidationError(field, "date is required")
	}
	if len(s) > len(DateLayout) {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, domain.NewValidationError(field, "date must be formatted as YYYY-MM-DD")
		}
		y, m, d := ts.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// Normalize truncates t to midnight of its UTC calendar day.
func Normalize(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns UTC midnight of now's UTC day. Every "today" in the system goes through here.
func Today(now time.Time) time.Time {
	return Normalize(now)
}

// Overlaps reports whether [s1,e1) and [s2,e2) share at least one night.
// Touching boundaries do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	s1, e1, s2, e2 = Normalize(s1), Normalize(e1), Normalize(s2), Normalize(e2)
	return s1.Before(e2) && s2.Before(e1)
}

// Nights returns the number of nights in [start, end).
func Nights(start, end time.Time) int32 {
	return int32(Normalize(end).Sub(Normalize(start)).Hours() / 24)
}

// ValidateRange checks ordering and, unless allowPast, that start is not before today.
func ValidateRange(start, end, now time.Time, allowPast bool) error {
	start, end = Normalize(start), Normalize(end)
	if !end.After(start) {
		return domain.NewValidationError("end_date", "end date must be after start date")
	}
	if !allowPast && start.Before(Today(now)) {
		return domain.NewValidationError("start_date", "start date cannot be in the past")
	}
	return nil
}
