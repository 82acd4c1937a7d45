package clinical

import (
	"strings"
	"time"

	"ward-rounds/internal/apperr"
)

// DateLayout is the format of every date-only field.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value as local midnight in loc.
func ParseDate(field, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, apperr.Validation(field, "must be a YYYY-MM-DD date, got %q", value)
	}
	return t, nil
}

// ValidateDate checks the format and returns the trimmed value.
func ValidateDate(field, value string) (string, error) {
	if _, err := ParseDate(field, value, time.UTC); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// ValidateDateRange rejects an end date that falls before the start date.
func ValidateDateRange(field, start, end string) error {
	s, err := ParseDate("start_date", start, time.UTC)
	if err != nil {
		return err
	}
	e, err := ParseDate(field, end, time.UTC)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return apperr.Validation(field, "must not be before %s", start)
	}
	return nil
}

// DayKey is the calendar date of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
