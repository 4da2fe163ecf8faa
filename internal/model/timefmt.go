package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 form used for entry and status timestamps
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// DateLayout is the date-only form used for status bounds
const DateLayout = "2006-01-02"

// FormatTimestamp renders t in UTC with millisecond precision
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp. RFC 3339 without fractional seconds is accepted too.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders the UTC calendar date of t, discarding the time of day
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// ParseDateOrTimestamp accepts either a YYYY-MM-DD date or a full timestamp
func ParseDateOrTimestamp(s string) (time.Time, error) {
	if len(s) == len(DateLayout) {
		return ParseDate(s)
	}
	return ParseTimestamp(s)
}
