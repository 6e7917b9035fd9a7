package validator

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidRange = errors.New("invalid date range")
	ErrInvalidLimit = errors.New("invalid limit")
)

const (
	DefaultLimit = 2
	MaxLimit     = 100
)

// ID parses a positive int64 path parameter.
func ID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// DateRange accepts YYYY-MM-DD or RFC 3339 bounds. A bare end date covers the whole day.
func DateRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, _, err := date(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, dateOnly, err := date(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return start, end, nil
}

func date(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, ErrInvalidRange
	}
	if parsed, err := time.Parse(time.DateOnly, raw); err == nil {
		return parsed, true, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, ErrInvalidRange
	}
	return parsed.UTC(), false, nil
}

// Limit parses an optional page size, DefaultLimit when empty.
func Limit(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > MaxLimit {
		return 0, ErrInvalidLimit
	}
	return limit, nil
}
