package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/NeonGeckoCom/neon-data-models/errors"
)

// All timestamp fields are integer epoch seconds on the wire. Inputs may
// arrive pre-typed (time.Time), as epoch numbers, or as RFC3339/ISO-8601
// strings; these helpers normalize every accepted form.

// EpochNow returns the current time as epoch seconds.
func EpochNow() int64 {
	return time.Now().Unix()
}

// ParseEpoch converts an accepted timestamp representation to epoch seconds.
// Fractional seconds are rounded to the nearest second.
func ParseEpoch(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v + 0.5), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		if f, err := v.Float64(); err == nil {
			return int64(f + 0.5), nil
		}
	case string:
		if t, err := parseTimeString(v); err == nil {
			return t.Unix(), nil
		}
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int64(f + 0.5), nil
		}
	case time.Time:
		return v.Unix(), nil
	case *time.Time:
		if v != nil {
			return v.Unix(), nil
		}
	}
	return 0, errors.NewTypeMismatch("", "epoch seconds", value)
}

// ParseTime converts an accepted timestamp representation to a time.Time in
// UTC. Numeric inputs are interpreted as epoch seconds and may carry
// fractional precision.
func ParseTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case *time.Time:
		if v != nil {
			return v.UTC(), nil
		}
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case float64:
		return timeFromEpochSeconds(v), nil
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return timeFromEpochSeconds(f), nil
		}
	case string:
		if t, err := parseTimeString(v); err == nil {
			return t.UTC(), nil
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return timeFromEpochSeconds(f), nil
		}
	}
	return time.Time{}, errors.NewTypeMismatch("", "timestamp", value)
}

// ParseDate converts a "YYYY-MM-DD" string or a time.Time to a civil date
// (midnight UTC). Other date layouts are rejected.
func ParseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC), nil
	case string:
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewTypeMismatch("", "ISO date (YYYY-MM-DD)", value)
}

// FormatDate renders a civil date in the canonical "YYYY-MM-DD" wire form.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDurationSeconds converts a raw seconds count (int or float) or a
// time.Duration to a time.Duration.
func ParseDurationSeconds(value any) (time.Duration, error) {
	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(math.Round(v * float64(time.Second))), nil
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return time.Duration(math.Round(f * float64(time.Second))), nil
		}
	}
	return 0, errors.NewTypeMismatch("", "duration seconds", value)
}

// DurationSeconds renders a duration as a seconds count for the wire.
func DurationSeconds(d time.Duration) float64 {
	return d.Seconds()
}

// FormatTime renders a point in time in the canonical wire form, preserving
// sub-second precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func timeFromEpochSeconds(sec float64) time.Time {
	whole := math.Floor(sec)
	frac := sec - whole
	return time.Unix(int64(whole), int64(math.Round(frac*float64(time.Second)))).UTC()
}

func parseTimeString(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
