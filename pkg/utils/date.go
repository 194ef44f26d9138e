package utils

import (
	"time"
)

// TimeNowUTC returns the current wall clock in UTC. All persisted timestamps use it.
func TimeNowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDateParam accepts RFC3339 or a plain YYYY-MM-DD date.
func ParseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}

// PrettyDate formats t for human-facing messages.
func PrettyDate(t time.Time) string {
	return t.UTC().Format("02 Jan 2006 15:04 MST")
}
