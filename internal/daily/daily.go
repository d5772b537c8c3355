package daily

import (
	"errors"
	"time"
)

const layout = "2006-01-02"

var ErrBadDate = errors.New("date must be YYYY-MM-DD")

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(layout)
}

// ParseKey validates a date key from user input. Empty means today.
func ParseKey(s string, now time.Time) (string, error) {
	if s == "" {
		return DateKey(now), nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", ErrBadDate
	}
	return DateKey(t), nil
}
