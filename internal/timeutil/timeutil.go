package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the ISO calendar-day format used on the command line and in storage.
const DayLayout = "2006-01-02"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func FirstDayOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// FirstDayOfPrevMonth wraps into December of the previous year in January.
func FirstDayOfPrevMonth(now time.Time) time.Time {
	return FirstDayOfMonth(now).AddDate(0, -1, 0)
}

func Tomorrow(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, 1)
}

func FormatDay(value time.Time) string {
	return value.Format(DayLayout)
}

// ParseDay parses an ISO day in the local time zone.
func ParseDay(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty day")
	}
	parsed, err := time.ParseInLocation(DayLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (expected YYYY-MM-DD): %w", raw, err)
	}
	return parsed, nil
}
