package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hours/internal/timeutil"
)

var dayLayouts = []string{
	timeutil.DayLayout,
	"02.01.2006",
	"2006/01/02",
	"01/02/2006",
}

// parseHours accepts "7.5" as well as German style "7,5" and "1.234,5".
func parseHours(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("missing hours")
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours %q: %w", raw, err)
	}
	if hours < 0 {
		return 0, fmt.Errorf("hours must not be negative")
	}
	return hours, nil
}

func parseDay(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dayLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}
