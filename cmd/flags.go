package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"hours/internal/timeutil"
	"hours/worklog"
)

// changedString returns nil unless the flag was given on the command line.
func changedString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func changedFloat(cmd *cobra.Command, name string, value float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func parseDayFlag(name, raw string) (time.Time, error) {
	day, err := timeutil.ParseDay(raw)
	if err != nil {
		return time.Time{}, worklog.Invalidf("--%s %q is not a date (expected YYYY-MM-DD)", name, raw)
	}
	return day, nil
}

// dayOrDefault parses raw when set and falls back to def otherwise.
func dayOrDefault(name string, raw *string, def time.Time) (time.Time, error) {
	if raw == nil {
		return def, nil
	}
	return parseDayFlag(name, *raw)
}

func isBlank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}
