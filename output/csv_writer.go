package output

import (
	"encoding/csv"
	"fmt"
	"hours/internal/timeutil"
	"os"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, report Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(reportHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, entry := range report.Entries {
		row := []string{
			timeutil.FormatDay(entry.Day),
			entry.Project,
			entry.Task,
			fmt.Sprintf("%.2f", entry.Hours),
			FormatMoney(entry.Client.Currency, entry.Amount()),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	summary := Summarize(report.Entries)
	totals := [][]string{
		{"", "", "", "", ""},
		{"", "", "Total", fmt.Sprintf("%.2f", summary.Hours), summary.FormatAmount()},
	}
	if err := writer.WriteAll(totals); err != nil {
		return fmt.Errorf("write csv totals: %w", err)
	}

	return nil
}
