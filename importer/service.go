package importer

import (
	"fmt"
	"strings"

	"hours/worklog"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Entries        []worklog.NewEntry
}

// Run reads every file and maps its rows to entry drafts. Rows without a
// date are skipped; any other malformed row aborts the import.
func Run(paths []string, format string, defaultClient string) (*Result, error) {
	result := &Result{Entries: make([]worklog.NewEntry, 0, 256)}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			entry, ok, mapErr := mapRecord(record, defaultClient)
			if mapErr != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, record.RowNumber, mapErr)
			}
			if !ok {
				result.RowsSkipped++
				continue
			}

			result.RowsMapped++
			result.Entries = append(result.Entries, entry)
		}
	}

	return result, nil
}

func mapRecord(record Record, defaultClient string) (worklog.NewEntry, bool, error) {
	rawDay := record.Get("date", "day")
	if rawDay == "" {
		return worklog.NewEntry{}, false, nil
	}

	day, err := parseDay(rawDay)
	if err != nil {
		return worklog.NewEntry{}, false, err
	}

	clientName := firstNonEmpty(record.Get("client", "customer"), defaultClient)
	if clientName == "" {
		return worklog.NewEntry{}, false, fmt.Errorf("missing client (add a client column or use --client)")
	}

	project := record.Get("project")
	if project == "" {
		return worklog.NewEntry{}, false, fmt.Errorf("missing project")
	}

	hours, err := parseHours(record.Get("hours", "duration"))
	if err != nil {
		return worklog.NewEntry{}, false, err
	}

	return worklog.NewEntry{
		ClientName: clientName,
		Project:    project,
		Task:       record.Get("task", "description"),
		Day:        day,
		Hours:      hours,
	}, true, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
