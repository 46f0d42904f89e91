package output

import (
	"fmt"
	"hours/worklog"
	"path/filepath"
	"strings"
	"time"
)

// Report is a date-bounded set of entries written to one sheet.
type Report struct {
	SheetName string
	Entries   []worklog.Entry
}

type Writer interface {
	Write(path string, report Report) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: excel, csv)", format)
	}
}

// DetectFormat infers the report format from a file extension, defaulting to excel.
func DetectFormat(path string) string {
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") {
	case "csv":
		return "csv"
	default:
		return "excel"
	}
}

// Extension returns the file extension used for derived report names.
func Extension(format string) string {
	if normalizeFormat(format) == "csv" {
		return ".csv"
	}
	return ".xlsx"
}

// SheetName names a report after the month its range starts in, e.g. "2021 January".
func SheetName(from time.Time) string {
	return from.Format("2006 January")
}

// DefaultFileName derives the report file name from the range start and,
// when the report is scoped to one client, the client name.
func DefaultFileName(client string, from time.Time, ext string) string {
	name := SheetName(from)
	if strings.TrimSpace(client) != "" {
		name = client + " - " + name
	}
	return name + ext
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
