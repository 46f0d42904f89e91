package importer

import (
	"strings"
)

// Record is one data row keyed by normalized header.
type Record struct {
	RowNumber int
	Values    map[string]string
}

func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		normalized := normalizeHeader(key)
		if value, ok := r.Values[normalized]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Empty reports whether every cell of the row is blank.
func (r Record) Empty() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimPrefix(input, "\ufeff")
	trimmed = strings.TrimSpace(strings.ToLower(trimmed))
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}

func recordFromRow(rowNumber int, headers, row []string) Record {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row) {
			values[header] = row[i]
		} else {
			values[header] = ""
		}
	}
	return Record{RowNumber: rowNumber, Values: values}
}

func normalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		normalized[i] = normalizeHeader(header)
	}
	return normalized
}
