package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

type CSVReader struct{}

func (r *CSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	normalizedHeaders := normalizeHeaders(headers)

	records := make([]Record, 0, 128)
	for rowNumber := 2; ; rowNumber++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNumber, err)
		}

		record := recordFromRow(rowNumber, normalizedHeaders, row)
		if record.Empty() {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
