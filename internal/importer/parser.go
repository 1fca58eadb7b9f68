package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseCSV reads the whole file with the first record as header. Rows are
// keyed by lowercased header; blank lines are dropped.
func parseCSV(file io.Reader) ([]Row, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &InputError{Message: fmt.Sprintf("Failed to parse CSV file: %v", err)}
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := normalizeHeaders(records[0])
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := rowFromRecord(headers, record)
		if row.empty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseWorkbook reads the first sheet of an Excel workbook, first row as
// header.
func parseWorkbook(file io.Reader) ([]Row, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, &InputError{Message: fmt.Sprintf("Failed to parse Excel file: %v", err)}
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, &InputError{Message: "No data found in file"}
	}
	records, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(records) < 2 {
		return nil, &InputError{Message: "File must contain at least a header row and one data row"}
	}

	headers := normalizeHeaders(records[0])
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := rowFromRecord(headers, record)
		if row.empty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeHeaders(record []string) []string {
	headers := make([]string, len(record))
	for i, header := range record {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}
	return headers
}

// rowFromRecord zips header names with cell values; short records leave
// trailing columns empty.
func rowFromRecord(headers, record []string) Row {
	row := make(Row, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i < len(record) {
			row[header] = record[i]
		} else {
			row[header] = ""
		}
	}
	return row
}
