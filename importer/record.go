package importer

import (
	"strings"
)

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

func (r Record) blank() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// Sheet is one raw table: headers as written in the source plus records
// keyed by normalized header.
type Sheet struct {
	Name    string
	Headers []string
	Records []Record
}

// NewSheet builds a sheet from raw rows whose first row is the header.
// Rows with no value in any column are skipped.
func NewSheet(name string, rows [][]string) *Sheet {
	sheet := &Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}

	sheet.Headers = make([]string, len(rows[0]))
	normalizedHeaders := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		sheet.Headers[i] = strings.TrimSpace(header)
		normalizedHeaders[i] = normalizeHeader(header)
	}

	sheet.Records = make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		values := make(map[string]string, len(normalizedHeaders))
		for col, header := range normalizedHeaders {
			if header == "" {
				continue
			}
			if col < len(row) {
				values[header] = row[col]
			} else if _, seen := values[header]; !seen {
				values[header] = ""
			}
		}

		record := Record{RowNumber: i + 2, Values: values}
		if record.blank() {
			continue
		}
		sheet.Records = append(sheet.Records, record)
	}
	return sheet
}

// HasColumn reports whether any of keys is a header of the sheet.
func (s *Sheet) HasColumn(keys ...string) bool {
	if s == nil {
		return false
	}
	for _, key := range keys {
		normalized := normalizeHeader(key)
		for _, header := range s.Headers {
			if normalizeHeader(header) == normalized {
				return true
			}
		}
	}
	return false
}

// Rows returns the sheet as raw rows, header first.
func (s *Sheet) Rows() [][]string {
	if s == nil || len(s.Headers) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(s.Records)+1)
	rows = append(rows, append([]string(nil), s.Headers...))
	for _, record := range s.Records {
		row := make([]string, len(s.Headers))
		for i, header := range s.Headers {
			row[i] = record.Values[normalizeHeader(header)]
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Sheet) Empty() bool {
	return s == nil || len(s.Records) == 0
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}
