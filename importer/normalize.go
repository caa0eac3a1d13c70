package importer

import (
	"strings"

	"bizdash/internal/timeutil"
	"bizdash/logbook"
)

var (
	collaboratorKeys  = []string{"Nome", "Collaboratore"}
	dateKeys          = []string{"Data", "Date"}
	departmentKeys    = []string{"Reparto"}
	departmentAltKeys = []string{"Reparto1"}
	macroKeys         = []string{"Macro attività", "Macro attivita", "Macro"}
	microKeys         = []string{"Micro attività", "Micro attivita", "Micro"}
	clientKeys        = []string{"Cliente", "Client"}
	noteKeys          = []string{"Note", "Notes"}
	minutesKeys       = []string{"Minuti Impiegati", "Minuti", "Minutes"}
)

type NormalizeResult struct {
	RowsRead   int
	RowsMapped int
	Dropped    int
	Table      logbook.Table
}

// Normalize converts raw logbook records into canonical entries. Rows whose
// date does not parse are dropped.
func Normalize(records []Record, headers []string) logbook.Table {
	return NormalizeWithStats(records, headers).Table
}

func NormalizeSheet(sheet *Sheet) NormalizeResult {
	if sheet == nil {
		return NormalizeResult{Table: logbook.Table{Entries: []logbook.Entry{}}}
	}
	return NormalizeWithStats(sheet.Records, sheet.Headers)
}

func NormalizeWithStats(records []Record, headers []string) NormalizeResult {
	field := bindDepartmentField(headers, records)
	result := NormalizeResult{
		RowsRead: len(records),
		Table: logbook.Table{
			Entries:         make([]logbook.Entry, 0, len(records)),
			DepartmentField: field,
		},
	}

	for _, record := range records {
		date, err := parseDate(record.Get(dateKeys...))
		if err != nil {
			result.Dropped++
			continue
		}

		entry := logbook.Entry{
			RowNumber:     record.RowNumber,
			Collaborator:  record.Get(collaboratorKeys...),
			Date:          date,
			MonthLabel:    timeutil.MonthLabel(date.Month()),
			Department:    record.Get(departmentKeys...),
			DepartmentAlt: record.Get(departmentAltKeys...),
			MacroActivity: record.Get(macroKeys...),
			MicroActivity: record.Get(microKeys...),
			Client:        record.Get(clientKeys...),
			Minutes:       parseMinutes(record.Get(minutesKeys...)),
			Note:          record.Get(noteKeys...),
		}
		switch field {
		case logbook.FieldDepartment:
			entry.Department = fallback(entry.Department, logbook.DepartmentUnspecified)
		case logbook.FieldDepartmentAlt:
			entry.DepartmentAlt = fallback(entry.DepartmentAlt, logbook.DepartmentUnspecified)
		}

		result.Table.Entries = append(result.Table.Entries, entry)
		result.RowsMapped++
	}

	return result
}

// bindDepartmentField picks the department column once per table. With no
// department column at all every entry carries the sentinel in Department.
func bindDepartmentField(headers []string, records []Record) logbook.DepartmentField {
	if len(headers) == 0 && len(records) > 0 {
		headers = make([]string, 0, len(records[0].Values))
		for key := range records[0].Values {
			headers = append(headers, key)
		}
	}
	present := make(map[string]bool, len(headers))
	for _, header := range headers {
		present[normalizeHeader(header)] = true
	}

	switch {
	case present[normalizeHeader(departmentKeys[0])]:
		return logbook.FieldDepartment
	case present[normalizeHeader(departmentAltKeys[0])]:
		return logbook.FieldDepartmentAlt
	default:
		return logbook.FieldDepartment
	}
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return strings.TrimSpace(value)
}
