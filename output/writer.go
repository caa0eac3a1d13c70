package output

import (
	"fmt"
	"strings"

	"bizdash/logbook"
)

// Writer exports filtered logbook entries. department is the field bound
// to the logbook the entries were filtered from.
type Writer interface {
	Write(path string, entries []logbook.Entry, department logbook.DepartmentField) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatForPath infers the output format from a file extension.
func FormatForPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") {
		return "excel"
	}
	return "csv"
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

var entryHeaders = []string{"Nome", "Data", "Mese", "Reparto", "Macro attività", "Micro attività", "Cliente", "Note", "Minuti Impiegati"}

func entryRow(entry logbook.Entry, department string) []string {
	return []string{
		entry.Collaborator,
		entry.Date.Format("02/01/2006"),
		entry.MonthLabel,
		department,
		entry.MacroActivity,
		entry.MicroActivity,
		entry.Client,
		entry.Note,
		formatNumber(entry.Minutes),
	}
}
