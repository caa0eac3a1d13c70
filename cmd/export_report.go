package cmd

import (
	"fmt"

	"bizdash/logbook"
	"bizdash/output"
	"bizdash/reconcile"
)

// exportReport writes one view of report and returns the number of data rows.
func exportReport(mode, path, format string, report reconcile.Report, table logbook.Table) (int, error) {
	switch exportModeName(mode) {
	case "entries":
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return 0, err
		}
		return len(report.Entries), writer.Write(path, report.Entries, table.ResolveDepartmentField())
	case "summary":
		rows := report.Metrics.Collaborators
		return len(rows), output.WriteCollaboratorSummary(path, format, rows)
	case "collaborators":
		rows := output.RankedHours(output.HoursByCollaborator(report.Entries))
		return len(rows), output.WriteHours(path, format, "Collaboratore", rows)
	case "clients":
		rows := output.RankedHours(output.HoursByClient(report.Entries))
		return len(rows), output.WriteHours(path, format, "Cliente", rows)
	case "departments":
		rows := output.RankedHours(output.HoursByDepartment(table, report.Entries))
		return len(rows), output.WriteHours(path, format, "Reparto", rows)
	case "months":
		flows := report.Metrics.Months
		return len(flows), output.WriteMonthFlow(path, format, flows)
	default:
		return 0, fmt.Errorf("unsupported export mode: %s (supported: entries, summary, collaborators, clients, departments, months)", mode)
	}
}
