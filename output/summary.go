package output

import (
	"fmt"
	"strconv"

	"bizdash/money"
	"bizdash/reconcile"
)

var (
	summaryHeaders = []string{"Collaboratore", "Compenso Tot. nei Mesi Sel.", "Ore Tot. nel Periodo", "Costo Orario Effettivo", "Ore Lavorate (Filtrate)", "Clienti Seguiti (Filtrati)"}
	monthHeaders   = []string{"Mese", "Fatturato", "Costi", "Margine"}
)

// WriteCollaboratorSummary exports the per-collaborator table. Money cells
// use the dashboard currency format in CSV and plain numbers in Excel.
func WriteCollaboratorSummary(path, format string, rows []reconcile.CollaboratorSummary) error {
	switch normalizeFormat(format) {
	case "csv":
		table := make([][]string, 0, len(rows))
		for _, row := range rows {
			table = append(table, []string{
				row.Collaborator,
				money.FormatCurrency(row.PayInMonths),
				fmt.Sprintf("%.1f h", row.PeriodHours),
				money.FormatCurrency(row.EffectiveRate),
				fmt.Sprintf("%.1f h", row.FilteredHours),
				strconv.Itoa(row.Clients),
			})
		}
		return writeTableCSV(path, summaryHeaders, table)
	case "excel", "xlsx":
		table := make([][]any, 0, len(rows))
		for _, row := range rows {
			table = append(table, []any{
				row.Collaborator,
				round2(row.PayInMonths),
				round2(row.PeriodHours),
				round2(row.EffectiveRate),
				round2(row.FilteredHours),
				row.Clients,
			})
		}
		return writeTableExcel(path, "Riepilogo", summaryHeaders, table)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteHours exports a ranked grouping under the given key column.
func WriteHours(path, format, keyHeader string, rows []HoursRow) error {
	headers := []string{keyHeader, "Ore"}
	switch normalizeFormat(format) {
	case "csv":
		table := make([][]string, 0, len(rows))
		for _, row := range rows {
			table = append(table, []string{row.Key, fmt.Sprintf("%.2f", row.Hours)})
		}
		return writeTableCSV(path, headers, table)
	case "excel", "xlsx":
		table := make([][]any, 0, len(rows))
		for _, row := range rows {
			table = append(table, []any{row.Key, round2(row.Hours)})
		}
		return writeTableExcel(path, keyHeader, headers, table)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteMonthFlow exports revenue, cost and margin per touched month.
func WriteMonthFlow(path, format string, flows []reconcile.MonthFlow) error {
	switch normalizeFormat(format) {
	case "csv":
		table := make([][]string, 0, len(flows))
		for _, flow := range flows {
			table = append(table, []string{
				flow.Month,
				money.FormatCurrency(flow.Revenue),
				money.FormatCurrency(flow.Cost),
				money.FormatCurrency(flow.Margin),
			})
		}
		return writeTableCSV(path, monthHeaders, table)
	case "excel", "xlsx":
		table := make([][]any, 0, len(flows))
		for _, flow := range flows {
			table = append(table, []any{flow.Month, round2(flow.Revenue), round2(flow.Cost), round2(flow.Margin)})
		}
		return writeTableExcel(path, "Mesi", monthHeaders, table)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
