package importer

import (
	"regexp"
	"strings"

	"bizdash/clients"
	"bizdash/internal/timeutil"
	"bizdash/ledger"
	"bizdash/money"
)

// Tables are the four raw sheets of one source fetch. A nil sheet was not
// found in the source.
type Tables struct {
	Logbook      *Sheet
	Revenue      *Sheet
	Compensation *Sheet
	ClientMap    *Sheet
}

var (
	revenueClientKeys   = []string{"Cliente", "Client"}
	revenueKindKeys     = []string{"Actual"}
	compensationKeys    = []string{"Collaboratore", "Collaboaratore", "Nome"}
	clientMapAliasKeys  = []string{"Cliente"}
	clientMapTargetKeys = []string{"Cliente Map", "ClienteMap"}
)

// groupedThousands matches "1.500" or "12.000.000": dots used only as
// thousands separators.
var groupedThousands = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// monthColumns maps month labels to the normalized header of their column.
func monthColumns(sheet *Sheet) map[string]string {
	columns := make(map[string]string, 12)
	for _, header := range sheet.Headers {
		if label, ok := timeutil.NormalizeMonthLabel(header); ok {
			columns[label] = normalizeHeader(header)
		}
	}
	return columns
}

// ParseRevenue reads every client row, actual and forecast. Without an
// "Actual" column every row counts as actual.
func ParseRevenue(sheet *Sheet) []ledger.RevenueRow {
	if sheet.Empty() {
		return []ledger.RevenueRow{}
	}

	hasKind := sheet.HasColumn(revenueKindKeys...)
	columns := monthColumns(sheet)
	rows := make([]ledger.RevenueRow, 0, len(sheet.Records))
	for _, record := range sheet.Records {
		client := record.Get(revenueClientKeys...)
		if client == "" {
			continue
		}

		row := ledger.RevenueRow{
			Client: client,
			Months: make(map[string]string, len(columns)),
			Kind:   ledger.KindActual,
		}
		if hasKind {
			row.Kind = ledger.ClassifyKind(record.Get(revenueKindKeys...))
		}
		for label, column := range columns {
			row.Months[label] = strings.TrimSpace(record.Values[column])
		}
		rows = append(rows, row)
	}
	return rows
}

// ParseCompensation reads one row per collaborator. Duplicate rows are
// summed and unreadable cells count as 0.
func ParseCompensation(sheet *Sheet) ledger.Compensation {
	comp := ledger.Compensation{}
	if sheet.Empty() {
		return comp
	}

	columns := monthColumns(sheet)
	for _, record := range sheet.Records {
		name := record.Get(compensationKeys...)
		if name == "" {
			continue
		}
		for label, column := range columns {
			comp.Add(name, label, parseCompensationCell(record.Values[column]))
		}
	}
	return comp
}

func parseCompensationCell(raw string) float64 {
	cleaned := strings.TrimSpace(strings.NewReplacer(money.Symbol, "", " ", "", "\u00a0", "").Replace(raw))
	if groupedThousands.MatchString(cleaned) {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	return money.ParseCurrency(cleaned)
}

// ParseClientMap reads alias/canonical pairs from the "Cliente" and
// "Cliente Map" columns. ok is false when the sheet lacks either column or
// holds no usable pair.
func ParseClientMap(sheet *Sheet) (clients.NameMap, bool) {
	if sheet.Empty() || !sheet.HasColumn(clientMapAliasKeys...) || !sheet.HasColumn(clientMapTargetKeys...) {
		return nil, false
	}

	names := make(clients.NameMap, len(sheet.Records))
	for _, record := range sheet.Records {
		names.Put(record.Get(clientMapAliasKeys...), record.Get(clientMapTargetKeys...))
	}
	if len(names) == 0 {
		return nil, false
	}
	return names, true
}
