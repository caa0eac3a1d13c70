package ledger

import (
	"strings"

	"bizdash/money"
)

// Kind classifies a revenue row once, when the table is loaded.
type Kind int

const (
	KindActual Kind = iota
	KindForecast
)

func (k Kind) String() string {
	if k == KindForecast {
		return "forecast"
	}
	return "actual"
}

// ClassifyKind maps the value of the "Actual" column to a Kind. Rows carry
// KindActual only when the column reads "Actual".
func ClassifyKind(value string) Kind {
	if strings.EqualFold(strings.TrimSpace(value), "actual") {
		return KindActual
	}
	return KindForecast
}

// RevenueRow holds one client's monthly amounts as raw currency text.
type RevenueRow struct {
	Client string
	Months map[string]string
	Kind   Kind
}

func (r RevenueRow) Amount(month string) float64 {
	return money.ParseCurrency(r.Months[month])
}

// Total sums the amounts of the given months.
func (r RevenueRow) Total(months []string) float64 {
	total := 0.0
	for _, month := range months {
		total += r.Amount(month)
	}
	return total
}

func ActualOnly(rows []RevenueRow) []RevenueRow {
	out := make([]RevenueRow, 0, len(rows))
	for _, row := range rows {
		if row.Kind == KindActual {
			out = append(out, row)
		}
	}
	return out
}
