package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const Symbol = "€"

var symbolReplacer = strings.NewReplacer(
	Symbol, "",
	"EUR", "",
	"eur", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
)

// ParseCurrency reads amounts written with '.' thousands and ',' decimal
// separators, with an optional euro symbol. Unparseable text and amounts
// outside the float64 range yield 0.
func ParseCurrency(text string) float64 {
	value, ok := parseDecimal(text)
	if !ok {
		return 0
	}
	return finite(value.InexactFloat64())
}

// ParseCurrencyValue accepts raw cell values as delivered by spreadsheet
// APIs: strings go through ParseCurrency, numbers pass through.
func ParseCurrencyValue(value any) float64 {
	switch v := value.(type) {
	case string:
		return ParseCurrency(v)
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case decimal.Decimal:
		return finite(v.InexactFloat64())
	default:
		return 0
	}
}

func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

func parseDecimal(text string) (decimal.Decimal, bool) {
	cleaned := symbolReplacer.Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return decimal.Zero, false
	}
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// FormatCurrency renders v as "1.234,56 €". Non-finite values render as
// "n/d €".
func FormatCurrency(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/d " + Symbol
	}
	rounded := decimal.NewFromFloat(v).Round(2)
	fixed := rounded.Abs().StringFixed(2)

	integer, fraction, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(integer))
	b.WriteByte(',')
	b.WriteString(fraction)
	b.WriteString(" ")
	b.WriteString(Symbol)
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	parts := make([]string, 0, len(digits)/3+1)
	if head > 0 {
		parts = append(parts, digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		parts = append(parts, digits[i:i+3])
	}
	return strings.Join(parts, ".")
}
