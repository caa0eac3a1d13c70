package clients

import (
	"strings"

	"bizdash/ledger"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// Resolver finds the revenue rows a logbook client label refers to.
type Resolver struct {
	rows   []ledger.RevenueRow
	folded []string
	names  NameMap
}

func NewResolver(rows []ledger.RevenueRow, names NameMap) *Resolver {
	r := &Resolver{
		rows:   rows,
		folded: make([]string, len(rows)),
		names:  names,
	}
	for i, row := range rows {
		r.folded[i] = foldCase(strings.TrimSpace(row.Client))
	}
	return r
}

// Resolve translates label through the name map, then looks for rows with
// exactly that client name. Without an exact hit every row whose name
// contains the label, ignoring case, is returned.
func (r *Resolver) Resolve(label string) ([]ledger.RevenueRow, bool) {
	if r == nil {
		return nil, false
	}
	canonical := r.names.Translate(label)
	if canonical == "" {
		return nil, false
	}

	exact := make([]ledger.RevenueRow, 0, 1)
	for _, row := range r.rows {
		if strings.TrimSpace(row.Client) == canonical {
			exact = append(exact, row)
		}
	}
	if len(exact) > 0 {
		return exact, true
	}

	needle := foldCase(canonical)
	partial := make([]ledger.RevenueRow, 0, 1)
	for i, row := range r.rows {
		if strings.Contains(r.folded[i], needle) {
			partial = append(partial, row)
		}
	}
	if len(partial) == 0 {
		return nil, false
	}
	return partial, true
}

// Amount sums every resolved row over months. Unresolved labels give 0.
func (r *Resolver) Amount(label string, months []string) float64 {
	rows, ok := r.Resolve(label)
	if !ok {
		return 0
	}
	total := 0.0
	for _, row := range rows {
		total += row.Total(months)
	}
	return total
}

// Suggest proposes the closest revenue client for a label that does not
// resolve.
func (r *Resolver) Suggest(label string) (string, bool) {
	if r == nil {
		return "", false
	}
	needle := foldCase(r.names.Translate(label))
	if needle == "" {
		return "", false
	}

	best := ""
	bestScore := 1.0
	for i, row := range r.rows {
		candidate := r.folded[i]
		if candidate == "" {
			continue
		}
		longest := max(len([]rune(needle)), len([]rune(candidate)))
		score := float64(levenshtein.ComputeDistance(needle, candidate)) / float64(longest)
		if score < bestScore {
			best = row.Client
			bestScore = score
		}
	}
	if best == "" || bestScore >= 0.5 {
		return "", false
	}
	return best, true
}

// Casers are stateful and not shared between goroutines.
func foldCase(value string) string {
	return cases.Fold().String(value)
}
