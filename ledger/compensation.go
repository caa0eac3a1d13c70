package ledger

import "sort"

// Compensation maps collaborator → month label → amount paid.
type Compensation map[string]map[string]float64

// Add accumulates amount so duplicate collaborator rows are summed.
func (c Compensation) Add(collaborator, month string, amount float64) {
	months, ok := c[collaborator]
	if !ok {
		months = make(map[string]float64)
		c[collaborator] = months
	}
	months[month] += amount
}

func (c Compensation) Pay(collaborator, month string) float64 {
	return c[collaborator][month]
}

// PayInMonths sums the collaborator's pay over the given months.
func (c Compensation) PayInMonths(collaborator string, months []string) float64 {
	total := 0.0
	for _, month := range months {
		total += c.Pay(collaborator, month)
	}
	return total
}

func (c Compensation) Collaborators() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
