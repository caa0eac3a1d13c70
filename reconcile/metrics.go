package reconcile

import (
	"sort"
	"strings"

	"bizdash/clients"
	"bizdash/filter"
	"bizdash/internal/timeutil"
	"bizdash/ledger"
	"bizdash/logbook"
)

// Input carries everything one metrics pass reads. Filtered is the subset
// matching every selector; All is the whole logbook.
type Input struct {
	Filtered          []logbook.Entry
	All               []logbook.Entry
	Compensation      ledger.Compensation
	Resolver          *clients.Resolver
	CostCollaborators []string
	RevenueClients    []string
	Period            logbook.Period
}

type PeriodMetrics struct {
	TotalHours        float64
	TotalPeriodCost   float64
	TotalCompanyHours float64
	AverageHourlyCost float64
	FilteredHoursCost float64
	TotalRevenue      float64
	Margin            float64
	MarginPercentage  float64
	TouchedMonths     []string
	Collaborators     []CollaboratorSummary
	Months            []MonthFlow
}

// CollaboratorSummary is one row of the per-collaborator table. PeriodHours
// covers the whole date window; FilteredHours only the filtered rows.
type CollaboratorSummary struct {
	Collaborator  string
	PayInMonths   float64
	PeriodHours   float64
	EffectiveRate float64
	FilteredHours float64
	Clients       int
}

type MonthFlow struct {
	Month   string
	Revenue float64
	Cost    float64
	Margin  float64
}

// Compute derives period metrics. It is defined for every input: missing
// cells and empty tables contribute zero.
func Compute(in Input) PeriodMetrics {
	metrics := PeriodMetrics{
		TouchedMonths: TouchedMonths(in.Filtered),
		Collaborators: []CollaboratorSummary{},
		Months:        []MonthFlow{},
	}

	metrics.TotalHours = sumHours(in.Filtered)

	costCollaborators := uniqueNames(in.CostCollaborators)
	for _, collaborator := range costCollaborators {
		metrics.TotalPeriodCost += in.Compensation.PayInMonths(collaborator, metrics.TouchedMonths)
	}
	metrics.TotalCompanyHours = hoursInPeriod(in.All, in.Period, costCollaborators...)
	metrics.AverageHourlyCost = safeDiv(metrics.TotalPeriodCost, metrics.TotalCompanyHours)
	metrics.FilteredHoursCost = metrics.TotalHours * metrics.AverageHourlyCost

	for _, client := range uniqueNames(in.RevenueClients) {
		metrics.TotalRevenue += in.Resolver.Amount(client, metrics.TouchedMonths)
	}

	metrics.Margin = metrics.TotalRevenue - metrics.FilteredHoursCost
	metrics.MarginPercentage = safeDiv(metrics.Margin, metrics.TotalRevenue) * 100

	metrics.Collaborators = summarizeCollaborators(in, metrics.TouchedMonths)
	metrics.Months = monthlyFlow(in, metrics.TouchedMonths)
	return metrics
}

// safeDiv returns 0 for a zero denominator.
func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// TouchedMonths returns the distinct month labels of entries in calendar
// order.
func TouchedMonths(entries []logbook.Entry) []string {
	seen := make(map[string]struct{}, 12)
	months := make([]string, 0, 12)
	for _, entry := range entries {
		label := strings.TrimSpace(entry.MonthLabel)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		months = append(months, label)
	}
	sort.SliceStable(months, func(i, j int) bool {
		a, _ := timeutil.ParseMonthName(months[i])
		b, _ := timeutil.ParseMonthName(months[j])
		return a < b
	})
	return months
}

func summarizeCollaborators(in Input, months []string) []CollaboratorSummary {
	type filteredStats struct {
		minutes float64
		clients map[string]struct{}
	}

	byName := make(map[string]*filteredStats)
	for _, entry := range in.Filtered {
		stats, ok := byName[entry.Collaborator]
		if !ok {
			stats = &filteredStats{clients: make(map[string]struct{})}
			byName[entry.Collaborator] = stats
		}
		stats.minutes += entry.Minutes
		if client := strings.TrimSpace(entry.Client); client != "" {
			stats.clients[client] = struct{}{}
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]CollaboratorSummary, 0, len(names))
	for _, name := range names {
		stats := byName[name]
		pay := in.Compensation.PayInMonths(name, months)
		periodHours := hoursInPeriod(in.All, in.Period, name)
		rows = append(rows, CollaboratorSummary{
			Collaborator:  name,
			PayInMonths:   pay,
			PeriodHours:   periodHours,
			EffectiveRate: safeDiv(pay, periodHours),
			FilteredHours: stats.minutes / 60,
			Clients:       len(stats.clients),
		})
	}
	return rows
}

func monthlyFlow(in Input, months []string) []MonthFlow {
	flows := make([]MonthFlow, 0, len(months))
	collaborators := uniqueNames(in.CostCollaborators)
	revenueClients := uniqueNames(in.RevenueClients)
	for _, month := range months {
		flow := MonthFlow{Month: month}
		for _, client := range revenueClients {
			flow.Revenue += in.Resolver.Amount(client, []string{month})
		}
		for _, collaborator := range collaborators {
			flow.Cost += in.Compensation.Pay(collaborator, month)
		}
		flow.Margin = flow.Revenue - flow.Cost
		flows = append(flows, flow)
	}
	return flows
}

// hoursInPeriod sums hours of entries inside period belonging to one of
// collaborators. No collaborators means no hours.
func hoursInPeriod(entries []logbook.Entry, period logbook.Period, collaborators ...string) float64 {
	if len(collaborators) == 0 {
		return 0
	}
	scope := filter.Criteria{Period: period}.ForCollaborators(collaborators...)
	return sumHours(filter.Apply(logbook.Table{Entries: entries}, scope))
}

func sumHours(entries []logbook.Entry) float64 {
	minutes := 0.0
	for _, entry := range entries {
		minutes += entry.Minutes
	}
	return minutes / 60
}

// uniqueNames drops blanks and duplicates, keeping first-seen order.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
