package reconcile

import (
	"errors"
	"fmt"

	"bizdash/filter"
	"bizdash/importer"
	"bizdash/logbook"
)

// ErrLogbookUnavailable means the snapshot has no logbook entries at all,
// which points to a setup problem rather than an idle period.
var ErrLogbookUnavailable = errors.New("logbook data unavailable")

type Status string

const (
	StatusOK    Status = "ok"
	StatusEmpty Status = "empty"
)

// UnresolvedClient is a logbook client with no revenue row. KnownAliases
// are the client map entries already pointing at Suggestion.
type UnresolvedClient struct {
	Label        string
	Suggestion   string
	KnownAliases []string
}

type Report struct {
	Status     Status
	Criteria   filter.Criteria
	Metrics    PeriodMetrics
	Unresolved []UnresolvedClient
	// Entries are the filtered rows the metrics were computed from.
	Entries []logbook.Entry
}

// Run performs one dashboard pass over snap. Cost is scoped to the selected
// collaborators or, without a selection, to those active under the other
// filters. Revenue is scoped to the selected clients or to every client
// active in the date window.
func Run(snap *importer.Snapshot, criteria filter.Criteria) (Report, error) {
	if !snap.Available() {
		return Report{}, ErrLogbookUnavailable
	}
	if err := criteria.Period.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid filter period: %w", err)
	}

	table := snap.Logbook
	filtered := filter.Apply(table, criteria)

	costCollaborators := criteria.Collaborators
	if len(costCollaborators) == 0 {
		active := filter.Apply(table, criteria.WithoutCollaborators())
		costCollaborators = filter.Distinct(table, active, filter.FieldCollaborator)
	}

	revenueClients := criteria.Clients
	if len(revenueClients) == 0 {
		window := filter.Apply(table, criteria.PeriodOnly())
		revenueClients = filter.Distinct(table, window, filter.FieldClient)
	}

	resolver := snap.Resolver()
	report := Report{
		Status:   StatusOK,
		Criteria: criteria,
		Metrics: Compute(Input{
			Filtered:          filtered,
			All:               table.Entries,
			Compensation:      snap.Compensation,
			Resolver:          resolver,
			CostCollaborators: costCollaborators,
			RevenueClients:    revenueClients,
			Period:            criteria.Period,
		}),
		Unresolved: make([]UnresolvedClient, 0),
		Entries:    filtered,
	}
	if len(filtered) == 0 {
		report.Status = StatusEmpty
	}

	for _, label := range revenueClients {
		if _, ok := resolver.Resolve(label); ok {
			continue
		}
		unresolved := UnresolvedClient{Label: label}
		if suggestion, ok := resolver.Suggest(label); ok {
			unresolved.Suggestion = suggestion
			unresolved.KnownAliases = snap.ClientMap.Aliases(suggestion)
		}
		report.Unresolved = append(report.Unresolved, unresolved)
	}

	return report, nil
}
